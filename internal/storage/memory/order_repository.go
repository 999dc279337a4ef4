package memory

import (
	"sort"
	"sync"

	"github.com/windikite/MP5-E-CommerceAPI/internal/domain"
)

// orderRepositoryInMemory — in-memory реализация OrderRepository.
// Заказ хранится вместе с позициями, поэтому Create/Delete атомарны
// по построению.
type orderRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Order

	customers *customerRepositoryInMemory // проверка внешнего ключа; nil у автономного экземпляра
}

// NewOrderRepository возвращает автономный in-memory репозиторий заказов.
func NewOrderRepository() domain.OrderRepository {
	return &orderRepositoryInMemory{items: make(map[string]domain.Order)}
}

// Create сохраняет заказ с позициями как единое целое.
func (r *orderRepositoryInMemory) Create(order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Проверка внешнего ключа под собственным локом: каскад удаления
	// покупателя берёт этот же лок, поэтому заказ либо отклоняется,
	// либо успевает попасть под каскад — сироты не остаётся.
	if r.customers != nil && !r.customers.exists(order.CustomerID) {
		return domain.ErrCustomerNotFound
	}

	if _, exists := r.items[order.ID]; exists {
		return domain.ErrAlreadyExists
	}
	// Копируем слайс позиций, чтобы избежать мутаций извне.
	r.items[order.ID] = cloneOrder(order)
	return nil
}

// Get возвращает заказ с позициями или ErrOrderNotFound.
func (r *orderRepositoryInMemory) Get(id string) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.items[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return cloneOrder(order), nil
}

// List возвращает все заказы, новые первыми.
func (r *orderRepositoryInMemory) List() ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Order, 0, len(r.items))
	for _, order := range r.items {
		result = append(result, cloneOrder(order))
	}
	sortOrders(result)
	return result, nil
}

// ListByCustomer возвращает заказы покупателя, новые первыми.
func (r *orderRepositoryInMemory) ListByCustomer(customerID string) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Order, 0)
	for _, order := range r.items {
		if order.CustomerID != customerID {
			continue
		}
		result = append(result, cloneOrder(order))
	}
	sortOrders(result)
	return result, nil
}

// Update применяет изменяемые поля заказа; позиции после оформления неизменны.
func (r *orderRepositoryInMemory) Update(order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[order.ID]
	if !ok {
		return domain.ErrOrderNotFound
	}

	current.OrderDate = order.OrderDate
	current.ExpectedDelivery = order.ExpectedDelivery
	current.ShippingStatus = order.ShippingStatus
	current.UpdatedAt = order.UpdatedAt
	r.items[order.ID] = current
	return nil
}

// Delete удаляет заказ вместе с позициями.
func (r *orderRepositoryInMemory) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(r.items, id)
	return nil
}

// deleteByCustomer удаляет все заказы покупателя (каскад) и возвращает их ID.
func (r *orderRepositoryInMemory) deleteByCustomer(customerID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := make([]string, 0)
	for id, order := range r.items {
		if order.CustomerID != customerID {
			continue
		}
		delete(r.items, id)
		removed = append(removed, id)
	}
	return removed
}

func cloneOrder(src domain.Order) domain.Order {
	dst := src
	dst.Lines = append([]domain.OrderLine(nil), src.Lines...)
	return dst
}

func sortOrders(orders []domain.Order) {
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return orders[i].ID > orders[j].ID
	})
}

var _ domain.OrderRepository = (*orderRepositoryInMemory)(nil)
