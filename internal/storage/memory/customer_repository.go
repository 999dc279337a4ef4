package memory

import (
	"sort"
	"sync"

	"github.com/windikite/MP5-E-CommerceAPI/internal/domain"
)

// customerRepositoryInMemory — in-memory реализация CustomerRepository.
// Ссылки на репозитории заказов/учёток нужны для каскадного удаления;
// у автономного экземпляра (NewCustomerRepository) они nil.
type customerRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Customer

	orders   *orderRepositoryInMemory
	accounts *accountRepositoryInMemory
	timeline *timelineRepositoryInMemory
}

// NewCustomerRepository возвращает автономный репозиторий без каскадов.
// Для полного набора с каскадными удалениями используйте NewStore.
func NewCustomerRepository() domain.CustomerRepository {
	return &customerRepositoryInMemory{items: make(map[string]domain.Customer)}
}

// Create сохраняет нового покупателя, если ID ещё не занят.
func (r *customerRepositoryInMemory) Create(customer domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[customer.ID]; exists {
		return domain.ErrAlreadyExists
	}
	r.items[customer.ID] = customer
	return nil
}

// Get возвращает покупателя или ErrCustomerNotFound.
func (r *customerRepositoryInMemory) Get(id string) (domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	customer, ok := r.items[id]
	if !ok {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}
	return customer, nil
}

// List возвращает всех покупателей в порядке создания.
func (r *customerRepositoryInMemory) List() ([]domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Customer, 0, len(r.items))
	for _, customer := range r.items {
		result = append(result, customer)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

// Update перезаписывает данные покупателя или возвращает ErrCustomerNotFound.
func (r *customerRepositoryInMemory) Update(customer domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[customer.ID]; !ok {
		return domain.ErrCustomerNotFound
	}
	r.items[customer.ID] = customer
	return nil
}

// Delete удаляет покупателя и каскадно — его заказы (с позициями и
// таймлайном) и учётную запись.
func (r *customerRepositoryInMemory) Delete(id string) error {
	r.mu.Lock()
	if _, ok := r.items[id]; !ok {
		r.mu.Unlock()
		return domain.ErrCustomerNotFound
	}
	delete(r.items, id)
	r.mu.Unlock()

	// Каскад выполняется после снятия собственного мьютекса: каждый
	// репозиторий берёт только свой лок, порядок всегда один и тот же.
	if r.orders != nil {
		orderIDs := r.orders.deleteByCustomer(id)
		if r.timeline != nil {
			for _, orderID := range orderIDs {
				r.timeline.deleteByOrder(orderID)
			}
		}
	}
	if r.accounts != nil {
		r.accounts.deleteByCustomer(id)
	}

	return nil
}

// exists — проверка внешнего ключа для других репозиториев.
func (r *customerRepositoryInMemory) exists(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.items[id]
	return ok
}

var _ domain.CustomerRepository = (*customerRepositoryInMemory)(nil)
