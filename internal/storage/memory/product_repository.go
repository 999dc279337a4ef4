package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/windikite/MP5-E-CommerceAPI/internal/domain"
)

// productRepositoryInMemory — in-memory реализация ProductRepository.
// Мьютекс удерживается на весь цикл "проверить остаток — списать",
// поэтому Reserve сериализован между конкурентными заказами.
type productRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Product
}

// NewProductRepository возвращает in-memory репозиторий товаров.
func NewProductRepository() domain.ProductRepository {
	return &productRepositoryInMemory{
		items: make(map[string]domain.Product),
	}
}

// Create сохраняет новый товар, если ID ещё не занят.
func (r *productRepositoryInMemory) Create(product domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[product.ID]; exists {
		return domain.ErrAlreadyExists
	}
	r.items[product.ID] = product
	return nil
}

// Get возвращает товар или ErrProductNotFound, если его нет.
func (r *productRepositoryInMemory) Get(id string) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.items[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return product, nil
}

// List возвращает все товары в порядке создания.
func (r *productRepositoryInMemory) List() ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Product, 0, len(r.items))
	for _, product := range r.items {
		result = append(result, product)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

// Update перезаписывает товар или возвращает ErrProductNotFound.
func (r *productRepositoryInMemory) Update(product domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[product.ID]; !ok {
		return domain.ErrProductNotFound
	}
	r.items[product.ID] = product
	return nil
}

// Delete удаляет товар. Позиции заказов, ссылающиеся на него, остаются:
// они хранят собственный снимок цены и количества.
func (r *productRepositoryInMemory) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.items, id)
	return nil
}

// Reserve атомарно списывает qty единиц, если остатка хватает.
func (r *productRepositoryInMemory) Reserve(productID string, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.items[productID]
	if !ok {
		return domain.ErrProductNotFound
	}
	if product.Stock < qty {
		return &domain.InsufficientStockError{
			ProductID: productID,
			Requested: qty,
			Available: product.Stock,
		}
	}

	product.Stock -= qty
	product.UpdatedAt = time.Now().UTC()
	r.items[productID] = product
	return nil
}

// Release возвращает qty единиц на остаток (компенсация неудавшегося заказа).
func (r *productRepositoryInMemory) Release(productID string, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.items[productID]
	if !ok {
		return domain.ErrProductNotFound
	}

	product.Stock += qty
	product.UpdatedAt = time.Now().UTC()
	r.items[productID] = product
	return nil
}

var _ domain.ProductRepository = (*productRepositoryInMemory)(nil)
