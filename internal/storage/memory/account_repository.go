package memory

import (
	"sort"
	"sync"

	"github.com/windikite/MP5-E-CommerceAPI/internal/domain"
)

// accountRepositoryInMemory — in-memory реализация AccountRepository
// с индексом username → id для проверки глобальной уникальности.
type accountRepositoryInMemory struct {
	mu        sync.RWMutex
	items     map[string]domain.CustomerAccount
	usernames map[string]string
	owners    map[string]string

	customers *customerRepositoryInMemory
}

// NewAccountRepository возвращает автономный репозиторий учётных записей
// (без проверки внешнего ключа на покупателя — её даёт NewStore).
func NewAccountRepository() domain.AccountRepository {
	return &accountRepositoryInMemory{
		items:     make(map[string]domain.CustomerAccount),
		usernames: make(map[string]string),
		owners:    make(map[string]string),
	}
}

// Create сохраняет учётную запись, проверяя уникальность username,
// существование покупателя и правило "одна учётная запись на покупателя".
func (r *accountRepositoryInMemory) Create(account domain.CustomerAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Проверка внешнего ключа под собственным локом, чтобы каскад удаления
	// покупателя не оставил учётную запись-сироту.
	if r.customers != nil && !r.customers.exists(account.CustomerID) {
		return domain.ErrCustomerNotFound
	}

	if _, exists := r.items[account.ID]; exists {
		return domain.ErrAlreadyExists
	}
	if _, taken := r.usernames[account.Username]; taken {
		return domain.ErrUsernameTaken
	}
	if _, taken := r.owners[account.CustomerID]; taken {
		return domain.ErrAlreadyExists
	}

	r.items[account.ID] = account
	r.usernames[account.Username] = account.ID
	r.owners[account.CustomerID] = account.ID
	return nil
}

// Get возвращает учётную запись или ErrAccountNotFound.
func (r *accountRepositoryInMemory) Get(id string) (domain.CustomerAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.items[id]
	if !ok {
		return domain.CustomerAccount{}, domain.ErrAccountNotFound
	}
	return account, nil
}

// List возвращает учётные записи, отсортированные по username.
func (r *accountRepositoryInMemory) List() ([]domain.CustomerAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.CustomerAccount, 0, len(r.items))
	for _, account := range r.items {
		result = append(result, account)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Username < result[j].Username
	})

	return result, nil
}

// Update перезаписывает учётную запись, следя за уникальностью username.
func (r *accountRepositoryInMemory) Update(account domain.CustomerAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.customers != nil && !r.customers.exists(account.CustomerID) {
		return domain.ErrCustomerNotFound
	}

	current, ok := r.items[account.ID]
	if !ok {
		return domain.ErrAccountNotFound
	}
	if owner, taken := r.usernames[account.Username]; taken && owner != account.ID {
		return domain.ErrUsernameTaken
	}
	if owner, taken := r.owners[account.CustomerID]; taken && owner != account.ID {
		return domain.ErrAlreadyExists
	}

	if current.Username != account.Username {
		delete(r.usernames, current.Username)
		r.usernames[account.Username] = account.ID
	}
	if current.CustomerID != account.CustomerID {
		delete(r.owners, current.CustomerID)
		r.owners[account.CustomerID] = account.ID
	}
	r.items[account.ID] = account
	return nil
}

// Delete удаляет учётную запись или возвращает ErrAccountNotFound.
func (r *accountRepositoryInMemory) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.items[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	delete(r.items, id)
	delete(r.usernames, account.Username)
	delete(r.owners, account.CustomerID)
	return nil
}

// deleteByCustomer снимает учётную запись покупателя при каскадном удалении.
func (r *accountRepositoryInMemory) deleteByCustomer(customerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, account := range r.items {
		if account.CustomerID != customerID {
			continue
		}
		delete(r.items, id)
		delete(r.usernames, account.Username)
		delete(r.owners, customerID)
	}
}

var _ domain.AccountRepository = (*accountRepositoryInMemory)(nil)
