package memory

import "github.com/windikite/MP5-E-CommerceAPI/internal/domain"

// Store объединяет in-memory репозитории и связывает их для каскадных
// удалений (покупатель → заказы → позиции/таймлайн, учётная запись).
// В PostgreSQL ту же работу выполняют внешние ключи с ON DELETE CASCADE.
type Store struct {
	Customers domain.CustomerRepository
	Products  domain.ProductRepository
	Accounts  domain.AccountRepository
	Orders    domain.OrderRepository
	Timeline  domain.TimelineRepository
}

// NewStore возвращает полностью связанный набор in-memory репозиториев
// для локальной разработки и тестов.
func NewStore() *Store {
	customers := &customerRepositoryInMemory{items: make(map[string]domain.Customer)}
	orders := &orderRepositoryInMemory{items: make(map[string]domain.Order), customers: customers}
	accounts := &accountRepositoryInMemory{
		items:     make(map[string]domain.CustomerAccount),
		usernames: make(map[string]string),
		owners:    make(map[string]string),
		customers: customers,
	}
	timeline := &timelineRepositoryInMemory{events: make(map[string][]domain.TimelineEvent)}

	customers.orders = orders
	customers.accounts = accounts
	customers.timeline = timeline

	return &Store{
		Customers: customers,
		Products:  NewProductRepository(),
		Accounts:  accounts,
		Orders:    orders,
		Timeline:  timeline,
	}
}
