package domain

import "time"

// CustomerRepository описывает требования к хранилищу покупателей.
type CustomerRepository interface {
	// Create сохраняет нового покупателя. Возвращает ErrAlreadyExists, если ID занят.
	Create(customer Customer) error
	// Get возвращает покупателя по идентификатору или ErrCustomerNotFound.
	Get(id string) (Customer, error)
	// List возвращает всех покупателей.
	List() ([]Customer, error)
	// Update перезаписывает данные покупателя или возвращает ErrCustomerNotFound.
	Update(customer Customer) error
	// Delete удаляет покупателя каскадно: его заказы (с позициями и таймлайном)
	// и учётную запись удаляются вместе с ним.
	Delete(id string) error
}

// ProductRepository описывает требования к хранилищу товаров,
// включая атомарные операции над остатком.
type ProductRepository interface {
	Create(product Product) error
	Get(id string) (Product, error)
	List() ([]Product, error)
	Update(product Product) error
	// Delete удаляет товар. Существующие позиции заказов на него не трогает:
	// они хранят собственный снимок цены и количества.
	Delete(id string) error

	// Reserve атомарно списывает qty единиц, если остатка хватает.
	// Проверка и списание сериализованы по товару: два конкурентных вызова
	// не могут оба увидеть достаточный остаток на последнюю единицу.
	// Возвращает *InsufficientStockError при нехватке и ErrProductNotFound,
	// если товара нет.
	Reserve(productID string, qty int) error
	// Release — компенсирующее начисление; откатывает ранее выданный резерв.
	Release(productID string, qty int) error
}

// AccountRepository описывает требования к хранилищу учётных записей.
type AccountRepository interface {
	// Create сохраняет учётную запись. Возвращает ErrUsernameTaken при
	// занятом username и ErrCustomerNotFound при ссылке на несуществующего
	// покупателя.
	Create(account CustomerAccount) error
	Get(id string) (CustomerAccount, error)
	List() ([]CustomerAccount, error)
	Update(account CustomerAccount) error
	Delete(id string) error
}

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Create сохраняет заказ вместе со всеми позициями как единое целое:
	// либо записывается всё, либо ничего.
	Create(order Order) error
	// Get возвращает заказ с позициями или ErrOrderNotFound.
	Get(id string) (Order, error)
	// List возвращает все заказы (без гарантий по позициям внутри — они включены).
	List() ([]Order, error)
	// ListByCustomer возвращает заказы покупателя, новые первыми.
	ListByCustomer(customerID string) ([]Order, error)
	// Update применяет изменяемые поля заказа (даты, статус доставки).
	Update(order Order) error
	// Delete удаляет заказ каскадно вместе с позициями.
	Delete(id string) error
}

// TimelineRepository хранит события жизненного цикла заказа.
type TimelineRepository interface {
	Append(event TimelineEvent) error
	List(orderID string) ([]TimelineEvent, error)
	DeleteByOrder(orderID string) error
}

// IdempotencyRepository хранит состояние обработки запросов по idempotency-ключу.
type IdempotencyRepository interface {
	CreateProcessing(key, requestHash string, ttlAt time.Time) (IdempotencyRecord, error)
	Get(key string) (IdempotencyRecord, error)
	MarkDone(key string, responseBody []byte, httpStatus int) error
	MarkFailed(key string, responseBody []byte, httpStatus int) error
	DeleteExpired(before time.Time, limit int) (int, error)
}
