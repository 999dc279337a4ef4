package domain

import "time"

// CustomerAccount — учётная запись покупателя.
// Пароль хранится открытым текстом ради совместимости с текущими
// клиентами; хеширование — отдельная миграция данных.
type CustomerAccount struct {
	ID         string
	Username   string
	Password   string
	CustomerID string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// AccountInput — типизированный ввод создания/обновления учётной записи.
type AccountInput struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	CustomerID string `json:"customer_id"`
}

// Validate проверяет поля ввода и возвращает список ошибок по полям.
func (in AccountInput) Validate() []error {
	var errs []error

	if in.Username == "" {
		errs = append(errs, FieldError{Field: "username", Message: "username is required"})
	}
	if in.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "password is required"})
	}
	if in.CustomerID == "" {
		errs = append(errs, FieldError{Field: "customer_id", Message: "customer_id is required"})
	}

	return errs
}
