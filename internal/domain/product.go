package domain

import "time"

// Product — товар с текущей ценой и остатком на складе.
// Остаток меняется только через Reserve/Release либо явный Update.
type Product struct {
	ID        string
	Name      string
	Price     float64
	Stock     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProductInput — типизированный ввод создания/обновления товара.
type ProductInput struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

// Validate проверяет поля ввода и возвращает список ошибок по полям.
func (in ProductInput) Validate() []error {
	var errs []error

	if in.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	}
	if in.Price < 0 {
		errs = append(errs, FieldError{Field: "price", Message: "price must be non-negative"})
	}
	if in.Stock < 0 {
		errs = append(errs, FieldError{Field: "stock", Message: "stock must be non-negative"})
	}

	return errs
}
