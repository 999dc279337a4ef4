package domain

import "time"

// minPhoneLength — минимальная длина телефона в знаках.
const minPhoneLength = 9

// Customer — покупатель магазина.
type Customer struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CustomerInput — типизированный ввод создания/обновления покупателя.
type CustomerInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Validate проверяет поля ввода и возвращает список ошибок по полям.
func (in CustomerInput) Validate() []error {
	var errs []error

	if in.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	}
	if in.Email == "" {
		errs = append(errs, FieldError{Field: "email", Message: "email is required"})
	} else if !emailIsValid(in.Email) {
		errs = append(errs, FieldError{Field: "email", Message: "email is malformed"})
	}
	if in.Phone == "" {
		errs = append(errs, FieldError{Field: "phone", Message: "phone is required"})
	} else if len(in.Phone) < minPhoneLength {
		errs = append(errs, FieldError{Field: "phone", Message: "phone is too short"})
	}

	return errs
}
