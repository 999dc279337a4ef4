package domain

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// emailIsValid проверяет синтаксис адреса электронной почты.
func emailIsValid(email string) bool {
	return validate.Var(email, "required,email") == nil
}
