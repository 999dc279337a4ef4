package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrCustomerNotFound возвращается, если покупатель не найден в хранилище.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrProductNotFound возвращается, если товар не найден в хранилище.
	ErrProductNotFound = errors.New("product not found")
	// ErrAccountNotFound возвращается, если учётная запись не найдена.
	ErrAccountNotFound = errors.New("account not found")
	// ErrOrderNotFound возвращается, если заказ не найден в хранилище.
	ErrOrderNotFound = errors.New("order not found")
	// ErrAlreadyExists сигнализирует о попытке создать запись с занятым ID.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrUsernameTaken — имя пользователя уже занято (username глобально уникален).
	ErrUsernameTaken = errors.New("username is already taken")
	// ErrInsufficientStock — на складе недостаточно товара для резервирования.
	// Конкретика (товар, запрошено/доступно) — в InsufficientStockError.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrOrderEmpty — заказ без единого товара не имеет смысла.
	ErrOrderEmpty = errors.New("order must contain at least one product")
)

// FieldError описывает ошибку валидации конкретного поля ввода.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// InsufficientStockError уточняет отказ резервирования: какой товар,
// сколько запрошено и сколько реально доступно.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// Is позволяет проверять ошибку через errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// IsNotFound проверяет, относится ли ошибка к классу "сущность не найдена".
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCustomerNotFound) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrAccountNotFound) ||
		errors.Is(err, ErrOrderNotFound)
}
