package domain

import (
	"errors"
	"time"
)

// IdempotencyStatus — состояние обработки запроса по idempotency-ключу.
type IdempotencyStatus string

const (
	IdempotencyStatusProcessing IdempotencyStatus = "processing"
	IdempotencyStatusDone       IdempotencyStatus = "done"
	IdempotencyStatusFailed     IdempotencyStatus = "failed"
)

// Valid сообщает, является ли значение одним из известных состояний.
// Нужен хранилищам, читающим статус из внешнего представления.
func (s IdempotencyStatus) Valid() bool {
	switch s {
	case IdempotencyStatusProcessing, IdempotencyStatusDone, IdempotencyStatusFailed:
		return true
	default:
		return false
	}
}

// IdempotencyRecord хранит результат обработки запроса для повторной выдачи
// клиенту при ретрае с тем же Idempotency-Key.
type IdempotencyRecord struct {
	Key          string
	RequestHash  string
	Status       IdempotencyStatus
	ResponseBody []byte
	HTTPStatus   int
	TTLAt        time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

var (
	// ErrIdempotencyKeyRequired — пустой idempotency-ключ недопустим.
	ErrIdempotencyKeyRequired = errors.New("idempotency key is required")
	// ErrIdempotencyRequestHashRequired — пустой хеш запроса недопустим.
	ErrIdempotencyRequestHashRequired = errors.New("idempotency request hash is required")
	// ErrIdempotencyKeyAlreadyExists — ключ уже зарегистрирован (возможен replay).
	ErrIdempotencyKeyAlreadyExists = errors.New("idempotency key already exists")
	// ErrIdempotencyHashMismatch — ключ переиспользован с другим телом запроса.
	ErrIdempotencyHashMismatch = errors.New("idempotency key is used with different request payload")
	// ErrIdempotencyKeyNotFound — записи с таким ключом нет.
	ErrIdempotencyKeyNotFound = errors.New("idempotency key not found")
)
