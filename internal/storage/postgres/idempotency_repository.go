package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/windikite/MP5-E-CommerceAPI/internal/domain"
)

// idempotencyRepository — PostgreSQL-реализация IdempotencyRepository.
// Записи переживают перезапуск сервиса и видны всем его репликам, поэтому
// ретрай POST /orders с тем же ключом не оформит заказ повторно.
type idempotencyRepository struct {
	db *sql.DB
}

func NewIdempotencyRepository(store *Store) domain.IdempotencyRepository {
	return &idempotencyRepository{db: store.DB()}
}

// CreateProcessing регистрирует ключ в состоянии processing. Конфликт по
// первичному ключу означает повтор: с тем же хешем — replay, с другим — 422.
func (r *idempotencyRepository) CreateProcessing(key, requestHash string, ttlAt time.Time) (domain.IdempotencyRecord, error) {
	key = strings.TrimSpace(key)
	requestHash = strings.TrimSpace(requestHash)

	if key == "" {
		return domain.IdempotencyRecord{}, domain.ErrIdempotencyKeyRequired
	}
	if requestHash == "" {
		return domain.IdempotencyRecord{}, domain.ErrIdempotencyRequestHashRequired
	}

	now := time.Now().UTC()
	if ttlAt.IsZero() {
		ttlAt = now.Add(24 * time.Hour)
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO idempotency_keys (key, request_hash, status, ttl_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
	`, key, requestHash, string(domain.IdempotencyStatusProcessing), ttlAt, now)
	if err != nil {
		if !isUniqueViolation(err) {
			return domain.IdempotencyRecord{}, fmt.Errorf("insert idempotency key: %w", err)
		}

		existing, getErr := r.Get(key)
		if getErr != nil {
			return domain.IdempotencyRecord{}, domain.ErrIdempotencyKeyAlreadyExists
		}
		if existing.RequestHash != requestHash {
			return existing, domain.ErrIdempotencyHashMismatch
		}
		return existing, domain.ErrIdempotencyKeyAlreadyExists
	}

	return domain.IdempotencyRecord{
		Key:         key,
		RequestHash: requestHash,
		Status:      domain.IdempotencyStatusProcessing,
		TTLAt:       ttlAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (r *idempotencyRepository) Get(key string) (domain.IdempotencyRecord, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return domain.IdempotencyRecord{}, domain.ErrIdempotencyKeyRequired
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var (
		record     domain.IdempotencyRecord
		status     string
		body       []byte
		httpStatus sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT key, request_hash, response_body, http_status, status, ttl_at, created_at, updated_at
		FROM idempotency_keys
		WHERE key = $1
	`, key).Scan(
		&record.Key, &record.RequestHash, &body, &httpStatus,
		&status, &record.TTLAt, &record.CreatedAt, &record.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.IdempotencyRecord{}, domain.ErrIdempotencyKeyNotFound
	}
	if err != nil {
		return domain.IdempotencyRecord{}, fmt.Errorf("select idempotency key: %w", err)
	}

	record.Status = domain.IdempotencyStatus(status)
	if !record.Status.Valid() {
		return domain.IdempotencyRecord{}, fmt.Errorf("unexpected idempotency status %q for key %s", status, key)
	}
	record.ResponseBody = append([]byte(nil), body...)
	if httpStatus.Valid {
		record.HTTPStatus = int(httpStatus.Int64)
	}

	return record, nil
}

func (r *idempotencyRepository) MarkDone(key string, responseBody []byte, httpStatus int) error {
	return r.markStatus(key, domain.IdempotencyStatusDone, responseBody, httpStatus)
}

func (r *idempotencyRepository) MarkFailed(key string, responseBody []byte, httpStatus int) error {
	return r.markStatus(key, domain.IdempotencyStatusFailed, responseBody, httpStatus)
}

func (r *idempotencyRepository) markStatus(key string, status domain.IdempotencyStatus, responseBody []byte, httpStatus int) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return domain.ErrIdempotencyKeyRequired
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE idempotency_keys
		SET response_body = $2, http_status = $3, status = $4, updated_at = $5
		WHERE key = $1
	`, key, responseBody, httpStatus, string(status), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update idempotency key: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update idempotency key rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrIdempotencyKeyNotFound
	}
	return nil
}

// DeleteExpired удаляет просроченные записи, начиная с самых старых.
// limit <= 0 снимает ограничение на размер партии.
func (r *idempotencyRepository) DeleteExpired(before time.Time, limit int) (int, error) {
	if before.IsZero() {
		before = time.Now().UTC()
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	query := `DELETE FROM idempotency_keys WHERE ttl_at <= $1`
	args := []any{before}
	if limit > 0 {
		query = `
			DELETE FROM idempotency_keys
			WHERE key IN (
				SELECT key FROM idempotency_keys
				WHERE ttl_at <= $1
				ORDER BY ttl_at
				LIMIT $2
			)`
		args = append(args, limit)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete expired idempotency keys: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete expired idempotency keys rows affected: %w", err)
	}
	return int(affected), nil
}

var _ domain.IdempotencyRepository = (*idempotencyRepository)(nil)
