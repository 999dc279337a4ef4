package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/windikite/MP5-E-CommerceAPI/internal/domain"
)

func TestIdempotencyRepository_PostgresLifecycle(t *testing.T) {
	store := openStoreForIntegrationTest(t)
	repo := NewIdempotencyRepository(store)

	key := "idem-lifecycle"
	hash := "hash-1"
	ttl := time.Now().UTC().Add(time.Hour).Round(time.Second)

	created, err := repo.CreateProcessing(key, hash, ttl)
	require.NoError(t, err)
	require.Equal(t, domain.IdempotencyStatusProcessing, created.Status)

	require.NoError(t, repo.MarkDone(key, []byte(`{"id":"order-1"}`), 201))

	// Запись переживает новое подключение: состояние лежит в базе,
	// а не в памяти процесса.
	reopened := openRawStoreForIntegrationTest(t)
	got, err := NewIdempotencyRepository(reopened).Get(key)
	require.NoError(t, err)
	require.Equal(t, hash, got.RequestHash)
	require.Equal(t, domain.IdempotencyStatusDone, got.Status)
	require.Equal(t, 201, got.HTTPStatus)
	require.JSONEq(t, `{"id":"order-1"}`, string(got.ResponseBody))
	require.True(t, got.TTLAt.Equal(ttl), "ttl mismatch: expected %s, got %s", ttl, got.TTLAt)
}

func TestIdempotencyRepository_PostgresConflictAndHashMismatch(t *testing.T) {
	store := openStoreForIntegrationTest(t)
	repo := NewIdempotencyRepository(store)

	ttl := time.Now().UTC().Add(time.Hour)
	_, err := repo.CreateProcessing("idem-conflict", "hash-a", ttl)
	require.NoError(t, err)

	_, err = repo.CreateProcessing("idem-conflict", "hash-a", ttl)
	require.ErrorIs(t, err, domain.ErrIdempotencyKeyAlreadyExists)

	_, err = repo.CreateProcessing("idem-conflict", "hash-b", ttl)
	require.ErrorIs(t, err, domain.ErrIdempotencyHashMismatch)
}

func TestIdempotencyRepository_PostgresDeleteExpired(t *testing.T) {
	store := openStoreForIntegrationTest(t)
	repo := NewIdempotencyRepository(store)

	now := time.Now().UTC()
	_, err := repo.CreateProcessing("idem-expired-1", "h1", now.Add(-5*time.Minute))
	require.NoError(t, err)
	_, err = repo.CreateProcessing("idem-expired-2", "h2", now.Add(-4*time.Minute))
	require.NoError(t, err)
	_, err = repo.CreateProcessing("idem-active", "h3", now.Add(time.Hour))
	require.NoError(t, err)

	removed, err := repo.DeleteExpired(now, 1)
	require.NoError(t, err)
	require.Equal(t, 1, removed)

	removed, err = repo.DeleteExpired(now, 0)
	require.NoError(t, err)
	require.Equal(t, 1, removed)

	_, err = repo.Get("idem-active")
	require.NoError(t, err)
}
