package memory_test

import (
	"errors"
	"testing"
	"time"

	"github.com/windikite/MP5-E-CommerceAPI/internal/domain"
	"github.com/windikite/MP5-E-CommerceAPI/internal/storage/memory"
)

func TestIdempotencyRepository_Lifecycle(t *testing.T) {
	repo := memory.NewIdempotencyRepository()
	ttl := time.Now().UTC().Add(time.Hour)

	record, err := repo.CreateProcessing("key-1", "hash-1", ttl)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if record.Status != domain.IdempotencyStatusProcessing {
		t.Fatalf("expected processing, got %s", record.Status)
	}

	if _, err := repo.CreateProcessing("key-1", "hash-1", ttl); !errors.Is(err, domain.ErrIdempotencyKeyAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}
	if _, err := repo.CreateProcessing("key-1", "other-hash", ttl); !errors.Is(err, domain.ErrIdempotencyHashMismatch) {
		t.Fatalf("expected hash mismatch, got %v", err)
	}

	if err := repo.MarkDone("key-1", []byte(`{"id":"order-1"}`), 201); err != nil {
		t.Fatalf("mark done failed: %v", err)
	}

	stored, err := repo.Get("key-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.Status != domain.IdempotencyStatusDone || stored.HTTPStatus != 201 {
		t.Fatalf("unexpected record: %+v", stored)
	}
}

// Просроченный ключ выбрасывается лениво и может быть занят заново.
func TestIdempotencyRepository_LazyExpiry(t *testing.T) {
	repo := memory.NewIdempotencyRepository()
	expired := time.Now().UTC().Add(-time.Minute)

	if _, err := repo.CreateProcessing("key-1", "hash-1", expired); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	record, err := repo.CreateProcessing("key-1", "hash-2", time.Now().UTC().Add(time.Hour))
	if err != nil {
		t.Fatalf("expected expired key to be reusable, got %v", err)
	}
	if record.RequestHash != "hash-2" {
		t.Fatalf("expected fresh record, got %+v", record)
	}
}

func TestIdempotencyRepository_DeleteExpired(t *testing.T) {
	repo := memory.NewIdempotencyRepository()
	expired := time.Now().UTC().Add(-time.Minute)

	if _, err := repo.CreateProcessing("key-1", "hash-1", expired); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := repo.CreateProcessing("key-2", "hash-2", time.Now().UTC().Add(time.Hour)); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	removed, err := repo.DeleteExpired(time.Now().UTC(), 0)
	if err != nil {
		t.Fatalf("delete expired failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}
	if _, err := repo.Get("key-2"); err != nil {
		t.Fatalf("live key must survive: %v", err)
	}
}
