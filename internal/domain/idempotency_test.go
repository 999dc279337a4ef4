package domain_test

import (
	"testing"

	"github.com/windikite/MP5-E-CommerceAPI/internal/domain"
)

func TestIdempotencyStatusValid(t *testing.T) {
	for _, status := range []domain.IdempotencyStatus{
		domain.IdempotencyStatusProcessing,
		domain.IdempotencyStatusDone,
		domain.IdempotencyStatusFailed,
	} {
		if !status.Valid() {
			t.Fatalf("status %q must be valid", status)
		}
	}

	if domain.IdempotencyStatus("pending").Valid() {
		t.Fatal("unknown status must be invalid")
	}
	if domain.IdempotencyStatus("").Valid() {
		t.Fatal("empty status must be invalid")
	}
}
