package postgres

import "testing"

// Встроенный набор миграций: версии строго возрастают, у каждой есть пара
// up/down, таблица idempotency-ключей присутствует.
func TestLoadMigrations_EmbeddedSet(t *testing.T) {
	migrations, err := loadMigrations()
	if err != nil {
		t.Fatalf("load migrations: %v", err)
	}
	if len(migrations) < 2 {
		t.Fatalf("expected at least 2 migrations, got %d", len(migrations))
	}

	var last int64
	foundIdempotency := false
	for _, m := range migrations {
		if m.Version <= last {
			t.Fatalf("migration versions must ascend, got %d after %d", m.Version, last)
		}
		last = m.Version
		if m.UpSQL == "" || m.DownSQL == "" {
			t.Fatalf("migration %d_%s is missing up or down body", m.Version, m.Name)
		}
		if m.Name == "create_idempotency_keys" {
			foundIdempotency = true
		}
	}
	if !foundIdempotency {
		t.Fatal("idempotency_keys migration is missing from the embedded set")
	}
}
