package memory_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/windikite/MP5-E-CommerceAPI/internal/domain"
	"github.com/windikite/MP5-E-CommerceAPI/internal/storage/memory"
)

func newProduct(stock int) domain.Product {
	now := time.Now().UTC()
	return domain.Product{
		ID:        "product-1",
		Name:      "Ноутбук",
		Price:     999.90,
		Stock:     stock,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestProductRepository_Reserve(t *testing.T) {
	repo := memory.NewProductRepository()
	if err := repo.Create(newProduct(10)); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := repo.Reserve("product-1", 4); err != nil {
		t.Fatalf("reserve failed: %v", err)
	}

	product, err := repo.Get("product-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if product.Stock != 6 {
		t.Fatalf("expected stock 6, got %d", product.Stock)
	}
}

func TestProductRepository_ReserveInsufficient(t *testing.T) {
	repo := memory.NewProductRepository()
	if err := repo.Create(newProduct(3)); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	err := repo.Reserve("product-1", 4)
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}

	var stockErr *domain.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got %T", err)
	}
	if stockErr.Available != 3 || stockErr.Requested != 4 {
		t.Fatalf("unexpected details: %+v", stockErr)
	}

	// Неудачный резерв не трогает остаток.
	product, _ := repo.Get("product-1")
	if product.Stock != 3 {
		t.Fatalf("expected stock 3, got %d", product.Stock)
	}
}

func TestProductRepository_ReserveUnknownProduct(t *testing.T) {
	repo := memory.NewProductRepository()
	if err := repo.Reserve("missing", 1); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected product not found, got %v", err)
	}
}

func TestProductRepository_Release(t *testing.T) {
	repo := memory.NewProductRepository()
	if err := repo.Create(newProduct(5)); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := repo.Reserve("product-1", 5); err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	if err := repo.Release("product-1", 2); err != nil {
		t.Fatalf("release failed: %v", err)
	}

	product, _ := repo.Get("product-1")
	if product.Stock != 2 {
		t.Fatalf("expected stock 2, got %d", product.Stock)
	}
}

// Два конкурентных резерва на последнюю единицу: ровно один должен пройти.
func TestProductRepository_ConcurrentLastUnit(t *testing.T) {
	repo := memory.NewProductRepository()
	if err := repo.Create(newProduct(1)); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	const workers = 16
	var wg sync.WaitGroup
	results := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- repo.Reserve("product-1", 1)
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else if !errors.Is(err, domain.ErrInsufficientStock) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly 1 successful reserve, got %d", succeeded)
	}

	product, _ := repo.Get("product-1")
	if product.Stock != 0 {
		t.Fatalf("expected stock 0, got %d", product.Stock)
	}
}
