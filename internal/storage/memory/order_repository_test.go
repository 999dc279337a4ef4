package memory_test

import (
	"errors"
	"testing"
	"time"

	"github.com/windikite/MP5-E-CommerceAPI/internal/domain"
	"github.com/windikite/MP5-E-CommerceAPI/internal/storage/memory"
)

func newTestOrder(id string) domain.Order {
	now := time.Now().UTC()
	return domain.Order{
		ID:               id,
		CustomerID:       "customer-1",
		OrderDate:        now,
		ExpectedDelivery: now.Add(domain.DeliveryLeadTime),
		ShippingStatus:   domain.ShippingStatusNotShipped,
		Lines: []domain.OrderLine{
			{ProductID: "product-1", Quantity: 2, Price: 10.5, CreatedAt: now},
			{ProductID: "product-2", Quantity: 1, Price: 3.0, CreatedAt: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestOrderRepository_CreateGet(t *testing.T) {
	repo := memory.NewOrderRepository()
	order := newTestOrder("order-1")

	if err := repo.Create(order); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	stored, err := repo.Get(order.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(stored.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(stored.Lines))
	}
}

func TestOrderRepository_CreateDuplicate(t *testing.T) {
	repo := memory.NewOrderRepository()
	order := newTestOrder("order-1")
	if err := repo.Create(order); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := repo.Create(order); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}
}

// Update меняет даты и статус, но не трогает позиции.
func TestOrderRepository_UpdatePreservesLines(t *testing.T) {
	repo := memory.NewOrderRepository()
	order := newTestOrder("order-1")
	if err := repo.Create(order); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	changed := order
	changed.ShippingStatus = "shipped"
	changed.Lines = nil
	if err := repo.Update(changed); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	stored, err := repo.Get(order.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.ShippingStatus != "shipped" {
		t.Fatalf("expected shipped, got %s", stored.ShippingStatus)
	}
	if len(stored.Lines) != 2 {
		t.Fatalf("expected lines to survive update, got %d", len(stored.Lines))
	}
}

func TestOrderRepository_ListByCustomer(t *testing.T) {
	repo := memory.NewOrderRepository()
	if err := repo.Create(newTestOrder("order-1")); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	other := newTestOrder("order-2")
	other.CustomerID = "customer-2"
	if err := repo.Create(other); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	orders, err := repo.ListByCustomer("customer-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(orders))
	}
}

func TestOrderRepository_Delete(t *testing.T) {
	repo := memory.NewOrderRepository()
	if err := repo.Create(newTestOrder("order-1")); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := repo.Delete("order-1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := repo.Get("order-1"); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := repo.Delete("order-1"); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}
