package domain_test

import (
	"testing"

	"github.com/windikite/MP5-E-CommerceAPI/internal/domain"
)

func TestCustomerInputValidate(t *testing.T) {
	valid := domain.CustomerInput{Name: "Иван Петров", Email: "ivan@example.com", Phone: "+79991234567"}
	if errs := valid.Validate(); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}

	cases := []struct {
		name  string
		input domain.CustomerInput
	}{
		{"empty name", domain.CustomerInput{Email: "ivan@example.com", Phone: "+79991234567"}},
		{"empty email", domain.CustomerInput{Name: "Иван", Phone: "+79991234567"}},
		{"malformed email", domain.CustomerInput{Name: "Иван", Email: "not-an-email", Phone: "+79991234567"}},
		{"empty phone", domain.CustomerInput{Name: "Иван", Email: "ivan@example.com"}},
		{"short phone", domain.CustomerInput{Name: "Иван", Email: "ivan@example.com", Phone: "123"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if errs := tc.input.Validate(); len(errs) == 0 {
				t.Fatal("expected validation errors")
			}
		})
	}
}

func TestProductInputValidate(t *testing.T) {
	valid := domain.ProductInput{Name: "Ноутбук", Price: 999.90, Stock: 5}
	if errs := valid.Validate(); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}

	if errs := (domain.ProductInput{Name: "", Price: 1, Stock: 1}).Validate(); len(errs) == 0 {
		t.Fatal("expected error for empty name")
	}
	if errs := (domain.ProductInput{Name: "x", Price: -1, Stock: 1}).Validate(); len(errs) == 0 {
		t.Fatal("expected error for negative price")
	}
	if errs := (domain.ProductInput{Name: "x", Price: 1, Stock: -1}).Validate(); len(errs) == 0 {
		t.Fatal("expected error for negative stock")
	}
}

func TestAccountInputValidate(t *testing.T) {
	valid := domain.AccountInput{Username: "ivan", Password: "secret", CustomerID: "customer-1"}
	if errs := valid.Validate(); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}

	if errs := (domain.AccountInput{Password: "secret", CustomerID: "c"}).Validate(); len(errs) == 0 {
		t.Fatal("expected error for empty username")
	}
	if errs := (domain.AccountInput{Username: "ivan", CustomerID: "c"}).Validate(); len(errs) == 0 {
		t.Fatal("expected error for empty password")
	}
	if errs := (domain.AccountInput{Username: "ivan", Password: "secret"}).Validate(); len(errs) == 0 {
		t.Fatal("expected error for empty customer_id")
	}
}

func TestOrderUpdateValidate(t *testing.T) {
	if errs := (domain.OrderUpdate{}).Validate(); len(errs) != 3 {
		t.Fatalf("expected 3 errors for empty update, got %d", len(errs))
	}
}
