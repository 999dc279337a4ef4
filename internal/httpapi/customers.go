package httpapi

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/windikite/MP5-E-CommerceAPI/internal/domain"
)

// customerView — проекция покупателя в ответах API.
type customerView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toCustomerView(c domain.Customer) customerView {
	return customerView{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (s *Server) createCustomer(w http.ResponseWriter, r *http.Request) {
	var input domain.CustomerInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, err)
		return
	}
	if errs := input.Validate(); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	now := time.Now().UTC()
	customer := domain.Customer{
		ID:        uuid.NewString(),
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.customers.Create(customer); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCustomerView(customer))
}

func (s *Server) listCustomers(w http.ResponseWriter, _ *http.Request) {
	customers, err := s.customers.List()
	if err != nil {
		writeError(w, err)
		return
	}

	views := make([]customerView, 0, len(customers))
	for _, customer := range customers {
		views = append(views, toCustomerView(customer))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) getCustomer(w http.ResponseWriter, r *http.Request) {
	customer, err := s.customers.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCustomerView(customer))
}

func (s *Server) updateCustomer(w http.ResponseWriter, r *http.Request) {
	var input domain.CustomerInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, err)
		return
	}
	if errs := input.Validate(); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	customer, err := s.customers.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	customer.Name = input.Name
	customer.Email = input.Email
	customer.Phone = input.Phone
	customer.UpdatedAt = time.Now().UTC()

	if err := s.customers.Update(customer); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCustomerView(customer))
}

func (s *Server) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	// Удаление идёт через сервис заказов: каскад должен отразиться
	// в метриках и событиях по каждому удалённому заказу.
	if err := s.orders.DeleteCustomer(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listCustomerOrders(w http.ResponseWriter, r *http.Request) {
	view, err := s.orders.ListCustomerOrders(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
