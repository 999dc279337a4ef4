package httpapi

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/windikite/MP5-E-CommerceAPI/internal/domain"
)

type productView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Stock     int       `json:"stock"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toProductView(p domain.Product) productView {
	return productView{
		ID:        p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Stock:     p.Stock,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	var input domain.ProductInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, err)
		return
	}
	if errs := input.Validate(); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	now := time.Now().UTC()
	product := domain.Product{
		ID:        uuid.NewString(),
		Name:      input.Name,
		Price:     input.Price,
		Stock:     input.Stock,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.products.Create(product); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toProductView(product))
}

func (s *Server) listProducts(w http.ResponseWriter, _ *http.Request) {
	products, err := s.products.List()
	if err != nil {
		writeError(w, err)
		return
	}

	views := make([]productView, 0, len(products))
	for _, product := range products {
		views = append(views, toProductView(product))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	product, err := s.products.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductView(product))
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	var input domain.ProductInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, err)
		return
	}
	if errs := input.Validate(); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	product, err := s.products.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	product.Name = input.Name
	product.Price = input.Price
	product.Stock = input.Stock
	product.UpdatedAt = time.Now().UTC()

	if err := s.products.Update(product); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProductView(product))
}

// deleteProduct удаляет товар. Позиции существующих заказов не трогаются:
// они хранят собственный снимок цены и количества.
func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := s.products.Delete(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
