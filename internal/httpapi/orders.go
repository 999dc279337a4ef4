package httpapi

import (
	"net/http"

	"github.com/windikite/MP5-E-CommerceAPI/internal/domain"
)

type placeOrderRequest struct {
	CustomerID string   `json:"customer_id"`
	ProductIDs []string `json:"product_ids"`
}

func (req placeOrderRequest) validate() []error {
	var errs []error
	if req.CustomerID == "" {
		errs = append(errs, domain.FieldError{Field: "customer_id", Message: "customer_id is required"})
	}
	if len(req.ProductIDs) == 0 {
		errs = append(errs, domain.FieldError{Field: "product_ids", Message: "at least one product is required"})
	}
	for _, productID := range req.ProductIDs {
		if productID == "" {
			errs = append(errs, domain.FieldError{Field: "product_ids", Message: "product id must not be empty"})
			break
		}
	}
	return errs
}

// placeOrder оформляет заказ. При наличии заголовка Idempotency-Key
// повторный запрос с тем же ключом и телом получает сохранённый ответ
// вместо повторного оформления.
func (s *Server) placeOrder(w http.ResponseWriter, r *http.Request) {
	s.withIdempotency(w, r, func() (int, any) {
		var req placeOrderRequest
		if err := decodeJSON(r, &req); err != nil {
			status, detail := mapError(err)
			return status, errorBody{Error: detail}
		}
		if errs := req.validate(); len(errs) > 0 {
			return validationResponse(errs)
		}

		orderID, err := s.orders.PlaceOrder(req.CustomerID, req.ProductIDs)
		if err != nil {
			status, detail := mapError(err)
			return status, errorBody{Error: detail}
		}

		view, err := s.orders.GetOrder(orderID)
		if err != nil {
			status, detail := mapError(err)
			return status, errorBody{Error: detail}
		}

		return http.StatusCreated, view
	})
}

func (s *Server) listOrders(w http.ResponseWriter, _ *http.Request) {
	summaries, err := s.orders.ListOrders()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	view, err := s.orders.GetOrder(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) updateOrder(w http.ResponseWriter, r *http.Request) {
	var update domain.OrderUpdate
	if err := decodeJSON(r, &update); err != nil {
		writeError(w, err)
		return
	}
	if errs := update.Validate(); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	orderID := r.PathValue("id")
	if err := s.orders.UpdateOrder(orderID, update); err != nil {
		writeError(w, err)
		return
	}

	view, err := s.orders.GetOrder(orderID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) deleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := s.orders.DeleteOrder(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
