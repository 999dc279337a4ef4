package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/windikite/MP5-E-CommerceAPI/internal/domain"
)

// errorBody — единый конверт ошибок API.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Fields  []fieldError `json:"fields,omitempty"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// writeError переводит доменную ошибку в HTTP-статус и конверт ошибки.
func writeError(w http.ResponseWriter, err error) {
	status, detail := mapError(err)
	writeJSON(w, status, errorBody{Error: detail})
}

// writeValidationErrors отдаёт 400 со списком ошибок по полям.
func writeValidationErrors(w http.ResponseWriter, errs []error) {
	fields := make([]fieldError, 0, len(errs))
	for _, err := range errs {
		var fe domain.FieldError
		if errors.As(err, &fe) {
			fields = append(fields, fieldError{Field: fe.Field, Message: fe.Message})
			continue
		}
		fields = append(fields, fieldError{Message: err.Error()})
	}

	writeJSON(w, http.StatusBadRequest, errorBody{Error: errorDetail{
		Code:    "validation_failed",
		Message: "request validation failed",
		Fields:  fields,
	}})
}

func mapError(err error) (int, errorDetail) {
	var stockErr *domain.InsufficientStockError
	switch {
	case domain.IsNotFound(err):
		return http.StatusNotFound, errorDetail{Code: "not_found", Message: err.Error()}
	case errors.As(err, &stockErr):
		return http.StatusConflict, errorDetail{Code: "insufficient_stock", Message: stockErr.Error()}
	case errors.Is(err, domain.ErrInsufficientStock):
		return http.StatusConflict, errorDetail{Code: "insufficient_stock", Message: err.Error()}
	case errors.Is(err, domain.ErrUsernameTaken):
		return http.StatusConflict, errorDetail{Code: "username_taken", Message: err.Error()}
	case errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict, errorDetail{Code: "already_exists", Message: err.Error()}
	case errors.Is(err, domain.ErrOrderEmpty):
		return http.StatusBadRequest, errorDetail{Code: "validation_failed", Message: err.Error()}
	case errors.Is(err, domain.ErrIdempotencyHashMismatch):
		return http.StatusUnprocessableEntity, errorDetail{Code: "idempotency_mismatch", Message: err.Error()}
	}

	var fe domain.FieldError
	if errors.As(err, &fe) {
		return http.StatusBadRequest, errorDetail{
			Code:    "validation_failed",
			Message: "request validation failed",
			Fields:  []fieldError{{Field: fe.Field, Message: fe.Message}},
		}
	}

	return http.StatusInternalServerError, errorDetail{Code: "internal", Message: "internal server error"}
}

// decodeJSON разбирает тело запроса, отклоняя неизвестные поля.
func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return domain.FieldError{Field: "body", Message: "malformed JSON: " + err.Error()}
	}
	return nil
}
