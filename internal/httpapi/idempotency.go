package httpapi

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/windikite/MP5-E-CommerceAPI/internal/domain"
)

const (
	idempotencyHeader = "Idempotency-Key"
	idempotencyTTL    = 24 * time.Hour
)

// validationResponse собирает ответ 400 для idempotency-ветки,
// где тело ответа должно попасть в сохранённую запись.
func validationResponse(errs []error) (int, any) {
	fields := make([]fieldError, 0, len(errs))
	for _, err := range errs {
		var fe domain.FieldError
		if errors.As(err, &fe) {
			fields = append(fields, fieldError{Field: fe.Field, Message: fe.Message})
			continue
		}
		fields = append(fields, fieldError{Message: err.Error()})
	}
	return http.StatusBadRequest, errorBody{Error: errorDetail{
		Code:    "validation_failed",
		Message: "request validation failed",
		Fields:  fields,
	}}
}

// withIdempotency выполняет handle и, если клиент прислал Idempotency-Key,
// сохраняет результат для повторной выдачи. Ретрай с тем же ключом и телом
// получает сохранённый ответ; тот же ключ с другим телом — 422.
func (s *Server) withIdempotency(w http.ResponseWriter, r *http.Request, handle func() (int, any)) {
	key := r.Header.Get(idempotencyHeader)
	if key == "" || s.idempotency == nil {
		status, payload := handle()
		writeJSON(w, status, payload)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, domain.FieldError{Field: "body", Message: "cannot read request body"})
		return
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	requestHash := hashRequest(r.Method, r.URL.Path, body)

	_, err = s.idempotency.CreateProcessing(key, requestHash, time.Now().UTC().Add(idempotencyTTL))
	if err != nil {
		if errors.Is(err, domain.ErrIdempotencyKeyAlreadyExists) {
			s.replay(w, key, requestHash)
			return
		}
		writeError(w, err)
		return
	}

	status, payload := handle()

	responseBody, marshalErr := json.Marshal(payload)
	if marshalErr != nil {
		s.logger.WithError(marshalErr).WithField("idempotency_key", key).Warn("не удалось сериализовать ответ для idempotency-записи")
	} else if status >= 200 && status < 300 {
		if err := s.idempotency.MarkDone(key, responseBody, status); err != nil {
			s.logger.WithError(err).WithField("idempotency_key", key).Warn("не удалось зафиксировать idempotency-запись")
		}
	} else {
		if err := s.idempotency.MarkFailed(key, responseBody, status); err != nil {
			s.logger.WithError(err).WithField("idempotency_key", key).Warn("не удалось зафиксировать idempotency-запись")
		}
	}

	writeJSON(w, status, payload)
}

// replay выдаёт сохранённый ответ по повторному ключу.
func (s *Server) replay(w http.ResponseWriter, key, requestHash string) {
	record, err := s.idempotency.Get(key)
	if err != nil {
		writeError(w, err)
		return
	}

	if record.RequestHash != requestHash {
		writeError(w, domain.ErrIdempotencyHashMismatch)
		return
	}

	if record.Status == domain.IdempotencyStatusProcessing {
		writeJSON(w, http.StatusConflict, errorBody{Error: errorDetail{
			Code:    "request_in_flight",
			Message: "request with this idempotency key is still being processed",
		}})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Idempotency-Replayed", "true")
	w.WriteHeader(record.HTTPStatus)
	_, _ = w.Write(record.ResponseBody)
}

func hashRequest(method, path string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte(":"))
	h.Write([]byte(path))
	h.Write([]byte(":"))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}
