package httpapi

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/windikite/MP5-E-CommerceAPI/internal/domain"
)

// accountView не содержит пароля: наружу он не отдаётся.
type accountView struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	CustomerID string    `json:"customer_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toAccountView(a domain.CustomerAccount) accountView {
	return accountView{
		ID:         a.ID,
		Username:   a.Username,
		CustomerID: a.CustomerID,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

func (s *Server) createAccount(w http.ResponseWriter, r *http.Request) {
	var input domain.AccountInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, err)
		return
	}
	if errs := input.Validate(); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	now := time.Now().UTC()
	account := domain.CustomerAccount{
		ID:         uuid.NewString(),
		Username:   input.Username,
		Password:   input.Password,
		CustomerID: input.CustomerID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.accounts.Create(account); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toAccountView(account))
}

func (s *Server) listAccounts(w http.ResponseWriter, _ *http.Request) {
	accounts, err := s.accounts.List()
	if err != nil {
		writeError(w, err)
		return
	}

	views := make([]accountView, 0, len(accounts))
	for _, account := range accounts {
		views = append(views, toAccountView(account))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	account, err := s.accounts.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountView(account))
}

func (s *Server) updateAccount(w http.ResponseWriter, r *http.Request) {
	var input domain.AccountInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, err)
		return
	}
	if errs := input.Validate(); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	account, err := s.accounts.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	account.Username = input.Username
	account.Password = input.Password
	account.CustomerID = input.CustomerID
	account.UpdatedAt = time.Now().UTC()

	if err := s.accounts.Update(account); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAccountView(account))
}

func (s *Server) deleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := s.accounts.Delete(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
