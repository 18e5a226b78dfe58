package httpapi

import (
	"net/http"

	"github.com/lifememo/navi/internal/server/models"
	"github.com/lifememo/navi/internal/server/services"
)

type registerRequest struct {
	Name     string `json:"name"`
	Age      int    `json:"age"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Category string `json:"category"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	*models.Account
	Token string `json:"token"`
}

type accountsResponse struct {
	Total    int                      `json:"total"`
	Accounts []*models.AccountSummary `json:"accounts"`
}

func (r *Router) handleRegister(w http.ResponseWriter, req *http.Request) {
	var body registerRequest
	if err := decodeJSON(req, &body); err != nil {
		r.writeError(w, req, err)
		return
	}

	s, err := r.services.Accounts.Register(req.Context(), services.RegisterInput{
		Name:     body.Name,
		Age:      body.Age,
		Email:    body.Email,
		Password: body.Password,
		Category: body.Category,
	})
	if err != nil {
		r.writeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{Account: s.Account, Token: s.Token})
}

func (r *Router) handleLogin(w http.ResponseWriter, req *http.Request) {
	var body loginRequest
	if err := decodeJSON(req, &body); err != nil {
		r.writeError(w, req, err)
		return
	}

	s, err := r.services.Accounts.Login(req.Context(), body.Email, body.Password)
	if err != nil {
		r.writeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Account: s.Account, Token: s.Token})
}

func (r *Router) handleMe(w http.ResponseWriter, req *http.Request) {
	a, err := r.services.Accounts.Me(req.Context(), accountID(req.Context()))
	if err != nil {
		r.writeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (r *Router) handleDeleteAccount(w http.ResponseWriter, req *http.Request) {
	if err := r.services.Accounts.DeleteAccount(req.Context(), accountID(req.Context())); err != nil {
		r.writeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "account and all data deleted"})
}

func (r *Router) handleListAccounts(w http.ResponseWriter, req *http.Request) {
	list, err := r.services.Accounts.ListAccounts(req.Context())
	if err != nil {
		r.writeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, accountsResponse{Total: len(list), Accounts: list})
}
