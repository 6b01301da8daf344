package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/menden/shop-api/internal/domain"
	"github.com/menden/shop-api/internal/service"
)

// AuthHandler serves registration, login and password changes.
type AuthHandler struct {
	accounts *service.Accounts
	log      zerolog.Logger
}

func NewAuthHandler(accounts *service.Accounts, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, log: log}
}

type loginRequest struct {
	Phone    string `json:"phonenumber"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	Phone       string `json:"phonenumber"`
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// Register creates an account. The password in the body is hashed before
// the record is stored; the response never carries credential material.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var account domain.Document
	if err := json.NewDecoder(r.Body).Decode(&account); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	created, err := h.accounts.Register(r.Context(), account)
	if err != nil {
		respondFailure(h.log, w, err)
		return
	}
	respondJSON(w, http.StatusOK, created)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	account, err := h.accounts.Login(r.Context(), req.Phone, req.Password)
	if err != nil {
		respondFailure(h.log, w, err)
		return
	}
	respondJSON(w, http.StatusOK, account)
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := h.accounts.ChangePassword(r.Context(), req.Phone, req.OldPassword, req.NewPassword); err != nil {
		respondFailure(h.log, w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "password changed"})
}
