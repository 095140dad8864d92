package handlers

import (
	"context"
	"net/http"

	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/auth"
	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/middleware"
	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/models"
)

// AccountStore is the account persistence used by the auth handlers.
type AccountStore interface {
	auth.Accounts
	ByID(id string) (models.Account, error)
	UpdateProfile(ctx context.Context, id string, update models.ProfileUpdate) (models.Account, error)
	SetPasswordHash(ctx context.Context, id, hash string) error
}

// AuthHandler handles login and account requests
type AuthHandler struct {
	authService *auth.Service
	accounts    AccountStore
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authService *auth.Service, accounts AccountStore) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		accounts:    accounts,
	}
}

// Login handles account login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var loginReq models.LoginRequest
	if err := decodeJSON(r, &loginReq); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if loginReq.Email == "" || loginReq.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	resp, err := h.authService.Login(r.Context(), h.accounts, loginReq.Email, loginReq.Password)
	if err != nil {
		writeError(w, err, "login")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetProfile returns the current account's profile
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Session not found", http.StatusUnauthorized)
		return
	}

	account, err := h.accounts.ByID(claims.AccountID)
	if err != nil {
		writeError(w, err, "get_profile")
		return
	}

	writeJSON(w, http.StatusOK, account)
}

// UpdateProfile updates the current account's profile
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Session not found", http.StatusUnauthorized)
		return
	}

	var update models.ProfileUpdate
	if err := decodeJSON(r, &update); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if update.Email != "" {
		if err := h.authService.ValidateEmail(update.Email); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	account, err := h.accounts.UpdateProfile(r.Context(), claims.AccountID, update)
	if err != nil {
		writeError(w, err, "update_profile")
		return
	}

	writeJSON(w, http.StatusOK, account)
}

// ChangePassword changes the current account's password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Session not found", http.StatusUnauthorized)
		return
	}

	var passwordReq struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := decodeJSON(r, &passwordReq); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if passwordReq.CurrentPassword == "" || passwordReq.NewPassword == "" {
		http.Error(w, "Current password and new password are required", http.StatusBadRequest)
		return
	}

	if err := h.authService.ValidatePassword(passwordReq.NewPassword); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	account, err := h.accounts.ByID(claims.AccountID)
	if err != nil {
		writeError(w, err, "change_password")
		return
	}

	if !h.authService.CheckPassword(passwordReq.CurrentPassword, account.PasswordHash) {
		http.Error(w, "Current password is incorrect", http.StatusUnauthorized)
		return
	}

	hash, err := h.authService.HashPassword(passwordReq.NewPassword)
	if err != nil {
		writeError(w, err, "change_password")
		return
	}

	if err := h.accounts.SetPasswordHash(r.Context(), claims.AccountID, hash); err != nil {
		writeError(w, err, "change_password")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password changed successfully"})
}
