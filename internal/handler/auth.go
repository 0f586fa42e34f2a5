package handler

import (
	"net/http"
	"time"

	"brainrush/internal/auth"
	"brainrush/internal/server"
	"brainrush/internal/service"
)

// AuthHandler serves registration, login and logout.
type AuthHandler struct {
	accounts *service.AccountService
	tokens   *auth.TokenManager
	ttl      time.Duration
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(accounts *service.AccountService, tokens *auth.TokenManager, ttl time.Duration) *AuthHandler {
	return &AuthHandler{accounts: accounts, tokens: tokens, ttl: ttl}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := server.Decode(r, &req); err != nil {
		writeServiceError(w, err)
		return
	}

	user, err := h.accounts.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := h.setSession(w, user.ID, user.Username, user.Role); err != nil {
		server.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	server.JSON(w, http.StatusCreated, map[string]any{"user": toUserDTO(user)})
}

// Login handles POST /auth/login. A successful login claims the daily bonus;
// the response carries the bonus message when one was awarded.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := server.Decode(r, &req); err != nil {
		writeServiceError(w, err)
		return
	}

	user, bonus, err := h.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := h.setSession(w, user.ID, user.Username, user.Role); err != nil {
		server.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	resp := map[string]any{"user": toUserDTO(user)}
	if bonus != nil {
		resp["daily_bonus"] = map[string]any{
			"amount":  bonus.Amount,
			"streak":  bonus.Streak,
			"message": bonus.Message,
		}
	}
	server.JSON(w, http.StatusOK, resp)
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     server.SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
	server.JSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

func (h *AuthHandler) setSession(w http.ResponseWriter, userID int64, username, role string) error {
	token, err := h.tokens.Mint(userID, username, role)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     server.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(h.ttl),
	})
	return nil
}
