package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"brainrush/internal/repository"
	"brainrush/internal/server"
	"brainrush/internal/service"
)

// AdminHandler serves the administration endpoints. All routes require the
// admin role.
type AdminHandler struct {
	admin    *service.AdminService
	feedback *service.FeedbackService
}

// NewAdminHandler creates a new AdminHandler instance.
func NewAdminHandler(admin *service.AdminService, feedback *service.FeedbackService) *AdminHandler {
	return &AdminHandler{admin: admin, feedback: feedback}
}

// Users handles GET /admin/users.
func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.admin.ListUsers(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	rows := make([]userDTO, 0, len(users))
	for _, u := range users {
		rows = append(rows, toUserDTO(u))
	}
	server.JSON(w, http.StatusOK, map[string]any{"users": rows})
}

type roleRequest struct {
	Role string `json:"role"`
}

// SetRole handles POST /admin/users/{id}/role.
func (h *AdminHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		server.Error(w, http.StatusNotFound, repository.ErrUserNotFound.Error())
		return
	}

	var req roleRequest
	if err := server.Decode(r, &req); err != nil {
		writeServiceError(w, err)
		return
	}

	if err := h.admin.SetRole(r.Context(), userID, req.Role); err != nil {
		writeServiceError(w, err)
		return
	}
	server.JSON(w, http.StatusOK, map[string]string{"status": "updated", "role": req.Role})
}

type adjustCoinsRequest struct {
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
}

// AdjustCoins handles POST /admin/users/{id}/coins: a signed balance
// adjustment recorded in the ledger.
func (h *AdminHandler) AdjustCoins(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		server.Error(w, http.StatusNotFound, repository.ErrUserNotFound.Error())
		return
	}

	var req adjustCoinsRequest
	if err := server.Decode(r, &req); err != nil {
		writeServiceError(w, err)
		return
	}

	balance, err := h.admin.AdjustCoins(r.Context(), userID, req.Amount, req.Description)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	server.JSON(w, http.StatusOK, map[string]any{"status": "adjusted", "coins": balance})
}

// DeleteFeedback handles DELETE /admin/feedback/{id}. Admins bypass the
// ownership check.
func (h *AdminHandler) DeleteFeedback(w http.ResponseWriter, r *http.Request) {
	user := server.UserFromContext(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		server.Error(w, http.StatusNotFound, repository.ErrFeedbackNotFound.Error())
		return
	}

	if err := h.feedback.Delete(r.Context(), user, id); err != nil {
		writeServiceError(w, err)
		return
	}
	server.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
