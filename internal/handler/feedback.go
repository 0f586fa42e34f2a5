package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"brainrush/internal/model"
	"brainrush/internal/repository"
	"brainrush/internal/server"
	"brainrush/internal/service"
)

// FeedbackHandler serves the feedback CRUD endpoints.
type FeedbackHandler struct {
	feedback *service.FeedbackService
}

// NewFeedbackHandler creates a new FeedbackHandler instance.
func NewFeedbackHandler(feedback *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback}
}

type feedbackDTO struct {
	ID        int64  `json:"id"`
	UserID    *int64 `json:"user_id"`
	Name      string `json:"name"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

func toFeedbackDTO(fb *model.Feedback) feedbackDTO {
	dto := feedbackDTO{
		ID:        fb.ID,
		UserID:    fb.UserID,
		Name:      fb.Name,
		Message:   fb.Message,
		CreatedAt: fb.CreatedAt.UTC().Format(time.RFC3339),
	}
	if fb.UpdatedAt != nil {
		dto.UpdatedAt = fb.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return dto
}

// List handles GET /feedback.
func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}

	entries, err := h.feedback.List(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	rows := make([]feedbackDTO, 0, len(entries))
	for _, fb := range entries {
		rows = append(rows, toFeedbackDTO(fb))
	}
	server.JSON(w, http.StatusOK, map[string]any{"feedback": rows})
}

// Get handles GET /feedback/{id}.
func (h *FeedbackHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		server.Error(w, http.StatusNotFound, repository.ErrFeedbackNotFound.Error())
		return
	}

	fb, err := h.feedback.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	server.JSON(w, http.StatusOK, toFeedbackDTO(fb))
}

type feedbackRequest struct {
	Message string `json:"message"`
}

// Create handles POST /feedback.
func (h *FeedbackHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := server.UserFromContext(r.Context())

	var req feedbackRequest
	if err := server.Decode(r, &req); err != nil {
		writeServiceError(w, err)
		return
	}

	fb, err := h.feedback.Add(r.Context(), user, req.Message)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	server.JSON(w, http.StatusCreated, toFeedbackDTO(fb))
}

// Update handles PUT /feedback/{id}. Only the author or an admin may update.
func (h *FeedbackHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := server.UserFromContext(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		server.Error(w, http.StatusNotFound, repository.ErrFeedbackNotFound.Error())
		return
	}

	var req feedbackRequest
	if err := server.Decode(r, &req); err != nil {
		writeServiceError(w, err)
		return
	}

	if err := h.feedback.Update(r.Context(), user, id, req.Message); err != nil {
		writeServiceError(w, err)
		return
	}
	server.JSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// Delete handles DELETE /feedback/{id}. Only the author or an admin may
// delete.
func (h *FeedbackHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
