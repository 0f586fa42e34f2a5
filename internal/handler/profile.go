package handler

import (
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"brainrush/internal/repository"
	"brainrush/internal/server"
	"brainrush/internal/service"
)

// ProfileHandler serves the profile views and account settings.
type ProfileHandler struct {
	accounts *service.AccountService
	gameplay *service.GameplayService
}

// NewProfileHandler creates a new ProfileHandler instance.
func NewProfileHandler(accounts *service.AccountService, gameplay *service.GameplayService) *ProfileHandler {
	return &ProfileHandler{accounts: accounts, gameplay: gameplay}
}

func profilePayload(p *service.Profile) map[string]any {
	return map[string]any{
		"user":               toUserDTO(p.User),
		"total_games":        p.TotalGames,
		"total_points":       p.TotalPoints,
		"total_coins_earned": p.TotalCoinsEarned,
	}
}

// Me handles GET /profile: the viewer's own profile with avatars and games.
func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := server.UserFromContext(r.Context())

	profile, err := h.accounts.GetProfile(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	avatars, err := h.accounts.AvailableAvatars(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	games, err := h.gameplay.DistinctGames(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := profilePayload(profile)
	resp["available_avatars"] = avatars
	resp["played_games"] = games
	server.JSON(w, http.StatusOK, resp)
}

// ByID handles GET /profile/{id}: a public profile view.
func (h *ProfileHandler) ByID(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		server.Error(w, http.StatusNotFound, repository.ErrUserNotFound.Error())
		return
	}

	profile, err := h.accounts.GetProfile(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	server.JSON(w, http.StatusOK, profilePayload(profile))
}

// Stats handles GET /profile/stats/{game}: per-level aggregates for one game.
func (h *ProfileHandler) Stats(w http.ResponseWriter, r *http.Request) {
	user := server.UserFromContext(r.Context())
	gameName := chi.URLParam(r, "game")

	stats, err := h.gameplay.StatsForGame(r.Context(), user.ID, gameName)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	rows := make([]map[string]any, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, map[string]any{
			"level":         s.Level,
			"rounds":        s.Rounds,
			"rounds_played": s.RoundsPlayed,
			"total_score":   s.TotalScore,
			"avg_time":      math.Round(s.AvgTime*100) / 100,
			"total_coins":   s.TotalCoins,
		})
	}
	server.JSON(w, http.StatusOK, map[string]any{"game": gameName, "stats": rows})
}

// Transactions handles GET /profile/transactions.
func (h *ProfileHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	user := server.UserFromContext(r.Context())

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}

	txs, err := h.gameplay.Transactions(r.Context(), user.ID, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	rows := make([]map[string]any, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, map[string]any{
			"id":          tx.ID,
			"amount":      tx.Amount,
			"type":        tx.Type,
			"description": tx.Description,
			"created_at":  tx.CreatedAt.UTC(),
		})
	}
	server.JSON(w, http.StatusOK, map[string]any{"transactions": rows})
}

type themeRequest struct {
	Theme string `json:"theme"`
}

// UpdateTheme handles POST /profile/theme.
func (h *ProfileHandler) UpdateTheme(w http.ResponseWriter, r *http.Request) {
	user := server.UserFromContext(r.Context())

	var req themeRequest
	if err := server.Decode(r, &req); err != nil {
		writeServiceError(w, err)
		return
	}

	if err := h.accounts.UpdateTheme(r.Context(), user.ID, req.Theme); err != nil {
		writeServiceError(w, err)
		return
	}
	server.JSON(w, http.StatusOK, map[string]string{"status": "updated", "theme": req.Theme})
}

type avatarRequest struct {
	Avatar string `json:"avatar"`
}

// EquipAvatar handles POST /profile/avatar.
func (h *ProfileHandler) EquipAvatar(w http.ResponseWriter, r *http.Request) {
	user := server.UserFromContext(r.Context())

	var req avatarRequest
	if err := server.Decode(r, &req); err != nil {
		writeServiceError(w, err)
		return
	}

	if err := h.accounts.EquipAvatar(r.Context(), user.ID, req.Avatar); err != nil {
		writeServiceError(w, err)
		return
	}
	server.JSON(w, http.StatusOK, map[string]string{"status": "equipped", "avatar": req.Avatar})
}

type passwordRequest struct {
	NewPassword string `json:"new_password"`
}

// ChangePassword handles POST /profile/password.
func (h *ProfileHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user := server.UserFromContext(r.Context())

	var req passwordRequest
	if err := server.Decode(r, &req); err != nil {
		writeServiceError(w, err)
		return
	}

	if err := h.accounts.ChangePassword(r.Context(), user.ID, req.NewPassword); err != nil {
		writeServiceError(w, err)
		return
	}
	server.JSON(w, http.StatusOK, map[string]string{"status": "password_changed"})
}

// DeleteAccount handles POST /profile/delete. The session cookie is cleared
// after the account and all dependent rows are removed.
func (h *ProfileHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	user := server.UserFromContext(r.Context())

	if err := h.accounts.DeleteAccount(r.Context(), user.ID); err != nil {
		writeServiceError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     server.SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
	server.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
