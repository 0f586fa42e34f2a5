package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"brainrush/internal/model"
	"brainrush/internal/server"
	"brainrush/internal/service"
)

// LeaderboardHandler serves the global and per-game leaderboards.
type LeaderboardHandler struct {
	ranking *service.RankingService
}

// NewLeaderboardHandler creates a new LeaderboardHandler instance.
func NewLeaderboardHandler(ranking *service.RankingService) *LeaderboardHandler {
	return &LeaderboardHandler{ranking: ranking}
}

func leaderboardRows(entries []*model.LeaderboardEntry) []map[string]any {
	rows := make([]map[string]any, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, map[string]any{
			"rank":     i + 1,
			"user_id":  e.UserID,
			"username": e.Username,
			"avatar":   e.Avatar,
			"value":    e.Value,
		})
	}
	return rows
}

// Global handles GET /leaderboard: top users by coin balance.
func (h *LeaderboardHandler) Global(w http.ResponseWriter, r *http.Request) {
	entries, err := h.ranking.GlobalTop(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	server.JSON(w, http.StatusOK, map[string]any{"leaderboard": leaderboardRows(entries)})
}

// ByGame handles GET /leaderboard/{game}: top users by total score.
func (h *LeaderboardHandler) ByGame(w http.ResponseWriter, r *http.Request) {
	gameName := chi.URLParam(r, "game")

	entries, err := h.ranking.GameTop(r.Context(), gameName)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	server.JSON(w, http.StatusOK, map[string]any{
		"game":        gameName,
		"leaderboard": leaderboardRows(entries),
	})
}
