package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"brainrush/internal/game"
	"brainrush/internal/server"
	"brainrush/internal/service"
)

// GamesHandler serves the game catalog and result submission.
type GamesHandler struct {
	gameplay *service.GameplayService
	shop     *service.ShopService
}

// NewGamesHandler creates a new GamesHandler instance.
func NewGamesHandler(gameplay *service.GameplayService, shop *service.ShopService) *GamesHandler {
	return &GamesHandler{gameplay: gameplay, shop: shop}
}

type gameDTO struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Free        bool   `json:"free"`
	HasAccess   bool   `json:"has_access"`
	Price       int64  `json:"price,omitempty"`
}

// List handles GET /games: the catalog annotated with the viewer's access.
func (h *GamesHandler) List(w http.ResponseWriter, r *http.Request) {
	user := server.UserFromContext(r.Context())

	games := make([]gameDTO, 0, len(game.All()))
	for _, info := range game.All() {
		dto := gameDTO{
			Name:        string(info.Name),
			Title:       info.Title,
			Description: info.Description,
			Free:        info.Free,
			HasAccess:   info.Free,
		}
		if !info.Free {
			access, err := h.shop.CheckGameAccess(r.Context(), user.ID, string(info.Name))
			if err != nil {
				writeServiceError(w, err)
				return
			}
			dto.HasAccess = access.HasAccess
			dto.Price = access.Price
		}
		games = append(games, dto)
	}

	server.JSON(w, http.StatusOK, map[string]any{"games": games})
}

type saveResultRequest struct {
	Level  string  `json:"level"`
	Score  int64   `json:"score"`
	Time   float64 `json:"time"`
	Rounds int     `json:"rounds"`
}

// SaveResult handles POST /game/{name}/save_result.
func (h *GamesHandler) SaveResult(w http.ResponseWriter, r *http.Request) {
	user := server.UserFromContext(r.Context())
	gameName := chi.URLParam(r, "name")

	var req saveResultRequest
	if err := server.Decode(r, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	if req.Score < 0 {
		server.Error(w, http.StatusBadRequest, "Score must not be negative")
		return
	}

	result, err := h.gameplay.SaveResult(r.Context(), user.ID, gameName, req.Level, req.Score, req.Time, req.Rounds)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	server.JSON(w, http.StatusOK, map[string]any{
		"status":       "saved",
		"coins_earned": result.CoinsEarned,
		"score":        result.Score,
	})
}
