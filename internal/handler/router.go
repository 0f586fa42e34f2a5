package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"brainrush/internal/pkg/db"
	"brainrush/internal/server"
)

// Handlers bundles the route handlers for router construction.
type Handlers struct {
	Auth        *AuthHandler
	Games       *GamesHandler
	Shop        *ShopHandler
	Profile     *ProfileHandler
	Feedback    *FeedbackHandler
	Leaderboard *LeaderboardHandler
	Admin       *AdminHandler
}

// NewRouter builds the chi router with all middleware and routes. The same
// handlers are mounted at the root and under /api/v1.
func NewRouter(h Handlers, authmw *server.Auth, pool *db.Pool) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(server.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if err := pool.HealthCheck(req.Context()); err != nil {
			server.Error(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		server.JSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	mount := func(r chi.Router) {
		// Public
		r.Post("/auth/register", h.Auth.Register)
		r.Post("/auth/login", h.Auth.Login)
		r.Post("/auth/logout", h.Auth.Logout)
		r.Get("/leaderboard", h.Leaderboard.Global)
		r.Get("/leaderboard/{game}", h.Leaderboard.ByGame)

		// Authenticated
		r.Group(func(r chi.Router) {
			r.Use(authmw.RequireUser)

			r.Get("/games", h.Games.List)
			r.Post("/game/{name}/save_result", h.Games.SaveResult)

			r.Get("/shop/items", h.Shop.Items)
			r.Get("/shop/item/{id}", h.Shop.Item)
			r.Post("/shop/purchase/{id}", h.Shop.Purchase)
			r.Get("/shop/purchases", h.Shop.Purchases)
			r.Get("/shop/access/{game}", h.Shop.Access)

			r.Get("/profile", h.Profile.Me)
			r.Get("/profile/{id:[0-9]+}", h.Profile.ByID)
			r.Get("/profile/stats/{game}", h.Profile.Stats)
			r.Get("/profile/transactions", h.Profile.Transactions)
			r.Post("/profile/theme", h.Profile.UpdateTheme)
			r.Post("/profile/avatar", h.Profile.EquipAvatar)
			r.Post("/profile/password", h.Profile.ChangePassword)
			r.Post("/profile/delete", h.Profile.DeleteAccount)

			r.Get("/feedback", h.Feedback.List)
			r.Post("/feedback", h.Feedback.Create)
			r.Get("/feedback/{id}", h.Feedback.Get)
			r.Put("/feedback/{id}", h.Feedback.Update)
			r.Delete("/feedback/{id}", h.Feedback.Delete)

			// Admin
			r.Group(func(r chi.Router) {
				r.Use(authmw.RequireAdmin)

				r.Get("/admin/users", h.Admin.Users)
				r.Post("/admin/users/{id}/role", h.Admin.SetRole)
				r.Post("/admin/users/{id}/coins", h.Admin.AdjustCoins)
				r.Delete("/admin/feedback/{id}", h.Admin.DeleteFeedback)
			})
		})
	}

	mount(r)
	r.Route("/api/v1", mount)

	return r
}
