package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"brainrush/internal/repository"
	"brainrush/internal/server"
	"brainrush/internal/service"
)

// ShopHandler serves the shop catalog, purchases and game access checks.
type ShopHandler struct {
	shop *service.ShopService
}

// NewShopHandler creates a new ShopHandler instance.
func NewShopHandler(shop *service.ShopService) *ShopHandler {
	return &ShopHandler{shop: shop}
}

// Items handles GET /shop/items.
func (h *ShopHandler) Items(w http.ResponseWriter, r *http.Request) {
	user := server.UserFromContext(r.Context())

	listing, err := h.shop.ListItems(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	items := make([]itemDTO, 0, len(listing.Items))
	for _, view := range listing.Items {
		items = append(items, toItemDTO(view.Item, view.IsPurchased))
	}

	server.JSON(w, http.StatusOK, map[string]any{
		"items":      items,
		"user_coins": listing.UserCoins,
	})
}

// Item handles GET /shop/item/{id}.
func (h *ShopHandler) Item(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		server.Error(w, http.StatusNotFound, repository.ErrItemNotFound.Error())
		return
	}

	item, err := h.shop.Item(r.Context(), itemID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	server.JSON(w, http.StatusOK, toItemDTO(item, false))
}

// Purchase handles POST /shop/purchase/{id}. Failed purchases report the
// reason with a 400, including an unknown item ID.
func (h *ShopHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	user := server.UserFromContext(r.Context())

	itemID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		server.Error(w, http.StatusBadRequest, repository.ErrItemNotFound.Error())
		return
	}

	item, remaining, err := h.shop.Purchase(r.Context(), user.ID, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			server.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		writeServiceError(w, err)
		return
	}

	server.JSON(w, http.StatusOK, map[string]any{
		"status":          "purchased",
		"item":            toItemDTO(item, true),
		"remaining_coins": remaining,
	})
}

// Purchases handles GET /shop/purchases.
func (h *ShopHandler) Purchases(w http.ResponseWriter, r *http.Request) {
	user := server.UserFromContext(r.Context())

	items, err := h.shop.Purchases(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	purchased := make([]itemDTO, 0, len(items))
	for _, item := range items {
		purchased = append(purchased, toItemDTO(item, true))
	}
	server.JSON(w, http.StatusOK, map[string]any{"purchases": purchased})
}

// Access handles GET /shop/access/{game}.
func (h *ShopHandler) Access(w http.ResponseWriter, r *http.Request) {
	user := server.UserFromContext(r.Context())
	gameName := chi.URLParam(r, "game")

	access, err := h.shop.CheckGameAccess(r.Context(), user.ID, gameName)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := map[string]any{
		"has_access": access.HasAccess,
		"is_free":    access.IsFree,
		"message":    access.Message,
	}
	if !access.IsFree {
		resp["item_id"] = access.ItemID
		resp["price"] = access.Price
	}
	server.JSON(w, http.StatusOK, resp)
}
