// Package handler implements the HTTP handlers for the API.
package handler

import (
	"errors"
	"net/http"
	"time"

	"brainrush/internal/model"
	"brainrush/internal/repository"
	"brainrush/internal/server"
	"brainrush/internal/service"
)

// userDTO is the user payload returned by auth and profile endpoints.
type userDTO struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Role        string `json:"role"`
	Coins       int64  `json:"coins"`
	Theme       string `json:"theme"`
	Avatar      string `json:"avatar"`
	LoginStreak int    `json:"login_streak"`
	CreatedAt   string `json:"created_at"`
}

func toUserDTO(u *model.User) userDTO {
	return userDTO{
		ID:          u.ID,
		Username:    u.Username,
		Role:        u.Role,
		Coins:       u.Coins,
		Theme:       u.Theme,
		Avatar:      u.Avatar,
		LoginStreak: u.LoginStreak,
		CreatedAt:   u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// itemDTO is the shop item payload.
type itemDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	ItemType    string `json:"item_type"`
	IsPurchased bool   `json:"is_purchased,omitempty"`
}

func toItemDTO(item *model.ShopItem, purchased bool) itemDTO {
	return itemDTO{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price,
		ItemType:    item.ItemType,
		IsPurchased: purchased,
	}
}

// writeServiceError maps domain errors to HTTP responses. Validation and
// domain-rule violations surface their message with a 400; missing entities
// are 404; everything unexpected is a 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidUsername),
		errors.Is(err, service.ErrInvalidPassword),
		errors.Is(err, service.ErrPasswordTooLong),
		errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrInvalidTheme),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrEmptyMessage),
		errors.Is(err, service.ErrAvatarNotOwned),
		errors.Is(err, repository.ErrInsufficientCoins),
		errors.Is(err, repository.ErrAlreadyPurchased),
		errors.Is(err, server.ErrBadJSON):
		server.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		server.Error(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrForbidden):
		server.Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrGameLocked):
		server.Error(w, http.StatusForbidden, "Game not purchased")
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrItemNotFound),
		errors.Is(err, repository.ErrFeedbackNotFound),
		errors.Is(err, service.ErrUnknownGame),
		errors.Is(err, service.ErrGameNotInShop):
		server.Error(w, http.StatusNotFound, err.Error())
	default:
		server.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
