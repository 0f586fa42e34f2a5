package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"brainrush/internal/game"
	"brainrush/internal/model"
	"brainrush/internal/pkg/lock"
	"brainrush/internal/repository"
)

// ErrGameNotInShop is returned when a paid game has no shop item.
var ErrGameNotInShop = errors.New("Game not found in shop")

// ShopItemView is a shop item annotated with the viewer's ownership.
type ShopItemView struct {
	Item        *model.ShopItem
	IsPurchased bool
}

// ShopListing is the shop page payload: the catalog plus the viewer's coins.
type ShopListing struct {
	Items     []ShopItemView
	UserCoins int64
}

// GameAccess describes whether a user may play a game.
type GameAccess struct {
	HasAccess bool
	IsFree    bool
	ItemID    int64
	Price     int64
	Message   string
}

// ShopService handles the shop catalog, purchases and game access checks.
type ShopService struct {
	shopRepo *repository.ShopRepository
	userRepo *repository.UserRepository
	userLock *lock.UserLock
}

// NewShopService creates a new ShopService instance.
func NewShopService(
	shopRepo *repository.ShopRepository,
	userRepo *repository.UserRepository,
	userLock *lock.UserLock,
) *ShopService {
	return &ShopService{
		shopRepo: shopRepo,
		userRepo: userRepo,
		userLock: userLock,
	}
}

// ListItems returns the active catalog with the viewer's ownership flags and
// current balance.
func (s *ShopService) ListItems(ctx context.Context, userID int64) (*ShopListing, error) {
	items, err := s.shopRepo.ActiveItems(ctx)
	if err != nil {
		return nil, err
	}

	purchases, err := s.shopRepo.PurchasesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	owned := make(map[int64]bool, len(purchases))
	for _, p := range purchases {
		owned[p.ID] = true
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]ShopItemView, 0, len(items))
	for _, item := range items {
		views = append(views, ShopItemView{Item: item, IsPurchased: owned[item.ID]})
	}

	return &ShopListing{Items: views, UserCoins: user.Coins}, nil
}

// Item retrieves one shop item.
func (s *ShopService) Item(ctx context.Context, itemID int64) (*model.ShopItem, error) {
	return s.shopRepo.GetItem(ctx, itemID)
}

// Purchase buys an item for a user. Requests from the same user are
// serialized, and the repository performs the checks and writes in one
// transaction. Returns the purchased item and the post-debit balance as
// reported by that transaction.
func (s *ShopService) Purchase(ctx context.Context, userID, itemID int64) (*model.ShopItem, int64, error) {
	var (
		item      *model.ShopItem
		remaining int64
	)

	err := s.userLock.WithLock(userID, func() error {
		var err error
		item, remaining, err = s.shopRepo.Purchase(ctx, userID, itemID)
		return err
	})
	if err != nil {
		return nil, 0, err
	}

	log.Info().
		Int64("user_id", userID).
		Int64("item_id", itemID).
		Str("item", item.Name).
		Int64("price", item.Price).
		Msg("Item purchased")

	return item, remaining, nil
}

// Purchases returns the items a user has bought, newest first.
func (s *ShopService) Purchases(ctx context.Context, userID int64) ([]*model.ShopItem, error) {
	return s.shopRepo.PurchasesByUser(ctx, userID)
}

// CheckGameAccess reports whether a user may play the named game.
// Free games are always accessible; paid games require the matching shop
// item to have been purchased. Returns ErrGameNotInShop when a paid game
// has no catalog entry.
func (s *ShopService) CheckGameAccess(ctx context.Context, userID int64, gameName string) (*GameAccess, error) {
	info, ok := game.Lookup(gameName)
	if ok && info.Free {
		return &GameAccess{
			HasAccess: true,
			IsFree:    true,
			Message:   "This game is free to play!",
		}, nil
	}

	items, err := s.shopRepo.ActiveItems(ctx)
	if err != nil {
		return nil, err
	}

	var gameItem *model.ShopItem
	for _, item := range items {
		if item.ItemType == model.ItemTypeGame && game.ShopItemName(item.Name) == gameName {
			gameItem = item
			break
		}
	}
	if gameItem == nil {
		return nil, ErrGameNotInShop
	}

	owned, err := s.shopRepo.HasPurchased(ctx, userID, gameItem.ID)
	if err != nil {
		return nil, err
	}

	access := &GameAccess{
		HasAccess: owned,
		IsFree:    false,
		ItemID:    gameItem.ID,
		Price:     gameItem.Price,
	}
	if owned {
		access.Message = "You own this game!"
	} else {
		access.Message = "Purchase required"
	}
	return access, nil
}
