package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"brainrush/internal/economy"
	"brainrush/internal/game"
	"brainrush/internal/model"
	"brainrush/internal/pkg/lock"
	"brainrush/internal/repository"
)

// Gameplay errors.
var (
	ErrUnknownGame = errors.New("unknown game")
	ErrGameLocked  = errors.New("game not purchased")
)

// defaultTransactionLimit bounds ledger listings when no limit is given.
const defaultTransactionLimit = 50

// GameplayService records game results and answers statistics queries.
type GameplayService struct {
	resultRepo *repository.GameResultRepository
	txRepo     *repository.TransactionRepository
	shop       *ShopService
	rules      economy.Rules
	userLock   *lock.UserLock
}

// NewGameplayService creates a new GameplayService instance.
func NewGameplayService(
	resultRepo *repository.GameResultRepository,
	txRepo *repository.TransactionRepository,
	shop *ShopService,
	rules economy.Rules,
	userLock *lock.UserLock,
) *GameplayService {
	return &GameplayService{
		resultRepo: resultRepo,
		txRepo:     txRepo,
		shop:       shop,
		rules:      rules,
		userLock:   userLock,
	}
}

// SaveResult records a finished play session and credits the earned coins
// (1 per 10 points, minimum 1). The game must exist and, for paid games,
// be owned by the user.
func (s *GameplayService) SaveResult(ctx context.Context, userID int64, gameName, level string, score int64, timeSpent float64, rounds int) (*model.GameResult, error) {
	info, ok := game.Lookup(gameName)
	if !ok {
		return nil, ErrUnknownGame
	}

	if !info.Free {
		access, err := s.shop.CheckGameAccess(ctx, userID, string(info.Name))
		if err != nil {
			return nil, err
		}
		if !access.HasAccess {
			return nil, ErrGameLocked
		}
	}

	if level == "" {
		level = "unknown"
	}
	if rounds <= 0 {
		rounds = info.DefaultRounds
	}
	coins := s.rules.CoinsForScore(score)

	var result *model.GameResult
	err := s.userLock.WithLock(userID, func() error {
		var err error
		result, err = s.resultRepo.Save(ctx, userID, string(info.Name), level, score, timeSpent, rounds, coins)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Int64("user_id", userID).
		Str("game", string(info.Name)).
		Int64("score", score).
		Int64("coins_earned", coins).
		Msg("Game result saved")

	return result, nil
}

// DistinctGames returns the distinct games a user has played.
func (s *GameplayService) DistinctGames(ctx context.Context, userID int64) ([]string, error) {
	return s.resultRepo.DistinctGames(ctx, userID)
}

// StatsForGame returns a user's aggregated results for one game.
func (s *GameplayService) StatsForGame(ctx context.Context, userID int64, gameName string) ([]*model.GameStats, error) {
	return s.resultRepo.StatsForGame(ctx, userID, gameName)
}

// Transactions returns a user's ledger rows, newest first.
func (s *GameplayService) Transactions(ctx context.Context, userID int64, limit int) ([]*model.Transaction, error) {
	if limit <= 0 {
		limit = defaultTransactionLimit
	}
	return s.txRepo.ByUser(ctx, userID, limit)
}
