package service

import (
	"context"

	"brainrush/internal/game"
	"brainrush/internal/model"
	"brainrush/internal/repository"
)

// defaultTopLimit is the number of rows shown on each leaderboard.
const defaultTopLimit = 10

// RankingService answers leaderboard queries.
type RankingService struct {
	resultRepo *repository.GameResultRepository
}

// NewRankingService creates a new RankingService instance.
func NewRankingService(resultRepo *repository.GameResultRepository) *RankingService {
	return &RankingService{resultRepo: resultRepo}
}

// GlobalTop returns the top users by coin balance.
func (s *RankingService) GlobalTop(ctx context.Context) ([]*model.LeaderboardEntry, error) {
	return s.resultRepo.GlobalTop(ctx, defaultTopLimit)
}

// GameTop returns the top users for one game by total score.
// Returns ErrUnknownGame for names outside the catalog.
func (s *RankingService) GameTop(ctx context.Context, gameName string) ([]*model.LeaderboardEntry, error) {
	info, ok := game.Lookup(gameName)
	if !ok {
		return nil, ErrUnknownGame
	}
	return s.resultRepo.GameTop(ctx, string(info.Name), defaultTopLimit)
}
