package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"brainrush/internal/model"
	"brainrush/internal/pkg/lock"
	"brainrush/internal/repository"
)

// ErrInvalidRole is returned for roles outside user/admin.
var ErrInvalidRole = errors.New("Invalid role")

// AdminService implements the administration operations.
type AdminService struct {
	userRepo *repository.UserRepository
	txRepo   *repository.TransactionRepository
	userLock *lock.UserLock
}

// NewAdminService creates a new AdminService instance.
func NewAdminService(
	userRepo *repository.UserRepository,
	txRepo *repository.TransactionRepository,
	userLock *lock.UserLock,
) *AdminService {
	return &AdminService{
		userRepo: userRepo,
		txRepo:   txRepo,
		userLock: userLock,
	}
}

// ListUsers returns all users ordered by ID.
func (s *AdminService) ListUsers(ctx context.Context) ([]*model.User, error) {
	return s.userRepo.List(ctx)
}

// SetRole changes a user's role to user or admin.
func (s *AdminService) SetRole(ctx context.Context, userID int64, role string) error {
	if role != model.RoleUser && role != model.RoleAdmin {
		return ErrInvalidRole
	}
	if err := s.userRepo.SetRole(ctx, userID, role); err != nil {
		return err
	}

	log.Info().Int64("user_id", userID).Str("role", role).Msg("Role updated")
	return nil
}

// AdjustCoins applies a signed balance adjustment and records it in the
// ledger. The balance may go negative. Returns the new balance.
func (s *AdminService) AdjustCoins(ctx context.Context, userID, delta int64, description string) (int64, error) {
	if description == "" {
		description = "Balance adjusted by admin"
	}

	var balance int64
	err := s.userLock.WithLock(userID, func() error {
		var err error
		balance, err = s.txRepo.Adjust(ctx, userID, delta, description)
		return err
	})
	if err != nil {
		return 0, err
	}

	log.Info().
		Int64("user_id", userID).
		Int64("delta", delta).
		Int64("balance", balance).
		Msg("Coins adjusted")

	return balance, nil
}
