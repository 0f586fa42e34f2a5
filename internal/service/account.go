// Package service provides business logic implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/rs/zerolog/log"

	"brainrush/internal/auth"
	"brainrush/internal/economy"
	"brainrush/internal/model"
	"brainrush/internal/pkg/lock"
	"brainrush/internal/repository"
)

// Common errors for account operations. The texts surface in 400 responses.
var (
	ErrInvalidUsername    = errors.New("Username must contain only English letters and digits, length 3-16 characters")
	ErrInvalidPassword    = errors.New("Password must be at least 8 characters long")
	ErrPasswordTooLong    = errors.New("Password must be at most 72 characters long")
	ErrUsernameTaken      = errors.New("This username is already taken")
	ErrInvalidCredentials = errors.New("Invalid username or password")
	ErrInvalidTheme       = errors.New("Invalid theme")
	ErrAvatarNotOwned     = errors.New("Avatar not owned")
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9]{3,16}$`)

// Accepted password length bounds. The upper bound is bcrypt's 72-byte
// input limit; longer passwords would fail inside the hasher.
const (
	minPasswordLength = 8
	maxPasswordLength = 72
)

// validatePassword checks the length bounds shared by Register and
// ChangePassword.
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return ErrInvalidPassword
	}
	if len(password) > maxPasswordLength {
		return ErrPasswordTooLong
	}
	return nil
}

// Profile bundles a user with their lifetime statistics.
type Profile struct {
	User             *model.User
	TotalGames       int64
	TotalPoints      int64
	TotalCoinsEarned int64
}

// BonusResult describes a claimed daily bonus.
type BonusResult struct {
	Streak  int
	Amount  int64
	Message string
}

// AccountService handles registration, login and account settings.
type AccountService struct {
	userRepo     *repository.UserRepository
	resultRepo   *repository.GameResultRepository
	shopRepo     *repository.ShopRepository
	rules        economy.Rules
	initialCoins int64
	userLock     *lock.UserLock
}

// NewAccountService creates a new AccountService instance.
func NewAccountService(
	userRepo *repository.UserRepository,
	resultRepo *repository.GameResultRepository,
	shopRepo *repository.ShopRepository,
	rules economy.Rules,
	initialCoins int64,
	userLock *lock.UserLock,
) *AccountService {
	return &AccountService{
		userRepo:     userRepo,
		resultRepo:   resultRepo,
		shopRepo:     shopRepo,
		rules:        rules,
		initialCoins: initialCoins,
		userLock:     userLock,
	}
}

// Register validates the credentials and creates a new account with the
// initial coin balance.
func (s *AccountService) Register(ctx context.Context, username, password string) (*model.User, error) {
	if !usernamePattern.MatchString(username) {
		return nil, ErrInvalidUsername
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.Create(ctx, username, hash, s.initialCoins)
	if err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("User registered")
	return user, nil
}

// Login verifies the credentials and claims the daily login bonus.
// The bonus result is nil when the bonus was already claimed today.
func (s *AccountService) Login(ctx context.Context, username, password string) (*model.User, *BonusResult, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, nil, ErrInvalidCredentials
	}

	bonus, err := s.ClaimDailyBonus(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	if bonus != nil {
		// Re-read to return the credited balance and updated streak
		user, err = s.userRepo.GetByID(ctx, user.ID)
		if err != nil {
			return nil, nil, err
		}
	}

	return user, bonus, nil
}

// ClaimDailyBonus claims the daily login bonus for a user. Returns nil when
// the bonus was already claimed today. A login on the day after the previous
// one extends the streak; any gap resets it to 1. The streak/date/balance
// update and the ledger row are written in one transaction, and the whole
// claim is serialized per user.
func (s *AccountService) ClaimDailyBonus(ctx context.Context, userID int64) (*BonusResult, error) {
	var result *BonusResult

	err := s.userLock.WithLock(userID, func() error {
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		now := time.Now()
		streak, claim := economy.NextStreak(user.LastLoginDate, user.LoginStreak, now)
		if !claim {
			return nil
		}

		amount := s.rules.BonusForStreak(streak)
		today := now.UTC().Format(economy.DateLayout)
		description := fmt.Sprintf("Daily Bonus (streak %d)", streak)

		if _, err := s.userRepo.ApplyDailyBonus(ctx, userID, streak, today, amount, description); err != nil {
			return err
		}

		result = &BonusResult{
			Streak:  streak,
			Amount:  amount,
			Message: fmt.Sprintf("Daily Bonus! +%d coins (streak: %d days)", amount, streak),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result != nil {
		log.Info().
			Int64("user_id", userID).
			Int("streak", result.Streak).
			Int64("amount", result.Amount).
			Msg("Daily bonus claimed")
	}
	return result, nil
}

// GetUser retrieves a user by ID.
func (s *AccountService) GetUser(ctx context.Context, userID int64) (*model.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// GetProfile retrieves a user together with their lifetime statistics.
func (s *AccountService) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	totalGames, err := s.resultRepo.TotalGames(ctx, userID)
	if err != nil {
		return nil, err
	}
	totalPoints, err := s.resultRepo.TotalPoints(ctx, userID)
	if err != nil {
		return nil, err
	}
	totalCoins, err := s.resultRepo.TotalCoinsEarned(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Profile{
		User:             user,
		TotalGames:       totalGames,
		TotalPoints:      totalPoints,
		TotalCoinsEarned: totalCoins,
	}, nil
}

// ChangePassword validates and replaces a user's password.
func (s *AccountService) ChangePassword(ctx context.Context, userID int64, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.userRepo.SetPassword(ctx, userID, hash)
}

// UpdateTheme sets a user's theme preference to light or dark.
func (s *AccountService) UpdateTheme(ctx context.Context, userID int64, theme string) error {
	if theme != model.ThemeLight && theme != model.ThemeDark {
		return ErrInvalidTheme
	}
	return s.userRepo.SetTheme(ctx, userID, theme)
}

// EquipAvatar equips the default avatar or one the user has purchased.
// Purchased avatars are referenced by their shop item ID.
func (s *AccountService) EquipAvatar(ctx context.Context, userID int64, avatar string) error {
	if avatar != model.DefaultAvatar {
		owned, err := s.ownsAvatar(ctx, userID, avatar)
		if err != nil {
			return err
		}
		if !owned {
			return ErrAvatarNotOwned
		}
	}
	return s.userRepo.SetAvatar(ctx, userID, avatar)
}

func (s *AccountService) ownsAvatar(ctx context.Context, userID int64, avatar string) (bool, error) {
	purchases, err := s.shopRepo.PurchasesByUser(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, item := range purchases {
		if item.ItemType == model.ItemTypeAvatar && fmt.Sprintf("%d", item.ID) == avatar {
			return true, nil
		}
	}
	return false, nil
}

// AvailableAvatars returns the avatars a user may equip: the default plus
// every purchased avatar item's ID.
func (s *AccountService) AvailableAvatars(ctx context.Context, userID int64) ([]string, error) {
	avatars := []string{model.DefaultAvatar}

	purchases, err := s.shopRepo.PurchasesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, item := range purchases {
		if item.ItemType == model.ItemTypeAvatar {
			avatars = append(avatars, fmt.Sprintf("%d", item.ID))
		}
	}
	return avatars, nil
}

// DeleteAccount removes the user and all dependent rows.
func (s *AccountService) DeleteAccount(ctx context.Context, userID int64) error {
	return s.userLock.WithLock(userID, func() error {
		if err := s.userRepo.Delete(ctx, userID); err != nil {
			return err
		}
		log.Info().Int64("user_id", userID).Msg("Account deleted")
		return nil
	})
}
