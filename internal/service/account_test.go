package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"brainrush/internal/economy"
	"brainrush/internal/pkg/lock"
)

// newValidationAccountService builds an AccountService for exercising the
// validation paths that return before any repository call.
func newValidationAccountService() *AccountService {
	return NewAccountService(nil, nil, nil, economy.DefaultRules(), 100, lock.NewUserLock())
}

func TestRegisterValidation(t *testing.T) {
	svc := newValidationAccountService()
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"username too short", "ab", "password123", ErrInvalidUsername},
		{"username too long", strings.Repeat("a", 17), "password123", ErrInvalidUsername},
		{"username with symbols", "user_name", "password123", ErrInvalidUsername},
		{"username with spaces", "user name", "password123", ErrInvalidUsername},
		{"password too short", "alice", "short", ErrInvalidPassword},
		{"password at bcrypt limit rejected above", "alice", strings.Repeat("x", 73), ErrPasswordTooLong},
		{"password far over bcrypt limit", "alice", strings.Repeat("x", 200), ErrPasswordTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.username, tt.password)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestChangePasswordValidation(t *testing.T) {
	svc := newValidationAccountService()
	ctx := context.Background()

	assert.ErrorIs(t, svc.ChangePassword(ctx, 1, "short"), ErrInvalidPassword)
	assert.ErrorIs(t, svc.ChangePassword(ctx, 1, strings.Repeat("x", 73)), ErrPasswordTooLong)
}

func TestValidatePasswordBounds(t *testing.T) {
	assert.ErrorIs(t, validatePassword(strings.Repeat("x", 7)), ErrInvalidPassword)
	assert.NoError(t, validatePassword(strings.Repeat("x", 8)))
	assert.NoError(t, validatePassword(strings.Repeat("x", 72)))
	assert.ErrorIs(t, validatePassword(strings.Repeat("x", 73)), ErrPasswordTooLong)
}
