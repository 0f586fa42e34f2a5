// Package repository provides data access layer implementations.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"brainrush/internal/model"
)

// Common errors for repository operations.
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")
)

// userColumns is the column list every user query selects.
const userColumns = `id, username, password_hash, role, coins, theme, avatar, login_streak, last_login_date, created_at`

// UserRepository handles user account persistence.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository instance.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Role,
		&user.Coins,
		&user.Theme,
		&user.Avatar,
		&user.LoginStreak,
		&user.LastLoginDate,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create creates a new user with the given initial coin balance.
// Returns ErrUsernameTaken when the username is already in use.
func (r *UserRepository) Create(ctx context.Context, username, passwordHash string, initialCoins int64) (*model.User, error) {
	const query = `
		INSERT INTO users (username, password_hash, role, coins, theme, avatar, login_streak, last_login_date, created_at)
		VALUES ($1, $2, 'user', $3, 'light', 'default', 0, '', NOW())
		RETURNING ` + userColumns

	user, err := scanUser(r.pool.QueryRow(ctx, query, username, passwordHash, initialCoins))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// GetByID retrieves a user by ID.
// Returns ErrUserNotFound if the user does not exist.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetByUsername retrieves a user by username, case-insensitively.
// Returns ErrUserNotFound if the user does not exist.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE LOWER(username) = LOWER($1)`

	user, err := scanUser(r.pool.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return user, nil
}

// UpdateCoins adds the signed amount to a user's balance and returns the
// updated user. No balance floor is enforced here; callers that must not
// overdraw check first.
func (r *UserRepository) UpdateCoins(ctx context.Context, id int64, amount int64) (*model.User, error) {
	const query = `
		UPDATE users SET coins = coins + $2
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := scanUser(r.pool.QueryRow(ctx, query, id, amount))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update coins: %w", err)
	}
	return user, nil
}

// SetRole updates a user's role.
func (r *UserRepository) SetRole(ctx context.Context, id int64, role string) error {
	const query = `UPDATE users SET role = $2 WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, role)
	if err != nil {
		return fmt.Errorf("failed to set role: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SetTheme updates a user's theme preference.
func (r *UserRepository) SetTheme(ctx context.Context, id int64, theme string) error {
	const query = `UPDATE users SET theme = $2 WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, theme)
	if err != nil {
		return fmt.Errorf("failed to set theme: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SetAvatar updates a user's equipped avatar.
func (r *UserRepository) SetAvatar(ctx context.Context, id int64, avatar string) error {
	const query = `UPDATE users SET avatar = $2 WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, avatar)
	if err != nil {
		return fmt.Errorf("failed to set avatar: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SetPassword replaces a user's password hash.
func (r *UserRepository) SetPassword(ctx context.Context, id int64, passwordHash string) error {
	const query = `UPDATE users SET password_hash = $2 WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to set password: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// List retrieves all users ordered by ID. Used by the admin panel.
func (r *UserRepository) List(ctx context.Context) ([]*model.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}

// ApplyDailyBonus writes the new streak, login date and bonus credit
// together with the daily_bonus ledger row in one transaction.
func (r *UserRepository) ApplyDailyBonus(ctx context.Context, id int64, streak int, loginDate string, bonus int64, description string) (*model.User, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	const updateQuery = `
		UPDATE users
		SET login_streak = $2, last_login_date = $3, coins = coins + $4
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := scanUser(tx.QueryRow(ctx, updateQuery, id, streak, loginDate, bonus))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to apply daily bonus: %w", err)
	}

	const ledgerQuery = `
		INSERT INTO transactions (user_id, amount, transaction_type, description, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	if _, err := tx.Exec(ctx, ledgerQuery, id, bonus, model.TxTypeDailyBonus, description); err != nil {
		return nil, fmt.Errorf("failed to record daily bonus: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit daily bonus: %w", err)
	}
	return user, nil
}

// Delete removes a user account along with all dependent rows. The cascade
// is performed by the application inside one transaction, not by database
// constraints.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, query := range []string{
		`DELETE FROM game_results WHERE user_id = $1`,
		`DELETE FROM user_purchases WHERE user_id = $1`,
		`DELETE FROM transactions WHERE user_id = $1`,
		`DELETE FROM feedback WHERE user_id = $1`,
	} {
		if _, err := tx.Exec(ctx, query, id); err != nil {
			return fmt.Errorf("failed to cascade delete: %w", err)
		}
	}

	result, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}
