package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// migrations holds the schema statements applied at startup, in order.
// Foreign keys deliberately carry no ON DELETE CASCADE: account deletion
// cascades in the application (UserRepository.Delete).
var migrations = []struct {
	name string
	stmt string
}{
	{
		name: "users table",
		stmt: `
			CREATE TABLE IF NOT EXISTS users (
				id BIGSERIAL PRIMARY KEY,
				username VARCHAR(32) NOT NULL UNIQUE,
				password_hash TEXT NOT NULL,
				role VARCHAR(16) NOT NULL DEFAULT 'user',
				coins BIGINT NOT NULL DEFAULT 0,
				theme VARCHAR(16) NOT NULL DEFAULT 'light',
				avatar VARCHAR(64) NOT NULL DEFAULT 'default',
				login_streak INT NOT NULL DEFAULT 0,
				last_login_date VARCHAR(10) NOT NULL DEFAULT '',
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);
			CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_lower ON users (LOWER(username));
		`,
	},
	{
		name: "game_results table",
		stmt: `
			CREATE TABLE IF NOT EXISTS game_results (
				id BIGSERIAL PRIMARY KEY,
				user_id BIGINT NOT NULL REFERENCES users(id),
				game_name VARCHAR(50) NOT NULL,
				level VARCHAR(50) NOT NULL,
				score BIGINT NOT NULL,
				time_spent DOUBLE PRECISION NOT NULL,
				rounds INT NOT NULL DEFAULT 1,
				coins_earned BIGINT NOT NULL DEFAULT 0,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);
			CREATE INDEX IF NOT EXISTS idx_game_results_user_id ON game_results (user_id);
			CREATE INDEX IF NOT EXISTS idx_game_results_game_name ON game_results (game_name);
		`,
	},
	{
		name: "feedback table",
		stmt: `
			CREATE TABLE IF NOT EXISTS feedback (
				id BIGSERIAL PRIMARY KEY,
				user_id BIGINT REFERENCES users(id),
				name TEXT NOT NULL DEFAULT '',
				email TEXT NOT NULL DEFAULT '',
				message TEXT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ
			);
		`,
	},
	{
		name: "shop_items table",
		stmt: `
			CREATE TABLE IF NOT EXISTS shop_items (
				id BIGSERIAL PRIMARY KEY,
				item_type VARCHAR(16) NOT NULL,
				name TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				price BIGINT NOT NULL,
				is_active BOOLEAN NOT NULL DEFAULT TRUE,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);
		`,
	},
	{
		name: "user_purchases table",
		stmt: `
			CREATE TABLE IF NOT EXISTS user_purchases (
				id BIGSERIAL PRIMARY KEY,
				user_id BIGINT NOT NULL REFERENCES users(id),
				item_id BIGINT NOT NULL REFERENCES shop_items(id),
				purchased_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);
			CREATE INDEX IF NOT EXISTS idx_user_purchases_user_id ON user_purchases (user_id);
		`,
	},
	{
		name: "transactions table",
		stmt: `
			CREATE TABLE IF NOT EXISTS transactions (
				id BIGSERIAL PRIMARY KEY,
				user_id BIGINT NOT NULL REFERENCES users(id),
				amount BIGINT NOT NULL,
				transaction_type VARCHAR(32) NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);
			CREATE INDEX IF NOT EXISTS idx_transactions_user_id ON transactions (user_id);
		`,
	},
}

// Migrate applies the database schema.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, m := range migrations {
		if _, err := pool.Exec(ctx, m.stmt); err != nil {
			return fmt.Errorf("migration %q failed: %w", m.name, err)
		}
		log.Debug().Str("migration", m.name).Msg("Migration applied")
	}
	return nil
}
