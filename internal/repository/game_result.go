package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"brainrush/internal/model"
)

// GameResultRepository handles game result persistence and the statistics
// aggregates derived from it.
type GameResultRepository struct {
	pool *pgxpool.Pool
}

// NewGameResultRepository creates a new GameResultRepository instance.
func NewGameResultRepository(pool *pgxpool.Pool) *GameResultRepository {
	return &GameResultRepository{pool: pool}
}

// Save records a finished play session, credits the earned coins and appends
// the game_reward ledger row, all in one transaction. Returns the stored
// result including the credited amount.
func (r *GameResultRepository) Save(ctx context.Context, userID int64, gameName, level string, score int64, timeSpent float64, rounds int, coinsEarned int64) (*model.GameResult, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	const insertQuery = `
		INSERT INTO game_results (user_id, game_name, level, score, time_spent, rounds, coins_earned, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id, user_id, game_name, level, score, time_spent, rounds, coins_earned, created_at
	`

	var result model.GameResult
	err = tx.QueryRow(ctx, insertQuery, userID, gameName, level, score, timeSpent, rounds, coinsEarned).Scan(
		&result.ID,
		&result.UserID,
		&result.GameName,
		&result.Level,
		&result.Score,
		&result.TimeSpent,
		&result.Rounds,
		&result.CoinsEarned,
		&result.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save game result: %w", err)
	}

	if _, err := tx.Exec(ctx, `UPDATE users SET coins = coins + $2 WHERE id = $1`, userID, coinsEarned); err != nil {
		return nil, fmt.Errorf("failed to credit coins: %w", err)
	}

	const ledgerQuery = `
		INSERT INTO transactions (user_id, amount, transaction_type, description, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	description := fmt.Sprintf("Earned in %s", gameName)
	if _, err := tx.Exec(ctx, ledgerQuery, userID, coinsEarned, model.TxTypeGameReward, description); err != nil {
		return nil, fmt.Errorf("failed to record game reward: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit game result: %w", err)
	}
	return &result, nil
}

// DistinctGames returns the distinct game names a user has played.
func (r *GameResultRepository) DistinctGames(ctx context.Context, userID int64) ([]string, error) {
	const query = `SELECT DISTINCT game_name FROM game_results WHERE user_id = $1 ORDER BY game_name`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get distinct games: %w", err)
	}
	defer rows.Close()

	var games []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan game name: %w", err)
		}
		games = append(games, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating games: %w", err)
	}
	return games, nil
}

// StatsForGame returns a user's aggregated results for one game, grouped by
// level and round count.
func (r *GameResultRepository) StatsForGame(ctx context.Context, userID int64, gameName string) ([]*model.GameStats, error) {
	const query = `
		SELECT level, rounds,
		       COUNT(id) AS rounds_played,
		       COALESCE(SUM(score), 0) AS total_score,
		       COALESCE(AVG(time_spent), 0) AS avg_time,
		       COALESCE(SUM(coins_earned), 0) AS total_coins
		FROM game_results
		WHERE user_id = $1 AND LOWER(game_name) = LOWER($2)
		GROUP BY level, rounds
		ORDER BY level, rounds
	`

	rows, err := r.pool.Query(ctx, query, userID, gameName)
	if err != nil {
		return nil, fmt.Errorf("failed to get game stats: %w", err)
	}
	defer rows.Close()

	var stats []*model.GameStats
	for rows.Next() {
		var s model.GameStats
		err := rows.Scan(&s.Level, &s.Rounds, &s.RoundsPlayed, &s.TotalScore, &s.AvgTime, &s.TotalCoins)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game stats: %w", err)
		}
		stats = append(stats, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating game stats: %w", err)
	}
	return stats, nil
}

// TotalGames returns the number of play sessions a user has recorded.
func (r *GameResultRepository) TotalGames(ctx context.Context, userID int64) (int64, error) {
	const query = `SELECT COUNT(*) FROM game_results WHERE user_id = $1`

	var total int64
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count games: %w", err)
	}
	return total, nil
}

// TotalPoints returns the sum of all scores a user has recorded.
func (r *GameResultRepository) TotalPoints(ctx context.Context, userID int64) (int64, error) {
	const query = `SELECT COALESCE(SUM(score), 0) FROM game_results WHERE user_id = $1`

	var total int64
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum points: %w", err)
	}
	return total, nil
}

// TotalCoinsEarned returns the sum of coins a user earned from games.
func (r *GameResultRepository) TotalCoinsEarned(ctx context.Context, userID int64) (int64, error) {
	const query = `SELECT COALESCE(SUM(coins_earned), 0) FROM game_results WHERE user_id = $1`

	var total int64
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum coins earned: %w", err)
	}
	return total, nil
}

// GlobalTop returns the top users by coin balance.
func (r *GameResultRepository) GlobalTop(ctx context.Context, limit int) ([]*model.LeaderboardEntry, error) {
	const query = `
		SELECT id, username, avatar, coins
		FROM users
		ORDER BY coins DESC, id
		LIMIT $1
	`
	return r.queryLeaderboard(ctx, query, limit)
}

// GameTop returns the top users for one game by total score.
func (r *GameResultRepository) GameTop(ctx context.Context, gameName string, limit int) ([]*model.LeaderboardEntry, error) {
	const query = `
		SELECT u.id, u.username, u.avatar, COALESCE(SUM(gr.score), 0) AS total_score
		FROM game_results gr
		JOIN users u ON gr.user_id = u.id
		WHERE LOWER(gr.game_name) = LOWER($1)
		GROUP BY u.id, u.username, u.avatar
		ORDER BY total_score DESC, u.id
		LIMIT $2
	`
	return r.queryLeaderboard(ctx, query, gameName, limit)
}

func (r *GameResultRepository) queryLeaderboard(ctx context.Context, query string, args ...any) ([]*model.LeaderboardEntry, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []*model.LeaderboardEntry
	for rows.Next() {
		var e model.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Username, &e.Avatar, &e.Value); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leaderboard: %w", err)
	}
	return entries, nil
}
