// Package model defines the data models for the BrainRush platform.
package model

import "time"

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// UI themes a user can select.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// DefaultAvatar is the avatar every account starts with.
const DefaultAvatar = "default"

// User represents a registered player account.
type User struct {
	ID            int64     `db:"id"`
	Username      string    `db:"username"`
	PasswordHash  string    `db:"password_hash"`
	Role          string    `db:"role"`
	Coins         int64     `db:"coins"`
	Theme         string    `db:"theme"`
	Avatar        string    `db:"avatar"`
	LoginStreak   int       `db:"login_streak"`
	LastLoginDate string    `db:"last_login_date"`
	CreatedAt     time.Time `db:"created_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// GameResult is one finished play session. Rows are immutable once written.
type GameResult struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	GameName    string    `db:"game_name"`
	Level       string    `db:"level"`
	Score       int64     `db:"score"`
	TimeSpent   float64   `db:"time_spent"`
	Rounds      int       `db:"rounds"`
	CoinsEarned int64     `db:"coins_earned"`
	CreatedAt   time.Time `db:"created_at"`
}

// Shop item types.
const (
	ItemTypeGame   = "game"
	ItemTypeTheme  = "theme"
	ItemTypeAvatar = "avatar"
)

// ShopItem is a cosmetic or game unlock sold for coins.
type ShopItem struct {
	ID          int64     `db:"id"`
	ItemType    string    `db:"item_type"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Price       int64     `db:"price"`
	IsActive    bool      `db:"is_active"`
	CreatedAt   time.Time `db:"created_at"`
}

// Purchase links a user to a shop item they bought.
// At most one row exists per (user, item) pair.
type Purchase struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	ItemID      int64     `db:"item_id"`
	PurchasedAt time.Time `db:"purchased_at"`
}

// Transaction is one signed coin-balance change in the append-only ledger.
type Transaction struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	Amount      int64     `db:"amount"`
	Type        string    `db:"transaction_type"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

// Transaction types for categorizing balance changes.
const (
	TxTypePurchase    = "purchase"     // Shop item purchase (debit)
	TxTypeGameReward  = "game_reward"  // Coins earned from a game result
	TxTypeCoinsUpdate = "coins_update" // Admin adjustment, no balance floor
	TxTypeDailyBonus  = "daily_bonus"  // Daily login streak bonus
)

// Feedback is a message left by a user.
type Feedback struct {
	ID        int64      `db:"id"`
	UserID    *int64     `db:"user_id"`
	Name      string     `db:"name"`
	Email     string     `db:"email"`
	Message   string     `db:"message"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt *time.Time `db:"updated_at"`
}

// LeaderboardEntry is one row of the global or per-game leaderboard.
type LeaderboardEntry struct {
	UserID   int64  `db:"user_id"`
	Username string `db:"username"`
	Avatar   string `db:"avatar"`
	Value    int64  `db:"value"`
}

// GameStats aggregates a user's results for one game, grouped by level and
// round count, mirroring the profile statistics view.
type GameStats struct {
	Level        string  `db:"level"`
	Rounds       int     `db:"rounds"`
	RoundsPlayed int64   `db:"rounds_played"`
	TotalScore   int64   `db:"total_score"`
	AvgTime      float64 `db:"avg_time"`
	TotalCoins   int64   `db:"total_coins"`
}
