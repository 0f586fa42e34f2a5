package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"brainrush/internal/model"
)

// Shop errors. The message texts surface directly in purchase responses.
var (
	ErrItemNotFound      = errors.New("Item not found")
	ErrInsufficientCoins = errors.New("Not enough coins")
	ErrAlreadyPurchased  = errors.New("Already purchased")
)

// itemColumns is the column list every shop item query selects.
const itemColumns = `id, item_type, name, description, price, is_active, created_at`

// ShopRepository handles shop catalog and purchase persistence.
type ShopRepository struct {
	pool *pgxpool.Pool
}

// NewShopRepository creates a new ShopRepository instance.
func NewShopRepository(pool *pgxpool.Pool) *ShopRepository {
	return &ShopRepository{pool: pool}
}

func scanItem(row pgx.Row) (*model.ShopItem, error) {
	var item model.ShopItem
	err := row.Scan(
		&item.ID,
		&item.ItemType,
		&item.Name,
		&item.Description,
		&item.Price,
		&item.IsActive,
		&item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ActiveItems returns all active shop items ordered by type and price.
func (r *ShopRepository) ActiveItems(ctx context.Context) ([]*model.ShopItem, error) {
	const query = `SELECT ` + itemColumns + ` FROM shop_items WHERE is_active ORDER BY item_type, price`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get shop items: %w", err)
	}
	defer rows.Close()

	var items []*model.ShopItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shop item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shop items: %w", err)
	}
	return items, nil
}

// GetItem retrieves one shop item by ID.
// Returns ErrItemNotFound if the item does not exist.
func (r *ShopRepository) GetItem(ctx context.Context, itemID int64) (*model.ShopItem, error) {
	const query = `SELECT ` + itemColumns + ` FROM shop_items WHERE id = $1`

	item, err := scanItem(r.pool.QueryRow(ctx, query, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get shop item: %w", err)
	}
	return item, nil
}

// HasPurchased reports whether the user already owns the item.
func (r *ShopRepository) HasPurchased(ctx context.Context, userID, itemID int64) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM user_purchases WHERE user_id = $1 AND item_id = $2)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, userID, itemID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check purchase: %w", err)
	}
	return exists, nil
}

// Purchase buys an item for a user. The existence, balance and duplicate
// checks plus the debit, purchase row and ledger row all run inside one
// transaction, so a concurrent request cannot double-spend between the
// check and the write. Returns the item and the post-debit balance.
func (r *ShopRepository) Purchase(ctx context.Context, userID, itemID int64) (*model.ShopItem, int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	item, err := scanItem(tx.QueryRow(ctx, `SELECT `+itemColumns+` FROM shop_items WHERE id = $1`, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, 0, ErrItemNotFound
		}
		return nil, 0, fmt.Errorf("failed to get shop item: %w", err)
	}

	var coins int64
	if err := tx.QueryRow(ctx, `SELECT coins FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&coins); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, 0, ErrUserNotFound
		}
		return nil, 0, fmt.Errorf("failed to get balance: %w", err)
	}
	if coins < item.Price {
		return nil, 0, ErrInsufficientCoins
	}

	var owned bool
	err = tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM user_purchases WHERE user_id = $1 AND item_id = $2)`, userID, itemID).Scan(&owned)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to check purchase: %w", err)
	}
	if owned {
		return nil, 0, ErrAlreadyPurchased
	}

	var balance int64
	if err := tx.QueryRow(ctx, `UPDATE users SET coins = coins - $2 WHERE id = $1 RETURNING coins`, userID, item.Price).Scan(&balance); err != nil {
		return nil, 0, fmt.Errorf("failed to debit coins: %w", err)
	}

	if _, err := tx.Exec(ctx, `INSERT INTO user_purchases (user_id, item_id, purchased_at) VALUES ($1, $2, NOW())`, userID, itemID); err != nil {
		return nil, 0, fmt.Errorf("failed to record purchase: %w", err)
	}

	const ledgerQuery = `
		INSERT INTO transactions (user_id, amount, transaction_type, description, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	description := fmt.Sprintf("Purchased %s", item.Name)
	if _, err := tx.Exec(ctx, ledgerQuery, userID, -item.Price, model.TxTypePurchase, description); err != nil {
		return nil, 0, fmt.Errorf("failed to record purchase transaction: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, 0, fmt.Errorf("failed to commit purchase: %w", err)
	}
	return item, balance, nil
}

// PurchasesByUser returns the items a user has bought, newest first.
func (r *ShopRepository) PurchasesByUser(ctx context.Context, userID int64) ([]*model.ShopItem, error) {
	const query = `
		SELECT si.id, si.item_type, si.name, si.description, si.price, si.is_active, si.created_at
		FROM shop_items si
		JOIN user_purchases up ON si.id = up.item_id
		WHERE up.user_id = $1
		ORDER BY up.purchased_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get purchases: %w", err)
	}
	defer rows.Close()

	var items []*model.ShopItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan purchase: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating purchases: %w", err)
	}
	return items, nil
}

// SeedItem describes one catalog row inserted at first startup.
type SeedItem struct {
	ItemType    string
	Name        string
	Description string
	Price       int64
}

// SeedIfEmpty inserts the default catalog when the shop_items table holds no
// rows. Subsequent startups leave the catalog untouched.
func (r *ShopRepository) SeedIfEmpty(ctx context.Context, items []SeedItem) (bool, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM shop_items`).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to count shop items: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	const query = `
		INSERT INTO shop_items (item_type, name, description, price, is_active, created_at)
		VALUES ($1, $2, $3, $4, TRUE, NOW())
	`
	for _, item := range items {
		if _, err := r.pool.Exec(ctx, query, item.ItemType, item.Name, item.Description, item.Price); err != nil {
			return false, fmt.Errorf("failed to seed shop item %q: %w", item.Name, err)
		}
	}
	return true, nil
}

// DefaultCatalog is the catalog seeded at first startup.
func DefaultCatalog() []SeedItem {
	return []SeedItem{
		{ItemType: model.ItemTypeGame, Name: "Color Rush", Description: "Test your color recognition speed", Price: 50},
		{ItemType: model.ItemTypeGame, Name: "Tapping Memory", Description: "Remember and repeat the sequence", Price: 75},
		{ItemType: model.ItemTypeTheme, Name: "Dark Theme Pro", Description: "Premium dark theme with custom colors", Price: 100},
		{ItemType: model.ItemTypeAvatar, Name: "Golden Brain", Description: "Exclusive golden brain avatar", Price: 200},
	}
}
