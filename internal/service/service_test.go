// Integration tests for the service layer over a real database. Tests use
// testcontainers-go to spin up PostgreSQL and are skipped when Docker is
// unavailable.
package service

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"brainrush/internal/economy"
	"brainrush/internal/model"
	"brainrush/internal/pkg/lock"
	"brainrush/internal/repository"
)

// checkDockerAvailable checks if Docker is available and running
func checkDockerAvailable() bool {
	cmd := exec.Command("docker", "info")
	err := cmd.Run()
	return err == nil
}

// setupTestDB creates a PostgreSQL container and returns a connection pool.
// Skips the test if Docker is not available.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	if !checkDockerAvailable() {
		t.Skip("Docker is not available, skipping integration test")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	require.NoError(t, repository.Migrate(ctx, pool))

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

func TestGameplayServiceTransactionsDefaultLimit(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	userRepo := repository.NewUserRepository(pool)
	resultRepo := repository.NewGameResultRepository(pool)
	txRepo := repository.NewTransactionRepository(pool)
	shopRepo := repository.NewShopRepository(pool)
	userLock := lock.NewUserLock()

	shopSvc := NewShopService(shopRepo, userRepo, userLock)
	svc := NewGameplayService(resultRepo, txRepo, shopSvc, economy.DefaultRules(), userLock)

	user, err := userRepo.Create(ctx, "ledgerreader", "hash", 100)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := txRepo.Create(ctx, user.ID, 10, model.TxTypeGameReward, "Earned in arithmetic")
		require.NoError(t, err)
	}

	// Omitted limit defaults to a sane page instead of LIMIT 0
	txs, err := svc.Transactions(ctx, user.ID, 0)
	require.NoError(t, err)
	assert.Len(t, txs, 3)

	// Negative limits are treated the same, not passed to the database
	txs, err = svc.Transactions(ctx, user.ID, -5)
	require.NoError(t, err)
	assert.Len(t, txs, 3)

	// An explicit limit still applies
	txs, err = svc.Transactions(ctx, user.ID, 2)
	require.NoError(t, err)
	assert.Len(t, txs, 2)
}

func TestShopServicePurchaseReturnsPostDebitBalance(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	userRepo := repository.NewUserRepository(pool)
	shopRepo := repository.NewShopRepository(pool)
	svc := NewShopService(shopRepo, userRepo, lock.NewUserLock())

	_, err := shopRepo.SeedIfEmpty(ctx, repository.DefaultCatalog())
	require.NoError(t, err)

	user, err := userRepo.Create(ctx, "buyer", "hash", 100)
	require.NoError(t, err)

	// Color Rush costs 50; the reported balance is the one the purchase
	// transaction itself committed
	item, remaining, err := svc.Purchase(ctx, user.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "Color Rush", item.Name)
	assert.Equal(t, int64(50), remaining)

	stored, err := userRepo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, remaining, stored.Coins)
}
