package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/forkthecity/microsite-store/internal/adapters/postgres"
	pgkvstore "github.com/forkthecity/microsite-store/internal/adapters/postgres/kvstore"
)

// DatabaseURLEnv names the variable pointing integration tests at a disposable database.
const DatabaseURLEnv = "CIVICSTORE_TEST_DATABASE_URL"

// OpenMigratedPool connects to the test database and ensures the schema exists.
// The test is skipped when DatabaseURLEnv is unset.
func OpenMigratedPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv(DatabaseURLEnv)
	if dsn == "" {
		t.Skipf("%s not set; skipping postgres integration test", DatabaseURLEnv)
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolOptions{MaxConns: 4})
	if err != nil {
		t.Fatalf("open pool: %v", err)
	}
	t.Cleanup(pool.Close)
	if err := pgkvstore.EnsureSchema(ctx, pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return pool
}
