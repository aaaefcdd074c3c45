package postgres_test

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-catalog/pkg/catalog"
	"github.com/tendant/simple-catalog/pkg/catalog/repo/postgres"
)

// testDB is a pool pinned to a throwaway schema.
type testDB struct {
	Pool   *pgxpool.Pool
	Schema string
}

// newTestDB connects to TEST_DATABASE_URL and creates a fresh schema. The
// test is skipped when the variable is unset.
func newTestDB(t *testing.T) *testDB {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	schema := "catalog_test_" + strings.ReplaceAll(uuid.NewString()[:8], "-", "")

	cfg, err := postgres.ParsePoolConfig(connString, schema)
	require.NoError(t, err)
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, pool.Ping(ctx), "Failed to ping test database")

	require.NoError(t, postgres.EnsureSchema(ctx, pool, schema))

	db := &testDB{Pool: pool, Schema: schema}
	t.Cleanup(func() {
		_, err := pool.Exec(context.Background(),
			fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", pgx.Identifier{schema}.Sanitize()))
		if err != nil {
			t.Logf("drop schema %s: %v", schema, err)
		}
		pool.Close()
	})
	return db
}

func (db *testDB) repository() catalog.Repository {
	return postgres.NewWithPool(db.Pool)
}
