//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

func setupTestPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("portfolio_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		tcpostgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, NewPostgresStore(pool).EnsureSchema(ctx))
	return pool
}

func TestPostgresStore_Contract(t *testing.T) {
	pool := setupTestPostgres(t)

	testStoreContract(t, func(t *testing.T, now func() time.Time) Store {
		_, err := pool.Exec(context.Background(), `TRUNCATE projects;`)
		require.NoError(t, err)
		s := NewPostgresStore(pool)
		s.now = now
		return s
	})
}

func TestPostgresStore_EnsureSchemaIsIdempotent(t *testing.T) {
	pool := setupTestPostgres(t)
	s := NewPostgresStore(pool)

	assert.NoError(t, s.EnsureSchema(context.Background()))
}

func TestPostgresStore_PingFailsAfterClose(t *testing.T) {
	pool := setupTestPostgres(t)
	s := NewPostgresStore(pool)
	require.NoError(t, s.Ping(context.Background()))

	pool.Close()
	assert.Error(t, s.Ping(context.Background()))
}
