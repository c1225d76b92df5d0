//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/shopora/shop-api/internal/domains/checkout/ports"
	"github.com/shopora/shop-api/internal/platform/migrations"
)

func setupIdempotencyPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("shop_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func TestIdempotencyStore_GetAbsent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupIdempotencyPostgresContainer(t)
	defer cleanup()

	store := NewIdempotencyStore(db)
	record, err := store.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestIdempotencyStore_SaveAndReplay(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupIdempotencyPostgresContainer(t)
	defer cleanup()

	store := NewIdempotencyStore(db)
	ctx := context.Background()

	saved, err := store.Save(ctx, ports.IdempotencyRecord{Key: "retry-1", RequestHash: "abc", OrderID: 7})
	require.NoError(t, err)
	assert.Equal(t, int64(7), saved.OrderID)

	// The same key with the same fingerprint replays the stored record.
	again, err := store.Save(ctx, ports.IdempotencyRecord{Key: "retry-1", RequestHash: "abc", OrderID: 7})
	require.NoError(t, err)
	assert.Equal(t, saved.OrderID, again.OrderID)

	fetched, err := store.Get(ctx, "retry-1")
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, "abc", fetched.RequestHash)
}

func TestIdempotencyStore_Conflict(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupIdempotencyPostgresContainer(t)
	defer cleanup()

	store := NewIdempotencyStore(db)
	ctx := context.Background()

	_, err := store.Save(ctx, ports.IdempotencyRecord{Key: "retry-1", RequestHash: "abc", OrderID: 7})
	require.NoError(t, err)

	stored, err := store.Save(ctx, ports.IdempotencyRecord{Key: "retry-1", RequestHash: "different", OrderID: 8})
	require.ErrorIs(t, err, ports.ErrIdempotencyConflict)
	require.NotNil(t, stored)
	assert.Equal(t, int64(7), stored.OrderID)
}
