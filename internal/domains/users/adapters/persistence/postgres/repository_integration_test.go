//go:build integration

package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/shopora/shop-api/internal/domains/users/domain"
	"github.com/shopora/shop-api/internal/domains/users/ports"
	"github.com/shopora/shop-api/internal/platform/migrations"
)

func setupUsersPostgresContainer(t *testing.T) (*gorm.DB, func()) {
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

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
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

func TestRepository_SaveAndGetByEmail(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupUsersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	user, err := domain.NewUser(0, "Ada", "Ada@Example.com", "hunter2-long")
	require.NoError(t, err)
	user.Phone = "+44-555-0100"

	saved, err := repo.Save(ctx, user)
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)
	assert.Equal(t, "ada@example.com", saved.Email)

	fetched, err := repo.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, fetched.ID)
	assert.Equal(t, "+44-555-0100", fetched.Phone)
}

func TestRepository_UpsertOnEmail(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupUsersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	user, err := domain.NewUser(0, "Ada", "ada@example.com", "hunter2-long")
	require.NoError(t, err)
	saved, err := repo.Save(ctx, user)
	require.NoError(t, err)

	require.NoError(t, saved.UpdateProfile("Ada Lovelace", "+44-555-0101"))
	updated, err := repo.Save(ctx, saved)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, updated.ID)
	assert.Equal(t, "Ada Lovelace", updated.Name)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRepository_AttachAndDetachOrder(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupUsersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	user, err := domain.NewUser(0, "Ada", "ada@example.com", "hunter2-long")
	require.NoError(t, err)
	saved, err := repo.Save(ctx, user)
	require.NoError(t, err)

	require.NoError(t, repo.AttachOrder(ctx, saved.ID, 101))
	require.NoError(t, repo.AttachOrder(ctx, saved.ID, 102))
	// Attaching the same order twice must not duplicate the reference.
	require.NoError(t, repo.AttachOrder(ctx, saved.ID, 101))

	fetched, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{101, 102}, fetched.Orders)

	require.NoError(t, repo.DetachOrder(ctx, saved.ID, 101))
	fetched, err = repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{102}, fetched.Orders)

	err = repo.AttachOrder(ctx, 9999, 101)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_ListAndDelete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupUsersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	ids := make([]int64, 0, 3)
	for i := 1; i <= 3; i++ {
		user, err := domain.NewUser(0, fmt.Sprintf("User %d", i), fmt.Sprintf("user%d@example.com", i), "hunter2-long")
		require.NoError(t, err)
		saved, err := repo.Save(ctx, user)
		require.NoError(t, err)
		ids = append(ids, saved.ID)
	}

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 3)

	err = repo.Delete(ctx, ids[1])
	require.NoError(t, err)
	_, err = repo.GetByID(ctx, ids[1])
	assert.ErrorIs(t, err, ports.ErrNotFound)

	err = repo.Delete(ctx, ids[1])
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestSessionStore_PurgeExpired(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupUsersPostgresContainer(t)
	defer cleanup()

	store := NewSessionStore(db, time.Millisecond)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "ada@example.com", "token-1"))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, store.PurgeExpired(ctx))

	var count int64
	require.NoError(t, db.Table("user_sessions").Count(&count).Error)
	assert.Zero(t, count)
}
