// Package repository provides data access layer implementations.
// Tests use testcontainers-go to spin up a PostgreSQL container.
package repository

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
)

// checkDockerAvailable checks if Docker is available and running
func checkDockerAvailable() bool {
	cmd := exec.Command("docker", "info")
	err := cmd.Run()
	return err == nil
}

// setupTestDB creates a PostgreSQL container and returns a connection pool
// Skips the test if Docker is not available
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

	err = runMigrations(ctx, pool)
	require.NoError(t, err)

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

// runMigrations applies the database schema
func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			telegram_id BIGINT PRIMARY KEY,
			username VARCHAR(255) NOT NULL,
			is_pro BOOLEAN NOT NULL DEFAULT FALSE,
			active_jar_id UUID,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS jars (
			id UUID PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(telegram_id) ON DELETE CASCADE,
			name VARCHAR(100) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS wins (
			id UUID PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(telegram_id) ON DELETE CASCADE,
			jar_id UUID REFERENCES jars(id) ON DELETE CASCADE,
			text VARCHAR(280) NOT NULL,
			mood VARCHAR(16) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

// ============================================================================
// UserRepository Tests
// ============================================================================

func TestUserRepository_Create(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()

	user, err := repo.Create(ctx, 12345, "testuser")
	require.NoError(t, err)
	assert.Equal(t, int64(12345), user.TelegramID)
	assert.Equal(t, "testuser", user.Username)
	assert.False(t, user.IsPro) // new accounts start on the free tier
	assert.Nil(t, user.ActiveJarID)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestUserRepository_GetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()

	_, err := repo.Create(ctx, 12345, "testuser")
	require.NoError(t, err)

	user, err := repo.GetByID(ctx, 12345)
	require.NoError(t, err)
	assert.Equal(t, int64(12345), user.TelegramID)

	_, err = repo.GetByID(ctx, 99999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepository_GetOrCreate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()

	user, created, err := repo.GetOrCreate(ctx, 12345, "testuser")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(12345), user.TelegramID)

	user, created, err = repo.GetOrCreate(ctx, 12345, "testuser")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, int64(12345), user.TelegramID)
}

func TestUserRepository_SetPro(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()

	_, err := repo.Create(ctx, 12345, "testuser")
	require.NoError(t, err)

	user, err := repo.SetPro(ctx, 12345, true)
	require.NoError(t, err)
	assert.True(t, user.IsPro)

	user, err = repo.SetPro(ctx, 12345, false)
	require.NoError(t, err)
	assert.False(t, user.IsPro)

	_, err = repo.SetPro(ctx, 99999, true)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

// ============================================================================
// JarRepository Tests
// ============================================================================

func TestJarRepository_CreateAndList(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	userRepo := NewUserRepository(pool)
	jarRepo := NewJarRepository(pool)
	ctx := context.Background()

	_, err := userRepo.Create(ctx, 12345, "testuser")
	require.NoError(t, err)

	jar, err := jarRepo.Create(ctx, 12345, "My Win Jar")
	require.NoError(t, err)
	assert.NotEmpty(t, jar.ID)
	assert.Equal(t, "My Win Jar", jar.Name)

	_, err = jarRepo.Create(ctx, 12345, "Work Wins")
	require.NoError(t, err)

	jars, err := jarRepo.ListByUser(ctx, 12345)
	require.NoError(t, err)
	require.Len(t, jars, 2)

	count, err := jarRepo.CountByUser(ctx, 12345)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestJarRepository_OwnershipScoping(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	userRepo := NewUserRepository(pool)
	jarRepo := NewJarRepository(pool)
	ctx := context.Background()

	_, err := userRepo.Create(ctx, 1, "alice")
	require.NoError(t, err)
	_, err = userRepo.Create(ctx, 2, "bob")
	require.NoError(t, err)

	jar, err := jarRepo.Create(ctx, 1, "Alice's jar")
	require.NoError(t, err)

	// Bob cannot see, rename or delete Alice's jar.
	_, err = jarRepo.GetByID(ctx, jar.ID, 2)
	assert.ErrorIs(t, err, ErrJarNotFound)
	assert.ErrorIs(t, jarRepo.Rename(ctx, jar.ID, 2, "stolen"), ErrJarNotFound)
	assert.ErrorIs(t, jarRepo.Delete(ctx, jar.ID, 2), ErrJarNotFound)

	got, err := jarRepo.GetByID(ctx, jar.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "Alice's jar", got.Name)
}

func TestJarRepository_DeleteCascadesWins(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	userRepo := NewUserRepository(pool)
	jarRepo := NewJarRepository(pool)
	winRepo := NewWinRepository(pool)
	ctx := context.Background()

	_, err := userRepo.Create(ctx, 12345, "testuser")
	require.NoError(t, err)

	jar, err := jarRepo.Create(ctx, 12345, "My Win Jar")
	require.NoError(t, err)

	_, err = winRepo.Create(ctx, 12345, &jar.ID, "in the jar", "😊")
	require.NoError(t, err)
	_, err = winRepo.Create(ctx, 12345, nil, "ungrouped", "🥳")
	require.NoError(t, err)

	require.NoError(t, jarRepo.Delete(ctx, jar.ID, 12345))

	wins, err := winRepo.ListByUser(ctx, 12345)
	require.NoError(t, err)
	require.Len(t, wins, 1)
	assert.Equal(t, "ungrouped", wins[0].Text)
}

// ============================================================================
// WinRepository Tests
// ============================================================================

func TestWinRepository_CreateAndCount(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	userRepo := NewUserRepository(pool)
	winRepo := NewWinRepository(pool)
	ctx := context.Background()

	_, err := userRepo.Create(ctx, 12345, "testuser")
	require.NoError(t, err)

	win, err := winRepo.Create(ctx, 12345, nil, "drank enough water", "😌")
	require.NoError(t, err)
	assert.NotEmpty(t, win.ID)
	assert.Equal(t, "drank enough water", win.Text)
	assert.Equal(t, "😌", win.Mood)
	assert.Nil(t, win.JarID)
	assert.False(t, win.CreatedAt.IsZero())

	count, err := winRepo.CountByUser(ctx, 12345)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestWinRepository_ListNewestFirst(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	userRepo := NewUserRepository(pool)
	winRepo := NewWinRepository(pool)
	ctx := context.Background()

	_, err := userRepo.Create(ctx, 12345, "testuser")
	require.NoError(t, err)

	base := time.Now().Add(-48 * time.Hour)
	for i := 0; i < 5; i++ {
		_, err := winRepo.CreateWithTime(ctx, 12345, nil, "win", "😊", base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, err)
	}

	wins, err := winRepo.ListByUser(ctx, 12345)
	require.NoError(t, err)
	require.Len(t, wins, 5)
	for i := 1; i < len(wins); i++ {
		assert.True(t, wins[i-1].CreatedAt.After(wins[i].CreatedAt),
			"wins must be ordered newest first")
	}

	recent, err := winRepo.ListRecent(ctx, 12345, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.True(t, recent[0].CreatedAt.After(recent[1].CreatedAt))
	assert.True(t, recent[0].CreatedAt.Equal(wins[0].CreatedAt))
}

func TestWinRepository_GetLatestAndDelete(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	userRepo := NewUserRepository(pool)
	winRepo := NewWinRepository(pool)
	ctx := context.Background()

	_, err := userRepo.Create(ctx, 12345, "testuser")
	require.NoError(t, err)

	_, err = winRepo.GetLatest(ctx, 12345)
	assert.ErrorIs(t, err, ErrWinNotFound)

	older, err := winRepo.CreateWithTime(ctx, 12345, nil, "older", "😊", time.Now().Add(-time.Hour))
	require.NoError(t, err)
	newer, err := winRepo.Create(ctx, 12345, nil, "newer", "🥳")
	require.NoError(t, err)

	latest, err := winRepo.GetLatest(ctx, 12345)
	require.NoError(t, err)
	assert.Equal(t, newer.ID, latest.ID)

	// Deleting a win is permanent and scoped to the owner.
	assert.ErrorIs(t, winRepo.Delete(ctx, newer.ID, 99999), ErrWinNotFound)
	require.NoError(t, winRepo.Delete(ctx, newer.ID, 12345))

	latest, err = winRepo.GetLatest(ctx, 12345)
	require.NoError(t, err)
	assert.Equal(t, older.ID, latest.ID)
}

func TestWinRepository_ListByJar(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	userRepo := NewUserRepository(pool)
	jarRepo := NewJarRepository(pool)
	winRepo := NewWinRepository(pool)
	ctx := context.Background()

	_, err := userRepo.Create(ctx, 12345, "testuser")
	require.NoError(t, err)

	jar, err := jarRepo.Create(ctx, 12345, "Work Wins")
	require.NoError(t, err)

	_, err = winRepo.Create(ctx, 12345, &jar.ID, "shipped the thing", "💪")
	require.NoError(t, err)
	_, err = winRepo.Create(ctx, 12345, nil, "outside the jar", "😊")
	require.NoError(t, err)

	wins, err := winRepo.ListByJar(ctx, 12345, jar.ID)
	require.NoError(t, err)
	require.Len(t, wins, 1)
	assert.Equal(t, "shipped the thing", wins[0].Text)
}

func TestWinRepository_DeleteAllByUser(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	userRepo := NewUserRepository(pool)
	winRepo := NewWinRepository(pool)
	ctx := context.Background()

	_, err := userRepo.Create(ctx, 1, "alice")
	require.NoError(t, err)
	_, err = userRepo.Create(ctx, 2, "bob")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = winRepo.Create(ctx, 1, nil, "alice win", "😊")
		require.NoError(t, err)
	}
	_, err = winRepo.Create(ctx, 2, nil, "bob win", "🥳")
	require.NoError(t, err)

	removed, err := winRepo.DeleteAllByUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	count, err := winRepo.CountByUser(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
