// Package repository provides data access layer implementations.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tiny-wins-bot/internal/model"
)

// Common errors for repository operations.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrJarNotFound  = errors.New("jar not found")
	ErrWinNotFound  = errors.New("win not found")
)

// UserRepository handles user account persistence.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository instance.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create creates a new free-tier user with the given Telegram ID and username.
func (r *UserRepository) Create(ctx context.Context, telegramID int64, username string) (*model.User, error) {
	const query = `
		INSERT INTO users (telegram_id, username, is_pro, created_at, updated_at)
		VALUES ($1, $2, FALSE, NOW(), NOW())
		RETURNING telegram_id, username, is_pro, active_jar_id, created_at, updated_at
	`

	var user model.User
	err := r.pool.QueryRow(ctx, query, telegramID, username).Scan(
		&user.TelegramID,
		&user.Username,
		&user.IsPro,
		&user.ActiveJarID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// GetByID retrieves a user by their Telegram ID.
// Returns ErrUserNotFound if the user does not exist.
func (r *UserRepository) GetByID(ctx context.Context, telegramID int64) (*model.User, error) {
	const query = `
		SELECT telegram_id, username, is_pro, active_jar_id, created_at, updated_at
		FROM users
		WHERE telegram_id = $1
	`

	var user model.User
	err := r.pool.QueryRow(ctx, query, telegramID).Scan(
		&user.TelegramID,
		&user.Username,
		&user.IsPro,
		&user.ActiveJarID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// GetOrCreate retrieves a user by Telegram ID, creating one if it doesn't exist.
func (r *UserRepository) GetOrCreate(ctx context.Context, telegramID int64, username string) (*model.User, bool, error) {
	user, err := r.GetByID(ctx, telegramID)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, false, err
	}

	user, err = r.Create(ctx, telegramID, username)
	if err != nil {
		// Handle race condition: another request might have created the user
		user, err = r.GetByID(ctx, telegramID)
		if err != nil {
			return nil, false, err
		}
		return user, false, nil
	}

	return user, true, nil
}

// SetPro flips the user's pro flag.
func (r *UserRepository) SetPro(ctx context.Context, telegramID int64, isPro bool) (*model.User, error) {
	const query = `
		UPDATE users
		SET is_pro = $2, updated_at = NOW()
		WHERE telegram_id = $1
		RETURNING telegram_id, username, is_pro, active_jar_id, created_at, updated_at
	`

	var user model.User
	err := r.pool.QueryRow(ctx, query, telegramID, isPro).Scan(
		&user.TelegramID,
		&user.Username,
		&user.IsPro,
		&user.ActiveJarID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to set pro flag: %w", err)
	}

	return &user, nil
}

// SetActiveJar records which jar new wins default into. A nil jarID clears
// the selection.
func (r *UserRepository) SetActiveJar(ctx context.Context, telegramID int64, jarID *string) error {
	const query = `
		UPDATE users
		SET active_jar_id = $2, updated_at = NOW()
		WHERE telegram_id = $1
	`

	result, err := r.pool.Exec(ctx, query, telegramID, jarID)
	if err != nil {
		return fmt.Errorf("failed to set active jar: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// UpdateUsername updates a user's username.
// This is useful when a user changes their Telegram username.
func (r *UserRepository) UpdateUsername(ctx context.Context, telegramID int64, username string) error {
	const query = `
		UPDATE users
		SET username = $2, updated_at = NOW()
		WHERE telegram_id = $1
	`

	result, err := r.pool.Exec(ctx, query, telegramID, username)
	if err != nil {
		return fmt.Errorf("failed to update username: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// CountUsers returns the total number of registered users.
func (r *UserRepository) CountUsers(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM users`

	var count int
	if err := r.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}

	return count, nil
}
