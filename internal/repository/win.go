package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tiny-wins-bot/internal/model"
)

// WinRepository handles win persistence. Wins are insert-and-delete only;
// there is no update path, so a stored win's text, mood and timestamp never
// change. Listings return newest first, which is the ordering the analytics
// engine expects.
type WinRepository struct {
	pool *pgxpool.Pool
}

// NewWinRepository creates a new WinRepository instance.
func NewWinRepository(pool *pgxpool.Pool) *WinRepository {
	return &WinRepository{pool: pool}
}

// Create stores a new win for the user. A nil jarID leaves the win ungrouped.
func (r *WinRepository) Create(ctx context.Context, userID int64, jarID *string, text, mood string) (*model.Win, error) {
	const query = `
		INSERT INTO wins (id, user_id, jar_id, text, mood, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, user_id, jar_id, text, mood, created_at
	`

	var win model.Win
	err := r.pool.QueryRow(ctx, query, uuid.New().String(), userID, jarID, text, mood).Scan(
		&win.ID,
		&win.UserID,
		&win.JarID,
		&win.Text,
		&win.Mood,
		&win.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create win: %w", err)
	}

	return &win, nil
}

// CreateWithTime stores a win with an explicit timestamp. Useful for tests
// and data imports; the normal insert path always stamps NOW().
func (r *WinRepository) CreateWithTime(ctx context.Context, userID int64, jarID *string, text, mood string, createdAt time.Time) (*model.Win, error) {
	const query = `
		INSERT INTO wins (id, user_id, jar_id, text, mood, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, user_id, jar_id, text, mood, created_at
	`

	var win model.Win
	err := r.pool.QueryRow(ctx, query, uuid.New().String(), userID, jarID, text, mood, createdAt).Scan(
		&win.ID,
		&win.UserID,
		&win.JarID,
		&win.Text,
		&win.Mood,
		&win.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create win: %w", err)
	}

	return &win, nil
}

// ListByUser retrieves all of a user's wins, newest first.
func (r *WinRepository) ListByUser(ctx context.Context, userID int64) ([]model.Win, error) {
	const query = `
		SELECT id, user_id, jar_id, text, mood, created_at
		FROM wins
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wins: %w", err)
	}
	defer rows.Close()

	return scanWins(rows)
}

// ListRecent retrieves up to limit of the user's most recent wins, newest first.
func (r *WinRepository) ListRecent(ctx context.Context, userID int64, limit int) ([]model.Win, error) {
	const query = `
		SELECT id, user_id, jar_id, text, mood, created_at
		FROM wins
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent wins: %w", err)
	}
	defer rows.Close()

	return scanWins(rows)
}

// ListByJar retrieves the user's wins inside one jar, newest first.
func (r *WinRepository) ListByJar(ctx context.Context, userID int64, jarID string) ([]model.Win, error) {
	const query = `
		SELECT id, user_id, jar_id, text, mood, created_at
		FROM wins
		WHERE user_id = $1 AND jar_id = $2
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID, jarID)
	if err != nil {
		return nil, fmt.Errorf("failed to list jar wins: %w", err)
	}
	defer rows.Close()

	return scanWins(rows)
}

// GetLatest retrieves the user's most recent win.
// Returns ErrWinNotFound for an empty jar.
func (r *WinRepository) GetLatest(ctx context.Context, userID int64) (*model.Win, error) {
	const query = `
		SELECT id, user_id, jar_id, text, mood, created_at
		FROM wins
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var win model.Win
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&win.ID,
		&win.UserID,
		&win.JarID,
		&win.Text,
		&win.Mood,
		&win.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWinNotFound
		}
		return nil, fmt.Errorf("failed to get latest win: %w", err)
	}

	return &win, nil
}

// Delete permanently removes a win owned by the user.
func (r *WinRepository) Delete(ctx context.Context, winID string, userID int64) error {
	const query = `DELETE FROM wins WHERE id = $1 AND user_id = $2`

	result, err := r.pool.Exec(ctx, query, winID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete win: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrWinNotFound
	}

	return nil
}

// DeleteAllByUser empties the user's entire collection.
func (r *WinRepository) DeleteAllByUser(ctx context.Context, userID int64) (int64, error) {
	const query = `DELETE FROM wins WHERE user_id = $1`

	result, err := r.pool.Exec(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear wins: %w", err)
	}

	return result.RowsAffected(), nil
}

// CountByUser returns how many wins the user has logged.
func (r *WinRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	const query = `SELECT COUNT(*) FROM wins WHERE user_id = $1`

	var count int
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count wins: %w", err)
	}

	return count, nil
}

// CountAll returns the total number of wins across all users.
func (r *WinRepository) CountAll(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM wins`

	var count int
	if err := r.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count all wins: %w", err)
	}

	return count, nil
}

// scanWins collects win rows, preserving the query's ordering.
func scanWins(rows pgx.Rows) ([]model.Win, error) {
	var wins []model.Win
	for rows.Next() {
		var win model.Win
		err := rows.Scan(
			&win.ID,
			&win.UserID,
			&win.JarID,
			&win.Text,
			&win.Mood,
			&win.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan win: %w", err)
		}
		wins = append(wins, win)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wins: %w", err)
	}

	return wins, nil
}
