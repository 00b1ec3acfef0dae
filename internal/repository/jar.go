package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tiny-wins-bot/internal/model"
)

// JarRepository handles jar persistence. Jars are owned by exactly one user;
// every query is scoped by user_id so one account can never touch another's
// jars.
type JarRepository struct {
	pool *pgxpool.Pool
}

// NewJarRepository creates a new JarRepository instance.
func NewJarRepository(pool *pgxpool.Pool) *JarRepository {
	return &JarRepository{pool: pool}
}

// Create creates a new jar for the user.
func (r *JarRepository) Create(ctx context.Context, userID int64, name string) (*model.Jar, error) {
	const query = `
		INSERT INTO jars (id, user_id, name, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, user_id, name, created_at
	`

	var jar model.Jar
	err := r.pool.QueryRow(ctx, query, uuid.New().String(), userID, name).Scan(
		&jar.ID,
		&jar.UserID,
		&jar.Name,
		&jar.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create jar: %w", err)
	}

	return &jar, nil
}

// GetByID retrieves a jar owned by the user.
// Returns ErrJarNotFound if it does not exist or belongs to someone else.
func (r *JarRepository) GetByID(ctx context.Context, jarID string, userID int64) (*model.Jar, error) {
	const query = `
		SELECT id, user_id, name, created_at
		FROM jars
		WHERE id = $1 AND user_id = $2
	`

	var jar model.Jar
	err := r.pool.QueryRow(ctx, query, jarID, userID).Scan(
		&jar.ID,
		&jar.UserID,
		&jar.Name,
		&jar.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrJarNotFound
		}
		return nil, fmt.Errorf("failed to get jar: %w", err)
	}

	return &jar, nil
}

// ListByUser retrieves the user's jars, newest first.
func (r *JarRepository) ListByUser(ctx context.Context, userID int64) ([]*model.Jar, error) {
	const query = `
		SELECT id, user_id, name, created_at
		FROM jars
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list jars: %w", err)
	}
	defer rows.Close()

	var jars []*model.Jar
	for rows.Next() {
		var jar model.Jar
		err := rows.Scan(
			&jar.ID,
			&jar.UserID,
			&jar.Name,
			&jar.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan jar: %w", err)
		}
		jars = append(jars, &jar)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating jars: %w", err)
	}

	return jars, nil
}

// Rename changes a jar's name.
func (r *JarRepository) Rename(ctx context.Context, jarID string, userID int64, name string) error {
	const query = `
		UPDATE jars
		SET name = $3
		WHERE id = $1 AND user_id = $2
	`

	result, err := r.pool.Exec(ctx, query, jarID, userID, name)
	if err != nil {
		return fmt.Errorf("failed to rename jar: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrJarNotFound
	}

	return nil
}

// Delete removes a jar. Wins inside it are removed with it by the jars
// foreign key cascade.
func (r *JarRepository) Delete(ctx context.Context, jarID string, userID int64) error {
	const query = `DELETE FROM jars WHERE id = $1 AND user_id = $2`

	result, err := r.pool.Exec(ctx, query, jarID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete jar: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrJarNotFound
	}

	return nil
}

// CountByUser returns how many jars the user owns.
func (r *JarRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	const query = `SELECT COUNT(*) FROM jars WHERE user_id = $1`

	var count int
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count jars: %w", err)
	}

	return count, nil
}
