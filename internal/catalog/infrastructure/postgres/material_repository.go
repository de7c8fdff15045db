package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"coopweigh/internal/catalog/domain"
)

// DBTX is the subset of *sql.DB / *sql.Tx the repository needs.
type DBTX interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// MaterialRepository is a Postgres implementation for the material catalog.
type MaterialRepository struct {
	db DBTX
}

// NewMaterialRepository constructs a repository.
func NewMaterialRepository(db DBTX) *MaterialRepository {
	return &MaterialRepository{db: db}
}

// List returns all materials ordered by name.
func (r *MaterialRepository) List(ctx context.Context) ([]domain.Material, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("material repo: nil db")
	}

	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM materials ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list materials: %w", err)
	}
	defer rows.Close()

	var result []domain.Material
	for rows.Next() {
		var material domain.Material
		if err := rows.Scan(&material.ID, &material.Name); err != nil {
			return nil, err
		}
		result = append(result, material)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID loads a material by id.
func (r *MaterialRepository) GetByID(ctx context.Context, id int64) (*domain.Material, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("material repo: nil db")
	}
	return r.scan(r.db.QueryRowContext(ctx, `SELECT id, name FROM materials WHERE id = $1 LIMIT 1`, id))
}

// GetByName loads a material by exact name, compared case-insensitively.
func (r *MaterialRepository) GetByName(ctx context.Context, name string) (*domain.Material, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("material repo: nil db")
	}
	return r.scan(r.db.QueryRowContext(ctx, `SELECT id, name FROM materials WHERE LOWER(name) = LOWER($1) LIMIT 1`, name))
}

func (r *MaterialRepository) scan(row *sql.Row) (*domain.Material, error) {
	var material domain.Material
	if err := row.Scan(&material.ID, &material.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMaterialNotFound
		}
		return nil, fmt.Errorf("failed to load material: %w", err)
	}
	return &material, nil
}
