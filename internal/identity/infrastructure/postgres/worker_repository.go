package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"coopweigh/internal/identity/domain"
)

// DBTX is the subset of *sql.DB / *sql.Tx the repository needs.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WorkerRepository is a Postgres implementation for workers.
type WorkerRepository struct {
	db DBTX
}

// NewWorkerRepository constructs a repository.
func NewWorkerRepository(db DBTX) *WorkerRepository {
	return &WorkerRepository{db: db}
}

const profileColumns = `
w.id, w.name, w.email, w.cpf, w.password_hash, w.cooperative_id, w.updated_at, c.name
FROM workers w
LEFT JOIN cooperatives c ON c.id = w.cooperative_id`

// GetByCPF loads a worker by its normalized CPF.
func (r *WorkerRepository) GetByCPF(ctx context.Context, cpf string) (*domain.WorkerProfile, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("worker repo: nil db")
	}
	if cpf == "" {
		return nil, errors.New("worker repo: empty cpf")
	}

	query := `SELECT ` + profileColumns + `
WHERE w.cpf = $1
LIMIT 1`
	return r.scanProfile(r.db.QueryRowContext(ctx, query, cpf))
}

// GetByID loads a worker by id.
func (r *WorkerRepository) GetByID(ctx context.Context, id int64) (*domain.WorkerProfile, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("worker repo: nil db")
	}

	query := `SELECT ` + profileColumns + `
WHERE w.id = $1
LIMIT 1`
	return r.scanProfile(r.db.QueryRowContext(ctx, query, id))
}

// Update applies the non-nil fields and bumps updated_at, returning the fresh
// profile. Callers must pass at least one change.
func (r *WorkerRepository) Update(ctx context.Context, id int64, name, email *string, passwordHash []byte) (*domain.WorkerProfile, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("worker repo: nil db")
	}

	sets := []string{"updated_at = NOW()"}
	args := []any{id}
	if name != nil {
		args = append(args, *name)
		sets = append(sets, fmt.Sprintf("name = $%d", len(args)))
	}
	if email != nil {
		args = append(args, *email)
		sets = append(sets, fmt.Sprintf("email = $%d", len(args)))
	}
	if passwordHash != nil {
		args = append(args, passwordHash)
		sets = append(sets, fmt.Sprintf("password_hash = $%d", len(args)))
	}
	if len(sets) == 1 {
		return nil, errors.New("worker repo: empty update")
	}

	query := fmt.Sprintf(`UPDATE workers SET %s WHERE id = $1`, strings.Join(sets, ", "))
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update worker: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return nil, domain.ErrWorkerNotFound
	}
	return r.GetByID(ctx, id)
}

// ListNamesByIDs resolves worker ids to display names.
func (r *WorkerRepository) ListNamesByIDs(ctx context.Context, ids []int64) (map[int64]string, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("worker repo: nil db")
	}
	names := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT id, name FROM workers WHERE id IN (%s)`, strings.Join(placeholders, ", "))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list worker names: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		names[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return names, nil
}

func (r *WorkerRepository) scanProfile(row *sql.Row) (*domain.WorkerProfile, error) {
	var profile domain.WorkerProfile
	var cooperativeID sql.NullInt64
	var cooperativeName sql.NullString
	if err := row.Scan(
		&profile.ID,
		&profile.Name,
		&profile.Email,
		&profile.CPF,
		&profile.PasswordHash,
		&cooperativeID,
		&profile.UpdatedAt,
		&cooperativeName,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrWorkerNotFound
		}
		return nil, fmt.Errorf("failed to load worker: %w", err)
	}
	if cooperativeID.Valid {
		profile.CooperativeID = &cooperativeID.Int64
	}
	if cooperativeName.Valid {
		profile.CooperativeName = &cooperativeName.String
	}
	profile.UpdatedAt = profile.UpdatedAt.UTC()
	return &profile, nil
}
