package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	catalog "coopweigh/internal/catalog/domain"
	"coopweigh/internal/weighing/domain"
)

// DBTX is the subset of *sql.DB / *sql.Tx the repositories need.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// MeasurementRepository is a Postgres implementation for the weighing ledger.
type MeasurementRepository struct {
	db DBTX
}

// NewMeasurementRepository constructs a repository.
func NewMeasurementRepository(db DBTX) *MeasurementRepository {
	return &MeasurementRepository{db: db}
}

// Create appends a ledger entry. The timestamp is assigned by the database.
func (r *MeasurementRepository) Create(ctx context.Context, input domain.NewMeasurementInput) (*domain.Measurement, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("measurement repo: nil db")
	}

	query := `
INSERT INTO measurements (worker_id, material_id, device_id, weight_kg, bag_filled)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, created_at`

	measurement := domain.Measurement{
		WorkerID:   input.WorkerID,
		MaterialID: input.MaterialID,
		DeviceID:   input.DeviceID,
		Weight:     input.Weight,
		BagFilled:  input.BagFilled,
	}
	if err := r.db.QueryRowContext(ctx, query,
		input.WorkerID,
		input.MaterialID,
		input.DeviceID,
		input.Weight.String(),
		input.BagFilled,
	).Scan(&measurement.ID, &measurement.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to create measurement: %w", err)
	}
	measurement.CreatedAt = measurement.CreatedAt.UTC()

	name, err := r.materialName(ctx, input.MaterialID)
	if err != nil {
		return nil, err
	}
	measurement.MaterialName = name
	return &measurement, nil
}

// ListByWorker returns the worker's most recent entries, newest first.
func (r *MeasurementRepository) ListByWorker(ctx context.Context, workerID int64, limit int) ([]domain.Measurement, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("measurement repo: nil db")
	}
	if limit <= 0 {
		limit = 100
	}

	query := `
SELECT m.id, m.worker_id, m.material_id, COALESCE(mat.name, ''), m.device_id, m.weight_kg::text, m.bag_filled, m.created_at
FROM measurements m
LEFT JOIN materials mat ON mat.id = m.material_id
WHERE m.worker_id = $1
ORDER BY m.created_at DESC
LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, workerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list measurements: %w", err)
	}
	defer rows.Close()

	var result []domain.Measurement
	for rows.Next() {
		measurement, err := scanMeasurement(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *measurement)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanMeasurement(rows *sql.Rows) (*domain.Measurement, error) {
	var measurement domain.Measurement
	var weightText string
	if err := rows.Scan(
		&measurement.ID,
		&measurement.WorkerID,
		&measurement.MaterialID,
		&measurement.MaterialName,
		&measurement.DeviceID,
		&weightText,
		&measurement.BagFilled,
		&measurement.CreatedAt,
	); err != nil {
		return nil, err
	}
	weight, err := domain.WeightFromKilogramString(weightText)
	if err != nil {
		return nil, fmt.Errorf("bad stored weight %q: %w", weightText, err)
	}
	measurement.Weight = weight
	if measurement.MaterialName == "" {
		measurement.MaterialName = catalog.PlaceholderName
	}
	measurement.CreatedAt = measurement.CreatedAt.UTC()
	return &measurement, nil
}

func (r *MeasurementRepository) materialName(ctx context.Context, materialID int64) (string, error) {
	var name string
	err := r.db.QueryRowContext(ctx, `SELECT name FROM materials WHERE id = $1`, materialID).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.PlaceholderName, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve material name: %w", err)
	}
	return name, nil
}
