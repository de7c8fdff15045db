package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"coopweigh/internal/weighing/domain"
)

// DeviceRepository is a Postgres implementation for weighing devices.
type DeviceRepository struct {
	db DBTX
}

// NewDeviceRepository constructs a repository.
func NewDeviceRepository(db DBTX) *DeviceRepository {
	return &DeviceRepository{db: db}
}

// FindByCooperative returns the cooperative's device, or nil when none exists.
func (r *DeviceRepository) FindByCooperative(ctx context.Context, cooperativeID int64) (*domain.Device, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("device repo: nil db")
	}

	query := `
SELECT id, cooperative_id, external_id, created_at
FROM devices
WHERE cooperative_id = $1
ORDER BY id ASC
LIMIT 1`

	var device domain.Device
	var externalID sql.NullString
	if err := r.db.QueryRowContext(ctx, query, cooperativeID).Scan(
		&device.ID,
		&device.CooperativeID,
		&externalID,
		&device.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find device: %w", err)
	}
	if externalID.Valid {
		device.ExternalID = &externalID.String
	}
	device.CreatedAt = device.CreatedAt.UTC()
	return &device, nil
}

// Create registers a device for a cooperative. There is no uniqueness
// constraint: two concurrent first weighings can both land here and create two
// devices. That race is accepted.
func (r *DeviceRepository) Create(ctx context.Context, cooperativeID int64, externalID *string) (*domain.Device, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("device repo: nil db")
	}

	query := `
INSERT INTO devices (cooperative_id, external_id)
VALUES ($1, $2)
RETURNING id, created_at`

	device := domain.Device{CooperativeID: cooperativeID, ExternalID: externalID}
	if err := r.db.QueryRowContext(ctx, query, cooperativeID, externalID).Scan(&device.ID, &device.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to create device: %w", err)
	}
	device.CreatedAt = device.CreatedAt.UTC()
	return &device, nil
}
