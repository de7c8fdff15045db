package domain

import (
	"errors"
	"time"
)

// ErrMeasurementNotFound indicates no measurement matched the lookup.
var ErrMeasurementNotFound = errors.New("weighing: measurement not found")

// Measurement is one append-only ledger entry of a weighing event. The
// timestamp is server-assigned at creation; entries are immutable thereafter.
type Measurement struct {
	ID           int64
	WorkerID     int64
	MaterialID   int64
	MaterialName string
	DeviceID     int64
	Weight       WeightKg
	BagFilled    bool
	CreatedAt    time.Time
}

// Device is a weighing station owned by one cooperative. Devices are created
// lazily on a cooperative's first weighing and reused afterwards. Two
// concurrent first weighings can race and create two devices; the store does
// not guard against that and device identity is not stable under the race.
type Device struct {
	ID            int64
	CooperativeID int64
	ExternalID    *string
	CreatedAt     time.Time
}

// NewMeasurementInput carries the fields of a weighing creation.
type NewMeasurementInput struct {
	WorkerID   int64
	MaterialID int64
	DeviceID   int64
	Weight     WeightKg
	BagFilled  bool
}
