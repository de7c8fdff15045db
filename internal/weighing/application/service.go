package application

import (
	"context"
	"errors"
	"log"
	"strings"

	catalog "coopweigh/internal/catalog/domain"
	identity "coopweigh/internal/identity/domain"
	"coopweigh/internal/weighing/domain"

	"github.com/google/uuid"
)

// HistoryLimit caps the personal weighing history.
const HistoryLimit = 100

// MeasurementStore is the ledger side of persistence.
type MeasurementStore interface {
	Create(ctx context.Context, input domain.NewMeasurementInput) (*domain.Measurement, error)
	ListByWorker(ctx context.Context, workerID int64, limit int) ([]domain.Measurement, error)
}

// DeviceStore is the device side of persistence.
type DeviceStore interface {
	FindByCooperative(ctx context.Context, cooperativeID int64) (*domain.Device, error)
	Create(ctx context.Context, cooperativeID int64, externalID *string) (*domain.Device, error)
}

// MaterialResolver maps free-form identifiers to catalog entries.
type MaterialResolver interface {
	Resolve(ctx context.Context, identifier string) (*catalog.Material, error)
}

// WorkerDirectory resolves worker profiles.
type WorkerDirectory interface {
	GetByID(ctx context.Context, id int64) (*identity.WorkerProfile, error)
}

// Service implements weighing creation and history.
type Service struct {
	measurements MeasurementStore
	devices      DeviceStore
	materials    MaterialResolver
	workers      WorkerDirectory
	logger       *log.Logger
}

// NewService constructs the weighing service.
func NewService(measurements MeasurementStore, devices DeviceStore, materials MaterialResolver, workers WorkerDirectory, logger *log.Logger) (*Service, error) {
	if measurements == nil || devices == nil || materials == nil || workers == nil {
		return nil, errors.New("weighing service: nil dependency")
	}
	return &Service{
		measurements: measurements,
		devices:      devices,
		materials:    materials,
		workers:      workers,
		logger:       logger,
	}, nil
}

// CreateInput carries a weighing creation request.
type CreateInput struct {
	MaterialIdentifier string
	WeightGrams        float64
	DeviceExternalID   *string
	BagFilled          bool
}

// Create records a weighing for the worker. The weight is validated before
// normalization, the material identifier is resolved by id or name, and the
// cooperative's device is created lazily on first use.
func (s *Service) Create(ctx context.Context, workerID int64, input CreateInput) (*domain.Measurement, error) {
	weight, err := domain.WeightFromGrams(input.WeightGrams)
	if err != nil {
		return nil, err
	}

	worker, err := s.workers.GetByID(ctx, workerID)
	if err != nil {
		return nil, err
	}
	if !worker.HasCooperative() {
		return nil, identity.ErrNoCooperative
	}

	material, err := s.materials.Resolve(ctx, input.MaterialIdentifier)
	if err != nil {
		return nil, err
	}

	device, err := s.devices.FindByCooperative(ctx, *worker.CooperativeID)
	if err != nil {
		return nil, err
	}
	if device == nil {
		externalID := normalizeExternalID(input.DeviceExternalID)
		device, err = s.devices.Create(ctx, *worker.CooperativeID, externalID)
		if err != nil {
			return nil, err
		}
	}

	return s.measurements.Create(ctx, domain.NewMeasurementInput{
		WorkerID:   workerID,
		MaterialID: material.ID,
		DeviceID:   device.ID,
		Weight:     weight,
		BagFilled:  input.BagFilled,
	})
}

// History returns the worker's most recent weighings, newest first.
func (s *Service) History(ctx context.Context, workerID int64) ([]domain.Measurement, error) {
	return s.measurements.ListByWorker(ctx, workerID, HistoryLimit)
}

// QueueRequest acknowledges a weighing request. There is no queue behind it;
// the request is logged and dropped.
func (s *Service) QueueRequest(_ context.Context, workerID int64) string {
	requestID := uuid.NewString()
	if s.logger != nil {
		s.logger.Printf("weighing request queued: worker=%d request=%s", workerID, requestID)
	}
	return requestID
}

func normalizeExternalID(raw *string) *string {
	if raw == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
