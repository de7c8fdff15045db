package application

import (
	"context"
	"testing"
	"time"

	catalog "coopweigh/internal/catalog/domain"
	identity "coopweigh/internal/identity/domain"
	"coopweigh/internal/weighing/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMeasurementStore struct {
	created []domain.NewMeasurementInput
	history []domain.Measurement
	lastID  int64
}

func (f *fakeMeasurementStore) Create(_ context.Context, input domain.NewMeasurementInput) (*domain.Measurement, error) {
	f.created = append(f.created, input)
	f.lastID++
	return &domain.Measurement{
		ID:           f.lastID,
		WorkerID:     input.WorkerID,
		MaterialID:   input.MaterialID,
		MaterialName: "Plastico",
		DeviceID:     input.DeviceID,
		Weight:       input.Weight,
		BagFilled:    input.BagFilled,
		CreatedAt:    time.Now(),
	}, nil
}

func (f *fakeMeasurementStore) ListByWorker(_ context.Context, _ int64, _ int) ([]domain.Measurement, error) {
	return f.history, nil
}

type fakeDeviceStore struct {
	device  *domain.Device
	creates int
}

func (f *fakeDeviceStore) FindByCooperative(_ context.Context, _ int64) (*domain.Device, error) {
	return f.device, nil
}

func (f *fakeDeviceStore) Create(_ context.Context, cooperativeID int64, externalID *string) (*domain.Device, error) {
	f.creates++
	f.device = &domain.Device{ID: 9, CooperativeID: cooperativeID, ExternalID: externalID}
	return f.device, nil
}

type fakeResolver struct {
	material *catalog.Material
	calls    int
}

func (f *fakeResolver) Resolve(_ context.Context, _ string) (*catalog.Material, error) {
	f.calls++
	if f.material == nil {
		return nil, catalog.ErrMaterialNotFound
	}
	return f.material, nil
}

type fakeDirectory struct {
	profile *identity.WorkerProfile
}

func (f *fakeDirectory) GetByID(_ context.Context, _ int64) (*identity.WorkerProfile, error) {
	if f.profile == nil {
		return nil, identity.ErrWorkerNotFound
	}
	return f.profile, nil
}

func memberProfile() *identity.WorkerProfile {
	cooperativeID := int64(7)
	return &identity.WorkerProfile{Worker: identity.Worker{ID: 1, Name: "Maria", CooperativeID: &cooperativeID}}
}

func newFixture() (*Service, *fakeMeasurementStore, *fakeDeviceStore, *fakeResolver, *fakeDirectory) {
	measurements := &fakeMeasurementStore{}
	devices := &fakeDeviceStore{}
	resolver := &fakeResolver{material: &catalog.Material{ID: 2, Name: "Plastico"}}
	directory := &fakeDirectory{profile: memberProfile()}
	service, err := NewService(measurements, devices, resolver, directory, nil)
	if err != nil {
		panic(err)
	}
	return service, measurements, devices, resolver, directory
}

func TestCreate_LazyDevice(t *testing.T) {
	service, measurements, devices, _, _ := newFixture()

	externalID := "  scale-01  "
	measurement, err := service.Create(context.Background(), 1, CreateInput{
		MaterialIdentifier: "Plastico",
		WeightGrams:        1500,
		DeviceExternalID:   &externalID,
		BagFilled:          true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, devices.creates)
	require.NotNil(t, devices.device.ExternalID)
	assert.Equal(t, "scale-01", *devices.device.ExternalID)
	assert.Equal(t, int64(1500), measurement.Weight.Grams())
	require.Len(t, measurements.created, 1)
	assert.Equal(t, int64(9), measurements.created[0].DeviceID)
	assert.True(t, measurements.created[0].BagFilled)
}

func TestCreate_ReusesExistingDevice(t *testing.T) {
	service, measurements, devices, _, _ := newFixture()
	devices.device = &domain.Device{ID: 4, CooperativeID: 7}

	_, err := service.Create(context.Background(), 1, CreateInput{
		MaterialIdentifier: "Plastico",
		WeightGrams:        500,
	})
	require.NoError(t, err)
	assert.Zero(t, devices.creates)
	assert.Equal(t, int64(4), measurements.created[0].DeviceID)
}

func TestCreate_BlankExternalIDStoredAsNull(t *testing.T) {
	service, _, devices, _, _ := newFixture()

	blank := "   "
	_, err := service.Create(context.Background(), 1, CreateInput{
		MaterialIdentifier: "Plastico",
		WeightGrams:        500,
		DeviceExternalID:   &blank,
	})
	require.NoError(t, err)
	assert.Nil(t, devices.device.ExternalID)
}

func TestCreate_InvalidWeightRejectedFirst(t *testing.T) {
	service, measurements, devices, resolver, _ := newFixture()

	_, err := service.Create(context.Background(), 1, CreateInput{
		MaterialIdentifier: "Plastico",
		WeightGrams:        0,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidWeight)
	// Nothing else runs when the weight is invalid.
	assert.Zero(t, resolver.calls)
	assert.Zero(t, devices.creates)
	assert.Empty(t, measurements.created)
}

func TestCreate_NoCooperative(t *testing.T) {
	service, _, _, _, directory := newFixture()
	directory.profile.CooperativeID = nil

	_, err := service.Create(context.Background(), 1, CreateInput{
		MaterialIdentifier: "Plastico",
		WeightGrams:        500,
	})
	assert.ErrorIs(t, err, identity.ErrNoCooperative)
}

func TestCreate_MaterialNotFound(t *testing.T) {
	service, measurements, _, resolver, _ := newFixture()
	resolver.material = nil

	_, err := service.Create(context.Background(), 1, CreateInput{
		MaterialIdentifier: "isopor",
		WeightGrams:        500,
	})
	assert.ErrorIs(t, err, catalog.ErrMaterialNotFound)
	assert.Empty(t, measurements.created)
}

func TestQueueRequest_ReturnsID(t *testing.T) {
	service, _, _, _, _ := newFixture()

	first := service.QueueRequest(context.Background(), 1)
	second := service.QueueRequest(context.Background(), 1)
	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}
