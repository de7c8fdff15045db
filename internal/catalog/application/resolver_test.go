package application

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"coopweigh/internal/catalog/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMaterialStore struct {
	materials []domain.Material
}

func (f *fakeMaterialStore) List(context.Context) ([]domain.Material, error) {
	return f.materials, nil
}

func (f *fakeMaterialStore) GetByID(_ context.Context, id int64) (*domain.Material, error) {
	for _, m := range f.materials {
		if m.ID == id {
			material := m
			return &material, nil
		}
	}
	return nil, domain.ErrMaterialNotFound
}

func (f *fakeMaterialStore) GetByName(_ context.Context, name string) (*domain.Material, error) {
	for _, m := range f.materials {
		if strings.EqualFold(m.Name, name) {
			material := m
			return &material, nil
		}
	}
	return nil, domain.ErrMaterialNotFound
}

func newTestResolver(t *testing.T, materials ...domain.Material) *Resolver {
	t.Helper()
	resolver, err := NewResolver(&fakeMaterialStore{materials: materials})
	require.NoError(t, err)
	return resolver
}

func TestResolver_ByID(t *testing.T) {
	resolver := newTestResolver(t, domain.Material{ID: 3, Name: "Glass"})

	material, err := resolver.Resolve(context.Background(), "3")
	require.NoError(t, err)
	assert.Equal(t, int64(3), material.ID)
}

func TestResolver_ByNameCaseInsensitive(t *testing.T) {
	resolver := newTestResolver(t, domain.Material{ID: 3, Name: "Glass"})

	for _, name := range []string{"Glass", "glass", "GLASS", "  glass  "} {
		material, err := resolver.Resolve(context.Background(), name)
		require.NoError(t, err, "input %q", name)
		assert.Equal(t, int64(3), material.ID)
	}
}

func TestResolver_IDWinsOverNumericName(t *testing.T) {
	// A material literally named "7" must lose to the material with id 7.
	resolver := newTestResolver(t,
		domain.Material{ID: 7, Name: "Plastic"},
		domain.Material{ID: 8, Name: "7"},
	)

	material, err := resolver.Resolve(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, int64(7), material.ID)
}

func TestResolver_IDMissFallsBackToName(t *testing.T) {
	resolver := newTestResolver(t, domain.Material{ID: 8, Name: "42"})

	material, err := resolver.Resolve(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, int64(8), material.ID)
}

func TestResolver_NotFound(t *testing.T) {
	resolver := newTestResolver(t, domain.Material{ID: 1, Name: "Paper"})

	for _, input := range []string{"Cardboard", strconv.Itoa(999), "", "   "} {
		_, err := resolver.Resolve(context.Background(), input)
		assert.ErrorIs(t, err, domain.ErrMaterialNotFound, "input %q", input)
	}
}
