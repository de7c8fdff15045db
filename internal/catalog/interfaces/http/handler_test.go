package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"coopweigh/internal/catalog/application"
	"coopweigh/internal/catalog/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	materials []domain.Material
	err       error
}

func (f *fakeStore) List(_ context.Context) ([]domain.Material, error) {
	return f.materials, f.err
}

func (f *fakeStore) GetByID(_ context.Context, _ int64) (*domain.Material, error) {
	return nil, domain.ErrMaterialNotFound
}

func (f *fakeStore) GetByName(_ context.Context, _ string) (*domain.Material, error) {
	return nil, domain.ErrMaterialNotFound
}

func newHandler(t *testing.T, store *fakeStore) *Handler {
	t.Helper()
	resolver, err := application.NewResolver(store)
	require.NoError(t, err)
	handler, err := NewHandler(resolver)
	require.NoError(t, err)
	return handler
}

func TestListMaterials(t *testing.T) {
	handler := newHandler(t, &fakeStore{materials: []domain.Material{
		{ID: 2, Name: "Aluminio"},
		{ID: 1, Name: "Papelao"},
	}})

	req := httptest.NewRequest(http.MethodGet, "/materials", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var dtos []MaterialDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dtos))
	require.Len(t, dtos, 2)
	assert.Equal(t, MaterialDTO{ID: "2", Name: "Aluminio"}, dtos[0])
}

func TestListMaterials_Empty(t *testing.T) {
	handler := newHandler(t, &fakeStore{})

	req := httptest.NewRequest(http.MethodGet, "/materials", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestListMaterials_StoreError(t *testing.T) {
	handler := newHandler(t, &fakeStore{err: errors.New("boom")})

	req := httptest.NewRequest(http.MethodGet, "/materials", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestListMaterials_MethodNotAllowed(t *testing.T) {
	handler := newHandler(t, &fakeStore{})

	req := httptest.NewRequest(http.MethodPost, "/materials", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
