package application

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"coopweigh/internal/catalog/domain"
)

// MaterialStore is what the resolver needs from persistence.
type MaterialStore interface {
	List(ctx context.Context) ([]domain.Material, error)
	GetByID(ctx context.Context, id int64) (*domain.Material, error)
	GetByName(ctx context.Context, name string) (*domain.Material, error)
}

// Resolver maps free-form material identifiers to catalog entries.
type Resolver struct {
	store MaterialStore
}

// NewResolver constructs a resolver.
func NewResolver(store MaterialStore) (*Resolver, error) {
	if store == nil {
		return nil, errors.New("material resolver: nil store")
	}
	return &Resolver{store: store}, nil
}

// Resolve returns the unique material matching the identifier. A numeric
// identifier is tried as an id first and the id match wins; otherwise, or on an
// id miss, the trimmed identifier is matched case-insensitively against names.
// No fuzzy or partial matching.
func (r *Resolver) Resolve(ctx context.Context, identifier string) (*domain.Material, error) {
	trimmed := strings.TrimSpace(identifier)
	if trimmed == "" {
		return nil, domain.ErrMaterialNotFound
	}

	if id, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		material, err := r.store.GetByID(ctx, id)
		if err == nil {
			return material, nil
		}
		if !errors.Is(err, domain.ErrMaterialNotFound) {
			return nil, err
		}
	}

	return r.store.GetByName(ctx, trimmed)
}

// List returns the full catalog ordered by name.
func (r *Resolver) List(ctx context.Context) ([]domain.Material, error) {
	return r.store.List(ctx)
}
