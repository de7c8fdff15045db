package domain

import "errors"

// ErrMaterialNotFound indicates no material matched the lookup.
var ErrMaterialNotFound = errors.New("catalog: material not found")

// PlaceholderName labels measurements whose material row went missing.
const PlaceholderName = "Material"

// Material is an immutable catalog entry for a collectible material type.
// Names are unique and compared case-insensitively on lookup.
type Material struct {
	ID   int64
	Name string
}
