package domain

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

// ErrInvalidWeight indicates a non-positive weight. Rejected before
// normalization; weights are never clamped.
var ErrInvalidWeight = errors.New("weighing: weight must be greater than zero")

// WeightKg is an exact decimal weight in kilograms, the storage denomination.
// Conversion from and to the gram-denominated API values goes through decimal
// exponent shifts, so round-tripping an integer gram value is lossless.
type WeightKg struct {
	value decimal.Decimal
}

// WeightFromGrams normalizes a gram-denominated client value to kilograms.
// NaN and infinities are rejected; decimal.NewFromFloat panics on them.
func WeightFromGrams(grams float64) (WeightKg, error) {
	if math.IsNaN(grams) || math.IsInf(grams, 0) {
		return WeightKg{}, ErrInvalidWeight
	}
	if grams <= 0 {
		return WeightKg{}, ErrInvalidWeight
	}
	return WeightKg{value: decimal.NewFromFloat(grams).Shift(-3)}, nil
}

// WeightFromKilogramString builds a weight from its stored decimal text.
func WeightFromKilogramString(s string) (WeightKg, error) {
	value, err := decimal.NewFromString(s)
	if err != nil {
		return WeightKg{}, err
	}
	if value.Sign() <= 0 {
		return WeightKg{}, ErrInvalidWeight
	}
	return WeightKg{value: value}, nil
}

// Grams converts back to the display denomination, rounded to the nearest
// integer gram.
func (w WeightKg) Grams() int64 {
	return w.value.Shift(3).Round(0).IntPart()
}

// Kilograms returns the exact stored decimal.
func (w WeightKg) Kilograms() decimal.Decimal {
	return w.value
}

// String renders the stored kilogram decimal, suitable for a NUMERIC column.
func (w WeightKg) String() string {
	return w.value.String()
}
