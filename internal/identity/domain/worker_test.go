package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCPF(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "plain digits", in: "12345678901", want: "12345678901"},
		{name: "punctuated", in: "123.456.789-01", want: "12345678901"},
		{name: "too short", in: "1234567890", wantErr: true},
		{name: "too long", in: "123456789012", wantErr: true},
		{name: "empty", in: "", wantErr: true},
		{name: "letters only stripped", in: "123abc456.789-01", want: "12345678901"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeCPF(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCPF)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProfileUpdate_Empty(t *testing.T) {
	assert.True(t, ProfileUpdate{}.Empty())

	name := "Maria"
	assert.False(t, ProfileUpdate{Name: &name}.Empty())

	current := "old"
	// A lone current password changes nothing.
	assert.True(t, ProfileUpdate{CurrentPassword: &current}.Empty())
}

func TestWorker_HasCooperative(t *testing.T) {
	coop := int64(7)
	assert.True(t, (&Worker{CooperativeID: &coop}).HasCooperative())
	assert.False(t, (&Worker{}).HasCooperative())
	assert.False(t, (*Worker)(nil).HasCooperative())
}
