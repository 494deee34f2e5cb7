package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeNumber(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"NaN becomes zero", math.NaN(), 0.0},
		{"positive infinity becomes zero", math.Inf(1), 0.0},
		{"negative infinity becomes zero", math.Inf(-1), 0.0},
		{"finite value rounds to 4 places", 12.345678, 12.3457},
		{"negative value rounds to 4 places", -2.71828, -2.7183},
		{"zero stays zero", 0.0, 0.0},
		{"integer unchanged", 42.0, 42.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeNumber(tt.in))
		})
	}
}

func TestSanitizeNumberIdempotent(t *testing.T) {
	values := []float64{12.345678, -3.14159, 0.0, 99999.99995, math.NaN(), math.Inf(1)}
	for _, v := range values {
		once := SanitizeNumber(v)
		twice := SanitizeNumber(once)
		assert.Equal(t, once, twice, "sanitizing twice must match sanitizing once for %v", v)
	}
}
