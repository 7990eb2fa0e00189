package numeric

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToFirstLogBranchRange(t *testing.T) {
	for _, im := range []float64{0, math.Pi, -math.Pi, 3 * math.Pi, -3 * math.Pi, 7.0001} {
		z := ToFirstLogBranch(complex(2.5, im))
		assert.Greater(t, imag(z), -math.Pi-1e-12)
		assert.LessOrEqual(t, imag(z), math.Pi+1e-12)
		assert.InDelta(t, 2.5, real(z), 1e-12)

		// difference from the original must be an integer multiple of 2*pi
		diff := im - imag(z)
		k := diff / (2 * math.Pi)
		assert.InDelta(t, math.Round(k), k, 1e-9)
	}
}

func TestToFirstLogBranchBoundary(t *testing.T) {
	z := ToFirstLogBranch(complex(0, math.Pi))
	assert.InDelta(t, math.Pi, imag(z), 1e-12)
	z = ToFirstLogBranch(complex(0, -math.Pi))
	assert.InDelta(t, math.Pi, imag(z), 1e-12)
}
