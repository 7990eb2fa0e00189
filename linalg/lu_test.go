package linalg

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLUSolveReal(t *testing.T) {
	a := NewDense[float64](3, 3)
	rows := [][]float64{{2, 3, 1}, {1, 2, 3}, {3, 1, 2}}
	for i, row := range rows {
		for j, v := range row {
			a.Set(i, j, v)
		}
	}
	b := []float64{9, 6, 8}

	x, err := Solve(a, b)
	require.NoError(t, err)

	expected := []float64{35.0 / 18.0, 29.0 / 18.0, 5.0 / 18.0}
	for i := range expected {
		assert.InDelta(t, expected[i], x[i], 1e-9)
	}
}

func TestLUSolveComplex(t *testing.T) {
	a := NewDense[complex128](2, 2)
	a.Set(0, 0, complex(1, 1))
	a.Set(0, 1, complex(2, 0))
	a.Set(1, 0, complex(0, 1))
	a.Set(1, 1, complex(1, -1))
	b := []complex128{complex(3, 1), complex(1, 0)}

	x, err := Solve(a, b)
	require.NoError(t, err)

	// Residual check: A*x - b should vanish.
	res0 := a.Get(0, 0)*x[0] + a.Get(0, 1)*x[1] - b[0]
	res1 := a.Get(1, 0)*x[0] + a.Get(1, 1)*x[1] - b[1]
	assert.Less(t, cmplx.Abs(res0), 1e-9)
	assert.Less(t, cmplx.Abs(res1), 1e-9)
}

func TestLUSingular(t *testing.T) {
	a := NewDense[float64](2, 2)
	a.Set(0, 0, 1)
	a.Set(0, 1, 2)
	a.Set(1, 0, 2)
	a.Set(1, 1, 4)
	_, err := Decompose(a)
	assert.ErrorIs(t, err, ErrSingular)
}

func TestInverseRoundTrip(t *testing.T) {
	a := NewDense[complex128](3, 3)
	a.Set(0, 0, complex(2, 0))
	a.Set(1, 1, complex(3, 0.5))
	a.Set(2, 2, complex(1, -0.5))
	a.Set(0, 2, complex(0.3, 0.1))
	a.Set(2, 0, complex(-0.1, 0.2))

	inv, err := Inverse(a)
	require.NoError(t, err)

	prod := a.MulMat(inv)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := complex128(0)
			if i == j {
				want = 1
			}
			assert.Less(t, cmplx.Abs(prod.Get(i, j)-want), 1e-8)
		}
	}
}

func TestDenseParityPermutation(t *testing.T) {
	a := NewDense[float64](2, 2)
	a.Set(0, 0, 0)
	a.Set(0, 1, 1)
	a.Set(1, 0, 1)
	a.Set(1, 1, 0)
	lu, err := Decompose(a)
	require.NoError(t, err)
	assert.Equal(t, -1, lu.Parity())
	assert.False(t, math.IsNaN(lu.DiagU()[0]))
}
