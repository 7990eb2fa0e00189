// Package linalg is the dense/sparse matrix and vector layer the rest of
// this module builds on: a narrow, result-identical stand-in for the
// external linear-algebra backend spec.md places out of scope.
package linalg

import "math/cmplx"

// Number is the element type constraint shared by every dense/sparse
// container in this package.
type Number interface {
	~float64 | ~complex128
}

// DVec and CDVec are the real and complex vector aliases used throughout
// the fermion matrix and action layers.
type DVec = []float64
type CDVec = []complex128

// DMat is a dense row-major real matrix.
type DMat = Dense[float64]

// CDMat is a dense row-major complex matrix.
type CDMat = Dense[complex128]

// abs is the magnitude of a Number, used by LU pivoting.
func abs[T Number](v T) float64 {
	switch x := any(v).(type) {
	case float64:
		return absf(x)
	case complex128:
		return cmplx.Abs(x)
	}
	return 0
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
