package numeric

import (
	"fmt"
	"math"
	"math/cmplx"

	"hubbardmc/linalg"
)

// LogDet computes log det(A) via LU decomposition with partial pivoting,
// projected to the first log branch, grounded on linalg/lu.go and
// mna/solve.go's factor-then-report-failure pattern.
func LogDet(a *linalg.CDMat) (complex128, error) {
	return ILogDet(a.Clone())
}

// ILogDet computes the same value as LogDet without cloning a first. a
// is not modified: linalg.Decompose factors its own copy, so a is not
// left holding the LU factors.
func ILogDet(a *linalg.CDMat) (complex128, error) {
	lu, err := linalg.Decompose(a)
	if err != nil {
		return 0, fmt.Errorf("numeric: logdet failed: %w", err)
	}
	var sum complex128
	for _, d := range lu.DiagU() {
		sum += cmplx.Log(d)
	}
	if lu.Parity() < 0 {
		sum += complex(0, math.Pi)
	}
	return ToFirstLogBranch(sum), nil
}

// LogDetReal is the real-matrix analogue of LogDet.
func LogDetReal(a *linalg.DMat) (complex128, error) {
	lu, err := linalg.Decompose(a.Clone())
	if err != nil {
		return 0, fmt.Errorf("numeric: logdet failed: %w", err)
	}
	var sum complex128
	for _, d := range lu.DiagU() {
		sum += cmplx.Log(complex(d, 0))
	}
	if lu.Parity() < 0 {
		sum += complex(0, math.Pi)
	}
	return ToFirstLogBranch(sum), nil
}
