package linalg

import (
	"errors"
	"fmt"
)

// ErrSingular is returned when a pivot column is numerically zero during
// LU decomposition, grounded on mna/mat/lu.go's "matrix is singular or
// nearly singular" failure.
var ErrSingular = errors.New("linalg: matrix is singular or nearly singular")

// LU holds a partial-pivoted LU factorisation of a square Dense[T]
// matrix, grounded on mna/mat/lu.go's Decompose/SolveReuse split.
type LU[T Number] struct {
	n      int
	a      *Dense[T] // combined L (unit diagonal implicit) and U, in place
	piv    []int     // piv[i] = row actually occupying position i
	parity int       // +1 or -1, sign of the permutation
}

// Decompose factors a copy of m into an LU struct; m itself is untouched.
func Decompose[T Number](m *Dense[T]) (*LU[T], error) {
	if m.rows != m.cols {
		return nil, fmt.Errorf("linalg: LU requires a square matrix, got %dx%d", m.rows, m.cols)
	}
	n := m.rows
	lu := &LU[T]{n: n, a: m.Clone(), piv: make([]int, n), parity: 1}
	for i := range lu.piv {
		lu.piv[i] = i
	}

	for k := 0; k < n; k++ {
		maxRow, maxVal := k, abs(lu.a.Get(k, k))
		for i := k + 1; i < n; i++ {
			if v := abs(lu.a.Get(i, k)); v > maxVal {
				maxVal, maxRow = v, i
			}
		}
		if maxVal < 1e-300 {
			return nil, ErrSingular
		}
		if maxRow != k {
			lu.swapRows(k, maxRow)
			lu.parity = -lu.parity
		}
		pivot := lu.a.Get(k, k)
		for i := k + 1; i < n; i++ {
			factor := lu.a.Get(i, k) / pivot
			lu.a.Set(i, k, factor)
			for j := k + 1; j < n; j++ {
				lu.a.Set(i, j, lu.a.Get(i, j)-factor*lu.a.Get(k, j))
			}
		}
	}
	return lu, nil
}

func (lu *LU[T]) swapRows(i, j int) {
	if i == j {
		return
	}
	for c := 0; c < lu.n; c++ {
		vi, vj := lu.a.Get(i, c), lu.a.Get(j, c)
		lu.a.Set(i, c, vj)
		lu.a.Set(j, c, vi)
	}
	lu.piv[i], lu.piv[j] = lu.piv[j], lu.piv[i]
}

// Parity reports the sign (+1 or -1) of the row-permutation used during
// partial pivoting; detP in spec.md's logdet formula.
func (lu *LU[T]) Parity() int { return lu.parity }

// DiagU returns the diagonal of the U factor (L's diagonal is implicitly 1).
func (lu *LU[T]) DiagU() []T { return lu.a.Diag() }

// Solve solves A x = b for x using the stored factorisation.
func (lu *LU[T]) Solve(b []T) ([]T, error) {
	if len(b) != lu.n {
		return nil, fmt.Errorf("linalg: rhs length %d does not match matrix size %d", len(b), lu.n)
	}
	n := lu.n
	pb := make([]T, n)
	for i := 0; i < n; i++ {
		pb[i] = b[lu.piv[i]]
	}
	y := make([]T, n)
	for i := 0; i < n; i++ {
		sum := pb[i]
		for j := 0; j < i; j++ {
			sum -= lu.a.Get(i, j) * y[j]
		}
		y[i] = sum
	}
	x := make([]T, n)
	for i := n - 1; i >= 0; i-- {
		sum := y[i]
		for j := i + 1; j < n; j++ {
			sum -= lu.a.Get(i, j) * x[j]
		}
		x[i] = sum / lu.a.Get(i, i)
	}
	return x, nil
}

// Inverse materialises A^-1 by solving against each standard basis vector.
func (lu *LU[T]) Inverse() (*Dense[T], error) {
	n := lu.n
	out := NewDense[T](n, n)
	var one T
	switch any(one).(type) {
	case float64:
		one = any(1.0).(T)
	case complex128:
		one = any(complex(1, 0)).(T)
	}
	e := make([]T, n)
	for j := 0; j < n; j++ {
		for i := range e {
			e[i] = *new(T)
		}
		e[j] = one
		col, err := lu.Solve(e)
		if err != nil {
			return nil, err
		}
		for i := 0; i < n; i++ {
			out.Set(i, j, col[i])
		}
	}
	return out, nil
}

// Inverse returns the inverse of m, computed via LU decomposition.
func Inverse[T Number](m *Dense[T]) (*Dense[T], error) {
	lu, err := Decompose(m)
	if err != nil {
		return nil, err
	}
	return lu.Inverse()
}

// Solve decomposes m and solves m x = b in one call.
func Solve[T Number](m *Dense[T], b []T) ([]T, error) {
	lu, err := Decompose(m)
	if err != nil {
		return nil, err
	}
	return lu.Solve(b)
}
