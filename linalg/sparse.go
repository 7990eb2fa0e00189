package linalg

import (
	"fmt"
	"sort"
)

// Sparse is a CSR (compressed-sparse-row) matrix over float64 or
// complex128, grounded on the teacher's sparseMatrix binary-search
// column insert.
type Sparse[T Number] struct {
	rows, cols int
	rowPtr     []int
	colInd     []int
	vals       []T
}

// DSMat and CDSMat are the real and complex sparse matrix aliases named
// in spec.md's data model.
type DSMat = Sparse[float64]
type CDSMat = Sparse[complex128]

// NewSparse allocates an empty rows x cols sparse matrix.
func NewSparse[T Number](rows, cols int) *Sparse[T] {
	if rows < 0 || cols < 0 {
		panic("linalg: negative matrix dimension")
	}
	return &Sparse[T]{rows: rows, cols: cols, rowPtr: make([]int, rows+1)}
}

func (m *Sparse[T]) Rows() int { return m.rows }
func (m *Sparse[T]) Cols() int { return m.cols }

func (m *Sparse[T]) findPos(row, col int) (pos int, found bool) {
	start, end := m.rowPtr[row], m.rowPtr[row+1]
	pos = start + sort.Search(end-start, func(i int) bool { return m.colInd[start+i] >= col })
	return pos, pos < end && m.colInd[pos] == col
}

func (m *Sparse[T]) Get(row, col int) T {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		panic(fmt.Sprintf("linalg: sparse index (%d,%d) out of range for %dx%d matrix", row, col, m.rows, m.cols))
	}
	if pos, ok := m.findPos(row, col); ok {
		return m.vals[pos]
	}
	var zero T
	return zero
}

func (m *Sparse[T]) Set(row, col int, v T) {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		panic(fmt.Sprintf("linalg: sparse index (%d,%d) out of range for %dx%d matrix", row, col, m.rows, m.cols))
	}
	var zero T
	pos, ok := m.findPos(row, col)
	switch {
	case ok && v == zero:
		m.colInd = append(m.colInd[:pos], m.colInd[pos+1:]...)
		m.vals = append(m.vals[:pos], m.vals[pos+1:]...)
		for i := row + 1; i <= m.rows; i++ {
			m.rowPtr[i]--
		}
	case ok:
		m.vals[pos] = v
	case v != zero:
		m.colInd = append(m.colInd, 0)
		copy(m.colInd[pos+1:], m.colInd[pos:])
		m.colInd[pos] = col
		m.vals = append(m.vals, zero)
		copy(m.vals[pos+1:], m.vals[pos:])
		m.vals[pos] = v
		for i := row + 1; i <= m.rows; i++ {
			m.rowPtr[i]++
		}
	}
}

func (m *Sparse[T]) Add(row, col int, v T) {
	m.Set(row, col, m.Get(row, col)+v)
}

// NonZeroCount returns the number of stored (nonzero) entries.
func (m *Sparse[T]) NonZeroCount() int { return len(m.vals) }

// ToDense materialises the sparse matrix as a Dense matrix.
func (m *Sparse[T]) ToDense() *Dense[T] {
	out := NewDense[T](m.rows, m.cols)
	for r := 0; r < m.rows; r++ {
		for p := m.rowPtr[r]; p < m.rowPtr[r+1]; p++ {
			out.Set(r, m.colInd[p], m.vals[p])
		}
	}
	return out
}

// MulVec returns m * x.
func (m *Sparse[T]) MulVec(x []T) []T {
	if len(x) != m.cols {
		panic("linalg: sparse matrix-vector dimension mismatch")
	}
	out := make([]T, m.rows)
	for r := 0; r < m.rows; r++ {
		var sum T
		for p := m.rowPtr[r]; p < m.rowPtr[r+1]; p++ {
			sum += m.vals[p] * x[m.colInd[p]]
		}
		out[r] = sum
	}
	return out
}
