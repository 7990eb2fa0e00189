package linalg

import "math"

// Expm computes the dense matrix exponential of a square complex matrix
// by scaling and squaring combined with a truncated Taylor series,
// mirroring the teacher's style of a self-contained numeric routine
// (maths/lu_block.go's recursive decomposition) rather than a full
// Pade-approximant library, since the examples carry no dedicated
// matrix-exponential dependency to wire in.
func Expm(a *Dense[complex128]) *Dense[complex128] {
	n := a.Rows()
	if n == 0 {
		return NewDense[complex128](0, 0)
	}

	normA := maxAbsRowSum(a)
	s := 0
	for normA > 0.5 {
		normA /= 2
		s++
	}

	scaled := a.Scale(complex(math.Pow(2, float64(-s)), 0))

	result := Identity[complex128](n)
	term := Identity[complex128](n)
	const terms = 18
	for k := 1; k <= terms; k++ {
		term = term.MulMat(scaled).Scale(complex(1/float64(k), 0))
		result = result.AddMat(term)
	}

	for i := 0; i < s; i++ {
		result = result.MulMat(result)
	}
	return result
}

func maxAbsRowSum(a *Dense[complex128]) float64 {
	n := a.Rows()
	max := 0.0
	for i := 0; i < n; i++ {
		sum := 0.0
		for j := 0; j < n; j++ {
			sum += abs(a.Get(i, j))
		}
		if sum > max {
			max = sum
		}
	}
	return max
}
