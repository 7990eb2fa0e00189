package numeric

import "fmt"

// ComplexDot computes the complex bilinear form a.b = sum a_i*b_i -- not
// the Hermitian inner product -- matching original_source/cnxx/math.hpp's
// vector operator* and spec.md's HubbardGaugeAction S(phi) = phi.phi/(2U).
func ComplexDot(a, b []complex128) (complex128, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("numeric: dot product length mismatch %d != %d", len(a), len(b))
	}
	var sum complex128
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum, nil
}
