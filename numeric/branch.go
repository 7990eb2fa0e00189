// Package numeric collects the small numerical utilities the fermion
// matrix and action layers share: first-branch complex log, logdet via
// LU, and spacetime indexing helpers, grounded on spec.md §4.1 and
// original_source/cnxx/math.hpp.
package numeric

import "math"

// ToFirstLogBranch projects the imaginary part of z into (-pi, pi],
// leaving the real part untouched.
func ToFirstLogBranch(z complex128) complex128 {
	im := math.Mod(imag(z)+math.Pi, 2*math.Pi)
	if im <= 0 {
		im += 2 * math.Pi
	}
	im -= math.Pi
	return complex(real(z), im)
}
