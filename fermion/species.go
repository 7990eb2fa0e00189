// Package fermion implements the Hubbard fermion matrix family M(phi;
// kappa, mu, sigmaKappa) in its DIA and EXP discretisations, together
// with the block-cyclic Schur matrix Q, grounded on
// original_source/cnxx/hubbardFermiMatrix.cpp and
// original_source/src/isle/cpp/hubbardFermiMatrixExp.hpp.
package fermion

import "fmt"

// Species labels which of the two fermion Green's functions a matrix
// represents.
type Species int8

const (
	Particle Species = iota
	Hole
)

func (s Species) String() string {
	switch s {
	case Particle:
		return "particle"
	case Hole:
		return "hole"
	default:
		return fmt.Sprintf("Species(%d)", int8(s))
	}
}
