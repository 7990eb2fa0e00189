// Package action implements the Hubbard model's Monte Carlo actions:
// the bilinear gauge action of the Hubbard-Stratonovich field and the
// fermion determinant action in its DIA/EXP x DIRECT_SINGLE/DIRECT_SQUARE
// x PARTICLE_HOLE/SPIN variants, grounded on
// original_source/src/isle/cpp/action/hubbardFermiAction.cpp and
// original_source/cnxx/hubbardFermiAction.hpp.
package action

import "fmt"

// Hopping selects the fermion matrix discretisation.
type Hopping int8

const (
	DIA Hopping = iota
	EXP
)

func (h Hopping) String() string {
	switch h {
	case DIA:
		return "dia"
	case EXP:
		return "exp"
	default:
		return fmt.Sprintf("Hopping(%d)", int8(h))
	}
}

// Algorithm selects the force-evaluation route.
type Algorithm int8

const (
	DirectSingle Algorithm = iota
	DirectSquare
)

func (a Algorithm) String() string {
	switch a {
	case DirectSingle:
		return "direct_single"
	case DirectSquare:
		return "direct_square"
	default:
		return fmt.Sprintf("Algorithm(%d)", int8(a))
	}
}

// Basis selects the Hubbard-Stratonovich channel the field phi couples
// through.
type Basis int8

const (
	ParticleHole Basis = iota
	Spin
)

func (b Basis) String() string {
	switch b {
	case ParticleHole:
		return "particle_hole"
	case Spin:
		return "spin"
	default:
		return fmt.Sprintf("Basis(%d)", int8(b))
	}
}
