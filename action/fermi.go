package action

import (
	"fmt"
	"math/cmplx"

	"hubbardmc/fermion"
	"hubbardmc/linalg"
	"hubbardmc/numeric"
)

// HubbardFermiAction is S(phi) = -logdetM(phi;particle) - logdetM(phi;hole),
// in eight variants (Hopping x Algorithm x Basis), grounded on
// original_source/src/isle/cpp/action/hubbardFermiAction.cpp's explicit
// template instantiations.
type HubbardFermiAction struct {
	hopping   Hopping
	algorithm Algorithm
	basis     Basis

	matrix *fermion.Matrix

	// shortcut is true when the hole determinant can be replaced by the
	// particle determinant instead of being evaluated independently,
	// grounded on hubbardFermiAction.cpp's _holeShortcutPossible: the
	// hopping graph must be bipartite, muTilde must be zero, sigmaKappa
	// must be +1, and the basis must be PARTICLE_HOLE (SPIN never
	// supports the shortcut).
	shortcut bool
}

// NewHubbardFermiAction builds the fermion action directly from its
// physical parameters, grounded on hubbardFermiMatrix.cpp's HFM(kappa,
// mu, sigmaKappa) constructor plus the basis/algorithm selectors added
// at the action layer.
func NewHubbardFermiAction(kappa *linalg.DMat, mu float64, sigmaKappa int8, hopping Hopping, algorithm Algorithm, basis Basis) (*HubbardFermiAction, error) {
	var m *fermion.Matrix
	var err error
	switch hopping {
	case DIA:
		m, err = fermion.NewDia(kappa, mu, sigmaKappa)
	case EXP:
		m, err = fermion.NewExp(kappa, mu, sigmaKappa)
	default:
		return nil, fmt.Errorf("action: unknown hopping discretisation %v", hopping)
	}
	if err != nil {
		return nil, fmt.Errorf("action: NewHubbardFermiAction: %w", err)
	}

	shortcut := basis == ParticleHole &&
		mu == 0 &&
		sigmaKappa == 1 &&
		fermion.IsBipartiteHopping(kappa)

	return &HubbardFermiAction{
		hopping:   hopping,
		algorithm: algorithm,
		basis:     basis,
		matrix:    m,
		shortcut:  shortcut,
	}, nil
}

// Lattice is the minimal external interface a lattice geometry must
// satisfy to build a HubbardFermiAction from beta/Nt directly, grounded
// on spec.md's External Interfaces section.
type Lattice interface {
	Hopping() *linalg.DMat
	Nt() int
}

// NewHubbardFermiActionFromLattice scales the lattice's hopping matrix
// by beta/Nt before constructing the action, matching isle's convention
// of kappaTilde = kappa * beta / Nt.
func NewHubbardFermiActionFromLattice(lat Lattice, beta, mu float64, sigmaKappa int8, hopping Hopping, algorithm Algorithm, basis Basis) (*HubbardFermiAction, error) {
	nt := lat.Nt()
	if nt <= 0 {
		return nil, fmt.Errorf("action: lattice Nt must be positive, got %d", nt)
	}
	kappaTilde := lat.Hopping().Scale(beta / float64(nt))
	return NewHubbardFermiAction(kappaTilde, mu, sigmaKappa, hopping, algorithm, basis)
}

// auxPhi substitutes aux = -i*phi, the field the SPIN basis evaluates M
// and Q at instead of phi itself.
func auxPhi(phi linalg.CDVec) linalg.CDVec {
	out := make(linalg.CDVec, len(phi))
	for i, v := range phi {
		out[i] = v * complex(0, -1)
	}
	return out
}

func scale(v linalg.CDVec, s complex128) linalg.CDVec {
	out := make(linalg.CDVec, len(v))
	for i := range v {
		out[i] = v[i] * s
	}
	return out
}

func sub(a, b linalg.CDVec) linalg.CDVec {
	out := make(linalg.CDVec, len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out
}

func (a *HubbardFermiAction) Eval(phi linalg.CDVec) (complex128, error) {
	switch a.algorithm {
	case DirectSingle:
		return a.evalDirectSingle(phi)
	case DirectSquare:
		return a.evalDirectSquare(phi)
	default:
		return 0, fmt.Errorf("action: unknown force algorithm %v", a.algorithm)
	}
}

func (a *HubbardFermiAction) evalDirectSingle(phi linalg.CDVec) (complex128, error) {
	if a.basis == Spin {
		aux := auxPhi(phi)
		ldp, err := a.matrix.LogDetM(aux, fermion.Particle)
		if err != nil {
			return 0, fmt.Errorf("action: HubbardFermiAction.Eval: %w", err)
		}
		ldh, err := a.matrix.LogDetM(aux, fermion.Hole)
		if err != nil {
			return 0, fmt.Errorf("action: HubbardFermiAction.Eval: %w", err)
		}
		return -numeric.ToFirstLogBranch(ldp + ldh), nil
	}

	ldp, err := a.matrix.LogDetM(phi, fermion.Particle)
	if err != nil {
		return 0, fmt.Errorf("action: HubbardFermiAction.Eval: %w", err)
	}
	if a.shortcut {
		return -numeric.ToFirstLogBranch(ldp + cmplx.Conj(ldp)), nil
	}
	ldh, err := a.matrix.LogDetM(phi, fermion.Hole)
	if err != nil {
		return 0, fmt.Errorf("action: HubbardFermiAction.Eval: %w", err)
	}
	return -numeric.ToFirstLogBranch(ldp + ldh), nil
}

func (a *HubbardFermiAction) evalDirectSquare(phi linalg.CDVec) (complex128, error) {
	target := phi
	if a.basis == Spin {
		target = auxPhi(phi)
	}
	ld, err := a.matrix.LogDetQ(target)
	if err != nil {
		return 0, fmt.Errorf("action: HubbardFermiAction.Eval: %w", err)
	}
	return -ld, nil
}

func (a *HubbardFermiAction) Force(phi linalg.CDVec) (linalg.CDVec, error) {
	switch a.algorithm {
	case DirectSingle:
		return a.forceDirectSingle(phi)
	case DirectSquare:
		return a.forceDirectSquare(phi)
	default:
		return nil, fmt.Errorf("action: unknown force algorithm %v", a.algorithm)
	}
}

func (a *HubbardFermiAction) forceDirectSingle(phi linalg.CDVec) (linalg.CDVec, error) {
	if a.basis == Spin {
		aux := auxPhi(phi)
		fh, err := a.matrix.ForceDirectSingle(aux, fermion.Hole)
		if err != nil {
			return nil, fmt.Errorf("action: HubbardFermiAction.Force: %w", err)
		}
		fp, err := a.matrix.ForceDirectSingle(aux, fermion.Particle)
		if err != nil {
			return nil, fmt.Errorf("action: HubbardFermiAction.Force: %w", err)
		}
		return sub(fh, fp), nil
	}

	fp, err := a.matrix.ForceDirectSingle(phi, fermion.Particle)
	if err != nil {
		return nil, fmt.Errorf("action: HubbardFermiAction.Force: %w", err)
	}
	var fh linalg.CDVec
	if a.shortcut {
		fh = make(linalg.CDVec, len(fp))
		for i, v := range fp {
			fh[i] = cmplx.Conj(v)
		}
	} else {
		fh, err = a.matrix.ForceDirectSingle(phi, fermion.Hole)
		if err != nil {
			return nil, fmt.Errorf("action: HubbardFermiAction.Force: %w", err)
		}
	}
	return scale(sub(fp, fh), complex(0, -1)), nil
}

func (a *HubbardFermiAction) forceDirectSquare(phi linalg.CDVec) (linalg.CDVec, error) {
	target := phi
	if a.basis == Spin {
		target = auxPhi(phi)
	}
	f, err := a.matrix.ForceDirectSquare(target)
	if err != nil {
		return nil, fmt.Errorf("action: HubbardFermiAction.Force: %w", err)
	}
	if a.basis == Spin {
		return scale(f, complex(0, -1)), nil
	}
	return f, nil
}
