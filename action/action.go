package action

import "hubbardmc/linalg"

// Action is the common interface every Monte Carlo action implements:
// the complex scalar S(phi) and the complex force F(phi) = -dS/dphi
// used by the molecular-dynamics integrator, grounded on
// cnxx/hubbardFermiAction.hpp's Action base class.
type Action interface {
	Eval(phi linalg.CDVec) (complex128, error)
	Force(phi linalg.CDVec) (linalg.CDVec, error)
}

var (
	_ Action = (*HubbardGaugeAction)(nil)
	_ Action = (*HubbardFermiAction)(nil)
	_ Action = (*SumAction)(nil)
	_ Action = (*UserAction)(nil)
)
