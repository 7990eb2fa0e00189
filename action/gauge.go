package action

import (
	"fmt"

	"hubbardmc/linalg"
	"hubbardmc/numeric"
)

// HubbardGaugeAction is the bilinear action of the Hubbard-Stratonovich
// field, S(phi) = phi.phi / (2*U), where "." is the complex bilinear
// (non-Hermitian) dot product, grounded on cnxx/math.hpp's vector
// operator* and cnxx/hubbardFermiAction.hpp's gauge action term.
type HubbardGaugeAction struct {
	U float64
}

// NewHubbardGaugeAction builds a gauge action for on-site interaction U.
func NewHubbardGaugeAction(u float64) (*HubbardGaugeAction, error) {
	if u == 0 {
		return nil, fmt.Errorf("action: HubbardGaugeAction requires U != 0")
	}
	return &HubbardGaugeAction{U: u}, nil
}

func (a *HubbardGaugeAction) Eval(phi linalg.CDVec) (complex128, error) {
	dot, err := numeric.ComplexDot(phi, phi)
	if err != nil {
		return 0, fmt.Errorf("action: HubbardGaugeAction.Eval: %w", err)
	}
	return dot / complex(2*a.U, 0), nil
}

func (a *HubbardGaugeAction) Force(phi linalg.CDVec) (linalg.CDVec, error) {
	out := make(linalg.CDVec, len(phi))
	for i, v := range phi {
		out[i] = -v / complex(a.U, 0)
	}
	return out, nil
}
