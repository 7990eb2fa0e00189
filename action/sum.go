package action

import "hubbardmc/linalg"

// SumAction composes several actions into one, flattening nested sums
// so Plus never builds a deep chain, grounded on base/element.go's small
// capability-interface style plus circuit.go's Simulate driving a single
// polymorphic step across heterogeneous components.
type SumAction struct {
	terms []Action
}

// NewSumAction builds a SumAction, flattening any nested SumAction terms.
func NewSumAction(terms ...Action) *SumAction {
	s := &SumAction{}
	for _, t := range terms {
		s.absorb(t)
	}
	return s
}

func (s *SumAction) absorb(a Action) {
	if nested, ok := a.(*SumAction); ok {
		for _, t := range nested.terms {
			s.absorb(t)
		}
		return
	}
	s.terms = append(s.terms, a)
}

// Plus returns a new SumAction combining s with more terms, flattening
// nested sums as it goes.
func (s *SumAction) Plus(terms ...Action) *SumAction {
	return NewSumAction(append(append([]Action{}, s.terms...), terms...)...)
}

func (s *SumAction) Eval(phi linalg.CDVec) (complex128, error) {
	var total complex128
	for _, t := range s.terms {
		v, err := t.Eval(phi)
		if err != nil {
			return 0, err
		}
		total += v
	}
	return total, nil
}

func (s *SumAction) Force(phi linalg.CDVec) (linalg.CDVec, error) {
	out := make(linalg.CDVec, len(phi))
	for _, t := range s.terms {
		f, err := t.Force(phi)
		if err != nil {
			return nil, err
		}
		if len(f) != len(out) {
			return nil, errShapeMismatch(len(out), len(f))
		}
		for i := range out {
			out[i] += f[i]
		}
	}
	return out, nil
}
