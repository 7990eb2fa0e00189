package action

import "hubbardmc/linalg"

// UserAction is an escape hatch for actions defined entirely by the
// caller, grounded on original_source/src/isle/cpp/bind/action.cpp's
// subclassable Python action base -- the Go analogue of "subclass and
// override eval/force" is "supply the two functions directly".
type UserAction struct {
	EvalFn  func(phi linalg.CDVec) (complex128, error)
	ForceFn func(phi linalg.CDVec) (linalg.CDVec, error)
}

// NewUserAction builds a UserAction from caller-supplied callbacks.
func NewUserAction(eval func(linalg.CDVec) (complex128, error), force func(linalg.CDVec) (linalg.CDVec, error)) (*UserAction, error) {
	if eval == nil || force == nil {
		return nil, ErrNotAnAction
	}
	return &UserAction{EvalFn: eval, ForceFn: force}, nil
}

func (u *UserAction) Eval(phi linalg.CDVec) (complex128, error) { return u.EvalFn(phi) }

func (u *UserAction) Force(phi linalg.CDVec) (linalg.CDVec, error) { return u.ForceFn(phi) }
