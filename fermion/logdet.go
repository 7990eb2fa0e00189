package fermion

import (
	"errors"
	"fmt"

	"hubbardmc/linalg"
	"hubbardmc/numeric"
)

// ErrUnsupportedMu is returned by the single-determinant route (LogDetM,
// SolveM) when mu != 0: the route is numerically unstable away from
// half filling, so callers with mu != 0 must go through Q instead.
var ErrUnsupportedMu = errors.New("fermion: single-determinant route requires mu == 0")

// LogDetM computes log det M(phi; species) by factoring the assembled
// fermion matrix directly, folded into the complex logarithm's first
// branch per original_source/cnxx/hubbardFermiMatrix.cpp's logdetM.
func (m *Matrix) LogDetM(phi linalg.CDVec, species Species) (complex128, error) {
	if m.mu != 0 {
		return 0, fmt.Errorf("fermion: LogDetM: %w", ErrUnsupportedMu)
	}
	dense, err := m.denseM(phi, species)
	if err != nil {
		return 0, err
	}
	ld, err := numeric.LogDet(dense)
	if err != nil {
		return 0, fmt.Errorf("fermion: LogDetM: %w", err)
	}
	return ld, nil
}

// SolveM solves M(phi;species) x = rhs.
func (m *Matrix) SolveM(phi linalg.CDVec, species Species, rhs linalg.CDVec) (linalg.CDVec, error) {
	if m.mu != 0 {
		return nil, fmt.Errorf("fermion: SolveM: %w", ErrUnsupportedMu)
	}
	dense, err := m.denseM(phi, species)
	if err != nil {
		return nil, err
	}
	x, err := linalg.Solve(dense, rhs)
	if err != nil {
		return nil, fmt.Errorf("fermion: SolveM: %w", err)
	}
	return x, nil
}

func (m *Matrix) denseM(phi linalg.CDVec, species Species) (*linalg.CDMat, error) {
	sparse, err := m.M(phi, species)
	if err != nil {
		return nil, err
	}
	return sparse.ToDense(), nil
}
