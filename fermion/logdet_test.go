package fermion

import (
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hubbardmc/linalg"
)

func TestLogDetMRuns(t *testing.T) {
	m, err := NewDia(ring2Kappa(), 0, 1)
	require.NoError(t, err)
	phi := randomPhi(2, 3)

	ld, err := m.LogDetM(phi, Particle)
	require.NoError(t, err)
	assert.False(t, cmplx.IsNaN(ld))
}

func TestLogDetMRejectsNonzeroMu(t *testing.T) {
	m, err := NewDia(ring2Kappa(), 0.3, 1)
	require.NoError(t, err)
	phi := randomPhi(2, 3)

	_, err = m.LogDetM(phi, Particle)
	assert.ErrorIs(t, err, ErrUnsupportedMu)

	_, err = m.SolveM(phi, Particle, phi)
	assert.ErrorIs(t, err, ErrUnsupportedMu)
}

// TestLogDetMSumMatchesLogDetQOddNt pins down M's boundary sign
// convention: logdetM(particle) + logdetM(hole) == logdetQ must hold
// for any Nt, including odd Nt where a corner/sub-diagonal sign error
// flips the cyclic term's sign relative to Q's determinant.
func TestLogDetMSumMatchesLogDetQOddNt(t *testing.T) {
	for _, nt := range []int{3, 5} {
		m, err := NewDia(ring2Kappa(), 0, 1)
		require.NoError(t, err)
		phi := randomPhi(2, nt)

		ldp, err := m.LogDetM(phi, Particle)
		require.NoError(t, err)
		ldh, err := m.LogDetM(phi, Hole)
		require.NoError(t, err)

		ldq, err := m.LogDetQ(phi)
		require.NoError(t, err)

		got := cmplx.Exp(ldp + ldh)
		want := cmplx.Exp(ldq)
		assert.Less(t, cmplx.Abs(got-want), 1e-6, "Nt=%d", nt)
	}
}

func TestSolveMResidual(t *testing.T) {
	m, err := NewDia(ring2Kappa(), 0, -1)
	require.NoError(t, err)
	phi := randomPhi(2, 3)

	mm, err := m.M(phi, Hole)
	require.NoError(t, err)

	rhs := make(linalg.CDVec, mm.Rows())
	for i := range rhs {
		rhs[i] = complex(float64(i+1)*0.1, 0)
	}

	x, err := m.SolveM(phi, Hole, rhs)
	require.NoError(t, err)

	residual := mm.MulVec(x)
	for i := range rhs {
		assert.Less(t, cmplx.Abs(residual[i]-rhs[i]), 1e-6)
	}
}
