package fermion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hubbardmc/linalg"
)

func ring2Kappa() *linalg.DMat {
	k := linalg.NewDense[float64](2, 2)
	k.Set(0, 1, 1)
	k.Set(1, 0, 1)
	return k
}

func randomPhi(nx, nt int) linalg.CDVec {
	phi := make(linalg.CDVec, nx*nt)
	seed := 0.137
	for i := range phi {
		seed = seed*5 + 1
		for seed > 1 {
			seed -= 1
		}
		phi[i] = complex(seed-0.5, 0)
	}
	return phi
}

func TestDiaMQMatchesShapes(t *testing.T) {
	m, err := NewDia(ring2Kappa(), 0.1, 1)
	require.NoError(t, err)
	phi := randomPhi(2, 3)

	mm, err := m.M(phi, Particle)
	require.NoError(t, err)
	assert.Equal(t, 6, mm.Rows())
	assert.Equal(t, 6, mm.Cols())

	q, err := m.Q(phi)
	require.NoError(t, err)
	assert.Equal(t, 6, q.Rows())
}

func TestKinvCacheInvalidatesOnUpdate(t *testing.T) {
	m, err := NewDia(ring2Kappa(), 0.1, 1)
	require.NoError(t, err)

	k1, err := m.Kinv(Particle)
	require.NoError(t, err)
	require.True(t, m.kinvValid[Particle])

	m.UpdateMu(0.2)
	assert.False(t, m.kinvValid[Particle])

	k2, err := m.Kinv(Particle)
	require.NoError(t, err)
	assert.NotEqual(t, k1.Get(0, 0), k2.Get(0, 0))
}

func TestLogDetKinvCached(t *testing.T) {
	m, err := NewExp(ring2Kappa(), 0.05, -1)
	require.NoError(t, err)

	ld1, err := m.LogDetKinv(Hole)
	require.NoError(t, err)
	ld2, err := m.LogDetKinv(Hole)
	require.NoError(t, err)
	assert.Equal(t, ld1, ld2)
	assert.True(t, m.ldkValid[Hole])
}

func TestSpeciesString(t *testing.T) {
	assert.Equal(t, "particle", Particle.String())
	assert.Equal(t, "hole", Hole.String())
}

func TestNewDiaRejectsBadSigmaKappa(t *testing.T) {
	_, err := NewDia(ring2Kappa(), 0, 2)
	assert.Error(t, err)
}

func TestNtRejectsBadLength(t *testing.T) {
	m, err := NewDia(ring2Kappa(), 0, 1)
	require.NoError(t, err)
	_, err = m.Nt(make(linalg.CDVec, 5))
	assert.Error(t, err)
}
