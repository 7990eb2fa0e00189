package qlu_test

import (
	"math/cmplx"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hubbardmc/fermion"
	"hubbardmc/linalg"
	"hubbardmc/numeric"
	"hubbardmc/qlu"
)

func ringKappa(n int) *linalg.DMat {
	k := linalg.NewDense[float64](n, n)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		k.Set(i, j, 1)
		k.Set(j, i, 1)
	}
	return k
}

func randomPhi(n int, seed int64) linalg.CDVec {
	rng := rand.New(rand.NewSource(seed))
	out := make(linalg.CDVec, n)
	for i := range out {
		out[i] = complex(rng.NormFloat64()*0.4, 0)
	}
	return out
}

func randomCDVec(n int, seed int64) linalg.CDVec {
	rng := rand.New(rand.NewSource(seed))
	out := make(linalg.CDVec, n)
	for i := range out {
		out[i] = complex(rng.NormFloat64(), rng.NormFloat64())
	}
	return out
}

func assertSparseClose(t *testing.T, want, got *linalg.CDSMat, tol float64) {
	t.Helper()
	require.Equal(t, want.Rows(), got.Rows())
	require.Equal(t, want.Cols(), got.Cols())
	for i := 0; i < want.Rows(); i++ {
		for j := 0; j < want.Cols(); j++ {
			assert.Less(t, cmplx.Abs(want.Get(i, j)-got.Get(i, j)), tol)
		}
	}
}

// checkAgainstFermionQ cross-checks the qlu decomposition of a real
// fermion.Matrix's Q against Q itself: Reconstruct must reproduce it
// exactly, Solve must invert it, and LogDet must match an independent
// dense log-determinant.
func checkAgainstFermionQ(t *testing.T, nx, nt int, kern func(*linalg.DMat, float64, int8) (*fermion.Matrix, error)) {
	m, err := kern(ringKappa(nx), 0, 1)
	require.NoError(t, err)
	phi := randomPhi(nx*nt, int64(nx*1000+nt))

	q, err := m.Q(phi)
	require.NoError(t, err)

	lu, err := m.QLU(phi)
	require.NoError(t, err)

	recon, err := lu.Reconstruct()
	require.NoError(t, err)
	assertSparseClose(t, q, recon, 1e-7)

	b := randomCDVec(nx*nt, 99)
	x, err := lu.Solve(b)
	require.NoError(t, err)
	residual := q.MulVec(x)
	for i := range b {
		assert.Less(t, cmplx.Abs(residual[i]-b[i]), 1e-6)
	}

	ld, err := lu.LogDet()
	require.NoError(t, err)
	refLd, err := numeric.LogDet(q.ToDense())
	require.NoError(t, err)
	assert.Less(t, cmplx.Abs(cmplx.Exp(ld)-cmplx.Exp(refLd)), 1e-6)
}

func TestQLUAgainstFermionQDiaNt1(t *testing.T) { checkAgainstFermionQ(t, 3, 1, fermion.NewDia) }
func TestQLUAgainstFermionQDiaNt2(t *testing.T) { checkAgainstFermionQ(t, 3, 2, fermion.NewDia) }
func TestQLUAgainstFermionQDiaNt3(t *testing.T) { checkAgainstFermionQ(t, 2, 3, fermion.NewDia) }
func TestQLUAgainstFermionQDiaNt5(t *testing.T) { checkAgainstFermionQ(t, 2, 5, fermion.NewDia) }
func TestQLUAgainstFermionQExpNt4(t *testing.T) { checkAgainstFermionQ(t, 2, 4, fermion.NewExp) }

func TestQLUInverseMatchesSolve(t *testing.T) {
	m, err := fermion.NewDia(ringKappa(2), 0, 1)
	require.NoError(t, err)
	phi := randomPhi(8, 42)

	lu, err := m.QLU(phi)
	require.NoError(t, err)

	inv, err := lu.Inverse()
	require.NoError(t, err)

	b := randomCDVec(8, 17)
	viaSolve, err := lu.Solve(b)
	require.NoError(t, err)
	viaInverse := inv.MulVec(b)
	for i := range b {
		assert.Less(t, cmplx.Abs(viaSolve[i]-viaInverse[i]), 1e-7)
	}
}

func TestDecomposeRejectsMismatchedLengths(t *testing.T) {
	p := linalg.Identity[complex128](2)
	_, err := qlu.Decompose(p, []*linalg.CDMat{p}, []*linalg.CDMat{p, p})
	assert.Error(t, err)
}
