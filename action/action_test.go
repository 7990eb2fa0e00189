package action

import (
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hubbardmc/linalg"
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

func TestGaugeActionForceMatchesFiniteDifference(t *testing.T) {
	a, err := NewHubbardGaugeAction(3.0)
	require.NoError(t, err)

	phi := linalg.CDVec{complex(0.3, 0.1), complex(-0.2, 0.05)}
	force, err := a.Force(phi)
	require.NoError(t, err)

	h := 1e-6
	for k := range phi {
		up := append(linalg.CDVec{}, phi...)
		down := append(linalg.CDVec{}, phi...)
		up[k] += complex(h, 0)
		down[k] -= complex(h, 0)
		su, err := a.Eval(up)
		require.NoError(t, err)
		sd, err := a.Eval(down)
		require.NoError(t, err)
		fd := -(su - sd) / complex(2*h, 0)
		assert.Less(t, cmplx.Abs(fd-force[k]), 1e-6)
	}
}

func TestHoleShortcutEligibility(t *testing.T) {
	a, err := NewHubbardFermiAction(ringKappa(4), 0, 1, DIA, DirectSingle, ParticleHole)
	require.NoError(t, err)
	assert.True(t, a.shortcut)

	// mu != 0 disables the shortcut.
	b, err := NewHubbardFermiAction(ringKappa(4), 0.1, 1, DIA, DirectSingle, ParticleHole)
	require.NoError(t, err)
	assert.False(t, b.shortcut)

	// SPIN basis never supports the shortcut.
	c, err := NewHubbardFermiAction(ringKappa(4), 0, 1, DIA, DirectSingle, Spin)
	require.NoError(t, err)
	assert.False(t, c.shortcut)
}

func TestFermiActionForceAlgorithmsAgreeInParticleHoleBasis(t *testing.T) {
	kappa := ringKappa(2)
	single, err := NewHubbardFermiAction(kappa, 0.15, 1, DIA, DirectSingle, ParticleHole)
	require.NoError(t, err)
	square, err := NewHubbardFermiAction(kappa, 0.15, 1, DIA, DirectSquare, ParticleHole)
	require.NoError(t, err)

	phi := linalg.CDVec{complex(0.1, 0), complex(-0.2, 0), complex(0.05, 0), complex(0.3, 0)}
	f1, err := single.Force(phi)
	require.NoError(t, err)
	f2, err := square.Force(phi)
	require.NoError(t, err)

	for i := range phi {
		assert.Less(t, cmplx.Abs(f1[i]-f2[i]), 1e-6)
	}
}

func TestFermiActionForceAlgorithmsAgreeInSpinBasis(t *testing.T) {
	kappa := ringKappa(2)
	single, err := NewHubbardFermiAction(kappa, 0.15, 1, DIA, DirectSingle, Spin)
	require.NoError(t, err)
	square, err := NewHubbardFermiAction(kappa, 0.15, 1, DIA, DirectSquare, Spin)
	require.NoError(t, err)

	phi := linalg.CDVec{complex(0.1, 0), complex(-0.2, 0), complex(0.05, 0), complex(0.3, 0)}
	f1, err := single.Force(phi)
	require.NoError(t, err)
	f2, err := square.Force(phi)
	require.NoError(t, err)

	for i := range phi {
		assert.Less(t, cmplx.Abs(f1[i]-f2[i]), 1e-6)
	}
}

// TestFermiActionForceMatchesFiniteDifference checks Force against a
// finite difference of Eval on the full HubbardFermiAction, for both
// algorithms, with sigmaKappa=-1 and the shortcut disabled so the
// non-shortcut hole route is genuinely exercised (unlike a check that
// compares ForceDirectSingle only to its own LogDetM, which is
// self-consistent by construction and would not catch a factor baked
// into both).
func TestFermiActionForceMatchesFiniteDifference(t *testing.T) {
	kappa := ringKappa(2)
	phi := linalg.CDVec{
		complex(0.1, 0), complex(-0.2, 0),
		complex(0.05, 0), complex(0.3, 0),
		complex(-0.15, 0), complex(0.4, 0),
	}
	h := 1e-6

	for _, algo := range []Algorithm{DirectSingle, DirectSquare} {
		a, err := NewHubbardFermiAction(kappa, 0, -1, DIA, algo, ParticleHole)
		require.NoError(t, err)
		require.False(t, a.shortcut)

		force, err := a.Force(phi)
		require.NoError(t, err)

		for k := range phi {
			up := append(linalg.CDVec{}, phi...)
			down := append(linalg.CDVec{}, phi...)
			up[k] += complex(h, 0)
			down[k] -= complex(h, 0)
			su, err := a.Eval(up)
			require.NoError(t, err)
			sd, err := a.Eval(down)
			require.NoError(t, err)
			fd := -(su - sd) / complex(2*h, 0)
			assert.Less(t, cmplx.Abs(fd-force[k]), 1e-3)
		}
	}
}

func TestSumActionFlattensAndAdds(t *testing.T) {
	g, err := NewHubbardGaugeAction(2.0)
	require.NoError(t, err)
	inner := NewSumAction(g, g)
	outer := NewSumAction(inner, g)
	assert.Len(t, outer.terms, 3)

	phi := linalg.CDVec{complex(1, 0), complex(0, 1)}
	sVal, err := outer.Eval(phi)
	require.NoError(t, err)
	gVal, err := g.Eval(phi)
	require.NoError(t, err)
	assert.InDelta(t, real(3*gVal), real(sVal), 1e-9)
}

func TestSumActionForceRejectsShapeMismatch(t *testing.T) {
	g, err := NewHubbardGaugeAction(2.0)
	require.NoError(t, err)
	bad, err := NewUserAction(
		func(phi linalg.CDVec) (complex128, error) { return 0, nil },
		func(phi linalg.CDVec) (linalg.CDVec, error) { return linalg.CDVec{1}, nil },
	)
	require.NoError(t, err)

	s := NewSumAction(g, bad)
	_, err = s.Force(linalg.CDVec{1, 2})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestUserActionRejectsNilCallbacks(t *testing.T) {
	_, err := NewUserAction(nil, nil)
	assert.ErrorIs(t, err, ErrNotAnAction)
}

func TestGaugeActionLiteralValues(t *testing.T) {
	a, err := NewHubbardGaugeAction(1.0)
	require.NoError(t, err)

	phi := make(linalg.CDVec, 8)
	phi[0] = complex(1, 0)

	s, err := a.Eval(phi)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, real(s), 1e-12)
	assert.InDelta(t, 0, imag(s), 1e-12)

	f, err := a.Force(phi)
	require.NoError(t, err)
	want := linalg.CDVec{-1, 0, 0, 0, 0, 0, 0, 0}
	for i := range want {
		assert.Less(t, cmplx.Abs(f[i]-want[i]), 1e-12)
	}
}

func TestEmptyHoppingFermiActionIsIdentity(t *testing.T) {
	kappa := linalg.NewDense[float64](2, 2)
	a, err := NewHubbardFermiAction(kappa, 0, 1, DIA, DirectSingle, ParticleHole)
	require.NoError(t, err)
	assert.True(t, a.shortcut)

	phi := linalg.CDVec{
		complex(0.2, 0), complex(-0.1, 0),
		complex(0.05, 0), complex(0.3, 0),
		complex(-0.15, 0), complex(0.4, 0),
		complex(0.1, 0), complex(-0.2, 0),
	}

	s, err := a.Eval(phi)
	require.NoError(t, err)
	assert.Less(t, cmplx.Abs(s), 1e-8)

	f, err := a.Force(phi)
	require.NoError(t, err)
	for _, v := range f {
		assert.Less(t, cmplx.Abs(v), 1e-8)
	}
}
