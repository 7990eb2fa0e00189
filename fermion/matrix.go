package fermion

import (
	"fmt"
	"math/cmplx"

	"hubbardmc/linalg"
	"hubbardmc/numeric"
	"hubbardmc/qlu"
)

// kernel supplies the two pieces that differ between the DIA and EXP
// discretisations; everything else (P, Tplus, Tminus, M, Q) is shared.
type kernel interface {
	name() string
	k(kappa *linalg.DMat, mu float64, sigmaKappa int8, species Species) *linalg.DMat
	// f returns the diagonal complex block coupling time slice tp to
	// tp-1 (mod Nt) in M, without the antiperiodic boundary sign (M
	// applies that per block position).
	f(sigmaKappa int8, tp int, phi linalg.CDVec, nx int, species Species) *linalg.CDMat
}

// Matrix is the Hubbard fermion matrix M(phi; kappa, mu, sigmaKappa),
// parameterised by a discretisation kernel (DIA or EXP). It owns kappa,
// mu, sigmaKappa immutably from the caller's point of view (mutation only
// through UpdateKappa/UpdateMu) and caches Kinv/logdetKinv per species
// lazily, grounded on base/Capacitor.go's "derive cached coefficient,
// then reuse it" split between StartIteration and Stamp.
type Matrix struct {
	kappa      *linalg.DMat // dense for convenience; kept real throughout
	mu         float64
	sigmaKappa int8
	nx         int
	kern       kernel

	kinv       [2]*linalg.CDMat
	kinvValid  [2]bool
	logdetKinv [2]complex128
	ldkValid   [2]bool
}

// NewDia builds a Matrix using the DIA (linear hopping) discretisation.
func NewDia(kappa *linalg.DMat, mu float64, sigmaKappa int8) (*Matrix, error) {
	return newMatrix(kappa, mu, sigmaKappa, diaKernel{})
}

// NewExp builds a Matrix using the EXP (exponentiated hopping) discretisation.
func NewExp(kappa *linalg.DMat, mu float64, sigmaKappa int8) (*Matrix, error) {
	return newMatrix(kappa, mu, sigmaKappa, expKernel{})
}

func newMatrix(kappa *linalg.DMat, mu float64, sigmaKappa int8, kern kernel) (*Matrix, error) {
	if kappa.Rows() != kappa.Cols() {
		return nil, fmt.Errorf("fermion: hopping matrix is not square (%dx%d)", kappa.Rows(), kappa.Cols())
	}
	if sigmaKappa != 1 && sigmaKappa != -1 {
		return nil, fmt.Errorf("fermion: sigmaKappa must be +1 or -1, got %d", sigmaKappa)
	}
	return &Matrix{kappa: kappa.Clone(), mu: mu, sigmaKappa: sigmaKappa, nx: kappa.Rows(), kern: kern}, nil
}

// Discretisation names the kernel in use ("dia" or "exp").
func (m *Matrix) Discretisation() string { return m.kern.name() }

func (m *Matrix) Nx() int               { return m.nx }
func (m *Matrix) Mu() float64           { return m.mu }
func (m *Matrix) SigmaKappa() int8      { return m.sigmaKappa }
func (m *Matrix) Kappa() *linalg.DMat   { return m.kappa.Clone() }

// Nt infers the number of time slices from a field of length Nx*Nt.
func (m *Matrix) Nt(phi linalg.CDVec) (int, error) {
	if len(phi)%m.nx != 0 {
		return 0, fmt.Errorf("fermion: len(phi)=%d is not a multiple of nx=%d", len(phi), m.nx)
	}
	return len(phi) / m.nx, nil
}

// UpdateKappa replaces the hopping matrix and invalidates all caches.
func (m *Matrix) UpdateKappa(kappa *linalg.DMat) error {
	if kappa.Rows() != kappa.Cols() || kappa.Rows() != m.nx {
		return fmt.Errorf("fermion: updateKappa dimension mismatch, want %dx%d", m.nx, m.nx)
	}
	m.kappa = kappa.Clone()
	m.invalidate()
	return nil
}

// UpdateMu replaces the chemical potential and invalidates all caches.
func (m *Matrix) UpdateMu(mu float64) {
	m.mu = mu
	m.invalidate()
}

func (m *Matrix) invalidate() {
	m.kinvValid[0], m.kinvValid[1] = false, false
	m.ldkValid[0], m.ldkValid[1] = false, false
}

// K returns the Nx x Nx diagonal block for the given species.
func (m *Matrix) K(species Species) *linalg.DMat {
	return m.kern.k(m.kappa, m.mu, m.sigmaKappa, species)
}

// Kinv returns the dense complex inverse of K(species), lazily cached.
func (m *Matrix) Kinv(species Species) (*linalg.CDMat, error) {
	if m.kinvValid[species] {
		return m.kinv[species].Clone(), nil
	}
	k := m.K(species)
	ck := linalg.NewDense[complex128](m.nx, m.nx)
	for i := 0; i < m.nx; i++ {
		for j := 0; j < m.nx; j++ {
			ck.Set(i, j, complex(k.Get(i, j), 0))
		}
	}
	inv, err := linalg.Inverse(ck)
	if err != nil {
		return nil, fmt.Errorf("fermion: Kinv(%s): %w", species, err)
	}
	m.kinv[species] = inv
	m.kinvValid[species] = true
	return inv.Clone(), nil
}

// LogDetKinv returns log det(K(species)^-1), lazily cached.
func (m *Matrix) LogDetKinv(species Species) (complex128, error) {
	if m.ldkValid[species] {
		return m.logdetKinv[species], nil
	}
	inv, err := m.Kinv(species)
	if err != nil {
		return 0, err
	}
	ld, err := numeric.LogDet(inv)
	if err != nil {
		return 0, fmt.Errorf("fermion: logdetKinv(%s): %w", species, err)
	}
	m.logdetKinv[species] = ld
	m.ldkValid[species] = true
	return ld, nil
}

// F returns the Nx x Nx diagonal complex matrix block coupling time
// slice tp to tp-1 (mod Nt) in M(phi, species).
func (m *Matrix) F(tp int, phi linalg.CDVec, species Species) (*linalg.CDMat, error) {
	nt, err := m.Nt(phi)
	if err != nil {
		return nil, err
	}
	if tp < 0 || tp >= nt {
		return nil, fmt.Errorf("fermion: time slice %d out of range [0,%d)", tp, nt)
	}
	return m.kern.f(m.sigmaKappa, tp, phi, m.nx, species), nil
}

// M assembles the full Nx*Nt square sparse complex fermion matrix.
func (m *Matrix) M(phi linalg.CDVec, species Species) (*linalg.CDSMat, error) {
	nt, err := m.Nt(phi)
	if err != nil {
		return nil, err
	}
	nx := m.nx
	out := linalg.NewSparse[complex128](nx*nt, nx*nt)

	k := m.K(species)
	for i := 0; i < nx; i++ {
		for j := 0; j < nx; j++ {
			if v := k.Get(i, j); v != 0 {
				for t := 0; t < nt; t++ {
					out.Set(numeric.SpacetimeCoord(i, t, nt), numeric.SpacetimeCoord(j, t, nt), complex(v, 0))
				}
			}
		}
	}

	for tp := 0; tp < nt; tp++ {
		f, err := m.F(tp, phi, species)
		if err != nil {
			return nil, err
		}
		// M's corner (tp==0, wrapping to Nt-1) carries the antiperiodic
		// boundary sign as +F; every other sub-diagonal (tp,tp-1) carries
		// -F, per hubbardFermiMatrix.cpp::M.
		sign := -1.0
		if tp == 0 {
			sign = 1.0
		}
		addBlock(out, tp, numeric.LoopIdx(tp-1, nt), nx, nt, f, sign)
	}
	return out, nil
}

// phaseBlock builds the diagonal phase coupling block shared by the DIA
// and EXP kernels: exp(i*eta*phi[x,tp-1]), eta=+1 for particles and
// eta=-1 for holes. F itself carries no boundary sign; M applies that
// separately per block position.
func phaseBlock(sigmaKappa int8, tp int, phi linalg.CDVec, nx int, species Species) *linalg.CDMat {
	nt := len(phi) / nx
	tm1 := tp - 1
	if tp == 0 {
		tm1 = nt - 1
	}
	eta := complex(1, 0)
	if species == Hole {
		eta = complex(-1, 0)
	}
	out := linalg.NewDense[complex128](nx, nx)
	for x := 0; x < nx; x++ {
		out.Set(x, x, cmplx.Exp(eta*complex(0, 1)*phi[numeric.SpacetimeCoord(x, tm1, nt)]))
	}
	return out
}

func addBlock(out *linalg.CDSMat, tRow, tCol, nx, nt int, block *linalg.CDMat, sign float64) {
	s := complex(sign, 0)
	for i := 0; i < nx; i++ {
		for j := 0; j < nx; j++ {
			if v := block.Get(i, j); v != 0 {
				out.Add(numeric.SpacetimeCoord(i, tRow, nt), numeric.SpacetimeCoord(j, tCol, nt), s*v)
			}
		}
	}
}

// P is the Nx x Nx real Schur-complement diagonal block, shared by DIA
// and EXP (spec.md §4.2): (2-mu^2) I - (sigmaKappa(1+mu)+1-mu) kappa + sigmaKappa kappa^2.
func (m *Matrix) P() *linalg.DMat {
	nx := m.nx
	kk := m.kappa.MulMat(m.kappa)
	out := linalg.NewDense[float64](nx, nx)
	coeffKappa := float64(m.sigmaKappa)*(1+m.mu) + 1 - m.mu
	for i := 0; i < nx; i++ {
		out.Set(i, i, 2-m.mu*m.mu)
		for j := 0; j < nx; j++ {
			v := -coeffKappa*m.kappa.Get(i, j) + float64(m.sigmaKappa)*kk.Get(i, j)
			out.Add(i, j, v)
		}
	}
	return out
}

// complexify promotes a real dense matrix to a complex one with zero
// imaginary parts.
func complexify(m *linalg.DMat) *linalg.CDMat {
	out := linalg.NewDense[complex128](m.Rows(), m.Cols())
	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < m.Cols(); j++ {
			out.Set(i, j, complex(m.Get(i, j), 0))
		}
	}
	return out
}

// TPlus is the complex sub-diagonal block T+(t') with anti-periodic sign
// folded into row xp=0..Nx-1: sigmaKappa*kappa - (1-mu)*I, each row scaled
// by s*exp(+i*phi[xp, t'-1]), s=-1 at t'=0.
func (m *Matrix) TPlus(tp int, phi linalg.CDVec) (*linalg.CDMat, error) {
	nt, err := m.Nt(phi)
	if err != nil {
		return nil, err
	}
	nx := m.nx
	tm1 := tp - 1
	if tp == 0 {
		tm1 = nt - 1
	}
	sign := 1.0
	if tp == 0 {
		sign = -1.0
	}
	base := linalg.NewDense[complex128](nx, nx)
	for i := 0; i < nx; i++ {
		for j := 0; j < nx; j++ {
			v := float64(m.sigmaKappa) * m.kappa.Get(i, j)
			if i == j {
				v -= 1 - m.mu
			}
			base.Set(i, j, complex(v, 0))
		}
	}
	for xp := 0; xp < nx; xp++ {
		factor := complex(sign, 0) * cmplx.Exp(complex(0, 1)*phi[numeric.SpacetimeCoord(xp, tm1, nt)])
		for j := 0; j < nx; j++ {
			base.Set(xp, j, base.Get(xp, j)*factor)
		}
	}
	return base, nil
}

// TMinus is the complex super-diagonal block T-(t'): kappa - (1+mu)*I,
// each column scaled by s*exp(-i*phi[x, t']), s=-1 at t'=Nt-1.
func (m *Matrix) TMinus(tp int, phi linalg.CDVec) (*linalg.CDMat, error) {
	nt, err := m.Nt(phi)
	if err != nil {
		return nil, err
	}
	nx := m.nx
	sign := 1.0
	if tp == nt-1 {
		sign = -1.0
	}
	base := linalg.NewDense[complex128](nx, nx)
	for i := 0; i < nx; i++ {
		for j := 0; j < nx; j++ {
			v := m.kappa.Get(i, j)
			if i == j {
				v -= 1 + m.mu
			}
			base.Set(i, j, complex(v, 0))
		}
	}
	for x := 0; x < nx; x++ {
		factor := complex(sign, 0) * cmplx.Exp(complex(0, -1)*phi[numeric.SpacetimeCoord(x, tp, nt)])
		for i := 0; i < nx; i++ {
			base.Set(i, x, base.Get(i, x)*factor)
		}
	}
	return base, nil
}

// Q assembles the block-cyclic tridiagonal Schur matrix.
func (m *Matrix) Q(phi linalg.CDVec) (*linalg.CDSMat, error) {
	nt, err := m.Nt(phi)
	if err != nil {
		return nil, err
	}
	nx := m.nx
	out := linalg.NewSparse[complex128](nx*nt, nx*nt)
	p := m.P()
	for i := 0; i < nx; i++ {
		for j := 0; j < nx; j++ {
			if v := p.Get(i, j); v != 0 {
				for t := 0; t < nt; t++ {
					out.Add(numeric.SpacetimeCoord(i, t, nt), numeric.SpacetimeCoord(j, t, nt), complex(v, 0))
				}
			}
		}
	}
	for tp := 0; tp < nt; tp++ {
		tplus, err := m.TPlus(tp, phi)
		if err != nil {
			return nil, err
		}
		addBlock(out, tp, numeric.LoopIdx(tp-1, nt), nx, nt, tplus, 1)

		tminus, err := m.TMinus(tp, phi)
		if err != nil {
			return nil, err
		}
		addBlock(out, tp, numeric.LoopIdx(tp+1, nt), nx, nt, tminus, 1)
	}
	return out, nil
}

// tPlusTMinus builds the per-time-slice T+/T- block arrays Q(phi) is
// assembled from, shared by QLU and ForceDirectSquare.
func (m *Matrix) tPlusTMinus(phi linalg.CDVec) (tplus, tminus []*linalg.CDMat, err error) {
	nt, err := m.Nt(phi)
	if err != nil {
		return nil, nil, err
	}
	tplus = make([]*linalg.CDMat, nt)
	tminus = make([]*linalg.CDMat, nt)
	for t := 0; t < nt; t++ {
		tplus[t], err = m.TPlus(t, phi)
		if err != nil {
			return nil, nil, err
		}
		tminus[t], err = m.TMinus(t, phi)
		if err != nil {
			return nil, nil, err
		}
	}
	return tplus, tminus, nil
}

// QLU factors Q(phi) into the bespoke block-LU decomposition, used to
// solve against Q and to compute log det Q without materialising the
// dense (Nx*Nt)x(Nx*Nt) matrix.
func (m *Matrix) QLU(phi linalg.CDVec) (*qlu.Decomposition, error) {
	tplus, tminus, err := m.tPlusTMinus(phi)
	if err != nil {
		return nil, err
	}
	d, err := qlu.Decompose(complexify(m.P()), tplus, tminus)
	if err != nil {
		return nil, fmt.Errorf("fermion: QLU: %w", err)
	}
	return d, nil
}

// LogDetQ returns log det Q(phi), projected to the first log branch.
func (m *Matrix) LogDetQ(phi linalg.CDVec) (complex128, error) {
	d, err := m.QLU(phi)
	if err != nil {
		return 0, err
	}
	ld, err := d.LogDet()
	if err != nil {
		return 0, fmt.Errorf("fermion: LogDetQ: %w", err)
	}
	return ld, nil
}
