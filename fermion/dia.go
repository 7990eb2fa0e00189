package fermion

import "hubbardmc/linalg"

// diaKernel implements the DIA discretisation, linear in kappa:
// K(particle) = (1+mu) I - kappa, K(hole) = (1-mu) I - sigmaKappa*kappa,
// grounded on original_source/cnxx/hubbardFermiMatrix.cpp's K()/F().
type diaKernel struct{}

func (diaKernel) name() string { return "dia" }

func (diaKernel) k(kappa *linalg.DMat, mu float64, sigmaKappa int8, species Species) *linalg.DMat {
	nx := kappa.Rows()
	out := linalg.NewDense[float64](nx, nx)
	switch species {
	case Particle:
		for i := 0; i < nx; i++ {
			out.Set(i, i, 1+mu)
			for j := 0; j < nx; j++ {
				out.Add(i, j, -kappa.Get(i, j))
			}
		}
	case Hole:
		sk := float64(sigmaKappa)
		for i := 0; i < nx; i++ {
			out.Set(i, i, 1-mu)
			for j := 0; j < nx; j++ {
				out.Add(i, j, -sk*kappa.Get(i, j))
			}
		}
	}
	return out
}

// f returns the diagonal phase block coupling time slice tp to tp-1 (mod
// Nt): exp(i*eta*phi[x,tp-1]), eta=+1 for particles and eta=-1 for
// holes. The antiperiodic sign is applied by the caller (M), not here.
func (diaKernel) f(sigmaKappa int8, tp int, phi linalg.CDVec, nx int, species Species) *linalg.CDMat {
	return phaseBlock(sigmaKappa, tp, phi, nx, species)
}
