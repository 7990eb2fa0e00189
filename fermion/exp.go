package fermion

import (
	"math"

	"hubbardmc/linalg"
)

// expKernel implements the EXP discretisation, in which the hopping
// matrix enters through a matrix exponential rather than linearly:
// K(particle) = exp(-kappa) * exp(mu), K(hole) = exp(-sigmaKappa*kappa) * exp(-mu),
// grounded on original_source/src/isle/cpp/hubbardFermiMatrixExp.hpp's
// doc comment for expKappa (species): exp(-kappa~+mu~) for particles and
// exp(-sigmaKappa*kappa~-mu~) for holes. The phase coupling block is
// identical to the DIA discretisation's, so it is shared via phaseBlock.
type expKernel struct{}

func (expKernel) name() string { return "exp" }

func (expKernel) k(kappa *linalg.DMat, mu float64, sigmaKappa int8, species Species) *linalg.DMat {
	nx := kappa.Rows()
	var arg *linalg.DMat
	var muFactor float64
	switch species {
	case Particle:
		arg = kappa.Scale(-1)
		muFactor = mu
	case Hole:
		arg = kappa.Scale(-float64(sigmaKappa))
		muFactor = -mu
	}
	ck := linalg.NewDense[complex128](nx, nx)
	for i := 0; i < nx; i++ {
		for j := 0; j < nx; j++ {
			ck.Set(i, j, complex(arg.Get(i, j), 0))
		}
	}
	expArg := linalg.Expm(ck)
	scale := complex(math.Exp(muFactor), 0)
	out := linalg.NewDense[float64](nx, nx)
	for i := 0; i < nx; i++ {
		for j := 0; j < nx; j++ {
			out.Set(i, j, real(expArg.Get(i, j)*scale))
		}
	}
	return out
}

func (expKernel) f(sigmaKappa int8, tp int, phi linalg.CDVec, nx int, species Species) *linalg.CDMat {
	return phaseBlock(sigmaKappa, tp, phi, nx, species)
}
