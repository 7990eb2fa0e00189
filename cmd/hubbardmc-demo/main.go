package main

import (
	"flag"
	"fmt"
	"log"
	"math"

	"hubbardmc/action"
	"hubbardmc/linalg"
)

func main() {
	nx := flag.Int("nx", 4, "number of spatial sites in the ring lattice")
	nt := flag.Int("nt", 8, "number of time slices")
	beta := flag.Float64("beta", 2.0, "inverse temperature")
	u := flag.Float64("U", 2.0, "on-site interaction strength")
	mu := flag.Float64("mu", 0.0, "chemical potential")
	hopping := flag.String("hopping", "dia", "hopping discretisation: dia or exp")
	algorithm := flag.String("algorithm", "direct_single", "force algorithm: direct_single or direct_square")
	basis := flag.String("basis", "particle_hole", "Hubbard-Stratonovich basis: particle_hole or spin")
	flag.Parse()

	hop, err := parseHopping(*hopping)
	if err != nil {
		log.Fatal(err)
	}
	alg, err := parseAlgorithm(*algorithm)
	if err != nil {
		log.Fatal(err)
	}
	bas, err := parseBasis(*basis)
	if err != nil {
		log.Fatal(err)
	}

	kappa := ringHopping(*nx)
	kappaTilde := kappa.Scale(*beta / float64(*nt))

	fermi, err := action.NewHubbardFermiAction(kappaTilde, *mu, 1, hop, alg, bas)
	if err != nil {
		log.Fatal(err)
	}
	gauge, err := action.NewHubbardGaugeAction(*u)
	if err != nil {
		log.Fatal(err)
	}
	total := action.NewSumAction(gauge, fermi)

	phi := make(linalg.CDVec, *nx**nt)
	for i := range phi {
		phi[i] = complex(0.01*float64(i%7), 0)
	}

	s, err := total.Eval(phi)
	if err != nil {
		log.Fatal(err)
	}
	f, err := total.Force(phi)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Nx=%d Nt=%d beta=%.3f U=%.3f mu=%.3f hopping=%s algorithm=%s basis=%s\n",
		*nx, *nt, *beta, *u, *mu, hop, alg, bas)
	fmt.Printf("S(phi)   = %v\n", s)
	fmt.Printf("|F(phi)| = %.6f\n", norm(f))
}

func parseHopping(s string) (action.Hopping, error) {
	switch s {
	case "dia":
		return action.DIA, nil
	case "exp":
		return action.EXP, nil
	default:
		return 0, fmt.Errorf("unknown hopping %q, want dia or exp", s)
	}
}

func parseAlgorithm(s string) (action.Algorithm, error) {
	switch s {
	case "direct_single":
		return action.DirectSingle, nil
	case "direct_square":
		return action.DirectSquare, nil
	default:
		return 0, fmt.Errorf("unknown algorithm %q, want direct_single or direct_square", s)
	}
}

func parseBasis(s string) (action.Basis, error) {
	switch s {
	case "particle_hole":
		return action.ParticleHole, nil
	case "spin":
		return action.Spin, nil
	default:
		return 0, fmt.Errorf("unknown basis %q, want particle_hole or spin", s)
	}
}

// ringHopping builds the adjacency matrix of a periodic 1D ring of nx sites.
func ringHopping(nx int) *linalg.DMat {
	k := linalg.NewDense[float64](nx, nx)
	for i := 0; i < nx; i++ {
		j := (i + 1) % nx
		k.Set(i, j, 1)
		k.Set(j, i, 1)
	}
	return k
}

func norm(v linalg.CDVec) float64 {
	var sum float64
	for _, x := range v {
		sum += real(x)*real(x) + imag(x)*imag(x)
	}
	return math.Sqrt(sum)
}
