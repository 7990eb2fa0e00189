package numeric

import "hubbardmc/linalg"

// LoopIdx implements periodic wrap: LoopIdx(i, n) = i mod n, always in [0, n).
func LoopIdx(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// SpacetimeCoord maps a spatial site i and time slice t to the flat
// spacetime index used to lay out phi, i*Nt + t.
func SpacetimeCoord(i, t, nt int) int {
	return i*nt + t
}

// SpaceVec extracts the length-Nx spatial slice of v at time slice t.
func SpaceVec(v linalg.CDVec, t, nx, nt int) linalg.CDVec {
	out := make(linalg.CDVec, nx)
	for i := 0; i < nx; i++ {
		out[i] = v[SpacetimeCoord(i, t, nt)]
	}
	return out
}

// SpaceMat extracts the Nx x Nx block at block-row t1, block-column t2 of
// an (Nx*Nt) x (Nx*Nt) matrix laid out with the same i*Nt+t convention.
func SpaceMat(m *linalg.CDMat, t1, t2, nx, nt int) *linalg.CDMat {
	out := linalg.NewDense[complex128](nx, nx)
	for i := 0; i < nx; i++ {
		for j := 0; j < nx; j++ {
			out.Set(i, j, m.Get(SpacetimeCoord(i, t1, nt), SpacetimeCoord(j, t2, nt)))
		}
	}
	return out
}
