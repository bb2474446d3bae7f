package reduce

import (
	"errors"
	"fmt"

	"github.com/edp1096/toy-atp/internal/consts"
	"github.com/edp1096/toy-atp/pkg/matrix"
	"github.com/edp1096/toy-atp/pkg/model"
)

var (
	ErrWindingCount = errors.New("only 2 or 3 windings supported")
	ErrMissingMesh  = errors.New("no mesh impedance for winding pair")
)

// Star is the per-winding branch of the star equivalent: R and X in ohms
// on the winding's own voltage base, V in kV across the winding.
type Star struct {
	R []float64
	X []float64
	V []float64
}

// StarEquivalent reduces the pairwise mesh impedances of a 2 or 3 winding
// transformer to one branch per winding. Off-nominal taps scale V; delta
// windings get 3x impedance.
func StarEquivalent(wdgs []model.Winding, meshes []model.Mesh, taps []model.Tap) (Star, error) {
	n := len(wdgs)
	if n < 2 || n > 3 {
		return Star{}, fmt.Errorf("%d windings: %w", n, ErrWindingCount)
	}

	sBase := wdgs[CanonicalWinding(wdgs)].RatedS
	zBase := make([]float64, n)
	for i, w := range wdgs {
		zBase[i] = w.RatedU * w.RatedU / sBase
	}

	// one equation per pair, rows ordered so every diagonal is occupied
	pairs := [][2]int{{0, 1}, {1, 2}, {2, 0}}
	if n == 2 {
		pairs = pairs[:1]
	}
	rpu := make([]float64, len(pairs))
	xpu := make([]float64, len(pairs))
	for k, p := range pairs {
		m, ok := findMesh(meshes, p[0]+1, p[1]+1)
		if !ok {
			return Star{}, fmt.Errorf("windings %d-%d: %w", p[0]+1, p[1]+1, ErrMissingMesh)
		}
		zb := zBase[m.From-1]
		rpu[k] = m.R / zb
		xpu[k] = m.X / zb
	}

	rs, err := solvePairs(n, pairs, rpu)
	if err != nil {
		return Star{}, fmt.Errorf("star resistance: %w", err)
	}
	xs, err := solvePairs(n, pairs, xpu)
	if err != nil {
		return Star{}, fmt.Errorf("star reactance: %w", err)
	}

	star := Star{
		R: make([]float64, n),
		X: make([]float64, n),
		V: make([]float64, n),
	}
	for i, w := range wdgs {
		star.R[i] = rs[i] * zBase[i]
		star.X[i] = xs[i] * zBase[i]
		star.V[i] = WindingKV(w)
	}

	for _, t := range taps {
		i := t.WNum - 1
		if i < 0 || i >= n {
			continue
		}
		star.V[i] *= t.Ratio()
	}

	for i, w := range wdgs {
		if w.Conn == model.Delta {
			star.R[i] *= 3.0
			star.X[i] *= 3.0
		}
	}
	return star, nil
}

// WindingKV is the voltage across one winding: line-to-line for delta,
// line-to-neutral for wye.
func WindingKV(w model.Winding) float64 {
	if w.Conn == model.Delta {
		return w.RatedU * 0.001
	}
	return w.RatedU * 0.001 / consts.SQRT3
}

func findMesh(meshes []model.Mesh, i, j int) (model.Mesh, bool) {
	for _, m := range meshes {
		if (m.From == i && m.To == j) || (m.From == j && m.To == i) {
			return m, true
		}
	}
	return model.Mesh{}, false
}

// solvePairs solves z_i + z_j = value for every pair. With two windings the
// second row splits the single pair in half.
func solvePairs(n int, pairs [][2]int, values []float64) ([]float64, error) {
	sys, err := matrix.NewSystem(n)
	if err != nil {
		return nil, err
	}
	defer sys.Destroy()

	stampPairs(sys, n, pairs, values)
	if err := sys.Solve(); err != nil {
		return nil, err
	}

	x := sys.Solution()
	z := make([]float64, n)
	copy(z, x[1:n+1])
	return z, nil
}

func stampPairs(m matrix.DeviceMatrix, n int, pairs [][2]int, values []float64) {
	for k, p := range pairs {
		row := k + 1
		m.AddElement(row, p[0]+1, 1.0)
		m.AddElement(row, p[1]+1, 1.0)
		m.AddRHS(row, values[k])
	}
	if n == 2 {
		m.AddElement(2, 1, -1.0)
		m.AddElement(2, 2, 1.0)
	}
}
