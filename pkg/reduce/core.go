package reduce

import (
	"fmt"

	"github.com/edp1096/toy-atp/internal/consts"
	"github.com/edp1096/toy-atp/pkg/model"
)

// Magnetizing is the magnetizing branch of the saturable transformer card,
// referred to the canonical winding. Curve holds the (peak A, peak V-s)
// points written under the header; its first point is (Iss, Fss).
type Magnetizing struct {
	Winding int // 0-based index of the canonical winding
	Iss     float64
	Fss     float64
	Rmag    float64
	Curve   []model.SatPoint
}

// CanonicalWinding is the winding with the lowest impedance base U²/S;
// ties go to the lower index.
func CanonicalWinding(wdgs []model.Winding) int {
	best := 0
	for i := 1; i < len(wdgs); i++ {
		if zbase(wdgs[i]) < zbase(wdgs[best]) {
			best = i
		}
	}
	return best
}

func zbase(w model.Winding) float64 {
	return w.RatedU * w.RatedU / w.RatedS
}

// CoreWindingOrder is the card order of the windings: canonical first, the
// others in model order.
func CoreWindingOrder(wdgs []model.Winding) []int {
	c := CanonicalWinding(wdgs)
	order := []int{c}
	for i := range wdgs {
		if i != c {
			order = append(order, i)
		}
	}
	return order
}

// CoreBranch re-references the core admittance (and any explicit saturation
// points) from winding core.Enum to the canonical winding, then derives
// the steady-state magnetizing point. Floors replace a zero susceptance or
// conductance and are reported as warnings.
func CoreBranch(wdgs []model.Winding, core model.Core) (Magnetizing, []string) {
	var warnings []string

	c := CanonicalWinding(wdgs)
	e := core.Enum - 1
	if e < 0 || e >= len(wdgs) {
		warnings = append(warnings, fmt.Sprintf("core winding %d out of range, using winding %d", core.Enum, c+1))
		e = c
	}

	// admittance scales with the square of the turns ratio
	ratio := wdgs[e].RatedU / wdgs[c].RatedU
	g := core.G * ratio * ratio
	b := core.B * ratio * ratio

	coreV := wdgs[c].RatedU
	coreS := wdgs[c].RatedS / 3.0
	if wdgs[c].Conn == model.Wye {
		coreV /= consts.SQRT3
	}

	br := Magnetizing{Winding: c}
	br.Fss = coreV / consts.OMEGA * consts.SQRT2
	if g > 0.0 {
		br.Rmag = 1.0 / g
	} else {
		br.Rmag = coreV * coreV / consts.MIN_PNLL / coreS
		warnings = append(warnings, fmt.Sprintf("no core loss, Rmag floored at %.4g ohm", br.Rmag))
	}

	floor := consts.MIN_IMAG * consts.SQRT2 * coreS / coreV
	if b > 0.0 {
		br.Iss = consts.SQRT2 * b * coreV
	} else {
		br.Iss = floor
		warnings = append(warnings, fmt.Sprintf("no magnetizing susceptance, Iss floored at %.4g A", br.Iss))
	}

	if len(core.Saturation) == 0 {
		br.Curve = []model.SatPoint{{Current: br.Iss, Flux: br.Fss}}
		return br, warnings
	}

	// current scales with the turns ratio, flux against it
	for i, p := range core.Saturation {
		pt := model.SatPoint{Current: p.Current * ratio, Flux: p.Flux / ratio}
		if pt.Current < floor {
			warnings = append(warnings, fmt.Sprintf("saturation point %d current %.4g A below floor", i+1, pt.Current))
			pt.Current = floor
		}
		br.Curve = append(br.Curve, pt)
	}
	br.Iss = br.Curve[0].Current
	br.Fss = br.Curve[0].Flux
	return br, warnings
}
