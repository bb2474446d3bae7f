package source

import (
	"math"

	"github.com/edp1096/toy-atp/internal/consts"
	"github.com/edp1096/toy-atp/pkg/model"
)

// IBRParams is the argument list of the IBR include, on the plant rating.
type IBRParams struct {
	VBase float64 // V
	SBase float64 // VA
	IBase float64 // A
	Ppu   float64
	Qpu   float64
	Vpu   float64
	IMax  float64 // A rms per phase
}

// NewIBRParams maps a plant to the IBR include. The current limit is
// Ipu on the rated phase current, 1.0 when the plant carries none.
func NewIBRParams(r model.IBR) IBRParams {
	ipu := r.Ipu
	if ipu == 0.0 {
		ipu = 1.0
	}
	return IBRParams{
		VBase: r.RatedU,
		SBase: r.RatedS,
		IBase: r.RatedS / r.RatedU,
		Ppu:   r.P / r.RatedS,
		Qpu:   r.Q / r.RatedS,
		Vpu:   1.0,
		IMax:  ipu * r.RatedS / consts.SQRT3 / r.RatedU,
	}
}

// PVParams is the argument list of the TACSPV1/2/3 includes.
type PVParams struct {
	W       float64 // W
	IMax    float64 // A rms
	VTrip   float64 // V
	TTrip   float64 // s
	PFAngle float64 // deg
	VBase   float64 // V across the inverter terminals
}

const tripTime = 0.16

// PVLimits sizes the current limit and undervoltage trip of a current
// source inverter with nph terminals: single-phase units see phase
// voltage, two-phase units line voltage.
func PVLimits(w, q, ratedS, ratedU, ipu float64, nph int) PVParams {
	p := PVParams{W: w, TTrip: tripTime, VBase: ratedU}
	if q != 0.0 && w != 0.0 {
		p.PFAngle = degrees(q, w)
	}
	if math.Abs(p.PFAngle) < 0.001 || math.Abs(p.PFAngle) > 100.0 || p.PFAngle < 0.0 {
		p.PFAngle = 0.0
	}

	p.VTrip = 0.5 * ratedU / consts.SQRT3
	switch nph {
	case 1:
		p.VBase = ratedU / consts.SQRT3
		p.IMax = ipu * ratedS / p.VBase
	case 2:
		p.VTrip = 0.5 * ratedU
		p.IMax = ipu * ratedS / ratedU
	default:
		p.IMax = ipu * ratedS / ratedU / consts.SQRT3
	}
	return p
}

// DERLimits treats a negative load as a unity power factor three-phase
// inverter rated at its own output with 10% current headroom.
func DERLimits(w, basev float64) PVParams {
	return PVParams{
		W:     w,
		IMax:  1.1 * w / basev / consts.SQRT3,
		VTrip: 0.5 * basev / consts.SQRT3,
		TTrip: tripTime,
		VBase: basev,
	}
}

// OverlayIBR replaces the dispatch of each plant with the solved
// injections of genType at its bus, taken in file order per bus. Input
// records are not modified.
func OverlayIBR(plants []model.IBR, ic *model.InitialConditions, genType int) []model.IBR {
	out := make([]model.IBR, len(plants))
	used := make(map[string]int)
	for i, r := range plants {
		if gens := ic.GensAt(r.Bus, genType); used[r.Bus] < len(gens) {
			g := gens[used[r.Bus]]
			r.P = 1e6 * g.P
			r.Q = 1e6 * g.Q
			used[r.Bus]++
		}
		out[i] = r
	}
	return out
}
