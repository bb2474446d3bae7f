package reduce

import (
	"fmt"

	"github.com/edp1096/toy-atp/internal/consts"
	"github.com/edp1096/toy-atp/pkg/model"
)

// LoadBranch is the constant-impedance equivalent of a load at its
// operating point. R and X are ohms per phase, C is µF per phase.
// Generation marks a non-positive P, which belongs to the DER emitter.
type LoadBranch struct {
	Phases     int
	Delta      bool
	KW         float64
	KVAR       float64
	R          float64
	X          float64
	C          float64
	Generation bool
	Warnings   []string
}

// LinearizeLoad scales P and Q by mult and converts them to per-phase
// impedance across the phase (wye) or line (delta) voltage.
func LinearizeLoad(l model.Load, mult float64) LoadBranch {
	const nph = 3
	kv := 0.001 * l.BaseV
	lb := LoadBranch{
		Phases: nph,
		Delta:  l.Conn == model.Delta,
		KW:     0.001 * l.P * mult,
		KVAR:   0.001 * l.Q * mult,
	}

	kvld := kv / consts.SQRT3
	if lb.Delta {
		kvld = kv
	}
	if z := l.ZIP; z != nil && (z.IP != 0 || z.PP != 0 || z.IQ != 0 || z.PQ != 0) {
		lb.Warnings = append(lb.Warnings, fmt.Sprintf("ZIP %.0f/%.0f/%.0f linearized at the operating point", z.ZP, z.IP, z.PP))
	}

	if lb.KW <= 0.0 {
		lb.Generation = true
		return lb
	}

	v2 := nph * 1000.0 * kvld * kvld
	lb.R = v2 / lb.KW
	switch {
	case lb.KVAR > 0.0:
		lb.X = v2 / lb.KVAR
	case lb.KVAR < 0.0:
		xc := -v2 / lb.KVAR
		lb.C = 1.0e6 / consts.OMEGA / xc
	}
	return lb
}
