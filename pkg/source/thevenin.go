package source

import (
	"math"
	"math/cmplx"

	"github.com/edp1096/toy-atp/internal/consts"
	"github.com/edp1096/toy-atp/pkg/model"
)

// Thevenin returns the voltage behind impedance Z = rpu + j xpu that
// delivers S = P + jQ into a terminal at vpu∠deg. Powers are on mvaBase.
func Thevenin(vpu, deg, rpu, xpu, pMW, qMVAr, mvaBase float64) (float64, float64) {
	s := complex(pMW/mvaBase, qMVAr/mvaBase)
	z := complex(rpu, xpu)
	vt := cmplx.Rect(vpu, deg/consts.RAD)
	i := cmplx.Conj(s / vt)
	vs := vt + z*i
	return cmplx.Abs(vs), cmplx.Phase(vs) * consts.RAD
}

// Type14 is a three-phase cosine source and its coupled series branch,
// amplitudes in peak V, angles in degrees, impedances in ohms.
type Type14 struct {
	Amplitude float64
	Angle     float64
	R1, X1    float64
	R0, X0    float64
	TStart    float64
	TStop     float64
}

// PeakPhase converts a per-unit line-to-line kV to a peak phase voltage.
func PeakPhase(vpu, kv float64) float64 {
	return vpu * kv * 1000.0 * consts.SQRT2 / consts.SQRT3
}

// Type14Source back-solves the voltage behind ra + j xdp (per unit on
// rmva) for the terminal state and dispatch, then shifts it by the
// step-up clock angle.
func Type14Source(kv, rmva, ra, xdp float64, v model.Voltage, pMW, qMVAr float64) Type14 {
	mag, deg := Thevenin(v.Vpu, v.Deg, ra, xdp, pMW, qMVAr, rmva)
	zbase := kv * kv / rmva
	src := Type14{
		Amplitude: PeakPhase(mag, kv),
		Angle:     deg + consts.GEN_SHIFT,
		R1:        ra * zbase,
		X1:        xdp * zbase,
		TStart:    consts.TSTART,
		TStop:     consts.TSTOP,
	}
	src.R0, src.X0 = src.R1, src.X1
	return src
}

// Swing equivalent when no machine sits on the swing bus
const (
	SwingMVA = 1000.0
	SwingX1  = 0.050
	SwingR1  = 0.005
)

// Initializer is a source present only for the steady-state solution,
// holding a bus at its solved voltage until t=0.
func Initializer(kv float64, v model.Voltage) Type14 {
	return Type14{
		Amplitude: PeakPhase(v.Vpu, kv),
		Angle:     v.Deg + consts.GEN_SHIFT,
		TStart:    consts.TSTART,
		TStop:     0.0,
	}
}

func degrees(y, x float64) float64 {
	return math.Atan2(y, x) * consts.RAD
}
