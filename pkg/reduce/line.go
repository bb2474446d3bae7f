package reduce

import (
	"math"

	"github.com/edp1096/toy-atp/internal/consts"
	"github.com/edp1096/toy-atp/pkg/model"
)

type LineKind int

const (
	Lumped LineKind = iota
	Bergeron
)

func (k LineKind) String() string {
	if k == Bergeron {
		return "bergeron"
	}
	return "lumped"
}

// PhaseParams are the self and mutual phase-domain values of a balanced
// line: ohms, ohms, and µF.
type PhaseParams struct {
	Rs, Rm float64
	Xs, Xm float64
	Cs, Cm float64
}

// SequenceToPhase applies the 0-1-2 to a-b-c similarity transform to the
// total sequence parameters of a line.
func SequenceToPhase(l model.Line) PhaseParams {
	return PhaseParams{
		Rs: (l.R0 + 2.0*l.R) / 3.0,
		Rm: (l.R0 - l.R) / 3.0,
		Xs: (l.X0 + 2.0*l.X) / 3.0,
		Xm: (l.X0 - l.X) / 3.0,
		Cs: 1.0e6 * (l.B0 + 2.0*l.B) / 3.0 / consts.OMEGA,
		Cm: 1.0e6 * (l.B0 - l.B) / 3.0 / consts.OMEGA,
	}
}

// Wave is one sequence of the traveling-wave model.
type Wave struct {
	RPerKm float64
	Z      float64 // surge impedance, ohm
	Tau    float64 // travel time, s
}

type LineModel struct {
	Kind     LineKind
	Phase    PhaseParams
	Zero     Wave
	Positive Wave
	Km       float64
	Warnings []string
}

// SelectLineModel picks Bergeron when the line has shunt capacitance and
// both sequence travel times reach MIN_BERGERON_TAU, lumped otherwise.
func SelectLineModel(l model.Line) LineModel {
	ph := SequenceToPhase(l)
	lm := LineModel{Kind: Lumped, Phase: ph, Km: 0.001 * l.Length}

	if ph.Rs < 0.0 || ph.Rm < 0.0 {
		lm.Warnings = append(lm.Warnings, "negative resistance")
	}
	if ph.Cs <= 0.0 || lm.Km <= 0.0 {
		return lm
	}

	l0 := (ph.Xs + 2*ph.Xm) / consts.OMEGA
	c0 := 1.0e-6 * (ph.Cs + 2*ph.Cm)
	l1 := (ph.Xs - ph.Xm) / consts.OMEGA
	c1 := 1.0e-6 * (ph.Cs - ph.Cm)
	if l0 <= 0 || c0 <= 0 || l1 <= 0 || c1 <= 0 {
		return lm
	}

	lm.Zero = Wave{
		RPerKm: (ph.Rs + 2*ph.Rm) / lm.Km,
		Z:      math.Sqrt(l0 / c0),
		Tau:    math.Sqrt(l0 * c0),
	}
	lm.Positive = Wave{
		RPerKm: (ph.Rs - ph.Rm) / lm.Km,
		Z:      math.Sqrt(l1 / c1),
		Tau:    math.Sqrt(l1 * c1),
	}
	if math.Min(lm.Zero.Tau, lm.Positive.Tau) >= consts.MIN_BERGERON_TAU {
		lm.Kind = Bergeron
	}
	return lm
}
