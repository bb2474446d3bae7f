package reduce

import (
	"errors"

	"github.com/edp1096/toy-atp/internal/consts"
	"github.com/edp1096/toy-atp/pkg/model"
)

type ShuntKind int

const (
	NoShunt ShuntKind = iota
	Capacitor
	Reactor
)

// Shunt is the per-phase branch to ground of a shunt compensator: C in µF
// for a capacitor, X in ohms for a reactor.
type Shunt struct {
	Kind ShuntKind
	KVAR float64
	C    float64
	X    float64
}

// ShuntBranch sizes the branch from the net three-phase kvar of all
// energized sections; the sign of the susceptance picks the kind.
func ShuntBranch(s model.ShuntComp) Shunt {
	kv := 0.001 * s.NomU
	sh := Shunt{KVAR: 1000.0 * s.BSection * s.Sections * kv * kv}
	switch {
	case sh.KVAR > 0.0:
		sh.Kind = Capacitor
		sh.C = 1000.0 * sh.KVAR / kv / kv / consts.OMEGA
	case sh.KVAR < 0.0:
		sh.Kind = Reactor
		sh.X = -1000.0 * kv * kv / sh.KVAR
	}
	return sh
}

// Series is a series compensator: a coupled R-L reactor with zero and
// positive sequence values when X is positive, a capacitor of C µF otherwise.
type Series struct {
	Reactor bool
	R, X    float64
	R0, X0  float64
	C       float64
}

var ErrZeroReactance = errors.New("series compensator has zero reactance")

func SeriesBranch(s model.SeriesComp) (Series, error) {
	switch {
	case s.X > 0.0:
		return Series{Reactor: true, R: s.R, X: s.X, R0: s.R0, X0: s.X0}, nil
	case s.X < 0.0:
		return Series{C: -1.0e6 / s.X / consts.OMEGA}, nil
	}
	return Series{}, ErrZeroReactance
}
