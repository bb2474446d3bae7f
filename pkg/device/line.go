package device

import (
	"fmt"

	"github.com/edp1096/toy-atp/pkg/circuit"
	"github.com/edp1096/toy-atp/pkg/model"
	"github.com/edp1096/toy-atp/pkg/netlist"
	"github.com/edp1096/toy-atp/pkg/reduce"
)

// Line writes a transposed line as a Bergeron or a coupled lumped
// branch, whichever the travel time allows.
type Line struct {
	BaseDevice
	model.Line
}

func NewLine(l model.Line) *Line {
	return &Line{BaseDevice: BaseDevice{Name: l.ID, Type: "ACLineSegment"}, Line: l}
}

func (l *Line) Emit(ctx *circuit.Context) Result {
	bus1, err := ctx.BusName(l.Bus1)
	if err != nil {
		return failed(fmt.Errorf("bus1: %w", err))
	}
	bus2, err := ctx.BusName(l.Bus2)
	if err != nil {
		return failed(fmt.Errorf("bus2: %w", err))
	}

	lm := reduce.SelectLineModel(l.Line)
	c := card{}
	c.add(banner("line %s from %s to %s", l.ID, l.Bus1, l.Bus2)...)
	c.add(netlist.Comment("  per-instance sequence parameters for %.2fkm", lm.Km))

	ph := lm.Phase
	if lm.Kind == reduce.Bergeron {
		c.addErr(netlist.Bergeron(bus1, bus2,
			lm.Zero.RPerKm, lm.Zero.Z, lm.Zero.Tau,
			lm.Positive.RPerKm, lm.Positive.Z, lm.Positive.Tau, lm.Km))
	} else {
		c.addErr(netlist.LumpedLine(bus1, bus2, ph.Rs, ph.Xs, ph.Cs, ph.Rm, ph.Xm, ph.Cm))
	}

	r := c.result()
	if r.Err == nil {
		ctx.Count.Lines++
	}
	for _, w := range lm.Warnings {
		r.Warnings = append(r.Warnings, fmt.Sprintf("%s, %s model", w, lm.Kind))
	}
	return r
}
