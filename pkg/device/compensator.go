package device

import (
	"fmt"

	"github.com/edp1096/toy-atp/pkg/circuit"
	"github.com/edp1096/toy-atp/pkg/model"
	"github.com/edp1096/toy-atp/pkg/netlist"
	"github.com/edp1096/toy-atp/pkg/reduce"
)

// Shunt writes a shunt capacitor or reactor as one branch to ground per
// phase.
type Shunt struct {
	BaseDevice
	model.ShuntComp
}

func NewShunt(s model.ShuntComp) *Shunt {
	return &Shunt{BaseDevice: BaseDevice{Name: s.ID, Type: "LinearShuntCompensator"}, ShuntComp: s}
}

func (s *Shunt) Emit(ctx *circuit.Context) Result {
	sh := reduce.ShuntBranch(s.ShuntComp)
	if sh.Kind == reduce.NoShunt {
		return skipped("no energized sections")
	}

	c := card{}
	if sh.Kind == reduce.Capacitor {
		c.add(banner("capacitor %s at %s is %.2f kVAR", s.ID, s.Bus, sh.KVAR)...)
	} else {
		c.add(banner("reactor %s at %s is %.2f kVAR", s.ID, s.Bus, -sh.KVAR)...)
	}
	c.add(netlist.RLCHeader, netlist.Vintage(1))
	for _, ph := range netlist.Phases {
		node, err := ctx.NodeName(s.Bus, ph)
		if err != nil {
			return failed(err)
		}
		c.addErr(netlist.RLC(node, "", 0.0, sh.X, sh.C))
	}
	c.add(netlist.Vintage(0))

	r := c.result()
	if r.Err == nil {
		ctx.Count.Shunts++
	}
	return r
}

// Series writes a series compensator: a coupled R-L branch for a
// reactor, three capacitor branches otherwise.
type Series struct {
	BaseDevice
	model.SeriesComp
}

func NewSeries(s model.SeriesComp) *Series {
	return &Series{BaseDevice: BaseDevice{Name: s.ID, Type: "SeriesCompensator"}, SeriesComp: s}
}

func (s *Series) Emit(ctx *circuit.Context) Result {
	bus1, err := ctx.BusName(s.Bus1)
	if err != nil {
		return failed(fmt.Errorf("bus1: %w", err))
	}
	bus2, err := ctx.BusName(s.Bus2)
	if err != nil {
		return failed(fmt.Errorf("bus2: %w", err))
	}

	br, err := reduce.SeriesBranch(s.SeriesComp)
	if err != nil {
		return failed(err)
	}
	c := card{}
	if br.Reactor {
		c.add(banner("series reactor %s from %s to %s", s.ID, s.Bus1, s.Bus2)...)
		c.add(netlist.BranchHeader)
		c.addErr(netlist.Coupled(bus1, bus2, br.R0, br.X0, br.R, br.X))
	} else {
		c.add(banner("series capacitor %s from %s to %s", s.ID, s.Bus1, s.Bus2)...)
		c.add(netlist.BranchHeader)
		for _, ph := range netlist.Phases {
			c.addLine(netlist.SeriesCapacitor(circuit.AtpNodeOf(bus1, ph), circuit.AtpNodeOf(bus2, ph), br.C))
		}
	}

	r := c.result()
	if r.Err == nil {
		ctx.Count.Series++
	}
	return r
}
