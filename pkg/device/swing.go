package device

import (
	"fmt"

	"github.com/edp1096/toy-atp/pkg/circuit"
	"github.com/edp1096/toy-atp/pkg/model"
	"github.com/edp1096/toy-atp/pkg/netlist"
	"github.com/edp1096/toy-atp/pkg/source"
)

const (
	thevBus  = "THEV_"
	swingBus = "SBUS_"
)

// Swing is the system equivalent behind the swing bus: a Thevenin source
// on THEV, a coupled branch to SBUS, and a measuring switch onto the bus.
// The impedance is the swing machine's Xd' and Ra when one is present.
type Swing struct {
	BaseDevice
	Bus     string
	Machine *model.Machine
	Voltage model.Voltage
}

func NewSwing(bus string, m *model.Machine, v model.Voltage) *Swing {
	return &Swing{BaseDevice: BaseDevice{Name: bus, Type: "Swing"}, Bus: bus, Machine: m, Voltage: v}
}

func (s *Swing) Emit(ctx *circuit.Context) Result {
	num, err := ctx.Number(s.Bus)
	if err != nil {
		return failed(fmt.Errorf("swing bus: %w", err))
	}
	kv := ctx.BusKV(s.Bus)

	mva, x1pu, r1pu := source.SwingMVA, source.SwingX1, source.SwingR1
	v := s.Voltage
	var p, q float64
	if m := s.Machine; m != nil {
		mva = 1e-6 * m.RatedS
		x1pu, r1pu = m.Xdp, m.Ra
		v = model.Voltage{Vpu: m.Vpu, Deg: m.Deg}
		p, q = 1e-6*m.P, 1e-6*m.Q
	}

	src := source.Type14Source(kv, mva, r1pu, x1pu, v, p, q)

	c := card{}
	c.add(banner("Swing Bus %s at %s", s.Bus, num)...)
	c.add(netlist.Source, netlist.SourceHeader)
	c.addErr(netlist.Type14(thevBus, src.Amplitude, src.Angle, src.TStart, src.TStop))
	c.add(netlist.Branch, netlist.BranchHeader)
	c.addErr(netlist.Coupled(thevBus, swingBus, src.R0, src.X0, src.R1, src.X1))
	c.add(netlist.Switch, netlist.SwitchHeader)
	for _, ph := range netlist.Phases {
		node, err := ctx.NodeName(s.Bus, ph)
		if err != nil {
			return failed(err)
		}
		c.addLine(netlist.Measuring(circuit.AtpNodeOf(swingBus, ph), node))
	}
	c.add(netlist.Branch)

	return c.result()
}
