package device

import (
	"fmt"

	"github.com/edp1096/toy-atp/internal/consts"
	"github.com/edp1096/toy-atp/pkg/circuit"
	"github.com/edp1096/toy-atp/pkg/model"
	"github.com/edp1096/toy-atp/pkg/netlist"
	"github.com/edp1096/toy-atp/pkg/source"
)

type IBRKind int

const (
	Solar IBRKind = iota
	Wind
)

func (k IBRKind) String() string {
	if k == Wind {
		return "wind"
	}
	return "solar"
}

func (k IBRKind) label() string {
	if k == Wind {
		return "Wind"
	}
	return "Solar"
}

// IBR writes a solar or wind plant as the IBR include. When the bus has a
// solved voltage, a source holds it there until t=0.
type IBR struct {
	BaseDevice
	model.IBR
	Kind    IBRKind
	Voltage *model.Voltage
}

func NewIBR(r model.IBR, kind IBRKind, v *model.Voltage) *IBR {
	typ := "PhotoVoltaicUnit"
	if kind == Wind {
		typ = "WindGeneratingUnit"
	}
	return &IBR{BaseDevice: BaseDevice{Name: r.ID, Type: typ}, IBR: r, Kind: kind, Voltage: v}
}

func (g *IBR) Emit(ctx *circuit.Context) Result {
	if nph := len(model.PhaseList(g.Phases)); nph != 3 {
		return skipped(fmt.Sprintf("%d-phase %s plant", nph, g.Kind))
	}
	bus, err := ctx.BusName(g.Bus)
	if err != nil {
		return failed(err)
	}
	kv := ctx.BusKV(g.Bus)

	n := ctx.Count.Solar + ctx.Count.Wind + 1
	name := fmt.Sprintf("IBR%02d", n)
	params := source.NewIBRParams(g.IBR)

	c := card{}
	c.add(banner("%s %s at %s is %.3f MVA producing %.3f MW", g.Kind, g.ID, g.Bus, 1e-6*g.RatedS, 1e-6*g.P)...)
	c.addErr(netlist.IBR(bus, name, params))
	if g.Voltage != nil {
		src := source.Initializer(kv, *g.Voltage)
		c.add(netlist.Source, netlist.SourceHeader)
		c.addErr(netlist.Type14(bus, src.Amplitude, src.Angle, src.TStart, src.TStop))
		c.add(netlist.Branch)
	}

	r := c.result()
	if r.Err != nil {
		return r
	}
	if g.Kind == Wind {
		ctx.Count.Wind++
		ctx.Count.WindMW += 1e-6 * g.P
		r.DummyNodes = consts.WIND_DUM_NODES
	} else {
		ctx.Count.Solar++
		ctx.Count.SolarMW += 1e-6 * g.P
		r.DummyNodes = consts.SOLAR_DUM_NODES
	}

	v := model.Voltage{Vpu: 1.0}
	if g.Voltage != nil {
		v = *g.Voltage
	}
	r.Gen = &GenRecord{
		Type: g.Kind.label(),
		Bus:  bus,
		KV:   kv,
		S:    1e-6 * g.RatedS,
		P:    1e-6 * g.P,
		Q:    1e-6 * g.Q,
		Vmag: v.Vpu,
		Vang: v.Deg,
	}
	return r
}

// Storage writes a battery as a current source inverter, choosing the
// include by the number of connected phases.
type Storage struct {
	BaseDevice
	model.Storage
}

func NewStorage(s model.Storage) *Storage {
	return &Storage{BaseDevice: BaseDevice{Name: s.ID, Type: "BatteryUnit"}, Storage: s}
}

func (s *Storage) Emit(ctx *circuit.Context) Result {
	num, err := ctx.Number(s.Bus)
	if err != nil {
		return failed(err)
	}
	phases := model.PhaseList(s.Phases)
	nph := len(phases)
	params := source.PVLimits(s.MaxP, s.Q, s.RatedS, s.RatedU, s.Ipu, nph)
	name := fmt.Sprintf("ST%03d", ctx.Count.Storage+1)

	head := banner("storage %s at %s is %.3f kVA discharging max %.3f kW", s.ID, s.Bus, 0.001*s.RatedS, 0.001*s.MaxP)
	c := card{}
	c.add(head...)

	var dummy int
	switch nph {
	case 1:
		node, err := circuit.AtpNode(num, phases[0])
		if err != nil {
			return failed(err)
		}
		c.addErr(netlist.TACSPV1(node, name, params))
		dummy = consts.PV1_DUM_NODES
	case 2:
		n1, err := circuit.AtpNode(num, phases[0])
		if err != nil {
			return failed(err)
		}
		n2, err := circuit.AtpNode(num, phases[1])
		if err != nil {
			return failed(err)
		}
		c.addErr(netlist.TACSPV2(n1, n2, name, params))
		dummy = consts.PV2_DUM_NODES
	case 3:
		bus, err := circuit.AtpBus(num)
		if err != nil {
			return failed(err)
		}
		c.addErr(netlist.TACSPV3(bus, name, params))
		dummy = consts.PV3_DUM_NODES
	default:
		return skipped(fmt.Sprintf("%d-phase storage", nph),
			append(head, netlist.Comment("*** %d-phase call is not supported", nph))...)
	}

	r := c.result()
	if r.Err != nil {
		return r
	}
	ctx.Count.Storage++
	ctx.Count.StorageMW += 1e-6 * s.MaxP
	r.DummyNodes = dummy
	return r
}
