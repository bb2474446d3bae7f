package device

import (
	"fmt"

	"github.com/edp1096/toy-atp/internal/consts"
	"github.com/edp1096/toy-atp/pkg/circuit"
	"github.com/edp1096/toy-atp/pkg/model"
	"github.com/edp1096/toy-atp/pkg/netlist"
	"github.com/edp1096/toy-atp/pkg/source"
)

// Machine writes one (possibly aggregated) synchronous machine. With a
// governor, exciter and stabilizer it is a SYNCMACH include; otherwise,
// or when Type14 is set, a voltage behind Xd' on a scratch bus.
type Machine struct {
	BaseDevice
	model.Machine
	Gov    *model.Governor
	Exc    *model.Exciter
	Pss    *model.Stabilizer
	Swing  bool
	Type14 bool
	Opts   source.MachineOptions
}

func NewMachine(m model.Machine) *Machine {
	return &Machine{BaseDevice: BaseDevice{Name: m.ID, Type: "SynchronousMachine"}, Machine: m}
}

func (m *Machine) Emit(ctx *circuit.Context) Result {
	bus, err := ctx.BusName(m.Bus)
	if err != nil {
		return failed(err)
	}
	kv := 0.001 * m.RatedU
	mva := 1e-6 * m.RatedS
	mw, mvar := 1e-6*m.P, 1e-6*m.Q

	var warnings []string
	if m.Ra < 0.0 {
		warnings = append(warnings, fmt.Sprintf("negative armature resistance %g", m.Ra))
	}

	if m.Swing {
		ctx.Count.Machines++
		ctx.Count.MachineMVA += mva
		return Result{
			Lines:    banner("SyncMachine %s at %s is %.2f MVA, part of Swing Bus", m.ID, m.Bus, mva),
			Warnings: warnings,
		}
	}

	c := card{}
	c.add(banner("SyncMachine %s at %s is %.2f MVA, %.2f MW, %.2f MVAR", m.ID, m.Bus, mva, mw, mvar)...)

	controlled := m.Gov != nil && m.Exc != nil && m.Pss != nil
	if !m.Type14 && !controlled {
		warnings = append(warnings, "missing governor, exciter or stabilizer, written as type-14 source")
	}

	gen := &GenRecord{KV: kv, S: mva, P: mw, Q: mvar, Vmag: m.Vpu, Vang: m.Deg, Type: "SyncMach"}
	var dummy int
	if m.Type14 || !controlled {
		genbus, err := ctx.NextScratchBus()
		if err != nil {
			return failed(err)
		}
		src := source.Type14Source(kv, mva, m.Ra, m.Xdp, model.Voltage{Vpu: m.Vpu, Deg: m.Deg}, mw, mvar)
		c.add(netlist.Source, netlist.SourceHeader)
		c.addErr(netlist.Type14(genbus, src.Amplitude, src.Angle, src.TStart, src.TStop))
		c.add(netlist.Branch, netlist.BranchHeader)
		c.addErr(netlist.Coupled(bus, genbus, src.R0, src.X0, src.R1, src.X1))
		gen.Source = strPtr("14")
		gen.Bus = genbus
	} else {
		name := fmt.Sprintf("SM%03d", ctx.Count.Machines+1)
		params := source.MachineCard(m.Machine, *m.Gov, *m.Exc, *m.Pss, m.Opts)
		c.addErr(netlist.SyncMachine(bus, name, params))
		for _, cl := range params.Clamped {
			warnings = append(warnings, "clamped "+cl)
		}
		gen.Source = strPtr("59")
		gen.Bus = bus
		dummy = consts.MACHINE_DUM_NODES
	}

	r := c.result()
	r.Warnings = warnings
	if r.Err != nil {
		return r
	}
	ctx.Count.Machines++
	ctx.Count.MachineMVA += mva
	r.DummyNodes = dummy
	r.Gen = gen
	return r
}
