package convert

import (
	"github.com/edp1096/toy-atp/pkg/device"
	"github.com/edp1096/toy-atp/pkg/model"
	"github.com/edp1096/toy-atp/pkg/netlist"
)

const (
	StageInit = iota
	StageSource
	StageTransformers
	StageLines
	StageSwitches
	StageCompensators
	StageLoads
	StageIBR
	StageMachines
	StageFinalize
)

var stageNames = []string{
	"INIT", "SOURCE", "TRANSFORMERS", "LINES", "SWITCHES",
	"SHUNTS/SERIES", "LOADS", "IBR", "MACHINES", "FINALIZE",
}

func StageName(s int) string {
	if s < 0 || s >= len(stageNames) {
		return "UNKNOWN"
	}
	return stageNames[s]
}

// stage is one emission step: the devices in model order and the section
// lines that open and close it when it writes anything.
type stage struct {
	id      int
	devices []device.Device
	open    []string
	close   []string
}

func (c *Converter) stages() []stage {
	net := c.net
	var st []stage

	xf := stage{id: StageTransformers}
	for _, t := range net.Transformers {
		if !c.valid(StageTransformers, model.ClassTransformer, t.ID) {
			continue
		}
		xf.devices = append(xf.devices, device.NewTransformer(t))
	}
	st = append(st, xf)

	ln := stage{id: StageLines}
	for _, l := range net.Lines {
		if !c.valid(StageLines, model.ClassLine, l.ID) {
			continue
		}
		ln.devices = append(ln.devices, device.NewLine(l))
	}
	st = append(st, ln)

	sw := stage{
		id:    StageSwitches,
		open:  []string{netlist.Switch, netlist.SwitchHeader},
		close: []string{netlist.Branch},
	}
	for _, b := range net.Breakers {
		if !c.valid(StageSwitches, model.ClassBreaker, b.ID) {
			continue
		}
		sw.devices = append(sw.devices, device.NewBreaker(b))
	}
	st = append(st, sw)

	comp := stage{id: StageCompensators}
	for _, s := range net.Shunts {
		if !c.valid(StageCompensators, model.ClassShunt, s.ID) {
			continue
		}
		comp.devices = append(comp.devices, device.NewShunt(s))
	}
	for _, s := range net.Series {
		if !c.valid(StageCompensators, model.ClassSeries, s.ID) {
			continue
		}
		comp.devices = append(comp.devices, device.NewSeries(s))
	}
	st = append(st, comp)

	ld := stage{id: StageLoads}
	for _, l := range net.Loads {
		if !c.valid(StageLoads, model.ClassLoad, l.ID) {
			continue
		}
		ld.devices = append(ld.devices, device.NewLoad(l))
	}
	st = append(st, ld)

	ibr := stage{id: StageIBR}
	for _, r := range c.solar {
		ibr.devices = append(ibr.devices, device.NewIBR(r, device.Solar, c.voltageAt(r.Bus)))
	}
	for _, r := range c.wind {
		ibr.devices = append(ibr.devices, device.NewIBR(r, device.Wind, c.voltageAt(r.Bus)))
	}
	for _, s := range net.Storage {
		if !c.valid(StageIBR, model.ClassStorage, s.ID) {
			continue
		}
		ibr.devices = append(ibr.devices, device.NewStorage(s))
	}
	st = append(st, ibr)

	mach := stage{id: StageMachines, close: []string{netlist.Branch}}
	for _, m := range c.machines {
		mach.devices = append(mach.devices, c.machine(m))
	}
	st = append(st, mach)

	return st
}

func (c *Converter) machine(m model.Machine) device.Device {
	d := device.NewMachine(m)
	d.Swing = m.Bus == c.opts.SwingBus
	d.Type14 = c.opts.Type14Machines
	d.Opts.FieldSaturation = c.opts.FieldSaturation
	if g, ok := c.net.Governor(m.ControlID); ok {
		d.Gov = &g
	}
	if e, ok := c.net.Exciter(m.ControlID); ok {
		d.Exc = &e
	}
	if p, ok := c.net.Stabilizer(m.ControlID); ok {
		d.Pss = &p
	}
	return d
}
