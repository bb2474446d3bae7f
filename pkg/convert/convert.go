package convert

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/edp1096/toy-atp/internal/consts"
	"github.com/edp1096/toy-atp/pkg/circuit"
	"github.com/edp1096/toy-atp/pkg/device"
	"github.com/edp1096/toy-atp/pkg/model"
	"github.com/edp1096/toy-atp/pkg/netlist"
	"github.com/edp1096/toy-atp/pkg/source"
)

// Options are the per-case switches of one conversion.
type Options struct {
	Name            string
	SwingBus        string
	LoadMult        float64
	Type14Machines  bool
	FieldSaturation bool
}

// Converter turns one network snapshot into an ATP netlist. It can be run
// any number of times; every run starts from a reset context.
type Converter struct {
	net  *model.Network
	ic   *model.InitialConditions
	opts Options
	ctx  *circuit.Context
	log  logrus.FieldLogger

	invalid  *model.ValidationError
	machines []model.Machine
	solar    []model.IBR
	wind     []model.IBR
	report   *Report
}

func New(net *model.Network, ic *model.InitialConditions, opts Options, log logrus.FieldLogger) *Converter {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if opts.LoadMult == 0.0 {
		opts.LoadMult = 1.0
	}
	if opts.Name == "" {
		opts.Name = net.Name
	}
	return &Converter{
		net:  net,
		ic:   ic,
		opts: opts,
		ctx:  circuit.New(opts.Name),
		log:  log.WithField("case", opts.Name),
	}
}

func (c *Converter) Context() *circuit.Context {
	return c.ctx
}

// Run writes the netlist to w and returns the run report. Structural
// problems (empty bus table, unknown swing bus) abort before anything is
// written; problems with one piece of equipment become diagnostics.
func (c *Converter) Run(w io.Writer) (*Report, error) {
	c.ctx.Reset()
	c.ctx.LoadMult = c.opts.LoadMult
	c.report = newReport(c.opts.Name)
	c.invalid = nil

	if err := c.net.Validate(); err != nil {
		if !errors.As(err, &c.invalid) {
			return nil, err
		}
		for _, iss := range c.invalid.Issues {
			c.diag(StageInit, iss.Class, iss.ID, logrus.WarnLevel, iss.Field+" "+iss.Msg)
		}
	}
	if err := c.ctx.AssignBuses(c.net.Buses); err != nil {
		return nil, fmt.Errorf("bus table: %w", err)
	}
	if _, err := c.ctx.Number(c.opts.SwingBus); err != nil {
		return nil, fmt.Errorf("swing bus: %w", err)
	}
	c.log.WithField("buses", len(c.net.Buses)).Info("buses numbered")

	var machines []model.Machine
	for _, m := range c.net.Machines {
		if c.valid(StageMachines, model.ClassMachine, m.ID) {
			machines = append(machines, m)
		}
	}
	c.machines = source.ParallelMachines(machines, c.ic, c.ctx.Index)
	c.solar = source.OverlayIBR(c.validIBR(model.ClassSolar, c.net.Solar), c.ic, model.GenSolar)
	c.wind = source.OverlayIBR(c.validIBR(model.ClassWind, c.net.Wind), c.ic, model.GenWind)

	out := netlist.FileHeader(c.ctx.Name(), c.opts.LoadMult)
	out = append(out, c.emit(StageSource, c.swing())...)
	for _, st := range c.stages() {
		var body []string
		for _, d := range st.devices {
			body = append(body, c.emit(st.id, d)...)
		}
		if len(body) == 0 {
			continue
		}
		out = append(out, st.open...)
		out = append(out, body...)
		out = append(out, st.close...)
	}

	c.finalize()

	bw := bufio.NewWriter(w)
	for _, line := range out {
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return nil, err
		}
	}
	if err := bw.Flush(); err != nil {
		return nil, err
	}
	return c.report, nil
}

// WriteFiles runs the conversion into dir as <name>_net.atp, <name>.atpmap
// and <name>_dgen.json.
func (c *Converter) WriteFiles(dir string) (*Report, error) {
	var buf bytes.Buffer
	report, err := c.Run(&buf)
	if err != nil {
		return nil, err
	}

	name := c.opts.Name
	if err := os.WriteFile(filepath.Join(dir, name+"_net.atp"), buf.Bytes(), 0644); err != nil {
		return nil, fmt.Errorf("writing netlist: %w", err)
	}

	var busMap bytes.Buffer
	if err := c.ctx.WriteBusMap(&busMap); err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(dir, name+".atpmap"), busMap.Bytes(), 0644); err != nil {
		return nil, fmt.Errorf("writing bus map: %w", err)
	}

	var gens bytes.Buffer
	if err := report.WriteGens(&gens); err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(dir, name+"_dgen.json"), gens.Bytes(), 0644); err != nil {
		return nil, fmt.Errorf("writing generator report: %w", err)
	}

	c.log.WithField("dir", dir).Infof("wrote %s_net.atp", name)
	return report, nil
}

// swing picks up the machine at the swing bus, if any, and the solved
// swing voltage.
func (c *Converter) swing() device.Device {
	var m *model.Machine
	for i := range c.machines {
		if c.machines[i].Bus == c.opts.SwingBus {
			m = &c.machines[i]
			break
		}
	}
	v := model.Voltage{Vpu: 1.0}
	if bv := c.voltageAt(c.opts.SwingBus); bv != nil {
		v = *bv
	}
	return device.NewSwing(c.opts.SwingBus, m, v)
}

func (c *Converter) voltageAt(bus string) *model.Voltage {
	if v, ok := c.ic.BusVoltage(bus, c.ctx.Index(bus)); ok {
		return &v
	}
	return nil
}

func (c *Converter) emit(stage int, d device.Device) []string {
	r := d.Emit(c.ctx)
	switch {
	case r.Err != nil:
		c.diag(stage, d.GetType(), d.GetName(), logrus.ErrorLevel, "dropped: "+r.Err.Error())
		return nil
	case r.Skipped:
		c.diag(stage, d.GetType(), d.GetName(), logrus.WarnLevel, "skipped: "+r.Reason)
	}
	for _, w := range r.Warnings {
		c.diag(stage, d.GetType(), d.GetName(), logrus.WarnLevel, w)
	}
	c.ctx.Count.DummyNodes += r.DummyNodes
	if r.Gen != nil {
		c.report.Gens[d.GetName()] = *r.Gen
	}
	return r.Lines
}

// valid drops a record that failed validation, with a diagnostic.
func (c *Converter) valid(stage int, class, id string) bool {
	if c.invalid == nil || !c.invalid.Has(class, id) {
		return true
	}
	c.diag(stage, class, id, logrus.ErrorLevel, "dropped: invalid record")
	return false
}

func (c *Converter) validIBR(class string, plants []model.IBR) []model.IBR {
	var out []model.IBR
	for _, r := range plants {
		if c.valid(StageIBR, class, r.ID) {
			out = append(out, r)
		}
	}
	return out
}

func (c *Converter) diag(stage int, kind, id string, level logrus.Level, msg string) {
	d := Diagnostic{Stage: StageName(stage), Kind: kind, Equipment: id, Level: level, Msg: msg}
	c.report.Diagnostics = append(c.report.Diagnostics, d)

	entry := c.log.WithFields(logrus.Fields{
		"stage":     d.Stage,
		"kind":      kind,
		"equipment": id,
	})
	switch level {
	case logrus.ErrorLevel:
		entry.Error(msg)
	case logrus.WarnLevel:
		entry.Warn(msg)
	default:
		entry.Info(msg)
	}
}

func (c *Converter) finalize() {
	cnt := c.ctx.Count
	if cnt.DummyNodes > consts.DUM_NODE_LIMIT {
		c.diag(StageFinalize, "capacity", "dummy nodes", logrus.WarnLevel,
			fmt.Sprintf("estimated %d TACS dummy nodes, limit is %d", cnt.DummyNodes, consts.DUM_NODE_LIMIT))
	}
	c.report.close(cnt, c.ctx.TransformerBuses())

	for _, line := range c.report.Summary() {
		c.log.Info(line)
	}
}
