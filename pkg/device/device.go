package device

import (
	"github.com/edp1096/toy-atp/pkg/circuit"
	"github.com/edp1096/toy-atp/pkg/netlist"
)

// Device is one piece of equipment that can write itself as cards.
type Device interface {
	GetName() string
	GetType() string
	Emit(ctx *circuit.Context) Result
}

// Result is what one emitter produced. Err means the equipment was
// dropped; Skipped means it is unsupported and only commented.
type Result struct {
	Lines      []string
	Skipped    bool
	Reason     string
	Warnings   []string
	DummyNodes int
	Gen        *GenRecord
	Err        error
}

// GenRecord tracks one generator for downstream plotting of its
// terminal quantities.
type GenRecord struct {
	Type   string  `json:"Type"`
	Source *string `json:"Source"`
	Bus    string  `json:"Bus"`
	KV     float64 `json:"kV"`
	S      float64 `json:"S"`
	P      float64 `json:"P"`
	Q      float64 `json:"Q"`
	Vmag   float64 `json:"Vmag"`
	Vang   float64 `json:"Vang"`
}

type BaseDevice struct {
	Name string
	Type string
}

func (d *BaseDevice) GetName() string {
	return d.Name
}

func (d *BaseDevice) GetType() string {
	return d.Type
}

// card accumulates lines and keeps the first error, like the field
// renderer one level down.
type card struct {
	lines []string
	err   error
}

func (c *card) add(lines ...string) {
	c.lines = append(c.lines, lines...)
}

func (c *card) addErr(lines []string, err error) {
	if err != nil {
		if c.err == nil {
			c.err = err
		}
		return
	}
	c.lines = append(c.lines, lines...)
}

func (c *card) addLine(line string, err error) {
	if err != nil {
		if c.err == nil {
			c.err = err
		}
		return
	}
	c.lines = append(c.lines, line)
}

func (c *card) result() Result {
	if c.err != nil {
		return Result{Err: c.err}
	}
	return Result{Lines: c.lines}
}

func banner(format string, args ...any) []string {
	return []string{netlist.Banner(), netlist.Comment(format, args...)}
}

func skipped(reason string, lines ...string) Result {
	return Result{Skipped: true, Reason: reason, Lines: lines}
}

func failed(err error) Result {
	return Result{Err: err}
}

func strPtr(s string) *string {
	return &s
}
