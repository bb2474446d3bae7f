package convert

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/edp1096/toy-atp/internal/consts"
	"github.com/edp1096/toy-atp/pkg/circuit"
	"github.com/edp1096/toy-atp/pkg/device"
)

type Status int

const (
	Success Status = iota
	CompletedWithDiagnostics
)

func (s Status) String() string {
	if s == CompletedWithDiagnostics {
		return "CompletedWithDiagnostics"
	}
	return "Success"
}

// Diagnostic is one skipped, dropped or suspicious piece of equipment.
type Diagnostic struct {
	Stage     string
	Kind      string
	Equipment string
	Level     logrus.Level
	Msg       string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s] %s %s %s: %s", d.Stage, d.Level, d.Kind, d.Equipment, d.Msg)
}

// Totals are the written capacity, rounded to the kW.
type Totals struct {
	LoadMW     decimal.Decimal
	SolarMW    decimal.Decimal
	WindMW     decimal.Decimal
	StorageMW  decimal.Decimal
	DERMW      decimal.Decimal
	MachineMVA decimal.Decimal
}

type Report struct {
	Name             string
	Status           Status
	Diagnostics      []Diagnostic
	Count            circuit.Counters
	TransformerBuses int
	Totals           Totals
	Gens             map[string]device.GenRecord
}

func newReport(name string) *Report {
	return &Report{Name: name, Gens: make(map[string]device.GenRecord)}
}

func mw(x float64) decimal.Decimal {
	return decimal.NewFromFloat(x).Round(3)
}

func (r *Report) close(cnt circuit.Counters, xfmrBuses int) {
	r.Count = cnt
	r.TransformerBuses = xfmrBuses
	r.Totals = Totals{
		LoadMW:     mw(cnt.LoadMW),
		SolarMW:    mw(cnt.SolarMW),
		WindMW:     mw(cnt.WindMW),
		StorageMW:  mw(cnt.StorageMW),
		DERMW:      mw(cnt.DERMW),
		MachineMVA: mw(cnt.MachineMVA),
	}
	r.Status = Success
	if len(r.Diagnostics) > 0 {
		r.Status = CompletedWithDiagnostics
	}
}

// Errors counts the diagnostics that dropped equipment.
func (r *Report) Errors() int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Level <= logrus.ErrorLevel {
			n++
		}
	}
	return n
}

// Summary is the capacity report, one line per fact.
func (r *Report) Summary() []string {
	t := r.Totals
	c := r.Count
	return []string{
		fmt.Sprintf("Total Load = %s MW, PV = %s MW, Wind = %s MW, BESS = %s MW, SyncMach = %s MVA, DER = %s MW",
			t.LoadMW.StringFixed(2), t.SolarMW.StringFixed(2), t.WindMW.StringFixed(2),
			t.StorageMW.StringFixed(2), t.MachineMVA.StringFixed(2), t.DERMW.StringFixed(2)),
		fmt.Sprintf("Wrote %d transformers; limit of X bus numbers is %d", r.TransformerBuses, consts.XFMR_BUS_LIMIT),
		fmt.Sprintf("Wrote %d lines, %d series, %d shunts, %d switches, %d loads",
			c.Lines, c.Series, c.Shunts, c.Switches, c.Loads),
		fmt.Sprintf("Wrote %d PV, %d Wind, %d BESS, %d Equiv SyncMach, %d DER",
			c.Solar, c.Wind, c.Storage, c.Machines, c.DER),
		fmt.Sprintf("Estimated %d TACS dummy nodes, limit is %d", c.DummyNodes, consts.DUM_NODE_LIMIT),
		fmt.Sprintf("Status %s with %d diagnostics", r.Status, len(r.Diagnostics)),
	}
}

// WriteGens writes the generator tracking table keyed by equipment id.
func (r *Report) WriteGens(w io.Writer) error {
	return json.NewEncoder(w).Encode(r.Gens)
}
