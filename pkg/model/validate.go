package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var ErrMissingTable = errors.New("required table is empty")

// Record classes named by an Issue.
const (
	ClassBus         = "Bus"
	ClassLine        = "Line"
	ClassTransformer = "Transformer"
	ClassSeries      = "SeriesCompensator"
	ClassShunt       = "ShuntCompensator"
	ClassLoad        = "Load"
	ClassMachine     = "SynchronousMachine"
	ClassSolar       = "Solar"
	ClassWind        = "Wind"
	ClassStorage     = "Storage"
	ClassBreaker     = "Breaker"
)

// Issue is one missing or invalid attribute of one record.
type Issue struct {
	Class string
	ID    string
	Field string
	Msg   string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s %s: %s %s", i.Class, i.ID, i.Field, i.Msg)
}

// ValidationError collects every record issue found by Validate.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Issues))
	for _, i := range e.Issues {
		msgs = append(msgs, i.String())
	}
	return fmt.Sprintf("%d invalid attributes: %s", len(e.Issues), strings.Join(msgs, "; "))
}

// Has reports whether any issue was recorded for the given record.
func (e *ValidationError) Has(class, id string) bool {
	for _, i := range e.Issues {
		if i.Class == class && i.ID == id {
			return true
		}
	}
	return false
}

type checker struct {
	class  string
	id     string
	issues *[]Issue
}

func (c checker) add(field, msg string) {
	*c.issues = append(*c.issues, Issue{Class: c.class, ID: c.id, Field: field, Msg: msg})
}

func (c checker) text(field, v string) {
	if v == "" {
		c.add(field, "is required")
	}
}

func (c checker) positive(field string, v float64) {
	if !(v > 0) || math.IsInf(v, 0) {
		c.add(field, fmt.Sprintf("must be positive, got %g", v))
	}
}

func (c checker) finite(field string, v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		c.add(field, "must be finite")
	}
}

// Validate checks required attributes of every record. It returns
// ErrMissingTable when the bus table is empty, and a *ValidationError
// listing per-record issues otherwise; the caller decides whether record
// issues are fatal.
func (n *Network) Validate() error {
	if len(n.Buses) == 0 {
		return fmt.Errorf("buses: %w", ErrMissingTable)
	}

	var issues []Issue
	seen := make(map[string]bool, len(n.Buses))
	for _, b := range n.Buses {
		c := checker{ClassBus, b.ID, &issues}
		c.text("id", b.ID)
		c.positive("nomv", b.NomV)
		if seen[b.ID] {
			c.add("id", "is duplicated")
		}
		seen[b.ID] = true
	}

	for _, l := range n.Lines {
		c := checker{ClassLine, l.ID, &issues}
		c.text("id", l.ID)
		c.text("bus1", l.Bus1)
		c.text("bus2", l.Bus2)
		c.positive("len", l.Length)
		c.finite("r", l.R)
		c.finite("x", l.X)
		c.finite("b", l.B)
		c.finite("r0", l.R0)
		c.finite("x0", l.X0)
		c.finite("b0", l.B0)
	}

	for _, t := range n.Transformers {
		c := checker{ClassTransformer, t.ID, &issues}
		c.text("id", t.ID)
		if len(t.Windings) == 0 {
			c.add("windings", "is required")
		}
		for i, w := range t.Windings {
			f := fmt.Sprintf("windings[%d].", i)
			c.text(f+"bus", w.Bus)
			c.positive(f+"ratedU", w.RatedU)
			c.positive(f+"ratedS", w.RatedS)
			if w.Conn != Wye && w.Conn != Delta {
				c.add(f+"conn", fmt.Sprintf("must be Y or D, got %q", w.Conn))
			}
		}
		for i, m := range t.Meshes {
			if m.From < 1 || m.To < 1 || m.From > len(t.Windings) || m.To > len(t.Windings) || m.From == m.To {
				c.add(fmt.Sprintf("meshes[%d]", i), fmt.Sprintf("winding pair %d-%d out of range", m.From, m.To))
			}
		}
		if t.Core.Enum < 1 || t.Core.Enum > len(t.Windings) {
			c.add("core.enum", fmt.Sprintf("winding %d out of range", t.Core.Enum))
		}
	}

	for _, s := range n.Series {
		c := checker{ClassSeries, s.ID, &issues}
		c.text("id", s.ID)
		c.text("bus1", s.Bus1)
		c.text("bus2", s.Bus2)
		if s.X == 0 {
			c.add("x", "must be nonzero")
		}
	}

	for _, s := range n.Shunts {
		c := checker{ClassShunt, s.ID, &issues}
		c.text("id", s.ID)
		c.text("bus", s.Bus)
		c.positive("nomu", s.NomU)
	}

	for _, l := range n.Loads {
		c := checker{ClassLoad, l.ID, &issues}
		c.text("id", l.ID)
		c.text("bus", l.Bus)
		c.positive("basev", l.BaseV)
		if l.Conn != "" && l.Conn != Wye && l.Conn != Delta {
			c.add("conn", fmt.Sprintf("must be Y or D, got %q", l.Conn))
		}
		if z := l.ZIP; z != nil {
			if math.Abs(z.ZP+z.IP+z.PP-100.0) > 0.01 {
				c.add("zip", "active fractions must sum to 100")
			}
			if math.Abs(z.ZQ+z.IQ+z.PQ-100.0) > 0.01 {
				c.add("zip", "reactive fractions must sum to 100")
			}
		}
	}

	for _, m := range n.Machines {
		c := checker{ClassMachine, m.ID, &issues}
		c.text("id", m.ID)
		c.text("bus", m.Bus)
		c.positive("ratedS", m.RatedS)
		c.positive("ratedU", m.RatedU)
		c.positive("Xdp", m.Xdp)
	}

	for _, tbl := range []struct {
		class string
		rows  []IBR
	}{{ClassSolar, n.Solar}, {ClassWind, n.Wind}} {
		for _, r := range tbl.rows {
			c := checker{tbl.class, r.ID, &issues}
			c.text("id", r.ID)
			c.text("bus", r.Bus)
			c.positive("ratedS", r.RatedS)
			c.positive("ratedU", r.RatedU)
		}
	}

	for _, s := range n.Storage {
		c := checker{ClassStorage, s.ID, &issues}
		c.text("id", s.ID)
		c.text("bus", s.Bus)
		c.positive("ratedS", s.RatedS)
		c.positive("ratedU", s.RatedU)
	}

	for _, b := range n.Breakers {
		c := checker{ClassBreaker, b.ID, &issues}
		c.text("id", b.ID)
		c.text("bus1", b.Bus1)
		c.text("bus2", b.Bus2)
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}
