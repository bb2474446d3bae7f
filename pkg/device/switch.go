package device

import (
	"fmt"

	"github.com/edp1096/toy-atp/internal/consts"
	"github.com/edp1096/toy-atp/pkg/circuit"
	"github.com/edp1096/toy-atp/pkg/model"
	"github.com/edp1096/toy-atp/pkg/netlist"
)

// Breaker writes one time-controlled switch per phase. A closed breaker
// closes before the steady-state solution; an open one closes just before
// the opening time, which is past any study.
type Breaker struct {
	BaseDevice
	model.Breaker
}

func NewBreaker(b model.Breaker) *Breaker {
	kind := b.Kind
	if kind == "" {
		kind = "Breaker"
	}
	return &Breaker{BaseDevice: BaseDevice{Name: b.ID, Type: kind}, Breaker: b}
}

func (b *Breaker) Emit(ctx *circuit.Context) Result {
	tclose := -1.0
	if b.Open {
		tclose = consts.TOPEN - 1.0
	}

	c := card{}
	c.add(banner("%s %s from %s to %s", b.GetType(), b.ID, b.Bus1, b.Bus2)...)
	for _, ph := range model.PhaseList(b.Phases) {
		n1, err := ctx.NodeName(b.Bus1, ph)
		if err != nil {
			return failed(fmt.Errorf("bus1: %w", err))
		}
		n2, err := ctx.NodeName(b.Bus2, ph)
		if err != nil {
			return failed(fmt.Errorf("bus2: %w", err))
		}
		c.addLine(netlist.TimedSwitch(n1, n2, tclose, consts.TOPEN))
	}

	r := c.result()
	if r.Err == nil {
		ctx.Count.Switches++
	}
	return r
}
