package device

import (
	"fmt"

	"github.com/edp1096/toy-atp/pkg/circuit"
	"github.com/edp1096/toy-atp/pkg/model"
	"github.com/edp1096/toy-atp/pkg/netlist"
	"github.com/edp1096/toy-atp/pkg/reduce"
)

// delta corner references: winding 1 (or any delta when winding 1 is
// delta) leads, the rest lag
var (
	leadPhase = map[string]string{"A": "C", "B": "A", "C": "B"}
	lagPhase  = map[string]string{"A": "B", "B": "C", "C": "A"}
)

// Transformer writes a 2 or 3 winding transformer as three single-phase
// saturable transformer cards sharing one star bus.
type Transformer struct {
	BaseDevice
	model.Transformer
}

func NewTransformer(t model.Transformer) *Transformer {
	return &Transformer{BaseDevice: BaseDevice{Name: t.ID, Type: "PowerTransformer"}, Transformer: t}
}

func (t *Transformer) Emit(ctx *circuit.Context) Result {
	wdgs := t.Windings
	buses := make([]string, len(wdgs))
	for i, w := range wdgs {
		num, err := ctx.Number(w.Bus)
		if err != nil {
			return failed(fmt.Errorf("winding %d: %w", i+1, err))
		}
		buses[i] = num
	}

	if n := len(wdgs); n < 2 || n > 3 {
		from, why := "", "too many windings for saturable transformer component"
		if n > 0 {
			from = wdgs[0].Bus
		}
		if n < 2 {
			why = "too few windings for saturable transformer component"
		}
		return skipped(fmt.Sprintf("%d windings", n),
			netlist.Banner(),
			netlist.Comment("transformer %s, %d windings from %s", t.ID, n, from),
			netlist.Comment("*** %s", why))
	}

	star, err := reduce.StarEquivalent(wdgs, t.Meshes, t.Taps)
	if err != nil {
		return failed(err)
	}
	mag, warnings := reduce.CoreBranch(wdgs, t.Core)

	// the star bus is only taken once the cards render
	xbus, err := ctx.PeekTransformerBus()
	if err != nil {
		return failed(err)
	}

	order := reduce.CoreWindingOrder(wdgs)
	end1Delta := wdgs[0].Conn == model.Delta

	c := card{}
	c.add(banner("transformer %s, %d windings from %s", t.ID, len(wdgs), wdgs[0].Bus)...)

	for k, ph := range netlist.Phases {
		rows := make([]netlist.WindingRow, 0, len(order))
		for enum, i := range order {
			w := wdgs[i]
			node, err := circuit.AtpNode(buses[i], ph)
			if err != nil {
				return failed(err)
			}
			row := netlist.WindingRow{Node: node, R: star.R[i], X: star.X[i], KV: star.V[i]}
			if w.Conn == model.Delta {
				other := lagPhase[ph]
				if i == 0 || end1Delta {
					other = leadPhase[ph]
				}
				row.Ref, _ = circuit.AtpNode(buses[i], other)
			} else {
				row.Ref = neutralNode(xbus, enum+1, w)
			}
			rows = append(rows, row)
		}

		xnode := circuit.AtpNodeOf(xbus, "X")
		if k == 0 {
			curve := make([][2]float64, len(mag.Curve))
			for j, pt := range mag.Curve {
				curve[j] = [2]float64{pt.Current, pt.Flux}
			}
			c.addErr(netlist.TransformerA(xnode, mag.Iss, mag.Fss, mag.Rmag, curve, rows))
		} else {
			pnode := circuit.AtpNodeOf(xbus, string(rune('X'+k)))
			c.add(netlist.TransformerBC(xnode, pnode, rows)...)
		}
	}

	for i, w := range wdgs {
		if w.Conn != model.Delta {
			continue
		}
		for _, ph := range netlist.Phases {
			node, _ := circuit.AtpNode(buses[i], ph)
			c.add(netlist.DeltaStabilizer(node))
		}
	}

	for enum, i := range order {
		w := wdgs[i]
		if w.Conn == model.Wye && w.Grounded && (w.RGround > 0.0 || w.XGround > 0.0) {
			c.addLine(netlist.NeutralImpedance(neutralNode(xbus, enum+1, w), w.RGround, w.XGround))
		}
	}

	r := c.result()
	if r.Err != nil {
		return r
	}
	if _, err := ctx.NextTransformerBus(); err != nil {
		return failed(err)
	}
	ctx.Count.Transformers++
	r.Warnings = warnings
	return r
}

// neutralNode is blank for a solidly grounded wye, otherwise a private
// neutral on the star bus lettered after the card position.
func neutralNode(xbus string, enum int, w model.Winding) string {
	if w.Grounded && w.RGround == 0.0 && w.XGround == 0.0 {
		return "      "
	}
	return circuit.AtpNodeOf(xbus, string(rune('M'+enum)))
}
