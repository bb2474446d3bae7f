package device

import (
	"fmt"
	"math"

	"github.com/edp1096/toy-atp/internal/consts"
	"github.com/edp1096/toy-atp/pkg/circuit"
	"github.com/edp1096/toy-atp/pkg/model"
	"github.com/edp1096/toy-atp/pkg/netlist"
	"github.com/edp1096/toy-atp/pkg/reduce"
	"github.com/edp1096/toy-atp/pkg/source"
)

// Load writes a load as constant R, X or C per phase at its scaled
// operating point. A load that produces power becomes a DER inverter.
type Load struct {
	BaseDevice
	model.Load
}

func NewLoad(l model.Load) *Load {
	return &Load{BaseDevice: BaseDevice{Name: l.ID, Type: "EnergyConsumer"}, Load: l}
}

func (l *Load) Emit(ctx *circuit.Context) Result {
	lb := reduce.LinearizeLoad(l.Load, ctx.LoadMult)
	if lb.Generation {
		r := emitDER(ctx, l.Load)
		r.Warnings = append(lb.Warnings, r.Warnings...)
		return r
	}

	num, err := ctx.Number(l.Bus)
	if err != nil {
		return failed(err)
	}

	c := card{}
	c.add(banner("load %s at %s is %.3f + j%.3f kVA", l.ID, l.Bus, lb.KW, lb.KVAR)...)
	c.add(netlist.RLCHeader, netlist.Vintage(1))
	for k, ph := range netlist.Phases {
		from, err := circuit.AtpNode(num, ph)
		if err != nil {
			return failed(err)
		}
		to := ""
		if lb.Delta {
			to, _ = circuit.AtpNode(num, netlist.Phases[(k+1)%3])
		}
		c.addErr(netlist.RLC(from, to, lb.R, lb.X, lb.C))
	}
	c.add(netlist.Vintage(0))

	r := c.result()
	if r.Err == nil {
		ctx.Count.Loads++
		ctx.Count.LoadMW += 0.001 * lb.KW
	}
	r.Warnings = lb.Warnings
	return r
}

// emitDER writes a producing load as a three-phase PV inverter include.
func emitDER(ctx *circuit.Context, l model.Load) Result {
	bus, err := ctx.BusName(l.Bus)
	if err != nil {
		return failed(err)
	}

	sbase := math.Abs(l.P)
	params := source.DERLimits(sbase, l.BaseV)
	name := fmt.Sprintf("DR%03d", ctx.Count.DER+1)

	c := card{}
	c.add(banner("DER %s at %s is %.2f MVA producing %.2f MW", l.ID, l.Bus, sbase*1e-6, sbase*1e-6)...)
	c.addErr(netlist.TACSPV3(bus, name, params))
	c.add(netlist.Branch)

	r := c.result()
	if r.Err != nil {
		return r
	}
	ctx.Count.DER++
	ctx.Count.DERMW += sbase * 1e-6
	r.DummyNodes = consts.PV3_DUM_NODES
	r.Warnings = []string{"negative load written as DER"}
	return r
}
