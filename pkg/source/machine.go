package source

import (
	"fmt"
	"math"

	"github.com/edp1096/toy-atp/internal/consts"
	"github.com/edp1096/toy-atp/pkg/model"
)

// ParallelMachines merges machines sharing a bus into one record keyed
// <bus>_<n>EQG, summing rating, dispatch and limits. Dispatch comes from
// the steam rows of the generator overlay when present, terminal voltage
// from the bus overlay. index maps a bus id to its ATP number for
// positional voltage rows. Input records are not modified.
func ParallelMachines(machines []model.Machine, ic *model.InitialConditions, index func(string) int) []model.Machine {
	var buses []string
	atBus := make(map[string][]model.Machine)
	used := make(map[string]int)

	for _, m := range machines {
		if gens := ic.GensAt(m.Bus, model.GenSteam); used[m.Bus] < len(gens) {
			g := gens[used[m.Bus]]
			m.P = 1e6 * g.P
			m.Q = 1e6 * g.Q
			used[m.Bus]++
		}
		m.Vpu, m.Deg = 1.0, 0.0
		if v, ok := ic.BusVoltage(m.Bus, index(m.Bus)); ok {
			m.Vpu, m.Deg = v.Vpu, v.Deg
		}
		m.Count = 1
		m.ControlID = m.ID

		if _, seen := atBus[m.Bus]; !seen {
			buses = append(buses, m.Bus)
		}
		atBus[m.Bus] = append(atBus[m.Bus], m)
	}

	par := make([]model.Machine, 0, len(buses))
	for _, bus := range buses {
		group := atBus[bus]
		eq := group[0]
		if len(group) > 1 {
			eq.ID = fmt.Sprintf("%s_%dEQG", bus, len(group))
			for _, m := range group[1:] {
				eq.RatedS += m.RatedS
				eq.P += m.P
				eq.Q += m.Q
				eq.MinP += m.MinP
				eq.MaxP += m.MaxP
				eq.MinQ += m.MinQ
				eq.MaxQ += m.MaxQ
			}
			eq.Count = len(group)
		}
		par = append(par, eq)
	}
	return par
}

// MachineOptions selects SYNCMACH variants.
type MachineOptions struct {
	FieldSaturation bool
}

// MachineParams is the argument list of the SYNCMACH include: machine
// data in per unit on its own rating, exciter (ST-type), governor
// (two-lag) and stabilizer (lead-lag) gains and time constants.
type MachineParams struct {
	RMVA, RKV                    float64
	AGLine, S1D, S2D, Vpk        float64
	Ang0, Ra, Xl, Xd, Xq, Xdp    float64
	Xqp, Xdpp, Xqpp, Tdop, Tqop  float64
	Tdopp, Tqopp, X0, Rn, Xn     float64
	Xcan, Hico, Dsd              float64
	Ikv0, KVIni, IfIni, IfNom    float64
	KGov, T2, T1T3, T1PT3, PMax  float64
	Kc, Ilr, Klr, VrMin, VrMax   float64
	V0pu, Ka, Ta, Tb, Tc, Tled   float64
	Tlag, Kfbk, Tfbk             float64
	Psk5, Psa1, Psa2, Pst3, Pst4 float64
	Pst5, Pst6, VstMin, VstMax   float64

	Clamped []string
}

// MachineCard maps a machine and its controls to SYNCMACH arguments.
// Time constants and gains that would be zero in the solver are clamped
// and listed in Clamped.
func MachineCard(m model.Machine, gov model.Governor, exc model.Exciter, pss model.Stabilizer, opts MachineOptions) MachineParams {
	p := MachineParams{
		RMVA: 1e-6 * m.RatedS,
		RKV:  1e-3 * m.RatedU,
	}
	clamp := func(name string, v, floor float64) float64 {
		if v < floor {
			p.Clamped = append(p.Clamped, fmt.Sprintf("%s %g raised to %g", name, v, floor))
			return floor
		}
		return v
	}

	p.AGLine = 1000.0
	if opts.FieldSaturation {
		p.AGLine = -1000.0
	}
	p.IfIni = 1.76
	p.IfNom = math.Abs(p.AGLine)
	p.S1D = 1.073 * math.Abs(p.AGLine)
	p.S2D = 1.760 * math.Abs(p.AGLine)
	p.Vpk = PeakPhase(m.Vpu, p.RKV)
	p.Ang0 = m.Deg + consts.GEN_SHIFT

	p.Ra, p.Xl, p.Xd, p.Xq = m.Ra, m.Xl, m.Xd, m.Xq
	p.Xdp, p.Xqp, p.Xdpp, p.Xqpp = m.Xdp, m.Xqp, m.Xdpp, m.Xqpp
	p.Tdop, p.Tqop, p.Tdopp, p.Tqopp = m.Tdop, m.Tqop, m.Tdopp, m.Tqopp
	p.X0 = m.X0
	p.Rn = 900.0
	p.Xn = 65.0
	p.Xcan = m.Xl
	p.Hico = p.RMVA * consts.MACHINE_J
	p.Dsd = p.RMVA * consts.MACHINE_DSD
	p.Ikv0 = 1.0 / m.Vpu / p.RKV
	p.KVIni = m.Vpu * p.RKV

	p.KGov = gov.K1
	p.T2 = gov.T2
	p.T1T3 = gov.T1 * gov.T3
	p.T1PT3 = gov.T1 + gov.T3
	p.PMax = clamp("pmax", gov.PMax, 1.2)

	p.Kc = exc.Kc
	p.Ilr = exc.Ilr
	p.Klr = exc.Klr
	p.VrMin = math.Abs(exc.VrMin)
	p.VrMax = exc.VrMax
	p.Ka = exc.Ka
	if exc.Ka != 0 {
		p.V0pu = m.Vpu + 1.0/exc.Ka
	} else {
		p.V0pu = m.Vpu
	}
	p.Ta = clamp("ta", exc.Ta, 1e-9)
	p.Tb = exc.Tb
	p.Tc = exc.Tc
	p.Tled = 0.4
	p.Tlag = 0.025
	p.Kfbk = 0.0
	p.Tfbk = 1.0

	p.Psk5 = pss.Ks
	p.Psa1 = clamp("psa1", pss.A1, 2e-9)
	p.Psa2 = clamp("psa2", pss.A2, 1e-18)
	p.Pst3 = pss.T3
	p.Pst4 = pss.T4
	p.Pst5 = pss.T5
	p.Pst6 = clamp("pst6", pss.T6, 1e-9)
	p.VstMin = pss.VstMin
	p.VstMax = pss.VstMax
	return p
}
