package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edp1096/toy-atp/internal/consts"
	"github.com/edp1096/toy-atp/pkg/model"
)

func noIndex(string) int { return 0 }

func TestParallelMachinesAggregate(t *testing.T) {
	machines := []model.Machine{
		{ID: "G1", Bus: "7", RatedS: 100e6, P: 80e6, Q: 10e6, MaxP: 95e6, MaxQ: 50e6},
		{ID: "G2", Bus: "3", RatedS: 200e6, P: 150e6},
		{ID: "G3", Bus: "7", RatedS: 50e6, P: 40e6, Q: 5e6, MaxP: 45e6, MaxQ: 25e6},
	}

	par := ParallelMachines(machines, nil, noIndex)
	require.Len(t, par, 2)

	eq := par[0]
	assert.Equal(t, "7_2EQG", eq.ID)
	assert.Equal(t, "7", eq.Bus)
	assert.InDelta(t, 150e6, eq.RatedS, 1e-6)
	assert.InDelta(t, 120e6, eq.P, 1e-6)
	assert.InDelta(t, 15e6, eq.Q, 1e-6)
	assert.InDelta(t, 140e6, eq.MaxP, 1e-6)
	assert.InDelta(t, 75e6, eq.MaxQ, 1e-6)
	assert.Equal(t, 2, eq.Count)
	assert.Equal(t, "G1", eq.ControlID)
	assert.Equal(t, 1.0, eq.Vpu)

	assert.Equal(t, "G2", par[1].ID)
	assert.Equal(t, 1, par[1].Count)

	// inputs untouched
	assert.Equal(t, "G1", machines[0].ID)
	assert.InDelta(t, 100e6, machines[0].RatedS, 1e-6)
}

func TestParallelMachinesOverlay(t *testing.T) {
	machines := []model.Machine{
		{ID: "G1", Bus: "3", RatedS: 200e6, P: 150e6},
		{ID: "G2", Bus: "5", RatedS: 200e6, P: 150e6},
	}
	ic := &model.InitialConditions{
		ByIndex: []model.Voltage{{Vpu: 1.0}, {Vpu: 0.99, Deg: -3}},
		ByID:    map[string]model.Voltage{"3": {Vpu: 1.04, Deg: 8.5}},
		Gens: []model.GenIC{
			{Bus: "5", P: 99, Q: 12, Type: model.GenSolar},
			{Bus: "3", P: 120, Q: 30, Type: model.GenSteam},
		},
	}
	index := map[string]int{"3": 1, "5": 2}

	par := ParallelMachines(machines, ic, func(bus string) int { return index[bus] })
	require.Len(t, par, 2)

	assert.InDelta(t, 120e6, par[0].P, 1e-6)
	assert.InDelta(t, 30e6, par[0].Q, 1e-6)
	assert.Equal(t, 1.04, par[0].Vpu)
	assert.Equal(t, 8.5, par[0].Deg)

	// solar rows never override a machine
	assert.InDelta(t, 150e6, par[1].P, 1e-6)
	assert.Equal(t, 0.99, par[1].Vpu)
	assert.Equal(t, -3.0, par[1].Deg)
}

func TestMachineCardClamps(t *testing.T) {
	m := model.Machine{
		ID: "G1", Bus: "3", RatedS: 200e6, RatedU: 18000,
		Ra: 0.002, Xl: 0.15, Xd: 1.8, Xq: 1.7, Xdp: 0.3, Xqp: 0.55,
		Vpu: 1.02, Deg: 10.0,
	}
	gov := model.Governor{K1: 20, T1: 0.1, T2: 0.2, T3: 0.3, PMax: 1.0}
	exc := model.Exciter{Ka: 200, Ta: 0, VrMin: -5, VrMax: 5}
	pss := model.Stabilizer{Ks: 10, T6: 0}

	p := MachineCard(m, gov, exc, pss, MachineOptions{})
	assert.InDelta(t, 200.0, p.RMVA, 1e-12)
	assert.InDelta(t, 18.0, p.RKV, 1e-12)
	assert.Equal(t, 1000.0, p.AGLine)
	assert.InDelta(t, 1073.0, p.S1D, 1e-9)
	assert.InDelta(t, -20.0, p.Ang0, 1e-12)
	assert.InDelta(t, 1.02*18000*consts.SQRT2/consts.SQRT3, p.Vpk, 1e-6)
	assert.InDelta(t, 1.0/1.02/18.0, p.Ikv0, 1e-12)
	assert.InDelta(t, 1.02+1.0/200.0, p.V0pu, 1e-12)
	assert.InDelta(t, 0.03, p.T1T3, 1e-12)
	assert.InDelta(t, 0.4, p.T1PT3, 1e-12)
	assert.Equal(t, 5.0, p.VrMin)

	assert.Equal(t, 1.2, p.PMax)
	assert.Equal(t, 1e-9, p.Ta)
	assert.Equal(t, 2e-9, p.Psa1)
	assert.Equal(t, 1e-18, p.Psa2)
	assert.Equal(t, 1e-9, p.Pst6)
	assert.Len(t, p.Clamped, 5)

	sat := MachineCard(m, gov, exc, pss, MachineOptions{FieldSaturation: true})
	assert.Equal(t, -1000.0, sat.AGLine)
	assert.Equal(t, 1000.0, sat.IfNom)
}
