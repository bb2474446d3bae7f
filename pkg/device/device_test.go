package device

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edp1096/toy-atp/pkg/circuit"
	"github.com/edp1096/toy-atp/pkg/model"
	"github.com/edp1096/toy-atp/pkg/netlist"
	"github.com/edp1096/toy-atp/pkg/reduce"
	"github.com/edp1096/toy-atp/pkg/util"
)

func newContext(t *testing.T) *circuit.Context {
	t.Helper()
	ctx := circuit.New("test")
	require.NoError(t, ctx.AssignBuses([]model.Bus{
		{ID: "HV", NomV: 138000},
		{ID: "LV", NomV: 13800},
		{ID: "LV480", NomV: 480},
	}))
	return ctx
}

func gsu() model.Transformer {
	return model.Transformer{
		ID: "T1",
		Windings: []model.Winding{
			{Bus: "HV", RatedU: 138000, RatedS: 100e6, Conn: model.Wye, Grounded: true},
			{Bus: "LV", RatedU: 13800, RatedS: 100e6, Conn: model.Delta},
		},
		Meshes: []model.Mesh{{From: 1, To: 2, R: 0.5, X: 19.044}},
		Core:   model.Core{Enum: 1, G: 1e-6, B: 5e-6},
	}
}

func TestTransformerCards(t *testing.T) {
	ctx := newContext(t)
	r := NewTransformer(gsu()).Emit(ctx)
	require.NoError(t, r.Err)
	assert.Empty(t, r.Warnings)

	stab := "  B2___A" + util.PadBlanks(18) + "1000.0" + util.PadBlanks(9) + "1.0"
	want := []string{
		netlist.Banner(),
		"C transformer T1, 2 windings from HV",
		netlist.XfmrHeader,
		"  TRANSFORMER             9.758151.768X1___X100.E2",
		"          9.7581          51.768",
		"            9999",
		netlist.WindingHeader,
		" 1B2___AB2___B            0.00750.285713.800",
		" 2B1___A                  0.25009.522079.674",
		"  TRANSFORMER X1___X                  X1___Y",
		" 1B2___BB2___C",
		" 2B1___B      ",
		"  TRANSFORMER X1___X                  X1___Z",
		" 1B2___CB2___A",
		" 2B1___C      ",
		stab,
		strings.Replace(stab, "B2___A", "B2___B", 1),
		strings.Replace(stab, "B2___A", "B2___C", 1),
	}
	assert.Equal(t, want, r.Lines)
	assert.Equal(t, 1, ctx.Count.Transformers)
	assert.Equal(t, 1, ctx.TransformerBuses())
}

func TestTransformerNeutralImpedance(t *testing.T) {
	ctx := newContext(t)
	xf := gsu()
	xf.Windings[0].RGround = 2.0
	xf.Windings[0].XGround = 10.0

	r := NewTransformer(xf).Emit(ctx)
	require.NoError(t, r.Err)

	// the wye winding is second on the card, so its neutral is lettered O
	assert.Contains(t, r.Lines, " 2B1___AX1___O            0.25009.522079.674")
	assert.Equal(t, "  X1___O"+util.PadBlanks(18)+"2.000010.000", r.Lines[len(r.Lines)-1])
}

func TestTransformerTooManyWindings(t *testing.T) {
	ctx := newContext(t)
	xf := gsu()
	xf.Windings = append(xf.Windings, xf.Windings[0], xf.Windings[1])

	r := NewTransformer(xf).Emit(ctx)
	assert.True(t, r.Skipped)
	assert.NoError(t, r.Err)
	assert.Equal(t, "C *** too many windings for saturable transformer component", r.Lines[2])
	assert.Equal(t, 0, ctx.Count.Transformers)
	assert.Equal(t, 0, ctx.TransformerBuses())
}

func TestTransformerWithoutWindings(t *testing.T) {
	ctx := newContext(t)
	for _, wdgs := range [][]model.Winding{nil, gsu().Windings[:1]} {
		r := NewTransformer(model.Transformer{ID: "T0", Windings: wdgs}).Emit(ctx)
		assert.True(t, r.Skipped)
		assert.NoError(t, r.Err)
		require.Len(t, r.Lines, 3)
		assert.Equal(t, "C *** too few windings for saturable transformer component", r.Lines[2])
	}
	assert.Equal(t, 0, ctx.Count.Transformers)
	assert.Equal(t, 0, ctx.TransformerBuses())
}

func TestTransformerLeadingDelta(t *testing.T) {
	ctx := newContext(t)
	xf := gsu()
	xf.Windings[0], xf.Windings[1] = xf.Windings[1], xf.Windings[0]

	r := NewTransformer(xf).Emit(ctx)
	require.NoError(t, r.Err)

	// the delta is winding 1, so each corner ties back to the previous phase
	var refs []string
	for _, line := range r.Lines {
		if strings.HasPrefix(line, " 1B2___") {
			refs = append(refs, line[1:13])
		}
	}
	assert.Equal(t, []string{"B2___AB2___C", "B2___BB2___A", "B2___CB2___B"}, refs)
}

func TestTransformerDroppedKeepsStarBus(t *testing.T) {
	ctx := newContext(t)
	xf := gsu()
	xf.Meshes[0].X = 1e30

	r := NewTransformer(xf).Emit(ctx)
	assert.ErrorIs(t, r.Err, util.ErrFieldOverflow)
	assert.Equal(t, 0, ctx.TransformerBuses())

	r = NewTransformer(gsu()).Emit(ctx)
	require.NoError(t, r.Err)
	assert.Equal(t, "  TRANSFORMER             9.758151.768X1___X100.E2", r.Lines[3])
	assert.Equal(t, 1, ctx.TransformerBuses())
}

func TestTransformerUnknownBus(t *testing.T) {
	ctx := newContext(t)
	xf := gsu()
	xf.Windings[1].Bus = "nowhere"

	r := NewTransformer(xf).Emit(ctx)
	assert.ErrorIs(t, r.Err, circuit.ErrUnknownBus)
	assert.Empty(t, r.Lines)
}

func TestDeltaLoad(t *testing.T) {
	ctx := newContext(t)
	r := NewLoad(model.Load{ID: "LD1", Bus: "LV", BaseV: 13800, P: 3e6, Q: -1e6, Conn: model.Delta}).Emit(ctx)
	require.NoError(t, r.Err)

	assert.Equal(t, "C load LD1 at LV is 3000.000 + j-1000.000 kVA", r.Lines[1])
	assert.Equal(t, netlist.Vintage(1), r.Lines[3])
	assert.Equal(t, "  B2___AB2___B"+util.PadBlanks(12)+"    1.904400e+02", r.Lines[4])
	assert.Equal(t, "  B2___AB2___B"+util.PadBlanks(44)+"    4.642901e+00", r.Lines[5])
	assert.Equal(t, netlist.Vintage(0), r.Lines[len(r.Lines)-1])
	assert.Equal(t, 1, ctx.Count.Loads)
	assert.InDelta(t, 3.0, ctx.Count.LoadMW, 1e-9)
}

func TestNegativeLoadIsDER(t *testing.T) {
	ctx := newContext(t)
	r := NewLoad(model.Load{ID: "LD2", Bus: "LV", BaseV: 13800, P: -2e6}).Emit(ctx)
	require.NoError(t, r.Err)

	assert.Equal(t, []string{
		netlist.Banner(),
		"C DER LD2 at LV is 2.00 MVA producing 2.00 MW",
		"$INCLUDE,TACSPV3.PCH,B2___,DR001,200.E4,92.041,3983.7,0.1600,0.0000 $$",
		"  ,138.E2,190.E6,36.606",
		netlist.Branch,
	}, r.Lines)
	assert.Equal(t, 49, r.DummyNodes)
	assert.Equal(t, 1, ctx.Count.DER)
	assert.Equal(t, 0, ctx.Count.Loads)
	assert.Contains(t, r.Warnings, "negative load written as DER")
}

func TestStoragePhases(t *testing.T) {
	ctx := newContext(t)
	st := model.Storage{ID: "B1", Bus: "LV480", RatedS: 60000, RatedU: 480, MaxP: 50000, Ipu: 1.2, Phases: "A"}

	r := NewStorage(st).Emit(ctx)
	require.NoError(t, r.Err)
	assert.Equal(t, "$INCLUDE,TACSPV1.PCH,B3___A,ST001,500.E2,259.81,138.56,0.1600,0.0000", r.Lines[2])
	assert.Equal(t, 31, r.DummyNodes)

	st.Phases = "AB"
	r = NewStorage(st).Emit(ctx)
	require.NoError(t, r.Err)
	assert.True(t, strings.HasPrefix(r.Lines[2], "$INCLUDE,TACSPV2.PCH,B3___A,B3___B,ST002,"))

	st.Phases = "ABC"
	r = NewStorage(st).Emit(ctx)
	require.NoError(t, r.Err)
	assert.True(t, strings.HasPrefix(r.Lines[2], "$INCLUDE,TACSPV3.PCH,B3___,ST003,"))
	assert.Equal(t, 3, ctx.Count.Storage)

	st.Phases = "12ABC"
	r = NewStorage(st).Emit(ctx)
	assert.True(t, r.Skipped)
	assert.Equal(t, "C *** 5-phase call is not supported", r.Lines[len(r.Lines)-1])
	assert.Equal(t, 3, ctx.Count.Storage)
}

func TestShuntKinds(t *testing.T) {
	ctx := newContext(t)

	r := NewShunt(model.ShuntComp{ID: "C1", Bus: "HV", NomU: 138000, BSection: 1e-4, Sections: 1}).Emit(ctx)
	require.NoError(t, r.Err)
	assert.Equal(t, "C capacitor C1 at HV is 1904.40 kVAR", r.Lines[1])
	assert.Len(t, r.Lines, 8)

	r = NewShunt(model.ShuntComp{ID: "R1", Bus: "HV", NomU: 138000, BSection: -1e-4, Sections: 2}).Emit(ctx)
	require.NoError(t, r.Err)
	assert.Equal(t, "C reactor R1 at HV is 3808.80 kVAR", r.Lines[1])
	assert.Equal(t, "  B1___A"+util.PadBlanks(34)+"    5.000000e+03", r.Lines[4])

	r = NewShunt(model.ShuntComp{ID: "C0", Bus: "HV", NomU: 138000, BSection: 1e-4, Sections: 0}).Emit(ctx)
	assert.True(t, r.Skipped)
	assert.Empty(t, r.Lines)
	assert.Equal(t, 2, ctx.Count.Shunts)
}

func TestSeriesCapacitor(t *testing.T) {
	ctx := newContext(t)
	r := NewSeries(model.SeriesComp{ID: "SC1", Bus1: "HV", Bus2: "LV", X: -26.5258}).Emit(ctx)
	require.NoError(t, r.Err)
	assert.Equal(t, "C series capacitor SC1 from HV to LV", r.Lines[1])
	assert.Equal(t, "  B1___AB2___A"+util.PadBlanks(24)+"100.00", r.Lines[3])
	assert.Equal(t, 1, ctx.Count.Series)

	r = NewSeries(model.SeriesComp{ID: "SC2", Bus1: "HV", Bus2: "LV"}).Emit(ctx)
	assert.ErrorIs(t, r.Err, reduce.ErrZeroReactance)
	assert.Empty(t, r.Lines)
	assert.Equal(t, 1, ctx.Count.Series)
}

func TestBreakerStates(t *testing.T) {
	ctx := newContext(t)
	b := model.Breaker{ID: "CB1", Bus1: "HV", Bus2: "LV", Phases: "B"}

	r := NewBreaker(b).Emit(ctx)
	require.NoError(t, r.Err)
	assert.Equal(t, []string{
		netlist.Banner(),
		"C Breaker CB1 from HV to LV",
		"  B1___BB2___B    -1.000  9990.000" + util.PadBlanks(45) + "0",
	}, r.Lines)

	b.Open = true
	b.Kind = "Disconnector"
	r = NewBreaker(b).Emit(ctx)
	require.NoError(t, r.Err)
	assert.Equal(t, "C Disconnector CB1 from HV to LV", r.Lines[1])
	assert.Equal(t, "  B1___BB2___B  9989.000  9990.000"+util.PadBlanks(45)+"0", r.Lines[2])
	assert.Equal(t, 2, ctx.Count.Switches)
}

func TestIBRNeedsThreePhases(t *testing.T) {
	ctx := newContext(t)
	r := NewIBR(model.IBR{ID: "PV1", Bus: "LV", RatedS: 1e6, RatedU: 13800, Phases: "A"}, Solar, nil).Emit(ctx)
	assert.True(t, r.Skipped)
	assert.Equal(t, 0, ctx.Count.Solar)
}

func TestIBRNaming(t *testing.T) {
	ctx := newContext(t)
	pv := model.IBR{ID: "PV1", Bus: "LV", RatedS: 10e6, RatedU: 13800, P: 8e6}

	r := NewIBR(pv, Solar, nil).Emit(ctx)
	require.NoError(t, r.Err)
	assert.True(t, strings.HasPrefix(r.Lines[2], "$INCLUDE,IBR.PCH,B2___,IBR01 $$"))
	// no current limit on the record, so the rated phase current
	assert.Equal(t, "  ,1.3800e+04,1.0000e+07,7.2464e+02,8.0000e-01,0.0,1.0000e+00,4.1837e+02", r.Lines[3])
	assert.Len(t, r.Lines, 4)

	pv.Ipu = 1.2
	r = NewIBR(pv, Solar, nil).Emit(ctx)
	require.NoError(t, r.Err)
	assert.True(t, strings.HasSuffix(r.Lines[3], ",5.0204e+02"))
	pv.Ipu = 0

	v := model.Voltage{Vpu: 1.0, Deg: 30.0}
	r = NewIBR(pv, Wind, &v).Emit(ctx)
	require.NoError(t, r.Err)
	assert.True(t, strings.HasPrefix(r.Lines[2], "$INCLUDE,IBR.PCH,B2___,IBR03 $$"))
	assert.Equal(t, netlist.Source, r.Lines[4])
	// held at the solved voltage, shifted by the step-up angle, removed at t=0
	assert.Equal(t, "14B2___A   11267.653    60.000     0.000"+util.PadBlanks(20)+"    -1.000     0.000", r.Lines[6])
	assert.Equal(t, "Wind", r.Gen.Type)
	assert.Nil(t, r.Gen.Source)
	assert.Equal(t, 115, r.DummyNodes)
	assert.Equal(t, 1, ctx.Count.Wind)
	assert.Equal(t, 2, ctx.Count.Solar)
}

func TestMachineWithoutControlsFallsBack(t *testing.T) {
	ctx := newContext(t)
	m := model.Machine{ID: "G1", Bus: "LV", RatedS: 100e6, RatedU: 13800, P: 80e6, Ra: -0.001, Xdp: 0.3, Vpu: 1.0}

	r := NewMachine(m).Emit(ctx)
	require.NoError(t, r.Err)
	assert.Equal(t, netlist.Source, r.Lines[2])
	assert.True(t, strings.HasPrefix(r.Lines[4], "14_1___A  "))
	assert.True(t, strings.HasPrefix(r.Lines[9], "51B2___A_1___A"))
	assert.Len(t, r.Warnings, 2)
	assert.Equal(t, "_1___", r.Gen.Bus)
	assert.Equal(t, 0, r.DummyNodes)
	assert.Equal(t, 1, ctx.Count.Machines)
}

func TestMachineSyncMach(t *testing.T) {
	ctx := newContext(t)
	d := NewMachine(model.Machine{ID: "G1", Bus: "LV", RatedS: 100e6, RatedU: 13800, Xdp: 0.3, Vpu: 1.0})
	d.Gov = &model.Governor{K1: 20, PMax: 1.0}
	d.Exc = &model.Exciter{Ka: 100, Ta: 0.02}
	d.Pss = &model.Stabilizer{A1: 0.1, A2: 0.01, T6: 0.02}

	r := d.Emit(ctx)
	require.NoError(t, r.Err)
	assert.Equal(t, "$INCLUDE,SYNCMACH.PCH,B2___,SM001 $$", r.Lines[2])
	assert.Equal(t, []string{"clamped pmax 1 raised to 1.2"}, r.Warnings)
	assert.Equal(t, "59", *r.Gen.Source)
	assert.Equal(t, 31, r.DummyNodes)
}

func TestLineModels(t *testing.T) {
	ctx := newContext(t)
	short := model.Line{ID: "L1", Bus1: "HV", Bus2: "LV", R: 2, X: 20, B: 1.5e-4, R0: 6, X0: 60, B0: 1e-4, Length: 50000}

	r := NewLine(short).Emit(ctx)
	require.NoError(t, r.Err)
	assert.Equal(t, "C   per-instance sequence parameters for 50.00km", r.Lines[2])
	assert.Equal(t, netlist.Vintage(1), r.Lines[3])
	assert.Equal(t, netlist.RLCHeader, r.Lines[4])
	assert.True(t, strings.HasPrefix(r.Lines[5], "1 B1___AB2___A"))
	assert.Equal(t, netlist.Vintage(0), r.Lines[len(r.Lines)-1])

	long := short
	long.ID, long.Length = "L2", 400000
	long.R, long.X, long.B = 12, 150, 1.6e-3
	long.R0, long.X0, long.B0 = 60, 450, 1.0e-3
	r = NewLine(long).Emit(ctx)
	require.NoError(t, r.Err)
	assert.Equal(t, netlist.Vintage(1), r.Lines[3])
	assert.Equal(t, netlist.BergeronHeader, r.Lines[4])
	assert.True(t, strings.HasPrefix(r.Lines[5], "-1B1___AB2___A"))
	assert.Equal(t, 2, ctx.Count.Lines)

	neg := short
	neg.R0 = 1.0
	r = NewLine(neg).Emit(ctx)
	require.NoError(t, r.Err)
	assert.Equal(t, []string{"negative resistance, lumped model"}, r.Warnings)
}

func TestSwingThevenin(t *testing.T) {
	ctx := newContext(t)
	r := NewSwing("HV", nil, model.Voltage{Vpu: 1.0}).Emit(ctx)
	require.NoError(t, r.Err)

	assert.Equal(t, []string{
		netlist.Banner(),
		"C Swing Bus HV at 1",
		netlist.Source,
		netlist.SourceHeader,
		"14THEV_A  112676.528    60.000   -30.000" + util.PadBlanks(20) + "    -1.000  9999.000",
		"14THEV_B  112676.528    60.000  -150.000" + util.PadBlanks(20) + "    -1.000  9999.000",
		"14THEV_C  112676.528    60.000  -270.000" + util.PadBlanks(20) + "    -1.000  9999.000",
		netlist.Branch,
		netlist.BranchHeader,
		"51THEV_ASBUS_A            0.09520.9522",
		"52THEV_BSBUS_B            0.09520.9522",
		"53THEV_CSBUS_C",
		netlist.Switch,
		netlist.SwitchHeader,
		"  SBUS_AB1___A    -1.000  9990.000                    MEASURING                1",
		"  SBUS_BB1___B    -1.000  9990.000                    MEASURING                1",
		"  SBUS_CB1___C    -1.000  9990.000                    MEASURING                1",
		netlist.Branch,
	}, r.Lines)
}
