package reduce

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/edp1096/toy-atp/internal/consts"
	"github.com/edp1096/toy-atp/pkg/model"
)

var (
	longLine = model.Line{
		ID: "L-long", Bus1: "1", Bus2: "2",
		R: 4.0, X: 40.0, B: 3.0e-4,
		R0: 12.0, X0: 120.0, B0: 2.0e-4,
		Length: 100000,
	}
	shortLine = model.Line{
		ID: "L-short", Bus1: "1", Bus2: "2",
		R: 0.4, X: 4.0, B: 3.0e-5,
		R0: 1.2, X0: 12.0, B0: 2.0e-5,
		Length: 10000,
	}
)

func TestSequenceToPhase(t *testing.T) {
	ph := SequenceToPhase(longLine)
	assert.InDelta(t, (12.0+8.0)/3.0, ph.Rs, 1e-12)
	assert.InDelta(t, (12.0-4.0)/3.0, ph.Rm, 1e-12)
	assert.InDelta(t, (120.0+80.0)/3.0, ph.Xs, 1e-12)
	assert.InDelta(t, (120.0-40.0)/3.0, ph.Xm, 1e-12)
	assert.InDelta(t, 1e6*(2e-4+6e-4)/3.0/consts.OMEGA, ph.Cs, 1e-9)
	assert.InDelta(t, 1e6*(2e-4-3e-4)/3.0/consts.OMEGA, ph.Cm, 1e-9)

	// self minus mutual is the positive sequence
	assert.InDelta(t, longLine.X, ph.Xs-ph.Xm, 1e-12)
	assert.InDelta(t, longLine.R0, ph.Rs+2*ph.Rm, 1e-12)
}

func TestSelectLineModelBoundary(t *testing.T) {
	long := SelectLineModel(longLine)
	assert.Equal(t, Bergeron, long.Kind)
	assert.GreaterOrEqual(t, long.Positive.Tau, consts.MIN_BERGERON_TAU)
	assert.GreaterOrEqual(t, long.Zero.Tau, consts.MIN_BERGERON_TAU)
	assert.InDelta(t, 100.0, long.Km, 1e-12)
	assert.InDelta(t, 0.04, long.Positive.RPerKm, 1e-12)
	assert.InDelta(t, 0.12, long.Zero.RPerKm, 1e-12)

	short := SelectLineModel(shortLine)
	assert.Equal(t, Lumped, short.Kind)
	assert.Less(t, short.Positive.Tau, consts.MIN_BERGERON_TAU)
	assert.Less(t, short.Zero.Tau, consts.MIN_BERGERON_TAU)
}

func TestSelectLineModelNoCharging(t *testing.T) {
	l := longLine
	l.B, l.B0 = 0, 0
	lm := SelectLineModel(l)
	assert.Equal(t, Lumped, lm.Kind)
	assert.Empty(t, lm.Warnings)

	l.R0 = 0
	lm = SelectLineModel(l)
	assert.Contains(t, lm.Warnings, "negative resistance")
}
