package source

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/edp1096/toy-atp/internal/consts"
	"github.com/edp1096/toy-atp/pkg/model"
)

func TestTheveninRisesUpstream(t *testing.T) {
	mag, deg := Thevenin(1.0, 0.0, 0.01, 0.10, 50.0, 10.0, 100.0)

	assert.Greater(t, mag, 1.0)
	assert.InDelta(t, math.Hypot(1.015, 0.049), mag, 1e-12)
	assert.InDelta(t, math.Atan2(0.049, 1.015)*consts.RAD, deg, 1e-9)
}

func TestTheveninNoLoad(t *testing.T) {
	mag, deg := Thevenin(1.03, -12.5, 0.01, 0.10, 0.0, 0.0, 100.0)
	assert.InDelta(t, 1.03, mag, 1e-12)
	assert.InDelta(t, -12.5, deg, 1e-9)
}

func TestType14Source(t *testing.T) {
	src := Type14Source(13.8, 100.0, 0.01, 0.10, model.Voltage{Vpu: 1.0}, 50.0, 10.0)

	mag := math.Hypot(1.015, 0.049)
	assert.InDelta(t, mag*13.8*1000.0*consts.SQRT2/consts.SQRT3, src.Amplitude, 1e-6)
	assert.InDelta(t, math.Atan2(0.049, 1.015)*consts.RAD-30.0, src.Angle, 1e-9)
	assert.InDelta(t, 0.19044, src.X1, 1e-12)
	assert.InDelta(t, 0.019044, src.R1, 1e-12)
	assert.Equal(t, src.X1, src.X0)
	assert.Equal(t, consts.TSTOP, src.TStop)
}

func TestInitializer(t *testing.T) {
	src := Initializer(0.48, model.Voltage{Vpu: 1.01, Deg: -4})
	assert.InDelta(t, 1.01*480.0*consts.SQRT2/consts.SQRT3, src.Amplitude, 1e-9)
	assert.InDelta(t, -34.0, src.Angle, 1e-12)
	assert.Zero(t, src.TStop)
}
