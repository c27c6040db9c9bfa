package stress

import (
	"errors"
	"math"
	"testing"

	"github.com/gridward/adequacy_sim/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constantSeries(v float64) types.HourlySeries {
	s := make(types.HourlySeries, types.HoursPerYear)
	for i := range s {
		s[i] = v
	}
	return s
}

func TestNetLoad(t *testing.T) {
	demand := constantSeries(100)
	solarCF := constantSeries(0.5)
	windCF := constantSeries(0.2)
	mix := types.CapacityMix{SolarGW: 0.05, WindGW: 0.1, RenewableGW: 0.15}

	renGen, netLoad := NetLoad(demand, solarCF, windCF, mix)
	// 0.5*50 + 0.2*100 = 45 MW renewable, net 55 MW
	assert.InDelta(t, 45, renGen[0], 1e-9)
	assert.InDelta(t, 55, netLoad[0], 1e-9)
	assert.InDelta(t, 55, netLoad[types.HoursPerYear-1], 1e-9)
}

func TestIdentifyWindows_SpikeWeek(t *testing.T) {
	// Flat 100 MW demand except a 168-hour spike at 500 MW starting
	// hour 4000, zero renewables throughout.
	demand := constantSeries(100)
	for h := 4000; h <= 4167; h++ {
		demand[h] = 500
	}

	windows, err := IdentifyWindows(demand, constantSeries(0), constantSeries(0), types.CapacityMix{}, 168)
	require.NoError(t, err)

	worst := windows[types.StressWorstNetLoad]
	assert.GreaterOrEqual(t, worst.StartHour, 3833)
	assert.LessOrEqual(t, worst.StartHour, 4000)
	assert.InDelta(t, 500, worst.PeakNetLoadMW, 1e-9)
	// Ties break to the earliest start that reaches the spike.
	assert.Equal(t, 3833, worst.StartHour)
}

func TestIdentifyWindows_RenewableDrought(t *testing.T) {
	solarCF := constantSeries(0.5)
	for h := 5000; h <= 5100; h++ {
		solarCF[h] = 0
	}
	mix := types.CapacityMix{SolarGW: 10, RenewableGW: 10}

	windows, err := IdentifyWindows(constantSeries(100), solarCF, constantSeries(0), mix, 168)
	require.NoError(t, err)

	drought := windows[types.StressWorstRenewable]
	assert.InDelta(t, 0, drought.MinRenewableMW, 1e-9)
	// Earliest window containing the first zero-generation hour.
	assert.Equal(t, 5000-167, drought.StartHour)
}

func TestIdentifyWindows_RampWeek(t *testing.T) {
	// Net load oscillates hard for one week starting hour 1000.
	demand := constantSeries(100)
	for h := 1000; h < 1168; h++ {
		if h%2 == 0 {
			demand[h] = 1100
		}
	}

	windows, err := IdentifyWindows(demand, constantSeries(0), constantSeries(0), types.CapacityMix{}, 168)
	require.NoError(t, err)

	ramp := windows[types.StressWorstRamp]
	assert.GreaterOrEqual(t, ramp.StartHour, 1000-168)
	assert.LessOrEqual(t, ramp.StartHour, 1000)
	assert.Greater(t, ramp.RampSumMW, 100_000.0)
}

func TestIdentifyWindows_LengthMismatch(t *testing.T) {
	short := make(types.HourlySeries, 100)
	_, err := IdentifyWindows(short, constantSeries(0), constantSeries(0), types.CapacityMix{}, 168)

	var alignErr types.DataAlignmentError
	require.ErrorAs(t, err, &alignErr)
	assert.Equal(t, "demand", alignErr.Series)
	assert.Equal(t, 100, alignErr.GotLen)
}

func TestIdentifyWindows_WindowLargerThanSeries(t *testing.T) {
	_, err := IdentifyWindows(constantSeries(1), constantSeries(0), constantSeries(0), types.CapacityMix{}, types.HoursPerYear+1)
	var alignErr types.DataAlignmentError
	assert.True(t, errors.As(err, &alignErr))
}

func TestIdentifyWindows_Deterministic(t *testing.T) {
	demand := make(types.HourlySeries, types.HoursPerYear)
	solarCF := make(types.HourlySeries, types.HoursPerYear)
	windCF := make(types.HourlySeries, types.HoursPerYear)
	for h := range demand {
		x := float64(h)
		demand[h] = 800 + 300*math.Sin(x/24) + 100*math.Sin(x/3.7)
		solarCF[h] = 0.5 + 0.5*math.Sin(x/12)
		windCF[h] = 0.4 + 0.3*math.Cos(x/31)
	}
	mix := types.CapacityMix{SolarGW: 0.4, WindGW: 0.6, RenewableGW: 1.0}

	first, err := IdentifyWindows(demand, solarCF, windCF, mix, 168)
	require.NoError(t, err)
	second, err := IdentifyWindows(demand, solarCF, windCF, mix, 168)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestIdentifyWindows_AllMetricsFilled(t *testing.T) {
	windows, err := IdentifyWindows(constantSeries(100), constantSeries(0.3), constantSeries(0.3), types.CapacityMix{SolarGW: 1, WindGW: 1, RenewableGW: 2}, 168)
	require.NoError(t, err)
	require.Len(t, windows, 3)
	for _, st := range types.StressTypes {
		w := windows[st]
		assert.Equal(t, st, w.Type)
		assert.Equal(t, 168, w.LengthHours)
		// Flat inputs: every window ties, so all scans pick hour 0.
		assert.Equal(t, 0, w.StartHour)
	}
}
