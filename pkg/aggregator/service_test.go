package aggregator

import (
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

func regionWith(year int, demand, solarCF, windCF float64) RegionSeries {
	return RegionSeries{
		WeatherYear: year,
		Demand:      constantSeries(demand),
		SolarCF:     constantSeries(solarCF),
		WindCF:      constantSeries(windCF),
	}
}

func TestAggregate_GenerationWeightedBlend(t *testing.T) {
	// 10 GW of solar at CF 0.0 plus 90 GW at CF 1.0 blends to 0.9, not
	// the naive 0.5 average.
	series := map[string]RegionSeries{
		"north": regionWith(2015, 100, 0, 0.3),
		"south": regionWith(2015, 200, 1, 0.3),
	}
	capacity := map[string]types.CapacityMix{
		"north": {SolarGW: 10, RenewableGW: 10},
		"south": {SolarGW: 90, RenewableGW: 90},
	}

	group, err := Aggregate(series, capacity)
	require.NoError(t, err)

	assert.InDelta(t, 0.9, group.SolarCF[0], 1e-12)
	assert.InDelta(t, 0.9, group.SolarCF[types.HoursPerYear-1], 1e-12)
	assert.InDelta(t, 300, group.Demand[0], 1e-12)
	assert.InDelta(t, 100, group.Capacity.SolarGW, 1e-12)
	assert.InDelta(t, 100, group.Capacity.RenewableGW, 1e-12)
	assert.Equal(t, 2015, group.WeatherYear)
}

func TestAggregate_ZeroCapacityTechnology(t *testing.T) {
	// No wind anywhere in the group: blended wind CF stays zero instead
	// of dividing by zero.
	series := map[string]RegionSeries{
		"a": regionWith(2015, 50, 0.4, 0.7),
	}
	capacity := map[string]types.CapacityMix{
		"a": {SolarGW: 5, RenewableGW: 5},
	}

	group, err := Aggregate(series, capacity)
	require.NoError(t, err)
	assert.Zero(t, group.WindCF[0])
	assert.InDelta(t, 0.4, group.SolarCF[0], 1e-12)
}

func TestAggregate_LengthMismatchNamesRegion(t *testing.T) {
	bad := regionWith(2015, 100, 0.5, 0.5)
	bad.WindCF = bad.WindCF[:100]
	series := map[string]RegionSeries{
		"ok":  regionWith(2015, 100, 0.5, 0.5),
		"bad": bad,
	}
	capacity := map[string]types.CapacityMix{
		"ok":  {SolarGW: 1, RenewableGW: 1},
		"bad": {SolarGW: 1, RenewableGW: 1},
	}

	_, err := Aggregate(series, capacity)
	var alignErr types.DataAlignmentError
	require.ErrorAs(t, err, &alignErr)
	assert.Equal(t, "bad", alignErr.Region)
	assert.Equal(t, "wind_cf", alignErr.Series)
}

func TestAggregate_WeatherYearMismatch(t *testing.T) {
	series := map[string]RegionSeries{
		"a": regionWith(2015, 100, 0.5, 0.5),
		"b": regionWith(2016, 100, 0.5, 0.5),
	}
	capacity := map[string]types.CapacityMix{
		"a": {SolarGW: 1, RenewableGW: 1},
		"b": {SolarGW: 1, RenewableGW: 1},
	}

	_, err := Aggregate(series, capacity)
	var alignErr types.DataAlignmentError
	require.ErrorAs(t, err, &alignErr)
	assert.Equal(t, "weather_year", alignErr.Series)
}

func TestAggregate_MissingCapacityForRegion(t *testing.T) {
	series := map[string]RegionSeries{
		"a": regionWith(2015, 100, 0.5, 0.5),
	}

	_, err := Aggregate(series, map[string]types.CapacityMix{})
	var missErr types.MissingDataError
	require.ErrorAs(t, err, &missErr)
	assert.Equal(t, "a", missErr.Region)
}

func TestAggregate_NoRegions(t *testing.T) {
	_, err := Aggregate(nil, nil)
	var missErr types.MissingDataError
	assert.ErrorAs(t, err, &missErr)
}

func TestAggregate_Deterministic(t *testing.T) {
	series := map[string]RegionSeries{
		"a": regionWith(2015, 100, 0.1, 0.9),
		"b": regionWith(2015, 250, 0.6, 0.2),
		"c": regionWith(2015, 75, 0.3, 0.4),
	}
	capacity := map[string]types.CapacityMix{
		"a": {SolarGW: 3, WindGW: 7, RenewableGW: 10},
		"b": {SolarGW: 12, WindGW: 1, RenewableGW: 13},
		"c": {SolarGW: 5, WindGW: 5, RenewableGW: 10},
	}

	first, err := Aggregate(series, capacity)
	require.NoError(t, err)
	second, err := Aggregate(series, capacity)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
