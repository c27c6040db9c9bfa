// Multi-region aggregation: composes per-region hourly series into one
// transmission-group-level frame. Capacity factors are blended
// generation-weighted, not averaged, so geographically dispersed
// renewables keep their diversification effect in the group view.
package aggregator

import (
	"sort"

	"github.com/gridward/adequacy_sim/pkg/types"
	"gonum.org/v1/gonum/floats"
)

// Aggregate sums demand element-wise, blends capacity factors weighted
// by each region's installed capacity of that technology, and sums
// capacities per category. Every region must carry a full 8,760-hour
// frame for the same weather year; a mismatch fails with a
// DataAlignmentError naming the offending region, never a silent drop
// or resample.
func Aggregate(regionSeries map[string]RegionSeries, regionCapacity map[string]types.CapacityMix) (*GroupSeries, error) {
	if len(regionSeries) == 0 {
		return nil, types.MissingDataError{Source: "region series"}
	}

	// Sorted iteration keeps float summation order, and therefore the
	// output bits, reproducible.
	ids := make([]string, 0, len(regionSeries))
	for id := range regionSeries {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	weatherYear := regionSeries[ids[0]].WeatherYear
	for _, id := range ids {
		rs := regionSeries[id]
		if err := validateRegion(id, rs); err != nil {
			return nil, err
		}
		if rs.WeatherYear != weatherYear {
			return nil, types.DataAlignmentError{
				Series: "weather_year", Region: id,
				WantLen: weatherYear, GotLen: rs.WeatherYear,
				Detail: "all regions in a group must share one weather year",
			}
		}
		if _, ok := regionCapacity[id]; !ok {
			return nil, types.MissingDataError{Region: id, Source: "region capacity"}
		}
	}

	out := &GroupSeries{
		WeatherYear: weatherYear,
		Demand:      make(types.HourlySeries, types.HoursPerYear),
		SolarCF:     make(types.HourlySeries, types.HoursPerYear),
		WindCF:      make(types.HourlySeries, types.HoursPerYear),
	}

	var solarTotalGW, windTotalGW float64
	for _, id := range ids {
		rs := regionSeries[id]
		cap := regionCapacity[id]
		if err := cap.Validate(); err != nil {
			return nil, err
		}

		floats.Add(out.Demand, rs.Demand)
		// Numerator of the generation-weighted blend: capacity_r * cf_r[h].
		floats.AddScaled(out.SolarCF, cap.SolarGW, rs.SolarCF)
		floats.AddScaled(out.WindCF, cap.WindGW, rs.WindCF)
		solarTotalGW += cap.SolarGW
		windTotalGW += cap.WindGW

		out.Capacity.Add(cap)
	}

	if solarTotalGW > 0 {
		floats.Scale(1/solarTotalGW, out.SolarCF)
	}
	if windTotalGW > 0 {
		floats.Scale(1/windTotalGW, out.WindCF)
	}
	return out, nil
}

func validateRegion(id string, rs RegionSeries) error {
	pairs := []struct {
		name   string
		series types.HourlySeries
	}{
		{"demand", rs.Demand},
		{"solar_cf", rs.SolarCF},
		{"wind_cf", rs.WindCF},
	}
	for _, p := range pairs {
		if len(p.series) != types.HoursPerYear {
			return types.DataAlignmentError{
				Series: p.name, Region: id,
				WantLen: types.HoursPerYear, GotLen: len(p.series),
			}
		}
	}
	return nil
}
