package aggregator

import "github.com/gridward/adequacy_sim/pkg/types"

// RegionSeries is one region's aligned hourly inputs for a weather
// year.
type RegionSeries struct {
	WeatherYear int
	Demand      types.HourlySeries
	SolarCF     types.HourlySeries
	WindCF      types.HourlySeries
}

// GroupSeries is the composite view of a transmission group: summed
// demand, generation-weighted blended capacity factors, and the
// per-category capacity total.
type GroupSeries struct {
	WeatherYear int
	Demand      types.HourlySeries
	SolarCF     types.HourlySeries
	WindCF      types.HourlySeries
	Capacity    types.CapacityMix
}
