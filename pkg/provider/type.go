package provider

import (
	"github.com/gridward/adequacy_sim/pkg/aggregator"
	"github.com/gridward/adequacy_sim/pkg/types"
)

// Provider is the boundary to the time-series data source. Absence of
// data is a typed error (MissingDataError), never a silent zero-filled
// substitute; only the storage specification has a documented fallback.
type Provider interface {
	// Series returns the aligned demand, solar CF and wind CF series
	// for one region and weather year. All three are exactly 8,760
	// hours or the call fails.
	Series(regionID string, weatherYear int) (aggregator.RegionSeries, error)

	// Capacity aggregates the raw technology capacity table for one
	// (scenario, year, region) into categories using the technology
	// classification table.
	Capacity(scenario string, targetYear int, regionID string) (types.CapacityMix, error)

	// StorageSpec returns the storage characteristics for one
	// (scenario, year, region), or FallbackStorageSpec when the
	// dataset has no specific record.
	StorageSpec(scenario string, targetYear int, regionID string) (types.StorageSpec, error)

	// Region resolves a region identifier.
	Region(regionID string) (types.Region, error)

	// Group resolves a transmission group identifier.
	Group(groupID string) (types.TransmissionGroup, error)
}

// FallbackStorageSpec is used when a dataset carries no storage record
// for a (scenario, year, region): 4-hour batteries at 85% round-trip
// efficiency operating between 5% and 95% state of charge. An explicit
// constant set, not a silent zero.
var FallbackStorageSpec = types.StorageSpec{
	DurationHours:       4,
	RoundTripEfficiency: 0.85,
	MinSOCFraction:      0.05,
	MaxSOCFraction:      0.95,
}

// Technology categories understood by the classification table. Wind
// and solar are refinements of renewable: they count into both their
// own capacity field and the renewable total.
const (
	CategoryWind         = "wind"
	CategorySolar        = "solar"
	CategoryRenewable    = "renewable"
	CategoryStorage      = "storage"
	CategoryDispatchable = "dispatchable"
)

// Classification maps raw technology names to categories.
type Classification map[string]string

// Apply folds a technology capacity row into the mix. Unknown
// categories surface as MissingDataError so a typo in the
// classification table fails loudly instead of dropping capacity.
func (c Classification) Apply(mix *types.CapacityMix, technology string, gw float64) error {
	category, ok := c[technology]
	if !ok {
		return types.MissingDataError{Source: "technology classification for " + technology}
	}
	switch category {
	case CategoryWind:
		mix.WindGW += gw
		mix.RenewableGW += gw
	case CategorySolar:
		mix.SolarGW += gw
		mix.RenewableGW += gw
	case CategoryRenewable:
		mix.RenewableGW += gw
	case CategoryStorage:
		mix.StorageGW += gw
	case CategoryDispatchable:
		mix.DispatchableGW += gw
	default:
		return types.MissingDataError{Source: "technology category " + category}
	}
	return nil
}

// capacityRow is one record of the raw capacity table.
type capacityRow struct {
	Scenario   string  `toml:"scenario"`
	Year       int     `toml:"year"`
	Region     string  `toml:"region"`
	Technology string  `toml:"technology"`
	GW         float64 `toml:"gw"`
}

// storageRow is one record of the storage characteristics table.
type storageRow struct {
	Scenario            string  `toml:"scenario"`
	Year                int     `toml:"year"`
	Region              string  `toml:"region"`
	DurationHours       float64 `toml:"duration_hours"`
	RoundTripEfficiency float64 `toml:"round_trip_efficiency"`
	MinSOCFraction      float64 `toml:"min_soc_fraction"`
	MaxSOCFraction      float64 `toml:"max_soc_fraction"`
}

// datasetTables is the TOML shape of the non-series dataset files.
type datasetTables struct {
	Regions      []types.Region            `toml:"regions"`
	Groups       []types.TransmissionGroup `toml:"groups"`
	Technologies map[string]string         `toml:"technologies"`
	Capacity     []capacityRow             `toml:"capacity"`
	Storage      []storageRow              `toml:"storage"`
}
