package provider

import (
	"github.com/gridward/adequacy_sim/pkg/aggregator"
	"github.com/gridward/adequacy_sim/pkg/types"
)

// Memory is an in-memory Provider for tests and programmatic use.
// Lookups that miss return the same typed errors as the dataset
// provider.
type Memory struct {
	Regions    map[string]types.Region
	Groups     map[string]types.TransmissionGroup
	SeriesData map[SeriesKey]aggregator.RegionSeries
	Capacities map[ScopeKey]types.CapacityMix
	Storage    map[ScopeKey]types.StorageSpec
}

type SeriesKey struct {
	Region      string
	WeatherYear int
}

type ScopeKey struct {
	Scenario string
	Year     int
	Region   string
}

func NewMemory() *Memory {
	return &Memory{
		Regions:    make(map[string]types.Region),
		Groups:     make(map[string]types.TransmissionGroup),
		SeriesData: make(map[SeriesKey]aggregator.RegionSeries),
		Capacities: make(map[ScopeKey]types.CapacityMix),
		Storage:    make(map[ScopeKey]types.StorageSpec),
	}
}

func (m *Memory) Region(regionID string) (types.Region, error) {
	if r, ok := m.Regions[regionID]; ok {
		return r, nil
	}
	return types.Region{}, types.MissingDataError{Region: regionID, Source: "region table"}
}

func (m *Memory) Group(groupID string) (types.TransmissionGroup, error) {
	if g, ok := m.Groups[groupID]; ok {
		return g, nil
	}
	return types.TransmissionGroup{}, types.MissingDataError{Region: groupID, Source: "group table"}
}

func (m *Memory) Series(regionID string, weatherYear int) (aggregator.RegionSeries, error) {
	if rs, ok := m.SeriesData[SeriesKey{regionID, weatherYear}]; ok {
		return rs, nil
	}
	return aggregator.RegionSeries{}, types.MissingDataError{Region: regionID, Source: "hourly series"}
}

func (m *Memory) Capacity(scenario string, targetYear int, regionID string) (types.CapacityMix, error) {
	if mix, ok := m.Capacities[ScopeKey{scenario, targetYear, regionID}]; ok {
		return mix, nil
	}
	return types.CapacityMix{}, types.MissingDataError{
		Scenario: scenario, Region: regionID, Source: "capacity table",
	}
}

func (m *Memory) StorageSpec(scenario string, targetYear int, regionID string) (types.StorageSpec, error) {
	if spec, ok := m.Storage[ScopeKey{scenario, targetYear, regionID}]; ok {
		return spec, nil
	}
	return FallbackStorageSpec, nil
}
