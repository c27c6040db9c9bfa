// Shared data model for the adequacy simulator.
// Everything in here is created fresh per simulation run from provider
// data; only RunResult is ever persisted (as a cache payload).
package types

// HoursPerYear is the fixed length of every hourly series. A provider
// that cannot supply all hours for a weather year is a hard failure,
// never a partial result.
const HoursPerYear = 8760

// DefaultWindowHours is the canonical stress window length (one week).
const DefaultWindowHours = 168

// HourlySeries is an ordered sequence of real-valued samples, one per
// hour of a representative year. Used for demand (MW), capacity factors
// (0-1), renewable generation (MW) and net load (MW, may be negative).
type HourlySeries []float64

// Validate checks the series length against HoursPerYear.
// name identifies the series in the resulting DataAlignmentError.
func (s HourlySeries) Validate(name string) error {
	if len(s) != HoursPerYear {
		return DataAlignmentError{Series: name, WantLen: HoursPerYear, GotLen: len(s)}
	}
	return nil
}

// CapacityMix is the installed capacity in GW by technology category,
// scoped to one (scenario, year, region) triple. Wind and solar are
// tracked as a refinement of the renewable total.
type CapacityMix struct {
	RenewableGW    float64 `json:"renewable_gw" toml:"renewable_gw"`
	WindGW         float64 `json:"wind_gw" toml:"wind_gw"`
	SolarGW        float64 `json:"solar_gw" toml:"solar_gw"`
	StorageGW      float64 `json:"storage_gw" toml:"storage_gw"`
	DispatchableGW float64 `json:"dispatchable_gw" toml:"dispatchable_gw"`
}

// Validate rejects negative capacities. Missing categories are zero by
// construction, never a fabricated fallback.
func (m CapacityMix) Validate() error {
	fields := []struct {
		name string
		gw   float64
	}{
		{"renewable_gw", m.RenewableGW},
		{"wind_gw", m.WindGW},
		{"solar_gw", m.SolarGW},
		{"storage_gw", m.StorageGW},
		{"dispatchable_gw", m.DispatchableGW},
	}
	for _, f := range fields {
		if f.gw < 0 {
			return InvalidCapacityError{Field: f.name, Value: f.gw}
		}
	}
	return nil
}

// Add accumulates another mix into this one, category by category.
func (m *CapacityMix) Add(other CapacityMix) {
	m.RenewableGW += other.RenewableGW
	m.WindGW += other.WindGW
	m.SolarGW += other.SolarGW
	m.StorageGW += other.StorageGW
	m.DispatchableGW += other.DispatchableGW
}

// StorageSpec describes the storage fleet of one (scenario, year,
// region): duration at rated power, round-trip efficiency and the
// operating state-of-charge band.
type StorageSpec struct {
	DurationHours       float64 `json:"duration_hours" toml:"duration_hours"`
	RoundTripEfficiency float64 `json:"round_trip_efficiency" toml:"round_trip_efficiency"`
	MinSOCFraction      float64 `json:"min_soc_fraction" toml:"min_soc_fraction"`
	MaxSOCFraction      float64 `json:"max_soc_fraction" toml:"max_soc_fraction"`
}

func (s StorageSpec) Validate() error {
	if s.DurationHours < 0 {
		return InvalidCapacityError{Field: "duration_hours", Value: s.DurationHours}
	}
	if s.RoundTripEfficiency <= 0 || s.RoundTripEfficiency > 1 {
		return InvalidCapacityError{Field: "round_trip_efficiency", Value: s.RoundTripEfficiency}
	}
	if s.MinSOCFraction < 0 || s.MaxSOCFraction > 1 || s.MinSOCFraction >= s.MaxSOCFraction {
		return InvalidCapacityError{Field: "soc_fractions", Value: s.MinSOCFraction}
	}
	return nil
}

// UsableEnergyGWh is the energy band the simulation may cycle through
// for a fleet of capacityGW rated power.
func (s StorageSpec) UsableEnergyGWh(capacityGW float64) float64 {
	return (s.MaxSOCFraction - s.MinSOCFraction) * s.DurationHours * capacityGW
}

// StressType names the ranking criterion a stress window was selected
// under.
type StressType string

const (
	StressWorstNetLoad   StressType = "worst_net_load"
	StressWorstRamp      StressType = "worst_ramp"
	StressWorstRenewable StressType = "worst_renewable"
)

// StressTypes lists all criteria in a fixed, reproducible order.
var StressTypes = []StressType{StressWorstNetLoad, StressWorstRamp, StressWorstRenewable}

// StressWindow identifies a contiguous span of the year together with
// the metrics it was ranked on. Ties between window starts are broken
// by earliest start hour.
type StressWindow struct {
	Type           StressType `json:"type"`
	StartHour      int        `json:"start_hour"`
	LengthHours    int        `json:"length_hours"`
	PeakNetLoadMW  float64    `json:"peak_net_load_mw"`
	RampSumMW      float64    `json:"ramp_sum_mw"`
	MinRenewableMW float64    `json:"min_renewable_mw"`
}

// DispatchState is the per-hour simulation record. Transient: it is
// recomputed fresh for every simulation and never shared across runs.
type DispatchState struct {
	Hour               int     `json:"hour"`
	NetLoadMW          float64 `json:"net_load_mw"`
	StorageChargeMW    float64 `json:"storage_charge_mw"`
	StorageDischargeMW float64 `json:"storage_discharge_mw"`
	StorageEnergyGWh   float64 `json:"storage_energy_gwh"`
	DispatchableMW     float64 `json:"dispatchable_mw"`
	UnservedMW         float64 `json:"unserved_mw"`
	CurtailedMW        float64 `json:"curtailed_mw"`
}

// AdequacyReport compares realized storage requirements against the
// planned specification. Ratios > 1 signal under-sizing, ratios well
// below 1 signal over-sizing. No verdict threshold is applied here;
// classification is caller policy.
type AdequacyReport struct {
	RequiredEnergyGWh     float64 `json:"required_energy_gwh"`
	RequiredPowerGW       float64 `json:"required_power_gw"`
	RequiredDurationHours float64 `json:"required_duration_hours"`

	PlannedEnergyGWh     float64 `json:"planned_energy_gwh"`
	PlannedPowerGW       float64 `json:"planned_power_gw"`
	PlannedDurationHours float64 `json:"planned_duration_hours"`

	EnergyRatio   float64 `json:"energy_ratio"`
	PowerRatio    float64 `json:"power_ratio"`
	DurationRatio float64 `json:"duration_ratio"`
}

// Region is one load/weather zone. DatasetKey selects its demand and
// renewable availability series; GroupID names the transmission group
// it aggregates into.
type Region struct {
	ID         string `json:"id" toml:"id"`
	DatasetKey string `json:"dataset_key" toml:"dataset_key"`
	GroupID    string `json:"group_id" toml:"group_id"`
}

// TransmissionGroup is a set of regions aggregated into one composite
// hourly profile. All members must share the same weather year and
// hour indexing.
type TransmissionGroup struct {
	ID      string   `json:"id" toml:"id"`
	Regions []string `json:"regions" toml:"regions"`
}

// RunKey identifies one cached simulation result.
type RunKey struct {
	Scenario    string `json:"scenario"`
	Region      string `json:"region"`
	WeatherYear int    `json:"weather_year"`
	Fingerprint string `json:"fingerprint"`
}

// WindowResult bundles the dispatch trace and adequacy assessment for
// one analyzed stress window.
type WindowResult struct {
	Window   StressWindow    `json:"window"`
	States   []DispatchState `json:"states"`
	Adequacy AdequacyReport  `json:"adequacy"`
}

// RunResult is the persisted artifact of one (scenario, region) run.
// It round-trips through JSON to the same data model.
type RunResult struct {
	Key         RunKey                       `json:"key"`
	TargetYear  int                          `json:"target_year"`
	Capacity    CapacityMix                  `json:"capacity"`
	Storage     StorageSpec                  `json:"storage"`
	WindowHours int                          `json:"window_hours"`
	Windows     map[StressType]*WindowResult `json:"windows"`
}
