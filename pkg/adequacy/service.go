// Storage adequacy assessment: compares the storage requirements a
// dispatch simulation actually exhibited against the planned storage
// specification. Returns ratios only; whether a ratio constitutes
// "inadequate" is caller policy.
package adequacy

import (
	"math"

	"github.com/gridward/adequacy_sim/pkg/types"
	"github.com/gridward/adequacy_sim/pkg/units"
)

// Assess derives required energy capacity from the peak-to-trough swing
// of the simulated storage level, required power from the largest
// observed charge or discharge rate, and implied duration from their
// ratio.
func Assess(states []types.DispatchState, spec types.StorageSpec, plannedCapacityGW float64) types.AdequacyReport {
	var (
		minLevel = math.Inf(1)
		maxLevel = math.Inf(-1)
		maxRate  float64
	)
	for _, st := range states {
		if st.StorageEnergyGWh < minLevel {
			minLevel = st.StorageEnergyGWh
		}
		if st.StorageEnergyGWh > maxLevel {
			maxLevel = st.StorageEnergyGWh
		}
		if st.StorageChargeMW > maxRate {
			maxRate = st.StorageChargeMW
		}
		if st.StorageDischargeMW > maxRate {
			maxRate = st.StorageDischargeMW
		}
	}

	report := types.AdequacyReport{
		PlannedEnergyGWh:     plannedCapacityGW * spec.DurationHours,
		PlannedPowerGW:       plannedCapacityGW,
		PlannedDurationHours: spec.DurationHours,
	}
	if len(states) == 0 {
		return report
	}

	report.RequiredEnergyGWh = maxLevel - minLevel
	report.RequiredPowerGW = units.MwToGw(maxRate)
	if report.RequiredPowerGW > 0 {
		report.RequiredDurationHours = report.RequiredEnergyGWh / report.RequiredPowerGW
	}

	report.EnergyRatio = ratio(report.RequiredEnergyGWh, report.PlannedEnergyGWh)
	report.PowerRatio = ratio(report.RequiredPowerGW, report.PlannedPowerGW)
	report.DurationRatio = ratio(report.RequiredDurationHours, report.PlannedDurationHours)
	return report
}

// ratio returns required/planned, with 0/0 treated as 0 and a positive
// requirement against zero plan as +Inf (storage needed where none is
// planned).
func ratio(required, planned float64) float64 {
	if planned == 0 {
		if required == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return required / planned
}
