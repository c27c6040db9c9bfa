// Hour-by-hour dispatch simulation of storage and dispatchable
// generation against a net-load series.
//
// Modeling convention: the full round-trip loss is applied at charge
// time. Energy credited to storage equals grid-side input times the
// round-trip efficiency; discharge then delivers stored energy one to
// one. Applying the loss at discharge instead is an equally defensible
// convention, but this simulator uses charge-side loss everywhere and
// the tests pin that choice.
package dispatch

import (
	"github.com/gridward/adequacy_sim/pkg/types"
	"github.com/gridward/adequacy_sim/pkg/units"
)

// DefaultInitialSOCFraction is the fixed starting assumption: storage
// begins each simulation at half its usable energy band.
const DefaultInitialSOCFraction = 0.5

// Params bundles the capacities and storage specification for one
// simulation run.
type Params struct {
	DispatchableCapacityMW float64
	StorageCapacityGW      float64
	Storage                types.StorageSpec

	// InitialSOCFraction positions the starting energy level within
	// [MinSOCFraction, MaxSOCFraction] x usable capacity. Use
	// NewParams unless a test needs a specific starting point.
	InitialSOCFraction float64
}

// NewParams returns Params with the documented 50% initial state of
// charge.
func NewParams(dispatchableMW, storageGW float64, spec types.StorageSpec) Params {
	return Params{
		DispatchableCapacityMW: dispatchableMW,
		StorageCapacityGW:      storageGW,
		Storage:                spec,
		InitialSOCFraction:     DefaultInitialSOCFraction,
	}
}

// Simulate runs the hour loop over netLoad. Storage energy is the only
// state carried between hours; everything else is recomputed per hour.
//
// Shortage hours (netLoad > 0) are served in priority order: storage
// discharge, then dispatchable generation, then unserved energy.
// Surplus hours charge storage first and curtail the rest.
func Simulate(netLoad types.HourlySeries, p Params) ([]types.DispatchState, error) {
	if p.StorageCapacityGW < 0 {
		return nil, types.InvalidCapacityError{Field: "storage_capacity_gw", Value: p.StorageCapacityGW}
	}
	if p.DispatchableCapacityMW < 0 {
		return nil, types.InvalidCapacityError{Field: "dispatchable_capacity_mw", Value: p.DispatchableCapacityMW}
	}
	if err := p.Storage.Validate(); err != nil {
		return nil, err
	}
	if p.InitialSOCFraction < p.Storage.MinSOCFraction || p.InitialSOCFraction > p.Storage.MaxSOCFraction {
		return nil, types.InvalidCapacityError{Field: "initial_soc_fraction", Value: p.InitialSOCFraction}
	}

	usableGWh := p.Storage.UsableEnergyGWh(p.StorageCapacityGW)
	floorGWh := p.Storage.MinSOCFraction * usableGWh
	ceilGWh := p.Storage.MaxSOCFraction * usableGWh
	powerLimitMW := units.GwToMw(p.StorageCapacityGW)

	energyGWh := p.InitialSOCFraction * usableGWh
	energyGWh = clamp(energyGWh, floorGWh, ceilGWh)

	states := make([]types.DispatchState, len(netLoad))
	for h, load := range netLoad {
		st := types.DispatchState{Hour: h, NetLoadMW: load}

		if load > 0 {
			// Shortage: discharge up to the lesser of available
			// energy above the floor and the power limit.
			availableMWh := units.GwhToMwh(energyGWh - floorGWh)
			discharge := min3(load, powerLimitMW, availableMWh)
			if discharge < 0 {
				discharge = 0
			}
			energyGWh -= units.MwhToGwh(discharge)
			st.StorageDischargeMW = discharge

			remaining := load - discharge
			if remaining > p.DispatchableCapacityMW {
				st.DispatchableMW = p.DispatchableCapacityMW
				st.UnservedMW = remaining - p.DispatchableCapacityMW
			} else {
				st.DispatchableMW = remaining
			}
		} else if load < 0 {
			// Surplus: charge up to headroom and the power limit.
			// Loss is taken here, so grid-side input is limited by
			// headroom divided by efficiency.
			surplus := -load
			headroomMWh := units.GwhToMwh(ceilGWh - energyGWh)
			charge := min3(surplus, powerLimitMW, headroomMWh/p.Storage.RoundTripEfficiency)
			if charge < 0 {
				charge = 0
			}
			energyGWh += units.MwhToGwh(charge * p.Storage.RoundTripEfficiency)
			st.StorageChargeMW = charge
			st.CurtailedMW = surplus - charge
		}

		// The level must never be observed outside its band.
		energyGWh = clamp(energyGWh, floorGWh, ceilGWh)
		st.StorageEnergyGWh = energyGWh
		states[h] = st
	}
	return states, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func min3(a, b, c float64) float64 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
