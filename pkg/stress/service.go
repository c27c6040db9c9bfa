// Stress period identification: scans the annual hourly series with a
// sliding window and ranks candidate windows under three independent
// criteria (peak net load, ramp magnitude, renewable drought).
package stress

import (
	"github.com/gridward/adequacy_sim/pkg/types"
	"github.com/gridward/adequacy_sim/pkg/units"
	"gonum.org/v1/gonum/floats"
)

// NetLoad computes renewable generation and net load in MW from hourly
// capacity factors and the installed wind/solar capacity.
func NetLoad(demand, solarCF, windCF types.HourlySeries, mix types.CapacityMix) (renewableGen, netLoad types.HourlySeries) {
	n := len(demand)
	renewableGen = make(types.HourlySeries, n)
	netLoad = make(types.HourlySeries, n)

	floats.ScaleTo(renewableGen, units.GwToMw(mix.SolarGW), solarCF)
	floats.AddScaled(renewableGen, units.GwToMw(mix.WindGW), windCF)
	floats.SubTo(netLoad, demand, renewableGen)
	return renewableGen, netLoad
}

// IdentifyWindows slides a windowHours-long window across all valid
// start hours and returns, per stress type, the argmax/argmin window
// under that type's metric. Ties break to the earliest start hour so
// repeated invocations are bit-identical.
//
// The ramp metric uses a prefix sum over absolute first differences;
// the max/min scans are naive per window, which is fine at n=8760.
func IdentifyWindows(demand, solarCF, windCF types.HourlySeries, mix types.CapacityMix, windowHours int) (map[types.StressType]types.StressWindow, error) {
	if err := demand.Validate("demand"); err != nil {
		return nil, err
	}
	if err := solarCF.Validate("solar_cf"); err != nil {
		return nil, err
	}
	if err := windCF.Validate("wind_cf"); err != nil {
		return nil, err
	}
	if windowHours < 1 || windowHours > len(demand) {
		return nil, types.DataAlignmentError{
			Series: "window", WantLen: len(demand), GotLen: windowHours,
			Detail: "window length exceeds series length",
		}
	}
	if err := mix.Validate(); err != nil {
		return nil, err
	}

	renGen, netLoad := NetLoad(demand, solarCF, windCF, mix)

	n := len(netLoad)
	w := windowHours
	lastStart := n - w

	// rampPrefix[i] = sum of |netLoad[h]-netLoad[h-1]| for h in [1, i].
	rampPrefix := make([]float64, n)
	for h := 1; h < n; h++ {
		d := netLoad[h] - netLoad[h-1]
		if d < 0 {
			d = -d
		}
		rampPrefix[h] = rampPrefix[h-1] + d
	}

	var (
		bestLoadStart, bestRampStart, bestRenStart int
		bestLoad                                   = floats.Max(netLoad[0:w])
		bestRamp                                   = rampPrefix[w-1]
		bestRen                                    = floats.Min(renGen[0:w])
	)
	for s := 1; s <= lastStart; s++ {
		if peak := floats.Max(netLoad[s : s+w]); peak > bestLoad {
			bestLoad, bestLoadStart = peak, s
		}
		if ramp := rampPrefix[s+w-1] - rampPrefix[s]; ramp > bestRamp {
			bestRamp, bestRampStart = ramp, s
		}
		if low := floats.Min(renGen[s : s+w]); low < bestRen {
			bestRen, bestRenStart = low, s
		}
	}

	out := map[types.StressType]types.StressWindow{
		types.StressWorstNetLoad:   windowAt(netLoad, renGen, rampPrefix, bestLoadStart, w, types.StressWorstNetLoad),
		types.StressWorstRamp:      windowAt(netLoad, renGen, rampPrefix, bestRampStart, w, types.StressWorstRamp),
		types.StressWorstRenewable: windowAt(netLoad, renGen, rampPrefix, bestRenStart, w, types.StressWorstRenewable),
	}
	return out, nil
}

// windowAt fills in all three metrics for the chosen window so each
// StressWindow is a self-contained record of its span.
func windowAt(netLoad, renGen types.HourlySeries, rampPrefix []float64, start, w int, st types.StressType) types.StressWindow {
	ramp := rampPrefix[start+w-1]
	if start > 0 {
		ramp -= rampPrefix[start]
	}
	return types.StressWindow{
		Type:           st,
		StartHour:      start,
		LengthHours:    w,
		PeakNetLoadMW:  floats.Max(netLoad[start : start+w]),
		RampSumMW:      ramp,
		MinRenewableMW: floats.Min(renGen[start : start+w]),
	}
}
