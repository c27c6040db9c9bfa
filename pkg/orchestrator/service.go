// Batch orchestration: drives the provider -> aggregation -> stress ->
// dispatch -> adequacy pipeline across scenarios and regions, with
// cached, resumable results and per-pair failure isolation.
package orchestrator

import (
	"github.com/gridward/adequacy_sim/pkg/adequacy"
	"github.com/gridward/adequacy_sim/pkg/aggregator"
	"github.com/gridward/adequacy_sim/pkg/dispatch"
	"github.com/gridward/adequacy_sim/pkg/fingerprint"
	"github.com/gridward/adequacy_sim/pkg/progressfeed"
	"github.com/gridward/adequacy_sim/pkg/provider"
	"github.com/gridward/adequacy_sim/pkg/resultdb"
	"github.com/gridward/adequacy_sim/pkg/stress"
	"github.com/gridward/adequacy_sim/pkg/types"
	"github.com/gridward/adequacy_sim/pkg/units"
	"github.com/rs/zerolog"
)

type Orchestrator struct {
	provider    provider.Provider
	store       *resultdb.Store
	cfg         Config
	log         zerolog.Logger
	broadcaster *Broadcaster
	onProgress  func(event progressfeed.ProgressEvent)
}

// SetProgressFunc attaches an in-process progress callback (e.g. a
// terminal progress bar) alongside any websocket broadcaster. Called
// after every finished pair; may run on a worker goroutine.
func (o *Orchestrator) SetProgressFunc(fn func(event progressfeed.ProgressEvent)) {
	o.onProgress = fn
}

// New wires an orchestrator. store may be nil for ad hoc runs without
// caching; broadcaster may be nil when no progress feed is attached.
func New(p provider.Provider, store *resultdb.Store, cfg Config, log zerolog.Logger, broadcaster *Broadcaster) *Orchestrator {
	if cfg.WindowHours == 0 {
		cfg.WindowHours = types.DefaultWindowHours
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Orchestrator{
		provider:    p,
		store:       store,
		cfg:         cfg,
		log:         log,
		broadcaster: broadcaster,
	}
}

// RunRegion executes the full pipeline for one (scenario, region) pair
// without consulting the cache. Errors propagate to the caller
// unmodified; only RunBatch converts them into RunErrors.
func (o *Orchestrator) RunRegion(scenario, regionID string) (*types.RunResult, error) {
	rs, mix, spec, err := o.regionInputs(scenario, regionID)
	if err != nil {
		return nil, err
	}
	return o.analyze(scenario, regionID, rs, mix, spec)
}

// regionInputs gathers everything a run depends on, so the batch can
// fingerprint the inputs before deciding whether to recompute.
func (o *Orchestrator) regionInputs(scenario, regionID string) (aggregator.RegionSeries, types.CapacityMix, types.StorageSpec, error) {
	if _, err := o.provider.Region(regionID); err != nil {
		return aggregator.RegionSeries{}, types.CapacityMix{}, types.StorageSpec{}, err
	}
	rs, err := o.provider.Series(regionID, o.cfg.WeatherYear)
	if err != nil {
		return aggregator.RegionSeries{}, types.CapacityMix{}, types.StorageSpec{}, err
	}
	mix, err := o.provider.Capacity(scenario, o.cfg.TargetYear, regionID)
	if err != nil {
		return aggregator.RegionSeries{}, types.CapacityMix{}, types.StorageSpec{}, err
	}
	spec, err := o.provider.StorageSpec(scenario, o.cfg.TargetYear, regionID)
	if err != nil {
		return aggregator.RegionSeries{}, types.CapacityMix{}, types.StorageSpec{}, err
	}
	return rs, mix, spec, nil
}

// RunGroup aggregates a transmission group's member regions into one
// composite frame and runs the pipeline on it. Member capacities are
// summed; capacity factors are blended generation-weighted.
func (o *Orchestrator) RunGroup(scenario, groupID string) (*types.RunResult, error) {
	group, err := o.provider.Group(groupID)
	if err != nil {
		return nil, err
	}
	if len(group.Regions) == 0 {
		return nil, types.MissingDataError{Region: groupID, Source: "group members"}
	}

	series := make(map[string]aggregator.RegionSeries, len(group.Regions))
	capacities := make(map[string]types.CapacityMix, len(group.Regions))
	for _, regionID := range group.Regions {
		rs, err := o.provider.Series(regionID, o.cfg.WeatherYear)
		if err != nil {
			return nil, err
		}
		mix, err := o.provider.Capacity(scenario, o.cfg.TargetYear, regionID)
		if err != nil {
			return nil, err
		}
		series[regionID] = rs
		capacities[regionID] = mix
	}

	composite, err := aggregator.Aggregate(series, capacities)
	if err != nil {
		return nil, err
	}

	// Group-level storage characteristics follow the group id; the
	// fallback applies when the dataset has no record for it.
	spec, err := o.provider.StorageSpec(scenario, o.cfg.TargetYear, groupID)
	if err != nil {
		return nil, err
	}

	rs := aggregator.RegionSeries{
		WeatherYear: composite.WeatherYear,
		Demand:      composite.Demand,
		SolarCF:     composite.SolarCF,
		WindCF:      composite.WindCF,
	}
	return o.analyze(scenario, groupID, rs, composite.Capacity, spec)
}

// analyze is the pure pipeline: stress windows, then a dispatch
// simulation and adequacy assessment per window.
func (o *Orchestrator) analyze(scenario, regionID string, rs aggregator.RegionSeries, mix types.CapacityMix, spec types.StorageSpec) (*types.RunResult, error) {
	windows, err := stress.IdentifyWindows(rs.Demand, rs.SolarCF, rs.WindCF, mix, o.cfg.WindowHours)
	if err != nil {
		return nil, err
	}
	_, netLoad := stress.NetLoad(rs.Demand, rs.SolarCF, rs.WindCF, mix)

	result := &types.RunResult{
		Key: types.RunKey{
			Scenario:    scenario,
			Region:      regionID,
			WeatherYear: o.cfg.WeatherYear,
			Fingerprint: o.fingerprint(rs, mix, spec),
		},
		TargetYear:  o.cfg.TargetYear,
		Capacity:    mix,
		Storage:     spec,
		WindowHours: o.cfg.WindowHours,
		Windows:     make(map[types.StressType]*types.WindowResult, len(windows)),
	}

	params := dispatch.NewParams(units.GwToMw(mix.DispatchableGW), mix.StorageGW, spec)
	for _, st := range types.StressTypes {
		window := windows[st]
		slice := netLoad[window.StartHour : window.StartHour+window.LengthHours]

		states, err := dispatch.Simulate(slice, params)
		if err != nil {
			return nil, err
		}
		// Re-anchor hour indices to the annual frame.
		for i := range states {
			states[i].Hour += window.StartHour
		}

		result.Windows[st] = &types.WindowResult{
			Window:   window,
			States:   states,
			Adequacy: adequacy.Assess(states, spec, mix.StorageGW),
		}
	}
	return result, nil
}

func (o *Orchestrator) fingerprint(rs aggregator.RegionSeries, mix types.CapacityMix, spec types.StorageSpec) string {
	return fingerprint.Compute(fingerprint.Inputs{
		Demand:   rs.Demand,
		SolarCF:  rs.SolarCF,
		WindCF:   rs.WindCF,
		Capacity: mix,
		Storage:  spec,
	})
}
