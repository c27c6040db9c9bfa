package orchestrator

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/gridward/adequacy_sim/pkg/aggregator"
	"github.com/gridward/adequacy_sim/pkg/progressfeed"
	"github.com/gridward/adequacy_sim/pkg/provider"
	"github.com/gridward/adequacy_sim/pkg/resultdb"
	"github.com/gridward/adequacy_sim/pkg/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testTargetYear  = 2030
	testWeatherYear = 2015
)

func syntheticSeries(seed float64) aggregator.RegionSeries {
	demand := make(types.HourlySeries, types.HoursPerYear)
	solarCF := make(types.HourlySeries, types.HoursPerYear)
	windCF := make(types.HourlySeries, types.HoursPerYear)
	for h := range demand {
		x := float64(h)
		demand[h] = 900 + seed + 400*math.Sin(x/24) + 150*math.Sin(x/5.3)
		solarCF[h] = math.Max(0, math.Sin(x/12))
		windCF[h] = 0.35 + 0.25*math.Cos(x/29)
	}
	return aggregator.RegionSeries{
		WeatherYear: testWeatherYear,
		Demand:      demand,
		SolarCF:     solarCF,
		WindCF:      windCF,
	}
}

func newTestProvider(regions ...string) *provider.Memory {
	m := provider.NewMemory()
	for i, id := range regions {
		m.Regions[id] = types.Region{ID: id, DatasetKey: id, GroupID: "grid"}
		m.SeriesData[provider.SeriesKey{Region: id, WeatherYear: testWeatherYear}] = syntheticSeries(float64(i) * 50)
		m.Capacities[provider.ScopeKey{Scenario: "base", Year: testTargetYear, Region: id}] = types.CapacityMix{
			SolarGW: 0.4, WindGW: 0.5, RenewableGW: 0.9,
			StorageGW: 0.2, DispatchableGW: 0.8,
		}
		m.Capacities[provider.ScopeKey{Scenario: "high_re", Year: testTargetYear, Region: id}] = types.CapacityMix{
			SolarGW: 1.2, WindGW: 1.0, RenewableGW: 2.2,
			StorageGW: 0.5, DispatchableGW: 0.3,
		}
	}
	m.Groups["grid"] = types.TransmissionGroup{ID: "grid", Regions: regions}
	return m
}

func testConfig() Config {
	return Config{TargetYear: testTargetYear, WeatherYear: testWeatherYear, WindowHours: 24}
}

func openTestStore(t *testing.T) *resultdb.Store {
	t.Helper()
	store, err := resultdb.Open(filepath.Join(t.TempDir(), "cache.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRunRegion_FullPipeline(t *testing.T) {
	orch := New(newTestProvider("west"), nil, testConfig(), zerolog.Nop(), nil)

	result, err := orch.RunRegion("base", "west")
	require.NoError(t, err)

	assert.Equal(t, "base", result.Key.Scenario)
	assert.Equal(t, "west", result.Key.Region)
	assert.Equal(t, testWeatherYear, result.Key.WeatherYear)
	assert.Len(t, result.Key.Fingerprint, 16)
	assert.Equal(t, 24, result.WindowHours)

	require.Len(t, result.Windows, 3)
	for _, st := range types.StressTypes {
		wr := result.Windows[st]
		require.NotNil(t, wr)
		assert.Equal(t, st, wr.Window.Type)
		require.Len(t, wr.States, 24)
		// Hour indices are anchored to the annual frame.
		assert.Equal(t, wr.Window.StartHour, wr.States[0].Hour)
		assert.Equal(t, wr.Window.StartHour+23, wr.States[23].Hour)
	}
}

func TestRunRegion_MissingRegion(t *testing.T) {
	orch := New(newTestProvider("west"), nil, testConfig(), zerolog.Nop(), nil)

	_, err := orch.RunRegion("base", "atlantis")
	var missErr types.MissingDataError
	assert.ErrorAs(t, err, &missErr)
}

func TestRunGroup_SumsCapacity(t *testing.T) {
	orch := New(newTestProvider("west", "east"), nil, testConfig(), zerolog.Nop(), nil)

	result, err := orch.RunGroup("base", "grid")
	require.NoError(t, err)

	assert.Equal(t, "grid", result.Key.Region)
	assert.InDelta(t, 0.4, result.Capacity.StorageGW, 1e-12)
	assert.InDelta(t, 1.6, result.Capacity.DispatchableGW, 1e-12)
	assert.InDelta(t, 1.8, result.Capacity.RenewableGW, 1e-12)
	require.Len(t, result.Windows, 3)
}

func TestRunBatch_ResumesFromCache(t *testing.T) {
	p := newTestProvider("west", "east")
	store := openTestStore(t)
	scenarios := []string{"base", "high_re"}
	regions := []string{"west", "east"}

	first := New(p, store, testConfig(), zerolog.Nop(), nil)
	outcomes, err := first.RunBatch(context.Background(), scenarios, regions)
	require.NoError(t, err)
	require.Len(t, outcomes, 4)
	for pair, out := range outcomes {
		assert.Equal(t, StatusCompleted, out.Status, "%v", pair)
		require.NotNil(t, out.Result)
	}

	// A second invocation with unchanged inputs recomputes nothing.
	second := New(p, store, testConfig(), zerolog.Nop(), nil)
	outcomes, err = second.RunBatch(context.Background(), scenarios, regions)
	require.NoError(t, err)
	for pair, out := range outcomes {
		assert.Equal(t, StatusSkipped, out.Status, "%v", pair)
		require.NotNil(t, out.Result)
	}
}

func TestRunBatch_RecomputesWhenInputsChange(t *testing.T) {
	p := newTestProvider("west")
	store := openTestStore(t)
	orch := New(p, store, testConfig(), zerolog.Nop(), nil)

	outcomes, err := orch.RunBatch(context.Background(), []string{"base"}, []string{"west"})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, outcomes[Pair{"base", "west"}].Status)

	// Changing the capacity mix changes the fingerprint; the stored
	// entry is stale and the pair is recomputed.
	scope := provider.ScopeKey{Scenario: "base", Year: testTargetYear, Region: "west"}
	mix := p.Capacities[scope]
	mix.StorageGW += 0.1
	p.Capacities[scope] = mix

	outcomes, err = orch.RunBatch(context.Background(), []string{"base"}, []string{"west"})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, outcomes[Pair{"base", "west"}].Status)
}

func TestRunBatch_FailureIsolation(t *testing.T) {
	p := newTestProvider("west", "east")
	// "ghost" exists in no table: its pairs fail, the others complete.
	orch := New(p, openTestStore(t), testConfig(), zerolog.Nop(), nil)

	outcomes, err := orch.RunBatch(context.Background(), []string{"base"}, []string{"west", "ghost", "east"})
	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	assert.Equal(t, StatusCompleted, outcomes[Pair{"base", "west"}].Status)
	assert.Equal(t, StatusCompleted, outcomes[Pair{"base", "east"}].Status)

	failed := outcomes[Pair{"base", "ghost"}]
	require.Equal(t, StatusFailed, failed.Status)
	require.NotNil(t, failed.Err)
	assert.Equal(t, "ghost", failed.Err.Region)
	var missErr types.MissingDataError
	assert.ErrorAs(t, failed.Err, &missErr)
}

func TestRunBatch_ParallelMatchesSequential(t *testing.T) {
	p := newTestProvider("a", "b", "c")
	scenarios := []string{"base", "high_re"}
	regions := []string{"a", "b", "c"}

	seq := New(p, nil, testConfig(), zerolog.Nop(), nil)
	seqOut, err := seq.RunBatch(context.Background(), scenarios, regions)
	require.NoError(t, err)

	cfg := testConfig()
	cfg.Workers = 4
	par := New(p, nil, cfg, zerolog.Nop(), nil)
	parOut, err := par.RunBatch(context.Background(), scenarios, regions)
	require.NoError(t, err)

	require.Len(t, parOut, len(seqOut))
	for pair, out := range seqOut {
		assert.Equal(t, out.Status, parOut[pair].Status)
		assert.Equal(t, out.Result, parOut[pair].Result)
	}
}

func TestRunBatch_ProgressEvents(t *testing.T) {
	orch := New(newTestProvider("west", "east"), nil, testConfig(), zerolog.Nop(), nil)

	var events []progressfeed.ProgressEvent
	orch.SetProgressFunc(func(event progressfeed.ProgressEvent) {
		events = append(events, event)
	})

	_, err := orch.RunBatch(context.Background(), []string{"base"}, []string{"west", "east"})
	require.NoError(t, err)

	// Initial snapshot, one event per pair, final done event.
	require.Len(t, events, 4)
	last := events[len(events)-1]
	assert.True(t, last.Done)
	assert.Equal(t, 2, last.Total)
	assert.Equal(t, 2, last.Completed)
	assert.Zero(t, last.Failed)
}

func TestRunBatch_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	orch := New(newTestProvider("west"), nil, testConfig(), zerolog.Nop(), nil)
	_, err := orch.RunBatch(ctx, []string{"base"}, []string{"west"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCrossProduct_SortedScenarioMajor(t *testing.T) {
	pairs := crossProduct([]string{"b", "a"}, []string{"y", "x"})
	want := []Pair{
		{"a", "x"}, {"a", "y"},
		{"b", "x"}, {"b", "y"},
	}
	assert.Equal(t, want, pairs)
}
