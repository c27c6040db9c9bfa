package orchestrator

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gridward/adequacy_sim/pkg/types"
)

// RunBatch drives the pipeline over the cross-product of scenarios and
// regions. Each pair is independent: a cached result with a matching
// fingerprint is reused, a failure is recorded as a RunError without
// aborting the batch, and re-invoking after an interruption completes
// only the remaining pairs.
func (o *Orchestrator) RunBatch(ctx context.Context, scenarios, regions []string) (map[Pair]Outcome, error) {
	pairs := crossProduct(scenarios, regions)
	tracker := newTracker(len(pairs))
	o.publish(tracker, Pair{}, "")

	outcomes := make(map[Pair]Outcome, len(pairs))
	var mu sync.Mutex

	record := func(pair Pair, out Outcome) {
		mu.Lock()
		outcomes[pair] = out
		mu.Unlock()
		o.publish(tracker, pair, out.Status)
	}

	if o.cfg.Workers == 1 {
		for _, pair := range pairs {
			if err := ctx.Err(); err != nil {
				return outcomes, err
			}
			record(pair, o.runPair(pair, tracker))
		}
	} else {
		// Worker pool over a pair channel. Safe because each pair
		// reads only its own inputs and writes only its own cache key.
		pairChan := make(chan Pair, len(pairs))
		for _, pair := range pairs {
			pairChan <- pair
		}
		close(pairChan)

		var wg sync.WaitGroup
		for w := 0; w < o.cfg.Workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for pair := range pairChan {
					if ctx.Err() != nil {
						return
					}
					record(pair, o.runPair(pair, tracker))
				}
			}()
		}
		wg.Wait()
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}
	}

	o.publishDone(tracker)
	return outcomes, nil
}

// runPair is the single place where pipeline errors are converted into
// RunErrors; everything below it propagates errors unmodified.
func (o *Orchestrator) runPair(pair Pair, tracker *progressTracker) Outcome {
	started := time.Now()

	fail := func(err error) Outcome {
		runErr := &types.RunError{Scenario: pair.Scenario, Region: pair.Region, Err: err}
		o.log.Error().Err(runErr).Msg("run failed")
		tracker.failed()
		return Outcome{Status: StatusFailed, Err: runErr}
	}

	rs, mix, spec, err := o.regionInputs(pair.Scenario, pair.Region)
	if err != nil {
		return fail(err)
	}

	key := types.RunKey{
		Scenario:    pair.Scenario,
		Region:      pair.Region,
		WeatherYear: o.cfg.WeatherYear,
		Fingerprint: o.fingerprint(rs, mix, spec),
	}

	if o.store != nil {
		cached, hit, err := o.store.Get(key)
		if err != nil {
			return fail(err)
		}
		if hit {
			o.log.Info().
				Str("scenario", pair.Scenario).
				Str("region", pair.Region).
				Msg("cache hit, skipping")
			tracker.skipped()
			return Outcome{Status: StatusSkipped, Result: cached}
		}
	}

	result, err := o.analyze(pair.Scenario, pair.Region, rs, mix, spec)
	if err != nil {
		return fail(err)
	}

	if o.store != nil {
		if err := o.store.Put(result); err != nil {
			return fail(err)
		}
	}

	o.log.Info().
		Str("scenario", pair.Scenario).
		Str("region", pair.Region).
		Dur("took", time.Since(started)).
		Msg("run completed")
	tracker.completed(time.Since(started))
	return Outcome{Status: StatusCompleted, Result: result}
}

func (o *Orchestrator) publish(tracker *progressTracker, pair Pair, status Status) {
	event := tracker.snapshot()
	event.LastScenario = pair.Scenario
	event.LastRegion = pair.Region
	event.LastOutcome = string(status)
	if o.onProgress != nil {
		o.onProgress(event)
	}
	if o.broadcaster != nil {
		o.broadcaster.Broadcast(&event)
	}
}

func (o *Orchestrator) publishDone(tracker *progressTracker) {
	event := tracker.snapshot()
	event.Done = true
	if o.onProgress != nil {
		o.onProgress(event)
	}
	if o.broadcaster != nil {
		o.broadcaster.Broadcast(&event)
	}
}

// crossProduct returns scenario-major, alphabetically sorted pairs so
// batch ordering is reproducible regardless of input order.
func crossProduct(scenarios, regions []string) []Pair {
	sortedScenarios := append([]string(nil), scenarios...)
	sortedRegions := append([]string(nil), regions...)
	sort.Strings(sortedScenarios)
	sort.Strings(sortedRegions)

	pairs := make([]Pair, 0, len(sortedScenarios)*len(sortedRegions))
	for _, s := range sortedScenarios {
		for _, r := range sortedRegions {
			pairs = append(pairs, Pair{Scenario: s, Region: r})
		}
	}
	return pairs
}
