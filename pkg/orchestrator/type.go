package orchestrator

import "github.com/gridward/adequacy_sim/pkg/types"

// Config scopes one batch invocation.
type Config struct {
	TargetYear  int
	WeatherYear int
	WindowHours int
	// Workers is the number of concurrent pipelines. 1 (the default)
	// keeps log and progress ordering reproducible.
	Workers int
}

// Pair identifies one (scenario, region) run within a batch.
type Pair struct {
	Scenario string
	Region   string
}

type Status string

const (
	StatusCompleted Status = "completed"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// Outcome is the per-pair result of a batch: either a RunResult
// (computed or reused from cache) or the RunError that sank the pair.
type Outcome struct {
	Status Status
	Result *types.RunResult
	Err    *types.RunError
}
