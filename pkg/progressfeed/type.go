package progressfeed

import "encoding/json"

// ProgressEvent is one snapshot of batch progress, broadcast after
// every finished (scenario, region) pair and consumed by watch
// clients.
type ProgressEvent struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`

	// MeanRunSeconds is the observed mean duration of completed runs;
	// EtaSeconds extrapolates it over the remaining pairs.
	MeanRunSeconds float64 `json:"mean_run_seconds"`
	EtaSeconds     float64 `json:"eta_seconds"`

	LastScenario string `json:"last_scenario"`
	LastRegion   string `json:"last_region"`
	LastOutcome  string `json:"last_outcome"`

	Done bool `json:"done"`
}

func (e *ProgressEvent) ToJsonBytes() []byte {
	data, err := json.Marshal(e)
	if err != nil {
		return nil
	}
	return data
}

// ProgressEventFromJsonBytes returns nil on malformed input.
func ProgressEventFromJsonBytes(data []byte) *ProgressEvent {
	var e ProgressEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil
	}
	return &e
}
