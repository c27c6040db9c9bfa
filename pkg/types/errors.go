package types

import "fmt"

// DataAlignmentError reports input series of mismatched length or
// mismatched weather years across regions being aggregated. Always
// fatal to the single run in question; the series is never padded or
// truncated to fit.
type DataAlignmentError struct {
	Series  string
	Region  string
	WantLen int
	GotLen  int
	Detail  string
}

func (err DataAlignmentError) Error() string {
	msg := fmt.Sprintf("series %q misaligned", err.Series)
	if err.Region != "" {
		msg += fmt.Sprintf(" for region %q", err.Region)
	}
	if err.WantLen != err.GotLen {
		msg += fmt.Sprintf(": want %d hours, got %d", err.WantLen, err.GotLen)
	}
	if err.Detail != "" {
		msg += ": " + err.Detail
	}
	return msg
}

// InvalidCapacityError reports a negative or otherwise out-of-domain
// capacity or storage-specification value.
type InvalidCapacityError struct {
	Field string
	Value float64
}

func (err InvalidCapacityError) Error() string {
	return fmt.Sprintf("invalid capacity value %v for %s", err.Value, err.Field)
}

// MissingDataError reports a (scenario, region) combination with no
// underlying source data at all. Raised loudly instead of proceeding
// with a zero-filled or substituted series.
type MissingDataError struct {
	Scenario string
	Region   string
	Source   string
}

func (err MissingDataError) Error() string {
	msg := fmt.Sprintf("no source data in %s", err.Source)
	if err.Scenario != "" {
		msg += fmt.Sprintf(" for scenario %q", err.Scenario)
	}
	if err.Region != "" {
		msg += fmt.Sprintf(" region %q", err.Region)
	}
	return msg
}

// RunError tags a per-stage failure with the (scenario, region) pair it
// belongs to. The batch orchestrator records these and moves on; it
// never aborts the whole batch for one failed pair.
type RunError struct {
	Scenario string
	Region   string
	Err      error
}

func (err RunError) Error() string {
	return fmt.Sprintf("run (%s, %s) failed: %v", err.Scenario, err.Region, err.Err)
}

func (err RunError) Unwrap() error {
	return err.Err
}
