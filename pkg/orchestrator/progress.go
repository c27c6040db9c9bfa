package orchestrator

import (
	"sync"
	"time"

	"github.com/gridward/adequacy_sim/pkg/progressfeed"
)

// progressTracker keeps running batch counters and derives an ETA from
// the observed mean duration of completed runs. Skipped cache hits are
// excluded from the mean so they do not drag the estimate to zero.
type progressTracker struct {
	mu sync.Mutex

	total         int
	nCompleted    int
	nSkipped      int
	nFailed       int
	totalDuration time.Duration
}

func newTracker(total int) *progressTracker {
	return &progressTracker{total: total}
}

func (t *progressTracker) completed(took time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nCompleted++
	t.totalDuration += took
}

func (t *progressTracker) skipped() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nSkipped++
}

func (t *progressTracker) failed() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nFailed++
}

func (t *progressTracker) snapshot() progressfeed.ProgressEvent {
	t.mu.Lock()
	defer t.mu.Unlock()

	event := progressfeed.ProgressEvent{
		Total:     t.total,
		Completed: t.nCompleted,
		Skipped:   t.nSkipped,
		Failed:    t.nFailed,
	}
	if t.nCompleted > 0 {
		mean := t.totalDuration.Seconds() / float64(t.nCompleted)
		remaining := t.total - t.nCompleted - t.nSkipped - t.nFailed
		event.MeanRunSeconds = mean
		event.EtaSeconds = mean * float64(remaining)
	}
	return event
}
