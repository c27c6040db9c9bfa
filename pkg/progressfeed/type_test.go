package progressfeed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressEvent_JsonRoundTrip(t *testing.T) {
	want := &ProgressEvent{
		Total:          12,
		Completed:      5,
		Skipped:        3,
		Failed:         1,
		MeanRunSeconds: 2.5,
		EtaSeconds:     7.5,
		LastScenario:   "base",
		LastRegion:     "west",
		LastOutcome:    "completed",
	}

	got := ProgressEventFromJsonBytes(want.ToJsonBytes())
	require.NotNil(t, got)
	assert.Equal(t, want, got)
}

func TestProgressEventFromJsonBytes_Malformed(t *testing.T) {
	assert.Nil(t, ProgressEventFromJsonBytes([]byte("not json")))
}
