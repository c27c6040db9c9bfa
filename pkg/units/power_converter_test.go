package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPowerConversions(t *testing.T) {
	assert.InDelta(t, 1500, GwToMw(1.5), 1e-12)
	assert.InDelta(t, 1.5, MwToGw(1500), 1e-12)
	assert.InDelta(t, 0.25, MwhToGwh(250), 1e-12)
	assert.InDelta(t, 250, GwhToMwh(0.25), 1e-12)
}

func TestConversionsRoundTrip(t *testing.T) {
	assert.InDelta(t, 3.7, MwToGw(GwToMw(3.7)), 1e-12)
	assert.InDelta(t, 42.0, GwhToMwh(MwhToGwh(42.0)), 1e-12)
}
