package characteristic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCyclingPowerFeatureRoundTrip(t *testing.T) {
	p := NewPipeline(CyclingPowerFeature{})
	data, err := p.Encode(uint32(0x0000000F), nil)
	require.NoError(t, err)

	outcome := p.Parse(data, nil)
	require.NoError(t, outcome.Err)
	assert.Equal(t, uint32(0x0000000F), outcome.Value.(uint32))
}
