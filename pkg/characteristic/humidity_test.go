package characteristic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srg/bluetoothsig/pkg/codec"
)

func TestHumidityRoundTrip(t *testing.T) {
	p := NewPipeline(Humidity{})
	data := codec.PackUint16(5000) // 50.00%
	outcome := p.Parse(data, nil)
	require.NoError(t, outcome.Err)
	assert.InDelta(t, 50.0, outcome.Value.(float64), 1e-9)

	encoded, err := p.Encode(50.0, nil)
	require.NoError(t, err)
	assert.Equal(t, data, encoded)
}
