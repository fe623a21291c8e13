package characteristic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatteryLevelRoundTrip(t *testing.T) {
	p := NewPipeline(BatteryLevel{})
	outcome := p.Parse([]byte{42}, nil)
	require.NoError(t, outcome.Err)
	assert.Equal(t, uint8(42), outcome.Value)

	data, err := p.Encode(uint8(42), nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{42}, data)
}

func TestBatteryLevelOutOfRange(t *testing.T) {
	p := NewPipeline(BatteryLevel{})
	outcome := p.Parse([]byte{101}, nil)
	require.Error(t, outcome.Err)
}

func TestBatteryLevelLengthValidation(t *testing.T) {
	p := NewPipeline(BatteryLevel{})
	outcome := p.Parse([]byte{}, nil)
	require.Error(t, outcome.Err)
	outcome = p.Parse([]byte{1, 2}, nil)
	require.Error(t, outcome.Err)
}
