package characteristic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srg/bluetoothsig/pkg/codec"
)

func TestTemperatureRoundTrip(t *testing.T) {
	p := NewPipeline(Temperature{})
	data := codec.PackSint16(2150) // 21.50 C
	outcome := p.Parse(data, nil)
	require.NoError(t, outcome.Err)
	assert.InDelta(t, 21.5, outcome.Value.(float64), 1e-9)

	encoded, err := p.Encode(21.5, nil)
	require.NoError(t, err)
	assert.Equal(t, data, encoded)
}

func TestTemperatureNegative(t *testing.T) {
	p := NewPipeline(Temperature{})
	data := codec.PackSint16(-500) // -5.00 C
	outcome := p.Parse(data, nil)
	require.NoError(t, outcome.Err)
	assert.InDelta(t, -5.0, outcome.Value.(float64), 1e-9)
}

func TestTemperatureDescriptorRangeOverridesClassRange(t *testing.T) {
	p := NewPipeline(Temperature{})

	// Valid Range descriptor: min -10.00 C, max 50.00 C, each a sint16
	// in the characteristic's own 0.01 C units.
	validRange := append(codec.PackSint16(-1000), codec.PackSint16(5000)...)
	ctx := &Context{Descriptors: map[string][]byte{ValidRangeDescriptorUUID: validRange}}

	// 80.00 C passes the class/YAML range (-273.15..327.67) but falls
	// outside the descriptor-supplied range, so the descriptor must win.
	data := codec.PackSint16(8000)
	outcome := p.Parse(data, ctx)
	require.Error(t, outcome.Err)
	assert.Contains(t, outcome.Err.Error(), "source: descriptor")
}

func TestTemperatureDescriptorRangeAllowsNarrowerValue(t *testing.T) {
	p := NewPipeline(Temperature{})
	validRange := append(codec.PackSint16(-1000), codec.PackSint16(5000)...)
	ctx := &Context{Descriptors: map[string][]byte{ValidRangeDescriptorUUID: validRange}}

	data := codec.PackSint16(2150) // 21.50 C, inside the descriptor range
	outcome := p.Parse(data, ctx)
	require.NoError(t, outcome.Err)
	assert.InDelta(t, 21.5, outcome.Value.(float64), 1e-9)
}
