package characteristic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCyclingPowerVectorForceMagnitudes(t *testing.T) {
	p := NewPipeline(CyclingPowerVector{})
	in := CyclingPowerVectorData{
		CrankRevolutions:           10,
		LastCrankEventTime:         1.5,
		FirstCrankMeasurementAngle: 90.0,
		ForceMagnitudes:            []int16{100, -50, 200},
	}
	data, err := p.Encode(in, nil)
	require.NoError(t, err)

	outcome := p.Parse(data, nil)
	require.NoError(t, outcome.Err)
	out := outcome.Value.(CyclingPowerVectorData)
	assert.Equal(t, uint16(10), out.CrankRevolutions)
	assert.InDelta(t, 1.5, out.LastCrankEventTime, 1e-3)
	assert.InDelta(t, 90.0, out.FirstCrankMeasurementAngle, 1e-2)
	assert.Equal(t, []int16{100, -50, 200}, out.ForceMagnitudes)
	assert.Nil(t, out.TorqueMagnitudes)
}

func TestCyclingPowerVectorTorqueMagnitudes(t *testing.T) {
	p := NewPipeline(CyclingPowerVector{})
	in := CyclingPowerVectorData{
		CrankRevolutions:           5,
		LastCrankEventTime:         0.5,
		FirstCrankMeasurementAngle: 45.0,
		TorqueMagnitudes:          []float64{1.5, 2.0},
	}
	data, err := p.Encode(in, nil)
	require.NoError(t, err)

	outcome := p.Parse(data, nil)
	require.NoError(t, outcome.Err)
	out := outcome.Value.(CyclingPowerVectorData)
	require.Len(t, out.TorqueMagnitudes, 2)
	assert.InDelta(t, 1.5, out.TorqueMagnitudes[0], 1e-2)
	assert.InDelta(t, 2.0, out.TorqueMagnitudes[1], 1e-2)
}
