package characteristic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBodyCompositionFeatureRoundTrip(t *testing.T) {
	p := NewPipeline(BodyCompositionFeature{})
	// timestamp + weight + height supported, mass resolution 0.1kg (3), height resolution 0.001m (3)
	raw := uint32(0x01) | uint32(0x200) | uint32(0x400) | (3 << 11) | (3 << 15)
	data, err := p.Encode(BodyCompositionFeatureData{
		RawValue:           raw,
		TimestampSupported: true,
		WeightSupported:    true,
		HeightSupported:    true,
		MassResolution:     "0.1_kg_or_0.2_lb",
		HeightResolution:   "0.001_m_or_0.1_inch",
	}, nil)
	require.NoError(t, err)

	outcome := p.Parse(data, nil)
	require.NoError(t, outcome.Err)
	d := outcome.Value.(BodyCompositionFeatureData)
	assert.True(t, d.TimestampSupported)
	assert.True(t, d.WeightSupported)
	assert.True(t, d.HeightSupported)
	assert.False(t, d.MuscleMassSupported)
	assert.Equal(t, "0.1_kg_or_0.2_lb", d.MassResolution)
	assert.Equal(t, "0.001_m_or_0.1_inch", d.HeightResolution)
}
