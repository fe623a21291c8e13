package characteristic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlucoseMeasurementRoundTrip(t *testing.T) {
	p := NewPipeline(GlucoseMeasurement{})
	glucose := 5.5
	in := GlucoseMeasurementData{
		SequenceNumber: 42,
		BaseTime:       DateTime{Year: 2024, Month: 6, Day: 1, Hours: 8, Minutes: 0, Seconds: 0},
		GlucoseConcentration: &glucose,
		Unit:                 "mmol/L",
	}
	data, err := p.Encode(in, nil)
	require.NoError(t, err)

	outcome := p.Parse(data, nil)
	require.NoError(t, outcome.Err)
	out := outcome.Value.(GlucoseMeasurementData)
	assert.Equal(t, uint16(42), out.SequenceNumber)
	assert.Equal(t, "mmol/L", out.Unit)
	require.NotNil(t, out.GlucoseConcentration)
	assert.InDelta(t, 5.5, *out.GlucoseConcentration, 1e-3)
}

func TestGlucoseMeasurementWithTypeAndSensorStatus(t *testing.T) {
	p := NewPipeline(GlucoseMeasurement{})
	glucose := 4.2
	gtype := uint8(1)
	loc := uint8(2)
	status := uint16(0x0001)
	in := GlucoseMeasurementData{
		SequenceNumber:       7,
		BaseTime:             DateTime{Year: 2024, Month: 1, Day: 1, Hours: 0, Minutes: 0, Seconds: 0},
		GlucoseConcentration: &glucose,
		Unit:                 "mg/dL",
		GlucoseType:          &gtype,
		SampleLocation:       &loc,
		SensorStatus:         &status,
	}
	data, err := p.Encode(in, nil)
	require.NoError(t, err)

	outcome := p.Parse(data, nil)
	require.NoError(t, outcome.Err)
	out := outcome.Value.(GlucoseMeasurementData)
	require.NotNil(t, out.GlucoseType)
	assert.Equal(t, uint8(1), *out.GlucoseType)
	require.NotNil(t, out.SampleLocation)
	assert.Equal(t, uint8(2), *out.SampleLocation)
	require.NotNil(t, out.SensorStatus)
	assert.Equal(t, uint16(1), *out.SensorStatus)
}
