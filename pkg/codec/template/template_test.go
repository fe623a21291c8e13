package template_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/srg/bluetoothsig/pkg/codec"
	"github.com/srg/bluetoothsig/pkg/codec/template"
)

func TestScaledUint16RoundTrip(t *testing.T) {
	pct := template.Percentage()
	encoded, err := pct.Encode(45.5)
	assert.NoError(t, err)
	decoded, err := pct.Decode(encoded)
	assert.NoError(t, err)
	assert.InDelta(t, 45.5, decoded, 0.001)
}

func TestScaledSint16Temperature(t *testing.T) {
	temp := template.Temperature()
	encoded, err := temp.Encode(-12.34)
	assert.NoError(t, err)
	decoded, err := temp.Decode(encoded)
	assert.NoError(t, err)
	assert.InDelta(t, -12.34, decoded, 0.01)
}

func TestScaledUint16OutOfRange(t *testing.T) {
	pct := template.Percentage()
	_, err := pct.Encode(1e9)
	assert.Error(t, err)
}

func TestScaledUint24RoundTrip(t *testing.T) {
	tmpl := template.NewScaledUint24(1.0, "revolutions")
	encoded, err := tmpl.Encode(1234567)
	assert.NoError(t, err)
	decoded, err := tmpl.Decode(encoded)
	assert.NoError(t, err)
	assert.InDelta(t, 1234567, decoded, 0.001)
}

func TestScaledSint24RoundTrip(t *testing.T) {
	tmpl := template.NewScaledSint24(1.0, "")
	encoded, err := tmpl.Encode(-500000)
	assert.NoError(t, err)
	decoded, err := tmpl.Decode(encoded)
	assert.NoError(t, err)
	assert.InDelta(t, -500000, decoded, 0.001)
}

func TestWindSpeedAndDirection(t *testing.T) {
	speed := template.WindSpeed()
	encoded, err := speed.Encode(5.12)
	assert.NoError(t, err)
	decoded, err := speed.Decode(encoded)
	assert.NoError(t, err)
	assert.InDelta(t, 5.12, decoded, 0.01)

	dir := template.WindDirection()
	encoded, err = dir.Encode(180.0)
	assert.NoError(t, err)
	decoded, err = dir.Decode(encoded)
	assert.NoError(t, err)
	assert.InDelta(t, 180.0, decoded, 0.01)
}

func TestSimpleUint8(t *testing.T) {
	tmpl := template.SimpleUint8{Unit: "index"}
	encoded := tmpl.Encode(5)
	decoded, err := tmpl.Decode(encoded)
	assert.NoError(t, err)
	assert.Equal(t, uint8(5), decoded)
}

func TestEnum(t *testing.T) {
	e := template.NewEnum(map[uint8]string{0: "unknown", 1: "ok", 2: "fault"})
	decoded, err := e.Decode([]byte{1})
	assert.NoError(t, err)
	assert.Equal(t, "ok", decoded)

	encoded, err := e.Encode("fault")
	assert.NoError(t, err)
	assert.Equal(t, []byte{2}, encoded)

	_, err = e.Decode([]byte{9})
	assert.Error(t, err)
}

func TestIEEE11073FloatConcentration(t *testing.T) {
	conc := template.Concentration()
	encoded := conc.Encode(0.125)
	value, special, err := conc.Decode(encoded)
	assert.NoError(t, err)
	assert.Equal(t, codec.MedfloatNone, special)
	assert.InDelta(t, 0.125, value, 0.0005)
}

func TestIEEE11073FloatSpecial(t *testing.T) {
	conc := template.Concentration()
	encoded := conc.EncodeSpecial(codec.MedfloatNaN)
	_, special, err := conc.Decode(encoded)
	assert.NoError(t, err)
	assert.Equal(t, codec.MedfloatNaN, special)
}
