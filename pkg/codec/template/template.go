// Package template implements the small set of parameterised, reusable
// codecs that back the majority of simple GATT characteristics: a scaled
// integer read at one of several widths, an IEEE-11073 float, and a
// closed enumeration. A characteristic composes one of these instead of
// hand-rolling its own decode/encode pair.
package template

import (
	"fmt"

	"github.com/mcuadros/go-defaults"

	"github.com/srg/bluetoothsig/pkg/codec"
)

// ScaledUint16 decodes/encodes a little-endian uint16 as value =
// raw * Resolution, the shape used by Humidity, Heart Rate adjacent
// percentage-style fields, and most "scaled measurement" characteristics.
type ScaledUint16 struct {
	Resolution float64 `default:"1.0"`
	Unit       string  `default:""`
	MaxValue   float64 `default:"0"` // 0 means unbounded
}

// NewScaledUint16 applies go-defaults to zero-valued fields before
// returning, mirroring the SIG template constructors'
// ScaledUint16(resolution, max_value, unit) signature.
func NewScaledUint16(resolution float64, maxValue float64, unit string) ScaledUint16 {
	t := ScaledUint16{Resolution: resolution, MaxValue: maxValue, Unit: unit}
	defaults.SetDefaults(&t)
	if resolution != 0 {
		t.Resolution = resolution
	}
	return t
}

func (t ScaledUint16) Decode(data []byte) (float64, error) {
	raw, err := codec.ExtractUint16(data)
	if err != nil {
		return 0, err
	}
	return float64(raw) * t.Resolution, nil
}

func (t ScaledUint16) Encode(value float64) ([]byte, error) {
	if t.MaxValue != 0 && value > t.MaxValue {
		return nil, fmt.Errorf("scaled uint16: %v above maximum %v", value, t.MaxValue)
	}
	raw := value / t.Resolution
	if raw < 0 || raw > 0xFFFF {
		return nil, fmt.Errorf("scaled uint16: %v out of range", value)
	}
	return codec.PackUint16(uint16(raw + 0.5)), nil
}

// ScaledSint16 is ScaledUint16's signed counterpart, used by Temperature
// and other measurements that can go negative.
type ScaledSint16 struct {
	Resolution float64 `default:"1.0"`
	Unit       string  `default:""`
}

func NewScaledSint16(resolution float64, unit string) ScaledSint16 {
	t := ScaledSint16{Resolution: resolution, Unit: unit}
	defaults.SetDefaults(&t)
	if resolution != 0 {
		t.Resolution = resolution
	}
	return t
}

func (t ScaledSint16) Decode(data []byte) (float64, error) {
	raw, err := codec.ExtractSint16(data)
	if err != nil {
		return 0, err
	}
	return float64(raw) * t.Resolution, nil
}

func (t ScaledSint16) Encode(value float64) ([]byte, error) {
	raw := value / t.Resolution
	if raw < -32768 || raw > 32767 {
		return nil, fmt.Errorf("scaled sint16: %v out of range", value)
	}
	if raw >= 0 {
		return codec.PackSint16(int16(raw + 0.5)), nil
	}
	return codec.PackSint16(int16(raw - 0.5)), nil
}

// ScaledUint24 is ScaledUint16 widened to 24 bits, used by cumulative
// counters that need more range than a uint16 offers (wheel revolutions).
type ScaledUint24 struct {
	Resolution float64 `default:"1.0"`
	Unit       string  `default:""`
}

func NewScaledUint24(resolution float64, unit string) ScaledUint24 {
	t := ScaledUint24{Resolution: resolution, Unit: unit}
	defaults.SetDefaults(&t)
	if resolution != 0 {
		t.Resolution = resolution
	}
	return t
}

func (t ScaledUint24) Decode(data []byte) (float64, error) {
	raw, err := codec.ExtractUint24(data)
	if err != nil {
		return 0, err
	}
	return float64(raw) * t.Resolution, nil
}

func (t ScaledUint24) Encode(value float64) ([]byte, error) {
	raw := value / t.Resolution
	if raw < 0 || raw > 0xFFFFFF {
		return nil, fmt.Errorf("scaled uint24: %v out of range", value)
	}
	return codec.PackUint24(uint32(raw + 0.5)), nil
}

// ScaledSint24 is ScaledUint24's signed counterpart.
type ScaledSint24 struct {
	Resolution float64 `default:"1.0"`
	Unit       string  `default:""`
}

func NewScaledSint24(resolution float64, unit string) ScaledSint24 {
	t := ScaledSint24{Resolution: resolution, Unit: unit}
	defaults.SetDefaults(&t)
	if resolution != 0 {
		t.Resolution = resolution
	}
	return t
}

func (t ScaledSint24) Decode(data []byte) (float64, error) {
	raw, err := codec.ExtractSint24(data)
	if err != nil {
		return 0, err
	}
	return float64(raw) * t.Resolution, nil
}

func (t ScaledSint24) Encode(value float64) ([]byte, error) {
	raw := value / t.Resolution
	if raw < -8388608 || raw > 8388607 {
		return nil, fmt.Errorf("scaled sint24: %v out of range", value)
	}
	if raw >= 0 {
		return codec.PackSint24(int32(raw + 0.5)), nil
	}
	return codec.PackSint24(int32(raw - 0.5)), nil
}

// Percentage is a ScaledUint16 fixed at 0.01 resolution and a 0-100 bound,
// the shape every "percentage measurement" GATT characteristic shares.
func Percentage() ScaledUint16 {
	return NewScaledUint16(0.01, 100.0, "%")
}

// Temperature is a ScaledSint16 fixed at 0.01 resolution in degrees
// Celsius, matching Environmental Sensing's Temperature characteristic.
func Temperature() ScaledSint16 {
	return NewScaledSint16(0.01, "°C")
}

// WindSpeed is a ScaledUint16 fixed at 0.01 resolution in metres per
// second, shared by Apparent/True Wind Speed.
func WindSpeed() ScaledUint16 {
	return NewScaledUint16(0.01, 0, "m/s")
}

// WindDirection is a ScaledUint16 fixed at 0.01 resolution in degrees,
// shared by Apparent/True Wind Direction.
func WindDirection() ScaledUint16 {
	return NewScaledUint16(0.01, 360.0, "°")
}

// SimpleUint8 passes a single byte through unscaled, used by
// characteristics whose raw value already is the reported quantity (UV
// Index, Alert Level).
type SimpleUint8 struct {
	Unit string `default:""`
}

func (t SimpleUint8) Decode(data []byte) (uint8, error) { return codec.ExtractUint8(data) }
func (t SimpleUint8) Encode(value uint8) []byte          { return codec.PackUint8(value) }

// SimpleSint8 is SimpleUint8's signed counterpart.
type SimpleSint8 struct {
	Unit string `default:""`
}

func (t SimpleSint8) Decode(data []byte) (int8, error) { return codec.ExtractSint8(data) }
func (t SimpleSint8) Encode(value int8) []byte          { return codec.PackSint8(value) }

// SimpleUint16 passes a 16-bit little-endian value through unscaled,
// used by characteristics whose raw value already is the reported
// quantity (VOC Concentration's ppb count).
type SimpleUint16 struct {
	Unit string `default:""`
}

func (t SimpleUint16) Decode(data []byte) (uint16, error) { return codec.ExtractUint16(data) }
func (t SimpleUint16) Encode(value uint16) []byte          { return codec.PackUint16(value) }

// Enum decodes a single byte against a closed set of labelled values,
// returning an error for any raw value not present in Labels.
type Enum struct {
	Labels map[uint8]string
}

func NewEnum(labels map[uint8]string) Enum { return Enum{Labels: labels} }

func (t Enum) Decode(data []byte) (string, error) {
	raw, err := codec.ExtractUint8(data)
	if err != nil {
		return "", err
	}
	label, ok := t.Labels[raw]
	if !ok {
		return "", fmt.Errorf("enum: unrecognised raw value %d", raw)
	}
	return label, nil
}

func (t Enum) Encode(label string) ([]byte, error) {
	for raw, l := range t.Labels {
		if l == label {
			return codec.PackUint8(raw), nil
		}
	}
	return nil, fmt.Errorf("enum: unrecognised label %q", label)
}

// IEEE11073Float decodes/encodes a 16-bit IEEE-11073 SFLOAT, surfacing
// reserved sentinel values as a codec.MedfloatSpecial instead of silently
// folding them into a plain float.
type IEEE11073Float struct {
	Exponent int8   `default:"0"`
	Unit     string `default:""`
}

func NewIEEE11073Float(exponent int8, unit string) IEEE11073Float {
	return IEEE11073Float{Exponent: exponent, Unit: unit}
}

func (t IEEE11073Float) Decode(data []byte) (float64, codec.MedfloatSpecial, error) {
	return codec.ExtractMedfloat16(data)
}

func (t IEEE11073Float) Encode(value float64) []byte {
	return codec.PackMedfloat16(value, t.Exponent)
}

func (t IEEE11073Float) EncodeSpecial(special codec.MedfloatSpecial) []byte {
	return codec.PackMedfloat16Special(special)
}

// Concentration is an IEEE11073Float fixed at exponent -3 (milli-unit
// resolution), for the medfloat16 gas-concentration characteristics
// reported in kg/m3 (e.g. Ammonia, CO, NO2). VOC Concentration (0x2BD3)
// does not use this template: it reports a plain unscaled uint16 ppb
// count, see VOCConcentration.
func Concentration() IEEE11073Float {
	return NewIEEE11073Float(-3, "kg/m³")
}
