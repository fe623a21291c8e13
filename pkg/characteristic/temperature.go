package characteristic

import (
	"fmt"

	"github.com/srg/bluetoothsig/pkg/codec/template"
	"github.com/srg/bluetoothsig/pkg/uuid"
)

// Temperature implements the Environmental Sensing Temperature
// characteristic (0x2A6E): a sint16 in 0.01 degree Celsius units.
// Distinct from Health Thermometer's Temperature Measurement, which uses
// an IEEE-11073 32-bit float and carries optional timestamp/type fields.
type Temperature struct{}

func (Temperature) Name() string            { return "Temperature" }
func (Temperature) UUID() uuid.UUID          { return uuid.MustParse("2A6E") }
func (Temperature) Dependencies() []string   { return nil }
func (Temperature) LengthBounds() (int, int) { return 2, 2 }

func (c Temperature) Decode(data []byte, ctx *Context) Outcome {
	value, err := template.Temperature().Decode(data)
	if err != nil {
		return Outcome{Err: err}
	}
	descRange := DescriptorRange(ctx, template.Temperature().Decode)
	if err := ValidateRange(c.Name(), value, descRange, nil, &ValidRange{Min: -273.15, Max: 327.67, Source: "yaml"}); err != nil {
		return Outcome{Err: err}
	}
	return Outcome{Value: value}
}

func (c Temperature) Encode(value any, ctx *Context) ([]byte, error) {
	v, ok := asFloat64(value)
	if !ok {
		return nil, &TypeMismatchError{Name: c.Name(), Want: "float64", Got: fmt.Sprintf("%T", value)}
	}
	return template.Temperature().Encode(v)
}

func asFloat64(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

func asUint64(value any) (uint64, bool) {
	switch v := value.(type) {
	case uint64:
		return v, true
	case uint32:
		return uint64(v), true
	case uint16:
		return uint64(v), true
	case uint8:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
