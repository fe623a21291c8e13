package characteristic

import (
	"fmt"

	"github.com/srg/bluetoothsig/pkg/codec/template"
	"github.com/srg/bluetoothsig/pkg/uuid"
)

// Humidity implements the Environmental Sensing Humidity characteristic
// (0x2A6F): a uint16 in 0.01% units, 0-100%.
type Humidity struct{}

func (Humidity) Name() string            { return "Humidity" }
func (Humidity) UUID() uuid.UUID          { return uuid.MustParse("2A6F") }
func (Humidity) Dependencies() []string   { return nil }
func (Humidity) LengthBounds() (int, int) { return 2, 2 }

func (c Humidity) Decode(data []byte, ctx *Context) Outcome {
	value, err := template.Percentage().Decode(data)
	if err != nil {
		return Outcome{Err: err}
	}
	return Outcome{Value: value}
}

func (c Humidity) Encode(value any, ctx *Context) ([]byte, error) {
	v, ok := asFloat64(value)
	if !ok {
		return nil, &TypeMismatchError{Name: c.Name(), Want: "float64", Got: fmt.Sprintf("%T", value)}
	}
	return template.Percentage().Encode(v)
}
