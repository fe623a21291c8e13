package characteristic

import (
	"fmt"

	"github.com/srg/bluetoothsig/pkg/codec"
	"github.com/srg/bluetoothsig/pkg/uuid"
)

// BatteryLevel implements the Battery Level characteristic (0x2A19): a
// single byte, 0-100, the device's remaining battery charge as a
// percentage. Unlike most "percentage" characteristics the raw byte IS
// the percentage; there is no 0.01-resolution scaling.
type BatteryLevel struct{}

func (BatteryLevel) Name() string          { return "Battery Level" }
func (BatteryLevel) UUID() uuid.UUID        { return uuid.MustParse("2A19") }
func (BatteryLevel) Dependencies() []string { return nil }
func (BatteryLevel) LengthBounds() (int, int) { return 1, 1 }

func (c BatteryLevel) Decode(data []byte, ctx *Context) Outcome {
	raw, err := codec.ExtractUint8(data)
	if err != nil {
		return Outcome{Err: err}
	}
	if raw > 100 {
		return Outcome{Err: &RangeError{Name: c.Name(), Value: float64(raw), Min: 0, Max: 100, Source: "class"}}
	}
	return Outcome{Value: raw}
}

func (c BatteryLevel) Encode(value any, ctx *Context) ([]byte, error) {
	level, ok := value.(uint8)
	if !ok {
		if v, ok2 := value.(int); ok2 {
			level, ok = uint8(v), true
		}
	}
	if !ok {
		return nil, &TypeMismatchError{Name: c.Name(), Want: "uint8", Got: fmt.Sprintf("%T", value)}
	}
	if level > 100 {
		return nil, &RangeError{Name: c.Name(), Value: float64(level), Min: 0, Max: 100, Source: "class"}
	}
	return codec.PackUint8(level), nil
}
