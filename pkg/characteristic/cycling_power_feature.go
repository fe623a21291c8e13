package characteristic

import (
	"fmt"

	"github.com/srg/bluetoothsig/pkg/codec"
	"github.com/srg/bluetoothsig/pkg/uuid"
)

// CyclingPowerFeature implements the Cycling Power Feature characteristic
// (0x2A65): a read-only uint32 bitmask of supported measurement
// capabilities, reported as the raw mask rather than a decomposed
// struct since the original exposes it the same way.
type CyclingPowerFeature struct{}

func (CyclingPowerFeature) Name() string            { return "Cycling Power Feature" }
func (CyclingPowerFeature) UUID() uuid.UUID          { return uuid.MustParse("2A65") }
func (CyclingPowerFeature) Dependencies() []string   { return nil }
func (CyclingPowerFeature) LengthBounds() (int, int) { return 4, 4 }

func (c CyclingPowerFeature) Decode(data []byte, ctx *Context) Outcome {
	v, err := codec.ExtractUint32(data)
	if err != nil {
		return Outcome{Err: err}
	}
	return Outcome{Value: v}
}

func (c CyclingPowerFeature) Encode(value any, ctx *Context) ([]byte, error) {
	v, ok := value.(uint32)
	if !ok {
		return nil, &TypeMismatchError{Name: c.Name(), Want: "uint32", Got: fmt.Sprintf("%T", value)}
	}
	return codec.PackUint32(v), nil
}
