package characteristic

import (
	"fmt"

	"github.com/srg/bluetoothsig/pkg/codec"
	"github.com/srg/bluetoothsig/pkg/uuid"
)

// AppearanceData is the decoded GAP Appearance value: a 10-bit category
// and 6-bit subcategory packed into a little-endian uint16.
type AppearanceData struct {
	RawValue    uint16
	Category    uint16
	Subcategory uint8
}

func (AppearanceData) TypeName() string { return "AppearanceData" }

// Appearance implements the GAP Appearance characteristic (0x2A01).
type Appearance struct{}

func (Appearance) Name() string            { return "Appearance" }
func (Appearance) UUID() uuid.UUID          { return uuid.MustParse("2A01") }
func (Appearance) Dependencies() []string   { return nil }
func (Appearance) LengthBounds() (int, int) { return 2, 2 }

func (c Appearance) Decode(data []byte, ctx *Context) Outcome {
	raw, err := codec.ExtractUint16(data)
	if err != nil {
		return Outcome{Err: err}
	}
	return Outcome{Value: AppearanceData{
		RawValue:    raw,
		Category:    raw >> 6,
		Subcategory: uint8(raw & 0x3F),
	}}
}

func (c Appearance) Encode(value any, ctx *Context) ([]byte, error) {
	a, ok := value.(AppearanceData)
	if !ok {
		return nil, &TypeMismatchError{Name: c.Name(), Want: "AppearanceData", Got: fmt.Sprintf("%T", value)}
	}
	raw := (a.Category << 6) | uint16(a.Subcategory&0x3F)
	return codec.PackUint16(raw), nil
}
