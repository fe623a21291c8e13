package characteristic

import (
	"fmt"

	"github.com/srg/bluetoothsig/pkg/codec/template"
	"github.com/srg/bluetoothsig/pkg/uuid"
)

const (
	vocValue65534OrGreater uint16 = 0xFFFE
	vocValueUnknown        uint16 = 0xFFFF
)

// VOCConcentration implements the Non-Methane Volatile Organic Compounds
// Concentration characteristic (0x2BD3): a plain 16-bit unsigned ppb
// count, not an IEEE-11073 float — the two reserved top values are
// handled as application-level sentinels rather than medfloat special
// patterns.
type VOCConcentration struct{}

func (VOCConcentration) Name() string { return "Non-Methane Volatile Organic Compounds Concentration" }
func (VOCConcentration) UUID() uuid.UUID          { return uuid.MustParse("2BD3") }
func (VOCConcentration) Dependencies() []string   { return nil }
func (VOCConcentration) LengthBounds() (int, int) { return 2, 2 }

func (c VOCConcentration) Decode(data []byte, ctx *Context) Outcome {
	raw, err := template.SimpleUint16{}.Decode(data)
	if err != nil {
		return Outcome{Err: err}
	}

	switch raw {
	case vocValueUnknown:
		return Outcome{Special: &SpecialValue{Name: "value not known", Raw: uint64(raw)}}
	case vocValue65534OrGreater:
		return Outcome{Special: &SpecialValue{Name: "65534 or greater", Raw: uint64(raw)}}
	default:
		return Outcome{Value: raw}
	}
}

func (c VOCConcentration) Encode(value any, ctx *Context) ([]byte, error) {
	switch v := value.(type) {
	case uint16:
		if v >= vocValue65534OrGreater {
			return template.SimpleUint16{}.Encode(vocValue65534OrGreater), nil
		}
		return template.SimpleUint16{}.Encode(v), nil
	default:
		if n, ok := asUint64(value); ok {
			if n >= uint64(vocValue65534OrGreater) {
				return template.SimpleUint16{}.Encode(vocValue65534OrGreater), nil
			}
			return template.SimpleUint16{}.Encode(uint16(n)), nil
		}
		return nil, &TypeMismatchError{Name: c.Name(), Want: "uint16", Got: fmt.Sprintf("%T", value)}
	}
}
