package characteristic

import (
	"fmt"

	"github.com/srg/bluetoothsig/pkg/uuid"
)

var adjustReasonNames = map[uint8]string{
	0x00: "none",
	0x01: "manual_time_update",
	0x02: "external_reference_time_update",
	0x04: "change_of_time_zone",
	0x08: "change_of_dst",
}

func adjustReasonName(v uint8) string {
	if n, ok := adjustReasonNames[v]; ok {
		return n
	}
	return "reserved"
}

// CurrentTimeData is the decoded value of the Current Time
// characteristic (0x2A2B): an Exact Time 256 (Date Time + a 1/256
// second Fractions256 field) plus an Adjust Reason bitmask.
type CurrentTimeData struct {
	DateTime      DateTime
	DayOfWeek     uint8 // 1=Monday .. 7=Sunday, 0=unknown
	Fractions256  uint8
	AdjustReason  uint8
	AdjustReasons []string
}

func (CurrentTimeData) TypeName() string { return "CurrentTimeData" }

func decodeAdjustReasons(raw uint8) []string {
	var reasons []string
	for _, bit := range []uint8{0x01, 0x02, 0x04, 0x08} {
		if raw&bit != 0 {
			reasons = append(reasons, adjustReasonName(bit))
		}
	}
	if len(reasons) == 0 {
		reasons = []string{adjustReasonName(0x00)}
	}
	return reasons
}

// CurrentTime implements the Current Time characteristic (0x2A2B): Day
// Date Time(8: Date Time(7) + Day of Week(1)) + Fractions256(1) +
// Adjust Reason(1), 10 bytes total.
type CurrentTime struct{}

func (CurrentTime) Name() string            { return "Current Time" }
func (CurrentTime) UUID() uuid.UUID          { return uuid.MustParse("2A2B") }
func (CurrentTime) Dependencies() []string   { return nil }
func (CurrentTime) LengthBounds() (int, int) { return 10, 10 }

func (c CurrentTime) Decode(data []byte, ctx *Context) Outcome {
	dt, err := decodeDateTime(data[0:7])
	if err != nil {
		return Outcome{Err: err}
	}
	dayOfWeek := data[7]
	fractions := data[8]
	reason := data[9]

	return Outcome{Value: CurrentTimeData{
		DateTime:      dt,
		DayOfWeek:     dayOfWeek,
		Fractions256:  fractions,
		AdjustReason:  reason,
		AdjustReasons: decodeAdjustReasons(reason),
	}}
}

func (c CurrentTime) Encode(value any, ctx *Context) ([]byte, error) {
	d, ok := value.(CurrentTimeData)
	if !ok {
		return nil, &TypeMismatchError{Name: c.Name(), Want: "CurrentTimeData", Got: fmt.Sprintf("%T", value)}
	}
	if d.DayOfWeek > 7 {
		return nil, fmt.Errorf("%s: day of week %d out of range [0,7]", c.Name(), d.DayOfWeek)
	}

	out := encodeDateTime(d.DateTime)
	out = append(out, d.DayOfWeek, d.Fractions256, d.AdjustReason)
	return out, nil
}
