package characteristic

import (
	"fmt"
	"math"

	"github.com/srg/bluetoothsig/pkg/codec"
	"github.com/srg/bluetoothsig/pkg/uuid"
)

var glucoseTypeNames = map[uint8]string{
	1:  "Capillary Whole blood",
	2:  "Capillary Plasma",
	3:  "Venous Whole blood",
	4:  "Venous Plasma",
	5:  "Arterial Whole blood",
	6:  "Arterial Plasma",
	7:  "Undetermined Whole blood",
	8:  "Undetermined Plasma",
	9:  "Interstitial Fluid (ISF)",
	10: "Control Solution",
}

var glucoseSampleLocationNames = map[uint8]string{
	1:  "Finger",
	2:  "Alternate Site Test (AST)",
	3:  "Earlobe",
	4:  "Control solution",
	15: "Sample Location value not available",
}

func glucoseTypeName(v uint8) string {
	if n, ok := glucoseTypeNames[v]; ok {
		return n
	}
	return "Reserved"
}

func glucoseSampleLocationName(v uint8) string {
	if n, ok := glucoseSampleLocationNames[v]; ok {
		return n
	}
	return "Reserved"
}

// sfloatExponentFor picks the finest (most negative) power-of-ten
// exponent whose mantissa still fits a 12-bit signed SFLOAT, giving the
// best available precision for the magnitude of value. The SIG's own
// SFLOAT-carrying characteristics are free to choose their own exponent
// per sample for exactly this reason.
func sfloatExponentFor(value float64) int8 {
	for exp := int8(-5); exp <= 3; exp++ {
		mantissa := value / math.Pow(10, float64(exp))
		if mantissa >= -2047 && mantissa <= 2047 {
			return exp
		}
	}
	return 3
}

// GlucoseMeasurementData is the decoded value of the Glucose Measurement
// characteristic (0x2A18).
type GlucoseMeasurementData struct {
	Flags          uint8
	SequenceNumber uint16
	BaseTime       DateTime

	TimeOffsetMinutes *int16

	GlucoseConcentration       *float64
	GlucoseConcentrationSpecial codec.MedfloatSpecial
	Unit                       string // "mmol/L" or "mg/dL"

	GlucoseType        *uint8
	SampleLocation     *uint8

	SensorStatus *uint16
}

func (GlucoseMeasurementData) TypeName() string { return "GlucoseMeasurementData" }

// GlucoseMeasurement implements the Glucose Measurement characteristic
// (0x2A18): Flags(1) + Sequence Number(2) + Base Time(7) +
// [Time Offset(2)] + Glucose Concentration(2, SFLOAT) +
// [Type/Sample Location(1)] + [Sensor Status(2)].
type GlucoseMeasurement struct{}

func (GlucoseMeasurement) Name() string            { return "Glucose Measurement" }
func (GlucoseMeasurement) UUID() uuid.UUID          { return uuid.MustParse("2A18") }
func (GlucoseMeasurement) Dependencies() []string   { return nil }
func (GlucoseMeasurement) LengthBounds() (int, int) { return 10, 0 }

func (c GlucoseMeasurement) Decode(data []byte, ctx *Context) Outcome {
	flags := data[0]
	offset := 1

	sequence, err := codec.ExtractUint16(data[offset : offset+2])
	if err != nil {
		return Outcome{Err: err}
	}
	offset += 2

	baseTime, err := decodeDateTime(data[offset : offset+7])
	if err != nil {
		return Outcome{Err: err}
	}
	offset += 7

	out := GlucoseMeasurementData{
		Flags:          flags,
		SequenceNumber: sequence,
		BaseTime:       baseTime,
	}

	if flags&0x01 != 0 && len(data) >= offset+2 {
		v, err := codec.ExtractSint16(data[offset : offset+2])
		if err != nil {
			return Outcome{Err: err}
		}
		out.TimeOffsetMinutes = &v
		offset += 2
	}

	if len(data) >= offset+2 {
		value, special, err := codec.ExtractMedfloat16(data[offset : offset+2])
		if err != nil {
			return Outcome{Err: err}
		}
		unit := "mg/dL"
		if flags&0x02 != 0 {
			unit = "mmol/L"
		}
		out.Unit = unit
		if special != codec.MedfloatNone {
			out.GlucoseConcentrationSpecial = special
		} else {
			out.GlucoseConcentration = &value
		}
		offset += 2
	}

	if flags&0x04 != 0 && len(data) >= offset+1 {
		b := data[offset]
		gtype := (b >> 4) & 0x0F
		location := b & 0x0F
		out.GlucoseType = &gtype
		out.SampleLocation = &location
		offset++
	}

	if flags&0x08 != 0 && len(data) >= offset+2 {
		v, err := codec.ExtractUint16(data[offset : offset+2])
		if err != nil {
			return Outcome{Err: err}
		}
		out.SensorStatus = &v
	}

	return Outcome{Value: out}
}

func (c GlucoseMeasurement) Encode(value any, ctx *Context) ([]byte, error) {
	d, ok := value.(GlucoseMeasurementData)
	if !ok {
		return nil, &TypeMismatchError{Name: c.Name(), Want: "GlucoseMeasurementData", Got: fmt.Sprintf("%T", value)}
	}

	flags := d.Flags
	if d.TimeOffsetMinutes != nil {
		flags |= 0x01
	} else {
		flags &^= 0x01
	}
	if d.Unit == "mmol/L" {
		flags |= 0x02
	} else {
		flags &^= 0x02
	}
	if d.GlucoseType != nil {
		flags |= 0x04
	} else {
		flags &^= 0x04
	}
	if d.SensorStatus != nil {
		flags |= 0x08
	} else {
		flags &^= 0x08
	}

	out := []byte{flags}
	out = append(out, codec.PackUint16(d.SequenceNumber)...)
	out = append(out, encodeDateTime(d.BaseTime)...)

	if d.TimeOffsetMinutes != nil {
		out = append(out, codec.PackSint16(*d.TimeOffsetMinutes)...)
	}

	switch {
	case d.GlucoseConcentrationSpecial != codec.MedfloatNone:
		out = append(out, codec.PackMedfloat16Special(d.GlucoseConcentrationSpecial)...)
	case d.GlucoseConcentration != nil:
		out = append(out, codec.PackMedfloat16(*d.GlucoseConcentration, sfloatExponentFor(*d.GlucoseConcentration))...)
	default:
		return nil, fmt.Errorf("%s: glucose concentration is required", c.Name())
	}

	if d.GlucoseType != nil && d.SampleLocation != nil {
		out = append(out, ((*d.GlucoseType&0x0F)<<4)|(*d.SampleLocation&0x0F))
	}

	if d.SensorStatus != nil {
		out = append(out, codec.PackUint16(*d.SensorStatus)...)
	}

	return out, nil
}
