package characteristic

import (
	"fmt"

	"github.com/srg/bluetoothsig/pkg/codec"
	"github.com/srg/bluetoothsig/pkg/uuid"
)

// DateTime is the GATT "Date Time" structure (7 bytes): Year(uint16,
// 0=unknown) + Month/Day/Hours/Minutes/Seconds(uint8, 0=unknown where the
// field allows it). Shared by Body Composition Measurement's optional
// timestamp and Current Time's Exact Time 256.
type DateTime struct {
	Year   uint16
	Month  uint8
	Day    uint8
	Hours  uint8
	Minutes uint8
	Seconds uint8
}

func decodeDateTime(data []byte) (DateTime, error) {
	year, err := codec.ExtractUint16(data[0:2])
	if err != nil {
		return DateTime{}, err
	}
	return DateTime{
		Year:    year,
		Month:   data[2],
		Day:     data[3],
		Hours:   data[4],
		Minutes: data[5],
		Seconds: data[6],
	}, nil
}

func encodeDateTime(t DateTime) []byte {
	out := codec.PackUint16(t.Year)
	return append(out, t.Month, t.Day, t.Hours, t.Minutes, t.Seconds)
}

// BodyCompositionMeasurementData is the decoded value of the Body
// Composition Measurement characteristic (0x2A9C): a required body fat
// percentage plus a set of optional fields gated by flag bits, each mass
// field reported in the unit its measurement-units flag selects.
type BodyCompositionMeasurementData struct {
	Flags              uint16
	MeasurementUnits   string // "imperial" or "metric"
	BodyFatPercentage  float64

	Timestamp         *DateTime
	UserID            *uint8
	BasalMetabolism   *uint16 // kJ
	MuscleMass        *float64
	MuscleMassUnit    string
	MusclePercentage  *float64
	FatFreeMass       *float64
	FatFreeMassUnit   string
	SoftLeanMass      *float64
	SoftLeanMassUnit  string
	BodyWaterMass     *float64
	BodyWaterMassUnit string
	Impedance         *float64 // ohm
	Weight            *float64
	WeightUnit        string
	Height            *float64
	HeightUnit        string
}

func (BodyCompositionMeasurementData) TypeName() string { return "BodyCompositionMeasurementData" }

// BodyCompositionMeasurement implements the Body Composition Measurement
// characteristic (0x2A9C).
type BodyCompositionMeasurement struct{}

func (BodyCompositionMeasurement) Name() string            { return "Body Composition Measurement" }
func (BodyCompositionMeasurement) UUID() uuid.UUID          { return uuid.MustParse("2A9C") }
func (BodyCompositionMeasurement) Dependencies() []string   { return nil }
func (BodyCompositionMeasurement) LengthBounds() (int, int) { return 4, 0 }

func (c BodyCompositionMeasurement) Decode(data []byte, ctx *Context) Outcome {
	flags, err := codec.ExtractUint16(data[0:2])
	if err != nil {
		return Outcome{Err: err}
	}
	bodyFatRaw, err := codec.ExtractUint16(data[2:4])
	if err != nil {
		return Outcome{Err: err}
	}

	imperial := flags&0x01 != 0
	units := "metric"
	if imperial {
		units = "imperial"
	}

	out := BodyCompositionMeasurementData{
		Flags:             flags,
		MeasurementUnits:  units,
		BodyFatPercentage: float64(bodyFatRaw) * 0.1,
	}

	offset := 4
	if flags&0x02 != 0 && len(data) >= offset+7 {
		ts, err := decodeDateTime(data[offset : offset+7])
		if err != nil {
			return Outcome{Err: err}
		}
		out.Timestamp = &ts
		offset += 7
	}
	if flags&0x04 != 0 && len(data) >= offset+1 {
		v := data[offset]
		out.UserID = &v
		offset++
	}
	if flags&0x08 != 0 && len(data) >= offset+2 {
		v, _ := codec.ExtractUint16(data[offset : offset+2])
		out.BasalMetabolism = &v
		offset += 2
	}
	if flags&0x10 != 0 && len(data) >= offset+2 {
		v, unit := decodeMassField(data[offset:offset+2], imperial)
		out.MuscleMass = &v
		out.MuscleMassUnit = unit
		offset += 2
	}
	if flags&0x20 != 0 && len(data) >= offset+2 {
		raw, _ := codec.ExtractUint16(data[offset : offset+2])
		v := float64(raw) * 0.1
		out.MusclePercentage = &v
		offset += 2
	}
	if flags&0x40 != 0 && len(data) >= offset+2 {
		v, unit := decodeMassField(data[offset:offset+2], imperial)
		out.FatFreeMass = &v
		out.FatFreeMassUnit = unit
		offset += 2
	}
	if flags&0x80 != 0 && len(data) >= offset+2 {
		v, unit := decodeMassField(data[offset:offset+2], imperial)
		out.SoftLeanMass = &v
		out.SoftLeanMassUnit = unit
		offset += 2
	}
	if flags&0x100 != 0 && len(data) >= offset+2 {
		v, unit := decodeMassField(data[offset:offset+2], imperial)
		out.BodyWaterMass = &v
		out.BodyWaterMassUnit = unit
		offset += 2
	}
	if flags&0x200 != 0 && len(data) >= offset+2 {
		raw, _ := codec.ExtractUint16(data[offset : offset+2])
		v := float64(raw) * 0.1
		out.Impedance = &v
		offset += 2
	}
	if flags&0x400 != 0 && len(data) >= offset+2 {
		v, unit := decodeMassField(data[offset:offset+2], imperial)
		out.Weight = &v
		out.WeightUnit = unit
		offset += 2
	}
	if flags&0x800 != 0 && len(data) >= offset+2 {
		raw, _ := codec.ExtractUint16(data[offset : offset+2])
		var v float64
		var unit string
		if imperial {
			v = float64(raw) * 0.1
			unit = "in"
		} else {
			v = float64(raw) * 0.001
			unit = "m"
		}
		out.Height = &v
		out.HeightUnit = unit
	}

	return Outcome{Value: out}
}

func decodeMassField(data []byte, imperial bool) (float64, string) {
	raw, _ := codec.ExtractUint16(data)
	if imperial {
		return float64(raw) * 0.01, "lb"
	}
	return float64(raw) * 0.005, "kg"
}

func encodeMassField(value float64, imperial bool) uint16 {
	if imperial {
		return uint16(value/0.01 + 0.5)
	}
	return uint16(value/0.005 + 0.5)
}

// Encode builds the wire form from the decoded struct. The original
// implementation leaves encode_value unimplemented (a stub that always
// raises); this supplies the full encoder a round-trip pipeline needs.
func (c BodyCompositionMeasurement) Encode(value any, ctx *Context) ([]byte, error) {
	d, ok := value.(BodyCompositionMeasurementData)
	if !ok {
		return nil, &TypeMismatchError{Name: c.Name(), Want: "BodyCompositionMeasurementData", Got: fmt.Sprintf("%T", value)}
	}
	imperial := d.MeasurementUnits == "imperial"
	flags := uint16(0)
	if imperial {
		flags |= 0x01
	}
	if d.Timestamp != nil {
		flags |= 0x02
	}
	if d.UserID != nil {
		flags |= 0x04
	}
	if d.BasalMetabolism != nil {
		flags |= 0x08
	}
	if d.MuscleMass != nil {
		flags |= 0x10
	}
	if d.MusclePercentage != nil {
		flags |= 0x20
	}
	if d.FatFreeMass != nil {
		flags |= 0x40
	}
	if d.SoftLeanMass != nil {
		flags |= 0x80
	}
	if d.BodyWaterMass != nil {
		flags |= 0x100
	}
	if d.Impedance != nil {
		flags |= 0x200
	}
	if d.Weight != nil {
		flags |= 0x400
	}
	if d.Height != nil {
		flags |= 0x800
	}

	out := codec.PackUint16(flags)
	out = append(out, codec.PackUint16(uint16(d.BodyFatPercentage/0.1+0.5))...)

	if d.Timestamp != nil {
		out = append(out, encodeDateTime(*d.Timestamp)...)
	}
	if d.UserID != nil {
		out = append(out, *d.UserID)
	}
	if d.BasalMetabolism != nil {
		out = append(out, codec.PackUint16(*d.BasalMetabolism)...)
	}
	if d.MuscleMass != nil {
		out = append(out, codec.PackUint16(encodeMassField(*d.MuscleMass, imperial))...)
	}
	if d.MusclePercentage != nil {
		out = append(out, codec.PackUint16(uint16(*d.MusclePercentage/0.1+0.5))...)
	}
	if d.FatFreeMass != nil {
		out = append(out, codec.PackUint16(encodeMassField(*d.FatFreeMass, imperial))...)
	}
	if d.SoftLeanMass != nil {
		out = append(out, codec.PackUint16(encodeMassField(*d.SoftLeanMass, imperial))...)
	}
	if d.BodyWaterMass != nil {
		out = append(out, codec.PackUint16(encodeMassField(*d.BodyWaterMass, imperial))...)
	}
	if d.Impedance != nil {
		out = append(out, codec.PackUint16(uint16(*d.Impedance/0.1+0.5))...)
	}
	if d.Weight != nil {
		out = append(out, codec.PackUint16(encodeMassField(*d.Weight, imperial))...)
	}
	if d.Height != nil {
		var raw uint16
		if imperial {
			raw = uint16(*d.Height/0.1 + 0.5)
		} else {
			raw = uint16(*d.Height/0.001 + 0.5)
		}
		out = append(out, codec.PackUint16(raw)...)
	}

	return out, nil
}
