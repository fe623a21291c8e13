package characteristic

import (
	"fmt"

	"github.com/srg/bluetoothsig/pkg/codec"
	"github.com/srg/bluetoothsig/pkg/uuid"
)

// CyclingPowerMeasurementData is the decoded value of the Cycling Power
// Measurement characteristic (0x2A63).
type CyclingPowerMeasurementData struct {
	Flags               uint16
	InstantaneousPower  int16 // Watts

	PedalPowerBalance *float64 // percent, 0.5% resolution; nil for 0xFF (unknown)
	AccumulatedEnergy *uint16  // kJ

	CumulativeWheelRevolutions *uint32
	LastWheelEventTime         *float64 // seconds

	CumulativeCrankRevolutions *uint16
	LastCrankEventTime         *float64 // seconds
}

func (CyclingPowerMeasurementData) TypeName() string { return "CyclingPowerMeasurementData" }

// CyclingPowerMeasurement implements the Cycling Power Measurement
// characteristic (0x2A63): Flags(2) + Instantaneous Power(2) +
// [Pedal Power Balance(1)] + [Accumulated Energy(2)] +
// [Wheel Revolutions(4) + Wheel Event Time(2)] +
// [Crank Revolutions(2) + Crank Event Time(2)].
type CyclingPowerMeasurement struct{}

func (CyclingPowerMeasurement) Name() string            { return "Cycling Power Measurement" }
func (CyclingPowerMeasurement) UUID() uuid.UUID          { return uuid.MustParse("2A63") }
func (CyclingPowerMeasurement) Dependencies() []string   { return nil }
func (CyclingPowerMeasurement) LengthBounds() (int, int) { return 4, 0 }

func (c CyclingPowerMeasurement) Decode(data []byte, ctx *Context) Outcome {
	flags, err := codec.ExtractUint16(data[0:2])
	if err != nil {
		return Outcome{Err: err}
	}
	power, err := codec.ExtractSint16(data[2:4])
	if err != nil {
		return Outcome{Err: err}
	}

	out := CyclingPowerMeasurementData{Flags: flags, InstantaneousPower: power}
	offset := 4

	if flags&0x0001 != 0 && len(data) >= offset+1 {
		raw := data[offset]
		if raw != 0xFF {
			v := float64(raw) / 2.0
			out.PedalPowerBalance = &v
		}
		offset++
	}

	if flags&0x0008 != 0 && len(data) >= offset+2 {
		v, err := codec.ExtractUint16(data[offset : offset+2])
		if err != nil {
			return Outcome{Err: err}
		}
		out.AccumulatedEnergy = &v
		offset += 2
	}

	if flags&0x0010 != 0 && len(data) >= offset+6 {
		wheelRev, err := codec.ExtractUint32(data[offset : offset+4])
		if err != nil {
			return Outcome{Err: err}
		}
		wheelTimeRaw, err := codec.ExtractUint16(data[offset+4 : offset+6])
		if err != nil {
			return Outcome{Err: err}
		}
		wheelTime := float64(wheelTimeRaw) / 2048.0
		out.CumulativeWheelRevolutions = &wheelRev
		out.LastWheelEventTime = &wheelTime
		offset += 6
	}

	if flags&0x0020 != 0 && len(data) >= offset+4 {
		crankRev, err := codec.ExtractUint16(data[offset : offset+2])
		if err != nil {
			return Outcome{Err: err}
		}
		crankTimeRaw, err := codec.ExtractUint16(data[offset+2 : offset+4])
		if err != nil {
			return Outcome{Err: err}
		}
		crankTime := float64(crankTimeRaw) / 1024.0
		out.CumulativeCrankRevolutions = &crankRev
		out.LastCrankEventTime = &crankTime
	}

	return Outcome{Value: out}
}

func (c CyclingPowerMeasurement) Encode(value any, ctx *Context) ([]byte, error) {
	d, ok := value.(CyclingPowerMeasurementData)
	if !ok {
		return nil, &TypeMismatchError{Name: c.Name(), Want: "CyclingPowerMeasurementData", Got: fmt.Sprintf("%T", value)}
	}

	flags := uint16(0)
	if d.PedalPowerBalance != nil {
		flags |= 0x0001
	}
	if d.AccumulatedEnergy != nil {
		flags |= 0x0008
	}
	if d.CumulativeWheelRevolutions != nil && d.LastWheelEventTime != nil {
		flags |= 0x0010
	}
	if d.CumulativeCrankRevolutions != nil && d.LastCrankEventTime != nil {
		flags |= 0x0020
	}

	out := codec.PackUint16(flags)
	out = append(out, codec.PackSint16(d.InstantaneousPower)...)

	if d.PedalPowerBalance != nil {
		out = append(out, uint8(*d.PedalPowerBalance*2.0+0.5))
	}
	if d.AccumulatedEnergy != nil {
		out = append(out, codec.PackUint16(*d.AccumulatedEnergy)...)
	}
	if d.CumulativeWheelRevolutions != nil && d.LastWheelEventTime != nil {
		out = append(out, codec.PackUint32(*d.CumulativeWheelRevolutions)...)
		out = append(out, codec.PackUint16(uint16(*d.LastWheelEventTime*2048.0+0.5))...)
	}
	if d.CumulativeCrankRevolutions != nil && d.LastCrankEventTime != nil {
		out = append(out, codec.PackUint16(*d.CumulativeCrankRevolutions)...)
		out = append(out, codec.PackUint16(uint16(*d.LastCrankEventTime*1024.0+0.5))...)
	}

	return out, nil
}
