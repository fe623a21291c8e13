package characteristic

import (
	"fmt"

	"github.com/srg/bluetoothsig/pkg/codec"
	"github.com/srg/bluetoothsig/pkg/uuid"
)

// CyclingPowerVectorData is the decoded value of the Cycling Power
// Vector characteristic (0x2A64).
type CyclingPowerVectorData struct {
	Flags uint8

	CrankRevolutions            uint16
	LastCrankEventTime          float64 // seconds, 1/1024s resolution
	FirstCrankMeasurementAngle  float64 // degrees, 1/180 degree resolution

	ForceMagnitudes  []int16   // Newtons, present when flags&0x01
	TorqueMagnitudes []float64 // Nm, 1/32 Nm resolution, present when flags&0x02 and not flags&0x01
}

func (CyclingPowerVectorData) TypeName() string { return "CyclingPowerVectorData" }

// CyclingPowerVector implements the Cycling Power Vector characteristic
// (0x2A64): Flags(1) + Crank Revolutions(2) + Last Crank Event Time(2) +
// First Crank Measurement Angle(2) + [Force Magnitude array] or
// [Torque Magnitude array], each array element a sint16. Decode reads the
// remaining bytes as force magnitudes when flag bit 0 is set, otherwise as
// torque magnitudes when bit 1 is set; it never reads both arrays.
type CyclingPowerVector struct{}

func (CyclingPowerVector) Name() string            { return "Cycling Power Vector" }
func (CyclingPowerVector) UUID() uuid.UUID          { return uuid.MustParse("2A64") }
func (CyclingPowerVector) Dependencies() []string   { return nil }
func (CyclingPowerVector) LengthBounds() (int, int) { return 7, 0 }

func (c CyclingPowerVector) Decode(data []byte, ctx *Context) Outcome {
	flags := data[0]
	crankRevolutions, err := codec.ExtractUint16(data[1:3])
	if err != nil {
		return Outcome{Err: err}
	}
	eventTimeRaw, err := codec.ExtractUint16(data[3:5])
	if err != nil {
		return Outcome{Err: err}
	}
	angleRaw, err := codec.ExtractUint16(data[5:7])
	if err != nil {
		return Outcome{Err: err}
	}

	out := CyclingPowerVectorData{
		Flags:                      flags,
		CrankRevolutions:           crankRevolutions,
		LastCrankEventTime:         float64(eventTimeRaw) / 1024.0,
		FirstCrankMeasurementAngle: float64(angleRaw) / 180.0,
	}

	offset := 7
	if flags&0x01 != 0 {
		for offset+2 <= len(data) {
			v, err := codec.ExtractSint16(data[offset : offset+2])
			if err != nil {
				return Outcome{Err: err}
			}
			out.ForceMagnitudes = append(out.ForceMagnitudes, v)
			offset += 2
		}
	} else if flags&0x02 != 0 {
		for offset+2 <= len(data) {
			raw, err := codec.ExtractSint16(data[offset : offset+2])
			if err != nil {
				return Outcome{Err: err}
			}
			out.TorqueMagnitudes = append(out.TorqueMagnitudes, float64(raw)/32.0)
			offset += 2
		}
	}

	return Outcome{Value: out}
}

func (c CyclingPowerVector) Encode(value any, ctx *Context) ([]byte, error) {
	d, ok := value.(CyclingPowerVectorData)
	if !ok {
		return nil, &TypeMismatchError{Name: c.Name(), Want: "CyclingPowerVectorData", Got: fmt.Sprintf("%T", value)}
	}

	flags := uint8(0)
	if len(d.ForceMagnitudes) > 0 {
		flags |= 0x01
	}
	if len(d.TorqueMagnitudes) > 0 {
		flags |= 0x02
	}

	out := []byte{flags}
	out = append(out, codec.PackUint16(d.CrankRevolutions)...)
	out = append(out, codec.PackUint16(uint16(d.LastCrankEventTime*1024.0+0.5))...)
	out = append(out, codec.PackUint16(uint16(d.FirstCrankMeasurementAngle*180.0+0.5))...)

	for _, f := range d.ForceMagnitudes {
		out = append(out, codec.PackSint16(f)...)
	}
	for _, t := range d.TorqueMagnitudes {
		out = append(out, codec.PackSint16(int16(t*32.0+0.5))...)
	}

	return out, nil
}
