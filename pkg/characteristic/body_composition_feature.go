package characteristic

import (
	"fmt"

	"github.com/srg/bluetoothsig/pkg/codec"
	"github.com/srg/bluetoothsig/pkg/uuid"
)

// BodyCompositionFeatureData is the decoded Body Composition Feature
// bitmask: which optional measurements a device supports, plus the mass
// and height measurement resolutions it reports at (bits 11-14 and
// 15-17 respectively).
type BodyCompositionFeatureData struct {
	RawValue uint32

	TimestampSupported        bool
	MultipleUsersSupported    bool
	BasalMetabolismSupported  bool
	MuscleMassSupported       bool
	MusclePercentageSupported bool
	FatFreeMassSupported      bool
	SoftLeanMassSupported     bool
	BodyWaterMassSupported    bool
	ImpedanceSupported        bool
	WeightSupported           bool
	HeightSupported           bool

	MassResolution   string
	HeightResolution string
}

func (BodyCompositionFeatureData) TypeName() string { return "BodyCompositionFeatureData" }

var massResolutionTable = map[uint32]string{
	0: "not_specified",
	1: "0.5_kg_or_1_lb",
	2: "0.2_kg_or_0.5_lb",
	3: "0.1_kg_or_0.2_lb",
	4: "0.05_kg_or_0.1_lb",
	5: "0.02_kg_or_0.05_lb",
	6: "0.01_kg_or_0.02_lb",
	7: "0.005_kg_or_0.01_lb",
}

var heightResolutionTable = map[uint32]string{
	0: "not_specified",
	1: "0.01_m_or_1_inch",
	2: "0.005_m_or_0.5_inch",
	3: "0.001_m_or_0.1_inch",
}

func massResolutionFor(features uint32) string {
	bits := codec.ExtractBitField(features, 11, 4)
	if v, ok := massResolutionTable[bits]; ok {
		return v
	}
	return fmt.Sprintf("reserved_%d", bits)
}

func heightResolutionFor(features uint32) string {
	bits := codec.ExtractBitField(features, 15, 3)
	if v, ok := heightResolutionTable[bits]; ok {
		return v
	}
	return fmt.Sprintf("reserved_%d", bits)
}

func massResolutionBits(label string) (uint32, bool) {
	for bits, l := range massResolutionTable {
		if l == label {
			return bits, true
		}
	}
	return 0, false
}

func heightResolutionBits(label string) (uint32, bool) {
	for bits, l := range heightResolutionTable {
		if l == label {
			return bits, true
		}
	}
	return 0, false
}

// BodyCompositionFeature implements the Body Composition Feature
// characteristic (0x2A9B): a read-only uint32 bitmask describing which
// optional measurements a body composition device supports.
type BodyCompositionFeature struct{}

func (BodyCompositionFeature) Name() string            { return "Body Composition Feature" }
func (BodyCompositionFeature) UUID() uuid.UUID          { return uuid.MustParse("2A9B") }
func (BodyCompositionFeature) Dependencies() []string   { return nil }
func (BodyCompositionFeature) LengthBounds() (int, int) { return 4, 4 }

func (c BodyCompositionFeature) Decode(data []byte, ctx *Context) Outcome {
	raw, err := codec.ExtractUint32(data)
	if err != nil {
		return Outcome{Err: err}
	}
	return Outcome{Value: BodyCompositionFeatureData{
		RawValue:                   raw,
		TimestampSupported:         codec.TestBit(raw, 0),
		MultipleUsersSupported:     codec.TestBit(raw, 1),
		BasalMetabolismSupported:   codec.TestBit(raw, 2),
		MuscleMassSupported:        codec.TestBit(raw, 3),
		MusclePercentageSupported:  codec.TestBit(raw, 4),
		FatFreeMassSupported:       codec.TestBit(raw, 5),
		SoftLeanMassSupported:      codec.TestBit(raw, 6),
		BodyWaterMassSupported:     codec.TestBit(raw, 7),
		ImpedanceSupported:         codec.TestBit(raw, 8),
		WeightSupported:            codec.TestBit(raw, 9),
		HeightSupported:            codec.TestBit(raw, 10),
		MassResolution:             massResolutionFor(raw),
		HeightResolution:           heightResolutionFor(raw),
	}}
}

// Encode reconstructs the raw bitmask from the named fields. Unlike the
// original (which only ever parses a feature advertisement), this also
// supports building one, needed for a full round-trip pipeline.
func (c BodyCompositionFeature) Encode(value any, ctx *Context) ([]byte, error) {
	d, ok := value.(BodyCompositionFeatureData)
	if !ok {
		return nil, &TypeMismatchError{Name: c.Name(), Want: "BodyCompositionFeatureData", Got: fmt.Sprintf("%T", value)}
	}

	massBits, ok := massResolutionBits(d.MassResolution)
	if !ok {
		return nil, fmt.Errorf("%s: unrecognised mass resolution %q", c.Name(), d.MassResolution)
	}
	heightBits, ok := heightResolutionBits(d.HeightResolution)
	if !ok {
		return nil, fmt.Errorf("%s: unrecognised height resolution %q", c.Name(), d.HeightResolution)
	}

	raw := codec.MergeBitFields(
		[3]uint32{boolBit(d.TimestampSupported), 0, 1},
		[3]uint32{boolBit(d.MultipleUsersSupported), 1, 1},
		[3]uint32{boolBit(d.BasalMetabolismSupported), 2, 1},
		[3]uint32{boolBit(d.MuscleMassSupported), 3, 1},
		[3]uint32{boolBit(d.MusclePercentageSupported), 4, 1},
		[3]uint32{boolBit(d.FatFreeMassSupported), 5, 1},
		[3]uint32{boolBit(d.SoftLeanMassSupported), 6, 1},
		[3]uint32{boolBit(d.BodyWaterMassSupported), 7, 1},
		[3]uint32{boolBit(d.ImpedanceSupported), 8, 1},
		[3]uint32{boolBit(d.WeightSupported), 9, 1},
		[3]uint32{boolBit(d.HeightSupported), 10, 1},
		[3]uint32{massBits, 11, 4},
		[3]uint32{heightBits, 15, 3},
	)
	return codec.PackUint32(raw), nil
}

func boolBit(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
