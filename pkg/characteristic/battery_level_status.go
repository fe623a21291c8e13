package characteristic

import (
	"fmt"

	"github.com/srg/bluetoothsig/pkg/codec"
	"github.com/srg/bluetoothsig/pkg/uuid"
)

// BatteryChargeLevel is the canonical charge-level enumeration used by
// the extended 16-bit Power State field. Its integer values do NOT match
// the 2-bit encoding the basic single-byte format uses for the same
// concept — see basicChargeLevelTable.
type BatteryChargeLevel int

const (
	BatteryChargeLevelUnknown BatteryChargeLevel = iota
	BatteryChargeLevelGood
	BatteryChargeLevelLow
	BatteryChargeLevelCriticallyLow
)

func (l BatteryChargeLevel) String() string {
	switch l {
	case BatteryChargeLevelGood:
		return "good"
	case BatteryChargeLevelLow:
		return "low"
	case BatteryChargeLevelCriticallyLow:
		return "critically_low"
	default:
		return "unknown"
	}
}

// basicChargeLevelTable maps the basic single-byte format's
// 2-bit charge-level field to BatteryChargeLevel. The basic format uses a
// different bit pattern than the canonical enum ordering above: this
// table, not a direct cast, is the only correct way to interpret it.
var basicChargeLevelTable = map[uint8]BatteryChargeLevel{
	0: BatteryChargeLevelUnknown,
	1: BatteryChargeLevelCriticallyLow,
	2: BatteryChargeLevelLow,
	3: BatteryChargeLevelGood,
}

// reverse of basicChargeLevelTable, used when encoding back to the basic
// single-byte form.
var basicChargeLevelReverse = map[BatteryChargeLevel]uint8{
	BatteryChargeLevelUnknown:       0,
	BatteryChargeLevelCriticallyLow: 1,
	BatteryChargeLevelLow:           2,
	BatteryChargeLevelGood:          3,
}

type BatteryPresentState int

const (
	BatteryPresentUnknown BatteryPresentState = iota
	BatteryPresentYes
	BatteryPresentNo
)

func batteryPresentFromBit(v uint8) BatteryPresentState {
	switch v {
	case 1:
		return BatteryPresentYes
	case 0:
		return BatteryPresentNo
	default:
		return BatteryPresentUnknown
	}
}

type BatteryChargeState int

const (
	BatteryChargeStateUnknown BatteryChargeState = iota
	BatteryChargeStateCharging
	BatteryChargeStateDischargingActive
	BatteryChargeStateDischargingInactive
)

func batteryChargeStateFromBits(v uint8) BatteryChargeState {
	switch v {
	case 0:
		return BatteryChargeStateUnknown
	case 1:
		return BatteryChargeStateCharging
	case 2:
		return BatteryChargeStateDischargingActive
	case 3:
		return BatteryChargeStateDischargingInactive
	default:
		return BatteryChargeStateUnknown
	}
}

type BatteryChargingType int

const (
	BatteryChargingTypeUnknown BatteryChargingType = iota
	BatteryChargingTypeConstantCurrent
	BatteryChargingTypeConstantVoltage
	BatteryChargingTypeTrickle
	BatteryChargingTypeFloat
)

func batteryChargingTypeFromBits(v uint8) BatteryChargingType {
	if v > 4 {
		return BatteryChargingTypeUnknown
	}
	return BatteryChargingType(v)
}

// BatteryPowerStateData is the decoded value of the Battery Level Status
// characteristic across all three wire forms (basic 1-byte, extended
// 2-byte with fault bits, full SIG 3+-byte form).
type BatteryPowerStateData struct {
	PresentState BatteryPresentState
	ChargeState  BatteryChargeState
	ChargeLevel  BatteryChargeLevel
	ChargingType BatteryChargingType

	// Populated only for the full SIG form (3+ bytes).
	Identifier     *uint16
	Level          *uint8 // percentage, 0-100
	AdditionalInfo *uint16
}

func (BatteryPowerStateData) TypeName() string { return "BatteryPowerStateData" }

// BatteryLevelStatus implements the Battery Level Status characteristic
// (0x2BED).
type BatteryLevelStatus struct{}

func (BatteryLevelStatus) Name() string            { return "Battery Level Status" }
func (BatteryLevelStatus) UUID() uuid.UUID          { return uuid.MustParse("2BED") }
func (BatteryLevelStatus) Dependencies() []string   { return nil }
func (BatteryLevelStatus) LengthBounds() (int, int) { return 1, 0 }

func (c BatteryLevelStatus) Decode(data []byte, ctx *Context) Outcome {
	switch {
	case len(data) == 1:
		return Outcome{Value: decodeBasicBatteryState(data[0])}
	case len(data) == 2:
		return Outcome{Value: decodeExtendedBatteryState(data)}
	default:
		return Outcome{Value: decodeFullBatteryState(data)}
	}
}

// decodeBasicBatteryState parses the 1-byte legacy form: bits 0-1 present
// state, bits 2-3 charge state, bits 4-5 charge level (basic bit
// mapping), bits 6-7 charging type.
func decodeBasicBatteryState(b byte) BatteryPowerStateData {
	present := codec.ExtractBitField(uint32(b), 0, 2)
	charge := codec.ExtractBitField(uint32(b), 2, 2)
	level := codec.ExtractBitField(uint32(b), 4, 2)
	chargingType := codec.ExtractBitField(uint32(b), 6, 2)
	return BatteryPowerStateData{
		PresentState: batteryPresentFromBasicBits(uint8(present)),
		ChargeState:  batteryChargeStateFromBits(uint8(charge)),
		ChargeLevel:  basicChargeLevelTable[uint8(level)],
		ChargingType: batteryChargingTypeFromBits(uint8(chargingType)),
	}
}

func batteryPresentFromBasicBits(v uint8) BatteryPresentState {
	if v == 1 {
		return BatteryPresentYes
	}
	return BatteryPresentNo
}

// decodeExtendedBatteryState parses the 2-byte form: same basic byte plus
// a second byte of fault bits, which this codec records by folding
// fault-set values back into ChargeState (a discharging/fault device is
// reported as inactive-discharging when any fault bit is set).
func decodeExtendedBatteryState(data []byte) BatteryPowerStateData {
	base := decodeBasicBatteryState(data[0])
	if data[1] != 0 {
		base.ChargeState = BatteryChargeStateDischargingInactive
	}
	return base
}

// decodeFullBatteryState parses the 3+-byte SIG form: Flags(1) +
// PowerState(2) + optional Identifier(2)/Level(1)/AdditionalInfo(2)
// gated by flag bits 0/1/2. The 16-bit power state's charge-level field
// uses the canonical BatteryChargeLevel ordering directly (no remap).
func decodeFullBatteryState(data []byte) BatteryPowerStateData {
	flags := data[0]
	powerState, _ := codec.ExtractUint16(data[1:3])

	out := BatteryPowerStateData{
		PresentState: batteryPresentFromBasicBits(uint8(codec.ExtractBitField(uint32(powerState), 0, 2))),
		ChargeState:  batteryChargeStateFromBits(uint8(codec.ExtractBitField(uint32(powerState), 2, 2))),
		ChargeLevel:  BatteryChargeLevel(codec.ExtractBitField(uint32(powerState), 4, 2)),
		ChargingType: batteryChargingTypeFromBits(uint8(codec.ExtractBitField(uint32(powerState), 6, 3))),
	}

	offset := 3
	if flags&0x01 != 0 && len(data) >= offset+2 {
		v, _ := codec.ExtractUint16(data[offset : offset+2])
		out.Identifier = &v
		offset += 2
	}
	if flags&0x02 != 0 && len(data) >= offset+1 {
		v := data[offset]
		out.Level = &v
		offset++
	}
	if flags&0x04 != 0 && len(data) >= offset+2 {
		v, _ := codec.ExtractUint16(data[offset : offset+2])
		out.AdditionalInfo = &v
	}
	return out
}

// Encode always produces the basic single-byte form; it never
// round-trips the extended/full forms, only the state the 1-byte
// format can express.
func (c BatteryLevelStatus) Encode(value any, ctx *Context) ([]byte, error) {
	d, ok := value.(BatteryPowerStateData)
	if !ok {
		return nil, &TypeMismatchError{Name: c.Name(), Want: "BatteryPowerStateData", Got: fmt.Sprintf("%T", value)}
	}

	var present uint8
	if d.PresentState == BatteryPresentYes {
		present = 1
	}
	charge := uint8(d.ChargeState)
	level, ok := basicChargeLevelReverse[d.ChargeLevel]
	if !ok {
		return nil, fmt.Errorf("%s: unrecognised charge level %v", c.Name(), d.ChargeLevel)
	}
	chargingType := uint8(d.ChargingType)
	if chargingType > 3 {
		chargingType = 0
	}

	raw := codec.MergeBitFields(
		[3]uint32{uint32(present), 0, 2},
		[3]uint32{uint32(charge), 2, 2},
		[3]uint32{uint32(level), 4, 2},
		[3]uint32{uint32(chargingType), 6, 2},
	)
	return codec.PackUint8(uint8(raw)), nil
}
