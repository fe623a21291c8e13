package characteristic

import (
	"fmt"

	"github.com/srg/bluetoothsig/pkg/codec"
	"github.com/srg/bluetoothsig/pkg/uuid"
)

var carbohydrateTypeNames = map[uint8]string{
	1: "Breakfast", 2: "Lunch", 3: "Dinner", 4: "Snack", 5: "Drink", 6: "Supper", 7: "Brunch",
}

var mealTypeNames = map[uint8]string{
	1: "Preprandial (before meal)", 2: "Postprandial (after meal)", 3: "Fasting",
	4: "Casual (snacks, drinks, etc.)", 5: "Bedtime",
}

var testerTypeNames = map[uint8]string{
	1: "Self", 2: "Health Care Professional", 3: "Lab test", 15: "Tester value not available",
}

var healthTypeNames = map[uint8]string{
	1: "Minor health issues", 2: "Major health issues", 3: "During menses",
	4: "Under stress", 5: "No health issues", 15: "Health value not available",
}

var medicationTypeNames = map[uint8]string{
	1: "Rapid acting insulin", 2: "Short acting insulin", 3: "Intermediate acting insulin",
	4: "Long acting insulin", 5: "Pre-mixed insulin",
}

func lookupOrReserved(table map[uint8]string, v uint8) string {
	if n, ok := table[v]; ok {
		return n
	}
	return "Reserved"
}

// GlucoseMeasurementContextData is the decoded value of the Glucose
// Measurement Context characteristic (0x2A34): a required sequence
// number plus a string of optional fields each gated by its own flag
// bit, mirroring Glucose Measurement's sequencing.
type GlucoseMeasurementContextData struct {
	Flags          uint8
	SequenceNumber uint16

	ExtendedFlags *uint8

	CarbohydrateID   *uint8
	CarbohydrateKg   *float64
	CarbohydrateType string

	Meal     *uint8
	MealType string

	Tester     *uint8
	Health     *uint8
	TesterType string
	HealthType string

	ExerciseDurationSeconds  *uint16
	ExerciseIntensityPercent *uint8

	MedicationID     *uint8
	MedicationKg     *float64
	MedicationType   string

	HbA1cPercent *float64
}

func (GlucoseMeasurementContextData) TypeName() string { return "GlucoseMeasurementContextData" }

// GlucoseMeasurementContext implements the Glucose Measurement Context
// characteristic (0x2A34).
type GlucoseMeasurementContext struct{}

func (GlucoseMeasurementContext) Name() string            { return "Glucose Measurement Context" }
func (GlucoseMeasurementContext) UUID() uuid.UUID          { return uuid.MustParse("2A34") }
func (GlucoseMeasurementContext) Dependencies() []string   { return nil }
func (GlucoseMeasurementContext) LengthBounds() (int, int) { return 3, 0 }

func (c GlucoseMeasurementContext) Decode(data []byte, ctx *Context) Outcome {
	flags := data[0]
	offset := 1

	sequence, err := codec.ExtractUint16(data[offset : offset+2])
	if err != nil {
		return Outcome{Err: err}
	}
	offset += 2

	out := GlucoseMeasurementContextData{Flags: flags, SequenceNumber: sequence}

	if flags&0x01 != 0 && len(data) >= offset+1 {
		v := data[offset]
		out.ExtendedFlags = &v
		offset++
	}

	if flags&0x02 != 0 && len(data) >= offset+3 {
		carbID := data[offset]
		carbRaw, special, err := codec.ExtractMedfloat16(data[offset+1 : offset+3])
		if err != nil {
			return Outcome{Err: err}
		}
		out.CarbohydrateID = &carbID
		out.CarbohydrateType = lookupOrReserved(carbohydrateTypeNames, carbID)
		if special == codec.MedfloatNone {
			out.CarbohydrateKg = &carbRaw
		}
		offset += 3
	}

	if flags&0x04 != 0 && len(data) >= offset+1 {
		meal := data[offset]
		out.Meal = &meal
		out.MealType = lookupOrReserved(mealTypeNames, meal)
		offset++
	}

	if flags&0x08 != 0 && len(data) >= offset+1 {
		b := data[offset]
		tester := (b >> 4) & 0x0F
		health := b & 0x0F
		out.Tester = &tester
		out.Health = &health
		out.TesterType = lookupOrReserved(testerTypeNames, tester)
		out.HealthType = lookupOrReserved(healthTypeNames, health)
		offset++
	}

	if flags&0x10 != 0 && len(data) >= offset+3 {
		duration, err := codec.ExtractUint16(data[offset : offset+2])
		if err != nil {
			return Outcome{Err: err}
		}
		intensity := data[offset+2]
		out.ExerciseDurationSeconds = &duration
		out.ExerciseIntensityPercent = &intensity
		offset += 3
	}

	if flags&0x20 != 0 && len(data) >= offset+3 {
		medID := data[offset]
		medRaw, special, err := codec.ExtractMedfloat16(data[offset+1 : offset+3])
		if err != nil {
			return Outcome{Err: err}
		}
		out.MedicationID = &medID
		out.MedicationType = lookupOrReserved(medicationTypeNames, medID)
		if special == codec.MedfloatNone {
			out.MedicationKg = &medRaw
		}
		offset += 3
	}

	if flags&0x40 != 0 && len(data) >= offset+2 {
		hba1c, special, err := codec.ExtractMedfloat16(data[offset : offset+2])
		if err != nil {
			return Outcome{Err: err}
		}
		if special == codec.MedfloatNone {
			out.HbA1cPercent = &hba1c
		}
	}

	return Outcome{Value: out}
}

// Encode builds the full wire form from every optional field present,
// rather than the simplified sequence-number-only encoder the original
// implementation falls back to.
func (c GlucoseMeasurementContext) Encode(value any, ctx *Context) ([]byte, error) {
	d, ok := value.(GlucoseMeasurementContextData)
	if !ok {
		return nil, &TypeMismatchError{Name: c.Name(), Want: "GlucoseMeasurementContextData", Got: fmt.Sprintf("%T", value)}
	}

	flags := d.Flags
	out := []byte{flags}
	out = append(out, codec.PackUint16(d.SequenceNumber)...)

	if d.ExtendedFlags != nil {
		out = append(out, *d.ExtendedFlags)
	}
	if d.CarbohydrateID != nil && d.CarbohydrateKg != nil {
		out = append(out, *d.CarbohydrateID)
		out = append(out, codec.PackMedfloat16(*d.CarbohydrateKg, sfloatExponentFor(*d.CarbohydrateKg))...)
	}
	if d.Meal != nil {
		out = append(out, *d.Meal)
	}
	if d.Tester != nil && d.Health != nil {
		out = append(out, ((*d.Tester&0x0F)<<4)|(*d.Health&0x0F))
	}
	if d.ExerciseDurationSeconds != nil && d.ExerciseIntensityPercent != nil {
		out = append(out, codec.PackUint16(*d.ExerciseDurationSeconds)...)
		out = append(out, *d.ExerciseIntensityPercent)
	}
	if d.MedicationID != nil && d.MedicationKg != nil {
		out = append(out, *d.MedicationID)
		out = append(out, codec.PackMedfloat16(*d.MedicationKg, sfloatExponentFor(*d.MedicationKg))...)
	}
	if d.HbA1cPercent != nil {
		out = append(out, codec.PackMedfloat16(*d.HbA1cPercent, sfloatExponentFor(*d.HbA1cPercent))...)
	}

	return out, nil
}
