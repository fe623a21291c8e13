package registry

import (
	"github.com/srg/bluetoothsig/pkg/uuid"
)

// Origin distinguishes a canonical Bluetooth SIG assigned-numbers entry
// from one added at runtime via RegisterCharacteristic/RegisterService/
// RegisterDescriptor.
type Origin int

const (
	OriginBluetoothSIG Origin = iota
	OriginRuntime
)

func (o Origin) String() string {
	if o == OriginRuntime {
		return "runtime"
	}
	return "bluetooth_sig"
}

// FieldInfo carries the wire-format metadata a GSS/assigned-numbers entry
// may declare for its value field.
type FieldInfo struct {
	DataType  string
	FieldSize string
}

// UnitInfo carries the unit metadata an assigned-numbers entry may
// declare.
type UnitInfo struct {
	UnitID         string
	UnitSymbol     string
	BaseUnit       string
	ResolutionText string
}

// Entry is a single canonical record in one of the three UUID stores
// (service, characteristic, descriptor).
type Entry struct {
	UUID      uuid.UUID
	Name      string
	ID        string
	Summary   string
	Unit      string
	ValueType string
	FieldInfo FieldInfo
	UnitInfo  UnitInfo
	Origin    Origin
}

// CustomEntry is the caller-supplied payload for runtime registration; ID
// is generated from Name when left blank, as "runtime.<kind>.<name>" with
// the name lowercased and spaces replaced by underscores.
type CustomEntry struct {
	UUID      uuid.UUID
	Name      string
	ID        string
	Summary   string
	Unit      string
	ValueType string
}

// NamedValue is a simple value/name pair, used for appearance values,
// company identifiers, and advertising-data type assignments — flat
// lookup tables that don't need the Entry/alias machinery the three UUID
// stores use.
type NamedValue struct {
	Value uint32
	Name  string
}

// ConflictError reports that a runtime registration collided with an
// existing entry and override was not requested.
type ConflictError struct {
	UUID          uuid.UUID
	ExistingOrigin Origin
}

func (e *ConflictError) Error() string {
	return "UUID " + e.UUID.String() + " conflicts with existing " + e.ExistingOrigin.String() + " entry; use Override to replace"
}
