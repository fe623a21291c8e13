// Package translator implements the query and translation façade (C8):
// a single entry point over the characteristic registry (C7), the
// assigned-numbers database (C2), the parse/encode pipeline (C6) and
// the batch resolver (C9). It is the package most callers of this
// module import directly.
//
// Grounded on
// original_source/.../core/translator.py's BluetoothSIGTranslator. The
// original is an explicit singleton (`__new__` returning a shared
// instance, plus a module-level `translator` variable); Go has no
// constructor-level singleton idiom, so Default below is a
// package-level *Translator built once at init and exported the way
// pkg/characteristic/registry exports Default, with New left available for tests that
// want an isolated instance.
package translator

import (
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/srg/bluetoothsig/pkg/batch"
	"github.com/srg/bluetoothsig/pkg/characteristic"
	charregistry "github.com/srg/bluetoothsig/pkg/characteristic/registry"
	"github.com/srg/bluetoothsig/pkg/registry"
	"github.com/srg/bluetoothsig/pkg/uuid"
)

var log = logrus.WithField("component", "translator")

// ValueType is a coarse shape tag for a decoded characteristic value,
// for consumers that don't want to type-switch on the full Go value.
type ValueType int

const (
	ValueTypeUnknown ValueType = iota
	ValueTypeString
	ValueTypeInt
	ValueTypeFloat
	ValueTypeBytes
	ValueTypeBitfield
	ValueTypeBool
	ValueTypeDateTime
	ValueTypeUUID
	ValueTypeDict
	ValueTypeVarious
)

func (v ValueType) String() string {
	switch v {
	case ValueTypeString:
		return "STRING"
	case ValueTypeInt:
		return "INT"
	case ValueTypeFloat:
		return "FLOAT"
	case ValueTypeBytes:
		return "BYTES"
	case ValueTypeBitfield:
		return "BITFIELD"
	case ValueTypeBool:
		return "BOOL"
	case ValueTypeDateTime:
		return "DATETIME"
	case ValueTypeUUID:
		return "UUID"
	case ValueTypeDict:
		return "DICT"
	case ValueTypeVarious:
		return "VARIOUS"
	default:
		return "UNKNOWN"
	}
}

// parseValueType maps the free-text data_type field the assigned-numbers
// YAML fixtures carry onto the coarse ValueType enum.
func parseValueType(raw string) ValueType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "string", "utf8s", "utf8":
		return ValueTypeString
	case "uint8", "uint16", "uint24", "uint32", "uint64", "sint8", "sint16", "sint24", "sint32", "sint64", "int":
		return ValueTypeInt
	case "float32", "float64", "float", "sfloat", "medfloat16", "medfloat32":
		return ValueTypeFloat
	case "boolean", "bool":
		return ValueTypeBool
	case "bitfield", "8bit", "16bit", "24bit", "32bit":
		return ValueTypeBitfield
	case "":
		return ValueTypeUnknown
	default:
		return ValueTypeVarious
	}
}

// CharacteristicInfo is what callers see for a resolved characteristic:
// spec §3.4.
type CharacteristicInfo struct {
	UUID      uuid.UUID
	Name      string
	ValueType ValueType
	Unit      string
	GoType    string
}

// ServiceInfo is the service-side equivalent, carrying the
// characteristic UUIDs a ProcessServices call associated with it;
// GetServiceInfoByUUID and GetServiceInfoByName leave Characteristics empty.
type ServiceInfo struct {
	UUID            uuid.UUID
	Name            string
	Characteristics []string
}

// ValidationResult is the structured outcome of ValidateCharacteristicData.
type ValidationResult struct {
	IsValid        bool
	ExpectedMin    int
	ExpectedMax    int
	ActualLength   int
	ErrorMessage   string
}

// UnsupportedCharacteristicError reports that a UUID or name has no
// registered Characteristic.
type UnsupportedCharacteristicError struct {
	Key string
}

func (e *UnsupportedCharacteristicError) Error() string {
	return fmt.Sprintf("no characteristic registered for %q", e.Key)
}

// Translator is the façade described by C8. The zero value is not
// usable; use New or Default.
type Translator struct {
	mu sync.RWMutex

	sig   *registry.Registry
	chars *charregistry.Registry
	batch *batch.Resolver

	discoveredServices map[string]ServiceInfo
}

// New constructs an independent Translator instance, wired to its own
// C7 registry and its own C2 assigned-numbers registry (each call loads
// the embedded fixtures again).
func New() *Translator {
	chars := charregistry.New()
	return &Translator{
		sig:                registry.New(),
		chars:              chars,
		batch:              batch.New(chars),
		discoveredServices: make(map[string]ServiceInfo),
	}
}

// Default is the process-wide Translator singleton, the Go equivalent
// of the original's module-level `translator` variable / get_instance().
var Default = New()

// Supports reports whether key (UUID or registered name) resolves to a
// characteristic.
func (t *Translator) Supports(key string) bool {
	if _, ok := t.chars.GetByUUID(key); ok {
		return true
	}
	_, ok := t.chars.GetByName(key)
	return ok
}

func (t *Translator) resolve(key string) (characteristic.Characteristic, bool) {
	if c, ok := t.chars.GetByUUID(key); ok {
		return c, true
	}
	return t.chars.GetByName(key)
}

// GetValueType returns the coarse ValueType for a characteristic, or
// ValueTypeUnknown if not found.
func (t *Translator) GetValueType(key string) (ValueType, bool) {
	info, ok := t.GetCharacteristicInfoByUUID(key)
	if !ok {
		return ValueTypeUnknown, false
	}
	return info.ValueType, true
}

// GetCharacteristicInfoByUUID resolves metadata for a characteristic by
// UUID, preferring the C2 assigned-numbers entry (full unit/name
// metadata) and falling back to the bare C7 registration if no
// assigned-numbers entry exists (true for a custom characteristic
// registered without a matching YAML fixture).
func (t *Translator) GetCharacteristicInfoByUUID(key string) (CharacteristicInfo, bool) {
	c, ok := t.resolve(key)
	if !ok {
		return CharacteristicInfo{}, false
	}
	info := CharacteristicInfo{UUID: c.UUID(), Name: c.Name()}
	if entry, ok := t.sig.GetCharacteristic(c.UUID().Key()); ok {
		info.Unit = entry.Unit
		info.ValueType = parseValueType(entry.FieldInfo.DataType)
	}
	if schema, ok := zeroValueSchema(c); ok {
		info.GoType = schema.TypeName()
	}
	return info, true
}

// GetCharacteristicInfoByName is GetCharacteristicInfoByUUID's
// name-keyed counterpart.
func (t *Translator) GetCharacteristicInfoByName(name string) (CharacteristicInfo, bool) {
	c, ok := t.chars.GetByName(name)
	if !ok {
		return CharacteristicInfo{}, false
	}
	return t.GetCharacteristicInfoByUUID(c.UUID().Key())
}

// zeroValueSchema decodes an all-zero payload of a characteristic's
// minimum length (its maximum when the minimum is 0) to recover its ValueSchema for GoType reporting, without
// requiring a separate reflect.Type registration per characteristic.
// Decode failures (e.g. a characteristic whose zero payload fails range
// validation) simply leave GoType unset — metadata lookups never fail
// for that reason.
func zeroValueSchema(c characteristic.Characteristic) (characteristic.ValueSchema, bool) {
	min, max := c.LengthBounds()
	size := min
	if size == 0 && max > 0 {
		size = max
	}
	if size == 0 {
		return nil, false
	}
	outcome := c.Decode(make([]byte, size), characteristic.NewContext())
	if outcome.Err != nil || outcome.Value == nil {
		return nil, false
	}
	schema, ok := outcome.Value.(characteristic.ValueSchema)
	return schema, ok
}

// GetServiceInfoByUUID resolves service metadata from the C2
// assigned-numbers registry.
func (t *Translator) GetServiceInfoByUUID(key string) (ServiceInfo, bool) {
	entry, ok := t.sig.GetService(key)
	if !ok {
		return ServiceInfo{}, false
	}
	return ServiceInfo{UUID: entry.UUID, Name: entry.Name}, true
}

// GetServiceInfoByName is GetServiceInfoByUUID's name-keyed counterpart.
func (t *Translator) GetServiceInfoByName(name string) (ServiceInfo, bool) {
	entry, ok := t.sig.GetService(name)
	if !ok {
		return ServiceInfo{}, false
	}
	return ServiceInfo{UUID: entry.UUID, Name: entry.Name}, true
}

// ListSupportedCharacteristics returns name -> canonical UUID for every
// registered characteristic.
func (t *Translator) ListSupportedCharacteristics() map[string]string {
	return t.chars.List()
}

// ParseCharacteristic decodes raw bytes for the characteristic
// identified by key (UUID or name) through the standard pipeline.
func (t *Translator) ParseCharacteristic(key string, data []byte, ctx *characteristic.Context) characteristic.Outcome {
	c, ok := t.resolve(key)
	if !ok {
		return characteristic.Outcome{Err: &UnsupportedCharacteristicError{Key: key}}
	}
	if ctx != nil && ctx.Trace {
		log.WithField("uuid", key).WithField("length", len(data)).Debug("parsing characteristic")
	}
	return characteristic.NewPipeline(c).Parse(data, ctx)
}

// ParseCharacteristics parses an ordered UUID -> bytes set through the
// C9 batch resolver, returning in the resolved dependency order.
func (t *Translator) ParseCharacteristics(data *orderedmap.OrderedMap[string, []byte], ctx *characteristic.Context) (*orderedmap.OrderedMap[string, any], error) {
	return t.batch.ParseBatch(data, ctx)
}

// EncodeCharacteristic encodes value for the characteristic identified
// by key through the standard pipeline.
func (t *Translator) EncodeCharacteristic(key string, value any, ctx *characteristic.Context) ([]byte, error) {
	c, ok := t.resolve(key)
	if !ok {
		return nil, &UnsupportedCharacteristicError{Key: key}
	}
	return characteristic.NewPipeline(c).Encode(value, ctx)
}

// CreateValue constructs the value for a primitive-typed characteristic
// (INT, FLOAT, BOOL, STRING) from a single field, mirroring the
// original's "primitive types unwrap a single kwarg" case. Struct-typed
// characteristics (e.g. BodyCompositionMeasurementData) have no generic
// Go constructor-from-map equivalent to the original's
// `value_type(**kwargs)` without per-type reflection registration, so
// callers encode those by constructing the typed value directly and
// calling EncodeCharacteristic.
func (t *Translator) CreateValue(key string, field any) (any, error) {
	info, ok := t.GetCharacteristicInfoByUUID(key)
	if !ok {
		return nil, &UnsupportedCharacteristicError{Key: key}
	}
	switch info.ValueType {
	case ValueTypeInt, ValueTypeFloat, ValueTypeBool, ValueTypeString, ValueTypeBitfield:
		return field, nil
	default:
		return nil, fmt.Errorf("%s: CreateValue only supports primitive value types, got %s", key, info.ValueType)
	}
}

// ValidateCharacteristicData reports whether data's length satisfies
// the characteristic's declared bounds, without running a full decode.
func (t *Translator) ValidateCharacteristicData(key string, data []byte) ValidationResult {
	c, ok := t.resolve(key)
	if !ok {
		return ValidationResult{ErrorMessage: fmt.Sprintf("no characteristic registered for %q", key)}
	}
	min, max := c.LengthBounds()
	actual := len(data)
	if actual < min || (max != 0 && actual > max) {
		return ValidationResult{
			IsValid:      false,
			ExpectedMin:  min,
			ExpectedMax:  max,
			ActualLength: actual,
			ErrorMessage: fmt.Sprintf("length %d outside [%d, %d]", actual, min, max),
		}
	}
	return ValidationResult{IsValid: true, ExpectedMin: min, ExpectedMax: max, ActualLength: actual}
}

// ProcessServices records discovered services and their characteristic
// UUIDs, mirroring process_services's transient discovered-services
// state (spec §3.8).
func (t *Translator) ProcessServices(services map[string][]string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for key, chars := range services {
		name := key
		if entry, ok := t.sig.GetService(key); ok {
			name = entry.Name
		}
		t.discoveredServices[key] = ServiceInfo{Name: name, Characteristics: chars}
	}
}

// GetServiceByUUID returns a previously-discovered service's info.
func (t *Translator) GetServiceByUUID(key string) (ServiceInfo, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	info, ok := t.discoveredServices[key]
	return info, ok
}

// DiscoveredServices returns every service recorded by ProcessServices.
func (t *Translator) DiscoveredServices() []ServiceInfo {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]ServiceInfo, 0, len(t.discoveredServices))
	for _, info := range t.discoveredServices {
		out = append(out, info)
	}
	return out
}

// ClearServices discards all discovered-service state.
func (t *Translator) ClearServices() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.discoveredServices = make(map[string]ServiceInfo)
}

// RegisterCharacteristic forwards to the C7 registry's runtime
// registration path.
func (t *Translator) RegisterCharacteristic(c characteristic.Characteristic, override bool) error {
	return t.chars.RegisterCharacteristic(c, override)
}
