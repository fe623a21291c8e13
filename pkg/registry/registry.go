// Package registry implements the Bluetooth SIG assigned-numbers
// database: canonical UUID stores for services, characteristics and
// descriptors, an alias index for name/id-based lookup, flat lookup
// tables for units/appearance/company identifiers/advertising-data
// types, and the runtime registration path custom characteristics use to
// extend or override the canonical set.
package registry

import (
	"fmt"
	"strings"

	"github.com/cornelk/hashmap"
	"github.com/sirupsen/logrus"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/srg/bluetoothsig/pkg/uuid"
)

var log = logrus.WithField("component", "registry")

// Registry holds the canonical SIG assigned-numbers data plus whatever
// has been registered at runtime. The zero value is not usable; use New.
type Registry struct {
	services        *hashmap.Map[string, *Entry]
	characteristics *hashmap.Map[string, *Entry]
	descriptors     *hashmap.Map[string, *Entry]

	serviceAliases        *orderedmap.OrderedMap[string, string]
	characteristicAliases *orderedmap.OrderedMap[string, string]
	descriptorAliases     *orderedmap.OrderedMap[string, string]

	serviceOverrides        *hashmap.Map[string, *Entry]
	characteristicOverrides *hashmap.Map[string, *Entry]
	descriptorOverrides     *hashmap.Map[string, *Entry]

	unitSymbols map[string]string
	appearances map[uint32]string
	companies   map[uint32]string
	adTypes     map[uint32]string

	gssSpecs map[string]map[string]interface{}
}

// New constructs a Registry and loads the embedded assigned-numbers
// fixtures. Load failures for any single fixture are logged and skipped;
// the registry remains usable with whatever did load, mirroring the
// tolerant "continue with empty registry on failure" behaviour of the
// original Python loader.
func New() *Registry {
	r := &Registry{
		services:                hashmap.New[string, *Entry](),
		characteristics:         hashmap.New[string, *Entry](),
		descriptors:             hashmap.New[string, *Entry](),
		serviceAliases:          orderedmap.New[string, string](),
		characteristicAliases:   orderedmap.New[string, string](),
		descriptorAliases:       orderedmap.New[string, string](),
		serviceOverrides:        hashmap.New[string, *Entry](),
		characteristicOverrides: hashmap.New[string, *Entry](),
		descriptorOverrides:     hashmap.New[string, *Entry](),
		unitSymbols:             make(map[string]string),
		appearances:             make(map[uint32]string),
		companies:               make(map[uint32]string),
		adTypes:                 make(map[uint32]string),
		gssSpecs:                make(map[string]map[string]interface{}),
	}
	r.loadAll()
	return r
}

func (r *Registry) loadAll() {
	r.loadUUIDFile("assigned_numbers/service_uuids.yaml", r.services, r.serviceAliases)
	r.loadUUIDFile("assigned_numbers/characteristic_uuids.yaml", r.characteristics, r.characteristicAliases)
	r.loadUUIDFile("assigned_numbers/descriptors.yaml", r.descriptors, r.descriptorAliases)
	r.loadUnits()
	r.loadNamedValues("assigned_numbers/appearance_values.yaml", r.appearances)
	r.loadNamedValues("assigned_numbers/company_identifiers.yaml", r.companies)
	r.loadNamedValues("assigned_numbers/ad_types.yaml", r.adTypes)
}

func (r *Registry) loadUUIDFile(path string, store *hashmap.Map[string, *Entry], aliases *orderedmap.OrderedMap[string, string]) {
	entries, err := loadYAMLUUIDs(path)
	if err != nil {
		log.WithError(err).WithField("file", path).Warn("failed to load assigned-numbers fixture")
		return
	}
	for _, e := range entries {
		u, err := uuid.Parse(normalizeUUIDString(e.UUID))
		if err != nil {
			log.WithError(err).WithField("uuid", e.UUID).Warn("skipping malformed UUID in fixture")
			continue
		}
		info := &Entry{
			UUID: u,
			Name: e.Name,
			ID:   e.ID,
			FieldInfo: FieldInfo{
				DataType:  e.FieldInfo.DataType,
				FieldSize: e.FieldInfo.FieldSize,
			},
			UnitInfo: UnitInfo{
				UnitID:         e.UnitInfo.UnitID,
				UnitSymbol:     e.UnitInfo.UnitSymbol,
				BaseUnit:       e.UnitInfo.BaseUnit,
				ResolutionText: e.UnitInfo.ResolutionText,
			},
			Unit:   e.UnitInfo.UnitSymbol,
			Origin: OriginBluetoothSIG,
		}
		store.Set(u.Key(), info)
		for _, alias := range generateAliases(info) {
			aliases.Set(strings.ToLower(alias), u.Key())
		}
	}
}

func (r *Registry) loadUnits() {
	entries, err := loadYAMLUUIDs("assigned_numbers/units.yaml")
	if err != nil {
		log.WithError(err).Warn("failed to load unit mappings")
		return
	}
	for _, e := range entries {
		if e.ID == "" || e.Name == "" {
			continue
		}
		symbol := extractUnitSymbol(e.Name)
		if symbol == "" {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(e.ID, "org.bluetooth.unit."))
		r.unitSymbols[key] = symbol
	}
}

func (r *Registry) loadNamedValues(path string, into map[uint32]string) {
	data, err := assignedNumbersFS.ReadFile(path)
	if err != nil {
		log.WithError(err).WithField("file", path).Warn("failed to load fixture")
		return
	}
	var raw struct {
		Appearances []yamlNamedValueEntry `yaml:"appearances"`
		Companies   []yamlNamedValueEntry `yaml:"companies"`
		ADTypes     []yamlNamedValueEntry `yaml:"ad_types"`
	}
	if err := yamlUnmarshalNamedValues(data, &raw); err != nil {
		log.WithError(err).WithField("file", path).Warn("failed to parse fixture")
		return
	}
	for _, list := range [][]yamlNamedValueEntry{raw.Appearances, raw.Companies, raw.ADTypes} {
		for _, e := range list {
			if e.Name == "" {
				continue
			}
			into[namedValueUint32(e.Value)] = e.Name
		}
	}
}

// generateAliases produces the name/id-based lookup keys for an entry:
// its lowercased name, its SIG id, and, when the name contains a space
// once underscores and hyphens become spaces, that spaced variant in
// lowercase and in its original case, mirroring
// UuidRegistry._generate_aliases.
func generateAliases(info *Entry) []string {
	set := map[string]struct{}{}
	if info.Name != "" {
		set[strings.ToLower(info.Name)] = struct{}{}
	}
	if info.ID != "" {
		set[info.ID] = struct{}{}
	}
	words := strings.ReplaceAll(strings.ReplaceAll(info.Name, "_", " "), "-", " ")
	if strings.Contains(words, " ") {
		set[strings.ToLower(words)] = struct{}{}
		set[words] = struct{}{}
	}
	out := make([]string, 0, len(set))
	canonical := info.UUID.Key()
	for alias := range set {
		if alias != "" && alias != canonical {
			out = append(out, alias)
		}
	}
	return out
}

func extractUnitSymbol(unitName string) string {
	lower := strings.ToLower(unitName)
	switch lower {
	case "percentage":
		return "%"
	case "unitless":
		return ""
	}
	if start := strings.Index(unitName, "("); start >= 0 {
		if end := strings.Index(unitName[start:], ")"); end > 0 {
			candidate := strings.TrimSpace(unitName[start+1 : start+end])
			if symbol, ok := commonUnitSymbols[strings.ToLower(candidate)]; ok {
				return symbol
			}
			return candidate
		}
	}
	return ""
}

var commonUnitSymbols = map[string]string{
	"degree celsius":    "°C",
	"degree fahrenheit":  "°F",
	"kelvin":             "K",
	"pascal":             "Pa",
	"ampere":             "A",
	"volt":               "V",
	"joule":              "J",
	"watt":               "W",
	"hertz":              "Hz",
	"metre":              "m",
	"kilogram":           "kg",
	"second":             "s",
	"metre per second":   "m/s",
	"degree":             "°",
	"kilogram per cubic metre": "kg/m³",
}

// --- lookups ---

// GetCharacteristic resolves a characteristic by UUID, SIG id, or
// case-insensitive name.
func (r *Registry) GetCharacteristic(key string) (*Entry, bool) {
	return r.lookup(key, r.characteristics, r.characteristicAliases)
}

// GetService resolves a service by UUID, SIG id, or case-insensitive name.
func (r *Registry) GetService(key string) (*Entry, bool) {
	return r.lookup(key, r.services, r.serviceAliases)
}

// GetDescriptor resolves a descriptor by UUID, SIG id, or case-insensitive
// name.
func (r *Registry) GetDescriptor(key string) (*Entry, bool) {
	return r.lookup(key, r.descriptors, r.descriptorAliases)
}

func (r *Registry) lookup(key string, store *hashmap.Map[string, *Entry], aliases *orderedmap.OrderedMap[string, string]) (*Entry, bool) {
	if u, err := uuid.Parse(key); err == nil {
		if e, ok := store.Get(u.Key()); ok {
			return e, true
		}
	}
	if canonical, ok := aliases.Get(strings.ToLower(key)); ok {
		return store.Get(canonical)
	}
	return nil, false
}

// UnitSymbol returns the human-readable symbol for a
// "org.bluetooth.unit.*"-style id, or, if no mapping is known, the id
// lowercased with its "org.bluetooth.unit." prefix removed.
func (r *Registry) UnitSymbol(unitSpec string) string {
	key := strings.ToLower(strings.TrimSuffix(strings.TrimPrefix(unitSpec, "org.bluetooth.unit."), "."))
	if symbol, ok := r.unitSymbols[key]; ok {
		return symbol
	}
	return key
}

// AppearanceName returns the SIG name for an appearance value, or false
// if unassigned.
func (r *Registry) AppearanceName(value uint16) (string, bool) {
	name, ok := r.appearances[uint32(value)]
	return name, ok
}

// CompanyName returns the SIG-assigned company name for a Bluetooth
// company identifier, or false if unassigned.
func (r *Registry) CompanyName(value uint16) (string, bool) {
	name, ok := r.companies[uint32(value)]
	return name, ok
}

// ADTypeName returns the name of an advertising-data type, or false if
// unassigned.
func (r *Registry) ADTypeName(value uint8) (string, bool) {
	name, ok := r.adTypes[uint32(value)]
	return name, ok
}

// --- runtime registration ---

// RegisterCharacteristic adds or replaces a characteristic entry. Without
// override, colliding with an existing SIG or runtime entry returns a
// ConflictError (Open Question (a): canonical SIG entries win by default).
func (r *Registry) RegisterCharacteristic(entry CustomEntry, override bool) error {
	return r.register(entry, override, r.characteristics, r.characteristicOverrides, r.characteristicAliases, "characteristic")
}

// RegisterService adds or replaces a service entry under the same
// override policy as RegisterCharacteristic.
func (r *Registry) RegisterService(entry CustomEntry, override bool) error {
	return r.register(entry, override, r.services, r.serviceOverrides, r.serviceAliases, "service")
}

// RegisterDescriptor adds or replaces a descriptor entry under the same
// override policy as RegisterCharacteristic.
func (r *Registry) RegisterDescriptor(entry CustomEntry, override bool) error {
	return r.register(entry, override, r.descriptors, r.descriptorOverrides, r.descriptorAliases, "descriptor")
}

func (r *Registry) register(entry CustomEntry, override bool, store, overrides *hashmap.Map[string, *Entry], aliases *orderedmap.OrderedMap[string, string], kind string) error {
	if !entry.UUID.IsValidForCustom() {
		return fmt.Errorf("%s: UUID %s is reserved and cannot be registered", kind, entry.UUID)
	}
	canonicalKey := entry.UUID.Key()
	if existing, ok := store.Get(canonicalKey); ok {
		if !override {
			return &ConflictError{UUID: entry.UUID, ExistingOrigin: existing.Origin}
		}
		if existing.Origin == OriginBluetoothSIG {
			overrides.Set(canonicalKey, existing)
			log.WithField("uuid", entry.UUID.String()).WithField("kind", kind).Warn("overriding SIG canonical entry with runtime registration")
		}
	}

	id := entry.ID
	if id == "" {
		id = fmt.Sprintf("runtime.%s.%s", kind, strings.ReplaceAll(strings.ToLower(entry.Name), " ", "_"))
	}
	info := &Entry{
		UUID:      entry.UUID,
		Name:      entry.Name,
		ID:        id,
		Summary:   entry.Summary,
		Unit:      entry.Unit,
		ValueType: entry.ValueType,
		Origin:    OriginRuntime,
	}
	store.Set(canonicalKey, info)
	for _, alias := range generateAliases(info) {
		aliases.Set(strings.ToLower(alias), canonicalKey)
	}
	return nil
}

// ClearCustom removes every runtime-registered entry across all three
// stores and restores any SIG entry it had shadowed.
func (r *Registry) ClearCustom() {
	r.clearCustomStore(r.characteristics, r.characteristicOverrides)
	r.clearCustomStore(r.services, r.serviceOverrides)
	r.clearCustomStore(r.descriptors, r.descriptorOverrides)
}

func (r *Registry) clearCustomStore(store, overrides *hashmap.Map[string, *Entry]) {
	var toDelete []string
	store.Range(func(key string, value *Entry) bool {
		if value.Origin == OriginRuntime {
			toDelete = append(toDelete, key)
		}
		return true
	})
	for _, key := range toDelete {
		store.Del(key)
	}
	overrides.Range(func(key string, value *Entry) bool {
		store.Set(key, value)
		return true
	})
	var clearedOverrides []string
	overrides.Range(func(key string, value *Entry) bool {
		clearedOverrides = append(clearedOverrides, key)
		return true
	})
	for _, key := range clearedOverrides {
		overrides.Del(key)
	}
}
