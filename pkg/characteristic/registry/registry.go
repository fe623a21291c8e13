// Package registry implements the characteristic/service class registry
// (C7): lookup of a Characteristic implementation by UUID or by name,
// built-in discovery at process start, and runtime registration of
// custom characteristics with the same SIG-override conflict policy
// pkg/registry applies to UUID data entries.
//
// The original registers classes by walking its characteristics module
// tree at import time and matching each class's declared UUID against
// the assigned-numbers database via a "variant generator" over the class
// name. Go has no import-time package walk, so discovery here is an
// explicit init()-time list of constructors instead: every built-in
// characteristic names itself in builtins() below and is registered
// before any lookup can run. The variant-generator's job of deriving a
// name from a class is unnecessary in Go, since Characteristic.Name()
// and Characteristic.UUID() are already authoritative — there is no
// separate "class name" to reconcile against the registry.
package registry

import (
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/srg/bluetoothsig/pkg/characteristic"
	"github.com/srg/bluetoothsig/pkg/uuid"
)

var log = logrus.WithField("component", "characteristic.registry")

// SIGOverrider is implemented by a custom Characteristic that explicitly
// opts in to replacing a built-in SIG characteristic at the same UUID,
// mirroring the original's class-level _allow_sig_override marker (set
// via an __init_subclass__-equivalent mechanism there; a plain method
// here since Go has no subclass hook).
type SIGOverrider interface {
	AllowSIGOverride() bool
}

// Origin records whether an entry came from the built-in set or was
// added at runtime.
type Origin int

const (
	OriginBuiltin Origin = iota
	OriginCustom
)

type entry struct {
	char   characteristic.Characteristic
	origin Origin
}

// Registry indexes Characteristic implementations by UUID and by name.
// The zero value is not usable; use New.
type Registry struct {
	mu sync.RWMutex

	byUUID map[string]*entry
	byName map[string]*entry

	// shadowed holds the built-in entry displaced by a custom
	// override, so ClearCustom can restore it.
	shadowed map[string]*entry
}

// New constructs a Registry pre-populated with every built-in
// characteristic listed in builtins().
func New() *Registry {
	r := &Registry{
		byUUID:   make(map[string]*entry),
		byName:   make(map[string]*entry),
		shadowed: make(map[string]*entry),
	}
	for _, c := range builtins() {
		if err := r.registerBuiltin(c); err != nil {
			log.WithError(err).WithField("characteristic", c.Name()).Error("failed to register built-in characteristic")
		}
	}
	return r
}

func (r *Registry) registerBuiltin(c characteristic.Characteristic) error {
	key := c.UUID().Key()
	if _, exists := r.byUUID[key]; exists {
		return fmt.Errorf("duplicate built-in UUID %s for %s", key, c.Name())
	}
	e := &entry{char: c, origin: OriginBuiltin}
	r.byUUID[key] = e
	r.byName[strings.ToLower(c.Name())] = e
	return nil
}

// Default is the process-global registry used by pkg/translator.
var Default = New()

// GetByUUID resolves a characteristic by UUID (any of the notations
// uuid.Parse accepts).
func (r *Registry) GetByUUID(key string) (characteristic.Characteristic, bool) {
	u, err := uuid.Parse(key)
	if err != nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byUUID[u.Key()]
	if !ok {
		return nil, false
	}
	return e.char, true
}

// GetByName resolves a characteristic by its case-insensitive Name().
func (r *Registry) GetByName(name string) (characteristic.Characteristic, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byName[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return e.char, true
}

// List returns name -> canonical UUID string for every registered
// characteristic, built-in and custom.
func (r *Registry) List() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]string, len(r.byUUID))
	for _, e := range r.byUUID {
		out[e.char.Name()] = e.char.UUID().Key()
	}
	return out
}

// UUIDConflictError reports that RegisterCharacteristic was called for
// a UUID that is already registered, without the override permissions
// required to replace it.
type UUIDConflictError struct {
	UUID     string
	Existing string
	Origin   Origin
}

func (e *UUIDConflictError) Error() string {
	if e.Origin == OriginBuiltin {
		return fmt.Sprintf("UUID %s conflicts with built-in characteristic %s; override=true and AllowSIGOverride()=true are both required", e.UUID, e.Existing)
	}
	return fmt.Sprintf("UUID %s already registered to %s; pass override=true to replace", e.UUID, e.Existing)
}

// RegisterCharacteristic adds a custom Characteristic at runtime.
// Replacing an existing entry requires override=true; replacing a
// built-in SIG entry additionally requires the class implement
// SIGOverrider and return true from AllowSIGOverride(), matching the
// original's dual override+allow_sig_override gate.
func (r *Registry) RegisterCharacteristic(c characteristic.Characteristic, override bool) error {
	key := c.UUID().Key()

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.byUUID[key]
	if exists {
		if !override {
			return &UUIDConflictError{UUID: key, Existing: existing.char.Name(), Origin: existing.origin}
		}
		if existing.origin == OriginBuiltin {
			overrider, ok := c.(SIGOverrider)
			if !ok || !overrider.AllowSIGOverride() {
				return &UUIDConflictError{UUID: key, Existing: existing.char.Name(), Origin: OriginBuiltin}
			}
			r.shadowed[key] = existing
		}
	}

	e := &entry{char: c, origin: OriginCustom}
	r.byUUID[key] = e
	r.byName[strings.ToLower(c.Name())] = e
	log.WithField("uuid", key).WithField("name", c.Name()).Info("registered custom characteristic")
	return nil
}

// ClearCustom removes every custom registration, restoring any built-in
// entry a custom registration overrode.
func (r *Registry) ClearCustom() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, e := range r.byUUID {
		if e.origin == OriginCustom {
			delete(r.byUUID, key)
			delete(r.byName, strings.ToLower(e.char.Name()))
		}
	}
	for key, shadow := range r.shadowed {
		r.byUUID[key] = shadow
		r.byName[strings.ToLower(shadow.char.Name())] = shadow
	}
	r.shadowed = make(map[string]*entry)
}
