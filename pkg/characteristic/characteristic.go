// Package characteristic implements the per-characteristic GATT codecs
// (C5) and the parse/encode pipeline that orchestrates them (C6): length
// validation, special-value detection, decode/encode, and range/type
// validation, in that order, with an optional trace for diagnostics.
package characteristic

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/srg/bluetoothsig/pkg/uuid"
)

var log = logrus.WithField("component", "characteristic.pipeline")

// Context carries the per-call state a characteristic's decode/encode may
// need: the resolved values of its declared dependencies (populated by
// pkg/batch for multi-characteristic parses), the raw bytes of whatever
// descriptors were read alongside the characteristic (keyed by normalized
// descriptor UUID, e.g. "2906" for Valid Range — a Valid Range descriptor
// overrides a characteristic's class/YAML range during validation), and
// the parse-trace toggle.
type Context struct {
	Dependencies map[string]any
	Descriptors  map[string][]byte
	Trace        bool
}

// NewContext returns an empty Context with the trace flag taken from the
// BLUETOOTH_SIG_ENABLE_PARSE_TRACE environment variable, the same
// opt-out-by-falsy-value convention the pipeline being ported from uses.
func NewContext() *Context {
	return &Context{Dependencies: map[string]any{}, Descriptors: map[string][]byte{}, Trace: traceEnabledFromEnv()}
}

func traceEnabledFromEnv() bool {
	v := os.Getenv("BLUETOOTH_SIG_ENABLE_PARSE_TRACE")
	switch v {
	case "", "0", "false", "no":
		return false
	default:
		return true
	}
}

// SpecialValue names one reserved raw encoding a characteristic treats as
// a sentinel (e.g. IEEE-11073 NaN, or a GATT field's "value not
// available" convention) rather than a measurement.
type SpecialValue struct {
	Name string
	Raw  uint64
}

// Outcome is the Go equivalent of the parse result sum type
// Value(T) | Special(SpecialValueResult) | Error(ParseError): exactly one
// of Value, Special or Err is set.
type Outcome struct {
	Value   any
	Special *SpecialValue
	Err     error
}

// ValueSchema is implemented by a characteristic's decoded value type so
// the pipeline can validate it without reflection-based type inference
// (replacing the original's runtime-inspected return-type machinery).
type ValueSchema interface {
	// TypeName identifies the schema for TypeMismatchError messages.
	TypeName() string
}

// Characteristic is satisfied by every concrete GATT characteristic
// codec. Dependencies lists the Context.Dependencies keys (in a batch, the
// UUID keys of other characteristics) whose already-parsed values this one
// needs; Pipeline.Parse fails with a MissingDependencyError when any of
// them is absent from Context.Dependencies.
type Characteristic interface {
	Name() string
	UUID() uuid.UUID
	Dependencies() []string
	LengthBounds() (min, max int) // max == 0 means unbounded
	Decode(data []byte, ctx *Context) Outcome
	Encode(value any, ctx *Context) ([]byte, error)
}

// Pipeline runs the shared stage sequence around a Characteristic's own
// Decode/Encode. It exists so every characteristic gets identical length
// checking, dependency checking and tracing without duplicating that
// logic in each codec.
type Pipeline struct {
	Char Characteristic
}

// NewPipeline wraps a Characteristic with the standard stage sequence.
func NewPipeline(c Characteristic) *Pipeline { return &Pipeline{Char: c} }

// Parse runs: (1) dependency presence check, (2) length validation,
// (3) decode (which internally performs special-value detection before
// falling through to its own field-level decode and range/type
// validation — composed per characteristic rather than forced through a
// single generic sentinel table, since sentinel shapes vary widely across
// the GATT characteristic set).
func (p *Pipeline) Parse(data []byte, ctx *Context) Outcome {
	if ctx == nil {
		ctx = NewContext()
	}
	name := p.Char.Name()
	var trace []string
	stage := func(s string) {
		if ctx.Trace {
			trace = append(trace, s)
		}
	}

	stage("dependencies")
	for _, dep := range p.Char.Dependencies() {
		if _, ok := ctx.Dependencies[dep]; !ok {
			err := &MissingDependencyError{Name: name, Dependency: dep}
			if ctx.Trace {
				log.WithField("characteristic", name).WithField("dependency", dep).Debug("missing dependency")
			}
			return Outcome{Err: &ParseError{Name: name, FieldErrors: []*FieldError{{Field: "dependencies", Cause: err}}, Trace: trace}}
		}
	}

	stage("length")
	min, max := p.Char.LengthBounds()
	if len(data) < min || (max != 0 && len(data) > max) {
		err := &LengthError{Name: name, Got: len(data), Min: min, Max: max}
		if ctx.Trace {
			log.WithField("characteristic", name).WithField("length", len(data)).Debug("length validation failed")
		}
		return Outcome{Err: &ParseError{Name: name, FieldErrors: []*FieldError{{Field: "length", Cause: err}}, Trace: trace}}
	}

	if ctx.Trace {
		log.WithField("characteristic", name).WithField("length", len(data)).Debug("decoding")
	}
	stage("decode")
	outcome := p.Char.Decode(data, ctx)
	if outcome.Err != nil {
		if pe, ok := outcome.Err.(*ParseError); ok {
			pe.Trace = append(trace, pe.Trace...)
			return Outcome{Err: pe}
		}
		return Outcome{Err: &ParseError{Name: name, FieldErrors: []*FieldError{{Field: "value", Cause: outcome.Err}}, Trace: trace}}
	}
	return outcome
}

// Encode runs (1) encode via the characteristic's own Encode (which
// performs its own type/range validation before producing bytes),
// (2) length validation against the characteristic's declared bounds.
func (p *Pipeline) Encode(value any, ctx *Context) ([]byte, error) {
	if ctx == nil {
		ctx = NewContext()
	}
	name := p.Char.Name()

	data, err := p.Char.Encode(value, ctx)
	if err != nil {
		if ee, ok := err.(*EncodeError); ok {
			return nil, ee
		}
		return nil, &EncodeError{Name: name, FieldErrors: []*FieldError{{Field: "value", Cause: err}}}
	}

	min, max := p.Char.LengthBounds()
	if len(data) < min || (max != 0 && len(data) > max) {
		return nil, &EncodeError{Name: name, FieldErrors: []*FieldError{{Field: "length", Cause: &LengthError{Name: name, Got: len(data), Min: min, Max: max}}}}
	}
	return data, nil
}
