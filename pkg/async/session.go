package async

import (
	"context"
	"sync"

	"github.com/srg/bluetoothsig/pkg/characteristic"
)

// Session holds an accumulating CharacteristicContext across
// successive Parse calls: each parsed result becomes visible to later
// parses through the context's Dependencies map, the same
// other_characteristics accumulation AsyncParsingSession performs.
// Descriptor bytes seeded at construction (or supplied per Parse call)
// persist the same way, so a Valid Range descriptor read once stays
// available for later parses of the same characteristic.
type Session struct {
	translator *Translator

	mu          sync.Mutex
	trace       bool
	results     map[string]any
	descriptors map[string][]byte
}

// NewSession starts a parsing session against tr. ctx, if non-nil,
// seeds the session's initial context (its Dependencies and Descriptors
// are copied in before any accumulated results).
func NewSession(tr *Translator, ctx *characteristic.Context) *Session {
	s := &Session{
		translator:  tr,
		results:     map[string]any{},
		descriptors: map[string][]byte{},
	}
	if ctx != nil {
		s.trace = ctx.Trace
		for k, v := range ctx.Dependencies {
			s.results[k] = v
		}
		for k, v := range ctx.Descriptors {
			s.descriptors[k] = v
		}
	}
	return s
}

// Parse parses key/data with the context accumulated from every prior
// Parse call in this session, plus whatever descriptors (e.g. a Valid
// Range descriptor, keyed by its normalized UUID) are supplied for this
// call, then folds the new result and descriptors back into the session
// for subsequent calls.
func (s *Session) Parse(ctx context.Context, key string, data []byte, descriptors map[string][]byte) (characteristic.Outcome, error) {
	s.mu.Lock()
	callCtx := &characteristic.Context{
		Dependencies: make(map[string]any, len(s.results)),
		Descriptors:  make(map[string][]byte, len(s.descriptors)+len(descriptors)),
		Trace:        s.trace,
	}
	for k, v := range s.results {
		callCtx.Dependencies[k] = v
	}
	for k, v := range s.descriptors {
		callCtx.Descriptors[k] = v
	}
	s.mu.Unlock()

	for k, v := range descriptors {
		callCtx.Descriptors[k] = v
	}

	outcome, err := s.translator.ParseCharacteristic(ctx, key, data, callCtx)
	if err != nil {
		return characteristic.Outcome{}, err
	}

	s.mu.Lock()
	if outcome.Err == nil {
		s.results[key] = outcome.Value
	}
	for k, v := range descriptors {
		s.descriptors[k] = v
	}
	s.mu.Unlock()

	return outcome, nil
}

// Results returns a snapshot of every successfully parsed result
// accumulated so far, keyed by the UUID/name string it was parsed
// under.
func (s *Session) Results() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]any, len(s.results))
	for k, v := range s.results {
		out[k] = v
	}
	return out
}
