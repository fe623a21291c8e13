// Package stream implements the dependency-pair stream buffer (C11): a
// generic, backend-agnostic buffer that correlates dependent
// characteristic notifications arriving out of order over an async
// stream, grouped by a caller-supplied key.
//
// Grounded on
// original_source/.../stream/pairing.py's DependencyPairingBuffer and
// BufferStats (plain-map buffering keyed by a first-seen timestamp,
// TTL eviction on ingest, subset check against required UUIDs,
// completed/evicted lifetime counters).
package stream

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/srg/bluetoothsig/pkg/translator"
)

var log = logrus.WithField("component", "stream.pairing")

// Stats is a snapshot of PairingBuffer counters (spec §4.11's
// `stats()`). Completed and Evicted are lifetime totals; Pending is
// the current incomplete-group count.
type Stats struct {
	Pending   int
	Completed int
	Evicted   int
}

// GroupKeyFunc extracts a correlation key from a parsed notification.
type GroupKeyFunc[K comparable] func(uuidKey string, parsed any) K

// OnPairFunc is invoked once per completed group with the batch-parsed,
// cross-referenced result keyed by the original UUID string each
// notification was ingested under.
type OnPairFunc func(results *orderedmap.OrderedMap[string, any])

type group struct {
	data      map[string][]byte
	firstSeen time.Time
}

// PairingBuffer buffers incoming notifications until every UUID in
// requiredUUIDs has arrived for a given group key, then hands the
// accumulated raw bytes to the translator's batch parser and invokes
// onPair.
//
// PairingBuffer does not manage BLE subscriptions; callers own
// connection and notification setup (same division of responsibility
// as the original).
type PairingBuffer[K comparable] struct {
	translator    *translator.Translator
	requiredUUIDs map[string]struct{}
	groupKey      GroupKeyFunc[K]
	onPair        OnPairFunc
	maxAge        *time.Duration
	clock         func() time.Time

	mu        sync.Mutex
	buffer    map[K]*group
	completed int
	evicted   int
}

// Option configures a PairingBuffer at construction time.
type Option[K comparable] func(*PairingBuffer[K])

// WithMaxAge sets a TTL for incomplete groups; a group whose first-seen
// timestamp is older than now-maxAge is evicted on the next Ingest
// call. The zero value (no call to WithMaxAge) disables eviction.
func WithMaxAge[K comparable](maxAge time.Duration) Option[K] {
	return func(b *PairingBuffer[K]) {
		d := maxAge
		b.maxAge = &d
	}
}

// WithClock overrides the monotonic time source, for deterministic
// tests. Defaults to time.Now.
func WithClock[K comparable](clock func() time.Time) Option[K] {
	return func(b *PairingBuffer[K]) {
		b.clock = clock
	}
}

// New constructs a PairingBuffer. requiredUUIDs defines the set of
// UUIDs whose simultaneous presence under a single group key completes
// a group.
func New[K comparable](
	tr *translator.Translator,
	requiredUUIDs []string,
	groupKey GroupKeyFunc[K],
	onPair OnPairFunc,
	opts ...Option[K],
) *PairingBuffer[K] {
	required := make(map[string]struct{}, len(requiredUUIDs))
	for _, u := range requiredUUIDs {
		required[u] = struct{}{}
	}

	b := &PairingBuffer[K]{
		translator:    tr,
		requiredUUIDs: required,
		groupKey:      groupKey,
		onPair:        onPair,
		clock:         time.Now,
		buffer:        make(map[K]*group),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Ingest processes a single characteristic notification: it evicts
// stale groups, parses uuidKey/data via the translator to compute the
// group key, accumulates the raw bytes, and — once every required UUID
// is present for that key — batch-parses the group and invokes onPair.
func (b *PairingBuffer[K]) Ingest(uuidKey string, data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.evictStaleLocked()

	outcome := b.translator.ParseCharacteristic(uuidKey, data, nil)
	if outcome.Err != nil {
		log.WithError(outcome.Err).WithField("uuid", uuidKey).Warn("failed to parse notification for pairing")
		return
	}

	key := b.groupKey(uuidKey, outcome.Value)

	g, ok := b.buffer[key]
	if !ok {
		g = &group{data: make(map[string][]byte), firstSeen: b.clock()}
		b.buffer[key] = g
	}
	g.data[uuidKey] = data

	if !b.hasAllRequiredLocked(g) {
		return
	}

	batch := orderedmap.New[string, []byte]()
	for u, raw := range g.data {
		batch.Set(u, raw)
	}
	delete(b.buffer, key)
	b.completed++

	results, err := b.translator.ParseCharacteristics(batch, nil)
	if err != nil {
		log.WithError(err).Warn("batch parse failed for completed pairing group")
		return
	}
	b.onPair(results)
}

func (b *PairingBuffer[K]) hasAllRequiredLocked(g *group) bool {
	for u := range b.requiredUUIDs {
		if _, ok := g.data[u]; !ok {
			return false
		}
	}
	return true
}

func (b *PairingBuffer[K]) evictStaleLocked() {
	if b.maxAge == nil {
		return
	}
	cutoff := b.clock().Add(-*b.maxAge)
	for key, g := range b.buffer {
		if !g.firstSeen.After(cutoff) {
			delete(b.buffer, key)
			b.evicted++
		}
	}
}

// Stats returns a snapshot of buffer counters.
func (b *PairingBuffer[K]) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Stats{
		Pending:   len(b.buffer),
		Completed: b.completed,
		Evicted:   b.evicted,
	}
}
