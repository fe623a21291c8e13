// Package async implements the async façade (C12): thin, non-blocking
// wrappers over the sync translator core. They add no concurrency of
// their own — they yield to the scheduler at fairness points and
// otherwise delegate straight to the C8 façade.
//
// Grounded on
// original_source/.../core/async_translator.py's
// AsyncBluetoothSIGTranslator (the single asyncio.sleep(0) yield
// before a lone parse, the >10-entries-chunks-of-10 batch yielding) and
// async_context.py's AsyncParsingSession (the accumulating context
// across successive parses).
package async

import (
	"context"
	"runtime"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/srg/bluetoothsig/pkg/characteristic"
	"github.com/srg/bluetoothsig/pkg/translator"
)

const chunkSize = 10

// Translator wraps a sync translator.Translator with cooperative-yield
// suspension points, the Go stand-in for Python's `await
// asyncio.sleep(0)`. runtime.Gosched() hands control back to the Go
// scheduler without blocking on a timer, and ctx is checked for
// cancellation at each yield point so a caller can abandon an
// in-flight batch between chunks.
type Translator struct {
	sync *translator.Translator
}

// New wraps sync in an async façade.
func New(sync *translator.Translator) *Translator {
	return &Translator{sync: sync}
}

func yieldToScheduler(ctx context.Context) error {
	runtime.Gosched()
	return ctx.Err()
}

// ParseCharacteristic parses a single characteristic, yielding once
// before delegating to the sync core.
func (t *Translator) ParseCharacteristic(ctx context.Context, key string, data []byte, cctx *characteristic.Context) (characteristic.Outcome, error) {
	if err := yieldToScheduler(ctx); err != nil {
		return characteristic.Outcome{}, err
	}
	return t.sync.ParseCharacteristic(key, data, cctx), nil
}

// ParseCharacteristics parses a batch, yielding once for a small batch
// and once between every 10-entry chunk for a larger one, so a long
// batch never monopolizes the scheduler.
func (t *Translator) ParseCharacteristics(
	ctx context.Context,
	data *orderedmap.OrderedMap[string, []byte],
	cctx *characteristic.Context,
) (*orderedmap.OrderedMap[string, any], error) {
	if data.Len() <= chunkSize {
		if err := yieldToScheduler(ctx); err != nil {
			return nil, err
		}
		return t.sync.ParseCharacteristics(data, cctx)
	}

	results := orderedmap.New[string, any]()
	chunk := orderedmap.New[string, []byte]()
	flush := func() error {
		if chunk.Len() == 0 {
			return nil
		}
		if err := yieldToScheduler(ctx); err != nil {
			return err
		}
		chunkResults, err := t.sync.ParseCharacteristics(chunk, cctx)
		if err != nil {
			return err
		}
		for pair := chunkResults.Oldest(); pair != nil; pair = pair.Next() {
			results.Set(pair.Key, pair.Value)
		}
		chunk = orderedmap.New[string, []byte]()
		return nil
	}

	for pair := data.Oldest(); pair != nil; pair = pair.Next() {
		chunk.Set(pair.Key, pair.Value)
		if chunk.Len() == chunkSize {
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}

	return results, nil
}

// EncodeCharacteristic encodes a single characteristic value, yielding
// once before delegating to the sync core.
func (t *Translator) EncodeCharacteristic(ctx context.Context, key string, value any, cctx *characteristic.Context) ([]byte, error) {
	if err := yieldToScheduler(ctx); err != nil {
		return nil, err
	}
	return t.sync.EncodeCharacteristic(key, value, cctx)
}
