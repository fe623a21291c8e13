package stream

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/srg/bluetoothsig/pkg/translator"
)

func TestPairingBufferCompletesOnAllRequiredUUIDs(t *testing.T) {
	tr := translator.New()

	var paired *orderedmap.OrderedMap[string, any]
	buf := New[string](
		tr,
		[]string{"2A19", "2A01"},
		func(uuidKey string, parsed any) string { return "session-1" },
		func(results *orderedmap.OrderedMap[string, any]) { paired = results },
	)

	buf.Ingest("2A19", []byte{0x64})
	assert.Nil(t, paired)
	assert.Equal(t, 1, buf.Stats().Pending)

	buf.Ingest("2A01", []byte{0x00, 0x00})

	require.NotNil(t, paired)
	assert.Equal(t, 0, buf.Stats().Pending)
	assert.Equal(t, 1, buf.Stats().Completed)
}

func TestPairingBufferEvictsStaleGroups(t *testing.T) {
	tr := translator.New()
	now := time.Unix(0, 0)

	buf := New[string](
		tr,
		[]string{"2A19", "2A01"},
		func(uuidKey string, parsed any) string { return "session-1" },
		func(results *orderedmap.OrderedMap[string, any]) {},
		WithMaxAge[string](time.Second),
		WithClock[string](func() time.Time { return now }),
	)

	buf.Ingest("2A19", []byte{0x64})
	assert.Equal(t, 1, buf.Stats().Pending)

	now = now.Add(2 * time.Second)
	buf.Ingest("2A19", []byte{0x01})

	assert.Equal(t, 1, buf.Stats().Evicted)
}

func TestPairingBufferSeparateGroupsDoNotInterfere(t *testing.T) {
	tr := translator.New()

	pairedCount := 0
	buf := New[int](
		tr,
		[]string{"2A19"},
		func(uuidKey string, parsed any) int {
			return int(parsed.(uint8))
		},
		func(results *orderedmap.OrderedMap[string, any]) { pairedCount++ },
	)

	buf.Ingest("2A19", []byte{10})
	buf.Ingest("2A19", []byte{20})

	assert.Equal(t, 2, pairedCount)
	assert.Equal(t, 0, buf.Stats().Pending)
}
