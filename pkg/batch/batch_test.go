package batch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/srg/bluetoothsig/pkg/characteristic"
	"github.com/srg/bluetoothsig/pkg/characteristic/registry"
	"github.com/srg/bluetoothsig/pkg/uuid"
)

// fakeFeature and fakeMeasurement stand in for a dependency pair like
// Body Composition Feature / Body Composition Measurement: fakeMeasurement
// declares fakeFeature as a required dependency and reads the resolved
// value back out of ctx.Dependencies.

type fakeFeature struct{}

func (fakeFeature) Name() string             { return "Fake Feature" }
func (fakeFeature) UUID() uuid.UUID          { return uuid.MustParse("F001") }
func (fakeFeature) Dependencies() []string   { return nil }
func (fakeFeature) LengthBounds() (int, int) { return 1, 1 }
func (fakeFeature) Decode(data []byte, ctx *characteristic.Context) characteristic.Outcome {
	return characteristic.Outcome{Value: data[0]}
}
func (fakeFeature) Encode(value any, ctx *characteristic.Context) ([]byte, error) {
	return []byte{value.(byte)}, nil
}

type fakeMeasurement struct{}

func (fakeMeasurement) Name() string             { return "Fake Measurement" }
func (fakeMeasurement) UUID() uuid.UUID          { return uuid.MustParse("F002") }
func (fakeMeasurement) Dependencies() []string   { return []string{uuid.MustParse("F001").Key()} }
func (fakeMeasurement) LengthBounds() (int, int) { return 1, 1 }
func (fakeMeasurement) Decode(data []byte, ctx *characteristic.Context) characteristic.Outcome {
	feature := ctx.Dependencies[uuid.MustParse("F001").Key()]
	return characteristic.Outcome{Value: feature}
}
func (fakeMeasurement) Encode(value any, ctx *characteristic.Context) ([]byte, error) {
	return []byte{0}, nil
}

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	reg := registry.New()
	require.NoError(t, reg.RegisterCharacteristic(fakeFeature{}, false))
	require.NoError(t, reg.RegisterCharacteristic(fakeMeasurement{}, false))
	return New(reg)
}

func TestParseBatchOrdersDependentAfterDependency(t *testing.T) {
	r := newTestResolver(t)

	data := orderedmap.New[string, []byte]()
	data.Set(uuid.MustParse("F002").Key(), []byte{0})
	data.Set(uuid.MustParse("F001").Key(), []byte{42})

	results, err := r.ParseBatch(data, nil)
	require.NoError(t, err)

	measurement, ok := results.Get(uuid.MustParse("F002").Key())
	require.True(t, ok)
	assert.Equal(t, byte(42), measurement)
}

func TestParseBatchMissingRequiredDependency(t *testing.T) {
	r := newTestResolver(t)

	data := orderedmap.New[string, []byte]()
	data.Set(uuid.MustParse("F002").Key(), []byte{0})

	_, err := r.ParseBatch(data, nil)
	require.Error(t, err)
	_, ok := err.(*MissingDependenciesError)
	assert.True(t, ok)
}

func TestParseBatchUnknownUUIDSkipped(t *testing.T) {
	r := newTestResolver(t)

	data := orderedmap.New[string, []byte]()
	data.Set(uuid.MustParse("FFFF").Key(), []byte{1})
	data.Set(uuid.MustParse("F001").Key(), []byte{9})

	results, err := r.ParseBatch(data, nil)
	require.NoError(t, err)
	_, ok := results.Get(uuid.MustParse("FFFF").Key())
	assert.False(t, ok)
	v, ok := results.Get(uuid.MustParse("F001").Key())
	require.True(t, ok)
	assert.Equal(t, byte(9), v)
}
