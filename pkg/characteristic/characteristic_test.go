package characteristic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srg/bluetoothsig/pkg/uuid"
)

type fakeDependent struct{}

func (fakeDependent) Name() string            { return "Fake Dependent" }
func (fakeDependent) UUID() uuid.UUID         { return uuid.MustParse("FFFF") }
func (fakeDependent) Dependencies() []string  { return []string{"battery"} }
func (fakeDependent) LengthBounds() (int, int) { return 1, 1 }
func (fakeDependent) Decode(data []byte, ctx *Context) Outcome {
	return Outcome{Value: ctx.Dependencies["battery"]}
}
func (fakeDependent) Encode(value any, ctx *Context) ([]byte, error) { return []byte{0}, nil }

func TestPipelineMissingDependency(t *testing.T) {
	p := NewPipeline(fakeDependent{})
	outcome := p.Parse([]byte{10}, NewContext())
	require.Error(t, outcome.Err)
	_, ok := outcome.Err.(*ParseError)
	assert.True(t, ok)
}

func TestPipelineResolvesDependency(t *testing.T) {
	p := NewPipeline(fakeDependent{})
	ctx := NewContext()
	ctx.Dependencies["battery"] = uint8(99)
	outcome := p.Parse([]byte{10}, ctx)
	require.NoError(t, outcome.Err)
	assert.Equal(t, uint8(99), outcome.Value)
}

func TestNewContextDefaultsTraceOff(t *testing.T) {
	ctx := NewContext()
	assert.False(t, ctx.Trace)
	assert.NotNil(t, ctx.Dependencies)
}
