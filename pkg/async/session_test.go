package async

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srg/bluetoothsig/pkg/characteristic"
	"github.com/srg/bluetoothsig/pkg/codec"
	"github.com/srg/bluetoothsig/pkg/translator"
)

func TestSessionAccumulatesResultsAcrossParses(t *testing.T) {
	s := NewSession(New(translator.New()), nil)

	_, err := s.Parse(context.Background(), "2A19", []byte{0x64}, nil)
	require.NoError(t, err)

	outcome, err := s.Parse(context.Background(), "2A01", []byte{0x00, 0x00}, nil)
	require.NoError(t, err)
	require.NoError(t, outcome.Err)

	results := s.Results()
	assert.Contains(t, results, "2A19")
	assert.Contains(t, results, "2A01")
	assert.Equal(t, uint8(100), results["2A19"])
}

func TestSessionParseErrorNotAccumulated(t *testing.T) {
	s := NewSession(New(translator.New()), nil)

	outcome, err := s.Parse(context.Background(), "2A19", []byte{}, nil)
	require.NoError(t, err)
	assert.Error(t, outcome.Err)

	results := s.Results()
	assert.NotContains(t, results, "2A19")
}

func TestSessionDescriptorPersistsAcrossParses(t *testing.T) {
	s := NewSession(New(translator.New()), nil)

	// 80.00 C fails once a -10.00..50.00 C Valid Range descriptor is
	// in force, even though it is only supplied on the first call.
	validRange := append(codec.PackSint16(-1000), codec.PackSint16(5000)...)
	descriptors := map[string][]byte{characteristic.ValidRangeDescriptorUUID: validRange}

	outcome, err := s.Parse(context.Background(), "2A6E", codec.PackSint16(2150), descriptors)
	require.NoError(t, err)
	require.NoError(t, outcome.Err)

	outcome, err = s.Parse(context.Background(), "2A6E", codec.PackSint16(8000), nil)
	require.NoError(t, err)
	assert.Error(t, outcome.Err)
	assert.Contains(t, outcome.Err.Error(), "source: descriptor")
}
