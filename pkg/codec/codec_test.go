package codec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/srg/bluetoothsig/pkg/codec"
)

func TestExtractPackRoundTrip(t *testing.T) {
	assert.Equal(t, []byte{0x12}, codec.PackUint8(0x12))
	v8, err := codec.ExtractUint8([]byte{0x12})
	assert.NoError(t, err)
	assert.Equal(t, uint8(0x12), v8)

	v16, err := codec.ExtractUint16(codec.PackUint16(0xABCD))
	assert.NoError(t, err)
	assert.Equal(t, uint16(0xABCD), v16)

	v24, err := codec.ExtractUint24(codec.PackUint24(0xABCDEF))
	assert.NoError(t, err)
	assert.Equal(t, uint32(0xABCDEF), v24)

	v32, err := codec.ExtractUint32(codec.PackUint32(0xDEADBEEF))
	assert.NoError(t, err)
	assert.Equal(t, uint32(0xDEADBEEF), v32)
}

func TestSignedRoundTrip(t *testing.T) {
	s16, err := codec.ExtractSint16(codec.PackSint16(-1234))
	assert.NoError(t, err)
	assert.Equal(t, int16(-1234), s16)

	s24, err := codec.ExtractSint24(codec.PackSint24(-1))
	assert.NoError(t, err)
	assert.Equal(t, int32(-1), s24)

	s24pos, err := codec.ExtractSint24(codec.PackSint24(1000))
	assert.NoError(t, err)
	assert.Equal(t, int32(1000), s24pos)
}

func TestTruncatedData(t *testing.T) {
	_, err := codec.ExtractUint16([]byte{0x01})
	assert.Error(t, err)
	var tderr *codec.TruncatedDataError
	assert.ErrorAs(t, err, &tderr)
}

func TestMedfloat16RoundTrip(t *testing.T) {
	packed := codec.PackMedfloat16(36.5, -1)
	value, special, err := codec.ExtractMedfloat16(packed)
	assert.NoError(t, err)
	assert.Equal(t, codec.MedfloatNone, special)
	assert.InDelta(t, 36.5, value, 0.001)
}

func TestMedfloat16Specials(t *testing.T) {
	tests := []codec.MedfloatSpecial{
		codec.MedfloatPositiveInfinity,
		codec.MedfloatNaN,
		codec.MedfloatNotAtThisResolution,
		codec.MedfloatReserved,
		codec.MedfloatNegativeInfinity,
	}
	for _, sp := range tests {
		packed := codec.PackMedfloat16Special(sp)
		_, got, err := codec.ExtractMedfloat16(packed)
		assert.NoError(t, err)
		assert.Equal(t, sp, got)
	}
}

func TestMedfloat32RoundTrip(t *testing.T) {
	packed := codec.PackMedfloat32(1013.25, -2)
	value, special, err := codec.ExtractMedfloat32(packed)
	assert.NoError(t, err)
	assert.Equal(t, codec.MedfloatNone, special)
	assert.InDelta(t, 1013.25, value, 0.001)
}

func TestMedfloat32Specials(t *testing.T) {
	packed := codec.PackMedfloat32Special(codec.MedfloatNaN)
	_, special, err := codec.ExtractMedfloat32(packed)
	assert.NoError(t, err)
	assert.Equal(t, codec.MedfloatNaN, special)
}

func TestBitFieldHelpers(t *testing.T) {
	assert.True(t, codec.TestBit(0b0100, 2))
	assert.False(t, codec.TestBit(0b0100, 1))

	assert.Equal(t, uint32(0b101), codec.ExtractBitField(0b11010100, 2, 3))

	merged := codec.MergeBitFields([3]uint32{0b11, 0, 2}, [3]uint32{0b1, 4, 1})
	assert.Equal(t, uint32(0b10011), merged)
}
