package translator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

func TestSupportsKnownUUID(t *testing.T) {
	tr := New()
	assert.True(t, tr.Supports("2A19"))
	assert.True(t, tr.Supports("battery level"))
	assert.False(t, tr.Supports("FFFE"))
}

func TestParseCharacteristicByUUID(t *testing.T) {
	tr := New()
	outcome := tr.ParseCharacteristic("2A19", []byte{0x64}, nil)
	require.NoError(t, outcome.Err)
	assert.Equal(t, uint8(100), outcome.Value)
}

func TestParseCharacteristicByName(t *testing.T) {
	tr := New()
	outcome := tr.ParseCharacteristic("Battery Level", []byte{0x32}, nil)
	require.NoError(t, outcome.Err)
	assert.Equal(t, uint8(50), outcome.Value)
}

func TestParseCharacteristicUnsupported(t *testing.T) {
	tr := New()
	outcome := tr.ParseCharacteristic("FFFE", []byte{0x00}, nil)
	require.Error(t, outcome.Err)
	_, ok := outcome.Err.(*UnsupportedCharacteristicError)
	assert.True(t, ok)
}

func TestEncodeCharacteristicRoundTrip(t *testing.T) {
	tr := New()
	data, err := tr.EncodeCharacteristic("2A19", uint8(75), nil)
	require.NoError(t, err)
	outcome := tr.ParseCharacteristic("2A19", data, nil)
	require.NoError(t, outcome.Err)
	assert.Equal(t, uint8(75), outcome.Value)
}

func TestValidateCharacteristicData(t *testing.T) {
	tr := New()
	result := tr.ValidateCharacteristicData("2A19", []byte{0x01, 0x02})
	assert.False(t, result.IsValid)
	assert.Equal(t, 2, result.ActualLength)

	result = tr.ValidateCharacteristicData("2A19", []byte{0x01})
	assert.True(t, result.IsValid)
}

func TestListSupportedCharacteristicsIncludesBattery(t *testing.T) {
	tr := New()
	list := tr.ListSupportedCharacteristics()
	uuidStr, ok := list["Battery Level"]
	require.True(t, ok)
	assert.NotEmpty(t, uuidStr)
}

func TestParseCharacteristicsBatchViaOrderedMap(t *testing.T) {
	tr := New()
	data := orderedmap.New[string, []byte]()
	data.Set("2A19", []byte{0x55})

	results, err := tr.ParseCharacteristics(data, nil)
	require.NoError(t, err)
	v, ok := results.Get("2A19")
	require.True(t, ok)
	assert.Equal(t, uint8(0x55), v)
}

func TestProcessServicesAndDiscoveredServices(t *testing.T) {
	tr := New()
	tr.ProcessServices(map[string][]string{"180F": {"2A19"}})

	info, ok := tr.GetServiceByUUID("180F")
	require.True(t, ok)
	assert.Equal(t, []string{"2A19"}, info.Characteristics)

	all := tr.DiscoveredServices()
	assert.Len(t, all, 1)

	tr.ClearServices()
	_, ok = tr.GetServiceByUUID("180F")
	assert.False(t, ok)
}

func TestCreateValuePrimitive(t *testing.T) {
	tr := New()
	v, err := tr.CreateValue("2A19", uint8(42))
	require.NoError(t, err)
	assert.Equal(t, uint8(42), v)
}
