package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srg/bluetoothsig/pkg/registry"
	"github.com/srg/bluetoothsig/pkg/uuid"
)

func TestLookupByUUID(t *testing.T) {
	r := registry.New()
	entry, ok := r.GetCharacteristic("2A19")
	require.True(t, ok)
	assert.Equal(t, "Battery Level", entry.Name)
}

func TestLookupByName(t *testing.T) {
	r := registry.New()
	entry, ok := r.GetCharacteristic("battery level")
	require.True(t, ok)
	assert.Equal(t, "2A19", entry.UUID.ShortForm())
}

func TestLookupByID(t *testing.T) {
	r := registry.New()
	entry, ok := r.GetCharacteristic("org.bluetooth.characteristic.battery_level")
	require.True(t, ok)
	assert.Equal(t, "Battery Level", entry.Name)
}

func TestLookupService(t *testing.T) {
	r := registry.New()
	entry, ok := r.GetService("180F")
	require.True(t, ok)
	assert.Equal(t, "Battery Service", entry.Name)
}

func TestLookupMiss(t *testing.T) {
	r := registry.New()
	_, ok := r.GetCharacteristic("FFFF")
	assert.False(t, ok)
}

func TestRegisterCharacteristicConflict(t *testing.T) {
	r := registry.New()
	batteryUUID := uuid.MustParse("2A19")

	err := r.RegisterCharacteristic(registry.CustomEntry{UUID: batteryUUID, Name: "Custom Battery"}, false)
	assert.Error(t, err)

	err = r.RegisterCharacteristic(registry.CustomEntry{UUID: batteryUUID, Name: "Custom Battery"}, true)
	assert.NoError(t, err)

	entry, ok := r.GetCharacteristic("2A19")
	require.True(t, ok)
	assert.Equal(t, "Custom Battery", entry.Name)
	assert.Equal(t, registry.OriginRuntime, entry.Origin)
}

func TestRegisterCustomCharacteristicAndClear(t *testing.T) {
	r := registry.New()
	custom := uuid.MustParse("12345678123412341234123456789ABD")

	err := r.RegisterCharacteristic(registry.CustomEntry{UUID: custom, Name: "Widget Sensor"}, false)
	require.NoError(t, err)

	entry, ok := r.GetCharacteristic("widget sensor")
	require.True(t, ok)
	assert.Equal(t, registry.OriginRuntime, entry.Origin)

	r.ClearCustom()
	_, ok = r.GetCharacteristic("widget sensor")
	assert.False(t, ok)
}

func TestRegisterRejectsReservedUUID(t *testing.T) {
	r := registry.New()
	reserved := uuid.MustParse("0000000000001000800000805F9B34FB")
	err := r.RegisterCharacteristic(registry.CustomEntry{UUID: reserved, Name: "Nope"}, false)
	assert.Error(t, err)
}

func TestAppearanceAndCompanyLookup(t *testing.T) {
	r := registry.New()
	name, ok := r.AppearanceName(64)
	require.True(t, ok)
	assert.Equal(t, "Generic Phone", name)

	company, ok := r.CompanyName(0x004C)
	require.True(t, ok)
	assert.Equal(t, "Apple, Inc.", company)
}

func TestUnitSymbol(t *testing.T) {
	r := registry.New()
	assert.Equal(t, "%", r.UnitSymbol("org.bluetooth.unit.percentage"))
}
