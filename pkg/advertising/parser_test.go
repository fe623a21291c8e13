package advertising

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srg/bluetoothsig/pkg/registry"
)

func newTestParser(t *testing.T) *Parser {
	t.Helper()
	return NewParser(registry.New())
}

func TestParseFlags(t *testing.T) {
	p := newTestParser(t)
	data := []byte{0x02, adFlags, 0x06}
	rec := p.ParseAdvertisingData(data)
	require.NotNil(t, rec.Flags)
	assert.Equal(t, uint8(0x06), *rec.Flags)
}

func TestParseCompleteLocalName(t *testing.T) {
	p := newTestParser(t)
	name := "Sensor"
	data := []byte{byte(1 + len(name)), adCompleteLocalName}
	data = append(data, []byte(name)...)
	rec := p.ParseAdvertisingData(data)
	require.NotNil(t, rec.LocalName)
	assert.Equal(t, name, *rec.LocalName)
}

func TestParseManufacturerSpecificData(t *testing.T) {
	p := newTestParser(t)
	payload := []byte{0x01, 0x02, 0x03}
	d := append([]byte{0x4C, 0x00}, payload...)
	data := []byte{byte(1 + len(d)), adManufacturerSpecificData}
	data = append(data, d...)
	rec := p.ParseAdvertisingData(data)
	got, ok := rec.ManufacturerData[0x004C]
	require.True(t, ok)
	assert.Equal(t, payload, got)
}

func TestParse16BitServiceUUIDs(t *testing.T) {
	p := newTestParser(t)
	data := []byte{0x05, adComplete16BitServiceUUIDs, 0x0F, 0x18, 0x0A, 0x18}
	rec := p.ParseAdvertisingData(data)
	assert.Equal(t, []string{"180F", "180A"}, rec.ServiceUUIDs)
}

func TestParse128BitServiceUUID(t *testing.T) {
	p := newTestParser(t)
	uuidBytes := []byte{
		0xFB, 0x34, 0x9B, 0x5F, 0x80, 0x00, 0x00, 0x80,
		0x00, 0x10, 0x00, 0x00, 0x19, 0x2A, 0x00, 0x00,
	}
	data := []byte{byte(1 + len(uuidBytes)), adComplete128BitServiceUUIDs}
	data = append(data, uuidBytes...)
	rec := p.ParseAdvertisingData(data)
	require.Len(t, rec.ServiceUUIDs, 1)
	assert.Equal(t, "00002A19-0000-1000-8000-00805F9B34FB", rec.ServiceUUIDs[0])
}

func TestParseToleratesTruncation(t *testing.T) {
	p := newTestParser(t)
	// A complete flags structure followed by a local-name structure whose
	// declared length (5) runs past the end of the buffer: the walk stops
	// at the truncated tail and keeps what it already parsed.
	data := []byte{0x02, adFlags, 0x06, 0x05, adCompleteLocalName, 'A'}
	rec := p.ParseAdvertisingData(data)
	require.NotNil(t, rec.Flags)
	assert.Equal(t, uint8(0x06), *rec.Flags)
	assert.Nil(t, rec.LocalName)
}

func TestParseZeroLengthStructureStopsLoop(t *testing.T) {
	p := newTestParser(t)
	data := []byte{0x00, 0x02, adFlags, 0x06}
	rec := p.ParseAdvertisingData(data)
	assert.Nil(t, rec.Flags)
}

func TestParseUnknownADTypeLogsButContinues(t *testing.T) {
	p := newTestParser(t)
	data := []byte{0x02, 0x99, 0xAA, 0x02, adFlags, 0x01}
	rec := p.ParseAdvertisingData(data)
	require.NotNil(t, rec.Flags)
	assert.Equal(t, uint8(0x01), *rec.Flags)
}

func TestDecodeClassOfDeviceMajorClass(t *testing.T) {
	p := newTestParser(t)
	// major device class "Phone" (2) in bits 8-12, minor/service bits zero.
	raw := uint32(2) << 8
	data := []byte{0x04, adClassOfDevice, byte(raw), byte(raw >> 8), byte(raw >> 16)}
	rec := p.ParseAdvertisingData(data)
	require.NotNil(t, rec.ClassOfDevice)
	assert.Equal(t, raw, *rec.ClassOfDevice)
	assert.Contains(t, rec.ClassOfDeviceInfo, "Phone")
}

func TestParseTxPowerLevel(t *testing.T) {
	p := newTestParser(t)
	data := []byte{0x02, adTxPowerLevel, 0xEC} // -20
	rec := p.ParseAdvertisingData(data)
	require.NotNil(t, rec.TxPower)
	assert.Equal(t, int8(-20), *rec.TxPower)
}

func TestParseExtendedPDUWithAdvertiserAddress(t *testing.T) {
	p := newTestParser(t)

	addr := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}
	presence := byte(extPresenceAdvertiserAddress)
	extHeader := append([]byte{byte(1 + 1 + len(addr)), 0x00, presence}, addr...)

	adPayload := []byte{0x02, adFlags, 0x06}

	pduHeader := byte(pduTypeExtended)
	pduLen := byte(len(extHeader) + len(adPayload))
	data := append([]byte{pduHeader, pduLen}, extHeader...)
	data = append(data, adPayload...)

	rec := p.ParseAdvertisingData(data)
	require.NotNil(t, rec.ExtendedHeader)
	assert.Equal(t, addr, rec.ExtendedHeader.AdvertiserAddress)
	require.NotNil(t, rec.Flags)
	assert.Equal(t, uint8(0x06), *rec.Flags)
	assert.Empty(t, rec.AuxiliaryPackets)
}

func TestParseExtendedPDUWithAuxPtrStub(t *testing.T) {
	p := newTestParser(t)

	auxPtr := []byte{0xAA, 0xBB, 0xCC}
	presence := byte(extPresenceAuxPtr)
	extHeader := append([]byte{byte(1 + 1 + len(auxPtr)), 0x00, presence}, auxPtr...)
	adPayload := []byte{}

	pduHeader := byte(pduTypeExtended)
	pduLen := byte(len(extHeader) + len(adPayload))
	data := append([]byte{pduHeader, pduLen}, extHeader...)
	data = append(data, adPayload...)

	rec := p.ParseAdvertisingData(data)
	require.NotNil(t, rec.ExtendedHeader)
	assert.Equal(t, auxPtr, rec.ExtendedHeader.AuxPtr)
	assert.NotNil(t, rec.AuxiliaryPackets)
	assert.Len(t, rec.AuxiliaryPackets, 0)
}
