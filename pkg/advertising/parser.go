package advertising

import (
	"fmt"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/srg/bluetoothsig/pkg/registry"
)

var log = logrus.WithField("component", "advertising")

// Extended-PDU framing constants, per spec §4.10. The original's
// PDUConstants/PDUFlags/PDUType are imported from a `types` module not
// present in the retrieved source; these offsets implement the layout
// spec.md §4.10 describes directly: a 1-byte PDU header, a 1-byte PDU
// length, then an extended header with its own length byte, a mode
// byte, a presence-bitfield byte, and the fields the bitfield selects.
const (
	pduHeaderSize       = 1
	pduLengthOffset     = 1
	extendedHeaderStart = 2
	minExtendedPDU      = 3

	pduTypeMask      = 0x0F
	pduTypeTxAddMask = 0x40
	pduTypeRxAddMask = 0x80
	pduTypeExtended  = 0x07 // ADV_EXT_IND / ADV_AUX_IND share this PDU type code on the wire

	extHeaderFixedBytes = 3 // length byte + mode byte + presence-bitfield byte

	extPresenceAdvertiserAddress   = 1 << 0
	extPresenceTargetAddress       = 1 << 1
	extPresenceCTEInfo             = 1 << 2
	extPresenceAdvertisingDataInfo = 1 << 3
	extPresenceAuxPtr              = 1 << 4
	extPresenceSyncInfo            = 1 << 5
	extPresenceTxPower             = 1 << 6

	bleAddrSize      = 6
	cteInfoSize      = 1
	advDataInfoSize  = 2
	auxPtrSize       = 3
	syncInfoSize     = 18
	txPowerSize      = 1
)

// Parser decodes raw advertising-data bytes into a Record, resolving
// appearance names against the C2 assigned-numbers registry. AD types
// are checked against the local knownADTypes table and are not named.
type Parser struct {
	Registry *registry.Registry
}

// NewParser constructs a Parser bound to reg.
func NewParser(reg *registry.Registry) *Parser {
	return &Parser{Registry: reg}
}

// ParseAdvertisingData is the C10 entry point (spec §4.10). It never
// returns an error: malformed or truncated input yields a partial
// Record, tolerant of the real-world tendency for advertising payloads
// to be truncated or subtly malformed.
func (p *Parser) ParseAdvertisingData(data []byte) *Record {
	if p.isExtendedPDU(data) {
		if rec := p.parseExtended(data); rec != nil {
			return rec
		}
	}
	return p.parseLegacy(data)
}

func (p *Parser) isExtendedPDU(data []byte) bool {
	if len(data) < pduHeaderSize+1 {
		return false
	}
	pduType := data[0] & pduTypeMask
	return pduType == pduTypeExtended
}

func (p *Parser) parseLegacy(data []byte) *Record {
	rec := p.parseADStructures(data)
	rec.RawData = data
	return rec
}

func (p *Parser) parseExtended(data []byte) *Record {
	if len(data) < minExtendedPDU {
		return nil
	}

	length := data[pduLengthOffset]
	if len(data) < pduHeaderSize+1+int(length) {
		return nil
	}

	header, consumed := p.parseExtendedHeader(data[extendedHeaderStart:])
	if header == nil {
		return nil
	}

	payloadStart := extendedHeaderStart + consumed
	payloadLen := int(length) - consumed
	if payloadLen < 0 || payloadStart+payloadLen > len(data) {
		return nil
	}
	payload := data[payloadStart : payloadStart+payloadLen]

	rec := p.parseADStructures(payload)
	rec.RawData = data
	rec.ExtendedHeader = header
	rec.ExtendedPayload = payload
	if len(header.AuxPtr) > 0 {
		// Following the auxiliary pointer means tracking a second
		// physical-channel PDU, which is a transport-layer concern
		// out of scope for a byte-buffer parser (spec §4.10).
		rec.AuxiliaryPackets = []Record{}
	}
	return rec
}

// parseExtendedHeader reads the extended header starting at data[0]
// (the length byte). It returns the decoded header and the number of
// bytes it (including the length byte itself) occupied, so the caller
// can locate the AD-structure payload that follows.
func (p *Parser) parseExtendedHeader(data []byte) (*ExtendedHeader, int) {
	if len(data) < extHeaderFixedBytes {
		return nil, 0
	}
	headerLen := int(data[0])
	if len(data) < headerLen+1 {
		return nil, 0
	}
	presence := data[2]

	h := &ExtendedHeader{}
	offset := extHeaderFixedBytes

	take := func(size int) ([]byte, bool) {
		if offset+size > len(data) {
			return nil, false
		}
		b := data[offset : offset+size]
		offset += size
		return b, true
	}

	if presence&extPresenceAdvertiserAddress != 0 {
		b, ok := take(bleAddrSize)
		if !ok {
			return nil, 0
		}
		h.AdvertiserAddress = b
	}
	if presence&extPresenceTargetAddress != 0 {
		b, ok := take(bleAddrSize)
		if !ok {
			return nil, 0
		}
		h.TargetAddress = b
	}
	if presence&extPresenceCTEInfo != 0 {
		b, ok := take(cteInfoSize)
		if !ok {
			return nil, 0
		}
		h.CTEInfo = b
	}
	if presence&extPresenceAdvertisingDataInfo != 0 {
		b, ok := take(advDataInfoSize)
		if !ok {
			return nil, 0
		}
		h.AdvertisingDataInfo = b
	}
	if presence&extPresenceAuxPtr != 0 {
		b, ok := take(auxPtrSize)
		if !ok {
			return nil, 0
		}
		h.AuxPtr = b
	}
	if presence&extPresenceSyncInfo != 0 {
		b, ok := take(syncInfoSize)
		if !ok {
			return nil, 0
		}
		h.SyncInfo = b
	}
	if presence&extPresenceTxPower != 0 {
		b, ok := take(txPowerSize)
		if !ok {
			return nil, 0
		}
		tx := int8(b[0])
		h.TxPower = &tx
	}
	// headerLen is the declared length of everything after the length
	// byte itself; anything beyond what the presence bitfield consumed
	// is additional controller advertising data.
	declaredEnd := 1 + headerLen
	if declaredEnd > offset && declaredEnd <= len(data) {
		h.AdditionalControllerData = data[offset:declaredEnd]
		offset = declaredEnd
	}

	return h, offset
}

// parseADStructures walks the AD-structure sequence identical to the
// legacy path and the extended path's payload, per spec §4.10.
func (p *Parser) parseADStructures(data []byte) *Record {
	rec := newRecord(nil)

	i := 0
	for i < len(data) {
		if i+1 >= len(data) {
			break
		}
		length := int(data[i])
		if length == 0 || i+length+1 > len(data) {
			break
		}
		adType := data[i+1]
		adData := data[i+2 : i+length+1]

		if _, known := knownADTypes[adType]; !known {
			log.WithField("ad_type", fmt.Sprintf("0x%02X", adType)).Warn("unknown AD type encountered")
		}

		p.dispatch(rec, adType, adData)

		i += length + 1
	}

	if rec.ClassOfDevice != nil {
		rec.ClassOfDeviceInfo = decodeClassOfDevice(*rec.ClassOfDevice)
	}

	return rec
}

func (p *Parser) dispatch(rec *Record, adType uint8, d []byte) {
	switch adType {
	case adFlags:
		if len(d) >= 1 {
			v := d[0]
			rec.Flags = &v
		}
	case adIncomplete16BitServiceUUIDs, adComplete16BitServiceUUIDs:
		for j := 0; j+1 < len(d); j += 2 {
			rec.ServiceUUIDs = append(rec.ServiceUUIDs, fmt.Sprintf("%04X", le16(d[j:j+2])))
		}
	case adIncomplete32BitServiceUUIDs, adComplete32BitServiceUUIDs:
		for j := 0; j+3 < len(d); j += 4 {
			rec.ServiceUUIDs = append(rec.ServiceUUIDs, fmt.Sprintf("%08X", le32(d[j:j+4])))
		}
	case adIncomplete128BitServiceUUIDs, adComplete128BitServiceUUIDs:
		for j := 0; j+15 < len(d); j += 16 {
			rec.ServiceUUIDs = append(rec.ServiceUUIDs, formatUUID128(d[j:j+16]))
		}
	case adSolicited16BitServiceUUIDs:
		for j := 0; j+1 < len(d); j += 2 {
			rec.SolicitedServiceUUIDs = append(rec.SolicitedServiceUUIDs, fmt.Sprintf("%04X", le16(d[j:j+2])))
		}
	case adSolicited32BitServiceUUIDs:
		for j := 0; j+3 < len(d); j += 4 {
			rec.SolicitedServiceUUIDs = append(rec.SolicitedServiceUUIDs, fmt.Sprintf("%08X", le32(d[j:j+4])))
		}
	case adSolicited128BitServiceUUIDs:
		for j := 0; j+15 < len(d); j += 16 {
			rec.SolicitedServiceUUIDs = append(rec.SolicitedServiceUUIDs, formatUUID128(d[j:j+16]))
		}
	case adShortenedLocalName, adCompleteLocalName:
		name := decodeUTF8OrHex(d)
		rec.LocalName = &name
	case adTxPowerLevel:
		if len(d) >= 1 {
			v := int8(d[0])
			rec.TxPower = &v
		}
	case adManufacturerSpecificData:
		if len(d) >= 2 {
			rec.ManufacturerData[le16(d[:2])] = append([]byte(nil), d[2:]...)
		}
	case adAppearance:
		if len(d) >= 2 {
			raw := le16(d[:2])
			name, _ := p.Registry.AppearanceName(raw)
			rec.Appearance = &AppearanceData{RawValue: raw, Name: name}
		}
	case adServiceData16Bit:
		if len(d) >= 2 {
			rec.ServiceData[fmt.Sprintf("%04X", le16(d[:2]))] = append([]byte(nil), d[2:]...)
		}
	case adServiceData32Bit:
		if len(d) >= 4 {
			rec.ServiceData[fmt.Sprintf("%08X", le32(d[:4]))] = append([]byte(nil), d[4:]...)
		}
	case adServiceData128Bit:
		if len(d) >= 16 {
			rec.ServiceData[formatUUID128(d[:16])] = append([]byte(nil), d[16:]...)
		}
	case adURI:
		uri := decodeUTF8OrHex(d)
		rec.URI = &uri
	case adIndoorPositioning:
		rec.IndoorPositioning = d
	case adTransportDiscoveryData:
		rec.TransportDiscoveryData = d
	case adLESupportedFeatures:
		rec.LESupportedFeatures = d
	case adEncryptedAdvertisingData:
		rec.EncryptedAdvertisingData = d
	case adPeriodicAdvertisingResponseTimingInfo:
		rec.PeriodicAdvertisingResponseTiming = d
	case adElectronicShelfLabel:
		rec.ElectronicShelfLabel = d
	case adThreeDInformationData:
		rec.ThreeDInformation = d
	case adBroadcastName:
		name := decodeUTF8OrHex(d)
		rec.BroadcastName = &name
	case adBroadcastCode:
		rec.BroadcastCode = d
	case adBIGInfo:
		rec.BIGInfo = d
	case adMeshMessage:
		rec.MeshMessage = d
	case adMeshBeacon:
		rec.MeshBeacon = d
	case adPublicTargetAddress:
		rec.PublicTargetAddress = append(rec.PublicTargetAddress, decodeAddressList(d)...)
	case adRandomTargetAddress:
		rec.RandomTargetAddress = append(rec.RandomTargetAddress, decodeAddressList(d)...)
	case adAdvertisingInterval:
		if len(d) >= 2 {
			v := le16(d[:2])
			rec.AdvertisingInterval = &v
		}
	case adAdvertisingIntervalLong:
		if len(d) >= 3 {
			v := le24(d[:3])
			rec.AdvertisingIntervalLong = &v
		}
	case adLEBluetoothDeviceAddress:
		if len(d) >= bleAddrSize {
			addr := formatMAC(d[:bleAddrSize])
			rec.LEBluetoothDeviceAddress = &addr
		}
	case adLERole:
		if len(d) >= 1 {
			v := d[0]
			rec.LERole = &v
		}
	case adClassOfDevice:
		if len(d) >= 3 {
			v := le24(d[:3])
			rec.ClassOfDevice = &v
		}
	case adSimplePairingHashC:
		rec.SimplePairingHashC = d
	case adSimplePairingRandomizerR:
		rec.SimplePairingRandomizerR = d
	case adSecurityManagerTKValue:
		rec.SecurityManagerTKValue = d
	case adSecurityManagerOutOfBandFlags:
		rec.SecurityManagerOutOfBandFlags = d
	case adSlaveConnectionIntervalRange:
		rec.SlaveConnectionIntervalRange = d
	case adLESecureConnectionsConfirmationValue:
		rec.SecureConnectionsConfirmation = d
	case adLESecureConnectionsRandomValue:
		rec.SecureConnectionsRandom = d
	case adChannelMapUpdateIndication:
		rec.ChannelMapUpdateIndication = d
	case adPBADV:
		rec.PBADV = d
	case adResolvableSetIdentifier:
		rec.ResolvableSetIdentifier = d
	}
}

func le16(b []byte) uint16 { return uint16(b[0]) | uint16(b[1])<<8 }
func le24(b []byte) uint32 { return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 }
func le32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func formatUUID128(b []byte) string {
	// Stored little-endian on the wire; reverse to the conventional
	// dashed big-endian display form.
	rev := make([]byte, 16)
	for i, v := range b {
		rev[15-i] = v
	}
	return fmt.Sprintf("%02X%02X%02X%02X-%02X%02X-%02X%02X-%02X%02X-%02X%02X%02X%02X%02X%02X",
		rev[0], rev[1], rev[2], rev[3], rev[4], rev[5], rev[6], rev[7],
		rev[8], rev[9], rev[10], rev[11], rev[12], rev[13], rev[14], rev[15])
}

func formatMAC(b []byte) string {
	out := make([]byte, 0, 17)
	for i := len(b) - 1; i >= 0; i-- {
		out = append(out, []byte(fmt.Sprintf("%02X", b[i]))...)
		if i > 0 {
			out = append(out, ':')
		}
	}
	return string(out)
}

func decodeAddressList(d []byte) []string {
	var out []string
	for j := 0; j+5 < len(d); j += 6 {
		out = append(out, formatMAC(d[j:j+6]))
	}
	return out
}

func decodeUTF8OrHex(d []byte) string {
	if isValidUTF8(d) {
		return string(d)
	}
	return fmt.Sprintf("%x", d)
}

func isValidUTF8(b []byte) bool {
	return utf8.Valid(b)
}
