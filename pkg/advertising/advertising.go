// Package advertising implements the advertising data parser (C10): a
// legacy and extended BLE advertising-PDU decoder that demultiplexes AD
// structures over the Bluetooth assigned AD-type table into a single
// structured Record.
//
// Grounded on
// original_source/.../device/advertising_parser.py's AdvertisingParser
// (legacy/extended dispatch, the AD-structure loop, the per-AD-type
// decode table), reconstructing the extended header's presence-bitfield
// layout and the 32-bit/128-bit/solicited service UUID AD types the
// original file imports registries for but never actually dispatches on
// (added here since the Bluetooth assigned AD-type table calls for them
// regardless of what the original exercises).
package advertising

// Record is the composite advertising record described in spec §3.7:
// one field per defined AD type, plus the extended-PDU-only fields.
type Record struct {
	RawData []byte

	Flags                              *uint8
	ServiceUUIDs                       []string
	SolicitedServiceUUIDs              []string
	LocalName                          *string
	TxPower                            *int8
	ManufacturerData                   map[uint16][]byte
	Appearance                         *AppearanceData
	ServiceData                        map[string][]byte
	URI                                *string
	IndoorPositioning                  []byte
	TransportDiscoveryData             []byte
	LESupportedFeatures                []byte
	EncryptedAdvertisingData           []byte
	PeriodicAdvertisingResponseTiming  []byte
	ElectronicShelfLabel               []byte
	ThreeDInformation                  []byte
	BroadcastName                      *string
	BroadcastCode                      []byte
	BIGInfo                            []byte
	MeshMessage                        []byte
	MeshBeacon                         []byte
	PublicTargetAddress                []string
	RandomTargetAddress                []string
	AdvertisingInterval                *uint16
	AdvertisingIntervalLong            *uint32
	LEBluetoothDeviceAddress           *string
	LERole                             *uint8
	ClassOfDevice                      *uint32
	ClassOfDeviceInfo                  string
	SimplePairingHashC                 []byte
	SimplePairingRandomizerR           []byte
	SecurityManagerTKValue             []byte
	SecurityManagerOutOfBandFlags      []byte
	SlaveConnectionIntervalRange       []byte
	SecureConnectionsConfirmation      []byte
	SecureConnectionsRandom            []byte
	ChannelMapUpdateIndication         []byte
	PBADV                              []byte
	ResolvableSetIdentifier            []byte

	// Extended-PDU-only fields; nil/empty for legacy records.
	ExtendedHeader    *ExtendedHeader
	ExtendedPayload   []byte
	AuxiliaryPackets  []Record
}

// AppearanceData pairs a raw appearance value with its resolved name
// from the C2 appearance-values registry, when known.
type AppearanceData struct {
	RawValue uint16
	Name     string
}

// ExtendedHeader is the extended advertising PDU's own header, decoded
// per spec §4.10's presence-bitfield description.
type ExtendedHeader struct {
	AdvertiserAddress        []byte
	TargetAddress            []byte
	CTEInfo                  []byte
	AdvertisingDataInfo      []byte
	AuxPtr                   []byte
	SyncInfo                 []byte
	TxPower                  *int8
	AdditionalControllerData []byte
}

func newRecord(raw []byte) *Record {
	return &Record{
		RawData:          raw,
		ManufacturerData: make(map[uint16][]byte),
		ServiceData:      make(map[string][]byte),
	}
}
