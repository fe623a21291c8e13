package advertising

// AD type codes from the Bluetooth assigned-numbers "Common Data Types"
// table. The original's ad_types_constants module (imported as
// `..types.ad_types_constants.ADType`) was not present in the retrieved
// source, so these are the standard assigned values rather than a port
// of that file.
const (
	adFlags                                    = 0x01
	adIncomplete16BitServiceUUIDs               = 0x02
	adComplete16BitServiceUUIDs                 = 0x03
	adIncomplete32BitServiceUUIDs               = 0x04
	adComplete32BitServiceUUIDs                 = 0x05
	adIncomplete128BitServiceUUIDs              = 0x06
	adComplete128BitServiceUUIDs                = 0x07
	adShortenedLocalName                        = 0x08
	adCompleteLocalName                         = 0x09
	adTxPowerLevel                              = 0x0A
	adClassOfDevice                             = 0x0D
	adSimplePairingHashC                        = 0x0E
	adSimplePairingRandomizerR                  = 0x0F
	adSecurityManagerTKValue                    = 0x10
	adSecurityManagerOutOfBandFlags             = 0x11
	adSlaveConnectionIntervalRange              = 0x12
	adSolicited16BitServiceUUIDs                = 0x14
	adSolicited128BitServiceUUIDs               = 0x15
	adServiceData16Bit                          = 0x16
	adPublicTargetAddress                       = 0x17
	adRandomTargetAddress                       = 0x18
	adAppearance                                = 0x19
	adAdvertisingInterval                       = 0x1A
	adLEBluetoothDeviceAddress                  = 0x1B
	adLERole                                    = 0x1C
	adSolicited32BitServiceUUIDs                = 0x1F
	adServiceData32Bit                          = 0x20
	adServiceData128Bit                         = 0x21
	adLESecureConnectionsConfirmationValue      = 0x22
	adLESecureConnectionsRandomValue            = 0x23
	adURI                                       = 0x24
	adIndoorPositioning                         = 0x25
	adTransportDiscoveryData                    = 0x26
	adLESupportedFeatures                       = 0x27
	adChannelMapUpdateIndication                = 0x28
	adPBADV                                     = 0x29
	adMeshMessage                               = 0x2A
	adMeshBeacon                                = 0x2B
	adBIGInfo                                   = 0x2C
	adBroadcastCode                             = 0x2D
	adResolvableSetIdentifier                   = 0x2E
	adAdvertisingIntervalLong                   = 0x2F
	adBroadcastName                             = 0x30
	adEncryptedAdvertisingData                  = 0x31
	adPeriodicAdvertisingResponseTimingInfo     = 0x32
	adElectronicShelfLabel                      = 0x34
	adThreeDInformationData                     = 0x3D
	adManufacturerSpecificData                  = 0xFF
)

// knownADTypes lists every AD type this parser dispatches on, used to
// decide whether an encountered type is "unknown" and worth a warning
// (the original's `ad_types_registry.is_known_ad_type` check).
var knownADTypes = map[uint8]struct{}{
	adFlags: {}, adIncomplete16BitServiceUUIDs: {}, adComplete16BitServiceUUIDs: {},
	adIncomplete32BitServiceUUIDs: {}, adComplete32BitServiceUUIDs: {},
	adIncomplete128BitServiceUUIDs: {}, adComplete128BitServiceUUIDs: {},
	adShortenedLocalName: {}, adCompleteLocalName: {}, adTxPowerLevel: {},
	adClassOfDevice: {}, adSimplePairingHashC: {}, adSimplePairingRandomizerR: {},
	adSecurityManagerTKValue: {}, adSecurityManagerOutOfBandFlags: {},
	adSlaveConnectionIntervalRange: {}, adSolicited16BitServiceUUIDs: {},
	adSolicited128BitServiceUUIDs: {}, adServiceData16Bit: {},
	adPublicTargetAddress: {}, adRandomTargetAddress: {}, adAppearance: {},
	adAdvertisingInterval: {}, adLEBluetoothDeviceAddress: {}, adLERole: {},
	adSolicited32BitServiceUUIDs: {}, adServiceData32Bit: {}, adServiceData128Bit: {},
	adLESecureConnectionsConfirmationValue: {}, adLESecureConnectionsRandomValue: {},
	adURI: {}, adIndoorPositioning: {}, adTransportDiscoveryData: {},
	adLESupportedFeatures: {}, adChannelMapUpdateIndication: {}, adPBADV: {},
	adMeshMessage: {}, adMeshBeacon: {}, adBIGInfo: {}, adBroadcastCode: {},
	adResolvableSetIdentifier: {}, adAdvertisingIntervalLong: {}, adBroadcastName: {},
	adEncryptedAdvertisingData: {}, adPeriodicAdvertisingResponseTimingInfo: {},
	adElectronicShelfLabel: {}, adThreeDInformationData: {}, adManufacturerSpecificData: {},
}
