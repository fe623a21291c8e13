package advertising

import "fmt"

// majorDeviceClassNames maps the 5-bit major device class field (bits
// 8-12 of the 24-bit Class of Device value) to its assigned-numbers
// name. No YAML fixture for this table was present in the retrieved
// source, so it is hardcoded from the public Bluetooth Assigned
// Numbers "Baseband" major device class list.
var majorDeviceClassNames = map[uint32]string{
	0x00: "Miscellaneous",
	0x01: "Computer",
	0x02: "Phone",
	0x03: "LAN/Network Access Point",
	0x04: "Audio/Video",
	0x05: "Peripheral",
	0x06: "Imaging",
	0x07: "Wearable",
	0x08: "Toy",
	0x09: "Health",
	0x1F: "Uncategorized",
}

// decodeClassOfDevice extracts the major device class from a 24-bit
// Class of Device value and resolves it to a display name.
func decodeClassOfDevice(raw uint32) string {
	major := (raw >> 8) & 0x1F
	if name, ok := majorDeviceClassNames[major]; ok {
		return name
	}
	return fmt.Sprintf("Unknown (0x%02X)", major)
}
