// Package uuid implements the Bluetooth SIG UUID value type: normalised
// 16/128-bit identifiers with equality, short/full/dashed views, and the
// reserved-value checks used to gate custom characteristic registration.
package uuid

import (
	"fmt"
	"strings"
)

// baseUUIDSuffix is the tail of the Bluetooth SIG base UUID used to expand
// a 16-bit UUID to its 128-bit form: 0000XXXX-0000-1000-8000-00805F9B34FB.
const baseUUIDSuffix = "00001000800000805F9B34FB"

const (
	shortLen = 4
	fullLen  = 32
)

// Reserved normalised forms that are never valid for custom registration.
const (
	invalidBaseUUID        = "0000000000001000800000805F9B34FB"
	invalidNullUUID        = "00000000000000000000000000000000"[:fullLen]
	invalidPlaceholderUUID = "0000123400001000800000805F9B34FB"
)

// InvalidUUIDError reports a malformed UUID input. It carries the offending
// string so callers can surface exactly what failed to parse.
type InvalidUUIDError struct {
	Input string
	Cause string
}

func (e *InvalidUUIDError) Error() string {
	return fmt.Sprintf("invalid UUID %q: %s", e.Input, e.Cause)
}

// UUID is a normalised Bluetooth UUID. The zero value is not valid; use
// Parse, ParseInt or MustParse to construct one.
type UUID struct {
	normalized string // uppercase hex, no dashes; 4 or 32 characters
}

// Parse normalises a UUID string in any of the four accepted notations:
// short ("180F"), hex-prefixed ("0x180F"), dashed
// ("0000180F-0000-1000-8000-00805F9B34FB"), or already-normalised full hex.
func Parse(s string) (UUID, error) {
	cleaned := strings.ToUpper(strings.NewReplacer("-", "", " ", "").Replace(s))
	cleaned = strings.TrimPrefix(cleaned, "0X")

	if !isHex(cleaned) {
		return UUID{}, &InvalidUUIDError{Input: s, Cause: "not a hexadecimal string"}
	}

	switch len(cleaned) {
	case shortLen:
		return UUID{normalized: cleaned}, nil
	case fullLen:
		return UUID{normalized: cleaned}, nil
	default:
		return UUID{}, &InvalidUUIDError{Input: s, Cause: fmt.Sprintf("length %d (expected 4 or 32 hex characters)", len(cleaned))}
	}
}

// MustParse is like Parse but panics on error; intended for package-level
// UUID constants derived from literal SIG-assigned values.
func MustParse(s string) UUID {
	u, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return u
}

// ParseInt normalises an integer UUID value, zero-padding to 4 or 32 hex
// digits. Negative values and values exceeding 128 bits are rejected.
func ParseInt(v int64) (UUID, error) {
	if v < 0 {
		return UUID{}, &InvalidUUIDError{Input: fmt.Sprintf("%d", v), Cause: "negative integer"}
	}
	hexStr := fmt.Sprintf("%X", v)
	switch {
	case len(hexStr) <= shortLen:
		return UUID{normalized: pad(hexStr, shortLen)}, nil
	case len(hexStr) <= fullLen:
		return UUID{normalized: pad(hexStr, fullLen)}, nil
	default:
		return UUID{}, &InvalidUUIDError{Input: fmt.Sprintf("%d", v), Cause: "integer too large for a 128-bit UUID"}
	}
}

func pad(s string, n int) string {
	return strings.Repeat("0", n-len(s)) + s
}

func isHex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !((r >= '0' && r <= '9') || (r >= 'A' && r <= 'F')) {
			return false
		}
	}
	return true
}

// IsShort reports whether this UUID was constructed/normalised from a
// 16-bit value.
func (u UUID) IsShort() bool { return len(u.normalized) == shortLen }

// IsFull reports whether this UUID is in 128-bit form.
func (u UUID) IsFull() bool { return len(u.normalized) == fullLen }

// ShortForm returns the 4-hex-digit form. Valid only when the UUID embeds
// the Bluetooth base UUID; otherwise returns the full form's hex digits 5-8.
func (u UUID) ShortForm() string {
	if u.IsShort() {
		return u.normalized
	}
	return u.normalized[4:8]
}

// FullForm returns the 32-hex-digit form, expanding short UUIDs through the
// Bluetooth base UUID.
func (u UUID) FullForm() string {
	if u.IsFull() {
		return u.normalized
	}
	return "0000" + u.normalized + baseUUIDSuffix
}

// DashedForm returns the canonical 8-4-4-4-12 dashed representation.
func (u UUID) DashedForm() string {
	f := u.FullForm()
	return fmt.Sprintf("%s-%s-%s-%s-%s", f[0:8], f[8:12], f[12:16], f[16:20], f[20:])
}

// IntValue returns the UUID as an integer (128-bit values overflow
// standard integer types conceptually but fit in a big value in practice
// for SIG-assigned ranges; for 128-bit custom UUIDs prefer FullForm).
func (u UUID) IntValue() int64 {
	var v int64
	for _, r := range u.normalized {
		v <<= 4
		switch {
		case r >= '0' && r <= '9':
			v |= int64(r - '0')
		case r >= 'A' && r <= 'F':
			v |= int64(r-'A') + 10
		}
	}
	return v
}

// Matches reports whether two UUIDs are equal once both are expanded to
// full form. Symmetric with Equal.
func (u UUID) Matches(other UUID) bool {
	return u.FullForm() == other.FullForm()
}

// Equal is an alias for Matches, provided for readability at call sites
// that aren't doing format-agnostic comparison explicitly.
func (u UUID) Equal(other UUID) bool { return u.Matches(other) }

// Less orders UUIDs lexicographically on their normalised form, matching
// spec §4.1's "ordering is lexicographic on the normalised form".
func (u UUID) Less(other UUID) bool { return u.normalized < other.normalized }

// String renders the dashed form, the conventional human-readable
// representation.
func (u UUID) String() string { return u.DashedForm() }

// IsValidForCustom reports false for the reserved all-zero UUID, the base
// UUID itself, and the internal placeholder UUID.
func (u UUID) IsValidForCustom() bool {
	full := u.FullForm()
	return full != invalidBaseUUID && full != invalidNullUUID && full != invalidPlaceholderUUID
}

// Key returns the canonical string used to key registry maps: the full
// 32-hex-digit normalised form.
func (u UUID) Key() string { return u.FullForm() }
