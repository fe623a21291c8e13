package characteristic

import "math"

// ValidRange expresses the inclusive bound a characteristic value must
// satisfy, plus which of the three precedence tiers it came from.
type ValidRange struct {
	Min    float64
	Max    float64
	Source string // "descriptor", "class", or "yaml"
}

// rangeTolerance mirrors the floating-point slack the original validator
// applies so that a value sitting exactly on a computed (scale-derived)
// bound is never rejected for a rounding artefact.
func rangeTolerance(min, max float64) float64 {
	return math.Max(math.Abs(max-min)*1e-9, 1e-9)
}

// ValidRangeDescriptorUUID is the normalized UUID of the Valid Range
// descriptor (0x2906). Its raw value is the characteristic's min and max
// bounds back to back, each encoded the same way as the characteristic's
// own value (split in half; the extra byte on an odd length goes to max).
const ValidRangeDescriptorUUID = "2906"

// DescriptorRange decodes ctx's Valid Range descriptor, if present, into
// a ValidRange using decode to interpret each half exactly as the
// characteristic decodes its own value. Returns nil if ctx carries no
// Valid Range descriptor or its bytes fail to decode, in which case the
// class/YAML tiers apply instead.
func DescriptorRange(ctx *Context, decode func([]byte) (float64, error)) *ValidRange {
	if ctx == nil || ctx.Descriptors == nil {
		return nil
	}
	raw, ok := ctx.Descriptors[ValidRangeDescriptorUUID]
	if !ok || len(raw) < 2 {
		return nil
	}
	mid := len(raw) / 2
	min, err := decode(raw[:mid])
	if err != nil {
		return nil
	}
	max, err := decode(raw[mid:])
	if err != nil {
		return nil
	}
	return &ValidRange{Min: min, Max: max, Source: "descriptor"}
}

// ValidateRange checks value against the highest-precedence range
// available: a descriptor-supplied Valid Range (if non-nil) beats a
// class-level range (if non-nil) beats a YAML-derived range (if
// non-nil). Passing nil for a tier means that tier has nothing to offer,
// not that it failed.
func ValidateRange(name string, value float64, descriptorRange, classRange, yamlRange *ValidRange) error {
	r := descriptorRange
	if r == nil {
		r = classRange
	}
	if r == nil {
		r = yamlRange
	}
	if r == nil {
		return nil
	}
	tol := rangeTolerance(r.Min, r.Max)
	if value < r.Min-tol || value > r.Max+tol {
		return &RangeError{Name: name, Value: value, Min: r.Min, Max: r.Max, Source: r.Source}
	}
	return nil
}
