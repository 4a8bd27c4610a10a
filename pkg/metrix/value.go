package metrix

import "fmt"

// ValueKind identifies which variant an ObservedValue currently holds.
type ValueKind int

// ObservedValue variants. NoValue represents a pure occurrence: the
// application observed "something happened" without an associated scalar.
const (
	KindNoValue ValueKind = iota
	KindBool
	KindSignedInt
	KindUnsignedInt
	KindFloat
	KindDuration
	KindChangedBy
)

func (k ValueKind) String() string {
	switch k {
	case KindNoValue:
		return "no_value"
	case KindBool:
		return "bool"
	case KindSignedInt:
		return "signed_int"
	case KindUnsignedInt:
		return "unsigned_int"
	case KindFloat:
		return "float"
	case KindDuration:
		return "duration"
	case KindChangedBy:
		return "changed_by"
	default:
		return "unknown"
	}
}

// ObservedValue is a tagged variant over the scalar shapes an observation
// can carry. The zero value is KindNoValue (a pure occurrence).
type ObservedValue struct {
	kind ValueKind
	b    bool
	i    int64
	u    uint64
	f    float64
}

// NoValue returns the sentinel "pure occurrence" value.
func NoValue() ObservedValue { return ObservedValue{kind: KindNoValue} }

// BoolValue wraps a boolean observation.
func BoolValue(v bool) ObservedValue { return ObservedValue{kind: KindBool, b: v} }

// SignedValue wraps a signed integer observation.
func SignedValue(v int64) ObservedValue { return ObservedValue{kind: KindSignedInt, i: v} }

// UnsignedValue wraps an unsigned integer observation.
func UnsignedValue(v uint64) ObservedValue { return ObservedValue{kind: KindUnsignedInt, u: v} }

// FloatValue wraps a floating point observation.
func FloatValue(v float64) ObservedValue { return ObservedValue{kind: KindFloat, f: v} }

// DurationNanos wraps a duration observation, stored as nanoseconds.
func DurationNanos(nanos uint64) ObservedValue { return ObservedValue{kind: KindDuration, u: nanos} }

// ChangedBy wraps a relative delta, meaningful to gauges (increment/decrement
// strategy) and counters.
func ChangedBy(delta int64) ObservedValue { return ObservedValue{kind: KindChangedBy, i: delta} }

// Kind reports which variant this value holds.
func (v ObservedValue) Kind() ValueKind { return v.kind }

// AsFloat converts any numeric variant (or ChangedBy) to a float64. Bool
// converts as 0/1. NoValue has no numeric reading.
func (v ObservedValue) AsFloat() (float64, bool) {
	switch v.kind {
	case KindBool:
		if v.b {
			return 1, true
		}

		return 0, true
	case KindSignedInt, KindChangedBy:
		return float64(v.i), true
	case KindUnsignedInt, KindDuration:
		return float64(v.u), true
	case KindFloat:
		return v.f, true
	default:
		return 0, false
	}
}

// AsBool interprets the value as a boolean: SignedInt(0)/UnsignedInt(0) are
// false, any other numeric value is true, Bool passes through. NoValue and
// ChangedBy have no boolean reading.
func (v ObservedValue) AsBool() (bool, bool) {
	switch v.kind {
	case KindBool:
		return v.b, true
	case KindSignedInt:
		return v.i != 0, true
	case KindUnsignedInt, KindDuration:
		return v.u != 0, true
	case KindFloat:
		return v.f != 0, true
	default:
		return false, false
	}
}

// AsChangedBy returns the relative delta carried by a ChangedBy value, or
// the signed value of any other numeric variant treated as a delta.
func (v ObservedValue) AsChangedBy() (int64, bool) {
	switch v.kind {
	case KindChangedBy, KindSignedInt:
		return v.i, true
	case KindUnsignedInt, KindDuration:
		return int64(v.u), true
	case KindFloat:
		return int64(v.f), true
	case KindBool:
		if v.b {
			return 1, true
		}

		return 0, true
	default:
		return 0, false
	}
}

// String renders the value for debugging.
func (v ObservedValue) String() string {
	switch v.kind {
	case KindNoValue:
		return "<none>"
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	case KindSignedInt:
		return fmt.Sprintf("%d", v.i)
	case KindUnsignedInt:
		return fmt.Sprintf("%d", v.u)
	case KindFloat:
		return fmt.Sprintf("%g", v.f)
	case KindDuration:
		return fmt.Sprintf("%dns", v.u)
	case KindChangedBy:
		return fmt.Sprintf("%+d", v.i)
	default:
		return "<unknown>"
	}
}
