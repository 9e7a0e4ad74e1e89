package structquery

import (
	"fmt"
	"strings"
)

// RangeValue is an interval over one scalar family with independently
// inclusive/exclusive, independently open/closed bounds. Values are
// immutable once constructed.
type RangeValue struct {
	lower          scalarValue
	hasLower       bool
	lowerInclusive bool
	upper          scalarValue
	hasUpper       bool
	upperInclusive bool
}

// RangeDescriptor constructs a RangeValue with explicit inclusivity
// control, e.g. a present-but-exclusive lower bound. Nil bounds are open.
type RangeDescriptor struct {
	Lower          any
	LowerExclusive bool
	Upper          any
	UpperExclusive bool
}

// NewRange builds a range from a pair of optional bounds. Present bounds
// are inclusive; an absent (nil) bound leaves that side open and renders
// with the exclusive bracket.
func NewRange(lower, upper any) (*RangeValue, error) {
	return NewRangeFromDescriptor(RangeDescriptor{Lower: lower, Upper: upper})
}

// NewRangeFromDescriptor builds a range with explicit per-bound
// inclusivity. At least one bound must be present, and present bounds must
// belong to the same scalar family (integer, float, and decimal mix as
// numbers; strings and timestamps never mix).
func NewRangeFromDescriptor(d RangeDescriptor) (*RangeValue, error) {
	r := &RangeValue{}

	if d.Lower != nil {
		sv, ok := coerceScalar(d.Lower)
		if !ok {
			return nil, fmt.Errorf("%w: lower bound %T", ErrRangeType, d.Lower)
		}
		r.lower = sv
		r.hasLower = true
		r.lowerInclusive = !d.LowerExclusive
	}

	if d.Upper != nil {
		sv, ok := coerceScalar(d.Upper)
		if !ok {
			return nil, fmt.Errorf("%w: upper bound %T", ErrRangeType, d.Upper)
		}
		r.upper = sv
		r.hasUpper = true
		r.upperInclusive = !d.UpperExclusive
	}

	if !r.hasLower && !r.hasUpper {
		return nil, ErrOpenRange
	}

	if r.hasLower && r.hasUpper && r.lower.kind.family() != r.upper.kind.family() {
		return nil, fmt.Errorf("%w: %T and %T", ErrRangeType, d.Lower, d.Upper)
	}

	return r, nil
}

// String renders the wire form: the lower bracket is "[" only for a
// present inclusive lower bound, "{" otherwise; the upper bracket is "]"
// only for a present inclusive upper bound, "}" otherwise.
func (r *RangeValue) String() string {
	var b strings.Builder

	if r.hasLower && r.lowerInclusive {
		b.WriteByte('[')
	} else {
		b.WriteByte('{')
	}

	if r.hasLower {
		r.lower.render(&b, false)
	}

	b.WriteByte(',')

	if r.hasUpper {
		r.upper.render(&b, false)
	}

	if r.hasUpper && r.upperInclusive {
		b.WriteByte(']')
	} else {
		b.WriteByte('}')
	}

	return b.String()
}

// IsRangeText reports whether s looks like a pre-formatted range: split on
// the first comma, the left part must start with "[" or "{" and the right
// part must end with "]" or "}". Such strings are accepted verbatim as
// field values for the range operator.
func IsRangeText(s string) bool {
	left, right, found := strings.Cut(s, ",")
	if !found {
		return false
	}

	if !strings.HasPrefix(left, "[") && !strings.HasPrefix(left, "{") {
		return false
	}

	return strings.HasSuffix(right, "]") || strings.HasSuffix(right, "}")
}
