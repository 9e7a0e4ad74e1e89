package structquery

import (
	"fmt"
	"strings"
)

// contentKind discriminates the closed field content variant.
type contentKind int

const (
	// contentScalar holds one scalar value
	contentScalar contentKind = iota
	// contentRange holds a RangeValue
	contentRange
	// contentExpression holds a nested expression
	contentExpression
)

// FieldValue is a single match target inside an expression: an optional
// field name plus a value that is a scalar, a range, or a nested
// expression. Immutable once constructed.
type FieldValue struct {
	name   string
	kind   contentKind
	scalar scalarValue
	rng    *RangeValue
	expr   *Expression
}

// Bounds is the tuple-shaped range input: both bounds inclusive where
// present, nil bounds open. Conditions carrying a Bounds value convert to
// a RangeValue automatically.
type Bounds struct {
	Lower any
	Upper any
}

// NewFieldValue builds an unnamed field value from raw input. An existing
// *FieldValue passes through unchanged. A single-entry map becomes a named
// field using the entry's key; maps with more than one entry are not a
// single-field descriptor and yield nil without error. A nil value
// normalizes to the empty string.
func NewFieldValue(raw any) (*FieldValue, error) {
	switch v := raw.(type) {
	case *FieldValue:
		return v, nil
	case map[string]any:
		if len(v) != 1 {
			return nil, nil
		}
		for name, value := range v {
			return NewNamedFieldValue(name, value)
		}
		return nil, nil
	default:
		return newContentFieldValue("", raw)
	}
}

// NewNamedFieldValue builds a named field value. When name collides with
// an operator tag the pair is reinterpreted as a nested expression built
// from the raw value as a condition list; this check runs before the plain
// field fallback, so `Named("not", ...)` always means a sub-expression,
// never a field called "not".
func NewNamedFieldValue(name string, raw any) (*FieldValue, error) {
	if isOperatorName(name) {
		expr, err := New(name, reinterpretConditions(raw)...)
		if err != nil {
			return nil, err
		}
		return &FieldValue{kind: contentExpression, expr: expr}, nil
	}

	return newContentFieldValue(name, raw)
}

// reinterpretConditions turns the value side of an operator-named pair
// into a condition list: condition slices are used as-is, []any elements
// become one positional condition each, and any other value is a single
// positional condition.
func reinterpretConditions(raw any) []Condition {
	switch v := raw.(type) {
	case []Condition:
		return v
	case []any:
		conds := make([]Condition, 0, len(v))
		for _, item := range v {
			conds = append(conds, Value(item))
		}
		return conds
	default:
		return []Condition{Value(raw)}
	}
}

// newContentFieldValue coerces raw into field content. Tuple- and
// descriptor-shaped values and pre-built ranges become range content.
func newContentFieldValue(name string, raw any) (*FieldValue, error) {
	switch v := raw.(type) {
	case nil:
		return &FieldValue{name: name, kind: contentScalar, scalar: scalarValue{kind: scalarString}}, nil
	case *Expression:
		return &FieldValue{name: name, kind: contentExpression, expr: v}, nil
	case *RangeValue:
		return &FieldValue{name: name, kind: contentRange, rng: v}, nil
	case Bounds:
		r, err := NewRange(v.Lower, v.Upper)
		if err != nil {
			return nil, err
		}
		return &FieldValue{name: name, kind: contentRange, rng: r}, nil
	case RangeDescriptor:
		r, err := NewRangeFromDescriptor(v)
		if err != nil {
			return nil, err
		}
		return &FieldValue{name: name, kind: contentRange, rng: r}, nil
	default:
		sv, ok := coerceScalar(raw)
		if !ok {
			return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, raw)
		}
		return &FieldValue{name: name, kind: contentScalar, scalar: sv}, nil
	}
}

// WithName returns a copy carrying the new name, content preserved.
func (f *FieldValue) WithName(name string) *FieldValue {
	clone := *f
	clone.name = name
	return &clone
}

// Name returns the field name, empty for unnamed fields.
func (f *FieldValue) Name() string {
	return f.name
}

// Expression returns the nested expression, nil for scalar and range
// content.
func (f *FieldValue) Expression() *Expression {
	if f.kind != contentExpression {
		return nil
	}
	return f.expr
}

// String renders "name:" (omitted when unnamed) followed by the value.
// String scalars are single-quoted and escaped unless they are a fully
// parenthesized pre-built sub-expression or pre-formatted range text,
// which pass through verbatim.
func (f *FieldValue) String() string {
	var b strings.Builder
	f.render(&b)
	return b.String()
}

func (f *FieldValue) render(b *strings.Builder) {
	if f.name != "" {
		b.WriteString(f.name)
		b.WriteByte(':')
	}

	switch f.kind {
	case contentRange:
		b.WriteString(f.rng.String())
	case contentExpression:
		f.expr.render(b)
	default:
		f.scalar.render(b, true)
	}
}

// isString reports whether the content is a plain string scalar, as
// required by the near/phrase/prefix operators.
func (f *FieldValue) isString() bool {
	return f.kind == contentScalar && f.scalar.kind == scalarString
}

// stringContent returns the raw string for string content.
func (f *FieldValue) stringContent() string {
	return f.scalar.str
}

// isRange reports whether the content satisfies the range operator: a
// RangeValue or a string already matching the range-text heuristic.
func (f *FieldValue) isRange() bool {
	if f.kind == contentRange {
		return true
	}
	return f.isString() && IsRangeText(f.scalar.str)
}
