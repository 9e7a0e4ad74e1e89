package structquery

// conditionKind discriminates the raw condition variants handed to
// expression constructors.
type conditionKind int

const (
	// condAbsent is a dropped entry (the zero Condition, or Value(nil))
	condAbsent conditionKind = iota
	// condValue is a positional entry
	condValue
	// condNamed is a name/value pair
	condNamed
	// condOption is a pre-built option instance
	condOption
)

// Condition is one raw entry of a constructor's condition list. The three
// variants replace the heterogeneous lists of dynamic query DSLs: a
// positional value, a named pair, or a pre-built option. The zero
// Condition is absent and dropped during construction.
type Condition struct {
	kind   conditionKind
	name   string
	value  any
	option Option
}

// Value wraps a positional condition entry: a scalar, *RangeValue, Bounds,
// RangeDescriptor, *Expression, *FieldValue, or a single-entry
// map[string]any descriptor. Value(nil) is the absent condition.
func Value(v any) Condition {
	if v == nil {
		return Condition{}
	}
	return Condition{kind: condValue, value: v}
}

// Named wraps a name/value pair. Names colliding with operator tags build
// nested expressions; names matching the operator's allowed options become
// options; everything else becomes a named field value.
func Named(name string, v any) Condition {
	return Condition{kind: condNamed, name: name, value: v}
}

// Opt wraps a pre-built option. Unknown names and unrenderable values
// yield an absent entry; valid options outside the target operator's
// allowed set are discarded silently during construction.
func Opt(name string, v any) Condition {
	o := newOption(name, v)
	if !o.valid {
		return Condition{}
	}
	return Condition{kind: condOption, option: o}
}
