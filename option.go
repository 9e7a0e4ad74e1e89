package structquery

import "strconv"

// OptionName represents the closed set of expression option names.
type OptionName int

const (
	// OptionInvalid indicates a name outside the option set
	OptionInvalid OptionName = iota
	// OptionBoost weights an expression in relevance scoring
	OptionBoost
	// OptionDistance sets the maximum word distance for near
	OptionDistance
	// OptionField sets the default field for single-value operators
	OptionField
)

// String returns the option name as it appears in the query syntax.
func (n OptionName) String() string {
	switch n {
	case OptionBoost:
		return "boost"
	case OptionDistance:
		return "distance"
	case OptionField:
		return "field"
	default:
		return "invalid"
	}
}

func optionNameFromString(name string) (OptionName, bool) {
	switch name {
	case "boost":
		return OptionBoost, true
	case "distance":
		return OptionDistance, true
	case "field":
		return OptionField, true
	default:
		return OptionInvalid, false
	}
}

// Option is a named scalar modifier attached to an expression. The zero
// Option is the absent option, produced by the lenient constructor for
// unknown names and unrenderable values, and dropped during expression
// construction.
type Option struct {
	name  OptionName
	value string
	valid bool
}

// newOption builds an option from a raw name and value. Unknown names,
// nil values, and values without a textual coercion yield the absent
// option, never an error; construction scans heterogeneous condition
// lists where most entries are not options.
func newOption(name string, value any) Option {
	n, ok := optionNameFromString(name)
	if !ok || value == nil {
		return Option{}
	}

	text, ok := optionValueText(value)
	if !ok {
		return Option{}
	}

	return Option{name: n, value: text, valid: true}
}

// optionValueText coerces an option value to its textual form. Option
// values are never quoted in the wire syntax.
func optionValueText(value any) (string, bool) {
	if b, ok := value.(bool); ok {
		return strconv.FormatBool(b), true
	}

	sv, ok := coerceScalar(value)
	if !ok {
		return "", false
	}

	return sv.text(), true
}

// Name returns the option name, or OptionInvalid for the absent option.
func (o Option) Name() OptionName {
	if !o.valid {
		return OptionInvalid
	}
	return o.name
}

// String renders "name=value", or the empty string for the absent option.
func (o Option) String() string {
	if !o.valid {
		return ""
	}
	return o.name.String() + "=" + o.value
}
