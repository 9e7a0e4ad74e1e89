package structquery

// Operator represents one of the fixed expression kinds of the structured
// query grammar. Each operator carries its own arity and option rules,
// applied during expression construction.
type Operator int

const (
	// OperatorUnknown indicates a tag outside the fixed operator set
	OperatorUnknown Operator = iota
	// OperatorAnd matches documents satisfying all field values
	OperatorAnd
	// OperatorOr matches documents satisfying any field value
	OperatorOr
	// OperatorNot negates its single field value
	OperatorNot
	// OperatorNear matches a multi-word phrase with configurable word distance
	OperatorNear
	// OperatorPhrase matches an exact phrase
	OperatorPhrase
	// OperatorPrefix matches terms starting with the given string
	OperatorPrefix
	// OperatorRange matches values inside an interval
	OperatorRange
	// OperatorTerm matches a single exact value
	OperatorTerm
)

// String returns the operator tag as it appears in the query syntax.
func (o Operator) String() string {
	switch o {
	case OperatorAnd:
		return "and"
	case OperatorOr:
		return "or"
	case OperatorNot:
		return "not"
	case OperatorNear:
		return "near"
	case OperatorPhrase:
		return "phrase"
	case OperatorPrefix:
		return "prefix"
	case OperatorRange:
		return "range"
	case OperatorTerm:
		return "term"
	default:
		return "unknown"
	}
}

// operatorFromName resolves an operator tag. The second return value is
// false for tags outside the fixed set.
func operatorFromName(name string) (Operator, bool) {
	switch name {
	case "and":
		return OperatorAnd, true
	case "or":
		return OperatorOr, true
	case "not":
		return OperatorNot, true
	case "near":
		return OperatorNear, true
	case "phrase":
		return OperatorPhrase, true
	case "prefix":
		return OperatorPrefix, true
	case "range":
		return OperatorRange, true
	case "term":
		return OperatorTerm, true
	default:
		return OperatorUnknown, false
	}
}

// isOperatorName reports whether name collides with an operator tag. Named
// conditions with such keys are reinterpreted as nested expressions.
func isOperatorName(name string) bool {
	_, ok := operatorFromName(name)
	return ok
}

// singleField reports whether the operator accepts at most one field value.
func (o Operator) singleField() bool {
	switch o {
	case OperatorNear, OperatorNot, OperatorPhrase, OperatorPrefix, OperatorRange, OperatorTerm:
		return true
	default:
		return false
	}
}

// allowsOption reports whether the option name is accepted by this operator.
// and/or take boost only; near additionally takes distance; every
// single-field operator takes field.
func (o Operator) allowsOption(name OptionName) bool {
	switch o {
	case OperatorAnd, OperatorOr:
		return name == OptionBoost
	case OperatorNear:
		return name == OptionBoost || name == OptionDistance || name == OptionField
	case OperatorNot, OperatorPhrase, OperatorPrefix, OperatorRange, OperatorTerm:
		return name == OptionBoost || name == OptionField
	default:
		return false
	}
}
