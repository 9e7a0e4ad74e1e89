package structquery

import "errors"

// Common errors used throughout the structquery package
var (
	// ErrUnknownOperator is returned when an operator tag is not one of the
	// fixed set (and, or, not, near, phrase, prefix, range, term).
	ErrUnknownOperator = errors.New("unknown operator")
	// ErrNoFieldValues indicates an expression was built with zero field values.
	ErrNoFieldValues = errors.New("operator requires at least one field value")
	// ErrTooManyFieldValues indicates a single-field operator was given more than one field value.
	ErrTooManyFieldValues = errors.New("operator accepts only one field value")
	// ErrMultipleWordsRequired indicates the near operator received a single-word string.
	ErrMultipleWordsRequired = errors.New("near operator requires multiple words")
	// ErrStringRequired indicates a near/phrase/prefix operator received a non-string value.
	ErrStringRequired = errors.New("operator requires a string value")
	// ErrRangeRequired indicates the range operator received a value that is
	// neither a RangeValue nor a pre-formatted range string.
	ErrRangeRequired = errors.New("operator requires a range value")

	// ErrOpenRange indicates a range was constructed with no bounds at all.
	ErrOpenRange = errors.New("range requires at least one bound")
	// ErrRangeType indicates range bounds of incompatible scalar families
	// (numbers mix freely; strings and timestamps never mix).
	ErrRangeType = errors.New("range bounds must share one scalar type")

	// ErrUnsupportedValue indicates a value outside the accepted scalar set
	// (string, integer, float, decimal, timestamp, uuid).
	ErrUnsupportedValue = errors.New("unsupported value type")
)
