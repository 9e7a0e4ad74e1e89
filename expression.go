// Package structquery builds and renders expressions of a
// document-search backend's structured query grammar, the parenthesized
// operator-prefix syntax combining operators with named options and
// field-value matchers, e.g.
//
//	(and boost=2 title:'star' year:[1990,2000])
//
// Expressions are constructed through per-operator functions (And, Or,
// Not, Near, Phrase, Prefix, Range, Term) or the generic New; each
// constructor validates its operator's option and value rules before
// returning. String renders the wire form. All values are immutable
// after construction and safe for concurrent use.
package structquery

import (
	"fmt"
	"strings"
)

// Expression is one node of a validated query tree: an operator with
// its options and field values (which may be nested expressions).
// Immutable; there is no mutation API.
type Expression struct {
	operator Operator
	options  []Option
	fields   []*FieldValue
}

// Clause pairs an operator tag with its conditions for the Parse entry
// point.
type Clause struct {
	Operator   string
	Conditions []Condition
}

// And matches documents satisfying every field value. Accepts any
// positive number of fields and the boost option.
func And(conds ...Condition) (*Expression, error) {
	return build(OperatorAnd, conds)
}

// Or matches documents satisfying at least one field value. Accepts any
// positive number of fields and the boost option.
func Or(conds ...Condition) (*Expression, error) {
	return build(OperatorOr, conds)
}

// Not negates exactly one field value. Accepts the boost and field
// options.
func Not(conds ...Condition) (*Expression, error) {
	return build(OperatorNot, conds)
}

// Near matches a multi-word phrase within a word distance. Requires
// exactly one string value containing at least two words; accepts the
// boost, distance, and field options.
func Near(conds ...Condition) (*Expression, error) {
	return build(OperatorNear, conds)
}

// Phrase matches an exact phrase. Requires exactly one string value;
// accepts the boost and field options.
func Phrase(conds ...Condition) (*Expression, error) {
	return build(OperatorPhrase, conds)
}

// Prefix matches terms beginning with the given string. Requires exactly
// one string value; accepts the boost and field options.
func Prefix(conds ...Condition) (*Expression, error) {
	return build(OperatorPrefix, conds)
}

// Range matches values inside an interval. Requires exactly one
// RangeValue (or pre-formatted range text); accepts the boost and field
// options.
func Range(conds ...Condition) (*Expression, error) {
	return build(OperatorRange, conds)
}

// Term matches a single exact value. Requires exactly one field value;
// accepts the boost and field options.
func Term(conds ...Condition) (*Expression, error) {
	return build(OperatorTerm, conds)
}

// New builds an expression from an operator tag, dispatching to the same
// construction protocol as the per-operator functions. Tags outside the
// fixed set fail with ErrUnknownOperator.
func New(operator string, conds ...Condition) (*Expression, error) {
	op, ok := operatorFromName(operator)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperator, operator)
	}
	return build(op, conds)
}

// Parse builds one expression per clause. An empty clause list yields nil;
// the first failing clause aborts construction.
func Parse(clauses ...Clause) ([]*Expression, error) {
	if len(clauses) == 0 {
		return nil, nil
	}

	exprs := make([]*Expression, 0, len(clauses))
	for _, clause := range clauses {
		expr, err := New(clause.Operator, clause.Conditions...)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}

	return exprs, nil
}

// build runs the construction protocol: drop absent entries, collect
// pre-built options in the allowed set (discarding the rest), pull named
// options (first occurrence per key wins, later same-key entries are
// consumed), convert remaining named then positional entries to field
// values, and validate. Every construction path in the module routes
// through here, so no expression can bypass validation.
func build(op Operator, conds []Condition) (*Expression, error) {
	var (
		options     []Option
		namedOpts   []Option
		namedFields []*FieldValue
		posFields   []*FieldValue
		seen        map[OptionName]bool
	)

	for _, cond := range conds {
		switch cond.kind {
		case condOption:
			if op.allowsOption(cond.option.name) {
				options = append(options, cond.option)
			}
		case condNamed:
			if n, ok := optionNameFromString(cond.name); ok && op.allowsOption(n) {
				if seen == nil {
					seen = make(map[OptionName]bool)
				}
				if seen[n] {
					continue
				}
				seen[n] = true

				if o := newOption(cond.name, cond.value); o.valid {
					namedOpts = append(namedOpts, o)
				}
				continue
			}

			field, err := NewNamedFieldValue(cond.name, cond.value)
			if err != nil {
				return nil, err
			}
			namedFields = append(namedFields, field)
		case condValue:
			field, err := NewFieldValue(cond.value)
			if err != nil {
				return nil, err
			}
			if field == nil {
				continue
			}
			posFields = append(posFields, field)
		}
	}

	options = append(options, namedOpts...)
	fields := append(namedFields, posFields...)

	if err := validate(op, fields); err != nil {
		return nil, err
	}

	return &Expression{operator: op, options: options, fields: fields}, nil
}

// validate applies the per-operator arity and value type rules, first
// match wins.
func validate(op Operator, fields []*FieldValue) error {
	if len(fields) == 0 {
		return fmt.Errorf("%w: %s", ErrNoFieldValues, op)
	}

	if op.singleField() && len(fields) > 1 {
		return fmt.Errorf("%w: %s given %d", ErrTooManyFieldValues, op, len(fields))
	}

	switch op {
	case OperatorNear:
		field := fields[0]
		if !field.isString() {
			return fmt.Errorf("%w: %s", ErrStringRequired, op)
		}
		if !strings.Contains(field.stringContent(), " ") {
			return fmt.Errorf("%w: %q", ErrMultipleWordsRequired, field.stringContent())
		}
	case OperatorPhrase, OperatorPrefix:
		if !fields[0].isString() {
			return fmt.Errorf("%w: %s", ErrStringRequired, op)
		}
	case OperatorRange:
		if !fields[0].isRange() {
			return ErrRangeRequired
		}
	}

	return nil
}

// Operator returns the expression's operator.
func (e *Expression) Operator() Operator {
	return e.operator
}

// Options returns a copy of the option list in render order.
func (e *Expression) Options() []Option {
	out := make([]Option, len(e.options))
	copy(out, e.options)
	return out
}

// Fields returns a copy of the field value list in render order.
func (e *Expression) Fields() []*FieldValue {
	out := make([]*FieldValue, len(e.fields))
	copy(out, e.fields)
	return out
}

// String renders the wire form: "(" operator, then options, then fields,
// space separated with empty texts omitted, then ")". Nested expressions
// render depth first.
func (e *Expression) String() string {
	var b strings.Builder
	e.render(&b)
	return b.String()
}

func (e *Expression) render(b *strings.Builder) {
	b.WriteByte('(')
	b.WriteString(e.operator.String())

	for _, opt := range e.options {
		if text := opt.String(); text != "" {
			b.WriteByte(' ')
			b.WriteString(text)
		}
	}

	for _, field := range e.fields {
		if text := field.String(); text != "" {
			b.WriteByte(' ')
			b.WriteString(text)
		}
	}

	b.WriteByte(')')
}
