// Package parser turns structured query text back into Expression values.
// It is the renderer's inverse, used by the validate and fmt commands and
// by round-trip tests. The grammar is assembled with parsercombinator over
// the tokenizer's token stream; the matched tree is then built through the
// same condition-based construction path as programmatic queries, so parsed
// input is validated identically to constructed input.
package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	pc "github.com/shibukawa/parsercombinator"
	"github.com/shibukawa/structquery"
	"github.com/shibukawa/structquery/tokenizer"
)

var (
	// ErrInvalidSyntax is returned when the input does not match the
	// structured query grammar.
	ErrInvalidSyntax = errors.New("invalid query syntax")
	// ErrUnexpectedToken is returned when a complete expression is
	// followed by trailing input.
	ErrUnexpectedToken = errors.New("unexpected token")
)

type itemKind int

const (
	itemOption itemKind = iota
	itemField
	itemValue
)

// itemNode is one parsed argument of an expression: an option assignment,
// a named field, or a bare value.
type itemNode struct {
	kind  itemKind
	name  string
	value any
}

// exprNode is the structural parse of one parenthesized expression. The
// operator is kept as raw text; resolution happens during build so unknown
// operators surface the construction error, not a parse error.
type exprNode struct {
	operator string
	items    []itemNode
}

var expression pc.Parser[Entity]

func init() {
	scalar := func(label string) pc.Parser[Entity] {
		return pc.Trans(
			pc.Or(stringLit(), number()),
			func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) ([]pc.Token[Entity], error) {
				v, err := scalarFromToken(tokens[0].Val.Original)
				if err != nil {
					return nil, err
				}
				return []pc.Token[Entity]{{Type: label, Pos: tokens[0].Pos, Val: Entity{Original: tokens[0].Val.Original, Node: v}}}, nil
			},
		)
	}

	rangeValue := pc.Trans(
		pc.Seq(
			rangeOpen(),
			pc.Optional(scalar("range-bound")),
			comma(),
			pc.Optional(scalar("range-bound")),
			rangeClose(),
		),
		func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) ([]pc.Token[Entity], error) {
			desc := structquery.RangeDescriptor{
				LowerExclusive: tokens[0].Val.Original.Type == tokenizer.OPENED_BRACE,
				UpperExclusive: tokens[len(tokens)-1].Val.Original.Type == tokenizer.CLOSED_BRACE,
			}
			afterComma := false
			for _, t := range tokens[1 : len(tokens)-1] {
				switch t.Type {
				case "comma":
					afterComma = true
				case "range-bound":
					if afterComma {
						desc.Upper = t.Val.Node
					} else {
						desc.Lower = t.Val.Node
					}
				}
			}
			return []pc.Token[Entity]{{Type: "value", Pos: tokens[0].Pos, Val: Entity{Original: tokens[0].Val.Original, Node: desc}}}, nil
		},
	)

	value := pc.Or(
		scalar("value"),
		rangeValue,
		pc.Lazy(func() pc.Parser[Entity] { return expression }),
	)

	optionValue := pc.Trans(
		pc.Or(stringLit(), number(), identifier()),
		func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) ([]pc.Token[Entity], error) {
			o := tokens[0].Val.Original
			var v any
			if o.Type == tokenizer.IDENTIFIER {
				v = o.Value
			} else {
				converted, err := scalarFromToken(o)
				if err != nil {
					return nil, err
				}
				v = converted
			}
			return []pc.Token[Entity]{{Type: "option-value", Pos: tokens[0].Pos, Val: Entity{Original: o, Node: v}}}, nil
		},
	)

	option := pc.Trans(
		pc.Seq(identifier(), equals(), optionValue),
		func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) ([]pc.Token[Entity], error) {
			node := itemNode{kind: itemOption, name: tokens[0].Val.Original.Value, value: tokens[2].Val.Node}
			return []pc.Token[Entity]{{Type: "item", Pos: tokens[0].Pos, Val: Entity{Original: tokens[0].Val.Original, Node: node}}}, nil
		},
	)

	namedField := pc.Trans(
		pc.Seq(identifier(), colon(), value),
		func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) ([]pc.Token[Entity], error) {
			node := itemNode{kind: itemField, name: tokens[0].Val.Original.Value, value: tokens[2].Val.Node}
			return []pc.Token[Entity]{{Type: "item", Pos: tokens[0].Pos, Val: Entity{Original: tokens[0].Val.Original, Node: node}}}, nil
		},
	)

	bareValue := pc.Trans(
		value,
		func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) ([]pc.Token[Entity], error) {
			node := itemNode{kind: itemValue, value: tokens[0].Val.Node}
			return []pc.Token[Entity]{{Type: "item", Pos: tokens[0].Pos, Val: Entity{Original: tokens[0].Val.Original, Node: node}}}, nil
		},
	)

	item := pc.Or(option, namedField, bareValue)

	expression = pc.Trans(
		pc.SeqWithLabel("expression",
			parenOpen(),
			identifier(),
			pc.ZeroOrMore("expression items", item),
			parenClose(),
		),
		func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) ([]pc.Token[Entity], error) {
			node := &exprNode{operator: tokens[1].Val.Original.Value}
			for _, t := range tokens[2 : len(tokens)-1] {
				if t.Type != "item" {
					continue
				}
				node.items = append(node.items, t.Val.Node.(itemNode))
			}
			return []pc.Token[Entity]{{Type: "expression", Pos: tokens[0].Pos, Val: Entity{Original: tokens[0].Val.Original, Node: node}}}, nil
		},
	)
}

func scalarFromToken(t tokenizer.Token) (any, error) {
	if t.Type == tokenizer.STRING {
		s, err := tokenizer.Unquote(t.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSyntax, err)
		}
		return s, nil
	}
	return parseNumber(t.Value)
}

// parseNumber keeps integer lexemes as int64 and everything with a
// fraction or exponent as float64. Integers wider than int64 fall back to
// float64 rather than failing.
func parseNumber(lexeme string) (any, error) {
	if !strings.ContainsAny(lexeme, ".eE") {
		if n, err := strconv.ParseInt(lexeme, 10, 64); err == nil {
			return n, nil
		}
	}
	f, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid number %q", ErrInvalidSyntax, lexeme)
	}
	return f, nil
}

// buildExpression converts a structural parse into an Expression through
// the condition protocol. Options go through the lenient Opt path, so
// unknown or disallowed option names in text are dropped the same way they
// are during programmatic construction.
func buildExpression(node *exprNode) (*structquery.Expression, error) {
	conds := make([]structquery.Condition, 0, len(node.items))
	for _, item := range node.items {
		switch item.kind {
		case itemOption:
			conds = append(conds, structquery.Opt(item.name, item.value))
		case itemField:
			v, err := buildValue(item.value)
			if err != nil {
				return nil, err
			}
			conds = append(conds, structquery.Named(item.name, v))
		case itemValue:
			v, err := buildValue(item.value)
			if err != nil {
				return nil, err
			}
			conds = append(conds, structquery.Value(v))
		}
	}
	return structquery.New(node.operator, conds...)
}

func buildValue(v any) (any, error) {
	if child, ok := v.(*exprNode); ok {
		return buildExpression(child)
	}
	return v, nil
}

// ParseQuery parses structured query text into an Expression. Validation
// is the construction protocol's: unknown operators, arity violations, and
// operand type mismatches come back as the core sentinel errors, while
// malformed text yields ErrInvalidSyntax or ErrUnexpectedToken.
func ParseQuery(text string) (*structquery.Expression, error) {
	tokens, err := tokenizer.Tokenize(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSyntax, err)
	}
	entities := tokenToEntity(tokens)
	if len(entities) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidSyntax)
	}

	pctx := pc.NewParseContext[Entity]()
	consumed, match, err := expression(pctx, entities)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSyntax, err)
	}
	if consumed < len(entities) {
		o := entities[consumed].Val.Original
		return nil, fmt.Errorf("%w: %q at line %d, column %d", ErrUnexpectedToken, o.Value, o.Position.Line, o.Position.Column)
	}

	return buildExpression(match[0].Val.Node.(*exprNode))
}
