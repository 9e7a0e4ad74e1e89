package parser

import (
	pc "github.com/shibukawa/parsercombinator"
	"github.com/shibukawa/structquery/tokenizer"
)

func single(label string, tokenType tokenizer.TokenType) pc.Parser[Entity] {
	return pc.Trace(label, func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
		o := tokens[0].Val.Original
		if o.Type == tokenType {
			return 1, []pc.Token[Entity]{{Type: label, Pos: tokens[0].Pos, Val: Entity{Original: o}}}, nil
		}
		return 0, nil, pc.ErrNotMatch
	})
}

func parenOpen() pc.Parser[Entity] {
	return single("paren-open", tokenizer.OPENED_PARENS)
}

func parenClose() pc.Parser[Entity] {
	return single("paren-close", tokenizer.CLOSED_PARENS)
}

func comma() pc.Parser[Entity] {
	return single("comma", tokenizer.COMMA)
}

func colon() pc.Parser[Entity] {
	return single("colon", tokenizer.COLON)
}

func equals() pc.Parser[Entity] {
	return single("equals", tokenizer.EQUALS)
}

func identifier() pc.Parser[Entity] {
	return single("identifier", tokenizer.IDENTIFIER)
}

func stringLit() pc.Parser[Entity] {
	return single("string", tokenizer.STRING)
}

func number() pc.Parser[Entity] {
	return single("number", tokenizer.NUMBER)
}

// rangeOpen matches either opening bracket. The original token type tells
// the range rule whether the lower bound is exclusive.
func rangeOpen() pc.Parser[Entity] {
	return pc.Trace("range-open", func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
		o := tokens[0].Val.Original
		if o.Type == tokenizer.OPENED_BRACKET || o.Type == tokenizer.OPENED_BRACE {
			return 1, []pc.Token[Entity]{{Type: "range-open", Pos: tokens[0].Pos, Val: Entity{Original: o}}}, nil
		}
		return 0, nil, pc.ErrNotMatch
	})
}

func rangeClose() pc.Parser[Entity] {
	return pc.Trace("range-close", func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
		o := tokens[0].Val.Original
		if o.Type == tokenizer.CLOSED_BRACKET || o.Type == tokenizer.CLOSED_BRACE {
			return 1, []pc.Token[Entity]{{Type: "range-close", Pos: tokens[0].Pos, Val: Entity{Original: o}}}, nil
		}
		return 0, nil, pc.ErrNotMatch
	})
}
