package parser

import (
	pc "github.com/shibukawa/parsercombinator"
	"github.com/shibukawa/structquery/tokenizer"
)

// Entity is the value carried through the combinator pipeline. Original is
// the lexer token the entity was made from; Node holds the parsed form once
// a grammar rule has transformed it.
type Entity struct {
	Original tokenizer.Token
	Node     any
}

func tokenToEntity(tokens []tokenizer.Token) []pc.Token[Entity] {
	results := make([]pc.Token[Entity], 0, len(tokens))
	for _, token := range tokens {
		if token.Type == tokenizer.EOF {
			continue
		}
		results = append(results, pc.Token[Entity]{
			Type: "raw",
			Pos: &pc.Pos{
				Line:  token.Position.Line,
				Col:   token.Position.Column,
				Index: token.Position.Offset,
			},
			Val: Entity{Original: token},
			Raw: token.Value,
		})
	}
	return results
}
