package cli

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/shibukawa/structquery/parser"
)

func TestFmtRun(t *testing.T) {
	t.Parallel()

	cmd := &FmtCmd{Query: "(and  boost=2  title:'star')"}
	assert.NoError(t, cmd.Run(&Context{Quiet: true}))
}

func TestFmtRunCheckCanonical(t *testing.T) {
	t.Parallel()

	cmd := &FmtCmd{Query: "(and boost=2 title:'star')", Check: true}
	assert.NoError(t, cmd.Run(&Context{Quiet: true}))
}

func TestFmtRunCheckNotCanonical(t *testing.T) {
	t.Parallel()

	cmd := &FmtCmd{Query: "( and  title:'star' )", Check: true}

	err := cmd.Run(&Context{Quiet: true})
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotCanonical))
}

func TestFmtRunParseError(t *testing.T) {
	t.Parallel()

	cmd := &FmtCmd{Query: "(and title:'star'", Check: true}

	err := cmd.Run(&Context{Quiet: true})
	assert.Error(t, err)
	assert.True(t, errors.Is(err, parser.ErrInvalidSyntax))
}
