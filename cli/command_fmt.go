package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shibukawa/structquery/parser"
)

var ErrNotCanonical = errors.New("query is not in canonical form")

// FmtCmd represents the fmt command
type FmtCmd struct {
	Query string `arg:"" optional:"" help:"Query text (default: stdin)"`
	Check bool   `short:"c" help:"Check if the query is canonical (exit 1 if not)"`
}

// Run executes the fmt command
func (cmd *FmtCmd) Run(ctx *Context) error {
	_ = ctx // Context not needed for formatting operations

	input := cmd.Query
	if input == "" {
		// Read from stdin
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		input = string(data)
	}

	expr, err := parser.ParseQuery(input)
	if err != nil {
		return err
	}

	formatted := expr.String()

	// Handle check mode
	if cmd.Check {
		if strings.TrimSpace(input) != formatted {
			fmt.Fprintln(os.Stderr, "query is not canonical")
			return ErrNotCanonical
		}

		return nil
	}

	fmt.Println(formatted)

	return nil
}

// Help returns help text for the fmt command
func (cmd *FmtCmd) Help() string {
	return `Rewrite a structured query in canonical form.

The fmt command parses a query and prints it back with normalized
whitespace, options before fields, named fields before bare values, and
range values in bracket notation.

Examples:
	# Canonicalize a query
	structquery fmt "(and  boost=2  title:'star'  (not 'archived'))"

	# Check whether a query is already canonical
	structquery fmt -c "(and title:'star')"

	# Format from stdin
	echo "(range year:[1990,2000])" | structquery fmt`
}
