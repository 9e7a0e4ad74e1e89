package cli

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/shibukawa/structquery"
	"github.com/shibukawa/structquery/parser"
	"github.com/shibukawa/structquery/queryfile"
)

// ValidateCmd represents the validate command
type ValidateCmd struct {
	Source string   `arg:"" help:"Query text or descriptor file to validate"`
	Param  []string `short:"p" long:"param" help:"Individual parameter (key=value format)"`
}

// Run executes the validate command
func (v *ValidateCmd) Run(ctx *Context) error {
	// Load configuration
	config, err := LoadConfig(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	configureColor(config)

	expr, err := v.validateSource(ctx, config)
	if err != nil {
		return err
	}

	if !ctx.Quiet {
		color.Green("Query is valid")
		fmt.Printf("  operator: %s\n", expr.Operator())
		fmt.Printf("  options:  %d\n", len(expr.Options()))
		fmt.Printf("  fields:   %d\n", len(expr.Fields()))

		if n := countClauses(expr); n > 1 {
			fmt.Printf("  clauses:  %d\n", n)
		}
	}

	return nil
}

// validateSource builds the expression from either a descriptor file or
// query text. An existing file wins; anything else is parsed as a query.
func (v *ValidateCmd) validateSource(ctx *Context, config *Config) (*structquery.Expression, error) {
	if fileExists(v.Source) {
		if ctx.Verbose {
			color.Blue("Validating descriptor %s", v.Source)
		}

		doc, err := queryfile.Load(v.Source)
		if err != nil {
			return nil, err
		}

		seedParameters(doc, config)

		params, err := parseParams(v.Param)
		if err != nil {
			return nil, err
		}

		return doc.Build(params)
	}

	if ctx.Verbose {
		color.Blue("Validating query text")
	}

	return parser.ParseQuery(v.Source)
}

// countClauses counts the expression and all nested sub-expressions
func countClauses(expr *structquery.Expression) int {
	count := 1

	for _, field := range expr.Fields() {
		if nested := field.Expression(); nested != nil {
			count += countClauses(nested)
		}
	}

	return count
}
