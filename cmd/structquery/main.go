package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/shibukawa/structquery/cli"
)

// CLI represents the command-line interface
var CLI struct {
	Config   string          `help:"Configuration file path (default structquery.yaml)"`
	Verbose  bool            `help:"Enable verbose output" short:"v"`
	Quiet    bool            `help:"Suppress output" short:"q"`
	Render   cli.RenderCmd   `cmd:"" help:"Render a descriptor file to query text"`
	Validate cli.ValidateCmd `cmd:"" help:"Validate a query or a descriptor file"`
	Fmt      cli.FmtCmd      `cmd:"" help:"Rewrite a query in canonical form"`
	Version  VersionCmd      `cmd:"" help:"Show version information"`
}

// VersionCmd represents the version command
type VersionCmd struct{}

// Run executes the version command
func (cmd *VersionCmd) Run() error {
	fmt.Println("structquery v0.1.0")
	return nil
}

func main() {
	ctx := kong.Parse(&CLI)

	// Create context with config path
	appCtx := &cli.Context{
		Config:  CLI.Config,
		Verbose: CLI.Verbose,
		Quiet:   CLI.Quiet,
	}

	err := ctx.Run(appCtx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
