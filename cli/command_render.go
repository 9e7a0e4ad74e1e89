package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/shibukawa/structquery/queryfile"
	"github.com/shibukawa/structquery/request"
)

// Error definitions
var (
	ErrDescriptorNotFound = errors.New("descriptor file not found")
	ErrInvalidParams      = errors.New("invalid parameters")
)

// RenderCmd represents the render command
type RenderCmd struct {
	File      string   `arg:"" help:"Descriptor file (.yaml, .json, .md, .xml)" type:"path"`
	Param     []string `short:"p" long:"param" help:"Individual parameter (key=value format)"`
	AsRequest bool     `long:"as-request" help:"Print the encoded search request instead of the query text"`
	Size      int      `long:"size" help:"Maximum number of hits to return"`
	Start     int      `long:"start" help:"Offset of the first hit to return"`
	Cursor    string   `long:"cursor" help:"Pagination cursor"`
	Sort      []string `long:"sort" help:"Sort key (field asc|desc), repeatable"`
	Return    []string `long:"return" help:"Field to return, repeatable"`
	Output    string   `short:"o" long:"output" help:"Output file (defaults to stdout)" type:"path"`
}

// Run executes the render command
func (r *RenderCmd) Run(ctx *Context) error {
	// Load configuration
	config, err := LoadConfig(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	configureColor(config)

	// Verify descriptor file exists
	if !fileExists(r.File) {
		return fmt.Errorf("%w: %s", ErrDescriptorNotFound, r.File)
	}

	doc, err := queryfile.Load(r.File)
	if err != nil {
		return fmt.Errorf("failed to load descriptor: %w", err)
	}

	if ctx.Verbose {
		color.Blue("Loaded descriptor from %s", r.File)
	}

	seedParameters(doc, config)

	// Parse command line parameter overrides
	params, err := parseParams(r.Param)
	if err != nil {
		return err
	}

	expr, err := doc.Build(params)
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	text := expr.String()

	if r.AsRequest {
		req, err := r.buildRequest(config)
		if err != nil {
			return err
		}

		req.Query = expr

		text, err = req.Encode()
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
	}

	if err := writeOutput(r.Output, text); err != nil {
		return err
	}

	if r.Output != "" && !ctx.Quiet {
		color.Green("Wrote %s", r.Output)
	}

	return nil
}

// buildRequest assembles the search request from flags, falling back to
// configured defaults for every flag left at its zero value.
func (r *RenderCmd) buildRequest(config *Config) (*request.SearchRequest, error) {
	req := &request.SearchRequest{
		Size:   r.Size,
		Start:  r.Start,
		Cursor: r.Cursor,
		Return: r.Return,
	}

	if req.Size == 0 {
		req.Size = config.Request.Size
	}

	if req.Start == 0 {
		req.Start = config.Request.Start
	}

	if len(req.Return) == 0 {
		req.Return = config.Request.Return
	}

	sortEntries := r.Sort
	if len(sortEntries) == 0 {
		sortEntries = config.Request.Sort
	}

	for _, entry := range sortEntries {
		key, err := request.ParseSortKey(entry)
		if err != nil {
			return nil, err
		}

		req.Sort = append(req.Sort, key)
	}

	return req, nil
}

// seedParameters fills configured default parameters into the descriptor
// without overriding the descriptor's own.
func seedParameters(doc *queryfile.Document, config *Config) {
	if doc.Parameters == nil {
		doc.Parameters = make(map[string]any, len(config.Parameters))
	}

	for key, value := range config.Parameters {
		// Don't override explicit descriptor parameters
		if _, exists := doc.Parameters[key]; !exists {
			doc.Parameters[key] = value
		}
	}
}

// writeOutput prints to stdout or writes to the output file
func writeOutput(path, text string) error {
	if path == "" {
		fmt.Println(text)
		return nil
	}

	return os.WriteFile(path, []byte(text+"\n"), 0644)
}

// parseParams parses key=value command line parameters
func parseParams(entries []string) (map[string]any, error) {
	params := make(map[string]any)

	for _, param := range entries {
		parts := strings.SplitN(param, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("%w: parameter must be in key=value format: %s", ErrInvalidParams, param)
		}

		key := parts[0]
		value := parts[1]

		// Try to parse as JSON if it looks like a complex value
		if (strings.HasPrefix(value, "{") && strings.HasSuffix(value, "}")) ||
			(strings.HasPrefix(value, "[") && strings.HasSuffix(value, "]")) {
			var jsonValue any

			err := json.Unmarshal([]byte(value), &jsonValue)
			if err == nil {
				params[key] = jsonValue
				continue
			}
		}

		// Handle boolean values
		if value == "true" {
			params[key] = true
			continue
		}

		if value == "false" {
			params[key] = false
			continue
		}

		// Handle numeric values
		if strings.Contains(value, ".") {
			if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
				params[key] = floatVal
				continue
			}
		} else {
			if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
				params[key] = intVal
				continue
			}
		}

		// Default to string
		params[key] = value
	}

	return params, nil
}
