// Package queryfile loads declarative query descriptors and builds
// expressions from them. A descriptor names an operator tree once and is
// built many times with different parameters; CEL guard expressions decide
// per build which clauses and fields take part. Descriptors are written in
// YAML, JSON, Markdown (the first fenced yaml or json block), or XML.
package queryfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

var (
	// ErrUnknownFormat is returned for file extensions outside the
	// supported descriptor formats.
	ErrUnknownFormat = errors.New("unknown descriptor format")
	// ErrDescriptor is returned when descriptor content cannot be decoded
	// or carries values outside the descriptor model.
	ErrDescriptor = errors.New("invalid descriptor")
	// ErrNoDescriptor is returned when a markdown file has no fenced yaml
	// or json block.
	ErrNoDescriptor = errors.New("no descriptor block found")
	// ErrNoQuery is returned when a descriptor has no query clause, or its
	// root guard excluded it.
	ErrNoQuery = errors.New("descriptor has no query clause")
	// ErrGuard is returned when a guard expression fails to compile,
	// evaluate, or produce a boolean.
	ErrGuard = errors.New("guard evaluation failed")
)

// Format identifies a descriptor file format.
type Format int

const (
	FormatUnknown Format = iota
	FormatYAML
	FormatJSON
	FormatMarkdown
	FormatXML
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	case FormatMarkdown:
		return "markdown"
	case FormatXML:
		return "xml"
	default:
		return "unknown"
	}
}

// Document is a parsed descriptor: metadata, default parameters, and the
// root query clause.
type Document struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Parameters  map[string]any `yaml:"parameters"`
	Query       *ClauseDef     `yaml:"query"`
}

// ClauseDef describes one expression: an operator, its options, an
// optional guard, and the field list.
type ClauseDef struct {
	Operator string         `yaml:"operator"`
	Options  map[string]any `yaml:"options"`
	If       string         `yaml:"if"`
	Fields   []*FieldDef    `yaml:"fields"`
}

// FieldDef describes one field of a clause. Exactly one of Value, Range,
// and Clause carries the content; Name is empty for positional fields.
// Type hints scalar conversion for string values ("time", "int", "float").
type FieldDef struct {
	Name   string     `yaml:"name"`
	Value  any        `yaml:"value"`
	Range  *RangeDef  `yaml:"range"`
	Clause *ClauseDef `yaml:"clause"`
	If     string     `yaml:"if"`
	Type   string     `yaml:"type"`
}

// RangeDef describes range content. Nil bounds are open; exclusivity
// defaults to inclusive.
type RangeDef struct {
	Lower          any    `yaml:"lower"`
	Upper          any    `yaml:"upper"`
	LowerExclusive bool   `yaml:"lower_exclusive"`
	UpperExclusive bool   `yaml:"upper_exclusive"`
	Type           string `yaml:"type"`
}

// FormatForPath maps a file extension to its descriptor format.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	case ".md", ".markdown":
		return FormatMarkdown
	case ".xml":
		return FormatXML
	default:
		return FormatUnknown
	}
}

// Load reads and decodes the descriptor at path, choosing the format by
// extension.
func Load(path string) (*Document, error) {
	format := FormatForPath(path)
	if format == FormatUnknown {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Decode(data, format)
}

// Decode parses descriptor content in the given format.
func Decode(data []byte, format Format) (*Document, error) {
	switch format {
	case FormatYAML, FormatJSON:
		return decodeYAML(data)
	case FormatMarkdown:
		return decodeMarkdown(data)
	case FormatXML:
		return decodeXML(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

func decodeYAML(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDescriptor, err)
	}
	return &doc, nil
}
