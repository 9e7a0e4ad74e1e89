package queryfile

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// decodeMarkdown pulls the descriptor out of the first fenced yaml or json
// code block. The first level-1 heading supplies the name when the block
// itself does not set one.
func decodeMarkdown(data []byte) (*Document, error) {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)
	root := md.Parser().Parse(text.NewReader(data))

	var (
		title string
		block []byte
	)
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			if node.Level == 1 && title == "" {
				title = headingText(node, data)
			}
		case *ast.FencedCodeBlock:
			if block == nil && isDescriptorBlock(node, data) {
				block = codeBlockContent(node, data)
				return ast.WalkSkipChildren, nil
			}
		}
		return ast.WalkContinue, nil
	})

	if block == nil {
		return nil, ErrNoDescriptor
	}

	doc, err := decodeYAML(block)
	if err != nil {
		return nil, err
	}
	if doc.Name == "" {
		doc.Name = title
	}
	return doc, nil
}

func headingText(heading ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(heading, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := n.(*ast.Text); ok {
			b.Write(source[t.Segment.Start:t.Segment.Stop])
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

func isDescriptorBlock(block *ast.FencedCodeBlock, source []byte) bool {
	if block.Info == nil {
		return false
	}
	segment := block.Info.Segment
	info := strings.TrimSpace(strings.ToLower(string(source[segment.Start:segment.Stop])))
	return info == "yaml" || info == "json"
}

func codeBlockContent(block ast.Node, source []byte) []byte {
	var buf bytes.Buffer
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(source[line.Start:line.Stop])
	}
	return buf.Bytes()
}
