package output

import (
	"bytes"
	"html"

	"smalldoc/internal/core/errors"
	"smalldoc/internal/engine/doctree"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// HTMLGenerator renders the markdown form of the tree as a standalone page.
type HTMLGenerator struct {
	tree *doctree.UnitDoc
	md   goldmark.Markdown
}

func NewHTMLGenerator(tree *doctree.UnitDoc) *HTMLGenerator {
	return &HTMLGenerator{
		tree: tree,
		md: goldmark.New(
			goldmark.WithExtensions(extension.Table),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
	}
}

func (h *HTMLGenerator) Generate() ([]byte, error) {
	source := NewMarkdownGenerator(h.tree).Generate()

	var body bytes.Buffer
	if err := h.md.Convert([]byte(source), &body); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "render html")
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	page.WriteString("<title>" + html.EscapeString(h.tree.Name) + "</title>\n")
	page.WriteString("</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}
