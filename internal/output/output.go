package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"smalldoc/internal/core/errors"
	"smalldoc/internal/engine/doctree"

	"gopkg.in/yaml.v3"
)

const (
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
	FormatDOT      = "dot"
	FormatMermaid  = "mermaid"
)

// Formats lists every supported output format.
func Formats() []string {
	return []string{FormatJSON, FormatYAML, FormatMarkdown, FormatHTML, FormatDOT, FormatMermaid}
}

// Extension returns the conventional file extension for format.
func Extension(format string) string {
	switch format {
	case FormatYAML:
		return ".yaml"
	case FormatMarkdown:
		return ".md"
	case FormatHTML:
		return ".html"
	case FormatDOT:
		return ".dot"
	case FormatMermaid:
		return ".mmd"
	default:
		return ".json"
	}
}

// Write renders tree in the requested format.
func Write(format string, tree *doctree.UnitDoc) ([]byte, error) {
	if tree == nil {
		return nil, errors.New(errors.CodeValidationError, "no documentation tree to write")
	}

	switch strings.ToLower(format) {
	case FormatJSON:
		return writeJSON(tree)
	case FormatYAML:
		return writeYAML(tree)
	case FormatMarkdown:
		return []byte(NewMarkdownGenerator(tree).Generate()), nil
	case FormatHTML:
		return NewHTMLGenerator(tree).Generate()
	case FormatDOT:
		return []byte(NewDOTGenerator(tree).Generate()), nil
	case FormatMermaid:
		return []byte(NewMermaidGenerator(tree).Generate()), nil
	default:
		err := errors.New(errors.CodeValidationError, fmt.Sprintf("unknown output format %q", format))
		return nil, errors.AddContext(err, "supported", strings.Join(Formats(), ","))
	}
}

func writeJSON(tree *doctree.UnitDoc) ([]byte, error) {
	data, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "encode json")
	}
	return append(data, '\n'), nil
}

func writeYAML(tree *doctree.UnitDoc) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(tree); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "encode yaml")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "encode yaml")
	}
	return buf.Bytes(), nil
}
