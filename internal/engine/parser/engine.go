package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// ExtractionContext carries the source and the module being filled while the
// extractor walks a syntax tree.
type ExtractionContext struct {
	Source []byte
	Module *Module
}

func (c *ExtractionContext) Text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return string(c.Source[node.StartByte():node.EndByte()])
}

// CompactText returns the node text with every whitespace run collapsed to a
// single space.
func (c *ExtractionContext) CompactText(node *sitter.Node) string {
	return strings.Join(strings.Fields(c.Text(node)), " ")
}

func (c *ExtractionContext) Location(node *sitter.Node) Location {
	return Location{
		File:   c.Module.Path,
		Line:   int(node.StartPosition().Row) + 1,
		Column: int(node.StartPosition().Column) + 1,
	}
}

func (c *ExtractionContext) ChildText(node *sitter.Node, kind string) string {
	if child := childOfKind(node, kind); child != nil {
		return c.Text(child)
	}
	return ""
}

func childOfKind(node *sitter.Node, kind string) *sitter.Node {
	if node == nil {
		return nil
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil && child.Kind() == kind {
			return child
		}
	}
	return nil
}

// firstError returns the first ERROR or MISSING node in document order.
func firstError(node *sitter.Node) *sitter.Node {
	if node == nil || !node.HasError() {
		return nil
	}
	if node.IsError() || node.IsMissing() {
		return node
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if found := firstError(node.Child(i)); found != nil {
			return found
		}
	}
	return node
}
