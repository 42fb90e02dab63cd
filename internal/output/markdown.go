package output

import (
	"fmt"
	"strings"

	"smalldoc/internal/engine/doctree"
)

const maxHeadingLevel = 6

// MarkdownGenerator renders one section per unit, depth first, with a
// parameter table for every function.
type MarkdownGenerator struct {
	tree *doctree.UnitDoc
}

func NewMarkdownGenerator(tree *doctree.UnitDoc) *MarkdownGenerator {
	return &MarkdownGenerator{tree: tree}
}

func (m *MarkdownGenerator) Generate() string {
	var b strings.Builder
	m.writeUnit(&b, m.tree)
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func (m *MarkdownGenerator) writeUnit(b *strings.Builder, u *doctree.UnitDoc) {
	fmt.Fprintf(b, "# %s\n\n", u.Name)
	writeSummary(b, u.Summary)

	if len(u.SubUnits) > 0 {
		b.WriteString("Sub-units: ")
		for i, su := range u.SubUnits {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(b, "[`%s`](#%s)", su.Name, anchor(su.Name))
		}
		b.WriteString("\n\n")
	}

	if len(u.Functions) > 0 {
		b.WriteString("## Functions\n\n")
		for i := range u.Functions {
			writeFunction(b, &u.Functions[i], 3)
		}
	}
	if len(u.Types) > 0 {
		b.WriteString("## Types\n\n")
		for i := range u.Types {
			writeType(b, &u.Types[i], 3)
		}
	}

	for i := range u.SubUnits {
		m.writeUnit(b, &u.SubUnits[i])
	}
}

func writeType(b *strings.Builder, t *doctree.TypeDoc, level int) {
	fmt.Fprintf(b, "%s class `%s`\n\n", heading(level), t.Name)
	declaration := "class " + t.Name
	if t.Bases != "" {
		declaration += "(" + t.Bases + ")"
	}
	writeDeclaration(b, t.Decorators, declaration)
	writeSummary(b, t.Summary)
	for i := range t.Functions {
		writeFunction(b, &t.Functions[i], level+1)
	}
	for i := range t.NestedTypes {
		writeType(b, &t.NestedTypes[i], level+1)
	}
}

func writeFunction(b *strings.Builder, fn *doctree.FunctionDoc, level int) {
	fmt.Fprintf(b, "%s `%s`\n\n", heading(level), fn.Name)
	writeDeclaration(b, fn.Decorators, fn.Signature)
	writeSummary(b, fn.Summary)

	if len(fn.Parameters) > 0 {
		b.WriteString("| Parameter | Type | Description |\n")
		b.WriteString("|---|---|---|\n")
		for _, p := range fn.Parameters {
			fmt.Fprintf(b, "| `%s` | %s | %s |\n", p.Name, code(p.Type), cell(p.Description))
		}
		b.WriteString("\n")
	}

	if fn.Returns.Type != "" || fn.Returns.Description != "" {
		b.WriteString("**Returns:**")
		if fn.Returns.Type != "" {
			fmt.Fprintf(b, " %s", code(fn.Returns.Type))
		}
		if fn.Returns.Description != "" {
			fmt.Fprintf(b, " %s", fn.Returns.Description)
		}
		b.WriteString("\n\n")
	}
}

func writeDeclaration(b *strings.Builder, decorators []string, declaration string) {
	b.WriteString("```python\n")
	for _, dec := range decorators {
		fmt.Fprintf(b, "@%s\n", dec)
	}
	fmt.Fprintf(b, "%s\n```\n\n", declaration)
}

func writeSummary(b *strings.Builder, summary string) {
	if summary == "" {
		return
	}
	b.WriteString(summary)
	b.WriteString("\n\n")
}

func heading(level int) string {
	if level > maxHeadingLevel {
		level = maxHeadingLevel
	}
	return strings.Repeat("#", level)
}

func code(s string) string {
	if s == "" {
		return ""
	}
	return "`" + cell(s) + "`"
}

// cell makes s safe inside a single table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}

// anchor mirrors the heading ids produced by goldmark's auto heading id.
func anchor(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '_' || r == '-' || r == ' ':
			b.WriteByte('-')
		}
	}
	return b.String()
}
