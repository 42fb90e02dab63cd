package output

import (
	"fmt"
	"strings"

	"smalldoc/internal/engine/doctree"
)

// DOTGenerator draws the unit hierarchy as a Graphviz digraph: units are
// boxes, types are ellipses, edges point from parent to member.
type DOTGenerator struct {
	tree *doctree.UnitDoc
}

func NewDOTGenerator(tree *doctree.UnitDoc) *DOTGenerator {
	return &DOTGenerator{tree: tree}
}

func (d *DOTGenerator) Generate() string {
	var buf strings.Builder

	buf.WriteString("digraph units {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [fontname=\"Helvetica\", fontsize=10];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=8, color=\"grey\"];\n\n")

	d.writeUnit(&buf, d.tree)

	buf.WriteString("}\n")
	return buf.String()
}

func (d *DOTGenerator) writeUnit(buf *strings.Builder, u *doctree.UnitDoc) {
	label := fmt.Sprintf("%s\\n(%d funcs, %d types)", u.Name, len(u.Functions), len(u.Types))
	fmt.Fprintf(buf, "  \"%s\" [shape=box, style=\"rounded,filled\", fillcolor=\"white\", color=\"darkslategrey\", label=\"%s\"];\n", u.Name, label)

	for i := range u.Types {
		d.writeType(buf, u.Name, &u.Types[i])
	}
	for i := range u.SubUnits {
		su := &u.SubUnits[i]
		d.writeUnit(buf, su)
		fmt.Fprintf(buf, "  \"%s\" -> \"%s\" [color=\"forestgreen\", penwidth=1.8];\n", u.Name, su.Name)
	}
}

func (d *DOTGenerator) writeType(buf *strings.Builder, parent string, t *doctree.TypeDoc) {
	id := parent + "." + t.Name
	label := fmt.Sprintf("%s\\n(%d methods)", t.Name, len(t.Functions))
	fmt.Fprintf(buf, "  \"%s\" [shape=ellipse, label=\"%s\"];\n", id, label)
	fmt.Fprintf(buf, "  \"%s\" -> \"%s\" [style=dashed];\n", parent, id)
	for i := range t.NestedTypes {
		d.writeType(buf, id, &t.NestedTypes[i])
	}
}
