package output

import (
	"fmt"
	"strings"
	"unicode"

	"smalldoc/internal/engine/doctree"
)

// MermaidGenerator draws the unit hierarchy as a Mermaid flowchart.
type MermaidGenerator struct {
	tree *doctree.UnitDoc
}

func NewMermaidGenerator(tree *doctree.UnitDoc) *MermaidGenerator {
	return &MermaidGenerator{tree: tree}
}

type mermaidNode struct {
	name   string
	label  string
	isType bool
}

type mermaidEdge struct {
	from, to string
	isType   bool
}

func (m *MermaidGenerator) Generate() string {
	var nodes []mermaidNode
	var edges []mermaidEdge
	collectUnit(m.tree, &nodes, &edges)

	names := make([]string, 0, len(nodes))
	for _, n := range nodes {
		names = append(names, n.name)
	}
	ids := makeMermaidIDs(names)

	var b strings.Builder
	b.WriteString("flowchart LR\n")
	for _, n := range nodes {
		if n.isType {
			fmt.Fprintf(&b, "  %s([\"%s\"])\n", ids[n.name], mermaidLabel(n.label))
		} else {
			fmt.Fprintf(&b, "  %s[\"%s\"]\n", ids[n.name], mermaidLabel(n.label))
		}
	}
	for _, e := range edges {
		arrow := "-->"
		if e.isType {
			arrow = "-.->"
		}
		fmt.Fprintf(&b, "  %s %s %s\n", ids[e.from], arrow, ids[e.to])
	}
	return b.String()
}

func collectUnit(u *doctree.UnitDoc, nodes *[]mermaidNode, edges *[]mermaidEdge) {
	*nodes = append(*nodes, mermaidNode{name: u.Name, label: u.Name})
	for i := range u.Types {
		collectType(u.Name, &u.Types[i], nodes, edges)
	}
	for i := range u.SubUnits {
		su := &u.SubUnits[i]
		collectUnit(su, nodes, edges)
		*edges = append(*edges, mermaidEdge{from: u.Name, to: su.Name})
	}
}

func collectType(parent string, t *doctree.TypeDoc, nodes *[]mermaidNode, edges *[]mermaidEdge) {
	name := parent + "." + t.Name
	*nodes = append(*nodes, mermaidNode{name: name, label: t.Name, isType: true})
	*edges = append(*edges, mermaidEdge{from: parent, to: name, isType: true})
	for i := range t.NestedTypes {
		collectType(name, &t.NestedTypes[i], nodes, edges)
	}
}

func mermaidLabel(s string) string {
	return strings.ReplaceAll(s, `"`, "#quot;")
}

func sanitizeMermaidID(name string) string {
	if name == "" {
		return "m"
	}
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteRune('_')
	}
	out := b.String()
	if unicode.IsDigit(rune(out[0])) {
		return "m_" + out
	}
	return out
}

// makeMermaidIDs assigns each name a unique identifier, suffixing
// collisions such as "a.b" and "a_b" in input order.
func makeMermaidIDs(names []string) map[string]string {
	ids := make(map[string]string, len(names))
	used := make(map[string]int, len(names))
	for _, name := range names {
		base := sanitizeMermaidID(name)
		idx := used[base]
		used[base] = idx + 1
		if idx == 0 {
			ids[name] = base
			continue
		}
		ids[name] = fmt.Sprintf("%s_%d", base, idx+1)
	}
	return ids
}
