package cliapp

import (
	"fmt"
	"strings"
	"time"

	coreapp "smalldoc/internal/core/app"
	"smalldoc/internal/core/errors"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	faultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	missingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

func formatSummary(res coreapp.Result, err error) string {
	var b strings.Builder
	switch {
	case err == nil:
		units, types, functions := res.Tree.Count()
		b.WriteString(successStyle.Render("✔ " + res.Unit))
		fmt.Fprintf(&b, " %d units, %d types, %d functions", units, types, functions)
		if res.Path != "" {
			fmt.Fprintf(&b, " → %s", res.Path)
		}
	case errors.IsCode(err, errors.CodeNotFound):
		b.WriteString(missingStyle.Render("? " + res.Unit))
		b.WriteString(" not found")
	default:
		b.WriteString(faultStyle.Render("✘ " + res.Unit))
		fmt.Fprintf(&b, " %v", err)
	}
	b.WriteString(" ")
	b.WriteString(statusStyle.Render(fmt.Sprintf("[%s %s]", shortID(res.BuildID), res.Duration.Round(time.Millisecond))))
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
