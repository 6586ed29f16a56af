package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// printer renders command output, styled unless plain is set
type printer struct {
	w     io.Writer
	plain bool
}

func newPrinter(w io.Writer, plain bool) *printer {
	return &printer{w: w, plain: plain}
}

func (p *printer) style(s lipgloss.Style) lipgloss.Style {
	if p.plain {
		return lipgloss.NewStyle()
	}
	return s
}

// title prints a heading line
func (p *printer) title(text string) {
	s := p.style(lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")))
	fmt.Fprintln(p.w, s.Render(text))
}

// table prints rows in left aligned columns under a header
func (p *printer) table(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	headerStyle := p.style(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")))
	cellStyle := lipgloss.NewStyle()

	render := func(cells []string, s lipgloss.Style) string {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			parts[i] = s.Render(cell + strings.Repeat(" ", widths[i]-lipgloss.Width(cell)))
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ")
	}

	fmt.Fprintln(p.w, render(headers, headerStyle))
	for _, row := range rows {
		fmt.Fprintln(p.w, render(row, cellStyle))
	}
}

// value prints a signal result. Strings are printed as is, other values
// as YAML.
func (p *printer) value(v any) error {
	switch val := v.(type) {
	case nil:
		fmt.Fprintln(p.w, p.style(lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)).Render("<none>"))
		return nil
	case string:
		fmt.Fprintln(p.w, val)
		return nil
	}

	out, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to render result: %w", err)
	}
	fmt.Fprint(p.w, string(out))
	return nil
}
