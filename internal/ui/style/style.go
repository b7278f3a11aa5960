// Package style holds the colours and glyphs used by terminal output.
package style

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	Thread = lipgloss.Color("#7C3AED")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Glyphs.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Arrow   = "→"
	Dot     = "●"
)

// Heading renders s in the accent colour.
func Heading(s string) string {
	return lipgloss.NewStyle().Foreground(Thread).Bold(true).Render(s)
}
