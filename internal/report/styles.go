package report

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles defines the visual theme for terminal report output.
// Lipgloss automatically degrades to no-color when output is not a TTY.
type Styles struct {
	// Header is used for the report title line.
	Header lipgloss.Style

	// SubHeader is used for secondary information lines.
	SubHeader lipgloss.Style

	// TableHeader styles the header row of the path table.
	TableHeader lipgloss.Style

	// TableCell styles regular table cells.
	TableCell lipgloss.Style

	// Count styles the occurrence-count column.
	Count lipgloss.Style

	// Border is used for table borders.
	Border lipgloss.Style

	// SummaryLabel styles summary line labels.
	SummaryLabel lipgloss.Style

	// Muted is used for de-emphasized text such as the digest.
	Muted lipgloss.Style
}

// DefaultStyles returns the default color scheme for terminal reports.
func DefaultStyles() Styles {
	return Styles{
		Header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		SubHeader: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),

		TableHeader: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		TableCell:   lipgloss.NewStyle().PaddingRight(1),
		Count:       lipgloss.NewStyle().Foreground(lipgloss.Color("220")),

		Border: lipgloss.NewStyle().Foreground(lipgloss.Color("63")),

		SummaryLabel: lipgloss.NewStyle().Bold(true).Width(12),

		Muted: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}
