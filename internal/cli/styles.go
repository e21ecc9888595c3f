package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Colors
var (
	colorPrimary   = lipgloss.Color("86")  // Cyan
	colorSecondary = lipgloss.Color("240") // Gray
	colorSuccess   = lipgloss.Color("82")  // Green
	colorWarning   = lipgloss.Color("214") // Orange
	colorDanger    = lipgloss.Color("196") // Red
	colorMuted     = lipgloss.Color("245") // Light gray
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	sectionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorPrimary).
				BorderBottom(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(colorSecondary)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	presentStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	missingStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorDanger).
			Bold(true)

	blockStyle = lipgloss.NewStyle().
			PaddingLeft(2).
			MarginBottom(1)
)

// labelWidth is the column labels are padded to. Longer labels are kept whole.
const labelWidth = 22

func renderLabel(s string) string {
	return labelStyle.Render(fmt.Sprintf("%-*s", labelWidth, s))
}

// scoreColor returns a color for an R2 score.
func scoreColor(r2 float64) lipgloss.Color {
	switch {
	case r2 >= 0.8:
		return colorSuccess
	case r2 >= 0.5:
		return colorWarning
	default:
		return colorDanger
	}
}
