package format

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/dmitrijs2005/txviewer/internal/models"
)

var (
	rose    = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}
	emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}
	amber   = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}
	muted   = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6C7086"}

	debitStyle   = lipgloss.NewStyle().Foreground(rose)
	creditStyle  = lipgloss.NewStyle().Foreground(emerald)
	warnStyle    = lipgloss.NewStyle().Foreground(amber)
	mutedStyle   = lipgloss.NewStyle().Foreground(muted)
	headingStyle = lipgloss.NewStyle().Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(muted).Width(18)
)

// ColorAmount paints text red for debits and green for credits. Masked
// text stays muted.
func ColorAmount(tx models.Transaction, text string) string {
	switch {
	case text == Mask:
		return mutedStyle.Render(text)
	case tx.Type == models.TypeDebit:
		return debitStyle.Render(text)
	default:
		return creditStyle.Render(text)
	}
}

func Heading(s string) string {
	return headingStyle.Render(s)
}

func Muted(s string) string {
	return mutedStyle.Render(s)
}

func Warn(s string) string {
	return warnStyle.Render(s)
}

// Row renders one "label  value" line of a detail view.
func Row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), value)
}
