package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/deepsea/deepsea/internal/progress"
	"github.com/deepsea/deepsea/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar.
type ProgressBar struct {
	Label       string
	Ratio       float64
	ShowPercent bool
	Width       int
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, ratio float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Ratio:       ratio,
		ShowPercent: showPercent,
		Width:       width,
	}
}

// View renders the progress bar. The filled part and the percentage use
// the same rounding, so a bar showing 100% is full.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	labelWidth := lipgloss.Width(result)
	percentWidth := 0
	if p.ShowPercent {
		percentWidth = 6 // "  100%"
	}

	barWidth := p.Width - labelWidth - percentWidth
	if barWidth < 4 {
		barWidth = 4
	}

	pct := progress.Percent(p.Ratio)
	filled := barWidth * pct / 100
	empty := barWidth - filled

	filledStr := theme.ProgressFilled.Render(strings.Repeat(" ", filled))
	emptyStr := theme.ProgressEmpty.Render(strings.Repeat(" ", empty))

	result += filledStr + emptyStr

	if p.ShowPercent {
		result += lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("  %d%%", pct))
	}

	return result
}
