// Package layout draws the frame around every screen: a header bar with the
// brand, screen title and clock, the screen body, and a footer of key hints.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/deepsea/deepsea/internal/ui/theme"
)

// Smallest terminal the page can be drawn in.
const (
	MinWidth  = 60
	MinHeight = 20
)

// Rows taken by the bordered header and footer bars.
const (
	HeaderHeight = 3
	FooterHeight = 3
)

// KeyHint is one "key description" pair in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsTooSmall reports whether the page cannot be drawn at width x height.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// ContentHeight is what remains for the screen body once the header and
// footer are drawn.
func ContentHeight(totalHeight int) int {
	return max(0, totalHeight-HeaderHeight-FooterHeight)
}

// RenderMinSizeMessage asks the user to enlarge the terminal.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"终端窗口太小\n\n请调整到至少 %d x %d\n\n当前: %d x %d",
			MinWidth, MinHeight, width, height,
		))
}

func bar(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)
}

// RenderHeader draws the brand on the left, the title centered and the
// clock followed by the user's name on the right.
func RenderHeader(brand, title, clock, user string, width int) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	left := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  " + brand)
	center := lipgloss.NewStyle().Foreground(theme.Text).Render(title)
	right := dim.Render(clock)
	if user != "" {
		right += dim.Render("   ") + lipgloss.NewStyle().Foreground(theme.Accent).Render(user)
	}

	inner := max(0, width-4)
	lw, cw, rw := lipgloss.Width(left), lipgloss.Width(center), lipgloss.Width(right)
	leftGap := max(1, (inner-cw)/2-lw)
	rightGap := max(1, inner-lw-leftGap-cw-rw)

	return bar(width).Render(left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right)
}

// RenderFooter draws the key hints in one row.
func RenderFooter(hints []KeyHint, width int) string {
	keyStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, keyStyle.Render(h.Key)+" "+descStyle.Render(h.Description))
	}
	return bar(width).Render("  " + strings.Join(parts, "   "))
}

// RenderFrame stacks header, body and footer, padding the body so the
// footer sits on the last rows.
func RenderFrame(header, content, footer string, width, height int) string {
	body := max(0, height-lipgloss.Height(header)-lipgloss.Height(footer))
	return header + "\n" + lipgloss.NewStyle().Width(width).Height(body).Render(content) + "\n" + footer
}
