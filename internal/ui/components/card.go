package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/rehearse/internal/ui/theme"
)

// ContentWidth returns the inner width used for cards so stacked cards
// line up.
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 20), 90)
}

// Card wraps content in a rounded border at width cw. An active card is
// highlighted.
func Card(title, content string, cw int, active bool) string {
	style := theme.Card
	if active {
		style = theme.ActiveCard
	}
	body := content
	if title != "" {
		body = theme.Label.Render(title) + "\n" + content
	}
	return style.Width(cw).Render(body)
}

// Stars renders a 0-5 star rating.
func Stars(n int) string {
	n = min(max(n, 0), 5)
	return lipgloss.NewStyle().Foreground(theme.Accent).Render(strings.Repeat("★", n)) +
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("☆", 5-n))
}

// Bullets renders items as a bulleted list, or placeholder when empty.
func Bullets(items []string, placeholder string) string {
	if len(items) == 0 {
		return theme.Hint.Render(placeholder)
	}
	var b strings.Builder
	for i, it := range items {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("• " + it)
	}
	return b.String()
}
