package components

import (
	"strings"

	lipgloss "charm.land/lipgloss/v2"
)

// Pad returns n spaces.
func Pad(n int) string {
	return strings.Repeat(" ", max(n, 0))
}

// CenterOverlay composites modal at the center of background.
func CenterOverlay(background, modal string, width, height int) string {
	bgLayer := lipgloss.NewLayer(background)
	modalLayer := lipgloss.NewLayer(modal)

	modalW := lipgloss.Width(modal)
	modalH := lipgloss.Height(modal)
	modalLayer.X(max((width-modalW)/2, 0)).Y(max((height-modalH)/2, 0)).Z(1)

	return lipgloss.NewCompositor(bgLayer, modalLayer).Render()
}
