package tui

import (
	"image/color"
	"math"
	"strings"
	"time"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/colonyops/aula/internal/core/styles"
	"github.com/colonyops/aula/internal/core/toast"
)

// ToastView renders toast notifications and composites them as an overlay.
type ToastView struct {
	controller *ToastController
}

func NewToastView(controller *ToastController) *ToastView {
	return &ToastView{controller: controller}
}

// View renders the toast stack as a single string with toasts stacked
// vertically (oldest at top, newest at bottom).
func (v *ToastView) View() string {
	toasts := v.controller.Toasts()
	if len(toasts) == 0 {
		return ""
	}

	now := v.controller.Manager().Now()
	rendered := make([]string, 0, len(toasts))
	for _, t := range toasts {
		rendered = append(rendered, renderToast(t, now))
	}

	return strings.Join(rendered, "\n")
}

func renderToast(n toast.Notification, now time.Time) string {
	kind := string(n.Kind)

	var style lipgloss.Style
	switch n.Kind {
	case toast.KindSuccess:
		style = styles.ToastSuccessStyle
	case toast.KindError:
		style = styles.ToastErrorStyle
	case toast.KindWarning:
		style = styles.ToastWarningStyle
	default:
		style = styles.ToastInfoStyle
	}

	inner := toastWidth - 4
	header := styles.KindIcon(kind) + " " + n.Message
	if n.Closable {
		header = ansi.Truncate(header, inner-2, "…")
		header += strings.Repeat(" ", max(inner-2-lipgloss.Width(header), 0)) + " " + styles.IconClose
	}

	lines := []string{lipgloss.NewStyle().Width(inner).Render(header)}
	if n.ProgressVisible() {
		lines = append(lines, progressBar(n.Progress(now), inner, styles.KindColor(kind)))
	}

	out := style.Width(toastWidth).Render(strings.Join(lines, "\n"))
	if n.State == toast.StateHiding {
		out = styles.TextMutedStyle.Faint(true).Render(ansi.Strip(out))
	}
	return out
}

func progressBar(fraction float64, width int, c color.Color) string {
	filled := int(math.Round(fraction * float64(width)))
	filled = min(max(filled, 0), width)
	return lipgloss.NewStyle().Foreground(c).Render(strings.Repeat("━", filled)) +
		styles.TextSurfaceStyle.Render(strings.Repeat("─", width-filled))
}

// Overlay composites the toast stack over background in the upper-right
// corner.
func (v *ToastView) Overlay(background string, width, height int) string {
	toastContent := v.View()
	if toastContent == "" {
		return background
	}

	bgLayer := lipgloss.NewLayer(background)
	toastLayer := lipgloss.NewLayer(toastContent)

	toastW := lipgloss.Width(toastContent)
	rightX := max(width-toastW-1, 0)

	toastLayer.X(rightX).Y(1).Z(3)

	compositor := lipgloss.NewCompositor(bgLayer, toastLayer)
	return compositor.Render()
}
