package tui

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/viewport"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/rs/zerolog/log"

	"github.com/colonyops/aula/internal/core/notify"
	"github.com/colonyops/aula/internal/core/styles"
	"github.com/colonyops/aula/internal/tui/components"
)

// Notification modal sizing, in cells.
const (
	notifyModalWidthPct  = 65
	notifyModalMinWidth  = 80
	notifyModalMaxHeight = 30
	notifyModalMargin    = 4
	notifyModalChrome    = 6
)

// NotificationModal lists the stored notification history, newest first,
// grouped by day.
type NotificationModal struct {
	store    notify.Store
	viewport viewport.Model
	count    int
}

func NewNotificationModal(store notify.Store, width, height int) *NotificationModal {
	vp := viewport.New(
		viewport.WithWidth(calcNotificationModalWidth(width)-4),
		viewport.WithHeight(notifyModalHeight(height)-notifyModalChrome),
	)

	m := &NotificationModal{store: store, viewport: vp}
	m.reload()
	return m
}

func notifyModalHeight(termHeight int) int {
	return min(termHeight-notifyModalMargin, notifyModalMaxHeight)
}

func calcNotificationModalWidth(termWidth int) int {
	available := max(termWidth-notifyModalMargin, 1)
	target := termWidth * notifyModalWidthPct / 100
	return min(max(target, notifyModalMinWidth), available)
}

func (m *NotificationModal) reload() {
	m.count = 0
	if m.store == nil {
		m.viewport.SetContent(styles.TextMutedStyle.Render("Sin notificaciones"))
		return
	}

	history, err := m.store.List(context.Background())
	if err != nil {
		log.Error().Err(err).Msg("failed to load notification history")
		m.viewport.SetContent(styles.TextErrorStyle.Render("no se pudo cargar el historial: " + err.Error()))
		return
	}
	if len(history) == 0 {
		m.viewport.SetContent(styles.TextMutedStyle.Render("Sin notificaciones"))
		return
	}

	m.count = len(history)

	var (
		lines []string
		day   string
	)
	for _, n := range history {
		if d := n.CreatedAt.Format("2006-01-02"); d != day {
			if day != "" {
				lines = append(lines, "")
			}
			lines = append(lines, styles.TextForegroundBoldStyle.Render(d))
			day = d
		}
		lines = append(lines, formatNotification(n))
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
}

// formatNotification renders one history line: time, level icon, message and
// the page it came from, if any.
func formatNotification(n notify.Notification) string {
	kind := string(n.Level)

	parts := []string{
		styles.TextMutedStyle.Render(n.CreatedAt.Format("15:04:05")),
		styles.KindIcon(kind),
		lipgloss.NewStyle().Foreground(styles.KindColor(kind)).Render(n.Message),
	}
	if n.Source != "" {
		parts = append(parts, styles.TextMutedStyle.Render(iconDot+" "+n.Source))
	}
	return strings.Join(parts, " ")
}

func (m *NotificationModal) ScrollUp()   { m.viewport.ScrollUp(1) }
func (m *NotificationModal) ScrollDown() { m.viewport.ScrollDown(1) }

// Clear deletes the whole history.
func (m *NotificationModal) Clear() error {
	if m.store == nil {
		return nil
	}
	if err := m.store.Clear(context.Background()); err != nil {
		return err
	}
	m.reload()
	return nil
}

func (m *NotificationModal) Overlay(background string, width, height int) string {
	modalWidth := calcNotificationModalWidth(width)

	title := "Notificaciones"
	if m.count > 0 {
		title += fmt.Sprintf(" (%d)", m.count)
	}
	if m.viewport.TotalLineCount() > m.viewport.VisibleLineCount() {
		title += styles.TextMutedStyle.Render(fmt.Sprintf(" %.0f%%", m.viewport.ScrollPercent()*100))
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		styles.ModalTitleStyle.Render(title),
		styles.TextSurfaceStyle.Render(strings.Repeat("─", modalWidth-6)),
		m.viewport.View(),
		styles.ModalHelpStyle.Render("[j/k] desplazar  [D] borrar todo  [esc] cerrar"),
	)

	modal := styles.ModalStyle.Width(modalWidth).Height(notifyModalHeight(height)).Render(body)
	return components.CenterOverlay(background, modal, width, height)
}
