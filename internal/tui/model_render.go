package tui

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/aula/internal/core/config"
	"github.com/colonyops/aula/internal/core/styles"
	"github.com/colonyops/aula/internal/tui/components"
)

// size returns the terminal size, with a default before the first
// WindowSizeMsg.
func (m Model) size() (int, int) {
	w, h := m.width, m.height
	if w == 0 {
		w = 80
	}
	if h == 0 {
		h = 24
	}
	return w, h
}

// View renders the TUI.
func (m Model) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}

	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render composes the active section, the topmost overlay and the toasts.
func (m Model) render() string {
	mainView := m.renderTabView()
	w, h := m.size()

	var content string
	switch {
	case m.deleteModal.Visible():
		content = m.deleteModal.Overlay(mainView, w, h)
	case m.successModal.Visible():
		content = m.successModal.Overlay(mainView, w, h)
	case m.menu.BackdropVisible():
		content = m.menu.Overlay(mainView, w, h)
	case m.clearConfirm != nil:
		background := mainView
		if m.notificationModal != nil {
			background = m.notificationModal.Overlay(mainView, w, h)
		}
		content = components.CenterOverlay(background, styles.ModalStyle.Render(m.clearConfirm.View()), w, h)
	case m.state == stateShowingHelp && m.helpDialog != nil:
		content = m.helpDialog.Overlay(mainView, w, h)
	case m.state == stateShowingNotifications && m.notificationModal != nil:
		content = m.notificationModal.Overlay(mainView, w, h)
	case m.state == stateShowingInfo && m.infoDialog != nil:
		content = m.infoDialog.Overlay(mainView, w, h)
	default:
		content = mainView
	}

	// Apply toast overlay on top of everything
	if m.toastController.HasToasts() {
		content = m.toastView.Overlay(content, w, h)
	}
	return content
}

// renderTabView renders the header with one tab per menu entry and the
// active section below it.
func (m Model) renderTabView() string {
	w, h := m.size()

	tabs := make([]string, 0, len(m.cfg.Menu))
	for _, item := range m.cfg.Menu {
		if item.Path == m.path || (m.path == "" && item.Section == m.section) {
			tabs = append(tabs, styles.ViewSelectedStyle.Render(item.Label))
			continue
		}
		tabs = append(tabs, styles.ViewNormalStyle.Render(item.Label))
	}
	tabsLeft := strings.Join(tabs, " | ")

	if m.loading {
		tabsLeft = lipgloss.JoinHorizontal(lipgloss.Left, tabsLeft, "  ", m.spinner.View())
	}

	branding := styles.TextPrimaryBoldStyle.Render(styles.IconBook + " Aula")

	// Layout: [margin] tabs [spacer] branding [margin]
	margin := 1
	spacerWidth := max(w-lipgloss.Width(tabsLeft)-lipgloss.Width(branding)-(margin*2), 1)
	header := lipgloss.JoinHorizontal(lipgloss.Left,
		components.Pad(margin), tabsLeft, components.Pad(spacerWidth), branding, components.Pad(margin),
	)

	divider := styles.TextMutedStyle.Render(strings.Repeat("─", w))

	// total - dividers (2) - header (1) - footer (1)
	contentHeight := max(h-4, 1)

	var content string
	switch m.section {
	case config.SectionDownload:
		content = m.download.View(w)
	case config.SectionPrograms:
		content = m.programs.View()
	case config.SectionLesson:
		content = m.lesson.View()
	default:
		content = m.renderHome()
	}
	content = lipgloss.NewStyle().Padding(1, 2).Height(contentHeight).MaxHeight(contentHeight).Render(content)

	footer := styles.ModalHelpStyle.Render(fmt.Sprintf(" m menú %s n notificaciones %s ? ayuda %s q salir", iconDot, iconDot, iconDot))

	return lipgloss.JoinVertical(lipgloss.Left, divider, header, divider, content, footer)
}

func (m Model) renderHome() string {
	heading := m.homeHeading
	if heading == "" {
		heading = sectionTitle(config.SectionHome)
	}

	lines := []string{
		styles.TextPrimaryBoldStyle.Render(styles.IconHome + " " + heading),
		"",
		styles.TextMutedStyle.Render(m.client.BaseURL()),
		"",
	}
	for _, item := range m.cfg.Menu {
		if item.Section == config.SectionHome {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s %s  %s",
			styles.TextForegroundStyle.Render(iconDot),
			styles.TextForegroundBoldStyle.Render(sectionTitle(item.Section)),
			styles.TextMutedStyle.Render(item.Label+" "+item.Path),
		))
	}
	lines = append(lines, "", styles.TextMutedStyle.Render("Pulsa m para abrir el menú."))
	return strings.Join(lines, "\n")
}

// newInfoDialog describes the site, the notification timings and the build.
func (m Model) newInfoDialog() *components.InfoDialog {
	manager := m.toastController.Manager()
	timings := manager.Config()

	historyItem := components.InfoItem{Label: "Historial", Value: "sin almacenamiento", Status: components.InfoStatusWarn}
	if m.notifyStore != nil {
		count, err := m.notifyStore.Count(context.Background())
		if err != nil {
			historyItem = components.InfoItem{Label: "Historial", Value: err.Error(), Status: components.InfoStatusFail}
		} else {
			historyItem = components.InfoItem{Label: "Historial", Value: fmt.Sprintf("%d guardadas", count), Status: components.InfoStatusPass}
		}
	}

	sections := []components.InfoSection{
		{
			Title: "Sitio",
			Items: []components.InfoItem{
				{Label: "URL", Value: m.client.BaseURL()},
				{Label: "Página", Value: m.path},
				{Label: "Avisos en", Value: strings.Join(m.cfg.Site.ToastPages, ", ")},
				{Label: "Descargas", Value: m.cfg.DownloadsDir()},
			},
		},
		{
			Title: "Notificaciones",
			Items: []components.InfoItem{
				{Label: "Duración", Value: timings.Duration.String()},
				{Label: "Escalonado", Value: timings.Stagger.String()},
				{Label: "Salida", Value: timings.HideDelay.String()},
				{Label: "En pantalla", Value: fmt.Sprintf("%d", manager.Len())},
				historyItem,
			},
		},
		{
			Title: "Versión",
			Items: []components.InfoItem{
				{Label: "Versión", Value: valueOr(m.build.Version, "dev")},
				{Label: "Commit", Value: valueOr(m.build.Commit, "-")},
				{Label: "Fecha", Value: valueOr(m.build.Date, "-")},
			},
		},
	}

	w, h := m.size()
	return components.NewInfoDialog("Información", sections, w, h)
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
