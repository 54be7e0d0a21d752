package tui

import (
	"fmt"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"

	"github.com/colonyops/aula/internal/core/config"
	"github.com/colonyops/aula/internal/core/leadform"
	"github.com/colonyops/aula/internal/core/notify"
	"github.com/colonyops/aula/internal/core/site"
	"github.com/colonyops/aula/internal/core/toast"
	"github.com/colonyops/aula/internal/tui/components"
)

const (
	msgPageFailed     = "No se pudo cargar la página."
	msgDownloadFailed = "No se pudo descargar el capítulo."
	msgDeleteFailed   = "No se pudo eliminar el elemento."
	msgHistoryCleared = "Historial de notificaciones borrado."
)

// Update handles messages. The timeline is advanced to the current time
// first so every handler sees timers that are already due as fired.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.tl.Advance(m.now())

	var cmd tea.Cmd
	m, cmd = m.handle(msg)

	var due tea.Cmd
	m, due = m.takeDue()

	cmds := []tea.Cmd{cmd, due}
	if !m.ticking && m.tl.Len() > 0 {
		m.ticking = true
		cmds = append(cmds, scheduleTimelineTick())
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handle(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.lesson.SetWidth(msg.Width)
		return m, nil
	case timelineTickMsg:
		m.ticking = false
		return m, nil
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case pageLoadedMsg:
		return m.handlePageLoaded(msg)
	case leadSubmittedMsg:
		return m.handleLeadSubmitted(msg)
	case downloadDoneMsg:
		return m.handleDownloadDone(msg)
	case commentPostedMsg:
		return m.handleCommentPosted(msg)
	case components.DeleteConfirmedMsg:
		return m, m.deleteItem(msg.URL)
	case deleteDoneMsg:
		return m.handleDeleteDone(msg)
	case components.SuccessClosedMsg:
		return m.handleSuccessClosed(msg)
	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// takeDue collects the work whose delay elapsed during the last advance.
func (m Model) takeDue() (Model, tea.Cmd) {
	var cmds []tea.Cmd

	if item, ok := m.menu.TakeNavigation(); ok {
		var cmd tea.Cmd
		m, cmd = m.navigate(item.Path, item.Section)
		cmds = append(cmds, cmd)
	}

	if url, ok := m.download.TakeDownload(); ok {
		cmds = append(cmds, m.downloadChapter(url))
	}

	return m, tea.Batch(cmds...)
}

func (m Model) navigate(path, section string) (Model, tea.Cmd) {
	m.loading = true
	return m, tea.Batch(m.fetchPage(path, section), m.spinner.Tick)
}

func (m Model) handlePageLoaded(msg pageLoadedMsg) (Model, tea.Cmd) {
	m.loading = false
	if msg.err != nil {
		log.Error().Err(msg.err).Str("path", msg.path).Msg("failed to load page")
		m.notifyBus.Report(msg.path, notify.LevelError, msgPageFailed)
		return m, nil
	}
	return m.applyPage(msg.section, msg.page)
}

// applyPage shows page in section and picks up its notifications.
func (m Model) applyPage(section string, page site.Page) (Model, tea.Cmd) {
	m.section = section
	m.path = page.Path

	var cmd tea.Cmd
	if section != config.SectionDownload {
		m.download.Blur()
	}

	switch section {
	case config.SectionDownload:
		m.download.SetPage(page)
		cmd = m.download.Focus()
	case config.SectionPrograms:
		if err := m.programs.SetPage(page); err != nil {
			log.Warn().Err(err).Str("path", page.Path).Msg("failed to read programs page")
		}
	case config.SectionLesson:
		if err := m.lesson.SetPage(page); err != nil {
			log.Warn().Err(err).Str("path", page.Path).Msg("failed to read lesson page")
		}
	default:
		m.homeHeading = page.Heading()
	}

	m.ingestToasts(page)
	return m, cmd
}

func (m Model) handleLeadSubmitted(msg leadSubmittedMsg) (Model, tea.Cmd) {
	if m.download.Resolve(m.tl, msg.res, msg.err) {
		return m, nil
	}

	if msg.err != nil {
		log.Error().Err(msg.err).Msg("lead submission failed")
	}
	if general := m.download.Form().GeneralError(); general != "" {
		m.notifyBus.Report(m.cfg.Site.LeadPath, notify.LevelError, general)
	}
	return m, m.download.Focus()
}

func (m Model) handleDownloadDone(msg downloadDoneMsg) (Model, tea.Cmd) {
	if msg.err != nil {
		log.Error().Err(msg.err).Msg("chapter download failed")
		m.download.DownloadFailed()
		m.notifyBus.Report(m.cfg.Site.DownloadPath, notify.LevelError, msgDownloadFailed)
		return m, nil
	}

	m.download.Downloaded(msg.path)

	message := m.download.Form().Message()
	if message == "" {
		message = leadform.SuccessBody
	}
	home, _ := m.cfg.MenuFor(config.SectionHome)
	m.successModal.Show(leadform.SuccessTitle, fmt.Sprintf("%s\n\nGuardado en %s", message, msg.path), home.Path)
	return m, nil
}

func (m Model) handleSuccessClosed(msg components.SuccessClosedMsg) (Model, tea.Cmd) {
	if m.download.Form().State() == leadform.StateSucceeded {
		m.download.Reset()
	}
	if msg.Redirect == "" {
		return m, nil
	}
	return m.navigate(msg.Redirect, m.sectionForPath(msg.Redirect, config.SectionHome))
}

func (m Model) handleCommentPosted(msg commentPostedMsg) (Model, tea.Cmd) {
	if msg.err != nil {
		log.Error().Err(msg.err).Msg("comment post failed")
	}

	text, ok := m.lesson.Resolve(msg.parentID, msg.res, msg.err)
	level := notify.LevelSuccess
	if !ok {
		level = notify.LevelError
	}
	m.notifyBus.Report(m.path, level, text)
	return m, nil
}

func (m Model) handleDeleteDone(msg deleteDoneMsg) (Model, tea.Cmd) {
	m.deleteModal.Close()

	if msg.err != nil {
		log.Error().Err(msg.err).Str("url", msg.url).Msg("delete failed")
		m.notifyBus.Report(msg.url, notify.LevelError, msgDeleteFailed)
		return m, nil
	}
	return m.applyPage(m.sectionForPath(msg.page.Path, m.section), msg.page)
}

// handleKey routes a key press to whatever owns the keyboard.
func (m Model) handleKey(msg tea.KeyPressMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m.quit()
	}

	switch {
	case m.deleteModal.Visible():
		return m, m.deleteModal.Update(msg)
	case m.successModal.Visible():
		return m, m.successModal.Update(msg)
	case m.menu.PanelOpen():
		return m, m.menu.Update(msg)
	case m.clearConfirm != nil:
		return m.handleClearConfirmKey(msg)
	case m.state == stateShowingHelp:
		return m.handleHelpKey(msg)
	case m.state == stateShowingNotifications:
		return m.handleNotificationsKey(msg)
	case m.state == stateShowingInfo:
		return m.handleInfoKey(msg)
	}

	if m.inputActive() {
		return m.handleInputKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Menu):
		m.menu.Open()
		return m, nil
	case key.Matches(msg, m.keys.Help):
		w, h := m.size()
		m.helpDialog = components.NewHelpDialog("Atajos de teclado", m.keys.HelpSections(), w, h)
		m.state = stateShowingHelp
		return m, nil
	case key.Matches(msg, m.keys.Info):
		m.infoDialog = m.newInfoDialog()
		m.state = stateShowingInfo
		return m, nil
	case key.Matches(msg, m.keys.History):
		w, h := m.size()
		m.notificationModal = NewNotificationModal(m.notifyStore, w, h)
		m.state = stateShowingNotifications
		return m, nil
	case key.Matches(msg, m.keys.Dismiss):
		m.toastController.Dismiss()
		return m, nil
	case key.Matches(msg, m.keys.DismissAll):
		m.toastController.DismissAll()
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		if m.path == "" {
			return m, nil
		}
		return m.navigate(m.path, m.section)
	}

	return m.handleSectionKey(msg)
}

// inputActive reports whether a text field has the keyboard.
func (m Model) inputActive() bool {
	switch m.section {
	case config.SectionDownload:
		return m.download.Focused()
	case config.SectionLesson:
		return m.lesson.Composing()
	}
	return false
}

func (m Model) handleInputKey(msg tea.KeyPressMsg) (Model, tea.Cmd) {
	switch m.section {
	case config.SectionDownload:
		switch {
		case key.Matches(msg, m.keys.Back):
			m.download.Blur()
			return m, nil
		case key.Matches(msg, m.keys.Select):
			req, ok := m.download.Submit()
			if !ok {
				return m, nil
			}
			return m, m.submitLead(req)
		}
		return m, m.download.Update(msg)
	case config.SectionLesson:
		if key.Matches(msg, m.keys.Post) {
			path, req, ok := m.lesson.Submit()
			if !ok {
				return m, nil
			}
			return m, m.postComment(path, req)
		}
		return m, m.lesson.Update(msg)
	}
	return m, nil
}

func (m Model) handleSectionKey(msg tea.KeyPressMsg) (Model, tea.Cmd) {
	switch m.section {
	case config.SectionDownload:
		if key.Matches(msg, m.keys.Select) {
			return m, m.download.Focus()
		}
	case config.SectionPrograms:
		if key.Matches(msg, m.keys.Delete) || key.Matches(msg, m.keys.Select) {
			cfg, ok := m.programs.Selected()
			if !ok {
				return m, nil
			}
			return m, m.deleteModal.Show(cfg)
		}
		m.programs.Update(msg)
	case config.SectionLesson:
		return m, m.lesson.Update(msg)
	}
	return m, nil
}

func (m Model) handleHelpKey(msg tea.KeyPressMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "?", "q":
		m.state = stateNormal
		m.helpDialog = nil
	}
	return m, nil
}

func (m Model) handleInfoKey(msg tea.KeyPressMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.infoDialog.ScrollUp()
	case key.Matches(msg, m.keys.Down):
		m.infoDialog.ScrollDown()
	case msg.String() == "esc" || key.Matches(msg, m.keys.Info) || key.Matches(msg, m.keys.Quit):
		m.state = stateNormal
		m.infoDialog = nil
	}
	return m, nil
}

func (m Model) handleNotificationsKey(msg tea.KeyPressMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.notificationModal.ScrollUp()
	case key.Matches(msg, m.keys.Down):
		m.notificationModal.ScrollDown()
	case msg.String() == "D":
		confirm := components.NewConfirmModal("¿Borrar todo el historial de notificaciones?")
		m.clearConfirm = &confirm
	case msg.String() == "esc" || key.Matches(msg, m.keys.History) || key.Matches(msg, m.keys.Quit):
		m.state = stateNormal
		m.notificationModal = nil
	}
	return m, nil
}

func (m Model) handleClearConfirmKey(msg tea.KeyPressMsg) (Model, tea.Cmd) {
	confirm, cmd := m.clearConfirm.Update(msg)

	switch {
	case confirm.Confirmed():
		m.clearConfirm = nil
		if err := m.notificationModal.Clear(); err != nil {
			log.Error().Err(err).Msg("failed to clear notification history")
			m.notifyBus.Errorf("No se pudo borrar el historial: %v", err)
			return m, cmd
		}
		// Shown without going through the bus so the emptied history stays empty.
		m.toastController.Manager().Create(msgHistoryCleared, toast.KindSuccess)
	case confirm.Cancelled():
		m.clearConfirm = nil
	default:
		m.clearConfirm = &confirm
	}
	return m, cmd
}
