package components

import (
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/aula/internal/core/styles"
	"github.com/colonyops/aula/internal/core/toast"
)

// SuccessClosedMsg is emitted when the success modal is dismissed. Redirect
// is empty when the modal was shown without one.
type SuccessClosedMsg struct {
	Redirect string
}

// SuccessModal shows a confirmation message and optionally navigates once
// dismissed.
type SuccessModal struct {
	title    string
	message  string
	redirect string
	visible  bool
}

// NewSuccessModal creates a hidden success modal.
func NewSuccessModal() *SuccessModal {
	return &SuccessModal{}
}

// Show displays message, remembering where to navigate on close. Markup in
// message is reduced to its text.
func (m *SuccessModal) Show(title, message, redirect string) {
	m.title = title
	m.message = toast.SanitizeMessage(message)
	m.redirect = redirect
	m.visible = true
}

// Close hides the modal and returns the remembered redirect.
func (m *SuccessModal) Close() string {
	if !m.visible {
		return ""
	}
	m.visible = false
	redirect := m.redirect
	m.redirect = ""
	return redirect
}

// Visible reports whether the modal is shown.
func (m *SuccessModal) Visible() bool { return m.visible }

// Message returns the displayed message.
func (m *SuccessModal) Message() string { return m.message }

// Redirect returns where closing navigates.
func (m *SuccessModal) Redirect() string { return m.redirect }

// Update closes the modal on enter or esc.
func (m *SuccessModal) Update(msg tea.Msg) tea.Cmd {
	if !m.visible {
		return nil
	}
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return nil
	}
	switch keyMsg.String() {
	case "enter", "esc", "q":
		redirect := m.Close()
		return func() tea.Msg { return SuccessClosedMsg{Redirect: redirect} }
	}
	return nil
}

// Overlay renders the modal centered over background.
func (m *SuccessModal) Overlay(background string, width, height int) string {
	if !m.visible {
		return background
	}

	title := m.title
	if title == "" {
		title = "¡Listo!"
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.TextSuccessStyle.Bold(true).Render(styles.IconNotifySuccess+" "+title),
		"",
		lipgloss.NewStyle().Width(min(56, max(width-8, 16))).Render(m.message),
		lipgloss.NewStyle().MarginTop(1).Render(styles.ModalButtonSelectedStyle.Render("Cerrar")),
	)
	modal := styles.ModalStyle.BorderForeground(styles.ColorSuccess).Render(content)
	return CenterOverlay(background, modal, width, height)
}
