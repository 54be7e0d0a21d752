package components

import (
	"strings"
	"time"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/aula/internal/core/styles"
	"github.com/colonyops/aula/pkg/timeline"
)

// Delete modal defaults.
const (
	DefaultDeleteTitle   = "Confirmar Eliminación"
	DefaultDeleteMessage = "¿Estás seguro de que deseas eliminar este elemento?"
	DefaultDeleteWarning = "Esta acción es permanente y no se puede revertir."
	DefaultConfirmWord   = "ELIMINAR"
	DefaultDeleteButton  = "Eliminar"
	DeletingLabel        = "Eliminando..."

	// DeleteCloseDelay matches the exit transition; the modal resets once it
	// elapses.
	DeleteCloseDelay = 300 * time.Millisecond
)

// DeleteConfig describes what a delete modal asks about and where the
// confirmation is posted.
type DeleteConfig struct {
	URL          string
	Title        string
	Message      string
	Warning      string
	Confirmation bool
	ConfirmWord  string
	ButtonText   string
}

// WithDefaults fills empty fields with the standard texts.
func (c DeleteConfig) WithDefaults() DeleteConfig {
	if c.Title == "" {
		c.Title = DefaultDeleteTitle
	}
	if c.Message == "" {
		c.Message = DefaultDeleteMessage
	}
	if c.Warning == "" {
		c.Warning = DefaultDeleteWarning
	}
	if c.ConfirmWord == "" {
		c.ConfirmWord = DefaultConfirmWord
	}
	if c.ButtonText == "" {
		c.ButtonText = DefaultDeleteButton
	}
	return c
}

// DeleteConfirmedMsg is emitted when the user executes an enabled delete.
type DeleteConfirmedMsg struct {
	URL string
}

// DeleteModal is a confirmation dialog for destructive actions. When the
// config asks for confirmation, the confirm button stays disabled until the
// typed text matches the confirmation word.
type DeleteModal struct {
	tl      *timeline.Timeline
	cfg     DeleteConfig
	input   textinput.Model
	open    bool
	closing bool
	loading bool
	reset   *timeline.Token
}

// NewDeleteModal creates a hidden delete modal scheduling on tl.
func NewDeleteModal(tl *timeline.Timeline) *DeleteModal {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 64
	ti.SetWidth(30)

	return &DeleteModal{tl: tl, input: ti}
}

// Show opens the modal with cfg, filling defaults. It returns the focus
// command of the confirmation input.
func (m *DeleteModal) Show(cfg DeleteConfig) tea.Cmd {
	m.reset.Cancel()
	m.reset = nil

	m.cfg = cfg.WithDefaults()
	m.open = true
	m.closing = false
	m.loading = false
	m.input.SetValue("")
	m.input.Placeholder = m.cfg.ConfirmWord

	if m.cfg.Confirmation {
		return m.input.Focus()
	}
	m.input.Blur()
	return nil
}

// Close starts the exit transition. The modal resets DeleteCloseDelay later.
func (m *DeleteModal) Close() {
	if !m.open || m.closing {
		return
	}
	m.closing = true
	m.input.Blur()
	m.reset = m.tl.After(DeleteCloseDelay, m.clear)
}

func (m *DeleteModal) clear() {
	m.open = false
	m.closing = false
	m.loading = false
	m.cfg = DeleteConfig{}
	m.input.SetValue("")
	m.reset = nil
}

// Visible reports whether the modal occupies the screen, including during
// its exit transition.
func (m *DeleteModal) Visible() bool { return m.open }

// Closing reports whether the exit transition is running.
func (m *DeleteModal) Closing() bool { return m.closing }

// Loading reports whether the delete has been executed.
func (m *DeleteModal) Loading() bool { return m.loading }

// Config returns the active configuration.
func (m *DeleteModal) Config() DeleteConfig { return m.cfg }

// Value returns the typed confirmation text.
func (m *DeleteModal) Value() string { return m.input.Value() }

// Disabled reports whether the confirm button ignores activation.
func (m *DeleteModal) Disabled() bool {
	if m.loading {
		return true
	}
	if !m.cfg.Confirmation {
		return false
	}
	return !m.matches()
}

func (m *DeleteModal) matches() bool {
	return strings.TrimSpace(m.input.Value()) == m.cfg.ConfirmWord
}

// ButtonLabel returns the confirm button text.
func (m *DeleteModal) ButtonLabel() string {
	if m.loading {
		return DeletingLabel
	}
	return m.cfg.ButtonText
}

// Execute posts the delete unless the button is disabled.
func (m *DeleteModal) Execute() tea.Cmd {
	if !m.open || m.closing || m.Disabled() {
		return nil
	}
	m.loading = true
	url := m.cfg.URL
	return func() tea.Msg {
		return DeleteConfirmedMsg{URL: url}
	}
}

// Update handles input while the modal is open.
func (m *DeleteModal) Update(msg tea.Msg) tea.Cmd {
	if !m.open || m.closing {
		return nil
	}

	if keyMsg, ok := msg.(tea.KeyPressMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.Close()
			return nil
		case "enter":
			return m.Execute()
		}
	}

	if !m.cfg.Confirmation || m.loading {
		return nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

// Overlay renders the modal centered over background.
func (m *DeleteModal) Overlay(background string, width, height int) string {
	if !m.open {
		return background
	}

	title := styles.ModalTitleStyle.Render(styles.IconTrash + " " + m.cfg.Title)
	if m.closing {
		title = styles.TextMutedStyle.Render(m.cfg.Title)
	}

	parts := []string{
		title,
		"",
		m.cfg.Message,
		styles.ModalWarningStyle.Render(m.cfg.Warning),
	}

	if m.cfg.Confirmation {
		fieldStyle := styles.FormFieldFocusedStyle
		if m.input.Value() != "" {
			if m.matches() {
				fieldStyle = styles.FormFieldValidStyle
			} else {
				fieldStyle = styles.FormFieldInvalidStyle
			}
		}
		parts = append(parts,
			"",
			styles.FormHelpStyle.Render("Escribe "+m.cfg.ConfirmWord+" para confirmar:"),
			fieldStyle.Render(m.input.View()),
		)
	}

	confirmStyle := styles.ModalDangerButtonStyle
	if m.Disabled() {
		confirmStyle = styles.ModalButtonDisabledStyle
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Center,
		styles.ModalButtonStyle.Render("Cancelar"),
		"  ",
		confirmStyle.Render(m.ButtonLabel()),
	)

	parts = append(parts,
		lipgloss.NewStyle().MarginTop(1).Render(buttons),
		styles.ModalHelpStyle.Render("enter confirmar  esc cancelar"),
	)

	modal := styles.ModalStyle.Width(min(60, max(width-4, 20))).Render(
		lipgloss.JoinVertical(lipgloss.Left, parts...),
	)
	return CenterOverlay(background, modal, width, height)
}
