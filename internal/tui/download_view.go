package tui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/aula/internal/core/leadform"
	"github.com/colonyops/aula/internal/core/site"
	"github.com/colonyops/aula/internal/core/styles"
	"github.com/colonyops/aula/pkg/timeline"
)

// DownloadView is the book landing page: the lead form and, once it
// succeeds, the success panel while the chapter downloads.
type DownloadView struct {
	form    *leadform.Form
	input   textinput.Model
	heading string

	downloadTok *timeline.Token
	due         string // download url whose delay has elapsed
	downloading bool
	savedPath   string
}

// NewDownloadView creates an idle download view.
func NewDownloadView() *DownloadView {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "tu@email.com"
	ti.CharLimit = 254
	ti.SetWidth(36)

	return &DownloadView{
		form:    leadform.New(),
		input:   ti,
		heading: "Camino, Verdad y Vida",
	}
}

// Form returns the form state machine.
func (v *DownloadView) Form() *leadform.Form { return v.form }

// SetPage takes the heading of a freshly fetched landing page.
func (v *DownloadView) SetPage(p site.Page) {
	if h := p.Heading(); h != "" {
		v.heading = h
	}
}

// Focus focuses the email input.
func (v *DownloadView) Focus() tea.Cmd {
	if v.form.State() == leadform.StateSucceeded {
		return nil
	}
	return v.input.Focus()
}

// Blur removes focus from the email input.
func (v *DownloadView) Blur() {
	v.input.Blur()
}

// Focused reports whether the email input has focus.
func (v *DownloadView) Focused() bool {
	return v.input.Focused()
}

// Submit starts a submission with the typed email. It reports the request
// to send; ok is false when validation failed locally or a submission is
// already running.
func (v *DownloadView) Submit() (site.LeadRequest, bool) {
	req, ok, err := v.form.Begin(v.input.Value())
	if err != nil {
		return site.LeadRequest{}, false
	}
	return req, ok
}

// Resolve applies the site's answer. On success the download is scheduled
// on tl; TakeDownload returns its url once the delay elapses.
func (v *DownloadView) Resolve(tl *timeline.Timeline, res site.LeadResult, err error) bool {
	if !v.form.Resolve(res, err) {
		return false
	}
	v.input.Blur()
	v.downloadTok.Cancel()
	v.downloadTok = v.form.ScheduleDownload(tl, func(url string) {
		v.due = url
		v.downloadTok = nil
	})
	return true
}

// TakeDownload returns the url of a download that is due, once.
func (v *DownloadView) TakeDownload() (string, bool) {
	if v.due == "" {
		return "", false
	}
	url := v.due
	v.due = ""
	v.downloading = true
	return url, true
}

// Downloaded records where the chapter was saved.
func (v *DownloadView) Downloaded(path string) {
	v.downloading = false
	v.savedPath = path
}

// DownloadFailed clears the in-flight download marker.
func (v *DownloadView) DownloadFailed() {
	v.downloading = false
}

// SavedPath returns where the chapter was saved.
func (v *DownloadView) SavedPath() string { return v.savedPath }

// Reset returns the view to an empty idle form.
func (v *DownloadView) Reset() {
	v.downloadTok.Cancel()
	v.downloadTok = nil
	v.due = ""
	v.downloading = false
	v.savedPath = ""
	v.form.Reset()
	v.input.SetValue("")
}

// Update forwards typing to the email input while the form accepts input.
func (v *DownloadView) Update(msg tea.Msg) tea.Cmd {
	if v.form.State() == leadform.StateSucceeded || v.form.State() == leadform.StateSubmitting {
		return nil
	}
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return cmd
}

// View renders the landing page.
func (v *DownloadView) View(width int) string {
	title := styles.TextPrimaryBoldStyle.Render(styles.IconBook + " " + v.heading)

	if v.form.State() == leadform.StateSucceeded {
		return lipgloss.JoinVertical(lipgloss.Left, title, "", v.successView(width))
	}

	fieldStyle := styles.FormFieldStyle
	if v.input.Focused() {
		fieldStyle = styles.FormFieldFocusedStyle
	}
	if len(v.form.FieldErrors()) > 0 {
		fieldStyle = styles.FormFieldInvalidStyle
	}

	lines := []string{
		title,
		"",
		styles.FormTitleStyle.Render("Correo Electrónico"),
		fieldStyle.Render(v.input.View()),
	}
	for _, msg := range v.form.FieldErrors() {
		lines = append(lines, styles.FormErrorStyle.Render(msg))
	}

	button := styles.ModalButtonSelectedStyle
	if !v.form.CanSubmit() {
		button = styles.ModalButtonDisabledStyle
	}
	lines = append(lines, "", button.Render(v.form.SubmitText()))

	return strings.Join(lines, "\n")
}

func (v *DownloadView) successView(width int) string {
	body := lipgloss.NewStyle().Width(min(max(width-4, 20), 72))

	steps := make([]string, 0, len(leadform.NextSteps))
	for i, s := range leadform.NextSteps {
		steps = append(steps, fmt.Sprintf("%d. %s", i+1, s))
	}

	status := styles.TextMutedStyle.Render("Preparando la descarga...")
	switch {
	case v.savedPath != "":
		status = styles.TextSuccessStyle.Render(styles.IconDownload + " Guardado en " + v.savedPath)
	case v.downloading:
		status = styles.TextMutedStyle.Render(styles.IconDownload + " Descargando...")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		styles.TextSuccessStyle.Bold(true).Render(styles.IconNotifySuccess+" "+leadform.SuccessTitle),
		"",
		body.Render(leadform.SuccessBody),
		"",
		styles.TextPrimaryBoldStyle.Render("Próximos pasos:"),
		strings.Join(steps, "\n"),
		"",
		status,
	)
}
