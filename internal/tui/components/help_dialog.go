// Package components provides the reusable pieces of the aula TUI: the
// off-canvas menu, the delete and success modals and the help and info
// dialogs.
package components

import (
	"strings"

	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/aula/internal/core/styles"
)

// HelpEntry is one shortcut and what it does.
type HelpEntry struct {
	Key  string
	Desc string
}

// HelpDialogSection groups the shortcuts of one area of the app.
type HelpDialogSection struct {
	Title   string
	Entries []HelpEntry
}

// HelpDialog lists the keyboard shortcuts.
type HelpDialog struct {
	title    string
	sections []HelpDialogSection
	keyWidth int
}

// NewHelpDialog creates a help dialog. The width and height are accepted
// for symmetry with the other dialogs; the dialog sizes itself to its
// content.
func NewHelpDialog(title string, sections []HelpDialogSection, _, _ int) *HelpDialog {
	keyWidth := 0
	for _, s := range sections {
		for _, e := range s.Entries {
			keyWidth = max(keyWidth, lipgloss.Width(e.Key))
		}
	}
	return &HelpDialog{title: title, sections: sections, keyWidth: keyWidth + 2}
}

// View renders the dialog box.
func (h *HelpDialog) View() string {
	lines := []string{styles.TextForegroundBoldStyle.Render(h.title)}

	for _, section := range h.sections {
		if len(section.Entries) == 0 {
			continue
		}
		lines = append(lines, "")
		if section.Title != "" {
			lines = append(lines, styles.HelpDialogSectionStyle.Render(section.Title))
		}
		for _, e := range section.Entries {
			key := e.Key + Pad(h.keyWidth-lipgloss.Width(e.Key))
			lines = append(lines, styles.TextPrimaryBoldStyle.Render(key)+styles.TextForegroundStyle.Render(e.Desc))
		}
	}

	lines = append(lines, "", styles.HelpDialogHelpStyle.Render("esc/? cerrar"))
	return styles.HelpDialogModalStyle.Render(strings.Join(lines, "\n"))
}

// Overlay renders the dialog centered over background.
func (h *HelpDialog) Overlay(background string, width, height int) string {
	return CenterOverlay(background, h.View(), width, height)
}
