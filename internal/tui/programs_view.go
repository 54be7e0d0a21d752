package tui

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/aula/internal/core/site"
	"github.com/colonyops/aula/internal/core/styles"
	"github.com/colonyops/aula/internal/tui/components"
)

// ProgramsView lists the deletable items of the programs page.
type ProgramsView struct {
	heading  string
	triggers []site.DeleteTrigger
	cursor   int
	loaded   bool
}

func NewProgramsView() *ProgramsView {
	return &ProgramsView{heading: "Programas"}
}

// SetPage replaces the list with the triggers found on p.
func (v *ProgramsView) SetPage(p site.Page) error {
	triggers, err := p.DeleteTriggers()
	if err != nil {
		return err
	}
	if h := p.Heading(); h != "" {
		v.heading = h
	}
	v.triggers = triggers
	v.loaded = true
	v.cursor = min(v.cursor, max(len(triggers)-1, 0))
	return nil
}

// Len returns the number of listed items.
func (v *ProgramsView) Len() int { return len(v.triggers) }

// Selected returns the delete configuration of the highlighted item.
func (v *ProgramsView) Selected() (components.DeleteConfig, bool) {
	if v.cursor < 0 || v.cursor >= len(v.triggers) {
		return components.DeleteConfig{}, false
	}
	t := v.triggers[v.cursor]
	return components.DeleteConfig{
		URL:          t.URL,
		Title:        t.Title,
		Message:      t.Message,
		Warning:      t.Warning,
		Confirmation: t.Confirmation,
		ConfirmWord:  t.ConfirmWord,
		ButtonText:   t.ButtonText,
	}, true
}

// Update moves the cursor.
func (v *ProgramsView) Update(msg tea.Msg) {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return
	}
	switch keyMsg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(v.triggers)-1 {
			v.cursor++
		}
	}
}

// View renders the list.
func (v *ProgramsView) View() string {
	lines := []string{styles.TextPrimaryBoldStyle.Render(v.heading), ""}

	switch {
	case !v.loaded:
		lines = append(lines, styles.TextMutedStyle.Render("Cargando..."))
	case len(v.triggers) == 0:
		lines = append(lines, styles.TextMutedStyle.Render("No hay programas."))
	}

	for i, t := range v.triggers {
		label := t.Label
		if label == "" {
			label = t.URL
		}
		if i == v.cursor {
			lines = append(lines, styles.MenuItemSelectedStyle.Render("› "+label))
			continue
		}
		lines = append(lines, styles.MenuItemStyle.Render(label))
	}

	return strings.Join(lines, "\n")
}
