package components

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/aula/internal/core/config"
	"github.com/colonyops/aula/internal/core/styles"
	"github.com/colonyops/aula/pkg/timeline"
)

// Off-canvas timings.
const (
	// BackdropHideDelay matches the panel's exit transition.
	BackdropHideDelay = 300 * time.Millisecond
	// NavigateDelay lets the close transition finish before the target
	// section is shown.
	NavigateDelay = 350 * time.Millisecond
)

const offcanvasWidth = 28

// Offcanvas is the slide-in navigation menu. Closing hides the panel at once
// and the backdrop after BackdropHideDelay. Selecting an entry closes the
// menu and navigates NavigateDelay later.
type Offcanvas struct {
	tl       *timeline.Timeline
	items    []config.MenuItem
	cursor   int
	panel    bool
	backdrop bool

	hideBackdrop *timeline.Token
	navigate     *timeline.Token
	arrived      *config.MenuItem
}

// NewOffcanvas creates a closed menu over items.
func NewOffcanvas(tl *timeline.Timeline, items []config.MenuItem) *Offcanvas {
	return &Offcanvas{tl: tl, items: items}
}

// Open shows the panel and the backdrop.
func (o *Offcanvas) Open() {
	o.hideBackdrop.Cancel()
	o.hideBackdrop = nil
	o.panel = true
	o.backdrop = true
}

// Close hides the panel now and the backdrop once the transition ends.
func (o *Offcanvas) Close() {
	if !o.panel && !o.backdrop {
		return
	}
	o.panel = false
	if o.hideBackdrop != nil {
		return
	}
	o.hideBackdrop = o.tl.After(BackdropHideDelay, func() {
		o.backdrop = false
		o.hideBackdrop = nil
	})
}

// Toggle opens a closed menu and closes an open one.
func (o *Offcanvas) Toggle() {
	if o.panel {
		o.Close()
		return
	}
	o.Open()
}

// PanelOpen reports whether the panel is shown.
func (o *Offcanvas) PanelOpen() bool { return o.panel }

// BackdropVisible reports whether the backdrop is shown.
func (o *Offcanvas) BackdropVisible() bool { return o.backdrop }

// Cursor returns the highlighted entry index.
func (o *Offcanvas) Cursor() int { return o.cursor }

// Items returns the menu entries.
func (o *Offcanvas) Items() []config.MenuItem { return o.items }

// Select closes the menu and schedules navigation to the entry at index.
// A later selection replaces a pending one. Out-of-range indexes only close
// the menu.
func (o *Offcanvas) Select(index int) {
	o.Close()
	if index < 0 || index >= len(o.items) {
		return
	}

	o.navigate.Cancel()
	item := o.items[index]
	o.navigate = o.tl.After(NavigateDelay, func() {
		o.arrived = &item
		o.navigate = nil
	})
}

// TakeNavigation returns the entry whose navigation delay has elapsed, once.
func (o *Offcanvas) TakeNavigation() (config.MenuItem, bool) {
	if o.arrived == nil {
		return config.MenuItem{}, false
	}
	item := *o.arrived
	o.arrived = nil
	return item, true
}

// Update handles keys while the panel is open.
func (o *Offcanvas) Update(msg tea.Msg) tea.Cmd {
	if !o.panel {
		return nil
	}
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if o.cursor > 0 {
			o.cursor--
		}
	case "down", "j":
		if o.cursor < len(o.items)-1 {
			o.cursor++
		}
	case "enter":
		o.Select(o.cursor)
	case "esc", "m", "q":
		o.Close()
	}
	return nil
}

// Overlay renders the backdrop and panel over background. The panel slides
// in from the right edge.
func (o *Offcanvas) Overlay(background string, width, height int) string {
	if !o.backdrop {
		return background
	}

	layers := []*lipgloss.Layer{lipgloss.NewLayer(background)}

	dim := make([]string, height)
	for i := range dim {
		dim[i] = strings.Repeat("░", width)
	}
	layers = append(layers, lipgloss.NewLayer(styles.MenuBackdropStyle.Render(strings.Join(dim, "\n"))).Z(1))

	if o.panel {
		lines := []string{
			styles.ModalTitleStyle.Render(styles.IconMenu + " Menú"),
			"",
		}
		for i, item := range o.items {
			style := styles.MenuItemStyle
			label := item.Label
			if i == o.cursor {
				style = styles.MenuItemSelectedStyle
				label = "› " + label
			}
			lines = append(lines, style.Render(label))
		}
		lines = append(lines, "", styles.ModalHelpStyle.Render("enter ir  esc cerrar"))

		panel := styles.MenuPanelStyle.
			Width(min(offcanvasWidth, width)).
			Height(max(height, 1)).
			Render(strings.Join(lines, "\n"))
		layers = append(layers, lipgloss.NewLayer(panel).X(max(width-lipgloss.Width(panel), 0)).Y(0).Z(2))
	}

	return lipgloss.NewCompositor(layers...).Render()
}
