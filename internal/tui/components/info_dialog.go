package components

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/viewport"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/aula/internal/core/styles"
)

const (
	infoMinWidth  = 50
	infoMaxHeight = 30
	infoMargin    = 4
	infoChrome    = 6 // title, divider, help and borders
)

// InfoStatus marks an info row as healthy, degraded or broken.
type InfoStatus int

const (
	InfoStatusNone InfoStatus = iota
	InfoStatusPass
	InfoStatusWarn
	InfoStatusFail
)

// InfoItem is one labeled row.
type InfoItem struct {
	Label  string
	Value  string
	Status InfoStatus
}

// InfoSection is a titled group of rows.
type InfoSection struct {
	Title string
	Items []InfoItem
}

// InfoDialog shows sections of labeled values in a scrollable box.
type InfoDialog struct {
	title    string
	viewport viewport.Model
	width    int
	height   int
}

// NewInfoDialog lays out sections for a terminal of the given size.
func NewInfoDialog(title string, sections []InfoSection, width, height int) *InfoDialog {
	w, h := infoSize(width, height)

	d := &InfoDialog{
		title: title,
		viewport: viewport.New(
			viewport.WithWidth(w-4),
			viewport.WithHeight(max(h-infoChrome, 1)),
		),
		width:  w,
		height: h,
	}
	d.viewport.SetContent(renderInfoSections(sections, w-6))
	return d
}

func infoSize(width, height int) (int, int) {
	w := min(max(width*65/100, infoMinWidth), max(width-infoMargin, 1))
	h := min(max(height-infoMargin, infoChrome+1), infoMaxHeight)
	return w, h
}

func renderInfoSections(sections []InfoSection, ruleWidth int) string {
	labelWidth := 0
	for _, s := range sections {
		for _, it := range s.Items {
			labelWidth = max(labelWidth, lipgloss.Width(it.Label))
		}
	}

	rule := styles.TextSurfaceStyle.Render(strings.Repeat("─", max(ruleWidth, 1)))

	var lines []string
	for i, s := range sections {
		if i > 0 {
			lines = append(lines, "")
		}
		if s.Title != "" {
			lines = append(lines, styles.HelpDialogSectionStyle.Render(s.Title), rule)
		}
		for _, it := range s.Items {
			label := it.Label + Pad(labelWidth-lipgloss.Width(it.Label))
			row := fmt.Sprintf("%s  %s",
				styles.TextForegroundBoldStyle.Render(label),
				styles.TextMutedStyle.Render(it.Value),
			)
			if icon := statusIcon(it.Status); icon != "" {
				row = icon + " " + row
			}
			lines = append(lines, row)
		}
	}
	return strings.Join(lines, "\n")
}

func statusIcon(s InfoStatus) string {
	switch s {
	case InfoStatusPass:
		return styles.TextSuccessStyle.Render("✔")
	case InfoStatusWarn:
		return styles.TextWarningStyle.Render("●")
	case InfoStatusFail:
		return styles.TextErrorStyle.Render("✘")
	}
	return ""
}

func (d *InfoDialog) ScrollUp()   { d.viewport.ScrollUp(1) }
func (d *InfoDialog) ScrollDown() { d.viewport.ScrollDown(1) }

// Overlay renders the dialog centered over background.
func (d *InfoDialog) Overlay(background string, width, height int) string {
	title := d.title
	if d.viewport.TotalLineCount() > d.viewport.VisibleLineCount() {
		title += styles.TextMutedStyle.Render(fmt.Sprintf(" (%.0f%%)", d.viewport.ScrollPercent()*100))
	}

	box := styles.ModalStyle.Width(d.width).Height(d.height).Render(lipgloss.JoinVertical(lipgloss.Left,
		styles.ModalTitleStyle.Render(title),
		styles.TextSurfaceStyle.Render(strings.Repeat("─", max(d.width-6, 1))),
		d.viewport.View(),
		styles.ModalHelpStyle.Render("[j/k] desplazar  [esc] cerrar"),
	))
	return CenterOverlay(background, box, width, height)
}
