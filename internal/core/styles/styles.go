// Package styles provides shared lipgloss v2 styles for CLI and TUI components.
package styles

import (
	"image/color"

	lipgloss "charm.land/lipgloss/v2"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Exported color aliases for convenience.
var (
	ColorPrimary    color.Color
	ColorSecondary  color.Color
	ColorForeground color.Color
	ColorMuted      color.Color
	ColorBackground color.Color
	ColorSurface    color.Color
	ColorSuccess    color.Color
	ColorWarning    color.Color
	ColorError      color.Color
)

// Style exports.
var (
	// CLI styles.
	CommandHeaderStyle lipgloss.Style
	CommandStyle       lipgloss.Style
	DividerStyle       lipgloss.Style

	// Text styles.
	TextForegroundStyle     lipgloss.Style
	TextForegroundBoldStyle lipgloss.Style
	TextPrimaryStyle        lipgloss.Style
	TextPrimaryBoldStyle    lipgloss.Style
	TextSecondaryStyle      lipgloss.Style
	TextMutedStyle          lipgloss.Style
	TextSurfaceStyle        lipgloss.Style
	TextSuccessStyle        lipgloss.Style
	TextWarningStyle        lipgloss.Style
	TextErrorStyle          lipgloss.Style

	// TUI shared styles.
	ModalStyle               lipgloss.Style
	ModalTitleStyle          lipgloss.Style
	ModalHelpStyle           lipgloss.Style
	ModalButtonStyle         lipgloss.Style
	ModalButtonSelectedStyle lipgloss.Style
	ModalButtonDisabledStyle lipgloss.Style
	ModalDangerButtonStyle   lipgloss.Style
	ModalWarningStyle        lipgloss.Style
	ConfirmMessageStyle      lipgloss.Style

	HelpDialogModalStyle   lipgloss.Style
	HelpDialogSectionStyle lipgloss.Style
	HelpDialogHelpStyle    lipgloss.Style

	ViewSelectedStyle lipgloss.Style
	ViewNormalStyle   lipgloss.Style

	FormTitleStyle        lipgloss.Style
	FormFieldStyle        lipgloss.Style
	FormFieldFocusedStyle lipgloss.Style
	FormFieldValidStyle   lipgloss.Style
	FormFieldInvalidStyle lipgloss.Style
	FormErrorStyle        lipgloss.Style
	FormHelpStyle         lipgloss.Style

	// Toasts, keyed by the border color of their kind.
	ToastSuccessStyle lipgloss.Style
	ToastErrorStyle   lipgloss.Style
	ToastWarningStyle lipgloss.Style
	ToastInfoStyle    lipgloss.Style

	// Off-canvas menu.
	MenuPanelStyle        lipgloss.Style
	MenuItemStyle         lipgloss.Style
	MenuItemSelectedStyle lipgloss.Style
	MenuBackdropStyle     lipgloss.Style

	// Comments.
	CommentAuthorStyle lipgloss.Style
	CommentMetaStyle   lipgloss.Style
	CommentTargetStyle lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	ColorPrimary = p.Primary
	ColorSecondary = p.Secondary
	ColorForeground = p.Foreground
	ColorMuted = p.Muted
	ColorBackground = p.Background
	ColorSurface = p.Surface
	ColorSuccess = p.Success
	ColorWarning = p.Warning
	ColorError = p.Error

	CommandHeaderStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	CommandStyle = lipgloss.NewStyle().
		Foreground(ColorForeground)
	DividerStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	TextForegroundStyle = lipgloss.NewStyle().Foreground(ColorForeground)
	TextForegroundBoldStyle = TextForegroundStyle.Bold(true)
	TextPrimaryStyle = lipgloss.NewStyle().Foreground(ColorPrimary)
	TextPrimaryBoldStyle = TextPrimaryStyle.Bold(true)
	TextSecondaryStyle = lipgloss.NewStyle().Foreground(ColorSecondary)
	TextMutedStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	TextSurfaceStyle = lipgloss.NewStyle().Foreground(ColorSurface)
	TextSuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	TextWarningStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	TextErrorStyle = lipgloss.NewStyle().Foreground(ColorError)

	ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2)
	ModalTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorForeground)
	ModalHelpStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		MarginTop(1)
	ModalButtonStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(ColorSurface).
		Foreground(ColorMuted)
	ModalButtonSelectedStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(ColorPrimary).
		Foreground(ColorBackground).
		Bold(true)
	ModalButtonDisabledStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(ColorSurface).
		Foreground(ColorMuted).
		Faint(true)
	ModalDangerButtonStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(ColorError).
		Foreground(ColorBackground).
		Bold(true)
	ModalWarningStyle = lipgloss.NewStyle().
		Foreground(ColorError).
		Italic(true)
	ConfirmMessageStyle = lipgloss.NewStyle().
		Foreground(ColorForeground).
		MarginBottom(1)

	HelpDialogModalStyle = ModalStyle
	HelpDialogSectionStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true)
	HelpDialogHelpStyle = ModalHelpStyle

	ViewSelectedStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	ViewNormalStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	FormTitleStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	FormFieldStyle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(ColorMuted).
		PaddingLeft(1)
	FormFieldFocusedStyle = FormFieldStyle.
		BorderForeground(ColorPrimary)
	FormFieldValidStyle = FormFieldStyle.
		BorderForeground(ColorSuccess)
	FormFieldInvalidStyle = FormFieldStyle.
		BorderForeground(ColorError)
	FormErrorStyle = lipgloss.NewStyle().
		Foreground(ColorError)
	FormHelpStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	toastBase := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder(), false, false, false, true).
		Padding(0, 1).
		Foreground(ColorForeground).
		Background(ColorSurface)
	ToastSuccessStyle = toastBase.BorderForeground(ColorSuccess)
	ToastErrorStyle = toastBase.BorderForeground(ColorError)
	ToastWarningStyle = toastBase.BorderForeground(ColorWarning)
	ToastInfoStyle = toastBase.BorderForeground(ColorPrimary)

	MenuPanelStyle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(ColorSurface).
		Background(ColorBackground).
		Padding(1, 2)
	MenuItemStyle = lipgloss.NewStyle().
		Foreground(ColorForeground).
		PaddingLeft(2)
	MenuItemSelectedStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true).
		PaddingLeft(2)
	MenuBackdropStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Faint(true)

	CommentAuthorStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true)
	CommentMetaStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	CommentTargetStyle = lipgloss.NewStyle().
		Foreground(ColorWarning).
		Bold(true)
}

// KindColor returns the accent color of a notification kind name. Unknown
// names get the info color.
func KindColor(kind string) color.Color {
	switch kind {
	case "success":
		return ColorSuccess
	case "error":
		return ColorError
	case "warning":
		return ColorWarning
	default:
		return ColorPrimary
	}
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}
