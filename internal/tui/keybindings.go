package tui

import (
	"charm.land/bubbles/v2/key"

	"github.com/colonyops/aula/internal/tui/components"
)

// KeyMap holds the global and per-section bindings.
type KeyMap struct {
	Menu       key.Binding
	Help       key.Binding
	Info       key.Binding
	History    key.Binding
	Dismiss    key.Binding
	DismissAll key.Binding
	Refresh    key.Binding
	Quit       key.Binding
	ForceQuit  key.Binding

	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Back   key.Binding

	Delete  key.Binding
	Comment key.Binding
	Reply   key.Binding
	Post    key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Menu:       key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "abrir menú")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "atajos")),
		Info:       key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "información")),
		History:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "historial de notificaciones")),
		Dismiss:    key.NewBinding(key.WithKeys("x", "ctrl+w"), key.WithHelp("x", "cerrar notificación")),
		DismissAll: key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "cerrar todas")),
		Refresh:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "recargar página")),
		Quit:       key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "salir")),
		ForceQuit:  key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "salir")),

		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "subir")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "bajar")),
		Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "enviar / editar")),
		Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "salir del campo")),

		Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "eliminar")),
		Comment: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "comentar")),
		Reply:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "responder")),
		Post:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "publicar")),
	}
}

// HelpSections groups the bindings for the help dialog.
func (k KeyMap) HelpSections() []components.HelpDialogSection {
	return []components.HelpDialogSection{
		{
			Title:   "General",
			Entries: entries(k.Menu, k.Refresh, k.Info, k.Help, k.Quit),
		},
		{
			Title:   "Notificaciones",
			Entries: entries(k.Dismiss, k.DismissAll, k.History),
		},
		{
			Title:   "Libro",
			Entries: entries(k.Select, k.Back),
		},
		{
			Title:   "Programas",
			Entries: entries(k.Up, k.Down, k.Delete),
		},
		{
			Title:   "Sesión",
			Entries: entries(k.Comment, k.Reply, k.Post),
		},
	}
}

func entries(bindings ...key.Binding) []components.HelpEntry {
	out := make([]components.HelpEntry, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		out = append(out, components.HelpEntry{Key: h.Key, Desc: h.Desc})
	}
	return out
}
