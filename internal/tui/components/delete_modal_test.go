package components

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/aula/pkg/timeline"
	"github.com/colonyops/aula/pkg/tuitest"
)

var epoch = time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC)

func typeText(m *DeleteModal, s string) {
	for _, msg := range tuitest.Type(s) {
		m.Update(msg)
	}
}

func TestDeleteConfig_WithDefaults(t *testing.T) {
	cfg := DeleteConfig{URL: "/x/", Title: "Borrar programa"}.WithDefaults()

	assert.Equal(t, "Borrar programa", cfg.Title)
	assert.Equal(t, DefaultDeleteMessage, cfg.Message)
	assert.Equal(t, DefaultDeleteWarning, cfg.Warning)
	assert.Equal(t, DefaultConfirmWord, cfg.ConfirmWord)
	assert.Equal(t, DefaultDeleteButton, cfg.ButtonText)
}

func TestDeleteModal_without_confirmation_is_enabled(t *testing.T) {
	m := NewDeleteModal(timeline.New(epoch))
	m.Show(DeleteConfig{URL: "/programas/4/eliminar/"})

	require.True(t, m.Visible())
	assert.False(t, m.Disabled())

	cmd := m.Update(tuitest.KeyEnter())
	require.NotNil(t, cmd)
	assert.Equal(t, DeleteConfirmedMsg{URL: "/programas/4/eliminar/"}, cmd())
	assert.True(t, m.Loading())
	assert.Equal(t, DeletingLabel, m.ButtonLabel())

	assert.Nil(t, m.Execute(), "a running delete cannot be executed again")
}

func TestDeleteModal_confirmation_word_gates_button(t *testing.T) {
	m := NewDeleteModal(timeline.New(epoch))
	m.Show(DeleteConfig{URL: "/programas/3/eliminar/", Confirmation: true})

	assert.True(t, m.Disabled())
	assert.Nil(t, m.Update(tuitest.KeyEnter()))
	assert.False(t, m.Loading())

	typeText(m, "ELIMINA")
	assert.True(t, m.Disabled())

	typeText(m, "R")
	assert.Equal(t, "ELIMINAR", m.Value())
	assert.False(t, m.Disabled())

	require.NotNil(t, m.Update(tuitest.KeyEnter()))
	assert.True(t, m.Loading())
}

func TestDeleteModal_custom_confirm_word(t *testing.T) {
	m := NewDeleteModal(timeline.New(epoch))
	m.Show(DeleteConfig{Confirmation: true, ConfirmWord: "BORRAR"})

	typeText(m, "ELIMINAR")
	assert.True(t, m.Disabled())

	out := tuitest.StripANSI(m.Overlay("", 80, 24))
	assert.Contains(t, out, "Escribe BORRAR para confirmar:")
}

func TestDeleteModal_Close_resets_after_delay(t *testing.T) {
	tl := timeline.New(epoch)
	m := NewDeleteModal(tl)
	m.Show(DeleteConfig{Title: "Borrar", Confirmation: true})
	typeText(m, "ELI")

	m.Update(tuitest.KeyEsc())
	assert.True(t, m.Closing())
	assert.True(t, m.Visible(), "the modal stays during its exit transition")

	tl.Advance(epoch.Add(DeleteCloseDelay - time.Millisecond))
	assert.True(t, m.Visible())

	tl.Advance(epoch.Add(DeleteCloseDelay))
	assert.False(t, m.Visible())
	assert.False(t, m.Closing())
	assert.Empty(t, m.Value())
	assert.Equal(t, DeleteConfig{}, m.Config())
}

func TestDeleteModal_Show_during_close_cancels_reset(t *testing.T) {
	tl := timeline.New(epoch)
	m := NewDeleteModal(tl)
	m.Show(DeleteConfig{URL: "/a/"})
	m.Close()

	m.Show(DeleteConfig{URL: "/b/"})
	tl.Advance(epoch.Add(time.Second))

	assert.True(t, m.Visible())
	assert.Equal(t, "/b/", m.Config().URL)
}

func TestDeleteModal_Overlay(t *testing.T) {
	m := NewDeleteModal(timeline.New(epoch))
	assert.Equal(t, "bg", m.Overlay("bg", 80, 24))

	m.Show(DeleteConfig{Message: "¿Eliminar Oratoria?"})
	out := tuitest.StripANSI(m.Overlay("", 80, 24))
	assert.Contains(t, out, DefaultDeleteTitle)
	assert.Contains(t, out, "¿Eliminar Oratoria?")
	assert.Contains(t, out, DefaultDeleteWarning)
	assert.Contains(t, out, "Cancelar")
	assert.NotContains(t, out, "para confirmar")
}
