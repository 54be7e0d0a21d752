package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/aula/pkg/tuitest"
)

func TestSuccessModal_close_emits_redirect(t *testing.T) {
	m := NewSuccessModal()
	m.Show("Hecho", "Capítulo <b>guardado</b>", "/")

	require.True(t, m.Visible())
	assert.Equal(t, "Capítulo guardado", m.Message())

	cmd := m.Update(tuitest.KeyEnter())
	require.NotNil(t, cmd)
	assert.Equal(t, SuccessClosedMsg{Redirect: "/"}, cmd())
	assert.False(t, m.Visible())
	assert.Empty(t, m.Redirect())
}

func TestSuccessModal_without_redirect(t *testing.T) {
	m := NewSuccessModal()
	m.Show("", "ok", "")

	out := tuitest.StripANSI(m.Overlay("", 80, 24))
	assert.Contains(t, out, "¡Listo!")

	cmd := m.Update(tuitest.KeyEsc())
	require.NotNil(t, cmd)
	assert.Equal(t, SuccessClosedMsg{}, cmd())
}

func TestSuccessModal_hidden_ignores_keys(t *testing.T) {
	m := NewSuccessModal()

	assert.Nil(t, m.Update(tuitest.KeyEnter()))
	assert.Empty(t, m.Close())
	assert.Equal(t, "bg", m.Overlay("bg", 80, 24))
}
