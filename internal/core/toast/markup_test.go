package toast

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/aula/pkg/timeline"
)

const threeToastPage = `<!DOCTYPE html>
<html><body>
<main>content</main>
<div id="toast-container" class="fixed top-4 right-4">
  <div id="toast-1" class="toast-message transform translate-x-full" data-message-type="success" data-message-id="1">
    <p class="text-sm">first</p>
    <button class="toast-close-btn" data-toast-id="1"><i class="fas fa-times"></i></button>
    <div class="toast-progress"><div class="toast-progress-bar" style="width: 100%"></div></div>
  </div>
  <div id="toast-2" class="toast-message" data-message-type="info" data-message-id="2">
    <p>second</p>
    <button class="toast-close-btn" data-toast-id="2"></button>
  </div>
  <div id="toast-3" class="toast-message" data-message-type="warning" data-message-id="3">
    <p>third</p>
    <button class="toast-close-btn" data-toast-id="3"></button>
    <div class="toast-progress"><div class="toast-progress-bar"></div></div>
  </div>
</div>
</body></html>`

const errorToastPage = `<div id="toast-container">
  <div id="toast-9" class="toast-message" data-message-type="error" data-message-id="9">
    <p>Email already registered</p>
    <button class="toast-close-btn" data-toast-id="9"></button>
    <div class="toast-progress"><div class="toast-progress-bar"></div></div>
  </div>
</div>`

const mismatchedCloseButtonPage = `<div id="toast-container">
  <div class="toast-message" data-message-type="error" data-message-id="42">
    <p>stuck</p>
    <button class="toast-close-btn" data-toast-id="41"></button>
  </div>
</div>`

func TestScanMarkup(t *testing.T) {
	c, err := ScanMarkup(strings.NewReader(threeToastPage))
	require.NoError(t, err)
	require.NotNil(t, c)

	items := c.List()
	require.Len(t, items, 3)

	assert.Equal(t, "1", items[0].ID)
	assert.Equal(t, KindSuccess, items[0].Kind)
	assert.Equal(t, "first", items[0].Message)
	assert.True(t, items[0].HasProgress)
	assert.True(t, items[0].Closable)
	assert.Equal(t, StateCreated, items[0].State)

	assert.Equal(t, KindInfo, items[1].Kind)
	assert.False(t, items[1].HasProgress)

	assert.Equal(t, KindWarning, items[2].Kind)
	assert.Equal(t, "third", items[2].Message)
}

func TestScanMarkup_missing_container(t *testing.T) {
	c, err := ScanMarkup(strings.NewReader(`<div class="toast-message">orphan</div>`))
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.Equal(t, 0, c.Len())
}

func TestScanMarkup_empty_container(t *testing.T) {
	c, err := ScanMarkup(strings.NewReader(`<div id="toast-container"></div>`))
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, 0, c.Len())
}

func TestScanMarkup_id_fallbacks(t *testing.T) {
	c, err := ScanMarkup(strings.NewReader(`<div id="toast-container">
		<div id="toast-77" class="toast-message" data-message-type="bogus">from element id</div>
		<div class="toast-message" data-message-type="info">no id at all</div>
		<div class="toast-message" data-message-id="77">duplicate</div>
	</div>`))
	require.NoError(t, err)

	items := c.List()
	require.Len(t, items, 3)
	assert.Equal(t, "77", items[0].ID)
	assert.Equal(t, KindInfo, items[0].Kind, "unknown kinds fall back to info")
	assert.Equal(t, "markup-1", items[1].ID)
	assert.Equal(t, "markup-2", items[2].ID)
}

func TestScanMarkup_fallback_id_skips_taken_ids(t *testing.T) {
	c, err := ScanMarkup(strings.NewReader(`<div id="toast-container">
		<div class="toast-message" data-message-type="info" data-message-id="markup-1">a</div>
		<div class="toast-message" data-message-type="info">b</div>
	</div>`))
	require.NoError(t, err)

	items := c.List()
	require.Len(t, items, 2)
	assert.Equal(t, "markup-1", items[0].ID)
	assert.Equal(t, "markup-2", items[1].ID)

	tl := timeline.New(epoch)
	m := NewManager(c, tl, DefaultConfig())
	m.Initialize()
	tl.Advance(epoch.Add(time.Minute))

	assert.Equal(t, 0, c.Len(), "every scanned toast runs to removal")
}

func TestScanMarkup_close_button_by_element_id(t *testing.T) {
	c, err := ScanMarkup(strings.NewReader(`<div id="toast-container">
		<div id="toast-7" class="toast-message" data-message-type="info" data-message-id="aviso">
			<p>hola</p>
			<button class="toast-close-btn" data-toast-id="7"></button>
		</div>
	</div>`))
	require.NoError(t, err)

	n, ok := c.Get("aviso")
	require.True(t, ok)
	assert.True(t, n.Closable)
}

func TestScanMarkup_close_button_must_match(t *testing.T) {
	c, err := ScanMarkup(strings.NewReader(mismatchedCloseButtonPage))
	require.NoError(t, err)

	n, ok := c.Get("42")
	require.True(t, ok)
	assert.False(t, n.Closable)
}

func TestRenderMarkup_round_trips_through_scan(t *testing.T) {
	var buf bytes.Buffer
	err := RenderMarkup(&buf, []Notification{
		{ID: "5", Kind: KindSuccess, Message: "Perfil actualizado"},
		{ID: "6", Kind: KindError, Message: "No autorizado <tag>"},
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "&lt;tag&gt;")

	c, err := ScanMarkup(&buf)
	require.NoError(t, err)

	items := c.List()
	require.Len(t, items, 2)
	assert.Equal(t, "5", items[0].ID)
	assert.Equal(t, "Perfil actualizado", items[0].Message)
	assert.True(t, items[0].Closable)
	assert.True(t, items[0].HasProgress)
	assert.Equal(t, KindError, items[1].Kind)
	assert.Equal(t, "No autorizado <tag>", items[1].Message)
}
