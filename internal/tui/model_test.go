package tui

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/aula/internal/core/comments"
	"github.com/colonyops/aula/internal/core/config"
	"github.com/colonyops/aula/internal/core/leadform"
	"github.com/colonyops/aula/internal/core/notify"
	"github.com/colonyops/aula/internal/core/site"
	"github.com/colonyops/aula/internal/core/toast"
	"github.com/colonyops/aula/internal/tui/components"
	"github.com/colonyops/aula/pkg/tuitest"
)

const homePage = `<html><body>
<h1>Bienvenido a Aula</h1>
<div id="toast-container">
  <div id="toast-1" class="toast-message" data-message-type="success" data-message-id="1">
    <p>Sesión iniciada</p>
    <button class="toast-close-btn" data-toast-id="1"></button>
    <div class="toast-progress"><div class="toast-progress-bar"></div></div>
  </div>
  <div id="toast-2" class="toast-message" data-message-type="info" data-message-id="2">
    <p>Nuevo material disponible</p>
    <button class="toast-close-btn" data-toast-id="2"></button>
  </div>
</div>
</body></html>`

const programsListPage = `<html><body>
<h1>Mis programas</h1>
<ul>
  <li><span>Oratoria</span>
    <a href="#" data-delete-url="/programas/3/eliminar/" data-delete-confirmation="true">Eliminar</a></li>
  <li><span>Lectura</span>
    <a href="#" data-delete-url="/programas/4/eliminar/">Eliminar</a></li>
</ul>
</body></html>`

const programsAfterDelete = `<html><body>
<h1>Mis programas</h1>
<ul>
  <li><span>Lectura</span>
    <a href="#" data-delete-url="/programas/4/eliminar/">Eliminar</a></li>
</ul>
<div id="toast-container">
  <div id="toast-5" class="toast-message" data-message-type="success" data-message-id="5">
    <p>Programa eliminado.</p>
    <button class="toast-close-btn" data-toast-id="5"></button>
  </div>
</div>
</body></html>`

const lessonThreadPage = `<html><body>
<h1>Sesión 1</h1>
<section id="comments">
  <form id="comment-form" method="post" action="/programas/sesion/1/comentar/"></form>
  <div id="comments-list">
    <div class="comment" data-comment-id="1">
      <div class="comment-meta"><span class="comment-author">maria</span></div>
      <div class="comment-body"><p>Muy buena sesión.</p></div>
    </div>
  </div>
</section>
</body></html>`

func TestModel_page_toasts_are_adopted_and_recorded(t *testing.T) {
	h := newHarness(t)

	h.load(config.SectionHome, "/", homePage)

	assert.Equal(t, "Bienvenido a Aula", h.m.homeHeading)
	assert.Equal(t, []string{"Sesión iniciada", "Nuevo material disponible"}, h.messages())

	require.Len(t, h.store.items, 2)
	assert.Equal(t, notify.LevelSuccess, h.store.items[0].Level)
	assert.Equal(t, "/", h.store.items[0].Source)

	// Pre-rendered toasts cascade in one stagger apart.
	h.tick(time.Millisecond)
	require.Len(t, h.m.toastController.Toasts(), 1)
	h.tick(toast.DefaultStagger)
	assert.Len(t, h.m.toastController.Toasts(), 2)
}

func TestModel_unscanned_pages_keep_their_toasts(t *testing.T) {
	h := newHarness(t, func(c *config.Config) {
		c.Site.ToastPages = []string{"/programas/**"}
	})

	h.load(config.SectionHome, "/", homePage)

	assert.Empty(t, h.messages())
	assert.Empty(t, h.store.items)
}

func TestModel_page_error_reports_toast(t *testing.T) {
	h := newHarness(t)

	h.send(pageLoadedMsg{path: "/libro/", section: config.SectionDownload, err: assert.AnError})

	assert.Equal(t, []string{msgPageFailed}, h.messages())
	require.Len(t, h.store.items, 1)
	assert.Equal(t, "/libro/", h.store.items[0].Source)
	assert.Equal(t, config.SectionHome, h.m.Section())
}

func TestModel_toast_lifecycle_through_ticks(t *testing.T) {
	h := newHarness(t)

	cmd := h.notice(notify.LevelInfo, "hola")
	require.NotNil(t, cmd, "a new toast starts the tick chain")

	ticks := 0
	for cmd != nil {
		cmd = h.tick(timelineTickInterval)
		ticks++
		require.Less(t, ticks, 200, "tick chain never stopped")
	}

	// settle + duration + exit transition
	want := int((toast.DefaultSettle + toast.DefaultDuration + toast.DefaultHideDelay) / timelineTickInterval)
	assert.Equal(t, want, ticks)
	assert.False(t, h.m.toastController.HasToasts())
}

func TestModel_error_toast_waits_for_user(t *testing.T) {
	h := newHarness(t)

	h.notice(notify.LevelError, "falló")
	h.tick(toast.DefaultSettle)
	h.tick(time.Minute)

	require.Len(t, h.m.toastController.Toasts(), 1)

	h.send(tuitest.KeyPress('x'))
	assert.Equal(t, toast.StateHiding, h.m.toastController.Toasts()[0].State)

	h.tick(toast.DefaultHideDelay)
	assert.False(t, h.m.toastController.HasToasts())
}

func TestModel_dismiss_all(t *testing.T) {
	h := newHarness(t)

	h.notice(notify.LevelWarning, "uno")
	h.notice(notify.LevelError, "dos")
	h.tick(toast.DefaultSettle)

	h.send(tuitest.KeyPress('X'))
	for _, n := range h.m.toastController.Toasts() {
		assert.Equal(t, toast.StateHiding, n.State, n.Message)
	}
}

func TestModel_menu_navigates_after_delay(t *testing.T) {
	h := newHarness(t)

	h.send(tuitest.KeyPress('m'))
	require.True(t, h.m.menu.PanelOpen())

	h.send(tuitest.KeyDown())
	h.send(tuitest.KeyEnter())

	assert.False(t, h.m.menu.PanelOpen())
	assert.True(t, h.m.menu.BackdropVisible())
	assert.False(t, h.m.loading)

	h.tick(components.BackdropHideDelay)
	assert.False(t, h.m.menu.BackdropVisible())
	assert.False(t, h.m.loading)

	h.tick(components.NavigateDelay - components.BackdropHideDelay)
	assert.True(t, h.m.loading, "navigation starts once the delay elapses")
}

func TestModel_download_flow(t *testing.T) {
	h := newHarness(t)
	h.load(config.SectionDownload, "/libro/", `<html><body><h1>Camino</h1></body></html>`)

	require.True(t, h.m.inputActive(), "email field takes focus")

	h.sendAll(tuitest.Type("ana@example.com"))
	cmd := h.send(tuitest.KeyEnter())
	require.NotNil(t, cmd)
	assert.Equal(t, leadform.StateSubmitting, h.m.download.Form().State())

	// q is text while the field has focus.
	h.send(tuitest.KeyPress('q'))
	assert.False(t, h.m.quitting)

	h.send(leadSubmittedMsg{res: site.LeadResult{Success: true, DownloadURL: "/libro/descargar/"}})
	assert.Equal(t, leadform.StateSucceeded, h.m.download.Form().State())

	h.tick(leadform.DownloadDelay - time.Millisecond)
	assert.False(t, h.m.download.downloading)

	h.tick(time.Millisecond)
	assert.True(t, h.m.download.downloading)

	h.send(downloadDoneMsg{path: "/tmp/capitulo-1.pdf"})
	require.True(t, h.m.successModal.Visible())
	assert.Contains(t, h.m.successModal.Message(), "/tmp/capitulo-1.pdf")
	assert.Equal(t, "/", h.m.successModal.Redirect())

	h.send(tuitest.KeyEnter())
	assert.False(t, h.m.successModal.Visible())

	h.send(components.SuccessClosedMsg{Redirect: "/"})
	assert.Equal(t, leadform.StateIdle, h.m.download.Form().State())
	assert.True(t, h.m.loading)
}

func TestModel_lead_general_error_becomes_toast(t *testing.T) {
	h := newHarness(t)
	h.load(config.SectionDownload, "/libro/", "")

	h.sendAll(tuitest.Type("ana@example.com"))
	h.send(tuitest.KeyEnter())
	h.send(leadSubmittedMsg{res: site.LeadResult{Error: "Demasiados intentos"}})

	assert.Equal(t, leadform.StateFailed, h.m.download.Form().State())
	assert.Equal(t, []string{"Demasiados intentos"}, h.messages())
	require.Len(t, h.store.items, 1)
	assert.Equal(t, h.m.cfg.Site.LeadPath, h.store.items[0].Source)
}

func TestModel_lead_email_error_stays_on_field(t *testing.T) {
	h := newHarness(t)
	h.load(config.SectionDownload, "/libro/", "")

	h.sendAll(tuitest.Type("ana@example.com"))
	h.send(tuitest.KeyEnter())
	h.send(leadSubmittedMsg{res: site.LeadResult{Errors: site.FieldErrors{"email": {"Ya registrado"}}}})

	assert.Equal(t, []string{"Ya registrado"}, h.m.download.Form().FieldErrors())
	assert.Empty(t, h.messages())
}

func TestModel_delete_flow(t *testing.T) {
	h := newHarness(t)
	h.load(config.SectionPrograms, "/programas/", programsListPage)
	require.Equal(t, 2, h.m.programs.Len())

	h.send(tuitest.KeyPress('d'))
	require.True(t, h.m.deleteModal.Visible())
	require.True(t, h.m.deleteModal.Disabled())

	// Ignored until the confirmation word is typed.
	h.send(tuitest.KeyEnter())
	assert.False(t, h.m.deleteModal.Loading())

	h.sendAll(tuitest.Type("ELIMINAR"))
	require.False(t, h.m.deleteModal.Disabled())
	h.send(tuitest.KeyEnter())
	assert.True(t, h.m.deleteModal.Loading())
	assert.Equal(t, components.DeletingLabel, h.m.deleteModal.ButtonLabel())

	h.send(deleteDoneMsg{
		url:  "/programas/3/eliminar/",
		page: site.Page{Path: "/programas/", Body: []byte(programsAfterDelete)},
	})

	assert.True(t, h.m.deleteModal.Closing())
	assert.Equal(t, 1, h.m.programs.Len())
	assert.Equal(t, []string{"Programa eliminado."}, h.messages())

	h.tick(components.DeleteCloseDelay)
	assert.False(t, h.m.deleteModal.Visible())
}

func TestModel_delete_failure(t *testing.T) {
	h := newHarness(t)
	h.load(config.SectionPrograms, "/programas/", programsListPage)

	h.send(tuitest.KeyDown())
	h.send(tuitest.KeyPress('d'))
	require.False(t, h.m.deleteModal.Disabled(), "second item needs no confirmation word")
	h.send(tuitest.KeyEnter())

	h.send(deleteDoneMsg{url: "/programas/4/eliminar/", err: assert.AnError})

	assert.True(t, h.m.deleteModal.Closing())
	assert.Equal(t, []string{msgDeleteFailed}, h.messages())
	assert.Equal(t, 2, h.m.programs.Len())
}

func TestModel_comment_flow(t *testing.T) {
	h := newHarness(t)
	h.load(config.SectionLesson, "/programas/sesion/1/", lessonThreadPage)
	require.Equal(t, 1, h.m.lesson.Thread().Len())

	h.send(tuitest.KeyPress('r'))
	require.True(t, h.m.lesson.Composing())
	assert.Equal(t, "1", h.m.lesson.Thread().Target())

	h.sendAll(tuitest.Type("Gracias"))
	cmd := h.send(tuitest.KeyCtrl('s'))
	require.NotNil(t, cmd)
	assert.True(t, h.m.lesson.Posting())

	h.send(commentPostedMsg{
		parentID: "1",
		res: site.CommentResult{
			Success: true,
			HTML:    `<div class="comment" data-comment-id="7"><div class="comment-meta"><span class="comment-author">ana</span></div><div class="comment-body"><p>Gracias</p></div></div>`,
		},
	})

	assert.False(t, h.m.lesson.Composing())
	assert.Equal(t, 2, h.m.lesson.Thread().Len())
	assert.Equal(t, []string{comments.MsgPosted}, h.messages())
	assert.Equal(t, "/programas/sesion/1/", h.store.items[0].Source)
}

func TestModel_comment_failure_keeps_form(t *testing.T) {
	h := newHarness(t)
	h.load(config.SectionLesson, "/programas/sesion/1/", lessonThreadPage)

	h.send(tuitest.KeyPress('c'))
	h.send(tuitest.KeyCtrl('s'))
	h.send(commentPostedMsg{res: site.CommentResult{Errors: site.FieldErrors{"content": {"Este campo es obligatorio."}}}})

	assert.True(t, h.m.lesson.Composing())
	assert.Equal(t, []string{"Este campo es obligatorio."}, h.messages())
	assert.Equal(t, toast.KindError, h.m.toastController.Manager().Live()[0].Kind)
}

func TestModel_history_clear(t *testing.T) {
	h := newHarness(t)
	h.notice(notify.LevelInfo, "guardada")
	require.Len(t, h.store.items, 1)

	h.send(tuitest.KeyPress('n'))
	require.Equal(t, stateShowingNotifications, h.m.state)
	assert.Contains(t, tuitest.StripANSI(h.m.render()), "guardada")

	h.send(tuitest.KeyPress('D'))
	require.NotNil(t, h.m.clearConfirm)

	h.send(tuitest.KeyPress('s'))
	assert.Nil(t, h.m.clearConfirm)
	assert.Empty(t, h.store.items)
	assert.Contains(t, h.messages(), msgHistoryCleared)

	h.send(tuitest.KeyEsc())
	assert.Equal(t, stateNormal, h.m.state)
}

func TestModel_dialogs_open_and_close(t *testing.T) {
	tests := []struct {
		name  string
		open  rune
		state UIState
		title string
	}{
		{"help", '?', stateShowingHelp, "Atajos de teclado"},
		{"info", 'i', stateShowingInfo, "Información"},
		{"history", 'n', stateShowingNotifications, "Notificaciones"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)

			h.send(tuitest.KeyPress(tt.open))
			require.Equal(t, tt.state, h.m.state)
			assert.Contains(t, tuitest.StripANSI(h.m.render()), tt.title)

			h.send(tuitest.KeyEsc())
			assert.Equal(t, stateNormal, h.m.state)
		})
	}
}

func TestModel_quit(t *testing.T) {
	h := newHarness(t)

	cmd := h.send(tuitest.KeyPress('q'))
	require.NotNil(t, cmd)
	assert.True(t, h.m.quitting)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestModel_View_sections(t *testing.T) {
	h := newHarness(t)

	h.load(config.SectionHome, "/", homePage)
	out := tuitest.StripANSI(h.m.render())
	assert.Contains(t, out, "Bienvenido a Aula")
	assert.Contains(t, out, "Aula")

	h.load(config.SectionPrograms, "/programas/", programsListPage)
	out = tuitest.StripANSI(h.m.render())
	assert.Contains(t, out, "Oratoria")
	assert.Contains(t, out, "Lectura")

	h.load(config.SectionLesson, "/programas/sesion/1/", lessonThreadPage)
	out = tuitest.StripANSI(h.m.render())
	assert.Contains(t, out, "maria")
	assert.True(t, strings.Contains(out, "Muy buena sesión"))
}
