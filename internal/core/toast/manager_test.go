package toast

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/aula/pkg/timeline"
)

var epoch = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

func newTestManager(t *testing.T) (*Manager, *timeline.Timeline) {
	t.Helper()
	tl := timeline.New(epoch)
	return NewManager(NewContainer(), tl, Config{}), tl
}

// at advances tl to epoch+d.
func at(tl *timeline.Timeline, d time.Duration) {
	tl.Advance(epoch.Add(d))
}

func TestManager_Create_success_lifecycle(t *testing.T) {
	m, tl := newTestManager(t)

	n, ok := m.Create("Saved", KindSuccess)
	require.True(t, ok)
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, StateCreated, n.State)
	assert.False(t, n.Visible)
	assert.True(t, n.AutoDismiss)
	assert.Equal(t, DefaultDuration, n.Duration)

	at(tl, DefaultSettle)
	shown, ok := m.Get(n.ID)
	require.True(t, ok)
	assert.Equal(t, StateShown, shown.State)
	assert.True(t, shown.Visible)
	assert.True(t, shown.ProgressVisible())
	assert.InDelta(t, 1.0, shown.Progress(tl.Now()), 0.0001)
	assert.InDelta(t, 0.5, shown.Progress(tl.Now().Add(DefaultDuration/2)), 0.0001)

	// Auto-dismiss fires 4000ms after show and starts the exit transition.
	at(tl, DefaultSettle+DefaultDuration)
	hiding, ok := m.Get(n.ID)
	require.True(t, ok)
	assert.Equal(t, StateHiding, hiding.State)
	assert.False(t, hiding.Visible)

	at(tl, DefaultSettle+DefaultDuration+DefaultHideDelay)
	_, ok = m.Get(n.ID)
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, 0, tl.Len())
}

func TestManager_non_error_kinds_auto_dismiss(t *testing.T) {
	for _, kind := range []Kind{KindSuccess, KindWarning, KindInfo} {
		t.Run(string(kind), func(t *testing.T) {
			m, tl := newTestManager(t)

			n, ok := m.Create("msg", kind)
			require.True(t, ok)

			at(tl, DefaultSettle+DefaultDuration+DefaultHideDelay)

			_, ok = m.Get(n.ID)
			assert.False(t, ok, "notification should be removed")
		})
	}
}

func TestManager_error_requires_explicit_close(t *testing.T) {
	m, tl := newTestManager(t)

	n, ok := m.Create("Failed", KindError)
	require.True(t, ok)
	assert.False(t, n.AutoDismiss)
	assert.False(t, n.ProgressVisible())
	assert.Zero(t, n.Duration)

	at(tl, DefaultSettle)
	assert.Equal(t, 0, tl.Len(), "error notifications schedule no removal timer")

	at(tl, time.Minute)
	still, ok := m.Get(n.ID)
	require.True(t, ok)
	assert.Equal(t, StateShown, still.State)
	assert.True(t, still.Visible)

	m.Close(n.ID)
	at(tl, time.Minute+DefaultHideDelay)
	_, ok = m.Get(n.ID)
	assert.False(t, ok)
}

func TestManager_Hide_twice_is_noop(t *testing.T) {
	m, tl := newTestManager(t)

	n, _ := m.Create("bye", KindInfo)
	at(tl, DefaultSettle)

	m.Hide(n.ID)
	m.Hide(n.ID)
	assert.Equal(t, 1, tl.Len(), "second hide must not schedule another removal")

	at(tl, DefaultSettle+DefaultHideDelay)
	assert.Equal(t, 0, m.Len())

	// Removed: further hides and shows are no-ops.
	m.Hide(n.ID)
	m.Show(n.ID)
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, 0, tl.Len())
}

func TestManager_manual_close_cancels_auto_dismiss(t *testing.T) {
	m, tl := newTestManager(t)

	n, _ := m.Create("closing early", KindSuccess)
	at(tl, DefaultSettle+time.Second)

	m.Close(n.ID)
	at(tl, DefaultSettle+time.Second+DefaultHideDelay)
	assert.Equal(t, 0, m.Len())

	// Nothing left to fire when the original dismiss deadline passes.
	assert.Equal(t, 0, tl.Len())
	at(tl, DefaultSettle+DefaultDuration+DefaultHideDelay)
	assert.Equal(t, 0, m.Len())
}

func TestManager_Initialize_cascades_in_document_order(t *testing.T) {
	c, err := ScanMarkup(strings.NewReader(threeToastPage))
	require.NoError(t, err)
	require.Equal(t, 3, c.Len())

	tl := timeline.New(epoch)
	m := NewManager(c, tl, Config{})
	m.Initialize()

	live := m.Live()
	for _, n := range live {
		assert.Equal(t, StateCreated, n.State)
	}

	var shownAt []time.Duration
	for step := time.Duration(0); step <= 300*time.Millisecond; step += 10 * time.Millisecond {
		at(tl, step)
		for _, n := range m.Live() {
			if n.State == StateShown && len(shownAt) < 3 && !n.ShownAt.IsZero() {
				offset := n.ShownAt.Sub(epoch)
				if !containsDuration(shownAt, offset) {
					shownAt = append(shownAt, offset)
				}
			}
		}
	}

	assert.Equal(t, []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond}, shownAt)

	live = m.Live()
	require.Len(t, live, 3)
	assert.True(t, live[0].ShownAt.Before(live[1].ShownAt))
	assert.True(t, live[1].ShownAt.Before(live[2].ShownAt))
	assert.Equal(t, "first", live[0].Message)
	assert.Equal(t, "third", live[2].Message)
}

func containsDuration(ds []time.Duration, d time.Duration) bool {
	for _, x := range ds {
		if x == d {
			return true
		}
	}
	return false
}

func TestManager_Initialize_runs_once(t *testing.T) {
	c, err := ScanMarkup(strings.NewReader(threeToastPage))
	require.NoError(t, err)

	tl := timeline.New(epoch)
	m := NewManager(c, tl, Config{})
	m.Initialize()
	m.Initialize()

	assert.Equal(t, 3, tl.Len())
}

func TestManager_Initialize_error_markup_stays(t *testing.T) {
	c, err := ScanMarkup(strings.NewReader(errorToastPage))
	require.NoError(t, err)

	tl := timeline.New(epoch)
	m := NewManager(c, tl, Config{})
	m.Initialize()

	at(tl, time.Minute)

	live := m.Live()
	require.Len(t, live, 1)
	assert.Equal(t, KindError, live[0].Kind)
	assert.True(t, live[0].Visible)
	assert.False(t, live[0].ProgressVisible())
}

func TestManager_inert_without_container(t *testing.T) {
	c, err := ScanMarkup(strings.NewReader(`<html><body><p>no toasts here</p></body></html>`))
	require.NoError(t, err)
	require.Nil(t, c)

	tl := timeline.New(epoch)
	m := NewManager(c, tl, Config{})

	assert.True(t, m.Inert())
	m.Initialize()
	_, ok := m.Create("ignored", KindSuccess)
	assert.False(t, ok)
	m.Show("x")
	m.Hide("x")
	m.Close("x")
	m.HideAll()
	m.Adopt(NewContainer())
	assert.False(t, m.CloseNewest())
	assert.Empty(t, m.Live())
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, 0, tl.Len())
}

func TestManager_ids_are_unique_and_increasing(t *testing.T) {
	m, _ := newTestManager(t)

	a, _ := m.Create("a", KindInfo)
	b, _ := m.Create("b", KindInfo)
	c, _ := m.Create("c", KindInfo)

	assert.Equal(t, "1741942800000", a.ID)
	assert.Equal(t, "1741942800001", b.ID)
	assert.Equal(t, "1741942800002", c.ID)
}

func TestManager_CreateWithDuration_override(t *testing.T) {
	m, tl := newTestManager(t)

	n, _ := m.CreateWithDuration("quick", KindInfo, time.Second)
	assert.Equal(t, time.Second, n.Duration)

	at(tl, DefaultSettle+time.Second)
	got, ok := m.Get(n.ID)
	require.True(t, ok)
	assert.Equal(t, StateHiding, got.State)

	e, _ := m.CreateWithDuration("sticky", KindError, time.Second)
	assert.Zero(t, e.Duration)
	assert.False(t, e.AutoDismiss)
}

func TestManager_Create_unknown_kind_defaults_to_info(t *testing.T) {
	m, _ := newTestManager(t)

	n, _ := m.Create("hm", Kind("shout"))
	assert.Equal(t, KindInfo, n.Kind)
	assert.True(t, n.AutoDismiss)
}

func TestManager_Create_sanitizes_message(t *testing.T) {
	m, _ := newTestManager(t)

	n, _ := m.Create(`<b>Tom</b> &amp;   <script>alert(1)</script>Jerry`, KindInfo)
	assert.Equal(t, "Tom & Jerry", n.Message)
}

func TestManager_Hide_before_show(t *testing.T) {
	m, tl := newTestManager(t)

	n, _ := m.Create("withdrawn", KindSuccess)
	m.Hide(n.ID)

	// The pending show finds the notification past the created state.
	at(tl, DefaultSettle)
	got, ok := m.Get(n.ID)
	require.True(t, ok)
	assert.Equal(t, StateHiding, got.State)
	assert.False(t, got.Visible)

	at(tl, DefaultHideDelay)
	assert.Equal(t, 0, m.Len())
}

func TestManager_CloseNewest(t *testing.T) {
	m, tl := newTestManager(t)

	a, _ := m.Create("older", KindError)
	b, _ := m.Create("newer", KindError)
	at(tl, DefaultSettle)

	require.True(t, m.CloseNewest())
	got, _ := m.Get(b.ID)
	assert.Equal(t, StateHiding, got.State)
	got, _ = m.Get(a.ID)
	assert.Equal(t, StateShown, got.State)

	require.True(t, m.CloseNewest())
	assert.False(t, m.CloseNewest())
}

func TestManager_Close_requires_matching_close_control(t *testing.T) {
	c, err := ScanMarkup(strings.NewReader(mismatchedCloseButtonPage))
	require.NoError(t, err)

	tl := timeline.New(epoch)
	m := NewManager(c, tl, Config{})
	m.Initialize()
	at(tl, 0)

	m.Close("42")
	got, ok := m.Get("42")
	require.True(t, ok)
	assert.Equal(t, StateShown, got.State)

	// Programmatic hide still works.
	m.Hide("42")
	got, _ = m.Get("42")
	assert.Equal(t, StateHiding, got.State)
}

func TestManager_Adopt_cascades_and_rekeys(t *testing.T) {
	m, tl := newTestManager(t)
	existing, _ := m.Create("already here", KindInfo)

	page, err := ScanMarkup(strings.NewReader(`<div id="toast-container">
		<div class="toast-message" data-message-type="success" data-message-id="` + existing.ID + `">clash</div>
		<div class="toast-message" data-message-type="warning" data-message-id="7">fine</div>
	</div>`))
	require.NoError(t, err)

	m.Adopt(page)
	assert.Equal(t, 0, page.Len())
	require.Equal(t, 3, m.Len())

	live := m.Live()
	assert.NotEqual(t, existing.ID, live[1].ID)
	assert.Equal(t, "7", live[2].ID)

	at(tl, 0)
	got, _ := m.Get(live[1].ID)
	assert.Equal(t, StateShown, got.State)
	got, _ = m.Get("7")
	assert.Equal(t, StateCreated, got.State)

	at(tl, DefaultStagger)
	got, _ = m.Get("7")
	assert.Equal(t, StateShown, got.State)
}

func TestManager_HideAll(t *testing.T) {
	m, tl := newTestManager(t)

	m.Create("a", KindError)
	m.Create("b", KindSuccess)
	at(tl, DefaultSettle)

	m.HideAll()
	at(tl, DefaultSettle+DefaultHideDelay)
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, 0, tl.Len())
}

func TestManager_Pending_tracks_timers_and_items(t *testing.T) {
	m, _ := newTestManager(t)
	assert.False(t, m.Pending())

	_, ok := m.Create("Guardado", KindInfo)
	require.True(t, ok)
	assert.True(t, m.Pending())

	m.Advance(epoch.Add(DefaultSettle + DefaultDuration + DefaultHideDelay))
	assert.False(t, m.Pending())
	assert.Equal(t, epoch.Add(DefaultSettle+DefaultDuration+DefaultHideDelay), m.Now())
}
