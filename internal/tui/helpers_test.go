package tui

import (
	"context"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/aula/internal/core/config"
	"github.com/colonyops/aula/internal/core/notify"
	"github.com/colonyops/aula/internal/core/site"
)

// stubStore is a minimal notify.Store for testing that can optionally return errors.
type stubStore struct {
	items    []notify.Notification
	nextID   int64
	listErr  error
	clearErr error
}

func (s *stubStore) Save(_ context.Context, n notify.Notification) (int64, error) {
	s.nextID++
	n.ID = s.nextID
	s.items = append(s.items, n)
	return n.ID, nil
}

func (s *stubStore) List(_ context.Context) ([]notify.Notification, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]notify.Notification, len(s.items))
	for i, n := range s.items {
		out[len(s.items)-1-i] = n
	}
	return out, nil
}

func (s *stubStore) Clear(_ context.Context) error {
	if s.clearErr != nil {
		return s.clearErr
	}
	s.items = nil
	return nil
}

func (s *stubStore) Count(_ context.Context) (int64, error) {
	return int64(len(s.items)), nil
}

// fakeClient records requests and answers with canned results.
type fakeClient struct {
	pages     map[string]site.Page
	lead      site.LeadResult
	comment   site.CommentResult
	afterDrop site.Page

	fetched   []string
	leads     []site.LeadRequest
	downloads []string
	comments  []site.CommentRequest
	deleted   []string
}

func (c *fakeClient) FetchPage(_ context.Context, path string) (site.Page, error) {
	c.fetched = append(c.fetched, path)
	if p, ok := c.pages[path]; ok {
		return p, nil
	}
	return site.Page{Path: path}, nil
}

func (c *fakeClient) SubmitLead(_ context.Context, req site.LeadRequest) (site.LeadResult, error) {
	c.leads = append(c.leads, req)
	return c.lead, nil
}

func (c *fakeClient) Download(_ context.Context, ref, dir string) (string, error) {
	c.downloads = append(c.downloads, ref)
	return dir + "/capitulo-1.pdf", nil
}

func (c *fakeClient) PostComment(_ context.Context, _ string, req site.CommentRequest) (site.CommentResult, error) {
	c.comments = append(c.comments, req)
	return c.comment, nil
}

func (c *fakeClient) Delete(_ context.Context, target string) (site.Page, error) {
	c.deleted = append(c.deleted, target)
	return c.afterDrop, nil
}

func (c *fakeClient) BaseURL() string { return "http://aula.test" }

// fakeClock is a manually advanced clock.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

// harness drives a Model through Update the way the Bubble Tea runtime does.
type harness struct {
	t      *testing.T
	m      Model
	client *fakeClient
	clock  *fakeClock
	store  *stubStore
}

func newHarness(t *testing.T, mutate ...func(*config.Config)) *harness {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	for _, fn := range mutate {
		fn(&cfg)
	}

	h := &harness{
		t:      t,
		client: &fakeClient{pages: map[string]site.Page{}},
		clock:  &fakeClock{now: time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC)},
		store:  &stubStore{},
	}
	h.m = New(&cfg, Options{
		Client: h.client,
		Store:  h.store,
		Now:    h.clock.Now,
	})

	// Consume the tick Init would have scheduled.
	h.send(timelineTickMsg(h.clock.now))
	h.send(tea.WindowSizeMsg{Width: 120, Height: 40})
	return h
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	h.t.Helper()
	result, cmd := h.m.Update(msg)
	h.m = result.(Model)
	return cmd
}

func (h *harness) sendAll(msgs []tea.Msg) {
	h.t.Helper()
	for _, msg := range msgs {
		h.send(msg)
	}
}

// tick moves the clock forward by d and delivers a timeline tick.
func (h *harness) tick(d time.Duration) tea.Cmd {
	h.t.Helper()
	h.clock.now = h.clock.now.Add(d)
	return h.send(timelineTickMsg(h.clock.now))
}

// load delivers a fetched page for section.
func (h *harness) load(section, path, body string) {
	h.t.Helper()
	h.send(pageLoadedMsg{
		path:    path,
		section: section,
		page:    site.Page{Path: path, URL: "http://aula.test" + path, Body: []byte(body)},
	})
}

// notice publishes a notification on the bus and delivers a tick at the
// current time, which restarts the tick chain if it had stopped.
func (h *harness) notice(level notify.Level, message string) tea.Cmd {
	h.t.Helper()
	h.m.notifyBus.Publish(notify.Notification{Level: level, Message: message})
	return h.tick(0)
}

func (h *harness) messages() []string {
	toasts := h.m.toastController.Manager().Live()
	out := make([]string, 0, len(toasts))
	for _, n := range toasts {
		out = append(out, n.Message)
	}
	return out
}
