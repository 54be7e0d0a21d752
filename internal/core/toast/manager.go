package toast

import (
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/colonyops/aula/pkg/timeline"
)

const (
	DefaultDuration  = 4000 * time.Millisecond
	DefaultStagger   = 100 * time.Millisecond
	DefaultSettle    = 100 * time.Millisecond
	DefaultHideDelay = 300 * time.Millisecond
)

// Config holds the manager's timing. Zero fields take their defaults.
type Config struct {
	// Duration is how long a non-error notification stays visible.
	Duration time.Duration
	// Stagger separates the appearance of consecutive pre-rendered
	// notifications.
	Stagger time.Duration
	// Settle is the delay between creating a notification and showing it.
	Settle time.Duration
	// HideDelay matches the exit transition; the notification is removed
	// once it elapses.
	HideDelay time.Duration
}

// DefaultConfig returns the standard timings.
func DefaultConfig() Config {
	return Config{
		Duration:  DefaultDuration,
		Stagger:   DefaultStagger,
		Settle:    DefaultSettle,
		HideDelay: DefaultHideDelay,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Duration <= 0 {
		c.Duration = d.Duration
	}
	if c.Stagger <= 0 {
		c.Stagger = d.Stagger
	}
	if c.Settle <= 0 {
		c.Settle = d.Settle
	}
	if c.HideDelay <= 0 {
		c.HideDelay = d.HideDelay
	}
	return c
}

var messagePolicy = bluemonday.StrictPolicy()

// Manager owns the lifecycle of every notification in its container.
// A Manager with a nil container is inert: every operation is a no-op.
//
// Manager is not safe for concurrent use; it shares the single-threaded
// discipline of the timeline that drives it.
type Manager struct {
	container   *Container
	tl          *timeline.Timeline
	cfg         Config
	initialized bool
	lastID      int64

	// dismiss holds the pending auto-dismiss timer of each shown
	// notification, canceled on manual close.
	dismiss map[string]*timeline.Token
}

// NewManager creates a manager over container, scheduling on tl.
func NewManager(container *Container, tl *timeline.Timeline, cfg Config) *Manager {
	return &Manager{
		container: container,
		tl:        tl,
		cfg:       cfg.withDefaults(),
		dismiss:   make(map[string]*timeline.Token),
	}
}

// Config returns the effective timings.
func (m *Manager) Config() Config {
	return m.cfg
}

// Inert reports whether the manager has no container.
func (m *Manager) Inert() bool {
	return m.container == nil
}

// Initialize shows the notifications already present in the container, in
// order, the i-th one starting i*Stagger after now. Calling it again does
// nothing.
func (m *Manager) Initialize() {
	if m.Inert() || m.initialized {
		return
	}
	m.initialized = true

	for _, n := range m.container.items {
		m.prepare(n)
	}
	m.cascade(m.container.items)
}

// Adopt moves the notifications of another container (typically one scanned
// from a freshly fetched page) into the manager's container and cascades
// them in exactly as Initialize does. Ids that clash with live notifications
// are replaced.
func (m *Manager) Adopt(other *Container) {
	if m.Inert() || other == nil || other == m.container {
		return
	}

	adopted := make([]*Notification, 0, len(other.items))
	for _, n := range other.items {
		if n.State != StateCreated {
			continue
		}
		if n.ID == "" || m.container.lookup(n.ID) != nil {
			n.ID = m.nextID()
		}
		m.prepare(n)
		m.container.add(n)
		adopted = append(adopted, n)
	}
	other.items = nil
	other.byID = make(map[string]*Notification)

	m.cascade(adopted)
}

func (m *Manager) cascade(items []*Notification) {
	for i, n := range items {
		id := n.ID
		m.tl.After(time.Duration(i)*m.cfg.Stagger, func() { m.Show(id) })
	}
}

// prepare enforces the kind policy on a notification that did not come
// from Create.
func (m *Manager) prepare(n *Notification) {
	n.AutoDismiss = n.Kind.AutoDismiss()
	if n.AutoDismiss {
		n.Duration = m.cfg.Duration
	} else {
		n.Duration = 0
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = m.tl.Now()
	}
}

// Create adds a notification and shows it after the settle delay. It returns
// a snapshot of the new notification, or false when the manager is inert.
func (m *Manager) Create(message string, kind Kind) (Notification, bool) {
	return m.CreateWithDuration(message, kind, 0)
}

// CreateWithDuration is Create with an auto-dismiss duration override.
// Durations <= 0 use the configured default. Error notifications ignore the
// override because they never dismiss themselves.
func (m *Manager) CreateWithDuration(message string, kind Kind, d time.Duration) (Notification, bool) {
	if m.Inert() {
		return Notification{}, false
	}
	kind, _ = ParseKind(string(kind))

	if d <= 0 {
		d = m.cfg.Duration
	}

	n := &Notification{
		ID:          m.nextID(),
		Kind:        kind,
		Message:     SanitizeMessage(message),
		AutoDismiss: kind.AutoDismiss(),
		HasProgress: true,
		Closable:    true,
		State:       StateCreated,
		CreatedAt:   m.tl.Now(),
	}
	if n.AutoDismiss {
		n.Duration = d
	}

	m.container.add(n)

	id := n.ID
	m.tl.After(m.cfg.Settle, func() { m.Show(id) })

	return *n, true
}

// Show makes a created notification visible and, unless it is an error,
// starts its auto-dismiss timer. Notifications that are missing or past the
// created state are left alone.
func (m *Manager) Show(id string) {
	n := m.container.lookup(id)
	if n == nil || n.State != StateCreated {
		return
	}

	n.State = StateShown
	n.Visible = true
	n.ShownAt = m.tl.Now()

	if !n.AutoDismiss {
		return
	}
	m.dismiss[id] = m.tl.After(n.Duration, func() { m.Hide(id) })
}

// Hide starts the exit transition and schedules removal once HideDelay has
// elapsed. Hiding a notification that is already hiding, removed, or missing
// does nothing, so a timer firing after a manual close is harmless.
func (m *Manager) Hide(id string) {
	n := m.container.lookup(id)
	if n == nil {
		return
	}
	if n.State != StateCreated && n.State != StateShown {
		return
	}

	if tok, ok := m.dismiss[id]; ok {
		tok.Cancel()
		delete(m.dismiss, id)
	}

	n.State = StateHiding
	n.Visible = false

	m.tl.After(m.cfg.HideDelay, func() { m.remove(id) })
}

func (m *Manager) remove(id string) {
	n := m.container.lookup(id)
	if n == nil {
		return
	}
	n.State = StateRemoved
	m.container.remove(id)
}

// Close handles activation of a notification's close control. Notifications
// without a matching close control ignore it.
func (m *Manager) Close(id string) {
	n := m.container.lookup(id)
	if n == nil || !n.Closable {
		return
	}
	m.Hide(id)
}

// CloseNewest closes the most recently added notification that is still
// on screen. It reports whether one was found.
func (m *Manager) CloseNewest() bool {
	if m.Inert() {
		return false
	}
	for i := len(m.container.items) - 1; i >= 0; i-- {
		n := m.container.items[i]
		if n.State == StateShown && n.Closable {
			m.Close(n.ID)
			return true
		}
	}
	return false
}

// HideAll starts the exit transition of every notification on screen.
func (m *Manager) HideAll() {
	if m.Inert() {
		return
	}
	ids := make([]string, 0, len(m.container.items))
	for _, n := range m.container.items {
		ids = append(ids, n.ID)
	}
	for _, id := range ids {
		m.Hide(id)
	}
}

// Get returns a snapshot of the notification with the given id.
func (m *Manager) Get(id string) (Notification, bool) {
	return m.container.Get(id)
}

// Live returns snapshots of every notification still in the container,
// including those in their exit transition.
func (m *Manager) Live() []Notification {
	return m.container.List()
}

// Len returns the number of notifications in the container.
func (m *Manager) Len() int {
	return m.container.Len()
}

// Now returns the manager's current time.
func (m *Manager) Now() time.Time {
	return m.tl.Now()
}

// Advance moves the clock to now and fires every timer that became due.
// It returns the number of callbacks run.
func (m *Manager) Advance(now time.Time) int {
	return m.tl.Advance(now)
}

// Pending reports whether any timer is scheduled or any notification is
// still in the container.
func (m *Manager) Pending() bool {
	return m.tl.Len() > 0 || m.Len() > 0
}

// nextID returns a creation-timestamp id in milliseconds, bumped so that ids
// are strictly increasing and never collide with a live notification.
func (m *Manager) nextID() string {
	ms := m.tl.Now().UnixMilli()
	if ms <= m.lastID {
		ms = m.lastID + 1
	}
	for m.container.lookup(strconv.FormatInt(ms, 10)) != nil {
		ms++
	}
	m.lastID = ms
	return strconv.FormatInt(ms, 10)
}

// SanitizeMessage strips markup from a message and collapses whitespace.
func SanitizeMessage(s string) string {
	clean := html.UnescapeString(messagePolicy.Sanitize(s))
	return strings.Join(strings.Fields(clean), " ")
}
