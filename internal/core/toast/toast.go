// Package toast implements the lifecycle of transient notifications ("toasts").
//
// A Manager owns an ordered Container of notifications, shows them after a
// short settle delay (or staggered, for notifications rendered by the server
// before startup), dismisses them automatically after a duration, and
// removes them once their exit transition has finished. Error notifications
// are never dismissed automatically; they wait for the user.
//
// All timing is driven by a timeline.Timeline, so the manager is fully
// deterministic under test. No manager operation returns an error: acting on
// a notification that no longer exists, or on a manager without a container,
// does nothing.
package toast

import (
	"strings"
	"time"
)

// Kind is the category of a notification. It selects the icon and color and
// decides whether the notification dismisses itself.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
)

// Kinds lists every supported kind.
var Kinds = []Kind{KindSuccess, KindError, KindWarning, KindInfo}

// ParseKind maps s to a Kind. Unknown or empty values map to KindInfo and
// report false.
func ParseKind(s string) (Kind, bool) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindSuccess:
		return KindSuccess, true
	case KindError:
		return KindError, true
	case KindWarning:
		return KindWarning, true
	case KindInfo:
		return KindInfo, true
	default:
		return KindInfo, false
	}
}

// AutoDismiss reports whether notifications of this kind dismiss themselves.
func (k Kind) AutoDismiss() bool {
	return k != KindError
}

// State is a notification's position in its lifecycle.
type State int

const (
	StateCreated State = iota
	StateShown
	StateHiding
	StateRemoved
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateShown:
		return "shown"
	case StateHiding:
		return "hiding"
	case StateRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Notification is a single toast. Values handed out by the Manager are
// snapshots; mutating them has no effect on the live notification.
type Notification struct {
	ID          string
	Kind        Kind
	Message     string
	Visible     bool
	AutoDismiss bool
	State       State

	// Duration is the auto-dismiss delay. Zero for error notifications.
	Duration time.Duration
	// HasProgress is true when the notification carries a progress bar.
	HasProgress bool
	// Closable is true when the notification has a close control linked
	// to its id.
	Closable bool

	CreatedAt time.Time
	ShownAt   time.Time
}

// ProgressVisible reports whether the progress bar should be drawn. Error
// notifications never show one.
func (n Notification) ProgressVisible() bool {
	return n.HasProgress && n.AutoDismiss
}

// Progress returns the fraction of the auto-dismiss duration still remaining
// at now, from 1 (just shown) to 0 (due for dismissal). Notifications that
// are not auto-dismissed or not yet shown report 1 if they carry a bar and
// 0 otherwise.
func (n Notification) Progress(now time.Time) float64 {
	if !n.ProgressVisible() {
		return 0
	}
	if n.ShownAt.IsZero() || n.Duration <= 0 {
		return 1
	}

	elapsed := now.Sub(n.ShownAt)
	switch {
	case elapsed <= 0:
		return 1
	case elapsed >= n.Duration:
		return 0
	}
	return 1 - float64(elapsed)/float64(n.Duration)
}
