package tui

import (
	"time"

	tea "charm.land/bubbletea/v2"
)

// timelineTickInterval is how often the shared timeline is advanced while
// timers or toasts are pending.
const timelineTickInterval = 50 * time.Millisecond

// timelineTickMsg carries the wall clock time the timeline advances to.
type timelineTickMsg time.Time

// scheduleTimelineTick returns a command that schedules the next timeline
// tick.
func scheduleTimelineTick() tea.Cmd {
	return tea.Tick(timelineTickInterval, func(t time.Time) tea.Msg {
		return timelineTickMsg(t)
	})
}
