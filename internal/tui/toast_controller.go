package tui

import (
	"github.com/colonyops/aula/internal/core/notify"
	"github.com/colonyops/aula/internal/core/toast"
)

const toastWidth = 48

// ToastController connects notification sources to the toast manager.
// Bus notifications become created toasts; containers scanned from fetched
// pages are adopted and cascade in.
type ToastController struct {
	manager *toast.Manager
}

func NewToastController(manager *toast.Manager) *ToastController {
	return &ToastController{manager: manager}
}

// Manager returns the underlying lifecycle manager.
func (c *ToastController) Manager() *toast.Manager {
	return c.manager
}

// Push creates a toast for a bus notification. Levels map onto kinds by
// name.
func (c *ToastController) Push(n notify.Notification) {
	kind, _ := toast.ParseKind(string(n.Level))
	c.manager.Create(n.Message, kind)
}

// Ingest adopts notifications rendered into a fetched page.
func (c *ToastController) Ingest(container *toast.Container) {
	if container == nil {
		return
	}
	c.manager.Adopt(container)
}

// Dismiss closes the newest toast on screen.
func (c *ToastController) Dismiss() bool {
	return c.manager.CloseNewest()
}

// DismissAll starts the exit transition of every toast.
func (c *ToastController) DismissAll() {
	c.manager.HideAll()
}

// HasToasts returns true if any toast is still in the container.
func (c *ToastController) HasToasts() bool {
	return c.manager.Len() > 0
}

// Toasts returns the toasts that occupy screen space: shown ones and those
// in their exit transition.
func (c *ToastController) Toasts() []toast.Notification {
	live := c.manager.Live()
	out := live[:0]
	for _, n := range live {
		if n.State == toast.StateShown || n.State == toast.StateHiding {
			out = append(out, n)
		}
	}
	return out
}
