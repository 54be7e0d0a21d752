package toast

// Container is the ordered set of live notifications, in the order they were
// added (document order for notifications scanned from markup). Only the
// Manager mutates a container once it has been handed over.
type Container struct {
	items []*Notification
	byID  map[string]*Notification
}

// NewContainer returns an empty container.
func NewContainer() *Container {
	return &Container{byID: make(map[string]*Notification)}
}

// Len returns the number of notifications in the container.
func (c *Container) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// Get returns a snapshot of the notification with the given id.
func (c *Container) Get(id string) (Notification, bool) {
	n := c.lookup(id)
	if n == nil {
		return Notification{}, false
	}
	return *n, true
}

// List returns snapshots of all notifications in order.
func (c *Container) List() []Notification {
	if c == nil {
		return nil
	}
	out := make([]Notification, 0, len(c.items))
	for _, n := range c.items {
		out = append(out, *n)
	}
	return out
}

func (c *Container) lookup(id string) *Notification {
	if c == nil {
		return nil
	}
	return c.byID[id]
}

func (c *Container) add(n *Notification) {
	c.items = append(c.items, n)
	c.byID[n.ID] = n
}

// remove deletes the notification and reports whether it was present.
func (c *Container) remove(id string) bool {
	n, ok := c.byID[id]
	if !ok {
		return false
	}
	delete(c.byID, id)
	for i, item := range c.items {
		if item == n {
			c.items = append(c.items[:i], c.items[i+1:]...)
			break
		}
	}
	return true
}
