// Package notify routes TUI notifications to the toast stack and the
// persisted history.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/colonyops/aula/internal/core/notify"
)

// Subscriber receives every published notification.
type Subscriber func(notify.Notification)

// Bus dispatches notifications inline to its subscribers after saving them
// to the store. A nil store skips persistence.
type Bus struct {
	store notify.Store
	now   func() time.Time

	mu          sync.Mutex
	subscribers []Subscriber
}

// Option configures a Bus.
type Option func(*Bus)

// WithClock stamps notifications with now instead of the wall clock.
func WithClock(now func() time.Time) Option {
	return func(b *Bus) { b.now = now }
}

func NewBus(store notify.Store, opts ...Option) *Bus {
	b := &Bus{store: store, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Bus) Subscribe(fn Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, fn)
}

// save stamps n and persists it, returning n with the store's id.
func (b *Bus) save(n notify.Notification) notify.Notification {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = b.now()
	}
	if b.store == nil {
		return n
	}

	id, err := b.store.Save(context.Background(), n)
	if err != nil {
		log.Error().Err(err).Str("level", string(n.Level)).Str("message", n.Message).Msg("failed to persist notification")
		return n
	}
	n.ID = id
	return n
}

// Publish saves n and hands it to every subscriber.
func (b *Bus) Publish(n notify.Notification) {
	n = b.save(n)

	b.mu.Lock()
	subs := append([]Subscriber(nil), b.subscribers...)
	b.mu.Unlock()

	for _, fn := range subs {
		fn(n)
	}
}

// Record saves n without dispatching it. Toasts adopted from a fetched page
// are already on screen and only need to reach the history.
func (b *Bus) Record(n notify.Notification) {
	b.save(n)
}

// Report publishes a notification attributed to source, usually the page
// path it concerns.
func (b *Bus) Report(source string, level notify.Level, message string) {
	b.Publish(notify.Notification{Level: level, Message: message, Source: source})
}

func (b *Bus) publishf(level notify.Level, format string, args []any) {
	b.Publish(notify.Notification{Level: level, Message: fmt.Sprintf(format, args...)})
}

func (b *Bus) Successf(format string, args ...any) { b.publishf(notify.LevelSuccess, format, args) }
func (b *Bus) Infof(format string, args ...any)    { b.publishf(notify.LevelInfo, format, args) }
func (b *Bus) Warnf(format string, args ...any)    { b.publishf(notify.LevelWarning, format, args) }
func (b *Bus) Errorf(format string, args ...any)   { b.publishf(notify.LevelError, format, args) }
