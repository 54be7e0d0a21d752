// Package notify defines the persisted history of user-facing notifications.
package notify

import (
	"context"
	"time"
)

// Level represents the severity of a notification. Levels share their names
// with toast kinds so history entries map one-to-one onto toasts.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification represents a single notification event.
type Notification struct {
	ID        int64
	Level     Level
	Message   string
	// Source names where the notification came from, such as a page path
	// or a form. Empty for notifications raised by the client itself.
	Source    string
	CreatedAt time.Time
}

// Store persists notifications to durable storage.
type Store interface {
	Save(ctx context.Context, n Notification) (int64, error)
	List(ctx context.Context) ([]Notification, error)
	Clear(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
}
