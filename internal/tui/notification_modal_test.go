package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/aula/internal/core/notify"
	"github.com/colonyops/aula/internal/core/styles"
	tuinotify "github.com/colonyops/aula/internal/tui/notify"
	"github.com/colonyops/aula/pkg/tuitest"
)

func modalContent(m *NotificationModal) string {
	return tuitest.StripANSI(m.viewport.View())
}

func TestNotificationModal_empty_history(t *testing.T) {
	m := NewNotificationModal(&stubStore{}, 100, 40)
	assert.Contains(t, modalContent(m), "Sin notificaciones")
}

func TestNotificationModal_without_store(t *testing.T) {
	m := NewNotificationModal(nil, 100, 40)
	assert.Contains(t, modalContent(m), "Sin notificaciones")
	require.NoError(t, m.Clear())
}

func TestNotificationModal_populated_history(t *testing.T) {
	store := &stubStore{}
	bus := tuinotify.NewBus(store)

	bus.Infof("first message")
	bus.Errorf("second message")
	bus.Record(notify.Notification{Level: notify.LevelSuccess, Message: "third message", Source: "/programas/"})

	content := modalContent(NewNotificationModal(store, 100, 40))

	assert.Contains(t, content, "first message")
	assert.Contains(t, content, "second message")
	assert.Contains(t, content, "third message")
	assert.Contains(t, content, "/programas/")
}

func TestNotificationModal_history_error(t *testing.T) {
	store := &stubStore{listErr: errors.New("db connection failed")}

	content := modalContent(NewNotificationModal(store, 100, 40))

	assert.Contains(t, content, "no se pudo cargar el historial")
	assert.Contains(t, content, "db connection failed")
}

func TestNotificationModal_Clear_removes_notifications(t *testing.T) {
	store := &stubStore{}
	tuinotify.NewBus(store).Infof("will be cleared")

	m := NewNotificationModal(store, 100, 40)
	require.Contains(t, modalContent(m), "will be cleared")

	require.NoError(t, m.Clear())
	assert.Contains(t, modalContent(m), "Sin notificaciones")
}

func TestNotificationModal_Clear_returns_store_error(t *testing.T) {
	store := &stubStore{clearErr: errors.New("clear failed")}

	err := NewNotificationModal(store, 100, 40).Clear()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "clear failed")
}

func TestNotificationModal_Overlay(t *testing.T) {
	m := NewNotificationModal(&stubStore{}, 100, 40)

	out := tuitest.StripANSI(m.Overlay("fondo", 100, 40))
	assert.Contains(t, out, "Notificaciones")
	assert.Contains(t, out, "[D] borrar todo")
}

func TestNotificationModal_formatNotification_levels(t *testing.T) {
	now := time.Date(2026, 1, 15, 14, 30, 45, 0, time.UTC)

	tests := []struct {
		level notify.Level
		icon  string
	}{
		{notify.LevelSuccess, styles.IconNotifySuccess},
		{notify.LevelInfo, styles.IconNotifyInfo},
		{notify.LevelWarning, styles.IconNotifyWarning},
		{notify.LevelError, styles.IconNotifyError},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			n := notify.Notification{
				Level:     tt.level,
				Message:   "test",
				CreatedAt: now,
			}
			out := tuitest.StripANSI(formatNotification(n))
			assert.Contains(t, out, tt.icon)
			assert.Contains(t, out, "14:30:45")
			assert.Contains(t, out, "test")
			assert.NotContains(t, out, iconDot)
		})
	}
}

func TestCalcNotificationModalWidth(t *testing.T) {
	assert.Equal(t, 80, calcNotificationModalWidth(100))
	assert.Equal(t, 56, calcNotificationModalWidth(60), "never wider than the terminal minus the margin")
	assert.Equal(t, 130, calcNotificationModalWidth(200))
}

func TestNotificationModal_groups_by_day(t *testing.T) {
	store := &stubStore{}
	day1 := time.Date(2026, 3, 11, 18, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC)
	_, _ = store.Save(context.Background(), notify.Notification{Level: notify.LevelInfo, Message: "ayer", CreatedAt: day1})
	_, _ = store.Save(context.Background(), notify.Notification{Level: notify.LevelInfo, Message: "hoy", CreatedAt: day2})

	m := NewNotificationModal(store, 100, 40)
	content := modalContent(m)

	assert.Less(t, strings.Index(content, "2026-03-12"), strings.Index(content, "hoy"))
	assert.Less(t, strings.Index(content, "hoy"), strings.Index(content, "2026-03-11"))
	assert.Less(t, strings.Index(content, "2026-03-11"), strings.Index(content, "ayer"))

	assert.Contains(t, tuitest.StripANSI(m.Overlay("", 100, 40)), "Notificaciones (2)")
}
