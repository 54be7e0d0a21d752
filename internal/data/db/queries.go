package db

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// Queries runs the statements of the notification history.
type Queries struct {
	db DBTX
}

// New binds queries to a connection or transaction.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a copy of q bound to tx.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// Notification is a row of the notifications table. CreatedAt is stored as
// Unix nanoseconds.
type Notification struct {
	ID        int64
	Level     string
	Message   string
	Source    string
	CreatedAt int64
}

type InsertNotificationParams struct {
	Level     string
	Message   string
	Source    string
	CreatedAt int64
}

const insertNotification = `
INSERT INTO notifications (level, message, source, created_at)
VALUES (?, ?, ?, ?)
RETURNING id`

func (q *Queries) InsertNotification(ctx context.Context, arg InsertNotificationParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, insertNotification, arg.Level, arg.Message, arg.Source, arg.CreatedAt)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const listNotifications = `
SELECT id, level, message, source, created_at
FROM notifications
ORDER BY created_at DESC, id DESC`

func (q *Queries) ListNotifications(ctx context.Context) ([]Notification, error) {
	rows, err := q.db.QueryContext(ctx, listNotifications)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := []Notification{}
	for rows.Next() {
		var i Notification
		if err := rows.Scan(&i.ID, &i.Level, &i.Message, &i.Source, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteAllNotifications = `DELETE FROM notifications`

func (q *Queries) DeleteAllNotifications(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllNotifications)
	return err
}

const countNotifications = `SELECT COUNT(*) FROM notifications`

func (q *Queries) CountNotifications(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countNotifications)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const pruneNotifications = `
DELETE FROM notifications
WHERE id NOT IN (
    SELECT id FROM notifications ORDER BY created_at DESC, id DESC LIMIT ?
)`

// PruneNotifications keeps the newest keep rows and deletes the rest,
// returning the number deleted.
func (q *Queries) PruneNotifications(ctx context.Context, keep int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, pruneNotifications, keep)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
