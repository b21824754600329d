package store

import (
	"context"
	"fmt"
)

// AddTodo appends a task to a user's list and returns its id. A dueTS
// of zero means no due date.
func (s *SQLiteStore) AddTodo(ctx context.Context, userID int64, task string, dueTS int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO todos (user_id, task, due_ts, created_ts) VALUES (?, ?, ?, ?)
	`, userID, task, dueTS, nowUnix())
	if err != nil {
		return 0, storageErr(fmt.Sprintf("add todo user %d", userID), err)
	}
	id, _ := res.LastInsertId()
	return id, nil
}

// UserTodos returns a user's open tasks, oldest first.
func (s *SQLiteStore) UserTodos(ctx context.Context, userID int64) ([]Todo, error) {
	var rows []Todo
	err := s.db.SelectContext(ctx, &rows,
		"SELECT * FROM todos WHERE user_id = ? AND done = 0 ORDER BY id", userID)
	if err != nil {
		return nil, storageErr(fmt.Sprintf("user todos %d", userID), err)
	}
	return rows, nil
}

// CompleteTodo marks a task done.
func (s *SQLiteStore) CompleteTodo(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "UPDATE todos SET done = 1 WHERE id = ?", id)
	return storageErr(fmt.Sprintf("complete todo %d", id), err)
}

// ArchiveEvent appends a free-form event record to the archive.
func (s *SQLiteStore) ArchiveEvent(ctx context.Context, guildID int64, kind, payloadJSON string) error {
	if payloadJSON == "" {
		payloadJSON = "{}"
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO archive (guild_id, kind, payload, ts) VALUES (?, ?, ?, ?)
	`, guildID, kind, payloadJSON, nowUnix())
	return storageErr(fmt.Sprintf("archive event %s", kind), err)
}

// RecentEvents returns the newest archived events of one kind.
func (s *SQLiteStore) RecentEvents(ctx context.Context, kind string, limit int) ([]ArchiveEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []ArchiveEntry
	err := s.db.SelectContext(ctx, &rows,
		"SELECT * FROM archive WHERE kind = ? ORDER BY ts DESC, id DESC LIMIT ?", kind, limit)
	if err != nil {
		return nil, storageErr(fmt.Sprintf("recent events %s", kind), err)
	}
	return rows, nil
}
