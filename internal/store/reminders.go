package store

import (
	"context"
	"fmt"
)

// AddReminder schedules a one-shot reminder and returns its id.
func (s *SQLiteStore) AddReminder(ctx context.Context, userID, guildID, channelID int64, message string, remindAt int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO reminders (user_id, guild_id, channel_id, message, remind_at)
		VALUES (?, ?, ?, ?, ?)
	`, userID, guildID, channelID, message, remindAt)
	if err != nil {
		return 0, storageErr(fmt.Sprintf("add reminder user %d", userID), err)
	}
	id, _ := res.LastInsertId()
	return id, nil
}

// PendingReminders returns every unsent reminder due at or before
// untilTS, oldest first. Dispatch acks each row separately with
// MarkReminderSent, so a crash in between re-delivers on the next tick
// (at-least-once).
func (s *SQLiteStore) PendingReminders(ctx context.Context, untilTS int64) ([]Reminder, error) {
	var rows []Reminder
	err := s.db.SelectContext(ctx, &rows,
		"SELECT * FROM reminders WHERE sent = 0 AND remind_at <= ? ORDER BY remind_at, id",
		untilTS)
	if err != nil {
		return nil, storageErr("pending reminders", err)
	}
	return rows, nil
}

// MarkReminderSent flips a reminder's sent flag; it never appears in
// PendingReminders again.
func (s *SQLiteStore) MarkReminderSent(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "UPDATE reminders SET sent = 1 WHERE id = ?", id)
	return storageErr(fmt.Sprintf("mark reminder sent %d", id), err)
}

// UserReminders returns a user's unsent reminders, soonest first.
func (s *SQLiteStore) UserReminders(ctx context.Context, userID int64) ([]Reminder, error) {
	var rows []Reminder
	err := s.db.SelectContext(ctx, &rows,
		"SELECT * FROM reminders WHERE user_id = ? AND sent = 0 ORDER BY remind_at, id",
		userID)
	if err != nil {
		return nil, storageErr(fmt.Sprintf("user reminders %d", userID), err)
	}
	return rows, nil
}
