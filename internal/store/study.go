package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/studybotdev/studybot/internal/streak"
)

// AddStudyLog appends one study session record and returns its id.
// Rows are append-only; nothing updates or deletes them afterwards.
func (s *SQLiteStore) AddStudyLog(ctx context.Context, userID int64, minutes int, ts int64, topic string, guildID int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO study_logs (user_id, guild_id, minutes, topic, ts)
		VALUES (?, ?, ?, ?, ?)
	`, userID, guildID, minutes, topic, ts)
	if err != nil {
		return 0, storageErr(fmt.Sprintf("add study log user %d", userID), err)
	}
	id, _ := res.LastInsertId()
	return id, nil
}

// GetUserLogs returns up to limit study logs for a user, newest first.
func (s *SQLiteStore) GetUserLogs(ctx context.Context, userID int64, limit int) ([]StudyLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var logs []StudyLog
	err := s.db.SelectContext(ctx, &logs,
		"SELECT * FROM study_logs WHERE user_id = ? ORDER BY ts DESC, id DESC LIMIT ?",
		userID, limit)
	if err != nil {
		return nil, storageErr(fmt.Sprintf("get user logs %d", userID), err)
	}
	return logs, nil
}

// TotalMinutes sums all study minutes ever logged by a user.
func (s *SQLiteStore) TotalMinutes(ctx context.Context, userID int64) (int, error) {
	var total int
	err := s.db.GetContext(ctx, &total,
		"SELECT COALESCE(SUM(minutes), 0) FROM study_logs WHERE user_id = ?", userID)
	if err != nil {
		return 0, storageErr(fmt.Sprintf("total minutes %d", userID), err)
	}
	return total, nil
}

// GetStreak returns a user's streak, or ErrNotFound if they have never
// studied.
func (s *SQLiteStore) GetStreak(ctx context.Context, userID int64) (*Streak, error) {
	var st Streak
	err := s.db.GetContext(ctx, &st, "SELECT * FROM streaks WHERE user_id = ?", userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storageErr(fmt.Sprintf("get streak %d", userID), err)
	}
	return &st, nil
}

// SetStreak writes a user's streak state wholesale.
func (s *SQLiteStore) SetStreak(ctx context.Context, userID int64, count, highest int, lastDate string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO streaks (user_id, count, highest, last_date) VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			count = excluded.count,
			highest = excluded.highest,
			last_date = excluded.last_date
	`, userID, count, highest, lastDate)
	return storageErr(fmt.Sprintf("set streak %d", userID), err)
}

// ApplyStudyDay credits today toward a user's streak and persists the
// result. This is the only place streak arithmetic runs.
func (s *SQLiteStore) ApplyStudyDay(ctx context.Context, userID int64, today time.Time) (*Streak, error) {
	var prev streak.State
	cur, err := s.GetStreak(ctx, userID)
	switch {
	case err == nil:
		prev = streak.State{Count: cur.Count, Highest: cur.Highest, LastDate: cur.LastDate}
	case errors.Is(err, ErrNotFound):
		// first study day
	default:
		return nil, err
	}

	next := streak.Next(prev, today)
	if err := s.SetStreak(ctx, userID, next.Count, next.Highest, next.LastDate); err != nil {
		return nil, err
	}
	return &Streak{UserID: userID, Count: next.Count, Highest: next.Highest, LastDate: next.LastDate}, nil
}

// IncrementLeaderboard adds minutes to a user's guild total, creating
// the row if absent. Leaderboards are guild-scoped, so guildID 0 (a DM
// log) is a no-op.
func (s *SQLiteStore) IncrementLeaderboard(ctx context.Context, guildID, userID int64, minutes int) error {
	if guildID == 0 {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leaderboard (guild_id, user_id, minutes) VALUES (?, ?, ?)
		ON CONFLICT(guild_id, user_id) DO UPDATE SET minutes = minutes + excluded.minutes
	`, guildID, userID, minutes)
	return storageErr(fmt.Sprintf("increment leaderboard %d/%d", guildID, userID), err)
}

// GetLeaderboard returns up to limit entries for a guild, most minutes
// first.
func (s *SQLiteStore) GetLeaderboard(ctx context.Context, guildID int64, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	var entries []LeaderboardEntry
	err := s.db.SelectContext(ctx, &entries,
		"SELECT * FROM leaderboard WHERE guild_id = ? ORDER BY minutes DESC LIMIT ?",
		guildID, limit)
	if err != nil {
		return nil, storageErr(fmt.Sprintf("get leaderboard %d", guildID), err)
	}
	return entries, nil
}

// SetProgress records a user's completion percent for a subject,
// replacing any previous value.
func (s *SQLiteStore) SetProgress(ctx context.Context, userID, guildID int64, subject string, percent int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO progress (user_id, guild_id, subject, percent) VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, guild_id, subject) DO UPDATE SET percent = excluded.percent
	`, userID, guildID, subject, percent)
	return storageErr(fmt.Sprintf("set progress %d/%s", userID, subject), err)
}

// GetProgress returns a user's percent for one subject, or ErrNotFound.
func (s *SQLiteStore) GetProgress(ctx context.Context, userID, guildID int64, subject string) (int, error) {
	var percent int
	err := s.db.GetContext(ctx, &percent,
		"SELECT percent FROM progress WHERE user_id = ? AND guild_id = ? AND subject = ?",
		userID, guildID, subject)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, storageErr(fmt.Sprintf("get progress %d/%s", userID, subject), err)
	}
	return percent, nil
}

// ListProgress returns all of a user's subjects in a guild.
func (s *SQLiteStore) ListProgress(ctx context.Context, userID, guildID int64) ([]Progress, error) {
	var rows []Progress
	err := s.db.SelectContext(ctx, &rows,
		"SELECT * FROM progress WHERE user_id = ? AND guild_id = ? ORDER BY subject",
		userID, guildID)
	if err != nil {
		return nil, storageErr(fmt.Sprintf("list progress %d", userID), err)
	}
	return rows, nil
}
