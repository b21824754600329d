package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// AddDoubt records a study question and returns its id.
func (s *SQLiteStore) AddDoubt(ctx context.Context, guildID, userID int64, question string, ts int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO doubts (guild_id, user_id, question, ts) VALUES (?, ?, ?, ?)
	`, guildID, userID, question, ts)
	if err != nil {
		return 0, storageErr(fmt.Sprintf("add doubt guild %d", guildID), err)
	}
	id, _ := res.LastInsertId()
	return id, nil
}

// ResolveDoubt marks a doubt answered. The flag only ever flips 0→1.
func (s *SQLiteStore) ResolveDoubt(ctx context.Context, doubtID int64) error {
	_, err := s.db.ExecContext(ctx, "UPDATE doubts SET resolved = 1 WHERE id = ?", doubtID)
	return storageErr(fmt.Sprintf("resolve doubt %d", doubtID), err)
}

// OpenDoubts returns a guild's unresolved doubts, oldest first.
func (s *SQLiteStore) OpenDoubts(ctx context.Context, guildID int64) ([]Doubt, error) {
	var rows []Doubt
	err := s.db.SelectContext(ctx, &rows,
		"SELECT * FROM doubts WHERE guild_id = ? AND resolved = 0 ORDER BY ts, id", guildID)
	if err != nil {
		return nil, storageErr(fmt.Sprintf("open doubts %d", guildID), err)
	}
	return rows, nil
}

// LinkDoubtThread records the chat thread opened for a doubt.
func (s *SQLiteStore) LinkDoubtThread(ctx context.Context, doubtID, guildID, channelID, threadID, createdTS int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO doubt_threads (doubt_id, guild_id, channel_id, thread_id, created_ts)
		VALUES (?, ?, ?, ?, ?)
	`, doubtID, guildID, channelID, threadID, createdTS)
	if err != nil {
		return 0, storageErr(fmt.Sprintf("link doubt thread %d", doubtID), err)
	}
	id, _ := res.LastInsertId()
	return id, nil
}

// DoubtByThread returns the thread record for a chat thread id, or
// ErrNotFound.
func (s *SQLiteStore) DoubtByThread(ctx context.Context, threadID int64) (*DoubtThread, error) {
	var dt DoubtThread
	err := s.db.GetContext(ctx, &dt,
		"SELECT * FROM doubt_threads WHERE thread_id = ? ORDER BY id DESC LIMIT 1", threadID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storageErr(fmt.Sprintf("doubt by thread %d", threadID), err)
	}
	return &dt, nil
}

// ClaimDoubtThread sets the claiming mentor, once. A claim on a closed
// thread returns ErrThreadClosed; a second claim on an open thread is
// ignored and the first claimant kept.
func (s *SQLiteStore) ClaimDoubtThread(ctx context.Context, threadID, mentorID int64) error {
	dt, err := s.DoubtByThread(ctx, threadID)
	if err != nil {
		return err
	}
	if dt.Closed {
		return ErrThreadClosed
	}
	_, err = s.db.ExecContext(ctx, `
		UPDATE doubt_threads SET claimed_by = ?
		WHERE thread_id = ? AND closed = 0 AND claimed_by = 0
	`, mentorID, threadID)
	return storageErr(fmt.Sprintf("claim doubt thread %d", threadID), err)
}

// CloseDoubtThread closes the thread and resolves its doubt in one
// call, matching the thread-close flow.
func (s *SQLiteStore) CloseDoubtThread(ctx context.Context, threadID int64) error {
	dt, err := s.DoubtByThread(ctx, threadID)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, "UPDATE doubt_threads SET closed = 1 WHERE thread_id = ?", threadID)
	if err != nil {
		return storageErr(fmt.Sprintf("close doubt thread %d", threadID), err)
	}
	return s.ResolveDoubt(ctx, dt.DoubtID)
}
