// Package store is the persistence layer: a single SQLite file behind
// narrow, hand-written accessors. Every accessor maps one business
// operation to one SQL statement; there is no query builder in front.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// StudyLog is one append-only study session record.
type StudyLog struct {
	ID      int64  `db:"id" json:"id"`
	UserID  int64  `db:"user_id" json:"user_id"`
	GuildID int64  `db:"guild_id" json:"guild_id"`
	Minutes int    `db:"minutes" json:"minutes"`
	Topic   string `db:"topic" json:"topic"`
	TS      int64  `db:"ts" json:"ts"`
}

// Streak is a user's current daily study streak.
type Streak struct {
	UserID   int64  `db:"user_id" json:"user_id"`
	Count    int    `db:"count" json:"count"`
	Highest  int    `db:"highest" json:"highest"`
	LastDate string `db:"last_date" json:"last_date"`
}

// LeaderboardEntry is one user's accumulated study minutes in a guild.
type LeaderboardEntry struct {
	GuildID int64 `db:"guild_id" json:"guild_id"`
	UserID  int64 `db:"user_id" json:"user_id"`
	Minutes int   `db:"minutes" json:"minutes"`
}

// Doubt is a study question asked by a user.
type Doubt struct {
	ID       int64  `db:"id" json:"id"`
	GuildID  int64  `db:"guild_id" json:"guild_id"`
	UserID   int64  `db:"user_id" json:"user_id"`
	Question string `db:"question" json:"question"`
	TS       int64  `db:"ts" json:"ts"`
	Resolved bool   `db:"resolved" json:"resolved"`
}

// DoubtThread links a doubt to the chat thread where it is discussed.
type DoubtThread struct {
	ID        int64 `db:"id" json:"id"`
	DoubtID   int64 `db:"doubt_id" json:"doubt_id"`
	GuildID   int64 `db:"guild_id" json:"guild_id"`
	ChannelID int64 `db:"channel_id" json:"channel_id"`
	ThreadID  int64 `db:"thread_id" json:"thread_id"`
	CreatedTS int64 `db:"created_ts" json:"created_ts"`
	ClaimedBy int64 `db:"claimed_by" json:"claimed_by"`
	Closed    bool  `db:"closed" json:"closed"`
}

// Reminder is a scheduled one-shot notification.
type Reminder struct {
	ID        int64  `db:"id" json:"id"`
	UserID    int64  `db:"user_id" json:"user_id"`
	GuildID   int64  `db:"guild_id" json:"guild_id"`
	ChannelID int64  `db:"channel_id" json:"channel_id"`
	Message   string `db:"message" json:"message"`
	RemindAt  int64  `db:"remind_at" json:"remind_at"`
	Sent      bool   `db:"sent" json:"sent"`
}

// Progress is a user's self-reported completion for one subject.
type Progress struct {
	UserID  int64  `db:"user_id" json:"user_id"`
	GuildID int64  `db:"guild_id" json:"guild_id"`
	Subject string `db:"subject" json:"subject"`
	Percent int    `db:"percent" json:"percent"`
}

// ActivityConfig is a guild's weekly activity tracking configuration.
type ActivityConfig struct {
	GuildID           int64  `db:"guild_id" json:"guild_id"`
	RoleID            int64  `db:"role_id" json:"role_id"`
	ChannelIDsJSON    string `db:"channel_ids" json:"-"`
	ResetWeekday      int    `db:"reset_weekday" json:"reset_weekday"`
	ResetHour         int    `db:"reset_hour" json:"reset_hour"`
	LastProcessedWeek int64  `db:"last_processed_week" json:"last_processed_week"`
}

// ActivityRow is one user's combined weekly activity with its score.
// Score is messages + voice seconds weighted at one point per minute.
type ActivityRow struct {
	UserID   int64   `db:"user_id" json:"user_id"`
	Messages int     `db:"messages" json:"messages"`
	Seconds  int     `db:"seconds" json:"seconds"`
	Score    float64 `db:"score" json:"score"`
}

// Quiz is a titled question set.
type Quiz struct {
	ID        int64  `db:"id" json:"id"`
	GuildID   int64  `db:"guild_id" json:"guild_id"`
	Title     string `db:"title" json:"title"`
	Config    string `db:"config" json:"config"`
	CreatedTS int64  `db:"created_ts" json:"created_ts"`
}

// QuizQuestion is one question's JSON payload.
type QuizQuestion struct {
	ID      int64  `db:"id" json:"id"`
	QuizID  int64  `db:"quiz_id" json:"quiz_id"`
	Payload string `db:"payload" json:"payload"`
}

// Quiz session states.
const (
	SessionRunning  = "running"
	SessionFinished = "finished"
)

// QuizSession is one user's attempt at a quiz.
type QuizSession struct {
	ID         int64   `db:"id" json:"id"`
	QuizID     int64   `db:"quiz_id" json:"quiz_id"`
	UserID     int64   `db:"user_id" json:"user_id"`
	State      string  `db:"state" json:"state"`
	Score      float64 `db:"score" json:"score"`
	StartedTS  int64   `db:"started_ts" json:"started_ts"`
	FinishedTS int64   `db:"finished_ts" json:"finished_ts"`
}

// QuizResponse is one answer given during a session.
type QuizResponse struct {
	ID         int64  `db:"id" json:"id"`
	SessionID  int64  `db:"session_id" json:"session_id"`
	QuestionID int64  `db:"question_id" json:"question_id"`
	Answer     string `db:"answer" json:"answer"`
	Correct    bool   `db:"correct" json:"correct"`
	TS         int64  `db:"ts" json:"ts"`
}

// Wallet is a user's point balance in a guild.
type Wallet struct {
	GuildID int64 `db:"guild_id" json:"guild_id"`
	UserID  int64 `db:"user_id" json:"user_id"`
	Balance int64 `db:"balance" json:"balance"`
}

// InventoryItem is a quantity of one named item held by a user.
type InventoryItem struct {
	GuildID  int64  `db:"guild_id" json:"guild_id"`
	UserID   int64  `db:"user_id" json:"user_id"`
	Item     string `db:"item" json:"item"`
	Quantity int    `db:"quantity" json:"quantity"`
}

// Achievement is an idempotently granted badge.
type Achievement struct {
	GuildID  int64  `db:"guild_id" json:"guild_id"`
	UserID   int64  `db:"user_id" json:"user_id"`
	Name     string `db:"name" json:"name"`
	EarnedTS int64  `db:"earned_ts" json:"earned_ts"`
}

// Todo is one task on a user's to-do list.
type Todo struct {
	ID        int64  `db:"id" json:"id"`
	UserID    int64  `db:"user_id" json:"user_id"`
	Task      string `db:"task" json:"task"`
	DueTS     int64  `db:"due_ts" json:"due_ts"`
	Done      bool   `db:"done" json:"done"`
	CreatedTS int64  `db:"created_ts" json:"created_ts"`
}

// ArchiveEntry is a free-form archived event.
type ArchiveEntry struct {
	ID      int64  `db:"id" json:"id"`
	GuildID int64  `db:"guild_id" json:"guild_id"`
	Kind    string `db:"kind" json:"kind"`
	Payload string `db:"payload" json:"payload"`
	TS      int64  `db:"ts" json:"ts"`
}

// SQLiteStore is the persistence layer over one SQLite file. It is
// constructed once at startup and handed by reference to everything
// that needs storage.
type SQLiteStore struct {
	db *sqlx.DB
}

// Open opens (creating if necessary) the SQLite database at path and
// runs the idempotent schema setup. Opening an existing database is a
// no-op beyond verifying the schema; it is safe to call on every start.
func Open(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir %s: %w", dir, err)
		}
	}

	db, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	// All access funnels through one connection; the driver serializes
	// statements, matching the single-event-loop ordering guarantee.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying connection. The store can be reopened
// with Open afterwards.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func nowUnix() int64 {
	return time.Now().UTC().Unix()
}
