package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// CreateQuiz creates a titled quiz with a free-form JSON config and
// returns its id.
func (s *SQLiteStore) CreateQuiz(ctx context.Context, guildID int64, title, configJSON string) (int64, error) {
	if configJSON == "" {
		configJSON = "{}"
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO quizzes (guild_id, title, config, created_ts) VALUES (?, ?, ?, ?)
	`, guildID, title, configJSON, nowUnix())
	if err != nil {
		return 0, storageErr(fmt.Sprintf("create quiz %q", title), err)
	}
	id, _ := res.LastInsertId()
	return id, nil
}

// AddQuizQuestion appends a question payload to a quiz.
func (s *SQLiteStore) AddQuizQuestion(ctx context.Context, quizID int64, payloadJSON string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO quiz_questions (quiz_id, payload) VALUES (?, ?)", quizID, payloadJSON)
	if err != nil {
		return 0, storageErr(fmt.Sprintf("add quiz question %d", quizID), err)
	}
	id, _ := res.LastInsertId()
	return id, nil
}

// QuizQuestions returns a quiz's questions in insertion order.
func (s *SQLiteStore) QuizQuestions(ctx context.Context, quizID int64) ([]QuizQuestion, error) {
	var rows []QuizQuestion
	err := s.db.SelectContext(ctx, &rows,
		"SELECT * FROM quiz_questions WHERE quiz_id = ? ORDER BY id", quizID)
	if err != nil {
		return nil, storageErr(fmt.Sprintf("quiz questions %d", quizID), err)
	}
	return rows, nil
}

// StartQuizSession opens a running session for a user and returns its id.
func (s *SQLiteStore) StartQuizSession(ctx context.Context, quizID, userID int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO quiz_sessions (quiz_id, user_id, state, started_ts)
		VALUES (?, ?, ?, ?)
	`, quizID, userID, SessionRunning, nowUnix())
	if err != nil {
		return 0, storageErr(fmt.Sprintf("start quiz session %d/%d", quizID, userID), err)
	}
	id, _ := res.LastInsertId()
	return id, nil
}

// RecordQuizResponse appends one answer to a running session. Responses
// against a finished session return ErrSessionFinished.
func (s *SQLiteStore) RecordQuizResponse(ctx context.Context, sessionID, questionID int64, answer string, correct bool) error {
	sess, err := s.GetQuizSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if sess.State != SessionRunning {
		return ErrSessionFinished
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO quiz_responses (session_id, question_id, answer, correct, ts)
		VALUES (?, ?, ?, ?, ?)
	`, sessionID, questionID, answer, correct, nowUnix())
	return storageErr(fmt.Sprintf("record quiz response %d", sessionID), err)
}

// FinishQuizSession sets the final score and moves the session to
// finished, exactly once. A second finish returns ErrSessionFinished;
// the score is never overwritten.
func (s *SQLiteStore) FinishQuizSession(ctx context.Context, sessionID int64, score float64) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE quiz_sessions SET state = ?, score = ?, finished_ts = ?
		WHERE id = ? AND state = ?
	`, SessionFinished, score, nowUnix(), sessionID, SessionRunning)
	if err != nil {
		return storageErr(fmt.Sprintf("finish quiz session %d", sessionID), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr(fmt.Sprintf("finish quiz session %d", sessionID), err)
	}
	if n == 0 {
		return ErrSessionFinished
	}
	return nil
}

// GetQuizSession returns one session, or ErrNotFound.
func (s *SQLiteStore) GetQuizSession(ctx context.Context, sessionID int64) (*QuizSession, error) {
	var sess QuizSession
	err := s.db.GetContext(ctx, &sess, "SELECT * FROM quiz_sessions WHERE id = ?", sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storageErr(fmt.Sprintf("get quiz session %d", sessionID), err)
	}
	return &sess, nil
}

// SessionResponses returns a session's answers in the order given.
func (s *SQLiteStore) SessionResponses(ctx context.Context, sessionID int64) ([]QuizResponse, error) {
	var rows []QuizResponse
	err := s.db.SelectContext(ctx, &rows,
		"SELECT * FROM quiz_responses WHERE session_id = ? ORDER BY id", sessionID)
	if err != nil {
		return nil, storageErr(fmt.Sprintf("session responses %d", sessionID), err)
	}
	return rows, nil
}

// QuizLeaderboard returns each user's best finished score for a quiz,
// highest first.
func (s *SQLiteStore) QuizLeaderboard(ctx context.Context, quizID int64, limit int) ([]QuizSession, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []QuizSession
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, quiz_id, user_id, state, MAX(score) AS score, started_ts, finished_ts
		FROM quiz_sessions
		WHERE quiz_id = ? AND state = ?
		GROUP BY user_id
		ORDER BY score DESC
		LIMIT ?
	`, quizID, SessionFinished, limit)
	if err != nil {
		return nil, storageErr(fmt.Sprintf("quiz leaderboard %d", quizID), err)
	}
	return rows, nil
}
