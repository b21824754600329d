package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/studybotdev/studybot/internal/focus"
)

func TestFocusSweeperCreditsExpiredSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	reg := focus.NewRegistry()
	require.True(t, reg.Start(7, 500, 10, 25, start))
	require.True(t, reg.Start(8, 500, 10, 50, start))

	fn := &fakeNotifier{}
	sw := NewFocusSweeper(reg, s, fn)

	// Before either session ends, the sweep is a no-op.
	sw.now = func() time.Time { return start.Add(10 * time.Minute) }
	require.NoError(t, sw.tick(ctx))
	require.Equal(t, 2, reg.Len())
	require.Empty(t, fn.sent)

	// User 7's 25-minute session has finished; user 8's has not.
	sw.now = func() time.Time { return start.Add(30 * time.Minute) }
	require.NoError(t, sw.tick(ctx))
	require.Equal(t, 1, reg.Len())
	require.Nil(t, reg.Get(7))
	require.Len(t, fn.sent, 1)
	require.Equal(t, int64(7), fn.sent[0].UserID)
	require.Contains(t, fn.sent[0].Body, "25 minutes")

	logs, err := s.GetUserLogs(ctx, 7, 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.Equal(t, 25, logs[0].Minutes)
	require.Equal(t, "focus-session", logs[0].Topic)

	board, err := s.GetLeaderboard(ctx, 500, 10)
	require.NoError(t, err)
	require.Len(t, board, 1)
	require.Equal(t, int64(7), board[0].UserID)
	require.Equal(t, 25, board[0].Minutes)

	st, err := s.GetStreak(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, 1, st.Count)

	// Cancelled sessions never get credited.
	reg.Cancel(8)
	sw.now = func() time.Time { return start.Add(2 * time.Hour) }
	require.NoError(t, sw.tick(ctx))
	require.Len(t, fn.sent, 1)
}

func TestFocusSweeperExtendsStreak(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	day1 := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	_, err := s.ApplyStudyDay(ctx, 7, day1)
	require.NoError(t, err)

	reg := focus.NewRegistry()
	day2 := day1.AddDate(0, 0, 1)
	require.True(t, reg.Start(7, 500, 10, 25, day2))

	fn := &fakeNotifier{}
	sw := NewFocusSweeper(reg, s, fn)
	sw.now = func() time.Time { return day2.Add(25 * time.Minute) }

	require.NoError(t, sw.tick(ctx))
	require.Len(t, fn.sent, 1)
	require.Contains(t, fn.sent[0].Body, "streak: 2 days")
}
