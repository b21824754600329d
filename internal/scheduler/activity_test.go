package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/studybotdev/studybot/internal/timeutil"
)

func TestWeeklyRolloverFiresOncePerBoundary(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Guild 500 resets Monday 00:00 UTC.
	require.NoError(t, s.SetActivityConfig(ctx, 500, 42, []int64{10}, 0, 0))

	week1 := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC) // Monday
	require.NoError(t, s.AddWeeklyMessages(ctx, 500, 1, week1.Unix(), 12))

	fn := &fakeNotifier{}
	w := NewWeeklyRollover(s, fn)

	// Mid-week: the week-1 boundary has passed and was never processed.
	w.now = func() time.Time { return week1.Add(2 * 24 * time.Hour) }
	require.NoError(t, w.tick(ctx))
	require.Len(t, fn.sent, 1)

	cfg, err := s.GetActivityConfig(ctx, 500)
	require.NoError(t, err)
	require.Equal(t, week1.Unix(), cfg.LastProcessedWeek)

	// Later the same week: nothing new.
	w.now = func() time.Time { return week1.Add(6*24*time.Hour + 23*time.Hour) }
	require.NoError(t, w.tick(ctx))
	require.NoError(t, w.tick(ctx))
	require.Len(t, fn.sent, 1)

	// Just past the next Monday boundary: fires exactly once more.
	week2 := week1.AddDate(0, 0, 7)
	w.now = func() time.Time { return week2.Add(30 * time.Minute) }
	require.NoError(t, w.tick(ctx))
	require.NoError(t, w.tick(ctx))
	require.Len(t, fn.sent, 2)

	cfg, err = s.GetActivityConfig(ctx, 500)
	require.NoError(t, err)
	require.Equal(t, week2.Unix(), cfg.LastProcessedWeek)
}

func TestWeeklyRolloverRetriesFailedAnnouncement(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetActivityConfig(ctx, 500, 42, nil, 0, 0))

	fn := &fakeNotifier{fail: true}
	w := NewWeeklyRollover(s, fn)
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return now }

	// Announcement fails; the week stays unacked.
	require.NoError(t, w.tick(ctx))
	cfg, err := s.GetActivityConfig(ctx, 500)
	require.NoError(t, err)
	require.Zero(t, cfg.LastProcessedWeek)

	// Next tick retries the same week and acks it.
	fn.fail = false
	require.NoError(t, w.tick(ctx))
	require.Len(t, fn.sent, 1)

	cfg, err = s.GetActivityConfig(ctx, 500)
	require.NoError(t, err)
	require.Equal(t, timeutil.WeekStart(now.Unix()), cfg.LastProcessedWeek)
}

func TestWeeklyRolloverRanksTopMembers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetActivityConfig(ctx, 500, 42, nil, 0, 0))

	week := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.AddWeeklyMessages(ctx, 500, 1, week.Unix(), 5))
	require.NoError(t, s.AddWeeklyMessages(ctx, 500, 2, week.Unix(), 3))
	require.NoError(t, s.AddWeeklyMessages(ctx, 500, 3, week.Unix(), 8))
	require.NoError(t, s.AddWeeklyVoiceSeconds(ctx, 500, 1, week.Unix(), 120))
	require.NoError(t, s.AddWeeklyVoiceSeconds(ctx, 500, 3, week.Unix(), 3600))

	fn := &fakeNotifier{}
	w := NewWeeklyRollover(s, fn)
	w.now = func() time.Time { return week.Add(3 * 24 * time.Hour) }

	require.NoError(t, w.tick(ctx))
	require.Len(t, fn.sent, 1)

	body := fn.sent[0].Body
	require.Contains(t, body, "1. <@3>")
	require.Contains(t, body, "2. <@1>")
	require.Contains(t, body, "3. <@2>")
}
