package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWeeklyActivityScoring(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	const guild, week = int64(500), int64(1704672000)

	// messages: A=5, B=3, C=8; voice seconds: A=120, C=3600.
	require.NoError(t, s.AddWeeklyMessages(ctx, guild, 1, week, 5))
	require.NoError(t, s.AddWeeklyMessages(ctx, guild, 2, week, 3))
	require.NoError(t, s.AddWeeklyMessages(ctx, guild, 3, week, 8))
	require.NoError(t, s.AddWeeklyVoiceSeconds(ctx, guild, 1, week, 120))
	require.NoError(t, s.AddWeeklyVoiceSeconds(ctx, guild, 3, week, 3600))

	rows, err := s.GetWeeklyActivity(ctx, guild, week, 20)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// C: 8 + 60 = 68, A: 5 + 2 = 7, B: 3.
	require.Equal(t, int64(3), rows[0].UserID)
	require.InDelta(t, 68.0, rows[0].Score, 0.001)
	require.Equal(t, int64(1), rows[1].UserID)
	require.InDelta(t, 7.0, rows[1].Score, 0.001)
	require.Equal(t, int64(2), rows[2].UserID)
	require.InDelta(t, 3.0, rows[2].Score, 0.001)

	// Counters are additive.
	require.NoError(t, s.AddWeeklyMessages(ctx, guild, 2, week, 70))
	rows, err = s.GetWeeklyActivity(ctx, guild, week, 20)
	require.NoError(t, err)
	require.Equal(t, int64(2), rows[0].UserID)
	require.Equal(t, 73, rows[0].Messages)
}

func TestWeeklyActivityBucketIsolation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddWeeklyMessages(ctx, 500, 1, 1000, 5))
	require.NoError(t, s.AddWeeklyMessages(ctx, 500, 1, 2000, 9))

	rows, err := s.GetWeeklyActivity(ctx, 500, 1000, 20)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, 5, rows[0].Messages)
}

func TestActivityConfig(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetActivityConfig(ctx, 500)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.SetActivityConfig(ctx, 500, 42, []int64{10, 11}, 0, 0))

	cfg, err := s.GetActivityConfig(ctx, 500)
	require.NoError(t, err)
	require.Equal(t, int64(42), cfg.RoleID)
	require.Equal(t, []int64{10, 11}, cfg.ChannelIDs())
	require.Zero(t, cfg.LastProcessedWeek)

	// Acking advances monotonically.
	require.NoError(t, s.SetLastProcessedWeek(ctx, 500, 5000))
	require.NoError(t, s.SetLastProcessedWeek(ctx, 500, 4000)) // stale, ignored

	cfg, err = s.GetActivityConfig(ctx, 500)
	require.NoError(t, err)
	require.Equal(t, int64(5000), cfg.LastProcessedWeek)

	// Reconfiguring keeps the processed marker.
	require.NoError(t, s.SetActivityConfig(ctx, 500, 43, nil, 4, 18))
	cfg, err = s.GetActivityConfig(ctx, 500)
	require.NoError(t, err)
	require.Equal(t, int64(43), cfg.RoleID)
	require.Equal(t, 4, cfg.ResetWeekday)
	require.Equal(t, int64(5000), cfg.LastProcessedWeek)

	all, err := s.AllActivityConfigs(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}
