package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/studybotdev/studybot/internal/store"
	"github.com/studybotdev/studybot/internal/timeutil"
	"github.com/studybotdev/studybot/pkg/notify"
)

// ActivityStore is the slice of the store the weekly rollover needs.
type ActivityStore interface {
	AllActivityConfigs(ctx context.Context) ([]store.ActivityConfig, error)
	GetWeeklyActivity(ctx context.Context, guildID, weekStart int64, limit int) ([]store.ActivityRow, error)
	SetLastProcessedWeek(ctx context.Context, guildID, weekStart int64) error
}

// WeeklyRollover processes each guild's weekly activity boundary: once
// the configured reset time passes, it announces the top members and
// advances last_processed_week. The ack happens only after the side
// effects succeed, so a failed announcement retries the same week on
// the next tick.
type WeeklyRollover struct {
	store    ActivityStore
	notifier Broadcaster
	topN     int
	now      func() time.Time
}

// NewWeeklyRollover creates the rollover processor.
func NewWeeklyRollover(s ActivityStore, n Broadcaster) *WeeklyRollover {
	return &WeeklyRollover{store: s, notifier: n, topN: 5, now: time.Now}
}

// Task returns the periodic task driving rollover checks.
func (w *WeeklyRollover) Task() Task {
	return Task{Name: "activity-rollover", Interval: 30 * time.Minute, Tick: w.tick}
}

func (w *WeeklyRollover) tick(ctx context.Context) error {
	cfgs, err := w.store.AllActivityConfigs(ctx)
	if err != nil {
		return err
	}

	now := w.now().UTC()
	for _, cfg := range cfgs {
		if err := w.processGuild(ctx, cfg, now); err != nil {
			log.WithField("task", "activity-rollover").WithError(err).
				Errorf("guild %d", cfg.GuildID)
		}
	}
	return nil
}

func (w *WeeklyRollover) processGuild(ctx context.Context, cfg store.ActivityConfig, now time.Time) error {
	boundary := timeutil.ResetBoundary(now, cfg.ResetWeekday, cfg.ResetHour)
	week := timeutil.WeekStart(boundary)
	if cfg.LastProcessedWeek >= week {
		return nil
	}

	top, err := w.store.GetWeeklyActivity(ctx, cfg.GuildID, week, 20)
	if err != nil {
		return err
	}
	if len(top) > w.topN {
		top = top[:w.topN]
	}

	if w.notifier.HasNotifiers() {
		if err := w.notifier.Broadcast(ctx, w.announcement(cfg.GuildID, top)); err != nil {
			// Week stays unacked; retried next tick.
			return fmt.Errorf("announce guild %d: %w", cfg.GuildID, err)
		}
	}

	return w.store.SetLastProcessedWeek(ctx, cfg.GuildID, week)
}

func (w *WeeklyRollover) announcement(guildID int64, top []store.ActivityRow) *notify.Notification {
	var lines []string
	for i, row := range top {
		lines = append(lines, fmt.Sprintf("%d. <@%d>: %d messages, %ds voice (score %.1f)",
			i+1, row.UserID, row.Messages, row.Seconds, row.Score))
	}
	if len(lines) == 0 {
		lines = append(lines, "No activity recorded this week.")
	}
	return &notify.Notification{
		Title: "Weekly Top Active Members",
		Body:  strings.Join(lines, "\n"),
		Fields: []notify.Field{
			{Name: "guild", Value: fmt.Sprintf("%d", guildID)},
		},
	}
}
