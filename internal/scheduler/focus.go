package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/studybotdev/studybot/internal/focus"
	"github.com/studybotdev/studybot/internal/store"
	"github.com/studybotdev/studybot/pkg/notify"
)

// FocusStore is the slice of the store focus completion needs.
type FocusStore interface {
	AddStudyLog(ctx context.Context, userID int64, minutes int, ts int64, topic string, guildID int64) (int64, error)
	IncrementLeaderboard(ctx context.Context, guildID, userID int64, minutes int) error
	ApplyStudyDay(ctx context.Context, userID int64, today time.Time) (*store.Streak, error)
}

// FocusSweeper expires running focus sessions and credits each finished
// one as a study session: log row, leaderboard minutes, streak day.
type FocusSweeper struct {
	registry *focus.Registry
	store    FocusStore
	notifier Broadcaster
	now      func() time.Time
}

// NewFocusSweeper creates the sweeper over a session registry.
func NewFocusSweeper(reg *focus.Registry, s FocusStore, n Broadcaster) *FocusSweeper {
	return &FocusSweeper{registry: reg, store: s, notifier: n, now: time.Now}
}

// Task returns the periodic expiry sweep.
func (f *FocusSweeper) Task() Task {
	return Task{Name: "focus", Interval: 5 * time.Second, Tick: f.tick}
}

func (f *FocusSweeper) tick(ctx context.Context) error {
	now := f.now().UTC()
	for _, s := range f.registry.Expire(now) {
		if err := f.credit(ctx, s, now); err != nil {
			log.WithField("task", "focus").WithError(err).
				Errorf("credit session user %d", s.UserID)
		}
	}
	return nil
}

func (f *FocusSweeper) credit(ctx context.Context, s *focus.Session, now time.Time) error {
	if _, err := f.store.AddStudyLog(ctx, s.UserID, s.Minutes, now.Unix(), "focus-session", s.GuildID); err != nil {
		return err
	}
	if err := f.store.IncrementLeaderboard(ctx, s.GuildID, s.UserID, s.Minutes); err != nil {
		return err
	}
	st, err := f.store.ApplyStudyDay(ctx, s.UserID, now)
	if err != nil {
		return err
	}

	if !f.notifier.HasNotifiers() {
		return nil
	}
	return f.notifier.Broadcast(ctx, &notify.Notification{
		Title:  "Focus session complete",
		Body:   fmt.Sprintf("%d minutes of focus logged. Current streak: %d days.", s.Minutes, st.Count),
		UserID: s.UserID,
	})
}
