package scheduler

import (
	"context"
	"time"

	"github.com/studybotdev/studybot/internal/quotes"
	"github.com/studybotdev/studybot/pkg/notify"
)

// QuotePoster posts a motivational quote on a fixed interval.
type QuotePoster struct {
	provider *quotes.Provider
	notifier Broadcaster
	interval time.Duration
}

// NewQuotePoster creates the poster. A zero interval defaults to 30
// minutes.
func NewQuotePoster(p *quotes.Provider, n Broadcaster, interval time.Duration) *QuotePoster {
	if interval == 0 {
		interval = 30 * time.Minute
	}
	return &QuotePoster{provider: p, notifier: n, interval: interval}
}

// Task returns the periodic posting task.
func (q *QuotePoster) Task() Task {
	return Task{Name: "quotes", Interval: q.interval, Tick: q.tick}
}

func (q *QuotePoster) tick(ctx context.Context) error {
	if !q.notifier.HasNotifiers() {
		return nil
	}
	return q.notifier.Broadcast(ctx, &notify.Notification{
		Title: "Motivation",
		Body:  q.provider.Next(ctx),
	})
}
