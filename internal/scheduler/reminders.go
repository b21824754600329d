package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/studybotdev/studybot/internal/store"
	"github.com/studybotdev/studybot/pkg/notify"
)

// Broadcaster is the slice of the notification manager the tasks need.
type Broadcaster interface {
	HasNotifiers() bool
	Broadcast(ctx context.Context, n *notify.Notification) error
}

// ReminderStore is the slice of the store reminder dispatch needs.
type ReminderStore interface {
	PendingReminders(ctx context.Context, untilTS int64) ([]store.Reminder, error)
	MarkReminderSent(ctx context.Context, id int64) error
}

// ReminderDispatcher delivers due reminders. Delivery is at-least-once:
// a reminder is acked only after its notification went out, so a crash
// in between re-delivers on the next tick.
type ReminderDispatcher struct {
	store    ReminderStore
	notifier Broadcaster
	now      func() time.Time
}

// NewReminderDispatcher creates the dispatcher.
func NewReminderDispatcher(s ReminderStore, n Broadcaster) *ReminderDispatcher {
	return &ReminderDispatcher{store: s, notifier: n, now: time.Now}
}

// Task returns the periodic task driving dispatch.
func (d *ReminderDispatcher) Task() Task {
	return Task{Name: "reminders", Interval: 10 * time.Second, Tick: d.tick}
}

func (d *ReminderDispatcher) tick(ctx context.Context) error {
	due, err := d.store.PendingReminders(ctx, d.now().UTC().Unix())
	if err != nil {
		return err
	}

	for _, r := range due {
		n := &notify.Notification{
			Title:  "Reminder",
			Body:   r.Message,
			UserID: r.UserID,
		}
		if d.notifier.HasNotifiers() {
			if err := d.notifier.Broadcast(ctx, n); err != nil {
				// Left unacked; retried next tick.
				log.WithField("task", "reminders").WithError(err).
					Errorf("deliver reminder %d", r.ID)
				continue
			}
		}
		if err := d.store.MarkReminderSent(ctx, r.ID); err != nil {
			return fmt.Errorf("ack reminder %d: %w", r.ID, err)
		}
	}
	return nil
}
