// Package scheduler is the one periodic-task primitive every background
// job runs on: a named tick function on a fixed interval, with per-tick
// failures logged and swallowed so a bad tick never kills the loop.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/studybotdev/studybot/internal/logger"
)

var log = logger.New("scheduler")

// Task is one periodic job.
type Task struct {
	Name     string
	Interval time.Duration

	// RunAtStart fires one tick immediately instead of waiting a full
	// interval first.
	RunAtStart bool

	Tick func(ctx context.Context) error
}

// Runner drives a set of tasks, one goroutine each, until its context
// is cancelled.
type Runner struct {
	tasks []Task
	wg    sync.WaitGroup
}

// NewRunner creates a runner over the given tasks.
func NewRunner(tasks ...Task) *Runner {
	return &Runner{tasks: tasks}
}

// Add registers another task. Must be called before Start.
func (r *Runner) Add(t Task) {
	r.tasks = append(r.tasks, t)
}

// Start launches every task loop. It returns immediately; cancel ctx to
// stop the loops and Wait for them to drain.
func (r *Runner) Start(ctx context.Context) {
	for _, t := range r.tasks {
		r.wg.Add(1)
		go func(t Task) {
			defer r.wg.Done()
			r.runLoop(ctx, t)
		}(t)
	}
}

// Wait blocks until every task loop has exited.
func (r *Runner) Wait() {
	r.wg.Wait()
}

func (r *Runner) runLoop(ctx context.Context, t Task) {
	log.WithField("task", t.Name).WithField("interval", t.Interval.String()).Info("task started")

	if t.RunAtStart {
		r.tickOnce(ctx, t)
	}

	ticker := time.NewTicker(t.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.WithField("task", t.Name).Info("task stopped")
			return
		case <-ticker.C:
			r.tickOnce(ctx, t)
		}
	}
}

// tickOnce runs one tick, containing both returned errors and panics:
// a failing tick is retried at the next interval, never escalated.
func (r *Runner) tickOnce(ctx context.Context, t Task) {
	defer func() {
		if rec := recover(); rec != nil {
			log.WithField("task", t.Name).Errorf("tick panic: %v", rec)
		}
	}()
	if err := t.Tick(ctx); err != nil {
		log.WithField("task", t.Name).WithError(err).Error("tick failed")
	}
}
