// Package notify fans notifications out to the configured webhook
// destinations. It is the only outbound surface the daemon owns; chat
// command responses belong to the bot frontend, not to this core.
package notify

import (
	"context"
	"errors"
	"fmt"
)

// Field is one labeled value rendered inside a notification.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Notification is the data sent to every destination.
type Notification struct {
	Title  string  `json:"title"`
	Body   string  `json:"body"`
	UserID int64   `json:"user_id,omitempty"`
	Fields []Field `json:"fields,omitempty"`
}

// Notifier delivers notifications to a specific destination.
type Notifier interface {
	Name() string
	Send(ctx context.Context, n *Notification) error
}

// Manager broadcasts notifications to all registered notifiers.
type Manager struct {
	notifiers []Notifier
}

// NewManager creates a manager over the given notifiers.
func NewManager(notifiers []Notifier) *Manager {
	return &Manager{notifiers: notifiers}
}

// HasNotifiers returns true if at least one destination is configured.
func (m *Manager) HasNotifiers() bool {
	return len(m.notifiers) > 0
}

// Broadcast sends a notification to every destination, joining any
// failures so one bad destination does not hide the rest.
func (m *Manager) Broadcast(ctx context.Context, n *Notification) error {
	var errs []error
	for _, notifier := range m.notifiers {
		if err := notifier.Send(ctx, n); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", notifier.Name(), err))
		}
	}
	return errors.Join(errs...)
}
