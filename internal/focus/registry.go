// Package focus owns the ephemeral state of running focus sessions.
// Sessions live only in memory; the expiry sweep credits the store when
// they finish, so a restart simply forgets unfinished sessions.
package focus

import (
	"sync"
	"time"
)

// Session is one user's running focus timer.
type Session struct {
	UserID    int64
	GuildID   int64
	ChannelID int64
	Minutes   int
	StartedAt time.Time
	EndsAt    time.Time
}

// Registry is the arena of active sessions, keyed by user. One user has
// at most one running session.
type Registry struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[int64]*Session)}
}

// Start begins a session for a user. It returns false if the user
// already has one running.
func (r *Registry) Start(userID, guildID, channelID int64, minutes int, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[userID]; ok {
		return false
	}
	r.sessions[userID] = &Session{
		UserID:    userID,
		GuildID:   guildID,
		ChannelID: channelID,
		Minutes:   minutes,
		StartedAt: now,
		EndsAt:    now.Add(time.Duration(minutes) * time.Minute),
	}
	return true
}

// Cancel removes a user's session without crediting anything. It
// returns the cancelled session, or nil.
func (r *Registry) Cancel(userID int64) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.sessions[userID]
	delete(r.sessions, userID)
	return s
}

// Get returns a user's running session, or nil.
func (r *Registry) Get(userID int64) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[userID]
}

// Expire removes and returns every session whose end time has passed.
// The single sweep replaces per-session timers.
func (r *Registry) Expire(now time.Time) []*Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	var done []*Session
	for id, s := range r.sessions {
		if !now.Before(s.EndsAt) {
			done = append(done, s)
			delete(r.sessions, id)
		}
	}
	return done
}

// Len reports the number of running sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
