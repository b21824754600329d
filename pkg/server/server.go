// Package server exposes a small read-only JSON API over the store, for
// status dashboards and external tooling.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/studybotdev/studybot/internal/store"
	"github.com/studybotdev/studybot/internal/timeutil"
)

// Store is the read surface the API serves.
type Store interface {
	GetLeaderboard(ctx context.Context, guildID int64, limit int) ([]store.LeaderboardEntry, error)
	GetWeeklyActivity(ctx context.Context, guildID, weekStart int64, limit int) ([]store.ActivityRow, error)
	GetStreak(ctx context.Context, userID int64) (*store.Streak, error)
	UserReminders(ctx context.Context, userID int64) ([]store.Reminder, error)
	OpenDoubts(ctx context.Context, guildID int64) ([]store.Doubt, error)
}

// Server provides the HTTP API.
type Server struct {
	store Store
	port  int
}

// New creates a new HTTP server.
func New(s Store, port int) *Server {
	if port == 0 {
		port = 8080
	}
	return &Server{store: s, port: port}
}

// ListenAndServe starts the HTTP server and blocks until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/v1/leaderboard", s.handleLeaderboard)
	mux.HandleFunc("/api/v1/activity", s.handleActivity)
	mux.HandleFunc("/api/v1/streaks", s.handleStreaks)
	mux.HandleFunc("/api/v1/reminders", s.handleReminders)
	mux.HandleFunc("/api/v1/doubts", s.handleDoubts)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	guildID, ok := queryID(w, r, "guild")
	if !ok {
		return
	}

	entries, err := s.store.GetLeaderboard(r.Context(), guildID, queryLimit(r, 10))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  entries,
		"count": len(entries),
	})
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	guildID, ok := queryID(w, r, "guild")
	if !ok {
		return
	}

	weekStart := timeutil.WeekStart(time.Now().UTC().Unix())
	if v := r.URL.Query().Get("week"); v != "" {
		ts, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid week"})
			return
		}
		weekStart = timeutil.WeekStart(ts)
	}

	rows, err := s.store.GetWeeklyActivity(r.Context(), guildID, weekStart, queryLimit(r, 20))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":       rows,
		"count":      len(rows),
		"week_start": weekStart,
	})
}

func (s *Server) handleStreaks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	userID, ok := queryID(w, r, "user")
	if !ok {
		return
	}

	st, err := s.store.GetStreak(r.Context(), userID)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no streak"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": st})
}

func (s *Server) handleReminders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	userID, ok := queryID(w, r, "user")
	if !ok {
		return
	}

	rows, err := s.store.UserReminders(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  rows,
		"count": len(rows),
	})
}

func (s *Server) handleDoubts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	guildID, ok := queryID(w, r, "guild")
	if !ok {
		return
	}

	rows, err := s.store.OpenDoubts(r.Context(), guildID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  rows,
		"count": len(rows),
	})
}

func queryID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": name + " is required"})
		return 0, false
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func queryLimit(r *http.Request, fallback int) int {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
