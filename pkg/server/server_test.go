package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/studybotdev/studybot/internal/store"
)

func newTestServer(t *testing.T) (*Server, *store.SQLiteStore) {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "studybot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return New(s, 0), s
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", decode(t, rec)["status"])
}

func TestLeaderboardEndpoint(t *testing.T) {
	srv, s := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, s.IncrementLeaderboard(ctx, 500, 1, 90))
	require.NoError(t, s.IncrementLeaderboard(ctx, 500, 2, 45))

	rec := httptest.NewRecorder()
	srv.handleLeaderboard(rec, httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard?guild=500", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	require.EqualValues(t, 2, body["count"])

	data := body["data"].([]any)
	first := data[0].(map[string]any)
	require.EqualValues(t, 1, first["user_id"])
	require.EqualValues(t, 90, first["minutes"])
}

func TestLeaderboardRequiresGuild(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.handleLeaderboard(rec, httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	srv.handleLeaderboard(rec, httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard?guild=abc", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLeaderboardMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.handleLeaderboard(rec, httptest.NewRequest(http.MethodPost, "/api/v1/leaderboard?guild=500", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestActivityEndpointWeekParam(t *testing.T) {
	srv, s := newTestServer(t)
	ctx := context.Background()

	week := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC).Unix()
	require.NoError(t, s.AddWeeklyMessages(ctx, 500, 1, week, 10))

	// Any timestamp within the week resolves to its Monday bucket.
	midweek := time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC).Unix()
	rec := httptest.NewRecorder()
	srv.handleActivity(rec, httptest.NewRequest(http.MethodGet,
		"/api/v1/activity?guild=500&week="+strconv.FormatInt(midweek, 10), nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	require.EqualValues(t, 1, body["count"])
	require.EqualValues(t, week, body["week_start"])
}

func TestStreaksEndpoint(t *testing.T) {
	srv, s := newTestServer(t)
	ctx := context.Background()

	rec := httptest.NewRecorder()
	srv.handleStreaks(rec, httptest.NewRequest(http.MethodGet, "/api/v1/streaks?user=7", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	_, err := s.ApplyStudyDay(ctx, 7, time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	rec = httptest.NewRecorder()
	srv.handleStreaks(rec, httptest.NewRequest(http.MethodGet, "/api/v1/streaks?user=7", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	data := decode(t, rec)["data"].(map[string]any)
	require.EqualValues(t, 1, data["count"])
}

func TestRemindersEndpoint(t *testing.T) {
	srv, s := newTestServer(t)
	ctx := context.Background()

	_, err := s.AddReminder(ctx, 7, 500, 10, "drink water", time.Now().Add(time.Hour).Unix())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.handleReminders(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reminders?user=7", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	require.EqualValues(t, 1, body["count"])
}

func TestDoubtsEndpoint(t *testing.T) {
	srv, s := newTestServer(t)
	ctx := context.Background()

	id, err := s.AddDoubt(ctx, 500, 7, "what is a pointer", time.Now().Unix())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.handleDoubts(rec, httptest.NewRequest(http.MethodGet, "/api/v1/doubts?guild=500", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.EqualValues(t, 1, decode(t, rec)["count"])

	require.NoError(t, s.ResolveDoubt(ctx, id))

	rec = httptest.NewRecorder()
	srv.handleDoubts(rec, httptest.NewRequest(http.MethodGet, "/api/v1/doubts?guild=500", nil))
	require.EqualValues(t, 0, decode(t, rec)["count"])
}
