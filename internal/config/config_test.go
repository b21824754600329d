package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	require.Equal(t, "./data/studybot.db", cfg.Database.Path)
	require.Equal(t, 8080, cfg.Server.Port)
	require.True(t, cfg.Quotes.Enabled)

	require.Equal(t, 10*time.Second, cfg.Schedule.ParseReminderInterval())
	require.Equal(t, 30*time.Minute, cfg.Schedule.ParseRolloverInterval())
	require.Equal(t, 5*time.Second, cfg.Schedule.ParseFocusInterval())
	require.Equal(t, 30*time.Minute, cfg.Schedule.ParseQuoteInterval())
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  path: /var/lib/studybot/db.sqlite
schedule:
  reminder_interval: 30s
  focus_interval: 1s
quotes:
  enabled: false
  feeds:
    - name: zen
      url: https://example.com/feed.xml
notify:
  discord:
    enabled: true
    webhook_url: https://discord.example/hook
server:
  port: 9090
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "/var/lib/studybot/db.sqlite", cfg.Database.Path)
	require.Equal(t, 30*time.Second, cfg.Schedule.ParseReminderInterval())
	require.Equal(t, time.Second, cfg.Schedule.ParseFocusInterval())
	// Unset fields keep their defaults.
	require.Equal(t, 30*time.Minute, cfg.Schedule.ParseRolloverInterval())

	require.False(t, cfg.Quotes.Enabled)
	require.Len(t, cfg.Quotes.Feeds, 1)
	require.Equal(t, "zen", cfg.Quotes.Feeds[0].Name)

	require.True(t, cfg.Notify.Discord.Enabled)
	require.Equal(t, 9090, cfg.Server.Port)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("STUDYBOT_DB_PATH", "/tmp/override.db")
	t.Setenv("STUDYBOT_WEBHOOK_URL", "https://hooks.example/studybot")
	t.Setenv("STUDYBOT_WEBHOOK_SECRET", "sekrit")

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "/tmp/override.db", cfg.Database.Path)
	require.True(t, cfg.Notify.Webhook.Enabled)
	require.Equal(t, "https://hooks.example/studybot", cfg.Notify.Webhook.URL)
	require.Equal(t, "sekrit", cfg.Notify.Webhook.Secret)
}

func TestBadIntervalFallsBack(t *testing.T) {
	s := ScheduleConfig{ReminderInterval: "soon"}
	require.Equal(t, 10*time.Second, s.ParseReminderInterval())
}
