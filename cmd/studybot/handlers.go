package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/studybotdev/studybot/internal/config"
	"github.com/studybotdev/studybot/internal/focus"
	"github.com/studybotdev/studybot/internal/logger"
	"github.com/studybotdev/studybot/internal/quotes"
	"github.com/studybotdev/studybot/internal/scheduler"
	"github.com/studybotdev/studybot/internal/store"
	"github.com/studybotdev/studybot/internal/timeutil"
	"github.com/studybotdev/studybot/pkg/notify"
	"github.com/studybotdev/studybot/pkg/server"
)

var log = logger.New("main")

func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func openStore() (*config.Config, *store.SQLiteStore, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	return cfg, db, nil
}

func buildNotifyManager(cfg *config.Config) *notify.Manager {
	var notifiers []notify.Notifier

	if cfg.Notify.Discord.Enabled && cfg.Notify.Discord.WebhookURL != "" {
		notifiers = append(notifiers, notify.NewDiscord(cfg.Notify.Discord.WebhookURL))
	}
	if cfg.Notify.Webhook.Enabled && cfg.Notify.Webhook.URL != "" {
		notifiers = append(notifiers, notify.NewWebhook(cfg.Notify.Webhook.URL, cfg.Notify.Webhook.Secret))
	}

	return notify.NewManager(notifiers)
}

func buildRunner(cfg *config.Config, db *store.SQLiteStore, registry *focus.Registry) *scheduler.Runner {
	mgr := buildNotifyManager(cfg)
	runner := scheduler.NewRunner()

	dispatch := scheduler.NewReminderDispatcher(db, mgr)
	t := dispatch.Task()
	t.Interval = cfg.Schedule.ParseReminderInterval()
	runner.Add(t)

	rollover := scheduler.NewWeeklyRollover(db, mgr)
	t = rollover.Task()
	t.Interval = cfg.Schedule.ParseRolloverInterval()
	t.RunAtStart = true
	runner.Add(t)

	sweeper := scheduler.NewFocusSweeper(registry, db, mgr)
	t = sweeper.Task()
	t.Interval = cfg.Schedule.ParseFocusInterval()
	runner.Add(t)

	if cfg.Quotes.Enabled {
		var feeds []quotes.Feed
		for _, f := range cfg.Quotes.Feeds {
			feeds = append(feeds, quotes.Feed{Name: f.Name, URL: f.URL})
		}
		poster := scheduler.NewQuotePoster(quotes.NewProvider(feeds), mgr, cfg.Schedule.ParseQuoteInterval())
		runner.Add(poster.Task())
	}

	return runner
}

func runDaemon(port int) error {
	cfg, db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	if port == 0 {
		port = cfg.Server.Port
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	registry := focus.NewRegistry()
	runner := buildRunner(cfg, db, registry)
	runner.Start(ctx)

	log.WithField("port", port).Info("daemon started")
	srv := server.New(db, port)
	err = srv.ListenAndServe(ctx)

	cancel()
	runner.Wait()
	log.Info("daemon stopped")
	return err
}

func runServe(port int) error {
	cfg, db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	if port == 0 {
		port = cfg.Server.Port
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.WithField("port", port).Info("server started")
	return server.New(db, port).ListenAndServe(ctx)
}

func runLog(userID, guildID int64, duration, topic string) error {
	minutes, err := timeutil.ParseMinutes(duration)
	if err != nil {
		return err
	}

	_, db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	now := time.Now().UTC()

	if _, err := db.AddStudyLog(ctx, userID, minutes, now.Unix(), topic, guildID); err != nil {
		return err
	}
	if err := db.IncrementLeaderboard(ctx, guildID, userID, minutes); err != nil {
		return err
	}
	st, err := db.ApplyStudyDay(ctx, userID, now)
	if err != nil {
		return err
	}

	fmt.Printf("logged %d minutes for user %d (streak: %d days)\n", minutes, userID, st.Count)
	return nil
}

func runLeaderboard(guildID int64, limit int) error {
	_, db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	entries, err := db.GetLeaderboard(context.Background(), guildID, limit)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("no study minutes recorded for this guild yet")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tUSER\tMINUTES")
	for i, e := range entries {
		fmt.Fprintf(w, "%d\t%d\t%d\n", i+1, e.UserID, e.Minutes)
	}
	return w.Flush()
}

func runRemind(userID, guildID int64, in string, message []string) error {
	d, err := timeutil.ParseRelative(in)
	if err != nil {
		return err
	}

	_, db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	remindAt := time.Now().UTC().Add(d)
	id, err := db.AddReminder(context.Background(), userID, guildID, 0,
		strings.Join(message, " "), remindAt.Unix())
	if err != nil {
		return err
	}

	fmt.Printf("reminder %d set for %s\n", id, remindAt.Format(time.RFC3339))
	return nil
}

func runKVGet(key string) error {
	_, db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	value, err := db.GetKV(context.Background(), key)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("key %q is not set", key)
	}
	if err != nil {
		return err
	}

	fmt.Println(value)
	return nil
}

func runKVSet(key, value string) error {
	_, db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	return db.SetKV(context.Background(), key, value)
}

func runKVDel(key string) error {
	_, db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	return db.DeleteKV(context.Background(), key)
}
