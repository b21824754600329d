package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// AddWeeklyMessages adds count messages to a user's bucket for the week
// starting at weekStart (Monday 00:00 UTC).
func (s *SQLiteStore) AddWeeklyMessages(ctx context.Context, guildID, userID, weekStart int64, count int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO activity_messages (guild_id, user_id, week_start, messages)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(guild_id, user_id, week_start) DO UPDATE SET
			messages = messages + excluded.messages
	`, guildID, userID, weekStart, count)
	return storageErr(fmt.Sprintf("add weekly messages %d/%d", guildID, userID), err)
}

// AddWeeklyVoiceSeconds adds seconds of voice presence to a user's
// weekly bucket.
func (s *SQLiteStore) AddWeeklyVoiceSeconds(ctx context.Context, guildID, userID, weekStart int64, seconds int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO activity_voice (guild_id, user_id, week_start, seconds)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(guild_id, user_id, week_start) DO UPDATE SET
			seconds = seconds + excluded.seconds
	`, guildID, userID, weekStart, seconds)
	return storageErr(fmt.Sprintf("add weekly voice %d/%d", guildID, userID), err)
}

// GetWeeklyActivity joins message and voice counters for one week
// bucket, scored as messages + seconds/60, highest first. The formula
// is load-bearing: existing leaderboards depend on voice counting one
// point per minute and text one point per message.
func (s *SQLiteStore) GetWeeklyActivity(ctx context.Context, guildID, weekStart int64, limit int) ([]ActivityRow, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []ActivityRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT user_id,
		       SUM(messages) AS messages,
		       SUM(seconds) AS seconds,
		       SUM(messages) + SUM(seconds) / 60.0 AS score
		FROM (
			SELECT user_id, messages, 0 AS seconds
			FROM activity_messages WHERE guild_id = ? AND week_start = ?
			UNION ALL
			SELECT user_id, 0 AS messages, seconds
			FROM activity_voice WHERE guild_id = ? AND week_start = ?
		)
		GROUP BY user_id
		ORDER BY score DESC
		LIMIT ?
	`, guildID, weekStart, guildID, weekStart, limit)
	if err != nil {
		return nil, storageErr(fmt.Sprintf("get weekly activity %d", guildID), err)
	}
	return rows, nil
}

// SetActivityConfig saves a guild's weekly tracking configuration,
// preserving last_processed_week across reconfigures.
func (s *SQLiteStore) SetActivityConfig(ctx context.Context, guildID, roleID int64, channelIDs []int64, resetWeekday, resetHour int) error {
	ids, err := json.Marshal(channelIDs)
	if err != nil {
		return fmt.Errorf("marshal channel ids: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO activity_config (guild_id, role_id, channel_ids, reset_weekday, reset_hour)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(guild_id) DO UPDATE SET
			role_id = excluded.role_id,
			channel_ids = excluded.channel_ids,
			reset_weekday = excluded.reset_weekday,
			reset_hour = excluded.reset_hour
	`, guildID, roleID, string(ids), resetWeekday%7, resetHour%24)
	return storageErr(fmt.Sprintf("set activity config %d", guildID), err)
}

// GetActivityConfig returns a guild's configuration, or ErrNotFound.
func (s *SQLiteStore) GetActivityConfig(ctx context.Context, guildID int64) (*ActivityConfig, error) {
	var cfg ActivityConfig
	err := s.db.GetContext(ctx, &cfg, "SELECT * FROM activity_config WHERE guild_id = ?", guildID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storageErr(fmt.Sprintf("get activity config %d", guildID), err)
	}
	return &cfg, nil
}

// AllActivityConfigs returns every configured guild, for the rollover
// scheduler.
func (s *SQLiteStore) AllActivityConfigs(ctx context.Context) ([]ActivityConfig, error) {
	var cfgs []ActivityConfig
	err := s.db.SelectContext(ctx, &cfgs, "SELECT * FROM activity_config ORDER BY guild_id")
	if err != nil {
		return nil, storageErr("all activity configs", err)
	}
	return cfgs, nil
}

// SetLastProcessedWeek acks a completed rollover. The guard keeps the
// value monotonic so a stale tick can never move it backwards.
func (s *SQLiteStore) SetLastProcessedWeek(ctx context.Context, guildID, weekStart int64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE activity_config SET last_processed_week = ?
		WHERE guild_id = ? AND last_processed_week < ?
	`, weekStart, guildID, weekStart)
	return storageErr(fmt.Sprintf("set last processed week %d", guildID), err)
}

// ChannelIDs decodes the JSON channel allow-list.
func (c *ActivityConfig) ChannelIDs() []int64 {
	var ids []int64
	json.Unmarshal([]byte(c.ChannelIDsJSON), &ids)
	return ids
}
