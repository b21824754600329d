// Package timeutil holds the time arithmetic shared by the store and the
// schedulers: ISO-week bucketing and relative duration parsing.
package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// WeekSeconds is the length of one week bucket.
const WeekSeconds = 7 * 24 * 60 * 60

// WeekStart returns the unix timestamp of Monday 00:00 UTC of the ISO
// week containing ts. Every piece of weekly activity data is keyed by
// this value.
func WeekStart(ts int64) int64 {
	t := time.Unix(ts, 0).UTC()
	// time.Weekday has Sunday == 0; shift so Monday == 0.
	days := (int(t.Weekday()) + 6) % 7
	monday := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, -days)
	return monday.Unix()
}

// ResetBoundary returns the unix timestamp of the most recent weekly
// reset boundary (weekday 0=Monday, hour 0-23, UTC) at or before now.
// If today's boundary has not been reached yet, the previous week's
// boundary is returned.
func ResetBoundary(now time.Time, weekday, hour int) int64 {
	now = now.UTC()
	nowWeekday := (int(now.Weekday()) + 6) % 7
	delta := (nowWeekday - weekday%7 + 7) % 7
	day := now.AddDate(0, 0, -delta)
	boundary := time.Date(day.Year(), day.Month(), day.Day(), hour%24, 0, 0, 0, time.UTC)
	if now.Before(boundary) {
		boundary = boundary.AddDate(0, 0, -7)
	}
	return boundary.Unix()
}

// ParseRelative parses compact relative durations like "30s", "10m",
// "2h" and "1d". A bare number is taken as minutes.
func ParseRelative(s string) (time.Duration, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}

	unit := time.Minute
	num := s
	switch s[len(s)-1] {
	case 's':
		unit, num = time.Second, s[:len(s)-1]
	case 'm':
		unit, num = time.Minute, s[:len(s)-1]
	case 'h':
		unit, num = time.Hour, s[:len(s)-1]
	case 'd':
		unit, num = 24*time.Hour, s[:len(s)-1]
	}

	n, err := strconv.ParseFloat(num, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return time.Duration(n * float64(unit)), nil
}

// ParseMinutes parses study time notation: "30" and "30m" are minutes,
// "1.5h" is hours.
func ParseMinutes(s string) (int, error) {
	d, err := ParseRelative(s)
	if err != nil {
		return 0, err
	}
	minutes := int(d / time.Minute)
	if minutes <= 0 {
		return 0, fmt.Errorf("duration %q is under a minute", s)
	}
	return minutes, nil
}
