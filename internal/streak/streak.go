// Package streak holds the single definition of the daily study streak
// transition. Every caller that credits a study day goes through Next so
// there is exactly one notion of a broken streak.
package streak

import "time"

// DateLayout is the ISO calendar date stored alongside streak counts.
const DateLayout = "2006-01-02"

// State is a user's streak as persisted.
type State struct {
	Count    int
	Highest  int
	LastDate string
}

// Next returns the streak state after crediting a study day on today.
//
// Same calendar day: unchanged. Exactly one day elapsed: count + 1.
// Anything longer (or no prior state / unparseable date): reset to 1.
// Highest never decreases.
func Next(prev State, today time.Time) State {
	todayStr := today.UTC().Format(DateLayout)

	next := State{Count: 1, Highest: prev.Highest, LastDate: todayStr}
	if prev.LastDate != "" {
		last, err := time.ParseInLocation(DateLayout, prev.LastDate, time.UTC)
		if err == nil {
			switch gapDays(last, today.UTC()) {
			case 0:
				next.Count = prev.Count
				next.LastDate = prev.LastDate
			case 1:
				next.Count = prev.Count + 1
			}
		}
	}

	if next.Count > next.Highest {
		next.Highest = next.Count
	}
	return next
}

// gapDays counts calendar days between two instants, ignoring time of day.
func gapDays(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f) / (24 * time.Hour))
}
