package streak

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func TestNextFirstDay(t *testing.T) {
	got := Next(State{}, day("2024-03-01"))
	require.Equal(t, State{Count: 1, Highest: 1, LastDate: "2024-03-01"}, got)
}

func TestNextSameDay(t *testing.T) {
	prev := State{Count: 4, Highest: 6, LastDate: "2024-03-01"}
	got := Next(prev, day("2024-03-01"))
	require.Equal(t, prev, got)
}

func TestNextConsecutiveDay(t *testing.T) {
	prev := State{Count: 4, Highest: 6, LastDate: "2024-03-01"}
	got := Next(prev, day("2024-03-02"))
	require.Equal(t, State{Count: 5, Highest: 6, LastDate: "2024-03-02"}, got)
}

func TestNextBrokenStreak(t *testing.T) {
	prev := State{Count: 9, Highest: 9, LastDate: "2024-03-01"}
	got := Next(prev, day("2024-03-04"))
	require.Equal(t, State{Count: 1, Highest: 9, LastDate: "2024-03-04"}, got)
}

func TestNextHighestAdvances(t *testing.T) {
	prev := State{Count: 6, Highest: 6, LastDate: "2024-03-01"}
	got := Next(prev, day("2024-03-02"))
	require.Equal(t, 7, got.Count)
	require.Equal(t, 7, got.Highest)
}

func TestNextConsecutiveAcrossMonth(t *testing.T) {
	prev := State{Count: 2, Highest: 2, LastDate: "2024-02-29"}
	got := Next(prev, day("2024-03-01"))
	require.Equal(t, 3, got.Count)
}

func TestNextBadStoredDate(t *testing.T) {
	prev := State{Count: 5, Highest: 5, LastDate: "not-a-date"}
	got := Next(prev, day("2024-03-01"))
	require.Equal(t, 1, got.Count)
	require.Equal(t, 5, got.Highest)
}
