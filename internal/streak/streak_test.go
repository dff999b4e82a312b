package streak

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var ny = mustLoad("America/New_York")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

func at(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, ny)
}

func TestCurrentDayIndex(t *testing.T) {
	now := at(2024, time.March, 15, 9, 30)

	tests := []struct {
		name  string
		start time.Time
		now   time.Time
		want  int
	}{
		{"started today at midnight", at(2024, time.March, 15, 0, 0), now, 1},
		{"started today later than now", at(2024, time.March, 15, 23, 0), now, 1},
		{"started six days ago", at(2024, time.March, 9, 0, 0), now, 7},
		{"started 23:59 checked 00:01", at(2024, time.March, 14, 23, 59), at(2024, time.March, 15, 0, 1), 2},
		{"start in the future", at(2024, time.March, 20, 8, 0), now, 1},
		{"across spring DST change", at(2024, time.March, 9, 12, 0), at(2024, time.March, 11, 0, 30), 3},
		{"no upper clamp", at(2023, time.March, 15, 8, 0), now, 367},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CurrentDayIndex(tt.start, tt.now))
		})
	}
}

func TestCurrentDayIndexUsesNowLocation(t *testing.T) {
	// 2024-03-15 03:00 UTC is still March 14 in New York
	start := time.Date(2024, time.March, 14, 12, 0, 0, 0, ny)
	now := time.Date(2024, time.March, 15, 3, 0, 0, 0, time.UTC)

	assert.Equal(t, 2, CurrentDayIndex(start, now))
	assert.Equal(t, 1, CurrentDayIndex(start, now.In(ny)))
}

func TestHasCompletedToday(t *testing.T) {
	now := at(2024, time.March, 15, 20, 0)

	assert.False(t, HasCompletedToday(nil, now))
	assert.False(t, HasCompletedToday([]time.Time{at(2024, time.March, 14, 23, 59)}, now))
	assert.True(t, HasCompletedToday([]time.Time{at(2024, time.March, 14, 8, 0), at(2024, time.March, 15, 0, 0)}, now))
	assert.False(t, HasCompletedToday([]time.Time{{}}, now), "zero timestamps are ignored")
}

func TestShouldExtendStreak(t *testing.T) {
	now := at(2024, time.March, 15, 20, 0)
	yesterday := at(2024, time.March, 14, 7, 0)
	today := at(2024, time.March, 15, 6, 0)

	assert.True(t, ShouldExtendStreak(nil, nil, now), "first completion")
	assert.True(t, ShouldExtendStreak([]time.Time{yesterday}, &yesterday, now))

	history := []time.Time{yesterday, today}
	// same-day completions never extend, however often asked
	assert.False(t, ShouldExtendStreak(history, &today, now))
	assert.False(t, ShouldExtendStreak(history, &today, now))
}

func TestComputeFromHistory(t *testing.T) {
	now := at(2024, time.March, 15, 12, 0)
	day := func(offset int) time.Time { return at(2024, time.March, 15+offset, 9, 0) }

	tests := []struct {
		name string
		ts   []time.Time
		want Result
	}{
		{"empty", nil, Result{}},
		{"today only", []time.Time{day(0)}, Result{1, 1}},
		{"yesterday keeps streak alive", []time.Time{day(-1), day(-2)}, Result{2, 2}},
		{"three consecutive days", []time.Time{day(0), day(-1), day(-2)}, Result{3, 3}},
		{"isolated older day does not raise longest", []time.Time{day(0), day(-1), day(-2), day(-5)}, Result{3, 3}},
		{"unordered input", []time.Time{day(-2), day(0), day(-1)}, Result{3, 3}},
		{"duplicates on one day", []time.Time{day(0), day(0), at(2024, time.March, 15, 23, 0), day(-1)}, Result{2, 2}},
		{"broken streak keeps longest", []time.Time{day(-3), day(-4), day(-5), day(-6)}, Result{0, 4}},
		{"older run longer than current", []time.Time{day(0), day(-3), day(-4), day(-5)}, Result{1, 3}},
		{"zero timestamps skipped", []time.Time{{}, day(0)}, Result{1, 1}},
		{"only zero timestamps", []time.Time{{}, {}}, Result{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeFromHistory(tt.ts, now)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got.Longest, got.Current)
		})
	}
}

func TestComputeFromHistoryAcrossMidnight(t *testing.T) {
	// 23:59 and 00:01 are two calendar days
	ts := []time.Time{at(2024, time.March, 14, 23, 59), at(2024, time.March, 15, 0, 1)}
	got := ComputeFromHistory(ts, at(2024, time.March, 15, 10, 0))
	assert.Equal(t, Result{2, 2}, got)
}

func TestComputeFromHistoryCalendarFromNow(t *testing.T) {
	// 03:30 UTC on the 15th is the evening of the 14th in New York
	ts := []time.Time{time.Date(2024, time.March, 15, 3, 30, 0, 0, time.UTC)}

	inNY := ComputeFromHistory(ts, at(2024, time.March, 16, 10, 0))
	assert.Equal(t, 0, inNY.Current, "two days ago in New York")

	inUTC := ComputeFromHistory(ts, time.Date(2024, time.March, 16, 10, 0, 0, 0, time.UTC))
	assert.Equal(t, 1, inUTC.Current, "yesterday in UTC")
}

func TestCompletionPercentage(t *testing.T) {
	tests := []struct {
		completed, total, want int
	}{
		{0, 0, 0},
		{5, 0, 0},
		{0, 365, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 2, 50},
		{365, 365, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CompletionPercentage(tt.completed, tt.total), "%d/%d", tt.completed, tt.total)
	}
}
