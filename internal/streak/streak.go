// Package streak holds the calendar arithmetic behind day indexes and
// reading streaks. Every function takes "now" explicitly and treats
// now.Location() as the user's calendar.
package streak

import (
	"math"
	"sort"
	"time"

	"github.com/julianstephens/lectio/internal/utils"
)

// Result is a recomputed streak pair. Longest is never below Current.
type Result struct {
	Current int
	Longest int
}

// CurrentDayIndex is the 1-based day of a plan started at start. Days are
// counted in calendar days, so a plan started at 23:59 is on day 2 one
// minute after midnight. There is no upper clamp. A start in the future
// yields 1.
func CurrentDayIndex(start, now time.Time) int {
	days := utils.CalendarDaysBetween(start, now, now.Location()) + 1
	if days < 1 {
		return 1
	}
	return days
}

// HasCompletedToday reports whether any timestamp falls on now's calendar day.
func HasCompletedToday(timestamps []time.Time, now time.Time) bool {
	loc := now.Location()
	for _, ts := range timestamps {
		if ts.IsZero() {
			continue
		}
		if utils.SameDay(ts, now, loc) {
			return true
		}
	}
	return false
}

// ShouldExtendStreak decides whether a new completion adds one to the
// current streak. It is false only when a completion is already recorded
// for today, so repeated completions on one day count once.
func ShouldExtendStreak(timestamps []time.Time, last *time.Time, now time.Time) bool {
	if last == nil {
		return true
	}
	return !HasCompletedToday(timestamps, now)
}

// days returns the distinct calendar days of timestamps, newest first.
func days(timestamps []time.Time, loc *time.Location) []time.Time {
	seen := make(map[string]bool, len(timestamps))
	out := make([]time.Time, 0, len(timestamps))
	for _, ts := range timestamps {
		if ts.IsZero() {
			continue
		}
		key := utils.DayKey(ts, loc)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, utils.StartOfDay(ts, loc))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].After(out[j]) })
	return out
}

// ComputeFromHistory rebuilds both streaks from completion timestamps.
// The current streak survives only if the newest day is today or yesterday.
func ComputeFromHistory(timestamps []time.Time, now time.Time) Result {
	loc := now.Location()
	ds := days(timestamps, loc)
	if len(ds) == 0 {
		return Result{}
	}

	var res Result
	if since := utils.CalendarDaysBetween(ds[0], now, loc); since == 0 || since == 1 {
		res.Current = 1
		for i := 1; i < len(ds); i++ {
			if utils.CalendarDaysBetween(ds[i], ds[i-1], loc) != 1 {
				break
			}
			res.Current++
		}
	}

	run := 1
	res.Longest = 1
	for i := 1; i < len(ds); i++ {
		if utils.CalendarDaysBetween(ds[i], ds[i-1], loc) == 1 {
			run++
		} else {
			run = 1
		}
		if run > res.Longest {
			res.Longest = run
		}
	}
	if res.Current > res.Longest {
		res.Longest = res.Current
	}

	return res
}

// CompletionPercentage is completed/total rounded to a whole percent.
func CompletionPercentage(completed, totalDays int) int {
	if totalDays <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(totalDays) * 100))
}
