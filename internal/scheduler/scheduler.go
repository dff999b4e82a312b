package scheduler

import (
	"time"

	"github.com/julianstephens/lectio/internal/catalog"
	"github.com/julianstephens/lectio/internal/models"
	"github.com/julianstephens/lectio/internal/streak"
)

// Summary is the state of one plan as of a moment
type Summary struct {
	PlanID         string
	Day            int // current day index, not clamped
	TotalDays      int
	Completed      int // distinct readings completed
	Percentage     int
	CurrentStreak  int
	LongestStreak  int
	CompletedToday bool
	Finished       bool // every reading completed
}

type Scheduler struct{}

func New() *Scheduler {
	return &Scheduler{}
}

// TodayReading returns the reading for the plan's current day. The day is clamped
// to the plan length so a finished schedule keeps showing its last reading.
// It reports false only for a plan with no readings.
func (s *Scheduler) TodayReading(plan models.ReadingPlan, pp *models.PlanProgress, now time.Time) (models.Reading, int, bool) {
	if len(plan.Readings) == 0 {
		return models.Reading{}, 0, false
	}

	day := 1
	if pp != nil {
		day = streak.CurrentDayIndex(pp.StartDate, now)
	}
	if day > len(plan.Readings) {
		day = len(plan.Readings)
	}

	if r, ok := catalog.GetReadingByDay(plan, day); ok {
		return r, day, true
	}
	return plan.Readings[day-1], day, true
}

// NextUnread returns the first reading in plan order that has not been completed
func (s *Scheduler) NextUnread(plan models.ReadingPlan, pp *models.PlanProgress) (models.Reading, bool) {
	for _, r := range plan.Readings {
		if pp == nil || !pp.HasCompleted(r.ID) {
			return r, true
		}
	}
	return models.Reading{}, false
}

// Summarize reports progress through plan. Completions of readings the plan
// does not contain are ignored for the percentage.
func (s *Scheduler) Summarize(plan models.ReadingPlan, pp *models.PlanProgress, now time.Time) Summary {
	sum := Summary{PlanID: plan.ID, TotalDays: plan.TotalDays, Day: 1}
	if sum.TotalDays == 0 {
		sum.TotalDays = len(plan.Readings)
	}
	if pp == nil {
		return sum
	}

	sum.Day = streak.CurrentDayIndex(pp.StartDate, now)
	sum.CurrentStreak = pp.CurrentStreak
	sum.LongestStreak = pp.LongestStreak
	sum.CompletedToday = streak.HasCompletedToday(pp.CompletedDates(), now)

	for _, r := range plan.Readings {
		if pp.HasCompleted(r.ID) {
			sum.Completed++
		}
	}
	sum.Percentage = streak.CompletionPercentage(sum.Completed, sum.TotalDays)
	sum.Finished = len(plan.Readings) > 0 && sum.Completed == len(plan.Readings)

	return sum
}
