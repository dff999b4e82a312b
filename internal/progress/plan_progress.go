package progress

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/lectio/internal/constants"
	"github.com/julianstephens/lectio/internal/models"
	"github.com/julianstephens/lectio/internal/streak"
)

// The functions below never mutate their input aggregate; each returns a
// modified deep copy.

// cloneOrNew copies p, or starts a new aggregate for planID when p is nil
func cloneOrNew(p *models.MultiPlanProgress, planID string, now time.Time) *models.MultiPlanProgress {
	if p == nil {
		return CreateDefault(planID, now)
	}
	next := p.Clone()
	if next.PlanProgress == nil {
		next.PlanProgress = make(map[string]*models.PlanProgress)
	}
	return next
}

func newPlanProgress(planID string, now time.Time) *models.PlanProgress {
	return &models.PlanProgress{
		PlanID:           planID,
		Completions:      []models.Completion{},
		StartDate:        now,
		LastAccessedDate: now,
	}
}

// CreateDefault starts a fresh aggregate with one zeroed entry for planID
func CreateDefault(planID string, now time.Time) *models.MultiPlanProgress {
	return &models.MultiPlanProgress{
		Version:       constants.ProgressSchemaVersion,
		UserID:        uuid.NewString(),
		CurrentPlanID: planID,
		PlanProgress: map[string]*models.PlanProgress{
			planID: newPlanProgress(planID, now),
		},
	}
}

// GetPlanProgress looks up a plan's entry. Absence means the plan was never started.
func GetPlanProgress(p *models.MultiPlanProgress, planID string) (*models.PlanProgress, bool) {
	if p == nil || p.PlanProgress == nil {
		return nil, false
	}
	pp, ok := p.PlanProgress[planID]
	return pp, ok && pp != nil
}

// GetCurrentPlanProgress looks up the active plan's entry
func GetCurrentPlanProgress(p *models.MultiPlanProgress) (*models.PlanProgress, bool) {
	if p == nil {
		return nil, false
	}
	return GetPlanProgress(p, p.CurrentPlanID)
}

// EnsureCurrent creates the active plan's entry when it is missing
func EnsureCurrent(p *models.MultiPlanProgress, now time.Time) (*models.MultiPlanProgress, *models.PlanProgress) {
	if p == nil {
		return nil, nil
	}
	if pp, ok := GetCurrentPlanProgress(p); ok {
		return p, pp
	}
	next := cloneOrNew(p, p.CurrentPlanID, now)
	pp := newPlanProgress(next.CurrentPlanID, now)
	next.PlanProgress[next.CurrentPlanID] = pp
	return next, pp
}

// SwitchActivePlan makes planID current, creating its entry if it has none.
// Other entries keep their history.
func SwitchActivePlan(p *models.MultiPlanProgress, planID string, now time.Time) *models.MultiPlanProgress {
	next := cloneOrNew(p, planID, now)

	if outgoing, ok := next.PlanProgress[next.CurrentPlanID]; ok && outgoing != nil {
		outgoing.LastAccessedDate = now
	}

	target, ok := next.PlanProgress[planID]
	if !ok || target == nil {
		target = newPlanProgress(planID, now)
		next.PlanProgress[planID] = target
	}
	target.LastAccessedDate = now
	next.CurrentPlanID = planID

	return next
}

// RecordCompletion appends a completion for readingID to planID's entry.
// The streak grows by one unless a completion is already recorded today.
func RecordCompletion(p *models.MultiPlanProgress, planID, readingID string, now time.Time) *models.MultiPlanProgress {
	next := cloneOrNew(p, planID, now)

	pp, ok := next.PlanProgress[planID]
	if !ok || pp == nil {
		pp = newPlanProgress(planID, now)
		next.PlanProgress[planID] = pp
	}

	if streak.ShouldExtendStreak(pp.CompletedDates(), pp.LastReadingDate, now) {
		pp.CurrentStreak++
	}
	pp.Completions = append(pp.Completions, models.Completion{ReadingID: readingID, CompletedAt: now})
	if pp.CurrentStreak > pp.LongestStreak {
		pp.LongestStreak = pp.CurrentStreak
	}
	last := now
	pp.LastReadingDate = &last
	pp.TotalReadings++

	return next
}

// ResetPlanProgress replaces planID's entry with a zeroed one starting now
func ResetPlanProgress(p *models.MultiPlanProgress, planID string, now time.Time) *models.MultiPlanProgress {
	next := cloneOrNew(p, planID, now)
	next.PlanProgress[planID] = newPlanProgress(planID, now)
	return next
}

// RemovePlan drops planID's entry. CurrentPlanID is left alone; a removed
// current entry is recreated by EnsureCurrent on next use.
func RemovePlan(p *models.MultiPlanProgress, planID string) *models.MultiPlanProgress {
	if p == nil {
		return nil
	}
	next := p.Clone()
	delete(next.PlanProgress, planID)
	return next
}

// AdvanceDay moves planID's start date one calendar day earlier, which
// moves the plan's current day forward by one.
func AdvanceDay(p *models.MultiPlanProgress, planID string) *models.MultiPlanProgress {
	if p == nil {
		return nil
	}
	next := p.Clone()
	if pp, ok := next.PlanProgress[planID]; ok && pp != nil {
		pp.StartDate = pp.StartDate.AddDate(0, 0, -1)
	}
	return next
}

// Verify recomputes an entry's streaks from its completion history
func Verify(pp *models.PlanProgress, now time.Time) streak.Result {
	if pp == nil {
		return streak.Result{}
	}
	return streak.ComputeFromHistory(pp.CompletedDates(), now)
}

// Repair rewrites the derived fields of every entry from its history and
// returns the ids of the entries that changed, sorted.
func Repair(p *models.MultiPlanProgress, now time.Time) (*models.MultiPlanProgress, []string) {
	if p == nil {
		return nil, nil
	}
	next := p.Clone()
	var changed []string

	for id, pp := range next.PlanProgress {
		res := Verify(pp, now)
		dirty := false

		if pp.CurrentStreak != res.Current || pp.LongestStreak != res.Longest {
			pp.CurrentStreak = res.Current
			pp.LongestStreak = res.Longest
			dirty = true
		}
		if pp.TotalReadings != len(pp.Completions) {
			pp.TotalReadings = len(pp.Completions)
			dirty = true
		}
		if latest, ok := latestCompletion(pp); ok && (pp.LastReadingDate == nil || !pp.LastReadingDate.Equal(latest)) {
			pp.LastReadingDate = &latest
			dirty = true
		}

		if dirty {
			changed = append(changed, id)
		}
	}

	sort.Strings(changed)
	return next, changed
}

func latestCompletion(pp *models.PlanProgress) (time.Time, bool) {
	var latest time.Time
	for _, c := range pp.Completions {
		if c.CompletedAt.After(latest) {
			latest = c.CompletedAt
		}
	}
	return latest, !latest.IsZero()
}
