package validation

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/lectio/internal/constants"
	"github.com/julianstephens/lectio/internal/models"
	"github.com/julianstephens/lectio/internal/streak"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	// Plan authoring
	ConflictMissingName        ConflictType = "missing_name"
	ConflictMissingDescription ConflictType = "missing_description"
	ConflictNoReadings         ConflictType = "no_readings"
	ConflictMissingPassages    ConflictType = "missing_passages"
	ConflictBlankPassage       ConflictType = "blank_passage"
	ConflictMissingReadingID   ConflictType = "missing_reading_id"
	ConflictDuplicateReadingID ConflictType = "duplicate_reading_id"
	ConflictNonContiguousDays  ConflictType = "non_contiguous_days"
	ConflictTotalDaysMismatch  ConflictType = "total_days_mismatch"
	ConflictInvalidPlanType    ConflictType = "invalid_plan_type"
	ConflictMissingPlanID      ConflictType = "missing_plan_id"

	// Progress integrity
	ConflictStreakMismatch      ConflictType = "streak_mismatch"
	ConflictLongestBelowCurrent ConflictType = "longest_below_current"
	ConflictTotalMismatch       ConflictType = "total_mismatch"
	ConflictOrphanedProgress    ConflictType = "orphaned_progress"
	ConflictUnknownReading      ConflictType = "unknown_reading"
	ConflictMissingCurrentEntry ConflictType = "missing_current_entry"
)

// Conflict represents a detected problem in a plan or in stored progress
type Conflict struct {
	Type        ConflictType
	Description string
	PlanID      string   // plan involved (if applicable)
	Items       []string // reading ids involved
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Messages returns the description of every conflict in detection order
func (vr *ValidationResult) Messages() []string {
	msgs := make([]string, len(vr.Conflicts))
	for i, c := range vr.Conflicts {
		msgs[i] = c.Description
	}
	return msgs
}

// Has reports whether a conflict of type t was detected
func (vr *ValidationResult) Has(t ConflictType) bool {
	for _, c := range vr.Conflicts {
		if c.Type == t {
			return true
		}
	}
	return false
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No problems detected."
	}

	var b strings.Builder
	b.WriteString("Problems detected:\n")
	for _, c := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", c.Description)
	}
	return b.String()
}

func (vr *ValidationResult) add(t ConflictType, planID, desc string, items ...string) {
	vr.Conflicts = append(vr.Conflicts, Conflict{
		Type:        t,
		Description: desc,
		PlanID:      planID,
		Items:       items,
	})
}

// PlanLookup resolves plan ids, satisfied by the catalog
type PlanLookup interface {
	GetByID(id string) (models.ReadingPlan, bool)
}

// Validator checks plans and stored progress
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidatePlan collects every problem with a plan so they can be shown at once
func (v *Validator) ValidatePlan(plan models.ReadingPlan) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	if strings.TrimSpace(plan.ID) == "" {
		result.add(ConflictMissingPlanID, plan.ID, "Plan id is required")
	}
	if strings.TrimSpace(plan.Name) == "" {
		result.add(ConflictMissingName, plan.ID, "Plan name is required")
	}
	if strings.TrimSpace(plan.Description) == "" {
		result.add(ConflictMissingDescription, plan.ID, "Plan description is required")
	}
	if plan.Type != "" && !constants.ValidPlanType(plan.Type) {
		result.add(ConflictInvalidPlanType, plan.ID, fmt.Sprintf("Plan type %q is not recognized", plan.Type))
	}
	if len(plan.Readings) == 0 {
		result.add(ConflictNoReadings, plan.ID, "At least one reading is required")
		return result
	}

	seen := make(map[string]int, len(plan.Readings))
	for i, r := range plan.Readings {
		n := i + 1
		if len(r.Passages) == 0 {
			result.add(ConflictMissingPassages, plan.ID, fmt.Sprintf("Reading %d must have at least one passage", n), r.ID)
		}
		for _, p := range r.Passages {
			if strings.TrimSpace(p) == "" {
				result.add(ConflictBlankPassage, plan.ID, fmt.Sprintf("Reading %d has a blank passage", n), r.ID)
				break
			}
		}
		if r.Day != n {
			result.add(ConflictNonContiguousDays, plan.ID, fmt.Sprintf("Reading %d is scheduled for day %d, expected day %d", n, r.Day, n), r.ID)
		}
		if r.ID == "" {
			result.add(ConflictMissingReadingID, plan.ID, fmt.Sprintf("Reading %d is missing an id", n))
			continue
		}
		if first, dup := seen[r.ID]; dup {
			result.add(ConflictDuplicateReadingID, plan.ID, fmt.Sprintf("Reading %d reuses the id %q of reading %d", n, r.ID, first), r.ID)
			continue
		}
		seen[r.ID] = n
	}

	if plan.TotalDays != len(plan.Readings) {
		result.add(ConflictTotalDaysMismatch, plan.ID, fmt.Sprintf("Plan lists %d total days but has %d readings", plan.TotalDays, len(plan.Readings)))
	}

	return result
}

// ValidateProgress compares stored progress with what its history and the
// catalog imply. Entries are checked in plan id order.
func (v *Validator) ValidateProgress(p *models.MultiPlanProgress, plans PlanLookup, now time.Time) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}
	if p == nil {
		return result
	}

	if _, ok := p.PlanProgress[p.CurrentPlanID]; !ok && p.CurrentPlanID != "" {
		result.add(ConflictMissingCurrentEntry, p.CurrentPlanID,
			fmt.Sprintf("Active plan %q has no progress entry; it will be created on next use", p.CurrentPlanID))
	}

	ids := make([]string, 0, len(p.PlanProgress))
	for id := range p.PlanProgress {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		pp := p.PlanProgress[id]
		if pp == nil {
			continue
		}

		plan, found := plans.GetByID(id)
		if !found {
			result.add(ConflictOrphanedProgress, id, fmt.Sprintf("Progress for %q has no matching plan in the catalog", id))
		} else {
			var unknown []string
			for _, c := range pp.Completions {
				if c.ReadingID == "" {
					continue
				}
				known := false
				for _, r := range plan.Readings {
					if r.ID == c.ReadingID {
						known = true
						break
					}
				}
				if !known {
					unknown = append(unknown, c.ReadingID)
				}
			}
			if len(unknown) > 0 {
				result.add(ConflictUnknownReading, id,
					fmt.Sprintf("Progress for %q records %d completion(s) of readings not in the plan", id, len(unknown)), unknown...)
			}
		}

		if pp.LongestStreak < pp.CurrentStreak {
			result.add(ConflictLongestBelowCurrent, id,
				fmt.Sprintf("Plan %q: longest streak %d is below current streak %d", id, pp.LongestStreak, pp.CurrentStreak))
		}

		res := streak.ComputeFromHistory(pp.CompletedDates(), now)
		if res.Current != pp.CurrentStreak || res.Longest != pp.LongestStreak {
			result.add(ConflictStreakMismatch, id,
				fmt.Sprintf("Plan %q: stored streak %d/%d differs from history %d/%d (current/longest)",
					id, pp.CurrentStreak, pp.LongestStreak, res.Current, res.Longest))
		}

		if pp.TotalReadings != len(pp.Completions) {
			result.add(ConflictTotalMismatch, id,
				fmt.Sprintf("Plan %q: total readings %d does not match %d recorded completions", id, pp.TotalReadings, len(pp.Completions)))
		}
	}

	return result
}
