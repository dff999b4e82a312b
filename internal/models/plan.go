package models

import "github.com/julianstephens/lectio/internal/constants"

// Reading is a single day's assignment within a plan
type Reading struct {
	ID        string   `json:"id"`
	Day       int      `json:"day"` // 1-based
	Passages  []string `json:"passages"`
	StudyTags []string `json:"studyTags,omitempty"`
	Theme     string   `json:"theme,omitempty"`
}

// ReadingPlan is an ordered multi-day schedule of readings. Plans are
// immutable once created.
type ReadingPlan struct {
	ID                string             `json:"id"`
	Name              string             `json:"name"`
	Description       string             `json:"description"`
	Type              constants.PlanType `json:"type"`
	Readings          []Reading          `json:"readings"`
	TotalDays         int                `json:"totalDays"`
	EstimatedDuration string             `json:"estimatedDuration"`
}

// IsCustom reports whether the plan was authored by the user
func (p ReadingPlan) IsCustom() bool {
	return p.Type == constants.PlanTypeCustom
}

// ReadingIDs returns the identifiers of every reading in plan order
func (p ReadingPlan) ReadingIDs() []string {
	ids := make([]string, 0, len(p.Readings))
	for _, r := range p.Readings {
		ids = append(ids, r.ID)
	}
	return ids
}
