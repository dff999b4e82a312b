// Package builder constructs user-authored reading plans.
package builder

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/lectio/internal/constants"
	"github.com/julianstephens/lectio/internal/models"
)

// NewPlan assembles a custom plan around readings. The id is unique and
// carries the custom- prefix.
func NewPlan(name, description string, readings []models.Reading) models.ReadingPlan {
	if readings == nil {
		readings = []models.Reading{}
	}
	return models.ReadingPlan{
		ID:                constants.CustomPlanIDPrefix + uuid.NewString(),
		Name:              strings.TrimSpace(name),
		Description:       strings.TrimSpace(description),
		Type:              constants.PlanTypeCustom,
		Readings:          readings,
		TotalDays:         len(readings),
		EstimatedDuration: fmt.Sprintf("%d days", len(readings)),
	}
}

// NewReading builds the reading for a 1-based day. Ids embed the day and a
// random suffix so readings stay unique across plans.
func NewReading(day int, passages, studyTags []string, theme string) models.Reading {
	return models.Reading{
		ID:        fmt.Sprintf("%s%d-%s", constants.ReadingIDPrefix, day, uuid.NewString()[:8]),
		Day:       day,
		Passages:  passages,
		StudyTags: studyTags,
		Theme:     strings.TrimSpace(theme),
	}
}

// ParsePassages splits "Genesis 1-2, Psalm 1" into trimmed, non-empty passages
func ParsePassages(text string) []string {
	parts := strings.Split(text, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// FromDays builds a plan with one reading per entry of days, each entry a
// comma-separated passage list. Empty entries are kept so validation can
// report them.
func FromDays(name, description string, days []string, studyTags []string, theme string) models.ReadingPlan {
	readings := make([]models.Reading, 0, len(days))
	for i, d := range days {
		readings = append(readings, NewReading(i+1, ParsePassages(d), studyTags, theme))
	}
	return NewPlan(name, description, readings)
}

// Sequential reads one chapter of book per day
func Sequential(name, description, book string, chapters int) models.ReadingPlan {
	book = strings.TrimSpace(book)
	readings := make([]models.Reading, 0, max(chapters, 0))
	for i := 1; i <= chapters; i++ {
		readings = append(readings, NewReading(i, []string{fmt.Sprintf("%s %d", book, i)}, nil, ""))
	}
	return NewPlan(name, description, readings)
}
