package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/lectio/internal/logger"
	"github.com/julianstephens/lectio/internal/utils"
)

// Completion records one completed reading. It replaces the pair of parallel
// completedReadings/completedDates lists used by earlier versions.
type Completion struct {
	ReadingID   string    `json:"readingId"`
	CompletedAt time.Time `json:"completedAt"` // zero when the source record had no timestamp
}

type completionJSON struct {
	ReadingID   string  `json:"readingId"`
	CompletedAt *string `json:"completedAt"`
}

func (c Completion) MarshalJSON() ([]byte, error) {
	out := completionJSON{ReadingID: c.ReadingID}
	if !c.CompletedAt.IsZero() {
		s := c.CompletedAt.Format(time.RFC3339Nano)
		out.CompletedAt = &s
	}
	return json.Marshal(out)
}

func (c *Completion) UnmarshalJSON(data []byte) error {
	var in completionJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	c.ReadingID = in.ReadingID
	c.CompletedAt = time.Time{}
	if in.CompletedAt != nil && *in.CompletedAt != "" {
		t, err := utils.ParseTimestamp(*in.CompletedAt, time.Local)
		if err != nil {
			return fmt.Errorf("completion %q: %w", in.ReadingID, err)
		}
		c.CompletedAt = t
	}
	return nil
}

// PlanProgress tracks one plan's completions and streak
type PlanProgress struct {
	PlanID           string
	Completions      []Completion // duplicates permitted
	CurrentStreak    int
	LongestStreak    int
	LastReadingDate  *time.Time
	TotalReadings    int
	StartDate        time.Time
	LastAccessedDate time.Time
}

// planProgressJSON is the persisted shape. CompletedReadings/CompletedDates are
// only read, never written: they let records exported by the browser build
// (parallel lists) decode into Completions.
type planProgressJSON struct {
	PlanID            string       `json:"planId"`
	Completions       []Completion `json:"completions"`
	CompletedReadings []string     `json:"completedReadings,omitempty"`
	CompletedDates    []string     `json:"completedDates,omitempty"`
	CurrentStreak     int          `json:"currentStreak"`
	LongestStreak     int          `json:"longestStreak"`
	LastReadingDate   *string      `json:"lastReadingDate"`
	TotalReadings     int          `json:"totalReadings"`
	StartDate         string       `json:"startDate"`
	LastAccessedDate  string       `json:"lastAccessedDate,omitempty"`
}

func (p PlanProgress) MarshalJSON() ([]byte, error) {
	out := planProgressJSON{
		PlanID:        p.PlanID,
		Completions:   p.Completions,
		CurrentStreak: p.CurrentStreak,
		LongestStreak: p.LongestStreak,
		TotalReadings: p.TotalReadings,
		StartDate:     formatTimestamp(p.StartDate),
	}
	if out.Completions == nil {
		out.Completions = []Completion{}
	}
	if p.LastReadingDate != nil {
		s := formatTimestamp(*p.LastReadingDate)
		out.LastReadingDate = &s
	}
	if !p.LastAccessedDate.IsZero() {
		out.LastAccessedDate = formatTimestamp(p.LastAccessedDate)
	}
	return json.Marshal(out)
}

func (p *PlanProgress) UnmarshalJSON(data []byte) error {
	var in planProgressJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	completions := in.Completions
	if len(completions) == 0 && (len(in.CompletedReadings) > 0 || len(in.CompletedDates) > 0) {
		zipped, err := ZipCompletions(in.CompletedReadings, in.CompletedDates)
		if err != nil {
			logger.Warn("Ignoring unreadable completion dates", "plan", in.PlanID, "error", err)
		}
		completions = zipped
	}

	start, err := parseOptional(in.StartDate)
	if err != nil {
		return fmt.Errorf("plan %q startDate: %w", in.PlanID, err)
	}
	accessed, err := parseOptional(in.LastAccessedDate)
	if err != nil {
		return fmt.Errorf("plan %q lastAccessedDate: %w", in.PlanID, err)
	}
	var last *time.Time
	if in.LastReadingDate != nil && *in.LastReadingDate != "" {
		t, err := utils.ParseTimestamp(*in.LastReadingDate, time.Local)
		if err != nil {
			return fmt.Errorf("plan %q lastReadingDate: %w", in.PlanID, err)
		}
		last = &t
	}

	*p = PlanProgress{
		PlanID:           in.PlanID,
		Completions:      completions,
		CurrentStreak:    in.CurrentStreak,
		LongestStreak:    in.LongestStreak,
		LastReadingDate:  last,
		TotalReadings:    in.TotalReadings,
		StartDate:        start,
		LastAccessedDate: accessed,
	}
	return nil
}

// CompletedReadings returns the reading ids in completion order
func (p *PlanProgress) CompletedReadings() []string {
	ids := make([]string, len(p.Completions))
	for i, c := range p.Completions {
		ids[i] = c.ReadingID
	}
	return ids
}

// CompletedDates returns the completion timestamps in completion order
func (p *PlanProgress) CompletedDates() []time.Time {
	dates := make([]time.Time, len(p.Completions))
	for i, c := range p.Completions {
		dates[i] = c.CompletedAt
	}
	return dates
}

// HasCompleted reports whether readingID appears in the completion history
func (p *PlanProgress) HasCompleted(readingID string) bool {
	for _, c := range p.Completions {
		if c.ReadingID == readingID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy
func (p *PlanProgress) Clone() *PlanProgress {
	if p == nil {
		return nil
	}
	cp := *p
	if p.Completions != nil {
		cp.Completions = make([]Completion, len(p.Completions))
		copy(cp.Completions, p.Completions)
	}
	if p.LastReadingDate != nil {
		t := *p.LastReadingDate
		cp.LastReadingDate = &t
	}
	return &cp
}

// MultiPlanProgress is the root persisted aggregate
type MultiPlanProgress struct {
	Version       int                      `json:"version"`
	UserID        string                   `json:"userId"`
	CurrentPlanID string                   `json:"currentPlanId"`
	PlanProgress  map[string]*PlanProgress `json:"planProgress"`
}

// Clone returns a deep copy
func (m *MultiPlanProgress) Clone() *MultiPlanProgress {
	if m == nil {
		return nil
	}
	cp := &MultiPlanProgress{
		Version:       m.Version,
		UserID:        m.UserID,
		CurrentPlanID: m.CurrentPlanID,
		PlanProgress:  make(map[string]*PlanProgress, len(m.PlanProgress)),
	}
	for id, pp := range m.PlanProgress {
		cp.PlanProgress[id] = pp.Clone()
	}
	return cp
}

// LegacyProgress is the retired single-plan record. It is only read, as the
// source of a migration.
type LegacyProgress struct {
	UserID            string   `json:"userId"`
	CurrentPlanID     string   `json:"currentPlanId"`
	CompletedReadings []string `json:"completedReadings"`
	CompletedDates    []string `json:"completedDates"`
	CurrentStreak     int      `json:"currentStreak"`
	LongestStreak     int      `json:"longestStreak"`
	LastReadingDate   *string  `json:"lastReadingDate"`
	TotalReadings     int      `json:"totalReadings"`
	StartDate         string   `json:"startDate"`
}

// ZipCompletions pairs parallel reading-id and timestamp lists by position.
// Unequal lengths are kept rather than truncated: a reading without a date
// gets a zero CompletedAt, a date without a reading gets an empty ReadingID.
// Unparseable dates also become zero; the returned slice is always complete
// and err lists every date that could not be read.
func ZipCompletions(readings, dates []string) ([]Completion, error) {
	n := len(readings)
	if len(dates) > n {
		n = len(dates)
	}
	out := make([]Completion, n)
	var errs []error
	for i := 0; i < n; i++ {
		if i < len(readings) {
			out[i].ReadingID = readings[i]
		}
		if i < len(dates) && dates[i] != "" {
			t, err := utils.ParseTimestamp(dates[i], time.Local)
			if err != nil {
				errs = append(errs, fmt.Errorf("completed date %d: %w", i, err))
				continue
			}
			out[i].CompletedAt = t
		}
	}
	return out, errors.Join(errs...)
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}

func parseOptional(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return utils.ParseTimestamp(s, time.Local)
}
