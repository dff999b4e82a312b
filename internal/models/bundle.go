package models

import (
	"encoding/json"
	"time"
)

// ExportBundle is the portable snapshot produced by export and consumed by
// import. Progress stays raw so a legacy record can be migrated on import.
type ExportBundle struct {
	Progress    json.RawMessage `json:"progress"`
	Notes       []Note          `json:"notes"`
	StudyFocus  *StudyFocus     `json:"studyFocus,omitempty"`
	CustomPlans []ReadingPlan   `json:"customPlans,omitempty"`
	ExportedAt  time.Time       `json:"exportedAt"`
	Version     string          `json:"version,omitempty"`
}
