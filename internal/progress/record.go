package progress

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/lectio/internal/constants"
	"github.com/julianstephens/lectio/internal/logger"
	"github.com/julianstephens/lectio/internal/models"
	"github.com/julianstephens/lectio/internal/utils"
)

// ErrUnknownShape is returned for records that are neither the current
// multi-plan shape nor the legacy single-plan shape.
var ErrUnknownShape = errors.New("unrecognized progress record")

// Record is a decoded progress record: *CurrentRecord or *LegacyRecord.
type Record interface {
	Shape() constants.Shape
}

type CurrentRecord struct {
	Progress *models.MultiPlanProgress
}

func (*CurrentRecord) Shape() constants.Shape { return constants.ShapeCurrent }

type LegacyRecord struct {
	Legacy models.LegacyProgress
}

func (*LegacyRecord) Shape() constants.Shape { return constants.ShapeLegacy }

func isKind(raw json.RawMessage, open byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == open
}

// Classify decides the shape of a raw record. A planProgress object marks
// the current shape; a completedReadings array without planProgress marks
// the legacy shape. Anything else is unknown. Invalid JSON is an error.
func Classify(raw []byte) (constants.Shape, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		var top any
		if jsonErr := json.Unmarshal(raw, &top); jsonErr != nil {
			return constants.ShapeUnknown, fmt.Errorf("invalid progress JSON: %w", jsonErr)
		}
		// valid JSON but not an object
		return constants.ShapeUnknown, nil
	}

	if pp, ok := fields["planProgress"]; ok {
		if isKind(pp, '{') {
			return constants.ShapeCurrent, nil
		}
		return constants.ShapeUnknown, nil
	}
	if cr, ok := fields["completedReadings"]; ok && isKind(cr, '[') {
		return constants.ShapeLegacy, nil
	}
	return constants.ShapeUnknown, nil
}

// Decode classifies raw and decodes it into the matching Record variant.
func Decode(raw []byte) (Record, error) {
	shape, err := Classify(raw)
	if err != nil {
		return nil, err
	}

	switch shape {
	case constants.ShapeCurrent:
		var p models.MultiPlanProgress
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("failed to decode progress: %w", err)
		}
		normalize(&p)
		return &CurrentRecord{Progress: &p}, nil
	case constants.ShapeLegacy:
		var l models.LegacyProgress
		if err := json.Unmarshal(raw, &l); err != nil {
			return nil, fmt.Errorf("failed to decode legacy progress: %w", err)
		}
		return &LegacyRecord{Legacy: l}, nil
	default:
		return nil, ErrUnknownShape
	}
}

// normalize fills fields that records written by older builds omit
func normalize(p *models.MultiPlanProgress) {
	if p.Version == 0 {
		p.Version = constants.ProgressSchemaVersion
	}
	if p.PlanProgress == nil {
		p.PlanProgress = make(map[string]*models.PlanProgress)
	}
	for id, pp := range p.PlanProgress {
		if pp == nil {
			delete(p.PlanProgress, id)
			continue
		}
		if pp.PlanID == "" {
			pp.PlanID = id
		}
		if pp.Completions == nil {
			pp.Completions = []models.Completion{}
		}
	}
}

// Migrate wraps a legacy record into a multi-plan aggregate keyed by the
// legacy plan id. Every legacy field lands in exactly one field of the new
// entry; LastAccessedDate is set to now. Timestamps that cannot be parsed
// are logged and kept as zero (or now, for the start date).
func Migrate(legacy models.LegacyProgress, now time.Time) *models.MultiPlanProgress {
	completions, err := models.ZipCompletions(legacy.CompletedReadings, legacy.CompletedDates)
	if err != nil {
		logger.Warn("Legacy progress has unreadable completion dates", "plan", legacy.CurrentPlanID, "error", err)
	}

	var last *time.Time
	if legacy.LastReadingDate != nil && *legacy.LastReadingDate != "" {
		t, err := utils.ParseTimestamp(*legacy.LastReadingDate, now.Location())
		if err != nil {
			logger.Warn("Legacy progress has unreadable lastReadingDate", "value", *legacy.LastReadingDate, "error", err)
		} else {
			last = &t
		}
	}

	start := now
	if legacy.StartDate != "" {
		t, err := utils.ParseTimestamp(legacy.StartDate, now.Location())
		if err != nil {
			logger.Warn("Legacy progress has unreadable startDate, using now", "value", legacy.StartDate, "error", err)
		} else {
			start = t
		}
	}

	entry := &models.PlanProgress{
		PlanID:           legacy.CurrentPlanID,
		Completions:      completions,
		CurrentStreak:    legacy.CurrentStreak,
		LongestStreak:    legacy.LongestStreak,
		LastReadingDate:  last,
		TotalReadings:    legacy.TotalReadings,
		StartDate:        start,
		LastAccessedDate: now,
	}

	return &models.MultiPlanProgress{
		Version:       constants.ProgressSchemaVersion,
		UserID:        legacy.UserID,
		CurrentPlanID: legacy.CurrentPlanID,
		PlanProgress:  map[string]*models.PlanProgress{legacy.CurrentPlanID: entry},
	}
}

// FromRaw decodes raw into the current shape, migrating legacy records.
// migrated reports whether a legacy record was converted.
func FromRaw(raw []byte, now time.Time) (p *models.MultiPlanProgress, migrated bool, err error) {
	rec, err := Decode(raw)
	if err != nil {
		return nil, false, err
	}
	switch r := rec.(type) {
	case *CurrentRecord:
		return r.Progress, false, nil
	case *LegacyRecord:
		return Migrate(r.Legacy, now), true, nil
	default:
		return nil, false, ErrUnknownShape
	}
}
