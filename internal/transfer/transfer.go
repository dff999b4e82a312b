// Package transfer moves every user-owned key in and out of a single
// portable bundle. Bundles are JSON, or YAML when the file name ends in
// .yaml or .yml.
package transfer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/lectio/internal/catalog"
	"github.com/julianstephens/lectio/internal/constants"
	"github.com/julianstephens/lectio/internal/focus"
	"github.com/julianstephens/lectio/internal/logger"
	"github.com/julianstephens/lectio/internal/models"
	"github.com/julianstephens/lectio/internal/notes"
	"github.com/julianstephens/lectio/internal/progress"
)

// Report describes what an import wrote
type Report struct {
	Progress         bool
	MigratedProgress bool
	Notes            int
	StudyFocus       bool
	CustomPlans      int
}

type Service struct {
	progress *progress.Store
	notes    *notes.Store
	focus    *focus.Store
	catalog  *catalog.Catalog
}

func New(p *progress.Store, n *notes.Store, f *focus.Store, c *catalog.Catalog) *Service {
	return &Service{progress: p, notes: n, focus: f, catalog: c}
}

// Export snapshots the stored data. Legacy progress is exported in the
// current shape.
func (s *Service) Export(now time.Time) (models.ExportBundle, error) {
	bundle := models.ExportBundle{
		Notes:       s.notes.List(),
		CustomPlans: s.catalog.Custom(),
		ExportedAt:  now,
		Version:     constants.Version,
	}

	if p := s.progress.Load(); p != nil {
		data, err := json.Marshal(p)
		if err != nil {
			return bundle, fmt.Errorf("failed to encode progress: %w", err)
		}
		bundle.Progress = data
	}

	f := s.focus.Load()
	bundle.StudyFocus = &f

	return bundle, nil
}

// Import overwrites each part present in bundle. Progress goes through the
// same classification and migration as a load; an unrecognized progress
// record is rejected with an error after the other parts are written.
func (s *Service) Import(bundle models.ExportBundle) (Report, error) {
	var report Report

	if bundle.Notes != nil {
		if err := s.notes.Replace(bundle.Notes); err != nil {
			return report, err
		}
		report.Notes = len(bundle.Notes)
	}

	if bundle.StudyFocus != nil {
		if err := s.focus.Save(*bundle.StudyFocus); err != nil {
			return report, err
		}
		report.StudyFocus = true
	}

	if bundle.CustomPlans != nil {
		if err := s.catalog.ReplaceCustom(bundle.CustomPlans); err != nil {
			return report, err
		}
		report.CustomPlans = len(bundle.CustomPlans)
	}

	raw := bytes.TrimSpace(bundle.Progress)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return report, nil
	}

	p, migrated, err := progress.FromRaw(raw, s.progress.Now())
	if err != nil {
		return report, fmt.Errorf("progress not imported: %w", err)
	}
	if err := s.progress.Save(p); err != nil {
		return report, err
	}
	report.Progress = true
	report.MigratedProgress = migrated
	logger.Info("Imported bundle", "notes", report.Notes, "customPlans", report.CustomPlans, "migrated", migrated)

	return report, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Encode renders bundle as indented JSON, or YAML when asYAML is set
func Encode(bundle models.ExportBundle, asYAML bool) ([]byte, error) {
	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode bundle: %w", err)
	}
	if !asYAML {
		return append(data, '\n'), nil
	}

	// Round-trip through a generic value so the raw progress record is
	// written as a mapping rather than bytes.
	var generic interface{}
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("failed to encode bundle: %w", err)
	}
	out, err := yaml.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("failed to encode bundle as YAML: %w", err)
	}
	return out, nil
}

// Decode parses a JSON or YAML bundle
func Decode(data []byte, asYAML bool) (models.ExportBundle, error) {
	var bundle models.ExportBundle

	if asYAML {
		var generic interface{}
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return bundle, fmt.Errorf("failed to parse YAML bundle: %w", err)
		}
		converted, err := json.Marshal(generic)
		if err != nil {
			return bundle, fmt.Errorf("failed to parse YAML bundle: %w", err)
		}
		data = converted
	}

	if err := json.Unmarshal(data, &bundle); err != nil {
		return bundle, fmt.Errorf("failed to parse bundle: %w", err)
	}
	return bundle, nil
}

// WriteFile writes bundle to path, choosing the format from its extension
func WriteFile(path string, bundle models.ExportBundle) error {
	data, err := Encode(bundle, isYAML(path))
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}

// ReadFile loads a bundle written by WriteFile
func ReadFile(path string) (models.ExportBundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.ExportBundle{}, fmt.Errorf("failed to read import file: %w", err)
	}
	return Decode(data, isYAML(path))
}
