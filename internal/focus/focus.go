// Package focus persists the user's study focus tags. The record is
// passed through without validation.
package focus

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/julianstephens/lectio/internal/constants"
	"github.com/julianstephens/lectio/internal/logger"
	"github.com/julianstephens/lectio/internal/models"
	"github.com/julianstephens/lectio/internal/storage"
)

type Store struct {
	provider storage.Provider
}

func NewStore(provider storage.Provider) *Store {
	return &Store{provider: provider}
}

func empty() models.StudyFocus {
	return models.StudyFocus{Tags: []string{}, CustomTags: []string{}}
}

// Load returns the stored focus, or empty lists when absent or unreadable
func (s *Store) Load() models.StudyFocus {
	raw, ok, err := s.provider.Get(constants.KeyStudyFocus)
	if err != nil {
		logger.Error("Study focus unavailable", "error", err)
		return empty()
	}
	if !ok {
		return empty()
	}

	var f models.StudyFocus
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		logger.Warn("Stored study focus is unreadable, treating as empty", "error", err)
		return empty()
	}
	if f.Tags == nil {
		f.Tags = []string{}
	}
	if f.CustomTags == nil {
		f.CustomTags = []string{}
	}
	return f
}

func (s *Store) Save(f models.StudyFocus) error {
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to encode study focus: %w", err)
	}
	if err := s.provider.Set(constants.KeyStudyFocus, string(data)); err != nil {
		logger.Error("Failed to save study focus", "error", err)
		return fmt.Errorf("failed to save study focus: %w", err)
	}
	return nil
}

// Clear deletes the stored focus
func (s *Store) Clear() error {
	if err := s.provider.Delete(constants.KeyStudyFocus); err != nil {
		return fmt.Errorf("failed to clear study focus: %w", err)
	}
	return nil
}

// AddTags appends tags not already present. Custom tags are kept apart
// from the predefined ones.
func AddTags(f models.StudyFocus, custom bool, tags ...string) models.StudyFocus {
	out := clone(f)
	target := &out.Tags
	if custom {
		target = &out.CustomTags
	}
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || contains(out.Tags, tag) || contains(out.CustomTags, tag) {
			continue
		}
		*target = append(*target, tag)
	}
	return out
}

// RemoveTags drops tags from both lists
func RemoveTags(f models.StudyFocus, tags ...string) models.StudyFocus {
	out := clone(f)
	out.Tags = without(out.Tags, tags)
	out.CustomTags = without(out.CustomTags, tags)
	return out
}

func clone(f models.StudyFocus) models.StudyFocus {
	return models.StudyFocus{
		Tags:       append([]string{}, f.Tags...),
		CustomTags: append([]string{}, f.CustomTags...),
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func without(list, drop []string) []string {
	out := list[:0]
	for _, v := range list {
		if !contains(drop, v) {
			out = append(out, v)
		}
	}
	return out
}
