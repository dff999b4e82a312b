// Package notes stores free-text notes, at most one per reading, as a
// flat list under a single storage key.
package notes

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/lectio/internal/constants"
	"github.com/julianstephens/lectio/internal/logger"
	"github.com/julianstephens/lectio/internal/models"
	"github.com/julianstephens/lectio/internal/storage"
)

var (
	ErrEmptyNote    = errors.New("note content cannot be empty")
	ErrNoteNotFound = errors.New("note not found")
)

type Store struct {
	provider storage.Provider
	clock    func() time.Time
}

type Option func(*Store)

// WithClock replaces time.Now, for tests
func WithClock(clock func() time.Time) Option {
	return func(s *Store) { s.clock = clock }
}

func NewStore(provider storage.Provider, opts ...Option) *Store {
	s := &Store{provider: provider, clock: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// read returns the stored list. Malformed JSON is logged and read as an
// empty list; storage errors are returned.
func (s *Store) read() ([]models.Note, error) {
	raw, ok, err := s.provider.Get(constants.KeyNotes)
	if err != nil {
		return nil, fmt.Errorf("failed to read notes: %w", err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return []models.Note{}, nil
	}

	var list []models.Note
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		logger.Warn("Stored notes are unreadable, treating as empty", "error", err)
		return []models.Note{}, nil
	}
	if list == nil {
		list = []models.Note{}
	}
	return list, nil
}

func (s *Store) write(list []models.Note) error {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to encode notes: %w", err)
	}
	if err := s.provider.Set(constants.KeyNotes, string(data)); err != nil {
		logger.Error("Failed to save notes", "error", err)
		return fmt.Errorf("failed to save notes: %w", err)
	}
	return nil
}

// List returns every note in stored order. Read failures are logged and
// yield an empty list.
func (s *Store) List() []models.Note {
	list, err := s.read()
	if err != nil {
		logger.Error("Notes unavailable", "error", err)
		return []models.Note{}
	}
	return list
}

// GetForReading returns the first note attached to readingID
func (s *Store) GetForReading(readingID string) (models.Note, bool) {
	for _, n := range s.List() {
		if n.ReadingID == readingID {
			return n, true
		}
	}
	return models.Note{}, false
}

// Save upserts note. A note with the same ID is replaced in place. A note
// for a reading that already has one replaces it, keeping the existing ID
// and CreatedAt, so each reading has at most one note.
func (s *Store) Save(note models.Note) (models.Note, error) {
	list, err := s.read()
	if err != nil {
		return models.Note{}, err
	}

	idx := -1
	for i, n := range list {
		if note.ID != "" && n.ID == note.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		for i, n := range list {
			if n.ReadingID == note.ReadingID {
				idx = i
				note.ID = n.ID
				note.CreatedAt = n.CreatedAt
				break
			}
		}
	}
	if note.ID == "" {
		note.ID = uuid.NewString()
	}

	if idx >= 0 {
		list[idx] = note
	} else {
		list = append(list, note)
	}

	if err := s.write(list); err != nil {
		return models.Note{}, err
	}
	return note, nil
}

// Upsert writes content as readingID's note, stamping the timestamps
func (s *Store) Upsert(readingID, content string) (models.Note, error) {
	if strings.TrimSpace(content) == "" {
		return models.Note{}, ErrEmptyNote
	}

	now := s.clock()
	note := models.Note{
		ReadingID: readingID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if existing, ok := s.GetForReading(readingID); ok {
		note.ID = existing.ID
		note.CreatedAt = existing.CreatedAt
	}
	return s.Save(note)
}

// Delete removes the note with the given id
func (s *Store) Delete(id string) error {
	list, err := s.read()
	if err != nil {
		return err
	}
	for i, n := range list {
		if n.ID == id {
			return s.write(append(list[:i], list[i+1:]...))
		}
	}
	return fmt.Errorf("%w: %s", ErrNoteNotFound, id)
}

// DeleteForReadings removes every note attached to one of readingIDs and
// returns how many were removed.
func (s *Store) DeleteForReadings(readingIDs []string) (int, error) {
	list, err := s.read()
	if err != nil {
		return 0, err
	}

	drop := make(map[string]bool, len(readingIDs))
	for _, id := range readingIDs {
		drop[id] = true
	}

	kept := list[:0]
	for _, n := range list {
		if !drop[n.ReadingID] {
			kept = append(kept, n)
		}
	}
	removed := len(list) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := s.write(kept); err != nil {
		return 0, err
	}
	return removed, nil
}

// Replace overwrites the whole list, used by import
func (s *Store) Replace(list []models.Note) error {
	if list == nil {
		list = []models.Note{}
	}
	return s.write(list)
}

// Clear deletes every note
func (s *Store) Clear() error {
	if err := s.provider.Delete(constants.KeyNotes); err != nil {
		return fmt.Errorf("failed to clear notes: %w", err)
	}
	return nil
}
