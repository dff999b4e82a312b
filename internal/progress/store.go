// Package progress owns the persisted MultiPlanProgress aggregate: loading
// (with legacy migration), saving, and pure per-plan transformations.
package progress

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/julianstephens/lectio/internal/constants"
	"github.com/julianstephens/lectio/internal/logger"
	"github.com/julianstephens/lectio/internal/models"
	"github.com/julianstephens/lectio/internal/storage"
)

// Store reads and writes the progress record under a single storage key
type Store struct {
	provider storage.Provider
	clock    func() time.Time
	loc      *time.Location
}

type Option func(*Store)

// WithClock replaces time.Now, for tests
func WithClock(clock func() time.Time) Option {
	return func(s *Store) { s.clock = clock }
}

// WithLocation sets the calendar used for day boundaries
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func NewStore(provider storage.Provider, opts ...Option) *Store {
	s := &Store{
		provider: provider,
		clock:    time.Now,
		loc:      time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now is the current time in the store's calendar
func (s *Store) Now() time.Time {
	return s.clock().In(s.loc)
}

// Location is the store's calendar
func (s *Store) Location() *time.Location {
	return s.loc
}

// LoadStrict reads the record and reports every failure. A legacy record
// is migrated in memory (migrated is true) but not written back.
// A missing record returns nil with no error.
func (s *Store) LoadStrict() (p *models.MultiPlanProgress, migrated bool, err error) {
	raw, ok, err := s.provider.Get(constants.KeyProgress)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read progress: %w", err)
	}
	if !ok {
		return nil, false, nil
	}
	return FromRaw([]byte(raw), s.Now())
}

// Load returns the stored progress, or nil when there is none. Legacy
// records are migrated and written back immediately so migration runs
// once. Storage errors, malformed JSON and unrecognized shapes are logged
// and reported as no progress.
func (s *Store) Load() *models.MultiPlanProgress {
	p, migrated, err := s.LoadStrict()
	if err != nil {
		logger.Error("Progress unavailable, starting without it", "error", err)
		return nil
	}
	if p == nil {
		return nil
	}

	if migrated {
		logger.Info("Migrated legacy progress record", "plan", p.CurrentPlanID)
		if err := s.Save(p); err != nil {
			logger.Warn("Migrated progress could not be written back", "error", err)
		}
	}
	return p
}

// Save overwrites the stored record with p
func (s *Store) Save(p *models.MultiPlanProgress) error {
	if p == nil {
		return fmt.Errorf("cannot save empty progress")
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode progress: %w", err)
	}
	if err := s.provider.Set(constants.KeyProgress, string(data)); err != nil {
		logger.Error("Failed to save progress", "error", err)
		return fmt.Errorf("failed to save progress: %w", err)
	}
	return nil
}

// Raw returns the stored record without interpretation
func (s *Store) Raw() (string, bool, error) {
	return s.provider.Get(constants.KeyProgress)
}

// Clear deletes the stored record
func (s *Store) Clear() error {
	if err := s.provider.Delete(constants.KeyProgress); err != nil {
		return fmt.Errorf("failed to clear progress: %w", err)
	}
	return nil
}
