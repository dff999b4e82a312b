// Package catalog serves the built-in reading plans embedded in the binary
// together with the plans the user has authored.
package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/lectio/internal/constants"
	"github.com/julianstephens/lectio/internal/logger"
	"github.com/julianstephens/lectio/internal/models"
	"github.com/julianstephens/lectio/internal/storage"
)

//go:embed plans.json
var builtinPlans []byte

var (
	ErrBuiltinReadOnly = errors.New("built-in plans cannot be modified")
	ErrPlanNotFound    = errors.New("plan not found")
)

type planFile struct {
	Plans []models.ReadingPlan `json:"plans"`
}

// Catalog is read-only for built-in plans. Custom plans are stored as a
// list under their own storage key.
type Catalog struct {
	provider storage.Provider
	builtin  []models.ReadingPlan
}

func New(provider storage.Provider) (*Catalog, error) {
	var pf planFile
	if err := json.Unmarshal(builtinPlans, &pf); err != nil {
		return nil, fmt.Errorf("failed to parse built-in plans: %w", err)
	}
	return &Catalog{provider: provider, builtin: pf.Plans}, nil
}

// Builtin returns the embedded plans in catalog order
func (c *Catalog) Builtin() []models.ReadingPlan {
	return append([]models.ReadingPlan(nil), c.builtin...)
}

func (c *Catalog) isBuiltin(id string) bool {
	for _, p := range c.builtin {
		if p.ID == id {
			return true
		}
	}
	return false
}

func (c *Catalog) readCustom() ([]models.ReadingPlan, error) {
	raw, ok, err := c.provider.Get(constants.KeyCustomPlans)
	if err != nil {
		return nil, fmt.Errorf("failed to read custom plans: %w", err)
	}
	if !ok {
		return []models.ReadingPlan{}, nil
	}
	var plans []models.ReadingPlan
	if err := json.Unmarshal([]byte(raw), &plans); err != nil {
		logger.Warn("Stored custom plans are unreadable, treating as empty", "error", err)
		return []models.ReadingPlan{}, nil
	}
	return plans, nil
}

func (c *Catalog) writeCustom(plans []models.ReadingPlan) error {
	if plans == nil {
		plans = []models.ReadingPlan{}
	}
	data, err := json.Marshal(plans)
	if err != nil {
		return fmt.Errorf("failed to encode custom plans: %w", err)
	}
	if err := c.provider.Set(constants.KeyCustomPlans, string(data)); err != nil {
		return fmt.Errorf("failed to save custom plans: %w", err)
	}
	return nil
}

// Custom returns the user's plans in insertion order. Read failures are
// logged and yield an empty list.
func (c *Catalog) Custom() []models.ReadingPlan {
	plans, err := c.readCustom()
	if err != nil {
		logger.Error("Custom plans unavailable", "error", err)
		return []models.ReadingPlan{}
	}
	return plans
}

// ListAll returns built-in plans followed by custom plans
func (c *Catalog) ListAll() []models.ReadingPlan {
	return append(c.Builtin(), c.Custom()...)
}

func (c *Catalog) GetByID(id string) (models.ReadingPlan, bool) {
	for _, p := range c.ListAll() {
		if p.ID == id {
			return p, true
		}
	}
	return models.ReadingPlan{}, false
}

// GetReadingByDay finds the reading scheduled for a 1-based day
func GetReadingByDay(plan models.ReadingPlan, day int) (models.Reading, bool) {
	for _, r := range plan.Readings {
		if r.Day == day {
			return r, true
		}
	}
	return models.Reading{}, false
}

func GetReadingByID(plan models.ReadingPlan, readingID string) (models.Reading, bool) {
	for _, r := range plan.Readings {
		if r.ID == readingID {
			return r, true
		}
	}
	return models.Reading{}, false
}

// FindReading searches every plan for readingID. Built-in plans are
// searched first.
func (c *Catalog) FindReading(readingID string) (models.ReadingPlan, models.Reading, bool) {
	for _, p := range c.ListAll() {
		if r, ok := GetReadingByID(p, readingID); ok {
			return p, r, true
		}
	}
	return models.ReadingPlan{}, models.Reading{}, false
}

// SaveCustom inserts plan or replaces the custom plan with the same id
func (c *Catalog) SaveCustom(plan models.ReadingPlan) error {
	if c.isBuiltin(plan.ID) {
		return fmt.Errorf("%w: %s", ErrBuiltinReadOnly, plan.ID)
	}
	plans, err := c.readCustom()
	if err != nil {
		return err
	}
	for i, p := range plans {
		if p.ID == plan.ID {
			plans[i] = plan
			return c.writeCustom(plans)
		}
	}
	return c.writeCustom(append(plans, plan))
}

// DeleteCustom removes a custom plan and returns it
func (c *Catalog) DeleteCustom(id string) (models.ReadingPlan, error) {
	if c.isBuiltin(id) {
		return models.ReadingPlan{}, fmt.Errorf("%w: %s", ErrBuiltinReadOnly, id)
	}
	plans, err := c.readCustom()
	if err != nil {
		return models.ReadingPlan{}, err
	}
	for i, p := range plans {
		if p.ID == id {
			rest := append(plans[:i:i], plans[i+1:]...)
			if err := c.writeCustom(rest); err != nil {
				return models.ReadingPlan{}, err
			}
			return p, nil
		}
	}
	return models.ReadingPlan{}, fmt.Errorf("%w: %s", ErrPlanNotFound, id)
}

// ReplaceCustom overwrites the custom plan list, used by import
func (c *Catalog) ReplaceCustom(plans []models.ReadingPlan) error {
	for _, p := range plans {
		if c.isBuiltin(p.ID) {
			return fmt.Errorf("%w: %s", ErrBuiltinReadOnly, p.ID)
		}
	}
	return c.writeCustom(plans)
}

// ClearCustom deletes every custom plan
func (c *Catalog) ClearCustom() error {
	if err := c.provider.Delete(constants.KeyCustomPlans); err != nil {
		return fmt.Errorf("failed to clear custom plans: %w", err)
	}
	return nil
}
