// Package tracker runs the day-to-day reading flows shared by the command
// line and the dashboard: starting a plan, looking up today's reading,
// completing it and resetting a plan.
package tracker

import (
	"errors"
	"fmt"

	"github.com/julianstephens/lectio/internal/catalog"
	"github.com/julianstephens/lectio/internal/logger"
	"github.com/julianstephens/lectio/internal/models"
	"github.com/julianstephens/lectio/internal/progress"
	"github.com/julianstephens/lectio/internal/scheduler"
)

var (
	ErrNoActivePlan     = errors.New("no active plan, run 'lectio start <plan-id>' first")
	ErrReadingNotInPlan = errors.New("reading is not part of the active plan")
	ErrEmptyPlan        = errors.New("plan has no readings")
)

// Status is the active plan as of now
type Status struct {
	Plan     models.ReadingPlan
	Progress *models.PlanProgress
	Reading  models.Reading // today's reading
	Summary  scheduler.Summary
}

type Tracker struct {
	progress  *progress.Store
	catalog   *catalog.Catalog
	scheduler *scheduler.Scheduler
}

func New(p *progress.Store, c *catalog.Catalog, s *scheduler.Scheduler) *Tracker {
	return &Tracker{progress: p, catalog: c, scheduler: s}
}

// active loads progress and resolves the active plan. A missing entry for
// the active plan is recreated and saved.
func (t *Tracker) active() (*models.MultiPlanProgress, models.ReadingPlan, *models.PlanProgress, error) {
	p := t.progress.Load()
	if p == nil || p.CurrentPlanID == "" {
		return nil, models.ReadingPlan{}, nil, ErrNoActivePlan
	}

	plan, ok := t.catalog.GetByID(p.CurrentPlanID)
	if !ok {
		return nil, models.ReadingPlan{}, nil, fmt.Errorf("%w: active plan %s", catalog.ErrPlanNotFound, p.CurrentPlanID)
	}

	next, pp := progress.EnsureCurrent(p, t.progress.Now())
	if next != p {
		logger.Info("Recreated missing progress entry", "plan", plan.ID)
		if err := t.progress.Save(next); err != nil {
			return nil, plan, nil, err
		}
	}
	return next, plan, pp, nil
}

// Start makes planID the active plan. History for every plan is kept.
func (t *Tracker) Start(planID string) (models.ReadingPlan, error) {
	plan, ok := t.catalog.GetByID(planID)
	if !ok {
		return plan, fmt.Errorf("%w: %s", catalog.ErrPlanNotFound, planID)
	}

	now := t.progress.Now()
	var next *models.MultiPlanProgress
	if p := t.progress.Load(); p == nil {
		next = progress.CreateDefault(planID, now)
	} else {
		next = progress.SwitchActivePlan(p, planID, now)
	}

	if err := t.progress.Save(next); err != nil {
		return plan, err
	}
	return plan, nil
}

// Status reports today's reading and progress for the active plan
func (t *Tracker) Status() (Status, error) {
	_, plan, pp, err := t.active()
	if err != nil {
		return Status{}, err
	}

	now := t.progress.Now()
	reading, _, ok := t.scheduler.TodayReading(plan, pp, now)
	if !ok {
		return Status{}, fmt.Errorf("%w: %s", ErrEmptyPlan, plan.ID)
	}

	return Status{
		Plan:     plan,
		Progress: pp,
		Reading:  reading,
		Summary:  t.scheduler.Summarize(plan, pp, now),
	}, nil
}

// Complete records readingID, or today's reading when readingID is empty,
// for the active plan. With advance the plan also moves on a day so the
// next reading is served immediately.
func (t *Tracker) Complete(readingID string, advance bool) (Status, error) {
	p, plan, pp, err := t.active()
	if err != nil {
		return Status{}, err
	}
	now := t.progress.Now()

	var reading models.Reading
	if readingID == "" {
		r, _, ok := t.scheduler.TodayReading(plan, pp, now)
		if !ok {
			return Status{}, fmt.Errorf("%w: %s", ErrEmptyPlan, plan.ID)
		}
		reading = r
	} else {
		r, ok := catalog.GetReadingByID(plan, readingID)
		if !ok {
			return Status{}, fmt.Errorf("%w: %s", ErrReadingNotInPlan, readingID)
		}
		reading = r
	}

	next := progress.RecordCompletion(p, plan.ID, reading.ID, now)
	if advance {
		next = progress.AdvanceDay(next, plan.ID)
	}
	if err := t.progress.Save(next); err != nil {
		return Status{}, err
	}

	npp, _ := progress.GetPlanProgress(next, plan.ID)
	logger.Debug("Recorded completion", "plan", plan.ID, "reading", reading.ID, "streak", npp.CurrentStreak)

	return Status{
		Plan:     plan,
		Progress: npp,
		Reading:  reading,
		Summary:  t.scheduler.Summarize(plan, npp, now),
	}, nil
}

// Reset zeroes planID's progress and restarts it today
func (t *Tracker) Reset(planID string) error {
	if _, ok := t.catalog.GetByID(planID); !ok {
		return fmt.Errorf("%w: %s", catalog.ErrPlanNotFound, planID)
	}
	now := t.progress.Now()
	p := t.progress.Load()
	if p == nil {
		p = progress.CreateDefault(planID, now)
	}
	return t.progress.Save(progress.ResetPlanProgress(p, planID, now))
}
