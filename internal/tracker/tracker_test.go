package tracker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/lectio/internal/catalog"
	"github.com/julianstephens/lectio/internal/progress"
	"github.com/julianstephens/lectio/internal/scheduler"
	"github.com/julianstephens/lectio/internal/storage"
)

type fixture struct {
	now      time.Time
	progress *progress.Store
	tracker  *Tracker
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{now: time.Date(2024, time.May, 1, 7, 0, 0, 0, time.UTC)}
	mem := storage.NewMemoryStore()
	c, err := catalog.New(mem)
	require.NoError(t, err)
	f.progress = progress.NewStore(mem,
		progress.WithClock(func() time.Time { return f.now }),
		progress.WithLocation(time.UTC),
	)
	f.tracker = New(f.progress, c, scheduler.New())
	return f
}

func TestStatusWithoutPlan(t *testing.T) {
	f := newFixture(t)
	_, err := f.tracker.Status()
	assert.True(t, errors.Is(err, ErrNoActivePlan))

	_, err = f.tracker.Complete("", false)
	assert.True(t, errors.Is(err, ErrNoActivePlan))
}

func TestStartUnknownPlan(t *testing.T) {
	f := newFixture(t)
	_, err := f.tracker.Start("nope")
	assert.True(t, errors.Is(err, catalog.ErrPlanNotFound))
	assert.Nil(t, f.progress.Load())
}

func TestDailyFlow(t *testing.T) {
	f := newFixture(t)

	plan, err := f.tracker.Start("gospels-89")
	require.NoError(t, err)
	assert.Equal(t, "The Four Gospels", plan.Name)

	st, err := f.tracker.Status()
	require.NoError(t, err)
	assert.Equal(t, "gospels-89-day-1", st.Reading.ID)
	assert.Equal(t, 1, st.Summary.Day)
	assert.False(t, st.Summary.CompletedToday)

	st, err = f.tracker.Complete("", false)
	require.NoError(t, err)
	assert.Equal(t, "gospels-89-day-1", st.Reading.ID)
	assert.Equal(t, 1, st.Progress.CurrentStreak)
	assert.True(t, st.Summary.CompletedToday)

	// a second completion on the same day does not grow the streak
	st, err = f.tracker.Complete("gospels-89-day-2", false)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Progress.CurrentStreak)
	assert.Equal(t, 2, st.Progress.TotalReadings)

	f.now = f.now.AddDate(0, 0, 1)
	st, err = f.tracker.Status()
	require.NoError(t, err)
	assert.Equal(t, 2, st.Summary.Day)
	assert.Equal(t, "gospels-89-day-2", st.Reading.ID)

	st, err = f.tracker.Complete("", false)
	require.NoError(t, err)
	assert.Equal(t, 2, st.Progress.CurrentStreak)
	assert.Equal(t, 2, st.Progress.LongestStreak)
}

func TestCompleteAndContinue(t *testing.T) {
	f := newFixture(t)
	_, err := f.tracker.Start("gospels-89")
	require.NoError(t, err)

	_, err = f.tracker.Complete("", true)
	require.NoError(t, err)

	st, err := f.tracker.Status()
	require.NoError(t, err)
	assert.Equal(t, 2, st.Summary.Day)
	assert.Equal(t, "gospels-89-day-2", st.Reading.ID)
}

func TestCompleteRejectsForeignReading(t *testing.T) {
	f := newFixture(t)
	_, err := f.tracker.Start("gospels-89")
	require.NoError(t, err)

	_, err = f.tracker.Complete("beginnings-64-day-1", false)
	assert.True(t, errors.Is(err, ErrReadingNotInPlan))
}

func TestSwitchKeepsHistory(t *testing.T) {
	f := newFixture(t)
	_, err := f.tracker.Start("gospels-89")
	require.NoError(t, err)
	_, err = f.tracker.Complete("", false)
	require.NoError(t, err)

	_, err = f.tracker.Start("beginnings-64")
	require.NoError(t, err)
	st, err := f.tracker.Status()
	require.NoError(t, err)
	assert.Equal(t, "beginnings-64", st.Plan.ID)
	assert.Equal(t, 0, st.Progress.TotalReadings)

	_, err = f.tracker.Start("gospels-89")
	require.NoError(t, err)
	st, err = f.tracker.Status()
	require.NoError(t, err)
	assert.Equal(t, 1, st.Progress.TotalReadings)
}

func TestReset(t *testing.T) {
	f := newFixture(t)
	_, err := f.tracker.Start("gospels-89")
	require.NoError(t, err)
	_, err = f.tracker.Complete("", false)
	require.NoError(t, err)

	f.now = f.now.AddDate(0, 0, 5)
	require.NoError(t, f.tracker.Reset("gospels-89"))

	st, err := f.tracker.Status()
	require.NoError(t, err)
	assert.Equal(t, 1, st.Summary.Day)
	assert.Empty(t, st.Progress.Completions)
	assert.True(t, st.Progress.StartDate.Equal(f.now))

	assert.True(t, errors.Is(f.tracker.Reset("nope"), catalog.ErrPlanNotFound))
}

func TestStatusRecreatesMissingEntry(t *testing.T) {
	f := newFixture(t)
	_, err := f.tracker.Start("gospels-89")
	require.NoError(t, err)

	p := f.progress.Load()
	require.NoError(t, f.progress.Save(progress.RemovePlan(p, "gospels-89")))

	st, err := f.tracker.Status()
	require.NoError(t, err)
	assert.Equal(t, "gospels-89", st.Progress.PlanID)

	stored := f.progress.Load()
	_, ok := progress.GetPlanProgress(stored, "gospels-89")
	assert.True(t, ok)
}
