package progress

import (
	"encoding/json"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/lectio/internal/constants"
	"github.com/julianstephens/lectio/internal/models"
	"github.com/julianstephens/lectio/internal/storage"
)

var fixedNow = time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T, now *time.Time) (*Store, *storage.MemoryStore) {
	t.Helper()
	mem := storage.NewMemoryStore()
	s := NewStore(mem,
		WithClock(func() time.Time { return *now }),
		WithLocation(time.UTC),
	)
	return s, mem
}

const legacyJSON = `{
	"userId": "user-1",
	"currentPlanId": "chronological-1y",
	"completedReadings": ["d1", "d2", "d3"],
	"completedDates": ["2024-03-12T07:00:00.000Z", "2024-03-13T07:00:00.000Z", "2024-03-14T07:00:00.000Z"],
	"currentStreak": 3,
	"longestStreak": 9,
	"lastReadingDate": "2024-03-14T07:00:00.000Z",
	"totalReadings": 3,
	"startDate": "2024-03-12T00:00:00.000Z"
}`

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    constants.Shape
		wantErr bool
	}{
		{"current", `{"userId":"u","currentPlanId":"p","planProgress":{}}`, constants.ShapeCurrent, false},
		{"current wins over legacy fields", `{"planProgress":{},"completedReadings":[]}`, constants.ShapeCurrent, false},
		{"legacy", legacyJSON, constants.ShapeLegacy, false},
		{"legacy with empty list", `{"completedReadings":[]}`, constants.ShapeLegacy, false},
		{"planProgress not an object", `{"planProgress":[]}`, constants.ShapeUnknown, false},
		{"planProgress null", `{"planProgress":null}`, constants.ShapeUnknown, false},
		{"completedReadings not an array", `{"completedReadings":"d1"}`, constants.ShapeUnknown, false},
		{"empty object", `{}`, constants.ShapeUnknown, false},
		{"array", `[1,2]`, constants.ShapeUnknown, false},
		{"string", `"progress"`, constants.ShapeUnknown, false},
		{"invalid json", `{"planProgress":`, constants.ShapeUnknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify([]byte(tt.raw))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecode(t *testing.T) {
	rec, err := Decode([]byte(legacyJSON))
	require.NoError(t, err)
	legacy, ok := rec.(*LegacyRecord)
	require.True(t, ok)
	assert.Equal(t, constants.ShapeLegacy, legacy.Shape())
	assert.Equal(t, "chronological-1y", legacy.Legacy.CurrentPlanID)

	rec, err = Decode([]byte(`{"userId":"u","currentPlanId":"p","planProgress":{"p":{"completions":[]}}}`))
	require.NoError(t, err)
	current, ok := rec.(*CurrentRecord)
	require.True(t, ok)
	assert.Equal(t, constants.ProgressSchemaVersion, current.Progress.Version)
	assert.Equal(t, "p", current.Progress.PlanProgress["p"].PlanID, "plan id filled from map key")

	_, err = Decode([]byte(`{"something":"else"}`))
	assert.ErrorIs(t, err, ErrUnknownShape)
}

func TestMigrateIsLossless(t *testing.T) {
	var legacy models.LegacyProgress
	require.NoError(t, json.Unmarshal([]byte(legacyJSON), &legacy))

	p := Migrate(legacy, fixedNow)

	assert.Equal(t, constants.ProgressSchemaVersion, p.Version)
	assert.Equal(t, legacy.UserID, p.UserID)
	assert.Equal(t, legacy.CurrentPlanID, p.CurrentPlanID)
	require.Len(t, p.PlanProgress, 1)

	pp := p.PlanProgress[legacy.CurrentPlanID]
	require.NotNil(t, pp)
	assert.Equal(t, legacy.CurrentPlanID, pp.PlanID)
	assert.Equal(t, legacy.CompletedReadings, pp.CompletedReadings())
	dates := pp.CompletedDates()
	require.Len(t, dates, len(legacy.CompletedDates))
	for i, d := range legacy.CompletedDates {
		want, err := time.Parse(time.RFC3339Nano, d)
		require.NoError(t, err)
		assert.True(t, want.Equal(dates[i]), "date %d", i)
	}
	assert.Equal(t, legacy.CurrentStreak, pp.CurrentStreak)
	assert.Equal(t, legacy.LongestStreak, pp.LongestStreak)
	assert.Equal(t, legacy.TotalReadings, pp.TotalReadings)
	require.NotNil(t, pp.LastReadingDate)
	assert.True(t, time.Date(2024, 3, 14, 7, 0, 0, 0, time.UTC).Equal(*pp.LastReadingDate))
	assert.True(t, time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC).Equal(pp.StartDate))
	assert.True(t, fixedNow.Equal(pp.LastAccessedDate))
}

func TestMigrateKeepsUnequalListsAndBadDates(t *testing.T) {
	last := "yesterday-ish"
	legacy := models.LegacyProgress{
		UserID:            "u",
		CurrentPlanID:     "p",
		CompletedReadings: []string{"r1", "r2", "r3"},
		CompletedDates:    []string{"2024-03-14T07:00:00Z", "garbage"},
		LastReadingDate:   &last,
		StartDate:         "not-a-date",
	}

	p := Migrate(legacy, fixedNow)
	pp := p.PlanProgress["p"]
	require.Len(t, pp.Completions, 3)
	assert.Equal(t, []string{"r1", "r2", "r3"}, pp.CompletedReadings())
	assert.False(t, pp.Completions[0].CompletedAt.IsZero())
	assert.True(t, pp.Completions[1].CompletedAt.IsZero())
	assert.True(t, pp.Completions[2].CompletedAt.IsZero())
	assert.Nil(t, pp.LastReadingDate)
	assert.True(t, fixedNow.Equal(pp.StartDate))
}

func TestLoadMigratesOnceAndIsIdempotent(t *testing.T) {
	now := fixedNow
	s, mem := newTestStore(t, &now)
	require.NoError(t, mem.Set(constants.KeyProgress, legacyJSON))

	first := s.Load()
	require.NotNil(t, first)
	assert.Equal(t, "chronological-1y", first.CurrentPlanID)

	stored, ok, err := mem.Get(constants.KeyProgress)
	require.NoError(t, err)
	require.True(t, ok)
	shape, err := Classify([]byte(stored))
	require.NoError(t, err)
	assert.Equal(t, constants.ShapeCurrent, shape, "migration is written through")

	// a later load at a different time must not rewrite anything
	now = fixedNow.Add(48 * time.Hour)
	second := s.Load()
	require.NotNil(t, second)
	again, _, err := mem.Get(constants.KeyProgress)
	require.NoError(t, err)
	assert.Equal(t, stored, again)
	assert.True(t, first.PlanProgress["chronological-1y"].LastAccessedDate.Equal(second.PlanProgress["chronological-1y"].LastAccessedDate))
}

func TestLoadDegradesToAbsent(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*storage.MemoryStore)
	}{
		{"missing", func(*storage.MemoryStore) {}},
		{"malformed json", func(m *storage.MemoryStore) { _ = m.Set(constants.KeyProgress, "{oops") }},
		{"unknown shape", func(m *storage.MemoryStore) { _ = m.Set(constants.KeyProgress, `{"foo":1}`) }},
		{"storage failure", func(m *storage.MemoryStore) { m.FailGet = errors.New("disk gone") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := fixedNow
			s, mem := newTestStore(t, &now)
			tt.setup(mem)
			assert.Nil(t, s.Load())
		})
	}
}

func TestLoadStrictReportsErrors(t *testing.T) {
	now := fixedNow
	s, mem := newTestStore(t, &now)

	p, migrated, err := s.LoadStrict()
	assert.NoError(t, err)
	assert.Nil(t, p)
	assert.False(t, migrated)

	require.NoError(t, mem.Set(constants.KeyProgress, `{"foo":1}`))
	_, _, err = s.LoadStrict()
	assert.ErrorIs(t, err, ErrUnknownShape)

	require.NoError(t, mem.Set(constants.KeyProgress, legacyJSON))
	p, migrated, err = s.LoadStrict()
	require.NoError(t, err)
	assert.True(t, migrated)
	assert.NotNil(t, p)
	raw, _, _ := mem.Get(constants.KeyProgress)
	assert.Equal(t, legacyJSON, raw, "LoadStrict does not write")
}

func TestSaveRoundTrip(t *testing.T) {
	now := fixedNow
	s, mem := newTestStore(t, &now)

	p := CreateDefault("plan-a", s.Now())
	p = RecordCompletion(p, "plan-a", "a-1", s.Now())
	require.NoError(t, s.Save(p))

	loaded := s.Load()
	require.NotNil(t, loaded)
	assert.Equal(t, p.UserID, loaded.UserID)
	assert.Equal(t, []string{"a-1"}, loaded.PlanProgress["plan-a"].CompletedReadings())

	mem.FailSet = errors.New("read-only")
	assert.Error(t, s.Save(p))
	assert.Error(t, s.Save(nil))
}

func TestCreateDefault(t *testing.T) {
	p := CreateDefault("plan-a", fixedNow)
	assert.NotEmpty(t, p.UserID)
	assert.Equal(t, "plan-a", p.CurrentPlanID)
	pp, ok := GetCurrentPlanProgress(p)
	require.True(t, ok)
	assert.Empty(t, pp.Completions)
	assert.Zero(t, pp.CurrentStreak)
	assert.Nil(t, pp.LastReadingDate)
	assert.True(t, fixedNow.Equal(pp.StartDate))
	assert.True(t, fixedNow.Equal(pp.LastAccessedDate))

	other := CreateDefault("plan-a", fixedNow)
	assert.NotEqual(t, p.UserID, other.UserID)
}

func TestGetPlanProgressAbsent(t *testing.T) {
	p := CreateDefault("plan-a", fixedNow)
	_, ok := GetPlanProgress(p, "plan-b")
	assert.False(t, ok)
	_, ok = GetPlanProgress(nil, "plan-a")
	assert.False(t, ok)
}

func TestEnsureCurrentSelfHeals(t *testing.T) {
	p := CreateDefault("plan-a", fixedNow)
	p.CurrentPlanID = "plan-b"

	_, ok := GetCurrentPlanProgress(p)
	require.False(t, ok)

	healed, pp := EnsureCurrent(p, fixedNow)
	require.NotNil(t, pp)
	assert.Equal(t, "plan-b", pp.PlanID)
	_, ok = GetCurrentPlanProgress(healed)
	assert.True(t, ok)
	_, ok = GetCurrentPlanProgress(p)
	assert.False(t, ok, "input is not mutated")

	same, _ := EnsureCurrent(healed, fixedNow)
	assert.Same(t, healed, same, "no copy when the entry exists")
}

func TestRecordCompletionStreaks(t *testing.T) {
	day := func(n int) time.Time { return fixedNow.AddDate(0, 0, n) }

	p := CreateDefault("plan-a", day(0))
	p = RecordCompletion(p, "plan-a", "r1", day(0))
	p = RecordCompletion(p, "plan-a", "r2", day(0).Add(2*time.Hour))
	pp := p.PlanProgress["plan-a"]
	assert.Equal(t, 1, pp.CurrentStreak, "second completion on the same day does not extend")
	assert.Equal(t, 2, pp.TotalReadings)
	assert.Len(t, pp.Completions, 2)

	p = RecordCompletion(p, "plan-a", "r3", day(1))
	pp = p.PlanProgress["plan-a"]
	assert.Equal(t, 2, pp.CurrentStreak)
	assert.Equal(t, 2, pp.LongestStreak)
	require.NotNil(t, pp.LastReadingDate)
	assert.True(t, day(1).Equal(*pp.LastReadingDate))
}

func TestRecordCompletionCreatesMissingEntry(t *testing.T) {
	p := CreateDefault("plan-a", fixedNow)
	next := RecordCompletion(p, "plan-z", "z1", fixedNow)
	pp, ok := GetPlanProgress(next, "plan-z")
	require.True(t, ok)
	assert.Equal(t, 1, pp.CurrentStreak)

	fresh := RecordCompletion(nil, "plan-a", "a1", fixedNow)
	require.NotNil(t, fresh)
	assert.Equal(t, "plan-a", fresh.CurrentPlanID)
}

func TestStreakMonotonicity(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	now := fixedNow
	p := CreateDefault("plan-a", now)

	for i := 0; i < 500; i++ {
		// same day, next day, or a multi-day gap
		now = now.Add(time.Duration(rng.Intn(80)) * time.Hour)
		planID := []string{"plan-a", "plan-b"}[rng.Intn(2)]
		p = RecordCompletion(p, planID, "r", now)
		for id, pp := range p.PlanProgress {
			require.GreaterOrEqual(t, pp.LongestStreak, pp.CurrentStreak, "plan %s after step %d", id, i)
		}
	}
}

func TestSameDayIdempotence(t *testing.T) {
	p := CreateDefault("plan-a", fixedNow)
	p = RecordCompletion(p, "plan-a", "r1", fixedNow)
	before := p.PlanProgress["plan-a"].CurrentStreak

	for i := 1; i <= 3; i++ {
		p = RecordCompletion(p, "plan-a", "r1", fixedNow.Add(time.Duration(i)*time.Hour))
	}
	assert.Equal(t, before, p.PlanProgress["plan-a"].CurrentStreak)
	assert.Equal(t, 4, p.PlanProgress["plan-a"].TotalReadings)
}

func TestPlanIsolation(t *testing.T) {
	p := CreateDefault("plan-a", fixedNow)
	p = SwitchActivePlan(p, "plan-b", fixedNow)
	p = RecordCompletion(p, "plan-b", "b1", fixedNow)
	beforeB := p.PlanProgress["plan-b"].Clone()

	next := RecordCompletion(p, "plan-a", "a1", fixedNow.Add(time.Hour))

	assert.Equal(t, beforeB, next.PlanProgress["plan-b"])
	assert.Empty(t, p.PlanProgress["plan-a"].Completions, "input aggregate untouched")
}

func TestSwitchPreservesHistory(t *testing.T) {
	p := CreateDefault("plan-a", fixedNow)
	p = RecordCompletion(p, "plan-a", "a1", fixedNow)
	p = RecordCompletion(p, "plan-a", "a2", fixedNow.AddDate(0, 0, 1))

	later := fixedNow.AddDate(0, 0, 2)
	switched := SwitchActivePlan(p, "plan-b", later)

	assert.Equal(t, "plan-b", switched.CurrentPlanID)
	assert.Len(t, switched.PlanProgress["plan-a"].Completions, 2)
	assert.True(t, later.Equal(switched.PlanProgress["plan-a"].LastAccessedDate))
	b := switched.PlanProgress["plan-b"]
	assert.Empty(t, b.Completions)
	assert.True(t, later.Equal(b.StartDate))

	back := SwitchActivePlan(switched, "plan-a", later.AddDate(0, 0, 1))
	assert.Len(t, back.PlanProgress["plan-a"].Completions, 2, "existing entry reused")
	assert.True(t, fixedNow.Equal(back.PlanProgress["plan-a"].StartDate))
}

func TestResetScoping(t *testing.T) {
	p := CreateDefault("plan-a", fixedNow)
	p = RecordCompletion(p, "plan-a", "a1", fixedNow)
	p = SwitchActivePlan(p, "plan-b", fixedNow)
	p = RecordCompletion(p, "plan-b", "b1", fixedNow)

	later := fixedNow.AddDate(0, 0, 3)
	reset := ResetPlanProgress(p, "plan-a", later)

	assert.Equal(t, p.CurrentPlanID, reset.CurrentPlanID)
	assert.Equal(t, p.PlanProgress["plan-b"], reset.PlanProgress["plan-b"])
	a := reset.PlanProgress["plan-a"]
	assert.Empty(t, a.Completions)
	assert.Zero(t, a.CurrentStreak)
	assert.Zero(t, a.LongestStreak)
	assert.Zero(t, a.TotalReadings)
	assert.Nil(t, a.LastReadingDate)
	assert.True(t, later.Equal(a.StartDate))
	assert.Len(t, p.PlanProgress["plan-a"].Completions, 1, "input untouched")
}

func TestRemovePlan(t *testing.T) {
	p := CreateDefault("plan-a", fixedNow)
	p = SwitchActivePlan(p, "custom-1", fixedNow)

	next := RemovePlan(p, "custom-1")
	_, ok := GetPlanProgress(next, "custom-1")
	assert.False(t, ok)
	assert.Equal(t, "custom-1", next.CurrentPlanID)
	_, ok = GetPlanProgress(p, "custom-1")
	assert.True(t, ok)
	assert.Nil(t, RemovePlan(nil, "x"))
}

func TestAdvanceDay(t *testing.T) {
	p := CreateDefault("plan-a", fixedNow)
	next := AdvanceDay(p, "plan-a")
	assert.True(t, fixedNow.AddDate(0, 0, -1).Equal(next.PlanProgress["plan-a"].StartDate))
	assert.True(t, fixedNow.Equal(p.PlanProgress["plan-a"].StartDate))
}

func TestVerifyAndRepair(t *testing.T) {
	p := CreateDefault("plan-a", fixedNow)
	pp := p.PlanProgress["plan-a"]
	pp.Completions = []models.Completion{
		{ReadingID: "r1", CompletedAt: fixedNow.AddDate(0, 0, -2)},
		{ReadingID: "r2", CompletedAt: fixedNow.AddDate(0, 0, -1)},
		{ReadingID: "r3", CompletedAt: fixedNow},
	}
	pp.CurrentStreak = 7
	pp.LongestStreak = 7
	pp.TotalReadings = 1

	res := Verify(pp, fixedNow)
	assert.Equal(t, 3, res.Current)
	assert.Equal(t, 3, res.Longest)

	repaired, changed := Repair(p, fixedNow)
	assert.Equal(t, []string{"plan-a"}, changed)
	rp := repaired.PlanProgress["plan-a"]
	assert.Equal(t, 3, rp.CurrentStreak)
	assert.Equal(t, 3, rp.LongestStreak)
	assert.Equal(t, 3, rp.TotalReadings)
	require.NotNil(t, rp.LastReadingDate)
	assert.True(t, fixedNow.Equal(*rp.LastReadingDate))
	assert.Equal(t, 7, pp.CurrentStreak, "input untouched")

	_, changed = Repair(repaired, fixedNow)
	assert.Empty(t, changed, "repair is stable")
}
