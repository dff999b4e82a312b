package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/lectio/internal/constants"
	"github.com/julianstephens/lectio/internal/models"
	"github.com/julianstephens/lectio/internal/storage"
	"github.com/julianstephens/lectio/internal/validation"
)

func newCatalog(t *testing.T) (*Catalog, *storage.MemoryStore) {
	t.Helper()
	mem := storage.NewMemoryStore()
	c, err := New(mem)
	require.NoError(t, err)
	return c, mem
}

func customPlan(id string) models.ReadingPlan {
	return models.ReadingPlan{
		ID:          id,
		Name:        "Ruth",
		Description: "A short story",
		Type:        constants.PlanTypeCustom,
		Readings: []models.Reading{
			{ID: id + "-r1", Day: 1, Passages: []string{"Ruth 1"}},
			{ID: id + "-r2", Day: 2, Passages: []string{"Ruth 2"}},
		},
		TotalDays:         2,
		EstimatedDuration: "2 days",
	}
}

func TestBuiltinPlansAreValid(t *testing.T) {
	c, _ := newCatalog(t)
	plans := c.Builtin()
	require.NotEmpty(t, plans)

	v := validation.New()
	seen := map[string]bool{}
	for _, p := range plans {
		assert.False(t, p.IsCustom(), p.ID)
		assert.False(t, seen[p.ID], "duplicate plan id %s", p.ID)
		seen[p.ID] = true

		result := v.ValidatePlan(p)
		assert.False(t, result.HasConflicts(), "%s: %s", p.ID, result.FormatReport())
	}
	assert.True(t, seen["gospels-89"])
}

func TestBuiltinReturnsCopy(t *testing.T) {
	c, _ := newCatalog(t)
	plans := c.Builtin()
	plans[0].Name = "changed"
	assert.NotEqual(t, "changed", c.Builtin()[0].Name)
}

func TestListAllOrdersBuiltinFirst(t *testing.T) {
	c, _ := newCatalog(t)
	require.NoError(t, c.SaveCustom(customPlan("custom-a")))
	require.NoError(t, c.SaveCustom(customPlan("custom-b")))

	all := c.ListAll()
	n := len(c.Builtin())
	require.Len(t, all, n+2)
	assert.Equal(t, "custom-a", all[n].ID)
	assert.Equal(t, "custom-b", all[n+1].ID)
}

func TestSaveCustomReplacesSameID(t *testing.T) {
	c, _ := newCatalog(t)
	p := customPlan("custom-a")
	require.NoError(t, c.SaveCustom(p))

	p.Name = "Ruth revised"
	require.NoError(t, c.SaveCustom(p))

	custom := c.Custom()
	require.Len(t, custom, 1)
	assert.Equal(t, "Ruth revised", custom[0].Name)
}

func TestBuiltinPlansAreReadOnly(t *testing.T) {
	c, _ := newCatalog(t)
	builtin := c.Builtin()[0]

	err := c.SaveCustom(builtin)
	assert.True(t, errors.Is(err, ErrBuiltinReadOnly))

	_, err = c.DeleteCustom(builtin.ID)
	assert.True(t, errors.Is(err, ErrBuiltinReadOnly))

	err = c.ReplaceCustom([]models.ReadingPlan{builtin})
	assert.True(t, errors.Is(err, ErrBuiltinReadOnly))
}

func TestDeleteCustom(t *testing.T) {
	c, _ := newCatalog(t)
	require.NoError(t, c.SaveCustom(customPlan("custom-a")))
	require.NoError(t, c.SaveCustom(customPlan("custom-b")))

	deleted, err := c.DeleteCustom("custom-a")
	require.NoError(t, err)
	assert.Equal(t, "custom-a", deleted.ID)

	custom := c.Custom()
	require.Len(t, custom, 1)
	assert.Equal(t, "custom-b", custom[0].ID)

	_, err = c.DeleteCustom("custom-a")
	assert.True(t, errors.Is(err, ErrPlanNotFound))
}

func TestLookups(t *testing.T) {
	c, _ := newCatalog(t)
	require.NoError(t, c.SaveCustom(customPlan("custom-a")))

	plan, ok := c.GetByID("custom-a")
	require.True(t, ok)

	r, ok := GetReadingByDay(plan, 2)
	require.True(t, ok)
	assert.Equal(t, []string{"Ruth 2"}, r.Passages)

	_, ok = GetReadingByDay(plan, 3)
	assert.False(t, ok)

	r, ok = GetReadingByID(plan, "custom-a-r1")
	require.True(t, ok)
	assert.Equal(t, 1, r.Day)

	found, reading, ok := c.FindReading("gospels-89-day-1")
	require.True(t, ok)
	assert.Equal(t, "gospels-89", found.ID)
	assert.Equal(t, []string{"Matthew 1"}, reading.Passages)

	_, _, ok = c.FindReading("nope")
	assert.False(t, ok)

	_, ok = c.GetByID("nope")
	assert.False(t, ok)
}

func TestUnreadableCustomPlansTreatedAsEmpty(t *testing.T) {
	c, mem := newCatalog(t)
	require.NoError(t, mem.Set(constants.KeyCustomPlans, "{not json"))
	assert.Empty(t, c.Custom())

	require.NoError(t, c.SaveCustom(customPlan("custom-a")))
	assert.Len(t, c.Custom(), 1)
}

func TestReplaceAndClearCustom(t *testing.T) {
	c, mem := newCatalog(t)
	require.NoError(t, c.SaveCustom(customPlan("custom-a")))

	require.NoError(t, c.ReplaceCustom([]models.ReadingPlan{customPlan("custom-x"), customPlan("custom-y")}))
	custom := c.Custom()
	require.Len(t, custom, 2)
	assert.Equal(t, "custom-x", custom[0].ID)

	require.NoError(t, c.ClearCustom())
	assert.Empty(t, c.Custom())
	_, ok, err := mem.Get(constants.KeyCustomPlans)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCustomReadFailure(t *testing.T) {
	c, mem := newCatalog(t)
	mem.FailGet = errors.New("disk gone")

	assert.Empty(t, c.Custom())
	assert.Error(t, c.SaveCustom(customPlan("custom-a")))
}
