package notes

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/lectio/internal/constants"
	"github.com/julianstephens/lectio/internal/models"
	"github.com/julianstephens/lectio/internal/storage"
)

var t0 = time.Date(2024, time.May, 1, 8, 0, 0, 0, time.UTC)

func newStore(now *time.Time) (*Store, *storage.MemoryStore) {
	mem := storage.NewMemoryStore()
	return NewStore(mem, WithClock(func() time.Time { return *now })), mem
}

func TestUpsertEnforcesOneNotePerReading(t *testing.T) {
	now := t0
	s, _ := newStore(&now)

	first, err := s.Upsert("day-1", "In the beginning")
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	now = t0.Add(time.Hour)
	second, err := s.Upsert("day-1", "revised thoughts")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.True(t, t0.Equal(second.CreatedAt))
	assert.True(t, now.Equal(second.UpdatedAt))

	list := s.List()
	require.Len(t, list, 1)
	assert.Equal(t, "revised thoughts", list[0].Content)
}

func TestSaveWithNewIDReplacesSameReading(t *testing.T) {
	now := t0
	s, _ := newStore(&now)

	orig, err := s.Save(models.Note{ID: "n1", ReadingID: "day-1", Content: "a", CreatedAt: t0})
	require.NoError(t, err)

	dup, err := s.Save(models.Note{ID: "n2", ReadingID: "day-1", Content: "b"})
	require.NoError(t, err)
	assert.Equal(t, orig.ID, dup.ID, "existing id kept")
	assert.True(t, t0.Equal(dup.CreatedAt))

	list := s.List()
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].Content)
}

func TestSaveReplacesByIDInPlace(t *testing.T) {
	now := t0
	s, _ := newStore(&now)

	_, err := s.Save(models.Note{ID: "n1", ReadingID: "day-1", Content: "one"})
	require.NoError(t, err)
	_, err = s.Save(models.Note{ID: "n2", ReadingID: "day-2", Content: "two"})
	require.NoError(t, err)
	_, err = s.Save(models.Note{ID: "n1", ReadingID: "day-1", Content: "uno"})
	require.NoError(t, err)

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "uno", list[0].Content, "order preserved")
	assert.Equal(t, "two", list[1].Content)
}

func TestGetForReadingFirstMatchWins(t *testing.T) {
	now := t0
	s, mem := newStore(&now)
	// duplicates written by an older build
	require.NoError(t, mem.Set(constants.KeyNotes, `[
		{"id":"a","readingId":"day-1","content":"first"},
		{"id":"b","readingId":"day-1","content":"second"}
	]`))

	n, ok := s.GetForReading("day-1")
	require.True(t, ok)
	assert.Equal(t, "a", n.ID)

	_, ok = s.GetForReading("day-9")
	assert.False(t, ok)
}

func TestUpsertRejectsEmptyContent(t *testing.T) {
	now := t0
	s, _ := newStore(&now)
	_, err := s.Upsert("day-1", "   ")
	assert.ErrorIs(t, err, ErrEmptyNote)
}

func TestDelete(t *testing.T) {
	now := t0
	s, _ := newStore(&now)
	n, err := s.Upsert("day-1", "x")
	require.NoError(t, err)

	require.NoError(t, s.Delete(n.ID))
	assert.Empty(t, s.List())
	assert.ErrorIs(t, s.Delete(n.ID), ErrNoteNotFound)
}

func TestDeleteForReadings(t *testing.T) {
	now := t0
	s, _ := newStore(&now)
	for _, r := range []string{"c-1", "c-2", "other-1"} {
		_, err := s.Upsert(r, "note for "+r)
		require.NoError(t, err)
	}

	removed, err := s.DeleteForReadings([]string{"c-1", "c-2", "c-3"})
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	list := s.List()
	require.Len(t, list, 1)
	assert.Equal(t, "other-1", list[0].ReadingID)

	removed, err = s.DeleteForReadings([]string{"missing"})
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestReadFailuresDegrade(t *testing.T) {
	now := t0
	s, mem := newStore(&now)

	require.NoError(t, mem.Set(constants.KeyNotes, "{broken"))
	assert.Empty(t, s.List())

	// malformed data is replaced on the next write
	_, err := s.Upsert("day-1", "fresh")
	require.NoError(t, err)
	assert.Len(t, s.List(), 1)

	mem.FailGet = errors.New("unavailable")
	assert.Empty(t, s.List())
	_, err = s.Upsert("day-2", "not written")
	assert.Error(t, err, "writes refuse to clobber data they could not read")
}

func TestSaveStorageFailure(t *testing.T) {
	now := t0
	s, mem := newStore(&now)
	mem.FailSet = errors.New("read-only")
	_, err := s.Upsert("day-1", "x")
	assert.Error(t, err)
}

func TestReplaceAndClear(t *testing.T) {
	now := t0
	s, _ := newStore(&now)
	require.NoError(t, s.Replace([]models.Note{{ID: "x", ReadingID: "r", Content: "c"}}))
	assert.Len(t, s.List(), 1)
	require.NoError(t, s.Clear())
	assert.Empty(t, s.List())
}
