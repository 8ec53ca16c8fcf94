package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"FlipCards/internal/state"

	"fyne.io/fyne/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "library.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateAndList(t *testing.T) {
	s := openTestStore(t)

	first, err := s.Create("First")
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	second, err := s.Create("  ")
	require.NoError(t, err)

	assert.Equal(t, DefaultName, second.Name)
	assert.Len(t, first.PublicID, 21)
	assert.NotEqual(t, first.PublicID, second.PublicID)

	recs, err := s.List()
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, second.ID, recs[0].ID, "newest first")
	assert.Equal(t, first.ID, recs[1].ID)
	assert.Empty(t, recs[0].CardsData)
}

func TestSaveAndLoad(t *testing.T) {
	s := openTestStore(t)
	p, err := s.Create("Deck")
	require.NoError(t, err)

	stroke := state.NewStroke(fyne.NewSize(100, 100), fyne.NewPos(0, 0), "#0000FF", 3)
	stroke.Points = append(stroke.Points, fyne.NewPos(10, 10))
	p.Current().AddStroke(stroke, true)
	p.AddCard(false)
	require.NoError(t, s.Save(p))

	loaded, err := s.Load(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Deck", loaded.Name)
	assert.Equal(t, p.PublicID, loaded.PublicID)
	assert.Equal(t, 2, loaded.Len())
	assert.Equal(t, 1, loaded.CurrentIndex())
	assert.Equal(t, p.Cards()[0].Strokes(true), loaded.Cards()[0].Strokes(true))
	assert.False(t, loaded.Current().CanUndo())

	byPublic, err := s.GetByPublicID(p.PublicID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, byPublic.ID)
}

func TestSaveInsertsUnknownProject(t *testing.T) {
	s := openTestStore(t)
	p := state.NewProject("Shared")

	require.NoError(t, s.Save(p))
	assert.NotEmpty(t, p.PublicID)

	rec, err := s.Get(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shared", rec.Name)
}

func TestLoadCorruptCardsFallsBack(t *testing.T) {
	s := openTestStore(t)
	p, err := s.Create("Broken")
	require.NoError(t, err)
	require.NoError(t, s.db.Model(&ProjectRecord{}).Where("id = ?", p.ID).
		Update("cards_data", []byte("{garbage")).Error)

	loaded, err := s.Load(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Len())
	assert.True(t, loaded.Current().Empty())
}

func TestRenameAndDelete(t *testing.T) {
	s := openTestStore(t)
	p, err := s.Create("Old")
	require.NoError(t, err)

	require.NoError(t, s.Rename(p.ID, ""))
	rec, err := s.Get(p.ID)
	require.NoError(t, err)
	assert.Equal(t, DefaultName, rec.Name)

	require.NoError(t, s.Rename(p.ID, "New"))
	rec, err = s.Get(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", rec.Name)

	require.NoError(t, s.Delete(p.ID))
	_, err = s.Get(p.ID)
	assert.True(t, errors.Is(err, ErrProjectNotFound))

	assert.ErrorIs(t, s.Delete(p.ID), ErrProjectNotFound)
	assert.ErrorIs(t, s.Rename("missing", "x"), ErrProjectNotFound)
	_, err = s.Load("missing")
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestLatest(t *testing.T) {
	s := openTestStore(t)

	created, err := s.Latest()
	require.NoError(t, err)
	assert.Equal(t, DefaultName, created.Name)

	time.Sleep(2 * time.Millisecond)
	newer, err := s.Create("Newer")
	require.NoError(t, err)

	latest, err := s.Latest()
	require.NoError(t, err)
	assert.Equal(t, newer.ID, latest.ID)
}
