package state

import (
	"sort"
	"testing"

	"fyne.io/fyne/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strokeIDs(strokes []Stroke) []string {
	ids := make([]string, len(strokes))
	for i, s := range strokes {
		ids[i] = s.ID
	}
	sort.Strings(ids)
	return ids
}

func TestCardDrawStroke(t *testing.T) {
	c := NewCard()
	s := testStroke(0, 0, 10, 0, 20, 0)
	s.Color = "#0000FF"
	s.Width = 3

	require.True(t, c.AddStroke(s, true))

	got := c.Strokes(true)
	require.Len(t, got, 1)
	assert.Equal(t, s, got[0])
	assert.Empty(t, c.Strokes(false))
	assert.True(t, c.CanUndo())
	assert.False(t, c.CanRedo())
}

func TestSideAddStrokeRejects(t *testing.T) {
	c := NewCard()
	assert.False(t, c.AddStroke(Stroke{ID: "empty"}, true))

	s := testStroke(0, 0, 1, 1)
	require.True(t, c.AddStroke(s, true))
	assert.False(t, c.AddStroke(s, true), "duplicate id")

	undo, _ := c.history.depth()
	assert.Equal(t, 1, undo)
}

func TestCardEraseOnScaledSurface(t *testing.T) {
	c := NewCard()
	require.True(t, c.AddStroke(testStroke(0, 50, 20, 50, 40, 50, 60, 50), true))

	// At 100x200 the stroke is drawn at y 100.
	surface := fyne.NewSize(100, 200)
	assert.Equal(t, 0, c.EraseOn(surface, fyne.NewPos(30, 50), 5, true), "stored coordinates are not drawn ones")
	require.Len(t, c.Strokes(true), 1)

	require.Equal(t, 1, c.EraseOn(surface, fyne.NewPos(30, 100), 5, true))
	got := c.Strokes(true)
	require.Len(t, got, 2)
	assert.Equal(t, pts(0, 50, 20, 50), got[0].Points)
	assert.Equal(t, pts(40, 50, 60, 50), got[1].Points)
}

func TestCardEraseOnMatchingSurface(t *testing.T) {
	c := NewCard()
	require.True(t, c.AddStroke(testStroke(0, 0, 10, 0, 20, 0, 30, 0), true))

	assert.Equal(t, 1, c.EraseOn(fyne.NewSize(100, 100), fyne.NewPos(15, 0), 5, true))
	assert.Len(t, c.Strokes(true), 2)
}

func TestSideAddStrokeRejectsPointStroke(t *testing.T) {
	c := NewCard()
	assert.False(t, c.AddStroke(testStroke(5, 5), true))
	assert.False(t, c.CanUndo())
}

func TestCardRemoveUnknownIsNoop(t *testing.T) {
	c := NewCard()
	assert.False(t, c.RemoveStroke("missing", true))
	assert.False(t, c.CanUndo())
}

func TestCardEraseKeepsFragments(t *testing.T) {
	c := NewCard()
	s := testStroke(0, 0, 10, 0, 20, 0, 30, 0)
	require.True(t, c.AddStroke(s, true))

	assert.Equal(t, 1, c.EraseAt(fyne.NewPos(15, 0), 5, true))

	got := c.Strokes(true)
	require.Len(t, got, 2)
	assert.Equal(t, pts(0, 0, 10, 0), got[0].Points)
	assert.Equal(t, pts(20, 0, 30, 0), got[1].Points)

	undo, _ := c.history.depth()
	assert.Equal(t, 2, undo, "one add and one split")
	a, ok := c.history.Undo()
	require.True(t, ok)
	assert.Equal(t, ActionSplit, a.Kind)
	assert.Equal(t, s.ID, a.Stroke.ID)
	assert.Len(t, a.Replacements, 2)
}

func TestCardEraseAtSharedVertex(t *testing.T) {
	c := NewCard()
	s := testStroke(0, 0, 10, 0, 20, 0)
	require.True(t, c.AddStroke(s, true))

	// Both segments touch (10,0); the first wins, leaving a one-point head
	// that is dropped.
	assert.Equal(t, 1, c.EraseAt(fyne.NewPos(10, 0), 5, true))

	got := c.Strokes(true)
	require.Len(t, got, 1)
	assert.Equal(t, pts(10, 0, 20, 0), got[0].Points)
	assert.NotEqual(t, s.ID, got[0].ID)
}

func TestCardEraseWholeStroke(t *testing.T) {
	c := NewCard()
	s := testStroke(0, 0, 1, 0)
	require.True(t, c.AddStroke(s, false))

	assert.Equal(t, 1, c.EraseAt(fyne.NewPos(0.5, 0), 5, false))
	assert.Empty(t, c.Strokes(false))

	a, ok := c.Undo()
	require.True(t, ok)
	assert.Equal(t, ActionSplit, a.Kind)
	assert.Empty(t, a.Replacements)
	assert.Equal(t, []string{s.ID}, strokeIDs(c.Strokes(false)))
}

func TestCardEraseMiss(t *testing.T) {
	c := NewCard()
	require.True(t, c.AddStroke(testStroke(0, 0, 10, 0), true))

	assert.Equal(t, 0, c.EraseAt(fyne.NewPos(50, 50), 5, true))
	assert.Equal(t, 0, c.EraseAt(fyne.NewPos(5, 0), 5, false), "other face untouched")
	assert.Len(t, c.Strokes(true), 1)
}

func TestCardEraseBatchUsesSnapshot(t *testing.T) {
	c := NewCard()
	horizontal := testStroke(0, 0, 10, 0, 20, 0, 30, 0)
	vertical := testStroke(15, -10, 15, -5, 15, 5, 15, 10)
	require.True(t, c.AddStroke(horizontal, true))
	require.True(t, c.AddStroke(vertical, true))

	wantH1, wantH2, _ := horizontal.SplitAt(fyne.NewPos(15, 0))
	wantV1, wantV2, _ := vertical.SplitAt(fyne.NewPos(15, 0))

	assert.Equal(t, 2, c.EraseAt(fyne.NewPos(15, 0), 3, true))

	got := c.Strokes(true)
	require.Len(t, got, 4)
	assert.Equal(t, wantH1.Points, got[0].Points)
	assert.Equal(t, wantH2.Points, got[1].Points)
	assert.Equal(t, wantV1.Points, got[2].Points)
	assert.Equal(t, wantV2.Points, got[3].Points)

	splits := 0
	for c.CanUndo() {
		a, _ := c.history.Undo()
		if a.Kind == ActionSplit {
			splits++
		}
	}
	assert.Equal(t, 2, splits)
}

func TestCardUndoRedoRoundTrip(t *testing.T) {
	c := NewCard()
	a := testStroke(0, 0, 10, 0, 20, 0, 30, 0)
	b := testStroke(0, 10, 10, 10)
	d := testStroke(50, 50, 60, 60)

	steps := []func(){
		func() { c.AddStroke(a, true) },
		func() { c.AddStroke(b, true) },
		func() { c.AddStroke(d, false) },
		func() { c.RemoveStroke(b.ID, true) },
		func() { c.EraseAt(fyne.NewPos(15, 0), 2, true) },
		func() { c.EraseAt(fyne.NewPos(55, 55), 2, false) },
	}
	for _, step := range steps {
		step()
	}
	wantFront := strokeIDs(c.Strokes(true))
	wantBack := strokeIDs(c.Strokes(false))
	n, _ := c.history.depth()
	require.Equal(t, len(steps), n)

	for i := 0; i < n; i++ {
		_, ok := c.Undo()
		require.True(t, ok)
	}
	assert.Empty(t, c.Strokes(true))
	assert.Empty(t, c.Strokes(false))
	_, ok := c.Undo()
	assert.False(t, ok)

	for i := 0; i < n; i++ {
		_, ok := c.Redo()
		require.True(t, ok)
	}
	assert.Equal(t, wantFront, strokeIDs(c.Strokes(true)))
	assert.Equal(t, wantBack, strokeIDs(c.Strokes(false)))
	_, ok = c.Redo()
	assert.False(t, ok)
}

// Undo re-appends restored strokes at the end; z-order is not restored.
func TestCardUndoRemoveAppends(t *testing.T) {
	c := NewCard()
	a := testStroke(0, 0, 1, 1)
	b := testStroke(2, 2, 3, 3)
	c.AddStroke(a, true)
	c.AddStroke(b, true)
	c.RemoveStroke(a.ID, true)

	c.Undo()

	got := c.Strokes(true)
	require.Len(t, got, 2)
	assert.Equal(t, b.ID, got[0].ID)
	assert.Equal(t, a.ID, got[1].ID)
}

func TestCardStrokesAreCopies(t *testing.T) {
	c := NewCard()
	c.AddStroke(testStroke(0, 0, 1, 1), true)

	got := c.Strokes(true)
	got[0].Points[0] = fyne.NewPos(99, 99)

	assert.Equal(t, fyne.NewPos(0, 0), c.Strokes(true)[0].Points[0])
}

func TestCardClone(t *testing.T) {
	c := NewCard()
	s := testStroke(0, 0, 1, 1)
	c.AddStroke(s, true)

	n := c.Clone()
	assert.NotEqual(t, c.ID, n.ID)
	require.Len(t, n.Strokes(true), 1)
	assert.NotEqual(t, s.ID, n.Strokes(true)[0].ID)
	assert.Equal(t, s.Points, n.Strokes(true)[0].Points)
	assert.False(t, n.CanUndo())
}

func TestIsFrontFacing(t *testing.T) {
	tests := []struct {
		rotation float32
		want     bool
	}{
		{0, true},
		{90, true},
		{91, false},
		{180, false},
		{269, false},
		{270, true},
		{360, true},
		{-90, true},
		{-180, false},
		{540, false},
		{720, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsFrontFacing(tt.rotation), "rotation %v", tt.rotation)
	}
}
