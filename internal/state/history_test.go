package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryEmpty(t *testing.T) {
	var h History
	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())

	_, ok := h.Undo()
	assert.False(t, ok)
	_, ok = h.Redo()
	assert.False(t, ok)
}

func TestHistoryLIFO(t *testing.T) {
	var h History
	a := Action{Kind: ActionAdd, Stroke: Stroke{ID: "a"}}
	b := Action{Kind: ActionRemove, Stroke: Stroke{ID: "b"}}
	h.Record(a)
	h.Record(b)

	got, ok := h.Undo()
	require.True(t, ok)
	assert.Equal(t, "b", got.Stroke.ID)
	assert.True(t, h.CanRedo())

	got, ok = h.Undo()
	require.True(t, ok)
	assert.Equal(t, "a", got.Stroke.ID)
	assert.False(t, h.CanUndo())

	got, ok = h.Redo()
	require.True(t, ok)
	assert.Equal(t, "a", got.Stroke.ID)

	undo, redo := h.depth()
	assert.Equal(t, 1, undo)
	assert.Equal(t, 1, redo)
}

func TestHistoryRecordClearsRedo(t *testing.T) {
	var h History
	h.Record(Action{Kind: ActionAdd, Stroke: Stroke{ID: "A"}})
	h.Record(Action{Kind: ActionAdd, Stroke: Stroke{ID: "B"}})
	_, ok := h.Undo()
	require.True(t, ok)

	h.Record(Action{Kind: ActionAdd, Stroke: Stroke{ID: "C"}})

	_, ok = h.Redo()
	assert.False(t, ok, "B was discarded when C was recorded")
	assert.False(t, h.CanRedo())
}
