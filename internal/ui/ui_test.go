package ui

import (
	"testing"

	"FlipCards/internal/session"
	"FlipCards/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCard(t *testing.T) (*session.Editor, *CardWidget) {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)

	e := session.NewEditor(state.NewProject("test"), session.DefaultConfig)
	c := NewCardWidget(e)
	c.Resize(fyne.NewSize(200, 100))
	return e, c
}

func press(x, y float32) *desktop.MouseEvent {
	return &desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)},
		Button:     desktop.MouseButtonPrimary,
	}
}

func drag(x, y float32) *fyne.DragEvent {
	return &fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}}
}

func TestCardWidgetSizesSurface(t *testing.T) {
	e, c := newTestCard(t)
	e.SetTool(session.ToolPen)
	c.MouseDown(press(10, 10))
	c.Dragged(drag(50, 50))
	c.DragEnd()

	strokes := e.CurrentStrokes(true)
	require.Len(t, strokes, 1)
	assert.Equal(t, fyne.NewSize(200, 100), strokes[0].Size)
}

func TestCardWidgetClickLeavesNoStroke(t *testing.T) {
	e, c := newTestCard(t)
	e.SetTool(session.ToolPen)
	c.MouseDown(press(20, 20))
	c.MouseUp(press(20, 20))

	assert.Empty(t, e.CurrentStrokes(true))
	assert.False(t, e.CanUndo())
}

func TestCardWidgetDraws(t *testing.T) {
	e, c := newTestCard(t)
	e.SetTool(session.ToolPen)

	c.MouseDown(press(10, 10))
	c.Dragged(drag(50, 50))
	c.DragEnd()
	c.MouseUp(press(50, 50))

	strokes := e.CurrentStrokes(true)
	require.Len(t, strokes, 1)
	assert.Equal(t, []fyne.Position{fyne.NewPos(10, 10), fyne.NewPos(50, 50)}, strokes[0].Points)
	assert.Equal(t, session.Idle, e.State())
}

func TestCardWidgetIgnoresInputWhilePreviewing(t *testing.T) {
	e, c := newTestCard(t)
	e.SetTool(session.ToolPen)
	c.ShowFrame(session.NewPlayer(e, 0).Step())

	c.MouseDown(press(10, 10))
	c.Dragged(drag(50, 50))
	c.DragEnd()
	assert.Empty(t, e.CurrentStrokes(true))

	c.StopPreview()
	assert.False(t, c.previewing())
}

func TestCardRendererShowsStrokesAndGhost(t *testing.T) {
	e, c := newTestCard(t)
	e.SetTool(session.ToolPen)
	c.MouseDown(press(10, 10))
	c.Dragged(drag(50, 50))
	c.Dragged(drag(90, 50))
	c.DragEnd()

	r := c.CreateRenderer().(*cardRenderer)
	// background plus two segments
	assert.Len(t, r.Objects(), 3)

	// Flip to the back: the front shows through as a ghost.
	e.SetTool(session.ToolNone)
	c.MouseDown(press(0, 50))
	c.Dragged(drag(150, 50))
	c.DragEnd()
	require.False(t, e.IsFront())

	r.rebuild(c.Size())
	assert.Len(t, r.Objects(), 3)
}

func TestToolbarTogglesTools(t *testing.T) {
	e, _ := newTestCard(t)
	tb := NewToolbar(e, Actions{})

	test.Tap(tb.pen)
	assert.Equal(t, session.ToolPen, e.Tool())
	test.Tap(tb.pen)
	assert.Equal(t, session.ToolNone, e.Tool())
	test.Tap(tb.eraser)
	assert.Equal(t, session.ToolEraser, e.Tool())
}

func TestToolbarUpdate(t *testing.T) {
	e, c := newTestCard(t)
	tb := NewToolbar(e, Actions{})
	assert.True(t, tb.undo.Disabled())
	assert.True(t, tb.redo.Disabled())
	assert.Equal(t, "Card 1/1, front", tb.status.Text)

	e.SetTool(session.ToolPen)
	c.MouseDown(press(10, 10))
	c.Dragged(drag(50, 50))
	c.DragEnd()
	e.AddCard(false)
	tb.Update()

	assert.Equal(t, "Card 2/2, front", tb.status.Text)
	assert.True(t, tb.undo.Disabled())

	tb.step(1)
	tb.Update()
	assert.Equal(t, "Card 1/2, front", tb.status.Text)
	assert.False(t, tb.undo.Disabled())
}

func TestToolbarMarksPenColor(t *testing.T) {
	e, _ := newTestCard(t)
	tb := NewToolbar(e, Actions{})
	require.Len(t, tb.swatches, len(palette))
	assert.False(t, tb.swatches[1].selected)

	test.Tap(tb.swatches[1])
	assert.Equal(t, "#FF0000", e.Config().Color)
	assert.Equal(t, session.ToolPen, e.Tool())
	assert.True(t, tb.swatches[1].selected)
	for i, sw := range tb.swatches {
		if i != 1 {
			assert.False(t, sw.selected, sw.hex)
		}
	}
}
