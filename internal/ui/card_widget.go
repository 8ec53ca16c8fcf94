package ui

import (
	"image/color"
	"math"
	"sync"

	"FlipCards/internal/session"
	"FlipCards/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

const ghostAlpha = 40

var (
	cardColor   = color.NRGBA{R: 255, G: 253, B: 245, A: 255}
	cardBorder  = color.NRGBA{R: 200, G: 200, B: 200, A: 255}
	eraserColor = color.NRGBA{R: 120, G: 120, B: 120, A: 160}
)

// CardWidget shows the current card of an editor and turns mouse input into
// editor gestures. While a deck is playing it shows the played card instead
// and ignores input.
type CardWidget struct {
	widget.BaseWidget
	editor *session.Editor

	mu      sync.RWMutex
	preview *previewCard
}

type previewCard struct {
	strokes   []state.Stroke
	transform state.Transform
}

var _ fyne.Widget = (*CardWidget)(nil)
var _ fyne.Draggable = (*CardWidget)(nil)
var _ desktop.Mouseable = (*CardWidget)(nil)

func NewCardWidget(e *session.Editor) *CardWidget {
	c := &CardWidget{editor: e}
	c.ExtendBaseWidget(c)
	return c
}

// ShowFrame displays the played card of a playback frame.
func (c *CardWidget) ShowFrame(f session.Frame) {
	var p previewCard
	c.editor.WithProject(func(proj *state.Project) {
		cards := proj.Cards()
		if f.Current >= len(cards) {
			return
		}
		card := cards[f.Current]
		p.transform = f.Transforms[f.Current]
		p.strokes = card.Strokes(true)
	})
	c.mu.Lock()
	c.preview = &p
	c.mu.Unlock()
	c.Refresh()
}

// StopPreview returns to editing the current card.
func (c *CardWidget) StopPreview() {
	c.mu.Lock()
	c.preview = nil
	c.mu.Unlock()
	c.Refresh()
}

func (c *CardWidget) previewing() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.preview != nil
}

func (c *CardWidget) Resize(size fyne.Size) {
	c.BaseWidget.Resize(size)
	c.editor.SetSurfaceSize(size)
}

func (c *CardWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary || c.previewing() {
		return
	}
	c.editor.PointerDown(e.Position)
}

func (c *CardWidget) Dragged(e *fyne.DragEvent) {
	if c.previewing() {
		return
	}
	c.editor.PointerMove(e.Position)
}

// MouseUp ends the gesture at the release point. After a drag, DragEnd has
// usually ended it already and this is ignored by the editor.
func (c *CardWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	c.editor.PointerUpAt(e.Position)
}

func (c *CardWidget) DragEnd() {
	c.editor.PointerUp()
}

func (c *CardWidget) MouseIn(*desktop.MouseEvent)    {}
func (c *CardWidget) MouseMoved(*desktop.MouseEvent) {}
func (c *CardWidget) MouseOut()                      {}

func (c *CardWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &cardRenderer{card: c}
	r.background = canvas.NewRectangle(cardColor)
	r.background.StrokeColor = cardBorder
	r.background.StrokeWidth = 1
	r.background.CornerRadius = 12
	r.rebuild(c.Size())
	return r
}

type cardRenderer struct {
	card       *CardWidget
	background *canvas.Rectangle
	objects    []fyne.CanvasObject
}

func (r *cardRenderer) Objects() []fyne.CanvasObject { return r.objects }

func (r *cardRenderer) Layout(size fyne.Size) { r.rebuild(size) }

func (r *cardRenderer) MinSize() fyne.Size { return fyne.NewSize(300, 200) }

func (r *cardRenderer) Refresh() {
	r.rebuild(r.card.Size())
	canvas.Refresh(r.card)
}

func (r *cardRenderer) Destroy() {}

// rebuild lays out the card as seen at its current rotation. The flip is
// drawn as a horizontal squeeze about the centre.
func (r *cardRenderer) rebuild(size fyne.Size) {
	e := r.card.editor

	var (
		strokes  []state.Stroke
		ghost    []state.Stroke
		rotation float32
		offset   fyne.Position
		scale    float32 = 1
	)

	r.card.mu.RLock()
	preview := r.card.preview
	r.card.mu.RUnlock()

	if preview != nil {
		strokes = preview.strokes
		rotation = preview.transform.Rotation
		offset = fyne.NewPos(preview.transform.OffsetX, preview.transform.OffsetY)
		scale = preview.transform.Scale
	} else {
		rotation = e.Rotation()
		front := state.IsFrontFacing(rotation)
		strokes = e.CurrentStrokes(front)
		if !front {
			for _, s := range e.CurrentStrokes(true) {
				ghost = append(ghost, s.Mirrored())
			}
		}
		if s, ok := e.InProgress(); ok {
			strokes = append(strokes, s)
		}
	}

	squeeze := float32(math.Abs(math.Cos(float64(rotation) * math.Pi / 180)))
	cx, cy := size.Width/2, size.Height/2
	place := func(p fyne.Position) fyne.Position {
		x := cx + (p.X-cx)*squeeze*scale
		y := cy + (p.Y-cy)*scale
		return fyne.NewPos(x+offset.X, y+offset.Y)
	}

	cardSize := fyne.NewSize(size.Width*squeeze*scale, size.Height*scale)
	r.background.Resize(cardSize)
	r.background.Move(place(fyne.NewPos(0, 0)))

	objects := []fyne.CanvasObject{r.background}
	for _, s := range ghost {
		objects = append(objects, strokeLines(s, size, place, ghostAlpha)...)
	}
	for _, s := range strokes {
		objects = append(objects, strokeLines(s, size, place, 0)...)
	}

	if preview == nil {
		if pos, ok := e.EraserPosition(); ok {
			d := e.Config().EraserWidth
			ring := canvas.NewCircle(color.Transparent)
			ring.StrokeColor = eraserColor
			ring.StrokeWidth = 1
			ring.Resize(fyne.NewSize(d, d))
			ring.Move(fyne.NewPos(pos.X-d/2, pos.Y-d/2))
			objects = append(objects, ring)
		}
	}
	r.objects = objects
}

// strokeLines converts a stroke into line segments scaled to size. A
// non-zero alpha overrides the stroke's own.
func strokeLines(s state.Stroke, size fyne.Size, place func(fyne.Position) fyne.Position, alpha uint8) []fyne.CanvasObject {
	col := s.StrokeColor()
	if alpha > 0 {
		col.A = alpha
	}
	points := s.Points
	if s.Size.Width > 0 && s.Size.Height > 0 {
		points = s.ScaledTo(size)
	}

	lines := make([]fyne.CanvasObject, 0, len(points))
	for i := 1; i < len(points); i++ {
		line := canvas.NewLine(col)
		line.StrokeWidth = s.Width
		line.Position1 = place(points[i-1])
		line.Position2 = place(points[i])
		lines = append(lines, line)
	}
	return lines
}
