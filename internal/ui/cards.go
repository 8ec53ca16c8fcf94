package ui

import (
	"fmt"

	"FlipCards/internal/session"
	"FlipCards/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

var thumbSize = fyne.NewSize(150, 100)

// cardThumb is a tappable miniature of one card's front.
type cardThumb struct {
	widget.BaseWidget
	index    int
	strokes  []state.Stroke
	current  bool
	OnTapped func(index int)
}

var _ fyne.Tappable = (*cardThumb)(nil)

func newCardThumb(index int, strokes []state.Stroke, current bool, tapped func(int)) *cardThumb {
	c := &cardThumb{index: index, strokes: strokes, current: current, OnTapped: tapped}
	c.ExtendBaseWidget(c)
	return c
}

func (c *cardThumb) Tapped(_ *fyne.PointEvent) {
	if c.OnTapped != nil {
		c.OnTapped(c.index)
	}
}

func (c *cardThumb) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(cardColor)
	bg.StrokeColor = cardBorder
	bg.StrokeWidth = 1
	if c.current {
		bg.StrokeColor = selectedBorder
		bg.StrokeWidth = 3
	}
	bg.Resize(thumbSize)
	bg.SetMinSize(thumbSize)

	objects := []fyne.CanvasObject{bg}
	identity := func(p fyne.Position) fyne.Position { return p }
	for _, s := range c.strokes {
		s.Width = max(1, s.Width/4)
		objects = append(objects, strokeLines(s, thumbSize, identity, 0)...)
	}
	label := canvas.NewText(fmt.Sprint(c.index+1), cardBorder)
	label.TextSize = 11
	label.Move(fyne.NewPos(4, 2))
	objects = append(objects, label)

	return widget.NewSimpleRenderer(container.NewWithoutLayout(objects...))
}

func (c *cardThumb) MinSize() fyne.Size { return thumbSize }

// cardThumbs builds one thumbnail per card of the deck.
func cardThumbs(e *session.Editor, pick func(int)) []*cardThumb {
	count, current := e.CardCount()
	thumbs := make([]*cardThumb, 0, count)
	for i := range count {
		strokes, ok := e.CardStrokes(i, true)
		if !ok {
			break
		}
		thumbs = append(thumbs, newCardThumb(i, strokes, i == current, pick))
	}
	return thumbs
}

// showCardPicker shows every card of the deck; tapping one selects it.
func showCardPicker(w fyne.Window, e *session.Editor) {
	var d dialog.Dialog
	thumbs := cardThumbs(e, func(i int) {
		e.SelectCard(i)
		d.Hide()
	})
	grid := container.NewGridWrap(thumbSize)
	for _, th := range thumbs {
		grid.Add(th)
	}
	d = dialog.NewCustom("Cards", "Close", container.NewVScroll(grid), w)
	d.Resize(fyne.NewSize(680, 480))
	d.Show()
}
