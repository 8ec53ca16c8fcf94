package ui

import (
	"fmt"
	"image/color"
	"strings"

	"FlipCards/internal/session"
	"FlipCards/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// palette is the set of pen colors offered in the toolbar.
var palette = []color.NRGBA{
	{A: 255},
	{R: 255, A: 255},
	{G: 160, A: 255},
	{B: 255, A: 255},
	{R: 255, G: 165, A: 255},
}

var selectedBorder = color.NRGBA{R: 30, G: 110, B: 230, A: 255}

// colorSwatch is a palette entry; the swatch matching the pen color is
// outlined.
type colorSwatch struct {
	widget.BaseWidget
	hex      string
	selected bool
	OnTapped func(hex string)
}

func newColorSwatch(c color.NRGBA, tapped func(string)) *colorSwatch {
	s := &colorSwatch{hex: state.HexColor(c), OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) setSelected(selected bool) {
	if s.selected == selected {
		return
	}
	s.selected = selected
	s.Refresh()
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	fill, _ := state.ParseHexColor(s.hex)
	rect := canvas.NewRectangle(fill)
	rect.SetMinSize(fyne.NewSize(28, 28))
	rect.CornerRadius = 4

	border := canvas.NewRectangle(color.Transparent)
	border.CornerRadius = 4
	r := &swatchRenderer{swatch: s, border: border}
	r.Refresh()
	r.WidgetRenderer = widget.NewSimpleRenderer(container.NewStack(rect, border))
	return r
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.hex)
	}
}

type swatchRenderer struct {
	fyne.WidgetRenderer
	swatch *colorSwatch
	border *canvas.Rectangle
}

func (r *swatchRenderer) Refresh() {
	r.border.StrokeColor = color.Gray{Y: 150}
	r.border.StrokeWidth = 1
	if r.swatch.selected {
		r.border.StrokeColor = selectedBorder
		r.border.StrokeWidth = 3
	}
	r.border.Refresh()
}

// Actions are the toolbar commands that need more than the editor, such as
// dialogs or playback.
type Actions struct {
	Library func()
	Cards   func()
	Export  func()
	Play    func()
	Share   func()
}

// Toolbar holds the editing controls of one editor.
type Toolbar struct {
	editor *session.Editor
	status *widget.Label
	undo   *widget.Button
	redo   *widget.Button
	pen    *widget.Button
	eraser *widget.Button

	swatches []*colorSwatch
	content  fyne.CanvasObject
}

func NewToolbar(e *session.Editor, actions Actions) *Toolbar {
	t := &Toolbar{editor: e, status: widget.NewLabel("")}

	t.pen = widget.NewButtonWithIcon("", theme.DocumentCreateIcon(), func() {
		e.ToggleTool(session.ToolPen)
	})
	t.eraser = widget.NewButtonWithIcon("", theme.ContentClearIcon(), func() {
		e.ToggleTool(session.ToolEraser)
	})
	t.undo = widget.NewButtonWithIcon("", theme.ContentUndoIcon(), func() { e.Undo() })
	t.redo = widget.NewButtonWithIcon("", theme.ContentRedoIcon(), func() { e.Redo() })

	cards := widget.NewToolbar(
		widget.NewToolbarAction(theme.ContentAddIcon(), func() { e.AddCard(false) }),
		widget.NewToolbarAction(theme.ContentCopyIcon(), func() { e.AddCard(true) }),
		widget.NewToolbarAction(theme.ContentRemoveIcon(), e.RemoveCard),
		widget.NewToolbarAction(theme.DeleteIcon(), e.RemoveAllCards),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.NavigateBackIcon(), func() { t.step(-1) }),
		widget.NewToolbarAction(theme.NavigateNextIcon(), func() { t.step(1) }),
	)
	extra := widget.NewToolbar()
	if actions.Library != nil {
		extra.Append(widget.NewToolbarAction(theme.FolderOpenIcon(), actions.Library))
	}
	if actions.Cards != nil {
		extra.Append(widget.NewToolbarAction(theme.GridIcon(), actions.Cards))
	}
	if actions.Play != nil {
		extra.Append(widget.NewToolbarAction(theme.MediaPlayIcon(), actions.Play))
	}
	if actions.Export != nil {
		extra.Append(widget.NewToolbarAction(theme.DocumentSaveIcon(), actions.Export))
	}
	if actions.Share != nil {
		extra.Append(widget.NewToolbarAction(theme.MailSendIcon(), actions.Share))
	}

	onColor := func(hex string) {
		if err := e.SetColor(hex); err != nil {
			return
		}
		if e.Tool() != session.ToolPen {
			e.SetTool(session.ToolPen)
		}
		t.Update()
	}
	swatches := container.NewHBox()
	for _, c := range palette {
		sw := newColorSwatch(c, onColor)
		t.swatches = append(t.swatches, sw)
		swatches.Add(sw)
	}

	width := widget.NewSlider(1, 20)
	width.SetValue(float64(e.Config().LineWidth))
	width.OnChanged = func(v float64) { e.SetLineWidth(float32(v)) }
	sliderBox := container.New(layout.NewGridWrapLayout(fyne.NewSize(120, 35)), width)

	eraserWidth := widget.NewSlider(8, 80)
	eraserWidth.SetValue(float64(e.Config().EraserWidth))
	eraserWidth.OnChanged = func(v float64) { e.SetEraserWidth(float32(v)) }
	eraserBox := container.New(layout.NewGridWrapLayout(fyne.NewSize(100, 35)), eraserWidth)

	t.content = container.NewHBox(
		t.pen, t.eraser,
		widget.NewSeparator(),
		swatches,
		sliderBox,
		eraserBox,
		widget.NewSeparator(),
		t.undo, t.redo,
		widget.NewSeparator(),
		cards,
		layout.NewSpacer(),
		t.status,
		extra,
	)
	t.Update()
	return t
}

// Content returns the toolbar's canvas object.
func (t *Toolbar) Content() fyne.CanvasObject { return t.content }

func (t *Toolbar) step(delta int) {
	count, current := t.editor.CardCount()
	t.editor.SelectCard(((current+delta)%count + count) % count)
}

// Update syncs the controls with the editor.
func (t *Toolbar) Update() {
	tool := t.editor.Tool()
	t.pen.Importance = widget.MediumImportance
	t.eraser.Importance = widget.MediumImportance
	switch tool {
	case session.ToolPen:
		t.pen.Importance = widget.HighImportance
	case session.ToolEraser:
		t.eraser.Importance = widget.HighImportance
	}
	t.pen.Refresh()
	t.eraser.Refresh()

	pen := strings.ToUpper(t.editor.Config().Color)
	for _, sw := range t.swatches {
		sw.setSelected(sw.hex == pen)
	}

	if t.editor.CanUndo() {
		t.undo.Enable()
	} else {
		t.undo.Disable()
	}
	if t.editor.CanRedo() {
		t.redo.Enable()
	} else {
		t.redo.Disable()
	}
	t.status.SetText(t.statusText())
}

func (t *Toolbar) statusText() string {
	count, current := t.editor.CardCount()
	side := "front"
	if !t.editor.IsFront() {
		side = "back"
	}
	return fmt.Sprintf("Card %d/%d, %s", current+1, count, side)
}
