package session

import (
	"fmt"
	"math"
	"sync"

	"FlipCards/internal/state"

	"fyne.io/fyne/v2"
)

const (
	// flipAngle is the rotation of one full flip.
	flipAngle = 180
	// flipThreshold is the fraction of the surface width a drag must cover
	// to complete a flip.
	flipThreshold = 0.25
)

// Config holds the drawing settings supplied by the presentation layer.
type Config struct {
	Color       string
	LineWidth   float32
	EraserWidth float32
}

// DefaultConfig matches the stock pen and eraser.
var DefaultConfig = Config{
	Color:       "#0000FF",
	LineWidth:   3,
	EraserWidth: 48,
}

// Editor is an interactive editing session over one project. The UI feeds
// pointer events and commands; the editor routes every edit through the
// current card so each one is logged exactly once.
//
// Editor is safe for concurrent use so that sharing can snapshot the project
// while the UI edits it.
type Editor struct {
	mu sync.Mutex

	project *state.Project
	fsm     Machine
	tool    Tool
	cfg     Config
	surface fyne.Size

	current *state.Stroke
	eraser  *fyne.Position

	flipStartX      float32
	initialRotation float32

	// OnChange is called after every committed change, outside the lock.
	OnChange func()
}

// NewEditor starts a session on p. Zero fields in cfg take their defaults.
func NewEditor(p *state.Project, cfg Config) *Editor {
	if cfg.Color == "" {
		cfg.Color = DefaultConfig.Color
	}
	if cfg.LineWidth <= 0 {
		cfg.LineWidth = DefaultConfig.LineWidth
	}
	if cfg.EraserWidth <= 0 {
		cfg.EraserWidth = DefaultConfig.EraserWidth
	}
	return &Editor{
		project: p,
		cfg:     cfg,
		surface: fyne.NewSize(1, 1),
	}
}

func (e *Editor) changed() {
	if e.OnChange != nil {
		e.OnChange()
	}
}

// WithProject runs fn with exclusive access to the project.
func (e *Editor) WithProject(fn func(p *state.Project)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.project)
}

// Open switches the session to p, abandoning any gesture in progress.
func (e *Editor) Open(p *state.Project) {
	e.mu.Lock()
	e.cancelLocked()
	e.project = p
	e.mu.Unlock()
	state.Logger().Info("project opened", "project", p.ID, "cards", p.Len())
	e.changed()
}

// ProjectInfo returns the id and name of the open project.
func (e *Editor) ProjectInfo() (id, name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.project.ID, e.project.Name
}

// Snapshot encodes the project's cards for persistence or sharing.
func (e *Editor) Snapshot() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return state.EncodeCards(e.project.Cards())
}

// SetSurfaceSize records the size of the drawing surface. New strokes are
// captured against it and flips are measured against its width.
func (e *Editor) SetSurfaceSize(size fyne.Size) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if size.Width > 0 && size.Height > 0 {
		e.surface = size
	}
}

// SetTool selects the active tool, abandoning any gesture in progress.
func (e *Editor) SetTool(t Tool) {
	e.mu.Lock()
	e.cancelLocked()
	e.tool = t
	e.mu.Unlock()
	e.changed()
}

// ToggleTool selects t, or deselects it if it is already active.
func (e *Editor) ToggleTool(t Tool) {
	e.mu.Lock()
	next := t
	if e.tool == t {
		next = ToolNone
	}
	e.mu.Unlock()
	e.SetTool(next)
}

func (e *Editor) Tool() Tool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tool
}

func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fsm.State()
}

// SetColor sets the pen color from a hex string.
func (e *Editor) SetColor(hex string) error {
	c, err := state.ParseHexColor(hex)
	if err != nil {
		return fmt.Errorf("set color: %w", err)
	}
	e.mu.Lock()
	e.cfg.Color = state.HexColor(c)
	e.mu.Unlock()
	return nil
}

func (e *Editor) SetLineWidth(w float32) {
	if w <= 0 {
		return
	}
	e.mu.Lock()
	e.cfg.LineWidth = w
	e.mu.Unlock()
}

func (e *Editor) SetEraserWidth(w float32) {
	if w <= 0 {
		return
	}
	e.mu.Lock()
	e.cfg.EraserWidth = w
	e.mu.Unlock()
}

// Config returns the current drawing settings.
func (e *Editor) Config() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// PointerDown begins a gesture with the active tool.
func (e *Editor) PointerDown(p fyne.Position) {
	e.mu.Lock()
	_, to, ok := e.fsm.Fire(PointerDown, e.tool)
	if !ok {
		e.mu.Unlock()
		return
	}

	card := e.project.Current()
	switch to {
	case Drawing:
		s := state.NewStroke(e.surface, p, e.cfg.Color, e.cfg.LineWidth)
		e.current = &s
	case Erasing:
		e.eraser = &p
		e.eraseLocked(card, p)
	case Flipping:
		e.flipStartX = p.X
		e.initialRotation = card.Transform.Rotation
	}
	e.mu.Unlock()
	e.changed()
}

// PointerMove extends the active gesture.
func (e *Editor) PointerMove(p fyne.Position) {
	e.mu.Lock()
	_, to, ok := e.fsm.Fire(PointerMove, e.tool)
	if !ok {
		e.mu.Unlock()
		return
	}

	card := e.project.Current()
	switch to {
	case Drawing:
		e.current.Points = append(e.current.Points, p)
	case Erasing:
		e.eraser = &p
		e.eraseLocked(card, p)
	case Flipping:
		card.Transform.Rotation = e.initialRotation + e.flipProgress(p.X)*flipAngle
	}
	e.mu.Unlock()
	e.changed()
}

// PointerUp ends the active gesture. A drawn stroke is committed only when it
// has at least two points; a flip completes when the drag passed the
// threshold and snaps back otherwise.
func (e *Editor) PointerUp() {
	e.pointerUp(nil)
}

// PointerUpAt ends the active gesture at p, which settles a flip's final
// progress.
func (e *Editor) PointerUpAt(p fyne.Position) {
	e.pointerUp(&p)
}

func (e *Editor) pointerUp(at *fyne.Position) {
	e.mu.Lock()
	from, _, ok := e.fsm.Fire(PointerUp, e.tool)
	if !ok {
		e.mu.Unlock()
		return
	}

	card := e.project.Current()
	switch from {
	case Drawing:
		if last := e.current.Points[len(e.current.Points)-1]; at != nil && *at != last {
			e.current.Points = append(e.current.Points, *at)
		}
		s := *e.current
		e.current = nil
		if !s.Degenerate() {
			card.AddStroke(s, state.IsFrontFacing(card.Transform.Rotation))
		} else {
			state.Logger().Debug("discarded point stroke", "stroke", s.ID)
		}
	case Erasing:
		e.eraser = nil
	case Flipping:
		progress := (card.Transform.Rotation - e.initialRotation) / flipAngle
		if at != nil {
			progress = e.flipProgress(at.X)
		}
		target := e.initialRotation
		if math.Abs(float64(progress)) > flipThreshold {
			if progress > 0 {
				target += flipAngle
			} else {
				target -= flipAngle
			}
		}
		card.Transform.Rotation = target
	}
	e.mu.Unlock()
	e.changed()
}

// Cancel abandons the active gesture. An in-progress stroke is discarded and
// a flip snaps back; erasures already applied stay.
func (e *Editor) Cancel() {
	e.mu.Lock()
	e.cancelLocked()
	e.mu.Unlock()
	e.changed()
}

func (e *Editor) cancelLocked() {
	from, _, ok := e.fsm.Fire(Cancel, e.tool)
	if !ok {
		return
	}
	switch from {
	case Drawing:
		e.current = nil
	case Erasing:
		e.eraser = nil
	case Flipping:
		e.project.Current().Transform.Rotation = e.initialRotation
	}
}

// eraseLocked erases around a contact point on the current surface. Strokes
// captured on a surface of another size are hit where they are drawn.
func (e *Editor) eraseLocked(card *state.Card, p fyne.Position) {
	card.EraseOn(e.surface, p, e.cfg.EraserWidth/2, state.IsFrontFacing(card.Transform.Rotation))
}

func (e *Editor) flipProgress(x float32) float32 {
	if e.surface.Width <= 0 {
		return 0
	}
	return (x - e.flipStartX) / e.surface.Width
}

// InProgress returns the stroke being drawn, if any.
func (e *Editor) InProgress() (state.Stroke, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return state.Stroke{}, false
	}
	return e.current.Clone(), true
}

// EraserPosition returns the eraser contact point during an erase gesture.
func (e *Editor) EraserPosition() (fyne.Position, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.eraser == nil {
		return fyne.Position{}, false
	}
	return *e.eraser, true
}

// CurrentStrokes returns one face of the current card for rendering.
func (e *Editor) CurrentStrokes(isFront bool) []state.Stroke {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.project.Current().Strokes(isFront)
}

// CardStrokes returns one face of the card at index. ok is false for an
// index outside the deck.
func (e *Editor) CardStrokes(index int, isFront bool) (strokes []state.Stroke, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	cards := e.project.Cards()
	if index < 0 || index >= len(cards) {
		return nil, false
	}
	return cards[index].Strokes(isFront), true
}

// IsFront reports whether the current card shows its front.
func (e *Editor) IsFront() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return state.IsFrontFacing(e.project.Current().Transform.Rotation)
}

// Rotation returns the current card's flip rotation in degrees.
func (e *Editor) Rotation() float32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.project.Current().Transform.Rotation
}

func (e *Editor) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.project.Current().CanUndo()
}

func (e *Editor) CanRedo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.project.Current().CanRedo()
}

// Undo reverts the current card's latest edit. It is ignored mid-gesture.
func (e *Editor) Undo() bool {
	return e.command(func(p *state.Project) bool {
		_, ok := p.Current().Undo()
		return ok
	})
}

// Redo reapplies the current card's latest undone edit. It is ignored
// mid-gesture.
func (e *Editor) Redo() bool {
	return e.command(func(p *state.Project) bool {
		_, ok := p.Current().Redo()
		return ok
	})
}

func (e *Editor) AddCard(duplicate bool) {
	e.command(func(p *state.Project) bool {
		p.AddCard(duplicate)
		return true
	})
}

func (e *Editor) RemoveCard() {
	e.command(func(p *state.Project) bool {
		p.RemoveCard()
		return true
	})
}

func (e *Editor) RemoveAllCards() {
	e.command(func(p *state.Project) bool {
		p.RemoveAllCards()
		return true
	})
}

func (e *Editor) SelectCard(index int) bool {
	return e.command(func(p *state.Project) bool {
		return p.Select(index)
	})
}

// CardCount returns the number of cards and the current index.
func (e *Editor) CardCount() (count, current int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.project.Len(), e.project.CurrentIndex()
}

// command runs a project mutation while no gesture is active.
func (e *Editor) command(fn func(p *state.Project) bool) bool {
	e.mu.Lock()
	if e.fsm.State() != Idle {
		e.mu.Unlock()
		return false
	}
	ok := fn(e.project)
	e.mu.Unlock()
	if ok {
		e.changed()
	}
	return ok
}
