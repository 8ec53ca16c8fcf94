package state

import (
	"math"

	"fyne.io/fyne/v2"
)

// Transform is presentation state for stack layout and flip animation.
type Transform struct {
	OffsetX  float32 `json:"offset_x"`
	OffsetY  float32 `json:"offset_y"`
	Rotation float32 `json:"rotation"`
	Scale    float32 `json:"scale"`
}

// IdentityTransform is a card at rest in the editor.
var IdentityTransform = Transform{Scale: 1}

// Card is a two-sided drawing card. Each card owns its undo history; the
// history is session-local and never persisted.
type Card struct {
	ID        string
	Front     *Side
	Back      *Side
	Transform Transform

	history *History
}

// NewCard returns an empty card at rest.
func NewCard() *Card {
	return newCardWithID(newID())
}

func newCardWithID(id string) *Card {
	h := &History{}
	return &Card{
		ID:        id,
		Front:     newSide(true, h),
		Back:      newSide(false, h),
		Transform: IdentityTransform,
		history:   h,
	}
}

// Side returns the front or back face.
func (c *Card) Side(isFront bool) *Side {
	if isFront {
		return c.Front
	}
	return c.Back
}

// Strokes returns the strokes of one face in render order.
func (c *Card) Strokes(isFront bool) []Stroke {
	return c.Side(isFront).Strokes()
}

// Empty reports whether neither face has strokes.
func (c *Card) Empty() bool {
	return c.Front.Len() == 0 && c.Back.Len() == 0
}

func (c *Card) AddStroke(s Stroke, isFront bool) bool {
	return c.Side(isFront).AddStroke(s)
}

func (c *Card) RemoveStroke(id string, isFront bool) bool {
	return c.Side(isFront).RemoveStroke(id)
}

func (c *Card) EraseAt(point fyne.Position, radius float32, isFront bool) int {
	return c.Side(isFront).EraseAt(point, radius)
}

// EraseOn erases with a contact point on a surface of the given size.
func (c *Card) EraseOn(surface fyne.Size, point fyne.Position, radius float32, isFront bool) int {
	return c.Side(isFront).EraseOn(surface, point, radius)
}

// Undo reverts the latest action on this card. ok is false when there is
// nothing to undo.
func (c *Card) Undo() (Action, bool) {
	a, ok := c.history.Undo()
	if !ok {
		return Action{}, false
	}
	c.Side(a.Front).applyReverse(a)
	Logger().Debug("undo", "card", c.ID, "kind", a.Kind, "stroke", a.Stroke.ID)
	return a, true
}

// Redo reapplies the latest undone action. ok is false when there is
// nothing to redo.
func (c *Card) Redo() (Action, bool) {
	a, ok := c.history.Redo()
	if !ok {
		return Action{}, false
	}
	c.Side(a.Front).applyForward(a)
	Logger().Debug("redo", "card", c.ID, "kind", a.Kind, "stroke", a.Stroke.ID)
	return a, true
}

func (c *Card) CanUndo() bool { return c.history.CanUndo() }
func (c *Card) CanRedo() bool { return c.history.CanRedo() }

// Clone returns a deep copy with a new card id, new stroke ids and an empty
// history.
func (c *Card) Clone() *Card {
	n := NewCard()
	n.Transform = c.Transform
	n.Front.load(renewIDs(c.Front.strokes))
	n.Back.load(renewIDs(c.Back.strokes))
	return n
}

func renewIDs(strokes []Stroke) []Stroke {
	out := cloneStrokes(strokes)
	for i := range out {
		out[i].ID = newID()
	}
	return out
}

func mirrorAll(strokes []Stroke) []Stroke {
	out := make([]Stroke, len(strokes))
	for i, s := range strokes {
		out[i] = s.Mirrored()
		out[i].ID = newID()
	}
	return out
}

// IsFrontFacing maps a flip rotation in degrees to the visible face. The
// rotation is normalised into [0, 360); the front shows in [0, 90] and
// [270, 360).
func IsFrontFacing(rotation float32) bool {
	r := math.Mod(float64(rotation), 360)
	if r < 0 {
		r += 360
	}
	return r <= 90 || r >= 270
}
