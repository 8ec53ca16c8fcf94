package state

import (
	"slices"

	"fyne.io/fyne/v2"
)

// Side is one face of a card: the insertion-ordered strokes drawn on it.
// Every exported mutation records exactly one Action in the owning card's
// History.
type Side struct {
	front   bool
	strokes []Stroke
	log     *History
}

func newSide(front bool, log *History) *Side {
	return &Side{front: front, log: log}
}

// IsFront reports which face this side is.
func (s *Side) IsFront() bool { return s.front }

// Len returns the number of strokes on the side.
func (s *Side) Len() int { return len(s.strokes) }

// Strokes returns a copy of the side's strokes in render order.
func (s *Side) Strokes() []Stroke {
	return cloneStrokes(s.strokes)
}

// Stroke looks up a stroke by id.
func (s *Side) Stroke(id string) (Stroke, bool) {
	i := s.index(id)
	if i < 0 {
		return Stroke{}, false
	}
	return s.strokes[i].Clone(), true
}

// AddStroke appends a finished stroke and records an add. Strokes with fewer
// than two points or with an id already on the side are ignored.
func (s *Side) AddStroke(st Stroke) bool {
	if st.Degenerate() {
		return false
	}
	if st.ID == "" {
		st.ID = newID()
	}
	if s.index(st.ID) >= 0 {
		return false
	}
	st = st.Clone()
	s.appendStroke(st)
	s.log.Record(Action{Kind: ActionAdd, Front: s.front, Stroke: st.Clone()})
	return true
}

// RemoveStroke deletes the stroke with the given id and records a remove.
// Unknown ids are a no-op and record nothing.
func (s *Side) RemoveStroke(id string) bool {
	removed, ok := s.deleteStroke(id)
	if !ok {
		return false
	}
	s.log.Record(Action{Kind: ActionRemove, Front: s.front, Stroke: removed})
	return true
}

// EraseAt splits every stroke passing within radius of point and records one
// split per affected stroke. Strokes are tested against the side as it was
// when the call started. Fragments with fewer than two points are dropped, so
// a split may remove a stroke entirely. It returns the number of strokes hit.
//
// point and radius are in the strokes' own coordinates; EraseOn takes them in
// surface coordinates instead.
func (s *Side) EraseAt(point fyne.Position, radius float32) int {
	return s.EraseOn(fyne.Size{}, point, radius)
}

// EraseOn is EraseAt for a contact point on a surface of the given size.
// Each stroke is hit-tested as it is drawn there, then split at the matching
// segment of its stored points.
func (s *Side) EraseOn(surface fyne.Size, point fyne.Position, radius float32) int {
	snapshot := slices.Clone(s.strokes)

	hits := 0
	for _, st := range snapshot {
		if st.Degenerate() {
			continue
		}
		drawn := st.OnSurface(surface)
		if !BoundsOf(drawn, radius).Contains(point) || !pathNear(drawn, point, radius) {
			continue
		}
		first, second := st.splitAfter(nearestSegment(drawn, point))

		var replacements []Stroke
		for _, half := range []Stroke{first, second} {
			if !half.Degenerate() {
				replacements = append(replacements, half)
			}
		}

		s.replaceStroke(st.ID, replacements)
		s.log.Record(Action{
			Kind:         ActionSplit,
			Front:        s.front,
			Stroke:       st.Clone(),
			Replacements: cloneStrokes(replacements),
		})
		hits++
		Logger().Debug("stroke split", "stroke", st.ID, "fragments", len(replacements))
	}
	return hits
}

func (s *Side) index(id string) int {
	return slices.IndexFunc(s.strokes, func(st Stroke) bool { return st.ID == id })
}

func (s *Side) appendStroke(st Stroke) {
	s.strokes = append(s.strokes, st)
}

func (s *Side) deleteStroke(id string) (Stroke, bool) {
	i := s.index(id)
	if i < 0 {
		return Stroke{}, false
	}
	st := s.strokes[i]
	s.strokes = slices.Delete(s.strokes, i, i+1)
	return st, true
}

// replaceStroke puts replacements where the stroke with id was. A missing id
// appends the replacements.
func (s *Side) replaceStroke(id string, replacements []Stroke) {
	repl := cloneStrokes(replacements)
	i := s.index(id)
	if i < 0 {
		s.strokes = append(s.strokes, repl...)
		return
	}
	s.strokes = slices.Replace(s.strokes, i, i+1, repl...)
}

// applyForward replays an action as originally committed.
func (s *Side) applyForward(a Action) {
	switch a.Kind {
	case ActionAdd:
		if s.index(a.Stroke.ID) < 0 {
			s.appendStroke(a.Stroke.Clone())
		}
	case ActionRemove:
		s.deleteStroke(a.Stroke.ID)
	case ActionSplit:
		s.replaceStroke(a.Stroke.ID, a.Replacements)
	}
}

// applyReverse undoes an action. Strokes brought back are appended at the
// end, not restored to their former position.
func (s *Side) applyReverse(a Action) {
	switch a.Kind {
	case ActionAdd:
		s.deleteStroke(a.Stroke.ID)
	case ActionRemove:
		if s.index(a.Stroke.ID) < 0 {
			s.appendStroke(a.Stroke.Clone())
		}
	case ActionSplit:
		for _, r := range a.Replacements {
			s.deleteStroke(r.ID)
		}
		if s.index(a.Stroke.ID) < 0 {
			s.appendStroke(a.Stroke.Clone())
		}
	}
}

// load replaces the side's content without touching history.
func (s *Side) load(strokes []Stroke) {
	s.strokes = cloneStrokes(strokes)
}
