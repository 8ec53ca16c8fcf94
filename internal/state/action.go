package state

// ActionKind names a reversible edit.
type ActionKind string

const (
	ActionAdd    ActionKind = "add"
	ActionRemove ActionKind = "remove"
	ActionSplit  ActionKind = "split"
)

// Action is one entry of a card's undo log. Stroke is the added, removed or
// split stroke; Replacements holds the fragments of a split and may be empty
// when the split erased the whole stroke.
type Action struct {
	Kind         ActionKind
	Front        bool
	Stroke       Stroke
	Replacements []Stroke
}

func cloneStrokes(strokes []Stroke) []Stroke {
	if strokes == nil {
		return nil
	}
	out := make([]Stroke, len(strokes))
	for i, s := range strokes {
		out[i] = s.Clone()
	}
	return out
}
