package state

// History is a card's undo/redo log. Recording a new action discards the redo
// stack, so history never branches.
type History struct {
	undo []Action
	redo []Action
}

// Record pushes a committed action and clears the redo stack.
func (h *History) Record(a Action) {
	h.undo = append(h.undo, a)
	h.redo = nil
}

// Undo pops the latest action and moves it to the redo stack. The caller
// applies it in reverse. ok is false when there is nothing to undo.
func (h *History) Undo() (a Action, ok bool) {
	if len(h.undo) == 0 {
		return Action{}, false
	}
	a = h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, a)
	return a, true
}

// Redo pops the latest undone action and moves it back to the undo stack.
// The caller applies it forward. ok is false when there is nothing to redo.
func (h *History) Redo() (a Action, ok bool) {
	if len(h.redo) == 0 {
		return Action{}, false
	}
	a = h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, a)
	return a, true
}

func (h *History) CanUndo() bool { return len(h.undo) > 0 }
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// depth returns the sizes of the undo and redo stacks.
func (h *History) depth() (undo, redo int) {
	return len(h.undo), len(h.redo)
}
