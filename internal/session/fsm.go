package session

// State is the gesture state of an editing session.
type State int

const (
	Idle State = iota
	Drawing
	Erasing
	Flipping
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Drawing:
		return "drawing"
	case Erasing:
		return "erasing"
	case Flipping:
		return "flipping"
	}
	return "unknown"
}

// Event is a pointer input fed to the state machine.
type Event int

const (
	PointerDown Event = iota
	PointerMove
	PointerUp
	Cancel
)

// Tool is the editing tool picked in the toolbar. With no tool selected a
// drag flips the card.
type Tool int

const (
	ToolNone Tool = iota
	ToolPen
	ToolEraser
)

func (t Tool) String() string {
	switch t {
	case ToolNone:
		return "none"
	case ToolPen:
		return "pen"
	case ToolEraser:
		return "eraser"
	}
	return "unknown"
}

// anyTool matches every tool in the transition table.
const anyTool Tool = -1

type transition struct {
	from  State
	event Event
	tool  Tool
}

var transitions = map[transition]State{
	{Idle, PointerDown, ToolPen}:    Drawing,
	{Idle, PointerDown, ToolEraser}: Erasing,
	{Idle, PointerDown, ToolNone}:   Flipping,

	{Drawing, PointerMove, anyTool}: Drawing,
	{Drawing, PointerUp, anyTool}:   Idle,
	{Drawing, Cancel, anyTool}:      Idle,

	{Erasing, PointerMove, anyTool}: Erasing,
	{Erasing, PointerUp, anyTool}:   Idle,
	{Erasing, Cancel, anyTool}:      Idle,

	{Flipping, PointerMove, anyTool}: Flipping,
	{Flipping, PointerUp, anyTool}:   Idle,
	{Flipping, Cancel, anyTool}:      Idle,
}

// Machine sequences pointer events into gesture states. Pairs missing from
// the transition table are ignored.
type Machine struct {
	state State
}

func (m *Machine) State() State { return m.state }

// Fire applies event with the active tool. ok is false when the event has no
// transition from the current state; the state is then unchanged.
func (m *Machine) Fire(event Event, tool Tool) (from, to State, ok bool) {
	from = m.state
	to, ok = transitions[transition{from, event, tool}]
	if !ok {
		to, ok = transitions[transition{from, event, anyTool}]
	}
	if !ok {
		return from, from, false
	}
	m.state = to
	return from, to, true
}
