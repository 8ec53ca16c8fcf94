package session

import (
	"context"
	"time"

	"FlipCards/internal/state"
)

// DefaultFrameInterval is one card animation plus the pause before the next.
const DefaultFrameInterval = 900 * time.Millisecond

// Frame is the playback layout of the deck at one step.
type Frame struct {
	Current    int
	Transforms []state.Transform
	Order      []int
}

// Player cycles through a project's cards as a stack animation. It keeps its
// own position and never changes the editor's current card.
type Player struct {
	editor   *Editor
	interval time.Duration
	index    int

	// OnFrame receives every frame, starting with the initial layout.
	OnFrame func(Frame)
}

// NewPlayer returns a player over the editor's project. A non-positive
// interval uses DefaultFrameInterval.
func NewPlayer(e *Editor, interval time.Duration) *Player {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &Player{editor: e, interval: interval}
}

// Run emits frames until ctx is done and returns ctx.Err().
func (p *Player) Run(ctx context.Context) error {
	p.emit()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.Step()
		}
	}
}

// Step advances playback by one card and emits the new frame.
func (p *Player) Step() Frame {
	count, _ := p.editor.CardCount()
	p.index = (p.index + 1) % count
	return p.emit()
}

func (p *Player) emit() Frame {
	count, _ := p.editor.CardCount()
	if p.index >= count {
		p.index = 0
	}

	f := Frame{
		Current:    p.index,
		Transforms: make([]state.Transform, count),
		Order:      make([]int, count),
	}
	for i := range count {
		f.Transforms[i] = state.StackTransform(i, p.index, count)
		f.Order[i] = state.StackOrder(i, p.index, count)
	}
	if p.OnFrame != nil {
		p.OnFrame(f)
	}
	return f
}
