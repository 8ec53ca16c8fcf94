package state

import "time"

const (
	// offscreenX parks a card that was swiped out of the editor.
	offscreenX = -1000
	// swipeRotation tilts a card as it leaves the editor.
	swipeRotation = -15

	stackOffset   = 35
	stackRotation = 2
	stackShrink   = 0.1
)

// Project is an ordered deck of cards with one current card. A project
// always holds at least one card.
type Project struct {
	ID        string
	PublicID  string
	Name      string
	CreatedAt time.Time

	cards   []*Card
	current int
}

// NewProject returns a project with a single empty card.
func NewProject(name string) *Project {
	return &Project{
		ID:        newID(),
		Name:      name,
		CreatedAt: time.Now(),
		cards:     []*Card{NewCard()},
	}
}

// Cards returns the deck in order. The slice is a copy; the cards are not.
func (p *Project) Cards() []*Card {
	return append([]*Card(nil), p.cards...)
}

func (p *Project) Len() int { return len(p.cards) }

func (p *Project) Current() *Card { return p.cards[p.current] }

func (p *Project) CurrentIndex() int { return p.current }

// SetCards replaces the deck and makes the last card current. An empty deck
// becomes a single empty card.
func (p *Project) SetCards(cards []*Card) {
	if len(cards) == 0 {
		cards = []*Card{NewCard()}
	}
	p.cards = append([]*Card(nil), cards...)
	p.current = len(p.cards) - 1
	p.cards[p.current].Transform = IdentityTransform
}

// Select makes the card at index current. The previous card is parked off
// screen. Out-of-range indices are ignored.
func (p *Project) Select(index int) bool {
	if index < 0 || index >= len(p.cards) {
		return false
	}
	p.cards[p.current].Transform.OffsetX = offscreenX
	p.current = index
	p.cards[p.current].Transform = IdentityTransform
	return true
}

// AddCard appends a card after the deck and makes it current. With duplicate set
// the new card duplicates the current one; otherwise its front continues the
// current card: the mirrored back when the back has strokes, else the front.
func (p *Project) AddCard(duplicate bool) *Card {
	old := p.Current()

	var card *Card
	if duplicate {
		card = old.Clone()
	} else {
		card = NewCard()
		if old.Back.Len() > 0 {
			card.Front.load(mirrorAll(old.Back.strokes))
		} else {
			card.Front.load(renewIDs(old.Front.strokes))
		}
	}
	card.Transform = IdentityTransform

	p.cards = append(p.cards, card)
	p.current = len(p.cards) - 1

	old.Transform.OffsetX = offscreenX
	old.Transform.OffsetY = 0
	old.Transform.Rotation = swipeRotation
	return card
}

// RemoveCard deletes the current card and selects the last one. Removing
// the only card leaves a single empty card.
func (p *Project) RemoveCard() {
	if len(p.cards) == 1 {
		p.cards = []*Card{NewCard()}
		p.current = 0
		return
	}
	p.cards = append(p.cards[:p.current], p.cards[p.current+1:]...)
	p.current = len(p.cards) - 1
	p.cards[p.current].Transform = IdentityTransform
}

// RemoveAllCards resets the deck to one empty card.
func (p *Project) RemoveAllCards() {
	p.cards = []*Card{NewCard()}
	p.current = 0
}

// relativeIndex is how far index sits behind current in a stack of count.
func relativeIndex(index, current, count int) int {
	rel := index - current
	if rel < 0 {
		rel += count
	}
	return rel
}

// StackTransform is the playback layout of the card at index when current
// is on top of a stack of count cards.
func StackTransform(index, current, count int) Transform {
	rel := float32(relativeIndex(index, current, count))
	return Transform{
		OffsetX:  rel * stackOffset,
		Rotation: -rel * stackRotation,
		Scale:    1 - stackShrink*rel,
	}
}

// StackOrder is the z-order of the card at index; higher draws on top.
func StackOrder(index, current, count int) int {
	if index == current {
		return count + 1
	}
	return count - relativeIndex(index, current, count)
}
