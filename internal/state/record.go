package state

import (
	"encoding/json"
	"fmt"
)

// CardRecord is the persisted form of a card. History is not part of it.
type CardRecord struct {
	ID         string   `json:"id"`
	FrontPaths []Stroke `json:"front_paths"`
	BackPaths  []Stroke `json:"back_paths"`
	OffsetX    float32  `json:"offset_x"`
	OffsetY    float32  `json:"offset_y"`
	Rotation   float32  `json:"rotation"`
	Scale      float32  `json:"scale"`
}

// Record converts the card to its persisted form.
func (c *Card) Record() CardRecord {
	return CardRecord{
		ID:         c.ID,
		FrontPaths: nonNil(c.Front.Strokes()),
		BackPaths:  nonNil(c.Back.Strokes()),
		OffsetX:    c.Transform.OffsetX,
		OffsetY:    c.Transform.OffsetY,
		Rotation:   c.Transform.Rotation,
		Scale:      c.Transform.Scale,
	}
}

// CardFromRecord rebuilds a card with an empty history. Strokes with fewer
// than two points are dropped and strokes without an id get one.
func CardFromRecord(r CardRecord) *Card {
	id := r.ID
	if id == "" {
		id = newID()
	}
	c := newCardWithID(id)
	c.Front.load(sanitize(r.FrontPaths))
	c.Back.load(sanitize(r.BackPaths))
	c.Transform = Transform{
		OffsetX:  r.OffsetX,
		OffsetY:  r.OffsetY,
		Rotation: r.Rotation,
		Scale:    r.Scale,
	}
	if c.Transform.Scale == 0 {
		c.Transform.Scale = 1
	}
	return c
}

// EncodeCards serialises a deck.
func EncodeCards(cards []*Card) ([]byte, error) {
	records := make([]CardRecord, len(cards))
	for i, c := range cards {
		records[i] = c.Record()
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode cards: %w", err)
	}
	return data, nil
}

// DecodeCards restores a deck. Missing or corrupt data yields a single empty
// card; the failure is logged, never returned.
func DecodeCards(data []byte) []*Card {
	if len(data) == 0 {
		return []*Card{NewCard()}
	}

	var records []CardRecord
	if err := json.Unmarshal(data, &records); err != nil {
		Logger().Warn("corrupt card record, starting empty", "err", err)
		return []*Card{NewCard()}
	}
	if len(records) == 0 {
		return []*Card{NewCard()}
	}

	cards := make([]*Card, len(records))
	for i, r := range records {
		cards[i] = CardFromRecord(r)
	}
	return cards
}

func sanitize(strokes []Stroke) []Stroke {
	out := make([]Stroke, 0, len(strokes))
	seen := make(map[string]bool, len(strokes))
	for _, s := range strokes {
		if s.Degenerate() {
			continue
		}
		if s.ID == "" || seen[s.ID] {
			s.ID = newID()
		}
		seen[s.ID] = true
		out = append(out, s)
	}
	return out
}

func nonNil(strokes []Stroke) []Stroke {
	if strokes == nil {
		return []Stroke{}
	}
	return strokes
}
