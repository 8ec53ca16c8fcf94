package state

import (
	"math"

	"fyne.io/fyne/v2"
)

// Stroke is one continuous freehand line. Points are in the coordinate space
// of Size, the drawing surface the stroke was captured on, so a stroke stays
// valid when the surface is rescaled.
type Stroke struct {
	ID     string          `json:"id"`
	Size   fyne.Size       `json:"size"`
	Points []fyne.Position `json:"points"`
	Color  string          `json:"color"`
	Width  float32         `json:"width"`
}

// NewStroke starts a stroke at the first captured point.
func NewStroke(size fyne.Size, first fyne.Position, color string, width float32) Stroke {
	return Stroke{
		ID:     newID(),
		Size:   size,
		Points: []fyne.Position{first},
		Color:  color,
		Width:  width,
	}
}

// Degenerate reports whether the stroke has fewer than two points and
// therefore no segment to render.
func (s Stroke) Degenerate() bool {
	return len(s.Points) < 2
}

// Clone returns a deep copy sharing no point storage with s.
func (s Stroke) Clone() Stroke {
	c := s
	c.Points = append([]fyne.Position(nil), s.Points...)
	return c
}

// withPoints derives a stroke with the same style and a new identity.
func (s Stroke) withPoints(points []fyne.Position) Stroke {
	return Stroke{
		ID:     newID(),
		Size:   s.Size,
		Points: points,
		Color:  s.Color,
		Width:  s.Width,
	}
}

// IsNear reports whether any segment of the stroke passes strictly closer
// than threshold to point. Single-point strokes are never near anything.
func (s Stroke) IsNear(point fyne.Position, threshold float32) bool {
	return pathNear(s.Points, point, threshold)
}

// SplitAt cuts the stroke after the point that starts the segment nearest to
// point. Ties go to the lowest segment index. The first half keeps
// Points[0..i], the second half gets Points[i+1..]. Both halves are new
// strokes; either may be degenerate and is the caller's to discard.
func (s Stroke) SplitAt(point fyne.Position) (Stroke, Stroke, bool) {
	if len(s.Points) < 2 {
		return Stroke{}, Stroke{}, false
	}
	first, second := s.splitAfter(nearestSegment(s.Points, point))
	return first, second, true
}

// splitAfter cuts the stroke between Points[i] and Points[i+1].
func (s Stroke) splitAfter(i int) (Stroke, Stroke) {
	first := append([]fyne.Position(nil), s.Points[:i+1]...)
	second := append([]fyne.Position(nil), s.Points[i+1:]...)
	return s.withPoints(first), s.withPoints(second)
}

// OnSurface returns the stroke's points as drawn on a surface of the given
// size. A zero size or a stroke without a reference size leaves the points
// as stored.
func (s Stroke) OnSurface(surface fyne.Size) []fyne.Position {
	if surface.Width <= 0 || surface.Height <= 0 || s.Size == surface {
		return s.Points
	}
	return s.ScaledTo(surface)
}

func pathNear(points []fyne.Position, point fyne.Position, threshold float32) bool {
	for i := 0; i+1 < len(points); i++ {
		if segmentDistance(points[i], points[i+1], point) < threshold {
			return true
		}
	}
	return false
}

// nearestSegment returns the index of the segment closest to point, the
// lowest index on ties. points must hold at least two entries.
func nearestSegment(points []fyne.Position, point fyne.Position) int {
	index := 0
	closest := float32(math.Inf(1))
	for i := 0; i+1 < len(points); i++ {
		if d := segmentDistance(points[i], points[i+1], point); d < closest {
			closest = d
			index = i
		}
	}
	return index
}

// Bounds returns the stroke's bounding box grown by padding.
func (s Stroke) Bounds(padding float32) Bounds {
	return BoundsOf(s.Points, padding)
}

// Mirrored flips the stroke horizontally within its reference size. The
// identity is kept; callers that store the result alongside s must renew it.
func (s Stroke) Mirrored() Stroke {
	m := s.Clone()
	for i, p := range m.Points {
		m.Points[i] = fyne.NewPos(s.Size.Width-p.X, p.Y)
	}
	return m
}

// ScaledTo maps the stroke's points from its reference size onto size.
// A stroke without a usable reference size is returned unscaled.
func (s Stroke) ScaledTo(size fyne.Size) []fyne.Position {
	out := make([]fyne.Position, len(s.Points))
	if s.Size.Width <= 0 || s.Size.Height <= 0 {
		copy(out, s.Points)
		return out
	}
	sx := size.Width / s.Size.Width
	sy := size.Height / s.Size.Height
	for i, p := range s.Points {
		out[i] = fyne.NewPos(p.X*sx, p.Y*sy)
	}
	return out
}
