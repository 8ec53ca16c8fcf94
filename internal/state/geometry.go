package state

import (
	"math"

	"fyne.io/fyne/v2"
)

// ClosestPointOnSegment projects point onto the line through start and end
// and clamps the projection to the segment. A zero-length segment yields start.
func ClosestPointOnSegment(start, end, point fyne.Position) fyne.Position {
	dx := float64(end.X - start.X)
	dy := float64(end.Y - start.Y)
	if dx == 0 && dy == 0 {
		return start
	}

	t := (float64(point.X-start.X)*dx + float64(point.Y-start.Y)*dy) / (dx*dx + dy*dy)
	if t <= 0 {
		return start
	}
	if t >= 1 {
		return end
	}
	return fyne.NewPos(
		float32(float64(start.X)+t*dx),
		float32(float64(start.Y)+t*dy),
	)
}

// Distance is the Euclidean distance between a and b.
func Distance(a, b fyne.Position) float32 {
	return float32(math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y)))
}

// segmentDistance is the distance from point to the segment start-end.
func segmentDistance(start, end, point fyne.Position) float32 {
	return Distance(ClosestPointOnSegment(start, end, point), point)
}

// Bounds is an axis-aligned rectangle on the drawing surface.
type Bounds struct {
	X      float32 `json:"x"`
	Y      float32 `json:"y"`
	Width  float32 `json:"width"`
	Height float32 `json:"height"`
}

// BoundsOf returns the bounding box of points grown by padding on every side.
// An empty slice yields the zero Bounds.
func BoundsOf(points []fyne.Position, padding float32) Bounds {
	if len(points) == 0 {
		return Bounds{}
	}

	minX, minY := points[0].X, points[0].Y
	maxX, maxY := points[0].X, points[0].Y
	for _, p := range points[1:] {
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}

	return Bounds{
		X:      minX - padding,
		Y:      minY - padding,
		Width:  maxX - minX + 2*padding,
		Height: maxY - minY + 2*padding,
	}
}

// Contains reports whether p lies inside b, edges included.
func (b Bounds) Contains(p fyne.Position) bool {
	return p.X >= b.X && p.X <= b.X+b.Width &&
		p.Y >= b.Y && p.Y <= b.Y+b.Height
}
