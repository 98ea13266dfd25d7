package world

// Rect is an axis-aligned rectangle given by its inclusive bounds.
// Rooms are Rects: the bounds are walls, the interior is carved to floor.
type Rect struct {
	X1, Y1 int // Top-left corner
	X2, Y2 int // Bottom-right corner
}

// NewRect creates a rectangle with its top-left corner at (x, y).
func NewRect(x, y, width, height int) Rect {
	return Rect{X1: x, Y1: y, X2: x + width, Y2: y + height}
}

// Width returns the horizontal extent of the bounds.
func (r Rect) Width() int { return r.X2 - r.X1 }

// Height returns the vertical extent of the bounds.
func (r Rect) Height() int { return r.Y2 - r.Y1 }

// Center returns the midpoint of the bounds.
func (r Rect) Center() (int, int) {
	return (r.X1 + r.X2) / 2, (r.Y1 + r.Y2) / 2
}

// Contains returns true if the point lies strictly inside the bounds,
// i.e. on a tile the room carves to floor.
func (r Rect) Contains(x, y int) bool {
	return x > r.X1 && x < r.X2 && y > r.Y1 && y < r.Y2
}

// Intersect returns true if the two rectangles overlap or share a bound.
// Rooms that pass this test always keep a wall between their interiors.
func (r Rect) Intersect(other Rect) bool {
	return r.X1 <= other.X2 && r.X2 >= other.X1 &&
		r.Y1 <= other.Y2 && r.Y2 >= other.Y1
}
