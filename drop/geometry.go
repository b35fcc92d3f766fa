package drop

// Point is a pointer position in host coordinates.
type Point struct {
	X, Y float64
}

// Rect is the on-screen box of a candidate drop element.
type Rect struct {
	X, Y, W, H float64
}

// Midpoint returns the horizontal centre line of r.
func (r Rect) Midpoint() float64 {
	return r.X + r.W/2
}

// Contains reports whether p lies inside r. The right and bottom edges are
// exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Placement says on which side of a candidate a dragged item would land.
type Placement int

const (
	Before Placement = iota
	After
)

func (p Placement) String() string {
	if p == Before {
		return "before"
	}
	return "after"
}

// Place computes the placement of point over rect: left of the midpoint is
// Before, the midpoint itself and right of it is After. Vertical strips use
// the same horizontal rule.
func Place(rect Rect, point Point) Placement {
	if point.X < rect.Midpoint() {
		return Before
	}
	return After
}

// InsertIndex turns a candidate index and placement into the index the
// payload is inserted at.
func InsertIndex(targetIndex int, p Placement) int {
	if p == Before {
		return targetIndex
	}
	return targetIndex + 1
}
