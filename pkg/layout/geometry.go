package layout

import "github.com/macropower/pagelegend/pkg/paging"

// Orientation is the direction legend items flow in.
type Orientation string

const (
	Horizontal Orientation = "horizontal"
	Vertical   Orientation = "vertical"
)

// Axis returns the primary axis of the orientation.
func (o Orientation) Axis() paging.Axis {
	if o == Vertical {
		return paging.Vertical
	}

	return paging.Horizontal
}

// Position is the edge of the primary axis the controls are placed at.
type Position string

const (
	Start Position = "start"
	End   Position = "end"
)

// Size is a width and height in terminal cells.
type Size struct {
	Width  int
	Height int
}

// Along returns the extent of s on the given axis.
func (s Size) Along(axis paging.Axis) int {
	if axis == paging.Vertical {
		return s.Height
	}

	return s.Width
}

func (s *Size) set(axis paging.Axis, v int) {
	if axis == paging.Vertical {
		s.Height = v
	} else {
		s.Width = v
	}
}

// Point is a cell coordinate.
type Point struct {
	X int
	Y int
}

// Along returns the coordinate of p on the given axis.
func (p Point) Along(axis paging.Axis) int {
	if axis == paging.Vertical {
		return p.Y
	}

	return p.X
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

func (p *Point) set(axis paging.Axis, v int) {
	if axis == paging.Vertical {
		p.Y = v
	} else {
		p.X = v
	}
}

// Rect is a positioned [Size].
type Rect struct {
	Point
	Size
}

// Max returns the far corner of r.
func (r Rect) Max() Point {
	return Point{X: r.X + r.Width, Y: r.Y + r.Height}
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Translate returns r moved by p.
func (r Rect) Translate(p Point) Rect {
	return Rect{Point: r.Point.Add(p), Size: r.Size}
}

func cross(axis paging.Axis) paging.Axis {
	return 1 - axis
}

// Flow places boxes one after another along the primary axis of o, separated
// by gap. All boxes share the cross axis origin. It returns the placed boxes
// and their bounding rect.
func Flow(o Orientation, gap int, sizes []Size) ([]Rect, Rect) {
	axis := o.Axis()
	rects := make([]Rect, 0, len(sizes))

	var bounds Rect

	pos := 0
	for i, s := range sizes {
		if i > 0 {
			pos += gap
		}

		r := Rect{Size: s}
		r.Point.set(axis, pos)
		rects = append(rects, r)

		pos += s.Along(axis)
		bounds.Size.set(cross(axis), max(bounds.Size.Along(cross(axis)), s.Along(cross(axis))))
	}

	bounds.Size.set(axis, pos)

	return rects, bounds
}

// center aligns rects to the middle of bounds along the cross axis of o.
func center(o Orientation, rects []Rect, bounds Rect) {
	axis := cross(o.Axis())
	for i := range rects {
		rects[i].Point.set(axis, (bounds.Size.Along(axis)-rects[i].Size.Along(axis))/2)
	}
}
