package geometry

import "math"

// Point is a 2D coordinate in logical pixels.
type Point struct {
	X float64
	Y float64
}

// Size is a width/height pair in logical pixels.
type Size struct {
	Width  float64
	Height float64
}

// Aspect returns width divided by height, or 0 for a degenerate size.
func (s Size) Aspect() float64 {
	if s.Height <= 0 {
		return 0
	}
	return s.Width / s.Height
}

// IsEmpty reports whether either dimension is non-positive.
func (s Size) IsEmpty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Rounded returns the size with both dimensions rounded to whole pixels.
func (s Size) Rounded() Size {
	return Size{Width: math.Round(s.Width), Height: math.Round(s.Height)}
}

// Rect represents a window or region geometry in logical pixels.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Size returns the rect's size.
func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// Origin returns the rect's top-left corner.
func (r Rect) Origin() Point {
	return Point{X: r.X, Y: r.Y}
}

// IsEmpty reports whether the rect has no area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// MaxX returns the rightmost edge.
func (r Rect) MaxX() float64 { return r.X + r.Width }

// MaxY returns the bottommost edge.
func (r Rect) MaxY() float64 { return r.Y + r.Height }

// Center returns the rect's center point.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains reports whether other lies entirely within r.
func (r Rect) Contains(other Rect) bool {
	return other.X >= r.X && other.Y >= r.Y &&
		other.MaxX() <= r.MaxX()+containsSlack && other.MaxY() <= r.MaxY()+containsSlack
}

// Slack absorbs sub-pixel drift from rounded solver output.
const containsSlack = 1e-6

// ContainsPoint reports whether p lies within r.
func (r Rect) ContainsPoint(p Point) bool {
	return p.X >= r.X && p.X < r.MaxX() && p.Y >= r.Y && p.Y < r.MaxY()
}

// WithSize returns a copy of r resized to size, keeping the origin.
func (r Rect) WithSize(size Size) Rect {
	r.Width = size.Width
	r.Height = size.Height
	return r
}

// Rounded returns the rect with all components rounded to whole pixels.
func (r Rect) Rounded() Rect {
	return Rect{
		X:      math.Round(r.X),
		Y:      math.Round(r.Y),
		Width:  math.Round(r.Width),
		Height: math.Round(r.Height),
	}
}

// CenteredIn returns r repositioned so its center matches bounds' center.
func (r Rect) CenteredIn(bounds Rect) Rect {
	r.X = bounds.X + (bounds.Width-r.Width)/2
	r.Y = bounds.Y + (bounds.Height-r.Height)/2
	return r
}

// ConstrainedWithin nudges r so it lies inside bounds without resizing.
// A rect larger than bounds is pinned to the bounds origin.
func (r Rect) ConstrainedWithin(bounds Rect) Rect {
	if r.MaxX() > bounds.MaxX() {
		r.X = bounds.MaxX() - r.Width
	}
	if r.X < bounds.X {
		r.X = bounds.X
	}
	if r.MaxY() > bounds.MaxY() {
		r.Y = bounds.MaxY() - r.Height
	}
	if r.Y < bounds.Y {
		r.Y = bounds.Y
	}
	return r
}

// Intersection returns the overlapping region of two rects, or a zero
// rect when they do not overlap.
func (r Rect) Intersection(other Rect) Rect {
	x1 := math.Max(r.X, other.X)
	y1 := math.Max(r.Y, other.Y)
	x2 := math.Min(r.MaxX(), other.MaxX())
	y2 := math.Min(r.MaxY(), other.MaxY())
	if x2 <= x1 || y2 <= y1 {
		return Rect{}
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Insets describes space reserved on each edge of a rect.
type Insets struct {
	Top      float64
	Bottom   float64
	Leading  float64
	Trailing float64
}

// Horizontal returns the combined leading and trailing insets.
func (i Insets) Horizontal() float64 { return i.Leading + i.Trailing }

// Vertical returns the combined top and bottom insets.
func (i Insets) Vertical() float64 { return i.Top + i.Bottom }

// IsZero reports whether no edge reserves space.
func (i Insets) IsZero() bool {
	return i.Top == 0 && i.Bottom == 0 && i.Leading == 0 && i.Trailing == 0
}

// ShrinkRect returns rect reduced by the insets, clamping to zero size.
func (i Insets) ShrinkRect(rect Rect) Rect {
	rect.X += i.Leading
	rect.Y += i.Top
	rect.Width -= i.Horizontal()
	rect.Height -= i.Vertical()
	if rect.Width < 0 {
		rect.Width = 0
	}
	if rect.Height < 0 {
		rect.Height = 0
	}
	return rect
}

// GrowRect returns rect expanded by the insets.
func (i Insets) GrowRect(rect Rect) Rect {
	rect.X -= i.Leading
	rect.Y -= i.Top
	rect.Width += i.Horizontal()
	rect.Height += i.Vertical()
	return rect
}

// ShrinkSize returns size reduced by the insets, clamping to zero.
func (i Insets) ShrinkSize(size Size) Size {
	size.Width -= i.Horizontal()
	size.Height -= i.Vertical()
	if size.Width < 0 {
		size.Width = 0
	}
	if size.Height < 0 {
		size.Height = 0
	}
	return size
}

// GrowSize returns size expanded by the insets.
func (i Insets) GrowSize(size Size) Size {
	size.Width += i.Horizontal()
	size.Height += i.Vertical()
	return size
}

// Clamp limits v to [lo, hi]. When hi < lo the lower bound wins.
func Clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ApproximatelyEqual reports whether two rects are almost equal.
func ApproximatelyEqual(a, b Rect, tolerance float64) bool {
	return math.Abs(a.X-b.X) <= tolerance && math.Abs(a.Y-b.Y) <= tolerance &&
		math.Abs(a.Width-b.Width) <= tolerance && math.Abs(a.Height-b.Height) <= tolerance
}

// SizesApproximatelyEqual reports whether two sizes are almost equal.
func SizesApproximatelyEqual(a, b Size, tolerance float64) bool {
	return math.Abs(a.Width-b.Width) <= tolerance && math.Abs(a.Height-b.Height) <= tolerance
}
