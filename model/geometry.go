package model

import "math"

// Range is a closed horizontal interval [Min, Max].
type Range struct {
	Min float64
	Max float64
}

// NewRange creates a range, swapping the bounds if they are inverted.
func NewRange(min, max float64) Range {
	return Range{Min: min, Max: max}.Normalized()
}

// Normalized returns the range with Min <= Max.
func (r Range) Normalized() Range {
	if r.Min > r.Max {
		return Range{Min: r.Max, Max: r.Min}
	}
	return r
}

// Contains reports whether x lies inside the range, bounds included.
func (r Range) Contains(x float64) bool {
	n := r.Normalized()
	return x >= n.Min && x <= n.Max
}

// Mid returns the midpoint of the range.
func (r Range) Mid() float64 {
	return (r.Min + r.Max) / 2
}

// Width returns the width of the range.
func (r Range) Width() float64 {
	n := r.Normalized()
	return n.Max - n.Min
}

// Expand widens the range by tol on both sides.
func (r Range) Expand(tol float64) Range {
	n := r.Normalized()
	return Range{Min: n.Min - tol, Max: n.Max + tol}
}

// Scale multiplies both bounds by f.
func (r Range) Scale(f float64) Range {
	return Range{Min: r.Min * f, Max: r.Max * f}.Normalized()
}

// DistanceToMid returns the absolute distance from x to the range midpoint.
func (r Range) DistanceToMid(x float64) float64 {
	return math.Abs(x - r.Mid())
}

// BBox is a bounding box in top-down page coordinates.
type BBox struct {
	X0     float64 // Left
	Top    float64 // Top edge (smaller Y is higher on the page)
	X1     float64 // Right
	Bottom float64 // Bottom edge
}

// Normalized returns the box with X0 <= X1 and Top <= Bottom.
func (b BBox) Normalized() BBox {
	if b.X0 > b.X1 {
		b.X0, b.X1 = b.X1, b.X0
	}
	if b.Top > b.Bottom {
		b.Top, b.Bottom = b.Bottom, b.Top
	}
	return b
}

// Width returns the horizontal extent of the box.
func (b BBox) Width() float64 {
	return math.Abs(b.X1 - b.X0)
}

// Height returns the vertical extent of the box.
func (b BBox) Height() float64 {
	return math.Abs(b.Bottom - b.Top)
}

// CenterX returns the horizontal center.
func (b BBox) CenterX() float64 {
	return (b.X0 + b.X1) / 2
}

// Scale multiplies every coordinate by f.
func (b BBox) Scale(f float64) BBox {
	return BBox{X0: b.X0 * f, Top: b.Top * f, X1: b.X1 * f, Bottom: b.Bottom * f}
}

// Union returns the smallest box containing both boxes.
func (b BBox) Union(other BBox) BBox {
	b = b.Normalized()
	other = other.Normalized()
	return BBox{
		X0:     math.Min(b.X0, other.X0),
		Top:    math.Min(b.Top, other.Top),
		X1:     math.Max(b.X1, other.X1),
		Bottom: math.Max(b.Bottom, other.Bottom),
	}
}

// IsEmpty returns true if the box has no area.
func (b BBox) IsEmpty() bool {
	return b.Width() == 0 || b.Height() == 0
}
