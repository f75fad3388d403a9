package model

import "math"

// ShapeKind identifies which variant of the Shape sum type a value holds.
type ShapeKind int

const (
	KindRectangle ShapeKind = iota
	KindCircle
)

func (k ShapeKind) String() string {
	switch k {
	case KindRectangle:
		return "rectangle"
	case KindCircle:
		return "circle"
	default:
		return "unknown"
	}
}

// Shape is a tagged union over axis-aligned rectangles and circles. X and Y
// always locate the shape's bounding-box origin (for a circle this is the
// top-left corner of its bounding square, not its centre). Width/Height
// apply to rectangles, Radius to circles; Rotation is one of 0/90/180/270
// and is ignored for circles.
//
// Shape values are immutable from the caller's point of view: every
// transformation (Translate, Rotate, Inflate) returns a new value.
type Shape struct {
	Kind     ShapeKind
	X, Y     float64
	Width    float64
	Height   float64
	Radius   float64
	Rotation int
}

// NewRectangle builds an unplaced axis-aligned rectangle at the origin.
func NewRectangle(width, height float64) (Shape, error) {
	if width <= 0 || height <= 0 {
		return Shape{}, InvalidDimensionsError("rectangle width and height must be positive")
	}
	return Shape{Kind: KindRectangle, Width: width, Height: height}, nil
}

// NewCircle builds an unplaced circle at the origin.
func NewCircle(radius float64) (Shape, error) {
	if radius <= 0 {
		return Shape{}, InvalidDimensionsError("circle radius must be positive")
	}
	return Shape{Kind: KindCircle, Radius: radius}, nil
}

// normalizeRotation reduces degrees modulo 360 and rejects anything that
// isn't one of the four orthogonal rotations the domain permits.
func normalizeRotation(degrees int) (int, error) {
	r := degrees % 360
	if r < 0 {
		r += 360
	}
	switch r {
	case 0, 90, 180, 270:
		return r, nil
	default:
		return 0, InvalidShapeError("rotation must be a multiple of 90 degrees")
	}
}

// WithRotation returns a copy of s rotated to the given absolute angle.
// Circles silently ignore rotation, per the domain model.
func (s Shape) WithRotation(degrees int) (Shape, error) {
	r, err := normalizeRotation(degrees)
	if err != nil {
		return Shape{}, err
	}
	if s.Kind == KindCircle {
		return s, nil
	}
	out := s
	out.Rotation = r
	return out, nil
}

// Rotate adds degrees to the shape's current rotation and returns the
// result. It is the geometry kernel's `rotate` capability.
func (s Shape) Rotate(degrees int) (Shape, error) {
	if s.Kind == KindCircle {
		return s, nil
	}
	return s.WithRotation(s.Rotation + degrees)
}

// Translate returns a copy of s moved by (dx, dy).
func (s Shape) Translate(dx, dy float64) Shape {
	out := s
	out.X += dx
	out.Y += dy
	return out
}

// At returns a copy of s placed with its bounding-box origin at (x, y).
func (s Shape) At(x, y float64) Shape {
	out := s
	out.X, out.Y = x, y
	return out
}

// effectiveDims returns the rectangle's width/height after accounting for
// a 90/270 rotation swap. Only called for rectangles.
func (s Shape) effectiveDims() (w, h float64) {
	if s.Rotation == 90 || s.Rotation == 270 {
		return s.Height, s.Width
	}
	return s.Width, s.Height
}

// Area returns the shape's area.
func (s Shape) Area() float64 {
	switch s.Kind {
	case KindRectangle:
		return s.Width * s.Height
	case KindCircle:
		return math.Pi * s.Radius * s.Radius
	default:
		return 0
	}
}

// BoundingBox returns (xmin, ymin, xmax, ymax) for the shape as currently
// rotated and translated.
func (s Shape) BoundingBox() (xmin, ymin, xmax, ymax float64) {
	switch s.Kind {
	case KindRectangle:
		w, h := s.effectiveDims()
		return s.X, s.Y, s.X + w, s.Y + h
	case KindCircle:
		d := 2 * s.Radius
		return s.X, s.Y, s.X + d, s.Y + d
	default:
		return 0, 0, 0, 0
	}
}

// Center returns the shape's centre point, derived from its bounding box.
func (s Shape) Center() (cx, cy float64) {
	xmin, ymin, xmax, ymax := s.BoundingBox()
	return (xmin + xmax) / 2, (ymin + ymax) / 2
}

// FitsInRectangle reports whether s, as currently placed and rotated, lies
// entirely within a W×H rectangle anchored at the origin — the containment
// rule a stock sheet enforces on anything placed on it.
func (s Shape) FitsInRectangle(w, h float64) bool {
	xmin, ymin, xmax, ymax := s.BoundingBox()
	return xmin >= 0 && ymin >= 0 && xmax <= w && ymax <= h
}

// ContainsPoint reports whether (x, y) lies within the shape, inclusive of
// its boundary.
func (s Shape) ContainsPoint(x, y float64) bool {
	switch s.Kind {
	case KindRectangle:
		xmin, ymin, xmax, ymax := s.BoundingBox()
		return x >= xmin && x <= xmax && y >= ymin && y <= ymax
	case KindCircle:
		cx, cy := s.Center()
		dx, dy := x-cx, y-cy
		return dx*dx+dy*dy <= s.Radius*s.Radius
	default:
		return false
	}
}

// Inflate grows the shape by d on every side, preserving its centre. It
// models kerf clearance: placed shapes are inflated by kerf/2 before being
// tested for overlap against a new candidate.
func (s Shape) Inflate(d float64) Shape {
	out := s
	switch s.Kind {
	case KindRectangle:
		w, h := s.effectiveDims()
		out.X -= d
		out.Y -= d
		out.Width = w + 2*d
		out.Height = h + 2*d
		out.Rotation = 0
	case KindCircle:
		out.X -= d
		out.Y -= d
		out.Radius = s.Radius + d
	}
	return out
}

// Overlaps reports whether a and b, as currently placed, overlap under the
// strict (non-touching) semantics required by the domain: shapes that only
// share a boundary do not overlap.
func Overlaps(a, b Shape) bool {
	switch {
	case a.Kind == KindRectangle && b.Kind == KindRectangle:
		return overlapsRectRect(a, b)
	case a.Kind == KindCircle && b.Kind == KindCircle:
		return overlapsCircleCircle(a, b)
	case a.Kind == KindRectangle && b.Kind == KindCircle:
		return overlapsCircleRect(b, a)
	case a.Kind == KindCircle && b.Kind == KindRectangle:
		return overlapsCircleRect(a, b)
	default:
		return false
	}
}

// overlapsRectRect implements the Separating Axis Theorem for two
// rectangles whose edge normals are restricted to the axes (rotation is
// always a multiple of 90 degrees in this domain, so both rectangles stay
// axis-aligned after rotation). With both projection axes equal to X and Y,
// SAT reduces exactly to the standard axis-aligned interval overlap test.
func overlapsRectRect(a, b Shape) bool {
	axmin, aymin, axmax, aymax := a.BoundingBox()
	bxmin, bymin, bxmax, bymax := b.BoundingBox()
	return axmax > bxmin && bxmax > axmin && aymax > bymin && bymax > aymin
}

func overlapsCircleCircle(a, b Shape) bool {
	acx, acy := a.Center()
	bcx, bcy := b.Center()
	dx, dy := acx-bcx, acy-bcy
	dist := math.Sqrt(dx*dx + dy*dy)
	return dist < a.Radius+b.Radius
}

// overlapsCircleRect implements circle-vs-rectangle overlap: if the
// rectangle contains the circle's centre, they overlap outright; otherwise
// the circle overlaps the rectangle iff the shortest distance from the
// centre to the rectangle's boundary is less than the radius.
func overlapsCircleRect(circle, rect Shape) bool {
	cx, cy := circle.Center()
	xmin, ymin, xmax, ymax := rect.BoundingBox()
	if cx > xmin && cx < xmax && cy > ymin && cy < ymax {
		return true
	}
	corners := [][2]float64{{xmin, ymin}, {xmax, ymin}, {xmax, ymax}, {xmin, ymax}}
	minDist := math.MaxFloat64
	for i := 0; i < 4; i++ {
		p1, p2 := corners[i], corners[(i+1)%4]
		d := pointToSegmentDistance(cx, cy, p1[0], p1[1], p2[0], p2[1])
		if d < minDist {
			minDist = d
		}
	}
	return minDist < circle.Radius
}

// pointToSegmentDistance returns the shortest distance from (px, py) to the
// segment (x1, y1)-(x2, y2), clamping the projection to the segment.
func pointToSegmentDistance(px, py, x1, y1, x2, y2 float64) float64 {
	dx, dy := x2-x1, y2-y1
	lengthSq := dx*dx + dy*dy
	if lengthSq == 0 {
		ddx, ddy := px-x1, py-y1
		return math.Sqrt(ddx*ddx + ddy*ddy)
	}
	t := ((px-x1)*dx + (py-y1)*dy) / lengthSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	projX, projY := x1+t*dx, y1+t*dy
	ddx, ddy := px-projX, py-projY
	return math.Sqrt(ddx*ddx + ddy*ddy)
}
