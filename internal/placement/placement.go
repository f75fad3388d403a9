// Package placement provides the shared primitives every algorithm in
// package algorithm builds on: expanding order quantities into individual
// placements, tracking what is already occupied on a stock, generating
// candidate positions to try, and testing feasibility. Placement
// primitives are pure with respect to stocks and orders; they only mutate
// the per-stock Occupancy owned by the calling algorithm.
package placement

import (
	"sort"

	"github.com/wizenpainter-vitrari/surfcut/model"
)

// DefaultExpansionCap bounds how many individual placements one order's
// Quantity expands into. The reference implementation this package
// generalizes caps at 50 per order for metaheuristics; greedy algorithms
// honour the same cap for consistency across strategies.
const DefaultExpansionCap = 50

// Placement is one expanded unit of an order's quantity, not yet assigned
// a stock or position.
type Placement struct {
	OrderID  string
	Order    model.Order
	Index    int // 0-based unit index within the order's quantity
	Template model.Shape
}

// Expand turns each order's Quantity into individual Placement values,
// capped per order at cap (or DefaultExpansionCap if cap <= 0).
func Expand(orders []model.Order, cap int) []Placement {
	if cap <= 0 {
		cap = DefaultExpansionCap
	}
	var out []Placement
	for _, o := range orders {
		n := o.Quantity
		if n > cap {
			n = cap
		}
		for i := 0; i < n; i++ {
			out = append(out, Placement{OrderID: o.ID, Order: o, Index: i, Template: o.Shape})
		}
	}
	return out
}

// ByPriorityThenArea orders placements by descending priority weight, then
// descending shape area — the ordering §4.A1 requires when
// config.PrioritizeOrders is set.
func ByPriorityThenArea(placements []Placement) {
	sort.SliceStable(placements, func(i, j int) bool {
		a, b := placements[i], placements[j]
		if a.Order.Priority.Weight() != b.Order.Priority.Weight() {
			return a.Order.Priority.Weight() > b.Order.Priority.Weight()
		}
		return a.Template.Area() > b.Template.Area()
	})
}

// Rotations returns the shape variants to try for a placement: just the
// template if rotation is disallowed, circular, or the rectangle is
// square; {0°, 90°} otherwise (180/270 are symmetries of an axis-aligned
// rectangle and add nothing).
func Rotations(shape model.Shape, allowRotation bool) []model.Shape {
	if shape.Kind != model.KindRectangle || !allowRotation || shape.Width == shape.Height {
		return []model.Shape{shape}
	}
	rotated, err := shape.WithRotation(90)
	if err != nil {
		return []model.Shape{shape}
	}
	return []model.Shape{shape, rotated}
}

// Point is an (x, y) candidate placement position.
type Point struct{ X, Y float64 }

// Occupancy tracks what is already placed on one stock and offers
// candidate-position generation and feasibility testing against it.
// Occupancy is owned by whichever algorithm is building a solution; it is
// not shared across goroutines.
type Occupancy struct {
	Stock  model.Stock
	Kerf   float64
	placed []model.PlacedShape
}

// NewOccupancy returns an empty Occupancy for stock.
func NewOccupancy(stock model.Stock, kerf float64) *Occupancy {
	return &Occupancy{Stock: stock, Kerf: kerf}
}

// Place records shape as occupying its current position on the stock.
func (o *Occupancy) Place(p model.PlacedShape) {
	o.placed = append(o.placed, p)
}

// Placed returns every shape placed on this stock so far.
func (o *Occupancy) Placed() []model.PlacedShape { return o.placed }

// Len reports how many shapes are currently placed on this stock.
func (o *Occupancy) Len() int { return len(o.placed) }

// Feasible reports whether shape, already positioned and rotated, can be
// placed on this stock: it must be contained in the stock and must not
// overlap anything already placed, after kerf/2 inflation of both sides.
func (o *Occupancy) Feasible(shape model.Shape) bool {
	if !shape.FitsInRectangle(o.Stock.Width, o.Stock.Height) {
		return false
	}
	candidate := shape
	if o.Kerf > 0 {
		candidate = shape.Inflate(o.Kerf / 2)
	}
	for _, p := range o.placed {
		existing := p.Shape
		if o.Kerf > 0 {
			existing = existing.Inflate(o.Kerf / 2)
		}
		if model.Overlaps(candidate, existing) {
			return false
		}
	}
	return true
}

// BottomLeftCandidates returns (x, y) positions worth trying for shape, in
// the order bottom-left search should consider them: y ascending, then x
// ascending. Candidates are built from the sorted distinct left and right
// edges of already-placed shapes' bounding boxes (for x) and their bottom
// and top edges (for y), always including 0, filtered to positions where
// shape could still fit within the stock's bounds.
func (o *Occupancy) BottomLeftCandidates(shape model.Shape) []Point {
	xs := map[float64]bool{0: true}
	ys := map[float64]bool{0: true}
	for _, p := range o.placed {
		xmin, ymin, xmax, ymax := p.Shape.BoundingBox()
		xs[xmax] = true
		ys[ymax] = true
		xs[xmin] = true
		ys[ymin] = true
	}

	sortedXs := sortedKeys(xs)
	sortedYs := sortedKeys(ys)

	sxmin, symin, sxmax, symax := shape.BoundingBox()
	w := sxmax - sxmin
	h := symax - symin

	var out []Point
	for _, y := range sortedYs {
		if y+h > o.Stock.Height+1e-9 {
			continue
		}
		for _, x := range sortedXs {
			if x+w > o.Stock.Width+1e-9 {
				continue
			}
			out = append(out, Point{X: x, Y: y})
		}
	}
	return out
}

// GridCandidates returns a regular grid of candidate positions spaced by
// precision, used by the coarse first-fit search.
func (o *Occupancy) GridCandidates(shape model.Shape, precision float64) []Point {
	if precision <= 0 {
		precision = 1
	}
	sxmin, symin, sxmax, symax := shape.BoundingBox()
	w, h := sxmax-sxmin, symax-symin

	var out []Point
	for y := 0.0; y+h <= o.Stock.Height+1e-9; y += precision {
		for x := 0.0; x+w <= o.Stock.Width+1e-9; x += precision {
			out = append(out, Point{X: x, Y: y})
		}
	}
	return out
}

func sortedKeys(m map[float64]bool) []float64 {
	out := make([]float64, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Float64s(out)
	return out
}
