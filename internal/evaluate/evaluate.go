// Package evaluate computes feasibility, efficiency, cost, and fitness for
// a candidate set of placed shapes — the shared scoring logic every
// algorithm in package algorithm consults.
package evaluate

import "github.com/wizenpainter-vitrari/surfcut/model"

// UsedArea sums the area of every placed shape.
func UsedArea(placed []model.PlacedShape) float64 {
	total := 0.0
	for _, p := range placed {
		total += p.Shape.Area()
	}
	return total
}

// UsedStockArea sums the area of every stock that holds at least one
// placed shape. Efficiency is defined against this, not against the total
// area of every stock supplied to the optimizer (see Efficiency).
func UsedStockArea(placed []model.PlacedShape, stocks map[string]model.Stock) float64 {
	used := map[string]bool{}
	total := 0.0
	for _, p := range placed {
		if used[p.StockID] {
			continue
		}
		used[p.StockID] = true
		if s, ok := stocks[p.StockID]; ok {
			total += s.Area()
		}
	}
	return total
}

// UsedStockIDs returns the distinct set of stock identifiers holding at
// least one placed shape.
func UsedStockIDs(placed []model.PlacedShape) map[string]bool {
	used := map[string]bool{}
	for _, p := range placed {
		used[p.StockID] = true
	}
	return used
}

// Efficiency returns 100 * used area / used-stock area. Dividing by the
// area of stocks actually used (not every stock supplied) is a
// deliberate, spec-resolved choice: dividing by total supplied stock area
// would make efficiency look misleadingly low whenever only a small
// fraction of a large stock pool is consumed.
func Efficiency(placed []model.PlacedShape, stocks map[string]model.Stock) float64 {
	usedStock := UsedStockArea(placed, stocks)
	if usedStock <= 0 {
		return 0
	}
	return 100 * UsedArea(placed) / usedStock
}

// Cost sums the unit cost of every stock actually used.
func Cost(placed []model.PlacedShape, stocks map[string]model.Stock) float64 {
	total := 0.0
	for stockID := range UsedStockIDs(placed) {
		if s, ok := stocks[stockID]; ok {
			total += s.UnitCost
		}
	}
	return total
}

// Fitness combines efficiency and waste into the scalar the metaheuristics
// optimize for: 0.8 * efficiency_fraction + 0.2 * (1 - waste_fraction),
// with waste_fraction = 1 - efficiency_fraction (waste = 100 - efficiency,
// per the domain model). Infeasible solutions must be scored 0 by the
// caller instead of calling this function.
func Fitness(placed []model.PlacedShape, stocks map[string]model.Stock) float64 {
	efficiencyFraction := Efficiency(placed, stocks) / 100
	wasteFraction := 1 - efficiencyFraction
	return 0.8*efficiencyFraction + 0.2*(1-wasteFraction)
}

// AnnealingCost implements §4.A3's literal cost function for simulated
// annealing (lower is better): waste_fraction + 0.5 * unplaced_count +
// 0.1 * stocks_used. Unlike Fitness (used by the genetic algorithm family),
// this penalizes unplaced units and stock consumption directly, so moves
// that fulfill more of the order or use fewer stocks are rewarded even
// when they don't change the efficiency ratio.
func AnnealingCost(placed []model.PlacedShape, stocks map[string]model.Stock, unplacedCount int) float64 {
	wasteFraction := 1 - Efficiency(placed, stocks)/100
	stocksUsed := len(UsedStockIDs(placed))
	return wasteFraction + 0.5*float64(unplacedCount) + 0.1*float64(stocksUsed)
}

// WeakFeasible is the fast inner-loop feasibility predicate: it only
// checks stock containment and pairwise axis-aligned bounding-box overlap,
// without dispatching by shape kind. It is cheap enough to call for every
// candidate a metaheuristic considers, at the cost of false positives for
// circle pairs that overlap by bounding box but not by their true geometry.
func WeakFeasible(placed []model.PlacedShape, stocks map[string]model.Stock) bool {
	byStock := make(map[string][]model.Shape)
	for _, p := range placed {
		stock, ok := stocks[p.StockID]
		if !ok || !p.Shape.FitsInRectangle(stock.Width, stock.Height) {
			return false
		}
		byStock[p.StockID] = append(byStock[p.StockID], p.Shape)
	}
	for _, shapes := range byStock {
		for i := 0; i < len(shapes); i++ {
			for j := i + 1; j < len(shapes); j++ {
				if bboxOverlap(shapes[i], shapes[j]) {
					return false
				}
			}
		}
	}
	return true
}

func bboxOverlap(a, b model.Shape) bool {
	axmin, aymin, axmax, aymax := a.BoundingBox()
	bxmin, bymin, bxmax, bymax := b.BoundingBox()
	return axmax > bxmin && bxmax > axmin && aymax > bymin && bymax > aymin
}

// StrictFeasible is the exhaustive predicate required before a result can
// ever be emitted to a caller: exact per-shape-kind overlap via
// model.Overlaps, full containment, and kerf inflation when configured.
func StrictFeasible(placed []model.PlacedShape, stocks map[string]model.Stock, kerf float64) bool {
	byStock := make(map[string][]model.Shape)
	for _, p := range placed {
		stock, ok := stocks[p.StockID]
		if !ok || !p.Shape.FitsInRectangle(stock.Width, stock.Height) {
			return false
		}
		byStock[p.StockID] = append(byStock[p.StockID], p.Shape)
	}
	for _, shapes := range byStock {
		for i := 0; i < len(shapes); i++ {
			a := shapes[i]
			if kerf > 0 {
				a = a.Inflate(kerf / 2)
			}
			for j := i + 1; j < len(shapes); j++ {
				b := shapes[j]
				if kerf > 0 {
					b = b.Inflate(kerf / 2)
				}
				if model.Overlaps(a, b) {
					return false
				}
			}
		}
	}
	return true
}
