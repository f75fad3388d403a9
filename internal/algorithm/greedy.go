package algorithm

import (
	"time"

	"github.com/wizenpainter-vitrari/surfcut/internal/placement"
	"github.com/wizenpainter-vitrari/surfcut/model"
)

// orderedPlacements expands orders and sorts them per §4.A1: priority
// weight descending then area descending when config.PrioritizeOrders,
// otherwise left in input order.
func orderedPlacements(orders []model.Order, config model.Config) []placement.Placement {
	expanded := placement.Expand(orders, config.MaxExpandedPerOrder)
	if config.PrioritizeOrders {
		placement.ByPriorityThenArea(expanded)
	}
	return expanded
}

// compatibleStocks returns, preserving input order, the stocks compatible
// with an order's material/thickness/tolerance.
func compatibleStocks(stocks []model.Stock, order model.Order) []model.Stock {
	var out []model.Stock
	for _, s := range stocks {
		if s.CompatibleWith(order.Material, order.Thickness, order.Tolerance) {
			out = append(out, s)
		}
	}
	return out
}

// FirstFit places each expanded unit on the first stock, at the first
// coarse-grid position, where it fits — trying rotation as a fallback
// before moving to the next stock.
func FirstFit(stocks []model.Stock, orders []model.Order, config model.Config) model.CuttingResult {
	start := time.Now()
	expanded := orderedPlacements(orders, config)

	occupancies := make(map[string]*placement.Occupancy, len(stocks))
	for _, s := range stocks {
		occupancies[s.ID] = placement.NewOccupancy(s, config.CuttingWidth)
	}

	var placed []model.PlacedShape
	placedIndex := map[placementKey]bool{}
	sequence := map[string]int{}

	for _, pl := range expanded {
		for _, stock := range compatibleStocks(stocks, pl.Order) {
			occ := occupancies[stock.ID]
			grid := func(shape model.Shape) []placement.Point { return occ.GridCandidates(shape, config.PlacementPrecision) }
			if tryPlace(occ, pl, config.AllowRotation, grid) {
				sequence[stock.ID]++
				last := occ.Placed()[len(occ.Placed())-1]
				last.CuttingSequence = sequence[stock.ID]
				occ.Placed()[len(occ.Placed())-1] = last
				placed = append(placed, last)
				placedIndex[placementKey{pl.OrderID, pl.Index}] = true
				break
			}
		}
	}

	unfulfilled, fulfilledCount := remainingOrders(expanded, placedIndex)
	return buildResult(model.AlgorithmFirstFit, placed, unfulfilled, fulfilledCount, stocks, time.Since(start), nil)
}

// candidateFn abstracts the two candidate-generation strategies tryPlace
// accepts (coarse grid for first-fit, edge-derived bottom-left candidates
// for bottom-left-fill) behind one signature.
type candidateFn func(shape model.Shape) []placement.Point

// tryPlace attempts every rotation of pl's template against every
// candidate position candidates yields, placing and returning true on the
// first feasible one.
func tryPlace(occ *placement.Occupancy, pl placement.Placement, allowRotation bool, candidates candidateFn) bool {
	for _, rotated := range placement.Rotations(pl.Template, allowRotation) {
		for _, pt := range candidates(rotated) {
			at := rotated.At(pt.X, pt.Y)
			if occ.Feasible(at) {
				occ.Place(model.PlacedShape{OrderID: pl.OrderID, StockID: occ.Stock.ID, Shape: at})
				return true
			}
		}
	}
	return false
}

// BestFit scores every feasible (stock, candidate position) pair for each
// placement and keeps the one that leaves the smallest residual area on
// its stock, breaking ties by smallest y, then smallest x, then stock id,
// then candidate index.
func BestFit(stocks []model.Stock, orders []model.Order, config model.Config) model.CuttingResult {
	start := time.Now()
	expanded := orderedPlacements(orders, config)

	occupancies := make(map[string]*placement.Occupancy, len(stocks))
	for _, s := range stocks {
		occupancies[s.ID] = placement.NewOccupancy(s, config.CuttingWidth)
	}

	var placed []model.PlacedShape
	placedIndex := map[placementKey]bool{}
	sequence := map[string]int{}

	for _, pl := range expanded {
		best, ok := bestCandidate(occupancies, compatibleStocks(stocks, pl.Order), pl, config.AllowRotation)
		if !ok {
			continue
		}
		occ := occupancies[best.stockID]
		occ.Place(model.PlacedShape{OrderID: pl.OrderID, StockID: best.stockID, Shape: best.shape})
		sequence[best.stockID]++
		last := occ.Placed()[len(occ.Placed())-1]
		last.CuttingSequence = sequence[best.stockID]
		occ.Placed()[len(occ.Placed())-1] = last
		placed = append(placed, last)
		placedIndex[placementKey{pl.OrderID, pl.Index}] = true
	}

	unfulfilled, fulfilledCount := remainingOrders(expanded, placedIndex)
	return buildResult(model.AlgorithmBestFit, placed, unfulfilled, fulfilledCount, stocks, time.Since(start), nil)
}

type scoredCandidate struct {
	stockID string
	shape   model.Shape
	residual float64
	y, x     float64
	stockIdx int
	candIdx  int
}

func bestCandidate(occupancies map[string]*placement.Occupancy, stocks []model.Stock, pl placement.Placement, allowRotation bool) (scoredCandidate, bool) {
	var best scoredCandidate
	found := false

	for stockIdx, stock := range stocks {
		occ := occupancies[stock.ID]
		for _, rotated := range placement.Rotations(pl.Template, allowRotation) {
			for candIdx, pt := range occ.BottomLeftCandidates(rotated) {
				at := rotated.At(pt.X, pt.Y)
				if !occ.Feasible(at) {
					continue
				}
				usedBefore := usedAreaOnStock(occ)
				residual := stock.Area() - usedBefore - at.Area()
				candidate := scoredCandidate{
					stockID: stock.ID, shape: at, residual: residual,
					y: pt.Y, x: pt.X, stockIdx: stockIdx, candIdx: candIdx,
				}
				if !found || betterCandidate(candidate, best) {
					best, found = candidate, true
				}
			}
		}
	}
	return best, found
}

func usedAreaOnStock(occ *placement.Occupancy) float64 {
	total := 0.0
	for _, p := range occ.Placed() {
		total += p.Shape.Area()
	}
	return total
}

func betterCandidate(a, b scoredCandidate) bool {
	if a.residual != b.residual {
		return a.residual < b.residual
	}
	if a.y != b.y {
		return a.y < b.y
	}
	if a.x != b.x {
		return a.x < b.x
	}
	if a.stockID != b.stockID {
		return a.stockID < b.stockID
	}
	return a.candIdx < b.candIdx
}

// BottomLeftFill groups orders by material so each stock only ever
// considers compatible placements, then within each stock places in
// priority/area order at the candidate with minimum y, then minimum x.
func BottomLeftFill(stocks []model.Stock, orders []model.Order, config model.Config) model.CuttingResult {
	start := time.Now()
	expanded := orderedPlacements(orders, config)

	byMaterial := map[model.Material][]model.Stock{}
	for _, s := range stocks {
		byMaterial[s.Material] = append(byMaterial[s.Material], s)
	}

	occupancies := make(map[string]*placement.Occupancy, len(stocks))
	for _, s := range stocks {
		occupancies[s.ID] = placement.NewOccupancy(s, config.CuttingWidth)
	}
	sequence := map[string]int{}

	var placed []model.PlacedShape
	placedIndex := map[placementKey]bool{}

	for _, pl := range expanded {
		for _, stock := range byMaterial[pl.Order.Material] {
			if !stock.CompatibleWith(pl.Order.Material, pl.Order.Thickness, pl.Order.Tolerance) {
				continue
			}
			occ := occupancies[stock.ID]
			if tryPlace(occ, pl, config.AllowRotation, occ.BottomLeftCandidates) {
				sequence[stock.ID]++
				last := occ.Placed()[len(occ.Placed())-1]
				last.CuttingSequence = sequence[stock.ID]
				occ.Placed()[len(occ.Placed())-1] = last
				placed = append(placed, last)
				placedIndex[placementKey{pl.OrderID, pl.Index}] = true
				break
			}
		}
	}

	unfulfilled, fulfilledCount := remainingOrders(expanded, placedIndex)
	return buildResult(model.AlgorithmBottomLeft, placed, unfulfilled, fulfilledCount, stocks, time.Since(start), nil)
}
