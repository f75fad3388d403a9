// Package algorithm implements the four placement strategies the
// dispatcher chooses between: greedy first-fit/best-fit/bottom-left (A1),
// a genetic algorithm (A2), simulated annealing (A3), and a hybrid
// genetic + tabu search (A4). Every strategy consumes placement.Placement
// values and produces a model.CuttingResult; none of them mutate the
// stocks or orders they are given.
package algorithm

import (
	"math"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/wizenpainter-vitrari/surfcut/internal/evaluate"
	"github.com/wizenpainter-vitrari/surfcut/internal/placement"
	"github.com/wizenpainter-vitrari/surfcut/model"
)

// complexityC is the problem-complexity figure the auto-scaling tables in
// §4.A2/§4.A3 key off: the product of stock count and expanded-placement
// count.
func complexityC(stockCount, expandedCount int) int {
	return stockCount * expandedCount
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func stocksByID(stocks []model.Stock) map[string]model.Stock {
	out := make(map[string]model.Stock, len(stocks))
	for _, s := range stocks {
		out[s.ID] = s
	}
	return out
}

// placementKey identifies one expanded placement unit, independent of the
// (possibly large) Order/Shape values embedded in placement.Placement.
type placementKey struct {
	orderID string
	index   int
}

// remainingOrders builds the unfulfilled-orders list and fulfilled count
// from a set of expanded placements and which of them made it into the
// final placed set. An order counts as fulfilled as soon as at least one
// of its units is placed; any units that did not make it are reported as
// a residual Order carrying just the unplaced quantity.
func remainingOrders(expanded []placement.Placement, placedIndex map[placementKey]bool) ([]model.Order, int) {
	placedCount := map[string]int{}
	totalCount := map[string]int{}
	byID := map[string]model.Order{}

	for _, p := range expanded {
		totalCount[p.OrderID]++
		byID[p.OrderID] = p.Order
		if placedIndex[placementKey{p.OrderID, p.Index}] {
			placedCount[p.OrderID]++
		}
	}

	fulfilled := 0
	var unfulfilled []model.Order
	for id, total := range totalCount {
		placedN := placedCount[id]
		if placedN > 0 {
			fulfilled++
		}
		if placedN < total {
			remainder := byID[id]
			remainder.Quantity = total - placedN
			unfulfilled = append(unfulfilled, remainder)
		}
	}
	return unfulfilled, fulfilled
}

// buildResult assembles the CuttingResult common to every algorithm:
// efficiency/cost from the evaluator, counts derived from the placed set,
// and the standard metadata keys.
func buildResult(
	algo model.Algorithm,
	placed []model.PlacedShape,
	unfulfilled []model.Order,
	fulfilledCount int,
	stocks []model.Stock,
	elapsed time.Duration,
	extraMeta map[string]any,
) model.CuttingResult {
	byID := stocksByID(stocks)
	usedIDs := evaluate.UsedStockIDs(placed)
	efficiency := evaluate.Efficiency(placed, byID)

	meta := map[string]any{}
	for k, v := range extraMeta {
		meta[k] = v
	}
	meta["used_area_human"] = humanize.Commaf(evaluate.UsedArea(placed)) + " mm²"
	meta["total_cost_human"] = humanize.Commaf(evaluate.Cost(placed, byID))

	return model.CuttingResult{
		PlacedShapes:         placed,
		UnfulfilledOrders:    unfulfilled,
		TotalStockUsed:       len(usedIDs),
		TotalOrdersFulfilled: fulfilledCount,
		EfficiencyPercentage: efficiency,
		WastePercentage:      100 - efficiency,
		TotalCost:            evaluate.Cost(placed, byID),
		ComputationTime:      elapsed,
		AlgorithmUsed:        algo,
		Metadata:             meta,
	}
}

func sqrtInt(c int) float64 { return math.Sqrt(float64(c)) }

// autoScaleGenetic derives population size, generation budget, and elite
// count from the problem complexity per §4.A2's three-tier table.
func autoScaleGenetic(c int) (population, generations, elite int) {
	switch {
	case c <= 50:
		population = clampInt(15, 10, 20)
		generations = clampInt(35, 20, 50)
		elite = maxInt(2, population/10)
	case c <= 200:
		population = clampInt(30, 20, 40)
		generations = clampInt(65, 30, 100)
		elite = maxInt(3, population/8)
	default:
		population = clampInt(int(5*sqrtInt(c)), 30, 100)
		generations = clampInt(int(10*sqrtInt(c)), 50, 200)
		elite = maxInt(5, population/6)
	}
	return population, generations, elite
}

// autoScaleAnnealing derives the initial/minimum temperature and iteration
// budget from the problem complexity per §4.A3's three-tier table.
func autoScaleAnnealing(c int) (t0, tMin float64, maxIter, iterPerTemp int) {
	switch {
	case c <= 50:
		t0, tMin = 100, 0.01
		maxIter = maxInt(10*c, 1)
		iterPerTemp = maxInt(c/2, 1)
	case c <= 200:
		t0, tMin = 500, 0.05
		maxIter = 5 * c
		iterPerTemp = maxInt(c/5, 1)
	default:
		t0, tMin = 1000, 0.1
		maxIter = int(50 * sqrtInt(c))
		iterPerTemp = maxInt(int(5*sqrtInt(c)), 1)
	}
	return t0, tMin, maxIter, iterPerTemp
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// deadlineFrom returns the soft wall-clock deadline §5 requires every
// metaheuristic to check at generation/temperature-block boundaries. A
// non-positive timeout disables the deadline (never exceeded).
func deadlineFrom(start time.Time, timeout time.Duration) time.Time {
	if timeout <= 0 {
		return time.Time{}
	}
	return start.Add(timeout)
}

// pastDeadline reports whether the soft deadline has elapsed. A zero
// deadline (timeout disabled) never elapses.
func pastDeadline(deadline time.Time) bool {
	return !deadline.IsZero() && time.Now().After(deadline)
}
