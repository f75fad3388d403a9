package evaluate

import (
	"testing"

	"github.com/wizenpainter-vitrari/surfcut/model"
)

func stocksByID(stocks ...model.Stock) map[string]model.Stock {
	out := make(map[string]model.Stock, len(stocks))
	for _, s := range stocks {
		out[s.ID] = s
	}
	return out
}

func TestEfficiencyDividesByUsedStockAreaOnly(t *testing.T) {
	used := model.Stock{ID: "used", Width: 1000, Height: 1000, UnitCost: 10}
	unused := model.Stock{ID: "unused", Width: 5000, Height: 5000, UnitCost: 50}
	stocks := stocksByID(used, unused)

	shape, _ := model.NewRectangle(1000, 1000)
	placed := []model.PlacedShape{{OrderID: "o1", StockID: "used", Shape: shape.At(0, 0)}}

	eff := Efficiency(placed, stocks)
	if eff != 100 {
		t.Errorf("Efficiency() = %v, want 100 (unused stock must not dilute the denominator)", eff)
	}
}

func TestCostOnlyCountsUsedStocks(t *testing.T) {
	used := model.Stock{ID: "used", Width: 1000, Height: 1000, UnitCost: 10}
	unused := model.Stock{ID: "unused", Width: 1000, Height: 1000, UnitCost: 50}
	stocks := stocksByID(used, unused)

	shape, _ := model.NewRectangle(100, 100)
	placed := []model.PlacedShape{{OrderID: "o1", StockID: "used", Shape: shape.At(0, 0)}}

	if cost := Cost(placed, stocks); cost != 10 {
		t.Errorf("Cost() = %v, want 10", cost)
	}
}

func TestWeakFeasibleCatchesBoundsAndOverlap(t *testing.T) {
	stock := model.Stock{ID: "s1", Width: 100, Height: 100}
	stocks := stocksByID(stock)
	shape, _ := model.NewRectangle(60, 60)

	overlapping := []model.PlacedShape{
		{OrderID: "o1", StockID: "s1", Shape: shape.At(0, 0)},
		{OrderID: "o2", StockID: "s1", Shape: shape.At(30, 30)},
	}
	if WeakFeasible(overlapping, stocks) {
		t.Error("expected overlapping placements to be infeasible")
	}

	outOfBounds := []model.PlacedShape{{OrderID: "o1", StockID: "s1", Shape: shape.At(50, 50)}}
	if WeakFeasible(outOfBounds, stocks) {
		t.Error("expected out-of-bounds placement to be infeasible")
	}
}

func TestStrictFeasibleHandlesCircles(t *testing.T) {
	stock := model.Stock{ID: "s1", Width: 1000, Height: 800}
	stocks := stocksByID(stock)

	rect, _ := model.NewRectangle(600, 400)
	circ, _ := model.NewCircle(200)
	placed := []model.PlacedShape{
		{OrderID: "rect", StockID: "s1", Shape: rect.At(0, 0)},
		{OrderID: "circ", StockID: "s1", Shape: circ.At(600, 200)}, // clear of the rectangle
	}
	if !StrictFeasible(placed, stocks, 0) {
		t.Error("expected clear rectangle+circle placement to be feasible")
	}
}

func TestFitnessIsZeroWhenNothingPlaced(t *testing.T) {
	if f := Fitness(nil, map[string]model.Stock{}); f != 0 {
		t.Errorf("Fitness() = %v, want 0", f)
	}
}

func TestAnnealingCostPenalizesUnplacedAndStocksUsed(t *testing.T) {
	stock := model.Stock{ID: "s1", Width: 1000, Height: 1000}
	stocks := stocksByID(stock)
	shape, _ := model.NewRectangle(1000, 1000)
	placed := []model.PlacedShape{{OrderID: "o1", StockID: "s1", Shape: shape.At(0, 0)}}

	fullyPlaced := AnnealingCost(placed, stocks, 0)
	withOneUnplaced := AnnealingCost(placed, stocks, 1)
	if withOneUnplaced <= fullyPlaced {
		t.Errorf("AnnealingCost with an unplaced unit (%v) should exceed a fully placed solution (%v)",
			withOneUnplaced, fullyPlaced)
	}
	if got, want := withOneUnplaced-fullyPlaced, 0.5; got != want {
		t.Errorf("one unplaced unit should add 0.5 to cost, got delta %v", got)
	}

	other := model.Stock{ID: "s2", Width: 1000, Height: 1000}
	twoStocks := stocksByID(stock, other)
	placedAcrossTwo := []model.PlacedShape{
		{OrderID: "o1", StockID: "s1", Shape: shape.At(0, 0)},
		{OrderID: "o2", StockID: "s2", Shape: shape.At(0, 0)},
	}
	oneStockCost := AnnealingCost(placed, stocks, 0)
	twoStockCost := AnnealingCost(placedAcrossTwo, twoStocks, 0)
	if twoStockCost <= oneStockCost {
		t.Errorf("AnnealingCost using two stocks (%v) should exceed using one (%v)", twoStockCost, oneStockCost)
	}
}
