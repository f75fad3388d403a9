package dispatch

import (
	"testing"

	"github.com/wizenpainter-vitrari/surfcut/model"
)

func rect(w, h float64) model.Shape {
	s, _ := model.NewRectangle(w, h)
	return s
}

func TestClassify(t *testing.T) {
	cases := []struct {
		expanded, pieces int
		want             Complexity
	}{
		{10, 10, Simple},
		{50, 50, Simple},
		{51, 10, Medium},
		{500, 10, Medium},
		{501, 10, Complex},
	}
	for _, c := range cases {
		if got := Classify(c.expanded, c.pieces); got != c.want {
			t.Errorf("Classify(%d, %d) = %v, want %v", c.expanded, c.pieces, got, c.want)
		}
	}
}

func TestSelectHonoursPin(t *testing.T) {
	if got := Select(Simple, model.AlgorithmBestFit); got != model.AlgorithmBestFit {
		t.Errorf("Select with pin = %v, want best_fit", got)
	}
	if got := Select(Complex, model.AlgorithmAuto); got != model.AlgorithmHybridGenetic {
		t.Errorf("Select(Complex, auto) = %v, want hybrid_genetic", got)
	}
}

func TestOptimizeEmptyOrdersSucceeds(t *testing.T) {
	stocks := []model.Stock{{ID: "s1", Width: 1000, Height: 1000, Thickness: 5, Material: model.Glass}}
	result, err := Optimize(stocks, nil, model.DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.PlacedShapes) != 0 || result.TotalStockUsed != 0 || result.EfficiencyPercentage != 0 {
		t.Errorf("expected zero-placement success result, got %+v", result)
	}
}

func TestOptimizeInsufficientStockFailsFast(t *testing.T) {
	stocks := []model.Stock{{ID: "s1", Width: 10, Height: 10, Thickness: 5, Material: model.Glass, UnitCost: 1}}
	orders := []model.Order{{
		ID: "o1", Shape: rect(500, 500), Quantity: 1, Priority: model.Medium,
		Material: model.Glass, Thickness: 5,
	}}
	_, err := Optimize(stocks, orders, model.DefaultConfig())
	if !model.Is(err, model.KindInsufficientStock) {
		t.Fatalf("expected InsufficientStock, got %v", err)
	}
}

func TestOptimizeTwoHalves(t *testing.T) {
	stocks := []model.Stock{{ID: "s1", Width: 1000, Height: 1000, Thickness: 5, Material: model.Metal, UnitCost: 10}}
	orders := []model.Order{
		{ID: "o1", Shape: rect(500, 500), Quantity: 1, Priority: model.Medium, Material: model.Metal, Thickness: 5},
		{ID: "o2", Shape: rect(500, 500), Quantity: 1, Priority: model.Medium, Material: model.Metal, Thickness: 5},
	}
	config := model.DefaultConfig()
	config.Seed = 1

	result, err := Optimize(stocks, orders, config)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.PlacedShapes) != 2 {
		t.Fatalf("expected both halves placed, got %d", len(result.PlacedShapes))
	}
	if result.TotalStockUsed != 1 {
		t.Errorf("expected exactly one stock used, got %d", result.TotalStockUsed)
	}
	if result.EfficiencyPercentage < 45 {
		t.Errorf("efficiency = %.2f, want at least ~45%%", result.EfficiencyPercentage)
	}
}

func TestOptimizeDeterministicWithSeed(t *testing.T) {
	stocks := []model.Stock{
		{ID: "s1", Width: 1200, Height: 800, Thickness: 5, Material: model.Wood, UnitCost: 15},
	}
	orders := []model.Order{
		{ID: "o1", Shape: rect(400, 300), Quantity: 3, Priority: model.High, Material: model.Wood, Thickness: 5},
		{ID: "o2", Shape: rect(200, 200), Quantity: 5, Priority: model.Low, Material: model.Wood, Thickness: 5},
	}
	config := model.DefaultConfig()
	config.Seed = 42
	config.Algorithm = model.AlgorithmGenetic

	a, err := Optimize(stocks, orders, config)
	if err != nil {
		t.Fatalf("run 1: unexpected error: %v", err)
	}
	b, err := Optimize(stocks, orders, config)
	if err != nil {
		t.Fatalf("run 2: unexpected error: %v", err)
	}
	if a.EfficiencyPercentage != b.EfficiencyPercentage || len(a.PlacedShapes) != len(b.PlacedShapes) {
		t.Errorf("two runs with the same seed diverged: %+v vs %+v", a, b)
	}
}
