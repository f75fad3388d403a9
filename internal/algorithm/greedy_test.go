package algorithm

import (
	"testing"

	"github.com/wizenpainter-vitrari/surfcut/model"
)

func rectOrder(id string, w, h float64, qty int, priority model.Priority) model.Order {
	shape, _ := model.NewRectangle(w, h)
	return model.Order{ID: id, Shape: shape, Quantity: qty, Priority: priority, Material: model.Glass, Thickness: 5}
}

func glassStock(id string, w, h float64) model.Stock {
	return model.Stock{ID: id, Width: w, Height: h, Thickness: 5, Material: model.Glass, UnitCost: 10}
}

func TestFirstFitPlacesWithinBounds(t *testing.T) {
	stocks := []model.Stock{glassStock("s1", 1000, 1000)}
	orders := []model.Order{rectOrder("o1", 300, 200, 4, model.Medium)}
	config := model.DefaultConfig()

	result := FirstFit(stocks, orders, config)
	if len(result.PlacedShapes) == 0 {
		t.Fatal("expected at least one placed shape")
	}
	for _, p := range result.PlacedShapes {
		if !p.Shape.FitsInRectangle(1000, 1000) {
			t.Errorf("placed shape %+v exceeds stock bounds", p)
		}
	}
}

func TestFirstFitNeverOverlaps(t *testing.T) {
	stocks := []model.Stock{glassStock("s1", 1000, 1000)}
	orders := []model.Order{rectOrder("o1", 300, 300, 10, model.Medium)}
	config := model.DefaultConfig()

	result := FirstFit(stocks, orders, config)
	shapes := make([]model.Shape, len(result.PlacedShapes))
	for i, p := range result.PlacedShapes {
		shapes[i] = p.Shape
	}
	for i := range shapes {
		for j := i + 1; j < len(shapes); j++ {
			if model.Overlaps(shapes[i], shapes[j]) {
				t.Fatalf("placements %d and %d overlap", i, j)
			}
		}
	}
}

func TestFirstFitReportsUnfulfilledWhenStockExhausted(t *testing.T) {
	stocks := []model.Stock{glassStock("s1", 310, 210)}
	orders := []model.Order{rectOrder("o1", 300, 200, 3, model.Medium)}
	config := model.DefaultConfig()

	result := FirstFit(stocks, orders, config)
	if len(result.UnfulfilledOrders) == 0 {
		t.Fatal("expected leftover units to be reported as unfulfilled")
	}
}

func TestBestFitPrefersSmallestResidual(t *testing.T) {
	stocks := []model.Stock{glassStock("small", 310, 210), glassStock("large", 2000, 2000)}
	orders := []model.Order{rectOrder("o1", 300, 200, 1, model.Medium)}
	config := model.DefaultConfig()

	result := BestFit(stocks, orders, config)
	if len(result.PlacedShapes) != 1 {
		t.Fatalf("expected exactly one placement, got %d", len(result.PlacedShapes))
	}
	if got := result.PlacedShapes[0].StockID; got != "small" {
		t.Errorf("BestFit chose stock %q, want %q (smallest residual)", got, "small")
	}
}

func TestBestFitNeverOverlaps(t *testing.T) {
	stocks := []model.Stock{glassStock("s1", 1000, 1000)}
	orders := []model.Order{rectOrder("o1", 250, 150, 8, model.High)}
	config := model.DefaultConfig()

	result := BestFit(stocks, orders, config)
	shapes := make([]model.Shape, len(result.PlacedShapes))
	for i, p := range result.PlacedShapes {
		shapes[i] = p.Shape
	}
	for i := range shapes {
		for j := i + 1; j < len(shapes); j++ {
			if model.Overlaps(shapes[i], shapes[j]) {
				t.Fatalf("placements %d and %d overlap", i, j)
			}
		}
	}
}

func TestBottomLeftFillSkipsIncompatibleMaterial(t *testing.T) {
	stocks := []model.Stock{
		{ID: "wood", Width: 1000, Height: 1000, Thickness: 5, Material: model.Wood, UnitCost: 5},
	}
	orders := []model.Order{rectOrder("glass-order", 300, 200, 1, model.Medium)}
	config := model.DefaultConfig()

	result := BottomLeftFill(stocks, orders, config)
	if len(result.PlacedShapes) != 0 {
		t.Error("expected no placements when no stock matches the order's material")
	}
	if len(result.UnfulfilledOrders) != 1 {
		t.Error("expected the incompatible order to be reported as unfulfilled")
	}
}

func TestBottomLeftFillPacksBottomLeftFirst(t *testing.T) {
	stocks := []model.Stock{glassStock("s1", 1000, 1000)}
	orders := []model.Order{rectOrder("o1", 400, 300, 2, model.Medium)}
	config := model.DefaultConfig()

	result := BottomLeftFill(stocks, orders, config)
	if len(result.PlacedShapes) != 2 {
		t.Fatalf("expected 2 placements, got %d", len(result.PlacedShapes))
	}
	first := result.PlacedShapes[0].Shape
	xmin, ymin, _, _ := first.BoundingBox()
	if xmin != 0 || ymin != 0 {
		t.Errorf("expected first placement at origin, got (%v, %v)", xmin, ymin)
	}
}

func TestFirstFitIsDeterministic(t *testing.T) {
	stocks := []model.Stock{glassStock("s1", 1000, 1000)}
	orders := []model.Order{rectOrder("o1", 200, 150, 6, model.Low)}
	config := model.DefaultConfig()

	a := FirstFit(stocks, orders, config)
	b := FirstFit(stocks, orders, config)
	if len(a.PlacedShapes) != len(b.PlacedShapes) {
		t.Fatalf("non-deterministic placement count: %d vs %d", len(a.PlacedShapes), len(b.PlacedShapes))
	}
	for i := range a.PlacedShapes {
		if a.PlacedShapes[i].Shape != b.PlacedShapes[i].Shape {
			t.Errorf("placement %d differs between runs: %+v vs %+v", i, a.PlacedShapes[i], b.PlacedShapes[i])
		}
	}
}
