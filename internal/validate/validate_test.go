package validate

import (
	"testing"

	"github.com/wizenpainter-vitrari/surfcut/model"
)

func rectOrder(id string, w, h float64, qty int, material model.Material) model.Order {
	shape, _ := model.NewRectangle(w, h)
	return model.Order{ID: id, Shape: shape, Quantity: qty, Priority: model.Medium, Material: material, Thickness: 5}
}

func TestInputsRejectsEmptyStocks(t *testing.T) {
	orders := []model.Order{rectOrder("o1", 10, 10, 1, model.Metal)}
	err := Inputs(nil, orders, model.DefaultConfig())
	if !model.Is(err, model.KindInsufficientStock) {
		t.Fatalf("expected KindInsufficientStock, got %v", err)
	}
}

func TestInputsRejectsInsufficientArea(t *testing.T) {
	stocks := []model.Stock{{ID: "s1", Width: 10, Height: 10, Thickness: 5, Material: model.Metal}}
	orders := []model.Order{rectOrder("o1", 100, 100, 5, model.Metal)}
	err := Inputs(stocks, orders, model.DefaultConfig())
	if !model.Is(err, model.KindInsufficientStock) {
		t.Fatalf("expected KindInsufficientStock, got %v", err)
	}
}

func TestInputsRejectsMissingMaterial(t *testing.T) {
	stocks := []model.Stock{{ID: "s1", Width: 1000, Height: 1000, Thickness: 5, Material: model.Glass}}
	orders := []model.Order{rectOrder("o1", 10, 10, 1, model.Metal)}
	err := Inputs(stocks, orders, model.DefaultConfig())
	if !model.Is(err, model.KindInsufficientStock) {
		t.Fatalf("expected KindInsufficientStock for missing material, got %v", err)
	}
}

func TestInputsRejectsDuplicateStockID(t *testing.T) {
	stocks := []model.Stock{
		{ID: "s1", Width: 1000, Height: 1000, Thickness: 5, Material: model.Glass},
		{ID: "s1", Width: 500, Height: 500, Thickness: 5, Material: model.Glass},
	}
	orders := []model.Order{rectOrder("o1", 10, 10, 1, model.Glass)}
	err := Inputs(stocks, orders, model.DefaultConfig())
	if !model.Is(err, model.KindValidation) {
		t.Fatalf("expected KindValidation for duplicate stock id, got %v", err)
	}
}

func TestInputsAccepts(t *testing.T) {
	stocks := []model.Stock{{ID: "s1", Width: 1000, Height: 1000, Thickness: 5, Material: model.Glass}}
	orders := []model.Order{rectOrder("o1", 100, 100, 1, model.Glass)}
	if err := Inputs(stocks, orders, model.DefaultConfig()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestResultRejectsOverlap(t *testing.T) {
	stocks := []model.Stock{{ID: "s1", Width: 1000, Height: 1000, Thickness: 5, Material: model.Metal}}
	orders := []model.Order{rectOrder("o1", 500, 500, 1, model.Metal), rectOrder("o2", 500, 500, 1, model.Metal)}

	shapeA, _ := model.NewRectangle(500, 500)
	shapeB, _ := model.NewRectangle(500, 500)
	result := model.CuttingResult{
		PlacedShapes: []model.PlacedShape{
			{OrderID: "o1", StockID: "s1", Shape: shapeA.At(0, 0)},
			{OrderID: "o2", StockID: "s1", Shape: shapeB.At(100, 100)}, // overlaps
		},
		TotalStockUsed:       1,
		EfficiencyPercentage: 50,
	}
	err := Result(result, stocks, orders, model.DefaultConfig())
	if !model.Is(err, model.KindOptimization) {
		t.Fatalf("expected KindOptimization for overlap, got %v", err)
	}
}

func TestResultAcceptsNonOverlapping(t *testing.T) {
	stocks := []model.Stock{{ID: "s1", Width: 1000, Height: 1000, Thickness: 5, Material: model.Metal}}
	orders := []model.Order{rectOrder("o1", 500, 500, 1, model.Metal), rectOrder("o2", 500, 500, 1, model.Metal)}

	shapeA, _ := model.NewRectangle(500, 500)
	shapeB, _ := model.NewRectangle(500, 500)
	result := model.CuttingResult{
		PlacedShapes: []model.PlacedShape{
			{OrderID: "o1", StockID: "s1", Shape: shapeA.At(0, 0)},
			{OrderID: "o2", StockID: "s1", Shape: shapeB.At(500, 0)},
		},
		TotalStockUsed:       1,
		EfficiencyPercentage: 100,
	}
	if err := Result(result, stocks, orders, model.DefaultConfig()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestResultRejectsOutOfBounds(t *testing.T) {
	stocks := []model.Stock{{ID: "s1", Width: 100, Height: 100, Thickness: 5, Material: model.Metal}}
	orders := []model.Order{rectOrder("o1", 50, 50, 1, model.Metal)}
	shape, _ := model.NewRectangle(50, 50)
	result := model.CuttingResult{
		PlacedShapes: []model.PlacedShape{
			{OrderID: "o1", StockID: "s1", Shape: shape.At(80, 80)},
		},
		TotalStockUsed:       1,
		EfficiencyPercentage: 100,
	}
	err := Result(result, stocks, orders, model.DefaultConfig())
	if !model.Is(err, model.KindOptimization) {
		t.Fatalf("expected KindOptimization for out-of-bounds, got %v", err)
	}
}
