// Package validate implements the two validation tiers the dispatcher
// runs: input validation before any placement is attempted, and strict
// result validation after an algorithm returns a candidate solution.
package validate

import (
	"fmt"

	"github.com/wizenpainter-vitrari/surfcut/model"
)

// Inputs runs tier-1 validation: valid configuration, non-empty stocks,
// and, when orders are present, positive dimensions, unique identifiers,
// and per-material area compatibility. An empty order set is accepted.
// It never repairs malformed input — it only ever accepts or fails.
func Inputs(stocks []model.Stock, orders []model.Order, config model.Config) error {
	if err := config.Validate(); err != nil {
		return err
	}
	if len(stocks) == 0 {
		return model.InsufficientStockError("no stock available")
	}
	if len(orders) == 0 {
		// Empty orders is a success case handled by the dispatcher, not a
		// validation failure; stocks are not checked further in that case.
		return nil
	}

	seenStockIDs := make(map[string]bool, len(stocks))
	for _, s := range stocks {
		if err := s.Validate(); err != nil {
			return err
		}
		if seenStockIDs[s.ID] {
			return model.ValidationFieldError("id", fmt.Sprintf("duplicate stock identifier %q", s.ID))
		}
		seenStockIDs[s.ID] = true
	}

	seenOrderIDs := make(map[string]bool, len(orders))
	for _, o := range orders {
		if err := o.Validate(); err != nil {
			return err
		}
		if seenOrderIDs[o.ID] {
			return model.ValidationFieldError("id", fmt.Sprintf("duplicate order identifier %q", o.ID))
		}
		seenOrderIDs[o.ID] = true
	}

	return checkMaterialCompatibility(stocks, orders)
}

// checkMaterialCompatibility ensures that for every material present in
// orders, compatible stock exists, and that the aggregate order area for
// that material does not exceed the aggregate compatible stock area.
func checkMaterialCompatibility(stocks []model.Stock, orders []model.Order) error {
	orderAreaByMaterial := make(map[model.Material]float64)
	for _, o := range orders {
		orderAreaByMaterial[o.Material] += o.TotalArea()
	}

	stockAreaByMaterial := make(map[model.Material]float64)
	for _, s := range stocks {
		stockAreaByMaterial[s.Material] += s.Area()
	}

	for material, orderArea := range orderAreaByMaterial {
		stockArea, hasStock := stockAreaByMaterial[material]
		if !hasStock {
			return model.InsufficientStockError(
				fmt.Sprintf("no stock available for material %q", material))
		}
		if orderArea > stockArea {
			return model.InsufficientStockError(
				fmt.Sprintf("insufficient %s stock area: %.2f < %.2f", material, stockArea, orderArea))
		}
	}
	return nil
}

// Result runs tier-2 strict validation on a completed CuttingResult: every
// placed shape is fully contained in its referenced stock, no two placed
// shapes on the same stock overlap (honouring kerf inflation), material and
// thickness compatibility holds, and TotalStockUsed matches the number of
// distinct stocks in the placed set. TotalOrdersFulfilled is not checked.
// Result is read-only: validation never mutates it.
func Result(result model.CuttingResult, stocks []model.Stock, orders []model.Order, config model.Config) error {
	if result.EfficiencyPercentage < 0 || result.EfficiencyPercentage > 100 {
		return model.OptimizationFailedError("invalid efficiency", fmt.Sprintf("%.4f", result.EfficiencyPercentage))
	}

	stockByID := make(map[string]model.Stock, len(stocks))
	for _, s := range stocks {
		stockByID[s.ID] = s
	}
	orderByID := make(map[string]model.Order, len(orders))
	for _, o := range orders {
		orderByID[o.ID] = o
	}

	byStock := make(map[string][]model.PlacedShape)
	for _, p := range result.PlacedShapes {
		stock, ok := stockByID[p.StockID]
		if !ok {
			return model.OptimizationFailedError("placed shape references unknown stock", p.StockID)
		}
		if !p.ContainedIn(stock) {
			return model.OptimizationFailedError("placed shape exceeds stock bounds", p.OrderID)
		}
		if order, ok := orderByID[p.OrderID]; ok {
			if !stock.CompatibleWith(order.Material, order.Thickness, order.Tolerance) {
				return model.OptimizationFailedError("placed shape material/thickness mismatch", p.OrderID)
			}
		}
		byStock[p.StockID] = append(byStock[p.StockID], p)
	}

	kerf := config.CuttingWidth
	for stockID, placed := range byStock {
		for i := 0; i < len(placed); i++ {
			a := placed[i].Shape
			if kerf > 0 {
				a = a.Inflate(kerf / 2)
			}
			for j := i + 1; j < len(placed); j++ {
				b := placed[j].Shape
				if kerf > 0 {
					b = b.Inflate(kerf / 2)
				}
				if model.Overlaps(a, b) {
					return model.OptimizationFailedError(
						fmt.Sprintf("overlapping placements on stock %s", stockID),
						fmt.Sprintf("%s vs %s", placed[i].OrderID, placed[j].OrderID))
				}
			}
		}
	}

	usedStocks := map[string]bool{}
	for _, p := range result.PlacedShapes {
		usedStocks[p.StockID] = true
	}
	if result.TotalStockUsed != len(usedStocks) {
		return model.OptimizationFailedError("total_stock_used inconsistent with placed shapes", "")
	}

	return nil
}
