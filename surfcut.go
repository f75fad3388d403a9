// Package surfcut is the public entry point to the two-dimensional
// cutting-stock optimizer. Its surface is deliberately small: data-carrying
// record types, re-exported from the model package, and one function,
// Optimize, that turns a set of stocks and orders into a validated cutting
// plan.
//
// Everything outside this surface — CSV ingestion, report rendering, a
// REST layer, a CLI — is an external collaborator that calls Optimize and
// is not part of this module.
package surfcut

import (
	"github.com/wizenpainter-vitrari/surfcut/internal/dispatch"
	"github.com/wizenpainter-vitrari/surfcut/model"
)

// Re-exported domain types so callers never need to import the model
// package directly.
type (
	Shape         = model.Shape
	Stock         = model.Stock
	Order         = model.Order
	PlacedShape   = model.PlacedShape
	CuttingResult = model.CuttingResult
	Config        = model.Config
	Material      = model.Material
	Priority      = model.Priority
	Algorithm     = model.Algorithm
	Error         = model.Error
	ErrorKind     = model.ErrorKind
)

// Re-exported constructors and enum values.
var (
	NewRectangle  = model.NewRectangle
	NewCircle     = model.NewCircle
	DefaultConfig = model.DefaultConfig
	Overlaps      = model.Overlaps
)

const (
	Glass     = model.Glass
	Metal     = model.Metal
	Wood      = model.Wood
	Plastic   = model.Plastic
	Fabric    = model.Fabric
	Leather   = model.Leather
	Paper     = model.Paper
	Ceramic   = model.Ceramic
	Composite = model.Composite

	Low    = model.Low
	Medium = model.Medium
	High   = model.High
	Urgent = model.Urgent

	AlgorithmAuto               = model.AlgorithmAuto
	AlgorithmFirstFit           = model.AlgorithmFirstFit
	AlgorithmBestFit            = model.AlgorithmBestFit
	AlgorithmBottomLeft         = model.AlgorithmBottomLeft
	AlgorithmGenetic            = model.AlgorithmGenetic
	AlgorithmSimulatedAnnealing = model.AlgorithmSimulatedAnnealing
	AlgorithmHybridGenetic      = model.AlgorithmHybridGenetic

	KindInvalidDimensions = model.KindInvalidDimensions
	KindInvalidShape      = model.KindInvalidShape
	KindInsufficientStock = model.KindInsufficientStock
	KindValidation        = model.KindValidation
	KindOptimization      = model.KindOptimization
)

// Optimize runs the dispatcher described in §4.D of the design: it
// validates stocks, orders, and config; expands order quantities into
// individual placements; classifies problem complexity; selects and runs
// a placement strategy (or honours config.Algorithm if pinned); strictly
// re-validates the result, falling back to a conservative first-fit once
// if that validation fails; and returns the validated CuttingResult.
//
// Optimize either returns a result that satisfies every invariant in §8 or
// fails with an *Error carrying one of the ErrorKind values in errors.go.
// Stocks and orders are read-only for the duration of the call.
func Optimize(stocks []Stock, orders []Order, config Config) (CuttingResult, error) {
	return dispatch.Optimize(stocks, orders, config)
}

// IsErrorKind reports whether err is a *surfcut.Error of the given kind.
func IsErrorKind(err error, kind ErrorKind) bool {
	return model.Is(err, kind)
}
