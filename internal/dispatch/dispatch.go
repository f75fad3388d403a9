// Package dispatch implements the optimizer facade §4.D describes: it
// validates inputs, classifies problem complexity, selects one of the
// placement strategies in package algorithm, runs it under the configured
// timeout, and re-validates the result before handing it back. A single
// post-run invariant violation triggers exactly one conservative fallback
// attempt; a second violation fails the call.
package dispatch

import (
	"time"

	"github.com/google/uuid"

	"github.com/wizenpainter-vitrari/surfcut/internal/algorithm"
	"github.com/wizenpainter-vitrari/surfcut/internal/placement"
	"github.com/wizenpainter-vitrari/surfcut/internal/validate"
	"github.com/wizenpainter-vitrari/surfcut/model"
)

// Complexity classifies a problem instance per §4.D step 3: simple if the
// expanded-placement count and raw piece count are both small, medium up
// to 500 expanded placements, complex otherwise.
type Complexity int

const (
	Simple Complexity = iota
	Medium
	Complex
)

func (c Complexity) String() string {
	switch c {
	case Simple:
		return "simple"
	case Medium:
		return "medium"
	case Complex:
		return "complex"
	default:
		return "unknown"
	}
}

// Classify derives problem complexity from the expanded placement count
// and the number of distinct orders (pieces).
func Classify(expandedCount, pieceCount int) Complexity {
	switch {
	case expandedCount <= 50 && pieceCount <= 50:
		return Simple
	case expandedCount <= 500:
		return Medium
	default:
		return Complex
	}
}

// Select returns the algorithm to run for a classified problem, honouring
// a caller-pinned override in config.Algorithm. The policy is deterministic
// given inputs: simple problems get the genetic algorithm (fast enough at
// that scale and better than greedy on packing quality), medium problems
// get the hybrid genetic + tabu search, and complex problems get the same
// hybrid run with its island count auto-scaled up.
func Select(complexity Complexity, algo model.Algorithm) model.Algorithm {
	if algo != model.AlgorithmAuto && algo != "" {
		return algo
	}
	switch complexity {
	case Simple:
		return model.AlgorithmGenetic
	case Medium:
		return model.AlgorithmHybridGenetic
	default:
		return model.AlgorithmHybridGenetic
	}
}

func run(algo model.Algorithm, stocks []model.Stock, orders []model.Order, config model.Config) model.CuttingResult {
	switch algo {
	case model.AlgorithmFirstFit:
		return algorithm.FirstFit(stocks, orders, config)
	case model.AlgorithmBestFit:
		return algorithm.BestFit(stocks, orders, config)
	case model.AlgorithmBottomLeft:
		return algorithm.BottomLeftFill(stocks, orders, config)
	case model.AlgorithmGenetic:
		return algorithm.GeneticSearch(stocks, orders, config)
	case model.AlgorithmSimulatedAnnealing:
		return algorithm.SimulatedAnnealing(stocks, orders, config)
	case model.AlgorithmHybridGenetic:
		return algorithm.HybridGeneticTabu(stocks, orders, config)
	default:
		return algorithm.GeneticSearch(stocks, orders, config)
	}
}

// emptyResult is the immediate-success result for an empty order set: zero
// placements, zero used stocks, efficiency 0, waste 100 (per §8's boundary
// behaviour).
func emptyResult(algo model.Algorithm) model.CuttingResult {
	return model.CuttingResult{
		WastePercentage: 100,
		AlgorithmUsed:   algo,
		Metadata:        map[string]any{"run_id": uuid.New().String()},
	}
}

// Optimize is the dispatcher's single entry point: §4.D's seven steps in
// order. It either returns a validated CuttingResult or fails with exactly
// one *model.Error.
func Optimize(stocks []model.Stock, orders []model.Order, config model.Config) (model.CuttingResult, error) {
	start := time.Now()

	if err := validate.Inputs(stocks, orders, config); err != nil {
		return model.CuttingResult{}, err
	}
	if len(orders) == 0 {
		return emptyResult(Select(Simple, config.Algorithm)), nil
	}

	cap := config.MaxExpandedPerOrder
	if cap <= 0 {
		cap = placement.DefaultExpansionCap
	}
	expanded := placement.Expand(orders, cap)
	complexity := Classify(len(expanded), len(orders))
	algo := Select(complexity, config.Algorithm)

	runID := uuid.New().String()

	result := run(algo, stocks, orders, config)
	result.ComputationTime = time.Since(start)
	result = result.WithMetadata("complexity_class", complexity.String())
	result = result.WithMetadata("run_id", runID)

	if err := validate.Result(result, stocks, orders, config); err != nil {
		fallback := algorithm.FirstFit(stocks, orders, config)
		fallback.ComputationTime = time.Since(start)
		fallback = fallback.WithMetadata("complexity_class", complexity.String())
		fallback = fallback.WithMetadata("run_id", runID)
		fallback = fallback.WithMetadata("degraded", true)
		fallback = fallback.WithMetadata("degraded_reason", err.Error())
		fallback = fallback.WithMetadata("original_algorithm", string(algo))

		if fallbackErr := validate.Result(fallback, stocks, orders, config); fallbackErr != nil {
			return model.CuttingResult{}, model.WrapOptimizationError(
				"result failed strict validation and the first-fit fallback also failed validation", fallbackErr)
		}
		return fallback, nil
	}

	return result, nil
}
