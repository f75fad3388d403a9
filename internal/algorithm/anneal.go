package algorithm

import (
	"math"
	"math/rand"
	"time"

	"github.com/wizenpainter-vitrari/surfcut/internal/evaluate"
	"github.com/wizenpainter-vitrari/surfcut/internal/placement"
	"github.com/wizenpainter-vitrari/surfcut/model"
)

// annealState is a full candidate solution for simulated annealing: a
// chromosome of per-unit placement decisions plus the order in which
// units are attempted during decode. Keeping the processing order
// separate from the per-unit decisions lets the "reorder" neighbour move
// perturb cutting sequence without disturbing the stock/position choices
// the "relocate" and "rotate" moves own.
type annealState struct {
	genes chromosome
	order []int
}

func (ctx *geneticContext) decodeOrdered(s annealState) ([]model.PlacedShape, map[placementKey]bool) {
	occupancies := make([]*placement.Occupancy, len(ctx.stocks))
	for i, stock := range ctx.stocks {
		occupancies[i] = placement.NewOccupancy(stock, ctx.kerf)
	}

	var placed []model.PlacedShape
	placedIndex := map[placementKey]bool{}
	sequence := make([]int, len(ctx.stocks))

	for _, unit := range s.order {
		compat := ctx.compatible[unit]
		if len(compat) == 0 {
			continue
		}
		pl := ctx.expanded[unit]
		g := s.genes[unit]
		rotations := ctx.rotations[unit]
		rot := rotations[g.rotIdx%len(rotations)]

		stockIdx, at, ok := ctx.placeGene(g, rot, compat, occupancies)
		if !ok {
			continue
		}
		occ := occupancies[stockIdx]
		occ.Place(model.PlacedShape{OrderID: pl.OrderID, StockID: occ.Stock.ID, Shape: at})
		sequence[stockIdx]++
		last := occ.Placed()[len(occ.Placed())-1]
		last.CuttingSequence = sequence[stockIdx]
		occ.Placed()[len(occ.Placed())-1] = last
		placed = append(placed, last)
		placedIndex[placementKey{pl.OrderID, pl.Index}] = true
	}
	return placed, placedIndex
}

// annealFitness is the higher-is-better scalar the genetic-style
// components (hybrid's tabu aspiration, pattern memory scoring) compare
// individuals by; it is unrelated to the annealing cost below.
func (ctx *geneticContext) annealFitness(s annealState) float64 {
	placed, _ := ctx.decodeOrdered(s)
	return evaluate.Fitness(placed, stocksByID(ctx.stocks))
}

// annealCost is §4.A3's literal lower-is-better cost, used only by
// SimulatedAnnealing's acceptance and best-tracking: waste_fraction +
// 0.5*unplaced_count + 0.1*stocks_used, so the annealer is directly
// rewarded for fulfilling more units and for using fewer stocks, not just
// for a higher used-area/used-stock-area ratio.
func (ctx *geneticContext) annealCost(s annealState) float64 {
	placed, placedIndex := ctx.decodeOrdered(s)
	unplaced := len(ctx.expanded) - len(placedIndex)
	return evaluate.AnnealingCost(placed, stocksByID(ctx.stocks), unplaced)
}

func initialAnnealState(rng *rand.Rand, ctx *geneticContext) annealState {
	genes := greedyChromosome(rng, ctx)
	order := make([]int, len(ctx.expanded))
	for i := range order {
		order[i] = i
	}
	return annealState{genes: genes, order: order}
}

func cloneState(s annealState) annealState {
	genes := append(chromosome{}, s.genes...)
	order := append([]int{}, s.order...)
	return annealState{genes: genes, order: order}
}

// neighbor applies exactly one of relocate/swap/rotate/reorder to a copy
// of s and returns it, per §4.A3's move set.
func neighbor(rng *rand.Rand, s annealState, ctx *geneticContext) annealState {
	next := cloneState(s)
	switch rng.Intn(4) {
	case 0: // relocate: randomize one unit's stock/position
		unit := rng.Intn(len(next.genes))
		next.genes[unit] = randomGene(rng, ctx, unit)
	case 1: // swap: exchange processing order of two units
		if len(next.order) >= 2 {
			i := rng.Intn(len(next.order))
			j := rng.Intn(len(next.order))
			next.order[i], next.order[j] = next.order[j], next.order[i]
		}
	case 2: // rotate: cycle one unit's rotation choice
		unit := rng.Intn(len(next.genes))
		rotations := ctx.rotations[unit]
		if len(rotations) > 1 {
			next.genes[unit].rotIdx = (next.genes[unit].rotIdx + 1) % len(rotations)
		}
	default: // reorder: reverse a random subsequence of the processing order
		if len(next.order) >= 2 {
			i := rng.Intn(len(next.order))
			j := rng.Intn(len(next.order))
			if i > j {
				i, j = j, i
			}
			for i < j {
				next.order[i], next.order[j] = next.order[j], next.order[i]
				i++
				j--
			}
		}
	}
	return next
}

// SimulatedAnnealing runs §4.A3's single-solution metaheuristic: a
// greedy-built initial state, geometric cooling from an auto-scaled T0
// down to Tmin, Metropolis acceptance of worsening moves, and best-ever
// tracking independent of the annealing trajectory's current state.
func SimulatedAnnealing(stocks []model.Stock, orders []model.Order, config model.Config) model.CuttingResult {
	start := time.Now()
	expanded := orderedPlacements(orders, config)
	ctx := newGeneticContext(stocks, expanded, config.AllowRotation, config.CuttingWidth)
	complexity := complexityC(len(stocks), len(expanded))

	autoT0, autoTMin, autoMaxIter, autoIterPerTemp := autoScaleAnnealing(complexity)
	t0, tMin, maxIter, iterPerTemp := config.InitialTemp, config.MinTemp, autoMaxIter, config.IterationsPerTemp
	if config.AutoScale || t0 <= 0 {
		t0 = autoT0
	}
	if config.AutoScale || tMin <= 0 {
		tMin = autoTMin
	}
	if config.AutoScale || iterPerTemp <= 0 {
		iterPerTemp = autoIterPerTemp
	}
	cooling := config.CoolingRate
	if cooling <= 0 || cooling >= 1 {
		cooling = 0.95
	}

	seed := config.Seed
	if seed == 0 {
		seed = 1
	}
	rng := rand.New(rand.NewSource(seed))

	current := initialAnnealState(rng, ctx)
	currentCost := ctx.annealCost(current)
	best := cloneState(current)
	bestCost := currentCost

	deadline := deadlineFrom(start, config.MaxComputationTime)
	earlyTerminated := false

	temperature := t0
	iterations := 0
	for temperature > tMin && iterations < maxIter {
		if pastDeadline(deadline) {
			earlyTerminated = true
			break
		}
		for i := 0; i < iterPerTemp && iterations < maxIter; i++ {
			iterations++
			candidate := neighbor(rng, current, ctx)
			candidateCost := ctx.annealCost(candidate)

			// Metropolis: a lower-cost (improving) move is always accepted;
			// a worsening move is accepted with probability exp(-delta/T).
			delta := candidateCost - currentCost
			if delta < 0 || rng.Float64() < math.Exp(-delta/temperature) {
				current = candidate
				currentCost = candidateCost
				if currentCost < bestCost {
					best = cloneState(current)
					bestCost = currentCost
				}
			}
		}
		temperature *= cooling
	}

	placed, placedIndex := ctx.decodeOrdered(best)
	unfulfilled, fulfilledCount := remainingOrders(expanded, placedIndex)
	return buildResult(model.AlgorithmSimulatedAnnealing, placed, unfulfilled, fulfilledCount, stocks, time.Since(start),
		map[string]any{
			"iterations_run": iterations, "final_temperature": temperature, "complexity": complexity,
			"early_terminated": earlyTerminated,
		})
}
