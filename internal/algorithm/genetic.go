package algorithm

import (
	"context"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wizenpainter-vitrari/surfcut/internal/evaluate"
	"github.com/wizenpainter-vitrari/surfcut/internal/placement"
	"github.com/wizenpainter-vitrari/surfcut/model"
)

// gene is one placement decision: which stock to try, where, and at what
// rotation. Its position in a chromosome always refers to the same
// expanded placement unit — chromosomes never permute order, only the
// decisions attached to each unit, which keeps single-point crossover and
// per-gene mutation well-defined.
type gene struct {
	stockIdx int
	x, y     float64
	rotIdx   int // index into the unit's placement.Rotations() slice
}

type chromosome []gene

// geneticContext bundles the read-only problem data every chromosome
// operation needs, so decode/mutate/crossover don't thread long argument
// lists.
type geneticContext struct {
	stocks     []model.Stock
	expanded   []placement.Placement
	rotations  [][]model.Shape // per expanded unit, precomputed via placement.Rotations
	compatible [][]int         // per expanded unit, indices into stocks that are material/thickness compatible
	kerf       float64
}

func newGeneticContext(stocks []model.Stock, expanded []placement.Placement, allowRotation bool, kerf float64) *geneticContext {
	ctx := &geneticContext{stocks: stocks, expanded: expanded, kerf: kerf}
	ctx.rotations = make([][]model.Shape, len(expanded))
	ctx.compatible = make([][]int, len(expanded))
	for i, pl := range expanded {
		ctx.rotations[i] = placement.Rotations(pl.Template, allowRotation)
		for si, s := range stocks {
			if s.CompatibleWith(pl.Order.Material, pl.Order.Thickness, pl.Order.Tolerance) {
				ctx.compatible[i] = append(ctx.compatible[i], si)
			}
		}
	}
	return ctx
}

// decode builds a feasible placement set from a chromosome: genes are
// honoured when feasible, repaired via a bottom-left search on the same
// (or, failing that, any compatible) stock when not, and dropped when no
// stock can accommodate the unit at all.
func (ctx *geneticContext) decode(c chromosome) ([]model.PlacedShape, map[placementKey]bool) {
	occupancies := make([]*placement.Occupancy, len(ctx.stocks))
	for i, s := range ctx.stocks {
		occupancies[i] = placement.NewOccupancy(s, ctx.kerf)
	}

	var placed []model.PlacedShape
	placedIndex := map[placementKey]bool{}
	sequence := make([]int, len(ctx.stocks))

	for i, pl := range ctx.expanded {
		compat := ctx.compatible[i]
		if len(compat) == 0 {
			continue
		}
		g := c[i]
		rotations := ctx.rotations[i]
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

func (ctx *geneticContext) placeGene(g gene, rot model.Shape, compat []int, occupancies []*placement.Occupancy) (int, model.Shape, bool) {
	stockIdx := g.stockIdx
	inCompat := false
	for _, si := range compat {
		if si == stockIdx {
			inCompat = true
			break
		}
	}
	if !inCompat {
		stockIdx = compat[0]
	}

	occ := occupancies[stockIdx]
	at := rot.At(g.x, g.y)
	if occ.Feasible(at) {
		return stockIdx, at, true
	}
	for _, pt := range occ.BottomLeftCandidates(rot) {
		candidate := rot.At(pt.X, pt.Y)
		if occ.Feasible(candidate) {
			return stockIdx, candidate, true
		}
	}
	for _, si := range compat {
		if si == stockIdx {
			continue
		}
		occ := occupancies[si]
		for _, pt := range occ.BottomLeftCandidates(rot) {
			candidate := rot.At(pt.X, pt.Y)
			if occ.Feasible(candidate) {
				return si, candidate, true
			}
		}
	}
	return 0, model.Shape{}, false
}

func (ctx *geneticContext) fitness(c chromosome) float64 {
	placed, _ := ctx.decode(c)
	return evaluate.Fitness(placed, stocksByID(ctx.stocks))
}

func randomGene(rng *rand.Rand, ctx *geneticContext, unitIdx int) gene {
	compat := ctx.compatible[unitIdx]
	if len(compat) == 0 {
		return gene{}
	}
	stockIdx := compat[rng.Intn(len(compat))]
	stock := ctx.stocks[stockIdx]
	rotations := ctx.rotations[unitIdx]
	rotIdx := rng.Intn(len(rotations))
	x := rng.Float64() * stock.Width
	y := rng.Float64() * stock.Height
	return gene{stockIdx: stockIdx, x: x, y: y, rotIdx: rotIdx}
}

func randomChromosome(rng *rand.Rand, ctx *geneticContext) chromosome {
	c := make(chromosome, len(ctx.expanded))
	for i := range ctx.expanded {
		c[i] = randomGene(rng, ctx, i)
	}
	return c
}

// semiRandomChromosome fixes each unit to its first compatible stock
// (mirroring the material grouping a greedy pass would settle on) while
// still randomizing position and rotation, landing between the greedy and
// fully random extremes.
func semiRandomChromosome(rng *rand.Rand, ctx *geneticContext) chromosome {
	c := make(chromosome, len(ctx.expanded))
	for i := range ctx.expanded {
		compat := ctx.compatible[i]
		if len(compat) == 0 {
			c[i] = gene{}
			continue
		}
		stockIdx := compat[0]
		stock := ctx.stocks[stockIdx]
		rotations := ctx.rotations[i]
		c[i] = gene{
			stockIdx: stockIdx,
			x:        rng.Float64() * stock.Width,
			y:        rng.Float64() * stock.Height,
			rotIdx:   rng.Intn(len(rotations)),
		}
	}
	return c
}

// greedyChromosome encodes the genes BottomLeftFill actually chooses,
// falling back to a random gene for any unit it could not place (the
// repair step in decode will then try its own luck with that gene).
func greedyChromosome(rng *rand.Rand, ctx *geneticContext) chromosome {
	c := make(chromosome, len(ctx.expanded))
	occupancies := make([]*placement.Occupancy, len(ctx.stocks))
	for i, s := range ctx.stocks {
		occupancies[i] = placement.NewOccupancy(s, ctx.kerf)
	}

	for i, pl := range ctx.expanded {
		compat := ctx.compatible[i]
		if len(compat) == 0 {
			c[i] = gene{}
			continue
		}
		placedOne := false
		for _, si := range compat {
			occ := occupancies[si]
			for rotIdx, rot := range ctx.rotations[i] {
				for _, pt := range occ.BottomLeftCandidates(rot) {
					at := rot.At(pt.X, pt.Y)
					if occ.Feasible(at) {
						occ.Place(model.PlacedShape{OrderID: pl.OrderID, StockID: occ.Stock.ID, Shape: at})
						c[i] = gene{stockIdx: si, x: pt.X, y: pt.Y, rotIdx: rotIdx}
						placedOne = true
						break
					}
				}
				if placedOne {
					break
				}
			}
			if placedOne {
				break
			}
		}
		if !placedOne {
			c[i] = randomGene(rng, ctx, i)
		}
	}
	return c
}

func tournamentSelect(rng *rand.Rand, population []chromosome, fitness []float64, size int) chromosome {
	bestIdx := rng.Intn(len(population))
	for i := 1; i < size; i++ {
		idx := rng.Intn(len(population))
		if fitness[idx] > fitness[bestIdx] {
			bestIdx = idx
		}
	}
	return population[bestIdx]
}

func singlePointCrossover(rng *rand.Rand, a, b chromosome, rate float64) (chromosome, chromosome) {
	if len(a) < 2 || rng.Float64() >= rate {
		return append(chromosome{}, a...), append(chromosome{}, b...)
	}
	point := 1 + rng.Intn(len(a)-1)
	childA := append(append(chromosome{}, a[:point]...), b[point:]...)
	childB := append(append(chromosome{}, b[:point]...), a[point:]...)
	return childA, childB
}

func mutate(rng *rand.Rand, c chromosome, ctx *geneticContext, rate float64) {
	for i := range c {
		if rng.Float64() < rate {
			c[i] = randomGene(rng, ctx, i)
		}
	}
}

// GeneticSearch runs the population-based metaheuristic described by
// §4.A2: auto-scaled population/generation/elite counts, a one-third
// greedy / one-third semi-random / one-third fully random initial
// population, tournament selection, single-point crossover, per-gene
// mutation, elitism, and early stopping once the best fitness stalls.
func GeneticSearch(stocks []model.Stock, orders []model.Order, config model.Config) model.CuttingResult {
	start := time.Now()
	expanded := orderedPlacements(orders, config)
	ctx := newGeneticContext(stocks, expanded, config.AllowRotation, config.CuttingWidth)

	complexity := complexityC(len(stocks), len(expanded))
	population, generations, elite := config.PopulationSize, config.Generations, config.EliteSize
	if config.AutoScale || population <= 0 || generations <= 0 || elite <= 0 {
		population, generations, elite = autoScaleGenetic(complexity)
	}
	tournamentSize := config.TournamentSize
	if tournamentSize <= 0 {
		tournamentSize = 3
	}
	crossoverRate := config.CrossoverRate
	if crossoverRate <= 0 {
		crossoverRate = 0.8
	}
	mutationRate := config.MutationRate
	if mutationRate <= 0 {
		mutationRate = 0.1
	}
	patience := config.EarlyStopPatience
	if patience <= 0 {
		patience = 15
	}

	seed := config.Seed
	if seed == 0 {
		seed = 1
	}
	masterRNG := rand.New(rand.NewSource(seed))

	pop := make([]chromosome, population)
	third := population / 3
	for i := 0; i < population; i++ {
		switch {
		case i < third:
			pop[i] = greedyChromosome(masterRNG, ctx)
		case i < 2*third:
			pop[i] = semiRandomChromosome(masterRNG, ctx)
		default:
			pop[i] = randomChromosome(masterRNG, ctx)
		}
	}

	var best chromosome
	bestFitness := -1.0
	stall := 0
	deadline := deadlineFrom(start, config.MaxComputationTime)
	earlyTerminated := false
	generationsCompleted := 0

	for gen := 0; gen < generations; gen++ {
		if pastDeadline(deadline) {
			earlyTerminated = true
			break
		}
		fitness := evaluatePopulation(pop, ctx)
		generationsCompleted = gen + 1

		genBestIdx := 0
		for i, f := range fitness {
			if f > fitness[genBestIdx] {
				genBestIdx = i
			}
		}
		if fitness[genBestIdx] > bestFitness+1e-6 {
			bestFitness = fitness[genBestIdx]
			best = append(chromosome{}, pop[genBestIdx]...)
			stall = 0
		} else {
			stall++
		}
		if stall >= patience {
			break
		}

		next := make([]chromosome, 0, population)
		eliteIdx := topIndices(fitness, elite)
		for _, idx := range eliteIdx {
			next = append(next, append(chromosome{}, pop[idx]...))
		}
		for len(next) < population {
			p1 := tournamentSelect(masterRNG, pop, fitness, tournamentSize)
			p2 := tournamentSelect(masterRNG, pop, fitness, tournamentSize)
			c1, c2 := singlePointCrossover(masterRNG, p1, p2, crossoverRate)
			mutate(masterRNG, c1, ctx, mutationRate)
			next = append(next, c1)
			if len(next) < population {
				mutate(masterRNG, c2, ctx, mutationRate)
				next = append(next, c2)
			}
		}
		pop = next
	}

	if best == nil {
		best = pop[0]
	}
	placed, placedIndex := ctx.decode(best)
	unfulfilled, fulfilledCount := remainingOrders(expanded, placedIndex)
	return buildResult(model.AlgorithmGenetic, placed, unfulfilled, fulfilledCount, stocks, time.Since(start),
		map[string]any{
			"generations_run": generationsCompleted, "population_size": population, "complexity": complexity,
			"early_terminated": earlyTerminated,
		})
}

// evaluatePopulation scores every chromosome concurrently. Decoding is
// deterministic given a chromosome, so no per-worker RNG state is needed
// here — the seeded RNG only matters during initialization and mutation,
// which happen on the single generational loop goroutine.
func evaluatePopulation(pop []chromosome, ctx *geneticContext) []float64 {
	fitness := make([]float64, len(pop))
	g, _ := errgroup.WithContext(context.Background())
	for i := range pop {
		i := i
		g.Go(func() error {
			fitness[i] = ctx.fitness(pop[i])
			return nil
		})
	}
	_ = g.Wait()
	return fitness
}

func topIndices(fitness []float64, n int) []int {
	idx := make([]int, len(fitness))
	for i := range idx {
		idx[i] = i
	}
	for i := 0; i < len(idx); i++ {
		for j := i + 1; j < len(idx); j++ {
			if fitness[idx[j]] > fitness[idx[i]] {
				idx[i], idx[j] = idx[j], idx[i]
			}
		}
	}
	if n > len(idx) {
		n = len(idx)
	}
	return idx[:n]
}
