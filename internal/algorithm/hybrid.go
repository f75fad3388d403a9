package algorithm

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/wizenpainter-vitrari/surfcut/model"
)

// individual is the multi-level chromosome §4.A4 calls for: placement
// genes (stock/position/rotation per unit, shared with the plain GA),
// a cutting-sequence permutation kept separate from gene assignment (as
// in simulated annealing's annealState), and a pattern tag naming the
// pattern-memory signature it was seeded from, if any (crossover children
// start untagged).
type individual struct {
	genes      chromosome
	order      []int
	patternTag string
}

func randomIndividual(rng *rand.Rand, ctx *geneticContext) individual {
	order := make([]int, len(ctx.expanded))
	for i := range order {
		order[i] = i
	}
	rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	return individual{genes: randomChromosome(rng, ctx), order: order}
}

func greedyIndividual(rng *rand.Rand, ctx *geneticContext) individual {
	order := make([]int, len(ctx.expanded))
	for i := range order {
		order[i] = i
	}
	return individual{genes: greedyChromosome(rng, ctx), order: order}
}

func cloneIndividual(ind individual) individual {
	return individual{
		genes:      append(chromosome{}, ind.genes...),
		order:      append([]int{}, ind.order...),
		patternTag: ind.patternTag,
	}
}

func (ctx *geneticContext) evaluateIndividual(ind individual) ([]model.PlacedShape, map[placementKey]bool, float64) {
	placed, placedIndex := ctx.decodeOrdered(annealState{genes: ind.genes, order: ind.order})
	fitness := ctx.annealFitness(annealState{genes: ind.genes, order: ind.order})
	return placed, placedIndex, fitness
}

// patternSignature summarizes which stocks a layout uses, coarse enough
// that structurally similar high-performing layouts collide in the
// pattern memory while materially different ones don't.
func patternSignature(placed []model.PlacedShape) string {
	counts := map[string]int{}
	for _, p := range placed {
		counts[p.StockID]++
	}
	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	sig := ""
	for _, id := range ids {
		sig += fmt.Sprintf("%s:%d|", id, counts[id])
	}
	return sig
}

type patternMemory struct {
	best map[string]individual
	score map[string]float64
}

func newPatternMemory() *patternMemory {
	return &patternMemory{best: map[string]individual{}, score: map[string]float64{}}
}

func (m *patternMemory) consider(sig string, ind individual, fitness float64) {
	if sig == "" {
		return
	}
	if fitness > m.score[sig] {
		m.score[sig] = fitness
		m.best[sig] = cloneIndividual(ind)
	}
}

func (m *patternMemory) sample(rng *rand.Rand) (individual, bool) {
	if len(m.best) == 0 {
		return individual{}, false
	}
	keys := make([]string, 0, len(m.best))
	for k := range m.best {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	key := keys[rng.Intn(len(keys))]
	seeded := cloneIndividual(m.best[key])
	seeded.patternTag = key
	return seeded, true
}

// orderMutate swaps two positions in the cutting-sequence permutation,
// the only order perturbation that always yields a valid permutation.
func orderMutate(rng *rand.Rand, order []int, rate float64) {
	if rng.Float64() >= rate || len(order) < 2 {
		return
	}
	i, j := rng.Intn(len(order)), rng.Intn(len(order))
	order[i], order[j] = order[j], order[i]
}

type tabuMove struct {
	kind int
	unit int
}

// tabuRefine runs a short local search around ind: at each step it samples
// six neighbours, picks the best one whose tabu key is not on the tabu
// list (or is, but beats the best-ever solution — the aspiration
// criterion), and records that key on a FIFO tabu list of the given
// tenure. A tabu key is the neighbour's slot (0-5) within the step's
// sample; it does not identify the unit or the kind of move the neighbour
// applied.
func tabuRefine(rng *rand.Rand, ctx *geneticContext, ind individual, bestFitness float64, steps, tenure int) individual {
	current := cloneIndividual(ind)
	_, _, currentFitness := ctx.evaluateIndividual(current)

	tabu := make([]tabuMove, 0, tenure)
	isTabu := func(mv tabuMove) bool {
		for _, t := range tabu {
			if t == mv {
				return true
			}
		}
		return false
	}
	pushTabu := func(mv tabuMove) {
		tabu = append(tabu, mv)
		if len(tabu) > tenure {
			tabu = tabu[1:]
		}
	}

	for step := 0; step < steps; step++ {
		const candidates = 6
		var bestCand individual
		var bestCandFitness float64
		var bestMove tabuMove
		found := false

		for i := 0; i < candidates; i++ {
			state := neighbor(rng, annealState{genes: current.genes, order: current.order}, ctx)
			candidate := individual{genes: state.genes, order: state.order, patternTag: current.patternTag}
			_, _, fitness := ctx.evaluateIndividual(candidate)
			mv := tabuMove{kind: i % 4, unit: i}

			if isTabu(mv) && fitness <= bestFitness {
				continue
			}
			if !found || fitness > bestCandFitness {
				bestCand, bestCandFitness, bestMove, found = candidate, fitness, mv, true
			}
		}
		if !found {
			break
		}
		current = bestCand
		currentFitness = bestCandFitness
		pushTabu(bestMove)
		if currentFitness > bestFitness {
			bestFitness = currentFitness
		}
	}
	return current
}

type island struct {
	population []individual
	fitness    []float64
}

// HybridGeneticTabu runs §4.A4: an island-model genetic algorithm whose
// individuals carry both placement genes and a cutting-sequence
// permutation, migrating elites between islands every 10 generations,
// periodically refining elites with tabu-search local search every 5
// generations, and recording high-performing layout signatures in a
// shared pattern memory that seeds a fraction of future individuals.
func HybridGeneticTabu(stocks []model.Stock, orders []model.Order, config model.Config) model.CuttingResult {
	start := time.Now()
	expanded := orderedPlacements(orders, config)
	ctx := newGeneticContext(stocks, expanded, config.AllowRotation, config.CuttingWidth)
	complexity := complexityC(len(stocks), len(expanded))

	population, generations, elite := autoScaleGenetic(complexity)
	islandCount := config.IslandCount
	if islandCount <= 0 {
		islandCount = clampInt(complexity/100+2, 2, 4)
	}
	migrationInterval := config.MigrationInterval
	if migrationInterval <= 0 {
		migrationInterval = 10
	}
	tabuInterval := config.TabuInterval
	if tabuInterval <= 0 {
		tabuInterval = 5
	}
	tabuTenure := config.TabuTenure
	if tabuTenure <= 0 {
		tabuTenure = 10
	}
	mutationRate := config.MutationRate
	if mutationRate <= 0 {
		mutationRate = 0.1
	}
	crossoverRate := config.CrossoverRate
	if crossoverRate <= 0 {
		crossoverRate = 0.8
	}
	tournamentSize := config.TournamentSize
	if tournamentSize <= 0 {
		tournamentSize = 3
	}

	perIsland := maxInt(population/islandCount, 4)

	seed := config.Seed
	if seed == 0 {
		seed = 1
	}
	rng := rand.New(rand.NewSource(seed))
	memory := newPatternMemory()

	islands := make([]island, islandCount)
	for i := range islands {
		pop := make([]individual, perIsland)
		third := perIsland / 3
		for j := 0; j < perIsland; j++ {
			switch {
			case j < third:
				pop[j] = greedyIndividual(rng, ctx)
			default:
				pop[j] = randomIndividual(rng, ctx)
			}
		}
		islands[i] = island{population: pop, fitness: make([]float64, perIsland)}
	}

	var globalBest individual
	globalBestFitness := -1.0
	deadline := deadlineFrom(start, config.MaxComputationTime)
	earlyTerminated := false
	generationsCompleted := 0

	for gen := 0; gen < generations; gen++ {
		if pastDeadline(deadline) {
			earlyTerminated = true
			break
		}
		generationsCompleted = gen + 1
		for idx := range islands {
			isl := &islands[idx]
			for j, ind := range isl.population {
				placed, _, fitness := ctx.evaluateIndividual(ind)
				isl.fitness[j] = fitness
				memory.consider(patternSignature(placed), ind, fitness)
				if fitness > globalBestFitness {
					globalBestFitness = fitness
					globalBest = cloneIndividual(ind)
				}
			}

			if gen%tabuInterval == 0 {
				eliteIdx := topIndividualIndices(isl.fitness, elite)
				for _, ei := range eliteIdx {
					refined := tabuRefine(rng, ctx, isl.population[ei], globalBestFitness, 10, tabuTenure)
					_, _, refinedFitness := ctx.evaluateIndividual(refined)
					if refinedFitness > isl.fitness[ei] {
						isl.population[ei] = refined
						isl.fitness[ei] = refinedFitness
						if refinedFitness > globalBestFitness {
							globalBestFitness = refinedFitness
							globalBest = cloneIndividual(refined)
						}
					}
				}
			}

			next := make([]individual, 0, perIsland)
			eliteIdx := topIndividualIndices(isl.fitness, elite)
			for _, ei := range eliteIdx {
				next = append(next, cloneIndividual(isl.population[ei]))
			}
			for len(next) < perIsland {
				p1 := tournamentSelectIndividual(rng, isl.population, isl.fitness, tournamentSize)
				p2 := tournamentSelectIndividual(rng, isl.population, isl.fitness, tournamentSize)
				child := crossoverIndividual(rng, p1, p2, crossoverRate)
				mutate(rng, child.genes, ctx, mutationRate)
				orderMutate(rng, child.order, mutationRate)
				if rng.Float64() < 0.05 {
					if seeded, ok := memory.sample(rng); ok {
						child = seeded
						mutate(rng, child.genes, ctx, mutationRate)
					}
				}
				next = append(next, child)
			}
			isl.population = next
		}

		if gen > 0 && gen%migrationInterval == 0 && islandCount > 1 {
			// Refresh fitness so migrate ranks the populations just built.
			for idx := range islands {
				for j, ind := range islands[idx].population {
					_, _, islands[idx].fitness[j] = ctx.evaluateIndividual(ind)
				}
			}
			migrate(rng, islands)
		}
	}

	placed, placedIndex := ctx.decodeOrdered(annealState{genes: globalBest.genes, order: globalBest.order})
	unfulfilled, fulfilledCount := remainingOrders(expanded, placedIndex)
	return buildResult(model.AlgorithmHybridGenetic, placed, unfulfilled, fulfilledCount, stocks, time.Since(start),
		map[string]any{
			"islands":          islandCount,
			"generations_run":  generationsCompleted,
			"complexity":       complexity,
			"pattern_memory_n": len(memory.best),
			"early_terminated": earlyTerminated,
		})
}

func topIndividualIndices(fitness []float64, n int) []int {
	idx := make([]int, len(fitness))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool { return fitness[idx[i]] > fitness[idx[j]] })
	if n > len(idx) {
		n = len(idx)
	}
	return idx[:n]
}

func tournamentSelectIndividual(rng *rand.Rand, pop []individual, fitness []float64, size int) individual {
	bestIdx := rng.Intn(len(pop))
	for i := 1; i < size; i++ {
		idx := rng.Intn(len(pop))
		if fitness[idx] > fitness[bestIdx] {
			bestIdx = idx
		}
	}
	return pop[bestIdx]
}

func crossoverIndividual(rng *rand.Rand, a, b individual, rate float64) individual {
	genesA, genesB := singlePointCrossover(rng, a.genes, b.genes, rate)
	order := a.order
	if rng.Float64() < 0.5 {
		order = b.order
	}
	genes := genesA
	if rng.Float64() < 0.5 {
		genes = genesB
	}
	return individual{genes: genes, order: append([]int{}, order...)}
}

// migrate moves each island's single best individual to the next island
// in ring order, replacing that island's current worst.
func migrate(rng *rand.Rand, islands []island) {
	_ = rng
	incoming := make([]individual, len(islands))
	for i, isl := range islands {
		bestIdx := 0
		for j, f := range isl.fitness {
			if f > isl.fitness[bestIdx] {
				bestIdx = j
			}
		}
		incoming[i] = cloneIndividual(isl.population[bestIdx])
	}
	for i := range islands {
		dest := (i + 1) % len(islands)
		isl := &islands[dest]
		worstIdx := 0
		for j, f := range isl.fitness {
			if f < isl.fitness[worstIdx] {
				worstIdx = j
			}
		}
		isl.population[worstIdx] = incoming[i]
	}
}
