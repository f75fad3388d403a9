package model

import "time"

// Config carries every option the dispatcher and algorithms recognize. It
// is passed by value and is treated as immutable for the duration of one
// optimize call.
type Config struct {
	AllowRotation      bool
	CuttingWidth       float64 // kerf, clearance enforced between cuts
	MinWasteSize       float64 // reporting-only threshold, ignored by placement
	MaxComputationTime time.Duration
	PrioritizeOrders   bool
	Algorithm          Algorithm
	PlacementPrecision float64
	GroupByMaterial    bool
	GroupByThickness   bool

	// Algorithm-specific knobs. Zero values mean "let auto-scaling decide"
	// wherever the algorithm supports it.
	AutoScale         bool
	PopulationSize    int
	Generations       int
	MutationRate      float64
	CrossoverRate     float64
	EliteSize         int
	TournamentSize    int
	EarlyStopPatience int
	InitialTemp       float64
	MinTemp           float64
	CoolingRate       float64
	IterationsPerTemp int
	IslandCount       int
	MigrationInterval int
	TabuTenure        int
	TabuInterval      int

	// Seed seeds the metaheuristics' random number generator, making them
	// reproducible. Zero is treated as seed 1, so an unseeded run is
	// deterministic too; the greedy algorithms are deterministic regardless.
	Seed int64

	// MaxExpandedPerOrder caps how many individual placements one order's
	// Quantity expands into, guarding against combinatorial blow-up. Zero
	// means "use the package default" (see placement.DefaultExpansionCap).
	MaxExpandedPerOrder int
}

// DefaultConfig returns sane defaults matching the reference behaviour:
// rotation allowed, no kerf, auto-selected algorithm, priority ordering on,
// and auto-scaled metaheuristic parameters.
func DefaultConfig() Config {
	return Config{
		AllowRotation:      true,
		CuttingWidth:       0,
		MinWasteSize:       0,
		MaxComputationTime: 30 * time.Second,
		PrioritizeOrders:   true,
		Algorithm:          AlgorithmAuto,
		PlacementPrecision: 1.0,
		GroupByMaterial:    true,
		GroupByThickness:   true,
		AutoScale:          true,
		MutationRate:       0.1,
		CrossoverRate:      0.8,
		TournamentSize:     3,
		EarlyStopPatience:  15,
		InitialTemp:        100,
		MinTemp:            0.01,
		CoolingRate:        0.95,
		TabuTenure:         10,
		TabuInterval:       5,
		MigrationInterval:  10,
	}
}

// Validate checks the configuration-level invariants §4.V requires before
// any placement runs: kerf ≥ 0, precision > 0, timeout > 0.
func (c Config) Validate() error {
	if c.CuttingWidth < 0 {
		return InvalidDimensionsError("cutting_width must be non-negative")
	}
	if c.PlacementPrecision <= 0 {
		return InvalidDimensionsError("placement_precision must be positive")
	}
	if c.MaxComputationTime <= 0 {
		return InvalidDimensionsError("max_computation_time must be positive")
	}
	if c.MinWasteSize < 0 {
		return InvalidDimensionsError("min_waste_size must be non-negative")
	}
	return nil
}
