package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Search holds node budgets and the distance bands used for tier selection.
// Distances are in cells.
type Search struct {
	MaxNodesPF       int `yaml:"max_nodes_pf"`
	MaxNodesPE       int `yaml:"max_nodes_pe"`
	MaxNodesOnRefine int `yaml:"max_nodes_on_refine"`

	DetailedDistance    float32 `yaml:"detailed_distance"`
	EstimateDistance    float32 `yaml:"estimate_distance"`
	MinDetailedDistance float32 `yaml:"min_detailed_distance"`
	MinEstimateDistance float32 `yaml:"min_estimate_distance"`

	// MaxRetries bounds the waypoint retry loop.
	MaxRetries int `yaml:"max_retries"`
}

// Estimator configures the two coarse estimators.
type Estimator struct {
	MedResBlockSize int `yaml:"med_res_block_size"`
	LowResBlockSize int `yaml:"low_res_block_size"`

	// SquaresPerUpdate is the per-tick rebuild budget in cells.
	SquaresPerUpdate int `yaml:"squares_per_update"`

	// Workers bounds precomputation parallelism (0 = GOMAXPROCS).
	Workers int `yaml:"workers"`
}

// HeatMap configures congestion heat.
type HeatMap struct {
	Enabled      bool    `yaml:"enabled"`
	DecayPerTick float32 `yaml:"decay_per_tick"`
}

// Cache configures the precomputed block-cost cache. Empty values disable a backend.
type Cache struct {
	Dir string `yaml:"dir"`
	DSN string `yaml:"dsn"`
}

// Pathing holds all configuration for the path planner.
type Pathing struct {
	LogLevel  string    `yaml:"log_level"`
	Search    Search    `yaml:"search"`
	Estimator Estimator `yaml:"estimator"`
	HeatMap   HeatMap   `yaml:"heat_map"`
	Cache     Cache     `yaml:"cache"`
}

// DefaultPathing returns Pathing config with sensible defaults.
func DefaultPathing() Pathing {
	return Pathing{
		LogLevel: "info",
		Search: Search{
			MaxNodesPF:          65536,
			MaxNodesPE:          65536,
			MaxNodesOnRefine:    2048,
			DetailedDistance:    25,
			EstimateDistance:    55,
			MinDetailedDistance: 12,
			MinEstimateDistance: 40,
			MaxRetries:          4,
		},
		Estimator: Estimator{
			MedResBlockSize:  8,
			LowResBlockSize:  32,
			SquaresPerUpdate: 600,
		},
		HeatMap: HeatMap{
			Enabled:      true,
			DecayPerTick: 1.0,
		},
	}
}

// Validate reports settings the planner cannot work with.
func (p Pathing) Validate() error {
	if p.Estimator.MedResBlockSize <= 0 || p.Estimator.LowResBlockSize <= 0 {
		return fmt.Errorf("estimator block sizes must be positive (med=%d low=%d)",
			p.Estimator.MedResBlockSize, p.Estimator.LowResBlockSize)
	}
	if p.Search.MaxNodesPF <= 0 || p.Search.MaxNodesPE <= 0 || p.Search.MaxNodesOnRefine <= 0 {
		return fmt.Errorf("node budgets must be positive")
	}
	if p.Search.DetailedDistance >= p.Search.EstimateDistance {
		return fmt.Errorf("detailed_distance (%v) must be below estimate_distance (%v)",
			p.Search.DetailedDistance, p.Search.EstimateDistance)
	}
	if p.Search.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative")
	}
	return nil
}

// LoadPathing loads planner config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadPathing(path string) (Pathing, error) {
	cfg := DefaultPathing()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}

	return cfg, nil
}
