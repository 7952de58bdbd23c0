// Package config handles configuration loading and shared data structures.
package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/trsav/biomass-supply-chain/internal/chain"
	"github.com/trsav/biomass-supply-chain/internal/render"

	"gopkg.in/yaml.v3"
)

// Config represents the root configuration file structure.
type Config struct {
	// Seed feeds every random draw of a run; runs with the same seed and
	// config produce the same instance.
	Seed      int64  `yaml:"seed,omitempty"`
	OutputDir string `yaml:"output_dir,omitempty"`

	Basic   BasicScenario   `yaml:"basic,omitempty"`
	Biomass BiomassScenario `yaml:"biomass,omitempty"`
	Render  Render          `yaml:"render,omitempty"`
}

// BasicScenario configures the two-echelon supply chain model.
type BasicScenario struct {
	SupplyNodes int     `yaml:"supply_nodes,omitempty"`
	DemandNodes int     `yaml:"demand_nodes,omitempty"`
	DemandLimit float64 `yaml:"demand_limit,omitempty"`
	CostLimit   float64 `yaml:"cost_limit,omitempty"`
	Flexibility float64 `yaml:"flexibility,omitempty"`
}

// BiomassScenario configures the three-echelon supply chain model.
type BiomassScenario struct {
	ProductionNodes int `yaml:"production_nodes,omitempty"`
	ProcessingNodes int `yaml:"processing_nodes,omitempty"`
	DemandNodes     int `yaml:"demand_nodes,omitempty"`

	DemandLimit         float64 `yaml:"demand_limit,omitempty"`
	ProductionLimit     float64 `yaml:"production_limit,omitempty"`
	ProductionCostLimit float64 `yaml:"production_cost_limit,omitempty"`
	ProcessingLimit     float64 `yaml:"processing_limit,omitempty"`
	ProcessingCostLimit float64 `yaml:"processing_cost_limit,omitempty"`
}

// Render configures the flow map output.
type Render struct {
	Width       int     `yaml:"width,omitempty"`
	Height      int     `yaml:"height,omitempty"`
	Supersample int     `yaml:"supersample,omitempty"`
	Quality     float32 `yaml:"quality,omitempty"`
}

// Default returns the configuration used when no file is present. The node
// counts are kept modest so a default run solves in well under a second.
func Default() *Config {
	return &Config{
		Seed:      100000,
		OutputDir: "output",
		Basic: BasicScenario{
			SupplyNodes: 6,
			DemandNodes: 20,
			DemandLimit: 1,
			CostLimit:   1,
			Flexibility: 0.5,
		},
		Biomass: BiomassScenario{
			ProductionNodes:     6,
			ProcessingNodes:     3,
			DemandNodes:         10,
			DemandLimit:         1,
			ProductionLimit:     5,
			ProductionCostLimit: 2,
			ProcessingLimit:     10,
			ProcessingCostLimit: 1,
		},
		Render: Render{
			Width:       1600,
			Height:      800,
			Supersample: 2,
			Quality:     90,
		},
	}
}

// Load reads and parses the YAML configuration file from the specified
// path. A missing file yields the defaults, so the commands run without any
// setup; other read failures and malformed YAML are returned to the caller.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Params converts the block into builder parameters.
func (s BasicScenario) Params() chain.BasicParams {
	return chain.BasicParams{
		SupplyNodes: s.SupplyNodes,
		DemandNodes: s.DemandNodes,
		DemandLimit: s.DemandLimit,
		CostLimit:   s.CostLimit,
		Flexibility: s.Flexibility,
	}
}

// Params converts the block into builder parameters.
func (s BiomassScenario) Params() chain.BiomassParams {
	return chain.BiomassParams{
		ProductionNodes:     s.ProductionNodes,
		ProcessingNodes:     s.ProcessingNodes,
		DemandNodes:         s.DemandNodes,
		DemandLimit:         s.DemandLimit,
		ProductionLimit:     s.ProductionLimit,
		ProductionCostLimit: s.ProductionCostLimit,
		ProcessingLimit:     s.ProcessingLimit,
		ProcessingCostLimit: s.ProcessingCostLimit,
	}
}

// Style converts the block into renderer settings.
func (r Render) Style() render.MapStyle {
	return render.MapStyle{
		Width:       r.Width,
		Height:      r.Height,
		Supersample: r.Supersample,
		Quality:     r.Quality,
	}
}
