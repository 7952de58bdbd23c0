package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "no-such-config.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := Default()
	if *cfg != *want {
		t.Errorf("got %+v, want defaults %+v", cfg, want)
	}
}

func TestLoadOverridesKeepDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `
seed: 42
output_dir: runs
basic:
  supply_nodes: 3
biomass:
  processing_limit: 25
render:
  width: 640
  height: 320
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Seed != 42 || cfg.OutputDir != "runs" {
		t.Errorf("top level not overridden: %+v", cfg)
	}
	if cfg.Basic.SupplyNodes != 3 {
		t.Errorf("supply_nodes = %d, want 3", cfg.Basic.SupplyNodes)
	}
	if cfg.Basic.DemandNodes != Default().Basic.DemandNodes {
		t.Errorf("demand_nodes lost its default: %d", cfg.Basic.DemandNodes)
	}
	if cfg.Biomass.ProcessingLimit != 25 {
		t.Errorf("processing_limit = %v, want 25", cfg.Biomass.ProcessingLimit)
	}
	if cfg.Render.Width != 640 || cfg.Render.Height != 320 {
		t.Errorf("render block not overridden: %+v", cfg.Render)
	}
	if cfg.Render.Quality != 90 {
		t.Errorf("render quality lost its default: %v", cfg.Render.Quality)
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("basic: [not, a, mapping"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load accepted malformed YAML")
	}
}

func TestParamsConversion(t *testing.T) {
	cfg := Default()

	basic := cfg.Basic.Params()
	if basic.SupplyNodes != cfg.Basic.SupplyNodes || basic.Flexibility != cfg.Basic.Flexibility {
		t.Errorf("basic params lost fields: %+v", basic)
	}

	biomass := cfg.Biomass.Params()
	if biomass.ProcessingNodes != cfg.Biomass.ProcessingNodes ||
		biomass.ProductionCostLimit != cfg.Biomass.ProductionCostLimit {
		t.Errorf("biomass params lost fields: %+v", biomass)
	}

	style := cfg.Render.Style()
	if style.Width != cfg.Render.Width || style.Quality != cfg.Render.Quality {
		t.Errorf("render style lost fields: %+v", style)
	}
}
