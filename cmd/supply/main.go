package main

import (
	"image/color"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/trsav/biomass-supply-chain/internal/chain"
	"github.com/trsav/biomass-supply-chain/internal/config"
	"github.com/trsav/biomass-supply-chain/internal/logger"
	"github.com/trsav/biomass-supply-chain/internal/lpfile"
	"github.com/trsav/biomass-supply-chain/internal/render"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config" env:"CONFIG_FILE" description:"Path to configuration file" default:"config.yaml"`
	OutputDir  string `short:"o" long:"output" env:"OUTPUT_DIR"  description:"Output directory, overrides the configured one"`
	Seed       int64  `short:"s" long:"seed"   env:"SEED"        description:"Random seed, overrides the configured one"`
	Name       string `short:"n" long:"name"   description:"Base name of the output files" default:"supply"`
}

func main() {
	// Pick up a local .env before flag parsing so env tags see it
	_ = godotenv.Load()

	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if opts.Seed != 0 {
		cfg.Seed = opts.Seed
	}
	if opts.OutputDir != "" {
		cfg.OutputDir = opts.OutputDir
	}

	log.Info().
		Int64("seed", cfg.Seed).
		Str("output", cfg.OutputDir).
		Msg("Starting basic supply chain run")

	rng := rand.New(rand.NewSource(cfg.Seed))
	prob, err := chain.BuildBasic(rng, cfg.Basic.Params())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build model")
	}

	lpPath := filepath.Join(cfg.OutputDir, opts.Name+".lp")
	if err := lpfile.WriteFile(lpPath, prob.Model); err != nil {
		log.Fatal().Err(err).Str("path", lpPath).Msg("Failed to write LP file")
	}

	sol, err := chain.Solve(prob.Model)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to solve model")
	}
	flows := prob.Flows(sol)

	img := render.WorldMap(cfg.Render.Style(),
		[]render.FlowLayer{{
			From:  prob.Supply,
			To:    prob.Demand,
			Flows: flows,
			Color: color.RGBA{A: 64},
			Width: 4,
		}},
		[]render.NodeLayer{
			{
				Nodes:   prob.Supply,
				Amounts: prob.SupplyLimits,
				Color:   color.RGBA{R: 255, G: 255, B: 255, A: 255},
				Edge:    color.RGBA{A: 255},
				Radius:  8,
			},
			{
				Nodes:   prob.Supply,
				Amounts: rowSums(flows),
				Color:   color.RGBA{A: 255},
				Radius:  8,
			},
			{
				Nodes:   prob.Demand,
				Amounts: prob.DemandAmounts,
				Color:   color.RGBA{R: 31, G: 119, B: 180, A: 255},
				Radius:  8,
			},
		})

	mapPath := filepath.Join(cfg.OutputDir, opts.Name+".webp")
	if err := render.SaveWebP(mapPath, img, cfg.Render.Quality); err != nil {
		log.Fatal().Err(err).Str("path", mapPath).Msg("Failed to write flow map")
	}

	geoPath := filepath.Join(cfg.OutputDir, opts.Name+".geojson")
	if err := chain.SaveGeoJSON(geoPath, prob.NodeFeatures()); err != nil {
		log.Fatal().Err(err).Str("path", geoPath).Msg("Failed to write GeoJSON")
	}

	report := chain.NewReport("basic", cfg.Seed, map[string]int{
		"supply": len(prob.Supply),
		"demand": len(prob.Demand),
	}, prob.Model, sol)
	reportPath := filepath.Join(cfg.OutputDir, opts.Name+"_report.json")
	if err := report.Save(reportPath); err != nil {
		log.Fatal().Err(err).Str("path", reportPath).Msg("Failed to write report")
	}

	log.Info().
		Str("dir", cfg.OutputDir).
		Float64("objective", sol.Objective).
		Msg("Run finished successfully")
}

// rowSums is the shipped amount per supply node, which sizes the filled
// production discs next to the hollow capacity ones.
func rowSums(m *mat.Dense) []float64 {
	rows, _ := m.Dims()
	out := make([]float64, rows)
	for i := 0; i < rows; i++ {
		out[i] = floats.Sum(m.RawRowView(i))
	}
	return out
}
