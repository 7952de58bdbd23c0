package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/trsav/biomass-supply-chain/internal/logger"
	"github.com/trsav/biomass-supply-chain/internal/lpfile"
	"github.com/trsav/biomass-supply-chain/internal/render"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	Input   string  `short:"i" long:"in" description:"Input LP file path. Reads from stdin if empty"`
	Output  string  `short:"o" long:"out" description:"Output image path. Defaults to <input>_sparsity.webp"`
	Cell    int     `long:"cell" description:"Pixels per matrix cell, 0 picks one from the matrix width"`
	Quality float32 `short:"q" long:"quality" description:"WebP encoder quality" default:"90"`
	Strict  bool    `long:"strict" description:"Fail on malformed lines instead of truncating"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	lpParser := lpfile.Parser{Strict: opts.Strict}

	var lp *lpfile.LinearProgram
	var err error
	if opts.Input != "" {
		lp, err = lpParser.ParseFile(opts.Input)
	} else {
		var data []byte
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading stdin: %v\n", err)
			os.Exit(1)
		}
		lp, err = lpParser.Parse(string(data))
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse LP file")
	}

	log.Info().
		Int("vars", lp.NumVars()).
		Int("rows", lp.Rows()).
		Int("inequalities", lp.Inequalities).
		Int("equalities", lp.Equalities).
		Int("bound_rows", lp.BoundRows).
		Bool("truncated", lp.Truncated).
		Msg("Parsed linear program")

	if lp.Rows() == 0 {
		log.Warn().Msg("No constraint rows, nothing to draw")
		return
	}

	out := opts.Output
	if out == "" {
		out = outputName(opts.Input)
	}

	img := render.Sparsity(lp.A, cellSize(opts.Cell, lp.NumVars()))
	if err := render.SaveWebP(out, img, opts.Quality); err != nil {
		log.Fatal().Err(err).Str("path", out).Msg("Failed to write sparsity image")
	}

	log.Info().Str("path", out).Msg("Sparsity image written")
}

// outputName derives the image path from the input path, or falls back to
// the working directory for stdin input.
func outputName(input string) string {
	if input == "" {
		return "sparsity.webp"
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + "_sparsity.webp"
}

// cellSize aims for a roughly 1200 pixel wide image unless an explicit
// cell size was given.
func cellSize(cell, cols int) int {
	if cell > 0 {
		return cell
	}
	size := 1200 / cols
	if size < 1 {
		size = 1
	}
	if size > 16 {
		size = 16
	}
	return size
}
