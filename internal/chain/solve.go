// Package chain builds and solves the network-flow supply chain models.
package chain

import (
	"fmt"
	"math"
	"time"

	"github.com/trsav/biomass-supply-chain/internal/lpfile"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// simplexTol is the pivot tolerance handed to lp.Simplex.
const simplexTol = 1e-7

// Solution holds the solved variable values of a model.
type Solution struct {
	// Objective is the optimal objective value reported by the solver.
	Objective float64
	// X are the recovered variable values in model order, clamped at zero
	// to strip the negative dust the split-variable recovery leaves behind.
	X []float64
	// Duration is the wall time of conversion plus simplex.
	Duration time.Duration
}

// Solve runs the simplex method on a model. The model is first split into
// gonum's general form (G·x <= h inequalities, A·x = b equalities), then
// converted to standard form with lp.Convert, which rewrites every variable
// as the difference of two non-negative parts. The original values are
// recovered as x[i] = xStd[i] - xStd[n+i].
func Solve(m *lpfile.Model) (*Solution, error) {
	g, h, a, b, err := generalForm(m)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	cStd, aStd, bStd := lp.Convert(m.Objective, g, h, a, b)
	opt, xStd, err := lp.Simplex(cStd, aStd, bStd, simplexTol, nil)
	if err != nil {
		return nil, fmt.Errorf("simplex: %w", err)
	}

	x := make([]float64, m.NumVars)
	for i := range x {
		if v := xStd[i] - xStd[m.NumVars+i]; v > 0 {
			x[i] = v
		}
	}

	sol := &Solution{Objective: opt, X: x, Duration: time.Since(start)}
	log.Info().
		Float64("objective", sol.Objective).
		Dur("took", sol.Duration).
		Msg("Solved model")

	return sol, nil
}

// generalForm splits a model into the inequality and equality systems
// lp.Convert expects. Relational constraints map directly ("<=" rows as-is,
// ">=" rows negated, "=" rows into A·x = b); finite variable bounds become
// unit inequality rows. Infinite bounds produce no row, which is what keeps
// the converted system solvable.
func generalForm(m *lpfile.Model) (g *mat.Dense, h []float64, a *mat.Dense, b []float64, err error) {
	n := m.NumVars
	if n < 1 {
		return nil, nil, nil, nil, fmt.Errorf("model has no variables")
	}
	if len(m.Objective) != n {
		return nil, nil, nil, nil, fmt.Errorf("objective has %d coefficients, want %d", len(m.Objective), n)
	}

	var gData, aData []float64
	for i, c := range m.Constraints {
		if len(c.Row) != n {
			return nil, nil, nil, nil, fmt.Errorf("constraint %d (%s): row has %d coefficients, want %d",
				i, c.Label, len(c.Row), n)
		}
		switch c.Rel {
		case lpfile.LessEq:
			gData = append(gData, c.Row...)
			h = append(h, c.RHS)
		case lpfile.GreaterEq:
			gData = append(gData, negated(c.Row)...)
			h = append(h, -c.RHS)
		case lpfile.Equal:
			aData = append(aData, c.Row...)
			b = append(b, c.RHS)
		default:
			return nil, nil, nil, nil, fmt.Errorf("constraint %d (%s): unknown relation %d", i, c.Label, c.Rel)
		}
	}

	for i, bound := range m.Bounds {
		if !math.IsInf(bound.Hi, 1) {
			gData = append(gData, unitRow(n, i, 1)...)
			h = append(h, bound.Hi)
		}
		if !math.IsInf(bound.Lo, -1) {
			gData = append(gData, unitRow(n, i, -1)...)
			h = append(h, -bound.Lo)
		}
	}

	if len(h) > 0 {
		g = mat.NewDense(len(h), n, gData)
	}
	if len(b) > 0 {
		a = mat.NewDense(len(b), n, aData)
	}
	return g, h, a, b, nil
}

func negated(row []float64) []float64 {
	out := make([]float64, len(row))
	for i, v := range row {
		out[i] = -v
	}
	return out
}

func unitRow(n, idx int, sign float64) []float64 {
	out := make([]float64, n)
	out[idx] = sign
	return out
}
