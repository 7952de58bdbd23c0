// Package lpfile reads and writes the solver-dialect LP text format used by
// the supply chain models: a "min" objective section, labelled relational
// constraints and a trailing bounds section. Parsed files and normalized
// models share one representation, a system of "<=" rows.
package lpfile

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Relation is the comparison operator of a constraint.
type Relation int

const (
	LessEq Relation = iota
	GreaterEq
	Equal
)

func (r Relation) String() string {
	switch r {
	case LessEq:
		return "<="
	case GreaterEq:
		return ">="
	default:
		return "="
	}
}

// Constraint is one relational row of a model. Row is dense with one entry
// per variable.
type Constraint struct {
	Label string
	Row   []float64
	Rel   Relation
	RHS   float64
}

// Bound is an inclusive box bound on one variable. Hi may be +Inf.
type Bound struct {
	Lo float64
	Hi float64
}

// Model is a constraint-level linear program: minimize Objective over x
// subject to the constraints and per-variable bounds.
type Model struct {
	NumVars     int
	Objective   []float64
	Constraints []Constraint
	Bounds      []Bound
}

// NewModel returns a model with n variables, a zero objective and default
// [0, +Inf) bounds.
func NewModel(n int) *Model {
	m := &Model{
		NumVars:   n,
		Objective: make([]float64, n),
		Bounds:    make([]Bound, n),
	}
	for i := range m.Bounds {
		m.Bounds[i] = Bound{Lo: 0, Hi: math.Inf(1)}
	}
	return m
}

// AddConstraint appends one relational row. The row slice is retained.
func (m *Model) AddConstraint(label string, row []float64, rel Relation, rhs float64) {
	m.Constraints = append(m.Constraints, Constraint{Label: label, Row: row, Rel: rel, RHS: rhs})
}

// LinearProgram is a "<="-normalized system: minimize C over x subject to
// A*x <= B. A is nil when the system has no rows.
type LinearProgram struct {
	C []float64
	A *mat.Dense
	B []float64

	// Row provenance counters.
	Inequalities int // rows from "<=" and ">=" constraints
	Equalities   int // equality constraints, two rows each
	BoundRows    int // rows from the bounds section

	// Truncation marker, set by tolerant parses that hit unparsable
	// constraint text (see Parser).
	Truncated     bool
	TruncatedLine int
}

// NumVars returns the declared variable count.
func (lp *LinearProgram) NumVars() int { return len(lp.C) }

// Rows returns the number of normalized rows.
func (lp *LinearProgram) Rows() int { return len(lp.B) }

// Slack returns B - A*x per row. Rows with infinite B yield infinite slack.
func (lp *LinearProgram) Slack(x []float64) []float64 {
	out := make([]float64, len(lp.B))
	if lp.A == nil {
		return out
	}

	var ax mat.VecDense
	ax.MulVec(lp.A, mat.NewVecDense(len(x), x))
	for i := range out {
		out[i] = lp.B[i] - ax.AtVec(i)
	}
	return out
}

// Feasible reports whether x satisfies every row within tol.
func (lp *LinearProgram) Feasible(x []float64, tol float64) bool {
	for _, s := range lp.Slack(x) {
		if s < -tol {
			return false
		}
	}
	return true
}

// Normalize flattens the model into its "<=" system: "<=" rows kept as-is,
// ">=" rows negated, equalities expanded to two mutually negated rows, then
// two rows per variable bound (unit row against Hi, negated unit row
// against -Lo). Row order matches what Parse produces for the written form
// of the same model.
func (m *Model) Normalize() *LinearProgram {
	lp := &LinearProgram{C: append([]float64(nil), m.Objective...)}
	sys := newSystem(m.NumVars)

	for _, c := range m.Constraints {
		switch c.Rel {
		case LessEq:
			sys.addLE(c.Row, c.RHS)
			lp.Inequalities++
		case GreaterEq:
			sys.addGE(c.Row, c.RHS)
			lp.Inequalities++
		default:
			sys.addEq(c.Row, c.RHS)
			lp.Equalities++
		}
	}

	for i, b := range m.Bounds {
		sys.addBound(i, b.Lo, b.Hi)
		lp.BoundRows += 2
	}

	lp.A, lp.B = sys.matrices()
	return lp
}

// system accumulates validated "<=" rows; no placeholder rows are seeded.
type system struct {
	n    int
	data []float64 // row-major
	rhs  []float64
}

func newSystem(n int) *system {
	return &system{n: n}
}

func (s *system) addLE(row []float64, b float64) {
	s.data = append(s.data, row...)
	s.rhs = append(s.rhs, b)
}

func (s *system) addGE(row []float64, b float64) {
	for _, v := range row {
		s.data = append(s.data, -v)
	}
	s.rhs = append(s.rhs, -b)
}

func (s *system) addEq(row []float64, b float64) {
	s.addLE(row, b)
	s.addGE(row, b)
}

func (s *system) addBound(idx int, lo, hi float64) {
	unit := make([]float64, s.n)
	unit[idx] = 1
	s.addLE(unit, hi)
	unit2 := make([]float64, s.n)
	unit2[idx] = -1
	s.addLE(unit2, -lo)
}

func (s *system) matrices() (*mat.Dense, []float64) {
	if len(s.rhs) == 0 {
		return nil, nil
	}
	return mat.NewDense(len(s.rhs), s.n, s.data), s.rhs
}
