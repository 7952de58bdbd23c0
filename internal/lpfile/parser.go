package lpfile

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// FormatError describes a fatal defect in an LP file.
type FormatError struct {
	Line int // 1-based, 0 when no line applies
	Msg  string
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("lp format: line %d: %s", e.Line, e.Msg)
	}
	return "lp format: " + e.Msg
}

func formatErr(line int, format string, args ...interface{}) *FormatError {
	return &FormatError{Line: line, Msg: fmt.Sprintf(format, args...)}
}

// Parser reads the solver LP dialect into a "<="-normalized system.
// The zero value parses in tolerant mode: a constraint block whose
// relational line cannot be read truncates the constraints section, marks
// the result, logs a warning and resumes at the bounds header if one
// follows. Strict promotes that truncation to a FormatError. Defective
// bound lines are fatal in both modes.
type Parser struct {
	Strict bool
}

// parseState names the phase of the line machine.
type parseState int

const (
	stateObjectiveHeader parseState = iota
	stateObjectiveTerms
	stateConstraints
	stateBounds
	stateDone
)

// cursor walks the file's lines with an explicit position instead of ad hoc
// index arithmetic.
type cursor struct {
	lines []string
	pos   int
}

func (c *cursor) eof() bool    { return c.pos >= len(c.lines) }
func (c *cursor) line() string { return c.lines[c.pos] }
func (c *cursor) lineNo() int  { return c.pos + 1 }

// advance moves the position forward, clamping at end of input.
func (c *cursor) advance(n int) {
	c.pos += n
	if c.pos > len(c.lines) {
		c.pos = len(c.lines)
	}
}

// seek advances to the next line containing substr and reports success.
func (c *cursor) seek(substr string) bool {
	for !c.eof() {
		if strings.Contains(c.line(), substr) {
			return true
		}
		c.pos++
	}
	return false
}

// ParseFile reads and parses one LP file.
func (p Parser) ParseFile(name string) (*LinearProgram, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read lp file: %w", err)
	}

	lp, err := p.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return lp, nil
}

// Parse parses LP text held fully in memory.
func (p Parser) Parse(src string) (*LinearProgram, error) {
	cur := &cursor{lines: strings.Split(src, "\n")}
	lp := &LinearProgram{}

	var sys *system

	st := stateObjectiveHeader
	for st != stateDone {
		switch st {
		case stateObjectiveHeader:
			n, err := parseObjectiveHeader(cur)
			if err != nil {
				return nil, err
			}
			lp.C = make([]float64, n)
			sys = newSystem(n)
			st = stateObjectiveTerms

		case stateObjectiveTerms:
			if err := parseObjectiveTerms(cur, lp.C); err != nil {
				return nil, err
			}
			st = stateConstraints

		case stateConstraints:
			next, err := p.parseConstraints(cur, sys, lp)
			if err != nil {
				return nil, err
			}
			st = next

		case stateBounds:
			if err := parseBounds(cur, sys, lp); err != nil {
				return nil, err
			}
			st = stateDone
		}
	}

	lp.A, lp.B = sys.matrices()
	return lp, nil
}

// parseObjectiveHeader finds the "min" line and reads the variable count
// from the objective label on the following line. The label is one past the
// highest variable index, so a label x<k> declares k-1 variables. Leaves
// the cursor on the first objective term line.
func parseObjectiveHeader(cur *cursor) (int, error) {
	if !cur.seek("min") {
		return 0, formatErr(0, "objective header %q not found", "min")
	}

	labelAt := cur.pos + 1
	if labelAt >= len(cur.lines) {
		return 0, formatErr(cur.lineNo(), "objective label line missing after %q", "min")
	}

	label := cur.lines[labelAt]
	xi := strings.LastIndex(label, "x")
	if xi < 0 {
		return 0, formatErr(labelAt+1, "objective label %q has no variable name", strings.TrimSpace(label))
	}

	numText := label[xi+1:]
	if colon := strings.Index(numText, ":"); colon >= 0 {
		numText = numText[:colon]
	}

	k, err := strconv.Atoi(strings.TrimSpace(numText))
	if err != nil {
		return 0, formatErr(labelAt+1, "objective label %q: cannot read variable count", strings.TrimSpace(label))
	}

	n := k - 1
	if n <= 0 {
		return 0, formatErr(labelAt+1, "objective label declares %d variables", n)
	}

	cur.advance(2)
	return n, nil
}

// parseObjectiveTerms accumulates term lines into c until a line without
// "x". Malformed objective terms are fatal; the constraints section's
// truncation tolerance does not apply here.
func parseObjectiveTerms(cur *cursor, c []float64) error {
	for !cur.eof() && strings.Contains(cur.line(), "x") {
		coef, idx, err := parseTerm(cur.line())
		if err != nil {
			return formatErr(cur.lineNo(), "objective term: %v", err)
		}
		if idx < 0 || idx >= len(c) {
			return formatErr(cur.lineNo(), "objective term: variable x%d out of range 1..%d", idx+1, len(c))
		}
		c[idx] = coef
		cur.advance(1)
	}
	return nil
}

// parseConstraints consumes constraint blocks until the bounds section, end
// of input, or unparsable text. Each block is a header line, a run of term
// lines and a relational RHS line; blocks are separated by one blank line,
// so the cursor advances by 3 from a RHS line to the next block's first
// term (a dialect assumption, not general parsing).
func (p Parser) parseConstraints(cur *cursor, sys *system, lp *LinearProgram) (parseState, error) {
	// First block: skip its header.
	if !cur.seek(":") {
		log.Debug().Msg("No constraints section in LP input")
		return stateDone, nil
	}
	cur.advance(1)

	n := len(lp.C)
	for {
		if cur.eof() {
			return stateDone, nil
		}
		if strings.Contains(cur.line(), "bounds") {
			return stateBounds, nil
		}
		if strings.TrimSpace(cur.line()) == "end" {
			return stateDone, nil
		}

		row := make([]float64, n)
		for !cur.eof() && strings.Contains(cur.line(), "x") {
			coef, idx, err := parseTerm(cur.line())
			if err != nil {
				// The first bounds line reads as a failed term, since the
				// fixed advance skips the section header. A line that
				// parses as a bound is the regular end of the constraints
				// section; one that parses as neither term nor bound is
				// fatal, reported with the bound parser's diagnosis.
				if _, _, _, berr := parseBound(cur.line()); berr != nil {
					return stateDone, formatErr(cur.lineNo(), "bound: %v", berr)
				}
				return stateBounds, nil
			}
			if idx < 0 || idx >= n {
				return stateDone, formatErr(cur.lineNo(), "constraint term: variable x%d out of range 1..%d", idx+1, n)
			}
			row[idx] = coef
			cur.advance(1)
		}

		if cur.eof() {
			return p.truncate(cur, lp)
		}

		rhsLine := cur.line()
		b, err := parseRHS(rhsLine)
		if err != nil {
			return p.truncate(cur, lp)
		}

		switch {
		case strings.Contains(rhsLine, "<="):
			sys.addLE(row, b)
			lp.Inequalities++
		case strings.Contains(rhsLine, ">="):
			sys.addGE(row, b)
			lp.Inequalities++
		default:
			sys.addEq(row, b)
			lp.Equalities++
		}

		cur.advance(3)
	}
}

// truncate ends the constraints section on unparsable text. Tolerant mode
// records the cut and resumes at the bounds header if one follows; strict
// mode fails.
func (p Parser) truncate(cur *cursor, lp *LinearProgram) (parseState, error) {
	line := cur.lineNo()
	text := ""
	if cur.eof() {
		line = len(cur.lines)
	} else {
		text = strings.TrimSpace(cur.line())
	}

	if p.Strict {
		if text == "" {
			return stateDone, formatErr(line, "constraints section ends without a relational line")
		}
		return stateDone, formatErr(line, "unparsable constraint text %q", text)
	}

	lp.Truncated = true
	lp.TruncatedLine = line
	log.Warn().
		Int("line", line).
		Str("text", text).
		Msg("Constraints section truncated by unparsable text")

	if cur.seek("bounds") {
		return stateBounds, nil
	}
	return stateDone, nil
}

// parseBounds reads `<lb> <= x<i> <= <ub>` lines, appending a unit row
// against ub and a negated unit row against -lb for each. A line without
// "x" (such as "end") terminates parsing. Defective bound lines are fatal.
func parseBounds(cur *cursor, sys *system, lp *LinearProgram) error {
	if !cur.eof() && strings.Contains(cur.line(), "bounds") {
		cur.advance(1)
	}

	n := len(lp.C)
	for !cur.eof() && strings.Contains(cur.line(), "x") {
		idx, lo, hi, err := parseBound(cur.line())
		if err != nil {
			return formatErr(cur.lineNo(), "bound: %v", err)
		}
		if idx < 0 || idx >= n {
			return formatErr(cur.lineNo(), "bound: variable x%d out of range 1..%d", idx+1, n)
		}

		sys.addBound(idx, lo, hi)
		lp.BoundRows += 2
		cur.advance(1)
	}
	return nil
}

// parseTerm splits `<coefficient> x<index>` on the " x" separator and
// returns the coefficient and the 0-based variable index.
func parseTerm(line string) (coef float64, idx int, err error) {
	parts := strings.Split(line, " x")
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("no %q separator in %q", " x", strings.TrimSpace(line))
	}

	coef, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad coefficient in %q", strings.TrimSpace(line))
	}

	one, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1]))
	if err != nil {
		return 0, 0, fmt.Errorf("bad variable index in %q", strings.TrimSpace(line))
	}

	return coef, one - 1, nil
}

// parseRHS reads the numeric value after the last "=" of a relational line.
func parseRHS(line string) (float64, error) {
	tail := line
	if eq := strings.LastIndex(line, "="); eq >= 0 {
		tail = line[eq+1:]
	}
	return strconv.ParseFloat(strings.TrimSpace(tail), 64)
}

// parseBound splits `<lb> <= x<index> <= <ub>` around its "x": the prefix
// holds lb, the suffix holds the index and ub separated by "<" and "=".
// Missing separators surface as unreadable numbers.
func parseBound(line string) (idx int, lo, hi float64, err error) {
	first := strings.Index(line, "x")
	if first < 0 {
		return 0, 0, 0, fmt.Errorf("no variable name in %q", strings.TrimSpace(line))
	}
	head := line[:first]
	tail := line[strings.LastIndex(line, "x")+1:]

	idxText := tail
	if lt := strings.Index(tail, "<"); lt >= 0 {
		idxText = tail[:lt]
	}
	one, err := strconv.Atoi(strings.TrimSpace(idxText))
	if err != nil {
		return 0, 0, 0, fmt.Errorf("cannot read variable index in %q (missing %q separator?)", strings.TrimSpace(line), "<")
	}

	hiText := tail
	if eq := strings.LastIndex(tail, "="); eq >= 0 {
		hiText = tail[eq+1:]
	}
	hi, err = strconv.ParseFloat(strings.TrimSpace(hiText), 64)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("cannot read upper bound in %q (missing %q separator?)", strings.TrimSpace(line), "=")
	}

	loText := head
	if lt := strings.Index(head, "<"); lt >= 0 {
		loText = head[:lt]
	}
	lo, err = strconv.ParseFloat(strings.TrimSpace(loText), 64)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("cannot read lower bound in %q", strings.TrimSpace(line))
	}

	return one - 1, lo, hi, nil
}
