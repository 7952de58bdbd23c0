package lpfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Write serializes the model into the dialect Parse consumes: a preamble,
// the "min" header with an objective label one past the highest variable
// index, one signed monomial per line, labelled constraint blocks separated
// by single blank lines, and a bounds section closed by "end". Labels are
// restricted to text the parser's substring scans cannot mistake for terms
// or section markers.
func Write(w io.Writer, m *Model) error {
	if m.NumVars <= 0 {
		return fmt.Errorf("model declares no variables")
	}
	if len(m.Objective) != m.NumVars {
		return fmt.Errorf("objective has %d entries for %d variables", len(m.Objective), m.NumVars)
	}
	if len(m.Bounds) != m.NumVars {
		return fmt.Errorf("bounds have %d entries for %d variables", len(m.Bounds), m.NumVars)
	}
	for i, c := range m.Constraints {
		if len(c.Row) != m.NumVars {
			return fmt.Errorf("constraint %d has %d coefficients for %d variables", i, len(c.Row), m.NumVars)
		}
		if err := checkLabel(c.Label); err != nil {
			return err
		}
	}

	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "\\* Source network flow model *\\\n\n")
	fmt.Fprintf(bw, "min\nx%d:\n", m.NumVars+1)
	for i, v := range m.Objective {
		if v != 0 {
			fmt.Fprintf(bw, "%s x%d\n", signedFloat(v), i+1)
		}
	}

	fmt.Fprintf(bw, "\ns.t.\n")

	counters := make(map[string]int)
	for _, c := range m.Constraints {
		counters[c.Label]++
		fmt.Fprintf(bw, "\nc_%s_%s(%d)_:\n", relPrefix(c.Rel), c.Label, counters[c.Label])
		for i, v := range c.Row {
			if v != 0 {
				fmt.Fprintf(bw, "%s x%d\n", signedFloat(v), i+1)
			}
		}
		fmt.Fprintf(bw, "%s %s\n", c.Rel, floatText(c.RHS))
	}

	fmt.Fprintf(bw, "\nbounds\n")
	for i, b := range m.Bounds {
		fmt.Fprintf(bw, "   %s <= x%d <= %s\n", floatText(b.Lo), i+1, floatText(b.Hi))
	}
	fmt.Fprintf(bw, "end\n")

	return bw.Flush()
}

// WriteFile writes the model to a file, creating the parent directory and
// the file as needed.
func WriteFile(name string, m *Model) error {
	if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
		return fmt.Errorf("create lp file: %w", err)
	}

	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("create lp file: %w", err)
	}

	if err := Write(f, m); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func checkLabel(label string) error {
	switch {
	case label == "":
		return fmt.Errorf("empty constraint label")
	case strings.ContainsAny(label, "x: \t\r\n"):
		return fmt.Errorf("constraint label %q contains %q, %q or whitespace", label, "x", ":")
	case strings.Contains(label, "bounds"):
		return fmt.Errorf("constraint label %q contains %q", label, "bounds")
	}
	return nil
}

func relPrefix(r Relation) string {
	switch r {
	case LessEq:
		return "u"
	case GreaterEq:
		return "l"
	default:
		return "e"
	}
}

// floatText formats with the shortest representation that survives a
// round trip through ParseFloat.
func floatText(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// signedFloat is floatText with an explicit leading sign, as term lines
// carry in this dialect.
func signedFloat(v float64) string {
	s := floatText(v)
	if !strings.HasPrefix(s, "-") && !strings.HasPrefix(s, "+") {
		s = "+" + s
	}
	return s
}
