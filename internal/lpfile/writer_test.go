package lpfile

import (
	"math"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func demoModel() *Model {
	m := NewModel(3)
	m.Objective[0] = 1.5
	m.Objective[1] = 2.25

	m.AddConstraint("supply_limit", []float64{1, 1, 0}, LessEq, 4.5)
	m.AddConstraint("demand", []float64{0, 1, 1}, GreaterEq, 2)
	m.AddConstraint("mass_balance", []float64{1, 0, -1}, Equal, 0)

	m.Bounds[0] = Bound{Lo: 0, Hi: 3.5}
	m.Bounds[2] = Bound{Lo: 0.5, Hi: 10}
	return m
}

func TestNewModelDefaults(t *testing.T) {
	m := NewModel(2)

	if m.NumVars != 2 || len(m.Objective) != 2 || len(m.Bounds) != 2 {
		t.Fatalf("unexpected shape: vars=%d obj=%d bounds=%d",
			m.NumVars, len(m.Objective), len(m.Bounds))
	}
	for i, b := range m.Bounds {
		if b.Lo != 0 || !math.IsInf(b.Hi, 1) {
			t.Errorf("bound %d = %+v, want [0, +Inf)", i, b)
		}
	}
}

func TestWriteParseRoundTrip(t *testing.T) {
	m := demoModel()

	var buf strings.Builder
	if err := Write(&buf, m); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	parsed, err := Parser{Strict: true}.Parse(buf.String())
	if err != nil {
		t.Fatalf("Parse of written model failed: %v", err)
	}
	want := m.Normalize()

	if parsed.NumVars() != want.NumVars() {
		t.Fatalf("NumVars = %d, want %d", parsed.NumVars(), want.NumVars())
	}
	for i := range want.C {
		if parsed.C[i] != want.C[i] {
			t.Errorf("c[%d] = %v, want %v", i, parsed.C[i], want.C[i])
		}
	}

	if parsed.Rows() != want.Rows() {
		t.Fatalf("rows = %d, want %d", parsed.Rows(), want.Rows())
	}
	if !mat.Equal(parsed.A, want.A) {
		t.Errorf("parsed A differs from normalized A:\nparsed:\n%v\nwant:\n%v",
			mat.Formatted(parsed.A), mat.Formatted(want.A))
	}
	for i := range want.B {
		if parsed.B[i] != want.B[i] {
			t.Errorf("b[%d] = %v, want %v", i, parsed.B[i], want.B[i])
		}
	}

	if parsed.Inequalities != want.Inequalities ||
		parsed.Equalities != want.Equalities ||
		parsed.BoundRows != want.BoundRows {
		t.Errorf("counters = %d/%d/%d, want %d/%d/%d",
			parsed.Inequalities, parsed.Equalities, parsed.BoundRows,
			want.Inequalities, want.Equalities, want.BoundRows)
	}
}

func TestWriteLayout(t *testing.T) {
	m := NewModel(2)
	m.Objective[0] = 1
	m.Objective[1] = 0.5
	m.AddConstraint("capacity", []float64{1, 0}, LessEq, 3)
	m.AddConstraint("capacity", []float64{0, 1}, LessEq, 4)
	m.Bounds[0] = Bound{Lo: 0, Hi: 5}

	var buf strings.Builder
	if err := Write(&buf, m); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	lines := strings.Split(buf.String(), "\n")

	if lines[0] != `\* Source network flow model *\` {
		t.Errorf("preamble = %q", lines[0])
	}
	if lines[2] != "min" || lines[3] != "x3:" {
		t.Errorf("objective header lines = %q, %q, want min and x3:", lines[2], lines[3])
	}
	if lines[4] != "+1 x1" || lines[5] != "+0.5 x2" {
		t.Errorf("objective terms = %q, %q", lines[4], lines[5])
	}

	text := buf.String()
	for _, want := range []string{
		"\ns.t.\n",
		"c_u_capacity(1)_:\n+1 x1\n<= 3\n",
		"c_u_capacity(2)_:\n+1 x2\n<= 4\n",
		"\nbounds\n   0 <= x1 <= 5\n   0 <= x2 <= +Inf\nend\n",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}

	if !strings.HasSuffix(text, "end\n") {
		t.Errorf("output does not finish with end")
	}
}

func TestWriteRejectsUnrepresentableLabels(t *testing.T) {
	cases := map[string]string{
		"empty":       "",
		"contains x":  "flux",
		"whitespace":  "supply limit",
		"colon":       "supply:limit",
		"bounds word": "outofbounds",
	}

	for name, label := range cases {
		m := NewModel(1)
		m.AddConstraint(label, []float64{1}, LessEq, 1)

		var buf strings.Builder
		if err := Write(&buf, m); err == nil {
			t.Errorf("%s: Write accepted label %q", name, label)
		}
	}
}

func TestWriteRejectsMismatchedRow(t *testing.T) {
	m := NewModel(2)
	m.AddConstraint("capacity", []float64{1}, LessEq, 1)

	var buf strings.Builder
	if err := Write(&buf, m); err == nil {
		t.Error("Write accepted a constraint row of the wrong width")
	}
}

func TestWriteFileParseFileRoundTrip(t *testing.T) {
	m := demoModel()
	path := filepath.Join(t.TempDir(), "model.lp")

	if err := WriteFile(path, m); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	lp, err := Parser{}.ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if lp.NumVars() != 3 {
		t.Errorf("NumVars = %d, want 3", lp.NumVars())
	}
	if lp.Truncated {
		t.Error("unexpected truncation marker")
	}
	if got, want := lp.Rows(), m.Normalize().Rows(); got != want {
		t.Errorf("rows = %d, want %d", got, want)
	}
}
