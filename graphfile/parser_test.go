package graphfile

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func compile(t *testing.T, lines ...string) *Graph {
	t.Helper()
	p := NewParser()
	for _, l := range lines {
		p.ParseLine(l)
	}
	g, err := p.Finish()
	if err != nil {
		t.Fatalf("Finish() error = %v", err)
	}
	return g
}

func TestCommentsAndBlankLinesIgnored(t *testing.T) {
	g := compile(t,
		"# a comment",
		"",
		"   ",
		"=table",
		"age 37",
	)
	if len(g.Blocks) != 1 || len(g.Blocks[0].Rows) != 1 {
		t.Fatalf("Blocks = %+v, want one block with one row", g.Blocks)
	}
}

func TestScalarOptionOverwrites(t *testing.T) {
	g := compile(t, "title=first", "title=second")
	lines := g.ConfigLines(PhaseApply)
	want := `set title "second"`
	if len(lines) != 1 || lines[0] != want {
		t.Errorf("ConfigLines = %v, want [%s]", lines, want)
	}
}

func TestArrayOptionPreservesOrder(t *testing.T) {
	g := compile(t, "extraops=set ytics 10", "extraops=set y2tics 5")
	lines := g.ConfigLines(PhaseApply)
	want := []string{"set ytics 10", "set y2tics 5"}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("ConfigLines = %v, want %v", lines, want)
	}
}

func TestBooleanDirectives(t *testing.T) {
	g := compile(t, "=nolegend", "=nogridy", "=noupperright", "=noxlabels", "=patterns")
	st := g.State
	if st.Legend {
		t.Error("Legend = true, want false")
	}
	if st.GridY {
		t.Error("GridY = true, want false")
	}
	if !st.NoUpperRight {
		t.Error("NoUpperRight = false, want true")
	}
	if st.XTicLabels {
		t.Error("XTicLabels = true, want false")
	}
	if !st.Patterns {
		t.Error("Patterns = false, want true")
	}
}

func TestNoRotateOverridesDefault(t *testing.T) {
	if st := compile(t).State; st.RotateBy != "-30" {
		t.Errorf("default RotateBy = %q, want -30", st.RotateBy)
	}
	if st := compile(t, "=norotate").State; st.RotateBy != "0" {
		t.Errorf("RotateBy = %q, want 0", st.RotateBy)
	}
	if st := compile(t, "rotateby=-45").State; st.RotateBy != "-45" {
		t.Errorf("RotateBy = %q, want -45", st.RotateBy)
	}
}

func TestStackedGroupingInvertsKey(t *testing.T) {
	g := compile(t, "=stacked;a;b")
	if !g.State.InvertKey {
		t.Error("InvertKey = false, want true for stacked grouping")
	}
	g = compile(t, "=cluster;a;b")
	if g.State.InvertKey {
		t.Error("InvertKey = true, want false for clustered grouping")
	}
}

func TestUnknownDirectivesWarnSorted(t *testing.T) {
	g := compile(t, "=zoom", "bar=1", "=alpha", "bar=2")
	if len(g.Warnings) != 4 {
		t.Fatalf("Warnings = %v, want 4 entries (one per occurrence)", g.Warnings)
	}
	names := make([]string, len(g.Warnings))
	for i, w := range g.Warnings {
		names[i] = w.Name
	}
	want := []string{"=alpha", "=zoom", "bar", "bar"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("warning names = %v, want %v", names, want)
	}
}

func TestMultiModeGap(t *testing.T) {
	// Multi is the default mode: the first row forms group 0 even without
	// a leading =multi.
	g := compile(t,
		"age 37",
		"=multi",
		"age 9",
	)
	if len(g.Blocks) != 1 {
		t.Fatalf("Blocks = %+v, want 1", g.Blocks)
	}
	want := [][]string{{"age", "37", "9"}}
	if !reflect.DeepEqual(g.Blocks[0].Rows, want) {
		t.Errorf("Rows = %v, want %v", g.Blocks[0].Rows, want)
	}
}

func TestMultiModeRectangularMatrix(t *testing.T) {
	g := compile(t,
		"=cluster;A;B",
		"=multi",
		"age 37",
		"height 17",
		"=multi",
		"weight 9",
		"age 5",
	)
	want := [][]string{
		{"age", "37", "5"},
		{"height", "17", Missing},
		{"weight", Missing, "9"},
	}
	if !reflect.DeepEqual(g.Blocks[0].Rows, want) {
		t.Errorf("Rows = %v, want %v", g.Blocks[0].Rows, want)
	}
}

func TestMultiModeLabelOrderFirstOccurrence(t *testing.T) {
	g := compile(t,
		"=multi",
		"b 1",
		"a 2",
		"=multi",
		"c 3",
		"a 4",
	)
	var labels []string
	for _, row := range g.Blocks[0].Rows {
		labels = append(labels, row[0])
	}
	want := []string{"b", "a", "c"}
	if !reflect.DeepEqual(labels, want) {
		t.Errorf("labels = %v, want %v", labels, want)
	}
}

func TestMultiModeColumnLast(t *testing.T) {
	g := compile(t,
		"column=last",
		"=multi",
		"age 37 9 22",
		"height 17 12 20",
	)
	want := [][]string{{"age", "22"}, {"height", "20"}}
	if !reflect.DeepEqual(g.Blocks[0].Rows, want) {
		t.Errorf("Rows = %v, want %v", g.Blocks[0].Rows, want)
	}
}

func TestMultiModeShortRowYieldsPlaceholder(t *testing.T) {
	// The label counts as column 1, so column 4 is the third value token.
	g := compile(t,
		"column=4",
		"=multi",
		"age 37 9 22",
		"height 17",
	)
	want := [][]string{{"age", "22"}, {"height", Missing}}
	if !reflect.DeepEqual(g.Blocks[0].Rows, want) {
		t.Errorf("Rows = %v, want %v", g.Blocks[0].Rows, want)
	}
}

func TestInvalidColumnSelectorFatal(t *testing.T) {
	for _, sel := range []string{"0", "-2", "first"} {
		t.Run(sel, func(t *testing.T) {
			p := NewParser()
			p.ParseLine("column=" + sel)
			p.ParseLine("=multi")
			p.ParseLine("age 37")
			if _, err := p.Finish(); !errors.Is(err, ErrBadColumn) {
				t.Errorf("Finish() error = %v, want ErrBadColumn", err)
			}
		})
	}
}

func TestMultiMultiClusters(t *testing.T) {
	g := compile(t,
		"=multimulti;first",
		"=multi",
		"age 37",
		"=multi",
		"age 9",
		"=multimulti;second",
		"=multi",
		"age 4",
		"=multi",
		"age 2",
	)
	if !g.MultiSet {
		t.Fatal("MultiSet = false, want true")
	}
	if len(g.Blocks) != 2 {
		t.Fatalf("Blocks = %+v, want 2", g.Blocks)
	}
	if g.Blocks[0].Title != "first" || g.Blocks[1].Title != "second" {
		t.Errorf("titles = %q, %q, want first, second", g.Blocks[0].Title, g.Blocks[1].Title)
	}
	want0 := [][]string{{"age", "37", "9"}}
	want1 := [][]string{{"age", "4", "2"}}
	if !reflect.DeepEqual(g.Blocks[0].Rows, want0) {
		t.Errorf("Blocks[0].Rows = %v, want %v", g.Blocks[0].Rows, want0)
	}
	if !reflect.DeepEqual(g.Blocks[1].Rows, want1) {
		t.Errorf("Blocks[1].Rows = %v, want %v", g.Blocks[1].Rows, want1)
	}
}

func TestMultiMultiTrailingClusterFinalizedImplicitly(t *testing.T) {
	g := compile(t,
		"=multi",
		"a 1",
		"=multimulti",
		"=multi",
		"a 2",
	)
	if len(g.Blocks) != 2 {
		t.Fatalf("Blocks = %+v, want 2", g.Blocks)
	}
}

func TestTableModeSeparator(t *testing.T) {
	g := compile(t,
		"=table",
		"age 37 9",
		"=multimulti",
		"height 17 12",
	)
	rows := g.Blocks[0].Rows
	if len(rows) != 3 {
		t.Fatalf("Rows = %v, want 3 (including separator)", rows)
	}
	if rows[1] != nil {
		t.Errorf("Rows[1] = %v, want nil separator", rows[1])
	}
}

func TestYErrorBars(t *testing.T) {
	g := compile(t,
		"=yerrorbars",
		"age 37 9",
		"height 17 12",
		"=yerrorbars",
		"age 1 2",
		"height 3 4",
	)
	if !g.ErrorBars {
		t.Fatal("ErrorBars = false, want true")
	}
	want := [][]string{
		{"age", "37", "1", "9", "2"},
		{"height", "17", "3", "12", "4"},
	}
	if !reflect.DeepEqual(g.Blocks[0].Rows, want) {
		t.Errorf("Rows = %v, want %v", g.Blocks[0].Rows, want)
	}
}

func TestYErrorBarsMismatchFatal(t *testing.T) {
	p := NewParser()
	for _, l := range []string{
		"=yerrorbars",
		"age 37",
		"height 17",
		"=yerrorbars",
		"age 1",
	} {
		p.ParseLine(l)
	}
	if _, err := p.Finish(); !errors.Is(err, ErrErrorRowMismatch) {
		t.Errorf("Finish() error = %v, want ErrErrorRowMismatch", err)
	}
}

func TestParseReader(t *testing.T) {
	input := "=table\nage 37\nheight 17\n"
	p := NewParser(WithFile("test.graph"))
	if err := p.Parse(strings.NewReader(input)); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	g, err := p.Finish()
	if err != nil {
		t.Fatalf("Finish() error = %v", err)
	}
	if len(g.Blocks[0].Rows) != 2 {
		t.Errorf("Rows = %v, want 2 rows", g.Blocks[0].Rows)
	}
}

func TestWarningCarriesLineNumber(t *testing.T) {
	p := NewParser()
	p.ParseLine("title=t")
	p.ParseLine("=bogus")
	g, err := p.Finish()
	if err != nil {
		t.Fatalf("Finish() error = %v", err)
	}
	if len(g.Warnings) != 1 || g.Warnings[0].Line != 2 {
		t.Errorf("Warnings = %+v, want one warning on line 2", g.Warnings)
	}
}
