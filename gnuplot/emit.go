// Package gnuplot renders a finalized graph as a gnuplot script: chart
// configuration, an inline data block, and one plot command.
package gnuplot

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/bargen/graphfile"
)

// Emitter writes the generated script to out. Warnings about unrecognized
// directives go to diag, after the configuration and before the data block,
// so they never corrupt the script itself.
type Emitter struct {
	out  io.Writer
	diag io.Writer

	// Extra holds literal backend lines emitted verbatim after the user's
	// options and before the data block.
	Extra []string
}

func NewEmitter(out, diag io.Writer) *Emitter {
	return &Emitter{out: out, diag: diag}
}

// Emit writes the complete script for g. The output is deterministic for a
// given graph: configuration ordering comes from the option registry, data
// ordering from the aggregator.
func (e *Emitter) Emit(g *graphfile.Graph) error {
	if err := e.write(configSection(g, e.Extra)); err != nil {
		return err
	}
	for _, w := range g.Warnings {
		fmt.Fprintf(e.diag, "warning: %s\n", w.Message)
	}
	if err := e.write(dataSection(g)); err != nil {
		return err
	}
	return e.write(plotSection(g))
}

func (e *Emitter) write(text string) error {
	if _, err := io.WriteString(e.out, text); err != nil {
		return fmt.Errorf("write script: %w", err)
	}
	return nil
}

func configSection(g *graphfile.Graph, extra []string) string {
	st := g.State
	var lines []string

	lines = append(lines, "# generated by bargen; do not edit")
	lines = append(lines, g.ConfigLines(graphfile.PhaseInit)...)

	lines = append(lines,
		"set datafile missing "+graphfile.Quote(graphfile.Missing),
		"set boxwidth "+st.BarWidth,
		"set style data histogram",
		"set style fill "+fillStyle(st),
		"set style histogram "+histogramStyle(g),
	)
	if st.GridY {
		lines = append(lines, "set grid ytics")
	}
	if st.NoUpperRight {
		lines = append(lines, "set border 3", "set xtics nomirror", "set ytics nomirror")
	}
	if !st.Legend {
		lines = append(lines, "unset key")
	} else if st.InvertKey {
		lines = append(lines, "set key invert")
	}
	lines = append(lines, xticsLines(g)...)
	if st.YMin != "" || st.YMax != "" {
		lines = append(lines, fmt.Sprintf("set yrange [%s:%s]", orStar(st.YMin), orStar(st.YMax)))
	}

	lines = append(lines, g.ConfigLines(graphfile.PhaseApply)...)
	lines = append(lines, extra...)

	return strings.Join(lines, "\n") + "\n"
}

func fillStyle(st graphfile.ChartState) string {
	if st.FillStyle != "" {
		return st.FillStyle
	}
	if st.Patterns {
		return fmt.Sprintf("pattern %d", st.PatternOffset)
	}
	return "solid 1 noborder"
}

func histogramStyle(g *graphfile.Graph) string {
	if g.ErrorBars {
		return "errorbars gap " + g.State.BarGap
	}
	if g.Grouping.Stacked() {
		return "rowstacked"
	}
	return "clustered gap " + g.State.BarGap
}

func xticsLines(g *graphfile.Graph) []string {
	st := g.State
	if !st.XTicLabels {
		return []string{"unset xtics"}
	}
	var lines []string
	if st.RotateBy != "0" {
		lines = append(lines, "set xtics rotate by "+st.RotateBy)
	}
	if g.MultiSet && st.MultiMultiOffset != "" && st.MultiMultiOffset != "0" {
		lines = append(lines, "set xtics offset 0,"+st.MultiMultiOffset)
	}
	return lines
}

func orStar(bound string) string {
	if bound == "" {
		return "*"
	}
	return bound
}

func dataSection(g *graphfile.Graph) string {
	var sb strings.Builder
	sb.WriteString("$data << EOD\n")
	for i, block := range g.Blocks {
		if i > 0 {
			// Two blank lines start a new index block in the backend.
			sb.WriteString("\n\n")
		}
		for _, row := range block.Rows {
			sb.WriteString(strings.Join(row, " "))
			sb.WriteByte('\n')
		}
	}
	sb.WriteString("EOD\n")
	return sb.String()
}

func plotSection(g *graphfile.Graph) string {
	terms := make([]string, 0, len(g.State.ExtraPlot)+len(g.Blocks)*g.Groups)
	terms = append(terms, g.State.ExtraPlot...)

	step := 1
	if g.ErrorBars {
		step = 2
	}

	for set, block := range g.Blocks {
		last := set == len(g.Blocks)-1
		for i := 0; i < g.Groups; i++ {
			terms = append(terms, plotTerm(g, block, set, i, step, last))
		}
	}

	if len(terms) == 0 {
		return ""
	}
	return "plot \\\n\t" + strings.Join(terms, ", \\\n\t") + "\n"
}

// plotTerm builds the term for one (cluster set, group) pair. Column 1 is
// the label, so group columns start at 2; error bars pair every value
// column with its error column, doubling the stride.
func plotTerm(g *graphfile.Graph, block graphfile.DataBlock, set, group, step int, last bool) string {
	var sb strings.Builder

	if group == 0 && g.MultiSet {
		sb.WriteString("newhistogram " + graphfile.Quote(block.Title))
		if g.State.Patterns && set > 0 {
			fmt.Fprintf(&sb, " fs pattern %d", g.State.PatternOffset+set)
		}
		sb.WriteString(", ")
	}

	sb.WriteString("$data ")
	if g.MultiSet {
		fmt.Fprintf(&sb, "index %d ", set)
	}

	col := 2 + group*step
	fmt.Fprintf(&sb, "using %d", col)
	if g.ErrorBars {
		fmt.Fprintf(&sb, ":%d", col+1)
	}
	if g.State.XTicLabels {
		sb.WriteString(":xtic(1)")
	}

	// Titles only on the last set, so the legend lists each group once.
	if last && group < len(g.Grouping.Titles) {
		sb.WriteString(" title " + graphfile.Quote(g.Grouping.Titles[group]))
	} else {
		sb.WriteString(" notitle")
	}

	fmt.Fprintf(&sb, " ls %d", lineStyle(g, group))
	return sb.String()
}

// lineStyle cycles through the user color list when one was given, else
// assigns styles by group position.
func lineStyle(g *graphfile.Graph, group int) int {
	if n := len(g.State.Colors); n > 0 {
		return group%n + 1
	}
	return group + 1
}
