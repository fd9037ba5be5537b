package graphfile

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Phase says when an option takes effect. Init options run before the
// emitter computes chart defaults because they influence those defaults;
// apply options run afterwards so their config lines override the defaults.
type Phase int

const (
	PhaseInit Phase = iota
	PhaseApply
)

func (p Phase) String() string {
	if p == PhaseInit {
		return "init"
	}
	return "apply"
}

// BoolOption is a bare =name directive. Render, when present, contributes a
// config line; Mutate, when present, updates the chart state.
type BoolOption struct {
	Name   string
	Phase  Phase
	Help   string
	Render func() string
	Mutate func(st *ChartState)
}

// ScalarOption is a name=value directive. Later occurrences overwrite
// earlier ones.
type ScalarOption struct {
	Name   string
	Phase  Phase
	Help   string
	Render func(value string) string
	Mutate func(value string, st *ChartState)
}

// ArrayOption is a name=value directive that may occur multiple times;
// occurrence order is preserved.
type ArrayOption struct {
	Name   string
	Phase  Phase
	Help   string
	Render func(values []string) []string
	Mutate func(values []string, st *ChartState)
}

var boolOptions = map[string]BoolOption{
	"nogridy": {
		Name:  "nogridy",
		Phase: PhaseInit,
		Help:  "disable the y-axis grid",
		Mutate: func(st *ChartState) {
			st.GridY = false
		},
	},
	"nolegend": {
		Name:  "nolegend",
		Phase: PhaseInit,
		Help:  "disable the legend",
		Mutate: func(st *ChartState) {
			st.Legend = false
		},
	},
	"noupperright": {
		Name:  "noupperright",
		Phase: PhaseInit,
		Help:  "drop the upper and right chart borders",
		Mutate: func(st *ChartState) {
			st.NoUpperRight = true
		},
	},
	"noxlabels": {
		Name:  "noxlabels",
		Phase: PhaseInit,
		Help:  "omit the per-bar x-tic labels",
		Mutate: func(st *ChartState) {
			st.XTicLabels = false
		},
	},
	"norotate": {
		Name:  "norotate",
		Phase: PhaseInit,
		Help:  "do not rotate x-tic labels",
		Mutate: func(st *ChartState) {
			st.RotateBy = "0"
		},
	},
	"patterns": {
		Name:  "patterns",
		Phase: PhaseInit,
		Help:  "fill bars with patterns instead of solid colors",
		Mutate: func(st *ChartState) {
			st.Patterns = true
		},
	},
}

var scalarOptions = map[string]ScalarOption{
	"gap": {
		Name:  "gap",
		Phase: PhaseInit,
		Help:  "gap between clusters, in bar widths",
		Mutate: func(v string, st *ChartState) {
			st.BarGap = v
		},
	},
	"barwidth": {
		Name:  "barwidth",
		Phase: PhaseInit,
		Help:  "relative width of each bar",
		Mutate: func(v string, st *ChartState) {
			st.BarWidth = v
		},
	},
	"fillstyle": {
		Name:  "fillstyle",
		Phase: PhaseInit,
		Help:  "override the computed fill style",
		Mutate: func(v string, st *ChartState) {
			st.FillStyle = v
		},
	},
	"min": {
		Name:  "min",
		Phase: PhaseInit,
		Help:  "lower bound of the y range",
		Mutate: func(v string, st *ChartState) {
			st.YMin = v
		},
	},
	"max": {
		Name:  "max",
		Phase: PhaseInit,
		Help:  "upper bound of the y range",
		Mutate: func(v string, st *ChartState) {
			st.YMax = v
		},
	},
	"rotateby": {
		Name:  "rotateby",
		Phase: PhaseInit,
		Help:  "x-tic label rotation angle in degrees",
		Mutate: func(v string, st *ChartState) {
			st.RotateBy = v
		},
	},
	"patternoffset": {
		Name:  "patternoffset",
		Phase: PhaseInit,
		Help:  "first pattern index used for pattern fills",
		Mutate: func(v string, st *ChartState) {
			if n, err := strconv.Atoi(v); err == nil {
				st.PatternOffset = n
			}
		},
	},
	"mmoffset": {
		Name:  "mmoffset",
		Phase: PhaseInit,
		Help:  "vertical x-tic label offset for multimulti charts",
		Mutate: func(v string, st *ChartState) {
			st.MultiMultiOffset = v
		},
	},
	"column": {
		Name:  "column",
		Phase: PhaseInit,
		Help:  "value column for multi-mode rows (index or \"last\")",
		Mutate: func(v string, st *ChartState) {
			st.Column = v
		},
	},
	"title": {
		Name:  "title",
		Phase: PhaseApply,
		Help:  "chart title",
		Render: func(v string) string {
			return "set title " + Quote(v)
		},
	},
	"xlabel": {
		Name:  "xlabel",
		Phase: PhaseApply,
		Help:  "x-axis label",
		Render: func(v string) string {
			return "set xlabel " + Quote(v)
		},
	},
	"ylabel": {
		Name:  "ylabel",
		Phase: PhaseApply,
		Help:  "y-axis label",
		Render: func(v string) string {
			return "set ylabel " + Quote(v)
		},
	},
	"xformat": {
		Name:  "xformat",
		Phase: PhaseApply,
		Help:  "x-axis tic format string",
		Render: func(v string) string {
			return "set format x " + Quote(v)
		},
	},
	"yformat": {
		Name:  "yformat",
		Phase: PhaseApply,
		Help:  "y-axis tic format string",
		Render: func(v string) string {
			return "set format y " + Quote(v)
		},
	},
}

var arrayOptions = map[string]ArrayOption{
	"colors": {
		Name:  "colors",
		Phase: PhaseApply,
		Help:  "comma-separated list of bar colors, cycled per group",
		Render: func(values []string) []string {
			lines := make([]string, 0, len(values))
			for i, c := range splitColorList(values) {
				lines = append(lines, fmt.Sprintf("set style line %d lc rgb %s", i+1, Quote(c)))
			}
			return lines
		},
		Mutate: func(values []string, st *ChartState) {
			st.Colors = splitColorList(values)
		},
	},
	"extraops": {
		Name:  "extraops",
		Phase: PhaseApply,
		Help:  "literal gnuplot statement, passed through verbatim",
		Render: func(values []string) []string {
			return values
		},
	},
	"horizline": {
		Name:  "horizline",
		Phase: PhaseInit,
		Help:  "literal plot expression prepended to the plot command",
		Mutate: func(values []string, st *ChartState) {
			st.ExtraPlot = append(st.ExtraPlot, values...)
		},
	},
}

func splitColorList(values []string) []string {
	var colors []string
	for _, v := range values {
		for _, c := range strings.Split(v, ",") {
			c = strings.TrimSpace(c)
			if c != "" {
				colors = append(colors, c)
			}
		}
	}
	return colors
}

// Quote wraps s in double quotes for the backend, escaping embedded quotes.
// No further validation is done; bad color names and format strings are the
// backend's problem.
func Quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// optionValues accumulates the raw option values seen during parsing.
type optionValues struct {
	bools   map[string]bool
	scalars map[string]string
	arrays  map[string][]string
}

func newOptionValues() optionValues {
	return optionValues{
		bools:   make(map[string]bool),
		scalars: make(map[string]string),
		arrays:  make(map[string][]string),
	}
}

// names returns the present option names for the given phase, sorted, so
// that option application never depends on where the user placed a line.
func (o optionValues) names(phase Phase) []string {
	var names []string
	for name := range o.bools {
		if boolOptions[name].Phase == phase {
			names = append(names, name)
		}
	}
	for name := range o.scalars {
		if scalarOptions[name].Phase == phase {
			names = append(names, name)
		}
	}
	for name := range o.arrays {
		if arrayOptions[name].Phase == phase {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func (o optionValues) mutate(phase Phase, st *ChartState) {
	for _, name := range o.names(phase) {
		if opt, ok := boolOptions[name]; ok {
			if opt.Mutate != nil {
				opt.Mutate(st)
			}
			continue
		}
		if opt, ok := scalarOptions[name]; ok {
			if opt.Mutate != nil {
				opt.Mutate(o.scalars[name], st)
			}
			continue
		}
		if opt, ok := arrayOptions[name]; ok && opt.Mutate != nil {
			opt.Mutate(o.arrays[name], st)
		}
	}
}

func (o optionValues) render(phase Phase) []string {
	var lines []string
	for _, name := range o.names(phase) {
		if opt, ok := boolOptions[name]; ok {
			if opt.Render != nil {
				lines = append(lines, opt.Render())
			}
			continue
		}
		if opt, ok := scalarOptions[name]; ok {
			if opt.Render != nil {
				lines = append(lines, opt.Render(o.scalars[name]))
			}
			continue
		}
		if opt, ok := arrayOptions[name]; ok && opt.Render != nil {
			lines = append(lines, opt.Render(o.arrays[name])...)
		}
	}
	return lines
}

// DirectiveInfo describes one known directive for listings and completion.
type DirectiveInfo struct {
	Name  string
	Kind  string
	Phase string
	Help  string
}

// KnownDirectives returns every directive the classifier recognizes, sorted
// by name.
func KnownDirectives() []DirectiveInfo {
	var infos []DirectiveInfo
	for name, opt := range boolOptions {
		infos = append(infos, DirectiveInfo{Name: "=" + name, Kind: "boolean", Phase: opt.Phase.String(), Help: opt.Help})
	}
	for name, opt := range scalarOptions {
		infos = append(infos, DirectiveInfo{Name: name + "=", Kind: "scalar", Phase: opt.Phase.String(), Help: opt.Help})
	}
	for name, opt := range arrayOptions {
		infos = append(infos, DirectiveInfo{Name: name + "=", Kind: "array", Phase: opt.Phase.String(), Help: opt.Help})
	}
	infos = append(infos,
		DirectiveInfo{Name: "=cluster", Kind: "grouping", Phase: "init", Help: "clustered bars; delimiter and titles follow"},
		DirectiveInfo{Name: "=stacked", Kind: "grouping", Phase: "init", Help: "stacked bars; delimiter and titles follow"},
		DirectiveInfo{Name: "=stackcluster", Kind: "grouping", Phase: "init", Help: "stacked bars within clusters"},
		DirectiveInfo{Name: "=table", Kind: "mode", Phase: "init", Help: "rows are complete data rows"},
		DirectiveInfo{Name: "=multi", Kind: "mode", Phase: "init", Help: "start the next group of rows"},
		DirectiveInfo{Name: "=multimulti", Kind: "mode", Phase: "init", Help: "start the next cluster set; optional title follows"},
		DirectiveInfo{Name: "=yerrorbars", Kind: "mode", Phase: "init", Help: "rows carry error bars; repeat to start the error table"},
	)
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}
