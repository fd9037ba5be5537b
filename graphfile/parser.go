package graphfile

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Warning is a deferred diagnostic for an unrecognized option or directive.
// Warnings never abort processing.
type Warning struct {
	Name    string
	Line    int
	Message string
}

// Graph is the finalized result of parsing one graph file: chart state,
// grouping, rectangular data blocks, and the accumulated option values.
type Graph struct {
	State    ChartState
	Grouping Grouping
	Blocks   []DataBlock

	// Groups is the number of plot terms rendered per cluster set.
	Groups int
	// MultiSet marks multimulti input; the emitter then addresses each
	// data block by index and opens it with a new-histogram marker.
	MultiSet  bool
	ErrorBars bool

	Warnings []Warning

	options optionValues
}

// ConfigLines returns the config lines rendered by options of the given
// phase, in name order.
func (g *Graph) ConfigLines(phase Phase) []string {
	return g.options.render(phase)
}

type Option func(*Parser)

// WithFile records the input's name for use in messages.
func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

// Parser classifies graph-file lines one at a time and owns all parsing
// state. Classification is order-dependent: later scalar occurrences
// overwrite earlier ones, array occurrences accumulate.
type Parser struct {
	file     string
	line     int
	options  optionValues
	grouping Grouping
	grouped  bool
	dataset  *Dataset
	warnings []Warning
}

func NewParser(opts ...Option) *Parser {
	p := &Parser{
		options: newOptionValues(),
		dataset: NewDataset(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Parser) File() string { return p.file }

// Parse classifies every line of r.
func (p *Parser) Parse(r io.Reader) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		p.ParseLine(sc.Text())
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}

// ParseLine classifies one raw input line. Precedence: comment/blank,
// ident=value option, grouping directive, boolean directive, data-mode
// directive, unknown directive, data row.
func (p *Parser) ParseLine(raw string) {
	p.line++
	line := strings.TrimSpace(raw)
	if line == "" || strings.HasPrefix(line, "#") {
		return
	}

	if name, value, ok := splitOption(line); ok {
		switch {
		case hasScalarOption(name):
			p.options.scalars[name] = value
		case hasArrayOption(name):
			p.options.arrays[name] = append(p.options.arrays[name], value)
		default:
			p.warn(name, "unrecognized option: "+name)
		}
		return
	}

	if strings.HasPrefix(line, "=") {
		p.parseDirective(line[1:])
		return
	}

	label, values := SplitDataRow(line)
	p.dataset.AddRow(label, values)
}

func (p *Parser) parseDirective(body string) {
	if g, ok := ParseGrouping(body); ok {
		p.grouping = g
		p.grouped = true
		return
	}
	if _, ok := boolOptions[body]; ok {
		p.options.bools[body] = true
		return
	}
	switch {
	case body == "table":
		p.dataset.SetMode(ModeTable)
	case body == "multi":
		p.dataset.SetMode(ModeMulti)
	case body == "yerrorbars":
		p.dataset.SetMode(ModeYErrorBars)
	case body == "multimulti":
		p.dataset.AddSetBoundary("")
	case strings.HasPrefix(body, "multimulti"):
		// The character after the name delimits the set title.
		p.dataset.AddSetBoundary(body[len("multimulti")+1:])
	default:
		p.warn("="+body, "unrecognized directive: ="+body)
	}
}

func (p *Parser) warn(name, message string) {
	p.warnings = append(p.warnings, Warning{Name: name, Line: p.line, Message: message})
}

// Finish applies the init and apply mutation passes to a fresh default
// chart state, finalizes the dataset, and returns the completed graph.
// Warnings are sorted by name; one entry per occurrence.
func (p *Parser) Finish() (*Graph, error) {
	state := DefaultState()
	p.options.mutate(PhaseInit, &state)
	p.options.mutate(PhaseApply, &state)
	if p.grouped && p.grouping.Stacked() {
		state.InvertKey = true
	}

	blocks, err := p.dataset.Finalize(state.Column, p.grouping.Groups())
	if err != nil {
		if p.file != "" {
			return nil, fmt.Errorf("%s: %w", p.file, err)
		}
		return nil, err
	}

	warnings := make([]Warning, len(p.warnings))
	copy(warnings, p.warnings)
	sort.SliceStable(warnings, func(i, j int) bool {
		return warnings[i].Name < warnings[j].Name
	})

	return &Graph{
		State:     state,
		Grouping:  p.grouping,
		Blocks:    blocks,
		Groups:    p.grouping.Groups(),
		MultiSet:  p.dataset.MultiSet(),
		ErrorBars: p.dataset.Mode() == ModeYErrorBars,
		Warnings:  warnings,
		options:   p.options,
	}, nil
}

// splitOption matches ident=value, where ident is a letter or underscore
// followed by letters, digits or underscores. Anything else is left to the
// data-row tokenizer.
func splitOption(line string) (name, value string, ok bool) {
	eq := strings.IndexByte(line, '=')
	if eq <= 0 {
		return "", "", false
	}
	name = line[:eq]
	if !isIdent(name) {
		return "", "", false
	}
	return name, line[eq+1:], true
}

func isIdent(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func hasScalarOption(name string) bool {
	_, ok := scalarOptions[name]
	return ok
}

func hasArrayOption(name string) bool {
	_, ok := arrayOptions[name]
	return ok
}
