package graphfile

import (
	"errors"
	"fmt"
)

// ErrErrorRowMismatch reports a yerrorbars dataset whose value and error
// tables differ in length. It can only be detected once the whole dataset
// has been collected.
var ErrErrorRowMismatch = errors.New("yerrorbars value and error tables differ in length")

// DataMode is the finite state of the aggregator: how incoming data rows
// are interpreted. Multi is the zero value: rows before any mode directive
// form group 0 of a multi dataset.
type DataMode int

const (
	ModeMulti DataMode = iota
	ModeTable
	ModeYErrorBars
)

func (m DataMode) String() string {
	switch m {
	case ModeTable:
		return "table"
	case ModeYErrorBars:
		return "yerrorbars"
	default:
		return "multi"
	}
}

// DataBlock is one finalized, rectangular block of the emitted data
// section. A nil row is a blank separator line. Title is non-empty only
// for titled multimulti cluster sets.
type DataBlock struct {
	Title string
	Rows  [][]string
}

type multiEntryKind int

const (
	entryRow multiEntryKind = iota
	entryGroupBoundary
	entrySetBoundary
)

type multiEntry struct {
	kind   multiEntryKind
	label  string
	values []string
	title  string
}

type tableRow struct {
	separator bool
	label     string
	values    []string
}

// Dataset accumulates data rows under the active data mode and owns the
// group and cluster counters. Rows are append-only during parsing; Finalize
// turns the buckets into ordered, rectangular data blocks.
type Dataset struct {
	mode DataMode

	table []tableRow

	multi      []multiEntry
	multiSet   bool
	multiDirty bool

	values      [][]string
	valueLabels []string
	errValues   [][]string
	collectErr  bool
}

func NewDataset() *Dataset {
	return &Dataset{}
}

func (d *Dataset) Mode() DataMode { return d.mode }

// MultiSet reports whether any multimulti boundary was seen in multi mode,
// which is what makes the emitter address cluster sets individually.
func (d *Dataset) MultiSet() bool { return d.multiSet }

// SetMode switches the active data mode. Switching to multi inserts a group
// boundary whenever multi data already exists, so consecutive =multi
// directives delimit groups unambiguously even on first use. A repeated
// =yerrorbars switches collection from the value table to the error table.
func (d *Dataset) SetMode(m DataMode) {
	switch m {
	case ModeMulti:
		// Only delimit within the current cluster set: the first =multi
		// of the input (and of each new set) opens group 0, it does not
		// close anything.
		if d.multiDirty {
			d.multi = append(d.multi, multiEntry{kind: entryGroupBoundary})
		}
	case ModeYErrorBars:
		if d.mode == ModeYErrorBars {
			d.collectErr = true
		}
	}
	d.mode = m
}

// AddRow appends one tokenized data row to the active mode's bucket.
func (d *Dataset) AddRow(label string, values []string) {
	switch d.mode {
	case ModeMulti:
		d.multi = append(d.multi, multiEntry{kind: entryRow, label: label, values: values})
		d.multiDirty = true
	case ModeYErrorBars:
		if d.collectErr {
			// Error-row labels are ignored; alignment is by row index.
			d.errValues = append(d.errValues, values)
		} else {
			d.valueLabels = append(d.valueLabels, label)
			d.values = append(d.values, values)
		}
	default:
		d.table = append(d.table, tableRow{label: label, values: values})
	}
}

// AddSetBoundary records a =multimulti marker. In multi mode it closes the
// current cluster set and opens a new one carrying the given title; in
// table mode it becomes a blank separator line.
func (d *Dataset) AddSetBoundary(title string) {
	switch d.mode {
	case ModeMulti:
		d.multiSet = true
		d.multiDirty = false
		d.multi = append(d.multi, multiEntry{kind: entrySetBoundary, title: title})
	default:
		d.table = append(d.table, tableRow{separator: true})
	}
}

// Finalize produces the ordered data blocks for the active mode. groups is
// the minimum matrix width in multi mode (the grouping directive's group
// count); columnSel is the raw column= selector.
func (d *Dataset) Finalize(columnSel string, groups int) ([]DataBlock, error) {
	switch d.mode {
	case ModeMulti:
		sel, err := resolveSelector(columnSel)
		if err != nil {
			return nil, err
		}
		return d.finalizeMulti(sel, groups), nil
	case ModeYErrorBars:
		return d.finalizeYErrorBars()
	default:
		return d.finalizeTable(), nil
	}
}

func (d *Dataset) finalizeTable() []DataBlock {
	if len(d.table) == 0 {
		return nil
	}
	block := DataBlock{}
	for _, row := range d.table {
		if row.separator {
			block.Rows = append(block.Rows, nil)
			continue
		}
		cells := make([]string, 0, len(row.values)+1)
		cells = append(cells, row.label)
		cells = append(cells, row.values...)
		block.Rows = append(block.Rows, cells)
	}
	return []DataBlock{block}
}

func (d *Dataset) finalizeYErrorBars() ([]DataBlock, error) {
	if len(d.values) != len(d.errValues) {
		return nil, fmt.Errorf("%w: %d value rows, %d error rows",
			ErrErrorRowMismatch, len(d.values), len(d.errValues))
	}
	if len(d.values) == 0 {
		return nil, nil
	}
	block := DataBlock{}
	for i, values := range d.values {
		errs := d.errValues[i]
		width := len(values)
		if len(errs) > width {
			width = len(errs)
		}
		cells := []string{d.valueLabels[i]}
		for j := 0; j < width; j++ {
			cells = append(cells, cellAt(values, j), cellAt(errs, j))
		}
		block.Rows = append(block.Rows, cells)
	}
	return []DataBlock{block}, nil
}

func cellAt(values []string, i int) string {
	if i >= len(values) {
		return Missing
	}
	return values[i]
}

// cluster is the per-set accumulation of a multi-mode walk.
type cluster struct {
	labels []string
	cells  map[string]map[int]string
	groups int
}

func newCluster() *cluster {
	return &cluster{cells: make(map[string]map[int]string)}
}

func (c *cluster) add(label string, group int, value string) {
	byGroup, ok := c.cells[label]
	if !ok {
		byGroup = make(map[int]string)
		c.cells[label] = byGroup
		c.labels = append(c.labels, label)
	}
	byGroup[group] = value
	if group+1 > c.groups {
		c.groups = group + 1
	}
}

func (c *cluster) empty() bool { return len(c.labels) == 0 }

// block renders the cluster as a rectangular labels-by-groups matrix in
// first-occurrence label order. Cells never supplied get the missing
// placeholder.
func (c *cluster) block(title string, minGroups int) DataBlock {
	groups := c.groups
	if minGroups > groups {
		groups = minGroups
	}
	b := DataBlock{Title: title}
	for _, label := range c.labels {
		cells := make([]string, 0, groups+1)
		cells = append(cells, label)
		for g := 0; g < groups; g++ {
			v, ok := c.cells[label][g]
			if !ok {
				v = Missing
			}
			cells = append(cells, v)
		}
		b.Rows = append(b.Rows, cells)
	}
	return b
}

func (d *Dataset) finalizeMulti(sel selector, minGroups int) []DataBlock {
	var blocks []DataBlock
	cur := newCluster()
	group := 0
	title := ""

	for _, entry := range d.multi {
		switch entry.kind {
		case entryGroupBoundary:
			group++
		case entrySetBoundary:
			if !cur.empty() {
				blocks = append(blocks, cur.block(title, minGroups))
				cur = newCluster()
				group = 0
			}
			title = entry.title
		default:
			cur.add(entry.label, group, sel(entry.values))
		}
	}
	if !cur.empty() {
		blocks = append(blocks, cur.block(title, minGroups))
	}
	return blocks
}
