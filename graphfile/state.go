package graphfile

// ChartState holds every knob that influences the emitted script outside of
// the data itself. It is mutated exclusively by option handlers during the
// parsing pass and read-only afterward.
type ChartState struct {
	BarGap    string
	BarWidth  string
	FillStyle string

	GridY        bool
	Legend       bool
	InvertKey    bool
	NoUpperRight bool
	XTicLabels   bool

	RotateBy string
	YMin     string
	YMax     string

	Colors []string

	Patterns      bool
	PatternOffset int

	MultiMultiOffset string

	// ExtraPlot holds literal plot expressions (reference lines and the
	// like) prepended to the generated plot command.
	ExtraPlot []string

	// Column is the raw value of the column= selector. It is validated
	// when the dataset is finalized, not when the option is parsed.
	Column string
}

// DefaultState returns the chart state documented in the graph-file format:
// grid on the y axis, legend on, x-tic labels rotated by -30 degrees, solid
// fills, unit bar width and cluster gap.
func DefaultState() ChartState {
	return ChartState{
		BarGap:        "1",
		BarWidth:      "1",
		GridY:         true,
		Legend:        true,
		XTicLabels:    true,
		RotateBy:      "-30",
		PatternOffset: 2,
	}
}
