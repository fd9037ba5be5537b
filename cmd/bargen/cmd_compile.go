package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/dhamidi/bargen/gnuplot"
	"github.com/dhamidi/bargen/graphfile"
	"github.com/spf13/cobra"
)

func newCompileCmd() *cobra.Command {
	var directives []string
	var extra []string
	var outputPath string

	cmd := &cobra.Command{
		Use:   "compile [file]",
		Short: "Compile a graph file into a gnuplot script",
		Long: `Compile a graph file into a gnuplot script on stdout.

If a file is provided it is read in full; otherwise the graph file is read
from stdin. Unrecognized directives are reported on stderr and do not stop
the compilation.

Examples:
  bargen compile chart.graph | gnuplot
  bargen compile -d '=patterns' chart.graph
  bargen compile -e 'set terminal png' -o chart.gp chart.graph`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var source []byte
			var err error
			var filename string

			if len(args) == 0 {
				filename = "<stdin>"
				source, err = io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
			} else {
				filename = args[0]
				source, err = os.ReadFile(filename)
				if err != nil {
					return fmt.Errorf("read file: %w", err)
				}
			}

			p := graphfile.NewParser(graphfile.WithFile(filename))
			if err := p.Parse(bytes.NewReader(source)); err != nil {
				return err
			}
			for _, d := range directives {
				p.ParseLine(d)
			}

			g, err := p.Finish()
			if err != nil {
				return fmt.Errorf("compile: %w", err)
			}

			out := io.Writer(os.Stdout)
			if outputPath != "" {
				f, err := os.Create(outputPath)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer f.Close()
				out = f
			}

			e := gnuplot.NewEmitter(out, os.Stderr)
			e.Extra = extra
			return e.Emit(g)
		},
	}

	cmd.Flags().StringArrayVarP(&directives, "directive", "d", nil, "directive line appended to the input (repeatable)")
	cmd.Flags().StringArrayVarP(&extra, "extra", "e", nil, "literal gnuplot line emitted before the data block (repeatable)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "write the script to this file instead of stdout")

	return cmd
}
