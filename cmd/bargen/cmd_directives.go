package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dhamidi/bargen/graphfile"
	"github.com/spf13/cobra"
)

func newDirectivesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "directives",
		Short: "List every directive the compiler understands",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DIRECTIVE\tKIND\tPHASE\tDESCRIPTION")
			for _, info := range graphfile.KnownDirectives() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", info.Name, info.Kind, info.Phase, info.Help)
			}
			return w.Flush()
		},
	}
}
