package main

import (
	"github.com/dhamidi/bargen/langserver"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
)

func newLSPCmd() *cobra.Command {
	var debug int

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		RunE: func(cmd *cobra.Command, args []string) error {
			commonlog.Configure(debug, nil)
			server := langserver.New(version)
			return server.RunStdio()
		},
	}

	cmd.Flags().IntVar(&debug, "debug", 0, "log verbosity (0 = quiet)")

	return cmd
}
