package main

import (
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "bargen",
		Short: "Compile bar-chart descriptions into gnuplot scripts",
	}

	rootCmd.AddCommand(newCompileCmd())
	rootCmd.AddCommand(newDirectivesCmd())
	rootCmd.AddCommand(newLSPCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
