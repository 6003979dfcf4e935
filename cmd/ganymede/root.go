package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "ganymede",
	Short: "Ganymede - approval-policy service for company spend",
	Long: `Ganymede is an approval-policy service for company spend.

It owns a structured policy document built from ordered rule containers,
applies mutations through a pure transition engine with full validation,
persists every revision, and translates free-form rule descriptions into
structured rules.

The HTTP API exposes the document, a mutation command endpoint, the
translator, and the fixed option catalogs backing a policy builder.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
