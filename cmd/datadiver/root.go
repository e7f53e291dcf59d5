package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for datadiver.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "datadiver",
		Short: "Same-domain web crawler for metadata extraction",
		Long: `datadiver crawls a website starting from a seed URL, following links
within the same domain, and extracts shallow metadata from every page:
title, meta description, and h1/h2 heading text.

Results are printed as a summary table and exported as CSV, JSON,
Markdown, or XLSX.`,
		Version:       currentBuild().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
