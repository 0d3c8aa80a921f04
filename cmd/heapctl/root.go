package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/segalloc/alloc"
	"github.com/joshuapare/segalloc/internal/logger"
	"github.com/joshuapare/segalloc/internal/region"
)

var (
	// Global flags
	verbose    bool
	quiet      bool
	jsonOut    bool
	regionSize int
	divisor    uint
)

var rootCmd = &cobra.Command{
	Use:   "heapctl",
	Short: "Inspect and exercise the segregated size-class allocator",
	Long: `heapctl maps an anonymous backing region, initializes the size-class
allocator over it, and lets you inspect routing decisions, the partition
layout, and the allocator's behaviour under randomized workloads.`,
	Version: version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(logger.Options{Enabled: verbose, Level: slog.LevelDebug})
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging to stderr")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().
		IntVar(&regionSize, "region-size", 16<<20, "Backing region size in bytes")
	rootCmd.PersistentFlags().
		UintVar(&divisor, "slice-divisor", 16, "Each variable class gets 1/N of the region")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newGlobal maps the backing region and initializes an allocator over it.
// The returned cleanup unmaps the region.
func newGlobal() (*alloc.Global, func() error, error) {
	mem, cleanup, err := region.Map(regionSize)
	if err != nil {
		return nil, nil, err
	}
	g := alloc.NewGlobal(&alloc.Options{VariableSliceDivisor: uintptr(divisor)})
	if err := g.Init(mem); err != nil {
		_ = cleanup()
		return nil, nil, fmt.Errorf("init allocator: %w", err)
	}
	return g, cleanup, nil
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
