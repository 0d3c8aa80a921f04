package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/segalloc/alloc"
)

func init() {
	rootCmd.AddCommand(newLayoutCmd())
}

func newLayoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the partition layout of a freshly initialized allocator",
		Long: `The layout command maps a region of --region-size bytes, initializes the
allocator over it and prints the five partitions: the fallback heap followed
by one slice per variable size class.

Example:
  heapctl layout
  heapctl layout --region-size 1048576 --slice-divisor 8
  heapctl layout --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayout()
		},
	}
	return cmd
}

func runLayout() error {
	g, cleanup, err := newGlobal()
	if err != nil {
		return err
	}
	defer cleanup()

	if jsonOut {
		var rep alloc.Report
		g.Inspect(func(a *alloc.Allocator) { rep = a.Snapshot() })
		return printJSON(rep)
	}
	if quiet {
		return nil
	}
	return g.WriteReport(os.Stdout)
}
