package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/joshuapare/segalloc/alloc"
	"github.com/joshuapare/segalloc/alloc/sizeclass"
	"github.com/joshuapare/segalloc/pkg/types"
)

func init() {
	rootCmd.AddCommand(newClassifyCmd())
}

func newClassifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify <size> [align]",
		Short: "Show the size class and server for a request",
		Long: `The classify command shows which size class a (size, align) request
falls into and which component serves it. The alignment defaults to 8.

Example:
  heapctl classify 10 64
  heapctl classify 70000
  heapctl classify 3000 --json`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(args)
		},
	}
	return cmd
}

// ClassifyResult is the JSON shape of the classify command.
type ClassifyResult struct {
	Size       uintptr `json:"size"`
	Align      uintptr `json:"align"`
	Route      string  `json:"route"`
	Bin        *int    `json:"bin,omitempty"`
	BlockSize  uintptr `json:"blockSize,omitempty"`
	BlockAlign uintptr `json:"blockAlign,omitempty"`
}

func runClassify(args []string) error {
	size, err := strconv.ParseUint(args[0], 0, 64)
	if err != nil {
		return fmt.Errorf("invalid size %q: %w", args[0], err)
	}
	align := uint64(8)
	if len(args) == 2 {
		if align, err = strconv.ParseUint(args[1], 0, 64); err != nil {
			return fmt.Errorf("invalid align %q: %w", args[1], err)
		}
	}
	l, err := types.NewLayout(uintptr(size), uintptr(align))
	if err != nil {
		return err
	}

	route := alloc.RouteFor(l)
	res := ClassifyResult{Size: l.Size, Align: l.Align, Route: route.Kind.String()}
	if route.Kind != alloc.RouteFallback {
		c := sizeclass.Get(route.Bin)
		res.Bin = &c.Index
		res.BlockSize = c.BlockSize
		res.BlockAlign = c.Align
	}

	if jsonOut {
		return printJSON(res)
	}

	printInfo("request:  %s\n", l)
	printInfo("route:    %s\n", res.Route)
	if res.Bin != nil {
		printInfo("class:    %d (block %d bytes, align %d)\n", *res.Bin, res.BlockSize, res.BlockAlign)
	}
	return nil
}
