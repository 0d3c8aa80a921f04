package alloc

import (
	"fmt"

	"github.com/joshuapare/segalloc/alloc/sizeclass"
	"github.com/joshuapare/segalloc/pkg/types"
)

// Options configures partition sizing.
type Options struct {
	// VariableSliceDivisor gives each variable-class heap 1/VariableSliceDivisor
	// of the region. The fallback heap receives the rest.
	// Default: 16 (four 1/16 slices, 3/4 fallback).
	VariableSliceDivisor uintptr
}

// DefaultOptions returns the documented equal 1/16 split.
func DefaultOptions() Options {
	return Options{VariableSliceDivisor: 16}
}

// resolve fills zero fields from the defaults.
func resolve(opts *Options) Options {
	out := DefaultOptions()
	if opts == nil {
		return out
	}
	if opts.VariableSliceDivisor != 0 {
		out.VariableSliceDivisor = opts.VariableSliceDivisor
	}
	return out
}

func (o Options) validate() error {
	if o.VariableSliceDivisor <= sizeclass.NumVariable {
		return fmt.Errorf("variable slice divisor %d must exceed %d: %w",
			o.VariableSliceDivisor, sizeclass.NumVariable, types.ErrBadOptions)
	}
	return nil
}
