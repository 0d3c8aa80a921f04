package alloc

import (
	"fmt"

	"github.com/joshuapare/segalloc/alloc/sizeclass"
	"github.com/joshuapare/segalloc/internal/region"
	"github.com/joshuapare/segalloc/pkg/types"
)

// Partition names used in reports and log records.
const (
	FallbackPartition = "fallback"
)

// VariablePartitionName returns the name of the slice serving variable slot.
func VariablePartitionName(slot int) string {
	return fmt.Sprintf("var-%d", sizeclass.BlockSize(sizeclass.NumFixed+slot))
}

// Partition is one named, immutable sub-range of the backing region.
type Partition struct {
	Name string
	Span region.Span
}

// Partitions is the fixed layout established at Init.
type Partitions struct {
	Fallback region.Span
	Variable [sizeclass.NumVariable]region.Span
}

// Plan splits whole into the fallback range followed by NumVariable slices of
// whole.Size/divisor bytes each, in class order. The fallback range absorbs
// any remainder so the five ranges exactly cover whole.
func Plan(whole region.Span, divisor uintptr) (Partitions, error) {
	if divisor <= sizeclass.NumVariable {
		return Partitions{}, fmt.Errorf("divisor %d: %w", divisor, types.ErrBadOptions)
	}
	slice := whole.Size / divisor
	fallbackSize := whole.Size - sizeclass.NumVariable*slice

	p := Partitions{Fallback: region.Span{Start: whole.Start, Size: fallbackSize}}
	next := p.Fallback.End()
	for slot := range p.Variable {
		p.Variable[slot] = region.Span{Start: next, Size: slice}
		next = next.Add(slice)
	}
	return p, nil
}

// All returns the partitions in address order.
func (p Partitions) All() []Partition {
	out := make([]Partition, 0, 1+sizeclass.NumVariable)
	out = append(out, Partition{Name: FallbackPartition, Span: p.Fallback})
	for slot, s := range p.Variable {
		out = append(out, Partition{Name: VariablePartitionName(slot), Span: s})
	}
	return out
}

// Find returns the partition containing addr.
func (p Partitions) Find(addr types.Addr) (Partition, bool) {
	for _, part := range p.All() {
		if part.Span.Contains(addr) {
			return part, true
		}
	}
	return Partition{}, false
}
