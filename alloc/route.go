package alloc

import (
	"fmt"

	"github.com/joshuapare/segalloc/alloc/sizeclass"
	"github.com/joshuapare/segalloc/pkg/types"
)

// RouteKind names the component that serves a request.
type RouteKind uint8

const (
	// RouteFallback sends the request straight to the fallback heap.
	RouteFallback RouteKind = iota
	// RouteFixed serves the request from a fixed-bin free list.
	RouteFixed
	// RouteVariable serves the request from a variable-class sub-heap.
	RouteVariable
)

func (k RouteKind) String() string {
	switch k {
	case RouteFallback:
		return "fallback"
	case RouteFixed:
		return "fixed"
	case RouteVariable:
		return "variable"
	default:
		return fmt.Sprintf("RouteKind(%d)", uint8(k))
	}
}

// Route is the routing decision for one layout. Bin is only meaningful for
// RouteFixed and RouteVariable.
type Route struct {
	Kind RouteKind
	Bin  int
}

// RouteFor classifies l and picks its server. It is a pure function of l, so
// allocation and deallocation of the same layout always agree.
func RouteFor(l types.Layout) Route {
	bin, ok := sizeclass.Classify(l.Size, l.Align)
	switch {
	case !ok:
		return Route{Kind: RouteFallback}
	case sizeclass.IsFixed(bin):
		return Route{Kind: RouteFixed, Bin: bin}
	default:
		return Route{Kind: RouteVariable, Bin: bin}
	}
}

func (r Route) String() string {
	if r.Kind == RouteFallback {
		return r.Kind.String()
	}
	return fmt.Sprintf("%s/%d(%d bytes)", r.Kind, r.Bin, sizeclass.BlockSize(r.Bin))
}
