package region

import "errors"

var (
	// ErrEmpty indicates a zero-length backing slice.
	ErrEmpty = errors.New("region: empty backing memory")

	// ErrOutOfRange indicates an address range not fully inside the region.
	ErrOutOfRange = errors.New("region: address range outside region")

	// ErrBadSize indicates a mapping request for a non-positive size.
	ErrBadSize = errors.New("region: mapping size must be positive")
)
