package firstfit

import "errors"

var (
	// ErrNoSpace indicates that no hole large enough was found. The heap never grows.
	ErrNoSpace = errors.New("firstfit: no free block large enough")

	// ErrUninitialized indicates allocation from a heap that was never given a range.
	ErrUninitialized = errors.New("firstfit: heap not initialized")
)
