package types

// -----------------------------------------------------------------------------
// Typed Errors (stable categories for programmatic handling)
// -----------------------------------------------------------------------------

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindOutOfMemory ErrKind = iota // no partition could satisfy the request
	ErrKindLayout                     // malformed request (alignment not a power of two)
	ErrKindState                      // invalid operation for current lifecycle state
	ErrKindConfig                     // unusable configuration
)

// String returns a short name for the kind.
func (k ErrKind) String() string {
	switch k {
	case ErrKindOutOfMemory:
		return "out-of-memory"
	case ErrKindLayout:
		return "layout"
	case ErrKindState:
		return "state"
	case ErrKindConfig:
		return "config"
	default:
		return "unknown"
	}
}

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same kind and message, so a
// wrapped copy carrying a cause still matches its sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind && e.Msg == t.Msg
}

// Sentinels commonly returned by implementations.
var (
	// ErrOutOfMemory indicates the owning partition has no free block large enough.
	ErrOutOfMemory = &Error{Kind: ErrKindOutOfMemory, Msg: "out of memory"}
	// ErrBadAlign indicates an alignment that is zero or not a power of two.
	ErrBadAlign = &Error{Kind: ErrKindLayout, Msg: "alignment must be a non-zero power of two"}
	// ErrNotInitialized indicates allocator use before Init.
	ErrNotInitialized = &Error{Kind: ErrKindState, Msg: "allocator not initialized"}
	// ErrAlreadyInitialized indicates a second call to Init.
	ErrAlreadyInitialized = &Error{Kind: ErrKindState, Msg: "allocator already initialized"}
	// ErrBadOptions indicates options that cannot produce a valid partition.
	ErrBadOptions = &Error{Kind: ErrKindConfig, Msg: "invalid allocator options"}
)

// Wrap returns a copy of sentinel carrying cause. errors.Is(result, sentinel)
// and errors.Is(result, cause) both hold.
func Wrap(sentinel *Error, cause error) error {
	return &Error{Kind: sentinel.Kind, Msg: sentinel.Msg, Err: cause}
}
