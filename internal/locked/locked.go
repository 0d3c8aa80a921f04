// Package locked provides an exclusive-access cell: a value that can only be
// reached while holding the cell's mutex.
//
// The allocator state itself carries no synchronization; wrapping it in a
// Locked gives every Alloc/Dealloc a single critical section covering all
// bin, free-list and sub-heap mutation.
package locked

import "sync"

// Locked guards a value of type T. The zero value holds the zero T and is
// ready to use. A Locked must not be copied after first use.
type Locked[T any] struct {
	mu sync.Mutex
	v  T
}

// New returns a cell holding v.
func New[T any](v T) *Locked[T] {
	return &Locked[T]{v: v}
}

// Guard grants exclusive access to the value until Release is called.
type Guard[T any] struct {
	cell     *Locked[T]
	released bool
}

// Acquire blocks until the cell is free and returns a guard for it.
//
//	g := cell.Acquire()
//	defer g.Release()
//	g.Value().Mutate()
func (l *Locked[T]) Acquire() *Guard[T] {
	l.mu.Lock()
	return &Guard[T]{cell: l}
}

// With runs fn with exclusive access to the value.
func (l *Locked[T]) With(fn func(v *T)) {
	g := l.Acquire()
	defer g.Release()
	fn(g.Value())
}

// Value returns the guarded value. The pointer must not be retained after Release.
func (g *Guard[T]) Value() *T {
	if g.released {
		panic("locked: value accessed after release")
	}
	return &g.cell.v
}

// Release gives up exclusive access. Releasing twice is a no-op.
func (g *Guard[T]) Release() {
	if g.released {
		return
	}
	g.released = true
	g.cell.mu.Unlock()
}
