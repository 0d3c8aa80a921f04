// Package types defines the small value types shared by every allocator
// component: addresses inside the backing region, allocation requests
// (layouts), and the typed errors surfaced across package boundaries.
//
// Design goals:
//   - Addresses are plain integers (Addr), never Go pointers, so the
//     bookkeeping of every component stays free of unsafe code.
//   - Null is the only invalid address; a backing region never starts at 0.
//   - Typed errors with stable categories (out-of-memory/layout/state/config).
//
// This package has no dependencies beyond the standard library.
package types
