//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd && !windows

package region

// Map returns a Go-heap slice when no anonymous mapping primitive is wired
// for the platform. The slice is released with the last reference to it.
func Map(size int) ([]byte, func() error, error) {
	if size <= 0 {
		return nil, nil, ErrBadSize
	}
	return make([]byte, size), func() error { return nil }, nil
}
