//go:build linux || darwin || freebsd || netbsd || openbsd

package region

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// Map obtains size bytes of zeroed, private, anonymous memory suitable as a
// backing region. The returned cleanup unmaps it; the allocator built on top
// must not be used afterwards.
func Map(size int) ([]byte, func() error, error) {
	if size <= 0 {
		return nil, nil, ErrBadSize
	}
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, fmt.Errorf("region: mmap %d bytes: %w", size, err)
	}
	cleanup := func() error {
		if data == nil {
			return nil
		}
		err := unix.Munmap(data)
		data = nil
		if errors.Is(err, unix.EINVAL) {
			// Treat double-unmap as no-op for callers.
			return nil
		}
		return err
	}
	return data, cleanup, nil
}
