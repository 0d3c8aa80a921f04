package format

import "encoding/binary"

// Word encoding inside the backing region.
//
// Free-list links are the only values the allocator stores in managed memory.
// They are written little-endian through encoding/binary; the compiler
// inlines these calls into single loads and stores.

// PutWord writes v at b[off:off+WordSize].
func PutWord(b []byte, off int, v uint64) {
	binary.LittleEndian.PutUint64(b[off:off+WordSize], v)
}

// ReadWord reads the word at b[off:off+WordSize].
func ReadWord(b []byte, off int) uint64 {
	return binary.LittleEndian.Uint64(b[off : off+WordSize])
}
