package fixedbin

import (
	"fmt"

	"github.com/joshuapare/segalloc/internal/format"
	"github.com/joshuapare/segalloc/internal/region"
	"github.com/joshuapare/segalloc/pkg/types"
)

// A free-list node lives in the first word of a freed block and holds the
// address of the next free block of the same bin (Null terminates the list).
// This file is the only place that reads or writes managed memory.
const (
	nodeSize  = format.WordSize
	nodeAlign = format.WordSize
)

// node is a view of the link word inside one free block. It is built at a
// push or pop and dropped immediately after.
type node struct {
	word []byte
}

// nodeAt returns the node view for the block at addr. An address the region
// cannot back is an internal defect, not a recoverable error.
func nodeAt(mem *region.Region, addr types.Addr) node {
	if !format.IsAligned(uintptr(addr), nodeAlign) {
		panic(fmt.Sprintf("fixedbin: free-list node at %s is not %d-byte aligned", addr, nodeAlign))
	}
	b, err := mem.Slice(addr, nodeSize)
	if err != nil {
		panic(fmt.Sprintf("fixedbin: free-list node: %v", err))
	}
	return node{word: b}
}

func (n node) next() types.Addr {
	return types.Addr(format.ReadWord(n.word, 0))
}

func (n node) setNext(next types.Addr) {
	format.PutWord(n.word, 0, uint64(next))
}

// checkNodeFits asserts that a block of blockSize bytes, carved at the class
// alignment, can host a node. Failing it means the size table holds an entry
// too small for the free list.
func checkNodeFits(blockSize, blockAlign uintptr) {
	if nodeSize > blockSize {
		panic(fmt.Sprintf("fixedbin: block size %d cannot hold a %d-byte free-list node", blockSize, nodeSize))
	}
	if nodeAlign > blockAlign {
		panic(fmt.Sprintf("fixedbin: block alignment %d below free-list node alignment %d", blockAlign, nodeAlign))
	}
}
