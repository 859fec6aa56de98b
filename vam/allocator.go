package vam

import (
	"fmt"
	"sync/atomic"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/momentics/numaq/numaerr"
)

// Allocator is satisfied by anything that can hand out and reclaim raw
// byte buffers, shaped identically to Arrow Go's memory.Allocator so a
// SegPtr's backing store is interchangeable with Arrow-ecosystem code
// (grounded on 23skdu-longbow's arrow-go dependency).
type Allocator interface {
	Allocate(size int) []byte
	Reallocate(size int, b []byte) []byte
	Free(b []byte)
}

// NumaAllocator is the platform-neutral facade over NUMA-aware allocation;
// newPlatformBackend (linux/stub) supplies the concrete strategy, mirroring
// a NUMAPool/createNUMAAllocator-style platform split.
type NumaAllocator struct {
	backend numaBackend
}

// numaBackend is implemented per-platform (numa_linux.go / numa_stub.go).
type numaBackend interface {
	alloc(size, node int) ([]byte, error)
	free(b []byte)
	nodeCount() (int, error)
}

var _ Allocator = (*NumaAllocator)(nil)
var _ memory.Allocator = (*NumaAllocator)(nil)

// NewNumaAllocator constructs a NumaAllocator over the platform backend.
// Allocate uses the platform's default node; see AllocateOn for the
// node-specific allocation used by Vmalloc.
func NewNumaAllocator() *NumaAllocator {
	return &NumaAllocator{backend: newPlatformBackend()}
}

// Allocate satisfies memory.Allocator/vam.Allocator by allocating on node -1
// (platform default). vmalloc callers use AllocateOn directly for
// NUMA-node-targeted allocation.
func (a *NumaAllocator) Allocate(size int) []byte {
	b, err := a.backend.alloc(size, -1)
	if err != nil {
		return make([]byte, size)
	}
	return b
}

// AllocateOn allocates size bytes on the given NUMA node. When the
// platform backend cannot satisfy the request it returns a nil buffer and
// an error wrapping numaerr.ErrAllocFailed; it does not fall back to a
// heap allocation.
func (a *NumaAllocator) AllocateOn(size, node int) ([]byte, error) {
	b, err := a.backend.alloc(size, node)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", numaerr.ErrAllocFailed, err)
	}
	return b, nil
}

// Reallocate grows or shrinks b to size, copying existing content.
func (a *NumaAllocator) Reallocate(size int, b []byte) []byte {
	nb := a.Allocate(size)
	n := copy(nb, b)
	_ = n
	a.Free(b)
	return nb
}

// Free releases b back to its originating NUMA node.
func (a *NumaAllocator) Free(b []byte) {
	a.backend.free(b)
}

// Nodes reports how many NUMA nodes the platform backend can see.
func (a *NumaAllocator) Nodes() (int, error) {
	return a.backend.nodeCount()
}

// AllocationInfo is the shared record backing every SegPtr view: the
// node the bytes live on, the raw allocation, the allocator that owns it,
// and an atomic reference count. Private to this package.
type AllocationInfo struct {
	numaNode int
	data     []byte
	alloc    Allocator
	refCnt   atomic.Uint32
}

// release decrements the reference count and frees the backing allocation
// once the last reference is gone. Returns true if this call freed it.
func (ai *AllocationInfo) release() bool {
	if ai.refCnt.Add(^uint32(0)) == 0 { // fetch_sub(1) == 1 equivalent: new value 0
		if ai.alloc != nil && ai.data != nil {
			ai.alloc.Free(ai.data)
		}
		return true
	}
	return false
}

func (ai *AllocationInfo) retain() {
	ai.refCnt.Add(1)
}
