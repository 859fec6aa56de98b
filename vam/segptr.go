package vam

import (
	"unsafe"

	"github.com/momentics/numaq/config"
	"github.com/momentics/numaq/numaerr"
)

// SegPtr is a shared, segmented, NUMA-placed view over a byte range backed
// by an AllocationInfo. Segment size lives as a runtime field (segBytes)
// rather than a type parameter, since Go generics have no equivalent of a
// non-type template parameter.
type SegPtr[T Integer] struct {
	info       *AllocationInfo
	startBytes int // byte offset of this view's first element within info.data
	sizeBytes  int // byte extent of this view
	segBytes   int
}

func sizeofT[T Integer]() int {
	var z T
	return int(unsafe.Sizeof(z))
}

// Vmalloc allocates n elements of T, tiled into segments of segBytes bytes,
// placed on the node the placement oracle predicts for pattern.
func Vmalloc[T Integer](a *NumaAllocator, n, segBytes int, pattern AccessPattern, mm *config.MemoryMap) (SegPtr[T], error) {
	node, err := Predict(pattern, mm)
	if err != nil {
		return SegPtr[T]{}, err
	}
	elemSize := sizeofT[T]()
	total := n * elemSize
	data, err := a.AllocateOn(total, node)
	if err != nil {
		return SegPtr[T]{}, err
	}
	info := &AllocationInfo{numaNode: node, data: data, alloc: a}
	info.refCnt.Store(1)
	return SegPtr[T]{info: info, startBytes: 0, sizeBytes: total, segBytes: segBytes}, nil
}

// Size returns the element count of this view.
func (p SegPtr[T]) Size() int {
	return p.sizeBytes / sizeofT[T]()
}

// SegmentCount returns ceil(sizeBytes / segBytes).
func (p SegPtr[T]) SegmentCount() int {
	if p.segBytes <= 0 {
		return 0
	}
	return (p.sizeBytes + p.segBytes - 1) / p.segBytes
}

func (p SegPtr[T]) elemsPerSegment() int {
	return p.segBytes / sizeofT[T]()
}

// raw returns the underlying byte slice covering this view.
func (p SegPtr[T]) raw() []byte {
	if p.info == nil {
		return nil
	}
	return p.info.data[p.startBytes : p.startBytes+p.sizeBytes]
}

// typed returns this view's bytes reinterpreted as a []T via unsafe.Slice
// for zero-copy byte-buffer reinterpretation.
func (p SegPtr[T]) typed() []T {
	b := p.raw()
	if len(b) == 0 {
		return nil
	}
	n := len(b) / sizeofT[T]()
	return unsafe.Slice((*T)(unsafe.Pointer(&b[0])), n)
}

// Elements returns this view's bytes reinterpreted as a []T spanning its
// full Size(), for callers that want direct slice access rather than the
// segment-at-a-time GetSegment API.
func (p SegPtr[T]) Elements() []T {
	return p.typed()
}

// Index returns the i-th element, bounds-checked against Size().
func (p SegPtr[T]) Index(i int) (T, error) {
	var zero T
	if p.info == nil {
		return zero, numaerr.New(numaerr.CodeNullDeref, "index on nil SegPtr")
	}
	if i < 0 || i >= p.Size() {
		return zero, numaerr.New(numaerr.CodeOutOfRange, "index out of range").WithContext("i", i)
	}
	return p.typed()[i], nil
}

// Set writes the i-th element, same bounds as Index.
func (p SegPtr[T]) Set(i int, v T) error {
	if p.info == nil {
		return numaerr.New(numaerr.CodeNullDeref, "set on nil SegPtr")
	}
	if i < 0 || i >= p.Size() {
		return numaerr.New(numaerr.CodeOutOfRange, "index out of range").WithContext("i", i)
	}
	p.typed()[i] = v
	return nil
}

// Segment is the (sub-slice, count) pair returned by GetSegment.
type Segment[T Integer] struct {
	Data  []T
	Count int
}

// GetSegment returns segment k: addr = start + k*elemsPerSegment, count =
// min(elemsPerSegment, size - k*elemsPerSegment).
func (p SegPtr[T]) GetSegment(k int) (Segment[T], error) {
	if p.info == nil {
		return Segment[T]{}, numaerr.New(numaerr.CodeNullDeref, "get_segment on nil SegPtr")
	}
	if k < 0 || k >= p.SegmentCount() {
		return Segment[T]{}, numaerr.New(numaerr.CodeOutOfRange, "segment index out of range").WithContext("k", k)
	}
	per := p.elemsPerSegment()
	lo := k * per
	remaining := p.Size() - lo
	count := per
	if remaining < count {
		count = remaining
	}
	return Segment[T]{Data: p.typed()[lo : lo+count], Count: count}, nil
}

// Split partitions segment_count() segments as evenly as possible across n
// slivers: floor(segment_count()/n) segments each, with the first
// segment_count()%n slivers receiving one extra segment. Each sliver shares
// the allocation and increments ref_cnt by one.
func (p SegPtr[T]) Split(n int) ([]SegPtr[T], error) {
	if p.info == nil {
		return nil, numaerr.New(numaerr.CodeNullDeref, "split on nil SegPtr")
	}
	if n <= 0 {
		return nil, numaerr.New(numaerr.CodeZeroWorkers, "split requires n > 0")
	}
	segCount := p.SegmentCount()
	base := segCount / n
	extra := segCount % n
	per := p.elemsPerSegment()
	elemSize := sizeofT[T]()

	out := make([]SegPtr[T], 0, n)
	segCursor := 0
	byteCursor := p.startBytes
	for i := 0; i < n; i++ {
		segsHere := base
		if i < extra {
			segsHere++
		}
		if segsHere == 0 {
			out = append(out, SegPtr[T]{info: p.info, startBytes: byteCursor, sizeBytes: 0, segBytes: p.segBytes})
			continue
		}
		// clamp the last segment of the last nonempty sliver to the
		// view's actual remaining bytes, since segCount*per may overshoot
		// a short final segment — this keeps sum(sliver.size()) == p.size().
		sliverElems := segsHere * per
		sliverBytes := sliverElems * elemSize
		remainingBytes := p.startBytes + p.sizeBytes - byteCursor
		if sliverBytes > remainingBytes {
			sliverBytes = remainingBytes
		}
		out = append(out, SegPtr[T]{info: p.info, startBytes: byteCursor, sizeBytes: sliverBytes, segBytes: p.segBytes})
		byteCursor += sliverBytes
		segCursor += segsHere
	}
	p.info.refCnt.Add(uint32(n))
	return out, nil
}

// ManipulateSize sets size_bytes = newCount*sizeof(T) without reallocating.
// newCount must not exceed the backing allocation's remaining element
// capacity from this view's start — growth beyond that is OutOfRange.
func (p *SegPtr[T]) ManipulateSize(newCount int) error {
	if p.info == nil {
		return numaerr.New(numaerr.CodeNullDeref, "manipulate_size on nil SegPtr")
	}
	if newCount < 0 {
		return numaerr.New(numaerr.CodeOutOfRange, "negative size").WithContext("newCount", newCount)
	}
	elemSize := sizeofT[T]()
	capBytes := len(p.info.data) - p.startBytes
	capElems := capBytes / elemSize
	if newCount > capElems {
		return numaerr.New(numaerr.CodeOutOfRange, "manipulate_size exceeds allocation capacity").
			WithContext("newCount", newCount).WithContext("capElems", capElems)
	}
	p.sizeBytes = newCount * elemSize
	return nil
}

// Clone returns a second handle over the same window, incrementing ref_cnt.
func (p SegPtr[T]) Clone() SegPtr[T] {
	if p.info != nil {
		p.info.retain()
	}
	return p
}

// Release decrements ref_cnt, freeing the underlying allocation when the
// last handle is released. Returns true if this call freed it.
func (p SegPtr[T]) Release() bool {
	if p.info == nil {
		return false
	}
	return p.info.release()
}

// ReinterpretCast views the same bytes of p through element type U; both T
// and U are constrained to Integer (signed or unsigned, 8/16/32/64 bits).
// Standalone generic function since Go methods cannot introduce new type
// parameters.
func ReinterpretCast[U Integer, T Integer](p SegPtr[T]) SegPtr[U] {
	if p.info != nil {
		p.info.retain()
	}
	return SegPtr[U]{info: p.info, startBytes: p.startBytes, sizeBytes: p.sizeBytes, segBytes: p.segBytes}
}
