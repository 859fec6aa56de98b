package query

import (
	"github.com/momentics/numaq/thread"
	"github.com/momentics/numaq/vam"
)

// segSplit adapts a vam.SegPtr to thread.Splittable: SplitN produces n
// segment-aligned slivers and hands each worker its own SegPtr view, so
// worker bodies can still call GetSegment/SegmentCount on their share
// exactly as they would on the whole column.
type segSplit[T vam.Integer] struct {
	p vam.SegPtr[T]
}

func splitOf[T vam.Integer](p vam.SegPtr[T]) thread.Split {
	return thread.Split{Value: segSplit[T]{p: p}}
}

func (s segSplit[T]) SplitN(n int) []any {
	slivers, err := s.p.Split(n)
	if err != nil {
		panic(err)
	}
	out := make([]any, n)
	for i, sl := range slivers {
		out[i] = sl
	}
	return out
}
