// Package query assembles the fixed five-stage analytical pipeline: a
// sequential hash-semi-join build, a parallel probe, a sequential offset
// prefix-sum, two concurrent materializations, a sequential size
// reconciliation, a parallel multiply, a parallel reduce-add, and a final
// sequential sum.
package query

import (
	"unsafe"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/momentics/numaq/vam"
)

// DefaultElemsPerSegment is the element count every column segment holds
// when no configuration overrides it, independent of element width; it
// fixes the byte-size-per-type relation (e.g. int64 columns use
// 4096-byte segments, uint32 columns 2048-byte segments) while keeping
// every column's segment_count() in lockstep so per-segment operators can
// pair R's columns one-to-one. config.RuntimeConfig.SegmentBytes, divided
// by 8 (the widest column width), overrides this from the environment.
const DefaultElemsPerSegment = 512

func segBytesFor[T vam.Integer](elemsPerSegment int) int {
	var z T
	return elemsPerSegment * int(unsafe.Sizeof(z))
}

// scalarSegBytes returns a segment size of exactly one element, used for
// per-segment scalar outputs (lengths, offsets, partial sums) where
// segment_count() must equal the owning R column's segment_count().
func scalarSegBytes[T vam.Integer]() int {
	var z T
	return int(unsafe.Sizeof(z))
}

// TableR is the fact table: (a, b int64 columns, fk u32 foreign key).
type TableR struct {
	A, B vam.SegPtr[int64]
	FK   vam.SegPtr[uint32]
	N    uint64
}

// TableS is the dimension table: a single u32 primary key column.
type TableS struct {
	PK vam.SegPtr[uint32]
	M  uint64
}

// Tables bundles the driver's two input tables.
type Tables struct {
	R TableR
	S TableS
}

// ArrowColumns exposes every column of both tables as an arrow.Array,
// keyed by name, for interchange with Arrow-ecosystem consumers. Arrays
// share storage with the underlying SegPtr columns; they stay valid only
// as long as t's allocations do.
func (t Tables) ArrowColumns() (map[string]arrow.Array, error) {
	out := make(map[string]arrow.Array, 4)
	cols := []struct {
		name string
		arr  func() (arrow.Array, error)
	}{
		{"r.a", t.R.A.Arrow},
		{"r.b", t.R.B.Arrow},
		{"r.fk", t.R.FK.Arrow},
		{"s.pk", t.S.PK.Arrow},
	}
	for _, c := range cols {
		arr, err := c.arr()
		if err != nil {
			return nil, err
		}
		out[c.name] = arr
	}
	return out, nil
}

// Release releases every column's initial reference, freeing the
// underlying allocations once nothing else still holds a share.
func (t Tables) Release() {
	t.R.A.Release()
	t.R.B.Release()
	t.R.FK.Release()
	t.S.PK.Release()
}
