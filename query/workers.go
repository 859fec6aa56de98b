package query

import (
	"context"

	"github.com/momentics/numaq/colops"
	"github.com/momentics/numaq/vam"
)

// probeWorker is dispatched one-per-worker by the probe group: keys/used
// are the full hash table (replicated, read-only), fk/positions/lengths
// are this worker's segment-aligned slivers of the fact table.
func probeWorker(_ context.Context, _ int, args []any) error {
	keys := args[0].(vam.SegPtr[uint32]).Elements()
	used := args[1].(vam.SegPtr[uint64]).Elements()
	fk := args[2].(vam.SegPtr[uint32])
	positions := args[3].(vam.SegPtr[uint64])
	lengths := args[4].(vam.SegPtr[uint64])

	for seg := 0; seg < fk.SegmentCount(); seg++ {
		fkSeg, err := fk.GetSegment(seg)
		if err != nil {
			return err
		}
		posSeg, err := positions.GetSegment(seg)
		if err != nil {
			return err
		}
		lenSeg, err := lengths.GetSegment(seg)
		if err != nil {
			return err
		}
		matched := colops.HashSemiJoinProbe(posSeg.Data, keys, used, fkSeg.Data)
		lenSeg.Data[0] = uint64(matched)
	}
	return nil
}

// materializeWorker gathers data[positions[j]] for j in [0,count) out of
// each segment this worker owns, writing sequentially into result starting
// at the segment's precomputed global offset. result is the full output
// column (replicated); data/positions/offset/lengths are this worker's
// slivers, all aligned to the same segment boundaries.
func materializeWorker(_ context.Context, _ int, args []any) error {
	result := args[0].(vam.SegPtr[int64]).Elements()
	data := args[1].(vam.SegPtr[int64])
	positions := args[2].(vam.SegPtr[uint64])
	offset := args[3].(vam.SegPtr[uint64])
	lengths := args[4].(vam.SegPtr[uint64])

	for seg := 0; seg < positions.SegmentCount(); seg++ {
		dataSeg, err := data.GetSegment(seg)
		if err != nil {
			return err
		}
		posSeg, err := positions.GetSegment(seg)
		if err != nil {
			return err
		}
		offSeg, err := offset.GetSegment(seg)
		if err != nil {
			return err
		}
		lenSeg, err := lengths.GetSegment(seg)
		if err != nil {
			return err
		}
		colops.MaterializePositionList(result, dataSeg.Data, posSeg.Data, offSeg.Data[0], lenSeg.Data[0])
	}
	return nil
}

// multiplyWorker computes the elementwise product over this worker's
// sliver. Multiply carries no per-segment aggregation, so the sliver can
// be treated as one flat run regardless of its internal segment layout.
func multiplyWorker(_ context.Context, _ int, args []any) error {
	result := args[0].(vam.SegPtr[int64])
	a := args[1].(vam.SegPtr[int64])
	b := args[2].(vam.SegPtr[int64])
	colops.Multiply(result.Elements(), a.Elements(), b.Elements())
	return nil
}

// reduceAddWorker sums each segment of data into the matching segment of
// result, one partial sum per segment. result's sliver is drawn from the
// full-capacity reduced_ab column, so it always has at least as many
// segments as this worker's (possibly smaller, post-materialization)
// data sliver — the unwritten tail segments stay zero-initialized and
// contribute nothing when finalSum later walks the whole column.
func reduceAddWorker(_ context.Context, _ int, args []any) error {
	result := args[0].(vam.SegPtr[int64])
	data := args[1].(vam.SegPtr[int64])

	for seg := 0; seg < data.SegmentCount(); seg++ {
		dataSeg, err := data.GetSegment(seg)
		if err != nil {
			return err
		}
		resSeg, err := result.GetSegment(seg)
		if err != nil {
			return err
		}
		colops.ReduceAdd(&resSeg.Data[0], dataSeg.Data)
	}
	return nil
}
