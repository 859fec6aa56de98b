package query

import (
	"context"
	"time"

	"github.com/momentics/numaq/colops"
	"github.com/momentics/numaq/config"
	"github.com/momentics/numaq/cpuset"
	"github.com/momentics/numaq/thread"
	"github.com/momentics/numaq/vam"
)

// Result is the outcome of one pipeline run: the computed sum and the
// wall-clock duration of the timed portion (excludes buffer allocation).
type Result struct {
	FinalSum int64
	Duration time.Duration
}

// sumScalarSegments adds up the single scalar each segment of p holds,
// used both for the matched-row total and could serve any other
// one-value-per-segment column.
func sumScalarSegments(p vam.SegPtr[uint64]) (int, error) {
	var total uint64
	for i := 0; i < p.SegmentCount(); i++ {
		seg, err := p.GetSegment(i)
		if err != nil {
			return 0, err
		}
		total += seg.Data[0]
	}
	return int(total), nil
}

// Run executes the fixed five-stage pipeline over t: a sequential
// hash-semi-join build, a parallel probe, a sequential offset prefix-sum,
// two concurrent materializations, a sequential size reconciliation, a
// parallel multiply, a parallel reduce-add, and a final sequential sum.
// Every stage is timed through sl (sl may be nil to skip timing/metrics).
// elemsPerSegment sizes every intermediate buffer's segments the same way
// t's own columns were sized (see DefaultElemsPerSegment); callers that
// generated t with a non-default value must pass the same value here.
func Run(ctx context.Context, alloc *vam.NumaAllocator, t Tables, workers int, pinProfile cpuset.Profile, mm *config.MemoryMap, sl *SectionLog, elemsPerSegment int) (Result, error) {
	if sl == nil {
		sl = NewSectionLog(nil, nil)
	}

	segCount := t.R.A.SegmentCount()

	keys, err := vam.Vmalloc[uint32](alloc, int(2*t.S.M), segBytesFor[uint32](elemsPerSegment), vam.LINEAR, mm)
	if err != nil {
		return Result{}, err
	}
	defer keys.Release()
	used, err := vam.Vmalloc[uint64](alloc, int(2*t.S.M), segBytesFor[uint64](elemsPerSegment), vam.LINEAR, mm)
	if err != nil {
		return Result{}, err
	}
	defer used.Release()
	positions, err := vam.Vmalloc[uint64](alloc, int(t.R.N), segBytesFor[uint64](elemsPerSegment), vam.LINEAR, mm)
	if err != nil {
		return Result{}, err
	}
	defer positions.Release()
	lengths, err := vam.Vmalloc[uint64](alloc, segCount, scalarSegBytes[uint64](), vam.LINEAR, mm)
	if err != nil {
		return Result{}, err
	}
	defer lengths.Release()
	matOffset, err := vam.Vmalloc[uint64](alloc, segCount, scalarSegBytes[uint64](), vam.LINEAR, mm)
	if err != nil {
		return Result{}, err
	}
	defer matOffset.Release()
	jointA, err := vam.Vmalloc[int64](alloc, int(t.R.N), segBytesFor[int64](elemsPerSegment), vam.LINEAR, mm)
	if err != nil {
		return Result{}, err
	}
	defer jointA.Release()
	jointB, err := vam.Vmalloc[int64](alloc, int(t.R.N), segBytesFor[int64](elemsPerSegment), vam.LINEAR, mm)
	if err != nil {
		return Result{}, err
	}
	defer jointB.Release()
	columnAB, err := vam.Vmalloc[int64](alloc, int(t.R.N), segBytesFor[int64](elemsPerSegment), vam.LINEAR, mm)
	if err != nil {
		return Result{}, err
	}
	defer columnAB.Release()
	reducedAB, err := vam.Vmalloc[int64](alloc, segCount, scalarSegBytes[int64](), vam.LINEAR, mm)
	if err != nil {
		return Result{}, err
	}
	defer reducedAB.Release()

	mgr := thread.NewManager(thread.Automatic, cpuset.CrobatRanges(pinProfile))

	if _, err := mgr.CreateGroup("probe", workers, probeWorker,
		keys, used, splitOf(t.R.FK), splitOf(positions), splitOf(lengths)); err != nil {
		return Result{}, err
	}
	if _, err := mgr.CreateGroup("materialize_a", workers, materializeWorker,
		jointA, splitOf(t.R.A), splitOf(positions), splitOf(matOffset), splitOf(lengths)); err != nil {
		return Result{}, err
	}
	if _, err := mgr.CreateGroup("materialize_b", workers, materializeWorker,
		jointB, splitOf(t.R.B), splitOf(positions), splitOf(matOffset), splitOf(lengths)); err != nil {
		return Result{}, err
	}

	start := time.Now()

	if err := sl.Run("build_intermediate_join_buffer", 3*t.S.M*8, func() error {
		colops.HashSemiJoinBuild(keys.Elements(), used.Elements(), t.S.PK.Elements())
		return nil
	}); err != nil {
		return Result{}, err
	}

	if err := sl.Run("prober_group", t.R.N*4+3*t.S.M*8, func() error {
		if err := mgr.Run(ctx, "probe"); err != nil {
			return err
		}
		matched, err := sumScalarSegments(lengths)
		if err != nil {
			return err
		}
		sl.ObserveProbe(int(t.R.N), matched)
		return nil
	}); err != nil {
		return Result{}, err
	}

	var total uint64
	if err := sl.Run("mat_offset", uint64(segCount)*8, func() error {
		var offset uint64
		for i := 0; i < lengths.SegmentCount(); i++ {
			lenSeg, err := lengths.GetSegment(i)
			if err != nil {
				return err
			}
			offSeg, err := matOffset.GetSegment(i)
			if err != nil {
				return err
			}
			offSeg.Data[0] = offset
			offset += lenSeg.Data[0]
		}
		total = offset
		return nil
	}); err != nil {
		return Result{}, err
	}

	materializeBytes := 2 * (t.R.N*8 + (uint64(segCount)+t.R.N+uint64(segCount))*8)
	if err := sl.Run("materialize_a_and_b", materializeBytes, func() error {
		return mgr.Run(ctx, "materialize_a", "materialize_b")
	}); err != nil {
		return Result{}, err
	}

	if err := sl.Run("manipulate_size", 3*8, func() error {
		if err := jointA.ManipulateSize(int(total)); err != nil {
			return err
		}
		if err := jointB.ManipulateSize(int(total)); err != nil {
			return err
		}
		return columnAB.ManipulateSize(int(total))
	}); err != nil {
		return Result{}, err
	}

	// multiply and reduce_add are created here, not alongside the earlier
	// groups, since they split jointA/jointB/columnAB/reducedAB by their
	// post-resize extent — creating them earlier would capture the
	// pre-resize, full-N sizing instead.
	if _, err := mgr.CreateGroup("multiply", workers, multiplyWorker,
		splitOf(columnAB), splitOf(jointA), splitOf(jointB)); err != nil {
		return Result{}, err
	}
	if _, err := mgr.CreateGroup("reduce_add", workers, reduceAddWorker,
		splitOf(reducedAB), splitOf(columnAB)); err != nil {
		return Result{}, err
	}

	if err := sl.Run("multiply", 2*t.R.N*8, func() error {
		return mgr.Run(ctx, "multiply")
	}); err != nil {
		return Result{}, err
	}

	if err := sl.Run("reduce_add", t.R.N*8, func() error {
		return mgr.Run(ctx, "reduce_add")
	}); err != nil {
		return Result{}, err
	}

	var finalSum int64
	if err := sl.Run("final_sum", uint64(reducedAB.SegmentCount())*8, func() error {
		for i := 0; i < reducedAB.SegmentCount(); i++ {
			seg, err := reducedAB.GetSegment(i)
			if err != nil {
				return err
			}
			finalSum += seg.Data[0]
		}
		return nil
	}); err != nil {
		return Result{}, err
	}

	return Result{FinalSum: finalSum, Duration: time.Since(start)}, nil
}
