package thread

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/momentics/numaq/cpuset"
	"github.com/momentics/numaq/numaerr"
	"github.com/momentics/numaq/timing"
	"golang.org/x/sync/errgroup"
)

// WorkerFunc is the operator a Group fans out: workerIndex identifies the
// caller among the group's N workers, args is this worker's dispatched
// argument list (sliver or replica, per argument).
type WorkerFunc func(ctx context.Context, workerIndex int, args []any) error

// Group is a named set of workers executing the same operator over
// disjoint slivers, bracketed by a one-shot barrier and measured by
// dual-level (per-worker and group) timers.
type Group struct {
	id   string
	n    int
	fn   WorkerFunc
	args []any

	cpuIDs []int // set by PinThreads; nil means "do not pin"

	groupTimer   *timing.ConcurrentStopWatch
	workerTimers []*timing.StopWatch
	timersMu     sync.Mutex

	startCh   chan struct{}
	startOnce sync.Once
	started   atomic.Bool

	eg      *errgroup.Group
	egCtx   context.Context
	slivers [][]any // set by RunAsync; released once by Join
}

// releasable is satisfied by a Split sliver that owns a share of a
// reference count and must release it once the group is done using it
// (e.g. vam.SegPtr). Slivers that don't implement it are left alone.
type releasable interface {
	Release() bool
}

// NewGroup configures a group to run fn N-way in parallel over args, per
// the split-or-replicate dispatch: an arg wrapped in Split is
// sliced N ways; every other arg is replicated by value to every worker.
func NewGroup(id string, n int, fn WorkerFunc, args ...any) (*Group, error) {
	if n <= 0 {
		return nil, numaerr.New(numaerr.CodeZeroWorkers, "thread group must have at least one worker").WithContext("id", id)
	}
	return &Group{
		id:           id,
		n:            n,
		fn:           fn,
		args:         args,
		startCh:      make(chan struct{}),
		workerTimers: make([]*timing.StopWatch, n),
	}, nil
}

// PinThreads assigns worker i to cpuset.GetCPUID(startIndex+i, r) and
// returns the assigned CPU ids; actual affinity is applied when each
// worker goroutine starts, since Go must lock the goroutine to an OS
// thread first.
func (g *Group) PinThreads(r cpuset.Range, startIndex int) []int {
	ids := make([]int, g.n)
	for i := 0; i < g.n; i++ {
		ids[i] = cpuset.GetCPUID(startIndex+i, r)
	}
	g.cpuIDs = ids
	return ids
}

// dispatch builds worker i's argument list: Split-wrapped values take
// worker i's entry from slivers (sliced N ways once per run by
// precomputeSlivers); everything else is replicated by value.
func (g *Group) dispatch(i int, slivers [][]any) []any {
	out := make([]any, len(g.args))
	for j, a := range g.args {
		if slivers[j] != nil {
			out[j] = slivers[j][i]
			continue
		}
		out[j] = a
	}
	return out
}

func (g *Group) precomputeSlivers() [][]any {
	slivers := make([][]any, len(g.args))
	for j, a := range g.args {
		if s, ok := a.(Split); ok {
			slivers[j] = s.Value.SplitN(g.n)
		}
	}
	return slivers
}

// Handle is returned by RunAsync; Join waits for every worker to return.
type Handle struct {
	g *Group
}

// RunAsync releases the start barrier and launches all N workers,
// returning a Handle whose Join waits for the group to finish. Calling
// RunAsync a second time on the same Group fails with ErrAlreadyStarted.
func (g *Group) RunAsync(ctx context.Context) (*Handle, error) {
	if !g.started.CompareAndSwap(false, true) {
		return nil, numaerr.New(numaerr.CodeAlreadyStarted, "thread group already started").WithContext("id", g.id)
	}
	g.groupTimer = timing.NewConcurrent(time.Now())
	slivers := g.precomputeSlivers()
	g.slivers = slivers

	eg, egCtx := errgroup.WithContext(ctx)
	g.eg = eg
	g.egCtx = egCtx

	for i := 0; i < g.n; i++ {
		i := i
		eg.Go(func() (err error) {
			runtime.LockOSThread()
			defer runtime.UnlockOSThread()
			defer func() {
				if v := recover(); v != nil {
					switch {
					case timing.IsDoubleStart(v):
						err = numaerr.ErrDoubleStart
					case timing.IsDoubleStop(v):
						err = numaerr.ErrDoubleStop
					default:
						panic(v)
					}
				}
			}()

			<-g.startCh // one-shot barrier release
			if g.cpuIDs != nil {
				if err := cpuset.Pin(g.cpuIDs[i]); err != nil {
					return err
				}
			}

			wt := timing.New(time.Now(), timing.Forbidden, timing.Forbidden)
			g.timersMu.Lock()
			g.workerTimers[i] = wt
			g.timersMu.Unlock()

			wt.Start()
			g.groupTimer.Start()
			err = g.fn(egCtx, i, g.dispatch(i, slivers))
			g.groupTimer.Stop()
			wt.Stop()
			return err
		})
	}

	g.startOnce.Do(func() { close(g.startCh) })
	return &Handle{g: g}, nil
}

// Join waits for every worker in the group to return, propagating the
// first error encountered so the caller can terminate the run, then
// releases every sliver the group's Split arguments produced.
func (h *Handle) Join() error {
	err := h.g.eg.Wait()
	h.g.releaseSlivers()
	return err
}

// releaseSlivers releases each per-worker sliver produced from a Split
// argument exactly once, balancing the reference count Split added.
// Non-Split arguments (nil sliver rows) and slivers that don't implement
// releasable are skipped.
func (g *Group) releaseSlivers() {
	for _, row := range g.slivers {
		for _, v := range row {
			if r, ok := v.(releasable); ok {
				r.Release()
			}
		}
	}
}

// Run is the synchronous convenience form: release the barrier, run every
// worker, and join before returning.
func (g *Group) Run(ctx context.Context) error {
	h, err := g.RunAsync(ctx)
	if err != nil {
		return err
	}
	return h.Join()
}

// WorkerDurations returns each worker's measured operator duration, in
// worker-index order; a nil entry means that worker has not yet run.
func (g *Group) WorkerDurations() []time.Duration {
	g.timersMu.Lock()
	defer g.timersMu.Unlock()
	out := make([]time.Duration, g.n)
	for i, wt := range g.workerTimers {
		if wt != nil {
			out[i] = wt.DurationSum()
		}
	}
	return out
}

// GroupDuration returns the span from the earliest worker start to the
// latest worker stop.
func (g *Group) GroupDuration() time.Duration {
	if g.groupTimer == nil {
		return 0
	}
	return g.groupTimer.DurationSum()
}

// ID returns the group's identifier.
func (g *Group) ID() string { return g.id }

// NumWorkers returns the group's configured worker count.
func (g *Group) NumWorkers() int { return g.n }
