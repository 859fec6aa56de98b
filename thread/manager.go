package thread

import (
	"context"
	"fmt"

	"github.com/momentics/numaq/cpuset"
	"github.com/momentics/numaq/numaerr"
	"github.com/xlab/treeprint"
	"golang.org/x/sync/errgroup"
)

// PinPolicy selects whether groups are pinned automatically on creation
// or left to an explicit PinGroup call.
type PinPolicy int

const (
	Automatic PinPolicy = iota
	Manual
)

// Manager keeps an insertion-ordered mapping from group id to group,
// advancing an internal cursor across CPU ranges under the automatic
// pinning policy.
type Manager struct {
	policy PinPolicy
	rng    cpuset.Range
	cursor int

	groups map[string]*Group
	order  []string
}

// NewManager creates a Manager that pins newly created groups against r
// under the given policy; r is ignored under Manual (callers invoke
// PinGroup explicitly).
func NewManager(policy PinPolicy, r cpuset.Range) *Manager {
	return &Manager{
		policy: policy,
		rng:    r,
		groups: make(map[string]*Group),
	}
}

// CreateGroup registers a new group under id, failing DuplicateGroup on
// reuse. Under Automatic pinning the group is pinned starting at the
// manager's cursor, which then advances by n regardless of range length
// (wrap-around is cpuset.GetCPUID's job).
func (m *Manager) CreateGroup(id string, n int, fn WorkerFunc, args ...any) (*Group, error) {
	if _, exists := m.groups[id]; exists {
		return nil, numaerr.New(numaerr.CodeDuplicateGroup, "thread group id already exists").WithContext("id", id)
	}
	g, err := NewGroup(id, n, fn, args...)
	if err != nil {
		return nil, err
	}
	if m.policy == Automatic {
		g.PinThreads(m.rng, m.cursor)
		m.cursor += n
	}
	m.groups[id] = g
	m.order = append(m.order, id)
	return g, nil
}

// PinGroup explicitly pins an existing group under Manual policy.
func (m *Manager) PinGroup(id string, r cpuset.Range, startIndex int) ([]int, error) {
	g, ok := m.groups[id]
	if !ok {
		return nil, fmt.Errorf("thread: unknown group %q", id)
	}
	return g.PinThreads(r, startIndex), nil
}

// Group returns a previously created group by id.
func (m *Manager) Group(id string) (*Group, bool) {
	g, ok := m.groups[id]
	return g, ok
}

// Run starts the listed groups concurrently and blocks until all finish,
// propagating the first error.
func (m *Manager) Run(ctx context.Context, ids ...string) error {
	eg, egCtx := errgroup.WithContext(ctx)
	for _, id := range ids {
		id := id
		g, ok := m.groups[id]
		if !ok {
			return fmt.Errorf("thread: unknown group %q", id)
		}
		eg.Go(func() error { return g.Run(egCtx) })
	}
	return eg.Wait()
}

// RunAsync starts the listed groups concurrently, returning one handle
// per group in the same order as ids.
func (m *Manager) RunAsync(ctx context.Context, ids ...string) ([]*Handle, error) {
	handles := make([]*Handle, len(ids))
	for i, id := range ids {
		g, ok := m.groups[id]
		if !ok {
			return nil, fmt.Errorf("thread: unknown group %q", id)
		}
		h, err := g.RunAsync(ctx)
		if err != nil {
			return nil, err
		}
		handles[i] = h
	}
	return handles, nil
}

// Report renders each group's aggregate and per-worker durations as a
// tree, in the order groups were created.
func (m *Manager) Report() string {
	tree := treeprint.New()
	for _, id := range m.order {
		g := m.groups[id]
		branch := tree.AddBranch(fmt.Sprintf("%s (group=%s)", id, g.GroupDuration()))
		for i, d := range g.WorkerDurations() {
			branch.AddNode(fmt.Sprintf("worker[%d]=%s", i, d))
		}
	}
	return tree.String()
}
