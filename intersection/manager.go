package intersection

import (
	"sort"
	"sync"

	"github.com/simmobility/st-core/network"
)

// grant records one turning path's most recently assigned slot, kept so a
// later request on a conflicting path can compute the minimum-separation
// constraint against it (spec §4.6 step 3).
type grant struct {
	accessTime    float64
	traversalTime float64
	priority      int
}

// Manager is one Node's slot-based arbiter (spec §2 item 9). Requests are
// processed in FIFO order of arrival within a tick (spec §5's "within one
// intersection, the IntersectionManager serializes conflict resolution in
// FIFO order of request arrival"); NewRegistry builds one Manager for every
// Node.
type Manager struct {
	Node *network.Node

	mu     sync.Mutex
	grants map[int64]grant // turning path ID -> most recent grant
}

// NewManager constructs an empty arbiter for node.
func NewManager(node *network.Node) *Manager {
	return &Manager{Node: node, grants: map[int64]grant{}}
}

// RequestAccess assigns an accessTime for a request to enter path at
// requestedTime with the given traversalTime (how long the vehicle occupies
// the shared region once it enters), per spec §4.6 step 3: the granted time
// is the max of the requested time and the earliest conflict-free time
// across every TurningConflict involving path. Priority only chooses the
// separation minSeparation adds after each conflicting grant; grants already
// issued to other paths are never revised, and a path's own grant is
// recomputed only on its next request.
func (m *Manager) RequestAccess(path *network.TurningPath, requestedTime, traversalTime float64, priority int) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	accessTime := requestedTime
	for otherID, conflict := range path.Conflicts {
		other, ok := m.grants[otherID]
		if !ok {
			continue
		}
		sep := minSeparation(conflict, path.ID, priority, other.priority)
		earliestFree := other.accessTime + other.traversalTime + sep
		if earliestFree > accessTime {
			accessTime = earliestFree
		}
	}

	m.grants[path.ID] = grant{accessTime: accessTime, traversalTime: traversalTime, priority: priority}
	return accessTime
}

// minSeparation derives the extra gap, after a conflicting grant's access
// time plus traversal time, before the requesting path may enter: 1.0s for a
// strictly higher-priority requester, 2.0s for an equal-or-lower-priority
// one. conflict and pathID are not used.
func minSeparation(conflict *network.TurningConflict, pathID int64, priority, otherPriority int) float64 {
	const nominalGap = 1.0
	if priority > otherPriority {
		return nominalGap
	}
	return nominalGap * 2
}

// Pending returns the IDs of turning paths with an active grant, ordered by
// accessTime — mainly useful for tests and diagnostics.
func (m *Manager) Pending() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]int64, 0, len(m.grants))
	for id := range m.grants {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return m.grants[ids[i]].accessTime < m.grants[ids[j]].accessTime })
	return ids
}

// Registry resolves a Node's Manager. NewRegistry builds every Manager up
// front and For never allocates; the caller that builds the driver Workers
// owns the Registry and passes it to each NewWorker explicitly.
type Registry struct {
	mu       sync.Mutex
	managers map[int64]*Manager
}

// NewRegistry builds a Manager for every Node up front.
func NewRegistry(net *network.RoadNetwork) *Registry {
	r := &Registry{managers: map[int64]*Manager{}}
	for id, node := range net.Nodes {
		r.managers[id] = NewManager(node)
	}
	return r
}

// For returns the Manager owning nodeID, or nil if unknown.
func (r *Registry) For(nodeID int64) *Manager {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.managers[nodeID]
}
