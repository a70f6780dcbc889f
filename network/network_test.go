package network_test

import (
	"testing"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/simmobility/st-core/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLoader implements network.NetworkLoader over in-memory slices, letting
// each test assemble a minimal fixture without a database.
type fakeLoader struct {
	nodes      []network.NodeDTO
	links      []network.LinkDTO
	segments   []network.RoadSegmentDTO
	lanes      []network.LaneDTO
	connectors []network.LaneConnectorDTO
	groups     []network.TurningGroupDTO
	paths      []network.TurningPathDTO
	conflicts  []network.TurningConflictDTO
}

func (f *fakeLoader) Nodes() []network.NodeDTO                       { return f.nodes }
func (f *fakeLoader) Links() []network.LinkDTO                       { return f.links }
func (f *fakeLoader) RoadSegments() []network.RoadSegmentDTO         { return f.segments }
func (f *fakeLoader) Lanes() []network.LaneDTO                       { return f.lanes }
func (f *fakeLoader) LaneConnectors() []network.LaneConnectorDTO     { return f.connectors }
func (f *fakeLoader) TurningGroups() []network.TurningGroupDTO       { return f.groups }
func (f *fakeLoader) TurningPaths() []network.TurningPathDTO         { return f.paths }
func (f *fakeLoader) TurningConflicts() []network.TurningConflictDTO { return f.conflicts }

// straightLoader builds a two-node, one-link, one-segment, two-lane network
// with a 100m straight polyline — enough to exercise Build's full join path
// without an intersection.
func straightLoader() *fakeLoader {
	return &fakeLoader{
		nodes: []network.NodeDTO{
			{ID: 1, Location: geometry.Point{X: 0, Y: 0}},
			{ID: 2, Location: geometry.Point{X: 100, Y: 0}},
		},
		links: []network.LinkDTO{
			{ID: 10, FromNodeID: 1, ToNodeID: 2},
		},
		segments: []network.RoadSegmentDTO{
			{ID: 100, LinkID: 10, Polyline: []geometry.Point{{X: 0, Y: 0}, {X: 100, Y: 0}}, MaxSpeed: 20},
		},
		lanes: []network.LaneDTO{
			{ID: 1000, RoadSegmentID: 100, IndexInSegment: 0, Polyline: []geometry.Point{{X: 0, Y: 0}, {X: 100, Y: 0}}, Width: 3.5, MaxSpeed: 20},
			{ID: 1001, RoadSegmentID: 100, IndexInSegment: 1, Polyline: []geometry.Point{{X: 0, Y: 3.5}, {X: 100, Y: 3.5}}, Width: 3.5, MaxSpeed: 20},
		},
		connectors: []network.LaneConnectorDTO{
			{FromLaneID: 1000, ToLaneID: 1001},
		},
	}
}

func TestBuildResolvesAStraightSegment(t *testing.T) {
	net, errs := network.Build(straightLoader())
	require.Empty(t, errs)

	require.Len(t, net.Nodes, 2)
	require.Len(t, net.Links, 1)
	require.Len(t, net.RoadSegments, 1)
	require.Len(t, net.Lanes, 2)

	link := net.Links[10]
	assert.Same(t, net.Nodes[1], link.FromNode)
	assert.Same(t, net.Nodes[2], link.ToNode)
	assert.InDelta(t, 100, link.Length, 1e-6)

	lane := net.Lanes[1000]
	require.Same(t, net.RoadSegments[100], lane.ParentSegment)
	assert.InDelta(t, 100, lane.Length, 1e-6)
	require.Len(t, lane.Outgoing, 1)
	assert.Same(t, net.Lanes[1001], lane.Outgoing[0].To)
}

func TestBuildDropsLinkWithMissingNode(t *testing.T) {
	loader := straightLoader()
	loader.links[0].ToNodeID = 999 // dangling

	net, errs := network.Build(loader)
	// One error each for the Link, its RoadSegment, both Lanes and the
	// LaneConnector between them; the Link's error comes first.
	require.Len(t, errs, 5)

	var integrityErr *network.IntegrityError
	require.ErrorAs(t, errs[0], &integrityErr)
	assert.Equal(t, "Link", integrityErr.EntityKind)
	assert.Equal(t, network.ID(10), integrityErr.EntityID)

	assert.Empty(t, net.Links)
	// The segment referencing the dropped link is itself dropped, and so are
	// its lanes, cascading.
	assert.Empty(t, net.RoadSegments)
}

func TestBuildWiresTurningPathsIntoNodeGroups(t *testing.T) {
	loader := straightLoader()
	loader.nodes = append(loader.nodes, network.NodeDTO{ID: 3, Type: network.NodeSignalized})
	loader.links = append(loader.links, network.LinkDTO{ID: 20, FromNodeID: 2, ToNodeID: 3})
	loader.segments = append(loader.segments, network.RoadSegmentDTO{
		ID: 200, LinkID: 20, Polyline: []geometry.Point{{X: 200, Y: 0}, {X: 300, Y: 0}}, MaxSpeed: 20,
	})
	loader.lanes = append(loader.lanes,
		network.LaneDTO{ID: 2000, RoadSegmentID: 200, Polyline: []geometry.Point{{X: 200, Y: 0}, {X: 300, Y: 0}}, Width: 3.5},
		network.LaneDTO{ID: 5000, TurningPathID: 500, Polyline: []geometry.Point{{X: 100, Y: 0}, {X: 200, Y: 0}}, Width: 3.5},
	)
	loader.paths = append(loader.paths, network.TurningPathDTO{
		ID: 500, NodeID: 2, FromLinkID: 10, ToLinkID: 20, FromLaneID: 1000, ToLaneID: 2000, LaneID: 5000,
	})

	net, errs := network.Build(loader)
	require.Empty(t, errs)

	node := net.Nodes[2]
	group, ok := node.DrivingLaneGroup(10, 20)
	require.True(t, ok)
	path, ok := group.TurningPaths[[2]network.ID{1000, 2000}]
	require.True(t, ok)
	assert.Same(t, net.Lanes[5000], path.Lane)
	assert.True(t, path.Lane.InJunction())
	assert.False(t, net.Lanes[1000].InJunction())
}

func TestBuildDropsTurningConflictWithMissingPath(t *testing.T) {
	loader := straightLoader()
	loader.conflicts = []network.TurningConflictDTO{{FirstPathID: 999, SecondPathID: 998, Priority: 1}}

	net, errs := network.Build(loader)
	require.Len(t, errs, 1)
	for _, path := range net.TurningPaths {
		assert.Empty(t, path.Conflicts)
	}
}
