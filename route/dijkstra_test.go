package route_test

import (
	"testing"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/simmobility/st-core/network"
	"github.com/simmobility/st-core/route"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLoader struct {
	nodes    []network.NodeDTO
	links    []network.LinkDTO
	segments []network.RoadSegmentDTO
	lanes    []network.LaneDTO
}

func (f *fakeLoader) Nodes() []network.NodeDTO                       { return f.nodes }
func (f *fakeLoader) Links() []network.LinkDTO                       { return f.links }
func (f *fakeLoader) RoadSegments() []network.RoadSegmentDTO         { return f.segments }
func (f *fakeLoader) Lanes() []network.LaneDTO                       { return f.lanes }
func (f *fakeLoader) LaneConnectors() []network.LaneConnectorDTO     { return nil }
func (f *fakeLoader) TurningGroups() []network.TurningGroupDTO       { return nil }
func (f *fakeLoader) TurningPaths() []network.TurningPathDTO         { return nil }
func (f *fakeLoader) TurningConflicts() []network.TurningConflictDTO { return nil }

// diamondNetwork builds 1->2->4 (slow, short) and 1->3->4 (fast, longer) so
// ShortestPath's travel-time weighting has something to discriminate on.
func diamondNetwork(t *testing.T) *network.RoadNetwork {
	t.Helper()
	net, errs := network.Build(&fakeLoader{
		nodes: []network.NodeDTO{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}},
		links: []network.LinkDTO{
			{ID: 12, FromNodeID: 1, ToNodeID: 2},
			{ID: 24, FromNodeID: 2, ToNodeID: 4},
			{ID: 13, FromNodeID: 1, ToNodeID: 3},
			{ID: 34, FromNodeID: 3, ToNodeID: 4},
		},
		segments: []network.RoadSegmentDTO{
			{ID: 1012, LinkID: 12, Polyline: []geometry.Point{{X: 0, Y: 0}, {X: 10, Y: 0}}, MaxSpeed: 5},
			{ID: 1024, LinkID: 24, Polyline: []geometry.Point{{X: 10, Y: 0}, {X: 20, Y: 0}}, MaxSpeed: 5},
			{ID: 1013, LinkID: 13, Polyline: []geometry.Point{{X: 0, Y: 10}, {X: 30, Y: 10}}, MaxSpeed: 20},
			{ID: 1034, LinkID: 34, Polyline: []geometry.Point{{X: 30, Y: 10}, {X: 60, Y: 10}}, MaxSpeed: 20},
		},
		lanes: []network.LaneDTO{
			{ID: 1, RoadSegmentID: 1012, Polyline: []geometry.Point{{X: 0, Y: 0}, {X: 10, Y: 0}}, Width: 3.5, MaxSpeed: 5},
			{ID: 2, RoadSegmentID: 1024, Polyline: []geometry.Point{{X: 10, Y: 0}, {X: 20, Y: 0}}, Width: 3.5, MaxSpeed: 5},
			{ID: 3, RoadSegmentID: 1013, Polyline: []geometry.Point{{X: 0, Y: 10}, {X: 30, Y: 10}}, Width: 3.5, MaxSpeed: 20},
			{ID: 4, RoadSegmentID: 1034, Polyline: []geometry.Point{{X: 30, Y: 10}, {X: 60, Y: 10}}, Width: 3.5, MaxSpeed: 20},
		},
	})
	require.Empty(t, errs)
	return net
}

func TestShortestPathPrefersFasterLongerRoute(t *testing.T) {
	net := diamondNetwork(t)
	links, err := route.ShortestPath(net, net.Nodes[1], net.Nodes[4], nil)
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, network.ID(13), links[0].ID)
	assert.Equal(t, network.ID(34), links[1].ID)
}

func TestShortestPathReturnsErrNoPathWhenUnreachable(t *testing.T) {
	net := diamondNetwork(t)
	net.Nodes[5] = &network.Node{ID: 5}
	_, err := route.ShortestPath(net, net.Nodes[1], net.Nodes[5], nil)
	assert.ErrorIs(t, err, route.ErrNoPath)
}

func TestLaneSequenceJoinsSegmentsInOrder(t *testing.T) {
	net := diamondNetwork(t)
	links, err := route.ShortestPath(net, net.Nodes[1], net.Nodes[4], nil)
	require.NoError(t, err)
	lanes := route.LaneSequence(links, 0)
	require.Len(t, lanes, 2)
	assert.Equal(t, net.Lanes[3], lanes[0])
	assert.Equal(t, net.Lanes[4], lanes[1])
}
