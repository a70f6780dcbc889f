package intersection_test

import (
	"testing"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/simmobility/st-core/intersection"
	"github.com/simmobility/st-core/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestedArrivalTimeRejectsNearZeroSpeed(t *testing.T) {
	_, ok := intersection.RequestedArrivalTime(0, 50, 0.01)
	assert.False(t, ok)
}

func TestRequestedArrivalTimeComputesEta(t *testing.T) {
	tArr, ok := intersection.RequestedArrivalTime(10, 50, 10)
	require.True(t, ok)
	assert.InDelta(t, 15, tArr, 1e-9)
}

func TestAdjustSpeedForSlotOverridesUntilAccessTime(t *testing.T) {
	state := &intersection.DrivingState{ResponseReceived: true, AccessTime: 20}
	v, override := intersection.AdjustSpeedForSlot(state, 15, 50)
	require.True(t, override)
	assert.InDelta(t, 10, v, 1e-9)

	_, override = intersection.AdjustSpeedForSlot(state, 20, 50)
	assert.False(t, override)
}

func twoConflictingPaths(t *testing.T) (*network.RoadNetwork, *network.TurningPath, *network.TurningPath) {
	t.Helper()
	loader := &fakeLoader{
		nodes: []network.NodeDTO{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 9, Type: network.NodeSignalized}},
		links: []network.LinkDTO{
			{ID: 10, FromNodeID: 1, ToNodeID: 9},
			{ID: 20, FromNodeID: 9, ToNodeID: 2},
			{ID: 30, FromNodeID: 9, ToNodeID: 3},
		},
		segments: []network.RoadSegmentDTO{
			{ID: 100, LinkID: 10, Polyline: []geometry.Point{{X: 0, Y: 0}, {X: 100, Y: 0}}},
			{ID: 200, LinkID: 20, Polyline: []geometry.Point{{X: 110, Y: 0}, {X: 200, Y: 0}}},
			{ID: 300, LinkID: 30, Polyline: []geometry.Point{{X: 100, Y: 10}, {X: 100, Y: 100}}},
		},
		lanes: []network.LaneDTO{
			{ID: 1000, RoadSegmentID: 100, Polyline: []geometry.Point{{X: 0, Y: 0}, {X: 100, Y: 0}}, Width: 3.5},
			{ID: 2000, RoadSegmentID: 200, Polyline: []geometry.Point{{X: 110, Y: 0}, {X: 200, Y: 0}}, Width: 3.5},
			{ID: 3000, RoadSegmentID: 300, Polyline: []geometry.Point{{X: 100, Y: 10}, {X: 100, Y: 100}}, Width: 3.5},
			{ID: 5001, TurningPathID: 501, Polyline: []geometry.Point{{X: 100, Y: 0}, {X: 110, Y: 0}}, Width: 3.5},
			{ID: 5002, TurningPathID: 502, Polyline: []geometry.Point{{X: 100, Y: 0}, {X: 100, Y: 10}}, Width: 3.5},
		},
		paths: []network.TurningPathDTO{
			{ID: 501, NodeID: 9, FromLinkID: 10, ToLinkID: 20, FromLaneID: 1000, ToLaneID: 2000, LaneID: 5001},
			{ID: 502, NodeID: 9, FromLinkID: 10, ToLinkID: 30, FromLaneID: 1000, ToLaneID: 3000, LaneID: 5002},
		},
		conflicts: []network.TurningConflictDTO{
			{FirstPathID: 501, SecondPathID: 502, Priority: 1},
		},
	}
	net, errs := network.Build(loader)
	require.Empty(t, errs)
	return net, net.TurningPaths[501], net.TurningPaths[502]
}

type fakeLoader struct {
	nodes     []network.NodeDTO
	links     []network.LinkDTO
	segments  []network.RoadSegmentDTO
	lanes     []network.LaneDTO
	paths     []network.TurningPathDTO
	conflicts []network.TurningConflictDTO
}

func (f *fakeLoader) Nodes() []network.NodeDTO                       { return f.nodes }
func (f *fakeLoader) Links() []network.LinkDTO                       { return f.links }
func (f *fakeLoader) RoadSegments() []network.RoadSegmentDTO         { return f.segments }
func (f *fakeLoader) Lanes() []network.LaneDTO                       { return f.lanes }
func (f *fakeLoader) LaneConnectors() []network.LaneConnectorDTO     { return nil }
func (f *fakeLoader) TurningGroups() []network.TurningGroupDTO       { return nil }
func (f *fakeLoader) TurningPaths() []network.TurningPathDTO         { return f.paths }
func (f *fakeLoader) TurningConflicts() []network.TurningConflictDTO { return f.conflicts }

func TestManagerSerializesConflictingRequests(t *testing.T) {
	net, first, second := twoConflictingPaths(t)
	mgr := intersection.NewManager(net.Nodes[9])

	t1 := mgr.RequestAccess(first, 10, 3, 0)
	assert.InDelta(t, 10, t1, 1e-9)

	t2 := mgr.RequestAccess(second, 10, 3, 0)
	assert.Greater(t, t2, t1)
}

func TestTurnSpeedCapFallsBackToLaneMaxOnStraightPath(t *testing.T) {
	net, first, _ := twoConflictingPaths(t)
	_ = net
	cap := intersection.TurnSpeedCap(first.Lane, 0, intersection.DefaultMaxLateralAccel)
	assert.Equal(t, first.Lane.MaxSpeed, cap)
}
