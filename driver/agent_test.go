package driver_test

import (
	"testing"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/simmobility/st-core/behavior"
	"github.com/simmobility/st-core/driver"
	"github.com/simmobility/st-core/intersection"
	"github.com/simmobility/st-core/neighbor"
	"github.com/simmobility/st-core/network"
	"github.com/simmobility/st-core/utils/randengine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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

// throughJunctionLoader builds approach -> junction -> departure: a straight
// 50m approach lane feeding a signalized node's single turning path, itself
// feeding a 50m departure lane.
func throughJunctionLoader() *fakeLoader {
	return &fakeLoader{
		nodes: []network.NodeDTO{
			{ID: 1, Location: geometry.Point{X: 0, Y: 0}},
			{ID: 9, Location: geometry.Point{X: 50, Y: 0}, Type: network.NodeSignalized},
			{ID: 2, Location: geometry.Point{X: 60, Y: 0}},
		},
		links: []network.LinkDTO{
			{ID: 10, FromNodeID: 1, ToNodeID: 9},
			{ID: 20, FromNodeID: 9, ToNodeID: 2},
		},
		segments: []network.RoadSegmentDTO{
			{ID: 100, LinkID: 10, Polyline: []geometry.Point{{X: 0, Y: 0}, {X: 50, Y: 0}}, MaxSpeed: 15},
			{ID: 200, LinkID: 20, Polyline: []geometry.Point{{X: 60, Y: 0}, {X: 110, Y: 0}}, MaxSpeed: 15},
		},
		lanes: []network.LaneDTO{
			{ID: 1000, RoadSegmentID: 100, Polyline: []geometry.Point{{X: 0, Y: 0}, {X: 50, Y: 0}}, Width: 3.5, MaxSpeed: 15},
			{ID: 2000, RoadSegmentID: 200, Polyline: []geometry.Point{{X: 60, Y: 0}, {X: 110, Y: 0}}, Width: 3.5, MaxSpeed: 15},
			{ID: 5001, TurningPathID: 501, Polyline: []geometry.Point{{X: 50, Y: 0}, {X: 60, Y: 0}}, Width: 3.5, MaxSpeed: 10},
		},
		paths: []network.TurningPathDTO{
			{ID: 501, NodeID: 9, FromLinkID: 10, ToLinkID: 20, FromLaneID: 1000, ToLaneID: 2000, LaneID: 5001},
		},
	}
}

func TestFrameTickAdvancesVehicleAlongRoute(t *testing.T) {
	net, errs := network.Build(throughJunctionLoader())
	require.Empty(t, errs)

	route := []*network.Lane{net.Lanes[1000], net.Lanes[5001], net.Lanes[2000]}
	vehicle := &driver.Vehicle{ID: 1, Kind: driver.Car, BodyLength: 4.5, Width: 1.8}
	agent := driver.NewAgent(vehicle, 0)
	agent.InitializePath(route, 0)
	agent.DesiredSpeed = 10

	params := behavior.NewParameterManager(behavior.DefaultParams)
	long := behavior.NewLongitudinalModel(params, randengine.New(1))

	for i := 0; i < 20; i++ {
		agent.FrameTick(float64(i), int64(i*1000), 1, params, long, neighbor.DefaultEnvelope,
			nil, nil, nil, nil, agent.Path.NextLane(),
			driver.PerceivedLeader{}, driver.PerceivedSignal{}, nil)
		agent.FlipBuffers()
	}

	assert.Greater(t, agent.Path.S+float64(agent.Path.LaneIndex)*50, 0.0)
	assert.False(t, agent.ToBeRemoved)
}

func TestFrameTickRequestsIntersectionSlotWhenApproachingJunctionLane(t *testing.T) {
	net, errs := network.Build(throughJunctionLoader())
	require.Empty(t, errs)

	route := []*network.Lane{net.Lanes[1000], net.Lanes[5001], net.Lanes[2000]}
	vehicle := &driver.Vehicle{ID: 1, Kind: driver.Car, BodyLength: 4.5, Width: 1.8, Speed: 10}
	agent := driver.NewAgent(vehicle, 0)
	agent.InitializePath(route, 45)
	agent.DesiredSpeed = 10

	params := behavior.NewParameterManager(behavior.DefaultParams)
	long := behavior.NewLongitudinalModel(params, randengine.New(1))
	registry := intersection.NewRegistry(net)
	mgr := registry.For(9)
	require.NotNil(t, mgr)

	agent.FrameTick(0, 0, 1, params, long, neighbor.DefaultEnvelope,
		nil, nil, nil, nil, agent.Path.NextLane(),
		driver.PerceivedLeader{}, driver.PerceivedSignal{}, mgr)

	assert.True(t, agent.Crossing.RequestSent)
	assert.True(t, agent.Crossing.ResponseReceived)
}

func TestFrameTickRemovesAgentAtRouteEnd(t *testing.T) {
	net, errs := network.Build(throughJunctionLoader())
	require.Empty(t, errs)

	route := []*network.Lane{net.Lanes[2000]}
	vehicle := &driver.Vehicle{ID: 1, Kind: driver.Car, BodyLength: 4.5, Width: 1.8}
	agent := driver.NewAgent(vehicle, 0)
	agent.InitializePath(route, 49)
	agent.DesiredSpeed = 10

	params := behavior.NewParameterManager(behavior.DefaultParams)
	long := behavior.NewLongitudinalModel(params, randengine.New(1))

	for i := 0; i < 5 && !agent.ToBeRemoved; i++ {
		agent.FrameTick(float64(i), int64(i*1000), 1, params, long, neighbor.DefaultEnvelope,
			nil, nil, nil, nil, nil,
			driver.PerceivedLeader{}, driver.PerceivedSignal{}, nil)
		agent.FlipBuffers()
	}

	assert.True(t, agent.ToBeRemoved)
}
