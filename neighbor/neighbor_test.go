package neighbor_test

import (
	"testing"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/simmobility/st-core/network"
	"github.com/simmobility/st-core/neighbor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVehicle struct {
	id     int64
	v      float64
	length float64
}

func (f *fakeVehicle) V() float64        { return f.v }
func (f *fakeVehicle) Length() float64   { return f.length }
func (f *fakeVehicle) OccupantID() int64 { return f.id }

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

func oneLane(t *testing.T) *network.Lane {
	t.Helper()
	net, errs := network.Build(&fakeLoader{
		nodes: []network.NodeDTO{{ID: 1}, {ID: 2}},
		links: []network.LinkDTO{{ID: 10, FromNodeID: 1, ToNodeID: 2}},
		segments: []network.RoadSegmentDTO{
			{ID: 100, LinkID: 10, Polyline: []geometry.Point{{X: 0, Y: 0}, {X: 100, Y: 0}}},
		},
		lanes: []network.LaneDTO{
			{ID: 1000, RoadSegmentID: 100, Polyline: []geometry.Point{{X: 0, Y: 0}, {X: 100, Y: 0}}, Width: 3.5},
		},
	})
	require.Empty(t, errs)
	return net.Lanes[1000]
}

func TestQueryFindsNearestFwdAndBackInOwnLane(t *testing.T) {
	lane := oneLane(t)
	self := &fakeVehicle{id: 1, v: 10, length: 4}
	ahead := &fakeVehicle{id: 2, v: 10, length: 4}
	behind := &fakeVehicle{id: 3, v: 10, length: 4}
	farAhead := &fakeVehicle{id: 4, v: 10, length: 4}

	lane.Vehicles().PushBack(&network.VehicleNode{S: 50, Value: self})
	lane.Vehicles().PushBack(&network.VehicleNode{S: 60, Value: ahead})
	lane.Vehicles().PushBack(&network.VehicleNode{S: 47, Value: behind})
	lane.Vehicles().PushBack(&network.VehicleNode{S: 90, Value: farAhead})

	result := neighbor.Query(lane, self, 50, neighbor.DefaultEnvelope, nil, nil, nil, nil, nil)

	require.NotNil(t, result.Fwd)
	assert.Same(t, ahead, result.Fwd.Vehicle)
	assert.InDelta(t, 10, result.Fwd.Distance, 1e-9)

	require.NotNil(t, result.Back)
	assert.Same(t, behind, result.Back.Vehicle)
	assert.InDelta(t, 3, result.Back.Distance, 1e-9)

	assert.Nil(t, result.LeftFwd)
	assert.Nil(t, result.RightFwd)
}

func TestQueryIgnoresVehiclesOutsideEnvelope(t *testing.T) {
	lane := oneLane(t)
	self := &fakeVehicle{id: 1, v: 10, length: 4}
	tooFar := &fakeVehicle{id: 2, v: 10, length: 4}

	lane.Vehicles().PushBack(&network.VehicleNode{S: 10, Value: self})
	lane.Vehicles().PushBack(&network.VehicleNode{S: 60, Value: tooFar})

	result := neighbor.Query(lane, self, 10, neighbor.DefaultEnvelope, nil, nil, nil, nil, nil)
	assert.Nil(t, result.Fwd)
}
