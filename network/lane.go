package network

import (
	"fmt"
	"math"
	"sort"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/samber/lo"
	"github.com/simmobility/st-core/utils/container"
)

// Occupant is what a Lane's occupancy lists need from a vehicle or
// pedestrian: an identity plus the IHasVAndLength capability container.List
// requires. driver.Vehicle implements this; network never imports driver.
type Occupant interface {
	container.IHasVAndLength
	OccupantID() int64
}

// SideLink is a vehicle-list node's slot for its left/right neighbors in the
// adjacent lanes. Nothing in this module fills it: NeighborQuery's
// left/right lookups (spec §4.3) scan the adjacent lane instead. Indexed
// [side][direction] with side ∈ {LEFT, RIGHT} and direction ∈ {BEFORE, AFTER}.
type SideLink struct {
	Links [2][2]*VehicleNode
}

func (s *SideLink) Clear() { s.Links = [2][2]*VehicleNode{} }

const (
	Left  = 0
	Right = 1
	Prev  = 0
	Next  = 1
)

type VehicleNode = container.ListNode[Occupant, SideLink]
type VehicleList = container.List[Occupant, SideLink]
type PedestrianNode = container.ListNode[Occupant, struct{}]
type PedestrianList = container.List[Occupant, struct{}]

// laneOccupancy is the Lane's only per-tick mutable state. Mutations queue
// through IncrementalArray-style add/remove lists, applied at Lane.Prepare so
// that one driver's Update never observes another's same-tick membership
// change (spec §4.8 phase ordering).
type laneOccupancy struct {
	vehicles    VehicleList
	pedestrians PedestrianList

	pendingAddVehicle    []*VehicleNode
	pendingRemoveVehicle []*VehicleNode
	pendingAddPed        []*PedestrianNode
	pendingRemovePed     []*PedestrianNode
}

func newLaneOccupancy() *laneOccupancy { return &laneOccupancy{} }

func (l *Lane) String() string {
	return fmt.Sprintf("Lane{ID:%d, Length:%.1f}", l.ID, l.Length)
}

// InJunction reports whether this Lane is a turning path's driving lane.
func (l *Lane) InJunction() bool { return l.ParentTurningPath != nil }

// InRoad reports whether this Lane belongs to a RoadSegment.
func (l *Lane) InRoad() bool { return l.ParentSegment != nil }

// precomputeGeometry derives cumulative lengths and per-edge directions from
// Polyline. Build calls this once per Lane after the polyline is resolved.
func (l *Lane) precomputeGeometry() {
	l.PolylineLengths = geometry.GetPolylineLengths2D(l.Polyline)
	l.PolylineDirections = geometry.GetPolylineDirections(l.Polyline)
	if n := len(l.PolylineLengths); n > 0 {
		l.Length = l.PolylineLengths[n-1]
	}
}

// GetPositionByS interpolates the Cartesian position at distance s along the
// lane's centerline, clamping s into range (spec §4.1's "current position
// (Cartesian interpolation on current polyline edge)").
func (l *Lane) GetPositionByS(s float64) geometry.Point {
	s = clampToRange(s, l.PolylineLengths)
	i := sort.SearchFloat64s(l.PolylineLengths, s)
	if i == 0 {
		return l.Polyline[0]
	}
	sLow, sHigh := l.PolylineLengths[i-1], l.PolylineLengths[i]
	k := (s - sLow) / (sHigh - sLow)
	return geometry.Blend(l.Polyline[i-1], l.Polyline[i], k)
}

// GetDirectionByS returns the tangent direction of the polyline edge
// containing s.
func (l *Lane) GetDirectionByS(s float64) geometry.PolylineDirection {
	s = clampToRange(s, l.PolylineLengths)
	i := sort.SearchFloat64s(l.PolylineLengths, s)
	if i == 0 {
		return l.PolylineDirections[0]
	}
	return l.PolylineDirections[i-1]
}

// GetOffsetPositionByS returns the position offset perpendicular to travel
// direction by offset meters (positive = left of travel direction), used to
// draw a lane-changing vehicle's lateral blend.
func (l *Lane) GetOffsetPositionByS(s, offset float64) geometry.Point {
	pos := l.GetPositionByS(s)
	dir := l.GetDirectionByS(s)
	normal := geometry.Point{X: math.Cos(dir.Direction - math.Pi/2), Y: math.Sin(dir.Direction - math.Pi/2)}
	return geometry.Point{X: pos.X + normal.X*offset, Y: pos.Y + normal.Y*offset, Z: pos.Z}
}

// ProjectToLane finds the s-coordinate of the closest point on the lane's
// polyline to pos.
func (l *Lane) ProjectToLane(pos geometry.Point) float64 {
	s := geometry.GetClosestPolylineSToPoint2D(l.Polyline, l.PolylineLengths, pos)
	return lo.Clamp(s, 0, l.Length)
}

// ProjectFromLane rescales a position on another lane of the same segment to
// this lane, by length ratio (used when shiftLane regenerates a position on
// the destination lane without re-running ProjectToLane).
func (l *Lane) ProjectFromLane(other *Lane, otherS float64) float64 {
	return lo.Clamp(otherS/other.Length*l.Length, 0, l.Length)
}

func clampToRange(s float64, cum []float64) float64 {
	if len(cum) == 0 {
		return 0
	}
	return lo.Clamp(s, cum[0], cum[len(cum)-1])
}

// Vehicles exposes the Lane's occupancy list for NeighborQuery.
func (l *Lane) Vehicles() *VehicleList { return &l.occupancy.vehicles }

// Pedestrians exposes the Lane's pedestrian occupancy list.
func (l *Lane) Pedestrians() *PedestrianList { return &l.occupancy.pedestrians }

// QueueAddVehicle stages node for insertion; applied at the next Prepare.
func (l *Lane) QueueAddVehicle(node *VehicleNode) {
	l.occupancy.pendingAddVehicle = append(l.occupancy.pendingAddVehicle, node)
}

// QueueRemoveVehicle stages node for removal; applied at the next Prepare.
func (l *Lane) QueueRemoveVehicle(node *VehicleNode) {
	l.occupancy.pendingRemoveVehicle = append(l.occupancy.pendingRemoveVehicle, node)
}

func (l *Lane) QueueAddPedestrian(node *PedestrianNode) {
	l.occupancy.pendingAddPed = append(l.occupancy.pendingAddPed, node)
}

func (l *Lane) QueueRemovePedestrian(node *PedestrianNode) {
	l.occupancy.pendingRemovePed = append(l.occupancy.pendingRemovePed, node)
}

// Prepare applies every queued occupancy change, then repairs any ordering
// violations left by advances that crossed a neighbor this tick (spec §4.8
// phase 2's "reads are from the read-buffer, writes to the write-buffer",
// applied here at lane-list granularity). Call once per tick, never
// concurrently with a driver update that touches this lane.
func (l *Lane) Prepare() {
	o := l.occupancy
	for _, n := range o.pendingRemoveVehicle {
		if n.Parent() != nil {
			o.vehicles.Remove(n)
		}
	}
	for _, n := range o.pendingAddVehicle {
		insertSorted(&o.vehicles, n)
	}
	o.pendingRemoveVehicle = o.pendingRemoveVehicle[:0]
	o.pendingAddVehicle = o.pendingAddVehicle[:0]

	for _, n := range o.pendingRemovePed {
		if n.Parent() != nil {
			o.pedestrians.Remove(n)
		}
	}
	for _, n := range o.pendingAddPed {
		o.pedestrians.PushBack(n)
	}
	o.pendingRemovePed = o.pendingRemovePed[:0]
	o.pendingAddPed = o.pendingAddPed[:0]

	if unsorted := o.vehicles.PopUnsorted(); len(unsorted) > 0 {
		o.vehicles.Merge(unsorted)
	}
}

func insertSorted(l *VehicleList, add *VehicleNode) {
	for n := l.First(); n != nil; n = n.Next() {
		if n.S >= add.S {
			n.InsertBefore(add)
			return
		}
	}
	l.PushBack(add)
}

// VehicleCount returns the number of vehicles currently on the lane's
// occupancy list.
func (l *Lane) VehicleCount() int32 { return int32(l.occupancy.vehicles.Len()) }
