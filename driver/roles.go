package driver

import (
	"github.com/simmobility/st-core/network"
	"github.com/simmobility/st-core/pathmover"
)

// Role distinguishes the schedule-item and stop-checking behavior a variant
// agent overrides (spec §4.7's "Variant roles ... reuse the same cycle but
// override performScheduleItem, checkForStops, path construction, and
// message handling").
type Role int

const (
	RolePrivateCar Role = iota
	RoleBusDriver
	RoleOnCallDriver
	RolePedestrian
	RolePassenger
	RoleWaitBusActivity
)

// BusDriver wraps Agent with the dwell-time state machine triggered by
// BusStop obstacles along the route (spec §4.7's bus variant).
type BusDriver struct {
	*Agent
	Dwell       BusDwellState
	Coeffs      DwellCoefficients
	StopQueue   *network.RoadItem // the BusStop obstacle currently being serviced, nil otherwise
}

// NewBusDriver wraps an already-constructed Agent.
func NewBusDriver(agent *Agent) *BusDriver {
	return &BusDriver{Agent: agent, Coeffs: DefaultDwellCoefficients}
}

// CheckForStops detects whether the driver has reached a BusStop obstacle
// close enough to begin dwelling (spec §4.7's checkForStops override),
// returning true once dwell has begun.
func (b *BusDriver) CheckForStops(nearestStop *network.RoadItem, distToStop float64, boarders, alighters int, bayFlag, fullFlag bool, crowdedness float64) bool {
	if b.Dwell.AtStop || nearestStop == nil || distToStop > 0.5 {
		return false
	}
	dt := BusStopDwellTime(b.Coeffs, boarders, alighters, bayFlag, fullFlag, crowdedness)
	b.Dwell.Begin(dt)
	b.StopQueue = nearestStop
	return true
}

// TickDwell advances the dwell countdown; returns true once the bus should
// rejoin the roadway lane's moving queue.
func (b *BusDriver) TickDwell(dt float64) bool {
	if !b.Dwell.Tick(dt) {
		return false
	}
	b.StopQueue = nil
	return true
}

// OnCallDriver wraps Agent with an on-call dispatch target (spec §4.7's
// on-call variant): it has no fixed schedule, only a current assignment
// awaiting a dispatch message.
type OnCallDriver struct {
	*Agent
	Assigned bool
	PickupAt *network.Lane
}

// Pedestrian walks a sidewalk/crossing lane sequence instead of driving;
// it holds a PathMoverState and a speed, with no stop-point state, no
// Vehicle resource and no longitudinal/lateral car-following.
type Pedestrian struct {
	Path        pathmover.PathMoverState
	V           float64
	ToBeRemoved bool
}

// WaitBusActivity models a Passenger waiting at a BusStop for a compatible
// bus to arrive (spec §4.7's WaitBusActivity variant): it is not on the
// roadway at all; it only records its stop and whether it has boarded, and
// has no per-tick method of its own.
type WaitBusActivity struct {
	Stop        *network.RoadItem
	Boarded     bool
	ToBeRemoved bool
}
