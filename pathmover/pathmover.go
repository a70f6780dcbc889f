// Package pathmover implements PathMoverState (spec §4.1): the purely
// geometric bookkeeping that tracks a driver's position along its route,
// independent of the behavioral decision that produced its speed. It is
// grounded on the teacher's VehicleRoute.Next stepping pattern
// (entity/person/vehicle.go) and on DriverPathMover/GeneralPathMover from
// original_source, reworked around this repo's network.Lane/Link graph
// instead of the original's RoadSegment/polyline-array bookkeeping.
package pathmover

import (
	"git.fiblab.net/general/common/v2/geometry"
	"github.com/simmobility/st-core/network"
)

// PathMoverState is the mutable cursor into a fixed lane sequence (spec
// §4.1). Route is resolved once by the route package; advancing only moves
// the cursor (LaneIndex, S) forward, and ShiftLane replaces the current
// entry of Route with the target lane.
type PathMoverState struct {
	Route []*network.Lane

	LaneIndex int
	S         float64

	// Done is set once the cursor reaches the end of Route.
	Done bool
}

// SetPath installs a new route and resets the cursor to its start,
// mirroring DriverPathMover::setPath's "discard any in-flight state" reset.
func (p *PathMoverState) SetPath(route []*network.Lane, startS float64) {
	p.Route = route
	p.LaneIndex = 0
	p.S = startS
	p.Done = len(route) == 0
}

// CurrentLane returns the Lane the cursor currently occupies, or nil if the
// route is empty or exhausted.
func (p *PathMoverState) CurrentLane() *network.Lane {
	if p.Done || p.LaneIndex >= len(p.Route) {
		return nil
	}
	return p.Route[p.LaneIndex]
}

// NextLane returns the Lane the cursor will enter once it leaves the current
// one, or nil at the end of the route — used by behavior to look ahead for
// the downstream speed limit and curvature (spec §4.4, §4.6).
func (p *PathMoverState) NextLane() *network.Lane {
	if p.LaneIndex+1 >= len(p.Route) {
		return nil
	}
	return p.Route[p.LaneIndex+1]
}

// DistanceToLaneEnd returns how much distance remains in the current lane.
func (p *PathMoverState) DistanceToLaneEnd() float64 {
	lane := p.CurrentLane()
	if lane == nil {
		return 0
	}
	return lane.Length - p.S
}

// DistanceToEndOfLink sums the remaining distance in the current lane plus
// every following lane that still belongs to the same Link, stopping at the
// first junction lane or link boundary — the lookahead horizon spec §4.4
// uses to decide when a lane change becomes mandatory.
func (p *PathMoverState) DistanceToEndOfLink() float64 {
	lane := p.CurrentLane()
	if lane == nil || lane.ParentSegment == nil {
		return 0
	}
	link := lane.ParentSegment.ParentLink
	total := p.DistanceToLaneEnd()
	for i := p.LaneIndex + 1; i < len(p.Route); i++ {
		next := p.Route[i]
		if next.ParentSegment == nil || next.ParentSegment.ParentLink != link {
			break
		}
		total += next.Length
	}
	return total
}

// Advance moves the cursor forward by fwdDistance, crossing as many lane
// boundaries as needed in one call, and reports the distance actually
// covered (less than fwdDistance only when the route runs out, mirroring
// DriverPathMover::advance's "Entire path is already done" stop condition).
func (p *PathMoverState) Advance(fwdDistance float64) float64 {
	if p.Done || fwdDistance <= 0 {
		return 0
	}
	covered := 0.0
	for fwdDistance > 0 {
		lane := p.CurrentLane()
		if lane == nil {
			p.Done = true
			break
		}
		remaining := lane.Length - p.S
		if fwdDistance < remaining {
			p.S += fwdDistance
			covered += fwdDistance
			fwdDistance = 0
			break
		}
		covered += remaining
		fwdDistance -= remaining
		p.LaneIndex++
		p.S = 0
		if p.LaneIndex >= len(p.Route) {
			p.Done = true
			break
		}
	}
	return covered
}

// LeaveIntersection is called once a driver's cursor crosses from a
// TurningPath's driving lane onto the downstream road lane, matching
// DriverPathMover::leaveIntersection's sole job of reporting the lane the
// driver is now on (the crossing itself already happened inside Advance).
func (p *PathMoverState) LeaveIntersection() *network.Lane {
	lane := p.CurrentLane()
	if lane == nil || lane.InJunction() {
		return nil
	}
	return lane
}

// ShiftLane moves the cursor sideways onto an adjacent Lane of the same
// RoadSegment at the corresponding S, used when a lane change commits (spec
// §4.5's "on commit, the driver's lane membership changes instantaneously").
func (p *PathMoverState) ShiftLane(target *network.Lane) {
	p.S = target.ProjectFromLane(p.Route[p.LaneIndex], p.S)
	p.Route[p.LaneIndex] = target
}

// Position returns the current Cartesian position.
func (p *PathMoverState) Position() geometry.Point {
	lane := p.CurrentLane()
	if lane == nil {
		return geometry.Point{}
	}
	return lane.GetPositionByS(p.S)
}

// Direction returns the current travel direction.
func (p *PathMoverState) Direction() geometry.PolylineDirection {
	lane := p.CurrentLane()
	if lane == nil {
		return geometry.PolylineDirection{}
	}
	return lane.GetDirectionByS(p.S)
}

// IsDoneWithEntireRoute reports whether the cursor has reached the end of
// Route (DriverPathMover::isDoneWithEntireRoute).
func (p *PathMoverState) IsDoneWithEntireRoute() bool { return p.Done }
