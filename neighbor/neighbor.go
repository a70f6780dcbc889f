// Package neighbor implements NeighborQuery (spec §4.3): for a driver's
// current lane position, find the nearest vehicle in each of the up-to-ten
// slots (own lane fwd/back, left/right fwd/back, second-adjacent left/right
// fwd/back, next-link fwd) plus the nearest pedestrian ahead on a crossing,
// all within a visibility envelope. It is grounded on the teacher's
// SideLink-cached occupancy lists (entity/lane/lane.go's nearest-neighbor
// accessors) now implemented over network.Lane's occupancy lists.
package neighbor

import (
	"github.com/simmobility/st-core/network"
)

// Envelope bounds how far NeighborQuery looks, in meters along the lane
// polyline (spec §4.3's "default: 30 m fwd, 5 m back; tunable").
type Envelope struct {
	Forward  float64
	Backward float64
}

// DefaultEnvelope matches spec §4.3's stated default.
var DefaultEnvelope = Envelope{Forward: 30, Backward: 5}

// NearestVehicle is one NeighborQuery slot's result (spec §4.3).
type NearestVehicle struct {
	Vehicle  network.Occupant
	Distance float64 // along-polyline distance, always >= 0
}

// Result bundles every NeighborQuery output for one driver's tick.
type Result struct {
	Fwd, Back                   *NearestVehicle
	LeftFwd, LeftBack           *NearestVehicle
	RightFwd, RightBack         *NearestVehicle
	LeftFwd2, LeftBack2         *NearestVehicle
	RightFwd2, RightBack2       *NearestVehicle
	FwdNextLink                 *NearestVehicle
	NearestPedestrian           *NearestVehicle
}

// Query finds self's neighbors on lane at position s, honoring envelope.
// left and right are lane's adjacent lanes (nil if the lane is an edge
// lane), and left2/right2 the second-adjacent ones; nextLink is the lane
// self's route enters after lane (for the FwdNextLink lookahead slot).
func Query(lane *network.Lane, self network.Occupant, s float64, env Envelope,
	left, right, left2, right2, nextLink *network.Lane) Result {

	var r Result
	r.Fwd, r.Back = nearestInLane(lane, self, s, env)
	r.LeftFwd, r.LeftBack = nearestInAdjacentLane(left, lane, s, env)
	r.RightFwd, r.RightBack = nearestInAdjacentLane(right, lane, s, env)
	r.LeftFwd2, r.LeftBack2 = nearestInAdjacentLane(left2, lane, s, env)
	r.RightFwd2, r.RightBack2 = nearestInAdjacentLane(right2, lane, s, env)

	if nextLink != nil {
		if n := nextLink.Vehicles().First(); n != nil {
			d := n.S
			if d <= env.Forward {
				r.FwdNextLink = &NearestVehicle{Vehicle: n.Value, Distance: d}
			}
		}
	}

	r.NearestPedestrian = nearestPedestrian(lane, s, env)
	return r
}

// nearestInLane scans lane's S-ordered vehicle list around s for the
// nearest vehicle ahead and behind self, excluding self.
func nearestInLane(lane *network.Lane, self network.Occupant, s float64, env Envelope) (fwd, back *NearestVehicle) {
	for n := lane.Vehicles().First(); n != nil; n = n.Next() {
		if n.Value == self {
			continue
		}
		if n.S >= s {
			d := n.S - s
			if d <= env.Forward && fwd == nil {
				fwd = &NearestVehicle{Vehicle: n.Value, Distance: d}
			}
		} else {
			d := s - n.S
			if d <= env.Backward {
				back = &NearestVehicle{Vehicle: n.Value, Distance: d}
			}
		}
	}
	return fwd, back
}

// nearestInAdjacentLane re-expresses s (measured on own lane) onto an
// adjacent lane of possibly different length before scanning, since the two
// lanes' polylines needn't be equal length.
func nearestInAdjacentLane(adj, own *network.Lane, s float64, env Envelope) (fwd, back *NearestVehicle) {
	if adj == nil {
		return nil, nil
	}
	adjS := adj.ProjectFromLane(own, s)
	var closestFwdD, closestBackD = env.Forward + 1, env.Backward + 1
	for n := adj.Vehicles().First(); n != nil; n = n.Next() {
		if n.S >= adjS {
			d := n.S - adjS
			if d <= env.Forward && d < closestFwdD {
				closestFwdD = d
				fwd = &NearestVehicle{Vehicle: n.Value, Distance: d}
			}
		} else {
			d := adjS - n.S
			if d <= env.Backward && d < closestBackD {
				closestBackD = d
				back = &NearestVehicle{Vehicle: n.Value, Distance: d}
			}
		}
	}
	return fwd, back
}

// nearestPedestrian finds the closest pedestrian ahead of s within the
// forward envelope, used by the longitudinal model's crossing-yield check.
func nearestPedestrian(lane *network.Lane, s float64, env Envelope) *NearestVehicle {
	var best *NearestVehicle
	for n := lane.Pedestrians().First(); n != nil; n = n.Next() {
		if n.S < s {
			continue
		}
		d := n.S - s
		if d > env.Forward {
			continue
		}
		if best == nil || d < best.Distance {
			best = &NearestVehicle{Vehicle: n.Value, Distance: d}
		}
	}
	return best
}
