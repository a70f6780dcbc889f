// Package driver implements DriverAgent (spec §2 item 6, §4.7): the
// composition root wiring PathMover + Perception + NeighborQuery + Behavior
// + IntersectionDriving into one per-tick frame cycle, plus the Vehicle
// resource and role variants it owns. Grounded on the teacher's
// entity/person/vehicle.go double-buffered snapshot/runtime split and
// entity/person/vehicleaction.go's Action aggregation.
package driver

import "math"

// Kind enumerates the physical vehicle classes the behavioral tables are
// indexed by (spec §6's VehicleTypeParams map key).
type Kind string

const (
	Car Kind = "car"
	Bus Kind = "bus"
	Taxi Kind = "taxi"
)

// Vehicle is the physical resource a DriverAgent owns: its kinematic state
// and geometry. One Vehicle belongs to exactly one DriverAgent at a time;
// BusDriver/OnCallDriver reuse the same struct (spec §4.7's "variant roles
// reuse the same cycle").
type Vehicle struct {
	ID         int64
	Kind       Kind
	BodyLength float64
	Width      float64

	Speed float64 // current speed, m/s
	Accel float64 // current acceleration, m/s^2
}

func (v *Vehicle) OccupantID() int64 { return v.ID }

// V and Length satisfy network.Occupant / container.IHasVAndLength.
func (v *Vehicle) V() float64      { return v.Speed }
func (v *Vehicle) Length() float64 { return v.BodyLength }

// Integrate applies spec §4.7 step 9's kinematic update: v <- clamp(v+aΔt,
// 0, maxSpeed); Δx = vΔt + ½aΔt² using the PRE-update velocity, matching
// the teacher's vehicleaction.go convention of integrating displacement
// from the velocity the acceleration was computed against.
func (v *Vehicle) Integrate(a, dt, maxSpeed float64) (displacement float64) {
	v0 := v.Speed
	newV := v0 + a*dt
	newV = math.Max(0, math.Min(newV, maxSpeed))
	displacement = v0*dt + 0.5*a*dt*dt
	if displacement < 0 {
		displacement = 0
	}
	v.Speed = newV
	v.Accel = a
	return displacement
}

// Action is spec §4.4's per-constraint acceleration bundle plus the
// lane-change intent, ported from the teacher's vehicleaction.go Action
// struct: A is the combined acceleration, LCTarget/LCPhi carry the lateral
// decision, AheadVDistance is the forward-gap distance used by the target-
// gap pull-in term.
type Action struct {
	A              float64
	LCTarget       bool
	LCPhi          float64 // lateral velocity command, m/s
	AheadVDistance float64
}

// Update folds others into a, taking the minimum acceleration across every
// constraint source — the same aggregation rule entity/person/vehicleaction.go
// uses ("the final acceleration is the minimum of all active constraints",
// spec §4.4).
func (a *Action) Update(others ...Action) {
	for _, o := range others {
		if o.A < a.A {
			a.A = o.A
		}
	}
}

// SetBrakeAcc sets a to the kinematic brake rate needed to stop within
// brakeDistance from speed v (teacher's vehicleaction.go SetBrakeAcc,
// spec §4.1's brakeDistance helper): a = -v^2/(2*d). Once brakeDistance has
// collapsed to (near) zero that formula blows up, so this falls back to
// -v/dt, the rate that brings the vehicle to exactly zero by the end of the
// current tick — always finite, matching behavior.BrakeToStop's near-zero
// branch (spec.md §8's for-all maxDec <= a <= maxAcc).
func (a *Action) SetBrakeAcc(brakeDistance, v, dt float64) {
	if brakeDistance <= 1e-6 {
		if dt > 0 {
			a.A = -v / dt
		} else {
			a.A = 0
		}
		return
	}
	a.A = -(v * v) / (2 * brakeDistance)
}
