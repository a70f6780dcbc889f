package driver

import (
	"math"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/simmobility/st-core/behavior"
	"github.com/simmobility/st-core/intersection"
	"github.com/simmobility/st-core/neighbor"
	"github.com/simmobility/st-core/network"
	"github.com/simmobility/st-core/pathmover"
	"github.com/simmobility/st-core/perception"
)

// PerceivedLeader is the fixed-delay-buffered snapshot of the vehicle ahead
// (spec §4.7 step 3: "push current observed leader/signal data into
// fixed-delay buffers").
type PerceivedLeader struct {
	Distance     float64
	Velocity     float64
	Acceleration float64
	Present      bool
}

// PerceivedSignal is the fixed-delay-buffered signal state at the next
// intersection.
type PerceivedSignal struct {
	Present    bool
	Distance   float64
	Color      behavior.SignalColor
}

// Observable is the double-buffered state DriverAgent exposes to
// neighboring drivers' NeighborQuery reads (spec §2 item 6's "exposes
// double-buffered observable state ... consumed by neighboring drivers").
// The Scheduler owns the read/write buffer flip; DriverAgent only ever
// writes into Write and the rest of the simulation only ever reads Read.
type Observable struct {
	Position geometry.Point
	Velocity float64
	Lane     *network.Lane
	S        float64
	Turning  bool
}

// Agent composes PathMover + Perception + NeighborQuery + Behavior +
// IntersectionDriving into the per-tick frame cycle of spec §4.7.
type Agent struct {
	Vehicle *Vehicle
	Path    pathmover.PathMoverState

	leaderBuf *perception.FixedDelayed[PerceivedLeader]
	signalBuf *perception.FixedDelayed[PerceivedSignal]

	StopPoint behavior.StopPointState
	Lateral   behavior.LateralExecutionState
	Crossing  intersection.DrivingState

	DesiredSpeed float64
	ToBeRemoved  bool

	Read, Write Observable
}

// NewAgent constructs an Agent with a reaction-delay perception pipeline of
// delayMs (spec §4.2).
func NewAgent(vehicle *Vehicle, delayMs int64) *Agent {
	return &Agent{
		Vehicle:   vehicle,
		leaderBuf: perception.New[PerceivedLeader](delayMs),
		signalBuf: perception.New[PerceivedSignal](delayMs),
	}
}

// InitializePath installs route and starting position (spec §4.7 step 1).
func (a *Agent) InitializePath(route []*network.Lane, startS float64) {
	a.Path.SetPath(route, startS)
	lane := a.Path.CurrentLane()
	if lane != nil {
		a.Read.Lane, a.Write.Lane = lane, lane
	}
}

// FrameTick runs one full spec §4.7 cycle: perceive, query neighbors,
// decide, integrate, advance. now and nowMs are the tick's simulated time in
// seconds and milliseconds respectively (perception buffers key off
// milliseconds; behavior and kinematics off seconds).
func (a *Agent) FrameTick(
	now float64, nowMs int64, dt float64,
	params *behavior.ParameterManager,
	long *behavior.LongitudinalModel,
	env neighbor.Envelope,
	left, right, left2, right2, nextLink *network.Lane,
	observedLeader PerceivedLeader, observedSignal PerceivedSignal,
	mgr *intersection.Manager,
) {
	if a.Path.IsDoneWithEntireRoute() {
		a.ToBeRemoved = true
		return
	}
	lane := a.Path.CurrentLane()
	if lane == nil {
		a.ToBeRemoved = true
		return
	}

	// Step 3: perception pipeline.
	a.leaderBuf.Update(nowMs)
	a.signalBuf.Update(nowMs)
	a.leaderBuf.Delay(observedLeader)
	a.signalBuf.Delay(observedSignal)
	perceivedLeader := observedLeader
	if a.leaderBuf.CanSense() {
		perceivedLeader = a.leaderBuf.Sense()
	}
	perceivedSignal := observedSignal
	if a.signalBuf.CanSense() {
		perceivedSignal = a.signalBuf.Sense()
	}

	// Step 4: NeighborQuery.
	nq := neighbor.Query(lane, a.Vehicle, a.Path.S, env, left, right, left2, right2, nextLink)

	// Step 6-8: longitudinal model.
	in := behavior.LongitudinalInputs{
		VehicleKind:  string(a.Vehicle.Kind),
		V:            a.Vehicle.Speed,
		DesiredSpeed: a.DesiredSpeed,
		MaxLaneSpeed: lane.MaxSpeed,
	}
	if perceivedLeader.Present {
		in.Lead = &behavior.LeadVehicle{
			Distance: perceivedLeader.Distance, Velocity: perceivedLeader.Velocity, Acceleration: perceivedLeader.Acceleration,
		}
	} else if nq.Fwd != nil {
		in.Lead = &behavior.LeadVehicle{Distance: nq.Fwd.Distance, Velocity: nq.Fwd.Vehicle.V()}
	}
	if perceivedSignal.Present {
		in.HasSignal = true
		in.DistSignal = perceivedSignal.Distance
		in.SignalColor = perceivedSignal.Color
	}

	stopAcc := a.StopPoint.Update(a.Path.DistanceToLaneEnd(), a.Vehicle.Speed, dt)
	acc := long.Evaluate(in, dt, stopAcc, a.StopPoint.Phase != behavior.NotPresent)
	finalAcc := acc.Combine()

	// Step 5: intersection slot protocol. While still on the approach lane,
	// submit one request for the upcoming turning path as soon as a speed
	// estimate is available; while on the turning path itself, let the grant
	// override acceleration until AccessTime, then resume normal control.
	if mgr != nil {
		if !lane.InJunction() {
			if next := a.Path.NextLane(); next != nil && next.InJunction() && !a.Crossing.RequestSent {
				if tArr, ok := intersection.RequestedArrivalTime(now, a.Path.DistanceToLaneEnd(), a.Vehicle.Speed); ok {
					traversal := next.Length / math.Max(next.MaxSpeed, 1.0)
					access := mgr.RequestAccess(next.ParentTurningPath, tArr, traversal, 1)
					a.Crossing = intersection.DrivingState{
						Phase: intersection.ApproachingIntersection, RequestSent: true, ResponseReceived: true,
						AccessTime: access, TurningPathID: next.ParentTurningPath.ID,
					}
				}
			}
		} else {
			if v, override := intersection.AdjustSpeedForSlot(&a.Crossing, now, a.Path.DistanceToLaneEnd()); override {
				a.Vehicle.Speed = v
				finalAcc = 0
			}
		}
	}

	// Step 9: integrate and advance.
	maxSpeed := math.Min(lane.MaxSpeed, a.DesiredSpeed*1.2)
	displacement := a.Vehicle.Integrate(finalAcc, dt, maxSpeed)
	a.Path.Advance(displacement)

	// Step 10: lateral execution.
	a.Lateral.Tick(dt)
	if a.Lateral.InProgress {
		shiftV := behavior.MinLaneShiftVelocity
		if newLane := a.Path.CurrentLane(); newLane != nil {
			if a.Lateral.Step(shiftV, dt, newLane.Width) {
				a.Lateral.Complete(0.5)
			}
		}
	}

	if lane.InJunction() {
		if newLane := a.Path.CurrentLane(); newLane != lane && newLane != nil && !newLane.InJunction() {
			a.Crossing.Reset()
		}
	}

	// Step 11: write observables.
	if newLane := a.Path.CurrentLane(); newLane != nil {
		a.Write = Observable{
			Position: a.Path.Position(),
			Velocity: a.Vehicle.Speed,
			Lane:     newLane,
			S:        a.Path.S,
			Turning:  newLane.InJunction(),
		}
	} else {
		a.ToBeRemoved = true
	}
}

// FlipBuffers publishes Write as the next tick's Read snapshot (spec §4.8
// phase 3's "atomically swap read/write buffers"). The Scheduler calls this
// in its Flip phase only when it is registered there, e.g. with
// AddFlipper(scheduler.FlipperFunc(a.FlipBuffers)); NewWorker does not
// register it.
func (a *Agent) FlipBuffers() {
	a.Read = a.Write
}
