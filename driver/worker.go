package driver

import (
	"github.com/simmobility/st-core/behavior"
	"github.com/simmobility/st-core/intersection"
	"github.com/simmobility/st-core/neighbor"
	"github.com/simmobility/st-core/network"
)

// Worker adapts an Agent into scheduler.Worker: it resolves the lane context
// (left/right/second-left/second-right neighbors, next-link lookahead) a
// lane itself doesn't carry, builds this tick's zero-delay observation of
// the lead vehicle and signal, then drives the Agent's full frame cycle.
// Grounded on the teacher's pattern of a thin per-agent driver wrapping a
// shared behavior model instance (entity/person/vehicle.go's Person holding
// a *VehicleRoute plus references into shared managers).
type Worker struct {
	Agent    *Agent
	Params   *behavior.ParameterManager
	Long     *behavior.LongitudinalModel
	Env      neighbor.Envelope
	Registry *intersection.Registry

	// SignalAt resolves the signal color, if any, controlling the node a
	// junction-bound lane leads into. Left nil for unsignalized runs.
	SignalAt func(node *network.Node) (behavior.SignalColor, bool)
}

// NewWorker constructs a Worker bound to agent.
func NewWorker(agent *Agent, params *behavior.ParameterManager, long *behavior.LongitudinalModel, env neighbor.Envelope, registry *intersection.Registry) *Worker {
	return &Worker{Agent: agent, Params: params, Long: long, Env: env, Registry: registry}
}

// Update implements scheduler.Worker.
func (w *Worker) Update(now float64, nowMs int64, dt float64) {
	a := w.Agent
	if a.Path.IsDoneWithEntireRoute() {
		a.ToBeRemoved = true
		return
	}
	lane := a.Path.CurrentLane()
	if lane == nil {
		a.ToBeRemoved = true
		return
	}

	left, right, left2, right2 := adjacentLanes(lane)
	nextLink := a.Path.NextLane()

	observedLeader := w.observeLeader(lane)
	observedSignal := w.observeSignal(lane)

	var mgr *intersection.Manager
	if w.Registry != nil {
		if tp := lane.ParentTurningPath; tp != nil {
			mgr = w.Registry.For(tp.Node.ID)
		} else if next := a.Path.NextLane(); next != nil && next.ParentTurningPath != nil {
			mgr = w.Registry.For(next.ParentTurningPath.Node.ID)
		}
	}

	a.FrameTick(now, nowMs, dt, w.Params, w.Long, w.Env, left, right, left2, right2, nextLink, observedLeader, observedSignal, mgr)
}

// Done implements scheduler.Worker.
func (w *Worker) Done() bool { return w.Agent.ToBeRemoved }

func (w *Worker) observeLeader(lane *network.Lane) PerceivedLeader {
	nq := neighbor.Query(lane, w.Agent.Vehicle, w.Agent.Path.S, w.Env, nil, nil, nil, nil, w.Agent.Path.NextLane())
	if nq.Fwd == nil {
		return PerceivedLeader{}
	}
	return PerceivedLeader{
		Distance: nq.Fwd.Distance,
		Velocity: nq.Fwd.Vehicle.V(),
		Present:  true,
	}
}

func (w *Worker) observeSignal(lane *network.Lane) PerceivedSignal {
	if w.SignalAt == nil {
		return PerceivedSignal{}
	}
	next := w.Agent.Path.NextLane()
	if next == nil || next.ParentTurningPath == nil {
		return PerceivedSignal{}
	}
	color, ok := w.SignalAt(next.ParentTurningPath.Node)
	if !ok {
		return PerceivedSignal{}
	}
	return PerceivedSignal{Present: true, Distance: w.Agent.Path.DistanceToLaneEnd(), Color: color}
}

// adjacentLanes resolves the left/right/second-left/second-right lanes of a
// road-segment lane by IndexInSegment offset (spec §4.3's "left/right
// neighbor lanes of the same RoadSegment"); junction lanes have none.
func adjacentLanes(lane *network.Lane) (left, right, left2, right2 *network.Lane) {
	if lane.ParentSegment == nil {
		return nil, nil, nil, nil
	}
	ordered := lane.ParentSegment.OrderedLanes
	idx := lane.IndexInSegment
	at := func(i int) *network.Lane {
		if i < 0 || i >= len(ordered) {
			return nil
		}
		return ordered[i]
	}
	return at(idx - 1), at(idx + 1), at(idx - 2), at(idx + 2)
}
