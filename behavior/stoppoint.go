package behavior

import "math"

// StopPointPhase is spec §4.4's stop-point state machine phase.
type StopPointPhase int

const (
	NotPresent StopPointPhase = iota
	Approaching
	Close
	JustArrived
	Waiting
	Leaving
)

func (p StopPointPhase) String() string {
	switch p {
	case Approaching:
		return "APPROACHING"
	case Close:
		return "CLOSE"
	case JustArrived:
		return "JUST_ARRIVED"
	case Waiting:
		return "WAITING"
	case Leaving:
		return "LEAVING"
	default:
		return "NOT_PRESENT"
	}
}

// Thresholds for the APPROACHING/CLOSE distance transitions (meters),
// tuned the way MITSIM's stop-point model is: close enough to start
// braking hard, close enough to be considered "arrived".
const (
	ApproachDistance = 50.0
	CloseDistance    = 5.0
	ArrivedDistance  = 0.3
)

// StopPointState tracks one driver's progress through a single stop-point
// encounter (spec §4.4): a bus stop, a controlled crossing, or any other
// point requiring a hold of DwellTime seconds before release.
type StopPointState struct {
	Phase      StopPointPhase
	DwellTime  float64
	waitedTime float64
}

// Update advances the phase machine given the remaining distance to the
// stop point and returns the constraint acceleration to feed into
// Accelerations.StopPoint (+Inf when the stop point does not constrain
// motion this tick).
func (s *StopPointState) Update(distToStop, v, dt float64) float64 {
	switch s.Phase {
	case NotPresent:
		if distToStop <= ApproachDistance {
			s.Phase = Approaching
		} else {
			return math.Inf(1)
		}
		fallthrough
	case Approaching:
		if distToStop <= CloseDistance {
			s.Phase = Close
		}
		return BrakeToStop(distToStop, v, dt)
	case Close:
		if distToStop <= ArrivedDistance {
			s.Phase = JustArrived
			s.waitedTime = 0
		}
		return BrakeToStop(distToStop, v, dt)
	case JustArrived:
		s.Phase = Waiting
		fallthrough
	case Waiting:
		s.waitedTime += dt
		if s.waitedTime >= s.DwellTime {
			s.Phase = Leaving
			return math.Inf(1)
		}
		if v <= 1e-6 {
			return 0 // already stopped; don't drift
		}
		return -v / dt // decelerate to exactly zero this tick
	case Leaving:
		s.Phase = NotPresent
		return math.Inf(1)
	default:
		return math.Inf(1)
	}
}

// Reset clears the state machine back to NOT_PRESENT, used when a driver's
// route no longer has the stop point ahead (e.g. after a reroute).
func (s *StopPointState) Reset() {
	s.Phase = NotPresent
	s.waitedTime = 0
}
