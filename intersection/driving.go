// Package intersection implements the slot-based IntersectionDriving
// protocol (spec §4.6) and its IntersectionManager arbiter (spec §2 item 9).
// Grounded on original_source's SlotBased_IntDriving_Model.cpp (the
// request/grant speed-modulation logic).
//
// RequestedArrivalTime/Manager.RequestAccess are a direct synchronous call
// from driver.Worker into the owning Manager rather than a
// REQUEST_INT_ARR_TIME/REPLY_INT_ARR_TIME round trip over message.Bus — see
// DESIGN.md's "`message/` wiring — scope cut" entry for the justification.
package intersection

// Phase is spec §4.6's per-driver intersection-approach state.
type Phase int

const (
	NotApproaching Phase = iota
	ApproachingIntersection
	InIntersection
	LeavingIntersection
)

// DrivingState is one driver's slot-based-protocol bookkeeping, held
// alongside its PathMoverState for as long as one intersection crossing
// lasts (spec §4.6).
type DrivingState struct {
	Phase           Phase
	RequestSent     bool
	ResponseReceived bool
	AccessTime      float64
	TurningPathID   int64
}

// Reset clears per-intersection state once the driver has left, so the next
// intersection starts clean (spec §4.6 step 6's "requestSent is cleared for
// the next intersection").
func (s *DrivingState) Reset() {
	*s = DrivingState{}
}

// RequestedArrivalTime computes spec §4.6 step 1's tArr = now +
// distToIntersection/currentSpeed. Returns false when currentSpeed is too
// small to produce a meaningful estimate (driver is stopped or crawling);
// callers should retry next tick rather than submit a nonsensical request.
func RequestedArrivalTime(now, distToIntersection, currentSpeed float64) (float64, bool) {
	const minSpeed = 0.1
	if currentSpeed < minSpeed {
		return 0, false
	}
	return now + distToIntersection/currentSpeed, true
}

// AdjustSpeedForSlot is spec §4.6 step 4: while waiting for its granted
// slot, the driver's acceleration is overridden to zero and its velocity is
// set so it arrives at exactly AccessTime. Once now >= AccessTime, normal
// longitudinal control resumes (overrideAcc=false signals "stop overriding").
func AdjustSpeedForSlot(state *DrivingState, now, distToIntersection float64) (velocity float64, overrideAcc bool) {
	if !state.ResponseReceived || now >= state.AccessTime {
		return 0, false
	}
	remaining := state.AccessTime - now
	if remaining <= 0 {
		return 0, false
	}
	return distToIntersection / remaining, true
}
