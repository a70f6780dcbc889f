package behavior

import (
	"math"

	"github.com/samber/lo"
	"github.com/simmobility/st-core/utils/randengine"
)

// LaneChangeMode is the driver's current motive for considering a lane
// change (spec §4.5).
type LaneChangeMode int

const (
	NoChange LaneChangeMode = iota
	Discretionary
	Mandatory
	CourtesyMerge
	ForcedMerge
)

// LaneSide names one of the two lateral directions; spec §4.5's gap
// acceptance yields a LaneSide{left, right} struct of booleans.
type LaneSide struct {
	Left, Right bool
}

// GapSituation is the perceived lead/lag gap on one candidate side (spec
// §4.5's critical-gap formula inputs).
type GapSituation struct {
	RemainingDistImpact float64 // e.g. distance to the mandatory-change point, normalized
	DeltaV              float64 // own v minus the gap-bounding vehicle's v
	Available           bool    // whether a vehicle occupies that slot at all (false = infinite gap)
	GapSize             float64
}

// CriticalGap evaluates spec §4.5's gap* formula for one GapModel row,
// clamped to [exp(-4), exp(6)]*scale.
func CriticalGap(row int, params *ParameterManager, situ GapSituation, rng *randengine.Engine) float64 {
	c := params.GapModel(row)
	dvNeg := math.Min(situ.DeltaV, 0)
	dvPos := math.Max(situ.DeltaV, 0)
	noise := 0.0
	if rng != nil {
		noise = rng.GaussSafe(0, c.Sigma)
	}
	exponent := c.B0 + c.B1*situ.RemainingDistImpact + c.B2*situ.DeltaV + c.B3*dvNeg + c.B4*dvPos + noise
	gap := c.Scale * math.Exp(exponent)
	lower := math.Exp(-4) * c.Scale
	upper := math.Exp(6) * c.Scale
	gap = lo.Clamp(gap, lower, upper)
	return math.Max(gap, 0)
}

// GapAccepted reports whether situ's actual gap clears the critical gap for
// row.
func GapAccepted(row int, params *ParameterManager, situ GapSituation, rng *randengine.Engine) bool {
	if !situ.Available {
		return true
	}
	return situ.GapSize >= CriticalGap(row, params, situ, rng)
}

// DLCCandidate is one side's discretionary lane-change evaluation input
// (spec §4.5's "choose side with longer fwd gap when current lead distance
// <= satisfied-distance").
type DLCCandidate struct {
	Free        bool // gap accepted on this side
	ForwardGap  float64
	Utility     float64
}

// DiscretionaryDecision picks a side under DLC rules (spec §4.5):
// SAME if neither is free; if only one side is free, that side when its
// utility exceeds ownLaneSpace and SAME otherwise; if both are free, the
// higher-utility side.
func DiscretionaryDecision(ownLaneSpace float64, left, right DLCCandidate) LaneSide {
	switch {
	case !left.Free && !right.Free:
		return LaneSide{}
	case left.Free && !right.Free:
		return LaneSide{Left: left.Utility > ownLaneSpace}
	case right.Free && !left.Free:
		return LaneSide{Right: right.Utility > ownLaneSpace}
	default:
		if left.Utility >= right.Utility {
			return LaneSide{Left: true}
		}
		return LaneSide{Right: true}
	}
}

// MandatoryTriggerProbability is spec §4.5's MLC switch probability:
// 1 at or below dLow, otherwise exp(-(d-dLow)^2/delta^2), where delta
// depends on how many lanes must be crossed and on congestion.
func MandatoryTriggerProbability(d float64, mlc LaneSideMLCParams) float64 {
	if d <= mlc.DLow {
		return 1
	}
	delta := mandatoryDelta(mlc)
	if delta <= 0 {
		return 0
	}
	diff := d - mlc.DLow
	return math.Exp(-(diff * diff) / (delta * delta))
}

// LaneSideMLCParams bundles the per-decision MLC trigger inputs (spec
// §4.5): DLow is the distance below which switching is certain; LanesToCross
// and Congestion scale how gradually probability ramps up with distance.
type LaneSideMLCParams struct {
	DLow          float64
	LanesToCross  int
	Congestion    float64
	FeetDelta     float64
	LaneCoef      float64
	CongestCoef   float64
}

func mandatoryDelta(p LaneSideMLCParams) float64 {
	return p.FeetDelta + p.LaneCoef*float64(p.LanesToCross) + p.CongestCoef*p.Congestion
}

// MandatoryDecision applies spec §4.5's MLC rule: if the target-lane
// direction is accessible (gap accepted), take it; otherwise mark the
// driver as waiting (it must decelerate to force a gap).
func MandatoryDecision(targetSide LaneSide, accessible bool) (decision LaneSide, isWaiting bool) {
	if accessible {
		return targetSide, false
	}
	return LaneSide{}, true
}

// TargetGapSlot names one of the five candidate gaps spec §4.5's
// target-gap selection chooses among.
type TargetGapSlot int

const (
	GapBack2 TargetGapSlot = iota
	GapBack
	GapAdjacent
	GapFwd
	GapFwd2
)

// TargetGapCandidate is one slot's utility inputs for the logit choice
// (spec §4.5's "utilities linear in gap size, gap velocity, and remaining
// distance").
type TargetGapCandidate struct {
	Slot            TargetGapSlot
	GapSize         float64
	GapVelocity     float64
	RemainingDist   float64
}

// SelectTargetGap runs a logit over candidates' utilities (c0 + c1*gapSize +
// c2*gapVelocity + c3*remainingDist, from GapParam row) and draws one
// outcome with rng, matching spec §4.5's "a random draw picks one of the
// three adjacent slots" (generalized here to however many candidates are
// passed, so back2/fwd2 participate when present).
func SelectTargetGap(row int, params *ParameterManager, candidates []TargetGapCandidate, rng *randengine.Engine) (TargetGapSlot, bool) {
	if len(candidates) == 0 {
		return 0, false
	}
	c := params.cfg.GapParams[row]
	utilities := make([]float64, len(candidates))
	weightSum := 0.0
	for i, cand := range candidates {
		u := c.C0 + c.C1*cand.GapSize + c.C2*cand.GapVelocity + c.C3*cand.RemainingDist
		utilities[i] = math.Exp(u)
		weightSum += utilities[i]
	}
	if weightSum <= 0 || rng == nil {
		return candidates[0].Slot, true
	}
	draw := rng.Float64Safe() * weightSum
	acc := 0.0
	for i, u := range utilities {
		acc += u
		if draw <= acc {
			return candidates[i].Slot, true
		}
	}
	return candidates[len(candidates)-1].Slot, true
}

// LaneShiftVelocity is spec §4.5's lateral execution speed range (cm/s
// converted to m/s here so callers work in SI throughout).
const (
	MinLaneShiftVelocity = 1.5
	MaxLaneShiftVelocity = 3.5
)

// LateralExecutionState tracks a lane change from decision through
// completion (spec §4.5's "Execution" and "Hysteresis").
type LateralExecutionState struct {
	InProgress    bool
	TowardLeft    bool
	LateralOffset float64 // meters crossed so far, 0 at decision time
	LastDecision  LaneSide
	CooldownTimer float64 // cftimer: seconds remaining before a new decision may be made
}

// Begin starts executing a lane change toward side, recording it as the
// persisting decision (spec §4.5's "a lane-change decision persists across
// ticks via lastDecision until execution completes").
func (s *LateralExecutionState) Begin(side LaneSide) {
	s.InProgress = true
	s.TowardLeft = side.Left
	s.LateralOffset = 0
	s.LastDecision = side
}

// Step advances lateral displacement by shiftVelocity*dt and reports
// whether the lane membership switch threshold (half a lane width) has been
// crossed.
func (s *LateralExecutionState) Step(shiftVelocity, dt, laneWidth float64) (switched bool) {
	if !s.InProgress {
		return false
	}
	s.LateralOffset += shiftVelocity * dt
	if s.LateralOffset >= laneWidth/2 {
		return true
	}
	return false
}

// Complete ends the lane change and starts the re-decision cooldown.
func (s *LateralExecutionState) Complete(cooldown float64) {
	s.InProgress = false
	s.LateralOffset = 0
	s.CooldownTimer = cooldown
}

// Tick decrements the cooldown timer; call once per tick regardless of
// InProgress.
func (s *LateralExecutionState) Tick(dt float64) {
	if s.CooldownTimer > 0 {
		s.CooldownTimer -= dt
		if s.CooldownTimer < 0 {
			s.CooldownTimer = 0
		}
	}
}

// CanDecide reports whether the cooldown has elapsed and no change is
// already in progress.
func (s *LateralExecutionState) CanDecide() bool {
	return !s.InProgress && s.CooldownTimer <= 0
}
