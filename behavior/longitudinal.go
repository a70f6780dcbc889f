package behavior

import (
	"math"

	"github.com/simmobility/st-core/utils/randengine"
)

// SignalColor is the perceived state of the signal controlling the driver's
// approach (spec §4.4's "Signal response").
type SignalColor int

const (
	SignalGreen SignalColor = iota
	SignalAmber
	SignalRed
)

// LeadVehicle is the perceived state of a car-following target: distance,
// the lead's own speed, and the lead's acceleration (spec §4.4's
// "perceived lead distance s, ... velocity vL, ... acceleration aL").
type LeadVehicle struct {
	Distance     float64
	Velocity     float64
	Acceleration float64
}

// LongitudinalInputs bundles everything the car-following model reads in one
// tick (spec §4.4). VehicleKind selects the speed-indexed accel/decel
// tables; Lead is nil when no leader exists within the visibility envelope.
type LongitudinalInputs struct {
	VehicleKind   string
	V             float64
	DesiredSpeed  float64
	MaxLaneSpeed  float64
	Lead          *LeadVehicle
	IsMandatory   bool // selects the MLC vs. DLC car-following coefficient row
	LeadDensity   float64

	HasSignal    bool
	DistSignal   float64
	SignalColor  SignalColor

	HasYieldLead bool
	YieldLead    LeadVehicle

	HasTargetGap bool
	TargetGapPos float64 // signed distance from own position to the gap's midpoint
}

// Accelerations holds every active constraint computed this tick (spec
// §4.4's "final acceleration = minimum of all active constraints"); any
// field left at math.Inf(1) was not active and is excluded from Combine.
type Accelerations struct {
	CarFollowing float64
	Signal       float64
	Yielding     float64
	StopPoint    float64
	TargetGap    float64
	FreeFlow     float64
}

// Combine returns the minimum of every active (non-+Inf) constraint.
func (a Accelerations) Combine() float64 {
	min := math.Inf(1)
	for _, v := range []float64{a.CarFollowing, a.Signal, a.Yielding, a.StopPoint, a.TargetGap, a.FreeFlow} {
		if v < min {
			min = v
		}
	}
	if math.IsInf(min, 1) {
		return 0
	}
	return min
}

// LongitudinalModel is the stateless MITSIM car-following evaluator; all
// per-driver mutable state (stop-point phase, reaction delay) lives outside
// it in perception.FixedDelayed and StopPointState.
type LongitudinalModel struct {
	params *ParameterManager
	rng    *randengine.Engine
}

func NewLongitudinalModel(params *ParameterManager, rng *randengine.Engine) *LongitudinalModel {
	return &LongitudinalModel{params: params, rng: rng}
}

// AccFree is the unconstrained free-flow acceleration rate (spec §4.4):
// MaxAccel below DesiredSpeed, 0 above it, and at exactly DesiredSpeed
// MaxAccel while below the lane's legal maximum, 0 otherwise.
func (m *LongitudinalModel) AccFree(in LongitudinalInputs) float64 {
	maxAcc := m.params.MaxAccel(in.VehicleKind, in.V)
	switch {
	case in.V < in.DesiredSpeed:
		return maxAcc
	case in.V > in.DesiredSpeed:
		return 0
	case in.V < in.MaxLaneSpeed:
		return maxAcc
	default:
		return 0
	}
}

// CarFollowing evaluates the headway-regime car-following rate (spec §4.4):
// emergency deceleration below hBufferLower, free/car-following mix above
// hBufferUpper, and the MITSIM log-linear rate in between.
func (m *LongitudinalModel) CarFollowing(in LongitudinalInputs, dt float64) float64 {
	if in.Lead == nil {
		return m.AccFree(in)
	}
	lead := in.Lead
	s := lead.Distance
	dv := in.V - lead.Velocity // positive = closing

	maxAcc := m.params.MaxAccel(in.VehicleKind, in.V)
	h := 2 * s / (in.V + (in.V + dt*maxAcc))

	switch {
	case h < m.params.HeadwayLower():
		return m.emergency(in.VehicleKind, in.V, lead)
	case h > m.params.HeadwayUpper():
		distToNormalStop := in.V * in.V / (2 * -m.params.NormalDecel(in.VehicleKind, in.V))
		if s >= distToNormalStop {
			return m.AccFree(in)
		}
		free := m.AccFree(in)
		cf := m.regimeRate(in, s, dv, lead.Acceleration)
		return (free + cf) / 2
	default:
		return m.regimeRate(in, s, dv, lead.Acceleration)
	}
}

// emergency applies the kinematic collision-avoidance rate, floored by the
// vehicle's max deceleration (spec §4.4's "Emergency rate").
func (m *LongitudinalModel) emergency(kind string, v float64, lead *LeadVehicle) float64 {
	dv := v - lead.Velocity
	a := lead.Acceleration - dv*dv/(2*lead.Distance)
	floor := m.params.MaxDecel(kind, v)
	if a < floor {
		return floor
	}
	return a
}

// regimeRate is the MITSIM log-linear car-following rate: a = α·v^β /
// s^γ · Δv^λ · density^ρ + N(0,σ). The accelerating/decelerating-lead and
// discretionary/mandatory rows are selected by GapModel row index, reusing
// the gap-model coefficient table as the car-following coefficient table
// (the same four-row shape the original MITSIM calibration uses for both).
func (m *LongitudinalModel) regimeRate(in LongitudinalInputs, s, dv, aL float64) float64 {
	row := GapDLCLead
	switch {
	case in.IsMandatory && dv >= 0:
		row = GapMLCLead
	case in.IsMandatory && dv < 0:
		row = GapMLCLag
	case dv < 0:
		row = GapDLCLag
	}
	c := m.params.GapModel(row)
	density := in.LeadDensity
	if density <= 0 {
		density = 1
	}
	absDv := math.Abs(dv)
	if absDv < 1e-6 {
		absDv = 1e-6
	}
	rate := c.B0 * math.Pow(math.Max(in.V, 1e-6), c.B1) / math.Pow(math.Max(s, 1e-6), c.B2) *
		math.Pow(absDv, c.B3) * math.Pow(density, c.B4)
	noise := 0.0
	if m.rng != nil {
		noise = m.rng.GaussSafe(0, c.Sigma)
	}
	return rate + noise
}

// SignalResponse computes the Signal constraint (spec §4.4). Returns
// +Inf when no signal is perceived or the color leaves it unconstrained.
func (m *LongitudinalModel) SignalResponse(in LongitudinalInputs, dt float64) float64 {
	if !in.HasSignal {
		return math.Inf(1)
	}
	switch in.SignalColor {
	case SignalRed:
		return BrakeToStop(in.DistSignal, in.V, dt)
	case SignalAmber:
		denom := math.Max(in.V, 0.5)
		if in.DistSignal/denom > m.params.YellowStopHdw() {
			return math.Inf(1)
		}
		return BrakeToStop(in.DistSignal, in.V, dt)
	default:
		return math.Inf(1)
	}
}

// BrakeToStop is the kinematic brake rate to stop exactly at distance d
// (spec §4.4, §4.1's brakeDistance helper): a = -v²/(2d). Once d has
// collapsed to (near) zero that formula blows up, so this falls back to
// -v/dt (original_source's MITSIM_CF_Model.cpp brakeToStop near-zero-distance
// branch) — the rate that brings the vehicle to exactly zero by the end of
// the current tick, always finite.
func BrakeToStop(d, v, dt float64) float64 {
	if d <= 1e-6 {
		if dt > 0 {
			return -v / dt
		}
		return 0
	}
	return -(v * v) / (2 * d)
}

// Yielding applies car-following against the target lane's leader when the
// driver's intended turn crosses that lane (spec §4.4's "Yielding").
func (m *LongitudinalModel) Yielding(in LongitudinalInputs, dt float64) float64 {
	if !in.HasYieldLead {
		return math.Inf(1)
	}
	yieldIn := in
	yieldIn.Lead = &in.YieldLead
	return m.CarFollowing(yieldIn, dt)
}

// TargetGapPullIn steers acceleration toward a chosen adjacent gap at a rate
// of 0.1·d² (d = signed distance remaining), signed toward the gap and
// bounded by MaxAccel/MaxDecel (spec §4.4's "Target-gap acceleration").
func (m *LongitudinalModel) TargetGapPullIn(in LongitudinalInputs) float64 {
	if !in.HasTargetGap {
		return math.Inf(1)
	}
	d := in.TargetGapPos
	maxAcc := m.params.MaxAccel(in.VehicleKind, in.V)
	maxDec := m.params.MaxDecel(in.VehicleKind, in.V)
	if d >= 0 {
		return math.Min(maxAcc, d*d*0.1)
	}
	return math.Max(maxDec, -d*d*0.1)
}

// Evaluate computes every active constraint for one tick and returns both
// the individual breakdown and its combined minimum.
func (m *LongitudinalModel) Evaluate(in LongitudinalInputs, dt float64, stopPointAccel float64, hasStopPoint bool) Accelerations {
	acc := Accelerations{
		CarFollowing: m.CarFollowing(in, dt),
		Signal:       m.SignalResponse(in, dt),
		Yielding:     m.Yielding(in, dt),
		TargetGap:    m.TargetGapPullIn(in),
		FreeFlow:     m.AccFree(in),
		StopPoint:    math.Inf(1),
	}
	if hasStopPoint {
		acc.StopPoint = stopPointAccel
	}
	return acc
}
