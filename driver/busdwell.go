package driver

import "math"

// DwellCoefficients are the calibration constants in spec §8 scenario 6's
// dwell-time formula (DT = beta1 + max(PTfront, PTrear) + beta2*bayFlag +
// beta3*fullFlag, PT = alpha*Pfront*A + alpha2*B + alpha3*crowdedness*B).
// Canonical values per spec §8: alpha=3.5, alpha4=1.0, beta1=0.7, beta2=0.7,
// beta3=5.0.
type DwellCoefficients struct {
	Alpha   float64 // per-front-boarder processing time
	Alpha2  float64 // unused second boarding term, kept for parity with the original's PT formula shape
	Alpha3  float64 // crowding penalty per alighter
	Alpha4  float64 // per-rear-alighter processing time
	Beta1   float64 // fixed door-cycle time
	Beta2   float64 // bay-stop penalty
	Beta3   float64 // full-bus penalty
}

// DefaultDwellCoefficients are spec §8 scenario 6's canonical values.
var DefaultDwellCoefficients = DwellCoefficients{Alpha: 3.5, Alpha4: 1.0, Beta1: 0.7, Beta2: 0.7, Beta3: 5.0}

// BusStopDwellTime computes spec §4.7/§8's bus dwell-time formula for one
// stop visit: boarding count front, alighting count rear, whether the stop
// has a bay, and whether the bus is already at capacity.
func BusStopDwellTime(c DwellCoefficients, boarders, alighters int, bayFlag, fullFlag bool, crowdedness float64) float64 {
	ptFront := c.Alpha * float64(boarders)
	ptRear := c.Alpha4 * float64(alighters)
	if crowdedness > 0 {
		ptRear += c.Alpha3 * crowdedness * float64(alighters)
	}
	dt := c.Beta1 + math.Max(ptFront, ptRear)
	if bayFlag {
		dt += c.Beta2
	}
	if fullFlag {
		dt += c.Beta3
	}
	return dt
}

// BusDwellState tracks a BusDriver's current stop-dwell phase (spec §4.7's
// "during which the vehicle is removed from the roadway lane and enters
// the BusStopAgent's queue").
type BusDwellState struct {
	AtStop    bool
	Remaining float64
}

// Begin enters the dwell phase for dwellSeconds.
func (s *BusDwellState) Begin(dwellSeconds float64) {
	s.AtStop = true
	s.Remaining = dwellSeconds
}

// Tick advances the dwell countdown by dt, returning true once the dwell
// completes and the bus should re-enter the roadway lane.
func (s *BusDwellState) Tick(dt float64) (departed bool) {
	if !s.AtStop {
		return false
	}
	s.Remaining -= dt
	if s.Remaining <= 0 {
		s.AtStop = false
		s.Remaining = 0
		return true
	}
	return false
}
