package intersection

import (
	"math"

	"github.com/samber/lo"
	"github.com/simmobility/st-core/network"
)

// TurnSpeedCap bounds a driver's speed inside the intersection by the
// sharpness of the turning path's curvature (spec §4.6 step 5). It samples
// the path's polyline direction change per meter around s and applies a
// standard lateral-acceleration-limited curve-speed formula: v = sqrt(a_lat
// / curvature), capped at the lane's own MaxSpeed.
func TurnSpeedCap(lane *network.Lane, s, maxLateralAccel float64) float64 {
	curvature := curvatureAt(lane, s)
	if curvature <= 1e-6 {
		return lane.MaxSpeed
	}
	v := math.Sqrt(maxLateralAccel / curvature)
	return lo.Clamp(v, 0, lane.MaxSpeed)
}

// curvatureAt estimates 1/radius at s from the direction change between the
// polyline edges bracketing s, matching how a turning-path Lane's
// PolylineDirections already give us what we need without re-differencing
// raw points.
func curvatureAt(lane *network.Lane, s float64) float64 {
	dirs := lane.PolylineDirections
	lens := lane.PolylineLengths
	if len(dirs) < 2 || len(lens) < 2 {
		return 0
	}
	i := 0
	for i < len(lens)-1 && lens[i+1] < s {
		i++
	}
	if i+1 >= len(dirs) {
		return 0
	}
	segLen := lens[i+1] - lens[i]
	if segLen <= 1e-6 {
		return 0
	}
	dTheta := angleDiff(dirs[i+1].Direction, dirs[i].Direction)
	return math.Abs(dTheta) / segLen
}

func angleDiff(a, b float64) float64 {
	d := a - b
	for d > math.Pi {
		d -= 2 * math.Pi
	}
	for d < -math.Pi {
		d += 2 * math.Pi
	}
	return d
}

// DefaultMaxLateralAccel is the comfort-limited lateral acceleration used
// when a deployment doesn't configure one (≈0.3g).
const DefaultMaxLateralAccel = 3.0
