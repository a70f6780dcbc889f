package behavior_test

import (
	"math"
	"testing"

	"github.com/simmobility/st-core/behavior"
	"github.com/simmobility/st-core/utils/config"
	"github.com/simmobility/st-core/utils/randengine"
	"github.com/stretchr/testify/assert"
)

func testParams() *behavior.ParameterManager {
	cfg := config.Behavioral{
		VehicleTypes: map[string]config.VehicleTypeParams{
			"car": {
				MaxAccel:    [5]float64{2, 2, 2, 2, 2},
				NormalDecel: [5]float64{-2, -2, -2, -2, -2},
				MaxDecel:    [5]float64{-6, -6, -6, -6, -6},
			},
		},
		GapModels: [8]config.GapModelRow{
			behavior.GapDLCLead: {Scale: 1, B0: 1, B1: 0, B2: 0, B3: 0, B4: 0},
		},
	}
	return behavior.NewParameterManager(cfg)
}

func TestAccFreePushesTowardDesiredSpeed(t *testing.T) {
	m := behavior.NewLongitudinalModel(testParams(), nil)
	a := m.AccFree(behavior.LongitudinalInputs{VehicleKind: "car", V: 5, DesiredSpeed: 15, MaxLaneSpeed: 20})
	assert.Equal(t, 2.0, a)
}

func TestAccFreeKeepsMaxAccelAtDesiredSpeedBelowLaneMax(t *testing.T) {
	m := behavior.NewLongitudinalModel(testParams(), nil)
	a := m.AccFree(behavior.LongitudinalInputs{VehicleKind: "car", V: 15, DesiredSpeed: 15, MaxLaneSpeed: 20})
	assert.Equal(t, 2.0, a)
}

func TestEmergencyRateFlooredByMaxDecel(t *testing.T) {
	m := behavior.NewLongitudinalModel(testParams(), nil)
	a := m.CarFollowing(behavior.LongitudinalInputs{
		VehicleKind: "car", V: 20, DesiredSpeed: 20, MaxLaneSpeed: 20,
		Lead: &behavior.LeadVehicle{Distance: 1, Velocity: 0, Acceleration: 0},
	}, 0.5)
	assert.Equal(t, -6.0, a)
}

func TestBrakeToStopReachesZeroAtDistance(t *testing.T) {
	a := behavior.BrakeToStop(10, 10, 0.5)
	assert.InDelta(t, -5, a, 1e-9)
}

func TestBrakeToStopIsBoundedAtZeroDistance(t *testing.T) {
	a := behavior.BrakeToStop(0, 10, 0.5)
	assert.InDelta(t, -20, a, 1e-9)
	assert.False(t, math.IsInf(a, -1))
}

func TestSignalResponseUnconstrainedWhenGreen(t *testing.T) {
	m := behavior.NewLongitudinalModel(testParams(), nil)
	a := m.SignalResponse(behavior.LongitudinalInputs{HasSignal: true, SignalColor: behavior.SignalGreen, DistSignal: 5, V: 10}, 0.5)
	assert.True(t, math.IsInf(a, 1))
}

func TestSignalResponseBrakesWhenRed(t *testing.T) {
	m := behavior.NewLongitudinalModel(testParams(), nil)
	a := m.SignalResponse(behavior.LongitudinalInputs{HasSignal: true, SignalColor: behavior.SignalRed, DistSignal: 10, V: 10}, 0.5)
	assert.InDelta(t, -5, a, 1e-9)
}

func TestAccelerationsCombineTakesMinimum(t *testing.T) {
	acc := behavior.Accelerations{
		CarFollowing: 2,
		Signal:       math.Inf(1),
		Yielding:     math.Inf(1),
		StopPoint:    -3,
		TargetGap:    math.Inf(1),
		FreeFlow:     1,
	}
	assert.Equal(t, -3.0, acc.Combine())
}

func TestCombineReturnsZeroWhenNothingActive(t *testing.T) {
	acc := behavior.Accelerations{
		CarFollowing: math.Inf(1), Signal: math.Inf(1), Yielding: math.Inf(1),
		StopPoint: math.Inf(1), TargetGap: math.Inf(1), FreeFlow: math.Inf(1),
	}
	assert.Equal(t, 0.0, acc.Combine())
}

func TestGaussNoiseIsDeterministicGivenSeed(t *testing.T) {
	in := behavior.LongitudinalInputs{
		VehicleKind: "car", V: 10, DesiredSpeed: 20, MaxLaneSpeed: 20,
		Lead: &behavior.LeadVehicle{Distance: 30, Velocity: 9, Acceleration: 0},
	}
	m1 := behavior.NewLongitudinalModel(testParams(), randengine.New(1))
	m2 := behavior.NewLongitudinalModel(testParams(), randengine.New(1))
	a1 := m1.CarFollowing(in, 0.5)
	a2 := m2.CarFollowing(in, 0.5)
	assert.False(t, math.IsNaN(a1))
	assert.Equal(t, a1, a2)
}
