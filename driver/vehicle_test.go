package driver_test

import (
	"math"
	"testing"

	"github.com/simmobility/st-core/driver"
	"github.com/stretchr/testify/assert"
)

func TestIntegrateClampsToMaxSpeed(t *testing.T) {
	v := &driver.Vehicle{Speed: 19}
	d := v.Integrate(5, 1, 20)
	assert.Equal(t, 20.0, v.Speed)
	assert.Greater(t, d, 0.0)
}

func TestIntegrateFloorsAtZero(t *testing.T) {
	v := &driver.Vehicle{Speed: 1}
	v.Integrate(-10, 1, 20)
	assert.Equal(t, 0.0, v.Speed)
}

func TestActionUpdateTakesMinimum(t *testing.T) {
	a := driver.Action{A: 2}
	a.Update(driver.Action{A: -1}, driver.Action{A: 5})
	assert.Equal(t, -1.0, a.A)
}

func TestSetBrakeAccMatchesKinematicFormula(t *testing.T) {
	var a driver.Action
	a.SetBrakeAcc(10, 10, 0.5)
	assert.InDelta(t, -5, a.A, 1e-9)
}

func TestBusStopDwellTimeMatchesScenarioSix(t *testing.T) {
	dt := driver.BusStopDwellTime(driver.DefaultDwellCoefficients, 5, 3, false, false, 0)
	assert.InDelta(t, 18.2, dt, 0.01)
}

func TestDwellStateDepartsOnceTimeElapses(t *testing.T) {
	var s driver.BusDwellState
	s.Begin(2)
	assert.False(t, s.Tick(1))
	assert.True(t, s.Tick(1.5))
	assert.False(t, s.AtStop)
}

func TestSetBrakeAccHandlesZeroDistance(t *testing.T) {
	var a driver.Action
	a.SetBrakeAcc(0, 5, 0.5)
	assert.InDelta(t, -10, a.A, 1e-9)
	assert.False(t, math.IsInf(a.A, -1))
}
