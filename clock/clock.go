// Package clock implements the fixed-granularity tick clock that drives the
// Scheduler (spec §4.8): a monotonic step counter advanced by a fixed
// baseGranMs each tick, with no continuous-time integration anywhere in the
// core.
package clock

import "fmt"

// Clock tracks simulation time as an integer tick count times a fixed
// duration. Person-level and signal-level subsystems run every
// granPersonTicks/granSignalTicks ticks; callers check that themselves via
// Step()%N==0, since those granularities must evenly divide the run length.
// New does not check that; config.Validate rejects a configuration that
// breaks it, and DivisibleBy tests it for a given granularity.
type Clock struct {
	DT        float64 // seconds per tick (baseGranMs / 1000)
	StartStep int32
	EndStep   int32 // simulation runs over [StartStep, EndStep)

	T    float64 // current time in seconds
	Step int32   // current tick index
}

// New builds a Clock from the granularity and horizon configuration,
// returning a ConfigurationError if baseGranMs is non-positive.
func New(baseGranMs int, startStep, totalSteps int32) (*Clock, error) {
	if baseGranMs <= 0 {
		return nil, fmt.Errorf("clock: baseGranMs must be >= 1, got %d", baseGranMs)
	}
	c := &Clock{
		DT:        float64(baseGranMs) / 1000.0,
		StartStep: startStep,
		EndStep:   startStep + totalSteps,
	}
	c.Reset()
	return c, nil
}

// Reset rewinds the clock to its configured start step.
func (c *Clock) Reset() {
	c.Step = c.StartStep
	c.T = float64(c.Step) * c.DT
}

// Advance moves the clock forward by exactly one tick. Scheduler.Tick calls
// this once at the end of each tick, after Reap, so workers updating during
// the next tick observe the new time.
func (c *Clock) Advance() {
	c.Step++
	c.T = float64(c.Step) * c.DT
}

// Done reports whether the horizon configured at New has been reached.
func (c *Clock) Done() bool {
	return c.Step >= c.EndStep
}

// DivisibleBy reports whether a secondary granularity (granPersonTicks,
// granSignalTicks, granCommunicationTicks) evenly divides the run length,
// the condition spec §6 requires of those parameters.
func (c *Clock) DivisibleBy(gran int32) bool {
	if gran <= 0 {
		return false
	}
	return (c.EndStep-c.StartStep)%gran == 0
}

func (c *Clock) HourMinuteSecond() (hour, minute int, second float64) {
	hour = int(c.T) / 3600
	minute = int(c.T) % 3600 / 60
	second = c.T - float64(hour*3600+minute*60)
	return
}

func (c *Clock) String() string {
	h, m, s := c.HourMinuteSecond()
	return fmt.Sprintf("%02d:%02d:%02.0f", h, m, s)
}
