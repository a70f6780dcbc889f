// Package perception implements FixedDelayed[T] (spec §4.2): a fixed
// reaction-delay buffer standing in for a driver's perception lag. It is a
// direct Go-generics port of original_source's
// dev/Basic/shared/perception/FixedDelayed.hpp, restructured the way this
// repo's utils/container generics are (type parameter instead of a
// preprocessor-era template, a slice-backed ring instead of std::list).
package perception

// FixedDelayed holds a history of observed values and reports, at any
// simulated time, the most recent value old enough to have been perceived
// (spec §4.2's "perception delay" — a driver acts on what it saw DelayMS ago,
// not on the true current state). A zero DelayMs degenerates to "see
// everything instantly", matching the original's zero_delay() fast path.
type FixedDelayed[T any] struct {
	MaxDelayMs int64
	delayMs    int64

	currTime int64
	history  []histItem[T]

	zeroDelayValue T
	hasZeroDelay   bool
}

type histItem[T any] struct {
	value        T
	observedTime int64
}

// New constructs a FixedDelayed with the given maximum delay. The initial
// current delay equals maxDelayMs; call SetDelay to vary it (spec §4.2's
// "delay may vary up to MaxDelayMs to express reaction-time heterogeneity").
func New[T any](maxDelayMs int64) *FixedDelayed[T] {
	return &FixedDelayed[T]{MaxDelayMs: maxDelayMs, delayMs: maxDelayMs}
}

func (f *FixedDelayed[T]) zeroDelay() bool { return f.MaxDelayMs == 0 }

// Clear discards all buffered history.
func (f *FixedDelayed[T]) Clear() {
	f.history = f.history[:0]
	f.hasZeroDelay = false
}

// Update advances the buffer's notion of current time, discarding history
// older than MaxDelayMs. currTimeMs must be monotonically non-decreasing.
func (f *FixedDelayed[T]) Update(currTimeMs int64) {
	if f.zeroDelay() {
		return
	}
	if currTimeMs < f.currTime {
		panic("perception: FixedDelayed can't move backwards in time")
	}
	if currTimeMs == f.currTime {
		return
	}
	f.currTime = currTimeMs

	if f.currTime >= f.MaxDelayMs {
		minTime := currTimeMs - f.MaxDelayMs
		drop := 0
		for drop < len(f.history)-1 && f.history[drop].observedTime <= minTime && f.history[drop+1].observedTime <= minTime {
			drop++
		}
		f.history = f.history[drop:]
	}
	f.SetDelay(f.delayMs)
}

// SetDelay changes the current perception delay (must not exceed MaxDelayMs).
func (f *FixedDelayed[T]) SetDelay(delayMs int64) {
	if f.zeroDelay() {
		return
	}
	f.delayMs = delayMs
}

// Delay enqueues a newly observed value, timestamped at the buffer's current
// time.
func (f *FixedDelayed[T]) Delay(value T) {
	if f.zeroDelay() {
		f.zeroDelayValue = value
		f.hasZeroDelay = true
		return
	}
	f.history = append(f.history, histItem[T]{value: value, observedTime: f.currTime})
}

// Sense returns the most recent value old enough to have been perceived.
// Panics if CanSense is false — callers must check first, matching the
// original's "sensing too early is a programming error" contract.
func (f *FixedDelayed[T]) Sense() T {
	if f.zeroDelay() {
		if !f.hasZeroDelay {
			panic("perception: can't sense, no value observed yet")
		}
		return f.zeroDelayValue
	}
	idx, ok := f.frontIndex()
	if !ok {
		panic("perception: can't sense, not enough time has passed")
	}
	return f.history[idx].value
}

// CanSense reports whether Sense would succeed.
func (f *FixedDelayed[T]) CanSense() bool {
	if f.zeroDelay() {
		return f.hasZeroDelay
	}
	_, ok := f.frontIndex()
	return ok
}

// frontIndex finds the last history entry old enough to be sensed at the
// current time and delay, matching update_iterator's "advance while the next
// item is still observable" scan.
func (f *FixedDelayed[T]) frontIndex() (int, bool) {
	front := -1
	for i := range f.history {
		if f.history[i].observedTime+f.delayMs > f.currTime {
			break
		}
		front = i
	}
	if front < 0 {
		return 0, false
	}
	return front, true
}
