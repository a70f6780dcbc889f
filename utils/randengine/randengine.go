// Package randengine wraps golang.org/x/exp/rand with the distributions the
// behavioral models need: discrete-weighted choice (lane-change side/target-
// gap logits), Bernoulli draws, and Gaussian noise (the N(0,sigma) terms in
// the MITSIM car-following and gap-acceptance formulas).
package randengine

import (
	"flag"
	"log"
	"sync"

	"golang.org/x/exp/rand"
)

var seedOffset = flag.Uint64("rand.seed_offset", 0, "offset added to every configured seed")

// Engine is a mutex-guarded random source. The *Safe methods are for
// concurrent callers (Scheduler workers drawing noise terms for different
// drivers in parallel); the bare methods assume single-threaded use, e.g.
// from a driver's own tick which the Scheduler already serializes per-agent.
type Engine struct {
	*rand.Rand
	mtx sync.Mutex
}

func New(seed uint64) *Engine {
	return &Engine{Rand: rand.New(rand.NewSource(seed + *seedOffset))}
}

// DiscreteDistribution draws an index in [0, len(weight)) with probability
// proportional to weight[i]. Nothing in this module calls it; the target-gap
// logit in behavior.SelectTargetGap draws with Float64Safe instead.
func (e *Engine) DiscreteDistribution(weight []float64) int32 {
	total := 0.0
	for _, w := range weight {
		total += w
	}
	draw := total * e.Float64()
	sum := 0.0
	for i, w := range weight {
		sum += w
		if sum > draw {
			return int32(i)
		}
	}
	log.Panicf("randengine: DiscreteDistribution: weights summed to %f but draw was %f", sum, draw)
	return -1
}

// PTrue returns true with probability p.
func (e *Engine) PTrue(p float64) bool {
	return e.Float64() < p
}

// Gauss draws N(mean, stddev). The MITSIM car-following rate and
// critical-gap noise terms use its GaussSafe variant; callers pass stddev=0
// to disable noise deterministically (still returns exactly mean).
func (e *Engine) Gauss(mean, stddev float64) float64 {
	if stddev == 0 {
		return mean
	}
	return mean + stddev*e.NormFloat64()
}

func (e *Engine) PTrueSafe(p float64) bool {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	return e.Float64() < p
}

func (e *Engine) IntnSafe(n int) int {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	return e.Intn(n)
}

func (e *Engine) Float64Safe() float64 {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	return e.Float64()
}

func (e *Engine) GaussSafe(mean, stddev float64) float64 {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	if stddev == 0 {
		return mean
	}
	return mean + stddev*e.NormFloat64()
}

func (e *Engine) DiscreteDistributionSafe(weight []float64) int32 {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	total := 0.0
	for _, w := range weight {
		total += w
	}
	draw := total * e.Float64()
	sum := 0.0
	for i, w := range weight {
		sum += w
		if sum > draw {
			return int32(i)
		}
	}
	return int32(len(weight))
}
