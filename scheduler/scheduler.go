package scheduler

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/simmobility/st-core/clock"
	"github.com/simmobility/st-core/message"
	"github.com/simmobility/st-core/network"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("module", "scheduler")

// Worker is one unit of per-tick behavior update dispatched by the
// Scheduler's Update phase — typically a driver.Agent.FrameTick closure, a
// BusDriver dwell tick, or a Pedestrian step. Done returning true requests
// removal at the following Reap phase.
type Worker interface {
	Update(now float64, nowMs int64, dt float64)
	Done() bool
}

// Scheduler runs the fixed-granularity tick loop of spec §4.8: Dispatch,
// parallel Update, Flip, Deliver, Reap. The goroutine-fanout-over-a-worker-
// pool-with-a-barrier shape is grounded on the teacher's task/simulet.go
// prepare()/update() (sync.WaitGroup fan-out across personManager /
// laneManager / junctionManager / aoiManager); FlexiBarrier replaces the
// WaitGroup so the contributor count may shrink or grow between ticks as
// agents are added or Reaped.
type Scheduler struct {
	Clock   *clock.Clock
	Network *network.RoadNetwork
	Bus     *message.Bus

	workers  []Worker
	flippers []Flipper
	barrier  *FlexiBarrier

	Concurrency int
}

// Flipper is anything with double-buffered state that must publish its
// write-buffer before the next tick's reads (driver.Agent.FlipBuffers, or a
// Lane.Prepare call applying queued occupancy edits).
type Flipper interface {
	Flip()
}

// FlipperFunc adapts a plain func into a Flipper.
type FlipperFunc func()

func (f FlipperFunc) Flip() { f() }

// New constructs a Scheduler bound to clock c, network net and message bus
// bus. Concurrency defaults to GOMAXPROCS if not overridden.
func New(c *clock.Clock, net *network.RoadNetwork, bus *message.Bus) *Scheduler {
	return &Scheduler{
		Clock:       c,
		Network:     net,
		Bus:         bus,
		barrier:     NewFlexiBarrier(),
		Concurrency: runtime.GOMAXPROCS(0),
	}
}

// AddWorker registers w to be driven every tick until it reports Done.
func (s *Scheduler) AddWorker(w Worker) { s.workers = append(s.workers, w) }

// AddFlipper registers a buffer-flip hook to run in the Flip phase, after
// every Worker's Update has returned.
func (s *Scheduler) AddFlipper(f Flipper) { s.flippers = append(s.flippers, f) }

// AddLanes registers every lane in the network as a Flipper, via Lane.Prepare
// (spec §4.8 phase 2: occupancy edits queued during Update are applied here,
// so no driver ever observes a same-tick membership change mid-Update).
func (s *Scheduler) AddLanes() {
	for _, lane := range s.Network.Lanes {
		lane := lane
		s.AddFlipper(FlipperFunc(lane.Prepare))
	}
}

// Tick runs one full Dispatch→Update→Flip→Deliver→Reap cycle and advances
// the clock (spec §4.8).
func (s *Scheduler) Tick() {
	now := s.Clock.T
	nowMs := int64(now * 1000)
	dt := s.Clock.DT

	s.dispatch(now, nowMs, dt)
	s.flip()
	s.Bus.Deliver(s.Clock.Step)
	s.reap()

	s.Clock.Advance()
}

// Run ticks until ctx is cancelled or until limit ticks have elapsed (limit
// <= 0 means unbounded), logging a heartbeat every heartbeatEvery ticks —
// grounded on the teacher's Run() loop logging "[tick %d] elapsed=%s".
func (s *Scheduler) Run(ctx context.Context, limit int, heartbeatEvery int) {
	start := s.Clock.Step
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if s.Clock.Done() {
			return
		}
		tick := s.Clock.Step
		if limit > 0 && tick-start >= int32(limit) {
			return
		}
		begin := time.Now()
		s.Tick()
		if heartbeatEvery > 0 && tick%int32(heartbeatEvery) == 0 {
			log.Infof("tick=%d elapsed=%s workers=%d", tick, time.Since(begin), len(s.workers))
		}
	}
}

// dispatch fans the current Worker set across Concurrency goroutines,
// blocking until every worker's Update has returned (spec §4.8 phase 1:
// "workers read only from the read-buffer of every agent they touch").
func (s *Scheduler) dispatch(now float64, nowMs int64, dt float64) {
	n := len(s.workers)
	if n == 0 {
		return
	}
	workers := s.Concurrency
	if workers <= 0 || workers > n {
		workers = n
	}

	s.barrier.Contribute(n)
	jobs := make(chan Worker, n)
	for _, w := range s.workers {
		jobs <- w
	}
	close(jobs)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for w := range jobs {
				w.Update(now, nowMs, dt)
				s.barrier.Done()
			}
		}()
	}
	wg.Wait()
	s.barrier.Wait()
}

// flip runs every registered Flipper sequentially: agent buffer-flips are
// cheap pointer swaps and lane Prepare calls must not race each other's
// occupancy-list mutation, so this phase stays single-threaded rather than
// fanned out (spec §4.8 phase 3).
func (s *Scheduler) flip() {
	for _, f := range s.flippers {
		f.Flip()
	}
}

// reap drops every worker that reported Done from the worker set,
// compacting the slice in place (spec §4.8 phase 5). Lane occupancy lists
// are not touched here.
func (s *Scheduler) reap() {
	live := s.workers[:0]
	for _, w := range s.workers {
		if !w.Done() {
			live = append(live, w)
		}
	}
	s.workers = live
}
