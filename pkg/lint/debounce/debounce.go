// Package debounce coalesces bursts of work per key.
//
// Each key has at most one pending timer. Scheduling again before the delay
// elapses cancels the pending timer and restarts the delay, so a burst of
// notifications for one document results in a single run with the function
// of the last notification. Runs for the same key never overlap, and a run
// that was overtaken by a newer one for its key is dropped.
package debounce

import (
	"sync"
	"time"
)

// Scheduler runs functions after a quiet period, keyed by an arbitrary
// string such as a document path.
type Scheduler struct {
	delay time.Duration

	mu      sync.Mutex
	keys    map[string]*keyState
	gen     uint64
	stopped bool
	wg      sync.WaitGroup
}

type keyState struct {
	// pending timer and its generation; timer is nil when nothing is pending
	timer *time.Timer
	gen   uint64

	// run serializes executions; lastRun is the generation of the newest
	// execution that started
	run     sync.Mutex
	lastRun uint64

	// active counts fired runs that have not returned, guarded by
	// Scheduler.mu
	active int
}

// NewScheduler creates a scheduler with the given quiet period.
func NewScheduler(delay time.Duration) *Scheduler {
	return &Scheduler{
		delay: delay,
		keys:  make(map[string]*keyState),
	}
}

// Schedule arranges for fn to run once the delay has elapsed without another
// Schedule call for key. It reports whether a pending run was replaced.
// Schedule is a no-op after Stop.
func (s *Scheduler) Schedule(key string, fn func()) (replaced bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return false
	}

	ks, ok := s.keys[key]
	if !ok {
		ks = &keyState{}
		s.keys[key] = ks
	}
	if ks.timer != nil {
		// a timer that already fired sees the generation change and bails
		ks.timer.Stop()
		replaced = true
	}

	s.gen++
	gen := s.gen
	ks.gen = gen
	ks.timer = time.AfterFunc(s.delay, func() {
		s.fire(key, ks, gen, fn)
	})
	return replaced
}

func (s *Scheduler) fire(key string, ks *keyState, gen uint64, fn func()) {
	s.mu.Lock()
	if s.stopped || ks.gen != gen || s.keys[key] != ks {
		s.mu.Unlock()
		return
	}
	ks.timer = nil
	ks.active++
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()
	defer s.release(key, ks)

	ks.run.Lock()
	defer ks.run.Unlock()
	if gen < ks.lastRun {
		return
	}
	ks.lastRun = gen
	fn()
}

// release ends a fired run and forgets key once nothing is pending or
// running for it.
func (s *Scheduler) release(key string, ks *keyState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ks.active--
	s.forget(key, ks)
}

// forget removes an idle key. s.mu must be held.
func (s *Scheduler) forget(key string, ks *keyState) {
	if ks.timer == nil && ks.active == 0 && s.keys[key] == ks {
		delete(s.keys, key)
	}
}

// Cancel drops the pending run for key, if any. A run already executing is
// not interrupted.
func (s *Scheduler) Cancel(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ks, ok := s.keys[key]
	if !ok || ks.timer == nil {
		return false
	}
	ks.timer.Stop()
	ks.timer = nil
	ks.gen = 0
	s.forget(key, ks)
	return true
}

// Pending returns the number of keys with a run waiting for its delay.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, ks := range s.keys {
		if ks.timer != nil {
			n++
		}
	}
	return n
}

// Stop cancels every pending run and waits for executing runs to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	for key, ks := range s.keys {
		if ks.timer != nil {
			ks.timer.Stop()
			ks.timer = nil
		}
		delete(s.keys, key)
	}
	s.mu.Unlock()

	s.wg.Wait()
}
