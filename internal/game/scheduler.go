package game

import (
	"sync"
	"time"

	"github.com/coder/quartz"
)

// scheduler owns the two cancelable delayed transitions a room can have in
// flight: the decision-reveal timer and the round-transition timer. Timers
// are keyed by room code and re-arming replaces any pending timer of the same
// kind. Fired callbacks run on the clock's goroutine and must re-validate
// room phase themselves; a stale timer racing a restart is expected.
type scheduler struct {
	mu         sync.Mutex
	clock      quartz.Clock
	reveal     map[string]*quartz.Timer
	transition map[string]*quartz.Timer
}

func newScheduler(clock quartz.Clock) *scheduler {
	return &scheduler{
		clock:      clock,
		reveal:     make(map[string]*quartz.Timer),
		transition: make(map[string]*quartz.Timer),
	}
}

func (s *scheduler) scheduleReveal(code string, delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.reveal[code]; ok {
		t.Stop()
	}
	s.reveal[code] = s.clock.AfterFunc(delay, fn)
}

func (s *scheduler) cancelReveal(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.reveal[code]; ok {
		t.Stop()
		delete(s.reveal, code)
	}
}

func (s *scheduler) scheduleTransition(code string, delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.transition[code]; ok {
		t.Stop()
	}
	s.transition[code] = s.clock.AfterFunc(delay, fn)
}

func (s *scheduler) cancelTransition(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.transition[code]; ok {
		t.Stop()
		delete(s.transition, code)
	}
}

func (s *scheduler) cancelAll(code string) {
	s.cancelReveal(code)
	s.cancelTransition(code)
}
