// Package tracking drives the simulated live-location feed shown while an
// assigned worker travels to a job. A Session owns its own loop: ticks are
// strictly sequential, Stop is idempotent and no tick can land after Stop
// returns.
package tracking

import (
	"sync"
	"time"

	"worklink-api/geo"
)

const (
	// DefaultFraction of the remaining vector covered per tick,
	// matching the client's simulation speed.
	DefaultFraction = 0.05

	// DefaultInterval between ticks when a session runs on its own timer.
	DefaultInterval = 5 * time.Second
)

// Position is one emitted sample of the moving party.
type Position struct {
	Point      geo.Point `json:"point"`
	ETAMinutes int       `json:"eta_minutes"`
	Arrived    bool      `json:"arrived"`
}

// Session interpolates a worker's position toward a fixed destination.
type Session struct {
	mu       sync.Mutex
	current  geo.Point
	target   geo.Point
	fraction float64
	eta      int
	arrived  bool
	stopped  bool

	stopOnce sync.Once
	stop     chan struct{}
	loopDone chan struct{}
	running  bool
}

// estimateETA assumes roughly 30 km/h of travel, floored at one minute.
func estimateETA(origin, target geo.Point) int {
	eta := int(geo.DistanceKm(origin, target) * 2)
	if eta < 1 {
		eta = 1
	}
	return eta
}

// NewSession prepares a session without starting its timer; tests drive
// Tick directly.
func NewSession(origin, target geo.Point, fraction float64) *Session {
	if fraction <= 0 || fraction >= 1 {
		fraction = DefaultFraction
	}
	return &Session{
		current:  origin,
		target:   target,
		fraction: fraction,
		eta:      estimateETA(origin, target),
		stop:     make(chan struct{}),
		loopDone: make(chan struct{}),
	}
}

// Tick advances the position one interpolation step and returns the new
// sample. Once stopped or arrived it is a no-op returning the last sample.
func (s *Session) Tick() Position {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped || s.arrived {
		return s.positionLocked()
	}

	s.current = geo.InterpolateTowards(s.current, s.target, s.fraction)
	if geo.DistanceKm(s.current, s.target) < geo.ConvergenceEpsilonKm {
		s.current = s.target
		s.arrived = true
		s.eta = 0
	} else if s.eta > 1 {
		s.eta--
	}
	return s.positionLocked()
}

// Position returns the latest sample without advancing the simulation.
func (s *Session) Position() Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.positionLocked()
}

func (s *Session) positionLocked() Position {
	return Position{Point: s.current, ETAMinutes: s.eta, Arrived: s.arrived}
}

// Run starts the recurring timer loop. The loop exits on Stop or arrival.
func (s *Session) Run(interval time.Duration) {
	s.mu.Lock()
	if s.running || s.stopped {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	if interval <= 0 {
		interval = DefaultInterval
	}
	go func() {
		defer close(s.loopDone)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				if s.Tick().Arrived {
					return
				}
			}
		}
	}()
}

// Stop halts ticking. Idempotent. When the timer loop is running, Stop
// waits for it to exit so no tick is computed after Stop returns.
func (s *Session) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })

	s.mu.Lock()
	s.stopped = true
	running := s.running
	s.mu.Unlock()

	if running {
		<-s.loopDone
	}
}

// Manager keys live sessions by task id.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Start replaces any existing session for the task and begins ticking.
func (m *Manager) Start(taskID string, origin, target geo.Point, interval time.Duration) *Session {
	m.mu.Lock()
	prev := m.sessions[taskID]
	s := NewSession(origin, target, DefaultFraction)
	m.sessions[taskID] = s
	m.mu.Unlock()

	if prev != nil {
		prev.Stop()
	}
	s.Run(interval)
	return s
}

// Get returns the live session for a task, if any.
func (m *Manager) Get(taskID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[taskID]
	return s, ok
}

// Stop ends and removes the session for a task. Safe when none exists.
func (m *Manager) Stop(taskID string) {
	m.mu.Lock()
	s := m.sessions[taskID]
	delete(m.sessions, taskID)
	m.mu.Unlock()

	if s != nil {
		s.Stop()
	}
}
