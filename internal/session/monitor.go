// Package session tracks per-client inactivity for an authenticated
// session: after a quiet period a warning is surfaced, and if the
// client stays quiet past the full timeout the session is logged out.
package session

import (
	"sync"
	"time"
)

type State int

const (
	StateActive State = iota
	StateWarningShown
	StateLoggedOut
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateWarningShown:
		return "warning_shown"
	case StateLoggedOut:
		return "logged_out"
	}
	return "unknown"
}

// Timer is a cancellable pending callback.
type Timer interface {
	Stop() bool
}

// Scheduler schedules a callback after a delay. The production
// implementation wraps time.AfterFunc; tests drive a manual fake so
// timing behavior is deterministic.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

func SystemScheduler() Scheduler { return realScheduler{} }

// Config carries the inactivity policy: Timeout is the full idle
// window, WarningLead how long before logout the warning appears.
type Config struct {
	Timeout     time.Duration
	WarningLead time.Duration
}

// Monitor is the inactivity state machine for one session. Two timers
// are armed at a time; any activity cancels and re-arms both, so a
// stale timer can never fire after a reset.
type Monitor struct {
	cfg       Config
	scheduler Scheduler
	onWarning func()
	onLogout  func()

	mu          sync.Mutex
	state       State
	warnTimer   Timer
	logoutTimer Timer
	generation  uint64
	stopped     bool
}

func NewMonitor(cfg Config, scheduler Scheduler, onWarning func(), onLogout func()) *Monitor {
	m := &Monitor{
		cfg:       cfg,
		scheduler: scheduler,
		onWarning: onWarning,
		onLogout:  onLogout,
		state:     StateActive,
	}
	m.mu.Lock()
	m.armLocked()
	m.mu.Unlock()
	return m
}

func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Activity records user activity: the session returns to Active and
// both timers restart. Ignored once logged out or stopped.
func (m *Monitor) Activity() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopped || m.state == StateLoggedOut {
		return
	}
	m.state = StateActive
	m.armLocked()
}

// StaySignedIn acknowledges the warning and re-arms both timers without
// touching any other state.
func (m *Monitor) StaySignedIn() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopped || m.state != StateWarningShown {
		return
	}
	m.state = StateActive
	m.armLocked()
}

// Stop tears the monitor down, cancelling pending timers. Safe to call
// more than once.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
	m.cancelLocked()
}

func (m *Monitor) armLocked() {
	m.cancelLocked()
	m.generation++
	gen := m.generation

	m.warnTimer = m.scheduler.AfterFunc(m.cfg.Timeout-m.cfg.WarningLead, func() {
		m.fireWarning(gen)
	})
	m.logoutTimer = m.scheduler.AfterFunc(m.cfg.Timeout, func() {
		m.fireLogout(gen)
	})
}

func (m *Monitor) cancelLocked() {
	if m.warnTimer != nil {
		m.warnTimer.Stop()
		m.warnTimer = nil
	}
	if m.logoutTimer != nil {
		m.logoutTimer.Stop()
		m.logoutTimer = nil
	}
}

func (m *Monitor) fireWarning(gen uint64) {
	m.mu.Lock()
	// Generation guards against a timer that was already scheduled to
	// run when a reset raced its Stop.
	if m.stopped || gen != m.generation || m.state != StateActive {
		m.mu.Unlock()
		return
	}
	m.state = StateWarningShown
	cb := m.onWarning
	m.mu.Unlock()

	if cb != nil {
		cb()
	}
}

func (m *Monitor) fireLogout(gen uint64) {
	m.mu.Lock()
	if m.stopped || gen != m.generation || m.state == StateLoggedOut {
		m.mu.Unlock()
		return
	}
	m.state = StateLoggedOut
	m.cancelLocked()
	cb := m.onLogout
	m.mu.Unlock()

	if cb != nil {
		cb()
	}
}
