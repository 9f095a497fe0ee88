package session

import "sync"

// Tracker owns one Monitor per authenticated user. Touch is called for
// every authenticated request; reads through State do not count as
// activity, so a polled warning stays visible until the client acts on
// it. A monitor that logs out removes itself, and the next Touch starts
// a fresh session.
type Tracker struct {
	cfg       Config
	scheduler Scheduler

	mu       sync.Mutex
	monitors map[string]*Monitor
}

func NewTracker(cfg Config, scheduler Scheduler) *Tracker {
	return &Tracker{
		cfg:       cfg,
		scheduler: scheduler,
		monitors:  make(map[string]*Monitor),
	}
}

// Touch records activity for the user, creating a monitor on first use.
func (t *Tracker) Touch(userID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if m, ok := t.monitors[userID]; ok {
		m.Activity()
		return
	}
	t.monitors[userID] = NewMonitor(t.cfg, t.scheduler, nil, func() {
		t.remove(userID)
	})
}

// State reports the user's session state. The second return is false
// when no monitor exists, which a caller should read as a fresh session.
func (t *Tracker) State(userID string) (State, bool) {
	t.mu.Lock()
	m, ok := t.monitors[userID]
	t.mu.Unlock()
	if !ok {
		return StateActive, false
	}
	return m.State(), true
}

// StaySignedIn acknowledges a shown warning for the user.
func (t *Tracker) StaySignedIn(userID string) {
	t.mu.Lock()
	m, ok := t.monitors[userID]
	t.mu.Unlock()
	if ok {
		m.StaySignedIn()
	}
}

// End stops and discards the user's monitor.
func (t *Tracker) End(userID string) {
	t.mu.Lock()
	m, ok := t.monitors[userID]
	delete(t.monitors, userID)
	t.mu.Unlock()
	if ok {
		m.Stop()
	}
}

func (t *Tracker) remove(userID string) {
	t.mu.Lock()
	delete(t.monitors, userID)
	t.mu.Unlock()
}
