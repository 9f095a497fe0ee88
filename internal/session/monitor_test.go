package session

import (
	"sort"
	"testing"
	"time"

	"gotest.tools/assert"
)

// fakeScheduler runs callbacks when the test advances its clock, so
// the 30-minute policy is exercised without waiting.
type fakeScheduler struct {
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	due     time.Time
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	t := &fakeTimer{due: s.now.Add(d), f: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) Advance(d time.Duration) {
	target := s.now.Add(d)
	for {
		var next *fakeTimer
		for _, t := range s.timers {
			if t.stopped || t.fired || t.due.After(target) {
				continue
			}
			if next == nil || t.due.Before(next.due) {
				next = t
			}
		}
		if next == nil {
			break
		}
		s.now = next.due
		next.fired = true
		next.f()
	}
	s.now = target

	sort.SliceStable(s.timers, func(i, j int) bool {
		return s.timers[i].due.Before(s.timers[j].due)
	})
}

func (s *fakeScheduler) pending() int {
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

var testConfig = Config{
	Timeout:     30 * time.Minute,
	WarningLead: 5 * time.Minute,
}

func TestIdleSessionWarnsThenLogsOut(t *testing.T) {
	sched := newFakeScheduler()
	warnings, logouts := 0, 0
	m := NewMonitor(testConfig, sched, func() { warnings++ }, func() { logouts++ })

	sched.Advance(24 * time.Minute)
	assert.Equal(t, 0, warnings)
	assert.Equal(t, StateActive, m.State())

	// Warning at the 25-minute mark.
	sched.Advance(time.Minute)
	assert.Equal(t, 1, warnings)
	assert.Equal(t, 0, logouts)
	assert.Equal(t, StateWarningShown, m.State())

	// Logout at the 30-minute mark.
	sched.Advance(5 * time.Minute)
	assert.Equal(t, 1, warnings)
	assert.Equal(t, 1, logouts)
	assert.Equal(t, StateLoggedOut, m.State())
}

func TestRegularActivityPreventsWarning(t *testing.T) {
	sched := newFakeScheduler()
	warnings, logouts := 0, 0
	m := NewMonitor(testConfig, sched, func() { warnings++ }, func() { logouts++ })

	// Activity every 10 minutes for 2 hours: nothing ever fires.
	for i := 0; i < 12; i++ {
		sched.Advance(10 * time.Minute)
		m.Activity()
	}

	assert.Equal(t, 0, warnings)
	assert.Equal(t, 0, logouts)
	assert.Equal(t, StateActive, m.State())
}

func TestActivityAfterWarningCancelsLogout(t *testing.T) {
	sched := newFakeScheduler()
	warnings, logouts := 0, 0
	m := NewMonitor(testConfig, sched, func() { warnings++ }, func() { logouts++ })

	sched.Advance(26 * time.Minute)
	assert.Equal(t, 1, warnings)
	assert.Equal(t, StateWarningShown, m.State())

	m.Activity()
	assert.Equal(t, StateActive, m.State())

	// The old logout timer is dead; the cycle restarts from scratch.
	sched.Advance(24 * time.Minute)
	assert.Equal(t, 1, warnings)
	assert.Equal(t, 0, logouts)

	sched.Advance(time.Minute)
	assert.Equal(t, 2, warnings)

	sched.Advance(5 * time.Minute)
	assert.Equal(t, 1, logouts)
	assert.Equal(t, StateLoggedOut, m.State())
}

func TestStaySignedInReturnsToActive(t *testing.T) {
	sched := newFakeScheduler()
	warnings, logouts := 0, 0
	m := NewMonitor(testConfig, sched, func() { warnings++ }, func() { logouts++ })

	sched.Advance(25 * time.Minute)
	assert.Equal(t, StateWarningShown, m.State())

	m.StaySignedIn()
	assert.Equal(t, StateActive, m.State())

	sched.Advance(25 * time.Minute)
	assert.Equal(t, 2, warnings)
	assert.Equal(t, 0, logouts)
}

func TestStopCancelsAllTimers(t *testing.T) {
	sched := newFakeScheduler()
	warnings, logouts := 0, 0
	m := NewMonitor(testConfig, sched, func() { warnings++ }, func() { logouts++ })

	m.Stop()
	assert.Equal(t, 0, sched.pending())

	sched.Advance(time.Hour)
	assert.Equal(t, 0, warnings)
	assert.Equal(t, 0, logouts)

	// Activity after teardown is a no-op and arms nothing.
	m.Activity()
	assert.Equal(t, 0, sched.pending())
}

func TestLogoutFiresOnlyOnce(t *testing.T) {
	sched := newFakeScheduler()
	logouts := 0
	m := NewMonitor(testConfig, sched, nil, func() { logouts++ })

	sched.Advance(time.Hour)
	assert.Equal(t, 1, logouts)

	m.Activity() // ignored after logout
	sched.Advance(time.Hour)
	assert.Equal(t, 1, logouts)
	assert.Equal(t, StateLoggedOut, m.State())
}
