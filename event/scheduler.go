// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package event implements a cycle scheduler that executes zero-duration
// callbacks at future clock ticks.
//
// Each tick is split into two phases, PHI1 and PHI2. Internally the
// scheduler counts half ticks: even times are PHI1, odd times are PHI2.
// Events due at the same time fire in the order they were scheduled.
package event

import "math"

// Phase selects one half of a clock tick.
type Phase byte

// Clock phases. PHI1 precedes PHI2 within a tick.
const (
	PHI1 Phase = iota
	PHI2
)

func (p Phase) String() string {
	if p == PHI1 {
		return "PHI1"
	}
	return "PHI2"
}

// An Event is a named callback that may be scheduled to fire at a future
// time. An event is pending in at most one scheduler at a time.
type Event struct {
	name    string
	fn      func()
	trigger int64
	next    *Event
	pending bool
}

// New creates an event that calls fn when it fires.
func New(name string, fn func()) *Event {
	return &Event{name: name, fn: fn}
}

// Name returns the event's descriptive name.
func (e *Event) Name() string {
	return e.name
}

// A Scheduler keeps a time-ordered queue of pending events.
type Scheduler struct {
	now   int64
	first Event
	last  Event
}

// NewScheduler creates a new scheduler whose time starts at zero.
func NewScheduler() *Scheduler {
	s := &Scheduler{}
	s.first.name = "root"
	s.first.trigger = math.MinInt64
	s.last.name = "tail"
	s.last.trigger = math.MaxInt64
	s.Reset()
	return s
}

// Reset discards all pending events and rewinds time to zero.
func (s *Scheduler) Reset() {
	for e := s.first.next; e != nil && e != &s.last; {
		next := e.next
		e.next, e.pending = nil, false
		e = next
	}
	s.now = 0
	s.first.next = &s.last
}

// Schedule arranges for the event to fire the requested number of ticks
// from now, in the current phase.
func (s *Scheduler) Schedule(e *Event, cycles int64) {
	s.insert(e, (cycles<<1)+s.now)
}

// ScheduleInPhase arranges for the event to fire the requested number of
// ticks from now, in the requested phase. If the requested phase has
// already passed in the current tick, the event fires in the next tick's
// instance of that phase.
func (s *Scheduler) ScheduleInPhase(e *Event, cycles int64, phase Phase) {
	var adjust int64
	if phase == PHI2 {
		adjust = 1
	}
	s.insert(e, (cycles<<1)+s.now+((s.now&1)^adjust))
}

// ScheduleAbsolute arranges for the event to fire at an absolute tick in
// the requested phase.
func (s *Scheduler) ScheduleAbsolute(e *Event, tick int64, phase Phase) {
	t := tick << 1
	if phase == PHI2 {
		t++
	}
	s.insert(e, t)
}

func (s *Scheduler) insert(e *Event, trigger int64) {
	if e.pending {
		s.Cancel(e)
	}
	e.trigger = trigger
	e.pending = true

	// Insert after all events with an equal or earlier trigger time.
	scan := &s.first
	for scan.next.trigger <= trigger {
		scan = scan.next
	}
	e.next = scan.next
	scan.next = e
}

// Cancel removes a pending event from the queue. It returns false if the
// event was not pending.
func (s *Scheduler) Cancel(e *Event) bool {
	if !e.pending {
		return false
	}
	for prev := &s.first; prev.next != &s.last; prev = prev.next {
		if prev.next == e {
			prev.next = e.next
			e.next, e.pending = nil, false
			return true
		}
	}
	return false
}

// IsPending returns true if the event is waiting in the queue.
func (s *Scheduler) IsPending(e *Event) bool {
	return e.pending
}

// Clock advances time to the next pending event and fires it. It returns
// false if there were no events to fire.
func (s *Scheduler) Clock() bool {
	e := s.first.next
	if e == &s.last {
		return false
	}
	s.first.next = e.next
	e.next, e.pending = nil, false
	s.now = e.trigger
	e.fn()
	return true
}

// RunUntil fires every event due at or before the requested tick. Time is
// left at the requested tick's PHI2 phase.
func (s *Scheduler) RunUntil(tick int64) {
	limit := tick<<1 + 1
	for s.first.next.trigger <= limit {
		s.Clock()
	}
	if s.now < limit {
		s.now = limit
	}
}

// Time returns the current tick as seen from the requested phase.
func (s *Scheduler) Time(phase Phase) int64 {
	if phase == PHI1 {
		return (s.now + 1) >> 1
	}
	return s.now >> 1
}

// Phase returns the phase of the current time.
func (s *Scheduler) Phase() Phase {
	if s.now&1 == 0 {
		return PHI1
	}
	return PHI2
}

// Next returns the trigger tick and phase of the next pending event. The
// ok result is false if nothing is pending.
func (s *Scheduler) Next() (tick int64, phase Phase, ok bool) {
	e := s.first.next
	if e == &s.last {
		return 0, PHI1, false
	}
	return e.trigger >> 1, Phase(e.trigger & 1), true
}
