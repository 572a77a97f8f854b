package event_test

import (
	"testing"

	"github.com/beevik/go1541/event"
)

func expectOrder(t *testing.T, got, exp []string) {
	t.Helper()
	if len(got) != len(exp) {
		t.Errorf("Order incorrect. exp: %v, got: %v", exp, got)
		return
	}
	for i := range got {
		if got[i] != exp[i] {
			t.Errorf("Order incorrect. exp: %v, got: %v", exp, got)
			return
		}
	}
}

func expectTime(t *testing.T, s *event.Scheduler, phase event.Phase, tick int64) {
	t.Helper()
	if got := s.Time(phase); got != tick {
		t.Errorf("Time(%v) incorrect. exp: %d, got: %d", phase, tick, got)
	}
}

func TestPhaseOrdering(t *testing.T) {
	s := event.NewScheduler()

	var fired []string
	record := func(name string) *event.Event {
		return event.New(name, func() { fired = append(fired, name) })
	}

	a := record("a")
	b := record("b")
	c := record("c")
	d := record("d")

	s.ScheduleInPhase(a, 1, event.PHI2)
	s.ScheduleInPhase(b, 1, event.PHI1)
	s.ScheduleInPhase(c, 0, event.PHI2)
	s.ScheduleInPhase(d, 1, event.PHI1)

	for s.Clock() {
	}
	expectOrder(t, fired, []string{"c", "b", "d", "a"})
	expectTime(t, s, event.PHI2, 1)
}

func TestSameTimeFIFO(t *testing.T) {
	s := event.NewScheduler()

	var fired []string
	for _, name := range []string{"w", "x", "y", "z"} {
		name := name
		s.ScheduleAbsolute(event.New(name, func() { fired = append(fired, name) }), 5, event.PHI1)
	}

	s.RunUntil(5)
	expectOrder(t, fired, []string{"w", "x", "y", "z"})
}

func TestCancelAndReschedule(t *testing.T) {
	s := event.NewScheduler()

	count := 0
	e := event.New("e", func() { count++ })

	s.Schedule(e, 10)
	if !s.IsPending(e) {
		t.Error("Event should be pending.")
	}
	if !s.Cancel(e) {
		t.Error("Cancel should report a pending event.")
	}
	if s.Cancel(e) {
		t.Error("Cancel should not report an idle event.")
	}

	// Scheduling twice moves the event rather than duplicating it.
	s.Schedule(e, 3)
	s.Schedule(e, 4)
	s.RunUntil(100)
	if count != 1 {
		t.Errorf("Fire count incorrect. exp: 1, got: %d", count)
	}
}

func TestSchedulePhaseWrap(t *testing.T) {
	s := event.NewScheduler()

	var at int64
	var phase event.Phase
	probe := event.New("probe", func() {
		at, phase = s.Time(event.PHI2), s.Phase()
	})

	// From PHI2 of tick 2, a PHI1 event 0 ticks away lands in tick 3.
	s.ScheduleAbsolute(event.New("move", func() {
		s.ScheduleInPhase(probe, 0, event.PHI1)
	}), 2, event.PHI2)

	s.RunUntil(10)
	if at != 3 || phase != event.PHI1 {
		t.Errorf("Probe incorrect. exp: 3/PHI1, got: %d/%v", at, phase)
	}
}

func TestRecurringEvent(t *testing.T) {
	s := event.NewScheduler()

	ticks := 0
	var e *event.Event
	e = event.New("tick", func() {
		ticks++
		s.Schedule(e, 1)
	})
	s.ScheduleInPhase(e, 0, event.PHI2)

	s.RunUntil(99)
	if ticks != 100 {
		t.Errorf("Tick count incorrect. exp: 100, got: %d", ticks)
	}
	expectTime(t, s, event.PHI2, 99)

	next, phase, ok := s.Next()
	if !ok || next != 100 || phase != event.PHI2 {
		t.Errorf("Next incorrect. exp: 100/PHI2, got: %d/%v", next, phase)
	}
}
