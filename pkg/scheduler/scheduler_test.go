package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func noop(context.Context) error { return nil }

func TestScheduleRejectsBadInput(t *testing.T) {
	s := New()
	if err := s.Schedule("bad-spec", "not a cron", "UTC", noop); err == nil {
		t.Errorf("Schedule(bad spec) error = nil")
	}
	if err := s.Schedule("bad-tz", "0 6 * * *", "Mars/Olympus", noop); err == nil {
		t.Errorf("Schedule(bad timezone) error = nil")
	}
	if err := s.Every("too-fast", time.Millisecond, noop); err == nil {
		t.Errorf("Every(1ms) error = nil")
	}
	if len(s.List()) != 0 {
		t.Errorf("List() = %v, want empty", s.List())
	}
}

func TestScheduleReplacesByName(t *testing.T) {
	s := New()
	if err := s.Schedule("restart", "0 6 * * *", "", noop); err != nil {
		t.Fatalf("Schedule() error: %v", err)
	}
	if err := s.Schedule("restart", "30 5 * * *", "UTC", noop); err != nil {
		t.Fatalf("Schedule() error: %v", err)
	}
	if err := s.Every("staff-online", 30*time.Second, noop); err != nil {
		t.Fatalf("Every() error: %v", err)
	}

	list := s.List()
	if len(list) != 2 {
		t.Fatalf("len(List()) = %v, want %v", len(list), 2)
	}
	if list[0].Name != "restart" || list[0].Spec != "CRON_TZ=UTC 30 5 * * *" {
		t.Errorf("List()[0] = %+v", list[0])
	}

	if !s.Stop("restart") {
		t.Errorf("Stop(restart) = false, want true")
	}
	if s.Stop("restart") {
		t.Errorf("second Stop(restart) = true, want false")
	}
}

func TestNextUsesTimezone(t *testing.T) {
	s := New()
	if err := s.Schedule("report", "0 9 * * 1", "America/New_York", noop); err != nil {
		t.Fatalf("Schedule() error: %v", err)
	}
	s.Start()
	defer s.StopAll(context.Background())

	next := s.Next("report")
	if next.IsZero() {
		t.Fatalf("Next() is zero")
	}
	ny, _ := time.LoadLocation("America/New_York")
	local := next.In(ny)
	if local.Weekday() != time.Monday || local.Hour() != 9 {
		t.Errorf("Next() = %v, want Monday 09:00 New York", local)
	}
}

func TestWrapSurvivesErrorsAndPanics(t *testing.T) {
	s := New()
	var calls int32
	s.wrap("err", func(context.Context) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("boom")
	})()
	s.wrap("panic", func(context.Context) error {
		atomic.AddInt32(&calls, 1)
		panic("kaboom")
	})()
	if calls != 2 {
		t.Errorf("calls = %v, want %v", calls, 2)
	}
}

func TestRunNow(t *testing.T) {
	s := New()
	ran := make(chan struct{}, 1)
	if err := s.Every("job", time.Hour, func(context.Context) error {
		ran <- struct{}{}
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	if !s.RunNow("job") {
		t.Fatalf("RunNow(job) = false")
	}
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatalf("task did not run")
	}
	if s.RunNow("missing") {
		t.Errorf("RunNow(missing) = true")
	}
}
