package cooldown

import (
	"testing"
	"time"
)

func TestTry(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	s := New(30 * time.Second)
	s.now = func() time.Time { return now }
	k := Key{GuildID: "g", UserID: "u"}

	if _, ok := s.Try(k); !ok {
		t.Fatalf("first Try() = false, want true")
	}

	now = now.Add(10 * time.Second)
	left, ok := s.Try(k)
	if ok {
		t.Fatalf("Try() during cooldown = true, want false")
	}
	if left != 20*time.Second {
		t.Errorf("left = %v, want %v", left, 20*time.Second)
	}

	other := Key{GuildID: "g", UserID: "v"}
	if _, ok := s.Try(other); !ok {
		t.Errorf("Try() for another user = false, want true")
	}

	now = now.Add(20 * time.Second)
	if _, ok := s.Try(k); !ok {
		t.Errorf("Try() after window = false, want true")
	}
}

func TestResetAndSweep(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	s := New(30 * time.Second)
	s.now = func() time.Time { return now }

	a := Key{GuildID: "g", UserID: "a"}
	b := Key{GuildID: "g", UserID: "b"}
	s.Try(a)
	s.Reset(a)
	if _, ok := s.Try(a); !ok {
		t.Errorf("Try() after Reset = false, want true")
	}

	now = now.Add(20 * time.Second)
	s.Try(b)
	now = now.Add(15 * time.Second)

	if n := s.Sweep(); n != 1 {
		t.Errorf("Sweep() = %v, want %v", n, 1)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %v, want %v", s.Len(), 1)
	}
}
