package bulk

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time         { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestStore() (*Store, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	s := NewStore()
	s.now = clock.Now
	return s, clock
}

func TestConfirmOnlyOnce(t *testing.T) {
	s, _ := newTestStore()
	a := s.Create(Action{Type: Ban, Targets: []string{"alice"}, InitiatorID: "u1"})
	if len(a.ID) != 8 {
		t.Errorf("len(ID) = %v, want %v", len(a.ID), 8)
	}

	got, err := s.Confirm(a.ID, "u1")
	if err != nil {
		t.Fatalf("Confirm() error: %v", err)
	}
	if !reflect.DeepEqual(got.Targets, []string{"alice"}) {
		t.Errorf("Targets = %v, want [alice]", got.Targets)
	}

	if _, err := s.Confirm(a.ID, "u1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Confirm() error = %v, want %v", err, ErrNotFound)
	}
}

func TestConfirmByOtherUserLeavesEntry(t *testing.T) {
	s, _ := newTestStore()
	a := s.Create(Action{Type: Kick, Targets: []string{"x"}, InitiatorID: "alice"})

	if _, err := s.Confirm(a.ID, "bob"); !errors.Is(err, ErrNotInitiator) {
		t.Fatalf("Confirm(bob) error = %v, want %v", err, ErrNotInitiator)
	}
	if err := s.Cancel(a.ID, "bob"); !errors.Is(err, ErrNotInitiator) {
		t.Fatalf("Cancel(bob) error = %v, want %v", err, ErrNotInitiator)
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %v, want %v", s.Len(), 1)
	}
	if _, err := s.Confirm(a.ID, "alice"); err != nil {
		t.Errorf("Confirm(alice) error = %v, want nil", err)
	}
}

func TestExpiry(t *testing.T) {
	s, clock := newTestStore()
	a := s.Create(Action{Type: Warn, Targets: []string{"x"}, InitiatorID: "u1"})

	clock.Advance(59 * time.Second)
	b := s.Create(Action{Type: Warn, Targets: []string{"y"}, InitiatorID: "u1"})
	if _, err := s.Confirm(a.ID, "u1"); err != nil {
		t.Fatalf("Confirm() at 59s error: %v", err)
	}

	clock.Advance(TTL)
	if _, err := s.Confirm(b.ID, "u1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Confirm() after expiry error = %v, want %v", err, ErrNotFound)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %v, want expired entry dropped", s.Len())
	}
}

func TestCancel(t *testing.T) {
	s, _ := newTestStore()
	a := s.Create(Action{Type: Unban, Targets: []string{"x"}, InitiatorID: "u1"})
	if err := s.Cancel(a.ID, "u1"); err != nil {
		t.Fatalf("Cancel() error: %v", err)
	}
	if _, err := s.Confirm(a.ID, "u1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Confirm() after Cancel error = %v, want %v", err, ErrNotFound)
	}
}

func TestCreateAvoidsTokenCollision(t *testing.T) {
	s, _ := newTestStore()
	ids := []string{"aaaaaaaa", "aaaaaaaa", "bbbbbbbb"}
	s.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}
	first := s.Create(Action{InitiatorID: "u"})
	second := s.Create(Action{InitiatorID: "u"})
	if first.ID == second.ID {
		t.Errorf("Create() reused token %q", first.ID)
	}
}

func TestParseTargets(t *testing.T) {
	got, err := ParseTargets(" alice, ,bob,")
	if err != nil {
		t.Fatalf("ParseTargets() error: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"alice", "bob"}) {
		t.Errorf("ParseTargets() = %v, want [alice bob]", got)
	}

	if _, err := ParseTargets(" , "); !errors.Is(err, ErrNoTargets) {
		t.Errorf("ParseTargets(blank) error = %v, want %v", err, ErrNoTargets)
	}

	many := make([]string, MaxTargets+1)
	for i := range many {
		many[i] = fmt.Sprintf("p%d", i)
	}
	if _, err := ParseTargets(strings.Join(many, ",")); !errors.Is(err, ErrTooManyTargets) {
		t.Errorf("ParseTargets(26) error = %v, want %v", err, ErrTooManyTargets)
	}
}

func TestParseButtonID(t *testing.T) {
	tests := []struct {
		id          string
		wantConfirm bool
		wantToken   string
		wantErr     bool
	}{
		{ConfirmID("ab12cd34"), true, "ab12cd34", false},
		{CancelID("ab12cd34"), false, "ab12cd34", false},
		{"bulk_confirm_", false, "", true},
		{"ticket_close_1", false, "", true},
	}
	for _, tt := range tests {
		confirm, token, err := ParseButtonID(tt.id)
		if (err != nil) != tt.wantErr || confirm != tt.wantConfirm || token != tt.wantToken {
			t.Errorf("ParseButtonID(%q) = %v, %q, %v", tt.id, confirm, token, err)
		}
	}
}

func TestTypeTitle(t *testing.T) {
	if got := PardonWarnings.Title(); got != "Pardon-warnings" {
		t.Errorf("Title() = %v, want %v", got, "Pardon-warnings")
	}
}
