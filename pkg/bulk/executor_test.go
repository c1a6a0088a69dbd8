package bulk

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/NewLifeSMP/NewLifeBotGo/pkg/models"
)

type fakeRCON struct {
	mu        sync.Mutex
	responses map[string]string
	fail      map[string]error
	sent      []string
}

func (f *fakeRCON) Execute(_ context.Context, command string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, command)
	if err := f.fail[command]; err != nil {
		return "", err
	}
	return f.responses[command], nil
}

type fakeCounter struct{ n int64 }

func (c *fakeCounter) Next(context.Context) (int64, error) {
	c.n++
	return c.n, nil
}

type fakeWarnings struct {
	inserted []models.Warning
	pardoned map[string]int64
}

func (f *fakeWarnings) Insert(_ context.Context, w *models.Warning) error {
	f.inserted = append(f.inserted, *w)
	return nil
}

func (f *fakeWarnings) PardonAllForPlayer(_ context.Context, name, _ string, _ time.Time) (int64, error) {
	if n, ok := f.pardoned[name]; ok {
		return n, nil
	}
	return 0, errors.New("db down")
}

type fakeBans struct {
	inserted    []models.Ban
	deactivated []string
}

func (f *fakeBans) Insert(_ context.Context, b *models.Ban) error {
	f.inserted = append(f.inserted, *b)
	return nil
}

func (f *fakeBans) DeactivateForPlayer(_ context.Context, name, _, _ string, _ time.Time) (int64, error) {
	f.deactivated = append(f.deactivated, name)
	return 1, nil
}

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestExecutor(r *fakeRCON, w *fakeWarnings, b *fakeBans) *Executor {
	return NewExecutor(Deps{
		Counter:  &fakeCounter{},
		Warnings: w,
		Bans:     b,
		RCON:     r,
		Now:      func() time.Time { return testNow },
		NewID:    func() string { return "id" },
	})
}

func TestBanSkipsRecordWhenRCONFails(t *testing.T) {
	r := &fakeRCON{responses: map[string]string{
		"ban alice cheating": "Error: could not ban alice",
		"ban bob cheating":   "Banned bob: cheating",
	}}
	bans := &fakeBans{}
	ex := newTestExecutor(r, &fakeWarnings{}, bans)

	rep := ex.Run(context.Background(), Action{
		Type: Ban, Targets: []string{"alice", "bob"}, Reason: "cheating", Duration: "7d", InitiatorTag: "mod#1",
	})

	if !reflect.DeepEqual(rep.Succeeded, []string{"bob"}) {
		t.Errorf("Succeeded = %v, want [bob]", rep.Succeeded)
	}
	if !reflect.DeepEqual(rep.Failed, []string{"alice"}) {
		t.Errorf("Failed = %v, want [alice]", rep.Failed)
	}
	if len(bans.inserted) != 1 {
		t.Fatalf("inserted bans = %v, want 1", len(bans.inserted))
	}
	b := bans.inserted[0]
	if b.PlayerName != "bob" || b.Reason != "[Bulk] cheating" {
		t.Errorf("ban = %+v", b)
	}
	if b.ExpiresAt == nil || !b.ExpiresAt.Equal(testNow.Add(7*24*time.Hour)) {
		t.Errorf("ExpiresAt = %v, want now+7d", b.ExpiresAt)
	}
}

func TestBanTransportErrorCountsAsFailure(t *testing.T) {
	r := &fakeRCON{fail: map[string]error{"ban alice x": errors.New("timeout")}}
	bans := &fakeBans{}
	rep := newTestExecutor(r, &fakeWarnings{}, bans).Run(context.Background(), Action{
		Type: Ban, Targets: []string{"alice"}, Reason: "x", Duration: "perm",
	})
	if len(rep.Failed) != 1 || len(bans.inserted) != 0 {
		t.Errorf("Failed = %v, inserted = %v, want 1 failure and no record", rep.Failed, len(bans.inserted))
	}
}

func TestPermanentBanHasNoExpiry(t *testing.T) {
	r := &fakeRCON{}
	bans := &fakeBans{}
	newTestExecutor(r, &fakeWarnings{}, bans).Run(context.Background(), Action{
		Type: Ban, Targets: []string{"bob"}, Reason: "x", Duration: "perm",
	})
	if len(bans.inserted) != 1 || bans.inserted[0].ExpiresAt != nil {
		t.Errorf("inserted = %+v, want one permanent ban", bans.inserted)
	}
}

func TestUnbanSkipsRecordsWhenPardonFails(t *testing.T) {
	r := &fakeRCON{fail: map[string]error{"pardon alice": errors.New("offline")}}
	bans := &fakeBans{}
	rep := newTestExecutor(r, &fakeWarnings{}, bans).Run(context.Background(), Action{
		Type: Unban, Targets: []string{"alice", "bob"}, Reason: "appeal",
	})
	if !reflect.DeepEqual(bans.deactivated, []string{"bob"}) {
		t.Errorf("deactivated = %v, want [bob]", bans.deactivated)
	}
	if !reflect.DeepEqual(rep.Failed, []string{"alice"}) {
		t.Errorf("Failed = %v, want [alice]", rep.Failed)
	}
}

func TestUnbanSkipsRecordsWhenPardonReplyFails(t *testing.T) {
	r := &fakeRCON{responses: map[string]string{"pardon alice": "Error: could not unban alice"}}
	bans := &fakeBans{}
	rep := newTestExecutor(r, &fakeWarnings{}, bans).Run(context.Background(), Action{
		Type: Unban, Targets: []string{"alice", "bob"}, Reason: "appeal",
	})
	if !reflect.DeepEqual(bans.deactivated, []string{"bob"}) {
		t.Errorf("deactivated = %v, want [bob]", bans.deactivated)
	}
	if !reflect.DeepEqual(rep.Succeeded, []string{"bob"}) {
		t.Errorf("Succeeded = %v, want [bob]", rep.Succeeded)
	}
	if !reflect.DeepEqual(rep.Failed, []string{"alice"}) {
		t.Errorf("Failed = %v, want [alice]", rep.Failed)
	}
}

func TestWithoutRCON(t *testing.T) {
	for _, typ := range []Type{Kick, Ban, Unban} {
		t.Run(string(typ), func(t *testing.T) {
			bans := &fakeBans{}
			ex := NewExecutor(Deps{
				Counter:  &fakeCounter{},
				Warnings: &fakeWarnings{},
				Bans:     bans,
				Now:      func() time.Time { return testNow },
			})
			rep := ex.Run(context.Background(), Action{Type: typ, Targets: []string{"alice", "bob"}, Reason: "x"})
			if len(rep.Succeeded) != 0 {
				t.Errorf("Succeeded = %v, want none", rep.Succeeded)
			}
			if !reflect.DeepEqual(rep.Failed, []string{"alice", "bob"}) {
				t.Errorf("Failed = %v, want [alice bob]", rep.Failed)
			}
			if len(bans.inserted) != 0 || len(bans.deactivated) != 0 {
				t.Errorf("ban records touched without RCON: %d inserted, %v deactivated", len(bans.inserted), bans.deactivated)
			}
		})
	}

	if NeedsRCON(Warn) || NeedsRCON(PardonWarnings) {
		t.Error("NeedsRCON() = true for a database-only action")
	}

	w := &fakeWarnings{}
	rep := NewExecutor(Deps{Counter: &fakeCounter{}, Warnings: w}).Run(context.Background(), Action{
		Type: Warn, Targets: []string{"alice"}, Reason: "spam",
	})
	if len(rep.Succeeded) != 1 || len(w.inserted) != 1 {
		t.Errorf("warn without RCON: Succeeded = %v, inserted %d, want 1 and 1", rep.Succeeded, len(w.inserted))
	}
}

func TestWarnAssignsCaseNumbers(t *testing.T) {
	w := &fakeWarnings{}
	rep := newTestExecutor(&fakeRCON{}, w, &fakeBans{}).Run(context.Background(), Action{
		Type: Warn, Targets: []string{"a", "b"}, Reason: "spam",
	})
	if len(rep.Succeeded) != 2 || len(w.inserted) != 2 {
		t.Fatalf("Succeeded = %v, inserted = %v", rep.Succeeded, len(w.inserted))
	}
	if w.inserted[0].CaseNumber != 1 || w.inserted[1].CaseNumber != 2 {
		t.Errorf("case numbers = %d, %d, want 1, 2", w.inserted[0].CaseNumber, w.inserted[1].CaseNumber)
	}
	if !strings.HasPrefix(w.inserted[0].Reason, "[Bulk] ") {
		t.Errorf("Reason = %q, want [Bulk] prefix", w.inserted[0].Reason)
	}
}

func TestPardonWarningsReportsCounts(t *testing.T) {
	w := &fakeWarnings{pardoned: map[string]int64{"alice": 3}}
	rep := newTestExecutor(&fakeRCON{}, w, &fakeBans{}).Run(context.Background(), Action{
		Type: PardonWarnings, Targets: []string{"alice", "bob"},
	})
	if !reflect.DeepEqual(rep.Succeeded, []string{"alice (3)"}) {
		t.Errorf("Succeeded = %v, want [alice (3)]", rep.Succeeded)
	}
	if !reflect.DeepEqual(rep.Failed, []string{"bob"}) {
		t.Errorf("Failed = %v, want [bob]", rep.Failed)
	}
}

func TestSendMessage(t *testing.T) {
	r := &fakeRCON{fail: map[string]error{"tell bob hi": errors.New("offline")}}
	n, err := SendMessage(context.Background(), r, []string{"alice", "bob"}, "hi")
	if err != nil || n != 1 {
		t.Errorf("SendMessage() = %v, %v, want 1, nil", n, err)
	}

	r = &fakeRCON{}
	n, err = SendMessage(context.Background(), r, []string{"ALL"}, "restart soon")
	if err != nil || n != -1 {
		t.Errorf("SendMessage(all) = %v, %v, want -1, nil", n, err)
	}
	if !reflect.DeepEqual(r.sent, []string{"say restart soon"}) {
		t.Errorf("sent = %v", r.sent)
	}
}

func TestBanLength(t *testing.T) {
	tests := []struct {
		in     string
		want   time.Duration
		wantOK bool
	}{
		{"30m", 30 * time.Minute, true},
		{"12h", 12 * time.Hour, true},
		{"7d", 7 * 24 * time.Hour, true},
		{"perm", 0, false},
		{"1w", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := banLength(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("banLength(%q) = %v, %v, want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
