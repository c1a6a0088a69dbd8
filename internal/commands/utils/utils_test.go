package utils

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0 seconds"},
		{time.Second, "1 second"},
		{26*time.Hour + 5*time.Minute, "1 day, 2 hours, 5 minutes"},
		{48 * time.Hour, "2 days"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.in); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

type fakeDB struct{ ok bool }

func (f fakeDB) GetStatus() (string, bool) {
	if f.ok {
		return online, true
	}
	return offline, false
}

type fakeBroker bool

func (b fakeBroker) IsConnected() bool { return bool(b) }

type fakeRCON struct{ err error }

func (f fakeRCON) Test(context.Context) (string, error) { return "", f.err }

func TestStatusEmbed(t *testing.T) {
	h := &handlers{Deps{
		DB:       fakeDB{ok: true},
		MQTT:     fakeBroker(false),
		RCON:     fakeRCON{err: errors.New("refused")},
		Watching: func() bool { return true },
	}}
	e := h.statusEmbed(context.Background())
	want := map[string]string{
		"Discord":        online,
		"Database":       online,
		"MQTT":           offline,
		"RCON":           offline,
		"Plugin watcher": online,
	}
	for _, f := range e.Fields {
		if want[f.Name] != f.Value {
			t.Errorf("%s = %q, want %q", f.Name, f.Value, want[f.Name])
		}
	}
}

func TestStatusEmbedUnconfigured(t *testing.T) {
	e := (&handlers{}).statusEmbed(context.Background())
	for _, f := range e.Fields[1:] {
		if f.Value != unconfigured {
			t.Errorf("%s = %q, want %q", f.Name, f.Value, unconfigured)
		}
	}
}

func TestHelpEmbed(t *testing.T) {
	e := helpEmbed()
	if len(e.Fields) != len(helpSections) {
		t.Errorf("fields = %d, want %d", len(e.Fields), len(helpSections))
	}
}
