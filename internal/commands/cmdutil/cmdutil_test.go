package cmdutil

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/NewLifeSMP/NewLifeBotGo/internal/moderation"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/bulk"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/database"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/outcome"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		want   string
		wantOK bool
	}{
		{"wrapped player", fmt.Errorf("%w: Notch", moderation.ErrPlayerNotFound), "Could not find that Minecraft account", true},
		{"not found", database.ErrNotFound, "No matching record", true},
		{"expired token", bulk.ErrNotFound, "expired", true},
		{"not initiator", bulk.ErrNotInitiator, "Only the staff member", true},
		{"unexpected", errors.New("socket closed"), GenericError, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, ok := Describe(tt.err)
			if ok != tt.wantOK {
				t.Errorf("Describe() ok = %v, want %v", ok, tt.wantOK)
			}
			if !strings.Contains(msg, tt.want) {
				t.Errorf("Describe() = %q, want it to contain %q", msg, tt.want)
			}
		})
	}
}

func TestStep(t *testing.T) {
	tests := []struct {
		r    outcome.Result
		want string
	}{
		{outcome.Ok(), "✅ DM"},
		{outcome.Skipped("no linked account"), "➖ DM: no linked account"},
		{outcome.Failed("DMs closed"), "⚠️ DM: DMs closed"},
	}
	for _, tt := range tests {
		if got := Step("DM", tt.r); got != tt.want {
			t.Errorf("Step() = %q, want %q", got, tt.want)
		}
	}
}

func TestPage(t *testing.T) {
	tests := []struct {
		page, total       int64
		wantPage, wantMax int
	}{
		{1, 0, 1, 1},
		{0, 25, 1, 3},
		{5, 25, 3, 3},
		{2, 20, 2, 2},
	}
	for _, tt := range tests {
		p, n := Page(tt.page, tt.total, 10)
		if p != tt.wantPage || n != tt.wantMax {
			t.Errorf("Page(%d, %d) = %d, %d, want %d, %d", tt.page, tt.total, p, n, tt.wantPage, tt.wantMax)
		}
	}
}

func TestCount(t *testing.T) {
	if got := Count(0, 10, 25); got != 10 {
		t.Errorf("Count(0) = %d, want 10", got)
	}
	if got := Count(100, 10, 25); got != 25 {
		t.Errorf("Count(100) = %d, want 25", got)
	}
	if got := Count(7, 10, 25); got != 7 {
		t.Errorf("Count(7) = %d, want 7", got)
	}
}

func TestLinesTruncates(t *testing.T) {
	long := strings.Repeat("x", 1000)
	out := Lines([]string{long, long, long, long, long})
	if len(out) > 4100 {
		t.Errorf("Lines() length = %d, want at most ~4000", len(out))
	}
	if !strings.Contains(out, "…and 2 more") {
		t.Errorf("Lines() = %q, want an overflow note", out[len(out)-20:])
	}
}
