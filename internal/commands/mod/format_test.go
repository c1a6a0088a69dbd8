package mod

import (
	"strings"
	"testing"
	"time"

	"github.com/NewLifeSMP/NewLifeBotGo/internal/moderation"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/models"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/outcome"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/profile"
)

func TestCaseLabel(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "N/A"},
		{-1, "N/A"},
		{42, "42"},
	}
	for _, tt := range tests {
		if got := caseLabel(tt.n); got != tt.want {
			t.Errorf("caseLabel(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestWarningLine(t *testing.T) {
	at := time.Unix(1700000000, 0)
	w := models.Warning{CaseNumber: 7, Reason: strings.Repeat("x", 60), Active: true, CreatedAt: at}

	got := warningLine(w)
	if !strings.HasPrefix(got, "[Active] `#7`") {
		t.Errorf("warningLine = %q, want [Active] prefix", got)
	}
	if !strings.Contains(got, "<t:1700000000:R>") {
		t.Errorf("warningLine = %q, missing relative timestamp", got)
	}
	if strings.Contains(got, strings.Repeat("x", 41)) {
		t.Errorf("warningLine = %q, reason not truncated", got)
	}

	w.Active = false
	if got := warningLine(w); !strings.HasPrefix(got, "[Removed]") {
		t.Errorf("warningLine(removed) = %q", got)
	}
}

func TestMemberWarningLine(t *testing.T) {
	w := models.Warning{
		CaseNumber: 3, Severity: models.SeveritySevere, Category: models.CategoryChat,
		Reason: "slurs", StaffName: "mod1", CreatedAt: time.Unix(0, 0),
	}
	got := memberWarningLine(w)
	if !strings.HasPrefix(got, "**#3** [REMOVED] - Severe (Chat)") {
		t.Errorf("memberWarningLine = %q", got)
	}
	if !strings.HasSuffix(got, "by mod1") {
		t.Errorf("memberWarningLine = %q, want staff suffix", got)
	}
}

func TestAlreadyBannedMessage(t *testing.T) {
	perm := &models.ServerBan{Reason: "xray", IsPermanent: true}
	if got := alreadyBannedMessage("Steve", perm); !strings.Contains(got, "Never (Permanent)") {
		t.Errorf("permanent = %q", got)
	}

	exp := time.Unix(1800000000, 0)
	temp := &models.ServerBan{Reason: "grief", ExpiresAt: &exp}
	got := alreadyBannedMessage("Alex", temp)
	if !strings.HasPrefix(got, "**Alex** is already banned.") || !strings.Contains(got, "<t:1800000000:R>") {
		t.Errorf("temporary = %q", got)
	}
}

func TestBanEmbed(t *testing.T) {
	exp := time.Unix(1800000000, 0)
	res := moderation.BanResult{
		Ban: &models.ServerBan{
			CaseNumber: 12, PrimaryUsername: "Steve", PrimaryPlatform: models.PlatformBedrock,
			BannedUUIDs: []string{"a", "b"}, Reason: "xray", Duration: "7d", ExpiresAt: &exp, DiscordID: "99",
		},
		Target: moderation.Target{
			Profile: profile.Profile{Name: "Steve"},
			Linked: []models.LinkedAccount{
				{MinecraftUsername: "Steve", Platform: "bedrock"},
				{MinecraftUsername: "Steve2", Platform: "java"},
			},
		},
		Kicks: []moderation.KickStep{{Player: "Steve", Result: outcome.Ok()}},
		DM:    outcome.Ok(),
		Log:   outcome.Failed("no channel"),
	}

	e := banEmbed(res, "mod1")
	if e.Footer.Text != "Case #12 | Banned by mod1" {
		t.Errorf("footer = %q", e.Footer.Text)
	}
	fields := map[string]string{}
	for _, f := range e.Fields {
		fields[f.Name] = f.Value
	}
	if fields["Platform"] != "Bedrock" {
		t.Errorf("Platform = %q, want Bedrock", fields["Platform"])
	}
	if fields["Duration"] != "7d" {
		t.Errorf("Duration = %q, want 7d", fields["Duration"])
	}
	if _, ok := fields["Linked Accounts Banned (2)"]; !ok {
		t.Errorf("linked accounts field missing: %v", fields)
	}
	if !strings.Contains(fields["Actions"], "⚠️ Log: no channel") || !strings.Contains(fields["Actions"], "✅ Kick Steve") {
		t.Errorf("Actions = %q", fields["Actions"])
	}
}

func TestBanEmbedPermanent(t *testing.T) {
	res := moderation.BanResult{
		Ban:    &models.ServerBan{CaseNumber: 1, PrimaryUsername: "Steve", Reason: "x", IsPermanent: true},
		Target: moderation.Target{Profile: profile.Profile{Name: "Steve"}},
	}
	for _, f := range banEmbed(res, "mod1").Fields {
		if f.Name == "Expires" {
			t.Error("permanent ban shows an Expires field")
		}
		if f.Name == "Duration" && f.Value != "**Permanent**" {
			t.Errorf("Duration = %q, want **Permanent**", f.Value)
		}
	}
}
