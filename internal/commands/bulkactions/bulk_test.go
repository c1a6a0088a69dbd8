package bulkactions

import (
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"

	"github.com/NewLifeSMP/NewLifeBotGo/pkg/bulk"
)

func TestConfirmEmbed(t *testing.T) {
	a := bulk.Action{ID: "abc", Type: bulk.Ban, Targets: []string{"Steve", "Alex"}, Reason: "xray"}
	e := confirmEmbed(a)
	if e.Title != "🔨 Bulk Ban Confirmation" {
		t.Errorf("title = %q", e.Title)
	}
	if e.Description != "You are about to ban **2** players." {
		t.Errorf("description = %q", e.Description)
	}
	last := e.Fields[len(e.Fields)-1]
	if last.Name != "Duration" || last.Value != "perm" {
		t.Errorf("duration field = %+v", last)
	}
	if e.Footer.Text != "This will expire in 60 seconds" {
		t.Errorf("footer = %q", e.Footer.Text)
	}
}

func TestConfirmEmbedPardonHasNoReason(t *testing.T) {
	e := confirmEmbed(bulk.Action{Type: bulk.PardonWarnings, Targets: []string{"Steve"}})
	if len(e.Fields) != 1 {
		t.Errorf("fields = %d, want players only", len(e.Fields))
	}
}

func TestConfirmButtons(t *testing.T) {
	tests := []struct {
		typ  bulk.Type
		want discordgo.ButtonStyle
	}{
		{bulk.Warn, discordgo.DangerButton},
		{bulk.Unban, discordgo.SuccessButton},
		{bulk.PardonWarnings, discordgo.PrimaryButton},
	}
	for _, tt := range tests {
		row := confirmButtons(bulk.Action{ID: "tok", Type: tt.typ})[0].(discordgo.ActionsRow)
		confirm := row.Components[0].(discordgo.Button)
		cancel := row.Components[1].(discordgo.Button)
		if confirm.Style != tt.want {
			t.Errorf("%s confirm style = %v, want %v", tt.typ, confirm.Style, tt.want)
		}
		if confirm.CustomID != "bulk_confirm_tok" || cancel.CustomID != "bulk_cancel_tok" {
			t.Errorf("custom IDs = %q, %q", confirm.CustomID, cancel.CustomID)
		}
	}
}

func TestReasonFor(t *testing.T) {
	if got := reasonFor(bulk.Unban, ""); got != "Bulk unban" {
		t.Errorf("unban default = %q", got)
	}
	if got := reasonFor(bulk.Warn, "spam"); got != "spam" {
		t.Errorf("warn reason = %q", got)
	}
}

func TestMessageResult(t *testing.T) {
	if got := messageResult(-1, 1); !strings.Contains(got, "Broadcast") {
		t.Errorf("broadcast = %q", got)
	}
	if got := messageResult(2, 3); got != "✅ Message sent to 2 of 3 players (others may be offline)." {
		t.Errorf("tells = %q", got)
	}
}

func TestReportEmbed(t *testing.T) {
	e := reportEmbed(bulk.Report{Type: bulk.Kick, Succeeded: []string{"Steve"}, Failed: []string{"Alex"}, By: "mod1"})
	if e.Title != "✅ Bulk Kick Complete" || e.Color != colorPartial {
		t.Errorf("title/color = %q %x", e.Title, e.Color)
	}
	if len(e.Fields) != 2 || e.Fields[1].Value != "Alex" {
		t.Errorf("fields = %+v", e.Fields)
	}

	e = reportEmbed(bulk.Report{Type: bulk.Warn, By: "mod1"})
	if e.Color != colorDone || e.Fields[0].Value != "None" {
		t.Errorf("empty report = %x %q", e.Color, e.Fields[0].Value)
	}
}
