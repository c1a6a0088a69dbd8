package staff

import (
	"strings"
	"testing"
	"time"

	"github.com/NewLifeSMP/NewLifeBotGo/internal/jobs"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/models"
)

func TestRestartDelay(t *testing.T) {
	tests := []struct {
		seconds int64
		want    time.Duration
	}{
		{0, 0},
		{-5, 0},
		{60, time.Minute},
		{301, jobs.MaxRestartDelay},
	}
	for _, tt := range tests {
		if got := restartDelay(tt.seconds); got != tt.want {
			t.Errorf("restartDelay(%d) = %v, want %v", tt.seconds, got, tt.want)
		}
	}
}

func TestInfractionLine(t *testing.T) {
	inf := models.Infraction{
		CaseNumber: 4, Type: models.InfractionStrike, TargetID: "123",
		Reason: strings.Repeat("r", 80), CreatedAt: time.Unix(100, 0),
	}
	got := infractionLine(inf)
	if !strings.HasPrefix(got, "**#4** Strike\n└ <@123>") {
		t.Errorf("infractionLine = %q", got)
	}
	if strings.Contains(got, "revoked") {
		t.Errorf("active infraction marked revoked: %q", got)
	}

	inf.Active = false
	inf.Type = models.InfractionNotice
	if got := infractionLine(inf); !strings.Contains(got, "Notice *(revoked)*") {
		t.Errorf("revoked infractionLine = %q", got)
	}
}

func TestInfractionListWithoutUser(t *testing.T) {
	e := infractionList([]models.Infraction{{CaseNumber: 1, Type: models.InfractionWarning, Active: true}}, nil)
	if e.Thumbnail != nil {
		t.Error("list without user has a thumbnail")
	}
	if e.Footer.Text != "1 infraction(s) shown" {
		t.Errorf("footer = %q", e.Footer.Text)
	}
}

func TestRecentActivity(t *testing.T) {
	in := []models.GuruInteraction{
		{MCUsername: "old", Outcome: models.OutcomeDenied},
		{MCUsername: "", Outcome: models.OutcomePending, ResponseTimeMs: 60000},
		{MCUsername: "new", Outcome: models.OutcomeWhitelisted, DidGreet: true},
	}
	got := strings.Split(recentActivity(in, 2), "\n")
	if len(got) != 2 {
		t.Fatalf("recentActivity lines = %d, want 2", len(got))
	}
	if !strings.HasPrefix(got[0], "[Approved] new") || !strings.HasSuffix(got[0], "[Greeted]") {
		t.Errorf("first line = %q", got[0])
	}
	if !strings.HasPrefix(got[1], "[Pending] Unknown") {
		t.Errorf("second line = %q", got[1])
	}
}

func TestHistoryEmbedTotals(t *testing.T) {
	week := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	records := []models.GuruPerformance{
		{WeekStart: week, PerformanceScore: 85, TotalWhitelisted: 10, RecommendedDiamonds: 18},
		{WeekStart: week.AddDate(0, 0, -7), PerformanceScore: 40, TotalWhitelisted: 2, RecommendedDiamonds: 1},
	}
	e := historyEmbed("guru1", records)
	if len(e.Fields) != 3 {
		t.Fatalf("fields = %d, want 3", len(e.Fields))
	}
	if !strings.HasPrefix(e.Fields[0].Name, "Week of 2026-03-01") {
		t.Errorf("first week = %q", e.Fields[0].Name)
	}
	if want := "**Whitelists:** 12 | **Diamonds:** 19"; e.Fields[2].Value != want {
		t.Errorf("totals = %q, want %q", e.Fields[2].Value, want)
	}
}

func TestScoreColor(t *testing.T) {
	if scoreColor(70) != 0x57F287 || scoreColor(50) != 0xFEE75C || scoreColor(49) != 0xED4245 {
		t.Error("score colors do not match the 70/50 thresholds")
	}
}

func TestOutcomeOption(t *testing.T) {
	opt := outcomeOption()
	want := map[string]string{"denied": "Denied", "abandoned": "Abandoned", "transferred": "Transferred"}
	if len(opt.Choices) != len(want) {
		t.Fatalf("choices = %d, want %d", len(opt.Choices), len(want))
	}
	for _, c := range opt.Choices {
		if want[c.Value.(string)] != c.Name {
			t.Errorf("choice %v = %q, want %q", c.Value, c.Name, want[c.Value.(string)])
		}
	}
}
