package guru

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/NewLifeSMP/NewLifeBotGo/pkg/database"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/models"
)

func TestComputeExample(t *testing.T) {
	b := Compute(10, 3*60000, 100, 100)
	if b.Volume != 50 || b.Response != 100 || b.Greeting != 100 || b.Completion != 100 {
		t.Errorf("components = %v/%v/%v/%v, want 50/100/100/100", b.Volume, b.Response, b.Greeting, b.Completion)
	}
	if b.Score != 85 {
		t.Errorf("Score = %v, want %v", b.Score, 85)
	}
	if b.Multiplier != 1.75 {
		t.Errorf("Multiplier = %v, want %v", b.Multiplier, 1.75)
	}
	if b.Recommend != 18 || b.Min != 17 || b.Max != 19 {
		t.Errorf("pay = %d (%d-%d), want 18 (17-19)", b.Recommend, b.Min, b.Max)
	}
}

func TestResponseScore(t *testing.T) {
	tests := []struct {
		minutes float64
		want    float64
	}{
		{0, 100},
		{5, 100},
		{30, 50},
		{55, 0},
		{120, 0},
	}
	for _, tt := range tests {
		if got := responseScore(tt.minutes); got != tt.want {
			t.Errorf("responseScore(%v) = %v, want %v", tt.minutes, got, tt.want)
		}
	}
}

func TestMultiplier(t *testing.T) {
	tests := []struct {
		score int
		want  float64
	}{
		{100, 2.0}, {90, 2.0}, {89, 1.75}, {80, 1.75}, {70, 1.5},
		{60, 1.25}, {50, 1.0}, {40, 0.75}, {39, 0.5}, {0, 0.5},
	}
	for _, tt := range tests {
		if got := Multiplier(tt.score); got != tt.want {
			t.Errorf("Multiplier(%d) = %v, want %v", tt.score, got, tt.want)
		}
	}
}

func TestZeroWhitelistsPaysNothing(t *testing.T) {
	b := Compute(0, 0, 0, 0)
	if b.Recommend != 0 || b.Min != 0 || b.Max != 0 {
		t.Errorf("pay = %d (%d-%d), want 0", b.Recommend, b.Min, b.Max)
	}
}

func TestWeekBounds(t *testing.T) {
	// Wednesday 2025-06-11.
	start, end := WeekBounds(time.Date(2025, 6, 11, 15, 30, 0, 0, time.UTC))
	if want := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC); !start.Equal(want) {
		t.Errorf("start = %v, want %v", start, want)
	}
	if want := time.Date(2025, 6, 14, 23, 59, 59, int(999*time.Millisecond), time.UTC); !end.Equal(want) {
		t.Errorf("end = %v, want %v", end, want)
	}

	// A Sunday is the first day of its own week.
	start, _ = WeekBounds(time.Date(2025, 6, 8, 0, 0, 1, 0, time.UTC))
	if want := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC); !start.Equal(want) {
		t.Errorf("start(sunday) = %v, want %v", start, want)
	}

	// Month boundary.
	start, _ = WeekBounds(time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC))
	if want := time.Date(2025, 6, 29, 0, 0, 0, 0, time.UTC); !start.Equal(want) {
		t.Errorf("start(month boundary) = %v, want %v", start, want)
	}

	last, _ := LastWeekBounds(time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC))
	if want := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC); !last.Equal(want) {
		t.Errorf("last week start = %v, want %v", last, want)
	}
}

func TestIsGreeting(t *testing.T) {
	tests := []struct {
		msg  string
		want bool
	}{
		{"Hey there!", true},
		{"  hello", true},
		{"Good morning, let's get started", true},
		{"Thanks for applying to NewLife", true},
		{"Welcome to the server", true},
		{"nice to meet you", true},
		{"I appreciate your patience", true},
		{"what is your username?", false},
		{"this isn't hi", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsGreeting(tt.msg); got != tt.want {
			t.Errorf("IsGreeting(%q) = %v, want %v", tt.msg, got, tt.want)
		}
	}
}

func TestFormatResponseTime(t *testing.T) {
	tests := []struct {
		ms   float64
		want string
	}{
		{0, "N/A"},
		{-5, "N/A"},
		{12_500, "12s"},
		{250_000, "4m 10s"},
		{3_900_000, "1h 5m"},
	}
	for _, tt := range tests {
		if got := FormatResponseTime(tt.ms); got != tt.want {
			t.Errorf("FormatResponseTime(%v) = %v, want %v", tt.ms, got, tt.want)
		}
	}
}

func TestRatings(t *testing.T) {
	if got := Rating(85); got != "Great" {
		t.Errorf("Rating(85) = %v, want Great", got)
	}
	if got := Rating(10); got != "Needs Improvement" {
		t.Errorf("Rating(10) = %v, want Needs Improvement", got)
	}
	if got := ResponseRating(20 * 60000); got != "Good" {
		t.Errorf("ResponseRating(20m) = %v, want Good", got)
	}
	if got := ResponseRating(2 * 3600000); got != "Slow" {
		t.Errorf("ResponseRating(2h) = %v, want Slow", got)
	}
}

type memStore struct {
	recs  map[string]*models.GuruPerformance
	saves int
}

func newMemStore() *memStore { return &memStore{recs: map[string]*models.GuruPerformance{}} }

func (m *memStore) key(id string, week time.Time) string { return id + week.String() }

func (m *memStore) FindWeek(_ context.Context, guruID string, weekStart time.Time) (*models.GuruPerformance, error) {
	r, ok := m.recs[m.key(guruID, weekStart)]
	if !ok {
		return nil, database.ErrNotFound
	}
	cp := *r
	cp.Interactions = append([]models.GuruInteraction(nil), r.Interactions...)
	return &cp, nil
}

func (m *memStore) Save(_ context.Context, rec *models.GuruPerformance) error {
	m.saves++
	cp := *rec
	m.recs[m.key(rec.GuruID, rec.WeekStart)] = &cp
	return nil
}

func TestTrackerLifecycle(t *testing.T) {
	now := time.Date(2025, 6, 11, 12, 0, 0, 0, time.UTC)
	store := newMemStore()
	tr := NewTracker(store)
	tr.now = func() time.Time { return now }

	g := Guru{ID: "g1", Tag: "guru#1", GuildID: "guild"}
	tk := Ticket{ID: "t1", ChannelID: "c1", ApplicantID: "a1", CreatedAt: now.Add(-3 * time.Minute)}

	rec, err := tr.TrackResponse(context.Background(), g, tk, "what's your IGN?")
	if err != nil {
		t.Fatalf("TrackResponse() error: %v", err)
	}
	if len(rec.Interactions) != 1 || rec.Interactions[0].DidGreet {
		t.Fatalf("interactions = %+v, want one ungreeted", rec.Interactions)
	}
	if rec.Interactions[0].ResponseTimeMs != 180000 {
		t.Errorf("ResponseTimeMs = %v, want %v", rec.Interactions[0].ResponseTimeMs, 180000)
	}

	now = now.Add(time.Minute)
	rec, _ = tr.TrackResponse(context.Background(), g, tk, "Oh and welcome to NewLife! "+strings.Repeat("x", 300))
	in := rec.Interactions[0]
	if !in.DidGreet {
		t.Errorf("DidGreet = false after later greeting")
	}
	if in.ResponseTimeMs != 180000 {
		t.Errorf("ResponseTimeMs changed to %v", in.ResponseTimeMs)
	}
	if len([]rune(in.GreetingMessage)) != greetingMessageLimit {
		t.Errorf("len(GreetingMessage) = %v, want %v", len(in.GreetingMessage), greetingMessageLimit)
	}

	rec, err = tr.TrackWhitelist(context.Background(), g, "t1", "a1", "Steve", "java")
	if err != nil {
		t.Fatalf("TrackWhitelist() error: %v", err)
	}
	if rec.TotalWhitelisted != 1 || rec.CompletionRate != 100 || rec.GreetingRate != 100 {
		t.Errorf("totals = %d whitelisted, %v%% completion, %v%% greeting", rec.TotalWhitelisted, rec.CompletionRate, rec.GreetingRate)
	}

	// Abandoning a finished ticket does nothing.
	saves := store.saves
	if err := tr.TrackAbandoned(context.Background(), g, "t1"); err != nil {
		t.Fatalf("TrackAbandoned() error: %v", err)
	}
	if store.saves != saves {
		t.Errorf("TrackAbandoned saved a whitelisted ticket")
	}
}

func TestTrackWhitelistDirect(t *testing.T) {
	now := time.Date(2025, 6, 11, 12, 0, 0, 0, time.UTC)
	tr := NewTracker(newMemStore())
	tr.now = func() time.Time { return now }

	rec, err := tr.TrackWhitelist(context.Background(), Guru{ID: "g"}, "", "a", "Alex", "bedrock")
	if err != nil {
		t.Fatalf("TrackWhitelist() error: %v", err)
	}
	in := rec.Interactions[0]
	if !strings.HasPrefix(in.TicketID, "direct-") || !in.DidGreet || in.ResponseTimeMs != 0 {
		t.Errorf("interaction = %+v", in)
	}
	if rec.ResponseCount != 0 {
		t.Errorf("ResponseCount = %v, want direct whitelist excluded", rec.ResponseCount)
	}
}

func TestTrackDeniedAndTransfer(t *testing.T) {
	now := time.Date(2025, 6, 11, 12, 0, 0, 0, time.UTC)
	tr := NewTracker(newMemStore())
	tr.now = func() time.Time { return now }
	g := Guru{ID: "g"}
	ctx := context.Background()

	for _, id := range []string{"t1", "t2", "t3"} {
		if _, err := tr.TrackResponse(ctx, g, Ticket{ID: id, CreatedAt: now.Add(-time.Minute)}, "hi"); err != nil {
			t.Fatalf("TrackResponse(%s) error: %v", id, err)
		}
	}
	if err := tr.TrackDenied(ctx, g, "t1", "underage"); err != nil {
		t.Fatal(err)
	}
	if err := tr.TrackTransfer(ctx, g, "t2"); err != nil {
		t.Fatal(err)
	}
	if _, err := tr.TrackWhitelist(ctx, g, "t3", "", "Steve", "java"); err != nil {
		t.Fatal(err)
	}
	if err := tr.TrackDenied(ctx, g, "missing", "x"); err != nil {
		t.Fatal(err)
	}

	rec, err := tr.current(ctx, g)
	if err != nil {
		t.Fatal(err)
	}
	if rec.TotalDenied != 1 || rec.TotalTransferred != 1 || rec.TotalWhitelisted != 1 {
		t.Errorf("totals = %d denied, %d transferred, %d whitelisted", rec.TotalDenied, rec.TotalTransferred, rec.TotalWhitelisted)
	}
	if rec.CompletionRate != 50 {
		t.Errorf("CompletionRate = %v, want %v", rec.CompletionRate, 50)
	}
	if rec.FindInteraction("t1").Notes != "underage" {
		t.Errorf("Notes = %q, want underage", rec.FindInteraction("t1").Notes)
	}
}

func TestPaymentSummary(t *testing.T) {
	out := PaymentSummary([]models.GuruPerformance{
		{GuruTag: "low", PerformanceScore: 40, RecommendedDiamonds: 3},
		{GuruID: "123", PerformanceScore: 90, RecommendedDiamonds: 20},
	})
	lines := strings.Split(out, "\n")
	if !strings.HasPrefix(lines[3], "123") {
		t.Errorf("first row = %q, want best score first", lines[3])
	}
	if !strings.Contains(out, "TOTAL") || !strings.Contains(out, "        23") {
		t.Errorf("summary missing total:\n%s", out)
	}
}
