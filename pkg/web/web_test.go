package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/NewLifeSMP/NewLifeBotGo/pkg/database"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/models"
)

type fakeWarnings struct{}

func (fakeWarnings) FindByCase(_ context.Context, ref string) (*models.Warning, error) {
	if ref == "12" {
		return &models.Warning{CaseNumber: 12, PlayerName: "Steve", Reason: "spam"}, nil
	}
	return nil, database.ErrNotFound
}

func (fakeWarnings) ListByPlayer(_ context.Context, name string, page, _ int) ([]models.Warning, int64, error) {
	return []models.Warning{{CaseNumber: 12, PlayerName: name}}, 1, nil
}

type fakeBans map[string]*models.ServerBan

func (f fakeBans) FindActive(_ context.Context, uuid string, _ time.Time) (*models.ServerBan, error) {
	if b, ok := f[uuid]; ok {
		return b, nil
	}
	return nil, database.ErrNotFound
}

func (f fakeBans) ActiveUUIDs(context.Context) ([]string, error) {
	out := make([]string, 0, len(f))
	for uuid := range f {
		out = append(out, uuid)
	}
	return out, nil
}

type fakeGuru struct{ week time.Time }

func (f *fakeGuru) ListWeek(_ context.Context, _ string, weekStart time.Time) ([]models.GuruPerformance, error) {
	f.week = weekStart
	return []models.GuruPerformance{{GuruID: "1", TotalWhitelisted: 4, RecommendedDiamonds: 5}}, nil
}

func newTestServer(a API) *Server {
	s := NewServer("", "")
	SetupAPIRoutes(s, a)
	return s
}

func get(t *testing.T, s *Server, path string) (int, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	s.Engine().ServeHTTP(rec, req)
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %s: %v (%s)", path, err, rec.Body.String())
	}
	return rec.Code, body
}

func TestWarningRoutes(t *testing.T) {
	s := newTestServer(API{Warnings: fakeWarnings{}})

	code, body := get(t, s, "/api/cases/warnings/12")
	if code != http.StatusOK || body["playerName"] != "Steve" {
		t.Errorf("GET case 12 = %d %v", code, body)
	}
	code, _ = get(t, s, "/api/cases/warnings/99")
	if code != http.StatusNotFound {
		t.Errorf("GET case 99 = %d, want 404", code)
	}
	code, body = get(t, s, "/api/players/Alex/warnings?page=0")
	if code != http.StatusOK || body["total"] != float64(1) || body["page"] != float64(1) {
		t.Errorf("GET player warnings = %d %v", code, body)
	}
}

func TestBanRoute(t *testing.T) {
	s := newTestServer(API{Bans: fakeBans{"abc": {CaseNumber: 3, Reason: "grief"}}})

	if _, body := get(t, s, "/api/players/abc/ban"); body["banned"] != true {
		t.Errorf("banned uuid = %v", body)
	}
	if _, body := get(t, s, "/api/players/def/ban"); body["banned"] != false {
		t.Errorf("clean uuid = %v", body)
	}
	if _, body := get(t, s, "/api/bans/active"); body["count"] != float64(1) {
		t.Errorf("active bans = %v", body)
	}
}

func TestGuruWeekRoute(t *testing.T) {
	now := time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC) // Wednesday
	g := &fakeGuru{}
	s := newTestServer(API{Guru: g, Now: func() time.Time { return now }})

	code, body := get(t, s, "/api/guru/week?week=last")
	if code != http.StatusOK || body["diamonds"] != float64(5) {
		t.Errorf("GET guru week = %d %v", code, body)
	}
	if want := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC); !g.week.Equal(want) {
		t.Errorf("week start = %v, want %v", g.week, want)
	}
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(API{})
	code, body := get(t, s, "/api/nope")
	if code != http.StatusNotFound || body["error"] != "Not Found" {
		t.Errorf("GET unknown = %d %v", code, body)
	}
}

func TestHostFilter(t *testing.T) {
	s := NewServer("", `^(.+\.)?newlifesmp\.com$`)
	SetupAPIRoutes(s, API{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Host = "evil.example"
	s.Engine().ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("foreign host = %d, want 403", rec.Code)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Host = "api.newlifesmp.com"
	s.Engine().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("own host = %d, want 200", rec.Code)
	}
}

func TestIPLimiter(t *testing.T) {
	l := newIPLimiter(RateLimitConfig{PerSecond: rate.Limit(1), Burst: 2, IdleAfter: time.Minute})
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, want := range []bool{true, true, false} {
		if got := l.allow("1.1.1.1", now); got != want {
			t.Errorf("request %d allowed = %v, want %v", i, got, want)
		}
	}
	if !l.allow("2.2.2.2", now) {
		t.Error("second IP shares the first IP's bucket")
	}
	if !l.allow("1.1.1.1", now.Add(time.Second)) {
		t.Error("bucket did not refill")
	}

	l.allow("3.3.3.3", now.Add(2*time.Minute))
	if _, ok := l.visitors["2.2.2.2"]; ok {
		t.Error("idle visitor not swept")
	}
}

func TestParseFilter(t *testing.T) {
	if parseFilter("") != nil {
		t.Error("empty filter should accept everything")
	}
	f := parseFilter("Ban, kick,,")
	if len(f) != 2 || !f[models.EventBan] || !f[models.EventKick] {
		t.Errorf("parseFilter = %v", f)
	}
	c := &liveClient{filter: f}
	if c.wants(models.EventMute) || !c.wants(models.EventBan) {
		t.Error("client filter not applied")
	}
}

func TestHubPublish(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	all := &liveClient{send: make(chan []byte, 1)}
	bans := &liveClient{send: make(chan []byte, 1), filter: parseFilter("ban")}
	h.register <- all
	h.register <- bans

	h.Publish(models.ModerationEvent{ID: "e1", Type: models.EventKick})
	select {
	case msg := <-all.send:
		if !strings.Contains(string(msg), `"type":"kick"`) {
			t.Errorf("message = %s", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
	select {
	case msg := <-bans.send:
		t.Errorf("filtered client got %s", msg)
	case <-time.After(50 * time.Millisecond):
	}
}
