package profile

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/java/username/Notch", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"uuid":"069a79f4-44e9-4726-a5be-fca90e38aaf5","username":"Notch"}`))
	})
	mux.HandleFunc("/api/v1/java/username/NoUUID", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"username":"NoUUID"}`))
	})
	mux.HandleFunc("/api/v1/bedrock/gamertag/XboxGuy", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"gamertag":"XboxGuy","floodgateuid":"00000000-0000-0000-0009-01f64f65c7c3","id":"2535"}`))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestLookupJava(t *testing.T) {
	c := NewClient(newTestServer(t).URL)
	p, err := c.Lookup(context.Background(), "Notch", Java)
	if err != nil {
		t.Fatalf("Lookup() error: %v", err)
	}
	if p.UUID != "069a79f4-44e9-4726-a5be-fca90e38aaf5" {
		t.Errorf("UUID = %v", p.UUID)
	}
	if p.Name != "Notch" {
		t.Errorf("Name = %v, want %v", p.Name, "Notch")
	}
}

func TestLookupBedrockPrefersFloodgateUID(t *testing.T) {
	c := NewClient(newTestServer(t).URL)
	p, err := c.Lookup(context.Background(), "XboxGuy", Bedrock)
	if err != nil {
		t.Fatalf("Lookup() error: %v", err)
	}
	if p.UUID != "00000000-0000-0000-0009-01f64f65c7c3" {
		t.Errorf("UUID = %v, want floodgate uid", p.UUID)
	}
	if p.Name != "XboxGuy" {
		t.Errorf("Name = %v, want input name", p.Name)
	}
}

func TestLookupNotFound(t *testing.T) {
	c := NewClient(newTestServer(t).URL)
	for _, name := range []string{"Nobody", "NoUUID"} {
		if _, err := c.Lookup(context.Background(), name, Java); !errors.Is(err, ErrNotFound) {
			t.Errorf("Lookup(%q) error = %v, want %v", name, err, ErrNotFound)
		}
	}
	if _, err := c.Lookup(context.Background(), "Notch", "console"); !errors.Is(err, ErrInvalidPlatform) {
		t.Errorf("Lookup(console) error = %v, want %v", err, ErrInvalidPlatform)
	}
}

func TestLookupAnyFallsBackToBedrock(t *testing.T) {
	c := NewClient(newTestServer(t).URL)
	p, err := LookupAny(context.Background(), c, "XboxGuy")
	if err != nil {
		t.Fatalf("LookupAny() error: %v", err)
	}
	if p.Platform != Bedrock {
		t.Errorf("Platform = %v, want %v", p.Platform, Bedrock)
	}
}

func TestNormalizeUUID(t *testing.T) {
	got := NormalizeUUID("069A79F4-44E9-4726-A5BE-FCA90E38AAF5")
	if got != "069a79f444e94726a5befca90e38aaf5" {
		t.Errorf("NormalizeUUID() = %v", got)
	}
}
