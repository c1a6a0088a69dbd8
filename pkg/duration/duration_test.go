package duration

import (
	"errors"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in        string
		want      time.Duration
		permanent bool
		wantErr   error
	}{
		{"30s", 30 * time.Second, false, nil},
		{"5m", 5 * time.Minute, false, nil},
		{"15", 15 * time.Minute, false, nil},
		{"2h", 2 * time.Hour, false, nil},
		{"7d", 7 * Day, false, nil},
		{"1w", Week, false, nil},
		{"1mo", 30 * Day, false, nil},
		{" 3D ", 3 * Day, false, nil},
		{"perm", 0, true, nil},
		{"Permanent", 0, true, nil},
		{"forever", 0, true, nil},
		{"", 0, false, ErrEmpty},
		{"1y", 0, false, ErrInvalid},
		{"-5m", 0, false, ErrInvalid},
		{"5 m", 0, false, ErrInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Parse(%q) error = %v, want %v", tt.in, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", tt.in, err)
			}
			if got.Permanent != tt.permanent {
				t.Errorf("Parse(%q).Permanent = %v, want %v", tt.in, got.Permanent, tt.permanent)
			}
			if got.Duration != tt.want {
				t.Errorf("Parse(%q).Duration = %v, want %v", tt.in, got.Duration, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0s"},
		{3 * time.Second, "3s"},
		{5*time.Minute + 3*time.Second, "5m 3s"},
		{time.Hour + 5*time.Minute, "1h 5m"},
		{Day + 2*time.Hour, "1d 2h"},
		{Week + 2*Day, "1w 2d"},
		{30 * Day, "4w 2d"},
	}
	for _, tt := range tests {
		if got := Format(tt.in); got != tt.want {
			t.Errorf("Format(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestExpiresAt(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	spec, _ := Parse("1d")
	if got := spec.ExpiresAt(now); got == nil || !got.Equal(now.Add(Day)) {
		t.Errorf("ExpiresAt() = %v, want %v", got, now.Add(Day))
	}

	perm, _ := Parse("perm")
	if got := perm.ExpiresAt(now); got != nil {
		t.Errorf("ExpiresAt() = %v, want nil", got)
	}
}

func TestRemaining(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	if got := Remaining(now.Add(-time.Minute), now); got != "Expired" {
		t.Errorf("Remaining() = %v, want %v", got, "Expired")
	}
	if got := Remaining(now.Add(90*time.Minute), now); got != "1h 30m" {
		t.Errorf("Remaining() = %v, want %v", got, "1h 30m")
	}
}
