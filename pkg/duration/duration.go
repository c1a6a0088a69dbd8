// Package duration parses and formats the punishment lengths staff type into
// commands ("30m", "7d", "1mo", "perm").
package duration

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Day, Week and Month follow the moderation conventions: a month is 30 days.
const (
	Day   = 24 * time.Hour
	Week  = 7 * Day
	Month = 30 * Day
)

var (
	// ErrInvalid is returned for input that is neither a permanent keyword
	// nor a number with an optional unit.
	ErrInvalid = errors.New("invalid duration")
	// ErrEmpty is returned for blank input.
	ErrEmpty = errors.New("empty duration")
)

var pattern = regexp.MustCompile(`^(\d+)(s|m|h|d|w|mo)?$`)

// Spec is a parsed duration.
type Spec struct {
	Duration  time.Duration
	Permanent bool
	Display   string
}

// ExpiresAt returns the expiry for a punishment starting at now, or nil when permanent.
func (s Spec) ExpiresAt(now time.Time) *time.Time {
	if s.Permanent {
		return nil
	}
	t := now.Add(s.Duration)
	return &t
}

// IsPermanentKeyword reports whether s is one of perm, permanent or forever.
func IsPermanentKeyword(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "perm", "permanent", "forever":
		return true
	}
	return false
}

// Parse parses a duration. A bare number is read as minutes.
func Parse(s string) (Spec, error) {
	input := strings.ToLower(strings.TrimSpace(s))
	if input == "" {
		return Spec{}, ErrEmpty
	}
	if IsPermanentKeyword(input) {
		return Spec{Permanent: true, Display: "Permanent"}, nil
	}

	m := pattern.FindStringSubmatch(input)
	if m == nil {
		return Spec{}, fmt.Errorf("%w: %q", ErrInvalid, s)
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return Spec{}, fmt.Errorf("%w: %q", ErrInvalid, s)
	}

	var unit time.Duration
	switch m[2] {
	case "s":
		unit = time.Second
	case "", "m":
		unit = time.Minute
	case "h":
		unit = time.Hour
	case "d":
		unit = Day
	case "w":
		unit = Week
	case "mo":
		unit = Month
	}

	d := time.Duration(n) * unit
	if n != 0 && d/unit != time.Duration(n) {
		return Spec{}, fmt.Errorf("%w: %q overflows", ErrInvalid, s)
	}
	return Spec{Duration: d, Display: Format(d)}, nil
}

// ParseOr parses s and falls back to def on any error.
func ParseOr(s string, def time.Duration) time.Duration {
	spec, err := Parse(s)
	if err != nil || spec.Permanent {
		return def
	}
	return spec.Duration
}

// Format renders d in short form with at most two units, e.g. "1w 2d" or "5m 3s".
func Format(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	seconds := int64(d / time.Second)
	minutes := seconds / 60
	hours := minutes / 60
	days := hours / 24
	weeks := days / 7

	switch {
	case weeks > 0:
		return fmt.Sprintf("%dw %dd", weeks, days%7)
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours%24)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes%60)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds%60)
	}
	return fmt.Sprintf("%ds", seconds)
}

// FormatPtr formats a possibly-permanent duration.
func FormatPtr(d *time.Duration) string {
	if d == nil {
		return "Permanent"
	}
	return Format(*d)
}

// Discord renders t as a Discord timestamp tag with the given style (R, F, f, D...).
func Discord(t time.Time, style string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), style)
}

// Relative renders t as a Discord relative timestamp.
func Relative(t time.Time) string {
	return Discord(t, "R")
}

// Remaining returns the time left until t, or "Expired".
func Remaining(t, now time.Time) string {
	if !t.After(now) {
		return "Expired"
	}
	return Format(t.Sub(now))
}
