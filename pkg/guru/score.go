// Package guru scores whitelist gurus week by week and turns the score
// into a diamond pay recommendation.
package guru

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/NewLifeSMP/NewLifeBotGo/pkg/models"
)

// Score weights.
const (
	volumeWeight     = 0.30
	responseWeight   = 0.30
	greetingWeight   = 0.20
	completionWeight = 0.20

	diamondsPerWhitelist = 1
)

// WeekBounds returns the Sunday 00:00 UTC that starts t's week and the
// last millisecond of the following Saturday.
func WeekBounds(t time.Time) (start, end time.Time) {
	t = t.UTC()
	start = time.Date(t.Year(), t.Month(), t.Day()-int(t.Weekday()), 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 0, 7).Add(-time.Millisecond)
	return start, end
}

// LastWeekBounds returns the week before the one containing t.
func LastWeekBounds(t time.Time) (start, end time.Time) {
	start, end = WeekBounds(t)
	return start.AddDate(0, 0, -7), end.AddDate(0, 0, -7)
}

var greetingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(hi|hey|hello|welcome|greetings|howdy|hiya|heya)`),
	regexp.MustCompile(`(?i)good\s*(morning|afternoon|evening|day)`),
	regexp.MustCompile(`(?i)thanks?\s*for\s*(applying|your\s*application)`),
	regexp.MustCompile(`(?i)welcome\s*to`),
	regexp.MustCompile(`(?i)nice\s*to\s*meet`),
	regexp.MustCompile(`(?i)appreciate\s*(you|your)`),
}

// IsGreeting reports whether a message opens like a greeting.
func IsGreeting(content string) bool {
	content = strings.TrimSpace(content)
	if content == "" {
		return false
	}
	for _, p := range greetingPatterns {
		if p.MatchString(content) {
			return true
		}
	}
	return false
}

// Breakdown is the per-component score of one week.
type Breakdown struct {
	Volume     float64
	Response   float64
	Greeting   float64
	Completion float64
	Score      int
	Multiplier float64
	Base       int
	Recommend  int
	Min        int
	Max        int
}

// Compute scores a week from its totals.
func Compute(whitelisted int, avgResponseMs, greetingRate, completionRate float64) Breakdown {
	b := Breakdown{
		Volume:     math.Min(float64(whitelisted)*5, 100),
		Response:   responseScore(avgResponseMs / 60000),
		Greeting:   greetingRate,
		Completion: completionRate,
	}
	b.Score = int(math.Round(b.Volume*volumeWeight + b.Response*responseWeight +
		b.Greeting*greetingWeight + b.Completion*completionWeight))

	b.Multiplier = Multiplier(b.Score)
	b.Base = whitelisted * diamondsPerWhitelist
	b.Recommend = int(math.Round(float64(b.Base) * b.Multiplier))
	spread := int(math.Ceil(float64(b.Base) * 0.1))
	b.Min = max(0, b.Recommend-spread)
	b.Max = b.Recommend + spread
	return b
}

// responseScore is 100 up to five minutes and loses two points per minute after.
func responseScore(avgMinutes float64) float64 {
	if avgMinutes <= 5 {
		return 100
	}
	return math.Max(0, 100-(avgMinutes-5)*2)
}

// Multiplier maps a score onto the pay multiplier.
func Multiplier(score int) float64 {
	switch {
	case score >= 90:
		return 2.0
	case score >= 80:
		return 1.75
	case score >= 70:
		return 1.5
	case score >= 60:
		return 1.25
	case score >= 50:
		return 1.0
	case score >= 40:
		return 0.75
	default:
		return 0.5
	}
}

func Rating(score int) string {
	switch {
	case score >= 90:
		return "Excellent"
	case score >= 80:
		return "Great"
	case score >= 70:
		return "Good"
	case score >= 60:
		return "Satisfactory"
	case score >= 50:
		return "Average"
	default:
		return "Needs Improvement"
	}
}

func ResponseRating(avgMs float64) string {
	minutes := avgMs / 60000
	switch {
	case minutes <= 5:
		return "Excellent"
	case minutes <= 15:
		return "Great"
	case minutes <= 30:
		return "Good"
	case minutes <= 60:
		return "Needs Work"
	default:
		return "Slow"
	}
}

// FormatResponseTime renders milliseconds as "1h 5m", "4m 10s" or "12s".
func FormatResponseTime(ms float64) string {
	if ms <= 0 {
		return "N/A"
	}
	seconds := int64(ms) / 1000
	minutes := seconds / 60
	hours := minutes / 60
	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes%60)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds%60)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}

// Recalculate refreshes every aggregate of rec from its interactions.
func Recalculate(rec *models.GuruPerformance) {
	rec.TotalTicketsClaimed = len(rec.Interactions)
	rec.TotalWhitelisted, rec.TotalDenied, rec.TotalAbandoned, rec.TotalTransferred = 0, 0, 0, 0
	rec.GreetingCount = 0

	var total, minMs, maxMs int64
	responses := 0
	for _, in := range rec.Interactions {
		switch in.Outcome {
		case models.OutcomeWhitelisted:
			rec.TotalWhitelisted++
		case models.OutcomeDenied:
			rec.TotalDenied++
		case models.OutcomeAbandoned:
			rec.TotalAbandoned++
		case models.OutcomeTransferred:
			rec.TotalTransferred++
		}
		if in.DidGreet {
			rec.GreetingCount++
		}
		if in.ResponseTimeMs > 0 {
			if responses == 0 || in.ResponseTimeMs < minMs {
				minMs = in.ResponseTimeMs
			}
			if in.ResponseTimeMs > maxMs {
				maxMs = in.ResponseTimeMs
			}
			total += in.ResponseTimeMs
			responses++
		}
	}

	// Direct whitelists carry no response time and leave the timing stats alone.
	if responses > 0 {
		rec.TotalResponseTimeMs = total
		rec.ResponseCount = responses
		rec.AvgResponseTimeMs = float64(total) / float64(responses)
		rec.MinResponseTimeMs = minMs
		rec.MaxResponseTimeMs = maxMs
	}

	rec.GreetingRate = 0
	if n := len(rec.Interactions); n > 0 {
		rec.GreetingRate = float64(rec.GreetingCount) / float64(n) * 100
	}
	rec.CompletionRate = 0
	if open := rec.TotalTicketsClaimed - rec.TotalTransferred; open > 0 {
		rec.CompletionRate = float64(rec.TotalWhitelisted) / float64(open) * 100
	}

	b := Compute(rec.TotalWhitelisted, rec.AvgResponseTimeMs, rec.GreetingRate, rec.CompletionRate)
	rec.PerformanceScore = b.Score
	rec.RecommendedDiamonds = b.Recommend
	rec.DiamondRangeMin = b.Min
	rec.DiamondRangeMax = b.Max
}
