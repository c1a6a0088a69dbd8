package guru

import (
	"fmt"
	"sort"
	"strings"

	"github.com/NewLifeSMP/NewLifeBotGo/pkg/models"
)

// Totals sums whitelists, claimed tickets and recommended diamonds.
func Totals(records []models.GuruPerformance) (whitelists, claimed, diamonds int) {
	for _, r := range records {
		whitelists += r.TotalWhitelisted
		claimed += r.TotalTicketsClaimed
		diamonds += r.RecommendedDiamonds
	}
	return whitelists, claimed, diamonds
}

// SortByScore orders records best first.
func SortByScore(records []models.GuruPerformance) []models.GuruPerformance {
	out := append([]models.GuruPerformance(nil), records...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PerformanceScore > out[j].PerformanceScore
	})
	return out
}

// DisplayName returns the tag, or the ID when no tag was recorded.
func DisplayName(r models.GuruPerformance) string {
	if r.GuruTag != "" {
		return r.GuruTag
	}
	return r.GuruID
}

// PaymentSummary renders the pay table as a code block.
func PaymentSummary(records []models.GuruPerformance) string {
	var b strings.Builder
	rule := strings.Repeat("-", 36)
	b.WriteString("```\n")
	fmt.Fprintf(&b, "%-24s  %10s\n", "GURU", "DIAMONDS")
	b.WriteString(rule + "\n")

	total := 0
	for _, r := range SortByScore(records) {
		name := DisplayName(r)
		if len(name) > 24 {
			name = name[:24]
		}
		fmt.Fprintf(&b, "%-24s  %10d\n", name, r.RecommendedDiamonds)
		total += r.RecommendedDiamonds
	}

	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "%-24s  %10d\n", "TOTAL", total)
	b.WriteString("```")
	return b.String()
}

// StatLines is the per-guru block of the weekly report.
func StatLines(r models.GuruPerformance) string {
	return strings.Join([]string{
		fmt.Sprintf("Score: %d/100", r.PerformanceScore),
		fmt.Sprintf("Whitelisted: %d | Denied: %d", r.TotalWhitelisted, r.TotalDenied),
		fmt.Sprintf("Avg Response: %s (%s)", FormatResponseTime(r.AvgResponseTimeMs), ResponseRating(r.AvgResponseTimeMs)),
		fmt.Sprintf("Greeting Rate: %.0f%%", r.GreetingRate),
		fmt.Sprintf("**Payment: %d diamonds**", r.RecommendedDiamonds),
	}, "\n")
}

// OutcomeLabel renders an interaction outcome for the recent activity list.
func OutcomeLabel(o models.Outcome) string {
	switch o {
	case models.OutcomeWhitelisted:
		return "[Approved]"
	case models.OutcomeDenied:
		return "[Denied]"
	case models.OutcomeAbandoned:
		return "[Abandoned]"
	case models.OutcomeTransferred:
		return "[Transferred]"
	default:
		return "[Pending]"
	}
}
