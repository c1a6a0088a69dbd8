package embeds

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/NewLifeSMP/NewLifeBotGo/pkg/database"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/guru"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/models"
)

const ColorGuru = 0x2B2D31

func RestartSucceeded(reason string, at time.Time) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "✅ Server Restart Successful",
		Description: "The Minecraft server has been restarted.",
		Color:       ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			field("Reason", reason, false),
			field("Time", fmt.Sprintf("<t:%d:F>", at.Unix()), false),
		},
		Timestamp: stamp(at),
	}
}

func RestartFailed(reason string, err error, at time.Time) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "❌ Server Restart Failed",
		Description: "The scheduled restart did not complete.",
		Color:       ColorError,
		Fields: []*discordgo.MessageEmbedField{
			field("Reason", reason, false),
			field("Error", "```"+Truncate(err.Error(), 1000)+"```", false),
		},
		Timestamp: stamp(at),
	}
}

// RestartStatus describes the restart schedule for /restartstatus.
func RestartStatus(scheduled bool, next time.Time, host string) *discordgo.MessageEmbed {
	status := "🔴 Not scheduled"
	nextRun := "—"
	if scheduled {
		status = "🟢 Active"
		if !next.IsZero() {
			nextRun = fmt.Sprintf("<t:%d:F> (<t:%d:R>)", next.Unix(), next.Unix())
		}
	}
	if host == "" {
		host = "Not configured"
	}
	return &discordgo.MessageEmbed{
		Title: "Server Restart Scheduler",
		Color: ColorInfo,
		Fields: []*discordgo.MessageEmbedField{
			field("Status", status, true),
			field("Next Restart", nextRun, true),
			field("RCON Host", host, true),
		},
		Timestamp: now(),
	}
}

// GuruWeeklyReport is the payment and performance summary for one week.
func GuruWeeklyReport(records []models.GuruPerformance, weekStart, weekEnd time.Time) *discordgo.MessageEmbed {
	whitelists, claimed, _ := guru.Totals(records)
	e := &discordgo.MessageEmbed{
		Title: "Weekly Guru Performance Report",
		Description: fmt.Sprintf("**Week:** %s to %s\n\n**Total Whitelists:** %d\n**Total Tickets Claimed:** %d\n**Active Gurus:** %d",
			weekStart.Format("2006-01-02"), weekEnd.Format("2006-01-02"), whitelists, claimed, len(records)),
		Color:     ColorGuru,
		Timestamp: now(),
	}
	if len(records) == 0 {
		e.Fields = append(e.Fields, field("No Activity", "No guru activity recorded this week.", false))
		return e
	}

	e.Fields = append(e.Fields, field("Payment Summary", guru.PaymentSummary(records), false))
	sorted := guru.SortByScore(records)
	if len(sorted) > 10 {
		sorted = sorted[:10]
	}
	for _, r := range sorted {
		name := fmt.Sprintf("%s [%s]", guru.DisplayName(r), guru.Rating(r.PerformanceScore))
		e.Fields = append(e.Fields, field(name, guru.StatLines(r), true))
	}
	e.Footer = &discordgo.MessageEmbedFooter{Text: "NewLife SMP | Guru Performance Tracking"}
	return e
}

// StaffActivityReport summarises a week of moderation. staffCount is the
// number of members holding the staff role, or -1 when unknown.
func StaffActivityReport(r *database.ActivityReport, staffCount int) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{
		Title:       "📊 Weekly Staff Activity Report",
		Description: "Staff moderation activity for the past 7 days",
		Color:       ColorReport,
		Fields: []*discordgo.MessageEmbedField{
			field("📋 Total Actions", fmt.Sprint(r.Total()), true),
			field("🚫 Bans", fmt.Sprint(r.Bans), true),
			field("👢 Kicks", fmt.Sprint(r.Kicks), true),
			field("⚠️ Warnings", fmt.Sprint(r.Warnings), true),
			field("🔇 Mutes", fmt.Sprint(r.Mutes), true),
			field("👥 Active Staff", fmt.Sprint(len(r.Staff)), true),
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: "NewLife SMP Staff Tracking"},
		Timestamp: now(),
	}

	if top := r.Top(10); len(top) > 0 {
		lines := make([]string, len(top))
		for i, s := range top {
			lines[i] = fmt.Sprintf("%d. **%s** - %d actions (%dB %dK %dW %dM)",
				i+1, s.StaffTag, s.Total(), s.Bans, s.Kicks, s.Warnings, s.Mutes)
		}
		e.Fields = append(e.Fields, field("🏆 Top Staff Members", strings.Join(lines, "\n"), false))
	}
	if staffCount >= 0 {
		inactive := staffCount - len(r.Staff)
		if inactive < 0 {
			inactive = 0
		}
		e.Fields = append(e.Fields, field("📈 Staff Statistics",
			fmt.Sprintf("Total Staff: %d\nActive (7d): %d\nInactive (7d): %d", staffCount, len(r.Staff), inactive), false))
	}
	return e
}
