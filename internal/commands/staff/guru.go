package staff

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/NewLifeSMP/NewLifeBotGo/internal/commands/cmdutil"
	"github.com/NewLifeSMP/NewLifeBotGo/internal/embeds"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/database"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/discord"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/guru"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/models"
)

var errNoGuru = errors.New("no guru given")

// guruTarget reads the user or mcname option. A Minecraft name is mapped to
// the Discord account it is linked to.
func (h *handlers) guruTarget(c context.Context, ctx *discord.CommandContext) (id, tag string, err error) {
	if u := ctx.GetUserOption("user"); u != nil {
		return u.ID, u.Username, nil
	}
	name := ctx.GetStringOption("mcname")
	if name == "" || h.Links == nil {
		return "", "", errNoGuru
	}
	acc, err := h.Links.FindByName(c, name)
	if err != nil {
		return "", "", err
	}
	tag = acc.DiscordID
	if u, uerr := ctx.Session.User(acc.DiscordID); uerr == nil {
		tag = u.Username
	}
	return acc.DiscordID, tag, nil
}

// guruTargetFailed renders the reply when guruTarget fails, or returns err
// for anything unexpected.
func guruTargetFailed(ctx *discord.CommandContext, err error) error {
	switch {
	case errors.Is(err, errNoGuru):
		return ctx.EditReply("Please provide either a Discord user or a Minecraft username.")
	case errors.Is(err, database.ErrNotFound):
		return ctx.EditReply(fmt.Sprintf("Could not find a Discord user linked to Minecraft name: **%s**", ctx.GetStringOption("mcname")))
	}
	return err
}

func guruTargetOptions() []*discordgo.ApplicationCommandOption {
	return []*discordgo.ApplicationCommandOption{
		cmdutil.UserOption("user", "Guru to look up", false),
		cmdutil.StringOption("mcname", "Minecraft name of the guru", false),
	}
}

// guruStatsCommand creates the /guru stats subcommand
func (h *handlers) guruStatsCommand() *discord.Command {
	return discord.NewCommand("stats", "This week's guru stats", "staff", func(ctx *discord.CommandContext) error {
		guildID := ctx.Interaction.GuildID
		return cmdutil.Deferred(ctx, true, "Guru Stats", func(c context.Context) error {
			start, end := guru.WeekBounds(h.Now())
			records, err := h.Guru.ListWeek(c, guildID, start)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				return ctx.EditReply("No guru activity recorded this week yet.")
			}
			e := embeds.GuruWeeklyReport(records, start, end)
			e.Title = "Current Week Guru Stats"
			return ctx.EditReplyEmbed(e)
		})
	})
}

// guruPerformanceCommand creates the /guru performance subcommand
func (h *handlers) guruPerformanceCommand() *discord.Command {
	return discord.NewCommand("performance", "A guru's performance this week", "staff", func(ctx *discord.CommandContext) error {
		return cmdutil.Deferred(ctx, true, "Guru Performance", func(c context.Context) error {
			id, tag, err := h.guruTarget(c, ctx)
			if err != nil {
				return guruTargetFailed(ctx, err)
			}
			start, _ := guru.WeekBounds(h.Now())
			rec, err := h.Guru.FindWeek(c, id, start)
			if errors.Is(err, database.ErrNotFound) || (err == nil && len(rec.Interactions) == 0) {
				return ctx.EditReply(fmt.Sprintf("No performance data for %s this week.", tag))
			}
			if err != nil {
				return err
			}
			return ctx.EditReplyEmbed(performanceEmbed(tag, rec))
		})
	}).WithOptions(guruTargetOptions()...)
}

func scoreColor(score int) int {
	switch {
	case score >= 70:
		return 0x57F287
	case score >= 50:
		return 0xFEE75C
	}
	return 0xED4245
}

func performanceEmbed(tag string, r *models.GuruPerformance) *discordgo.MessageEmbed {
	f := func(name, value string) *discordgo.MessageEmbedField {
		return &discordgo.MessageEmbedField{Name: name, Value: value, Inline: true}
	}
	e := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("%s - %s", tag, guru.Rating(r.PerformanceScore)),
		Color: scoreColor(r.PerformanceScore),
		Fields: []*discordgo.MessageEmbedField{
			f("Performance Score", fmt.Sprintf("%d/100", r.PerformanceScore)),
			f("Tickets Claimed", fmt.Sprintf("%d", r.TotalTicketsClaimed)),
			f("Whitelisted", fmt.Sprintf("%d", r.TotalWhitelisted)),
			f("Denied", fmt.Sprintf("%d", r.TotalDenied)),
			f("Abandoned", fmt.Sprintf("%d", r.TotalAbandoned)),
			f("Completion Rate", fmt.Sprintf("%.1f%%", r.CompletionRate)),
			f("Avg Response Time", guru.FormatResponseTime(r.AvgResponseTimeMs)),
			f("Fastest Response", guru.FormatResponseTime(float64(r.MinResponseTimeMs))),
			f("Slowest Response", guru.FormatResponseTime(float64(r.MaxResponseTimeMs))),
			f("Greeting Rate", fmt.Sprintf("%.1f%%", r.GreetingRate)),
			f("Payment", fmt.Sprintf("%d diamonds", r.RecommendedDiamonds)),
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: "NewLife SMP | Guru Performance"},
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if recent := recentActivity(r.Interactions, 5); recent != "" {
		e.Fields = append(e.Fields, &discordgo.MessageEmbedField{Name: "Recent Activity", Value: recent})
	}
	return e
}

// recentActivity lists the last n interactions, newest first.
func recentActivity(in []models.GuruInteraction, n int) string {
	var lines []string
	for i := len(in) - 1; i >= 0 && len(lines) < n; i-- {
		it := in[i]
		name := it.MCUsername
		if name == "" {
			name = "Unknown"
		}
		line := fmt.Sprintf("%s %s - %s", guru.OutcomeLabel(it.Outcome), name, guru.FormatResponseTime(float64(it.ResponseTimeMs)))
		if it.DidGreet {
			line += " [Greeted]"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// guruReportCommand creates the /guru report subcommand
func (h *handlers) guruReportCommand() *discord.Command {
	return discord.NewCommand("report", "Send last week's guru report now", "staff", func(ctx *discord.CommandContext) error {
		if h.GuruReport == nil {
			return ctx.ReplyEphemeral("The weekly guru report is not configured.")
		}
		return cmdutil.Deferred(ctx, true, "Guru Report", func(c context.Context) error {
			sent, err := h.GuruReport.Send(c)
			if err != nil {
				return err
			}
			if !sent {
				return ctx.EditReply("Nothing to send: last week has no unreported guru activity.")
			}
			return ctx.EditReply("Weekly report sent to your DMs.")
		})
	})
}

// guruHistoryCommand creates the /guru history subcommand
func (h *handlers) guruHistoryCommand() *discord.Command {
	return discord.NewCommand("history", "A guru's performance over past weeks", "staff", func(ctx *discord.CommandContext) error {
		weeks := ctx.GetIntOption("weeks")
		if weeks <= 0 {
			weeks = 4
		}
		guildID := ctx.Interaction.GuildID
		return cmdutil.Deferred(ctx, true, "Guru History", func(c context.Context) error {
			id, tag, err := h.guruTarget(c, ctx)
			if err != nil {
				return guruTargetFailed(ctx, err)
			}
			since := h.Now().Add(-time.Duration(weeks) * 7 * 24 * time.Hour)
			records, err := h.Guru.History(c, id, guildID, since)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				return ctx.EditReply(fmt.Sprintf("No history found for %s in the past %d weeks.", tag, weeks))
			}
			return ctx.EditReplyEmbed(historyEmbed(tag, records))
		})
	}).WithOptions(append(guruTargetOptions(), cmdutil.IntOption("weeks", "How many weeks back (default 4)", false))...)
}

func historyEmbed(tag string, records []models.GuruPerformance) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{
		Title:     tag + " - Performance History",
		Color:     embeds.ColorGuru,
		Timestamp: time.Now().Format(time.RFC3339),
	}
	for _, r := range records {
		if len(e.Fields) == 24 {
			break
		}
		e.Fields = append(e.Fields, &discordgo.MessageEmbedField{
			Name: fmt.Sprintf("Week of %s [%s]", r.WeekStart.Format("2006-01-02"), guru.Rating(r.PerformanceScore)),
			Value: fmt.Sprintf("Score: %d/100 | Whitelisted: %d | Payment: %d diamonds",
				r.PerformanceScore, r.TotalWhitelisted, r.RecommendedDiamonds),
		})
	}
	whitelists, _, diamonds := guru.Totals(records)
	e.Fields = append(e.Fields, &discordgo.MessageEmbedField{
		Name:  "Totals",
		Value: fmt.Sprintf("**Whitelists:** %d | **Diamonds:** %d", whitelists, diamonds),
	})
	e.Footer = &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Showing %d week(s) of data", len(records))}
	return e
}
