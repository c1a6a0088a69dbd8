package mod

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/NewLifeSMP/NewLifeBotGo/internal/commands/cmdutil"
	"github.com/NewLifeSMP/NewLifeBotGo/internal/embeds"
	"github.com/NewLifeSMP/NewLifeBotGo/internal/moderation"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/duration"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/models"
)

var severityColors = map[string]int{
	models.SeverityMinor:    0xFFFF00,
	models.SeverityModerate: 0xFFA500,
	models.SeveritySevere:   0xFF4444,
}

func caseLabel(n int64) string {
	if n <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%d", n)
}

func platformLabel(p string) string {
	if p == models.PlatformBedrock {
		return "Bedrock"
	}
	return "Java"
}

func accountList(accounts []models.LinkedAccount) string {
	lines := make([]string, 0, len(accounts))
	for _, a := range accounts {
		lines = append(lines, fmt.Sprintf("• %s (%s)", a.MinecraftUsername, a.Platform))
	}
	return strings.Join(lines, "\n")
}

// warningLine is one row of a player's warning list.
func warningLine(w models.Warning) string {
	status := "[Active]"
	if !w.Active {
		status = "[Removed]"
	}
	return fmt.Sprintf("%s `#%s` - %s (%s)", status, caseLabel(w.CaseNumber), embeds.Truncate(w.Reason, 40), duration.Relative(w.CreatedAt))
}

// memberWarningLine is one entry of a Discord member's warning list.
func memberWarningLine(w models.Warning) string {
	status := ""
	if !w.Active {
		status = " [REMOVED]"
	}
	return fmt.Sprintf("**#%s**%s - %s (%s)\n%s\n%s by %s",
		caseLabel(w.CaseNumber), status, embeds.Title(w.Severity), embeds.Title(w.Category),
		embeds.Truncate(w.Reason, 80), duration.Relative(w.CreatedAt), w.StaffName)
}

func serverBanLine(b models.ServerBan) string {
	status := "Active"
	if !b.Active {
		status = "Expired"
	}
	return fmt.Sprintf("**#%s** - %s [%s]\n%s | %s",
		caseLabel(b.CaseNumber), b.PrimaryUsername, status, embeds.Truncate(b.Reason, 50), duration.Relative(b.BannedAt))
}

func kickLine(k models.Kick) string {
	return fmt.Sprintf("**#%s** - %s\n%s | %s",
		caseLabel(k.CaseNumber), k.PrimaryUsername, embeds.Truncate(k.Reason, 50), duration.Relative(k.KickedAt))
}

func footer(text string) *discordgo.MessageEmbedFooter {
	return &discordgo.MessageEmbedFooter{Text: text}
}

func listEmbed(title string, color int, lines []string, footer string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Color:       color,
		Description: strings.Join(lines, "\n\n"),
		Footer:      &discordgo.MessageEmbedFooter{Text: footer},
		Timestamp:   time.Now().Format(time.RFC3339),
	}
}

func memberWarnEmbed(res moderation.WarnResult, by string) *discordgo.MessageEmbed {
	w := res.Warning
	color, ok := severityColors[w.Severity]
	if !ok {
		color = embeds.ColorWarning
	}
	e := &discordgo.MessageEmbed{
		Title: "⚠️ Warning Issued",
		Color: color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User", Value: fmt.Sprintf("%s (<@%s>)", w.DiscordTag, w.DiscordID), Inline: true},
			{Name: "Severity", Value: embeds.Title(w.Severity), Inline: true},
			{Name: "Category", Value: embeds.Title(w.Category), Inline: true},
			{Name: "Reason", Value: w.Reason},
			{Name: "Total Warnings", Value: fmt.Sprintf("%d", res.ActiveCount), Inline: true},
			{Name: "Notifications", Value: cmdutil.Step("DM", res.DM) + "\n" + cmdutil.Step("Log", res.Log), Inline: true},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Case #%s | Warned by %s", caseLabel(w.CaseNumber), by)},
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if w.PlayerName != "" {
		e.Fields = append(e.Fields, &discordgo.MessageEmbedField{
			Name:  "Minecraft Account",
			Value: fmt.Sprintf("**%s** (%s)", w.PlayerName, w.Platform),
		})
	}
	if n := len(w.WarnedUUIDs); n > 1 {
		e.Fields = append(e.Fields, &discordgo.MessageEmbedField{
			Name:  "Linked Accounts",
			Value: fmt.Sprintf("%d accounts covered", n),
		})
	}
	return e
}

func banEmbed(res moderation.BanResult, by string) *discordgo.MessageEmbed {
	b := res.Ban
	length := b.Duration
	if b.IsPermanent {
		length = "**Permanent**"
	}
	e := &discordgo.MessageEmbed{
		Title: "Player Banned",
		Color: 0xFF4444,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Player", Value: fmt.Sprintf("**%s**", b.PrimaryUsername), Inline: true},
			{Name: "Platform", Value: platformLabel(b.PrimaryPlatform), Inline: true},
			{Name: "Duration", Value: length, Inline: true},
			{Name: "Reason", Value: b.Reason},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Case #%s | Banned by %s", caseLabel(b.CaseNumber), by)},
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if b.DiscordID != "" {
		e.Fields = append(e.Fields, &discordgo.MessageEmbedField{Name: "Discord", Value: fmt.Sprintf("<@%s>", b.DiscordID)})
	}
	if len(res.Target.Linked) > 1 {
		e.Fields = append(e.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("Linked Accounts Banned (%d)", len(b.BannedUUIDs)),
			Value: accountList(res.Target.Linked),
		})
	}
	if !b.IsPermanent && b.ExpiresAt != nil {
		e.Fields = append(e.Fields, &discordgo.MessageEmbedField{Name: "Expires", Value: duration.Discord(*b.ExpiresAt, "F")})
	}
	steps := []string{cmdutil.Step("DM", res.DM), cmdutil.Step("Log", res.Log)}
	for _, k := range res.Kicks {
		steps = append(steps, cmdutil.Step("Kick "+k.Player, k.Result))
	}
	e.Fields = append(e.Fields, &discordgo.MessageEmbedField{Name: "Actions", Value: strings.Join(steps, "\n")})
	return e
}

func alreadyBannedMessage(name string, b *models.ServerBan) string {
	expires := "Never (Permanent)"
	if !b.IsPermanent && b.ExpiresAt != nil {
		expires = duration.Relative(*b.ExpiresAt)
	}
	return fmt.Sprintf("**%s** is already banned.\n**Reason:** %s\n**Expires:** %s", name, b.Reason, expires)
}

func unbanEmbed(res moderation.UnbanResult, reason, by string) *discordgo.MessageEmbed {
	lines := make([]string, 0, len(res.Bans))
	for _, b := range res.Bans {
		lines = append(lines, fmt.Sprintf("• Case #%s: %s", caseLabel(b.CaseNumber), embeds.Truncate(b.Reason, 60)))
	}
	return &discordgo.MessageEmbed{
		Title: "Player Unbanned",
		Color: embeds.ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Player", Value: fmt.Sprintf("**%s**", res.Target.Profile.Name), Inline: true},
			{Name: "Bans Lifted", Value: fmt.Sprintf("%d", len(res.Bans)), Inline: true},
			{Name: "Reason", Value: reason},
			{Name: "Cases", Value: strings.Join(lines, "\n")},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: "Unbanned by " + by},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

func kickEmbed(res moderation.KickResult, by string) *discordgo.MessageEmbed {
	k := res.Kick
	steps := []string{cmdutil.Step("Proxy kick", res.RCON)}
	for _, o := range res.Others {
		steps = append(steps, cmdutil.Step("Kick "+o.Player, o.Result))
	}
	steps = append(steps, cmdutil.Step("DM", res.DM), cmdutil.Step("Log", res.Log))
	e := &discordgo.MessageEmbed{
		Title: "Player Kicked",
		Color: embeds.ColorKick,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Player", Value: fmt.Sprintf("**%s**", k.PrimaryUsername), Inline: true},
			{Name: "Platform", Value: platformLabel(k.PrimaryPlatform), Inline: true},
			{Name: "Reason", Value: k.Reason},
			{Name: "Actions", Value: strings.Join(steps, "\n")},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Case #%s | Kicked by %s", caseLabel(k.CaseNumber), by)},
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if k.DiscordID != "" {
		e.Fields = append(e.Fields, &discordgo.MessageEmbedField{Name: "Discord", Value: fmt.Sprintf("<@%s>", k.DiscordID), Inline: true})
	}
	return e
}
