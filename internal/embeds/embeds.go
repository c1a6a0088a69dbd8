// Package embeds builds the Discord embeds shared by commands, DMs and the
// log channel.
package embeds

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/NewLifeSMP/NewLifeBotGo/pkg/duration"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/models"
)

// Colors.
const (
	ColorSuccess = 0x57F287
	ColorError   = 0xED4245
	ColorWarning = 0xFFA500
	ColorBan     = 0xFF0000
	ColorKick    = 0xFFA500
	ColorMute    = 0xFF9900
	ColorInfo    = 0x5865F2
	ColorReport  = 0x10B981
)

// AppealFooter is shown on every punishment DM.
const AppealFooter = "NewLife SMP | Appeal at discord.gg/newlife"

func now() string { return time.Now().Format(time.RFC3339) }

func stamp(t time.Time) string { return t.Format(time.RFC3339) }

func field(name, value string, inline bool) *discordgo.MessageEmbedField {
	if value == "" {
		value = "—"
	}
	return &discordgo.MessageEmbedField{Name: name, Value: Truncate(value, 1024), Inline: inline}
}

// Truncate cuts s to n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// Title upper-cases the first letter of s.
func Title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func caseRef(n int64, id string) string {
	num := "—"
	if n > 0 {
		num = fmt.Sprintf("%d", n)
	}
	if id == "" {
		return "#" + num
	}
	return fmt.Sprintf("#%s \n`%s`", num, id)
}

func reasonOr(s string) string {
	if strings.TrimSpace(s) == "" {
		return "No reason provided"
	}
	return s
}

func Success(title, description string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{Title: "✅ " + title, Description: description, Color: ColorSuccess, Timestamp: now()}
}

func Error(title, description string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{Title: "❌ " + title, Description: description, Color: ColorError, Timestamp: now()}
}

func Info(title, description string, color int) *discordgo.MessageEmbed {
	if color == 0 {
		color = ColorInfo
	}
	return &discordgo.MessageEmbed{Title: title, Description: description, Color: color, Timestamp: now()}
}

// WarningDM is sent to a warned player.
func WarningDM(w *models.Warning) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{
		Title:       "You have been warned on NewLife SMP",
		Description: "You have received a warning from the staff team.",
		Color:       ColorWarning,
		Fields: []*discordgo.MessageEmbedField{
			field("Reason", reasonOr(w.Reason), false),
			field("Issued By", w.StaffName, true),
			field("Date", duration.Discord(w.CreatedAt, "F"), true),
			field("Case", caseRef(w.CaseNumber, w.ID), false),
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: "NewLife SMP | Please follow the server rules"},
		Timestamp: now(),
	}
	if w.Severity != "" {
		e.Fields = append(e.Fields,
			field("Severity", Title(w.Severity), true),
			field("Category", Title(w.Category), true))
	}
	return e
}

// WarningLog is posted to the log channel.
func WarningLog(w *models.Warning) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{
		Title: "Warning Issued",
		Color: ColorWarning,
		Fields: []*discordgo.MessageEmbedField{
			field("Player", w.Target(), true),
			field("Staff", w.StaffName, true),
			field("Case", caseRef(w.CaseNumber, w.ID), true),
			field("Reason", reasonOr(w.Reason), false),
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: "NewLife Management | Warning Log"},
		Timestamp: stamp(w.CreatedAt),
	}
	if w.DiscordID != "" {
		e.Fields = append(e.Fields, field("Discord", fmt.Sprintf("<@%s>", w.DiscordID), true))
	}
	return e
}

// WarningDetail renders one warning for /warn case.
func WarningDetail(w *models.Warning) *discordgo.MessageEmbed {
	status := "Active"
	color := ColorWarning
	if !w.Active {
		status = "Removed"
		color = 0x808080
	}
	e := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Warning Case #%d", w.CaseNumber),
		Color: color,
		Fields: []*discordgo.MessageEmbedField{
			field("Player", w.Target(), true),
			field("Staff", w.StaffName, true),
			field("Status", status, true),
			field("Reason", reasonOr(w.Reason), false),
			field("Issued", duration.Discord(w.CreatedAt, "F"), true),
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: "ID: " + w.ID},
		Timestamp: stamp(w.CreatedAt),
	}
	if !w.Active && w.RemovedBy != "" {
		by := w.RemovedByTag
		if by == "" {
			by = w.RemovedBy
		}
		e.Fields = append(e.Fields, field("Removed By", by, true))
		if w.RemoveReason != "" {
			e.Fields = append(e.Fields, field("Remove Reason", w.RemoveReason, false))
		}
	}
	return e
}

// BanDM is sent for a plugin-level ban record.
func BanDM(b *models.Ban) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{
		Title:       "You have been banned from NewLife SMP",
		Description: "You have been banned from the server.",
		Color:       ColorBan,
		Fields: []*discordgo.MessageEmbedField{
			field("Reason", reasonOr(b.Reason), false),
			field("Banned By", b.StaffName, true),
			field("Date", duration.Discord(b.CreatedAt, "F"), true),
			field("Case", caseRef(b.CaseNumber, b.ID), false),
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: AppealFooter},
		Timestamp: now(),
	}
	if b.ExpiresAt != nil {
		e.Fields = append(e.Fields, field("Expires", duration.Relative(*b.ExpiresAt), true))
	}
	return e
}

func BanLog(b *models.Ban) *discordgo.MessageEmbed {
	length := "Permanent"
	if b.ExpiresAt != nil {
		length = "Expires " + duration.Relative(*b.ExpiresAt)
	}
	return &discordgo.MessageEmbed{
		Title: "Ban Issued",
		Color: ColorBan,
		Fields: []*discordgo.MessageEmbedField{
			field("Player", b.PlayerName, true),
			field("Staff", b.StaffName, true),
			field("Case", caseRef(b.CaseNumber, b.ID), true),
			field("Reason", reasonOr(b.Reason), false),
			field("Duration", length, true),
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: "NewLife Management | Ban Log"},
		Timestamp: stamp(b.CreatedAt),
	}
}

// ServerBanDM is sent to the Discord account behind a server ban.
func ServerBanDM(b *models.ServerBan) *discordgo.MessageEmbed {
	length := b.Duration
	if b.IsPermanent {
		length = "Permanent"
	}
	e := &discordgo.MessageEmbed{
		Title:       "You have been banned from NewLife SMP",
		Description: "Your Minecraft accounts have been banned from the server.",
		Color:       ColorBan,
		Fields: []*discordgo.MessageEmbedField{
			field("Reason", reasonOr(b.Reason), false),
			field("Duration", length, true),
			field("Banned At", duration.Discord(b.BannedAt, "F"), true),
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: AppealFooter},
		Timestamp: now(),
	}
	if !b.IsPermanent && b.ExpiresAt != nil {
		e.Fields = append(e.Fields, field("Expires", duration.Relative(*b.ExpiresAt), true))
	}
	return e
}

func platformLabel(p string) string {
	if p == models.PlatformBedrock {
		return "Bedrock"
	}
	return "Java"
}

func linkedList(accounts []models.LinkedAccount) string {
	lines := make([]string, 0, len(accounts))
	for _, a := range accounts {
		lines = append(lines, fmt.Sprintf("• %s (%s)", a.MinecraftUsername, a.Platform))
	}
	return strings.Join(lines, "\n")
}

// ServerBanLog is posted when a server ban is created.
func ServerBanLog(b *models.ServerBan, linked []models.LinkedAccount) *discordgo.MessageEmbed {
	length := b.Duration
	if b.IsPermanent {
		length = "**Permanent**"
	}
	e := &discordgo.MessageEmbed{
		Title: "🔨 Player Banned",
		Color: ColorBan,
		Fields: []*discordgo.MessageEmbedField{
			field("Player", fmt.Sprintf("**%s**\n`%s`", b.PrimaryUsername, b.PrimaryUUID), true),
			field("Platform", platformLabel(b.PrimaryPlatform), true),
			field("Banned By", fmt.Sprintf("<@%s>", b.StaffID), true),
			field("Reason", reasonOr(b.Reason), false),
			field("Duration", length, true),
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Case #%d", b.CaseNumber)},
		Timestamp: stamp(b.BannedAt),
	}
	if b.DiscordID != "" {
		e.Fields = append(e.Fields, field("Discord", fmt.Sprintf("<@%s>", b.DiscordID), true))
	}
	if !b.IsPermanent && b.ExpiresAt != nil {
		e.Fields = append(e.Fields, field("Expires", duration.Relative(*b.ExpiresAt), true))
	}
	if len(linked) > 1 {
		e.Fields = append(e.Fields, field(fmt.Sprintf("Linked Accounts (%d)", len(linked)), linkedList(linked), false))
	}
	return e
}

// ServerBanDetail renders a ban for /checkban and /bancase.
func ServerBanDetail(b *models.ServerBan, at time.Time) *discordgo.MessageEmbed {
	length := b.Duration
	if b.IsPermanent {
		length = "**Permanent**"
	}
	status, color := "🔴 Active", ColorBan
	if !b.Active {
		status, color = "🟢 Lifted", ColorSuccess
	}
	by := b.StaffTag
	if by == "" {
		by = fmt.Sprintf("<@%s>", b.StaffID)
	}
	e := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Ban Case #%d", b.CaseNumber),
		Color: color,
		Fields: []*discordgo.MessageEmbedField{
			field("Player", fmt.Sprintf("**%s**", b.PrimaryUsername), true),
			field("Platform", platformLabel(b.PrimaryPlatform), true),
			field("Status", status, true),
			field("Reason", reasonOr(b.Reason), false),
			field("Duration", length, true),
			field("Banned By", by, true),
			field("Banned At", duration.Discord(b.BannedAt, "F"), false),
		},
		Timestamp: stamp(b.BannedAt),
	}
	if b.Active && !b.IsPermanent && b.ExpiresAt != nil {
		e.Fields = append(e.Fields, field("Expires", fmt.Sprintf("%s (%s left)", duration.Relative(*b.ExpiresAt), b.Remaining(at)), true))
	}
	if b.DiscordID != "" {
		e.Fields = append(e.Fields, field("Discord", fmt.Sprintf("<@%s>", b.DiscordID), true))
	}
	if !b.Active && b.UnbannedBy != "" {
		e.Fields = append(e.Fields, field("Unbanned By", fmt.Sprintf("<@%s>", b.UnbannedBy), true))
		if b.UnbanReason != "" {
			e.Fields = append(e.Fields, field("Unban Reason", b.UnbanReason, false))
		}
	}
	return e
}

func UnbanLog(b *models.ServerBan) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{
		Title: "✅ Player Unbanned",
		Color: ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			field("Player", fmt.Sprintf("**%s**", b.PrimaryUsername), true),
			field("Unbanned By", fmt.Sprintf("<@%s>", b.UnbannedBy), true),
			field("Original Reason", reasonOr(b.Reason), false),
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Case #%d", b.CaseNumber)},
		Timestamp: now(),
	}
	if b.UnbanReason != "" {
		e.Fields = append(e.Fields, field("Unban Reason", b.UnbanReason, false))
	}
	return e
}

func KickDM(k *models.Kick) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "You have been kicked from NewLife SMP",
		Description: "You have been kicked from the server. You may rejoin.",
		Color:       ColorKick,
		Fields: []*discordgo.MessageEmbedField{
			field("Reason", reasonOr(k.Reason), false),
			field("Kicked At", duration.Discord(k.KickedAt, "F"), true),
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: "NewLife SMP | Please follow the server rules"},
		Timestamp: now(),
	}
}

func KickLog(k *models.Kick, linked []models.LinkedAccount) *discordgo.MessageEmbed {
	rcon := "Success"
	if !k.RCONExecuted {
		rcon = "Failed"
	}
	e := &discordgo.MessageEmbed{
		Title: "👢 Player Kicked",
		Color: ColorKick,
		Fields: []*discordgo.MessageEmbedField{
			field("Player", fmt.Sprintf("**%s**\n`%s`", k.PrimaryUsername, k.PrimaryUUID), true),
			field("Platform", platformLabel(k.PrimaryPlatform), true),
			field("Kicked By", fmt.Sprintf("<@%s>", k.StaffID), true),
			field("Reason", reasonOr(k.Reason), false),
			field("RCON", rcon, true),
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Case #%d", k.CaseNumber)},
		Timestamp: stamp(k.KickedAt),
	}
	if k.DiscordID != "" {
		e.Fields = append(e.Fields, field("Discord", fmt.Sprintf("<@%s>", k.DiscordID), true))
	}
	if len(linked) > 1 {
		e.Fields = append(e.Fields, field(fmt.Sprintf("Linked Accounts (%d)", len(linked)), linkedList(linked), false))
	}
	return e
}

func MuteDM(m *models.Mute) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{
		Title:       "You have been muted on NewLife SMP",
		Description: "You have been timed out in the NewLife SMP Discord.",
		Color:       ColorMute,
		Fields: []*discordgo.MessageEmbedField{
			field("Reason", reasonOr(m.Reason), false),
			field("Duration", m.Duration, true),
			field("Case", caseRef(m.CaseNumber, ""), true),
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: AppealFooter},
		Timestamp: now(),
	}
	if m.ExpiresAt != nil {
		e.Fields = append(e.Fields, field("Expires", duration.Relative(*m.ExpiresAt), true))
	}
	return e
}

func MuteLog(m *models.Mute) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "🔇 Member Muted",
		Color: ColorMute,
		Fields: []*discordgo.MessageEmbedField{
			field("Member", fmt.Sprintf("<@%s> (%s)", m.DiscordID, m.DiscordTag), true),
			field("Staff", fmt.Sprintf("<@%s>", m.StaffID), true),
			field("Duration", m.Duration, true),
			field("Reason", reasonOr(m.Reason), false),
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Case #%d", m.CaseNumber)},
		Timestamp: stamp(m.CreatedAt),
	}
}

func UnmuteLog(m *models.Mute) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "🔊 Member Unmuted",
		Color: ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			field("Member", fmt.Sprintf("<@%s>", m.DiscordID), true),
			field("Unmuted By", fmt.Sprintf("<@%s>", m.UnmutedBy), true),
			field("Original Reason", reasonOr(m.Reason), false),
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Case #%d", m.CaseNumber)},
		Timestamp: now(),
	}
}

func FineDM(f *models.Fine) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{
		Title:       "You have been fined on NewLife SMP",
		Description: "A fine has been issued to you by the staff team.",
		Color:       ColorWarning,
		Fields: []*discordgo.MessageEmbedField{
			field("Amount", f.Amount, true),
			field("Case", caseRef(f.CaseNumber, ""), true),
			field("Issued By", f.StaffName, true),
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: "NewLife SMP | Pay your fine in-game"},
		Timestamp: now(),
	}
	if f.DueAt != nil {
		e.Fields = append(e.Fields, field("Due", duration.Relative(*f.DueAt), true))
	}
	return e
}

func FineLog(f *models.Fine) *discordgo.MessageEmbed {
	due := "No due date"
	if f.DueAt != nil {
		due = duration.Discord(*f.DueAt, "F")
	}
	return &discordgo.MessageEmbed{
		Title: "💰 Fine Issued",
		Color: ColorWarning,
		Fields: []*discordgo.MessageEmbedField{
			field("Player", f.PlayerName, true),
			field("Amount", f.Amount, true),
			field("Staff", f.StaffName, true),
			field("Due", due, false),
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Case #%d | %s", f.CaseNumber, f.ID)},
		Timestamp: stamp(f.CreatedAt),
	}
}

func InfractionDM(inf *models.Infraction, guildName string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Staff %s", inf.Type.Label()),
		Description: fmt.Sprintf("You have received a staff infraction in **%s**.", guildName),
		Color:       inf.Type.Color(),
		Fields: []*discordgo.MessageEmbedField{
			field("Type", inf.Type.Label(), true),
			field("Case", caseRef(inf.CaseNumber, ""), true),
			field("Reason", reasonOr(inf.Reason), false),
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: "NewLife Management"},
		Timestamp: now(),
	}
}

func InfractionLog(inf *models.Infraction) *discordgo.MessageEmbed {
	issuer := inf.IssuerTag
	if inf.IssuerNickname != "" {
		issuer = inf.IssuerNickname
	}
	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Staff Infraction | %s", inf.Type.Label()),
		Color: inf.Type.Color(),
		Fields: []*discordgo.MessageEmbedField{
			field("Staff Member", fmt.Sprintf("<@%s>", inf.TargetID), true),
			field("Issued By", issuer, true),
			field("Case", caseRef(inf.CaseNumber, ""), true),
			field("Reason", reasonOr(inf.Reason), false),
		},
		Timestamp: stamp(inf.CreatedAt),
	}
}
