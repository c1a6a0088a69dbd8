// Package mod - /mute and /unmute commands
package mod

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/NewLifeSMP/NewLifeBotGo/internal/commands/cmdutil"
	"github.com/NewLifeSMP/NewLifeBotGo/internal/embeds"
	"github.com/NewLifeSMP/NewLifeBotGo/internal/moderation"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/discord"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/duration"
)

// muteCommand creates the /mute command
func (h *handlers) muteCommand() *discord.Command {
	return discord.NewCommand("mute", "Time out a Discord member", "mod", func(ctx *discord.CommandContext) error {
		user := ctx.GetUserOption("user")
		if user == nil {
			return ctx.ReplyEphemeral("Could not find that user.")
		}
		if user.ID == ctx.User().ID {
			return ctx.ReplyEphemeral("You cannot mute yourself.")
		}
		staff := cmdutil.Staff(ctx)
		reason := ctx.GetStringOption("reason")
		if reason == "" {
			reason = "No reason provided"
		}
		req := moderation.MuteRequest{
			GuildID:    ctx.Interaction.GuildID,
			DiscordID:  user.ID,
			DiscordTag: user.Username,
			Duration:   ctx.GetStringOption("duration"),
			Reason:     reason,
			Staff:      staff,
		}
		return cmdutil.Deferred(ctx, false, "Mute Failed", func(c context.Context) error {
			res, err := h.Service.MuteMember(c, req)
			if err != nil {
				return err
			}
			m := res.Mute
			e := &discordgo.MessageEmbed{
				Title: "Member Muted",
				Color: embeds.ColorMute,
				Fields: []*discordgo.MessageEmbedField{
					{Name: "User", Value: fmt.Sprintf("%s (<@%s>)", m.DiscordTag, m.DiscordID), Inline: true},
					{Name: "Duration", Value: m.Duration, Inline: true},
					{Name: "Reason", Value: m.Reason},
					{Name: "Notifications", Value: cmdutil.Step("DM", res.DM) + "\n" + cmdutil.Step("Log", res.Log)},
				},
				Footer: footer(fmt.Sprintf("Case #%s | Muted by %s", caseLabel(m.CaseNumber), staff.Tag)),
			}
			if m.ExpiresAt != nil {
				e.Fields = append(e.Fields, &discordgo.MessageEmbedField{Name: "Expires", Value: duration.Relative(*m.ExpiresAt), Inline: true})
			}
			if m.PlayerName != "" {
				e.Fields = append(e.Fields, &discordgo.MessageEmbedField{Name: "Minecraft Account", Value: m.PlayerName, Inline: true})
			}
			return ctx.EditReplyEmbed(e)
		})
	}).WithOptions(
		cmdutil.UserOption("user", "Member to mute", true),
		cmdutil.StringOption("duration", "e.g. 10m, 1h, 1d (default 1h, max 28d)", false),
		cmdutil.StringOption("reason", "Reason for the mute", false),
	).WithBotPermissions(discordgo.PermissionModerateMembers)
}

// unmuteCommand creates the /unmute command
func (h *handlers) unmuteCommand() *discord.Command {
	return discord.NewCommand("unmute", "Remove a member's timeout", "mod", func(ctx *discord.CommandContext) error {
		user := ctx.GetUserOption("user")
		if user == nil {
			return ctx.ReplyEphemeral("Could not find that user.")
		}
		staff := cmdutil.Staff(ctx)
		req := moderation.UnmuteRequest{GuildID: ctx.Interaction.GuildID, DiscordID: user.ID, Staff: staff}
		return cmdutil.Deferred(ctx, false, "Unmute Failed", func(c context.Context) error {
			res, err := h.Service.UnmuteMember(c, req)
			if err != nil {
				return err
			}
			desc := fmt.Sprintf("<@%s> is no longer muted.", user.ID)
			if res.Mute != nil {
				desc += fmt.Sprintf("\n**Original Reason:** %s", res.Mute.Reason)
			}
			e := embeds.Success("Member Unmuted", desc+"\n\n"+cmdutil.Step("Log", res.Log))
			e.Footer = footer("Unmuted by " + staff.Tag)
			return ctx.EditReplyEmbed(e)
		})
	}).WithOptions(cmdutil.UserOption("user", "Member to unmute", true)).
		WithBotPermissions(discordgo.PermissionModerateMembers)
}
