// Package mod - /ban and /unban commands
package mod

import (
	"context"
	"errors"

	"github.com/NewLifeSMP/NewLifeBotGo/internal/commands/cmdutil"
	"github.com/NewLifeSMP/NewLifeBotGo/internal/embeds"
	"github.com/NewLifeSMP/NewLifeBotGo/internal/moderation"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/discord"
)

// banCommand creates the /ban command
func (h *handlers) banCommand() *discord.Command {
	return discord.NewCommand("ban", "Ban a player and all of their linked accounts", "mod", func(ctx *discord.CommandContext) error {
		staff := cmdutil.Staff(ctx)
		req := moderation.BanRequest{
			Target:   ctx.GetStringOption("target"),
			Platform: ctx.GetStringOption("platform"),
			Reason:   ctx.GetStringOption("reason"),
			Duration: ctx.GetStringOption("duration"),
			Staff:    staff,
		}
		if u := ctx.GetUserOption("discord"); u != nil {
			req.DiscordTag = u.Username
		}

		return cmdutil.Deferred(ctx, false, "Ban Failed", func(c context.Context) error {
			res, err := h.Service.BanPlayer(c, req)
			if errors.Is(err, moderation.ErrAlreadyBanned) && res.Ban != nil {
				return ctx.EditReplyEmbed(embeds.Error("Already Banned", alreadyBannedMessage(res.Target.Profile.Name, res.Ban)))
			}
			if err != nil {
				return err
			}
			return ctx.EditReplyEmbed(banEmbed(res, staff.Tag))
		})
	}).WithOptions(
		cmdutil.StringOption("target", "Minecraft username or @mention", true),
		cmdutil.StringOption("reason", "Reason for the ban", true),
		cmdutil.StringOption("duration", "e.g. 1h, 7d, 30d or perm (default: permanent)", false),
		cmdutil.PlatformOption("Platform to look the player up on"),
		cmdutil.UserOption("discord", "Discord account to attach to the ban", false),
	)
}

// unbanCommand creates the /unban command
func (h *handlers) unbanCommand() *discord.Command {
	return discord.NewCommand("unban", "Lift every active ban covering a player", "mod", func(ctx *discord.CommandContext) error {
		staff := cmdutil.Staff(ctx)
		reason := ctx.GetStringOption("reason")
		if reason == "" {
			reason = "No reason provided"
		}
		req := moderation.UnbanRequest{
			Target:   ctx.GetStringOption("target"),
			Platform: ctx.GetStringOption("platform"),
			Reason:   reason,
			Staff:    staff,
		}
		return cmdutil.Deferred(ctx, false, "Unban Failed", func(c context.Context) error {
			res, err := h.Service.UnbanPlayer(c, req)
			if err != nil {
				return err
			}
			return ctx.EditReplyEmbed(unbanEmbed(res, reason, staff.Tag))
		})
	}).WithOptions(
		cmdutil.StringOption("target", "Minecraft username or @mention", true),
		cmdutil.StringOption("reason", "Reason for the unban", false),
		cmdutil.PlatformOption("Platform to look the player up on"),
	)
}
