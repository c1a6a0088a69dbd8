// Package mod - /kick, /recentkicks and /kickhistory commands
package mod

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/NewLifeSMP/NewLifeBotGo/internal/commands/cmdutil"
	"github.com/NewLifeSMP/NewLifeBotGo/internal/embeds"
	"github.com/NewLifeSMP/NewLifeBotGo/internal/moderation"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/discord"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/duration"
)

// kickCommand creates the /kick command
func (h *handlers) kickCommand() *discord.Command {
	return discord.NewCommand("kick", "Kick a player and their linked accounts from the server", "mod", func(ctx *discord.CommandContext) error {
		staff := cmdutil.Staff(ctx)
		req := moderation.KickRequest{
			Target:   ctx.GetStringOption("target"),
			Platform: ctx.GetStringOption("platform"),
			Reason:   ctx.GetStringOption("reason"),
			Staff:    staff,
		}
		if u := ctx.GetUserOption("discord"); u != nil {
			req.DiscordTag = u.Username
		}
		return cmdutil.Deferred(ctx, false, "Kick Failed", func(c context.Context) error {
			res, err := h.Service.KickPlayer(c, req)
			if err != nil {
				return err
			}
			return ctx.EditReplyEmbed(kickEmbed(res, staff.Tag))
		})
	}).WithOptions(
		cmdutil.StringOption("target", "Minecraft username or @mention", true),
		cmdutil.StringOption("reason", "Reason for the kick", true),
		cmdutil.PlatformOption("Platform to look the player up on"),
		cmdutil.UserOption("discord", "Discord account to attach to the kick", false),
	)
}

// recentKicksCommand creates the /recentkicks command
func (h *handlers) recentKicksCommand() *discord.Command {
	return discord.NewCommand("recentkicks", "List the most recent kicks", "mod", func(ctx *discord.CommandContext) error {
		n := cmdutil.Count(ctx.GetIntOption("count"), 10, 25)
		return cmdutil.Deferred(ctx, true, "Recent Kicks", func(c context.Context) error {
			kicks, err := h.Kicks.Recent(c, n)
			if err != nil {
				return err
			}
			if len(kicks) == 0 {
				return ctx.EditReplyEmbed(embeds.Info("Recent Kicks", "No kicks found.", embeds.ColorInfo))
			}
			lines := make([]string, 0, len(kicks))
			for _, k := range kicks {
				lines = append(lines, kickLine(k))
			}
			return ctx.EditReplyEmbed(listEmbed(fmt.Sprintf("Recent Kicks (%d)", len(kicks)), embeds.ColorKick, lines, "Use /kickhistory for a player's kicks"))
		})
	}).WithOptions(cmdutil.IntOption("count", "How many to show (max 25)", false))
}

// kickHistoryCommand creates the /kickhistory command
func (h *handlers) kickHistoryCommand() *discord.Command {
	return discord.NewCommand("kickhistory", "Show every kick a player has received", "mod", func(ctx *discord.CommandContext) error {
		target := ctx.GetStringOption("target")
		platform := ctx.GetStringOption("platform")
		return cmdutil.Deferred(ctx, true, "Kick History", func(c context.Context) error {
			name, uuid := target, ""
			t, err := h.Service.Resolve(c, target, platform)
			switch {
			case err == nil:
				name, uuid = t.Profile.Name, t.Profile.UUID
			case !errors.Is(err, moderation.ErrPlayerNotFound):
				return err
			}
			kicks, err := h.Kicks.History(c, uuid, name, 10)
			if err != nil {
				return err
			}
			if len(kicks) == 0 {
				return ctx.EditReplyEmbed(embeds.Info("Kick History", fmt.Sprintf("No kick history found for **%s**.", name), embeds.ColorInfo))
			}
			e := &discordgo.MessageEmbed{Title: "Kick History: " + name, Color: embeds.ColorKick}
			for _, k := range kicks {
				e.Fields = append(e.Fields, &discordgo.MessageEmbedField{
					Name: "Case #" + caseLabel(k.CaseNumber),
					Value: fmt.Sprintf("**Reason:** %s\n**Date:** %s\n**By:** %s",
						embeds.Truncate(k.Reason, 200), duration.Discord(k.KickedAt, "d"), k.StaffTag),
				})
			}
			e.Footer = footer(fmt.Sprintf("%d kicks", len(kicks)))
			return ctx.EditReplyEmbed(e)
		})
	}).WithOptions(
		cmdutil.StringOption("target", "Minecraft username or @mention", true),
		cmdutil.PlatformOption("Platform to look the player up on"),
	)
}
