// Package mod - /checkban, /banhistory, /recentbans and /bancase commands
package mod

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/NewLifeSMP/NewLifeBotGo/internal/commands/cmdutil"
	"github.com/NewLifeSMP/NewLifeBotGo/internal/embeds"
	"github.com/NewLifeSMP/NewLifeBotGo/internal/moderation"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/database"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/discord"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/duration"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/models"
)

// activeBan finds the ban covering the target, checking every linked uuid
// and finally the recorded username.
func (h *handlers) activeBan(c context.Context, target, platform string) (string, *models.ServerBan, error) {
	t, err := h.Service.Resolve(c, target, platform)
	if err != nil && !errors.Is(err, moderation.ErrPlayerNotFound) {
		return target, nil, err
	}
	if err == nil {
		for _, uuid := range t.UUIDs() {
			b, err := h.ServerBans.FindActive(c, uuid, h.Now())
			if err == nil {
				return t.Profile.Name, b, nil
			}
			if !errors.Is(err, database.ErrNotFound) {
				return t.Profile.Name, nil, err
			}
		}
		target = t.Profile.Name
	}
	b, err := h.ServerBans.FindActiveByUsername(c, target)
	return target, b, err
}

// checkBanCommand creates the /checkban command
func (h *handlers) checkBanCommand() *discord.Command {
	return discord.NewCommand("checkban", "Check whether a player is banned", "mod", func(ctx *discord.CommandContext) error {
		target := ctx.GetStringOption("target")
		platform := ctx.GetStringOption("platform")
		return cmdutil.Deferred(ctx, true, "Ban Check", func(c context.Context) error {
			name, ban, err := h.activeBan(c, target, platform)
			if errors.Is(err, database.ErrNotFound) {
				return ctx.EditReplyEmbed(embeds.Success("Not Banned", fmt.Sprintf("**%s** has no active ban.", name)))
			}
			if err != nil {
				return err
			}
			return ctx.EditReplyEmbed(embeds.ServerBanDetail(ban, h.Now()))
		})
	}).WithOptions(
		cmdutil.StringOption("target", "Minecraft username or @mention", true),
		cmdutil.PlatformOption("Platform to look the player up on"),
	)
}

// banHistoryCommand creates the /banhistory command
func (h *handlers) banHistoryCommand() *discord.Command {
	return discord.NewCommand("banhistory", "Show every ban a player has received", "mod", func(ctx *discord.CommandContext) error {
		target := ctx.GetStringOption("target")
		platform := ctx.GetStringOption("platform")
		return cmdutil.Deferred(ctx, true, "Ban History", func(c context.Context) error {
			name := target
			var bans []models.ServerBan
			t, err := h.Service.Resolve(c, target, platform)
			switch {
			case err == nil:
				name = t.Profile.Name
				bans, err = h.ServerBans.History(c, t.Profile.UUID, 25)
				if err != nil {
					return err
				}
			case !errors.Is(err, moderation.ErrPlayerNotFound):
				return err
			}
			if len(bans) == 0 {
				if bans, err = h.ServerBans.HistoryByUsername(c, name, 25); err != nil {
					return err
				}
			}
			var plugin []models.Ban
			if h.PluginBans != nil {
				if plugin, err = h.PluginBans.ListByPlayer(c, name, 10); err != nil {
					return err
				}
			}
			if len(bans) == 0 && len(plugin) == 0 {
				return ctx.EditReplyEmbed(embeds.Info("Ban History: "+name, fmt.Sprintf("No ban history found for **%s**.", name), embeds.ColorInfo))
			}
			return ctx.EditReplyEmbed(banHistoryEmbed(name, bans, plugin))
		})
	}).WithOptions(
		cmdutil.StringOption("target", "Minecraft username or @mention", true),
		cmdutil.PlatformOption("Platform to look the player up on"),
	)
}

func banHistoryEmbed(name string, bans []models.ServerBan, plugin []models.Ban) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{Title: "Ban History: " + name, Color: embeds.ColorBan}
	for _, b := range bans {
		status := "Active"
		if !b.Active {
			status = "Ended"
		}
		length := b.Duration
		if b.IsPermanent {
			length = "Permanent"
		}
		e.Fields = append(e.Fields, &discordgo.MessageEmbedField{
			Name: fmt.Sprintf("Case #%s [%s]", caseLabel(b.CaseNumber), status),
			Value: fmt.Sprintf("**Reason:** %s\n**Duration:** %s\n**Date:** %s\n**By:** %s",
				embeds.Truncate(b.Reason, 200), length, duration.Discord(b.BannedAt, "d"), b.StaffTag),
		})
	}
	if len(plugin) > 0 {
		lines := make([]string, 0, len(plugin))
		for _, b := range plugin {
			lines = append(lines, fmt.Sprintf("`#%s` %s (%s)", caseLabel(b.CaseNumber), embeds.Truncate(b.Reason, 60), duration.Discord(b.CreatedAt, "d")))
		}
		e.Fields = append(e.Fields, &discordgo.MessageEmbedField{Name: "In-game Bans", Value: embeds.Truncate(strings.Join(lines, "\n"), 1024)})
	}
	if len(e.Fields) > 25 {
		e.Fields = e.Fields[:25]
	}
	e.Footer = footer(fmt.Sprintf("%d server bans", len(bans)))
	return e
}

// recentBansCommand creates the /recentbans command
func (h *handlers) recentBansCommand() *discord.Command {
	return discord.NewCommand("recentbans", "List the most recent server bans", "mod", func(ctx *discord.CommandContext) error {
		n := cmdutil.Count(ctx.GetIntOption("count"), 10, 25)
		return cmdutil.Deferred(ctx, true, "Recent Bans", func(c context.Context) error {
			bans, err := h.ServerBans.Recent(c, n)
			if err != nil {
				return err
			}
			if len(bans) == 0 {
				return ctx.EditReplyEmbed(embeds.Info("Recent Bans", "No bans found.", embeds.ColorInfo))
			}
			lines := make([]string, 0, len(bans))
			for _, b := range bans {
				lines = append(lines, serverBanLine(b))
			}
			return ctx.EditReplyEmbed(listEmbed(fmt.Sprintf("Recent Bans (%d)", len(bans)), embeds.ColorBan, lines, "Use /bancase for details"))
		})
	}).WithOptions(cmdutil.IntOption("count", "How many to show (max 25)", false))
}

// banCaseCommand creates the /bancase command
//
// Server bans are looked up first; a reference that is not a server ban
// case is tried against the in-game ban records.
func (h *handlers) banCaseCommand() *discord.Command {
	return discord.NewCommand("bancase", "Look up a ban by case number", "mod", func(ctx *discord.CommandContext) error {
		ref := strings.TrimPrefix(strings.TrimSpace(ctx.GetStringOption("case")), "#")
		return cmdutil.Deferred(ctx, true, "Ban Case", func(c context.Context) error {
			if n, err := strconv.ParseInt(ref, 10, 64); err == nil {
				b, err := h.ServerBans.FindByCase(c, n)
				if err == nil {
					return ctx.EditReplyEmbed(embeds.ServerBanDetail(b, h.Now()))
				}
				if !errors.Is(err, database.ErrNotFound) {
					return err
				}
			}
			if h.PluginBans == nil {
				return ctx.EditReplyEmbed(embeds.Error("Ban Case", fmt.Sprintf("No ban found with case #%s.", ref)))
			}
			b, err := h.PluginBans.FindByCase(c, ref)
			if errors.Is(err, database.ErrNotFound) || errors.Is(err, database.ErrInvalidReference) {
				return ctx.EditReplyEmbed(embeds.Error("Ban Case", fmt.Sprintf("No ban found with case #%s.", ref)))
			}
			if err != nil {
				return err
			}
			return ctx.EditReplyEmbed(pluginBanEmbed(b))
		})
	}).WithOptions(cmdutil.StringOption("case", "Case number", true))
}

func pluginBanEmbed(b *models.Ban) *discordgo.MessageEmbed {
	status := "Active"
	if !b.Active {
		status = "Removed"
	}
	expires := "Never (Permanent)"
	if b.ExpiresAt != nil {
		expires = duration.Discord(*b.ExpiresAt, "F")
	}
	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("In-game Ban #%s", caseLabel(b.CaseNumber)),
		Color: embeds.ColorBan,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Player", Value: b.PlayerName, Inline: true},
			{Name: "Status", Value: status, Inline: true},
			{Name: "Staff", Value: b.StaffName, Inline: true},
			{Name: "Reason", Value: b.Reason},
			{Name: "Issued", Value: duration.Discord(b.CreatedAt, "F"), Inline: true},
			{Name: "Expires", Value: expires, Inline: true},
		},
	}
}
