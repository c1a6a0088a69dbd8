// Package mod - warning listing commands
package mod

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/NewLifeSMP/NewLifeBotGo/internal/commands/cmdutil"
	"github.com/NewLifeSMP/NewLifeBotGo/internal/embeds"
	"github.com/NewLifeSMP/NewLifeBotGo/internal/moderation"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/discord"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/models"
)

const warningsPerPage = 10

// warningsCommand creates the /warnings command
//
// target is a player name, or a mention or user ID to list a member's
// warnings across all of their accounts.
func (h *handlers) warningsCommand() *discord.Command {
	return discord.NewCommand("warnings", "List the warnings of a player or Discord member", "mod", func(ctx *discord.CommandContext) error {
		target := ctx.GetStringOption("target")
		page := ctx.GetIntOption("page")
		includeRemoved := ctx.GetBoolOption("include_removed")

		return cmdutil.Deferred(ctx, true, "Warnings", func(c context.Context) error {
			if id, ok := moderation.DiscordID(target); ok {
				return h.memberWarnings(c, ctx, id, includeRemoved)
			}
			return h.playerWarnings(c, ctx, target, page)
		})
	}).WithOptions(
		cmdutil.StringOption("target", "Minecraft username, @mention or Discord user ID", true),
		cmdutil.IntOption("page", "Page number", false),
		cmdutil.BoolOption("include_removed", "Include removed warnings (members only)", false),
	)
}

func (h *handlers) playerWarnings(c context.Context, ctx *discord.CommandContext, name string, page int64) error {
	p := int(page)
	if p < 1 {
		p = 1
	}
	list, total, err := h.Warnings.ListByPlayer(c, name, p, warningsPerPage)
	if err != nil {
		return err
	}
	if total == 0 {
		return ctx.EditReplyEmbed(embeds.Info("Warnings for "+name, fmt.Sprintf("**%s** has no warnings.", name), embeds.ColorInfo))
	}
	p, pages := cmdutil.Page(int64(p), total, warningsPerPage)
	lines := make([]string, 0, len(list))
	for _, w := range list {
		lines = append(lines, warningLine(w))
	}
	e := embeds.Info("Warnings for "+name, fmt.Sprintf("**Total Warnings:** %d\n\n%s", total, cmdutil.Lines(lines)), embeds.ColorWarning)
	e.Footer = footer(fmt.Sprintf("Page %d/%d", p, pages))
	return ctx.EditReplyEmbed(e)
}

func (h *handlers) memberWarnings(c context.Context, ctx *discord.CommandContext, discordID string, includeRemoved bool) error {
	tag := discordID
	if u, err := ctx.Session.User(discordID); err == nil {
		tag = u.Username
	}
	list, err := h.Warnings.ListByDiscord(c, discordID, includeRemoved, 25)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return ctx.EditReplyEmbed(embeds.Info("Warnings: "+tag, fmt.Sprintf("**%s** has no active warnings.", tag), embeds.ColorSuccess))
	}
	shown := list
	if len(shown) > warningsPerPage {
		shown = shown[:warningsPerPage]
	}
	lines := make([]string, 0, len(shown))
	for _, w := range shown {
		lines = append(lines, memberWarningLine(w))
	}
	e := listEmbed("Warnings: "+tag, embeds.ColorWarning, lines, fmt.Sprintf("Showing %d of %d", len(shown), len(list)))
	return ctx.EditReplyEmbed(e)
}

// activeWarningsCommand creates the /activewarnings command
func (h *handlers) activeWarningsCommand() *discord.Command {
	return discord.NewCommand("activewarnings", "List the most recent active warnings", "mod", func(ctx *discord.CommandContext) error {
		n := cmdutil.Count(ctx.GetIntOption("count"), 10, 25)
		return cmdutil.Deferred(ctx, true, "Active Warnings", func(c context.Context) error {
			list, err := h.Warnings.ListActive(c, n)
			if err != nil {
				return err
			}
			return ctx.EditReplyEmbed(warningList(fmt.Sprintf("Active Warnings (%d)", len(list)), list))
		})
	}).WithOptions(cmdutil.IntOption("count", "How many to show (max 25)", false))
}

// recentWarningsCommand creates the /recentwarnings command
func (h *handlers) recentWarningsCommand() *discord.Command {
	return discord.NewCommand("recentwarnings", "List the most recently issued warnings", "mod", func(ctx *discord.CommandContext) error {
		n := cmdutil.Count(ctx.GetIntOption("count"), 10, 25)
		return cmdutil.Deferred(ctx, true, "Recent Warnings", func(c context.Context) error {
			list, err := h.Warnings.Recent(c, n)
			if err != nil {
				return err
			}
			return ctx.EditReplyEmbed(warningList(fmt.Sprintf("Recent Warnings (%d)", len(list)), list))
		})
	}).WithOptions(cmdutil.IntOption("count", "How many to show (max 25)", false))
}

func warningList(title string, list []models.Warning) *discordgo.MessageEmbed {
	if len(list) == 0 {
		return embeds.Info(title, "No warnings found.", embeds.ColorInfo)
	}
	lines := make([]string, 0, len(list))
	for _, w := range list {
		lines = append(lines, fmt.Sprintf("**%s** %s", w.Target(), warningLine(w)))
	}
	return embeds.Info(title, cmdutil.Lines(lines), embeds.ColorWarning)
}
