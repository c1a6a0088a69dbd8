// Package mod - /warn command group
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
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/permissions"
)

func choices(values ...string) []*discordgo.ApplicationCommandOptionChoice {
	out := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(values))
	for _, v := range values {
		out = append(out, &discordgo.ApplicationCommandOptionChoice{Name: embeds.Title(v), Value: v})
	}
	return out
}

// warnCaseCommand creates the /warn case subcommand
func (h *handlers) warnCaseCommand() *discord.Command {
	return discord.NewCommand("case", "Look up a warning by case number or ID", "mod", func(ctx *discord.CommandContext) error {
		ref := ctx.GetStringOption("id")
		return cmdutil.Deferred(ctx, true, "Warning Lookup", func(c context.Context) error {
			w, err := h.Warnings.FindByCase(c, ref)
			if err != nil {
				return err
			}
			return ctx.EditReplyEmbed(embeds.WarningDetail(w))
		})
	}).WithOptions(
		cmdutil.StringOption("id", "Case number or warning ID", true),
	).WithTier(permissions.Staff)
}

// warnUserCommand creates the /warn user subcommand
func (h *handlers) warnUserCommand() *discord.Command {
	return discord.NewCommand("user", "Warn a Minecraft player", "mod", func(ctx *discord.CommandContext) error {
		req := moderation.WarnRequest{
			Player: ctx.GetStringOption("player"),
			Reason: ctx.GetStringOption("reason"),
			Staff:  cmdutil.Staff(ctx),
		}
		return cmdutil.Deferred(ctx, false, "Warning Failed", func(c context.Context) error {
			res, err := h.Service.IssueWarning(c, req)
			if err != nil {
				return err
			}
			desc := fmt.Sprintf("**Player:** %s\n**Reason:** %s\n**Case ID:** %s\n\n%s\n%s",
				res.Warning.PlayerName, res.Warning.Reason, caseLabel(res.Warning.CaseNumber),
				cmdutil.Step("DM", res.DM), cmdutil.Step("Log", res.Log))
			return ctx.EditReplyEmbed(embeds.Info("Warning Issued", desc, embeds.ColorWarning))
		})
	}).WithOptions(
		cmdutil.StringOption("player", "Minecraft username", true),
		cmdutil.StringOption("reason", "Reason for the warning", true),
	).WithTier(permissions.Staff)
}

// warnMemberCommand creates the /warn member subcommand
func (h *handlers) warnMemberCommand() *discord.Command {
	severity := cmdutil.StringOption("severity", "How serious the warning is", false)
	severity.Choices = choices(models.SeverityMinor, models.SeverityModerate, models.SeveritySevere)
	category := cmdutil.StringOption("category", "What the warning is for", false)
	category.Choices = choices(models.CategoryBehavior, models.CategoryChat, models.CategoryCheating, models.CategoryGriefing, models.CategoryOther)

	return discord.NewCommand("member", "Warn a Discord member and their linked accounts", "mod", func(ctx *discord.CommandContext) error {
		user := ctx.GetUserOption("user")
		if user == nil {
			return ctx.ReplyEphemeral("Could not find that user.")
		}
		staff := cmdutil.Staff(ctx)
		req := moderation.MemberWarnRequest{
			DiscordID:  user.ID,
			DiscordTag: user.Username,
			Reason:     ctx.GetStringOption("reason"),
			Severity:   ctx.GetStringOption("severity"),
			Category:   ctx.GetStringOption("category"),
			Staff:      staff,
		}
		return cmdutil.Deferred(ctx, false, "Warning Failed", func(c context.Context) error {
			res, err := h.Service.WarnMember(c, req)
			if err != nil {
				return err
			}
			return ctx.EditReplyEmbed(memberWarnEmbed(res, staff.Tag))
		})
	}).WithOptions(
		cmdutil.UserOption("user", "Member to warn", true),
		cmdutil.StringOption("reason", "Reason for the warning", true),
		severity,
		category,
	).WithTier(permissions.Staff)
}
