package staff

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

const infractionListColor = 0x2F3136

func typeOption(required bool) *discordgo.ApplicationCommandOption {
	opt := cmdutil.StringOption("type", "Infraction type", required)
	for _, t := range models.InfractionTypes {
		opt.Choices = append(opt.Choices, &discordgo.ApplicationCommandOptionChoice{Name: t.Label(), Value: string(t)})
	}
	return opt
}

// infractCommand creates the /infract command
func (h *handlers) infractCommand() *discord.Command {
	return discord.NewCommand("infract", "Issue a staff infraction", "staff", func(ctx *discord.CommandContext) error {
		user := ctx.GetUserOption("user")
		if user == nil {
			return ctx.ReplyEphemeral("Could not find that user.")
		}
		req := moderation.InfractionRequest{
			GuildID:        ctx.Interaction.GuildID,
			TargetID:       user.ID,
			TargetTag:      user.Username,
			Type:           ctx.GetStringOption("type"),
			Reason:         ctx.GetStringOption("reason"),
			IssuerNickname: ctx.DisplayName(),
			Staff:          cmdutil.Staff(ctx),
		}
		return cmdutil.Deferred(ctx, true, "Infraction Failed", func(c context.Context) error {
			res, err := h.Service.IssueInfraction(c, req)
			if err != nil {
				return err
			}
			msg := fmt.Sprintf("✅ **%s** issued to <@%s> (Case #%d)", res.Infraction.Type.Label(), user.ID, res.Infraction.CaseNumber)
			if !res.DM.IsOK() {
				msg += "\n⚠️ Could not DM user."
			}
			if res.Post.IsFailed() {
				msg += "\n" + cmdutil.Step("Infraction channel", res.Post)
			}
			return ctx.EditReply(msg)
		})
	}).WithOptions(
		cmdutil.UserOption("user", "Staff member", true),
		typeOption(true),
		cmdutil.StringOption("reason", "Reason for the infraction", true),
	)
}

// revokeInfractionCommand creates the /revokeinfraction command
func (h *handlers) revokeInfractionCommand() *discord.Command {
	return discord.NewCommand("revokeinfraction", "Revoke a staff infraction", "staff", func(ctx *discord.CommandContext) error {
		raw := strings.TrimPrefix(strings.TrimSpace(ctx.GetStringOption("case")), "#")
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			return ctx.ReplyEphemeral("❌ That is not a valid case number.")
		}
		staff := cmdutil.Staff(ctx)
		return cmdutil.Deferred(ctx, true, "Revoke Infraction", func(c context.Context) error {
			inf, err := h.Service.RevokeInfraction(c, n, staff)
			switch {
			case errors.Is(err, database.ErrNotFound):
				return ctx.EditReply(fmt.Sprintf("❌ No infraction found with case #%d.", n))
			case errors.Is(err, database.ErrAlreadyInactive):
				return ctx.EditReply(fmt.Sprintf("⚠️ Infraction #%d is already revoked.", n))
			case err != nil:
				return err
			}
			return ctx.EditReply(fmt.Sprintf("✅ **%s** #%d for <@%s> has been revoked.", inf.Type.Label(), n, inf.TargetID))
		})
	}).WithOptions(cmdutil.StringOption("case", "Infraction case number", true))
}

// infractionsCommand creates the /infractions command
func (h *handlers) infractionsCommand() *discord.Command {
	return discord.NewCommand("infractions", "List staff infractions", "staff", func(ctx *discord.CommandContext) error {
		filter := database.InfractionFilter{
			GuildID: ctx.Interaction.GuildID,
			Type:    models.InfractionType(ctx.GetStringOption("type")),
		}
		user := ctx.GetUserOption("user")
		if user != nil {
			filter.TargetID = user.ID
		}
		return cmdutil.Deferred(ctx, true, "Infractions", func(c context.Context) error {
			list, err := h.Infractions.List(c, filter, 15)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				return ctx.EditReply("📋 No infractions found matching your criteria.")
			}
			return ctx.EditReplyEmbed(infractionList(list, user))
		})
	}).WithOptions(
		cmdutil.UserOption("user", "Only this staff member", false),
		typeOption(false),
	)
}

func infractionLine(inf models.Infraction) string {
	status := ""
	if !inf.Active {
		status = " *(revoked)*"
	}
	return fmt.Sprintf("**#%d** %s%s\n└ <@%s> • %s • %s",
		inf.CaseNumber, inf.Type.Label(), status, inf.TargetID, embeds.Truncate(inf.Reason, 50), duration.Relative(inf.CreatedAt))
}

func infractionList(list []models.Infraction, user *discordgo.User) *discordgo.MessageEmbed {
	lines := make([]string, 0, len(list))
	for _, inf := range list {
		lines = append(lines, infractionLine(inf))
	}
	desc := strings.Join(lines, "\n\n")
	e := &discordgo.MessageEmbed{
		Title:  "Staff Infractions",
		Color:  infractionListColor,
		Footer: &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("%d infraction(s) shown", len(list))},
	}
	if user != nil {
		desc = fmt.Sprintf("Infractions for <@%s>\n\n%s", user.ID, desc)
		e.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: user.AvatarURL("128")}
	}
	e.Description = embeds.Truncate(desc, 4096)
	return e
}
