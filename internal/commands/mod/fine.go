// Package mod - /fine and /paid commands
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

// fineCommand creates the /fine command
func (h *handlers) fineCommand() *discord.Command {
	return discord.NewCommand("fine", "Fine a player an in-game amount", "mod", func(ctx *discord.CommandContext) error {
		staff := cmdutil.Staff(ctx)
		req := moderation.FineRequest{
			Player: ctx.GetStringOption("player"),
			Amount: ctx.GetStringOption("amount"),
			DueIn:  ctx.GetStringOption("due"),
			Note:   ctx.GetStringOption("note"),
			Staff:  staff,
		}
		return cmdutil.Deferred(ctx, false, "Fine Failed", func(c context.Context) error {
			res, err := h.Service.IssueFine(c, req)
			if err != nil {
				return err
			}
			f := res.Fine
			e := &discordgo.MessageEmbed{
				Title: "Fine Issued",
				Color: embeds.ColorWarning,
				Fields: []*discordgo.MessageEmbedField{
					{Name: "Player", Value: fmt.Sprintf("**%s**", f.PlayerName), Inline: true},
					{Name: "Amount", Value: f.Amount, Inline: true},
					{Name: "Notifications", Value: cmdutil.Step("DM", res.DM) + "\n" + cmdutil.Step("Log", res.Log)},
				},
				Footer: footer(fmt.Sprintf("Case #%s | Fined by %s", caseLabel(f.CaseNumber), staff.Tag)),
			}
			if f.DueAt != nil {
				e.Fields = append(e.Fields, &discordgo.MessageEmbedField{Name: "Due", Value: duration.Relative(*f.DueAt), Inline: true})
			}
			if f.Note != "" {
				e.Fields = append(e.Fields, &discordgo.MessageEmbedField{Name: "Note", Value: f.Note})
			}
			return ctx.EditReplyEmbed(e)
		})
	}).WithOptions(
		cmdutil.StringOption("player", "Minecraft username or @mention", true),
		cmdutil.StringOption("amount", "What the player owes, e.g. 16 diamonds", true),
		cmdutil.StringOption("due", "Payment window, e.g. 3d", false),
		cmdutil.StringOption("note", "Extra details for the player", false),
	)
}

// paidCommand creates the /paid command
func (h *handlers) paidCommand() *discord.Command {
	return discord.NewCommand("paid", "Mark a fine as paid", "mod", func(ctx *discord.CommandContext) error {
		ref := ctx.GetStringOption("case")
		staff := cmdutil.Staff(ctx)
		return cmdutil.Deferred(ctx, false, "Mark Paid", func(c context.Context) error {
			res, err := h.Service.MarkFinePaid(c, ref, staff)
			if err != nil {
				return err
			}
			desc := fmt.Sprintf("Fine #%s for **%s** (%s) is settled.\n\n%s",
				caseLabel(res.Fine.CaseNumber), res.Fine.PlayerName, res.Fine.Amount, cmdutil.Step("DM", res.DM))
			e := embeds.Success("Fine Paid", desc)
			e.Footer = footer("Marked by " + staff.Tag)
			return ctx.EditReplyEmbed(e)
		})
	}).WithOptions(cmdutil.StringOption("case", "Fine case number or ID", true))
}
