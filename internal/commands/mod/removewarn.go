// Package mod - /removewarn command
package mod

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/NewLifeSMP/NewLifeBotGo/internal/commands/cmdutil"
	"github.com/NewLifeSMP/NewLifeBotGo/internal/embeds"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/database"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/discord"
)

// removeWarnCommand creates the /removewarn command
func (h *handlers) removeWarnCommand() *discord.Command {
	return discord.NewCommand("removewarn", "Remove (pardon) a warning", "mod", func(ctx *discord.CommandContext) error {
		ref := ctx.GetStringOption("case")
		reason := ctx.GetStringOption("reason")
		if reason == "" {
			reason = "No reason provided"
		}
		staff := cmdutil.Staff(ctx)

		return cmdutil.Deferred(ctx, false, "Remove Warning", func(c context.Context) error {
			w, err := h.Service.PardonWarning(c, ref, staff, reason)
			switch {
			case errors.Is(err, database.ErrNotFound):
				return ctx.EditReplyEmbed(embeds.Error("Remove Warning", fmt.Sprintf("No active warning found with case #%s.", ref)))
			case errors.Is(err, database.ErrAlreadyInactive):
				return ctx.EditReplyEmbed(embeds.Error("Remove Warning", fmt.Sprintf("Warning #%s was already removed.", ref)))
			case err != nil:
				return err
			}
			return ctx.EditReplyEmbed(&discordgo.MessageEmbed{
				Title: "Warning Removed",
				Color: embeds.ColorSuccess,
				Fields: []*discordgo.MessageEmbedField{
					{Name: "Case", Value: "#" + caseLabel(w.CaseNumber), Inline: true},
					{Name: "User", Value: w.Target(), Inline: true},
					{Name: "Original Reason", Value: w.Reason},
					{Name: "Removal Reason", Value: reason},
				},
				Footer: footer("Removed by " + staff.Tag),
			})
		})
	}).WithOptions(
		cmdutil.StringOption("case", "Case number or warning ID", true),
		cmdutil.StringOption("reason", "Why the warning is being removed", false),
	)
}
