package staff

import (
	"context"
	"fmt"
	"strings"


	"github.com/NewLifeSMP/NewLifeBotGo/internal/commands/cmdutil"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/discord"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/guru"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/models"
)

var closeOutcomes = map[string]models.Outcome{
	"denied":      models.OutcomeDenied,
	"abandoned":   models.OutcomeAbandoned,
	"transferred": models.OutcomeTransferred,
}

// guruCloseCommand creates the /guru close subcommand, run inside the ticket channel.
func (h *handlers) guruCloseCommand() *discord.Command {
	return discord.NewCommand("close", "Record how the application ticket in this channel ended", "staff", func(ctx *discord.CommandContext) error {
		if !h.isGuru(ctx) {
			return ctx.ReplyEphemeral("❌ Only whitelist gurus can close application tickets.")
		}
		outcome := closeOutcomes[ctx.GetStringOption("outcome")]
		g := guru.Guru{ID: ctx.User().ID, Tag: ctx.User().Username, GuildID: ctx.Interaction.GuildID}
		ticketID := ctx.Interaction.ChannelID
		reason := ctx.GetStringOption("reason")

		return cmdutil.Deferred(ctx, true, "Close Ticket", func(c context.Context) error {
			if err := h.closeTicket(c, g, ticketID, outcome, reason); err != nil {
				return err
			}
			return ctx.EditReply(fmt.Sprintf("✅ Ticket recorded as **%s**.", strings.Trim(guru.OutcomeLabel(outcome), "[]")))
		})
	}).WithOptions(
		cmdutil.StringOption("outcome", "How the ticket ended", true),
		cmdutil.StringOption("reason", "Why it was denied", false),
	)
}

func (h *handlers) closeTicket(ctx context.Context, g guru.Guru, ticketID string, o models.Outcome, reason string) error {
	switch o {
	case models.OutcomeDenied:
		return h.Tracker.TrackDenied(ctx, g, ticketID, reason)
	case models.OutcomeAbandoned:
		return h.Tracker.TrackAbandoned(ctx, g, ticketID)
	default:
		return h.Tracker.TrackTransfer(ctx, g, ticketID)
	}
}
