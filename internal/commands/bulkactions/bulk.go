// Package bulkactions runs one moderation action against many players after
// the initiator confirms it with a button.
package bulkactions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/NewLifeSMP/NewLifeBotGo/internal/commands/cmdutil"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/bulk"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/discord"
	apperrors "github.com/NewLifeSMP/NewLifeBotGo/pkg/errors"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/logger"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/permissions"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/rcon"
)

const (
	colorDone    = 0x22C55E
	colorPartial = 0xF59E0B
	colorPending = 0xFFA500
)

type Deps struct {
	Store    *bulk.Store
	Executor *bulk.Executor
	RCON     rcon.Executor
}

type handlers struct {
	Deps
}

// RegisterBulkCommands registers /bulk and its confirm and cancel buttons.
func RegisterBulkCommands(client *discord.ExtendedClient, deps Deps) {
	h := &handlers{deps}
	sub := func(cmd *discord.Command) *discord.Command { return cmd.WithTier(permissions.Management) }

	client.CommandHandler.RegisterGroup("bulk", "Bulk moderation actions",
		sub(h.pendingCommand(bulk.Warn, "Warn multiple players at once",
			cmdutil.StringOption("reason", "Warning reason", true))),
		sub(h.pendingCommand(bulk.Kick, "Kick multiple players at once",
			cmdutil.StringOption("reason", "Kick reason", true))),
		sub(h.pendingCommand(bulk.Ban, "Ban multiple players at once",
			cmdutil.StringOption("reason", "Ban reason", true),
			cmdutil.StringOption("duration", "Duration (e.g. 7d, 30d, perm)", false))),
		sub(h.pendingCommand(bulk.Unban, "Unban multiple players at once",
			cmdutil.StringOption("reason", "Unban reason", false))),
		sub(h.pendingCommand(bulk.PardonWarnings, "Pardon all warnings for multiple players")),
		sub(h.messageCommand()),
	)
	client.RegisterComponent(bulk.ConfirmPrefix, h.handleButton)
	client.RegisterComponent(bulk.CancelPrefix, h.handleButton)
}

func playersOption(desc string) *discordgo.ApplicationCommandOption {
	return cmdutil.StringOption("players", desc, true)
}

// pendingCommand stores the action and asks the initiator to confirm it.
func (h *handlers) pendingCommand(t bulk.Type, desc string, extra ...*discordgo.ApplicationCommandOption) *discord.Command {
	opts := append([]*discordgo.ApplicationCommandOption{playersOption("Player names (comma separated)")}, extra...)
	return discord.NewCommand(string(t), desc, "bulk", func(ctx *discord.CommandContext) error {
		targets, err := bulk.ParseTargets(ctx.GetStringOption("players"))
		if err != nil {
			msg, _ := cmdutil.Describe(err)
			return ctx.ReplyEphemeral("❌ " + msg)
		}
		if bulk.NeedsRCON(t) && h.RCON == nil {
			msg, _ := cmdutil.Describe(rcon.ErrNotConfigured)
			return ctx.ReplyEphemeral("❌ " + msg)
		}
		a := h.Store.Create(bulk.Action{
			Type:         t,
			Targets:      targets,
			Reason:       reasonFor(t, ctx.GetStringOption("reason")),
			Duration:     ctx.GetStringOption("duration"),
			InitiatorID:  ctx.User().ID,
			InitiatorTag: ctx.User().Username,
		})
		return ctx.ReplyWithComponents(confirmEmbed(a), confirmButtons(a), true)
	}).WithOptions(opts...)
}

func reasonFor(t bulk.Type, reason string) string {
	if reason != "" {
		return reason
	}
	if t == bulk.Unban {
		return "Bulk unban"
	}
	return ""
}

var confirmTitles = map[bulk.Type]string{
	bulk.Warn:           "⚠️ Bulk Warn Confirmation",
	bulk.Kick:           "👢 Bulk Kick Confirmation",
	bulk.Ban:            "🔨 Bulk Ban Confirmation",
	bulk.Unban:          "✅ Bulk Unban Confirmation",
	bulk.PardonWarnings: "📝 Bulk Pardon Warnings Confirmation",
}

func confirmEmbed(a bulk.Action) *discordgo.MessageEmbed {
	verb := map[bulk.Type]string{
		bulk.Warn:           "warn **%d** players.",
		bulk.Kick:           "kick **%d** players from the server.",
		bulk.Ban:            "ban **%d** players.",
		bulk.Unban:          "unban **%d** players.",
		bulk.PardonWarnings: "pardon all warnings for **%d** players.",
	}[a.Type]
	e := &discordgo.MessageEmbed{
		Title:       confirmTitles[a.Type],
		Description: "You are about to " + fmt.Sprintf(verb, len(a.Targets)),
		Color:       colorPending,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Players", Value: truncate(strings.Join(a.Targets, ", "), 1000)},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("This will expire in %d seconds", int(bulk.TTL/time.Second))},
	}
	if a.Reason != "" {
		e.Fields = append(e.Fields, &discordgo.MessageEmbedField{Name: "Reason", Value: a.Reason})
	}
	if a.Type == bulk.Ban {
		d := a.Duration
		if d == "" {
			d = "perm"
		}
		e.Fields = append(e.Fields, &discordgo.MessageEmbedField{Name: "Duration", Value: d, Inline: true})
	}
	return e
}

func confirmButtons(a bulk.Action) []discordgo.MessageComponent {
	style := discordgo.DangerButton
	switch a.Type {
	case bulk.Unban:
		style = discordgo.SuccessButton
	case bulk.PardonWarnings:
		style = discordgo.PrimaryButton
	}
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{CustomID: bulk.ConfirmID(a.ID), Label: "Confirm", Style: style},
			discordgo.Button{CustomID: bulk.CancelID(a.ID), Label: "Cancel", Style: discordgo.SecondaryButton},
		}},
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// messageCommand creates the /bulk message subcommand
func (h *handlers) messageCommand() *discord.Command {
	return discord.NewCommand(string(bulk.Message), "Send a message to multiple online players", "bulk", func(ctx *discord.CommandContext) error {
		targets, err := bulk.ParseTargets(ctx.GetStringOption("players"))
		if err != nil {
			msg, _ := cmdutil.Describe(err)
			return ctx.ReplyEphemeral("❌ " + msg)
		}
		if h.RCON == nil {
			return ctx.ReplyEphemeral("❌ RCON is not configured for this bot.")
		}
		message := ctx.GetStringOption("message")
		return cmdutil.Deferred(ctx, true, "Bulk Message", func(c context.Context) error {
			n, err := bulk.SendMessage(c, h.RCON, targets, message)
			if err != nil {
				logger.Warn("Bulk message failed: "+err.Error(), "Bulk")
				return ctx.EditReply("❌ Failed to send messages via RCON.")
			}
			return ctx.EditReply(messageResult(n, len(targets)))
		})
	}).WithOptions(
		playersOption(`Player names (comma separated) or "all"`),
		cmdutil.StringOption("message", "Message to send", true),
	)
}

func messageResult(sent, total int) string {
	if sent < 0 {
		return "✅ Broadcast message sent to all players."
	}
	return fmt.Sprintf("✅ Message sent to %d of %d players (others may be offline).", sent, total)
}

// handleButton confirms or cancels a pending action. Only the initiator
// may press either button.
func (h *handlers) handleButton(ctx *discord.CommandContext) error {
	confirm, token, err := bulk.ParseButtonID(ctx.Interaction.MessageComponentData().CustomID)
	if err != nil {
		return err
	}
	if !ctx.Tier.AtLeast(permissions.Management) {
		return ctx.ReplyEphemeral(discord.DeniedMessage(permissions.Management))
	}
	userID := ctx.User().ID

	if !confirm {
		if err := h.Store.Cancel(token, userID); err != nil {
			return h.buttonError(ctx, err)
		}
		return ctx.UpdateMessage(&discordgo.MessageEmbed{Description: "❌ Bulk action cancelled.", Color: 0x808080}, nil)
	}

	a, err := h.Store.Confirm(token, userID)
	if err != nil {
		return h.buttonError(ctx, err)
	}
	if err := ctx.UpdateMessage(&discordgo.MessageEmbed{Description: "⏳ Processing bulk action...", Color: colorPending}, nil); err != nil {
		return err
	}
	apperrors.Go(func() {
		c, cancel := ctx.Context()
		defer cancel()
		rep := h.Executor.Run(c, a)
		_ = ctx.EditReplyEmbeds(reportEmbed(rep))
	})
	return nil
}

func (h *handlers) buttonError(ctx *discord.CommandContext, err error) error {
	msg, _ := cmdutil.Describe(err)
	if errors.Is(err, bulk.ErrNotFound) {
		return ctx.UpdateMessage(&discordgo.MessageEmbed{Description: "❌ " + msg, Color: 0x808080}, nil)
	}
	return ctx.ReplyEphemeral("❌ " + msg)
}

func reportEmbed(rep bulk.Report) *discordgo.MessageEmbed {
	color := colorDone
	if len(rep.Failed) > 0 {
		color = colorPartial
	}
	ok := strings.Join(rep.Succeeded, ", ")
	if ok == "" {
		ok = "None"
	}
	e := &discordgo.MessageEmbed{
		Title:  fmt.Sprintf("✅ Bulk %s Complete", rep.Type.Title()),
		Color:  color,
		Fields: []*discordgo.MessageEmbedField{{Name: "✓ Successful", Value: truncate(ok, 1024)}},
		Footer: &discordgo.MessageEmbedFooter{Text: "Executed by " + rep.By},
	}
	if len(rep.Failed) > 0 {
		e.Fields = append(e.Fields, &discordgo.MessageEmbedField{Name: "✗ Failed", Value: truncate(strings.Join(rep.Failed, ", "), 1024)})
	}
	e.Timestamp = time.Now().Format(time.RFC3339)
	return e
}
