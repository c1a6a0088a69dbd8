package staff

import (
	"context"
	"fmt"
	"time"

	"github.com/NewLifeSMP/NewLifeBotGo/internal/commands/cmdutil"
	"github.com/NewLifeSMP/NewLifeBotGo/internal/embeds"
	"github.com/NewLifeSMP/NewLifeBotGo/internal/jobs"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/discord"
	apperrors "github.com/NewLifeSMP/NewLifeBotGo/pkg/errors"
)

// restartDelay clamps the delay option to [0, MaxRestartDelay].
func restartDelay(seconds int64) time.Duration {
	d := time.Duration(seconds) * time.Second
	switch {
	case d < 0:
		return 0
	case d > jobs.MaxRestartDelay:
		return jobs.MaxRestartDelay
	}
	return d
}

// restartCommand creates the /restart command
func (h *handlers) restartCommand() *discord.Command {
	delay := cmdutil.IntOption("delay", "Seconds to wait before the countdown (0-300)", false)
	lo := 0.0
	delay.MinValue, delay.MaxValue = &lo, jobs.MaxRestartDelay.Seconds()

	return discord.NewCommand("restart", "Restart the Minecraft server", "staff", func(ctx *discord.CommandContext) error {
		reason := ctx.GetStringOption("reason")
		if reason == "" {
			reason = jobs.ManualRestartReason
		}
		wait := restartDelay(ctx.GetIntOption("delay"))
		if h.Restarter.Running() {
			return ctx.ReplyEphemeral("❌ " + jobs.ErrRestartRunning.Error() + ".")
		}

		msg := fmt.Sprintf("🔄 **Server restart initiated**\nReason: %s\n", reason)
		if wait > 0 {
			msg += fmt.Sprintf("Starting countdown in %d seconds...", int(wait.Seconds()))
		} else {
			msg += "Starting countdown..."
		}
		if err := ctx.ReplyEphemeral(msg); err != nil {
			return err
		}

		apperrors.Go(func() {
			c, cancel := ctx.Context()
			defer cancel()
			if err := h.Restarter.RunAfter(c, reason, wait); err != nil {
				_ = ctx.FollowUpEphemeral("❌ Restart failed: " + err.Error())
				return
			}
			_ = ctx.FollowUpEphemeral("✅ Server restart command sent successfully!")
		})
		return nil
	}).WithOptions(
		cmdutil.StringOption("reason", "Reason for the restart", false),
		delay,
	)
}

// restartStatusCommand creates the /restartstatus command
func (h *handlers) restartStatusCommand() *discord.Command {
	return discord.NewCommand("restartstatus", "Show the restart schedule", "staff", func(ctx *discord.CommandContext) error {
		var next time.Time
		if h.NextRun != nil {
			next = h.NextRun(jobs.RestartTask)
		}
		return ctx.ReplyEphemeralEmbed(embeds.RestartStatus(!next.IsZero(), next, h.RCONHost))
	})
}

// staffReportCommand creates the /staffreport command
func (h *handlers) staffReportCommand() *discord.Command {
	return discord.NewCommand("staffreport", "Send the weekly staff activity report now", "staff", func(ctx *discord.CommandContext) error {
		return cmdutil.Deferred(ctx, true, "Staff Report", func(c context.Context) error {
			embed, err := h.StaffReport.Send(c)
			if err != nil {
				return err
			}
			if embed == nil {
				return ctx.EditReply("The owner is not configured, so there is nobody to send the report to.")
			}
			return ctx.EditReplyEmbeds(embeds.Success("Staff Report Sent", "The report was sent to your DMs."), embed)
		})
	})
}
