package staff

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/NewLifeSMP/NewLifeBotGo/internal/commands/cmdutil"
	"github.com/NewLifeSMP/NewLifeBotGo/internal/embeds"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/database"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/discord"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/guru"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/logger"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/models"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/outcome"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/rcon"
)

func welcomeEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "We're glad to have you here!",
		Description: "Before you jump in, please make sure you've read our rules and understand how the server works.\n" +
			"NewLife SMP is built on respect and fairness, and we're excited to see what you'll bring to the world.",
		Color: embeds.ColorReport,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Wiki", Value: "[Wiki](https://wiki.newlifesmp.com)", Inline: true},
			{Name: "Rules", Value: "[Rules](https://newlifesmp.com/rules)", Inline: true},
			{Name: "Modpack", Value: "[Modpack](https://modrinth.com/modpack/thenewlife-modpack)", Inline: true},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: "Welcome to NewLife SMP"},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

func whitelistLog(name, platform, uuid string, user *discordgo.User, by string) *discordgo.MessageEmbed {
	if uuid == "" {
		uuid = "N/A"
	}
	return &discordgo.MessageEmbed{
		Title: "Whitelist Added",
		Color: embeds.ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Minecraft", Value: fmt.Sprintf("%s (%s)", name, platform), Inline: true},
			{Name: "UUID", Value: uuid, Inline: true},
			{Name: "Discord", Value: fmt.Sprintf("%s (%s)", user.Username, user.ID), Inline: true},
			{Name: "Added By", Value: by, Inline: true},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// isGuru reports whether the invoking member holds the guru role.
func (h *handlers) isGuru(ctx *discord.CommandContext) bool {
	m := ctx.Member()
	if m == nil || h.GuruRoleID == "" {
		return false
	}
	for _, r := range m.Roles {
		if r == h.GuruRoleID {
			return true
		}
	}
	return false
}

// whitelistAddCommand creates the /whitelist add subcommand
//
// The RCON whitelist command must succeed; linking, guru tracking, the
// welcome DM and the log post are best effort and reported as steps.
func (h *handlers) whitelistAddCommand() *discord.Command {
	platform := cmdutil.PlatformOption("Java or Bedrock")
	platform.Required = true

	return discord.NewCommand("add", "Add a player to the whitelist", "staff", func(ctx *discord.CommandContext) error {
		plat := ctx.GetStringOption("platform")
		name := strings.TrimSpace(ctx.GetStringOption("mcname"))
		user := ctx.GetUserOption("discord")
		if user == nil {
			return ctx.ReplyEphemeral("Could not find that user.")
		}
		staff := cmdutil.Staff(ctx)
		trackGuru := h.isGuru(ctx)
		g := guru.Guru{ID: staff.ID, Tag: staff.Tag, GuildID: ctx.Interaction.GuildID}
		ticketID := ctx.Interaction.ChannelID

		return cmdutil.Deferred(ctx, false, "Whitelist Failed", func(c context.Context) error {
			p, err := h.Profiles.Lookup(c, name, plat)
			if err != nil {
				return err
			}
			if resp, res := rcon.Run(c, h.RCON, rcon.WhitelistCommand(plat, p.Name, p.UUID)); !res.IsOK() {
				return ctx.EditReplyEmbed(embeds.Error("Whitelist Failed", "Failed to send whitelist command: "+rcon.Reply(resp)))
			}

			steps := []string{cmdutil.Step("Link", h.link(c, p.Name, p.UUID, plat, user.ID, staff.ID))}
			if trackGuru && h.Tracker != nil {
				_, err := h.Tracker.TrackWhitelist(c, g, ticketID, user.ID, p.Name, plat)
				steps = append(steps, cmdutil.Step("Guru tracking", outcome.FromErr(err)))
			}
			if h.Messages != nil {
				steps = append(steps,
					cmdutil.Step("Welcome DM", h.Messages.DM(c, user.ID, welcomeEmbed())),
					cmdutil.Step("Log", h.Messages.Log(c, whitelistLog(p.Name, plat, p.UUID, user, staff.Tag))),
				)
			}
			logger.Info(fmt.Sprintf("%s whitelisted %s (%s) for %s", staff.Tag, p.Name, plat, user.Username), "Whitelist")

			desc := fmt.Sprintf("Whitelisted **%s** (%s) and linked to <@%s>.\n\n%s", p.Name, plat, user.ID, strings.Join(steps, "\n"))
			return ctx.EditReplyEmbed(embeds.Success("Player Whitelisted", desc))
		})
	}).WithOptions(
		platform,
		cmdutil.StringOption("mcname", "Minecraft username", true),
		cmdutil.UserOption("discord", "Discord user to link", true),
	)
}

func (h *handlers) link(c context.Context, name, uuid, platform, discordID, by string) outcome.Result {
	if h.Links == nil {
		return outcome.Skipped("linking unavailable")
	}
	err := h.Links.Link(c, &models.LinkedAccount{
		DiscordID:         discordID,
		MinecraftUsername: name,
		UUID:              uuid,
		Platform:          platform,
		LinkedAt:          h.Now(),
		LinkedBy:          by,
		Verified:          true,
	})
	switch {
	case errors.Is(err, database.ErrAlreadyLinked):
		return outcome.Skipped("already linked")
	case err != nil:
		msg, _ := cmdutil.Describe(err)
		return outcome.Failed(msg)
	}
	return outcome.Ok()
}
