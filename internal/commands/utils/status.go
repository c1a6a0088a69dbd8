package utils

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/NewLifeSMP/NewLifeBotGo/internal/embeds"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/discord"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/permissions"
)

const (
	online       = "🟢 | Online"
	offline      = "🔴 | Offline"
	unconfigured = "⚪ | Not configured"
)

func (h *handlers) statusCommand() *discord.Command {
	return discord.NewCommand(
		"status",
		"Show the bot's connections",
		"utils",
		h.statusHandler,
	).WithTier(permissions.Staff)
}

func (h *handlers) statusHandler(ctx *discord.CommandContext) error {
	if err := ctx.DeferEphemeral(); err != nil {
		return err
	}
	c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return ctx.EditReplyEmbed(h.statusEmbed(c))
}

func (h *handlers) statusEmbed(ctx context.Context) *discordgo.MessageEmbed {
	db := unconfigured
	if h.DB != nil {
		db, _ = h.DB.GetStatus()
	}
	broker := unconfigured
	if h.MQTT != nil {
		broker = onOff(h.MQTT.IsConnected())
	}
	game := unconfigured
	if h.RCON != nil {
		_, err := h.RCON.Test(ctx)
		game = onOff(err == nil)
	}
	watch := unconfigured
	if h.Watching != nil {
		watch = onOff(h.Watching())
	}

	e := embeds.Info("📊 Bot Status", "", embeds.ColorInfo)
	e.Fields = []*discordgo.MessageEmbedField{
		{Name: "Discord", Value: online, Inline: true},
		{Name: "Database", Value: db, Inline: true},
		{Name: "MQTT", Value: broker, Inline: true},
		{Name: "RCON", Value: game, Inline: true},
		{Name: "Plugin watcher", Value: watch, Inline: true},
	}
	return e
}

func onOff(ok bool) string {
	if ok {
		return online
	}
	return offline
}
