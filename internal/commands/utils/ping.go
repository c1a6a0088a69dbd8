package utils

import (
	"fmt"

	"github.com/NewLifeSMP/NewLifeBotGo/pkg/discord"
)

func createPingCommand() *discord.Command {
	return discord.NewCommand(
		"ping",
		"Check the bot's latency",
		"utils",
		pingHandler,
	)
}

func pingHandler(ctx *discord.CommandContext) error {
	latency := ctx.Session.HeartbeatLatency().Milliseconds()
	return ctx.ReplyEphemeral(fmt.Sprintf("🏓 Pong! Latency: %dms", latency))
}
