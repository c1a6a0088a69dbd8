// Package utils holds the bot's general purpose commands.
package utils

import (
	"context"

	"github.com/NewLifeSMP/NewLifeBotGo/pkg/discord"
)

// StatusChecker reports whether a backing service is reachable.
type StatusChecker interface {
	GetStatus() (string, bool)
}

type Broker interface {
	IsConnected() bool
}

type RCONTester interface {
	Test(ctx context.Context) (string, error)
}

// Deps are optional; a nil dependency shows as not configured.
type Deps struct {
	DB       StatusChecker
	MQTT     Broker
	RCON     RCONTester
	Watching func() bool
}

type handlers struct {
	Deps
}

// RegisterUtilsCommands registers /utils ping, status, stats and help.
func RegisterUtilsCommands(client *discord.ExtendedClient, deps Deps) {
	h := &handlers{deps}
	client.CommandHandler.RegisterGroup("utils", "Utility commands",
		createPingCommand(),
		h.statusCommand(),
		createStatsCommand(),
		createHelpCommand(),
	)
}
