// Package mod holds the player and member moderation commands: warnings,
// server bans, kicks, mutes and fines.
package mod

import (
	"context"
	"time"

	"github.com/NewLifeSMP/NewLifeBotGo/internal/moderation"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/discord"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/models"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/permissions"
)

type WarningReader interface {
	FindByCase(ctx context.Context, ref string) (*models.Warning, error)
	ListByPlayer(ctx context.Context, name string, page, perPage int) ([]models.Warning, int64, error)
	ListByDiscord(ctx context.Context, discordID string, includeRemoved bool, limit int) ([]models.Warning, error)
	ListActive(ctx context.Context, limit int) ([]models.Warning, error)
	Recent(ctx context.Context, limit int) ([]models.Warning, error)
}

type ServerBanReader interface {
	FindActive(ctx context.Context, uuid string, now time.Time) (*models.ServerBan, error)
	FindActiveByUsername(ctx context.Context, name string) (*models.ServerBan, error)
	FindByCase(ctx context.Context, caseNumber int64) (*models.ServerBan, error)
	History(ctx context.Context, uuid string, limit int) ([]models.ServerBan, error)
	HistoryByUsername(ctx context.Context, name string, limit int) ([]models.ServerBan, error)
	Recent(ctx context.Context, limit int) ([]models.ServerBan, error)
}

// PluginBanReader reads bans written by the game server plugin.
type PluginBanReader interface {
	FindByCase(ctx context.Context, ref string) (*models.Ban, error)
	ListByPlayer(ctx context.Context, name string, limit int) ([]models.Ban, error)
}

type KickReader interface {
	Recent(ctx context.Context, limit int) ([]models.Kick, error)
	History(ctx context.Context, uuid, name string, limit int) ([]models.Kick, error)
}

// Deps are what the moderation commands read from and act through.
type Deps struct {
	Service    *moderation.Service
	Warnings   WarningReader
	ServerBans ServerBanReader
	PluginBans PluginBanReader
	Kicks      KickReader
	Now        func() time.Time
}

type handlers struct {
	Deps
}

// RegisterModCommands registers the moderation commands. All of them need
// at least the Moderator tier.
func RegisterModCommands(client *discord.ExtendedClient, deps Deps) {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	h := &handlers{deps}

	client.CommandHandler.RegisterGroup("warn", "Warning management commands",
		h.warnCaseCommand(),
		h.warnUserCommand(),
		h.warnMemberCommand(),
	)

	for _, cmd := range []*discord.Command{
		h.warningsCommand(),
		h.activeWarningsCommand(),
		h.recentWarningsCommand(),
		h.removeWarnCommand(),
		h.banCommand(),
		h.unbanCommand(),
		h.checkBanCommand(),
		h.banHistoryCommand(),
		h.recentBansCommand(),
		h.banCaseCommand(),
		h.kickCommand(),
		h.recentKicksCommand(),
		h.kickHistoryCommand(),
		h.muteCommand(),
		h.unmuteCommand(),
		h.fineCommand(),
		h.paidCommand(),
	} {
		if cmd.Tier < permissions.Staff {
			cmd.WithTier(permissions.Staff)
		}
		client.CommandHandler.RegisterCommand(cmd)
	}
}
