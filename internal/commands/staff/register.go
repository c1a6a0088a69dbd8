// Package staff holds the commands that manage the staff team itself:
// infractions, guru performance, whitelisting and server operations.
package staff

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/NewLifeSMP/NewLifeBotGo/internal/jobs"
	"github.com/NewLifeSMP/NewLifeBotGo/internal/moderation"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/database"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/discord"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/guru"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/models"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/outcome"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/permissions"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/profile"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/rcon"
)

type InfractionLister interface {
	List(ctx context.Context, f database.InfractionFilter, limit int) ([]models.Infraction, error)
}

type GuruReader interface {
	FindWeek(ctx context.Context, guruID string, weekStart time.Time) (*models.GuruPerformance, error)
	ListWeek(ctx context.Context, guildID string, weekStart time.Time) ([]models.GuruPerformance, error)
	History(ctx context.Context, guruID, guildID string, since time.Time) ([]models.GuruPerformance, error)
}

type Links interface {
	FindByName(ctx context.Context, name string) (*models.LinkedAccount, error)
	Link(ctx context.Context, acc *models.LinkedAccount) error
}

// Messenger delivers DMs and log channel posts.
type Messenger interface {
	DM(ctx context.Context, userID string, embed *discordgo.MessageEmbed) outcome.Result
	Log(ctx context.Context, embed *discordgo.MessageEmbed) outcome.Result
}

// Deps are what the staff commands need. A nil member disables the
// commands that depend on it.
type Deps struct {
	Service     *moderation.Service
	Infractions InfractionLister
	Guru        GuruReader
	Tracker     *guru.Tracker
	GuruRoleID  string

	Links    Links
	Profiles profile.Looker
	RCON     rcon.Executor
	Messages Messenger

	Restarter   *jobs.Restarter
	NextRun     func(name string) time.Time
	RCONHost    string
	GuruReport  *jobs.GuruReport
	StaffReport *jobs.StaffReport

	Now func() time.Time
}

type handlers struct {
	Deps
}

// RegisterStaffCommands registers the staff management commands.
func RegisterStaffCommands(client *discord.ExtendedClient, deps Deps) {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	h := &handlers{deps}
	ch := client.CommandHandler

	ch.RegisterCommand(h.infractCommand().WithTier(permissions.Management))
	ch.RegisterCommand(h.revokeInfractionCommand().WithTier(permissions.Management))
	ch.RegisterCommand(h.infractionsCommand().WithTier(permissions.Supervisor))

	if h.Guru != nil {
		subs := []*discord.Command{
			h.guruStatsCommand().WithTier(permissions.Staff),
			h.guruPerformanceCommand().WithTier(permissions.Supervisor),
			h.guruReportCommand().WithTier(permissions.Supervisor),
			h.guruHistoryCommand().WithTier(permissions.Supervisor),
		}
		if h.Tracker != nil {
			subs = append(subs, h.guruCloseCommand().WithTier(permissions.Staff))
		}
		ch.RegisterGroup("guru", "Whitelist guru performance", subs...)
	}

	if h.RCON != nil && h.Profiles != nil {
		ch.RegisterGroup("whitelist", "Manage whitelist entries",
			h.whitelistAddCommand().WithTier(permissions.Staff),
		)
	}

	if h.Restarter != nil {
		ch.RegisterCommand(h.restartCommand().WithTier(permissions.Admin))
		ch.RegisterCommand(h.restartStatusCommand().WithTier(permissions.Admin))
	}
	if h.StaffReport != nil {
		ch.RegisterCommand(h.staffReportCommand().WithTier(permissions.Owner))
	}
}
