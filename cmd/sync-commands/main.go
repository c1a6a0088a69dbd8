// Package main syncs the bot's slash commands with Discord without starting
// the bot. Stale commands are removed and the current set is registered.
//
// Usage:
//
//	go run ./cmd/sync-commands [options]
//
// Options:
//
//	-list           List the commands Discord currently has
//	-clean          Remove all commands without registering new ones
//	-guild <id>     Target a guild instead of the configured GUILD_ID
//	-global         Target global commands
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/bwmarrin/discordgo"

	"github.com/NewLifeSMP/NewLifeBotGo/internal/commands"
	"github.com/NewLifeSMP/NewLifeBotGo/internal/commands/bulkactions"
	"github.com/NewLifeSMP/NewLifeBotGo/internal/commands/linking"
	"github.com/NewLifeSMP/NewLifeBotGo/internal/commands/mod"
	"github.com/NewLifeSMP/NewLifeBotGo/internal/commands/staff"
	"github.com/NewLifeSMP/NewLifeBotGo/internal/jobs"
	"github.com/NewLifeSMP/NewLifeBotGo/internal/moderation"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/bulk"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/config"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/database"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/discord"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/guru"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/logger"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/profile"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/rcon"
)

func main() {
	listCmd := flag.Bool("list", false, "List all registered commands")
	cleanCmd := flag.Bool("clean", false, "Remove all commands without registering new ones")
	guildFlag := flag.String("guild", "", "Target guild (defaults to GUILD_ID)")
	global := flag.Bool("global", false, "Target global commands")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(cfg.ErrorWebhook, cfg.LogsWebhook)
	defer log.Close()

	guildID := cfg.GuildID
	if *guildFlag != "" {
		guildID = *guildFlag
	}
	if *global {
		guildID = ""
	}

	client, err := discord.NewClient(cfg.BotToken, nil)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creating Discord client: %v", err), "SyncCommands")
		os.Exit(1)
	}
	if err := client.Session.Open(); err != nil {
		logger.Critical(fmt.Sprintf("Error connecting to Discord: %v", err), "SyncCommands")
		os.Exit(1)
	}
	defer func() { _ = client.Session.Close() }()
	appID := client.Session.State.User.ID

	switch {
	case *listCmd:
		err = listCommands(client.Session, appID, guildID)
	case *cleanCmd:
		err = discord.SyncCommands(client.Session, appID, guildID, nil)
	default:
		commands.RegisterAll(client, catalogDeps(cfg))
		err = discord.SyncCommands(client.Session, appID, guildID, client.CommandHandler.ApplicationCommands())
	}
	if err != nil {
		logger.Error(err.Error(), "SyncCommands")
		os.Exit(1)
	}
	logger.Success("Done", "SyncCommands")
}

// catalogDeps builds dependencies that are never used, only present, so
// every command category registers. Nothing here connects anywhere.
func catalogDeps(cfg *config.Config) commands.Deps {
	db := database.NewDatabase()
	game := rcon.NewClient(cfg.RCON)
	guruStore := database.NewGuruStore(db)
	links := database.NewLinkedAccountStore(db)
	profiles := profile.NewClient(cfg.ProfileAPI)
	svc := moderation.New(moderation.Deps{})

	return commands.Deps{
		Mod: mod.Deps{Service: svc},
		Staff: staff.Deps{
			Service:     svc,
			Guru:        guruStore,
			Tracker:     guru.NewTracker(guruStore),
			Links:       links,
			Profiles:    profiles,
			RCON:        game,
			Restarter:   jobs.NewRestarter(game, nil, ""),
			StaffReport: jobs.NewStaffReport(nil, nil, nil, ""),
		},
		Linking: linking.Deps{Links: links, Profiles: profiles},
		Bulk: bulkactions.Deps{
			Store:    bulk.NewStore(),
			Executor: bulk.NewExecutor(bulk.Deps{}),
		},
	}
}

func listCommands(s *discordgo.Session, appID, guildID string) error {
	cmds, err := s.ApplicationCommands(appID, guildID)
	if err != nil {
		return fmt.Errorf("list commands: %w", err)
	}
	if len(cmds) == 0 {
		logger.Info("No commands registered", "SyncCommands")
		return nil
	}
	logger.Info(fmt.Sprintf("Commands found: %d", len(cmds)), "SyncCommands")
	for i, cmd := range cmds {
		logger.Info(fmt.Sprintf("  %d. /%s - %s (ID: %s)", i+1, cmd.Name, cmd.Description, cmd.ID), "SyncCommands")
	}
	return nil
}
