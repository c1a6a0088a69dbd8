// Package main is the entry point for the NewLife SMP bot.
// It initializes all systems and starts the Discord bot.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NewLifeSMP/NewLifeBotGo/internal/commands"
	"github.com/NewLifeSMP/NewLifeBotGo/internal/commands/bulkactions"
	"github.com/NewLifeSMP/NewLifeBotGo/internal/commands/linking"
	"github.com/NewLifeSMP/NewLifeBotGo/internal/commands/mod"
	"github.com/NewLifeSMP/NewLifeBotGo/internal/commands/staff"
	"github.com/NewLifeSMP/NewLifeBotGo/internal/commands/utils"
	"github.com/NewLifeSMP/NewLifeBotGo/internal/events"
	"github.com/NewLifeSMP/NewLifeBotGo/internal/jobs"
	"github.com/NewLifeSMP/NewLifeBotGo/internal/moderation"
	"github.com/NewLifeSMP/NewLifeBotGo/internal/notify"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/bulk"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/config"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/database"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/discord"
	apperrors "github.com/NewLifeSMP/NewLifeBotGo/pkg/errors"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/guru"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/logger"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/mqtt"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/permissions"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/profile"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/rcon"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/scheduler"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/web"
)

const guildName = "NewLife SMP"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(cfg.ErrorWebhook, cfg.LogsWebhook)
	defer log.Close()

	logger.System(fmt.Sprintf("Starting NewLife bot %s (%s)...", config.Version, cfg.Environment), "Main")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()
	apperrors.Init(cfg.ErrorWebhook, stop)

	// Database. A failed first connect keeps retrying in the background.
	db, err := database.Init(cfg.MongoDBURL, cfg.DBName)
	if err != nil {
		logger.Error(fmt.Sprintf("Error connecting to database: %v", err), "Main")
	} else {
		ictx, cancel := context.WithTimeout(ctx, 30*time.Second)
		if err := db.EnsureIndexes(ictx); err != nil {
			logger.Warn(fmt.Sprintf("Could not ensure indexes: %v", err), "Main")
		}
		cancel()
	}
	defer func() { _ = db.Disconnect() }()

	var (
		counter     = database.NewCaseCounter(db)
		warnings    = database.NewWarningStore(db)
		serverBans  = database.NewServerBanStore(db)
		pluginBans  = database.NewBanStore(db)
		kicks       = database.NewKickStore(db)
		mutes       = database.NewMuteStore(db)
		fines       = database.NewFineStore(db)
		infractions = database.NewInfractionStore(db)
		links       = database.NewLinkedAccountStore(db)
		guruStore   = database.NewGuruStore(db)
	)

	// Game server and proxy consoles.
	var (
		game       rcon.Executor
		gameTester utils.RCONTester
		proxy      rcon.Executor
	)
	if cfg.RCON.Enabled() {
		c := rcon.NewClient(cfg.RCON)
		defer func() { _ = c.Close() }()
		game, gameTester = c, c
	} else {
		logger.Warn("RCON not configured; whitelist, restarts and bulk actions are limited", "Main")
	}
	if cfg.ProxyRCON.Enabled() {
		proxy = rcon.NewProxyClient(cfg.ProxyRCON)
	}
	profiles := profile.NewClient(cfg.ProfileAPI)

	// Discord
	client, err := discord.Init(cfg.BotToken, permissions.NewResolver(cfg.Roles, cfg.OwnerID))
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creating Discord client: %v", err), "Main")
		os.Exit(1)
	}
	notifier := notify.New(client.Session, cfg.LogChannelID, cfg.DMLogChannelID)
	guild := notify.NewGuild(client.Session, cfg.GuildID)

	// MQTT
	mqttClientID := "newlifebot"
	if !cfg.IsProd() {
		mqttClientID = "newlifebot_canary"
	}
	mqttClient := mqtt.Init(cfg.MQTTHost, cfg.MQTTPort, cfg.MQTTUser, cfg.MQTTPassword, mqttClientID)
	defer mqttClient.Destroy()
	mqttClient.On(mqtt.BanLookupTopic, mqtt.BanLookup(serverBans, time.Now))

	hub := web.NewHub()
	go hub.Run(ctx)

	svc := moderation.New(moderation.Deps{
		Counter:           counter,
		Warnings:          warnings,
		ServerBans:        serverBans,
		Kicks:             kicks,
		Mutes:             mutes,
		Fines:             fines,
		Infractions:       infractions,
		Links:             links,
		Profiles:          profiles,
		Proxy:             proxy,
		Notifier:          notifier,
		Events:            moderation.Sinks{mqttClient.Events(), hub},
		Timeouts:          guild,
		InfractionChannel: cfg.InfractionChannelID,
		GuildName:         guildName,
	})
	tracker := guru.NewTracker(guruStore)

	// Scheduled jobs
	sched := scheduler.New()
	set := jobs.Set{
		GuruReport: jobs.NewGuruReport(guruStore, notifier, cfg.GuildID, cfg.OwnerID, cfg.GuruReportRecipients),
		StaffReport: jobs.NewStaffReport(
			func(ctx context.Context, since time.Time) (*database.ActivityReport, error) {
				return database.CollectActivity(ctx, database.ActivitySources{
					ServerBans: serverBans, Kicks: kicks, Warnings: warnings, Mutes: mutes,
				}, since)
			},
			func(ctx context.Context) (int, error) { return guild.CountRole(ctx, cfg.StaffRoleID) },
			notifier, cfg.OwnerID),
		MuteExpiry: jobs.NewMuteExpiry(mutes),
	}
	if game != nil {
		set.Restart = jobs.NewRestarter(game, notifier, cfg.OwnerID)
	}
	if proxy != nil && cfg.StaffRoleID != "" && cfg.CurrentlyModeratingRole != "" {
		set.StaffOnline = jobs.NewStaffOnline(proxy, links, client.Session, cfg.GuildID, cfg.StaffRoleID, cfg.CurrentlyModeratingRole)
	}
	if err := set.Register(sched, cfg.Schedules); err != nil {
		logger.Error(fmt.Sprintf("Error registering jobs: %v", err), "Main")
	}

	commands.RegisterAll(client, commands.Deps{
		Mod: mod.Deps{
			Service:    svc,
			Warnings:   warnings,
			ServerBans: serverBans,
			PluginBans: pluginBans,
			Kicks:      kicks,
		},
		Staff: staff.Deps{
			Service:     svc,
			Infractions: infractions,
			Guru:        guruStore,
			Tracker:     tracker,
			GuruRoleID:  cfg.GuruRoleID,
			Links:       links,
			Profiles:    profiles,
			RCON:        game,
			Messages:    notifier,
			Restarter:   set.Restart,
			NextRun:     sched.Next,
			RCONHost:    cfg.RCON.Host,
			GuruReport:  set.GuruReport,
			StaffReport: set.StaffReport,
		},
		Linking: linking.Deps{Links: links, Profiles: profiles},
		Bulk: bulkactions.Deps{
			Store: bulk.NewStore(),
			Executor: bulk.NewExecutor(bulk.Deps{
				Counter:  counter,
				Warnings: warnings,
				Bans:     pluginBans,
				RCON:     game,
			}),
			RCON: game,
		},
		Utils: utils.Deps{
			DB:       db,
			MQTT:     mqttClient,
			RCON:     gameTester,
			Watching: svc.Watching,
		},
	})

	events.RegisterAll(client, events.Deps{
		Status:           cfg.Status,
		Tracker:          tracker,
		TicketCategoryID: cfg.TicketCategoryID,
		GuruRoleID:       cfg.GuruRoleID,
		OnReady: func() {
			sched.Start()
			apperrors.Go(func() { watch(ctx, db, svc) })
		},
	})

	// Web server
	webServer := web.Init(cfg.LogsWebServerHook, cfg.WebAllowedHosts)
	web.SetupAPIRoutes(webServer, web.API{
		GuildID:  cfg.GuildID,
		Warnings: warnings,
		Bans:     serverBans,
		Guru:     guruStore,
		Hub:      hub,
	})
	webServer.StartAsync(cfg.Port)

	if err := client.Start(); err != nil {
		logger.Critical(fmt.Sprintf("Error starting Discord client: %v", err), "Main")
		os.Exit(1)
	}

	logger.Success("NewLife bot started", "Main")
	<-ctx.Done()
	logger.System("Shutting down...", "Main")

	sctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	sched.StopAll(sctx)
	if err := webServer.Shutdown(sctx); err != nil {
		logger.Warn(fmt.Sprintf("Web server shutdown: %v", err), "Main")
	}
	if err := client.Stop(); err != nil {
		logger.Warn(fmt.Sprintf("Discord client stop: %v", err), "Main")
	}
}

// watch follows inserts from the game server plugin so its warnings and
// bans get the same DMs and log posts as the bot's own.
func watch(ctx context.Context, db *database.Database, svc *moderation.Service) {
	svc.SetWatching(true)
	defer svc.SetWatching(false)
	if err := db.Watch(ctx, svc); err != nil {
		logger.Warn(fmt.Sprintf("Watcher stopped: %v", err), "Watcher")
	}
}
