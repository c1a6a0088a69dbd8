// Package events registers the bot's gateway event handlers.
package events

import (
	"context"

	"github.com/NewLifeSMP/NewLifeBotGo/pkg/discord"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/guru"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/logger"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/models"
)

// ResponseTracker records guru replies in application tickets.
type ResponseTracker interface {
	TrackResponse(ctx context.Context, g guru.Guru, tk guru.Ticket, content string) (*models.GuruPerformance, error)
}

type Deps struct {
	// Status is the "Watching ..." activity set once connected.
	Status string

	Tracker          ResponseTracker
	TicketCategoryID string
	GuruRoleID       string

	// OnReady runs once the gateway session is ready, e.g. to start the
	// plugin watcher.
	OnReady func()
}

// RegisterAll registers all events with the Discord client.
func RegisterAll(client *discord.ExtendedClient, deps Deps) {
	logger.System("📋 Registering bot events...", "Events")

	RegisterReadyEvent(client, deps.Status, deps.OnReady)
	RegisterShardEvents(client)
	if deps.Tracker != nil && deps.TicketCategoryID != "" && deps.GuruRoleID != "" {
		RegisterMessageEvents(client, &guruResponses{
			tracker:    deps.Tracker,
			categoryID: deps.TicketCategoryID,
			guruRoleID: deps.GuruRoleID,
		})
	}

	logger.Success("✅ All events registered", "Events")
}
