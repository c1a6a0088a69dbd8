package events

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/NewLifeSMP/NewLifeBotGo/pkg/discord"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/logger"
)

const defaultStatus = "NewLife SMP"

// RegisterReadyEvent logs the connection and sets the bot's activity.
// onReady runs only on the first Ready, not after reconnects.
func RegisterReadyEvent(client *discord.ExtendedClient, status string, onReady func()) {
	if status == "" {
		status = defaultStatus
	}
	var once sync.Once
	client.EventHandler.OnReady(func(s *discordgo.Session, r *discordgo.Ready) {
		logger.Success(fmt.Sprintf("✅ Bot connected: %s", r.User.Username), "Ready")
		logger.Info(fmt.Sprintf("📊 Connected to %d servers, %d commands loaded", len(r.Guilds), client.Commands.Size()), "Ready")

		if err := s.UpdateWatchStatus(0, status); err != nil {
			logger.Error(fmt.Sprintf("Error setting status: %v", err), "Ready")
		}
		if onReady != nil {
			once.Do(onReady)
		}
	})
}
