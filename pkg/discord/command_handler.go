// Package discord provides the command handler for loading and registering commands.
package discord

import (
	"fmt"
	"sort"

	"github.com/bwmarrin/discordgo"

	"github.com/NewLifeSMP/NewLifeBotGo/pkg/config"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/logger"
)

// CommandHandler manages command loading and registration
type CommandHandler struct {
	client           *ExtendedClient
	slashCommands    []*discordgo.ApplicationCommand
	slashCommandsDev []*discordgo.ApplicationCommand
}

// NewCommandHandler creates a new CommandHandler
func NewCommandHandler(client *ExtendedClient) *CommandHandler {
	return &CommandHandler{
		client:           client,
		slashCommands:    make([]*discordgo.ApplicationCommand, 0),
		slashCommandsDev: make([]*discordgo.ApplicationCommand, 0),
	}
}

// RegisterCommand adds a top-level command to the handler
func (ch *CommandHandler) RegisterCommand(cmd *Command) {
	ch.client.Commands.Set(cmd.Name, cmd)

	appCmd := cmd.ToApplicationCommand()

	if cmd.IsDev {
		ch.slashCommandsDev = append(ch.slashCommandsDev, appCmd)
	} else {
		ch.slashCommands = append(ch.slashCommands, appCmd)
	}

	logger.Debug("Command registered: "+cmd.Name, "CommandHandler")
}

// RegisterGroup registers a command with subcommands, e.g. /warnings list.
func (ch *CommandHandler) RegisterGroup(name, description string, subcommands ...*Command) {
	ch.AddGlobalCommand(ch.BuildCommandGroup(name, description, subcommands...))
	logger.Debug(fmt.Sprintf("Command group registered: %s (%d subcommands)", name, len(subcommands)), "CommandHandler")
}

// BuildCommandGroup creates a command group with subcommands
func (ch *CommandHandler) BuildCommandGroup(name, description string, subcommands ...*Command) *discordgo.ApplicationCommand {
	options := make([]*discordgo.ApplicationCommandOption, 0, len(subcommands))

	for _, cmd := range subcommands {
		fullName := name + "." + cmd.Name
		ch.client.Commands.Set(fullName, cmd)

		opt := &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        cmd.Name,
			Description: cmd.Description,
			Options:     cmd.Options,
		}
		options = append(options, opt)
	}

	return &discordgo.ApplicationCommand{
		Name:        name,
		Description: description,
		Options:     options,
	}
}

// ApplicationCommands returns the commands that will be pushed to Discord.
func (ch *CommandHandler) ApplicationCommands() []*discordgo.ApplicationCommand {
	out := make([]*discordgo.ApplicationCommand, len(ch.slashCommands))
	copy(out, ch.slashCommands)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// RegisterCommands overwrites the bot's commands in the home guild, or
// globally when no guild is configured. Dev commands go to the dev guild.
func (ch *CommandHandler) RegisterCommands() {
	cfg := config.Get()
	appID := ch.client.Session.State.User.ID

	if err := SyncCommands(ch.client.Session, appID, cfg.GuildID, ch.ApplicationCommands()); err != nil {
		logger.Error("Failed to register commands: "+err.Error(), "CommandHandler")
	}

	if cfg.DevGuildID != "" && len(ch.slashCommandsDev) > 0 {
		if err := SyncCommands(ch.client.Session, appID, cfg.DevGuildID, ch.slashCommandsDev); err != nil {
			logger.Error("Failed to register dev commands: "+err.Error(), "CommandHandler")
		}
	}
}

// CommandOverwriter is the part of the session SyncCommands needs.
type CommandOverwriter interface {
	ApplicationCommandBulkOverwrite(appID string, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
}

// SyncCommands replaces every command in scope with cmds. An empty guildID
// targets global commands.
func SyncCommands(s CommandOverwriter, appID, guildID string, cmds []*discordgo.ApplicationCommand) error {
	scope := "global"
	if guildID != "" {
		scope = "guild " + guildID
	}
	logger.Info(fmt.Sprintf("🔄 Registering %d commands (%s)...", len(cmds), scope), "CommandHandler")

	created, err := s.ApplicationCommandBulkOverwrite(appID, guildID, cmds)
	if err != nil {
		return fmt.Errorf("bulk overwrite %s: %w", scope, err)
	}

	logger.Success(fmt.Sprintf("✅ %d commands registered (%s).", len(created), scope), "CommandHandler")
	return nil
}

// UnregisterCommands removes all commands from the home guild.
func (ch *CommandHandler) UnregisterCommands() error {
	return SyncCommands(ch.client.Session, ch.client.Session.State.User.ID, config.Get().GuildID, nil)
}

// AddGlobalCommand adds a command to the global command list
func (ch *CommandHandler) AddGlobalCommand(cmd *discordgo.ApplicationCommand) {
	ch.slashCommands = append(ch.slashCommands, cmd)
}

// AddDevCommand adds a command to the dev command list
func (ch *CommandHandler) AddDevCommand(cmd *discordgo.ApplicationCommand) {
	ch.slashCommandsDev = append(ch.slashCommandsDev, cmd)
}
