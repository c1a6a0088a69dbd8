// Package discord provides the Discord bot client and related structures.
// It wraps discordgo with additional functionality for command, component
// and event handling.
package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/NewLifeSMP/NewLifeBotGo/pkg/cooldown"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/logger"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/permissions"
)

var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrCoolingDown      = errors.New("command on cooldown")
	ErrBotPermissions   = errors.New("bot lacks channel permissions")
)

// discordgo.Logger is a function, not an interface
func init() {
	discordgo.Logger = func(msgL int, caller int, format string, a ...interface{}) {
		msg := fmt.Sprintf(format, a...)
		switch msgL {
		case discordgo.LogError:
			logger.Error(msg, "DiscordGo")
		case discordgo.LogWarning:
			logger.Warn(msg, "DiscordGo")
		default:
			logger.Debug(msg, "DiscordGo")
		}
	}
}

// ComponentFunc handles a button or select press.
type ComponentFunc func(ctx *CommandContext) error

type componentRoute struct {
	prefix  string
	handler ComponentFunc
}

// ExtendedClient wraps discordgo.Session with additional functionality
type ExtendedClient struct {
	Session        *discordgo.Session
	Commands       *CommandCollection
	CommandHandler *CommandHandler
	EventHandler   *EventHandler
	Tiers          *permissions.Resolver
	StartTime      time.Time

	mu         sync.RWMutex
	isReady    bool
	cooldowns  map[string]*cooldown.Store
	components []componentRoute

	sweepCtx  context.Context
	stopSweep context.CancelFunc
}

// CommandCollection holds registered commands
type CommandCollection struct {
	commands map[string]*Command
	mu       sync.RWMutex
}

// NewCommandCollection creates a new CommandCollection
func NewCommandCollection() *CommandCollection {
	return &CommandCollection{
		commands: make(map[string]*Command),
	}
}

// Set adds or updates a command
func (cc *CommandCollection) Set(name string, cmd *Command) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.commands[name] = cmd
}

// Get retrieves a command by name
func (cc *CommandCollection) Get(name string) (*Command, bool) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	cmd, ok := cc.commands[name]
	return cmd, ok
}

// Size returns the number of commands
func (cc *CommandCollection) Size() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.commands)
}

// All returns all commands
func (cc *CommandCollection) All() map[string]*Command {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	result := make(map[string]*Command)
	for k, v := range cc.commands {
		result[k] = v
	}
	return result
}

var (
	client *ExtendedClient
	once   sync.Once
)

// Init initializes the global Discord client
func Init(token string, tiers *permissions.Resolver) (*ExtendedClient, error) {
	var err error
	once.Do(func() {
		client, err = NewClient(token, tiers)
	})
	return client, err
}

// Get returns the global Discord client
func Get() *ExtendedClient {
	return client
}

// NewClient creates a new ExtendedClient
func NewClient(token string, tiers *permissions.Resolver) (*ExtendedClient, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsMessageContent |
		discordgo.IntentsDirectMessages

	session.ShardCount = 1
	session.SyncEvents = false
	session.StateEnabled = true
	session.LogLevel = discordgo.LogWarning

	c := newClient(session, tiers)
	c.CommandHandler = NewCommandHandler(c)
	c.EventHandler = NewEventHandler(c)

	return c, nil
}

func newClient(session *discordgo.Session, tiers *permissions.Resolver) *ExtendedClient {
	ctx, cancel := context.WithCancel(context.Background())
	return &ExtendedClient{
		Session:   session,
		Commands:  NewCommandCollection(),
		Tiers:     tiers,
		cooldowns: make(map[string]*cooldown.Store),
		sweepCtx:  ctx,
		stopSweep: cancel,
	}
}

// Start initializes and starts the bot
func (c *ExtendedClient) Start() error {
	if err := c.EventHandler.LoadEvents(); err != nil {
		logger.Error("Failed to load events: "+err.Error(), "Client")
		return err
	}

	c.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		c.mu.Lock()
		c.isReady = true
		c.mu.Unlock()

		logger.Success("Logged in as "+r.User.Username, "Client")
		c.CommandHandler.RegisterCommands()
	})

	c.Session.AddHandler(c.handleInteraction)

	c.StartTime = time.Now()

	return c.Session.Open()
}

// RegisterComponent routes component interactions whose custom ID starts
// with prefix. The first matching prefix wins.
func (c *ExtendedClient) RegisterComponent(prefix string, handler ComponentFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.components = append(c.components, componentRoute{prefix: prefix, handler: handler})
}

func (c *ExtendedClient) componentFor(customID string) (ComponentFunc, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, r := range c.components {
		if strings.HasPrefix(customID, r.prefix) {
			return r.handler, true
		}
	}
	return nil, false
}

// commandName joins a command with its subcommand group and subcommand,
// e.g. "warnings.list".
func commandName(data discordgo.ApplicationCommandInteractionData) string {
	name := data.Name
	if len(data.Options) == 0 {
		return name
	}
	opt := data.Options[0]
	switch opt.Type {
	case discordgo.ApplicationCommandOptionSubCommandGroup:
		if len(opt.Options) > 0 {
			name = data.Name + "." + opt.Name + "." + opt.Options[0].Name
		}
	case discordgo.ApplicationCommandOptionSubCommand:
		name = data.Name + "." + opt.Name
	}
	return name
}

// handleInteraction handles incoming Discord interactions
func (c *ExtendedClient) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := &CommandContext{
		Session:     s,
		Interaction: i,
		Client:      c,
	}

	switch i.Type {
	case discordgo.InteractionMessageComponent:
		customID := i.MessageComponentData().CustomID
		handler, ok := c.componentFor(customID)
		if !ok {
			logger.Debug("No handler for component "+customID, "Client")
			return
		}
		c.resolveTier(ctx)
		if err := handler(ctx); err != nil {
			logger.Error("Error handling component "+customID+": "+err.Error(), "Client")
		}

	case discordgo.InteractionApplicationCommand:
		name := commandName(i.ApplicationCommandData())
		cmd, ok := c.Commands.Get(name)
		if !ok {
			logger.Warn("Command not found: "+name, "Client")
			return
		}
		if err := c.dispatch(ctx, name, cmd); err != nil &&
			!errors.Is(err, ErrPermissionDenied) && !errors.Is(err, ErrCoolingDown) && !errors.Is(err, ErrBotPermissions) {
			logger.Error("Error executing command "+name+": "+err.Error(), "Client")
		}
	}
}

// dispatch runs the tier, bot permission and cooldown checks, then the
// command.
func (c *ExtendedClient) dispatch(ctx *CommandContext, name string, cmd *Command) error {
	c.resolveTier(ctx)
	if err := c.TierMiddleware(ctx, cmd); err != nil {
		return err
	}
	if err := c.BotPermissionMiddleware(ctx, cmd); err != nil {
		return err
	}
	if err := c.CooldownMiddleware(ctx, name, cmd); err != nil {
		return err
	}
	return cmd.Run(ctx)
}

// Stop stops the bot and closes the session
func (c *ExtendedClient) Stop() error {
	c.mu.Lock()
	c.isReady = false
	c.mu.Unlock()
	c.stopSweep()

	if c.Session != nil {
		return c.Session.Close()
	}
	return nil
}

// IsReady returns true if the bot is ready
func (c *ExtendedClient) IsReady() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isReady
}

// Uptime is how long the client has been running.
func (c *ExtendedClient) Uptime() time.Duration {
	if c.StartTime.IsZero() {
		return 0
	}
	return time.Since(c.StartTime)
}

// GuildCount returns the number of guilds the bot is in
func (c *ExtendedClient) GuildCount() int {
	if c.Session == nil || c.Session.State == nil {
		return 0
	}
	c.Session.State.RLock()
	defer c.Session.State.RUnlock()
	return len(c.Session.State.Guilds)
}
