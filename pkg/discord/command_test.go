package discord

import (
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/NewLifeSMP/NewLifeBotGo/pkg/config"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/permissions"
)

// TestCommandCreation verifies that commands can be created with the builder pattern
func TestCommandCreation(t *testing.T) {
	handler := func(ctx *CommandContext) error {
		return nil
	}

	cmd := NewCommand("test", "Test command", "test", handler)
	
	if cmd == nil {
		t.Fatal("NewCommand returned nil")
	}

	if cmd.Name != "test" {
		t.Errorf("Name = %v, want %v", cmd.Name, "test")
	}

	if cmd.Description != "Test command" {
		t.Errorf("Description = %v, want %v", cmd.Description, "Test command")
	}

	if cmd.Category != "test" {
		t.Errorf("Category = %v, want %v", cmd.Category, "test")
	}

	if cmd.Run == nil {
		t.Error("Run function is nil")
	}
}

// TestCommandWithOptions verifies the WithOptions builder method
func TestCommandWithOptions(t *testing.T) {
	handler := func(ctx *CommandContext) error {
		return nil
	}

	option := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "test-option",
		Description: "Test option",
		Required:    true,
	}

	cmd := NewCommand("test", "Test command", "test", handler).
		WithOptions(option)

	if cmd.Options == nil {
		t.Fatal("Options is nil")
	}

	if len(cmd.Options) != 1 {
		t.Fatalf("Options length = %v, want %v", len(cmd.Options), 1)
	}

	if cmd.Options[0].Name != "test-option" {
		t.Errorf("Option name = %v, want %v", cmd.Options[0].Name, "test-option")
	}
}

// TestCommandWithPermissions verifies the permission builder method
func TestCommandWithPermissions(t *testing.T) {
	handler := func(ctx *CommandContext) error {
		return nil
	}

	cmd := NewCommand("mute", "Mute", "mod", handler).
		WithBotPermissions(discordgo.PermissionModerateMembers)

	if cmd.BotPermissions != discordgo.PermissionModerateMembers {
		t.Errorf("BotPermissions = %v, want %v", cmd.BotPermissions, discordgo.PermissionModerateMembers)
	}
}

func TestMissingPermissions(t *testing.T) {
	tests := []struct {
		name              string
		granted, required int64
		want              bool
	}{
		{"nothing required", discordgo.PermissionSendMessages, 0, false},
		{"unknown grant", 0, discordgo.PermissionModerateMembers, false},
		{"granted", discordgo.PermissionModerateMembers | discordgo.PermissionSendMessages, discordgo.PermissionModerateMembers, false},
		{"administrator", discordgo.PermissionAdministrator, discordgo.PermissionModerateMembers, false},
		{"missing", discordgo.PermissionSendMessages, discordgo.PermissionModerateMembers, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := missingPermissions(tt.granted, tt.required); got != tt.want {
				t.Errorf("missingPermissions() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestCommandAsDev verifies the AsDev builder method
func TestCommandAsDev(t *testing.T) {
	handler := func(ctx *CommandContext) error {
		return nil
	}

	cmd := NewCommand("test", "Test command", "test", handler).AsDev()

	if !cmd.IsDev {
		t.Error("IsDev should be true after calling AsDev()")
	}
}

// TestToApplicationCommand verifies conversion to Discord application command
func TestToApplicationCommand(t *testing.T) {
	handler := func(ctx *CommandContext) error {
		return nil
	}

	option := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "test-option",
		Description: "Test option",
		Required:    true,
	}

	cmd := NewCommand("test", "Test command", "test", handler).
		WithOptions(option)

	appCmd := cmd.ToApplicationCommand()

	if appCmd == nil {
		t.Fatal("ToApplicationCommand returned nil")
	}

	if appCmd.Name != "test" {
		t.Errorf("ApplicationCommand Name = %v, want %v", appCmd.Name, "test")
	}

	if appCmd.Description != "Test command" {
		t.Errorf("ApplicationCommand Description = %v, want %v", appCmd.Description, "Test command")
	}

	if len(appCmd.Options) != 1 {
		t.Fatalf("ApplicationCommand Options length = %v, want %v", len(appCmd.Options), 1)
	}
}

func TestCommandWithTierAndCooldown(t *testing.T) {
	cmd := NewCommand("link", "Link account", "linking", func(ctx *CommandContext) error { return nil }).
		WithTier(permissions.Admin).
		WithCooldown(30 * time.Second)

	if cmd.Tier != permissions.Admin {
		t.Errorf("Tier = %v, want %v", cmd.Tier, permissions.Admin)
	}
	if cmd.Cooldown != 30*time.Second {
		t.Errorf("Cooldown = %v, want %v", cmd.Cooldown, 30*time.Second)
	}
}

func TestCommandName(t *testing.T) {
	tests := []struct {
		name string
		data discordgo.ApplicationCommandInteractionData
		want string
	}{
		{"plain", discordgo.ApplicationCommandInteractionData{Name: "ping"}, "ping"},
		{"string option", discordgo.ApplicationCommandInteractionData{
			Name:    "case",
			Options: []*discordgo.ApplicationCommandInteractionDataOption{{Name: "number", Type: discordgo.ApplicationCommandOptionString}},
		}, "case"},
		{"subcommand", discordgo.ApplicationCommandInteractionData{
			Name:    "warnings",
			Options: []*discordgo.ApplicationCommandInteractionDataOption{{Name: "list", Type: discordgo.ApplicationCommandOptionSubCommand}},
		}, "warnings.list"},
		{"group", discordgo.ApplicationCommandInteractionData{
			Name: "bulk",
			Options: []*discordgo.ApplicationCommandInteractionDataOption{{
				Name:    "server",
				Type:    discordgo.ApplicationCommandOptionSubCommandGroup,
				Options: []*discordgo.ApplicationCommandInteractionDataOption{{Name: "kick", Type: discordgo.ApplicationCommandOptionSubCommand}},
			}},
		}, "bulk.server.kick"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := commandName(tt.data); got != tt.want {
				t.Errorf("commandName() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComponentRouting(t *testing.T) {
	c := newClient(nil, nil)
	var hit string
	c.RegisterComponent("bulk_confirm_", func(ctx *CommandContext) error { hit = "confirm"; return nil })
	c.RegisterComponent("bulk_cancel_", func(ctx *CommandContext) error { hit = "cancel"; return nil })

	h, ok := c.componentFor("bulk_cancel_abc123")
	if !ok {
		t.Fatal("no handler for bulk_cancel_abc123")
	}
	_ = h(nil)
	if hit != "cancel" {
		t.Errorf("routed to %q, want cancel", hit)
	}
	if _, ok := c.componentFor("ticket_close_1"); ok {
		t.Error("unknown prefix matched a handler")
	}
}

func TestDispatchAllowsSufficientTier(t *testing.T) {
	tiers := permissions.NewResolver(config.Roles{Moderator: "mod", Admin: "admin"}, "owner")
	c := newClient(nil, tiers)

	ran := false
	cmd := NewCommand("restart", "Restart", "server", func(ctx *CommandContext) error {
		ran = true
		if ctx.Tier != permissions.Admin {
			t.Errorf("ctx.Tier = %v, want %v", ctx.Tier, permissions.Admin)
		}
		return nil
	}).WithTier(permissions.Admin).WithCooldown(time.Minute)

	ctx := &CommandContext{
		Client: c,
		Interaction: &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
			GuildID: "g",
			Member:  &discordgo.Member{User: &discordgo.User{ID: "u1"}, Roles: []string{"mod", "admin"}},
		}},
	}
	if err := c.dispatch(ctx, "restart", cmd); err != nil {
		t.Fatalf("dispatch() error = %v", err)
	}
	if !ran {
		t.Error("command did not run")
	}
	if _, ok := c.cooldownFor("restart", time.Minute).Try(keyOf(ctx)); ok {
		t.Error("cooldown was not recorded")
	}
}

func TestResolveTierOwnerInDM(t *testing.T) {
	c := newClient(nil, permissions.NewResolver(config.Roles{}, "owner"))
	ctx := &CommandContext{Interaction: &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		User: &discordgo.User{ID: "owner"},
	}}}
	c.resolveTier(ctx)
	if ctx.Tier != permissions.Owner {
		t.Errorf("Tier = %v, want %v", ctx.Tier, permissions.Owner)
	}
}

type fakeOverwriter struct {
	guildID string
	cmds    []*discordgo.ApplicationCommand
	err     error
}

func (f *fakeOverwriter) ApplicationCommandBulkOverwrite(_ string, guildID string, cmds []*discordgo.ApplicationCommand, _ ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error) {
	f.guildID, f.cmds = guildID, cmds
	return cmds, f.err
}

func TestSyncCommands(t *testing.T) {
	f := &fakeOverwriter{}
	cmds := []*discordgo.ApplicationCommand{{Name: "ping"}, {Name: "warnings"}}
	if err := SyncCommands(f, "app", "guild", cmds); err != nil {
		t.Fatalf("SyncCommands() error = %v", err)
	}
	if f.guildID != "guild" || len(f.cmds) != 2 {
		t.Errorf("overwrite got guild %q with %d commands", f.guildID, len(f.cmds))
	}

	f.err = errors.New("401 Unauthorized")
	if err := SyncCommands(f, "app", "", cmds); err == nil {
		t.Error("SyncCommands() error = nil, want failure")
	}
}
