package discord

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/NewLifeSMP/NewLifeBotGo/pkg/cooldown"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/logger"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/permissions"
)

// resolveTier fills ctx.Tier from the invoking member's roles. DMs resolve
// to Everyone unless the user is the owner.
func (c *ExtendedClient) resolveTier(ctx *CommandContext) {
	if c.Tiers == nil {
		ctx.Tier = permissions.Everyone
		return
	}
	var roles []string
	if m := ctx.Member(); m != nil {
		roles = m.Roles
	}
	ctx.Tier = c.Tiers.TierOf(ctx.User().ID, roles)
}

// TierMiddleware rejects a command the member's tier does not reach.
func (c *ExtendedClient) TierMiddleware(ctx *CommandContext, cmd *Command) error {
	if ctx.Tier.AtLeast(cmd.Tier) {
		return nil
	}
	logger.Warn(fmt.Sprintf("%s denied /%s (needs %s, has %s)", ctx.User().Username, cmd.Name, cmd.Tier, ctx.Tier), "Permissions")
	_ = ctx.ReplyEphemeral(DeniedMessage(cmd.Tier))
	return ErrPermissionDenied
}

// DeniedMessage is the reply for a member below the required tier.
func DeniedMessage(required permissions.Tier) string {
	return fmt.Sprintf("❌ You do not have permission to use this command. Requires **%s** or higher.", required)
}

// BotPermissionMiddleware rejects a command when Discord reports the bot is
// missing permissions the command needs in this channel.
func (c *ExtendedClient) BotPermissionMiddleware(ctx *CommandContext, cmd *Command) error {
	if !missingPermissions(ctx.Interaction.AppPermissions, cmd.BotPermissions) {
		return nil
	}
	_ = ctx.ReplyEphemeral("❌ I am missing the permissions needed for this command here.")
	return ErrBotPermissions
}

// missingPermissions is false when nothing is required or the interaction
// carried no permission set.
func missingPermissions(granted, required int64) bool {
	if required == 0 || granted == 0 {
		return false
	}
	if granted&discordgo.PermissionAdministrator != 0 {
		return false
	}
	return granted&required != required
}

// CooldownMiddleware enforces a command's per-member cooldown.
func (c *ExtendedClient) CooldownMiddleware(ctx *CommandContext, name string, cmd *Command) error {
	if cmd.Cooldown <= 0 {
		return nil
	}
	store := c.cooldownFor(name, cmd.Cooldown)
	left, ok := store.Try(keyOf(ctx))
	if ok {
		return nil
	}
	_ = ctx.ReplyEphemeral(fmt.Sprintf("⏳ Please wait %d seconds before using this command again.", int(left.Round(time.Second)/time.Second)))
	return ErrCoolingDown
}

const cooldownSweep = 5 * time.Minute

func (c *ExtendedClient) cooldownFor(name string, window time.Duration) *cooldown.Store {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.cooldowns[name]
	if !ok {
		s = cooldown.New(window)
		c.cooldowns[name] = s
		go s.Run(c.sweepCtx, cooldownSweep)
	}
	return s
}

func keyOf(ctx *CommandContext) cooldown.Key {
	return cooldown.Key{GuildID: ctx.Interaction.GuildID, UserID: ctx.User().ID}
}
