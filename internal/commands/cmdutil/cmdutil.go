// Package cmdutil holds what every command package shares: the acting staff
// member, error-to-message mapping and the deferred reply pattern.
package cmdutil

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/NewLifeSMP/NewLifeBotGo/internal/embeds"
	"github.com/NewLifeSMP/NewLifeBotGo/internal/moderation"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/bulk"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/database"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/discord"
	apperrors "github.com/NewLifeSMP/NewLifeBotGo/pkg/errors"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/logger"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/outcome"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/profile"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/rcon"
)

// GenericError is shown for anything unexpected.
const GenericError = "Something went wrong. Please try again later."

// Staff returns the invoking member as the acting staff member.
func Staff(ctx *discord.CommandContext) moderation.Staff {
	u := ctx.User()
	if u == nil {
		return moderation.Staff{}
	}
	return moderation.Staff{ID: u.ID, Tag: u.Username}
}

var expected = []struct {
	err error
	msg string
}{
	{moderation.ErrAlreadyBanned, "That player is already banned."},
	{moderation.ErrPlayerNotFound, "Could not find that Minecraft account. Try specifying the platform with the `platform` option."},
	{moderation.ErrNoLinkedAccounts, "This Discord user has no linked Minecraft accounts."},
	{moderation.ErrNoActiveBan, "No active bans found for that player."},
	{moderation.ErrNotMuted, "That member is not muted."},
	{moderation.ErrInvalidDuration, "Invalid duration format. Use formats like `1d`, `7d`, `30d`, `1h`, `30m`, or `perm` for permanent."},
	{moderation.ErrInvalidType, "Invalid infraction type. Use termination, warning, notice or strike."},
	{database.ErrInvalidReference, "That is not a valid case number or ID."},
	{database.ErrAlreadyInactive, "That record is already inactive."},
	{database.ErrAlreadyLinked, "That Minecraft account is already linked to your Discord account."},
	{database.ErrLinkedElsewhere, "That Minecraft account is already linked to another Discord user."},
	{database.ErrTooManyAccounts, "You have reached the maximum of linked accounts. Ask an admin to unlink one first."},
	{database.ErrNotConnected, "The database is not connected right now. Please try again shortly."},
	{database.ErrNotFound, "No matching record was found."},
	{profile.ErrNotFound, "Could not find that Minecraft account."},
	{profile.ErrInvalidPlatform, "Platform must be java or bedrock."},
	{bulk.ErrNotFound, "This action has expired or was already handled."},
	{bulk.ErrNotInitiator, "Only the staff member who started this action can confirm it."},
	{bulk.ErrNoTargets, "No valid players provided."},
	{bulk.ErrTooManyTargets, fmt.Sprintf("You can target at most %d players per bulk action.", bulk.MaxTargets)},
	{rcon.ErrNotConfigured, "RCON is not configured for this bot."},
}

// Describe maps err onto the message shown to the user. ok is false for
// errors nobody anticipated; those deserve a log line.
func Describe(err error) (msg string, ok bool) {
	for _, e := range expected {
		if errors.Is(err, e.err) {
			return e.msg, true
		}
	}
	return GenericError, false
}

// Fail shows err on a deferred reply.
func Fail(ctx *discord.CommandContext, title string, err error) error {
	msg, ok := Describe(err)
	if !ok {
		logger.Error(fmt.Sprintf("%s: %v", title, err), "Commands")
	}
	return ctx.EditReplyEmbed(embeds.Error(title, msg))
}

// Deferred acknowledges the interaction, then runs fn in a recovered
// goroutine with a bounded context. An error from fn is shown with Fail.
func Deferred(ctx *discord.CommandContext, ephemeral bool, title string, fn func(context.Context) error) error {
	var err error
	if ephemeral {
		err = ctx.DeferEphemeral()
	} else {
		err = ctx.Defer()
	}
	if err != nil {
		return err
	}
	apperrors.Go(func() {
		c, cancel := ctx.Context()
		defer cancel()
		if err := fn(c); err != nil {
			_ = Fail(ctx, title, err)
		}
	})
	return nil
}

// Step renders one side effect, e.g. "✅ DM sent" or "⚠️ DM: user has DMs closed".
func Step(label string, r outcome.Result) string {
	switch {
	case r.IsOK():
		return "✅ " + label
	case r.IsSkipped():
		return "➖ " + label + ": " + r.Reason
	default:
		return "⚠️ " + label + ": " + r.Reason
	}
}

// Page clamps a 1-based page number and returns it with the page count.
func Page(page int64, total int64, perPage int) (int, int) {
	pages := int((total + int64(perPage) - 1) / int64(perPage))
	if pages < 1 {
		pages = 1
	}
	p := int(page)
	if p < 1 {
		p = 1
	}
	if p > pages {
		p = pages
	}
	return p, pages
}

// Count reads an optional count option bounded to [1, max].
func Count(v int64, def, max int) int {
	switch {
	case v <= 0:
		return def
	case v > int64(max):
		return max
	}
	return int(v)
}

// Lines joins list lines, keeping the result inside an embed description.
func Lines(lines []string) string {
	var b strings.Builder
	for i, l := range lines {
		if b.Len()+len(l)+1 > 4000 {
			fmt.Fprintf(&b, "\n…and %d more", len(lines)-i)
			break
		}
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(l)
	}
	return b.String()
}

// PlatformOption is the java/bedrock choice shared by player commands.
func PlatformOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "platform",
		Description: description,
		Choices: []*discordgo.ApplicationCommandOptionChoice{
			{Name: "Java", Value: profile.Java},
			{Name: "Bedrock", Value: profile.Bedrock},
		},
	}
}

// StringOption builds a string option.
func StringOption(name, description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        name,
		Description: description,
		Required:    required,
	}
}

// IntOption builds an integer option.
func IntOption(name, description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        name,
		Description: description,
		Required:    required,
	}
}

// UserOption builds a user option.
func UserOption(name, description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        name,
		Description: description,
		Required:    required,
	}
}

// BoolOption builds a boolean option.
func BoolOption(name, description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionBoolean,
		Name:        name,
		Description: description,
		Required:    required,
	}
}
