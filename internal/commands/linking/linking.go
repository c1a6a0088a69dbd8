// Package linking lets members tie their Discord account to their
// Minecraft accounts.
package linking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/NewLifeSMP/NewLifeBotGo/internal/commands/cmdutil"
	"github.com/NewLifeSMP/NewLifeBotGo/internal/embeds"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/database"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/discord"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/duration"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/logger"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/models"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/permissions"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/profile"
)

const (
	linkCooldown = 30 * time.Second
	footerText   = "NewLife SMP Account Linking"
)

type Store interface {
	ListByDiscord(ctx context.Context, discordID string) ([]models.LinkedAccount, error)
	Link(ctx context.Context, acc *models.LinkedAccount) error
	Unlink(ctx context.Context, discordID, uuid string) (*models.LinkedAccount, error)
}

type Deps struct {
	Links    Store
	Profiles profile.Looker
	Now      func() time.Time
}

type handlers struct {
	Deps
}

// RegisterLinkingCommands registers /linkaccount, /myaccounts and /unlink.
func RegisterLinkingCommands(client *discord.ExtendedClient, deps Deps) {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	h := &handlers{deps}
	client.CommandHandler.RegisterCommand(h.linkAccountCommand().WithCooldown(linkCooldown))
	client.CommandHandler.RegisterCommand(h.myAccountsCommand())
	client.CommandHandler.RegisterCommand(h.unlinkCommand().WithTier(permissions.Admin))
}

func platformName(p string) string {
	if p == models.PlatformBedrock {
		return "Bedrock Edition"
	}
	return "Java Edition"
}

func failure(title, desc, help string) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{
		Title:       "❌ " + title,
		Description: desc,
		Color:       0xFF4444,
		Footer:      &discordgo.MessageEmbedFooter{Text: footerText},
		Timestamp:   time.Now().Format(time.RFC3339),
	}
	if help != "" {
		e.Fields = []*discordgo.MessageEmbedField{{Name: "❓ Need Help?", Value: help}}
	}
	return e
}

func notFoundTips(platform string) string {
	if platform == models.PlatformBedrock {
		return "• Make sure you entered your **Xbox Gamertag** exactly\n• Check capitalization\n• The account must exist and be valid"
	}
	return "• Make sure you entered your **Minecraft username** exactly\n• Check capitalization\n• The account must be a premium (paid) account"
}

// linkFailure maps a Link error onto the embed shown to the member. ok is
// false for errors that are not the member's doing.
func linkFailure(err error, name, platform string) (*discordgo.MessageEmbed, bool) {
	switch {
	case errors.Is(err, database.ErrAlreadyLinked):
		return &discordgo.MessageEmbed{
			Title:       "⚠️ Already Linked",
			Description: fmt.Sprintf("Your Discord account is already linked to **%s** (%s).", name, platform),
			Color:       embeds.ColorWarning,
			Footer:      &discordgo.MessageEmbedFooter{Text: footerText},
		}, true
	case errors.Is(err, database.ErrLinkedElsewhere):
		return failure("Account Already Linked",
			fmt.Sprintf("The Minecraft account **%s** is already linked to another Discord account.", name),
			"If you believe this is an error, please open a support ticket."), true
	case errors.Is(err, database.ErrTooManyAccounts):
		return failure("Maximum Accounts Reached",
			fmt.Sprintf("You already have %d linked accounts, which is the maximum allowed.", models.MaxLinkedAccounts),
			"If you need to change a linked account, please open a support ticket."), true
	}
	return nil, false
}

// linkAccountCommand creates the /linkaccount command
func (h *handlers) linkAccountCommand() *discord.Command {
	platform := cmdutil.PlatformOption("Your Minecraft platform")
	platform.Required = true
	platform.Choices[0].Name, platform.Choices[1].Name = "Java Edition", "Bedrock Edition"

	return discord.NewCommand("linkaccount", "Link your Discord account to your Minecraft account", "linking", func(ctx *discord.CommandContext) error {
		plat := ctx.GetStringOption("platform")
		name := strings.TrimSpace(ctx.GetStringOption("username"))
		user := ctx.User()

		return cmdutil.Deferred(ctx, true, "Link Failed", func(c context.Context) error {
			p, err := h.Profiles.Lookup(c, name, plat)
			if errors.Is(err, profile.ErrNotFound) {
				e := failure("Account Not Found", fmt.Sprintf("Could not find a %s account with the username **%s**.", platformName(plat), name), "")
				e.Fields = []*discordgo.MessageEmbedField{{Name: "💡 Tips", Value: notFoundTips(plat)}}
				return ctx.EditReplyEmbed(e)
			}
			if err != nil {
				return err
			}

			acc := &models.LinkedAccount{
				DiscordID:         user.ID,
				MinecraftUsername: p.Name,
				UUID:              p.UUID,
				Platform:          plat,
				LinkedAt:          h.Now(),
				LinkedBy:          user.ID,
				Verified:          true,
			}
			if err := h.Links.Link(c, acc); err != nil {
				if e, ok := linkFailure(err, p.Name, plat); ok {
					return ctx.EditReplyEmbed(e)
				}
				return err
			}
			logger.Info(fmt.Sprintf("%s linked %s (%s)", user.Username, p.Name, plat), "Linking")
			return ctx.EditReplyEmbed(linkedEmbed(p, plat))
		})
	}).WithOptions(
		platform,
		cmdutil.StringOption("username", "Your Minecraft username (for Bedrock, your Xbox Gamertag)", true),
	)
}

func linkedEmbed(p *profile.Profile, platform string) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{
		Title:       "✅ Account Linked Successfully!",
		Description: "Your Discord account has been linked to your Minecraft account.",
		Color:       embeds.ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "🎮 Minecraft Username", Value: "`" + p.Name + "`", Inline: true},
			{Name: "📱 Platform", Value: platformName(platform), Inline: true},
			{Name: "🔗 UUID", Value: "`" + p.UUID + "`"},
			{Name: "🚀 What's Next?", Value: "You can now join **NewLife SMP**! Connect to the server and start your adventure."},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: footerText},
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if platform == models.PlatformJava {
		e.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: profile.AvatarURL(p.UUID)}
	}
	return e
}

// myAccountsCommand creates the /myaccounts command
func (h *handlers) myAccountsCommand() *discord.Command {
	return discord.NewCommand("myaccounts", "View your linked Minecraft accounts", "linking", func(ctx *discord.CommandContext) error {
		user := ctx.User()
		return cmdutil.Deferred(ctx, true, "Linked Accounts", func(c context.Context) error {
			accounts, err := h.Links.ListByDiscord(c, user.ID)
			if err != nil {
				return err
			}
			return ctx.EditReplyEmbed(accountsEmbed(accounts))
		})
	})
}

func accountsEmbed(accounts []models.LinkedAccount) *discordgo.MessageEmbed {
	if len(accounts) == 0 {
		return &discordgo.MessageEmbed{
			Title:       "🔗 No Linked Accounts",
			Description: "You don't have any Minecraft accounts linked to your Discord.",
			Color:       embeds.ColorWarning,
			Fields: []*discordgo.MessageEmbedField{{
				Name:  "📝 How to Link",
				Value: "Use `/linkaccount` to link your Minecraft account!\n\n**Example:**\n`/linkaccount platform:Java Edition username:YourMinecraftName`",
			}},
			Footer: &discordgo.MessageEmbedFooter{Text: footerText},
		}
	}
	plural := ""
	if len(accounts) > 1 {
		plural = "s"
	}
	e := &discordgo.MessageEmbed{
		Title:       "🔗 Your Linked Accounts",
		Description: fmt.Sprintf("You have **%d** linked account%s.", len(accounts), plural),
		Color:       embeds.ColorInfo,
		Footer:      &discordgo.MessageEmbedFooter{Text: footerText},
		Timestamp:   time.Now().Format(time.RFC3339),
	}
	for _, a := range accounts {
		icon := "💻"
		if a.Platform == models.PlatformBedrock {
			icon = "📱"
		}
		badge := ""
		if a.Primary {
			badge = " ⭐"
		}
		e.Fields = append(e.Fields, &discordgo.MessageEmbedField{
			Name: fmt.Sprintf("%s %s%s", icon, a.MinecraftUsername, badge),
			Value: fmt.Sprintf("**Platform:** %s\n**UUID:** `%s`\n**Linked:** %s",
				a.PlatformLabel(), a.UUID, duration.Relative(a.LinkedAt)),
		})
		if e.Thumbnail == nil && a.Platform == models.PlatformJava {
			e.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: profile.AvatarURL(a.UUID)}
		}
	}
	return e
}

// unlinkCommand creates the /unlink command
func (h *handlers) unlinkCommand() *discord.Command {
	return discord.NewCommand("unlink", "Remove one of a member's linked accounts", "linking", func(ctx *discord.CommandContext) error {
		user := ctx.GetUserOption("user")
		if user == nil {
			return ctx.ReplyEphemeral("Could not find that user.")
		}
		name := strings.TrimSpace(ctx.GetStringOption("username"))
		staff := cmdutil.Staff(ctx)

		return cmdutil.Deferred(ctx, true, "Unlink Failed", func(c context.Context) error {
			accounts, err := h.Links.ListByDiscord(c, user.ID)
			if err != nil {
				return err
			}
			acc := findAccount(accounts, name)
			if acc == nil {
				return ctx.EditReplyEmbed(embeds.Error("Unlink Failed", fmt.Sprintf("<@%s> has no linked account named **%s**.", user.ID, name)))
			}
			if _, err := h.Links.Unlink(c, user.ID, acc.UUID); err != nil {
				return err
			}
			logger.Info(fmt.Sprintf("%s unlinked %s from %s", staff.Tag, acc.MinecraftUsername, user.Username), "Linking")
			return ctx.EditReplyEmbed(embeds.Success("Account Unlinked",
				fmt.Sprintf("**%s** (%s) is no longer linked to <@%s>.", acc.MinecraftUsername, acc.PlatformLabel(), user.ID)))
		})
	}).WithOptions(
		cmdutil.UserOption("user", "Member whose account to unlink", true),
		cmdutil.StringOption("username", "Minecraft username to unlink", true),
	)
}

func findAccount(accounts []models.LinkedAccount, name string) *models.LinkedAccount {
	for i := range accounts {
		if strings.EqualFold(accounts[i].MinecraftUsername, name) {
			return &accounts[i]
		}
	}
	return nil
}
