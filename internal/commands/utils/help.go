package utils

import (
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/NewLifeSMP/NewLifeBotGo/internal/embeds"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/discord"
)

func createHelpCommand() *discord.Command {
	return discord.NewCommand(
		"help",
		"List the bot's commands",
		"utils",
		helpHandler,
	)
}

var helpSections = []struct {
	name     string
	commands []string
}{
	{"Accounts", []string{
		"`/linkaccount` - Link your Minecraft account",
		"`/myaccounts` - Show your linked accounts",
	}},
	{"Warnings (Moderator+)", []string{
		"`/warn user` `/warn member` - Issue a warning",
		"`/warn case` - Look up a warning",
		"`/warnings` `/activewarnings` `/recentwarnings` - List warnings",
		"`/removewarn` - Pardon a warning",
	}},
	{"Bans and kicks (Moderator+)", []string{
		"`/ban` `/unban` - Ban or unban a player and their linked accounts",
		"`/checkban` `/banhistory` `/bancase` `/recentbans` - Ban lookups",
		"`/kick` `/kickhistory` `/recentkicks` - Kicks",
		"`/mute` `/unmute` - Discord timeouts",
		"`/fine` `/paid` - Fines",
	}},
	{"Staff", []string{
		"`/whitelist add` - Whitelist a player",
		"`/guru stats|performance|report|history` - Guru performance",
		"`/infract` `/revokeinfraction` `/infractions` - Staff infractions",
		"`/bulk` - Bulk actions (Management+)",
		"`/restart` `/restartstatus` - Server restarts (Admin+)",
	}},
}

func helpEmbed() *discordgo.MessageEmbed {
	e := embeds.Info("📖 NewLife SMP Bot", "Commands you can use depend on your staff tier.", embeds.ColorInfo)
	for _, s := range helpSections {
		e.Fields = append(e.Fields, &discordgo.MessageEmbedField{Name: s.name, Value: strings.Join(s.commands, "\n")})
	}
	return e
}

func helpHandler(ctx *discord.CommandContext) error {
	return ctx.ReplyEphemeralEmbed(helpEmbed())
}
