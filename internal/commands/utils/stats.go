package utils

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/NewLifeSMP/NewLifeBotGo/pkg/config"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/discord"
)

func createStatsCommand() *discord.Command {
	return discord.NewCommand(
		"stats",
		"Show bot statistics",
		"utils",
		statsHandler,
	)
}

func statsHandler(ctx *discord.CommandContext) error {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	memberCount := 0
	ctx.Session.State.RLock()
	for _, guild := range ctx.Session.State.Guilds {
		memberCount += guild.MemberCount
	}
	ctx.Session.State.RUnlock()

	embed := &discordgo.MessageEmbed{
		Title: "📊 Bot Statistics",
		Color: 0x5865F2,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "🤖 Bot Version", Value: config.Version, Inline: true},
			{Name: "🐹 Go Version", Value: strings.TrimPrefix(runtime.Version(), "go"), Inline: true},
			{Name: "📚 DiscordGo Version", Value: discordgo.VERSION, Inline: true},
			{Name: "🖥 Memory", Value: fmt.Sprintf("%.2f MB", float64(m.Alloc)/1024/1024), Inline: true},
			{Name: "⚙️ Goroutines", Value: fmt.Sprintf("%d Goroutines / %d CPUs", runtime.NumGoroutine(), runtime.NumCPU()), Inline: true},
			{Name: "⏱ Uptime", Value: formatDuration(ctx.Client.Uptime()), Inline: true},
			{Name: "👥 Members", Value: fmt.Sprintf("%d", memberCount), Inline: true},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: "NewLife SMP"},
		Timestamp: time.Now().Format(time.RFC3339),
	}
	return ctx.ReplyEmbed(embed)
}

// formatDuration renders d as e.g. "2 days, 3 hours, 5 minutes".
func formatDuration(d time.Duration) string {
	units := []struct {
		n    int
		name string
	}{
		{int(d.Hours() / 24), "day"},
		{int(d.Hours()) % 24, "hour"},
		{int(d.Minutes()) % 60, "minute"},
		{int(d.Seconds()) % 60, "second"},
	}
	var parts []string
	for _, u := range units {
		if u.n == 0 {
			continue
		}
		s := fmt.Sprintf("%d %s", u.n, u.name)
		if u.n != 1 {
			s += "s"
		}
		parts = append(parts, s)
	}
	if len(parts) == 0 {
		return "0 seconds"
	}
	return strings.Join(parts, ", ")
}
