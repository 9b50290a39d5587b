package utils

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/PancyStudios/ModBotGo/pkg/config"
	"github.com/PancyStudios/ModBotGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// createStatsCommand creates the stats command
func createStatsCommand(deps Deps) *discord.Command {
	return discord.NewCommand(
		"stats",
		"Shows runtime statistics",
		"utils",
		statsHandler(deps),
	)
}

func statsHandler(deps Deps) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		var used uint64
		for _, c := range deps.Counter.Snapshot() {
			used += c.Count
		}

		var uptime time.Duration
		guilds := 0
		if ctx.Client != nil {
			uptime = ctx.Client.Uptime()
			guilds = ctx.Client.GuildCount()
		}

		embed := &discordgo.MessageEmbed{
			Title: "📊 Bot statistics",
			Color: 0x5865F2,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "🤖 Version", Value: config.Version, Inline: true},
				{Name: "🐹 Go", Value: strings.TrimPrefix(runtime.Version(), "go"), Inline: true},
				{Name: "📚 DiscordGo", Value: discordgo.VERSION, Inline: true},
				{Name: "🖥 RAM", Value: fmt.Sprintf("%.2f MB", float64(m.Alloc)/1024/1024), Inline: true},
				{Name: "⚙️ Goroutines", Value: fmt.Sprintf("%d / %d CPUs", runtime.NumGoroutine(), runtime.NumCPU()), Inline: true},
				{Name: "⏱ Uptime", Value: formatDuration(uptime), Inline: true},
				{Name: "🏠 Guilds", Value: fmt.Sprintf("%d", guilds), Inline: true},
				{Name: "⌨️ Commands run", Value: fmt.Sprintf("%d", used), Inline: true},
			},
			Timestamp: time.Now().Format(time.RFC3339),
		}

		_, err := ctx.Session.ChannelMessageSendComplex(ctx.ChannelID(), &discordgo.MessageSend{
			Embeds:    []*discordgo.MessageEmbed{embed},
			Reference: ctx.Message.Reference(),
		})
		return err
	}
}

// formatDuration formats a time.Duration into a human-readable string
func formatDuration(dur time.Duration) string {
	days := int(dur.Hours() / 24)
	hours := int(dur.Hours()) % 24
	minutes := int(dur.Minutes()) % 60
	seconds := int(dur.Seconds()) % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	if seconds > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%ds", seconds))
	}

	return strings.Join(parts, " ")
}
