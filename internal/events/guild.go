package events

import (
	"fmt"
	"time"

	"github.com/PancyStudios/ModBotGo/pkg/discord"
	"github.com/PancyStudios/ModBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// joinWindow separates a fresh join from the GuildCreate burst on connect
const joinWindow = 10 * time.Second

// RegisterGuildEvents registers the server join and leave handlers
func RegisterGuildEvents(client *discord.ExtendedClient, prefix string) {
	client.EventHandler.OnGuildCreate(func(s *discordgo.Session, g *discordgo.GuildCreate) {
		if !isFreshJoin(g.Guild, time.Now()) {
			return
		}

		logger.Info(fmt.Sprintf("➕ Bot agregado a servidor: %s (ID: %s)", g.Name, g.ID), "Guild")
		logger.Debug(fmt.Sprintf("   Miembros: %d | Canales: %d", g.MemberCount, len(g.Channels)), "Guild")

		if g.SystemChannelID == "" {
			return
		}
		if _, err := s.ChannelMessageSendEmbed(g.SystemChannelID, welcomeEmbed(prefix)); err != nil {
			logger.Error(fmt.Sprintf("Error enviando mensaje de bienvenida: %v", err), "Guild")
		}
	})
	client.EventHandler.OnGuildDelete(func(s *discordgo.Session, g *discordgo.GuildDelete) {
		logger.Info(fmt.Sprintf("➖ Bot removido del servidor ID: %s", g.ID), "Guild")
	})
}

func isFreshJoin(g *discordgo.Guild, now time.Time) bool {
	return g != nil && !g.JoinedAt.IsZero() && g.JoinedAt.After(now.Add(-joinWindow))
}

func welcomeEmbed(prefix string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Thanks for adding me! 🎉",
		Description: fmt.Sprintf("Use `%shelp` to see every command.", prefix),
		Color:       0x00ff00,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "🔧 Moderation",
				Value:  fmt.Sprintf("`%swarn`, `%skick`, `%sban`", prefix, prefix, prefix),
				Inline: true,
			},
			{
				Name:   "😺 Fun",
				Value:  fmt.Sprintf("`%semoji cat`, `%sroll`", prefix, prefix),
				Inline: true,
			},
			{
				Name:   "❓ Help",
				Value:  fmt.Sprintf("`%shelp <command>`", prefix),
				Inline: true,
			},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}
