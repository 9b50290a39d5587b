package events

import (
	"fmt"
	"strings"

	"github.com/PancyStudios/ModBotGo/pkg/discord"
	"github.com/PancyStudios/ModBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// RegisterMessageEvents answers a bare mention of the bot with the prefix.
// Commands themselves are dispatched by the client's router.
func RegisterMessageEvents(client *discord.ExtendedClient, prefix string) {
	client.EventHandler.RegisterEvent("MessageCreate", func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if s.State == nil || s.State.User == nil {
			return
		}
		if err := answerMention(s, m.Message, s.State.User.ID, prefix); err != nil {
			logger.Error(fmt.Sprintf("Error enviando respuesta: %v", err), "Message")
		}
	})
}

func answerMention(s discord.Messenger, m *discordgo.Message, botID, prefix string) error {
	if m.Author == nil || m.Author.Bot || !isBareMention(m.Content, botID) {
		return nil
	}
	_, err := s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("👋 My prefix is `%s`. Try `%shelp`.", prefix, prefix))
	return err
}

func isBareMention(content, botID string) bool {
	if botID == "" {
		return false
	}
	content = strings.TrimSpace(content)
	return content == "<@"+botID+">" || content == "<@!"+botID+">"
}
