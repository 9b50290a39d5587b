// Package events wires gateway event handlers onto the bot client
package events

import (
	"github.com/PancyStudios/ModBotGo/pkg/discord"
	"github.com/PancyStudios/ModBotGo/pkg/logger"
)

// RegisterAll registers every gateway event handler on client. prefix is
// the command prefix shown in status and welcome texts.
func RegisterAll(client *discord.ExtendedClient, prefix string) {
	logger.System("📋 Registrando eventos del bot...", "Events")

	RegisterReadyEvent(client, prefix)
	RegisterShardEvents(client)
	RegisterGuildEvents(client, prefix)
	RegisterMessageEvents(client, prefix)

	logger.Success("✅ Todos los eventos registrados correctamente", "Events")
}
