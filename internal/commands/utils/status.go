package utils

import (
	"fmt"

	"github.com/PancyStudios/ModBotGo/pkg/discord"
)

const notConfigured = "⚪ | Not configured"

// createStatusCommand creates the status command
func createStatusCommand(deps Deps) *discord.Command {
	return discord.NewCommand(
		"status",
		"Shows the state of the bot and its backends",
		"utils",
		statusHandler(deps),
	)
}

func statusHandler(deps Deps) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		dbStatus := notConfigured
		if deps.Database != nil {
			dbStatus, _ = deps.Database.GetStatus()
		}

		brokerStatus := notConfigured
		if deps.Broker != nil {
			brokerStatus = "🔴 | Disconnected"
			if deps.Broker.IsConnected() {
				brokerStatus = "🟢 | Online"
			}
		}

		guilds := 0
		if ctx.Client != nil {
			guilds = ctx.Client.GuildCount()
		}

		return ctx.Reply(fmt.Sprintf(
			"📊 **Bot status**\n"+
				"• Bot: 🟢 Online\n"+
				"• Database: %s\n"+
				"• MQTT: %s\n"+
				"• Servers: %d",
			dbStatus,
			brokerStatus,
			guilds,
		))
	}
}
