package utils

import (
	"fmt"

	"github.com/PancyStudios/ModBotGo/pkg/discord"
)

// createPingCommand creates the ping command
func createPingCommand() *discord.Command {
	return discord.NewCommand(
		"ping",
		"Checks the gateway latency",
		"utils",
		pingHandler,
	)
}

func pingHandler(ctx *discord.CommandContext) error {
	if ctx.Client == nil || ctx.Client.Session == nil {
		return ctx.Reply("🏓 Pong!")
	}
	latency := ctx.Client.Session.HeartbeatLatency().Milliseconds()
	return ctx.Reply(fmt.Sprintf("🏓 Pong! Latency: %dms", latency))
}
