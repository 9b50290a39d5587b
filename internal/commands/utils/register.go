// Package utils provides the bot's own status commands: ping, status and stats.
package utils

import (
	"github.com/PancyStudios/ModBotGo/pkg/discord"
	"github.com/PancyStudios/ModBotGo/pkg/stats"
)

// StatusSource reports a backend's health as a display string
type StatusSource interface {
	GetStatus() (string, bool)
}

// Deps are the services the utility commands report on. Database and
// Broker are nil when the backend is not in use.
type Deps struct {
	Counter  *stats.Counter
	Database StatusSource
	Broker   interface{ IsConnected() bool }
}

// Group builds the utils group
func Group(deps Deps) *discord.Group {
	return discord.NewGroup(
		"Utils",
		"Bot status commands",
		createPingCommand(),
		createStatusCommand(deps),
		createStatsCommand(deps),
	)
}
