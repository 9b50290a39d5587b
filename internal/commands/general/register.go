// Package general provides the prefix-less commands: say, commands, zitat,
// roll and weather.
package general

import (
	"github.com/PancyStudios/ModBotGo/pkg/discord"
	"github.com/PancyStudios/ModBotGo/pkg/stats"
	"github.com/PancyStudios/ModBotGo/pkg/weather"
)

// Deps are the services the general commands use
type Deps struct {
	Counter        *stats.Counter
	Weather        *weather.Client
	ZitatChannelID string
}

// Group builds the general group
func Group(deps Deps) *discord.Group {
	return discord.NewGroup(
		"General",
		"General commands",
		createSayCommand(),
		createCommandsCommand(deps),
		createZitatCommand(deps),
		createRollCommand(),
		createWeatherCommand(deps),
	)
}
