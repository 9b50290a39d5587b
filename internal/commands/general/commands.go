package general

import (
	"fmt"
	"strings"

	"github.com/PancyStudios/ModBotGo/pkg/discord"
)

func createCommandsCommand(deps Deps) *discord.Command {
	return discord.NewCommand(
		"commands",
		"Shows how often each command was used",
		"general",
		commandsHandler(deps),
	).WithBucket("complicated")
}

func commandsHandler(deps Deps) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		var b strings.Builder
		b.WriteString("Commands used:\n")
		for _, c := range deps.Counter.Snapshot() {
			fmt.Fprintf(&b, "- %s: %d\n", c.Name, c.Count)
		}
		return ctx.Say(b.String())
	}
}
