package general

import (
	"fmt"

	"github.com/PancyStudios/ModBotGo/pkg/discord"
)

func createZitatCommand(deps Deps) *discord.Command {
	return discord.NewCommand(
		"zitat",
		"Posts a quote to the quote channel",
		"general",
		zitatHandler(deps),
	).WithUsage("<text>")
}

func zitatHandler(deps Deps) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		text := ctx.Args.Rest()
		if text == "" {
			return ctx.Say("You need to add a zitat!")
		}
		if deps.ZitatChannelID == "" {
			return ctx.Say("No zitat channel is configured.")
		}

		if err := ctx.SayIn(deps.ZitatChannelID, text); err != nil {
			return fmt.Errorf("posting zitat: %w", err)
		}
		return ctx.Say(fmt.Sprintf("Zitat posted in <#%s>!", deps.ZitatChannelID))
	}
}
