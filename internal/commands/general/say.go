package general

import (
	"github.com/PancyStudios/ModBotGo/pkg/discord"
)

func createSayCommand() *discord.Command {
	return discord.NewCommand(
		"say",
		"Repeats your text without pinging anyone",
		"general",
		sayHandler,
	).WithUsage("<text>").
		WithSubCommands(discord.NewCommand("vallah", "Nee", "general", vallahHandler))
}

// sayHandler echoes the text with user and role mentions made harmless
func sayHandler(ctx *discord.CommandContext) error {
	text := ctx.Args.Rest()
	if text == "" {
		return ctx.Reply("An argument is required to run this command.")
	}
	return ctx.Reply(discord.CleanContent(text, discord.MessageNames(ctx.State(), ctx.Message)))
}

func vallahHandler(ctx *discord.CommandContext) error {
	return ctx.Reply("Nee")
}
