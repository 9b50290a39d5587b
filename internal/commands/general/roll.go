package general

import (
	"math/rand/v2"
	"strconv"

	"github.com/PancyStudios/ModBotGo/pkg/discord"
)

func createRollCommand() *discord.Command {
	return discord.NewCommand(
		"roll",
		"Rolls a number between 1 and n",
		"general",
		rollHandler,
	).WithUsage("<n>")
}

func rollHandler(ctx *discord.CommandContext) error {
	raw, err := ctx.Args.Single()
	if err != nil {
		return ctx.Reply("You need to provide a number!")
	}
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || n == 0 {
		return ctx.Reply("You need to provide a number!")
	}
	return ctx.Replyf("You rolled a %d!", rand.Uint64N(n)+1)
}
