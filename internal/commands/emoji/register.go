// Package emoji provides "?emoji cat" and "?emoji dog".
package emoji

import "github.com/PancyStudios/ModBotGo/pkg/discord"

// Group builds the emoji group
func Group() *discord.Group {
	return discord.NewGroup(
		"Emoji",
		"Sends emojis",
		discord.NewCommand("cat", "Sends an emoji with a cat.", "emoji", send(":cat:")).
			WithAliases("kitty", "neko"),
		discord.NewCommand("dog", "Sends an emoji with a dog.", "emoji", send(":dog:")),
	).WithPrefixes("emoji").WithBucket("emoji")
}

func send(emoji string) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		return ctx.Say(emoji)
	}
}
