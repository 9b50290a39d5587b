package mod

import (
	"github.com/PancyStudios/ModBotGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

const delUsage = "Reply to the message you want to delete with `?mod del`."

func createDelCommand() *discord.Command {
	return discord.NewCommand(
		"del",
		"Deletes the message you replied to",
		"mod",
		delHandler,
	).WithPermissions(discordgo.PermissionManageMessages)
}

// delHandler deletes the referenced message and then the command itself
func delHandler(ctx *discord.CommandContext) error {
	ref := ctx.Message.MessageReference
	if ref == nil || ref.MessageID == "" {
		return ctx.Reply(delUsage)
	}
	channelID := ref.ChannelID
	if channelID == "" {
		channelID = ctx.ChannelID()
	}

	if err := ctx.Session.ChannelMessageDelete(channelID, ref.MessageID); err != nil {
		return err
	}
	return ctx.Session.ChannelMessageDelete(ctx.ChannelID(), ctx.Message.ID)
}
