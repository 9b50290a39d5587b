package mod

import (
	"fmt"

	"github.com/PancyStudios/ModBotGo/pkg/discord"
	"github.com/PancyStudios/ModBotGo/pkg/mqtt"
	"github.com/PancyStudios/ModBotGo/pkg/warnings"
	"github.com/bwmarrin/discordgo"
)

func createBanCommand(deps Deps) *discord.Command {
	return discord.NewCommand(
		"ban",
		"Bans a user from the server",
		"mod",
		banHandler(deps),
	).WithUsage("<@user> [reason]").
		WithPermissions(discordgo.PermissionBanMembers)
}

func banHandler(deps Deps) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		target, ok := targetArg(ctx)
		if !ok {
			return ctx.Reply(invalidMentionReply)
		}
		reason := warnings.NormalizeReason(ctx.Args.Rest())

		// Messages are kept: 0 days of history deleted
		if err := ctx.Session.GuildBanCreateWithReason(ctx.GuildID(), target.String(), reason, 0); err != nil {
			_ = ctx.Replyf("Could not ban %s.", target.Mention())
			return fmt.Errorf("banning %s: %w", target, err)
		}

		deps.publish(ctx, mqtt.ActionBan, target.String(), reason)
		return ctx.Replyf("Banned %s: %s", target.Mention(), reason)
	}
}
