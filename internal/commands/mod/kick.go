package mod

import (
	"fmt"

	"github.com/PancyStudios/ModBotGo/pkg/discord"
	"github.com/PancyStudios/ModBotGo/pkg/mqtt"
	"github.com/PancyStudios/ModBotGo/pkg/warnings"
	"github.com/bwmarrin/discordgo"
)

func createKickCommand(deps Deps) *discord.Command {
	return discord.NewCommand(
		"kick",
		"Kicks a user from the server",
		"mod",
		kickHandler(deps),
	).WithUsage("<@user> [reason]").
		WithPermissions(discordgo.PermissionKickMembers)
}

func kickHandler(deps Deps) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		target, ok := targetArg(ctx)
		if !ok {
			return ctx.Reply(invalidMentionReply)
		}
		reason := warnings.NormalizeReason(ctx.Args.Rest())

		if err := ctx.Session.GuildMemberDeleteWithReason(ctx.GuildID(), target.String(), reason); err != nil {
			_ = ctx.Replyf("Could not kick %s.", target.Mention())
			return fmt.Errorf("kicking %s: %w", target, err)
		}

		deps.publish(ctx, mqtt.ActionKick, target.String(), reason)
		return ctx.Replyf("Kicked %s: %s", target.Mention(), reason)
	}
}
