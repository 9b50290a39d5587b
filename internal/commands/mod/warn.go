package mod

import (
	"context"
	"errors"
	"fmt"

	"github.com/PancyStudios/ModBotGo/pkg/discord"
	"github.com/PancyStudios/ModBotGo/pkg/mention"
	"github.com/PancyStudios/ModBotGo/pkg/mqtt"
	"github.com/PancyStudios/ModBotGo/pkg/warnings"
	"github.com/bwmarrin/discordgo"
)

func createWarnCommand(deps Deps) *discord.Command {
	return discord.NewCommand(
		"warn",
		"Records a warning for a user",
		"mod",
		warnHandler(deps),
	).WithUsage("<@user> [reason]").
		WithPermissions(discordgo.PermissionModerateMembers)
}

// targetArg reads the mention argument every moderation command starts with
func targetArg(ctx *discord.CommandContext) (mention.UserID, bool) {
	raw, err := ctx.Args.Single()
	if err != nil {
		return 0, false
	}
	id, err := mention.ParseMention(raw)
	if err != nil {
		return 0, false
	}
	return id, true
}

func warnHandler(deps Deps) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		target, ok := targetArg(ctx)
		if !ok {
			return ctx.Reply(invalidMentionReply)
		}

		entry, err := deps.Ledger.Warn(context.Background(), target.String(), ctx.Args.Rest())
		if err != nil {
			if errors.Is(err, warnings.ErrStorageUnavailable) {
				_ = ctx.Reply(storageErrorReply)
			}
			return fmt.Errorf("warning %s: %w", target, err)
		}

		deps.publish(ctx, mqtt.ActionWarn, target.String(), entry.Reason)
		return ctx.Replyf("Warned %s: %s", target.Mention(), entry.Reason)
	}
}
