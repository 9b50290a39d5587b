package mod

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PancyStudios/ModBotGo/pkg/discord"
	"github.com/PancyStudios/ModBotGo/pkg/mqtt"
	"github.com/PancyStudios/ModBotGo/pkg/warnings"
	"github.com/bwmarrin/discordgo"
)

// maxMessageLength is Discord's limit for one message
const maxMessageLength = 2000

func createWarningsCommand(deps Deps) *discord.Command {
	return discord.NewCommand(
		"warnings",
		"Lists the warnings of a user",
		"mod",
		warningsHandler(deps),
	).WithUsage("<@user>").
		WithPermissions(discordgo.PermissionModerateMembers)
}

func warningsHandler(deps Deps) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		target, ok := targetArg(ctx)
		if !ok {
			return ctx.Reply(invalidMentionReply)
		}

		lines, err := deps.Ledger.List(context.Background(), target.String())
		switch {
		case errors.Is(err, warnings.ErrNotFound):
			return ctx.Replyf("%s has no warnings.", target.Mention())
		case err != nil:
			_ = ctx.Reply("Could not read the warnings, please try again later.")
			return fmt.Errorf("listing %s: %w", target, err)
		}

		header := fmt.Sprintf("Warnings for %s (%d):", target.Mention(), len(lines))
		for i, chunk := range chunkLines(header, lines, maxMessageLength) {
			if i == 0 {
				err = ctx.Reply(chunk)
			} else {
				err = ctx.Say(chunk)
			}
			if err != nil {
				return err
			}
		}
		return nil
	}
}

// chunkLines joins header and lines with newlines into messages of at most
// limit bytes. A single line longer than limit is cut.
func chunkLines(header string, lines []string, limit int) []string {
	var chunks []string
	var b strings.Builder
	b.WriteString(header)

	for _, line := range lines {
		if len(line) > limit-1 {
			n := limit - 1
			for n > 0 && !utf8.RuneStart(line[n]) {
				n--
			}
			line = line[:n]
		}
		if b.Len()+1+len(line) > limit {
			chunks = append(chunks, b.String())
			b.Reset()
			b.WriteString(line)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}
	if b.Len() > 0 {
		chunks = append(chunks, b.String())
	}
	return chunks
}

// WarningsRequestHandler answers "warnings/list" requests arriving over MQTT.
// The payload carries "userId"; the answer lists the stored lines.
func WarningsRequestHandler(ledger *warnings.Ledger) mqtt.RequestHandler {
	return func(payload map[string]interface{}) (interface{}, error) {
		userID, _ := payload["userId"].(string)
		lines, err := ledger.List(context.Background(), userID)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"userId":   userID,
			"count":    len(lines),
			"warnings": lines,
		}, nil
	}
}
