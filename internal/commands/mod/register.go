// Package mod provides the moderation commands reachable as "?mod <command>".
// Each command is in its own file.
package mod

import (
	"errors"
	"fmt"

	"github.com/PancyStudios/ModBotGo/pkg/discord"
	"github.com/PancyStudios/ModBotGo/pkg/logger"
	"github.com/PancyStudios/ModBotGo/pkg/mqtt"
	"github.com/PancyStudios/ModBotGo/pkg/warnings"
)

// Replies shared by the commands that take a user mention
const (
	invalidMentionReply = "Please mention a valid user, e.g. <@123456789>."
	storageErrorReply   = "Could not save the warning, please try again later."
)

// Publisher sends moderation notifications, *mqtt.MqttCommunicator in production
type Publisher interface {
	PublishModeration(ev mqtt.ModerationEvent) error
}

// Deps are the services the moderation commands use
type Deps struct {
	Ledger *warnings.Ledger
	// Events is optional
	Events Publisher
}

// Group builds the mod group
func Group(deps Deps) *discord.Group {
	return discord.NewGroup(
		"Mod",
		"Moderation commands",
		createDelCommand(),
		createWarnCommand(deps),
		createWarningsCommand(deps),
		createKickCommand(deps),
		createBanCommand(deps),
	).WithPrefixes("mod").WithBucket("mod").AsGuildOnly()
}

// publish reports a moderation action; failures are only logged
func (d Deps) publish(ctx *discord.CommandContext, action, userID, reason string) {
	if d.Events == nil {
		return
	}
	err := d.Events.PublishModeration(mqtt.ModerationEvent{
		Action:      action,
		GuildID:     ctx.GuildID(),
		UserID:      userID,
		ModeratorID: ctx.Author().ID,
		Reason:      reason,
	})
	if err != nil && !errors.Is(err, mqtt.ErrNotConnected) {
		logger.Warn(fmt.Sprintf("No se pudo publicar el evento %s: %v", action, err), "Mod")
	}
}
