package mqtt

import "time"

// Moderation actions published on EventTopic
const (
	ActionWarn = "warn"
	ActionKick = "kick"
	ActionBan  = "ban"
)

// ModerationEvent is the payload of a moderation notification
type ModerationEvent struct {
	Action      string    `json:"action"`
	GuildID     string    `json:"guildId"`
	UserID      string    `json:"userId"`
	ModeratorID string    `json:"moderatorId"`
	Reason      string    `json:"reason"`
	At          time.Time `json:"at"`
}

// PublishModeration publishes ev on its action's event topic
func (mc *MqttCommunicator) PublishModeration(ev ModerationEvent) error {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	return mc.Publish(EventTopic(ev.Action), ev)
}
