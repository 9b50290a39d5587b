package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// CommandContext provides context for command execution
type CommandContext struct {
	Session Messenger
	Message *discordgo.Message
	Client  *ExtendedClient
	Router  *Router
	Command *Command
	Group   *Group
	Args    *Args
}

// ChannelID returns the channel the command was sent in
func (ctx *CommandContext) ChannelID() string {
	return ctx.Message.ChannelID
}

// GuildID returns the guild the command was sent in, empty in DMs
func (ctx *CommandContext) GuildID() string {
	return ctx.Message.GuildID
}

// Author returns the user who sent the command
func (ctx *CommandContext) Author() *discordgo.User {
	return ctx.Message.Author
}

// State returns the session's cache, nil when running without a gateway client
func (ctx *CommandContext) State() *discordgo.State {
	if ctx.Client == nil || ctx.Client.Session == nil {
		return nil
	}
	return ctx.Client.Session.State
}

// Reply answers the command message with a reply reference
func (ctx *CommandContext) Reply(content string) error {
	_, err := ctx.Session.ChannelMessageSendComplex(ctx.Message.ChannelID, &discordgo.MessageSend{
		Content:   content,
		Reference: ctx.Message.Reference(),
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Parse: []discordgo.AllowedMentionType{discordgo.AllowedMentionTypeUsers},
		},
	})
	return err
}

// Replyf is Reply with formatting
func (ctx *CommandContext) Replyf(format string, a ...interface{}) error {
	return ctx.Reply(fmt.Sprintf(format, a...))
}

// Say sends content to the command's channel without a reply reference
func (ctx *CommandContext) Say(content string) error {
	return ctx.SayIn(ctx.Message.ChannelID, content)
}

// SayIn sends content to channelID
func (ctx *CommandContext) SayIn(channelID, content string) error {
	_, err := ctx.Session.ChannelMessageSend(channelID, content)
	return err
}

// SendFiles sends attachments to the command's channel
func (ctx *CommandContext) SendFiles(files ...File) error {
	msg := &discordgo.MessageSend{}
	for _, f := range files {
		msg.Files = append(msg.Files, &discordgo.File{Name: f.Name, Reader: f.Reader})
	}
	_, err := ctx.Session.ChannelMessageSendComplex(ctx.Message.ChannelID, msg)
	return err
}

// React adds emoji to the command message
func (ctx *CommandContext) React(emoji string) error {
	return ctx.Session.MessageReactionAdd(ctx.Message.ChannelID, ctx.Message.ID, emoji)
}
