package discord

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"
)

const (
	helpColor = 0x5865F2

	// MaxSuggestionDistance bounds how far a typo may be from a suggested command
	MaxSuggestionDistance = 3

	helpTip = "Hello! こんにちは！Hola! Bonjour! 您好! 안녕하세요~\n\n" +
		"If you want more information about a specific command, just pass the command as argument."
)

// NewHelpCommand creates the "help" command listing every command the
// caller may run
func NewHelpCommand() *Command {
	return NewCommand("help", "Shows the command list or details about one command", "General", runHelp).
		WithUsage("[command]")
}

func runHelp(ctx *CommandContext) error {
	query := strings.TrimSpace(ctx.Args.Rest())
	if query == "" {
		return sendEmbed(ctx, commandListEmbed(ctx))
	}

	group, cmd := ctx.Router.find(query)
	if cmd == nil || !ctx.Router.visible(ctx, group, cmd) {
		msg := fmt.Sprintf("Could not find: `%s`.", query)
		if suggestion := ctx.Router.suggest(ctx, query); suggestion != "" {
			msg += fmt.Sprintf("\nDid you mean `%s`?", suggestion)
		}
		return ctx.Say(msg)
	}
	return sendEmbed(ctx, commandEmbed(ctx.Router, group, cmd))
}

func sendEmbed(ctx *CommandContext, embed *discordgo.MessageEmbed) error {
	_, err := ctx.Session.ChannelMessageSendComplex(ctx.ChannelID(), &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{embed},
	})
	return err
}

func commandListEmbed(ctx *CommandContext) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{Description: helpTip, Color: helpColor}
	for _, g := range ctx.Router.groups {
		var names []string
		for _, c := range g.Commands {
			if ctx.Router.visible(ctx, g, c) {
				names = append(names, "`"+c.Name+"`")
			}
		}
		if len(names) == 0 {
			continue
		}
		title := g.Name
		if len(g.Prefixes) > 0 {
			title += fmt.Sprintf(" (prefix: `%s`)", g.Prefixes[0])
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  title,
			Value: strings.Join(names, ", "),
		})
	}
	return embed
}

func commandEmbed(r *Router, group *Group, cmd *Command) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{Title: cmd.Name, Description: cmd.Description, Color: helpColor}

	invocation := r.cfg.Prefixes[0]
	if group != nil && len(group.Prefixes) > 0 {
		invocation += group.Prefixes[0] + " "
	}
	invocation += cmd.Name
	if cmd.Usage != "" {
		invocation += " " + cmd.Usage
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Usage", Value: "`" + invocation + "`"})

	if len(cmd.Aliases) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Aliases", Value: "`" + strings.Join(cmd.Aliases, "`, `") + "`", Inline: true,
		})
	}
	if group != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Group", Value: group.Name, Inline: true})
	}
	if len(cmd.SubCommands) > 0 {
		subs := make([]string, 0, len(cmd.SubCommands))
		for _, s := range cmd.SubCommands {
			subs = append(subs, "`"+s.Name+"`")
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Sub commands", Value: strings.Join(subs, ", ")})
	}
	return embed
}

// find looks a command up by "name" or "<group prefix> name"
func (r *Router) find(query string) (*Group, *Command) {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return nil, nil
	}
	if r.help != nil && r.help.Matches(fields[0]) {
		return nil, r.help
	}
	if len(fields) > 1 {
		for _, g := range r.groups {
			if g.hasPrefix(fields[0]) {
				if c := g.command(fields[1]); c != nil {
					return g, c
				}
			}
		}
	}
	for _, g := range r.groups {
		if c := g.command(fields[0]); c != nil {
			return g, c
		}
	}
	return nil, nil
}

// visible hides commands the caller could not run: owner-only commands for
// non owners and commands whose permissions the caller lacks
func (r *Router) visible(ctx *CommandContext, group *Group, cmd *Command) bool {
	owner := r.IsOwner(ctx.Author().ID)
	if (cmd.OwnersOnly || (group != nil && group.OwnersOnly)) && !owner {
		return false
	}
	if cmd.RequiredPermissions == 0 || owner || ctx.GuildID() == "" {
		return true
	}
	perms, err := ctx.Session.UserChannelPermissions(ctx.Author().ID, ctx.ChannelID())
	if err != nil {
		return false
	}
	return missingPermissions(perms, cmd.RequiredPermissions) == 0
}

// suggest returns the visible command name closest to query, or "" when
// none is within MaxSuggestionDistance
func (r *Router) suggest(ctx *CommandContext, query string) string {
	type candidate struct {
		name string
		dist int
	}
	var found []candidate
	for _, g := range r.groups {
		for _, c := range g.Commands {
			if !r.visible(ctx, g, c) {
				continue
			}
			for _, name := range append([]string{c.Name}, c.Aliases...) {
				if d := levenshtein(strings.ToLower(query), strings.ToLower(name)); d <= MaxSuggestionDistance {
					found = append(found, candidate{name, d})
				}
			}
		}
	}
	if len(found) == 0 {
		return ""
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].dist < found[j].dist })
	return found[0].name
}
