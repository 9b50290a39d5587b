package discord

import (
	"regexp"
	"strings"

	"github.com/PancyStudios/ModBotGo/pkg/mention"
	"github.com/bwmarrin/discordgo"
)

var roleMention = regexp.MustCompile(`<@&(\d+)>`)

// Names resolves ids to display names for CleanContent. A lookup returns
// false when the id is unknown; a nil Role leaves role mentions untouched.
type Names struct {
	User func(id string) (string, bool)
	Role func(id string) (string, bool)
}

// CleanContent makes content safe to echo: user mentions become @name, role
// mentions become @rolename and @everyone/@here are broken with a zero width
// space. Channel mentions are left alone.
func CleanContent(content string, names Names) string {
	content = strings.ReplaceAll(content, "<@!", "<@")

	for _, id := range mention.Find(content) {
		name := "invalid-user"
		if names.User != nil {
			if n, ok := names.User(id.String()); ok {
				name = n
			}
		}
		content = strings.ReplaceAll(content, id.Mention(), "@"+name)
	}

	if names.Role != nil {
		content = roleMention.ReplaceAllStringFunc(content, func(s string) string {
			if n, ok := names.Role(roleMention.FindStringSubmatch(s)[1]); ok {
				return "@" + n
			}
			return "@deleted-role"
		})
	}

	content = strings.ReplaceAll(content, "@everyone", "@\u200beveryone")
	return strings.ReplaceAll(content, "@here", "@\u200bhere")
}

// MessageNames resolves users from the message's own mention list, preferring
// the guild nickname cached in state, and roles from the cached guild. Role
// mentions are not cleaned outside guilds.
func MessageNames(state *discordgo.State, m *discordgo.Message) Names {
	users := make(map[string]*discordgo.User, len(m.Mentions))
	for _, u := range m.Mentions {
		users[u.ID] = u
	}

	names := Names{
		User: func(id string) (string, bool) {
			if state != nil && m.GuildID != "" {
				if member, err := state.Member(m.GuildID, id); err == nil && member.Nick != "" {
					return member.Nick, true
				}
			}
			u, ok := users[id]
			if !ok {
				return "", false
			}
			if u.GlobalName != "" {
				return u.GlobalName, true
			}
			return u.Username, true
		},
	}
	if m.GuildID != "" {
		names.Role = func(id string) (string, bool) {
			if state == nil {
				return "", false
			}
			role, err := state.Role(m.GuildID, id)
			if err != nil {
				return "", false
			}
			return role.Name, true
		}
	}
	return names
}
