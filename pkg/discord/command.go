// Package discord provides the bot client and a prefix command framework
// on top of discordgo.
package discord

import "strings"

// Command represents a prefix text command
type Command struct {
	Name                string
	Description         string
	Category            string
	Usage               string
	Aliases             []string
	Bucket              string
	RequiredPermissions int64
	OwnersOnly          bool
	GuildOnly           bool
	SubCommands         []*Command
	Run                 CommandRunFunc
}

// CommandRunFunc is the function type for command execution
type CommandRunFunc func(ctx *CommandContext) error

// NewCommand creates a new Command with required fields
func NewCommand(name, description, category string, run CommandRunFunc) *Command {
	return &Command{
		Name:        name,
		Description: description,
		Category:    category,
		Run:         run,
	}
}

// WithAliases sets alternative names
func (c *Command) WithAliases(aliases ...string) *Command {
	c.Aliases = aliases
	return c
}

// WithUsage sets the argument hint shown by help
func (c *Command) WithUsage(usage string) *Command {
	c.Usage = usage
	return c
}

// WithBucket puts the command under a named rate limit bucket
func (c *Command) WithBucket(name string) *Command {
	c.Bucket = name
	return c
}

// WithPermissions sets the permissions the invoking member needs
func (c *Command) WithPermissions(perms int64) *Command {
	c.RequiredPermissions = perms
	return c
}

// AsOwnerOnly restricts the command to bot owners
func (c *Command) AsOwnerOnly() *Command {
	c.OwnersOnly = true
	return c
}

// AsGuildOnly rejects the command in direct messages
func (c *Command) AsGuildOnly() *Command {
	c.GuildOnly = true
	return c
}

// WithSubCommands adds commands dispatched when the first argument names them
func (c *Command) WithSubCommands(subs ...*Command) *Command {
	c.SubCommands = append(c.SubCommands, subs...)
	return c
}

// Matches reports whether name is the command's name or one of its aliases
func (c *Command) Matches(name string) bool {
	if strings.EqualFold(c.Name, name) {
		return true
	}
	for _, a := range c.Aliases {
		if strings.EqualFold(a, name) {
			return true
		}
	}
	return false
}

func (c *Command) subCommand(name string) *Command {
	for _, sub := range c.SubCommands {
		if sub.Matches(name) {
			return sub
		}
	}
	return nil
}

// Group is a set of commands. A group with prefixes is only reachable as
// "<prefix><group prefix> <command>".
type Group struct {
	Name        string
	Description string
	Prefixes    []string
	Commands    []*Command
	OwnersOnly  bool
	GuildOnly   bool
	Bucket      string
}

// NewGroup creates a group holding commands
func NewGroup(name, description string, commands ...*Command) *Group {
	return &Group{Name: name, Description: description, Commands: commands}
}

// WithPrefixes sets the group prefixes
func (g *Group) WithPrefixes(prefixes ...string) *Group {
	g.Prefixes = prefixes
	return g
}

// AsOwnerOnly restricts every command of the group to owners
func (g *Group) AsOwnerOnly() *Group {
	g.OwnersOnly = true
	return g
}

// AsGuildOnly rejects every command of the group in direct messages
func (g *Group) AsGuildOnly() *Group {
	g.GuildOnly = true
	return g
}

// WithBucket sets the bucket for commands that do not name their own
func (g *Group) WithBucket(name string) *Group {
	g.Bucket = name
	return g
}

func (g *Group) hasPrefix(name string) bool {
	for _, p := range g.Prefixes {
		if strings.EqualFold(p, name) {
			return true
		}
	}
	return false
}

func (g *Group) command(name string) *Command {
	for _, c := range g.Commands {
		if c.Matches(name) {
			return c
		}
	}
	return nil
}
