package discord

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"
	"unicode"

	anticrash "github.com/PancyStudios/ModBotGo/pkg/errors"
	"github.com/PancyStudios/ModBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// Config holds the router's parsing options
type Config struct {
	// Prefixes mark a message as a command, default "?"
	Prefixes []string
	// OnMention makes a leading mention of the bot act as a prefix
	OnMention bool
	// WithWhitespace allows spaces between the prefix and the command name
	WithWhitespace bool
	// Delimiters split command arguments, whitespace always does
	Delimiters []string
	// Owners may run owner-only commands and bypass permission and bucket checks
	Owners []string
}

// DispatchErrorKind enumerates why a matched command was not run
type DispatchErrorKind int

const (
	Ratelimited DispatchErrorKind = iota
	LackingPermissions
	OnlyForOwners
	OnlyForGuilds
)

func (k DispatchErrorKind) String() string {
	switch k {
	case Ratelimited:
		return "Ratelimited"
	case LackingPermissions:
		return "LackingPermissions"
	case OnlyForOwners:
		return "OnlyForOwners"
	case OnlyForGuilds:
		return "OnlyForGuilds"
	default:
		return "Unknown"
	}
}

// DispatchError describes a rejected command invocation
type DispatchError struct {
	Kind       DispatchErrorKind
	RetryAfter time.Duration
	IsFirstTry bool
	Missing    int64
}

func (e *DispatchError) Error() string {
	switch e.Kind {
	case Ratelimited:
		return fmt.Sprintf("ratelimited, retry after %s", e.RetryAfter)
	case LackingPermissions:
		return fmt.Sprintf("lacking permissions %d", e.Missing)
	default:
		return e.Kind.String()
	}
}

// RetrySeconds is RetryAfter rounded up to whole seconds
func (e *DispatchError) RetrySeconds() int {
	return int(math.Ceil(e.RetryAfter.Seconds()))
}

// Hooks run around command dispatch. Every hook is optional.
type Hooks struct {
	// Before runs once all checks passed; returning false cancels the command
	Before func(ctx *CommandContext, name string) bool
	// After runs with the error the command returned
	After func(ctx *CommandContext, name string, err error)
	// UnknownCommand runs when the prefix matched but no command did
	UnknownCommand func(s Messenger, m *discordgo.Message, name string)
	// NormalMessage runs for messages that are not commands
	NormalMessage func(s Messenger, m *discordgo.Message)
	// DispatchError runs when a check rejected the command
	DispatchError func(ctx *CommandContext, err *DispatchError, name string)
}

// Router parses prefix commands out of messages and runs them
type Router struct {
	cfg     Config
	hooks   Hooks
	client  *ExtendedClient
	help    *Command
	groups  []*Group
	buckets map[string]*Bucket

	mu     sync.RWMutex
	owners map[string]struct{}

	now   func() time.Time
	sleep func(time.Duration)
}

// NewRouter creates a Router. Missing prefixes default to "?".
func NewRouter(cfg Config, hooks Hooks) *Router {
	if len(cfg.Prefixes) == 0 {
		cfg.Prefixes = []string{"?"}
	}
	if cfg.Delimiters == nil {
		cfg.Delimiters = DefaultDelimiters
	}
	r := &Router{
		cfg:     cfg,
		hooks:   hooks,
		buckets: make(map[string]*Bucket),
		owners:  make(map[string]struct{}),
		now:     time.Now,
		sleep:   time.Sleep,
	}
	r.AddOwners(cfg.Owners...)
	return r
}

// AddGroup registers a group of commands
func (r *Router) AddGroup(g *Group) *Router {
	r.groups = append(r.groups, g)
	return r
}

// AddBucket registers a named rate limit bucket
func (r *Router) AddBucket(name string, cfg BucketConfig) *Router {
	r.buckets[name] = NewBucket(cfg)
	return r
}

// SetHelp sets the command answering "help"
func (r *Router) SetHelp(cmd *Command) *Router {
	r.help = cmd
	return r
}

// Groups returns the registered groups in registration order
func (r *Router) Groups() []*Group {
	return r.groups
}

// AddOwners marks ids as bot owners
func (r *Router) AddOwners(ids ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		if id != "" {
			r.owners[id] = struct{}{}
		}
	}
}

// IsOwner reports whether id is a bot owner
func (r *Router) IsOwner(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.owners[id]
	return ok
}

// stripPrefix returns the text after a matching prefix or bot mention
func (r *Router) stripPrefix(content, botID string) (string, bool) {
	var rest string
	matched := false

	if r.cfg.OnMention && botID != "" {
		for _, m := range []string{"<@" + botID + ">", "<@!" + botID + ">"} {
			if strings.HasPrefix(content, m) {
				// A mention is always followed by free whitespace
				return strings.TrimLeftFunc(content[len(m):], unicode.IsSpace), true
			}
		}
	}
	for _, p := range r.cfg.Prefixes {
		if p != "" && strings.HasPrefix(content, p) {
			rest = content[len(p):]
			matched = true
			break
		}
	}
	if !matched {
		return "", false
	}
	if r.cfg.WithWhitespace {
		rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
	} else if rest != "" && unicode.IsSpace(rune(rest[0])) {
		return "", false
	}
	return rest, true
}

// resolve finds the command named at the start of args
func (r *Router) resolve(args *Args) (*Group, *Command, string) {
	first, err := args.Single()
	if err != nil {
		return nil, nil, ""
	}

	if r.help != nil && r.help.Matches(first) {
		return nil, r.help, r.help.Name
	}

	for _, g := range r.groups {
		if !g.hasPrefix(first) {
			continue
		}
		next, err := args.Peek()
		if err != nil {
			return g, nil, first
		}
		if cmd := g.command(next); cmd != nil {
			_, _ = args.Single()
			return g, cmd, cmd.Name
		}
		return g, nil, first + " " + next
	}

	for _, g := range r.groups {
		if len(g.Prefixes) > 0 {
			continue
		}
		if cmd := g.command(first); cmd != nil {
			return g, cmd, cmd.Name
		}
	}
	return nil, nil, first
}

// descend follows sub-commands named by the leading arguments
func descend(cmd *Command, args *Args) *Command {
	for len(cmd.SubCommands) > 0 {
		next, err := args.Peek()
		if err != nil {
			return cmd
		}
		sub := cmd.subCommand(next)
		if sub == nil {
			return cmd
		}
		_, _ = args.Single()
		cmd = sub
	}
	return cmd
}

// Dispatch handles one message. Messages from bots are ignored.
func (r *Router) Dispatch(s Messenger, m *discordgo.Message, botID string) {
	if m == nil || m.Author == nil || m.Author.Bot {
		return
	}

	rest, ok := r.stripPrefix(m.Content, botID)
	if !ok || strings.TrimSpace(rest) == "" {
		if r.hooks.NormalMessage != nil {
			r.hooks.NormalMessage(s, m)
		}
		return
	}

	args := NewArgs(rest, r.cfg.Delimiters)
	group, cmd, name := r.resolve(args)
	if cmd == nil {
		if r.hooks.UnknownCommand != nil {
			r.hooks.UnknownCommand(s, m, name)
		}
		return
	}
	cmd = descend(cmd, args)

	ctx := &CommandContext{
		Session: s,
		Message: m,
		Client:  r.client,
		Router:  r,
		Command: cmd,
		Group:   group,
		Args:    NewArgs(args.Rest(), r.cfg.Delimiters),
	}

	if derr := r.check(ctx, group, cmd); derr != nil {
		r.dispatchError(ctx, derr, cmd.Name)
		return
	}

	if r.hooks.Before != nil && !r.hooks.Before(ctx, cmd.Name) {
		return
	}

	err := r.run(ctx, cmd)
	if r.hooks.After != nil {
		r.hooks.After(ctx, cmd.Name, err)
	}
}

// check applies the guild, owner, permission and bucket checks in that order
func (r *Router) check(ctx *CommandContext, group *Group, cmd *Command) *DispatchError {
	m := ctx.Message
	owner := r.IsOwner(m.Author.ID)

	if (cmd.GuildOnly || (group != nil && group.GuildOnly)) && m.GuildID == "" {
		return &DispatchError{Kind: OnlyForGuilds}
	}
	if (cmd.OwnersOnly || (group != nil && group.OwnersOnly)) && !owner {
		return &DispatchError{Kind: OnlyForOwners}
	}

	if cmd.RequiredPermissions != 0 && !owner && m.GuildID != "" {
		perms, err := ctx.Session.UserChannelPermissions(m.Author.ID, m.ChannelID)
		if err != nil {
			logger.Warn(fmt.Sprintf("No se pudieron obtener los permisos de %s: %v", m.Author.ID, err), "Router")
			return &DispatchError{Kind: LackingPermissions, Missing: cmd.RequiredPermissions}
		}
		if missing := missingPermissions(perms, cmd.RequiredPermissions); missing != 0 {
			return &DispatchError{Kind: LackingPermissions, Missing: missing}
		}
	}

	if owner {
		return nil
	}
	bucketName := cmd.Bucket
	if bucketName == "" && group != nil {
		bucketName = group.Bucket
	}
	bucket, ok := r.buckets[bucketName]
	if !ok {
		return nil
	}
	key := bucket.targetKey(m)
	v := bucket.take(key, r.now())
	if v.allowed() {
		return nil
	}
	if !v.await {
		return &DispatchError{Kind: Ratelimited, RetryAfter: v.wait, IsFirstTry: v.isFirstTry}
	}
	if bucket.cfg.DelayAction != nil {
		bucket.cfg.DelayAction(ctx)
	}
	r.sleep(v.wait)
	bucket.doneWaiting(key)
	return nil
}

func missingPermissions(have, need int64) int64 {
	if have&discordgo.PermissionAdministrator != 0 {
		return 0
	}
	return need &^ have
}

// run executes the command, turning a panic into an error
func (r *Router) run(ctx *CommandContext, cmd *Command) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if h := anticrash.Get(); h != nil {
				h.HandlePanic(rec)
			} else {
				logger.Error(fmt.Sprintf("Panic en el comando %s: %v", cmd.Name, rec), "Router")
			}
			err = fmt.Errorf("command %s panicked: %v", cmd.Name, rec)
		}
	}()
	if cmd.Run == nil {
		return nil
	}
	return cmd.Run(ctx)
}

func (r *Router) dispatchError(ctx *CommandContext, derr *DispatchError, name string) {
	if r.hooks.DispatchError != nil {
		r.hooks.DispatchError(ctx, derr, name)
		return
	}
	DefaultDispatchError(ctx, derr, name)
}

// DefaultDispatchError tells the user about a rate limit once; other
// rejections are only logged.
func DefaultDispatchError(ctx *CommandContext, derr *DispatchError, name string) {
	if derr.Kind == Ratelimited {
		if derr.IsFirstTry {
			if err := ctx.Say(fmt.Sprintf("Try this again in %d seconds.", derr.RetrySeconds())); err != nil {
				logger.Warn("No se pudo avisar del límite: "+err.Error(), "Router")
			}
		}
		return
	}
	logger.Debug(fmt.Sprintf("Comando %s rechazado para %s: %s", name, ctx.Author().ID, derr.Kind), "Router")
}
