// Package commands assembles the command router: every group, the rate
// limit buckets and the dispatch hooks.
package commands

import (
	"fmt"
	"time"

	"github.com/PancyStudios/ModBotGo/internal/commands/dev"
	"github.com/PancyStudios/ModBotGo/internal/commands/emoji"
	"github.com/PancyStudios/ModBotGo/internal/commands/general"
	"github.com/PancyStudios/ModBotGo/internal/commands/mod"
	"github.com/PancyStudios/ModBotGo/internal/commands/pic"
	"github.com/PancyStudios/ModBotGo/internal/commands/utils"
	"github.com/PancyStudios/ModBotGo/pkg/config"
	"github.com/PancyStudios/ModBotGo/pkg/discord"
	"github.com/PancyStudios/ModBotGo/pkg/logger"
	"github.com/PancyStudios/ModBotGo/pkg/stats"
	"github.com/PancyStudios/ModBotGo/pkg/warnings"
	"github.com/PancyStudios/ModBotGo/pkg/weather"
	"github.com/bwmarrin/discordgo"
)

// Deps bundles the services the command groups need
type Deps struct {
	Config   *config.Config
	Counter  *stats.Counter
	Ledger   *warnings.Ledger
	Weather  *weather.Client
	Events   mod.Publisher
	Database utils.StatusSource
	Broker   interface{ IsConnected() bool }
}

// NewRouter builds the router with every group, bucket and hook
func NewRouter(deps Deps) *discord.Router {
	cfg := deps.Config

	r := discord.NewRouter(discord.Config{
		Prefixes:       []string{cfg.Prefix},
		OnMention:      true,
		WithWhitespace: true,
		Delimiters:     discord.DefaultDelimiters,
		Owners:         cfg.OwnerIDs,
	}, Hooks(deps.Counter))

	RegisterBuckets(r)
	r.SetHelp(discord.NewHelpCommand())

	r.AddGroup(general.Group(general.Deps{
		Counter:        deps.Counter,
		Weather:        deps.Weather,
		ZitatChannelID: cfg.ZitatChannelID,
	}))
	r.AddGroup(emoji.Group())
	r.AddGroup(pic.Group(cfg.ImagesDir))
	r.AddGroup(mod.Group(mod.Deps{Ledger: deps.Ledger, Events: deps.Events}))
	r.AddGroup(utils.Group(utils.Deps{Counter: deps.Counter, Database: deps.Database, Broker: deps.Broker}))
	r.AddGroup(dev.Group(deps.Ledger))

	return r
}

// RegisterBuckets adds the named rate limits the groups refer to
func RegisterBuckets(r *discord.Router) {
	// Once per 5 seconds per user
	r.AddBucket("pic", discord.BucketConfig{Delay: 5 * time.Second})
	r.AddBucket("emoji", discord.BucketConfig{Delay: 5 * time.Second})
	r.AddBucket("mod", discord.BucketConfig{Delay: 5 * time.Second})

	// Twice per 30 seconds per channel with 5 seconds between uses; one
	// extra invocation waits for its turn instead of being dropped
	r.AddBucket("complicated", discord.BucketConfig{
		Delay:           5 * time.Second,
		Limit:           2,
		TimeSpan:        30 * time.Second,
		LimitedFor:      discord.LimitChannel,
		AwaitRatelimits: 1,
		DelayAction:     delayAction,
	})
}

func delayAction(ctx *discord.CommandContext) {
	if err := ctx.React("⏱"); err != nil {
		logger.Warn("No se pudo reaccionar al comando retrasado: "+err.Error(), "Commands")
	}
}

// Hooks logs every dispatch step and counts command usage in counter
func Hooks(counter *stats.Counter) discord.Hooks {
	return discord.Hooks{
		Before: func(ctx *discord.CommandContext, name string) bool {
			logger.Info(fmt.Sprintf("Comando '%s' recibido de '%s'", name, ctx.Author().Username), "Commands")
			counter.Increment(name)
			return true
		},
		After: func(ctx *discord.CommandContext, name string, err error) {
			if err != nil {
				logger.Error(fmt.Sprintf("El comando '%s' devolvió un error: %v", name, err), "Commands")
				return
			}
			logger.Debug(fmt.Sprintf("Comando '%s' procesado", name), "Commands")
		},
		UnknownCommand: func(s discord.Messenger, m *discordgo.Message, name string) {
			logger.Debug(fmt.Sprintf("No existe el comando '%s'", name), "Commands")
		},
		NormalMessage: func(s discord.Messenger, m *discordgo.Message) {},
		DispatchError: discord.DefaultDispatchError,
	}
}
