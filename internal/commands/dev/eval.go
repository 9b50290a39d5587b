package dev

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/PancyStudios/ModBotGo/pkg/config"
	"github.com/PancyStudios/ModBotGo/pkg/database"
	"github.com/PancyStudios/ModBotGo/pkg/discord"
	"github.com/PancyStudios/ModBotGo/pkg/logger"
	"github.com/PancyStudios/ModBotGo/pkg/stats"
	"github.com/PancyStudios/ModBotGo/pkg/warnings"
	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// maxResultLength keeps the reply under Discord's message limit
const maxResultLength = 1900

// CreateEvalCommand creates "?dev eval <code>"
func CreateEvalCommand(ledger *warnings.Ledger) *discord.Command {
	return discord.NewCommand(
		"eval",
		"Evaluates Go code inside the running bot",
		"dev",
		evalHandler(ledger),
	).WithUsage("<code>")
}

func evalHandler(ledger *warnings.Ledger) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		code := stripCodeBlock(ctx.Args.Rest())
		if code == "" {
			return ctx.Reply("Nothing to evaluate.")
		}
		return ctx.Reply(evaluate(ctx, ledger, code))
	}
}

// stripCodeBlock removes a surrounding ```go ... ``` fence
func stripCodeBlock(code string) string {
	code = strings.TrimSpace(code)
	code = strings.TrimPrefix(code, "```go")
	code = strings.TrimPrefix(code, "```")
	code = strings.TrimSuffix(code, "```")
	return strings.TrimSpace(code)
}

// evaluate runs code in a fresh interpreter with the bot's services in scope
// as Ctx, Bot, Session, DB, Config, Ledger and Stats
func evaluate(ctx *discord.CommandContext, ledger *warnings.Ledger, code string) string {
	start := time.Now()

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return fmt.Sprintf("❌ Error loading stdlib: %v", err)
	}

	botExports := map[string]reflect.Value{
		"Ctx":     reflect.ValueOf(ctx),
		"Bot":     reflect.ValueOf(ctx.Client),
		"Session": reflect.ValueOf(ctx.Session),
		"DB":      reflect.ValueOf(database.Get()),
		"Config":  reflect.ValueOf(config.Get()),
		"Ledger":  reflect.ValueOf(ledger),
		"Stats":   reflect.ValueOf(stats.Global()),
	}
	if err := i.Use(interp.Exports{
		"github.com/PancyStudios/ModBotGo/internal/commands/dev/dev": botExports,
	}); err != nil {
		return fmt.Sprintf("❌ Error registering symbols: %v", err)
	}
	if _, err := i.Eval(`import . "github.com/PancyStudios/ModBotGo/internal/commands/dev"`); err != nil {
		return fmt.Sprintf("❌ Error importing symbols: %v", err)
	}

	res, err := i.Eval(code)
	logger.Debug(fmt.Sprintf("Eval completado en %s", time.Since(start)), "DevEval")
	if err != nil {
		return fmt.Sprintf("❌ **Error:**\n```go\n%s\n```", truncate(err.Error()))
	}

	out := "nil"
	if res.IsValid() && res.CanInterface() {
		out = fmt.Sprintf("%#v", res.Interface())
	}
	return fmt.Sprintf("✅ **Result:**\n```go\n%s\n```", truncate(out))
}

func truncate(s string) string {
	if len(s) <= maxResultLength {
		return s
	}
	return s[:maxResultLength] + "... (truncated)"
}
