package general

import (
	"context"
	"errors"
	"fmt"

	"github.com/PancyStudios/ModBotGo/pkg/discord"
	"github.com/PancyStudios/ModBotGo/pkg/weather"
)

func createWeatherCommand(deps Deps) *discord.Command {
	return discord.NewCommand(
		"weather",
		"Tells you what the weather is like",
		"general",
		weatherHandler(deps, weather.Describe),
	).WithUsage("<location>").
		WithSubCommands(
			discord.NewCommand(
				"details",
				"Shows temperature, wind, rain, sunrise and sunset",
				"general",
				weatherHandler(deps, weather.Details),
			).WithUsage("<location>"),
		)
}

// weatherHandler looks the location up and replies with render's output
func weatherHandler(deps Deps, render func(*weather.Report) string) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		location := ctx.Args.Rest()
		if location == "" {
			return ctx.Reply("You need to provide a location!")
		}

		report, err := deps.Weather.Current(context.Background(), location)
		switch {
		case err == nil:
			return ctx.Reply(render(report))
		case errors.Is(err, weather.ErrMissingAPIKey):
			_ = ctx.Reply("The weather service is not configured.")
		case errors.Is(err, weather.ErrBadResponse):
			_ = ctx.Reply("Failed to parse weather data!")
		default:
			_ = ctx.Reply("Could not reach the weather service, please try again later.")
		}
		return fmt.Errorf("weather for %q: %w", location, err)
	}
}
