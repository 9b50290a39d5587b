// Package dev provides owner-only debugging commands under "?dev".
package dev

import (
	"github.com/PancyStudios/ModBotGo/pkg/discord"
	"github.com/PancyStudios/ModBotGo/pkg/warnings"
)

// Group builds the dev group. ledger is exposed to evaluated code.
func Group(ledger *warnings.Ledger) *discord.Group {
	return discord.NewGroup(
		"Dev",
		"Owner-only commands",
		CreateEvalCommand(ledger),
	).WithPrefixes("dev").AsOwnerOnly()
}
