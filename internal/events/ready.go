package events

import (
	"fmt"

	"github.com/PancyStudios/ModBotGo/pkg/discord"
	"github.com/PancyStudios/ModBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// RegisterReadyEvent sets the bot status and loads the application owners
// once the gateway session is ready
func RegisterReadyEvent(client *discord.ExtendedClient, prefix string) {
	client.EventHandler.OnReady(func(s *discordgo.Session, r *discordgo.Ready) {
		logger.Success(fmt.Sprintf("✅ %s está conectado", r.User.Username), "Ready")
		logger.Info(fmt.Sprintf("📊 Conectado a %d servidores", len(r.Guilds)), "Ready")

		if err := s.UpdateGameStatus(0, prefix+"help"); err != nil {
			logger.Error(fmt.Sprintf("Error estableciendo estado: %v", err), "Ready")
		}

		app, err := s.Application("@me")
		if err != nil {
			logger.Error(fmt.Sprintf("No se pudo obtener la información de la aplicación: %v", err), "Ready")
			return
		}
		owners := applicationOwners(app)
		client.Router.AddOwners(owners...)
		logger.Debug(fmt.Sprintf("Propietarios cargados: %v", owners), "Ready")
	})
}

// applicationOwners returns the team owner when the application belongs to
// a team, the application owner otherwise
func applicationOwners(app *discordgo.Application) []string {
	if app == nil {
		return nil
	}
	if app.Team != nil && app.Team.OwnerID != "" {
		return []string{app.Team.OwnerID}
	}
	if app.Owner != nil && app.Owner.ID != "" {
		return []string{app.Owner.ID}
	}
	return nil
}
