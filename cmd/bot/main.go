// Package main is the entry point of ModBot. It wires every service and
// runs the gateway, the web API and the Pepito relay until interrupted.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/PancyStudios/ModBotGo/internal/commands"
	"github.com/PancyStudios/ModBotGo/internal/commands/mod"
	"github.com/PancyStudios/ModBotGo/internal/commands/utils"
	"github.com/PancyStudios/ModBotGo/internal/events"
	"github.com/PancyStudios/ModBotGo/pkg/config"
	"github.com/PancyStudios/ModBotGo/pkg/database"
	"github.com/PancyStudios/ModBotGo/pkg/discord"
	anticrash "github.com/PancyStudios/ModBotGo/pkg/errors"
	"github.com/PancyStudios/ModBotGo/pkg/logger"
	"github.com/PancyStudios/ModBotGo/pkg/mqtt"
	"github.com/PancyStudios/ModBotGo/pkg/stats"
	"github.com/PancyStudios/ModBotGo/pkg/warnings"
	"github.com/PancyStudios/ModBotGo/pkg/weather"
	"github.com/PancyStudios/ModBotGo/pkg/web"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(cfg.ErrorWebhook, cfg.LogsWebhook)
	defer log.Close()

	logger.System(fmt.Sprintf("Iniciando ModBot %s (%s)...", config.Version, config.BuildTime), "Main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var discordClient *discord.ExtendedClient
	var mqttClient *mqtt.MqttCommunicator
	anticrash.Init(cfg.ErrorWebhook, func() {
		stop()
		if discordClient != nil {
			_ = discordClient.Stop()
		}
		mqttClient.Destroy()
	})
	defer anticrash.Get().Stop()

	ledger, db := openLedger(cfg)
	if db != nil {
		defer func() {
			if err := db.Disconnect(); err != nil {
				logger.Error(fmt.Sprintf("Error cerrando la base de datos: %v", err), "Main")
			}
		}()
	}

	deps := commands.Deps{
		Config:  cfg,
		Counter: stats.Global(),
		Ledger:  ledger,
		Weather: weather.NewClient(cfg.WeatherAPIURL, cfg.WeatherAPIKey),
	}
	if db != nil {
		deps.Database = db
	}

	if cfg.MQTTEnabled() {
		clientID := "modbot"
		if !cfg.IsProd() {
			clientID = "modbot_canary"
		}
		mqttClient = mqtt.Init(cfg.MQTTHost, cfg.MQTTPort, cfg.MQTTUser, cfg.MQTTPassword, clientID)
		defer mqttClient.Destroy()

		mqttClient.On("warnings/list", mod.WarningsRequestHandler(ledger))
		deps.Events = mqttClient
		deps.Broker = mqttClient
	} else {
		logger.Info("MQTT deshabilitado, no se publicarán eventos de moderación", "Main")
	}

	router := commands.NewRouter(deps)

	discordClient, err = discord.Init(cfg.BotToken, router)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creando el cliente de Discord: %v", err), "Main")
		os.Exit(1)
	}
	events.RegisterAll(discordClient, cfg.Prefix)

	if err := discordClient.Start(); err != nil {
		logger.Critical(fmt.Sprintf("Error iniciando el cliente de Discord: %v", err), "Main")
		os.Exit(1)
	}
	defer func() {
		if err := discordClient.Stop(); err != nil {
			logger.Error(fmt.Sprintf("Error cerrando la sesión de Discord: %v", err), "Main")
		}
	}()

	webDeps := web.Deps{
		Warnings: ledger,
		Usage:    deps.Counter,
		Bot:      botStatus{client: discordClient},
	}
	if db != nil {
		webDeps.Database = db
	}
	webServer, err := web.Init(web.Options{
		WebhookURL:   cfg.LogsWebServerHook,
		AllowedHosts: cfg.AllowedHosts,
	}, webDeps)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creando el servidor web: %v", err), "Main")
		os.Exit(1)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return webServer.Run(gctx, cfg.Port)
	})
	if cfg.PepitoChannelID != "" && cfg.PepitoURL != "" {
		relay := events.NewPepitoRelay(cfg.PepitoURL, cfg.PepitoChannelID, discordClient.Session)
		g.Go(func() error {
			// Run only returns once the context is done
			_ = relay.Run(gctx)
			return nil
		})
	}

	logger.Success("ModBot iniciado correctamente!", "Main")

	<-gctx.Done()
	logger.System("Apagando ModBot...", "Main")
	if err := g.Wait(); err != nil {
		logger.Error(fmt.Sprintf("Un servicio terminó con error: %v", err), "Main")
	}
}

// openLedger builds the warning ledger on the configured backend. The mongo
// backend falls back to files when the database is unreachable.
func openLedger(cfg *config.Config) (*warnings.Ledger, *database.Database) {
	if cfg.UsesMongoWarnings() {
		db, err := database.Init(cfg.MongoDBURL, cfg.DBName)
		if err == nil {
			logger.Info("Advertencias almacenadas en MongoDB", "Main")
			return warnings.New(warnings.NewMongoStore(db.GetCollection(warnings.CollectionName))), db
		}
		logger.Error(fmt.Sprintf("Error conectando a la base de datos: %v", err), "Main")
		logger.Warn("Usando archivos para las advertencias", "Main")
	}
	logger.Info(fmt.Sprintf("Advertencias almacenadas en %s", cfg.WarningsDir), "Main")
	return warnings.New(warnings.NewFileStore(cfg.WarningsDir)), nil
}

// botStatus exposes the gateway state to the web API
type botStatus struct {
	client *discord.ExtendedClient
}

func (b botStatus) IsReady() bool {
	return b.client.IsReady()
}

func (b botStatus) Info() web.BotInfo {
	info := web.BotInfo{
		Guilds:  b.client.GuildCount(),
		IsReady: b.client.IsReady(),
	}
	if s := b.client.Session; s != nil && s.State != nil && s.State.User != nil {
		info.ID = s.State.User.ID
		info.Username = s.State.User.Username
		info.Avatar = s.State.User.AvatarURL("")
	}
	return info
}

var _ utils.StatusSource = (*database.Database)(nil)
