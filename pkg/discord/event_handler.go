package discord

import (
	"sync"

	"github.com/PancyStudios/ModBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// EventHandler registers gateway event handlers on the client session
type EventHandler struct {
	client *ExtendedClient
	count  int
	mu     sync.Mutex
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(client *ExtendedClient) *EventHandler {
	return &EventHandler{client: client}
}

// RegisterEvent adds an event handler to the Discord session
func (eh *EventHandler) RegisterEvent(name string, handler interface{}) {
	eh.client.Session.AddHandler(handler)
	eh.mu.Lock()
	eh.count++
	eh.mu.Unlock()
	logger.Debug("Evento '"+name+"' registrado", "EventHandler")
}

// Count returns how many handlers were registered
func (eh *EventHandler) Count() int {
	eh.mu.Lock()
	defer eh.mu.Unlock()
	return eh.count
}

// OnReady registers a ready event handler
func (eh *EventHandler) OnReady(handler func(s *discordgo.Session, r *discordgo.Ready)) {
	eh.RegisterEvent("Ready", handler)
}

// OnResumed registers a resumed event handler
func (eh *EventHandler) OnResumed(handler func(s *discordgo.Session, r *discordgo.Resumed)) {
	eh.RegisterEvent("Resumed", handler)
}

// OnDisconnect registers a disconnect event handler
func (eh *EventHandler) OnDisconnect(handler func(s *discordgo.Session, d *discordgo.Disconnect)) {
	eh.RegisterEvent("Disconnect", handler)
}

// OnGuildCreate registers a guild create event handler
func (eh *EventHandler) OnGuildCreate(handler func(s *discordgo.Session, g *discordgo.GuildCreate)) {
	eh.RegisterEvent("GuildCreate", handler)
}

// OnGuildDelete registers a guild delete event handler
func (eh *EventHandler) OnGuildDelete(handler func(s *discordgo.Session, g *discordgo.GuildDelete)) {
	eh.RegisterEvent("GuildDelete", handler)
}
