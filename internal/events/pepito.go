package events

import (
	"fmt"

	"github.com/PancyStudios/ModBotGo/pkg/discord"
	"github.com/PancyStudios/ModBotGo/pkg/eventstream"
	"github.com/PancyStudios/ModBotGo/pkg/logger"
)

// NewPepitoRelay subscribes to the cat door event stream at url and posts a
// notice to channelID for every pepito and heartbeat event. The returned
// supervisor does nothing until Run is called.
func NewPepitoRelay(url, channelID string, s discord.Messenger) *eventstream.Supervisor {
	sup := eventstream.NewSupervisor(url)
	sup.OnOpen = func() {
		logger.Success("Conectado al stream de Pepito", "Pepito")
	}
	sup.OnClose = func(err error) {
		if err != nil {
			logger.Warn(fmt.Sprintf("Stream de Pepito cerrado: %v", err), "Pepito")
		}
	}
	sup.On("pepito", relay(s, channelID, "received pepito"))
	sup.On("heartbeat", relay(s, channelID, "received heartbeat"))
	return sup
}

func relay(s discord.Messenger, channelID, notice string) eventstream.Listener {
	return func(ev eventstream.Event) {
		logger.Debug(fmt.Sprintf("Evento %s: %s", ev.Name, ev.Data), "Pepito")
		if _, err := s.ChannelMessageSend(channelID, notice); err != nil {
			logger.Error(fmt.Sprintf("No se pudo publicar el evento %s: %v", ev.Name, err), "Pepito")
		}
	}
}
