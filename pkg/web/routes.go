package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/PancyStudios/ModBotGo/pkg/mention"
	"github.com/PancyStudios/ModBotGo/pkg/stats"
	"github.com/PancyStudios/ModBotGo/pkg/warnings"
	"github.com/gin-gonic/gin"
)

// WarningLister reads a user's warning record
type WarningLister interface {
	List(ctx context.Context, key string) ([]string, error)
}

// UsageSource reports command usage totals
type UsageSource interface {
	Snapshot() []stats.Count
}

// BotInfo describes the logged-in bot user
type BotInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
	Guilds   int    `json:"guilds"`
	IsReady  bool   `json:"isReady"`
}

// BotStatus reports gateway state
type BotStatus interface {
	IsReady() bool
	Info() BotInfo
}

// DatabaseStatus reports the Mongo connection state
type DatabaseStatus interface {
	GetStatus() (string, bool)
}

// Deps are the components the API reads from. Nil members are reported as
// unavailable.
type Deps struct {
	Warnings WarningLister
	Usage    UsageSource
	Bot      BotStatus
	Database DatabaseStatus
}

func (s *Server) setupAPIRoutes() {
	api := s.engine.Group("/api")
	{
		api.GET("/status", s.statusHandler)
		api.GET("/health", healthHandler)
		api.GET("/bot", s.botInfoHandler)
		api.GET("/commands", s.commandsHandler)
		api.GET("/warnings/:userId", s.warningsHandler)
	}
}

// statusHandler returns the bot and database status
func (s *Server) statusHandler(c *gin.Context) {
	dbStatus, dbOnline := "⚪ | No configurada", false
	if s.deps.Database != nil {
		dbStatus, dbOnline = s.deps.Database.GetStatus()
	}

	botOnline := s.deps.Bot != nil && s.deps.Bot.IsReady()

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"database": gin.H{
			"status":   dbStatus,
			"isOnline": dbOnline,
		},
		"bot": gin.H{
			"isOnline": botOnline,
		},
	})
}

// healthHandler returns a simple health check response
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "ModBot Go is running",
	})
}

// botInfoHandler returns information about the bot
func (s *Server) botInfoHandler(c *gin.Context) {
	if s.deps.Bot == nil || !s.deps.Bot.IsReady() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Bot Offline",
			"message": "El bot no está disponible en este momento.",
		})
		return
	}
	c.JSON(http.StatusOK, s.deps.Bot.Info())
}

// commandsHandler returns the usage counter snapshot
func (s *Server) commandsHandler(c *gin.Context) {
	counts := []stats.Count{}
	if s.deps.Usage != nil {
		counts = s.deps.Usage.Snapshot()
	}
	c.JSON(http.StatusOK, gin.H{"commands": counts})
}

// warningsHandler returns one user's warning lines. The path accepts either
// a bare user ID or a mention.
func (s *Server) warningsHandler(c *gin.Context) {
	if s.deps.Warnings == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": warnings.ErrStorageUnavailable.Error()})
		return
	}

	key := c.Param("userId")
	if id, err := mention.ParseMention(key); err == nil {
		key = id.String()
	}

	lines, err := s.deps.Warnings.List(c.Request.Context(), key)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"userId": key, "count": len(lines), "warnings": lines})
	case errors.Is(err, warnings.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"userId": key, "error": err.Error()})
	case errors.Is(err, warnings.ErrInvalidKey):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": warnings.ErrStorageUnavailable.Error()})
	}
}
