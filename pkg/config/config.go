// Package config provides configuration management for the bot.
// It loads environment variables (and an optional .env file) and makes them
// available throughout the application.
package config

import (
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the bot
type Config struct {
	// Discord
	BotToken string
	Prefix   string
	OwnerIDs []string

	// Channels
	ZitatChannelID  string
	PepitoChannelID string

	// Weather
	WeatherAPIKey string
	WeatherAPIURL string

	// Storage
	WarningsDir     string
	WarningsBackend string
	ImagesDir       string

	// MongoDB
	MongoDBURL string
	DBName     string

	// MQTT
	MQTTHost     string
	MQTTPort     string
	MQTTUser     string
	MQTTPassword string

	// Pepito event stream
	PepitoURL string

	// Web Server
	Port              string
	AllowedHosts      string
	LogsWebServerHook string

	// Environment
	Environment string

	// Webhooks
	ErrorWebhook string
	LogsWebhook  string
}

var (
	Version   = "Dev-Local"
	BuildTime = "Hoy"
)

// cfg holds the global configuration instance
var (
	cfg     *Config
	cfgOnce sync.Once
)

// resetForTesting resets the configuration for testing purposes.
// This function should only be called from test code.
func resetForTesting() {
	cfg = nil
	cfgOnce = sync.Once{}
}

// loadConfig performs the actual configuration loading
func loadConfig() {
	// Load .env file if it exists (ignoring error if it doesn't)
	_ = godotenv.Load()

	cfg = &Config{
		// Discord
		BotToken: getEnv("DISCORD_TOKEN", ""),
		Prefix:   getEnv("PREFIX", "?"),
		OwnerIDs: splitList(getEnv("OWNER_IDS", "")),

		// Channels
		ZitatChannelID:  getEnv("ZITAT_CHANNEL_ID", "1290616138308386816"),
		PepitoChannelID: getEnv("PEPITO_CHANNEL_ID", "1263881335479472240"),

		// Weather
		WeatherAPIKey: getEnv("WEATHER_API_KEY", ""),
		WeatherAPIURL: getEnv("WEATHER_API_URL", "https://api.openweathermap.org/data/2.5/weather"),

		// Storage
		WarningsDir:     getEnv("WARNINGS_DIR", "warnings"),
		WarningsBackend: getEnv("WARNINGS_BACKEND", "file"),
		ImagesDir:       getEnv("IMAGES_DIR", "images"),

		// MongoDB
		MongoDBURL: getEnv("MONGODB_URL", "mongodb://localhost:27017"),
		DBName:     getEnv("DB_NAME", "ModBot"),

		// MQTT
		MQTTHost:     getEnv("MQTT_HOST", ""),
		MQTTPort:     getEnv("MQTT_PORT", "1883"),
		MQTTUser:     getEnv("MQTT_USER", ""),
		MQTTPassword: getEnv("MQTT_PASSWORD", ""),

		// Pepito
		PepitoURL: getEnv("PEPITO_URL", "https://api.thecatdoor.com/sse/v1/events"),

		// Web Server
		Port:              getEnv("PORT", "3000"),
		AllowedHosts:      getEnv("ALLOWED_HOSTS", ""),
		LogsWebServerHook: getEnv("LOGS_WEB_SERVER_HOOK", ""),

		// Environment
		Environment: getEnv("ENVIRONMENT", "dev"),

		// Webhooks
		ErrorWebhook: getEnv("ERROR_WEBHOOK", ""),
		LogsWebhook:  getEnv("LOGS_WEBHOOK", ""),
	}
}

// Load initializes the configuration from environment variables
func Load() (*Config, error) {
	cfgOnce.Do(loadConfig)
	return cfg, nil
}

// Get returns the current configuration
func Get() *Config {
	// Use sync.Once to ensure thread-safe initialization if Load wasn't called
	cfgOnce.Do(loadConfig)
	return cfg
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// splitList parses a comma separated list, dropping empty items
func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// IsProd returns true if the environment is production
func (c *Config) IsProd() bool {
	return c.Environment == "prod"
}

// MQTTEnabled reports whether an MQTT broker was configured
func (c *Config) MQTTEnabled() bool {
	return c.MQTTHost != ""
}

// UsesMongoWarnings reports whether the warning ledger should live in MongoDB
func (c *Config) UsesMongoWarnings() bool {
	return strings.EqualFold(c.WarningsBackend, "mongo")
}
