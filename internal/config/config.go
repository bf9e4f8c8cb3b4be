package config

import (
	"os"
	"strings"
)

// Config holds application configuration. Collaborator credentials are
// optional: an empty value disables that feature path rather than failing
// at startup.
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// LINE Messaging API
	LineChannelAccessToken string
	LineChannelSecret      string

	// OpenAI (intent extraction + Whisper transcription)
	OpenAIAPIKey string
	OpenAIModel  string

	// Google Calendar
	GoogleCalendarCredentials string
	GoogleCalendarID          string

	// Notion
	NotionAPIKey     string
	NotionDatabaseID string

	// IANA timezone used for naive timestamps and note dates
	Timezone string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		LineChannelAccessToken: getEnv("LINE_CHANNEL_ACCESS_TOKEN", ""),
		LineChannelSecret:      getEnv("LINE_CHANNEL_SECRET", ""),

		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4"),

		GoogleCalendarCredentials: getEnv("GOOGLE_CALENDAR_CREDENTIALS", ""),
		GoogleCalendarID:          getEnv("GOOGLE_CALENDAR_ID", "primary"),

		NotionAPIKey:     getEnv("NOTION_API_KEY", ""),
		NotionDatabaseID: getEnv("NOTION_DATABASE_ID", ""),

		Timezone: getEnv("TIMEZONE", "Asia/Taipei"),
	}
}

// CalendarEnabled reports whether the Google Calendar feature path is usable.
func (c *Config) CalendarEnabled() bool {
	return strings.TrimSpace(c.GoogleCalendarCredentials) != ""
}

// NotesEnabled reports whether the Notion feature path is usable.
func (c *Config) NotesEnabled() bool {
	return strings.TrimSpace(c.NotionAPIKey) != "" && strings.TrimSpace(c.NotionDatabaseID) != ""
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
