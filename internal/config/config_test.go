package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("TIMEZONE", "")
	t.Setenv("GOOGLE_CALENDAR_ID", "")
	t.Setenv("OPENAI_MODEL", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.Timezone != "Asia/Taipei" {
		t.Fatalf("expected default timezone, got %s", cfg.Timezone)
	}
	if cfg.GoogleCalendarID != "primary" {
		t.Fatalf("expected default calendar id, got %s", cfg.GoogleCalendarID)
	}
	if cfg.OpenAIModel != "gpt-4" {
		t.Fatalf("expected default openai model, got %s", cfg.OpenAIModel)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("TIMEZONE", "America/New_York")
	t.Setenv("GOOGLE_CALENDAR_ID", "team@group.calendar.google.com")
	t.Setenv("NOTION_API_KEY", "secret_abc")
	t.Setenv("NOTION_DATABASE_ID", "db123")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.Timezone != "America/New_York" {
		t.Fatalf("expected timezone override, got %s", cfg.Timezone)
	}
	if cfg.GoogleCalendarID != "team@group.calendar.google.com" {
		t.Fatalf("expected calendar id override, got %s", cfg.GoogleCalendarID)
	}
	if !cfg.NotesEnabled() {
		t.Fatalf("expected notes enabled with key and database id set")
	}
}

func TestFeatureToggles(t *testing.T) {
	t.Setenv("GOOGLE_CALENDAR_CREDENTIALS", "")
	t.Setenv("NOTION_API_KEY", "")
	t.Setenv("NOTION_DATABASE_ID", "db123")
	cfg := Load()
	if cfg.CalendarEnabled() {
		t.Fatalf("expected calendar disabled without credentials")
	}
	if cfg.NotesEnabled() {
		t.Fatalf("expected notes disabled without api key")
	}
}
