package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cxr0801/line-bot/internal/api/router"
	"github.com/cxr0801/line-bot/internal/calendarevent"
	appconfig "github.com/cxr0801/line-bot/internal/config"
	"github.com/cxr0801/line-bot/internal/intent"
	"github.com/cxr0801/line-bot/internal/lineclient"
	"github.com/cxr0801/line-bot/internal/notes"
	"github.com/cxr0801/line-bot/internal/observability/metrics"
	"github.com/cxr0801/line-bot/internal/relay"
	"github.com/cxr0801/line-bot/internal/transcribe"
	"github.com/cxr0801/line-bot/pkg/logging"
)

func main() {
	// Load .env if present, real environments set variables directly
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting line-bot relay",
		"env", cfg.Env,
		"port", cfg.Port,
		"calendar_enabled", cfg.CalendarEnabled(),
		"notes_enabled", cfg.NotesEnabled(),
	)

	lineClient, err := lineclient.New(lineclient.Config{
		ChannelAccessToken: cfg.LineChannelAccessToken,
		ChannelSecret:      cfg.LineChannelSecret,
	})
	if err != nil {
		logger.Error("failed to create LINE client", "error", err)
		os.Exit(1)
	}

	var (
		extractor   relay.EventExtractor
		transcriber relay.Transcriber
	)
	if cfg.OpenAIAPIKey != "" {
		openaiClient := openai.NewClient(option.WithAPIKey(cfg.OpenAIAPIKey))
		extractor = intent.NewExtractor(openaiClient, cfg.OpenAIModel, cfg.Timezone, logger)
		transcriber = transcribe.New(openaiClient, logger)
	} else {
		logger.Warn("OPENAI_API_KEY not set, intent extraction and transcription disabled")
	}

	var calendarWriter relay.CalendarWriter
	if cfg.CalendarEnabled() {
		svc, err := calendarevent.NewService(context.Background(), cfg.GoogleCalendarCredentials)
		if err != nil {
			logger.Error("failed to create calendar service", "error", err)
			os.Exit(1)
		}
		action, err := calendarevent.NewAction(svc, cfg.GoogleCalendarID, cfg.Timezone, logger)
		if err != nil {
			logger.Error("failed to create calendar action", "error", err)
			os.Exit(1)
		}
		calendarWriter = action
	} else {
		logger.Warn("Google Calendar credentials not set, calendar events disabled")
	}

	var noteWriter relay.NoteWriter
	if cfg.NotesEnabled() {
		notionClient, err := notes.NewNotionClient(notes.NotionConfig{
			APIKey: cfg.NotionAPIKey,
			Logger: logger.Logger,
		})
		if err != nil {
			logger.Error("failed to create Notion client", "error", err)
			os.Exit(1)
		}
		action, err := notes.NewAction(notionClient, cfg.NotionDatabaseID, cfg.Timezone, logger)
		if err != nil {
			logger.Error("failed to create notes action", "error", err)
			os.Exit(1)
		}
		noteWriter = action
	} else {
		logger.Warn("Notion credentials not set, note saving disabled")
	}

	registry := prometheus.NewRegistry()
	relayMetrics := metrics.NewRelayMetrics(registry)

	relayRouter := relay.NewRouter(extractor, calendarWriter, noteWriter, logger)
	handler := relay.NewHandler(lineClient, lineClient, transcriber, relayRouter, lineClient, relayMetrics, logger)

	r := router.New(&router.Config{
		Logger:         logger,
		RelayHandler:   handler,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
