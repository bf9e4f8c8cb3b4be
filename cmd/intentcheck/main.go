package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	appconfig "github.com/cxr0801/line-bot/internal/config"
	"github.com/cxr0801/line-bot/internal/intent"
	"github.com/cxr0801/line-bot/pkg/logging"
)

// intentcheck sends one message through the event extractor and prints
// what came back. Useful for tuning the extraction prompt without
// involving LINE at all:
//
//	go run ./cmd/intentcheck 明天下午三點跟客戶開會
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := appconfig.Load()
	if cfg.OpenAIAPIKey == "" {
		log.Fatal("OPENAI_API_KEY is required")
	}

	text := strings.Join(os.Args[1:], " ")
	if strings.TrimSpace(text) == "" {
		log.Fatal("usage: intentcheck <message text>")
	}

	client := openai.NewClient(option.WithAPIKey(cfg.OpenAIAPIKey))
	extractor := intent.NewExtractor(client, cfg.OpenAIModel, cfg.Timezone, logging.New("debug"))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fmt.Printf("model:    %s\n", cfg.OpenAIModel)
	fmt.Printf("timezone: %s\n", cfg.Timezone)
	fmt.Printf("input:    %s\n\n", text)

	start := time.Now()
	ev := extractor.Extract(ctx, text, time.Now())
	elapsed := time.Since(start).Round(time.Millisecond)

	if ev == nil {
		fmt.Printf("no calendar event detected (%v)\n", elapsed)
		return
	}
	fmt.Printf("event detected (%v)\n", elapsed)
	fmt.Printf("  title:    %s\n", ev.Title)
	fmt.Printf("  start:    %s\n", ev.StartTime)
	fmt.Printf("  end:      %s\n", ev.EndTime)
	if ev.Location != "" {
		fmt.Printf("  location: %s\n", ev.Location)
	}
}
