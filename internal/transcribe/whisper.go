package transcribe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	openai "github.com/openai/openai-go/v3"

	"github.com/cxr0801/line-bot/pkg/logging"
)

// Client maps audio files to plain text via OpenAI Whisper.
type Client struct {
	client openai.Client
	logger *logging.Logger
}

// New creates a transcription client.
func New(client openai.Client, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{client: client, logger: logger}
}

// Transcribe reads the audio file at path and returns the recognized text.
func (c *Client) Transcribe(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("transcribe: open audio file: %w", err)
	}
	defer f.Close()

	resp, err := c.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		Model: openai.AudioModelWhisper1,
		File:  f,
	})
	if err != nil {
		c.logger.Error("whisper transcription failed", "error", err)
		return "", fmt.Errorf("transcribe: whisper request: %w", err)
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", errors.New("transcribe: empty transcription")
	}
	return text, nil
}
