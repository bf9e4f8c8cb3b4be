package notes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"log/slog"
)

const (
	defaultNotionBaseURL = "https://api.notion.com/v1"
	notionVersion        = "2022-06-28"
	defaultUserAgent     = "line-bot-relay/0.1"
)

// NotionConfig controls how the Notion client behaves.
type NotionConfig struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
	UserAgent  string
}

// NotionClient wraps the Notion pages endpoint the relay depends on.
type NotionClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	userAgent  string
}

// Page is the created-record reference returned by Notion.
type Page struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// NewNotionClient creates a configured NotionClient with sane defaults.
func NewNotionClient(cfg NotionConfig) (*NotionClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("notes: notion api key is required")
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultNotionBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &NotionClient{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
		userAgent:  userAgent,
	}, nil
}

// CreatePage creates a page under the given database with the given
// property map.
func (c *NotionClient) CreatePage(ctx context.Context, databaseID string, properties map[string]any) (*Page, error) {
	if strings.TrimSpace(databaseID) == "" {
		return nil, errors.New("notes: database id required")
	}
	body, err := json.Marshal(map[string]any{
		"parent":     map[string]any{"database_id": databaseID},
		"properties": properties,
	})
	if err != nil {
		return nil, fmt.Errorf("notes: marshal page body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/pages", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("notes: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Notion-Version", notionVersion)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("notes: http error: %w", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("notes: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeNotionError(resp.StatusCode, data)
	}
	var page Page
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("notes: decode response: %w", err)
	}
	return &page, nil
}

type notionError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code,omitempty"`
	Message    string `json:"message,omitempty"`
}

func (e *notionError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("notes: %s (status=%d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("notes: notion http status %d", e.StatusCode)
}

func decodeNotionError(status int, body []byte) error {
	var parsed notionError
	if err := json.Unmarshal(body, &parsed); err != nil {
		return &notionError{StatusCode: status, Message: strings.TrimSpace(string(body))}
	}
	parsed.StatusCode = status
	return &parsed
}
