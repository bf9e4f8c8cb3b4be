package lineclient

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
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
	defaultBaseURL     = "https://api.line.me/v2/bot"
	defaultBlobBaseURL = "https://api-data.line.me/v2/bot"
	defaultUserAgent   = "line-bot-relay/0.1"
)

// Config controls how the LINE Messaging API client behaves.
type Config struct {
	BaseURL            string
	BlobBaseURL        string
	ChannelAccessToken string
	ChannelSecret      string
	Timeout            time.Duration
	HTTPClient         *http.Client
	Logger             *slog.Logger
	UserAgent          string
}

// Client wraps the LINE Messaging API endpoints the relay depends on.
type Client struct {
	accessToken   string
	channelSecret string
	baseURL       string
	blobBaseURL   string
	httpClient    *http.Client
	logger        *slog.Logger
	userAgent     string
}

// ErrSignatureMismatch is returned when an inbound webhook body does not
// match its X-Line-Signature header.
var ErrSignatureMismatch = errors.New("lineclient: signature mismatch")

// New creates a configured Client with sane defaults.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.ChannelAccessToken) == "" {
		return nil, errors.New("lineclient: channel access token is required")
	}
	if strings.TrimSpace(cfg.ChannelSecret) == "" {
		return nil, errors.New("lineclient: channel secret is required")
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	blobBaseURL := strings.TrimSpace(cfg.BlobBaseURL)
	if blobBaseURL == "" {
		blobBaseURL = defaultBlobBaseURL
	}
	blobBaseURL = strings.TrimRight(blobBaseURL, "/")
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
	return &Client{
		accessToken:   cfg.ChannelAccessToken,
		channelSecret: cfg.ChannelSecret,
		baseURL:       baseURL,
		blobBaseURL:   blobBaseURL,
		httpClient:    httpClient,
		logger:        logger,
		userAgent:     userAgent,
	}, nil
}

// VerifySignature checks an inbound webhook body against its
// X-Line-Signature header (base64 HMAC-SHA256 keyed by the channel secret).
func (c *Client) VerifySignature(signature string, body []byte) error {
	signature = strings.TrimSpace(signature)
	if signature == "" {
		return errors.New("lineclient: missing signature header")
	}
	provided, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return fmt.Errorf("lineclient: malformed signature header: %w", err)
	}
	mac := hmac.New(sha256.New, []byte(c.channelSecret))
	mac.Write(body)
	if !hmac.Equal(provided, mac.Sum(nil)) {
		return ErrSignatureMismatch
	}
	return nil
}

// ReplyMessage sends one or more text messages against a reply token.
func (c *Client) ReplyMessage(ctx context.Context, replyToken string, texts ...string) error {
	if strings.TrimSpace(replyToken) == "" {
		return errors.New("lineclient: reply token required")
	}
	if len(texts) == 0 {
		return errors.New("lineclient: at least one message required")
	}
	body, err := json.Marshal(replyRequest{
		ReplyToken: replyToken,
		Messages:   textMessages(texts),
	})
	if err != nil {
		return fmt.Errorf("lineclient: marshal reply body: %w", err)
	}
	_, err = c.invoke(ctx, http.MethodPost, c.baseURL+"/message/reply", body)
	return err
}

// PushMessage sends one or more text messages directly to a user id.
func (c *Client) PushMessage(ctx context.Context, to string, texts ...string) error {
	if strings.TrimSpace(to) == "" {
		return errors.New("lineclient: recipient id required")
	}
	if len(texts) == 0 {
		return errors.New("lineclient: at least one message required")
	}
	body, err := json.Marshal(pushRequest{
		To:       to,
		Messages: textMessages(texts),
	})
	if err != nil {
		return fmt.Errorf("lineclient: marshal push body: %w", err)
	}
	_, err = c.invoke(ctx, http.MethodPost, c.baseURL+"/message/push", body)
	return err
}

// GetMessageContent downloads the binary payload of a media message.
func (c *Client) GetMessageContent(ctx context.Context, messageID string) ([]byte, error) {
	if strings.TrimSpace(messageID) == "" {
		return nil, errors.New("lineclient: message id required")
	}
	return c.invoke(ctx, http.MethodGet, c.blobBaseURL+"/message/"+messageID+"/content", nil)
}

func (c *Client) invoke(ctx context.Context, method, url string, body []byte) ([]byte, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("lineclient: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("lineclient: http error: %w", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("lineclient: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeAPIError(resp.StatusCode, data)
	}
	return data, nil
}

type apiError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message,omitempty"`
	Details    []struct {
		Message  string `json:"message,omitempty"`
		Property string `json:"property,omitempty"`
	} `json:"details,omitempty"`
}

func (e *apiError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("lineclient: %s (status=%d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("lineclient: http status %d", e.StatusCode)
}

func decodeAPIError(status int, body []byte) error {
	var parsed apiError
	if err := json.Unmarshal(body, &parsed); err != nil {
		return &apiError{StatusCode: status, Message: strings.TrimSpace(string(body))}
	}
	parsed.StatusCode = status
	return &parsed
}
