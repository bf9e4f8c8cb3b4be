package lineclient

import (
	"encoding/json"
	"fmt"
)

// Message kinds that appear in webhook events. LINE defines more (image,
// video, sticker, ...); the relay only acts on these two and echoes back a
// hint for the rest.
const (
	MessageTypeText  = "text"
	MessageTypeAudio = "audio"
)

// EventTypeMessage is the only webhook event type the relay handles.
const EventTypeMessage = "message"

type textMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func textMessages(texts []string) []textMessage {
	msgs := make([]textMessage, 0, len(texts))
	for _, t := range texts {
		msgs = append(msgs, textMessage{Type: "text", Text: t})
	}
	return msgs
}

type replyRequest struct {
	ReplyToken string        `json:"replyToken"`
	Messages   []textMessage `json:"messages"`
}

type pushRequest struct {
	To       string        `json:"to"`
	Messages []textMessage `json:"messages"`
}

// WebhookRequest is the decoded body of a webhook delivery.
type WebhookRequest struct {
	Destination string         `json:"destination"`
	Events      []WebhookEvent `json:"events"`
}

// WebhookEvent is a single event inside a webhook delivery.
type WebhookEvent struct {
	Type       string          `json:"type"`
	Timestamp  int64           `json:"timestamp"`
	ReplyToken string          `json:"replyToken"`
	Source     EventSource     `json:"source"`
	Message    *MessageContent `json:"message,omitempty"`
}

// EventSource identifies who sent the event.
type EventSource struct {
	Type    string `json:"type"`
	UserID  string `json:"userId,omitempty"`
	GroupID string `json:"groupId,omitempty"`
}

// MessageContent carries the message portion of a message event.
type MessageContent struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	Duration int64  `json:"duration,omitempty"`
}

// ParseWebhook decodes a verified webhook body.
func ParseWebhook(body []byte) (*WebhookRequest, error) {
	var req WebhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, fmt.Errorf("lineclient: decode webhook body: %w", err)
	}
	return &req, nil
}
