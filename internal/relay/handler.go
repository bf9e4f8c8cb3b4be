package relay

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/cxr0801/line-bot/internal/audio"
	"github.com/cxr0801/line-bot/internal/lineclient"
	"github.com/cxr0801/line-bot/internal/observability/metrics"
	"github.com/cxr0801/line-bot/pkg/logging"
)

const signatureHeader = "X-Line-Signature"

var errTranscriptionUnavailable = errors.New("relay: transcription is not configured")

// SignatureVerifier checks an inbound webhook body against its signature
// header.
type SignatureVerifier interface {
	VerifySignature(signature string, body []byte) error
}

// Replier sends the single reply for an inbound event.
type Replier interface {
	ReplyMessage(ctx context.Context, replyToken string, texts ...string) error
}

// Transcriber maps a local audio file to plain text.
type Transcriber interface {
	Transcribe(ctx context.Context, path string) (string, error)
}

// Handler handles LINE webhook requests: verify, parse, route, reply.
type Handler struct {
	verifier    SignatureVerifier
	fetcher     audio.Fetcher
	transcriber Transcriber
	router      *Router
	replier     Replier
	metrics     *metrics.RelayMetrics
	logger      *logging.Logger
}

// NewHandler creates a webhook handler. transcriber may be nil when audio
// handling is unavailable; audio messages then resolve to the transcription
// failure outcome.
func NewHandler(verifier SignatureVerifier, fetcher audio.Fetcher, transcriber Transcriber, router *Router, replier Replier, m *metrics.RelayMetrics, logger *logging.Logger) *Handler {
	if verifier == nil {
		panic("relay: signature verifier cannot be nil")
	}
	if router == nil {
		panic("relay: router cannot be nil")
	}
	if replier == nil {
		panic("relay: replier cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		verifier:    verifier,
		fetcher:     fetcher,
		transcriber: transcriber,
		router:      router,
		replier:     replier,
		metrics:     m,
		logger:      logger,
	}
}

// Callback handles POST /callback requests from the LINE platform.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Error("failed to read webhook body", "error", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if err := h.verifier.VerifySignature(r.Header.Get(signatureHeader), body); err != nil {
		// Signature mismatch is a transport rejection: no reply is owed.
		h.logger.Warn("invalid line signature", "error", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	webhook, err := lineclient.ParseWebhook(body)
	if err != nil {
		h.logger.Error("failed to parse webhook body", "error", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	for _, event := range webhook.Events {
		h.handleEvent(r.Context(), event)
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleEvent drives one message event through the pipeline. Every text or
// audio message gets exactly one reply. A failed reply send is logged and
// dropped; LINE reply tokens are single-use, so there is nothing to retry.
func (h *Handler) handleEvent(ctx context.Context, event lineclient.WebhookEvent) {
	if event.Type != lineclient.EventTypeMessage || event.Message == nil {
		return
	}

	start := time.Now()
	msg := InboundMessage{
		ID:         event.Message.ID,
		ReplyToken: event.ReplyToken,
		SenderID:   event.Source.UserID,
	}

	var out Outcome
	switch event.Message.Type {
	case lineclient.MessageTypeText:
		msg.Kind = KindText
		msg.Text = event.Message.Text
		out = h.router.Route(ctx, msg)
	case lineclient.MessageTypeAudio:
		msg.Kind = KindAudio
		msg.AudioRef = event.Message.ID
		transcript, err := h.transcribeAudio(ctx, event.Message.ID)
		if err != nil {
			h.logger.Error("audio transcription failed", "message_id", event.Message.ID, "error", err)
			out = Outcome{Kind: OutcomeTranscriptFailed}
		} else {
			msg.Text = transcript
			out = h.router.Route(ctx, msg)
		}
	default:
		h.logger.Info("unhandled message type", "type", event.Message.Type, "message_id", event.Message.ID)
		return
	}

	reply := RenderReply(msg, out)
	err := h.replier.ReplyMessage(ctx, msg.ReplyToken, reply)
	if err != nil {
		h.logger.Error("reply send failed", "message_id", msg.ID, "error", err)
	}
	h.metrics.ObserveReply(err == nil)
	h.metrics.ObserveInbound(string(msg.Kind), string(out.Kind))
	h.metrics.ObserveRouteLatency(string(msg.Kind), time.Since(start).Seconds())
}

func (h *Handler) transcribeAudio(ctx context.Context, messageID string) (string, error) {
	if h.fetcher == nil || h.transcriber == nil {
		return "", errTranscriptionUnavailable
	}
	var transcript string
	err := audio.Materialize(ctx, h.fetcher, messageID, func(path string) error {
		text, err := h.transcriber.Transcribe(ctx, path)
		if err != nil {
			return err
		}
		transcript = text
		return nil
	})
	return transcript, err
}

// HealthCheck returns a simple health check response.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
