package lineclient

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	client, err := New(Config{
		ChannelAccessToken: "token",
		ChannelSecret:      "secret",
		BaseURL:            server.URL,
		BlobBaseURL:        server.URL,
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestNewClientDefaultsAndValidation(t *testing.T) {
	if _, err := New(Config{ChannelSecret: "s"}); err == nil {
		t.Fatalf("expected access token validation error")
	}
	if _, err := New(Config{ChannelAccessToken: "t"}); err == nil {
		t.Fatalf("expected channel secret validation error")
	}
	client, err := New(Config{ChannelAccessToken: "t", ChannelSecret: "s"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if client.baseURL != defaultBaseURL {
		t.Fatalf("expected default base url, got %s", client.baseURL)
	}
	if client.blobBaseURL != defaultBlobBaseURL {
		t.Fatalf("expected default blob base url, got %s", client.blobBaseURL)
	}
	if client.httpClient == nil || client.httpClient.Timeout != 10*time.Second {
		t.Fatalf("expected default timeout")
	}
}

func TestVerifySignature(t *testing.T) {
	client, err := New(Config{ChannelAccessToken: "t", ChannelSecret: "secret"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	body := []byte(`{"events":[]}`)
	mac := hmac.New(sha256.New, []byte("secret"))
	mac.Write(body)
	good := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	if err := client.VerifySignature(good, body); err != nil {
		t.Fatalf("expected valid signature, got %v", err)
	}
	if err := client.VerifySignature(good, []byte(`{"events":[{}]}`)); !errors.Is(err, ErrSignatureMismatch) {
		t.Fatalf("expected mismatch for altered body, got %v", err)
	}
	if err := client.VerifySignature("", body); err == nil {
		t.Fatalf("expected error for missing signature")
	}
	if err := client.VerifySignature("not base64!!", body); err == nil {
		t.Fatalf("expected error for malformed signature")
	}
}

func TestReplyMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/message/reply" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer token" {
			t.Fatalf("unexpected auth header %q", got)
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		var req replyRequest
		if err := json.Unmarshal(body, &req); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if req.ReplyToken != "rt-123" || len(req.Messages) != 1 || req.Messages[0].Text != "hello" {
			t.Fatalf("unexpected request: %#v", req)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	if err := client.ReplyMessage(context.Background(), "rt-123", "hello"); err != nil {
		t.Fatalf("reply message: %v", err)
	}
	if err := client.ReplyMessage(context.Background(), "", "hello"); err == nil {
		t.Fatalf("expected reply token validation error")
	}
	if err := client.ReplyMessage(context.Background(), "rt-123"); err == nil {
		t.Fatalf("expected empty messages validation error")
	}
}

func TestPushMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/message/push" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), `"to":"U123"`) {
			t.Fatalf("expected recipient in body, got %s", string(body))
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	if err := client.PushMessage(context.Background(), "U123", "ping"); err != nil {
		t.Fatalf("push message: %v", err)
	}
}

func TestGetMessageContent(t *testing.T) {
	audio := []byte{0x00, 0x01, 0x02, 0x03}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/message/msg-9/content" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "audio/x-m4a")
		w.WriteHeader(http.StatusOK)
		w.Write(audio)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	data, err := client.GetMessageContent(context.Background(), "msg-9")
	if err != nil {
		t.Fatalf("get message content: %v", err)
	}
	if len(data) != len(audio) {
		t.Fatalf("expected %d bytes, got %d", len(audio), len(data))
	}
}

func TestAPIErrorDecoding(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"invalid channel access token"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	err := client.ReplyMessage(context.Background(), "rt", "x")
	if err == nil {
		t.Fatalf("expected api error")
	}
	if !strings.Contains(err.Error(), "invalid channel access token") {
		t.Fatalf("expected api message in error, got %v", err)
	}
	if !strings.Contains(err.Error(), "401") {
		t.Fatalf("expected status in error, got %v", err)
	}
}

func TestParseWebhook(t *testing.T) {
	body := []byte(`{
		"destination": "U-bot",
		"events": [{
			"type": "message",
			"timestamp": 1700000000000,
			"replyToken": "rt-1",
			"source": {"type": "user", "userId": "U-sender"},
			"message": {"id": "m-1", "type": "text", "text": "hi"}
		}]
	}`)
	req, err := ParseWebhook(body)
	if err != nil {
		t.Fatalf("parse webhook: %v", err)
	}
	if len(req.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(req.Events))
	}
	ev := req.Events[0]
	if ev.Type != EventTypeMessage || ev.ReplyToken != "rt-1" || ev.Source.UserID != "U-sender" {
		t.Fatalf("unexpected event: %#v", ev)
	}
	if ev.Message == nil || ev.Message.Type != MessageTypeText || ev.Message.Text != "hi" {
		t.Fatalf("unexpected message: %#v", ev.Message)
	}

	if _, err := ParseWebhook([]byte(`not json`)); err == nil {
		t.Fatalf("expected decode error")
	}
}
