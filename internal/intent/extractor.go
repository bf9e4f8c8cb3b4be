package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"

	"github.com/cxr0801/line-bot/pkg/logging"
)

// ExtractedEvent is a schedulable event pulled out of free text. Times are
// ISO-8601 strings as produced by the model; they may or may not carry a
// timezone offset.
type ExtractedEvent struct {
	Title     string
	StartTime string
	EndTime   string
	Location  string
}

// Extractor classifies free text as schedulable-event-or-not via an OpenAI
// chat completion constrained to a single function tool.
type Extractor struct {
	client   openai.Client
	model    string
	timezone string
	logger   *logging.Logger
}

// NewExtractor creates an Extractor. timezone is the IANA name anchored into
// the classification prompt (relative dates resolve against it).
func NewExtractor(client openai.Client, model, timezone string, logger *logging.Logger) *Extractor {
	if logger == nil {
		logger = logging.Default()
	}
	if strings.TrimSpace(model) == "" {
		model = "gpt-4"
	}
	return &Extractor{
		client:   client,
		model:    model,
		timezone: timezone,
		logger:   logger,
	}
}

// toolArguments mirrors the function-call schema.
type toolArguments struct {
	HasEvent  bool   `json:"has_event"`
	Title     string `json:"title"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Location  string `json:"location"`
}

// Extract returns the event encoded in text, or nil. A nil return covers
// "no event", a malformed model response, and any API fault alike; callers
// cannot and must not tell these apart.
func (e *Extractor) Extract(ctx context.Context, text string, now time.Time) *ExtractedEvent {
	resp, err := e.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(e.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(e.systemPrompt(now)),
			openai.UserMessage(text),
		},
		Tools: []openai.ChatCompletionToolUnionParam{
			openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
				Name:        "create_calendar_event",
				Description: openai.String("Create calendar event"),
				Parameters: openai.FunctionParameters{
					"type": "object",
					"properties": map[string]any{
						"has_event":  map[string]any{"type": "boolean"},
						"title":      map[string]any{"type": "string"},
						"start_time": map[string]any{"type": "string"},
						"end_time":   map[string]any{"type": "string"},
						"location":   map[string]any{"type": "string"},
					},
					"required": []string{"has_event"},
				},
			}),
		},
	})
	if err != nil {
		e.logger.Error("intent extraction request failed", "error", err)
		return nil
	}
	if len(resp.Choices) == 0 {
		e.logger.Warn("intent extraction returned no choices")
		return nil
	}
	toolCalls := resp.Choices[0].Message.ToolCalls
	if len(toolCalls) == 0 {
		return nil
	}
	var args toolArguments
	if err := json.Unmarshal([]byte(toolCalls[0].Function.Arguments), &args); err != nil {
		e.logger.Warn("intent extraction arguments malformed", "error", err)
		return nil
	}
	if !args.HasEvent {
		return nil
	}
	if strings.TrimSpace(args.Title) == "" || strings.TrimSpace(args.StartTime) == "" {
		e.logger.Warn("intent extraction missing required fields", "title", args.Title, "start_time", args.StartTime)
		return nil
	}
	if strings.TrimSpace(args.EndTime) == "" {
		args.EndTime = defaultEnd(args.StartTime)
	}
	return &ExtractedEvent{
		Title:     args.Title,
		StartTime: args.StartTime,
		EndTime:   args.EndTime,
		Location:  args.Location,
	}
}

// defaultEnd returns start + 1h in the same layout the model used, so an
// offset-less start stays offset-less. Returns "" when start is not a
// recognizable timestamp; the calendar action reports the parse failure.
func defaultEnd(start string) string {
	if t, err := time.Parse(time.RFC3339, start); err == nil {
		return t.Add(time.Hour).Format(time.RFC3339)
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.Parse(layout, start); err == nil {
			return t.Add(time.Hour).Format("2006-01-02T15:04:05")
		}
	}
	return ""
}

// systemPrompt anchors the classifier to the reference time and spells out
// the relative-time resolution rules. Kept in the users' language since the
// inbound traffic is predominantly Chinese.
func (e *Extractor) systemPrompt(now time.Time) string {
	return fmt.Sprintf(`你是智能行事曆助手。今天：%s

相對時間：
- 明天 = 今天 + 1天
- 下週一 = 下個星期一
- 下午3點 = 15:00

如果訊息不包含事件，回應 has_event=false。
如果包含事件，提取標題、時間（ISO 8601格式）。
未指定結束時間則預設1小時。
時區：%s`, now.Format("2006-01-02 Monday 15:04"), e.timezone)
}
