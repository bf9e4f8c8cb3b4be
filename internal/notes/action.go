package notes

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cxr0801/line-bot/pkg/logging"
)

// Tags distinguishing how a note arrived.
const (
	TagTextNote  = "文字筆記"
	TagVoiceNote = "語音筆記"
)

const titleLimit = 100

// WriteResult is the terminal outcome of one note write. Skipped marks the
// no-op guard (collaborator unconfigured or nothing to save): a valid
// outcome, not a write fault.
type WriteResult struct {
	Success bool
	Skipped bool
	PageID  string
	URL     string
	Err     string
}

// PageCreator is the narrow Notion surface the action consumes.
type PageCreator interface {
	CreatePage(ctx context.Context, databaseID string, properties map[string]any) (*Page, error)
}

// Action persists text content to a Notion database with a tag and
// timestamp. A nil client makes the action a configured no-op: Commit
// reports the gap instead of writing.
type Action struct {
	client     PageCreator
	databaseID string
	location   *time.Location
	logger     *logging.Logger
	now        func() time.Time
}

// NewAction creates an Action. client may be nil when Notion is not
// configured.
func NewAction(client PageCreator, databaseID, timezone string, logger *logging.Logger) (*Action, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("notes: load timezone %q: %w", timezone, err)
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Action{
		client:     client,
		databaseID: databaseID,
		location:   loc,
		logger:     logger,
		now:        time.Now,
	}, nil
}

// Enabled reports whether the notes feature path is usable.
func (a *Action) Enabled() bool {
	return a != nil && a.client != nil && strings.TrimSpace(a.databaseID) != ""
}

// Commit writes content as a new record. Empty content or a missing
// collaborator returns a descriptive failure without attempting a write.
// Every failure path resolves to WriteResult{Success: false}.
func (a *Action) Commit(ctx context.Context, content, tag string) WriteResult {
	if !a.Enabled() {
		return WriteResult{Skipped: true, Err: "Notion 未設定"}
	}
	if strings.TrimSpace(content) == "" {
		return WriteResult{Skipped: true, Err: "內容為空"}
	}

	title := content
	if runes := []rune(content); len(runes) > titleLimit {
		title = string(runes[:titleLimit])
	}
	now := a.now().In(a.location)

	properties := map[string]any{
		"摘要": map[string]any{
			"title": []map[string]any{
				{"text": map[string]any{"content": title}},
			},
		},
		"內容": map[string]any{
			"rich_text": []map[string]any{
				{"text": map[string]any{"content": content}},
			},
		},
		"日期": map[string]any{
			"date": map[string]any{"start": now.Format(time.RFC3339)},
		},
		"類型": map[string]any{
			"select": map[string]any{"name": tag},
		},
	}

	page, err := a.client.CreatePage(ctx, a.databaseID, properties)
	if err != nil {
		a.logger.Error("notion page create failed", "database_id", a.databaseID, "tag", tag, "error", err)
		return WriteResult{Err: err.Error()}
	}
	a.logger.Info("note saved", "page_id", page.ID, "tag", tag)
	return WriteResult{Success: true, PageID: page.ID, URL: page.URL}
}
