package notes

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cxr0801/line-bot/pkg/logging"
)

type fakePageCreator struct {
	gotDatabaseID string
	gotProperties map[string]any
	page          *Page
	err           error
	calls         int
}

func (f *fakePageCreator) CreatePage(ctx context.Context, databaseID string, properties map[string]any) (*Page, error) {
	f.calls++
	f.gotDatabaseID = databaseID
	f.gotProperties = properties
	if f.err != nil {
		return nil, f.err
	}
	return f.page, nil
}

func newTestAction(t *testing.T, client PageCreator, databaseID string) *Action {
	t.Helper()
	action, err := NewAction(client, databaseID, "Asia/Taipei", logging.New("error"))
	if err != nil {
		t.Fatalf("new action: %v", err)
	}
	action.now = func() time.Time {
		return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	}
	return action
}

func TestCommitWritesAllProperties(t *testing.T) {
	fake := &fakePageCreator{page: &Page{ID: "page_1", URL: "https://notion.so/page_1"}}
	action := newTestAction(t, fake, "db_1")

	result := action.Commit(context.Background(), "買牛奶", TagTextNote)
	if !result.Success {
		t.Fatalf("expected success, got %#v", result)
	}
	if result.PageID != "page_1" || result.URL != "https://notion.so/page_1" {
		t.Fatalf("unexpected result: %#v", result)
	}
	if fake.gotDatabaseID != "db_1" {
		t.Fatalf("unexpected database id %q", fake.gotDatabaseID)
	}

	title := fake.gotProperties["摘要"].(map[string]any)["title"].([]map[string]any)[0]["text"].(map[string]any)["content"]
	if title != "買牛奶" {
		t.Fatalf("unexpected title %v", title)
	}
	sel := fake.gotProperties["類型"].(map[string]any)["select"].(map[string]any)["name"]
	if sel != TagTextNote {
		t.Fatalf("unexpected tag %v", sel)
	}
	date := fake.gotProperties["日期"].(map[string]any)["date"].(map[string]any)["start"].(string)
	if !strings.HasSuffix(date, "+08:00") {
		t.Fatalf("note timestamp should be in configured timezone, got %q", date)
	}
}

func TestCommitTruncatesTitleKeepsContent(t *testing.T) {
	fake := &fakePageCreator{page: &Page{ID: "p", URL: "u"}}
	action := newTestAction(t, fake, "db_1")

	long := strings.Repeat("安", 150)
	result := action.Commit(context.Background(), long, TagVoiceNote)
	if !result.Success {
		t.Fatalf("expected success, got %#v", result)
	}

	title := fake.gotProperties["摘要"].(map[string]any)["title"].([]map[string]any)[0]["text"].(map[string]any)["content"].(string)
	if got := len([]rune(title)); got != 100 {
		t.Fatalf("expected 100-rune title, got %d", got)
	}
	content := fake.gotProperties["內容"].(map[string]any)["rich_text"].([]map[string]any)[0]["text"].(map[string]any)["content"].(string)
	if content != long {
		t.Fatalf("full content must be preserved")
	}
}

func TestCommitGuards(t *testing.T) {
	fake := &fakePageCreator{page: &Page{ID: "p", URL: "u"}}

	t.Run("empty content", func(t *testing.T) {
		action := newTestAction(t, fake, "db_1")
		result := action.Commit(context.Background(), "   ", TagTextNote)
		if result.Success || result.Err == "" {
			t.Fatalf("expected descriptive failure, got %#v", result)
		}
		if fake.calls != 0 {
			t.Fatalf("no write should be attempted for empty content")
		}
	})

	t.Run("nil client", func(t *testing.T) {
		action := newTestAction(t, nil, "db_1")
		if action.Enabled() {
			t.Fatal("action with nil client must not be enabled")
		}
		result := action.Commit(context.Background(), "note", TagTextNote)
		if result.Success || result.Err == "" {
			t.Fatalf("expected descriptive failure, got %#v", result)
		}
	})

	t.Run("missing database id", func(t *testing.T) {
		action := newTestAction(t, fake, "")
		if action.Enabled() {
			t.Fatal("action without database id must not be enabled")
		}
	})
}

func TestCommitSurfacesWriteFault(t *testing.T) {
	fake := &fakePageCreator{err: errors.New("notes: unauthorized (status=401)")}
	action := newTestAction(t, fake, "db_1")

	result := action.Commit(context.Background(), "note", TagTextNote)
	if result.Success {
		t.Fatalf("expected failure, got %#v", result)
	}
	if !strings.Contains(result.Err, "unauthorized") {
		t.Fatalf("expected cause in Err, got %q", result.Err)
	}
}
