package relay

import (
	"context"
	"strings"
	"time"

	"github.com/cxr0801/line-bot/internal/calendarevent"
	"github.com/cxr0801/line-bot/internal/intent"
	"github.com/cxr0801/line-bot/internal/notes"
	"github.com/cxr0801/line-bot/pkg/logging"
)

// notePrefix marks explicit save-this commands. Prefix stripping removes
// exactly these three characters; the remainder is whitespace-trimmed.
const notePrefix = "/a "

// EventExtractor classifies free text as schedulable-event-or-not. A nil
// result covers both "no event" and extraction failure.
type EventExtractor interface {
	Extract(ctx context.Context, text string, now time.Time) *intent.ExtractedEvent
}

// CalendarWriter submits an extracted event to the calendar collaborator.
type CalendarWriter interface {
	Commit(ctx context.Context, ev *intent.ExtractedEvent) calendarevent.WriteResult
}

// NoteWriter persists note content to the record store.
type NoteWriter interface {
	Enabled() bool
	Commit(ctx context.Context, content, tag string) notes.WriteResult
}

// Router owns the intent-routing decision: given a parsed message it picks
// the single action pipeline that owns it and invokes it exactly once. The
// router performs no I/O beyond delegation. Missing collaborators disable
// their branch; they never error.
type Router struct {
	extractor EventExtractor
	calendar  CalendarWriter
	notes     NoteWriter
	logger    *logging.Logger
	now       func() time.Time
}

// NewRouter creates a Router. extractor and calendar may be nil (calendar
// branch disabled); noteWriter may be nil (notes branch disabled).
func NewRouter(extractor EventExtractor, calendar CalendarWriter, noteWriter NoteWriter, logger *logging.Logger) *Router {
	if logger == nil {
		logger = logging.Default()
	}
	return &Router{
		extractor: extractor,
		calendar:  calendar,
		notes:     noteWriter,
		logger:    logger,
		now:       time.Now,
	}
}

// Route maps msg to its terminal outcome. First match wins, no fallthrough
// once matched; at most one external write happens per message. A panic in
// any delegate is converted to a generic failure outcome here rather than
// reaching the transport layer, which would abort the reply entirely.
func (r *Router) Route(ctx context.Context, msg InboundMessage) (out Outcome) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("action panicked", "message_id", msg.ID, "panic", p)
			out = Outcome{Kind: OutcomeFailed}
		}
	}()

	if msg.Kind == KindText && strings.HasPrefix(msg.Text, notePrefix) {
		content := strings.TrimSpace(strings.TrimPrefix(msg.Text, notePrefix))
		res := r.commitNote(ctx, content, notes.TagTextNote)
		return Outcome{Kind: OutcomeNote, Note: &res, NoteContent: content}
	}

	if r.extractor != nil && r.calendar != nil {
		if ev := r.extractor.Extract(ctx, msg.Text, r.now()); ev != nil {
			// The calendar outcome is terminal either way: a failed
			// submission is a user-visible failure, not a fallthrough
			// to echo.
			res := r.calendar.Commit(ctx, ev)
			return Outcome{Kind: OutcomeCalendar, Calendar: &res}
		}
	}

	if msg.Kind == KindAudio && r.notes != nil && r.notes.Enabled() {
		res := r.notes.Commit(ctx, msg.Text, notes.TagVoiceNote)
		return Outcome{Kind: OutcomeNote, Note: &res, NoteContent: msg.Text}
	}

	return Outcome{Kind: OutcomeEcho, EchoText: msg.Text}
}

func (r *Router) commitNote(ctx context.Context, content, tag string) notes.WriteResult {
	if r.notes == nil {
		return notes.WriteResult{Skipped: true, Err: "Notion 未設定"}
	}
	return r.notes.Commit(ctx, content, tag)
}
