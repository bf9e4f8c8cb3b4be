package relay

import (
	"github.com/cxr0801/line-bot/internal/calendarevent"
	"github.com/cxr0801/line-bot/internal/notes"
)

// MessageKind distinguishes the two inbound message shapes the relay acts on.
type MessageKind string

const (
	KindText  MessageKind = "text"
	KindAudio MessageKind = "audio"
)

// InboundMessage is one unit of user input delivered by the chat transport.
// Immutable once constructed; consumed exactly once by the router; never
// persisted.
type InboundMessage struct {
	ID         string
	Kind       MessageKind
	ReplyToken string
	SenderID   string
	// Text holds the message text, or the transcript for audio messages.
	Text string
	// AudioRef is the opaque content reference for audio messages.
	AudioRef string
}

// OutcomeKind tags the terminal result of handling one inbound message.
type OutcomeKind string

const (
	OutcomeCalendar         OutcomeKind = "calendar"
	OutcomeNote             OutcomeKind = "note"
	OutcomeEcho             OutcomeKind = "echo"
	OutcomeTranscriptFailed OutcomeKind = "transcript_failed"
	OutcomeFailed           OutcomeKind = "failed"
)

// Outcome is the single terminal result of one inbound message. Exactly one
// Outcome is produced per InboundMessage and rendered into exactly one
// reply; silence is itself a bug.
type Outcome struct {
	Kind     OutcomeKind
	Calendar *calendarevent.WriteResult
	Note     *notes.WriteResult
	// NoteContent is the content handed to the notes action, kept for
	// rendering (the reply echoes what was saved).
	NoteContent string
	EchoText    string
}
